/*
 * gocoords.go, part of gopca
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package v3

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SomeVecs puts in F the vectors of A with indexes in clist, in that order.
// It panics if F does not have exactly len(clist) vectors.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	if F.NVecs() != len(clist) {
		panic(errShape)
	}
	an := A.NVecs()
	for i, v := range clist {
		if v < 0 || v >= an {
			panic(errIndex)
		}
		F.SetRow(i, A.RawRowView(v))
	}
}

// SomeVecsSafe is like SomeVecs but returns an error instead of panicking.
func (F *Matrix) SomeVecsSafe(A *Matrix, clist []int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if p, ok := r.(PanicMsg); ok {
				err = Error{string(p), []string{"SomeVecsSafe"}, true}
				return
			}
			panic(r)
		}
	}()
	F.SomeVecs(A, clist)
	return nil
}

// SetVecs sets the vectors of F with indexes in clist to the
// consecutive vectors of A.
func (F *Matrix) SetVecs(A *Matrix, clist []int) {
	if A.NVecs() < len(clist) {
		panic(errShape)
	}
	fn := F.NVecs()
	for i, v := range clist {
		if v < 0 || v >= fn {
			panic(errIndex)
		}
		F.SetRow(v, A.RawRowView(i))
	}
}

// AddVec adds the row vector vec to each vector of A, putting the result in F.
func (F *Matrix) AddVec(A, vec *Matrix) {
	F.addScaledVec(A, vec, 1)
}

// SubVec subtracts the row vector vec from each vector of A, putting the result in F.
func (F *Matrix) SubVec(A, vec *Matrix) {
	F.addScaledVec(A, vec, -1)
}

func (F *Matrix) addScaledVec(A, vec *Matrix, s float64) {
	ar := A.NVecs()
	if vec.NVecs() != 1 || F.NVecs() != ar {
		panic(errShape)
	}
	v := vec.RawRowView(0)
	for i := 0; i < ar; i++ {
		a := A.RawRowView(i)
		f := F.RawRowView(i)
		for j := range f {
			f[j] = a[j] + s*v[j]
		}
	}
}

// Cross puts the cross product of the vectors a and b in F.
func (F *Matrix) Cross(a, b *Matrix) {
	if a.NVecs() != 1 || b.NVecs() != 1 || F.NVecs() != 1 {
		panic(errShape)
	}
	x := a.RawRowView(0)
	y := b.RawRowView(0)
	F.Set(0, 0, x[1]*y[2]-x[2]*y[1])
	F.Set(0, 1, x[2]*y[0]-x[0]*y[2])
	F.Set(0, 2, x[0]*y[1]-x[1]*y[0])
}

// Dot returns the dot product of the vectors a and b.
func Dot(a, b *Matrix) float64 {
	if a.NVecs() != 1 || b.NVecs() != 1 {
		panic(errShape)
	}
	return mat.Dot(a.RowView(0), b.RowView(0))
}

// Unit puts in F the vector A divided by its norm. F and A can be the same matrix.
func (F *Matrix) Unit(A *Matrix) {
	n := A.Norm(2)
	if n == 0 {
		F.Dense.Copy(A.Dense)
		return
	}
	//gonum only allows F and A to alias when it gets the Dense itself.
	F.Dense.Scale(1/n, A.Dense)
}

// Centroid returns the geometric center of the vectors in F.
func (F *Matrix) Centroid() *Matrix {
	c := Zeros(1)
	n := F.NVecs()
	if n == 0 {
		return c
	}
	var x, y, z float64
	for i := 0; i < n; i++ {
		r := F.RawRowView(i)
		x += r[0]
		y += r[1]
		z += r[2]
	}
	c.SetRow(0, []float64{x / float64(n), y / float64(n), z / float64(n)})
	return c
}

// KronekerDelta returns 1 if a and b are equal within epsilon, 0 otherwise.
func KronekerDelta(a, b, epsilon float64) float64 {
	if epsilon < 0 {
		epsilon = appzero
	}
	if math.Abs(a-b) <= epsilon {
		return 1
	}
	return 0
}

const appzero float64 = 0.000000000001

/*
 * gonum.go, part of gopca
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
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a set of vectors in 3D space, one vector (i.e. the cartesian
// coordinates of a point) per row.
type Matrix struct {
	*mat.Dense
}

// Matrix2Dense returns the underlying gonum Dense.
func Matrix2Dense(A *Matrix) *mat.Dense {
	return A.Dense
}

// Dense2Matrix wraps a Nx3 Dense. It panics if A does not have 3 columns.
func Dense2Matrix(A *mat.Dense) *Matrix {
	if _, c := A.Dims(); c != 3 {
		panic(not3xXMatrix)
	}
	return &Matrix{A}
}

// NewMatrix generates and returns a Matrix with 3 columns from data.
// data is not copied.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	if l%cols != 0 || l == 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	return &Matrix{mat.NewDense(l/cols, cols, data)}, nil
}

// Zeros returns a zero-filled Matrix with vecs vectors.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	return &Matrix{mat.NewDense(vecs, cols, make([]float64, cols*vecs))}
}

// VecView returns a view of the ith vector of the matrix.
// Changes in the view are reflected in F and vice-versa.
func (F *Matrix) VecView(i int) *Matrix {
	return &Matrix{F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)}
}

// View returns a view of F starting from the ith vector and spanning n vectors.
func (F *Matrix) View(i, n int) *Matrix {
	return &Matrix{F.Dense.Slice(i, i+n, 0, 3).(*mat.Dense)}
}

// NVecs returns the number of vectors in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(not3xXMatrix)
	}
	return r
}

// Len is the same as NVecs, so a Matrix can be used where the
// number of atoms is needed.
func (F *Matrix) Len() int {
	return F.NVecs()
}

// Norm returns the norm of F. For a single vector and n=2 this
// is its Euclidean length.
func (F *Matrix) Norm(n float64) float64 {
	return mat.Norm(F.Dense, n)
}

// String returns a PDB-like table of the vectors in F.
func (F *Matrix) String() string {
	if F == nil || F.Dense == nil {
		return "<nil>"
	}
	var b strings.Builder
	for i := 0; i < F.NVecs(); i++ {
		fmt.Fprintf(&b, "%8.3f%8.3f%8.3f\n", F.At(i, 0), F.At(i, 1), F.At(i, 2))
	}
	return b.String()
}

//Errors

// Error is the error type for the package. It implements
// the decoration scheme used in the rest of the module.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string { return err.message }

// Decorate adds dec to the decoration slice of the error, and returns the slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical.
func (err Error) Critical() bool { return err.critical }

// PanicMsg is the type of the values v3 panics with.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	not3xXMatrix = PanicMsg("goChem/v3: A VecMatrix should have 3 columns")
	errShape     = PanicMsg("goChem/v3: Wrong shape for the operation")
	errIndex     = PanicMsg("goChem/v3: Index out of range")
)

/*
 * geometric.go, part of gopca
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

package chem

import (
	"fmt"
	"math"

	v3 "github.com/rmera/gopca/v3"
	"gonum.org/v1/gonum/mat"
)

// Distance returns the distance between the points a and b.
func Distance(a, b *v3.Matrix) float64 {
	d := v3.Zeros(1)
	d.Sub(a, b)
	return d.Norm(2)
}

// Angle takes 2 vectors and calculate the angle in radians between them
// It does not check for correctness or return errors!
func Angle(v1, v2 *v3.Matrix) float64 {
	normproduct := v1.Norm(2) * v2.Norm(2)
	if normproduct == 0 {
		return 0
	}
	cos := v3.Dot(v1, v2) / normproduct
	//floating point errors can take us a tiny bit out of the domain of Acos
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos)
}

// BondAngle returns the angle a-b-c, in radians, with b as the vertex.
func BondAngle(a, b, c *v3.Matrix) float64 {
	ba := v3.Zeros(1)
	bc := v3.Zeros(1)
	ba.Sub(a, b)
	bc.Sub(c, b)
	return Angle(ba, bc)
}

// Dihedral calculates the dihedral between the points a, b, c, d, where the first plane
// is defined by abc and the second by bcd. The result is in radians, in the (-pi, pi] range,
// with the IUPAC sign convention.
func Dihedral(a, b, c, d *v3.Matrix) float64 {
	b1 := v3.Zeros(1)
	b2 := v3.Zeros(1)
	b3 := v3.Zeros(1)
	b1.Sub(b, a)
	b2.Sub(c, b)
	b3.Sub(d, c)
	n1 := v3.Zeros(1)
	n2 := v3.Zeros(1)
	n1.Cross(b1, b2)
	n2.Cross(b2, b3)
	m := v3.Zeros(1)
	m.Cross(n1, n2)
	b2u := v3.Zeros(1)
	b2u.Unit(b2)
	y := v3.Dot(m, b2u)
	x := v3.Dot(n1, n2)
	return math.Atan2(y, x)
}

// RMSD returns the RMSD (root means square deviation) for the sets of cartesian
// coordinates test and template. If indexes are given, only the atoms with those
// indexes are considered; the first slice is used for test and the second, if given,
// for template (otherwise the first is also used for template).
// No superposition is performed.
func RMSD(test, template *v3.Matrix, indexes ...[]int) (float64, error) {
	var err error
	ctest, ctempl := test, template
	if len(indexes) > 0 && indexes[0] != nil {
		tempindex := indexes[0]
		if len(indexes) > 1 && indexes[1] != nil {
			tempindex = indexes[1]
		}
		ctest = v3.Zeros(len(indexes[0]))
		if err = ctest.SomeVecsSafe(test, indexes[0]); err != nil {
			return -1, errDecorate(err, "RMSD")
		}
		ctempl = v3.Zeros(len(tempindex))
		if err = ctempl.SomeVecsSafe(template, tempindex); err != nil {
			return -1, errDecorate(err, "RMSD")
		}
	}
	n := ctest.NVecs()
	if n != ctempl.NVecs() || n == 0 {
		return -1, CError{fmt.Sprintf("Ill formed matrices for RMSD calculation: %d and %d vectors", n, ctempl.NVecs()), []string{"RMSD"}}
	}
	var sq float64
	for i := 0; i < n; i++ {
		t := ctest.RawRowView(i)
		r := ctempl.RawRowView(i)
		for j := range t {
			sq += (t[j] - r[j]) * (t[j] - r[j])
		}
	}
	return math.Sqrt(sq / float64(n)), nil
}

// RotatorTranslatorToSuper superimposes the set of cartesian coordinates given as the rows of the matrix test on the ones of the rows
// of the matrix templa. Returns the 3x3 rotation matrix R, which must be applied to the centered test coordinates
// (as test_centered * R), and the centroids of test and templa. The superposition is the Kabsch least-squares
// solution, computed with a singular value decomposition, and never includes a reflection.
func RotatorTranslatorToSuper(test, templa *v3.Matrix) (*mat.Dense, *v3.Matrix, *v3.Matrix, error) {
	n := test.NVecs()
	if n != templa.NVecs() || n < 3 {
		return nil, nil, nil, CError{fmt.Sprintf("Can't superimpose %d on %d vectors, at least 3 equal sets of vectors are needed", n, templa.NVecs()), []string{"RotatorTranslatorToSuper"}}
	}
	ctest := test.Centroid()
	ctempla := templa.Centroid()
	P := v3.Zeros(n)
	Q := v3.Zeros(n)
	P.SubVec(test, ctest)
	Q.SubVec(templa, ctempla)
	H := mat.NewDense(3, 3, nil)
	H.Mul(P.T(), Q)
	var svd mat.SVD
	if ok := svd.Factorize(H, mat.SVDFull); !ok {
		return nil, nil, nil, CError{"SVD factorization failed", []string{"RotatorTranslatorToSuper"}}
	}
	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)
	R := mat.NewDense(3, 3, nil)
	R.Mul(&U, V.T())
	if mat.Det(R) < 0 {
		//reflection, we flip the axis with the smallest singular value.
		for i := 0; i < 3; i++ {
			U.Set(i, 2, -U.At(i, 2))
		}
		R.Mul(&U, V.T())
	}
	return R, ctest, ctempla, nil
}

// Super determines the best rotation and translations to superimpose the atoms of molecule test, listed in testlst
// on the atoms of molecule templa, listed in templalst. It applies those rotation and translations to the whole
// molecule test, and returns the result as a new matrix. If testlst and templalst are nil, all atoms are used.
func Super(test, templa *v3.Matrix, testlst, templalst []int) (*v3.Matrix, error) {
	ctest, ctempla := test, templa
	if testlst != nil {
		ctest = v3.Zeros(len(testlst))
		if err := ctest.SomeVecsSafe(test, testlst); err != nil {
			return nil, errDecorate(err, "Super")
		}
	}
	if templalst != nil {
		ctempla = v3.Zeros(len(templalst))
		if err := ctempla.SomeVecsSafe(templa, templalst); err != nil {
			return nil, errDecorate(err, "Super")
		}
	}
	R, centroidtest, centroidtempla, err := RotatorTranslatorToSuper(ctest, ctempla)
	if err != nil {
		return nil, errDecorate(err, "Super")
	}
	centered := v3.Zeros(test.NVecs())
	centered.SubVec(test, centroidtest)
	ret := v3.Zeros(test.NVecs())
	ret.Mul(centered, R)
	ret.AddVec(ret, centroidtempla)
	return ret, nil
}

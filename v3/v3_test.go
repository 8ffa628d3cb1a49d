/*
 * v3_test.go, part of gopca
 *
 * Copyright 2013 Raul Mera <rmera@zinc>
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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestNewMatrix(Te *testing.T) {
	if _, err := NewMatrix([]float64{1, 2, 3, 4}); err == nil {
		Te.Error("expected an error for a slice not divisible by 3")
	}
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 3 || A.Len() != 3 {
		Te.Errorf("expected 3 vectors, got %d", A.NVecs())
	}
	View := A.VecView(1)
	View.Set(0, 0, 100)
	if A.At(1, 0) != 100 {
		Te.Error("changes in a VecView should be reflected in the original matrix")
	}
}

func TestSomeVecs(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18})
	if err != nil {
		Te.Fatal(err)
	}
	B := Zeros(3)
	if err := B.SomeVecsSafe(A, []int{1, 3, 5}); err != nil {
		Te.Fatal(err)
	}
	want := []float64{4, 5, 6, 10, 11, 12, 16, 17, 18}
	if diff := cmp.Diff(want, B.RawMatrix().Data); diff != "" {
		Te.Errorf("SomeVecs mismatch (-want +got):\n%s", diff)
	}
	if err := B.SomeVecsSafe(A, []int{1, 3, 7}); err == nil {
		Te.Error("expected an error for an out of range index")
	}
	C := Zeros(6)
	C.SetVecs(B, []int{0, 2, 4})
	if C.At(2, 1) != 11 {
		Te.Errorf("SetVecs put %v in vector 2", C.VecView(2).RawRowView(0))
	}
}

func TestGeo(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 0, 0, 3, 0, 0})
	c := A.Centroid()
	if diff := cmp.Diff([]float64{2, 0, 0}, c.RawRowView(0)); diff != "" {
		Te.Errorf("Centroid mismatch (-want +got):\n%s", diff)
	}
	B := Zeros(2)
	B.SubVec(A, c)
	if diff := cmp.Diff([]float64{-1, 0, 0, 1, 0, 0}, B.RawMatrix().Data); diff != "" {
		Te.Errorf("SubVec mismatch (-want +got):\n%s", diff)
	}
	x, _ := NewMatrix([]float64{1, 0, 0})
	y, _ := NewMatrix([]float64{0, 1, 0})
	z := Zeros(1)
	z.Cross(x, y)
	if diff := cmp.Diff([]float64{0, 0, 1}, z.RawRowView(0)); diff != "" {
		Te.Errorf("Cross mismatch (-want +got):\n%s", diff)
	}
	if Dot(x, y) != 0 {
		Te.Error("orthogonal vectors should have a zero dot product")
	}
	d, _ := NewMatrix([]float64{3, 4, 0})
	if math.Abs(d.Norm(2)-5) > appzero {
		Te.Errorf("Norm of (3,4,0) should be 5, got %f", d.Norm(2))
	}
	u := Zeros(1)
	u.Unit(d)
	if diff := cmp.Diff([]float64{0.6, 0.8, 0}, u.RawRowView(0), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		Te.Errorf("Unit mismatch (-want +got):\n%s", diff)
	}
	d.Unit(d)
	if diff := cmp.Diff([]float64{0.6, 0.8, 0}, d.RawRowView(0), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		Te.Errorf("in-place Unit mismatch (-want +got):\n%s", diff)
	}
}

func TestCentroid(Te *testing.T) {
	A, _ := NewMatrix([]float64{10, -4, 2, 12, -2, 2, 14, 0, 8})
	c := A.Centroid()
	if diff := cmp.Diff([]float64{12, -2, 4}, c.RawRowView(0), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		Te.Errorf("Centroid mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{10, -4, 2}, A.RawRowView(0)); diff != "" {
		Te.Errorf("Centroid modified its receiver (-want +got):\n%s", diff)
	}
}

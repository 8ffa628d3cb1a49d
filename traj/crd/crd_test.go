/*
 * crd_test.go, part of gopca
 *
 * Copyright 2018 Raul Mera Adasme <rmera_changeforat_chem-dot-helsinki-dot-fi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License  as published by
 * the Free Software Foundation; either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 */

package crd

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	chem "github.com/rmera/gopca"
	v3 "github.com/rmera/gopca/v3"
)

func frames(n, natoms int) []*v3.Matrix {
	ret := make([]*v3.Matrix, n)
	for i := range ret {
		d := make([]float64, 0, 3*natoms)
		for j := 0; j < natoms; j++ {
			d = append(d, float64(i)+1.5*float64(j), -10*math.Sin(float64(j)), 0.25*float64(i*j))
		}
		ret[i], _ = v3.NewMatrix(d)
	}
	return ret
}

func write(Te *testing.T, name string, natoms int, box bool, fr []*v3.Matrix) {
	Te.Helper()
	w, err := NewWriter(name, natoms, box)
	if err != nil {
		Te.Fatal(err)
	}
	b := []float64{40, 0, 0, 0, 41, 0, 0, 0, 42}
	for _, f := range fr {
		if err := w.WNext(f, b); err != nil {
			Te.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		Te.Fatal(err)
	}
}

func readAll(Te *testing.T, name string, natoms int, box []float64) []*v3.Matrix {
	Te.Helper()
	r, err := New(name, natoms)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	var ret []*v3.Matrix
	for {
		c := v3.Zeros(natoms)
		if err := r.Next(c, box); err != nil {
			if _, ok := err.(chem.LastFrameError); ok {
				break
			}
			Te.Fatal(err)
		}
		ret = append(ret, c)
	}
	return ret
}

func TestCrdRoundTrip(Te *testing.T) {
	dir := Te.TempDir()
	//5 atoms give 2 lines per frame, 4 atoms (12 values) give a line with 2 fields.
	for _, natoms := range []int{4, 5, 10} {
		for _, withBox := range []bool{false, true} {
			name := filepath.Join(dir, "t.crd")
			ref := frames(4, natoms)
			write(Te, name, natoms, withBox, ref)
			box := make([]float64, 9)
			got := readAll(Te, name, natoms, box)
			if len(got) != len(ref) {
				Te.Fatalf("%d atoms, box %v: read %d frames, wrote %d", natoms, withBox, len(got), len(ref))
			}
			for i := range got {
				if diff := cmp.Diff(ref[i].RawMatrix().Data, got[i].RawMatrix().Data, cmpopts.EquateApprox(0, 6e-4)); diff != "" {
					Te.Errorf("%d atoms, box %v, frame %d (-want +got):\n%s", natoms, withBox, i, diff)
				}
			}
			if withBox && (box[0] != 40 || box[4] != 41 || box[8] != 42) {
				Te.Errorf("%d atoms: wrong box %v", natoms, box)
			}
		}
	}
}

func TestCrdSkip(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "t.mdcrd")
	ref := frames(3, 5)
	write(Te, name, 5, true, ref)
	r, err := New(name, 5)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	if err := r.Next(nil); err != nil {
		Te.Fatal(err)
	}
	c := v3.Zeros(5)
	if err := r.Next(c); err != nil {
		Te.Fatal(err)
	}
	if math.Abs(c.At(4, 2)-ref[1].At(4, 2)) > 1e-3 {
		Te.Errorf("Skipping gave the wrong frame: %f vs %f", c.At(4, 2), ref[1].At(4, 2))
	}
}

func TestCrdErrors(Te *testing.T) {
	dir := Te.TempDir()
	name := filepath.Join(dir, "t.crd")
	write(Te, name, 4, false, frames(2, 4))
	if _, err := New(name, 2); err == nil {
		Te.Error("Expected an error with the wrong number of atoms")
	}
	if _, err := New(filepath.Join(dir, "missing.crd"), 4); err == nil {
		Te.Error("Expected an error for a missing file")
	}
	w, _ := NewWriter(filepath.Join(dir, "w.crd"), 4, true)
	if err := w.WNext(frames(1, 4)[0]); err == nil {
		Te.Error("Expected an error for a missing box")
	}
	if err := w.WNext(frames(1, 3)[0], make([]float64, 9)); err == nil {
		Te.Error("Expected an error for a wrong number of atoms")
	}
	big := frames(1, 4)[0]
	big.Set(0, 0, 12345)
	if err := w.WNext(big, make([]float64, 9)); err == nil {
		Te.Error("Expected an error for a coordinate out of range")
	}
	w.Close()
	//truncated frame
	data, _ := os.ReadFile(name)
	trunc := filepath.Join(dir, "trunc.crd")
	os.WriteFile(trunc, data[:len(data)-10], 0o644)
	r, err := New(trunc, 4)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	if err := r.Next(nil); err != nil {
		Te.Fatal(err)
	}
	err = r.Next(nil)
	if _, ok := err.(chem.LastFrameError); ok || err == nil {
		Te.Errorf("Expected a format error for a truncated frame, got %v", err)
	}
}

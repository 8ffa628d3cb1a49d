/*
 * featurize_test.go, part of gopca
 *
 * Copyright 2026 Raul Mera <rmera{at}usachDOTcl>
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

package featurize

import (
	"context"
	"errors"
	"io/fs"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	chem "github.com/rmera/gopca"
	"github.com/rmera/gopca/traj/dcd"
	v3 "github.com/rmera/gopca/v3"
	"gonum.org/v1/gonum/mat"
)

// peptide returns a 3-residue backbone (N, CA, C, O per residue) topology.
func peptide() *chem.Topology {
	var atoms []*chem.Atom
	for r := 1; r <= 3; r++ {
		for _, n := range []string{"N", "CA", "C", "O"} {
			atoms = append(atoms, &chem.Atom{Name: n, ID: len(atoms) + 1, MolName: "ALA", MolID: r, Chain: "A", Symbol: n[:1]})
		}
	}
	return chem.NewTopology(0, 1, atoms)
}

// frame returns the k-th frame of a 12-atom test trajectory.
func frame(k int) *v3.Matrix {
	d := make([]float64, 0, 36)
	for j := 0; j < 12; j++ {
		fj, fk := float64(j), float64(k)
		d = append(d, 1.5*fj+0.1*fk*math.Sin(fj), math.Cos(fj+0.3*fk), 0.2*fj*math.Sin(0.5*fk)+0.05*fj*fj)
	}
	m, _ := v3.NewMatrix(d)
	return m
}

func writeDCD(Te *testing.T, name string, frames int) string {
	Te.Helper()
	w, err := dcd.NewWriter(name, 12)
	if err != nil {
		Te.Fatal(err)
	}
	for k := 0; k < frames; k++ {
		if err := w.WNext(frame(k)); err != nil {
			Te.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		Te.Fatal(err)
	}
	return name
}

var testPairs = &Distances{Pairs: [][2]int{{0, 4}, {1, 9}, {3, 11}}}

func TestAll(Te *testing.T) {
	dir := Te.TempDir()
	files := []string{writeDCD(Te, filepath.Join(dir, "a.dcd"), 10), writeDCD(Te, filepath.Join(dir, "b.dcd"), 15)}
	ds, err := All(context.Background(), files, peptide(), testPairs)
	if err != nil {
		Te.Fatal(err)
	}
	r, c := ds.X.Dims()
	if r != 25 || c != 3 {
		Te.Fatalf("Expected a 25x3 matrix, got %dx%d", r, c)
	}
	if ds.Rows() != 25 || len(ds.Files) != 2 {
		Te.Fatalf("Wrong provenance: %d rows, %d files", ds.Rows(), len(ds.Files))
	}
	for i, idx := range ds.Indices {
		want := Index{File: 0, Frame: i}
		if i >= 10 {
			want = Index{File: 1, Frame: i - 10}
		}
		if idx != want {
			Te.Errorf("Row %d: got index %+v, want %+v", i, idx, want)
		}
	}
	//row 12 is frame 2 of the second file.
	f := frame(2)
	want := chem.Distance(f.VecView(1), f.VecView(9))
	if math.Abs(ds.X.At(12, 1)-want) > 1e-4 {
		Te.Errorf("Row 12, feature 1: got %f want %f", ds.X.At(12, 1), want)
	}
}

func TestAllDeterministic(Te *testing.T) {
	dir := Te.TempDir()
	var files []string
	for i, n := range []int{7, 3, 12, 1, 5} {
		files = append(files, writeDCD(Te, filepath.Join(dir, string(rune('a'+i))+".dcd"), n))
	}
	o1 := DefaultOptions()
	o1.Workers(1)
	o4 := DefaultOptions()
	o4.Workers(4)
	ds1, err := All(context.Background(), files, peptide(), testPairs, o1)
	if err != nil {
		Te.Fatal(err)
	}
	ds4, err := All(context.Background(), files, peptide(), testPairs, o4)
	if err != nil {
		Te.Fatal(err)
	}
	if !mat.Equal(ds1.X, ds4.X) {
		Te.Error("Feature matrices differ with different numbers of workers")
	}
	if diff := cmp.Diff(ds1.Indices, ds4.Indices); diff != "" {
		Te.Errorf("Indices differ (-1 worker +4 workers):\n%s", diff)
	}
}

func TestAllStride(Te *testing.T) {
	dir := Te.TempDir()
	files := []string{writeDCD(Te, filepath.Join(dir, "a.dcd"), 10), writeDCD(Te, filepath.Join(dir, "empty.dcd"), 0)}
	o := DefaultOptions()
	o.Stride(3)
	ds, err := All(context.Background(), files, peptide(), testPairs, o)
	if err != nil {
		Te.Fatal(err)
	}
	want := []Index{{0, 0}, {0, 3}, {0, 6}, {0, 9}}
	if diff := cmp.Diff(want, ds.Indices); diff != "" {
		Te.Errorf("Strided indices differ (-want +got):\n%s", diff)
	}
	if len(ds.Files) != 2 {
		Te.Errorf("The empty trajectory must stay in the file list, got %v", ds.Files)
	}
}

func TestAllErrors(Te *testing.T) {
	dir := Te.TempDir()
	good := writeDCD(Te, filepath.Join(dir, "a.dcd"), 4)
	if _, err := All(context.Background(), nil, peptide(), testPairs); !errors.Is(err, ErrNoInput) {
		Te.Errorf("Expected ErrNoInput, got %v", err)
	}
	missing := filepath.Join(dir, "missing.dcd")
	_, err := All(context.Background(), []string{good, missing}, peptide(), testPairs)
	if !errors.Is(err, ErrLoad) {
		Te.Errorf("Expected ErrLoad, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), missing) {
		Te.Errorf("The error doesn't name the offending file: %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		Te.Errorf("The error lost its cause: %v", err)
	}
	small := chem.NewTopology(0, 1, peptide().Atoms[:8])
	if _, err := All(context.Background(), []string{good}, small, &Distances{Pairs: [][2]int{{0, 1}}}); !errors.Is(err, ErrLoad) {
		Te.Errorf("Expected ErrLoad for an atom-count mismatch, got %v", err)
	}
	if _, err := All(context.Background(), []string{good}, peptide(), &Distances{Pairs: [][2]int{{0, 12}}}); !errors.Is(err, ErrLoad) {
		Te.Errorf("Expected ErrLoad for an out-of-range index, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := All(ctx, []string{good}, peptide(), testPairs); err == nil {
		Te.Error("Expected an error with a cancelled context")
	}
}

func TestStackDimension(Te *testing.T) {
	parts := []Part{
		{File: "one.dcd", X: mat.NewDense(2, 3, nil), Width: 3, Frames: []int{0, 1}},
		{File: "two.dcd", X: mat.NewDense(1, 4, nil), Width: 4, Frames: []int{0}},
	}
	_, err := Stack(parts)
	if !errors.Is(err, ErrDimension) {
		Te.Fatalf("Expected ErrDimension, got %v", err)
	}
	for _, s := range []string{"one.dcd", "two.dcd", "3", "4"} {
		if !strings.Contains(err.Error(), s) {
			Te.Errorf("The error message doesn't contain %q: %v", s, err)
		}
	}
}

func TestFeaturizers(Te *testing.T) {
	top := peptide()
	ref := frame(0)
	mol, err := chem.NewMolecule([]*v3.Matrix{ref}, top, nil)
	if err != nil {
		Te.Fatal(err)
	}
	//a rigid rotation and translation of the reference frame.
	rot := mat.NewDense(3, 3, []float64{0, -1, 0, 1, 0, 0, 0, 0, 1})
	moved := v3.Zeros(12)
	moved.Mul(ref, rot)
	shift, _ := v3.NewMatrix([]float64{3, -2, 1})
	moved.AddVec(moved, shift)

	rmsd := &RMSD{Atoms: []int{0, 1, 2, 3, 4, 5}}
	dst := make([]float64, 1)
	if err := rmsd.Featurize(moved, mol, dst); err != nil {
		Te.Fatal(err)
	}
	if dst[0] > 1e-8 {
		Te.Errorf("RMSD of a rigidly moved frame: %g", dst[0])
	}
	pos := &Positions{Atoms: []int{1, 5, 9}, Superpose: true}
	n, err := pos.NFeatures(mol)
	if err != nil || n != 9 {
		Te.Fatalf("Positions: %d features, %v", n, err)
	}
	got := make([]float64, n)
	if err := pos.Featurize(moved, mol, got); err != nil {
		Te.Fatal(err)
	}
	want := []float64{ref.At(1, 0), ref.At(1, 1), ref.At(1, 2), ref.At(5, 0), ref.At(5, 1), ref.At(5, 2), ref.At(9, 0), ref.At(9, 1), ref.At(9, 2)}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-8)); diff != "" {
		Te.Errorf("Superimposed positions differ (-want +got):\n%s", diff)
	}
	if _, err := (&Positions{Atoms: []int{1, 5, 9}, Superpose: true}).NFeatures(top); err == nil {
		Te.Error("Expected an error for a superposition without reference coordinates")
	}
	dih := &Dihedrals{Quadruplets: [][4]int{{0, 1, 2, 4}}, SinCos: true}
	sc := make([]float64, 2)
	if err := dih.Featurize(moved, top, sc); err != nil {
		Te.Fatal(err)
	}
	angle := chem.Dihedral(ref.VecView(0), ref.VecView(1), ref.VecView(2), ref.VecView(4))
	if math.Abs(sc[0]-math.Sin(angle)) > 1e-9 || math.Abs(sc[1]-math.Cos(angle)) > 1e-9 {
		Te.Errorf("Torsion not invariant to rigid motions: %v vs %f", sc, angle)
	}
	ang := &Angles{Triplets: [][3]int{{0, 1, 2}}}
	a := make([]float64, 1)
	if err := ang.Featurize(ref, top, a); err != nil {
		Te.Fatal(err)
	}
	if a[0] <= 0 || a[0] > math.Pi {
		Te.Errorf("Angle out of range: %f", a[0])
	}
	if err := ang.Featurize(ref, top, make([]float64, 2)); err == nil {
		Te.Error("Expected an error for a wrong-sized destination")
	}
}

func TestAllSuperpose(Te *testing.T) {
	dir := Te.TempDir()
	files := []string{writeDCD(Te, filepath.Join(dir, "a.dcd"), 6), writeDCD(Te, filepath.Join(dir, "b.dcd"), 4)}
	pref := v3.Zeros(4)
	pref.SomeVecs(frame(0), []int{0, 1, 2, 3})
	rref := v3.Zeros(6)
	rref.SomeVecs(frame(0), []int{0, 1, 2, 3, 4, 5})
	feats := []Featurizer{
		&Positions{Atoms: []int{0, 1, 2, 3}, Superpose: true, Reference: pref},
		&RMSD{Atoms: []int{0, 1, 2, 3, 4, 5}, Reference: rref},
	}
	for _, f := range feats {
		ds, err := All(context.Background(), files, peptide(), f)
		if err != nil {
			Te.Fatalf("%s: %v", f.Kind(), err)
		}
		if ds.Rows() != 10 {
			Te.Errorf("%s: expected 10 rows, got %d", f.Kind(), ds.Rows())
		}
	}
	//the first frame of a.dcd is the reference itself.
	ds, err := All(context.Background(), files, peptide(), feats[1])
	if err != nil {
		Te.Fatal(err)
	}
	if ds.X.At(0, 0) > 1e-4 || ds.X.At(1, 0) <= ds.X.At(0, 0) {
		Te.Errorf("Unexpected RMSD values: %f %f", ds.X.At(0, 0), ds.X.At(1, 0))
	}
}

func TestApply(Te *testing.T) {
	name := writeDCD(Te, filepath.Join(Te.TempDir(), "a.dcd"), 7)
	t, err := dcd.New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer t.Close()
	X, frames, err := Apply(testPairs, t, peptide(), 3)
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff([]int{0, 3, 6}, frames); diff != "" {
		Te.Errorf("Featurized frames mismatch (-want +got):\n%s", diff)
	}
	r, c := X.Dims()
	if r != 3 || c != 3 {
		Te.Fatalf("Expected a 3x3 matrix, got %dx%d", r, c)
	}
	f := frame(3)
	want := chem.Distance(f.VecView(3), f.VecView(11))
	if math.Abs(X.At(1, 2)-want) > 1e-4 {
		Te.Errorf("Row 1, feature 2: got %f want %f", X.At(1, 2), want)
	}
	if _, _, err := Apply(&Distances{Pairs: [][2]int{{0, 12}}}, t, peptide(), 1); !errors.Is(err, ErrLoad) {
		Te.Errorf("Expected ErrLoad for an out-of-range index, got %v", err)
	}
}

func TestYAMLRoundTrip(Te *testing.T) {
	top := peptide()
	refcoords := frame(3)
	sel := v3.Zeros(3)
	sel.SomeVecs(refcoords, []int{0, 4, 8})
	feats := []Featurizer{
		testPairs,
		&Angles{Triplets: [][3]int{{0, 1, 2}, {4, 5, 6}}},
		&Dihedrals{Quadruplets: [][4]int{{0, 1, 2, 4}}, SinCos: true},
		&Positions{Atoms: []int{0, 4, 8}, Superpose: true, Reference: sel},
		&RMSD{Atoms: []int{0, 4, 8}, Reference: sel},
	}
	f := frame(5)
	for _, feat := range feats {
		data, err := Marshal(feat)
		if err != nil {
			Te.Fatal(err)
		}
		back, err := Unmarshal(data)
		if err != nil {
			Te.Fatalf("%s: %v\n%s", feat.Kind(), err, data)
		}
		if back.Kind() != feat.Kind() {
			Te.Errorf("Kind changed from %s to %s", feat.Kind(), back.Kind())
		}
		n, err := feat.NFeatures(top)
		if err != nil {
			Te.Fatal(err)
		}
		want, got := make([]float64, n), make([]float64, n)
		if err := feat.Featurize(f, top, want); err != nil {
			Te.Fatal(err)
		}
		if err := back.Featurize(f, top, got); err != nil {
			Te.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			Te.Errorf("%s: features differ after a YAML round trip (-want +got):\n%s", feat.Kind(), diff)
		}
	}
}

func TestUnmarshalErrors(Te *testing.T) {
	bad := []string{
		"",
		"kind: fourier\n",
		"pairs: [[0, 1]]\n",
		"kind: distances\npairs: [[0, 1, 2]]\n",
		"kind: distances\npairs: [[0, -1]]\n",
		"kind: distances\npairs: [[0, 1]]\nsincos: true\n",
		"kind: dihedrals\nquadruplets: [[0, 1, 2, 3]]\ncolor: blue\n",
		"kind: positions\natoms: [0, 1, 2]\nreference: [[0, 0]]\n",
		"kind: rmsd\natoms: [0, 1, 2]\nsuperpose: true\n",
	}
	for _, b := range bad {
		if f, err := Unmarshal([]byte(b)); err == nil {
			Te.Errorf("Expected an error for %q, got a %s featurizer", b, f.Kind())
		}
	}
	if _, _, err := Load(filepath.Join(Te.TempDir(), "none.yaml")); !errors.Is(err, ErrLoad) {
		Te.Errorf("Expected ErrLoad for a missing file, got %v", err)
	}
}

func TestBuilders(Te *testing.T) {
	top := peptide()
	d, err := BackboneDihedrals(top)
	if err != nil {
		Te.Fatal(err)
	}
	want := [][4]int{{0, 1, 2, 4}, {2, 4, 5, 6}, {4, 5, 6, 8}, {6, 8, 9, 10}}
	if diff := cmp.Diff(want, d.Quadruplets); diff != "" {
		Te.Errorf("Backbone torsions differ (-want +got):\n%s", diff)
	}
	p, err := AtomPairs(top, []string{"CA"})
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff([][2]int{{1, 5}, {1, 9}, {5, 9}}, p.Pairs); diff != "" {
		Te.Errorf("CA pairs differ (-want +got):\n%s", diff)
	}
	if _, err := AtomPairs(top, []string{"CB"}); err == nil {
		Te.Error("Expected an error with no matching atoms")
	}
	mol, _ := chem.NewMolecule([]*v3.Matrix{frame(0)}, top, nil)
	pos, err := AtomPositions(mol, []string{"CA"}, true)
	if err != nil {
		Te.Fatal(err)
	}
	if len(pos.Atoms) != 3 {
		Te.Errorf("Expected 3 CA positions, got %v", pos.Atoms)
	}
}

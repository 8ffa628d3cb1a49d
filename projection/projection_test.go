/*
 * projection_test.go, part of gopca
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

package projection

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	chem "github.com/rmera/gopca"
	"github.com/rmera/gopca/chemjson"
	"github.com/rmera/gopca/featurize"
	"github.com/rmera/gopca/narray"
	"github.com/rmera/gopca/pca"
	"github.com/rmera/gopca/traj/dcd"
	v3 "github.com/rmera/gopca/v3"
	"gonum.org/v1/gonum/mat"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func peptide() *chem.Topology {
	var atoms []*chem.Atom
	for r := 1; r <= 3; r++ {
		for _, n := range []string{"N", "CA", "C", "O"} {
			atoms = append(atoms, &chem.Atom{Name: n, ID: len(atoms) + 1, MolName: "ALA", MolID: r, Chain: "A", Symbol: n[:1]})
		}
	}
	return chem.NewTopology(0, 1, atoms)
}

func frame(k int) *v3.Matrix {
	d := make([]float64, 0, 36)
	for j := 0; j < 12; j++ {
		fj, fk := float64(j), float64(k)
		d = append(d, 1.5*fj+0.1*fk*math.Sin(fj), math.Cos(fj+0.3*fk), 0.2*fj*math.Sin(0.5*fk)+0.05*fj*fj)
	}
	m, _ := v3.NewMatrix(d)
	return m
}

func frames(first, n int) []*v3.Matrix {
	ret := make([]*v3.Matrix, n)
	for i := range ret {
		ret[i] = frame(first + i)
	}
	return ret
}

// setup writes a PDB topology, a featurizer with the backbone torsions, and DCD trajectories
// with the given number of frames to dir.
func setup(Te *testing.T, dir string, nframes ...int) *Config {
	Te.Helper()
	top := peptide()
	cfg := &Config{Topology: filepath.Join(dir, "top.pdb"), Featurizer: filepath.Join(dir, "feat.yaml"), Stride: 1, Out: filepath.Join(dir, "out.h5")}
	if err := chem.PDBFileWrite(cfg.Topology, frames(0, 1), top, nil); err != nil {
		Te.Fatal(err)
	}
	f, err := featurize.BackboneDihedrals(top)
	if err != nil {
		Te.Fatal(err)
	}
	if err := featurize.Save(f, cfg.Featurizer); err != nil {
		Te.Fatal(err)
	}
	first := 0
	for i, n := range nframes {
		name := filepath.Join(dir, "traj"+string(rune('0'+i))+".dcd")
		w, err := dcd.NewWriter(name, top.Len())
		if err != nil {
			Te.Fatal(err)
		}
		for _, c := range frames(first, n) {
			if err := w.WNext(c); err != nil {
				Te.Fatal(err)
			}
		}
		if err := w.Close(); err != nil {
			Te.Fatal(err)
		}
		first += n
	}
	cfg.Trajectories = []string{filepath.Join(dir, "traj*.dcd")}
	return cfg
}

func TestRun(Te *testing.T) {
	dir := Te.TempDir()
	cfg := setup(Te, dir, 10, 15)
	res, err := Run(context.Background(), cfg, quiet)
	if err != nil {
		Te.Fatal(err)
	}
	if r, c := res.X.Dims(); r != 25 || c != 2 {
		Te.Fatalf("Expected a 25x2 projection, got %dx%d", r, c)
	}
	if res.Indices[9] != (featurize.Index{File: 0, Frame: 9}) || res.Indices[10] != (featurize.Index{File: 1, Frame: 0}) {
		Te.Errorf("Wrong provenance at the file boundary: %v %v", res.Indices[9], res.Indices[10])
	}
	if res.File(24) != filepath.Join(dir, "traj1.dcd") {
		Te.Errorf("Wrong file for the last row: %s", res.File(24))
	}
	loaded, err := Load(cfg.Out)
	if err != nil {
		Te.Fatal(err)
	}
	if !mat.Equal(res.X, loaded.X) || !mat.Equal(res.Components, loaded.Components) {
		Te.Error("The saved projection differs from the computed one")
	}
	if diff := cmp.Diff(res.Indices, loaded.Indices); diff != "" {
		Te.Errorf("Indices differ (-computed +loaded):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"PC1", "PC2"}, loaded.Labels); diff != "" {
		Te.Errorf("Labels differ:\n%s", diff)
	}
	if diff := cmp.Diff(res.Files, loaded.Files); diff != "" {
		Te.Errorf("Files differ:\n%s", diff)
	}
	fdata, _ := os.ReadFile(cfg.Featurizer)
	if !bytes.Equal(fdata, loaded.Featurizer) {
		Te.Error("The stored featurizer is not the featurizer file")
	}
	if _, err := featurize.Unmarshal(loaded.Featurizer); err != nil {
		Te.Errorf("The stored featurizer can't be read: %v", err)
	}
	top, coords, err := chemjson.UnmarshalTopology(loaded.Topology)
	if err != nil {
		Te.Fatal(err)
	}
	if top.Len() != 12 || len(coords) != 1 {
		Te.Errorf("Wrong stored topology: %d atoms, %d frames", top.Len(), len(coords))
	}
	if math.Abs(loaded.VarianceRatio[0]+loaded.VarianceRatio[1]) > 1+1e-9 || loaded.VarianceRatio[0] < loaded.VarianceRatio[1] {
		Te.Errorf("Wrong explained variance ratios: %v", loaded.VarianceRatio)
	}
}

func TestRunNoClobber(Te *testing.T) {
	dir := Te.TempDir()
	cfg := setup(Te, dir, 4, 4)
	if _, err := Run(context.Background(), cfg, quiet); err != nil {
		Te.Fatal(err)
	}
	before, _ := os.ReadFile(cfg.Out)
	cfg.NoClobber = true
	if _, err := Run(context.Background(), cfg, quiet); !errors.Is(err, narray.ErrWrite) {
		Te.Errorf("Expected ErrWrite, got %v", err)
	}
	after, _ := os.ReadFile(cfg.Out)
	if !bytes.Equal(before, after) {
		Te.Error("The existing projection was modified")
	}
}

func TestRunErrors(Te *testing.T) {
	dir := Te.TempDir()
	cfg := setup(Te, dir, 1)
	//zero matches
	nomatch := *cfg
	nomatch.Trajectories = []string{filepath.Join(dir, "*.stf")}
	if _, err := Run(context.Background(), &nomatch, quiet); !errors.Is(err, featurize.ErrNoInput) {
		Te.Errorf("Expected ErrNoInput, got %v", err)
	}
	//a single frame
	if _, err := Run(context.Background(), cfg, quiet); !errors.Is(err, pca.ErrDegenerate) {
		Te.Errorf("Expected ErrDegenerate, got %v", err)
	}
	if _, err := os.Stat(cfg.Out); !os.IsNotExist(err) {
		Te.Error("A projection was written after a failure")
	}
	//missing output directory
	cfg2 := setup(Te, Te.TempDir(), 3, 3)
	cfg2.Out = filepath.Join(dir, "missing", "out.h5")
	if _, err := Run(context.Background(), cfg2, quiet); !errors.Is(err, narray.ErrWrite) {
		Te.Errorf("Expected ErrWrite, got %v", err)
	}
	//missing featurizer
	cfg3 := setup(Te, Te.TempDir(), 3, 3)
	cfg3.Featurizer = filepath.Join(dir, "none.yaml")
	if _, err := Run(context.Background(), cfg3, quiet); !errors.Is(err, featurize.ErrLoad) {
		Te.Errorf("Expected ErrLoad, got %v", err)
	}
}

func TestTopologyFromTrajectory(Te *testing.T) {
	dir := Te.TempDir()
	cfg := setup(Te, dir)
	top := peptide()
	for i, name := range []string{"a.pdb", "b.pdb"} {
		if err := chem.PDBFileWrite(filepath.Join(dir, name), frames(5*i, 5), top, nil); err != nil {
			Te.Fatal(err)
		}
	}
	cfg.Topology = ""
	cfg.Trajectories = []string{filepath.Join(dir, "*.pdb")}
	cfg.Out = filepath.Join(dir, "pdb.h5")
	res, err := Run(context.Background(), cfg, quiet)
	if err != nil {
		Te.Fatal(err)
	}
	//top.pdb (1 model) is also matched, and comes after a.pdb and b.pdb
	if res.Len() != 11 || len(res.Files) != 3 {
		Te.Errorf("Expected 11 frames from 3 files, got %d from %d", res.Len(), len(res.Files))
	}
}

func TestLoadTopology(Te *testing.T) {
	dir := Te.TempDir()
	cfg := setup(Te, dir, 2)
	mol, err := LoadTopology(cfg.Topology, nil)
	if err != nil {
		Te.Fatal(err)
	}
	data, err := chemjson.MarshalTopology(mol, mol.Coords[0])
	if err != nil {
		Te.Fatal(err)
	}
	jname := filepath.Join(dir, "top.json")
	if err := os.WriteFile(jname, data, 0o644); err != nil {
		Te.Fatal(err)
	}
	mol2, err := LoadTopology(jname, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if mol2.Len() != 12 || mol2.LenFrames() != 1 {
		Te.Errorf("Wrong topology from JSON: %d atoms %d frames", mol2.Len(), mol2.LenFrames())
	}
	if _, err := LoadTopology("", []string{filepath.Join(dir, "traj0.dcd")}); !errors.Is(err, featurize.ErrLoad) {
		Te.Errorf("Expected ErrLoad for a topology from a DCD file, got %v", err)
	}
	if _, err := LoadTopology(filepath.Join(dir, "top.gro"), nil); !errors.Is(err, featurize.ErrLoad) {
		Te.Errorf("Expected ErrLoad for an unsupported format, got %v", err)
	}
}

func TestConfigFromEnv(Te *testing.T) {
	Te.Setenv("GOPCA_WORKERS", "3")
	Te.Setenv("GOPCA_NO_CLOBBER", "true")
	cfg, err := ConfigFromEnv()
	if err != nil {
		Te.Fatal(err)
	}
	if cfg.Workers != 3 || !cfg.NoClobber || cfg.Stride != 1 || cfg.Out != DefaultOut {
		Te.Errorf("Wrong configuration: %+v", cfg)
	}
	Te.Setenv("GOPCA_STRIDE", "many")
	if _, err := ConfigFromEnv(); err == nil {
		Te.Error("Expected an error for an invalid stride")
	}
}

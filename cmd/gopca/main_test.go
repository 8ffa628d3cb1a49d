/*
 * main_test.go, part of gopca
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

package main

import (
	"bytes"
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chem "github.com/rmera/gopca"
	"github.com/rmera/gopca/traj/dcd"
	v3 "github.com/rmera/gopca/v3"
)

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// fixtures writes a 3-residue backbone topology and 2 DCD trajectories, of 6 and 8 frames, to dir.
func fixtures(Te *testing.T, dir string) string {
	Te.Helper()
	var atoms []*chem.Atom
	for r := 1; r <= 3; r++ {
		for _, n := range []string{"N", "CA", "C", "O"} {
			atoms = append(atoms, &chem.Atom{Name: n, ID: len(atoms) + 1, MolName: "GLY", MolID: r, Chain: "A", Symbol: n[:1]})
		}
	}
	top := chem.NewTopology(0, 1, atoms)
	frame := func(k int) *v3.Matrix {
		d := make([]float64, 0, 36)
		for j := 0; j < 12; j++ {
			fj, fk := float64(j), float64(k)
			d = append(d, 1.5*fj+0.1*fk*math.Sin(fj), math.Cos(fj+0.3*fk), 0.2*fj*math.Sin(0.5*fk)+0.05*fj*fj)
		}
		m, _ := v3.NewMatrix(d)
		return m
	}
	topname := filepath.Join(dir, "top.pdb")
	if err := chem.PDBFileWrite(topname, []*v3.Matrix{frame(0)}, top, nil); err != nil {
		Te.Fatal(err)
	}
	k := 0
	for i, n := range []int{6, 8} {
		w, err := dcd.NewWriter(filepath.Join(dir, []string{"run1.dcd", "run2.dcd"}[i]), top.Len())
		if err != nil {
			Te.Fatal(err)
		}
		for j := 0; j < n; j++ {
			if err := w.WNext(frame(k)); err != nil {
				Te.Fatal(err)
			}
			k++
		}
		if err := w.Close(); err != nil {
			Te.Fatal(err)
		}
	}
	return topname
}

func TestPipeline(Te *testing.T) {
	dir := Te.TempDir()
	top := fixtures(Te, dir)
	feat := filepath.Join(dir, "feat.yaml")
	out, err := execute("featurizer", "dihedrals", "--top", top, "--out", feat)
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(out, "8 features") {
		Te.Errorf("Unexpected featurizer output: %s", out)
	}
	proj := filepath.Join(dir, "proj.h5")
	plot := filepath.Join(dir, "proj.png")
	out, err = execute("pca", "--featurizer", feat, "--top", top, "--out", proj, "--workers", "2", "--plot", plot, filepath.Join(dir, "run*.dcd"))
	if err != nil {
		Te.Fatal(err)
	}
	if out != "Projection saved: "+proj+"\n" {
		Te.Errorf("Unexpected pca output: %q", out)
	}
	if _, err := os.Stat(plot); err != nil {
		Te.Errorf("No plot: %v", err)
	}
	out, err = execute("inspect", proj)
	if err != nil {
		Te.Fatal(err)
	}
	for _, want := range []string{"Frames:  14", "run1.dcd", "6 frames", "8 frames", "[PC1 PC2]"} {
		if !strings.Contains(out, want) {
			Te.Errorf("inspect output lacks %q:\n%s", want, out)
		}
	}
	//no-clobber, from the environment
	Te.Setenv("GOPCA_NO_CLOBBER", "true")
	if _, err := execute("pca", "--featurizer", feat, "--top", top, "--out", proj, filepath.Join(dir, "run*.dcd")); err == nil {
		Te.Error("Expected an error when replacing an existing projection")
	}
	//the flag overrides the environment
	if _, err := execute("pca", "--featurizer", feat, "--top", top, "--out", proj, "--no-clobber=false", filepath.Join(dir, "run*.dcd")); err != nil {
		Te.Errorf("The projection was not replaced: %v", err)
	}
}

func TestPCAEnvOut(Te *testing.T) {
	dir := Te.TempDir()
	top := fixtures(Te, dir)
	feat := filepath.Join(dir, "ca.yaml")
	if _, err := execute("featurizer", "distances", "--top", top, "--names", "CA,O", "-o", feat); err != nil {
		Te.Fatal(err)
	}
	proj := filepath.Join(dir, "env.h5")
	Te.Setenv("GOPCA_OUT", proj)
	Te.Setenv("GOPCA_STRIDE", "2")
	out, err := execute("pca", "--featurizer", feat, "--top", top, filepath.Join(dir, "run1.dcd"), filepath.Join(dir, "run2.dcd"))
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(out, proj) {
		Te.Errorf("Expected the projection at %s, got %q", proj, out)
	}
	out, err = execute("inspect", proj)
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(out, "Frames:  7") {
		Te.Errorf("Expected 7 frames with stride 2:\n%s", out)
	}
}

func TestPCAOutHelp(Te *testing.T) {
	verbose := false
	out := newPCACmd(&verbose).Flags().Lookup("out")
	if out == nil || out.DefValue != "pca-projection.h5" {
		Te.Fatalf("Unexpected --out flag: %+v", out)
	}
	if !strings.Contains(out.Usage, "not HDF5") {
		Te.Errorf("--out help doesn't say the file format: %q", out.Usage)
	}
}

func TestCommandErrors(Te *testing.T) {
	dir := Te.TempDir()
	top := fixtures(Te, dir)
	proj := filepath.Join(dir, "p.h5")
	if _, err := execute("pca", "--out", proj, filepath.Join(dir, "run1.dcd")); err == nil {
		Te.Error("Expected an error without a featurizer")
	}
	if _, err := execute("pca", "--featurizer", "f.yaml", "--out", proj); err == nil {
		Te.Error("Expected an error without trajectories")
	}
	if _, err := execute("pca", "--featurizer", "f.yaml", "--out", proj, "--stride", "0", filepath.Join(dir, "run1.dcd")); err == nil {
		Te.Error("Expected an error with a zero stride")
	}
	if _, err := execute("featurizer", "angles", "--top", top); err == nil {
		Te.Error("Expected an error for an unknown featurizer kind")
	}
	if _, err := execute("inspect", top); err == nil {
		Te.Error("Expected an error inspecting a PDB file")
	}
	if _, err := os.Stat(proj); !os.IsNotExist(err) {
		Te.Error("A projection was written after a failure")
	}
}

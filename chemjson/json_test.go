/*
 * json_test.go, part of gopca
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

package chemjson

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	chem "github.com/rmera/gopca"
	v3 "github.com/rmera/gopca/v3"
)

func testMol() (*chem.Topology, *v3.Matrix) {
	atoms := []*chem.Atom{
		{Name: "N", ID: 1, MolName: "GLY", MolName1: 'G', MolID: 1, Chain: "A", Symbol: "N", Mass: 14.007},
		{Name: "CA", ID: 2, MolName: "GLY", MolName1: 'G', MolID: 1, Chain: "A", Symbol: "C", Mass: 12.011},
		{Name: "C", ID: 3, MolName: "GLY", MolName1: 'G', MolID: 1, Chain: "A", Symbol: "C", Mass: 12.011},
	}
	coords, _ := v3.NewMatrix([]float64{0, 0, 0, 1.45, 0, 0, 2.0, 1.4, 0.1})
	return chem.NewTopology(0, 1, atoms), coords
}

func TestTopologyRoundTrip(Te *testing.T) {
	top, coords := testMol()
	data, err := MarshalTopology(top, coords, coords)
	if err != nil {
		Te.Fatal(err)
	}
	top2, frames, err := UnmarshalTopology(data)
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff(top.Atoms, top2.Atoms); diff != "" {
		Te.Errorf("Atoms differ (-want +got):\n%s", diff)
	}
	if len(frames) != 2 {
		Te.Fatalf("Expected 2 frames, got %d", len(frames))
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if frames[1].At(i, j) != coords.At(i, j) {
				Te.Errorf("Coordinate %d,%d: got %f want %f", i, j, frames[1].At(i, j), coords.At(i, j))
			}
		}
	}
}

func TestTopologyNoCoords(Te *testing.T) {
	top, _ := testMol()
	data, err := MarshalTopology(top)
	if err != nil {
		Te.Fatal(err)
	}
	top2, frames, err := UnmarshalTopology(data)
	if err != nil {
		Te.Fatal(err)
	}
	if top2.Len() != 3 || len(frames) != 0 {
		Te.Errorf("Expected 3 atoms and no frames, got %d and %d", top2.Len(), len(frames))
	}
	if _, err := MarshalTopology(top, v3.Zeros(2)); err == nil {
		Te.Error("Expected an error for a frame with the wrong number of atoms")
	}
	if _, _, err := UnmarshalTopology([]byte("{\"Atoms\":3,\"Frames\":0}\n")); err == nil {
		Te.Error("Expected an error for a truncated stream")
	}
}

func TestAtomsString(Te *testing.T) {
	top, _ := testMol()
	s, err := AtomsString(top)
	if err != nil {
		Te.Fatal(err)
	}
	if strings.Contains(s, "\n") {
		Te.Errorf("AtomsString returned more than one line: %q", s)
	}
	top2, err := AtomsFromString(s)
	if err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff(top.Atoms, top2.Atoms); diff != "" {
		Te.Errorf("Atoms differ (-want +got):\n%s", diff)
	}
	if _, err := AtomsFromString("[]"); err == nil {
		Te.Error("Expected an error for an empty atom list")
	}
}

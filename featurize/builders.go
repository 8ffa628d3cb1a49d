/*
 * builders.go, part of gopca
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
	"fmt"

	chem "github.com/rmera/gopca"
)

// backbone holds the indexes of the backbone atoms of a residue, -1 if absent.
type backbone struct {
	chain    string
	molid    int
	n, ca, c int
}

// BackboneDihedrals returns a featurizer with the phi and psi torsions of every residue
// of top for which they are defined, given as sine and cosine. Residues are identified by their
// chain and MolID, and consecutive residues in the same chain must have consecutive MolIDs.
func BackboneDihedrals(top chem.Atomer) (*Dihedrals, error) {
	residues := make([]*backbone, 0, top.Len()/4)
	var cur *backbone
	for i := 0; i < top.Len(); i++ {
		at := top.Atom(i)
		if cur == nil || at.MolID != cur.molid || at.Chain != cur.chain {
			cur = &backbone{chain: at.Chain, molid: at.MolID, n: -1, ca: -1, c: -1}
			residues = append(residues, cur)
		}
		switch at.Name {
		case "N":
			cur.n = i
		case "CA":
			cur.ca = i
		case "C":
			cur.c = i
		}
	}
	complete := func(r *backbone) bool { return r.n >= 0 && r.ca >= 0 && r.c >= 0 }
	bonded := func(a, b *backbone) bool { return a.chain == b.chain && b.molid == a.molid+1 }
	ret := &Dihedrals{SinCos: true}
	for i, r := range residues {
		if !complete(r) {
			continue
		}
		//phi
		if i > 0 && complete(residues[i-1]) && bonded(residues[i-1], r) {
			ret.Quadruplets = append(ret.Quadruplets, [4]int{residues[i-1].c, r.n, r.ca, r.c})
		}
		//psi
		if i < len(residues)-1 && complete(residues[i+1]) && bonded(r, residues[i+1]) {
			ret.Quadruplets = append(ret.Quadruplets, [4]int{r.n, r.ca, r.c, residues[i+1].n})
		}
	}
	if len(ret.Quadruplets) == 0 {
		return nil, fmt.Errorf("no backbone torsions found in a %d-atom topology", top.Len())
	}
	return ret, nil
}

// AtomPairs returns a featurizer with the distances between all pairs of atoms in top
// with any of the given names (for instance, "CA").
func AtomPairs(top chem.Atomer, names []string) (*Distances, error) {
	atoms := chem.Names2Atoms(top, names)
	if len(atoms) < 2 {
		return nil, fmt.Errorf("%d atoms with names %v found, at least 2 needed", len(atoms), names)
	}
	ret := new(Distances)
	for i, a := range atoms {
		for _, b := range atoms[i+1:] {
			ret.Pairs = append(ret.Pairs, [2]int{a, b})
		}
	}
	return ret, nil
}

// AtomPositions returns a featurizer with the cartesian coordinates of all atoms in top with
// any of the given names. If superpose is true, each frame will be superimposed
// on the coordinates of the topology before taking the positions.
func AtomPositions(top chem.Atomer, names []string, superpose bool) (*Positions, error) {
	atoms := chem.Names2Atoms(top, names)
	if len(atoms) == 0 {
		return nil, fmt.Errorf("no atoms with names %v found", names)
	}
	ret := &Positions{Atoms: atoms, Superpose: superpose}
	if _, err := ret.NFeatures(top); err != nil {
		return nil, err
	}
	return ret, nil
}

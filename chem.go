/*
 * chem.go, part of gopca
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

	v3 "github.com/rmera/gopca/v3"
)

// Atom contains the atoms read except for the coordinates, which will be in a matrix
// and the b-factors, which are in a separate slice of float64.
type Atom struct {
	Name      string
	ID        int
	Tag       int //Just added this for something that someone might want to keep that is not a float.
	MolName   string
	MolName1  byte //the one letter name for residues and nucleotids
	MolID     int
	Chain     string
	Mass      float64
	Occupancy float64
	Charge    float64
	Symbol    string
	Het       bool // is hetatm in the pdb file?
}

// Copy copies B into the receiver.
func (A *Atom) Copy(B *Atom) {
	if A == nil || B == nil {
		panic("Attempted to copy from or to a nil atom")
	}
	*A = *B
}

/*****Topology type***/

// Topology contains information about a molecule which is not expected to change in time
// (i.e. everything except for coordinates and b-factors)
type Topology struct {
	Atoms  []*Atom
	charge int
	multi  int
}

// NewTopology returns a topology with the given charge and multiplicity and, if given,
// the atoms in ats (only the first slice is considered). The atoms are not copied.
func NewTopology(charge, multi int, ats ...[]*Atom) *Topology {
	T := &Topology{charge: charge, multi: multi}
	if len(ats) > 0 && ats[0] != nil {
		T.Atoms = ats[0]
	} else {
		T.Atoms = make([]*Atom, 0)
	}
	return T
}

// Charge returns the total charge of the topology
func (T *Topology) Charge() int { return T.charge }

// Multi returns the multiplicity of the topology
func (T *Topology) Multi() int { return T.multi }

// Atom returns the Atom corresponding to the index i. It panics if i is out of range.
func (T *Topology) Atom(i int) *Atom {
	return T.Atoms[i]
}

// AppendAtom appends an atom to the topology.
func (T *Topology) AppendAtom(at *Atom) {
	T.Atoms = append(T.Atoms, at)
}

// SomeAtoms fills the receiver with copies of the atoms of A with indexes in atomlist.
func (T *Topology) SomeAtoms(A Atomer, atomlist []int) {
	T.Atoms = T.Atoms[:0]
	for _, v := range atomlist {
		at := new(Atom)
		at.Copy(A.Atom(v))
		T.Atoms = append(T.Atoms, at)
	}
}

// Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

// Masses returns a slice of float64 with the masses of the atoms in the topology, or nil and an error if they have not been calculated
func (T *Topology) Masses() ([]float64, error) {
	mass := make([]float64, T.Len())
	for i, at := range T.Atoms {
		if at.Mass == 0 {
			return nil, CError{fmt.Sprintf("Not all the masses have been obtained: atom %d (%s)", i, at.Name), []string{"Masses"}}
		}
		mass[i] = at.Mass
	}
	return mass, nil
}

/**Type Molecule**/

// Molecule contains all the info for a molecule in many states. The info that is expected to change between states,
// Coordinates and b-factors are stored separately from other atomic info.
// A Molecule can be used as a trajectory, each element of Coords being a frame.
type Molecule struct {
	*Topology
	Coords   []*v3.Matrix
	Bfactors [][]float64
	current  int
}

// NewMolecule makes a molecule with ats atoms, coords coordinates and bfactors b-factors.
// It checks that all the coordinate sets have as many vectors as atoms in ats.
func NewMolecule(coords []*v3.Matrix, ats Atomer, bfactors [][]float64) (*Molecule, error) {
	if ats == nil {
		return nil, CError{"Supplied a nil topology", []string{"NewMolecule"}}
	}
	top, ok := ats.(*Topology)
	if !ok {
		top = NewTopology(0, 1)
		for i := 0; i < ats.Len(); i++ {
			at := new(Atom)
			at.Copy(ats.Atom(i))
			top.AppendAtom(at)
		}
	}
	for i, c := range coords {
		if c.NVecs() != top.Len() {
			return nil, CError{fmt.Sprintf("Frame %d has %d coordinates, but the topology has %d atoms", i, c.NVecs(), top.Len()), []string{"NewMolecule"}}
		}
	}
	return &Molecule{Topology: top, Coords: coords, Bfactors: bfactors}, nil
}

// LenFrames returns the number of frames in the molecule
func (M *Molecule) LenFrames() int {
	return len(M.Coords)
}

// Current returns the number of the next frame to be read with Next
func (M *Molecule) Current() int {
	return M.current
}

// Readable returns true if the molecule has a frame that has not been read with Next.
func (M *Molecule) Readable() bool {
	return M.current < len(M.Coords)
}

// Next puts the next frame of the molecule in V. If V is nil the frame is skipped.
// box is ignored, molecules don't carry box information.
// After the last frame, Next returns an error that implements LastFrameError.
func (M *Molecule) Next(V *v3.Matrix, box ...[]float64) error {
	if !M.Readable() {
		return newlastFrameError("", "Next")
	}
	if V != nil {
		if V.NVecs() != M.Len() {
			return CError{fmt.Sprintf("Given a matrix with %d vectors for a %d atoms molecule", V.NVecs(), M.Len()), []string{"Next"}}
		}
		V.Copy(M.Coords[M.current])
	}
	M.current++
	return nil
}

// Rewind makes the next call to Next return the first frame again.
func (M *Molecule) Rewind() {
	M.current = 0
}

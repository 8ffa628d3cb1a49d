/*
 * featurizer.go, part of gopca
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
	"math"

	chem "github.com/rmera/gopca"
	v3 "github.com/rmera/gopca/v3"
)

// Featurizer maps the coordinates of one frame to a fixed number of features.
// Implementations must be safe for concurrent use, as the same Featurizer is
// used for all the trajectories featurized by All.
type Featurizer interface {
	// Kind returns the name of the featurizer, as used in the "kind" field of its YAML file.
	Kind() string
	// NFeatures returns the number of features produced per frame for the topology top, or
	// an error if the featurizer can't be applied to it.
	NFeatures(top chem.Atomer) (int, error)
	// Featurize puts the features of the frame coord in dst, which has NFeatures(top) elements.
	Featurize(coord *v3.Matrix, top chem.Atomer, dst []float64) error
}

// checkIndexes returns an error if any of the indexes is not a valid atom index for top.
func checkIndexes(top chem.Atomer, indexes ...int) error {
	if top == nil {
		return fmt.Errorf("nil topology")
	}
	for _, v := range indexes {
		if v < 0 || v >= top.Len() {
			return fmt.Errorf("atom index %d out of range for a %d-atom topology", v, top.Len())
		}
	}
	return nil
}

// checkFrame returns an error if coord doesn't have the n atoms and dst the nf elements expected.
func checkFrame(coord *v3.Matrix, n int, dst []float64, nf int) error {
	if coord == nil || coord.NVecs() != n {
		return fmt.Errorf("frame doesn't match the %d-atom topology", n)
	}
	if len(dst) != nf {
		return fmt.Errorf("%d features requested but %d produced", len(dst), nf)
	}
	return nil
}

// Distances featurizes a frame as the distances (in A) between the atoms of each pair.
type Distances struct {
	Pairs [][2]int
}

func (D *Distances) Kind() string { return "distances" }

func (D *Distances) NFeatures(top chem.Atomer) (int, error) {
	if len(D.Pairs) == 0 {
		return 0, fmt.Errorf("no atom pairs")
	}
	for _, p := range D.Pairs {
		if err := checkIndexes(top, p[:]...); err != nil {
			return 0, err
		}
	}
	return len(D.Pairs), nil
}

func (D *Distances) Featurize(coord *v3.Matrix, top chem.Atomer, dst []float64) error {
	if err := checkFrame(coord, top.Len(), dst, len(D.Pairs)); err != nil {
		return err
	}
	for k, p := range D.Pairs {
		dst[k] = chem.Distance(coord.VecView(p[0]), coord.VecView(p[1]))
	}
	return nil
}

// Angles featurizes a frame as the bond angles (in radians) for each triplet of atoms,
// the second atom being the vertex.
type Angles struct {
	Triplets [][3]int
}

func (A *Angles) Kind() string { return "angles" }

func (A *Angles) NFeatures(top chem.Atomer) (int, error) {
	if len(A.Triplets) == 0 {
		return 0, fmt.Errorf("no atom triplets")
	}
	for _, t := range A.Triplets {
		if err := checkIndexes(top, t[:]...); err != nil {
			return 0, err
		}
	}
	return len(A.Triplets), nil
}

func (A *Angles) Featurize(coord *v3.Matrix, top chem.Atomer, dst []float64) error {
	if err := checkFrame(coord, top.Len(), dst, len(A.Triplets)); err != nil {
		return err
	}
	for k, t := range A.Triplets {
		dst[k] = chem.BondAngle(coord.VecView(t[0]), coord.VecView(t[1]), coord.VecView(t[2]))
	}
	return nil
}

// Dihedrals featurizes a frame as the torsion angles (in radians, from -pi to pi)
// defined by each quadruplet of atoms. If SinCos is true, the sine and the cosine of each torsion
// are given instead of the angle, which removes the discontinuity at pi.
type Dihedrals struct {
	Quadruplets [][4]int
	SinCos      bool
}

func (D *Dihedrals) Kind() string { return "dihedrals" }

func (D *Dihedrals) NFeatures(top chem.Atomer) (int, error) {
	if len(D.Quadruplets) == 0 {
		return 0, fmt.Errorf("no atom quadruplets")
	}
	for _, q := range D.Quadruplets {
		if err := checkIndexes(top, q[:]...); err != nil {
			return 0, err
		}
	}
	if D.SinCos {
		return 2 * len(D.Quadruplets), nil
	}
	return len(D.Quadruplets), nil
}

func (D *Dihedrals) Featurize(coord *v3.Matrix, top chem.Atomer, dst []float64) error {
	nf := len(D.Quadruplets)
	if D.SinCos {
		nf *= 2
	}
	if err := checkFrame(coord, top.Len(), dst, nf); err != nil {
		return err
	}
	for k, q := range D.Quadruplets {
		d := chem.Dihedral(coord.VecView(q[0]), coord.VecView(q[1]), coord.VecView(q[2]), coord.VecView(q[3]))
		if !D.SinCos {
			dst[k] = d
			continue
		}
		dst[2*k], dst[2*k+1] = math.Sincos(d)
	}
	return nil
}

// Positions featurizes a frame as the cartesian coordinates of the given atoms,
// x, y and z for each atom. If Superpose is true, the atoms are first superimposed on
// the Reference coordinates, which, if nil, are taken from the first frame
// of the topology (which then needs to be a *chem.Molecule).
type Positions struct {
	Atoms     []int
	Superpose bool
	Reference *v3.Matrix
}

func (P *Positions) Kind() string { return "positions" }

func (P *Positions) NFeatures(top chem.Atomer) (int, error) {
	if len(P.Atoms) == 0 {
		return 0, fmt.Errorf("no atoms")
	}
	if err := checkIndexes(top, P.Atoms...); err != nil {
		return 0, err
	}
	if P.Superpose {
		if len(P.Atoms) < 3 {
			return 0, fmt.Errorf("at least 3 atoms are needed for a superposition, got %d", len(P.Atoms))
		}
		if _, err := reference(P.Reference, P.Atoms, top); err != nil {
			return 0, err
		}
	}
	return 3 * len(P.Atoms), nil
}

func (P *Positions) Featurize(coord *v3.Matrix, top chem.Atomer, dst []float64) error {
	if err := checkFrame(coord, top.Len(), dst, 3*len(P.Atoms)); err != nil {
		return err
	}
	sel := v3.Zeros(len(P.Atoms))
	sel.SomeVecs(coord, P.Atoms)
	if P.Superpose {
		ref, err := reference(P.Reference, P.Atoms, top)
		if err != nil {
			return err
		}
		if sel, err = chem.Super(sel, ref, nil, nil); err != nil {
			return err
		}
	}
	for i := range P.Atoms {
		dst[3*i] = sel.At(i, 0)
		dst[3*i+1] = sel.At(i, 1)
		dst[3*i+2] = sel.At(i, 2)
	}
	return nil
}

// RMSD featurizes a frame as the root mean square deviation (in A) of the given atoms from
// the Reference coordinates, after the optimal superposition. If Reference is nil, the
// coordinates are taken from the first frame of the topology, as in Positions.
type RMSD struct {
	Atoms     []int
	Reference *v3.Matrix
}

func (R *RMSD) Kind() string { return "rmsd" }

func (R *RMSD) NFeatures(top chem.Atomer) (int, error) {
	if len(R.Atoms) < 3 {
		return 0, fmt.Errorf("at least 3 atoms are needed for a superposition, got %d", len(R.Atoms))
	}
	if err := checkIndexes(top, R.Atoms...); err != nil {
		return 0, err
	}
	if _, err := reference(R.Reference, R.Atoms, top); err != nil {
		return 0, err
	}
	return 1, nil
}

func (R *RMSD) Featurize(coord *v3.Matrix, top chem.Atomer, dst []float64) error {
	if err := checkFrame(coord, top.Len(), dst, 1); err != nil {
		return err
	}
	ref, err := reference(R.Reference, R.Atoms, top)
	if err != nil {
		return err
	}
	sel := v3.Zeros(len(R.Atoms))
	sel.SomeVecs(coord, R.Atoms)
	super, err := chem.Super(sel, ref, nil, nil)
	if err != nil {
		return err
	}
	dst[0], err = chem.RMSD(super, ref)
	return err
}

// reference returns ref, if not nil, or the coordinates of the atoms in the first frame
// of top, if top is a *chem.Molecule.
func reference(ref *v3.Matrix, atoms []int, top chem.Atomer) (*v3.Matrix, error) {
	if ref != nil {
		if ref.NVecs() != len(atoms) {
			return nil, fmt.Errorf("reference has %d atoms, %d expected", ref.NVecs(), len(atoms))
		}
		return ref, nil
	}
	mol, ok := top.(*chem.Molecule)
	if !ok || mol.LenFrames() == 0 {
		return nil, fmt.Errorf("no reference coordinates given, and the topology has none")
	}
	r := v3.Zeros(len(atoms))
	r.SomeVecs(mol.Coords[0], atoms)
	return r, nil
}

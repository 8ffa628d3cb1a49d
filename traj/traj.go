/*
 * traj.go, part of gopca
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

package traj

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	chem "github.com/rmera/gopca"
	"github.com/rmera/gopca/chemjson"
	"github.com/rmera/gopca/traj/crd"
	"github.com/rmera/gopca/traj/dcd"
	"github.com/rmera/gopca/traj/stf"
	v3 "github.com/rmera/gopca/v3"
)

// Trajectory is a chem.Traj that holds resources, and needs to
// be closed after use.
type Trajectory interface {
	chem.Traj
	Close()
}

// molTraj wraps a Molecule read from a PDB or XYZ file so it can be used as a Trajectory.
type molTraj struct {
	*chem.Molecule
}

func (M molTraj) Close() {}

// Error is the error type for the package.
type Error struct {
	message  string
	filename string
	deco     []string
}

func (err Error) Error() string {
	return fmt.Sprintf("trajectory %s: %s", err.filename, err.message)
}

// Decorate adds dec to the decoration slice of the error and returns the slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// FileName returns the file to which the error is associated.
func (err Error) FileName() string { return err.filename }

// Format returns the format of the file, as understood from its extension.
// The empty string is returned when the extension is not supported.
func Format(name string) string {
	lower := strings.ToLower(name)
	ext := filepath.Ext(lower)
	switch ext {
	case ".gz", ".zst", ".lzw":
		if filepath.Ext(strings.TrimSuffix(lower, ext)) == ".dcd" {
			return "dcd"
		}
		return ""
	case ".dcd":
		return "dcd"
	case ".stf", ".stz", ".str", ".stl":
		return "stf"
	case ".crd", ".mdcrd":
		return "crd"
	case ".pdb":
		return "pdb"
	case ".xyz":
		return "xyz"
	default:
		return ""
	}
}

// Open opens the trajectory name, using the reader corresponding to its extension.
// If top is not nil, the number of atoms in the trajectory must match it.
func Open(name string, top chem.Atomer) (Trajectory, error) {
	if _, err := os.Stat(name); err != nil {
		return nil, err
	}
	var t Trajectory
	switch Format(name) {
	case "dcd":
		d, err := dcd.New(name)
		if err != nil {
			return nil, err
		}
		t = d
	case "stf":
		s, _, err := stf.New(name)
		if err != nil {
			return nil, err
		}
		t = s
	case "crd":
		if top == nil {
			return nil, Error{"Amber trajectories need a topology", name, []string{"Open"}}
		}
		c, err := crd.New(name, top.Len())
		if err != nil {
			return nil, err
		}
		t = c
	case "pdb":
		mol, err := chem.PDBFileRead(name, false)
		if err != nil {
			return nil, Error{err.Error(), name, []string{"Open"}}
		}
		t = molTraj{mol}
	case "xyz":
		mol, err := chem.XYZFileRead(name)
		if err != nil {
			return nil, Error{err.Error(), name, []string{"Open"}}
		}
		t = molTraj{mol}
	default:
		return nil, Error{"unsupported trajectory format", name, []string{"Open"}}
	}
	if top != nil && top.Len() != t.Len() {
		t.Close()
		return nil, Error{fmt.Sprintf("trajectory has %d atoms but the topology has %d", t.Len(), top.Len()), name, []string{"Open"}}
	}
	return t, nil
}

// Topology obtains a topology from a trajectory file, if the format carries one. For PDB and
// XYZ files, the atoms and the coordinates of the first model are returned.
// For STF files, the topology must be given in the header, and the coordinates
// of the first frame are returned. Other formats give an error.
func Topology(name string) (chem.Atomer, *v3.Matrix, error) {
	switch Format(name) {
	case "pdb", "xyz":
		t, err := Open(name, nil)
		if err != nil {
			return nil, nil, err
		}
		mol := t.(molTraj).Molecule
		return mol, mol.Coords[0], nil
	case "stf":
		s, header, err := stf.New(name)
		if err != nil {
			return nil, nil, err
		}
		defer s.Close()
		ts, ok := header["topology"]
		if !ok {
			return nil, nil, Error{"no topology in the STF header", name, []string{"Topology"}}
		}
		top, err := chemjson.AtomsFromString(ts)
		if err != nil {
			return nil, nil, Error{err.Error(), name, []string{"Topology"}}
		}
		if top.Len() != s.Len() {
			return nil, nil, Error{fmt.Sprintf("header topology has %d atoms but frames have %d", top.Len(), s.Len()), name, []string{"Topology"}}
		}
		coords := v3.Zeros(s.Len())
		if err := s.Next(coords); err != nil {
			return nil, nil, err
		}
		return top, coords, nil
	default:
		return nil, nil, Error{"format doesn't carry a topology", name, []string{"Topology"}}
	}
}

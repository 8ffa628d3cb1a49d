/*
 * topology.go, part of gopca
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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	chem "github.com/rmera/gopca"
	"github.com/rmera/gopca/chemjson"
	"github.com/rmera/gopca/featurize"
	"github.com/rmera/gopca/traj"
	v3 "github.com/rmera/gopca/v3"
)

// LoadTopology reads the topology in path, which can be a PDB, XYZ or chemjson (.json) file.
// If path is empty, the topology is taken from the first of the trajectories, which then needs
// to be a PDB or XYZ file, or an STF file with a topology in its header. The returned
// molecule has the coordinates of the first frame of the file read. Errors are ErrLoad errors.
func LoadTopology(path string, trajectories []string) (*chem.Molecule, error) {
	if path == "" {
		if len(trajectories) == 0 {
			return nil, fmt.Errorf("%w: no topology given and no trajectories to take it from", featurize.ErrLoad)
		}
		top, coords, err := traj.Topology(trajectories[0])
		if err != nil {
			return nil, fmt.Errorf("%w: no topology given, and it can't be read from %s: %v", featurize.ErrLoad, trajectories[0], err)
		}
		return molecule(top, coords, trajectories[0])
	}
	var mol *chem.Molecule
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdb":
		mol, err = chem.PDBFileRead(path, true)
	case ".xyz":
		mol, err = chem.XYZFileRead(path)
	case ".json":
		var data []byte
		if data, err = os.ReadFile(path); err == nil {
			var top *chem.Topology
			var coords []*v3.Matrix
			if top, coords, err = chemjson.UnmarshalTopology(data); err == nil {
				mol, err = chem.NewMolecule(coords, top, nil)
			}
		}
	default:
		err = fmt.Errorf("unsupported topology format")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: topology %s: %v", featurize.ErrLoad, path, err)
	}
	return mol, nil
}

func molecule(top chem.Atomer, coords *v3.Matrix, name string) (*chem.Molecule, error) {
	if mol, ok := top.(*chem.Molecule); ok {
		return mol, nil
	}
	mol, err := chem.NewMolecule([]*v3.Matrix{coords}, top, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: topology from %s: %v", featurize.ErrLoad, name, err)
	}
	return mol, nil
}

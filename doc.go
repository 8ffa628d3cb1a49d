/*
 * doc.go, part of gopca.
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

/*
Package chem is the base package of gopca. It provides the atom, topology and molecule
structures, PDB and XYZ readers and writers, and the geometric functions (distances,
angles, dihedrals, RMSD and superposition) used to featurize trajectory frames.

	**gopca packages**

	v3          Coordinate matrices, one point in space per row, based on gonum.
	traj        Opens DCD, STF, Amber, PDB and XYZ trajectories, and resolves glob patterns.
	chemjson    JSON serialization of topologies and coordinates.
	featurize   Featurizers (distances, angles, dihedrals, positions, RMSD), their YAML
	            files, and the parallel featurization of many trajectories.
	pca         2-component principal component analysis.
	narray      The container format for the results.
	projection  The whole pipeline, from trajectory patterns to a saved projection.
	chemplot    Scatter plots of projections.
	cmd/gopca   The command line program.

A Molecule is a Topology plus a set of coordinate frames. Trajectory readers implement the
Traj interface, and signal the normal end of the trajectory with an error implementing
LastFrameError.
*/
package chem

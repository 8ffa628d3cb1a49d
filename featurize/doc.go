/*
 * doc.go, part of gopca
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

// Package featurize turns trajectory frames into rows of a feature matrix.
//
// A Featurizer maps the coordinates of one frame (plus the topology) to a fixed
// number of features. The package provides a closed set of featurizers (distances,
// bond angles, torsions, cartesian positions and RMSD) which can be saved to and
// loaded from YAML files, helpers to build common featurizers from a topology,
// Apply, which featurizes a whole trajectory, and All, which featurizes a list
// of trajectory files concurrently and stacks the results in input order,
// keeping track of the file and frame each row came from.
package featurize

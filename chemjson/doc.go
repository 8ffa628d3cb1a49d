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

// Package chemjson implements serialization and unserialization of
// topologies and coordinates as JSON, so they can be stored next to
// other data (a projection artifact, a trajectory header) and read
// by programs written in other languages.
//
// A serialized molecule is a stream of JSON lines: a header with the
// number of atoms and frames, one line per atom, and then one line per
// atom and frame with its coordinates.
package chemjson

/*
 * doc.go, part of gopca
 *
 * Copyright 2021 Raul Mera <rauldotmeraatusachdotcl>
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

// Package stf implements the simple trajectory format (STF), a compressed text trajectory
// format that is small enough for everyday use and trivial to read and write from other
// languages.
//
// An STF file starts with a header of key=value lines, ending with a line with "**",
// whitespace and the number of atoms per frame. The "prec" key gives the precision p
// (default 2). A "topology" key, if present, carries the topology as a one-line
// chemjson string.
//
// After the header there is one line per atom per frame, with the x, y and z coordinates
// in Angstrom multiplied by 10^p and rounded to integers. Each frame ends with a line that
// starts with "*", optionally followed by the 9 components of the box vectors.
//
// The whole file is compressed. The last letter of the extension selects the method:
// .stf is zstd, .stz is gzip, .str is deflate and .stl is lzw.
package stf

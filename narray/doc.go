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

// Package narray stores named, typed, n-dimensional arrays in a single compressed file.
//
// Each field has a name, a kind (float64, int64, string or blob) and a shape. A file
// starts with the magic string "NARRAY1\n", followed by a zstd stream that contains the
// number of fields and then, for each field, its name, kind, shape and data.
// Lengths and dimensions are unsigned varints, numbers are little-endian, and strings
// and blobs are preceded by their length.
//
// Files are written to a temporary file in the destination directory which is then renamed,
// so an interrupted write never leaves a partial file at the destination.
package narray

/*
 * doc.go, part of gopca
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

// Package traj opens trajectories of any of the supported formats, picking the reader
// from the file extension, and resolves lists of trajectory files from glob patterns.
//
// Supported formats are DCD (also compressed, .dcd.gz, .dcd.zst and .dcd.lzw), STF
// (.stf, .stz, .str, .stl), Amber ASCII trajectories (.crd, .mdcrd), which need a topology
// to be opened, and multi-model PDB and multi-frame XYZ files.
package traj

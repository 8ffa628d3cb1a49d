/*
 * handy.go, part of gopca
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

// Conversion factors between degrees and radians.
const (
	Deg2Rad = 0.0174533
	Rad2Deg = 1 / Deg2Rad
)

// Molecules2Atoms gets a selection list from a list of residues.
// It select all the atoms that form part of the residues in the list.
// It doesnt return errors, if a residue is out of range, no atom will
// be returned for it. Atoms are also required to be part of one of the chains
// specified in chains, unless chains is empty.
func Molecules2Atoms(mol Atomer, residues []int, chains []string) []int {
	atlist := make([]int, 0, len(residues)*3)
	for key := 0; key < mol.Len(); key++ {
		at := mol.Atom(key)
		if isInInt(residues, at.MolID) && (len(chains) == 0 || isInString(chains, at.Chain)) {
			atlist = append(atlist, key)
		}
	}
	return atlist
}

// Names2Atoms returns the indexes of the atoms in mol with names in names,
// in the order they appear in mol.
func Names2Atoms(mol Atomer, names []string) []int {
	atlist := make([]int, 0, len(names))
	for key := 0; key < mol.Len(); key++ {
		if isInString(names, mol.Atom(key).Name) {
			atlist = append(atlist, key)
		}
	}
	return atlist
}

// isInInt is a helper for Molecules2Atoms,
// returns true if test is in container, false otherwise.
func isInInt(container []int, test int) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}

// Same as the previous, but with strings.
func isInString(container []string, test string) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}

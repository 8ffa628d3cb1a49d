/*
 * files.go, part of gopca
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

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/gopca/v3"
)

//PDB reading

// readFullPDBLine parses a valid ATOM or HETATM line of a PDB file, returns an Atom
// object with the info except for the coordinates and b-factors, which are returned
// separately as an array of 3 float64 and a float64, respectively
func readFullPDBLine(line string, readAdditional bool) (*Atom, [3]float64, float64, error) {
	var coords [3]float64
	if len(line) < 54 {
		return nil, coords, 0, fmt.Errorf("line too short for an atom record: %q", line)
	}
	atom := new(Atom)
	var err error
	atom.Het = strings.HasPrefix(line, "HETATM")
	atom.ID, err = strconv.Atoi(strings.TrimSpace(line[6:11]))
	if err != nil {
		return nil, coords, 0, fmt.Errorf("atom serial: %w", err)
	}
	atom.Name = strings.TrimSpace(line[12:16])
	atom.MolName = strings.TrimSpace(line[17:20])
	atom.MolName1 = three2OneLetter[atom.MolName]
	atom.Chain = strings.TrimSpace(line[21:22])
	atom.MolID, err = strconv.Atoi(strings.TrimSpace(line[22:26]))
	if err != nil {
		return nil, coords, 0, fmt.Errorf("residue number: %w", err)
	}
	coords, err = readPDBCoords(line)
	if err != nil {
		return nil, coords, 0, err
	}
	//Occupancy and b-factors are optional. We don't complain if they are not there.
	if len(line) >= 60 {
		atom.Occupancy, _ = strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64)
	}
	var bfactor float64
	if len(line) >= 66 {
		bfactor, _ = strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64)
	}
	if readAdditional && len(line) >= 78 {
		atom.Symbol = strings.TrimSpace(line[76:78])
		if len(atom.Symbol) == 2 {
			atom.Symbol = atom.Symbol[0:1] + strings.ToLower(atom.Symbol[1:])
		}
	}
	if atom.Symbol == "" {
		atom.Symbol = symbolFromName(atom.Name)
	}
	atom.Mass = symbolMass[atom.Symbol]
	return atom, coords, bfactor, nil
}

func readPDBCoords(line string) ([3]float64, error) {
	var coords [3]float64
	if len(line) < 54 {
		return coords, fmt.Errorf("line too short for coordinates: %q", line)
	}
	var err error
	for i := 0; i < 3; i++ {
		coords[i], err = strconv.ParseFloat(strings.TrimSpace(line[30+8*i:38+8*i]), 64)
		if err != nil {
			return coords, fmt.Errorf("coordinate %d: %w", i, err)
		}
	}
	return coords, nil
}

// PDBFileRead reads a PDB file, with one or more models, and returns a Molecule with one frame per model.
// If readAdditional is true, the element symbol is read from the file instead of being guessed from
// the atom name.
func PDBFileRead(pdbname string, readAdditional bool) (*Molecule, error) {
	pdbfile, err := os.Open(pdbname)
	if err != nil {
		return nil, CError{err.Error(), []string{"os.Open", "PDBFileRead"}}
	}
	defer pdbfile.Close()
	mol, err := PDBRead(pdbfile, readAdditional)
	if err != nil {
		return nil, errDecorate(err, "PDBFileRead "+pdbname)
	}
	return mol, nil
}

// PDBRead reads a PDB formatted stream. All the models must have the same atoms,
// only the first one is used to build the topology.
func PDBRead(pdb io.Reader, readAdditional bool) (*Molecule, error) {
	bufiopdb := bufio.NewReader(pdb)
	top := NewTopology(0, 1)
	coords := make([]*v3.Matrix, 0, 1)
	bfactors := make([][]float64, 0, 1)
	var frame []float64
	var bfac []float64
	model := 0
	closeModel := func() error {
		if len(frame) == 0 {
			return nil
		}
		if model > 0 && len(frame)/3 != top.Len() {
			return CError{fmt.Sprintf("Model %d has %d atoms, the first model has %d", model+1, len(frame)/3, top.Len()), []string{"PDBRead"}}
		}
		c, err := v3.NewMatrix(frame)
		if err != nil {
			return errDecorate(err, "PDBRead")
		}
		coords = append(coords, c)
		bfactors = append(bfactors, bfac)
		frame = nil
		bfac = nil
		model++
		return nil
	}
	for lineno := 1; ; lineno++ {
		line, err := bufiopdb.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, CError{err.Error(), []string{"bufio.ReadString", "PDBRead"}}
		}
		if line == "" && err == io.EOF {
			break
		}
		line = strings.TrimRight(line, "\r\n")
		switch {
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			if model == 0 {
				at, c, b, err2 := readFullPDBLine(line, readAdditional)
				if err2 != nil {
					return nil, CError{fmt.Sprintf("Line %d: %s", lineno, err2.Error()), []string{"PDBRead"}}
				}
				top.AppendAtom(at)
				frame = append(frame, c[:]...)
				bfac = append(bfac, b)
			} else {
				c, err2 := readPDBCoords(line)
				if err2 != nil {
					return nil, CError{fmt.Sprintf("Line %d: %s", lineno, err2.Error()), []string{"PDBRead"}}
				}
				frame = append(frame, c[:]...)
				var b float64
				if len(line) >= 66 {
					b, _ = strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64)
				}
				bfac = append(bfac, b)
			}
		case strings.HasPrefix(line, "ENDMDL"):
			if err2 := closeModel(); err2 != nil {
				return nil, err2
			}
		}
		if err == io.EOF {
			break
		}
	}
	if err := closeModel(); err != nil {
		return nil, err
	}
	if top.Len() == 0 {
		return nil, CError{"No atoms found in PDB", []string{"PDBRead"}}
	}
	return NewMolecule(coords, top, bfactors)
}

// PDBFileWrite writes the frames in coords, which correspond to the topology mol, to a
// multi-model PDB file with the name pdbname. bfact can be nil.
func PDBFileWrite(pdbname string, coords []*v3.Matrix, mol Atomer, bfact [][]float64) error {
	out, err := os.Create(pdbname)
	if err != nil {
		return CError{err.Error(), []string{"os.Create", "PDBFileWrite"}}
	}
	defer out.Close()
	return errDecorate(PDBWrite(out, coords, mol, bfact), "PDBFileWrite")
}

// PDBWrite writes the frames in coords as models of a PDB stream.
func PDBWrite(out io.Writer, coords []*v3.Matrix, mol Atomer, bfact [][]float64) error {
	w := bufio.NewWriter(out)
	for m, c := range coords {
		if c.NVecs() != mol.Len() {
			return CError{fmt.Sprintf("Frame %d has %d coordinates for %d atoms", m, c.NVecs(), mol.Len()), []string{"PDBWrite"}}
		}
		if len(coords) > 1 {
			fmt.Fprintf(w, "MODEL     %4d\n", m+1)
		}
		for i := 0; i < mol.Len(); i++ {
			at := mol.Atom(i)
			var b float64
			if m < len(bfact) && i < len(bfact[m]) {
				b = bfact[m][i]
			}
			rec := "ATOM  "
			if at.Het {
				rec = "HETATM"
			}
			name := at.Name
			if len(name) < 4 {
				name = " " + name
			}
			chain := at.Chain
			if chain == "" {
				chain = " "
			}
			fmt.Fprintf(w, "%-6s%5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s  \n",
				rec, at.ID, name, at.MolName, chain[0:1], at.MolID,
				c.At(i, 0), c.At(i, 1), c.At(i, 2), at.Occupancy, b, at.Symbol)
		}
		if len(coords) > 1 {
			fmt.Fprintf(w, "ENDMDL\n")
		}
	}
	fmt.Fprintf(w, "END\n")
	return w.Flush()
}

//XYZ

// XYZFileRead reads a xyz file with one or more frames, and returns a Molecule.
func XYZFileRead(xyzname string) (*Molecule, error) {
	xyzfile, err := os.Open(xyzname)
	if err != nil {
		return nil, CError{err.Error(), []string{"os.Open", "XYZFileRead"}}
	}
	defer xyzfile.Close()
	mol, err := XYZRead(xyzfile)
	if err != nil {
		return nil, errDecorate(err, "XYZFileRead "+xyzname)
	}
	return mol, nil
}

// XYZRead reads a xyz formatted stream with one or more frames.
// Each frame must have the same number of atoms and the same symbols.
func XYZRead(xyz io.Reader) (*Molecule, error) {
	scanner := bufio.NewScanner(xyz)
	top := NewTopology(0, 1)
	coords := make([]*v3.Matrix, 0, 1)
	for frame := 0; ; frame++ {
		if !scanner.Scan() {
			break
		}
		header := strings.TrimSpace(scanner.Text())
		if header == "" {
			continue
		}
		natoms, err := strconv.Atoi(header)
		if err != nil {
			return nil, CError{fmt.Sprintf("Frame %d: can't read the number of atoms from %q", frame, header), []string{"XYZRead"}}
		}
		if frame > 0 && natoms != top.Len() {
			return nil, CError{fmt.Sprintf("Frame %d has %d atoms, the first frame has %d", frame, natoms, top.Len()), []string{"XYZRead"}}
		}
		scanner.Scan() //the comment line
		data := make([]float64, 0, 3*natoms)
		for i := 0; i < natoms; i++ {
			if !scanner.Scan() {
				return nil, CError{fmt.Sprintf("Frame %d ends after %d atoms", frame, i), []string{"XYZRead"}}
			}
			fields := strings.Fields(scanner.Text())
			if len(fields) < 4 {
				return nil, CError{fmt.Sprintf("Frame %d, atom %d: too few fields", frame, i), []string{"XYZRead"}}
			}
			for j := 1; j < 4; j++ {
				f, err := strconv.ParseFloat(fields[j], 64)
				if err != nil {
					return nil, CError{fmt.Sprintf("Frame %d, atom %d: %s", frame, i, err.Error()), []string{"XYZRead"}}
				}
				data = append(data, f)
			}
			if frame == 0 {
				top.AppendAtom(&Atom{Name: fields[0], ID: i + 1, Symbol: fields[0], Mass: symbolMass[fields[0]], MolID: 1})
			}
		}
		c, err := v3.NewMatrix(data)
		if err != nil {
			return nil, errDecorate(err, "XYZRead")
		}
		coords = append(coords, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, CError{err.Error(), []string{"XYZRead"}}
	}
	if top.Len() == 0 {
		return nil, CError{"No atoms found in XYZ", []string{"XYZRead"}}
	}
	return NewMolecule(coords, top, nil)
}

// XYZWrite writes the frames in coords, corresponding to the topology mol, as a xyz stream.
func XYZWrite(out io.Writer, coords []*v3.Matrix, mol Atomer) error {
	w := bufio.NewWriter(out)
	for f, c := range coords {
		fmt.Fprintf(w, "%d\nframe %d\n", mol.Len(), f)
		for i := 0; i < mol.Len(); i++ {
			fmt.Fprintf(w, "%-2s  %12.6f%12.6f%12.6f\n", mol.Atom(i).Symbol, c.At(i, 0), c.At(i, 1), c.At(i, 2))
		}
	}
	return w.Flush()
}

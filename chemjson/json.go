/*
 * json.go, part of gopca
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

package chemjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	chem "github.com/rmera/gopca"
	v3 "github.com/rmera/gopca/v3"
)

// Header is the first line of a serialized molecule.
type Header struct {
	Atoms  int
	Frames int
}

// Coords is a ready-to-serialize container for the coordinates of one atom.
type Coords struct {
	Coords []float64
}

// Error is the error type for the package. Function is the
// function that gave the error.
type Error struct {
	deco     []string
	Function string
	Message  string
}

// Error implements the error interface
func (J Error) Error() string {
	if len(J.deco) == 0 {
		return "chemjson: " + J.Message
	}
	return fmt.Sprintf("chemjson: %s (%s)", J.Message, strings.Join(J.deco, " < "))
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (J Error) Decorate(dec string) []string {
	if dec == "" {
		return J.deco
	}
	J.deco = append(J.deco, dec)
	return J.deco
}

// NewError takes an error and the name of the function where it happened
// and returns an *Error.
func NewError(function string, err error) Error {
	return Error{Function: function, Message: err.Error(), deco: []string{function}}
}

// MarshalTopology serializes the atoms of mol and the given frames
// (which can be none). All the frames need to have as many atoms as mol.
func MarshalTopology(mol chem.Atomer, coordset ...*v3.Matrix) ([]byte, error) {
	var b bytes.Buffer
	if err := SendMolecule(mol, coordset, &b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// UnmarshalTopology is the inverse of MarshalTopology.
func UnmarshalTopology(data []byte) (*chem.Topology, []*v3.Matrix, error) {
	return DecodeMolecule(bufio.NewReader(bytes.NewReader(data)))
}

// SendMolecule takes a chem.Atomer and a set of coordinates, encodes them and writes them to the given io.writer
func SendMolecule(mol chem.Atomer, coordset []*v3.Matrix, out io.Writer) error {
	const funcname = "SendMolecule"
	if mol == nil {
		return Error{Function: funcname, Message: "nil topology", deco: []string{funcname}}
	}
	for i, c := range coordset {
		if c.NVecs() != mol.Len() {
			return Error{Function: funcname, Message: fmt.Sprintf("frame %d has %d atoms, the topology has %d", i, c.NVecs(), mol.Len()), deco: []string{funcname}}
		}
	}
	enc := json.NewEncoder(out)
	if err := enc.Encode(Header{Atoms: mol.Len(), Frames: len(coordset)}); err != nil {
		return NewError(funcname, err)
	}
	if err := EncodeAtoms(mol, enc); err != nil {
		return err
	}
	for _, coords := range coordset {
		if err := EncodeCoords(coords, enc); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMolecule decodes a JSON molecule into a gochem topology and its frames,
// all of which need to have the same amount of atoms.
func DecodeMolecule(stream *bufio.Reader) (*chem.Topology, []*v3.Matrix, error) {
	const funcname = "DecodeMolecule"
	line, err := stream.ReadBytes('\n')
	if err != nil {
		return nil, nil, NewError(funcname, fmt.Errorf("can't read header: %w", err))
	}
	h := new(Header)
	if err := json.Unmarshal(line, h); err != nil {
		return nil, nil, NewError(funcname, err)
	}
	if h.Atoms <= 0 || h.Frames < 0 {
		return nil, nil, Error{Function: funcname, Message: fmt.Sprintf("invalid header: %d atoms, %d frames", h.Atoms, h.Frames), deco: []string{funcname}}
	}
	atoms := make([]*chem.Atom, 0, h.Atoms)
	for i := 0; i < h.Atoms; i++ {
		line, err := stream.ReadBytes('\n') //Using this function allocates a lot without need.
		if err != nil {
			return nil, nil, NewError(funcname, fmt.Errorf("reading atom %d: %w", i, err))
		}
		at := new(chem.Atom)
		if err = json.Unmarshal(line, at); err != nil {
			return nil, nil, NewError(funcname, err)
		}
		atoms = append(atoms, at)
	}
	mol := chem.NewTopology(0, 1, atoms) //no idea of the charge or multiplicity
	coordset := make([]*v3.Matrix, 0, h.Frames)
	for i := 0; i < h.Frames; i++ {
		coords, err := DecodeCoords(stream, h.Atoms)
		if err != nil {
			return mol, coordset, NewError(funcname, fmt.Errorf("Error reading the %d th frame: %w", i+1, err))
		}
		coordset = append(coordset, coords)
	}
	return mol, coordset, nil
}

// DecodeCoords decodes streams from a bufio.Reader containing atomnumber JSON lines with
// 3 floats each into a v3.Matrix with atomnumber rows.
func DecodeCoords(stream *bufio.Reader, atomnumber int) (*v3.Matrix, error) {
	const funcname = "DecodeCoords"
	rawcoords := make([]float64, 0, 3*atomnumber)
	ctemp := new(Coords)
	for i := 0; i < atomnumber; i++ {
		line, err := stream.ReadBytes('\n')
		if err != nil && !(err == io.EOF && len(line) > 0) {
			return nil, NewError(funcname, err)
		}
		if err = json.Unmarshal(line, ctemp); err != nil {
			return nil, NewError(funcname, err)
		}
		if len(ctemp.Coords) != 3 {
			return nil, Error{Function: funcname, Message: fmt.Sprintf("atom %d has %d coordinates", i, len(ctemp.Coords)), deco: []string{funcname}}
		}
		rawcoords = append(rawcoords, ctemp.Coords...)
	}
	coords, err := v3.NewMatrix(rawcoords)
	if err != nil {
		return nil, NewError(funcname, err)
	}
	return coords, nil
}

// EncodeAtoms encodes a goChem Atomer into JSON, one line per atom.
func EncodeAtoms(mol chem.Atomer, enc *json.Encoder) error {
	const funcname = "EncodeAtoms"
	for i := 0; i < mol.Len(); i++ {
		if err := enc.Encode(mol.Atom(i)); err != nil {
			return NewError(funcname, err)
		}
	}
	return nil
}

// EncodeCoords encodes a set of coordinates into JSON, one line per atom.
func EncodeCoords(coords *v3.Matrix, enc *json.Encoder) error {
	c := new(Coords)
	t := make([]float64, 3)
	for i := 0; i < coords.NVecs(); i++ {
		c.Coords = row(coords, t, i)
		if err := enc.Encode(c); err != nil {
			return NewError("EncodeCoords", err)
		}
	}
	return nil
}

func row(coords *v3.Matrix, dst []float64, i int) []float64 {
	for j := range dst {
		dst[j] = coords.At(i, j)
	}
	return dst
}

// AtomsString returns the atoms of mol as a one-line JSON array, to be used
// where a single line is needed, such as an STF header.
func AtomsString(mol chem.Atomer) (string, error) {
	atoms := make([]*chem.Atom, mol.Len())
	for i := range atoms {
		atoms[i] = mol.Atom(i)
	}
	b, err := json.Marshal(atoms)
	if err != nil {
		return "", NewError("AtomsString", err)
	}
	return string(b), nil
}

// AtomsFromString is the inverse of AtomsString.
func AtomsFromString(s string) (*chem.Topology, error) {
	var atoms []*chem.Atom
	if err := json.Unmarshal([]byte(s), &atoms); err != nil {
		return nil, NewError("AtomsFromString", err)
	}
	if len(atoms) == 0 {
		return nil, Error{Function: "AtomsFromString", Message: "no atoms", deco: []string{"AtomsFromString"}}
	}
	return chem.NewTopology(0, 1, atoms), nil
}

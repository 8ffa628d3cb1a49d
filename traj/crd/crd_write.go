/*
 * crd_write.go, part of gopca
 *
 * Copyright 2018 Raul Mera Adasme <rmera_changeforat_chem-dot-helsinki-dot-fi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License  as published by
 * the Free Software Foundation; either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 */

package crd

import (
	"bufio"
	"fmt"
	"os"

	v3 "github.com/rmera/gopca/v3"
)

// CrdWObj is a container for an Amber ASCII trajectory being written.
type CrdWObj struct {
	natoms    int
	box       bool
	writeable bool
	filename  string
	fhandle   *os.File
	crd       *bufio.Writer
}

// NewWriter creates the Amber trajectory filename, for frames of natoms atoms. If box is
// true, each frame must be written with its box.
func NewWriter(filename string, natoms int, box bool) (*CrdWObj, error) {
	if natoms <= 0 {
		return nil, Error{fmt.Sprintf("invalid number of atoms: %d", natoms), filename, []string{"NewWriter"}, true}
	}
	var err error
	C := &CrdWObj{natoms: natoms, box: box, filename: filename}
	if C.fhandle, err = os.Create(filename); err != nil {
		return nil, Error{err.Error(), filename, []string{"os.Create", "NewWriter"}, true}
	}
	C.crd = bufio.NewWriter(C.fhandle)
	if _, err := C.crd.WriteString("Amber trajectory written by gopca\n"); err != nil {
		C.fhandle.Close()
		return nil, Error{err.Error(), filename, []string{"NewWriter"}, true}
	}
	C.writeable = true
	return C, nil
}

// Len returns the number of atoms per frame.
func (C *CrdWObj) Len() int {
	return C.natoms
}

// WNext writes the frame towrite. If the trajectory has box information,
// box[0] must contain the 3 box vectors, of which only the diagonal is written.
func (C *CrdWObj) WNext(towrite *v3.Matrix, box ...[]float64) error {
	if !C.writeable {
		return Error{TrajUnIniWrite, C.filename, []string{"WNext"}, true}
	}
	if towrite.NVecs() != C.natoms {
		return Error{fmt.Sprintf("%s: frame has %d atoms, expected %d", WrongFormat, towrite.NVecs(), C.natoms), C.filename, []string{"WNext"}, true}
	}
	if C.box && (len(box) == 0 || len(box[0]) < 9) {
		return Error{"box information required", C.filename, []string{"WNext"}, true}
	}
	vals := make([]float64, 0, 3*C.natoms+3)
	for i := 0; i < C.natoms; i++ {
		vals = append(vals, towrite.At(i, 0), towrite.At(i, 1), towrite.At(i, 2))
	}
	nframe := len(vals)
	if C.box {
		vals = append(vals, box[0][0], box[0][4], box[0][8])
	}
	for _, v := range vals {
		//8.3f overflows the field outside this range.
		if v <= -999.9995 || v >= 9999.9995 || v != v {
			return Error{fmt.Sprintf("%s: value %g doesn't fit the format", WrongFormat, v), C.filename, []string{"WNext"}, true}
		}
	}
	for i, v := range vals {
		fmt.Fprintf(C.crd, "%8.3f", v)
		if (i < nframe && (i+1)%perLine == 0) || i == nframe-1 || i == len(vals)-1 {
			C.crd.WriteByte('\n')
		}
	}
	return nil
}

// Close flushes and closes the file.
func (C *CrdWObj) Close() error {
	if !C.writeable {
		return nil
	}
	C.writeable = false
	err := C.crd.Flush()
	if err2 := C.fhandle.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return Error{err.Error(), C.filename, []string{"Close"}, true}
	}
	return nil
}

/*
 * crd.go, part of gopca
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

// Package crd reads and writes Amber ASCII trajectories (mdcrd/crd files).
// A title line is followed by the frames, each one written as 10 fields of
// 8 characters per line and, optionally, a line with the 3 sides of the box.
// The files don't store the number of atoms, so it has to be supplied.
package crd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/gopca/v3"
)

const (
	fieldWidth = 8
	perLine    = 10
)

// CrdObj is a container for an Amber ASCII trajectory file.
type CrdObj struct {
	natoms   int
	readable bool //Is it ready to be read?
	box      bool //are frames followed by a box line?
	filename string
	fhandle  *os.File
	crd      *bufio.Reader
	values   []float64
}

// New opens the Amber trajectory filename, with natoms atoms per frame.
func New(filename string, natoms int) (*CrdObj, error) {
	if natoms <= 0 {
		return nil, Error{fmt.Sprintf("invalid number of atoms: %d", natoms), filename, []string{"New"}, true}
	}
	var err error
	C := &CrdObj{natoms: natoms, filename: filename, values: make([]float64, 0, 3*natoms)}
	C.fhandle, err = os.Open(filename)
	if err != nil {
		return nil, Error{UnableToOpen, filename, []string{"os.Open", "New"}, true}
	}
	if err = C.initRead(); err != nil {
		C.fhandle.Close()
		return nil, errDecorate(err, "New")
	}
	C.readable = true
	return C, nil
}

// initRead reads the first frame, which checks that the number of atoms fits
// the file, and looks at the following line to find out whether there is box information.
// Then it goes back to the first frame.
func (C *CrdObj) initRead() error {
	C.crd = bufio.NewReader(C.fhandle)
	if _, err := C.crd.ReadString('\n'); err != nil {
		return Error{"no title line", C.filename, []string{"initRead"}, true}
	}
	err := C.readValues(3 * C.natoms)
	if _, ok := err.(lastFrameError); ok {
		//no frames at all, which is fine.
		return C.rewind()
	} else if err != nil {
		return errDecorate(err, "initRead")
	}
	//The first line of a frame has at least 6 fields if there is more than 1 atom.
	next, _ := C.crd.ReadString('\n')
	next = strings.TrimRight(next, " \r\n")
	C.box = C.natoms > 1 && len(next) > 0 && len(next) <= 3*fieldWidth
	return C.rewind()
}

func (C *CrdObj) rewind() error {
	if _, err := C.fhandle.Seek(0, io.SeekStart); err != nil {
		return Error{err.Error(), C.filename, []string{"Seek", "rewind"}, true}
	}
	C.crd.Reset(C.fhandle)
	_, err := C.crd.ReadString('\n')
	if err != nil {
		return Error{err.Error(), C.filename, []string{"rewind"}, true}
	}
	return nil
}

// readValues reads lines until n values are in C.values. A frame
// must end at the end of a line.
func (C *CrdObj) readValues(n int) error {
	C.values = C.values[:0]
	for len(C.values) < n {
		line, err := C.crd.ReadString('\n')
		if err != nil && err != io.EOF {
			return Error{ReadError + ": " + err.Error(), C.filename, []string{"readValues"}, true}
		}
		line = strings.TrimRight(line, " \r\n")
		if line == "" {
			if err == io.EOF {
				if len(C.values) == 0 {
					return newlastFrameError(C.filename, "readValues")
				}
				return Error{fmt.Sprintf("%s: truncated frame, %d of %d values", WrongFormat, len(C.values), n), C.filename, []string{"readValues"}, true}
			}
			continue
		}
		if C.values, err = parseLine(line, C.values); err != nil {
			return Error{fmt.Sprintf("%s: %s", WrongFormat, err.Error()), C.filename, []string{"readValues"}, true}
		}
	}
	if len(C.values) > n {
		return Error{fmt.Sprintf("%s: frame has more than %d values. Wrong number of atoms?", WrongFormat, n), C.filename, []string{"readValues"}, true}
	}
	return nil
}

// parseLine appends to dst the values in the fixed-width fields of line.
func parseLine(line string, dst []float64) ([]float64, error) {
	for i := 0; i < len(line); i += fieldWidth {
		field := strings.TrimSpace(line[i:min(i+fieldWidth, len(line))])
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return dst, err
		}
		dst = append(dst, v)
	}
	return dst, nil
}

// Readable returns true if the object is ready to be read from
// false otherwise. It doesnt guarantee that there is something
// to read.
func (C *CrdObj) Readable() bool {
	return C.readable
}

// Len returns the number of atoms per frame.
func (C *CrdObj) Len() int {
	return C.natoms
}

// Next reads the next frame of the trajectory. If keep is not nil, the coordinates are
// put there, otherwise they are discarded. If box is given, with at least 9 elements,
// and the file has box information, the 3 box vectors are put in box[0].
func (C *CrdObj) Next(keep *v3.Matrix, box ...[]float64) error {
	if !C.readable {
		return Error{TrajUnIni, C.filename, []string{"Next"}, true}
	}
	if keep != nil && keep.NVecs() != C.natoms {
		return Error{fmt.Sprintf("%s: %d atoms in the trajectory, %d rows in the matrix", NotEnoughSpace, C.natoms, keep.NVecs()), C.filename, []string{"Next"}, true}
	}
	if err := C.readValues(3 * C.natoms); err != nil {
		C.readable = false
		return errDecorate(err, "Next")
	}
	if keep != nil {
		for i, v := range C.values {
			keep.Set(i/3, i%3, v)
		}
	}
	if !C.box {
		return nil
	}
	line, err := C.crd.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		C.readable = false
		return Error{WrongFormat + ": missing box line", C.filename, []string{"Next"}, true}
	}
	sides, err := parseLine(strings.TrimRight(line, " \r\n"), make([]float64, 0, 3))
	if err != nil || len(sides) != 3 {
		C.readable = false
		return Error{WrongFormat + ": bad box line", C.filename, []string{"Next"}, true}
	}
	if len(box) > 0 && len(box[0]) >= 9 {
		b := box[0]
		for i := range b[:9] {
			b[i] = 0
		}
		b[0], b[4], b[8] = sides[0], sides[1], sides[2]
	}
	return nil
}

// Close closes the file and marks the object as unreadable.
func (C *CrdObj) Close() {
	if C.fhandle == nil {
		return
	}
	C.readable = false
	C.fhandle.Close()
	C.fhandle = nil
}

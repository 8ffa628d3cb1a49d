/*
 * dcd.go, part of gopca
 *
 * Copyright 2012 Raul Mera Adasme <rmera_changeforat_chem-dot-helsinki-dot-fi>
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

package dcd

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	v3 "github.com/rmera/gopca/v3"
)

const mAXTITLE int32 = 80

// DCDObj is a container for an Charmm/NAMD binary trajectory file.
type DCDObj struct {
	natoms     int32
	nframes    int32 //as declared in the header
	readLast   bool  //Have we read the last frame?
	readable   bool  //Is it ready to be read
	filename   string
	charmm     bool //Charmm traj?
	extrablock bool
	fourdim    bool
	fixed      int32    //Fixed atoms (not supported)
	fhandle    *os.File //The DCD file
	dcd        io.Reader
	closer     io.Closer //the decompressor, if any
	dcdFields  [][]float32
	endian     binary.ByteOrder
}

// New opens the DCD file filename and prepares it for reading. Compressed
// DCDs (.gz, .zst, .lzw extensions) are decompressed on the fly.
func New(filename string) (*DCDObj, error) {
	D := new(DCDObj)
	if err := D.initRead(filename); err != nil {
		if D.fhandle != nil {
			D.fhandle.Close()
		}
		return nil, errDecorate(err, "New")
	}
	return D, nil
}

// Readable returns true if the object is ready to be read from
// false otherwise. It doesnt guarantee that there is something
// to read.
func (D *DCDObj) Readable() bool {
	return D.readable
}

// Len returns the number of atoms per frame in the DCDObj.
func (D *DCDObj) Len() int {
	return int(D.natoms)
}

// Frames returns the number of frames declared in the header of the file. Some
// programs don't fill this number, so it could be 0 for a non-empty trajectory.
func (D *DCDObj) Frames() int {
	return int(D.nframes)
}

// Close closes the file and marks the object as unreadable.
func (D *DCDObj) Close() {
	if D.fhandle == nil {
		return
	}
	if D.closer != nil {
		D.closer.Close()
	}
	D.fhandle.Close()
	D.fhandle = nil
	D.readable = false
}

// initRead initializes a DCDObj for reading.
// It requires only the filename, which must be valid.
// It support big and little endianness, charmm or namd>=2.1 and X-PLOR files, but no
// fixed atoms.
func (D *DCDObj) initRead(name string) error {
	rdr, err := D.prepSource(name, "")
	if err != nil {
		return errDecorate(err, "initRead")
	}
	D.dcd = rdr
	wrapbinerr := func(err error) error {
		return Error{err.Error(), D.filename, []string{"binary.Read", "initRead"}, true}
	}
	var first [4]byte
	if _, err := io.ReadFull(D.dcd, first[:]); err != nil {
		return wrapbinerr(err)
	}
	//For some reason the first thing we should read is an 84.
	//We use it to find out the endianness of the file.
	switch {
	case binary.LittleEndian.Uint32(first[:]) == 84:
		D.endian = binary.LittleEndian
	case binary.BigEndian.Uint32(first[:]) == 84:
		D.endian = binary.BigEndian
	default:
		return Error{WrongFormat + ": Can't determine endianness", D.filename, []string{"initRead"}, true}
	}
	//Then the magic number "CORD", also for some unknown reason.
	//After that, a block of 80 bytes, with all the info we need.
	buf := make([]byte, 84+4)
	if _, err := io.ReadFull(D.dcd, buf); err != nil {
		return wrapbinerr(err)
	}
	if string(buf[0:4]) != "CORD" {
		return Error{WrongFormat + ": Wrong magic number", D.filename, []string{"initRead"}, true}
	}
	if int32(D.endian.Uint32(buf[84:88])) != 84 {
		return Error{SecurityCheckFailed + " after the header", D.filename, []string{"initRead"}, true}
	}
	hdr := buf[4:84]
	i32 := func(offset int) int32 { return int32(D.endian.Uint32(hdr[offset : offset+4])) }
	D.nframes = i32(0)
	D.fixed = i32(32)
	//X-plor sets this last int to zero, charmm sets it to its version number.
	//if we have a charmm file we get some additional flags.
	if i32(76) != 0 {
		D.charmm = true
		D.extrablock = i32(40) != 0
		D.fourdim = i32(44) == 1
	}
	if D.fixed != 0 {
		return Error{"Fixed atoms not supported", D.filename, []string{"initRead"}, true}
	}
	//The title. We don't care about its contents.
	if _, err := D.readRecord(); err != nil {
		return errDecorate(err, "initRead")
	}
	natrec, err := D.readRecord()
	if err != nil {
		return errDecorate(err, "initRead")
	}
	if len(natrec) != 4 {
		return Error{WrongFormat + ": wrong size for the atom-number block", D.filename, []string{"initRead"}, true}
	}
	D.natoms = int32(D.endian.Uint32(natrec))
	if D.natoms <= 0 {
		return Error{fmt.Sprintf("%s: %d atoms in header", WrongFormat, D.natoms), D.filename, []string{"initRead"}, true}
	}
	D.readable = true
	return nil
}

// Next Reads the next frame in a DCDObj that has been initialized for read
// With initread. If keep is non-nil, puts the coordinates read in it,
// otherwise, it discards the coordinates. If box is given and the trajectory
// contains unit cell information, the 3 box vectors are put in box[0].
func (D *DCDObj) Next(keep *v3.Matrix, box ...[]float64) error {
	if !D.readable {
		return Error{TrajUnIni, D.filename, []string{"Next"}, true}
	}
	if D.dcdFields == nil {
		D.dcdFields = make([][]float32, 3)
		for i := range D.dcdFields {
			D.dcdFields[i] = make([]float32, int(D.natoms))
		}
	}
	var b []float64
	if len(box) > 0 && len(box[0]) >= 9 {
		b = box[0]
	}
	if err := D.nextRaw(D.dcdFields, b); err != nil {
		return errDecorate(err, "Next")
	}
	if keep == nil {
		return nil
	}
	if keep.NVecs() != int(D.natoms) {
		return Error{fmt.Sprintf("Given a matrix with %d vectors for a %d atoms trajectory", keep.NVecs(), D.natoms), D.filename, []string{"Next"}, true}
	}
	for i := 0; i < int(D.natoms); i++ {
		keep.Set(i, 0, float64(D.dcdFields[0][i]))
		keep.Set(i, 1, float64(D.dcdFields[1][i]))
		keep.Set(i, 2, float64(D.dcdFields[2][i]))
	}
	return nil
}

// nextRaw reads the next frame into the 3 blocks given (X, Y and Z coordinates)
func (D *DCDObj) nextRaw(blocks [][]float32, box []float64) error {
	if D.readLast {
		D.readable = false
		return newlastFrameError(D.filename, "nextRaw")
	}
	first := true
	//if there is an extra block, it has the unit cell.
	if D.extrablock {
		rec, err := D.readRecord()
		if err != nil {
			return D.eOF2LastFrame(err, first)
		}
		first = false
		if len(rec) == 48 && box != nil {
			cell := make([]float64, 6)
			if err := binary.Read(bytes.NewReader(rec), D.endian, cell); err == nil {
				cellToBox(cell, box)
			}
		}
	}
	for i := 0; i < 3; i++ {
		if err := D.readFloat32Record(blocks[i]); err != nil {
			return D.eOF2LastFrame(err, first && i == 0)
		}
	}
	//we skip the 4-D values if they exist.
	if D.fourdim {
		if _, err := D.readRecord(); err != nil {
			if !errors.Is(err, io.EOF) {
				return errDecorate(err, "nextRaw")
			}
			D.readLast = true
		}
	}
	return nil
}

// eOF2LastFrame turns a clean EOF at the beginning of a frame into a last frame error.
func (D *DCDObj) eOF2LastFrame(err error, framestart bool) error {
	if framestart && errors.Is(err, io.EOF) {
		D.readable = false
		return newlastFrameError(D.filename, "nextRaw")
	}
	return errDecorate(err, "nextRaw")
}

// readRecord reads a Fortran record, i.e. a block of data preceded and followed by its size in bytes.
func (D *DCDObj) readRecord() ([]byte, error) {
	var blocksize int32
	if err := binary.Read(D.dcd, D.endian, &blocksize); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, Error{err.Error(), D.filename, []string{"binary.Read", "readRecord"}, true}
	}
	if blocksize < 0 {
		return nil, Error{fmt.Sprintf("%s: negative block size %d", WrongFormat, blocksize), D.filename, []string{"readRecord"}, true}
	}
	block := make([]byte, blocksize)
	if _, err := io.ReadFull(D.dcd, block); err != nil {
		return nil, Error{err.Error(), D.filename, []string{"io.ReadFull", "readRecord"}, true}
	}
	var check int32
	if err := binary.Read(D.dcd, D.endian, &check); err != nil {
		return nil, Error{err.Error(), D.filename, []string{"binary.Read", "readRecord"}, true}
	}
	if check != blocksize {
		return nil, Error{SecurityCheckFailed, D.filename, []string{"readRecord"}, true}
	}
	return block, nil
}

// readFloat32Record reads a record and puts its contents, which must be float32s, in block.
func (D *DCDObj) readFloat32Record(block []float32) error {
	rec, err := D.readRecord()
	if err != nil {
		return err
	}
	if len(rec) != 4*len(block) {
		return Error{fmt.Sprintf("%s: coordinate block of %d bytes for %d atoms", WrongFormat, len(rec), len(block)), D.filename, []string{"readFloat32Record"}, true}
	}
	for i := range block {
		block[i] = math.Float32frombits(D.endian.Uint32(rec[4*i : 4*i+4]))
	}
	return nil
}

// cellToBox transforms the CHARMM unit cell (A, gamma, B, beta, alpha, C) into 3 box vectors.
// Newer CHARMM versions store the cosines of the angles instead of the angles in degrees.
func cellToBox(cell []float64, box []float64) {
	a, b, c := cell[0], cell[2], cell[5]
	angle := func(v float64) float64 {
		if math.Abs(v) <= 1 {
			return math.Acos(v)
		}
		return v * math.Pi / 180
	}
	alpha, beta, gamma := angle(cell[4]), angle(cell[3]), angle(cell[1])
	for i := range box[:9] {
		box[i] = 0
	}
	box[0] = a
	box[3] = b * math.Cos(gamma)
	box[4] = b * math.Sin(gamma)
	box[6] = c * math.Cos(beta)
	if sg := math.Sin(gamma); sg != 0 {
		box[7] = c * (math.Cos(alpha) - math.Cos(beta)*math.Cos(gamma)) / sg
	}
	box[8] = math.Sqrt(math.Max(0, c*c-box[6]*box[6]-box[7]*box[7]))
}

/*
 * dcd_write.go, part of gopca
 *
 * Copyright 2021 Raul Mera Adasme <rmera_changeforat_chem-dot-helsinki-dot-fi>
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
	"encoding/binary"
	"fmt"
	"io"
	"os"

	v3 "github.com/rmera/gopca/v3"
)

// DCDWObj is a Charmm/NAMD binary trajectory file
// opened for writing
type DCDWObj struct {
	natoms    int32
	writable  bool //Is it ready to be written on
	filename  string
	frames    int32
	dcd       *os.File //The DCD file
	dcdFields [][]float32
	endian    binary.ByteOrder
}

// NewWriter initializes a DCD trajectory for writing.
func NewWriter(filename string, natoms int) (*DCDWObj, error) {
	traj := new(DCDWObj)
	traj.natoms = int32(natoms)
	traj.filename = filename
	if err := traj.initWrite(filename); err != nil {
		return nil, errDecorate(err, "NewWriter")
	}
	return traj, nil
}

// Len returns the number of atoms per frame.
func (D *DCDWObj) Len() int {
	return int(D.natoms)
}

// Close closes the file. The object can't be written on after this.
func (D *DCDWObj) Close() error {
	if !D.writable {
		return nil
	}
	D.writable = false
	if err := D.dcd.Close(); err != nil {
		return Error{err.Error(), D.filename, []string{"os.File.Close", "Close"}, true}
	}
	return nil
}

// initWrite writes a little-endian charmm header for natoms atoms with no unit cell
// and no fixed atoms.
func (D *DCDWObj) initWrite(name string) error {
	D.endian = binary.LittleEndian
	//The number of atoms is required before writing the header.
	if D.natoms <= 0 {
		return Error{"Trajectory not initialized correctly, the number of atoms must be positive", D.filename, []string{"initWrite"}, true}
	}
	var err error
	D.dcd, err = os.Create(name)
	if err != nil {
		return Error{err.Error(), D.filename, []string{"os.Create", "initWrite"}, true}
	}
	hdr := make([]int32, 20)
	hdr[0] = 0  //The frames in the file go here, we update this part after every write.
	hdr[1] = 0  //Initial time
	hdr[2] = 1  //step interval (nsavc)
	hdr[19] = 24 //charmm version, let's say, 24
	delta := float32(1)
	//how many units of mAXTITLE does the title have?
	var ntitle int32 = 2
	title := make([]byte, ntitle*mAXTITLE)
	copy(title, fmt.Sprintf("gopca DCD writer, %d atoms", D.natoms))

	//The header block goes first, then the title and the atom number block.
	//All of them are Fortran records, preceded and followed by their size.
	towrite := []any{
		int32(84), []byte("CORD"), hdr[:9], delta, hdr[10:], int32(84),
		4 + ntitle*mAXTITLE, ntitle, title, 4 + ntitle*mAXTITLE,
		int32(4), D.natoms, int32(4),
	}
	for _, v := range towrite {
		if err := binary.Write(D.dcd, D.endian, v); err != nil {
			D.dcd.Close()
			return Error{err.Error(), D.filename, []string{"binary.Write", "initWrite"}, true}
		}
	}
	D.writable = true
	return nil
}

// WNext writes the next frame to the trajectory.
// the box isn't actually used, so far. It's only there for compatibility.
func (D *DCDWObj) WNext(towrite *v3.Matrix, box ...[]float64) error {
	if !D.writable {
		return Error{TrajUnIniWrite, D.filename, []string{"WNext"}, true}
	}
	if towrite == nil {
		return Error{"got nil coordinates", D.filename, []string{"WNext"}, true}
	}
	if int32(towrite.NVecs()) != D.natoms {
		return Error{"Coordinates don't match the trajectory size", D.filename, []string{"WNext"}, true}
	}
	if D.dcdFields == nil {
		D.dcdFields = make([][]float32, 3)
		for i := range D.dcdFields {
			D.dcdFields[i] = make([]float32, int(D.natoms))
		}
	}
	//This is easier to write to the dcd
	for i := 0; i < int(D.natoms); i++ {
		D.dcdFields[0][i] = float32(towrite.At(i, 0))
		D.dcdFields[1][i] = float32(towrite.At(i, 1))
		D.dcdFields[2][i] = float32(towrite.At(i, 2))
	}
	for _, block := range D.dcdFields {
		if err := D.writeFloat32Block(block); err != nil {
			return errDecorate(err, "WNext")
		}
	}
	D.frames++
	return errDecorate(D.updateFrames(), "WNext")
}

// Writes a block of float32s to the file, preceded and followed by its size
func (D *DCDWObj) writeFloat32Block(block []float32) error {
	var blocksize int32 = int32(len(block)) * 4
	for _, v := range []any{blocksize, block, blocksize} {
		if err := binary.Write(D.dcd, D.endian, v); err != nil {
			return Error{err.Error(), D.filename, []string{"binary.Write", "writeFloat32Block"}, true}
		}
	}
	return nil
}

// DCD is silly enough to require the number of frames at the begining.
func (D *DCDWObj) updateFrames() error {
	//the frame number goes right after the 84 and the "CORD"
	var buf [4]byte
	D.endian.PutUint32(buf[:], uint32(D.frames))
	if _, err := D.dcd.WriteAt(buf[:], 8); err != nil {
		return Error{err.Error(), D.filename, []string{"os.File.WriteAt", "updateFrames"}, true}
	}
	//WriteAt doesn't move the offset, but we check that we are still at the end.
	if _, err := D.dcd.Seek(0, io.SeekEnd); err != nil {
		return Error{err.Error(), D.filename, []string{"os.File.Seek", "updateFrames"}, true}
	}
	return nil
}

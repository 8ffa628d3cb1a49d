/*
 * stf.go, part of gopca
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

package stf

import (
	"bufio"
	"compress/lzw"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	v3 "github.com/rmera/gopca/v3"
	"gonum.org/v1/gonum/mat"
)

const (
	lzwLitwidth int = 8
	defaultPrec int = 2
)

// StfW is an STF trajectory opened for writing.
type StfW struct {
	f         *os.File
	h         io.WriteCloser
	w         *bufio.Writer
	natoms    int
	filename  string
	writeable bool
	prec      int
}

// Close flushes and closes the trajectory. It can't be written on after this.
func (S *StfW) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	var err error
	if err = S.w.Flush(); err == nil {
		err = S.h.Close()
	}
	if err2 := S.f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return Error{err.Error(), S.filename, []string{"Close"}, true}
	}
	return nil
}

// Len returns the number of atoms per frame.
func (S *StfW) Len() int {
	return S.natoms
}

// WNextDense writes a frame given as a gonum matrix, one atom per row.
func (S *StfW) WNextDense(dcoord *mat.Dense) error {
	err := S.WNext(v3.Dense2Matrix(dcoord))
	if err != nil {
		err = errDecorate(err, "WNextDense")
	}
	return err
}

// WNext writes coord as the next frame. If box is given, and has at least
// 9 elements, the box vectors are written at the end of the frame.
func (S *StfW) WNext(coord *v3.Matrix, box ...[]float64) error {
	if !S.writeable {
		return Error{TrajUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return Error{NilCoordinates, S.filename, []string{"WNext"}, true}
	}
	v := coord.NVecs()
	if v != S.natoms {
		return Error{fmt.Sprintf("%d coordinates given, but %d expected", v, S.natoms), S.filename, []string{"WNext"}, true}
	}
	var floats [3]float64
	for i := 0; i < v; i++ {
		floats[0] = coord.At(i, 0)
		floats[1] = coord.At(i, 1)
		floats[2] = coord.At(i, 2)
		S.w.WriteString(coordsEncode(floats, S.prec))
	}
	var err error
	if len(box) > 0 && len(box[0]) >= 9 {
		b := box[0]
		_, err = fmt.Fprintf(S.w, "* %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f %4.2f\n", b[0],
			b[1], b[2], b[3], b[4], b[5], b[6], b[7], b[8])
	} else {
		_, err = S.w.WriteString("*\n")
	}
	if err != nil {
		return Error{err.Error(), S.filename, []string{"WNext"}, true}
	}
	return nil
}

// NewWriter creates the STF file name, for frames of natoms atoms, and writes
// the header, with the pairs in the header map (which can be nil) sorted by key.
// The compression method is chosen from the extension. An optional compression level
// is used for the gzip and deflate methods.
func NewWriter(name string, natoms int, header map[string]string, compressionLevel ...int) (*StfW, error) {
	level := flate.BestCompression
	if len(compressionLevel) > 0 {
		level = compressionLevel[0]
	}
	if natoms <= 0 {
		return nil, Error{fmt.Sprintf("Can't write a trajectory with %d atoms", natoms), name, []string{"NewWriter"}, true}
	}
	S := new(StfW)
	S.filename = name
	S.natoms = natoms
	S.prec = defaultPrec
	if p, ok := header["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err == nil && prec > 0 {
			S.prec = prec
		} else {
			log.Printf("Invalid precision for trajectory %s. Will use the default", S.filename)
		}
	}
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"os.Create", "NewWriter"}, true}
	}
	var AnyNewWriter func(io.Writer) (io.WriteCloser, error)
	switch format(name) {
	case 'l':
		AnyNewWriter = func(a io.Writer) (io.WriteCloser, error) { return lzw.NewWriter(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		AnyNewWriter = func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(a, level) }
	case 'r':
		AnyNewWriter = func(a io.Writer) (io.WriteCloser, error) { return flate.NewWriter(a, level) }
	default:
		AnyNewWriter = func(a io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		}
	}
	S.h, err = AnyNewWriter(S.f)
	if err != nil {
		S.f.Close()
		return nil, Error{"Can't create compressor " + err.Error(), S.filename, []string{"NewWriter"}, true}
	}
	S.w = bufio.NewWriter(S.h)
	keys := make([]string, 0, len(header)+1)
	for k := range header {
		if strings.ContainsAny(k, "=\n") || strings.Contains(header[k], "\n") || strings.HasPrefix(k, "*") {
			S.f.Close()
			return nil, Error{fmt.Sprintf("Invalid header pair %q", k), S.filename, []string{"NewWriter"}, true}
		}
		keys = append(keys, k)
	}
	if _, ok := header["prec"]; !ok {
		keys = append(keys, "prec")
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := header[k]
		if k == "prec" {
			v = strconv.Itoa(S.prec)
		}
		fmt.Fprintf(S.w, "%s=%s\n", k, v)
	}
	fmt.Fprintf(S.w, "** %d\n", S.natoms)
	S.writeable = true
	return S, nil
}

// format returns the letter that identifies the compression method of the file.
func format(name string) byte {
	return strings.ToLower(name)[len(name)-1]
}

// StfR is an STF trajectory opened for reading.
type StfR struct {
	f        *os.File
	dec      io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	prec     int
	readable bool
}

// *zstd.Decoder's Close doesn't return an error, so it doesn't implement io.ReadCloser.
type zstdReadCloser struct {
	*zstd.Decoder
}

// Close Closes the object. It can not be used after this call
func (s zstdReadCloser) Close() error {
	s.Decoder.Close()
	return nil
}

func coordsEncode(f [3]float64, prec int) string {
	p := math.Pow(10.0, float64(prec))
	var temp [3]int
	for i, v := range f {
		temp[i] = int(math.RoundToEven(v * p))
	}
	return fmt.Sprintf("%d %d %d\n", temp[0], temp[1], temp[2])
}

// New opens a STF trajectory for reading, and returns a pointer
// to the handle, a map with the header (without the atom number line)
// and error or nil.
func New(name string) (*StfR, map[string]string, error) {
	S := new(StfR)
	S.natoms = -1 //just so we know if things don't work
	S.prec = defaultPrec
	m := make(map[string]string)
	var err error
	S.filename = name
	S.f, err = os.Open(S.filename)
	if err != nil {
		return nil, nil, Error{err.Error(), S.filename, []string{"os.Open", "New"}, true}
	}
	var AnyNewReader func(io.Reader) (io.ReadCloser, error)
	switch format(name) {
	case 'l':
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) { return lzw.NewReader(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	case 'r':
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) { return flate.NewReader(a), nil }
	default:
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) {
			r, err := zstd.NewReader(a)
			if err != nil {
				return nil, err
			}
			return zstdReadCloser{r}, nil
		}
	}
	S.dec, err = AnyNewReader(bufio.NewReader(S.f))
	if err != nil {
		S.f.Close()
		return nil, nil, Error{"Can't read header " + err.Error(), S.filename, []string{"New"}, true}
	}
	S.h = bufio.NewReader(S.dec)
	fail := func(msg string) (*StfR, map[string]string, error) {
		S.dec.Close()
		S.f.Close()
		return nil, nil, Error{msg, S.filename, []string{"New"}, true}
	}
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			return fail("Can't read header: " + err.Error())
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				return fail(fmt.Sprintf("Can't read atom number from '%s'", str))
			}
			S.natoms, err = strconv.Atoi(nat[1])
			if err != nil || S.natoms <= 0 {
				return fail(fmt.Sprintf("Can't read atom number from '%s'", nat[1]))
			}
			break
		}
		k, v, ok := strings.Cut(str, "=")
		if !ok {
			return fail(fmt.Sprintf("Malformed header line: '%s'", str))
		}
		m[k] = v
	}
	if p, ok := m["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err == nil && prec > 0 {
			S.prec = prec
		} else {
			log.Printf("Invalid precision for trajectory %s. Will assume the default", S.filename)
		}
	}
	S.readable = true
	return S, m, nil
}

// Readable returns true if the handle is readable (if it is possible to call Next on it)
func (S *StfR) Readable() bool {
	return S.readable
}

func coordsDecode(str string, temp *[3]float64, prec int) error {
	p := math.Pow(10.0, float64(prec))
	s := strings.Fields(str)
	if len(s) < 3 {
		return fmt.Errorf("Ill formated coordinates line in stf: Too few fields: %s", str)
	}
	if len(s) > 3 {
		return fmt.Errorf("Ill formated coordinates line in stf: Too many fields: %s", str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("Can't parse coordinate %d (%s). Error: %s", i, v, err.Error())
		}
		temp[i] = float64(f) / p
	}
	return nil
}

// Next puts in the given matrix (c) the coordinates for the next frame of the trajectory
// or discards them, if c is nil. If given, and the information is present, puts the box
// vector information in box. At the end of the trajectory, it returns an error
// implementing chem.LastFrameError.
func (S *StfR) Next(c *v3.Matrix, box ...[]float64) error {
	if !S.readable {
		return Error{TrajUnIniRead, S.filename, []string{"Next"}, true}
	}
	if c != nil && c.NVecs() != S.natoms {
		return Error{fmt.Sprintf("Given a matrix with %d vectors for a %d atoms trajectory", c.NVecs(), S.natoms), S.filename, []string{"Next"}, true}
	}
	var temp [3]float64
	for i := 0; i < S.natoms; i++ {
		str, err := S.h.ReadString('\n')
		if err != nil {
			// EOF should only happen when reading the first atom
			if err == io.EOF && i == 0 && str == "" {
				//nothing bad happened here, the trajectory just ended.
				S.Close()
				return newlastFrameError(S.filename, "Next")
			}
			return Error{ReadError + ": " + err.Error(), S.filename, []string{"Next"}, true}
		}
		if strings.HasPrefix(str, "*") {
			return Error{fmt.Sprintf("%s: frame with %d atoms", WrongFormat, i), S.filename, []string{"Next"}, true}
		}
		if err = coordsDecode(str, &temp, S.prec); err != nil {
			return Error{err.Error(), S.filename, []string{"Next"}, true}
		}
		if c == nil {
			continue //We ignore this whole frame, reading the content but not saving it.
		}
		for j, v := range temp {
			c.Set(i, j, v)
		}
	}
	s, err := S.h.ReadString('\n')
	if err != nil && !(err == io.EOF && s != "") {
		return Error{"Can't read the frame termination mark: " + err.Error(), S.filename, []string{"Next"}, true}
	}
	if !strings.HasPrefix(s, "*") {
		return Error{"Wrong number of atoms in frame", S.filename, []string{"Next"}, true}
	}
	if len(box) > 0 && len(box[0]) >= 9 {
		readBox(S.filename, s, box[0])
	}
	return nil
}

// readBox parses the box vectors from the frame termination line s into box.
// Problems are logged, not returned, and the box is zeroed.
func readBox(filename, s string, box []float64) {
	fields := strings.Fields(s)
	if len(fields) < 10 { // The "*" and the 9 numbers
		log.Printf("Trajectory file %s does not contain (correct) box information: %s", filename, fields) //just a head-up
		return
	}
	var errbox error
	for j, v := range fields[1:10] {
		box[j], errbox = strconv.ParseFloat(v, 64)
		if errbox != nil {
			break
		}
	}
	if errbox != nil {
		log.Printf("Failed to read box in a frame from %s", filename) //just a head-up
		for i := range box {
			box[i] = 0.0
		}
	}
}

// Close closes the object, and marks it as unreadable
func (S *StfR) Close() {
	if S.f == nil {
		return
	}
	S.dec.Close()
	S.f.Close()
	S.f = nil
	S.readable = false
}

// Len returns the number of atoms in each frame of the trajectory.
func (S *StfR) Len() int {
	return S.natoms
}

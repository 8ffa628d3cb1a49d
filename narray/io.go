/*
 * io.go, part of gopca
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

package narray

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const magic = "NARRAY1\n"

// maxLen is the largest length accepted when reading a file.
const maxLen = 1 << 34

// Write writes the file to w.
func (F *File) Write(w io.Writer) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return err
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(zw)
	var buf [binary.MaxVarintLen64]byte
	putUvarint := func(v uint64) {
		n := binary.PutUvarint(buf[:], v)
		bw.Write(buf[:n])
	}
	putBytes := func(b []byte) {
		putUvarint(uint64(len(b)))
		bw.Write(b)
	}
	putUvarint(uint64(len(F.fields)))
	var num [8]byte
	for _, f := range F.fields {
		putBytes([]byte(f.Name))
		bw.WriteByte(byte(f.Kind))
		putUvarint(uint64(len(f.Shape)))
		for _, d := range f.Shape {
			putUvarint(uint64(d))
		}
		switch f.Kind {
		case Float64:
			for _, v := range f.Floats {
				binary.LittleEndian.PutUint64(num[:], math.Float64bits(v))
				bw.Write(num[:])
			}
		case Int64:
			for _, v := range f.Ints {
				binary.LittleEndian.PutUint64(num[:], uint64(v))
				bw.Write(num[:])
			}
		case String:
			for _, s := range f.Strings {
				putBytes([]byte(s))
			}
		case Blob:
			for _, b := range f.Blobs {
				putBytes(b)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// Save writes the file to path. If overwrite is false and path exists, nothing is written.
// The data is written to a temporary file in the same directory, which is renamed to path
// once complete. Every failure is an ErrWrite error.
func (F *File) Save(path string, overwrite bool) error {
	werr := func(msg string) error {
		return Error{msg, path, []string{"Save"}, ErrWrite}
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return werr(fmt.Sprintf("destination directory: %v", err))
	}
	if !info.IsDir() {
		return werr(fmt.Sprintf("%s is not a directory", dir))
	}
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return werr("destination is a directory")
		}
		if !overwrite {
			return werr("file exists")
		}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return werr(err.Error())
	}
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmp.Name())
		return werr(err.Error())
	}
	if err := F.Write(tmp); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return werr(err.Error())
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return werr(err.Error())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return werr(err.Error())
	}
	return nil
}

// Open reads the file path. Every failure is an ErrFormat error.
func Open(path string) (*File, error) {
	fin, err := os.Open(path)
	if err != nil {
		return nil, Error{err.Error(), path, []string{"Open"}, ErrFormat}
	}
	defer fin.Close()
	F, err := Read(bufio.NewReader(fin))
	if err != nil {
		var e Error
		if errors.As(err, &e) {
			e.filename = path
			e.deco = e.Decorate("Open")
			return nil, e
		}
		return nil, err
	}
	return F, nil
}

// Read reads a file from r.
func Read(r io.Reader) (*File, error) {
	ferr := func(format string, a ...any) error {
		return Error{fmt.Sprintf(format, a...), "", []string{"Read"}, ErrFormat}
	}
	head := make([]byte, len(magic))
	if _, err := io.ReadFull(r, head); err != nil || !bytes.Equal(head, []byte(magic)) {
		return nil, ferr("wrong magic string")
	}
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, ferr("%v", err)
	}
	defer zr.Close()
	br := bufio.NewReader(zr)
	uvarint := func(what string) (int, error) {
		v, err := binary.ReadUvarint(br)
		if err != nil {
			return 0, ferr("reading %s: %v", what, err)
		}
		if v > maxLen {
			return 0, ferr("%s too large: %d", what, v)
		}
		return int(v), nil
	}
	readBytes := func(what string) ([]byte, error) {
		n, err := uvarint(what + " length")
		if err != nil {
			return nil, err
		}
		b := make([]byte, n)
		if _, err := io.ReadFull(br, b); err != nil {
			return nil, ferr("reading %s: %v", what, err)
		}
		return b, nil
	}
	nfields, err := uvarint("number of fields")
	if err != nil {
		return nil, err
	}
	F := New()
	var num [8]byte
	for i := 0; i < nfields; i++ {
		name, err := readBytes("field name")
		if err != nil {
			return nil, err
		}
		f := &Field{Name: string(name)}
		k, err := br.ReadByte()
		if err != nil {
			return nil, ferr("reading the kind of %q: %v", f.Name, err)
		}
		f.Kind = Kind(k)
		ndims, err := uvarint("number of dimensions")
		if err != nil {
			return nil, err
		}
		if ndims > 0 {
			f.Shape = make([]int, ndims)
		}
		n := 1
		for j := range f.Shape {
			if f.Shape[j], err = uvarint("dimension"); err != nil {
				return nil, err
			}
			if d := f.Shape[j]; d != 0 && n > maxLen/d {
				return nil, ferr("field %q too large", f.Name)
			}
			n *= f.Shape[j]
		}
		for j := 0; j < n; j++ {
			switch f.Kind {
			case Float64, Int64:
				if _, err := io.ReadFull(br, num[:]); err != nil {
					return nil, ferr("reading %q: %v", f.Name, err)
				}
				u := binary.LittleEndian.Uint64(num[:])
				if f.Kind == Float64 {
					f.Floats = append(f.Floats, math.Float64frombits(u))
				} else {
					f.Ints = append(f.Ints, int64(u))
				}
			case String:
				s, err := readBytes("string")
				if err != nil {
					return nil, err
				}
				f.Strings = append(f.Strings, string(s))
			case Blob:
				b, err := readBytes("blob")
				if err != nil {
					return nil, err
				}
				f.Blobs = append(f.Blobs, b)
			default:
				return nil, ferr("field %q has an unknown kind %d", f.Name, k)
			}
		}
		if n == 0 && (f.Kind < Float64 || f.Kind > Blob) {
			return nil, ferr("field %q has an unknown kind %d", f.Name, k)
		}
		if err := F.Add(f); err != nil {
			return nil, ferr("%v", err)
		}
	}
	return F, nil
}

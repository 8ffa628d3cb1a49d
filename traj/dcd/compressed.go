/*
 * compressed.go, part of gopca
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
	"bufio"
	"compress/lzw"
	"io"
	"log"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	lzwOrder        = lzw.MSB
	lzwLitwidth int = 8
)

// prepSource takes a filename and format string, opens the file and returns an object that will
// read data from the file, either 'as is' or decompressing first, it depending on the format string.
// If the format string is empty, it will try to deduce it form the file extension. File extensions supported are
// .dcd (non-compressed dcd), .gz (gzip), .zst (zstandard) and .lzw. If the extension doesn't
// match any supported type, a message will be logged and the non-compressed dcd format will be assumed.
// thus, prepSource only returns an error if the file can't be opened.
func (D *DCDObj) prepSource(fname string, format string) (io.Reader, error) {
	var err error
	fk := format
	if fk == "" {
		temp := strings.Split(fname, ".")
		fk = strings.ToLower(temp[len(temp)-1])
	}
	D.filename = fname
	D.fhandle, err = os.Open(fname)
	if err != nil {
		return nil, Error{err.Error(), D.filename, []string{"os.Open", "prepSource"}, true}
	}
	reader := bufio.NewReader(D.fhandle)
	switch fk {
	case "dcd":
		return reader, nil
	case "lzw":
		r := lzw.NewReader(reader, lzwOrder, lzwLitwidth)
		D.closer = r
		return r, nil
	case "gz":
		r, err := gzip.NewReader(reader)
		if err != nil {
			return nil, Error{err.Error(), D.filename, []string{"gzip.NewReader", "prepSource"}, true}
		}
		D.closer = r
		return r, nil
	case "zst":
		r, err := zstd.NewReader(reader)
		if err != nil {
			return nil, Error{err.Error(), D.filename, []string{"zstd.NewReader", "prepSource"}, true}
		}
		D.closer = zstdCloser{r}
		return r, nil
	default:
		//if it's not a plain DCD, you'll get an error later.
		log.Printf("Format string %s not supported. %s will be assumed to be a plain DCD file", fk, D.filename)
		return reader, nil
	}
}

// *zstd.Decoder's Close doesn't return an error, so it can't be an io.Closer by itself.
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

/*
 * narray.go, part of gopca
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
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Kinds of errors returned by the package. Use errors.Is to test for them.
var (
	// ErrWrite means that a file could not be written.
	ErrWrite = errors.New("can't write array file")
	// ErrFormat means that a file could not be read, or is not a valid array file.
	ErrFormat = errors.New("invalid array file")
	// ErrField means that a field is missing, has the wrong kind or shape, or can't be added.
	ErrField = errors.New("invalid field")
)

// Error is the error type for the package. It implements chem.Error.
type Error struct {
	message  string
	filename string
	deco     []string
	kind     error
}

func (err Error) Error() string {
	var b strings.Builder
	b.WriteString(err.kind.Error())
	if err.filename != "" {
		fmt.Fprintf(&b, " %s", err.filename)
	}
	if err.message != "" {
		b.WriteString(": " + err.message)
	}
	if len(err.deco) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(err.deco, " < "))
	}
	return b.String()
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// FileName returns the file the error is associated to, if any.
func (err Error) FileName() string { return err.filename }

// Unwrap returns the kind of the error.
func (err Error) Unwrap() error { return err.kind }

// Kind is the type of the elements of a field.
type Kind uint8

const (
	Float64 Kind = iota + 1
	Int64
	String
	Blob
)

func (K Kind) String() string {
	switch K {
	case Float64:
		return "f64"
	case Int64:
		return "i64"
	case String:
		return "string"
	case Blob:
		return "blob"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(K))
	}
}

// Field is a named array. Only the slice corresponding to its kind is used.
type Field struct {
	Name    string
	Kind    Kind
	Shape   []int
	Floats  []float64
	Ints    []int64
	Strings []string
	Blobs   [][]byte
}

// Len returns the number of elements in the field.
func (F *Field) Len() int {
	switch F.Kind {
	case Float64:
		return len(F.Floats)
	case Int64:
		return len(F.Ints)
	case String:
		return len(F.Strings)
	default:
		return len(F.Blobs)
	}
}

// Size returns the number of elements implied by a shape.
func Size(shape []int) int {
	n := 1
	for _, v := range shape {
		n *= v
	}
	return n
}

// File is a set of named arrays, kept in the order they were added.
type File struct {
	fields []*Field
	index  map[string]int
}

// New returns an empty File.
func New() *File {
	return &File{index: make(map[string]int)}
}

// Add adds the field f. The name must be new and not empty, and the shape must
// match the number of elements.
func (F *File) Add(f *Field) error {
	if f.Name == "" {
		return Error{"empty field name", "", []string{"Add"}, ErrField}
	}
	if _, ok := F.index[f.Name]; ok {
		return Error{fmt.Sprintf("field %q already present", f.Name), "", []string{"Add"}, ErrField}
	}
	if f.Kind < Float64 || f.Kind > Blob {
		return Error{fmt.Sprintf("field %q has an unknown kind %d", f.Name, f.Kind), "", []string{"Add"}, ErrField}
	}
	for _, v := range f.Shape {
		if v < 0 {
			return Error{fmt.Sprintf("field %q has a negative dimension in its shape %v", f.Name, f.Shape), "", []string{"Add"}, ErrField}
		}
	}
	if Size(f.Shape) != f.Len() {
		return Error{fmt.Sprintf("field %q has shape %v but %d elements", f.Name, f.Shape, f.Len()), "", []string{"Add"}, ErrField}
	}
	F.index[f.Name] = len(F.fields)
	F.fields = append(F.fields, f)
	return nil
}

// AddDense adds the matrix m as a 2-dimensional float64 field.
func (F *File) AddDense(name string, m mat.Matrix) error {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return F.Add(&Field{Name: name, Kind: Float64, Shape: []int{r, c}, Floats: data})
}

// AddFloats adds a float64 field.
func (F *File) AddFloats(name string, shape []int, data []float64) error {
	return F.Add(&Field{Name: name, Kind: Float64, Shape: shape, Floats: data})
}

// AddInts adds an int64 field.
func (F *File) AddInts(name string, shape []int, data []int64) error {
	return F.Add(&Field{Name: name, Kind: Int64, Shape: shape, Ints: data})
}

// AddStrings adds a 1-dimensional string field.
func (F *File) AddStrings(name string, s []string) error {
	return F.Add(&Field{Name: name, Kind: String, Shape: []int{len(s)}, Strings: s})
}

// AddBlob adds a field with a single blob (shape [1]).
func (F *File) AddBlob(name string, b []byte) error {
	return F.Add(&Field{Name: name, Kind: Blob, Shape: []int{1}, Blobs: [][]byte{b}})
}

// Names returns the names of the fields, in the order they were added.
func (F *File) Names() []string {
	ret := make([]string, len(F.fields))
	for i, f := range F.fields {
		ret[i] = f.Name
	}
	return ret
}

// Field returns the field with the given name, and whether it exists.
func (F *File) Field(name string) (*Field, bool) {
	i, ok := F.index[name]
	if !ok {
		return nil, false
	}
	return F.fields[i], true
}

// get returns the field name, if it exists and has the kind k.
func (F *File) get(name string, k Kind, caller string) (*Field, error) {
	f, ok := F.Field(name)
	if !ok {
		return nil, Error{fmt.Sprintf("no field %q", name), "", []string{caller}, ErrField}
	}
	if f.Kind != k {
		return nil, Error{fmt.Sprintf("field %q is %s, not %s", name, f.Kind, k), "", []string{caller}, ErrField}
	}
	return f, nil
}

// Dense returns the 2-dimensional float64 field name as a matrix.
func (F *File) Dense(name string) (*mat.Dense, error) {
	f, err := F.get(name, Float64, "Dense")
	if err != nil {
		return nil, err
	}
	if len(f.Shape) != 2 || f.Shape[0] == 0 || f.Shape[1] == 0 {
		return nil, Error{fmt.Sprintf("field %q has shape %v, not a non-empty matrix", name, f.Shape), "", []string{"Dense"}, ErrField}
	}
	return mat.NewDense(f.Shape[0], f.Shape[1], append([]float64(nil), f.Floats...)), nil
}

// Floats returns the data and shape of the float64 field name.
func (F *File) Floats(name string) ([]float64, []int, error) {
	f, err := F.get(name, Float64, "Floats")
	if err != nil {
		return nil, nil, err
	}
	return f.Floats, f.Shape, nil
}

// Ints returns the data and shape of the int64 field name.
func (F *File) Ints(name string) ([]int64, []int, error) {
	f, err := F.get(name, Int64, "Ints")
	if err != nil {
		return nil, nil, err
	}
	return f.Ints, f.Shape, nil
}

// Strings returns the string field name.
func (F *File) Strings(name string) ([]string, error) {
	f, err := F.get(name, String, "Strings")
	if err != nil {
		return nil, err
	}
	return f.Strings, nil
}

// Blob returns the first blob of the field name.
func (F *File) Blob(name string) ([]byte, error) {
	f, err := F.get(name, Blob, "Blob")
	if err != nil {
		return nil, err
	}
	if len(f.Blobs) == 0 {
		return nil, Error{fmt.Sprintf("field %q is empty", name), "", []string{"Blob"}, ErrField}
	}
	return f.Blobs[0], nil
}

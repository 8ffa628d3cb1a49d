/*
 * yaml.go, part of gopca
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

package featurize

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	v3 "github.com/rmera/gopca/v3"
	"gopkg.in/yaml.v3"
)

// document is the YAML representation of every featurizer. Kind selects
// which of the other fields are used.
type document struct {
	Kind        string      `yaml:"kind"`
	Pairs       [][]int     `yaml:"pairs,omitempty,flow"`
	Triplets    [][]int     `yaml:"triplets,omitempty,flow"`
	Quadruplets [][]int     `yaml:"quadruplets,omitempty,flow"`
	SinCos      bool        `yaml:"sincos,omitempty"`
	Atoms       []int       `yaml:"atoms,omitempty,flow"`
	Superpose   bool        `yaml:"superpose,omitempty"`
	Reference   [][]float64 `yaml:"reference,omitempty,flow"`
}

// Marshal serializes the featurizer f to YAML.
func Marshal(f Featurizer) ([]byte, error) {
	d := document{Kind: f.Kind()}
	switch F := f.(type) {
	case *Distances:
		for _, p := range F.Pairs {
			d.Pairs = append(d.Pairs, []int{p[0], p[1]})
		}
	case *Angles:
		for _, t := range F.Triplets {
			d.Triplets = append(d.Triplets, []int{t[0], t[1], t[2]})
		}
	case *Dihedrals:
		for _, q := range F.Quadruplets {
			d.Quadruplets = append(d.Quadruplets, []int{q[0], q[1], q[2], q[3]})
		}
		d.SinCos = F.SinCos
	case *Positions:
		d.Atoms = F.Atoms
		d.Superpose = F.Superpose
		d.Reference = rows(F.Reference)
	case *RMSD:
		d.Atoms = F.Atoms
		d.Reference = rows(F.Reference)
	default:
		return nil, fmt.Errorf("featurizer of kind %q can't be serialized", f.Kind())
	}
	var b bytes.Buffer
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Unmarshal reads a featurizer from its YAML serialization. Unknown kinds, unknown fields,
// fields that don't belong to the kind, and malformed index tuples give an error.
// Indexes are checked against a topology only when the featurizer is used.
func Unmarshal(data []byte) (Featurizer, error) {
	var d document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty featurizer document")
		}
		return nil, err
	}
	bad := func() error {
		return fmt.Errorf("the document has fields that don't belong to a featurizer of kind %q", d.Kind)
	}
	switch d.Kind {
	case "distances":
		if len(d.Triplets)+len(d.Quadruplets)+len(d.Atoms)+len(d.Reference) > 0 || d.SinCos || d.Superpose {
			return nil, bad()
		}
		f := new(Distances)
		for _, p := range d.Pairs {
			if err := tupleLen(p, 2); err != nil {
				return nil, err
			}
			f.Pairs = append(f.Pairs, [2]int{p[0], p[1]})
		}
		return f, nil
	case "angles":
		if len(d.Pairs)+len(d.Quadruplets)+len(d.Atoms)+len(d.Reference) > 0 || d.SinCos || d.Superpose {
			return nil, bad()
		}
		f := new(Angles)
		for _, t := range d.Triplets {
			if err := tupleLen(t, 3); err != nil {
				return nil, err
			}
			f.Triplets = append(f.Triplets, [3]int{t[0], t[1], t[2]})
		}
		return f, nil
	case "dihedrals":
		if len(d.Pairs)+len(d.Triplets)+len(d.Atoms)+len(d.Reference) > 0 || d.Superpose {
			return nil, bad()
		}
		f := &Dihedrals{SinCos: d.SinCos}
		for _, q := range d.Quadruplets {
			if err := tupleLen(q, 4); err != nil {
				return nil, err
			}
			f.Quadruplets = append(f.Quadruplets, [4]int{q[0], q[1], q[2], q[3]})
		}
		return f, nil
	case "positions", "rmsd":
		if len(d.Pairs)+len(d.Triplets)+len(d.Quadruplets) > 0 || d.SinCos || (d.Kind == "rmsd" && d.Superpose) {
			return nil, bad()
		}
		for _, a := range d.Atoms {
			if a < 0 {
				return nil, fmt.Errorf("negative atom index %d", a)
			}
		}
		ref, err := matrix(d.Reference)
		if err != nil {
			return nil, err
		}
		if d.Kind == "rmsd" {
			return &RMSD{Atoms: d.Atoms, Reference: ref}, nil
		}
		return &Positions{Atoms: d.Atoms, Superpose: d.Superpose, Reference: ref}, nil
	case "":
		return nil, fmt.Errorf("featurizer without a kind")
	default:
		return nil, fmt.Errorf("unknown featurizer kind %q", d.Kind)
	}
}

// Load reads a featurizer from the YAML file name. It also returns the content
// of the file, as read. Any error is an ErrLoad.
func Load(name string) (Featurizer, []byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, nil, loadError(name, "Load", err)
	}
	f, err := Unmarshal(data)
	if err != nil {
		return nil, nil, loadError(name, "Load", err)
	}
	return f, data, nil
}

// Save writes the YAML serialization of f to the file name.
func Save(f Featurizer, name string) error {
	data, err := Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(name, data, 0o644)
}

func tupleLen(t []int, n int) error {
	if len(t) != n {
		return fmt.Errorf("index tuple %v has %d elements, %d expected", t, len(t), n)
	}
	for _, v := range t {
		if v < 0 {
			return fmt.Errorf("negative atom index in %v", t)
		}
	}
	return nil
}

func rows(m *v3.Matrix) [][]float64 {
	if m == nil {
		return nil
	}
	ret := make([][]float64, m.NVecs())
	for i := range ret {
		ret[i] = []float64{m.At(i, 0), m.At(i, 1), m.At(i, 2)}
	}
	return ret
}

func matrix(r [][]float64) (*v3.Matrix, error) {
	if len(r) == 0 {
		return nil, nil
	}
	data := make([]float64, 0, 3*len(r))
	for _, v := range r {
		if len(v) != 3 {
			return nil, fmt.Errorf("reference coordinates %v don't have 3 elements", v)
		}
		data = append(data, v...)
	}
	return v3.NewMatrix(data)
}

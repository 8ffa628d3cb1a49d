/*
 * result.go, part of gopca
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

package projection

import (
	"fmt"

	"github.com/rmera/gopca/featurize"
	"github.com/rmera/gopca/narray"
	"github.com/rmera/gopca/pca"
	"gonum.org/v1/gonum/mat"
)

// Names of the fields in a projection file.
const (
	FieldX             = "X"
	FieldIndices       = "indices"
	FieldFiles         = "fns"
	FieldLabels        = "labels"
	FieldTopology      = "topology"
	FieldFeaturizer    = "featurizer"
	FieldComponents    = "components"
	FieldMean          = "mean"
	FieldVariance      = "explained_variance"
	FieldVarianceRatio = "explained_variance_ratio"
)

// Labels are the labels of the columns of a projection.
var Labels = []string{"PC1", "PC2"}

// Result is a projection, with its provenance. Indices[i] tells the trajectory (an index
// in Files) and frame that were projected to the row i of X.
type Result struct {
	X             *mat.Dense //N x 2
	Indices       []featurize.Index
	Files         []string
	Labels        []string
	Topology      []byte //chemjson serialization of the topology.
	Featurizer    []byte //YAML serialization of the featurizer.
	Components    *mat.Dense //F x 2
	Mean          []float64
	Variance      []float64
	VarianceRatio []float64
}

// NewResult puts together the projection X of the dataset ds, obtained with model,
// and the serialized topology and featurizer.
func NewResult(X *mat.Dense, ds *featurize.Dataset, model *pca.Model, topology, featurizer []byte) (*Result, error) {
	n, _ := X.Dims()
	if n != ds.Rows() {
		return nil, fmt.Errorf("projection has %d rows but there are %d frames", n, ds.Rows())
	}
	return &Result{
		X:             X,
		Indices:       ds.Indices,
		Files:         ds.Files,
		Labels:        append([]string(nil), Labels...),
		Topology:      topology,
		Featurizer:    featurizer,
		Components:    model.Components,
		Mean:          model.Mean,
		Variance:      model.Variance,
		VarianceRatio: model.VarianceRatio,
	}, nil
}

// Len returns the number of projected frames.
func (R *Result) Len() int {
	return len(R.Indices)
}

// File returns the trajectory the row i of the projection comes from.
func (R *Result) File(i int) string {
	return R.Files[R.Indices[i].File]
}

// Groups returns, for each row of the projection, the index of its trajectory in Files.
func (R *Result) Groups() []int {
	ret := make([]int, len(R.Indices))
	for i, v := range R.Indices {
		ret[i] = v.File
	}
	return ret
}

// narray returns the result as a set of named arrays.
func (R *Result) narray() (*narray.File, error) {
	F := narray.New()
	ind := make([]int64, 0, 2*len(R.Indices))
	for _, v := range R.Indices {
		ind = append(ind, int64(v.File), int64(v.Frame))
	}
	if R.X == nil {
		return nil, fmt.Errorf("no projection to save")
	}
	errs := []error{
		F.AddDense(FieldX, R.X),
		F.AddInts(FieldIndices, []int{len(R.Indices), 2}, ind),
		F.AddStrings(FieldFiles, R.Files),
		F.AddStrings(FieldLabels, R.Labels),
		F.AddBlob(FieldTopology, R.Topology),
		F.AddBlob(FieldFeaturizer, R.Featurizer),
	}
	if R.Components != nil {
		errs = append(errs, F.AddDense(FieldComponents, R.Components))
	}
	optional := []struct {
		name string
		v    []float64
	}{{FieldMean, R.Mean}, {FieldVariance, R.Variance}, {FieldVarianceRatio, R.VarianceRatio}}
	for _, o := range optional {
		if o.v != nil {
			errs = append(errs, F.AddFloats(o.name, []int{1, len(o.v)}, o.v))
		}
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return F, nil
}

// Save writes the result to path. If overwrite is false, an existing file is an error.
// Errors are narray.ErrWrite errors.
func (R *Result) Save(path string, overwrite bool) error {
	F, err := R.narray()
	if err != nil {
		return fmt.Errorf("%w: %v", narray.ErrWrite, err)
	}
	return F.Save(path, overwrite)
}

// Load reads a result saved with Save.
func Load(path string) (*Result, error) {
	F, err := narray.Open(path)
	if err != nil {
		return nil, err
	}
	R := new(Result)
	if R.X, err = F.Dense(FieldX); err != nil {
		return nil, err
	}
	ind, shape, err := F.Ints(FieldIndices)
	if err != nil {
		return nil, err
	}
	if len(shape) != 2 || shape[1] != 2 {
		return nil, fmt.Errorf("%w: %s: indices have shape %v", narray.ErrFormat, path, shape)
	}
	if R.Files, err = F.Strings(FieldFiles); err != nil {
		return nil, err
	}
	R.Indices = make([]featurize.Index, shape[0])
	for i := range R.Indices {
		R.Indices[i] = featurize.Index{File: int(ind[2*i]), Frame: int(ind[2*i+1])}
		if R.Indices[i].File < 0 || R.Indices[i].File >= len(R.Files) {
			return nil, fmt.Errorf("%w: %s: row %d refers to file %d of %d", narray.ErrFormat, path, i, R.Indices[i].File, len(R.Files))
		}
	}
	if r, _ := R.X.Dims(); r != len(R.Indices) {
		return nil, fmt.Errorf("%w: %s: %d rows but %d indices", narray.ErrFormat, path, r, len(R.Indices))
	}
	if R.Labels, err = F.Strings(FieldLabels); err != nil {
		return nil, err
	}
	if R.Topology, err = F.Blob(FieldTopology); err != nil {
		return nil, err
	}
	if R.Featurizer, err = F.Blob(FieldFeaturizer); err != nil {
		return nil, err
	}
	//the remaining fields are optional.
	if C, err := F.Dense(FieldComponents); err == nil {
		R.Components = C
	}
	if m, _, err := F.Floats(FieldMean); err == nil {
		R.Mean = m
	}
	if v, _, err := F.Floats(FieldVariance); err == nil {
		R.Variance = v
	}
	if v, _, err := F.Floats(FieldVarianceRatio); err == nil {
		R.VarianceRatio = v
	}
	return R, nil
}

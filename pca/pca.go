/*
 * pca.go, part of gopca
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

// Package pca fits and applies 2-component principal component analysis
// projections of feature matrices (one row per observation).
//
// Components are ordered by decreasing explained variance. As the sign of
// a principal component is arbitrary, each component is flipped so that its
// loading with the largest magnitude is positive (ties go to the feature with the
// lowest index), which makes the projection reproducible.
package pca

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// NComponents is the number of principal components kept.
const NComponents = 2

// ErrDegenerate means that the data can't be projected: it has less than 2 rows,
// or no variance at all.
var ErrDegenerate = errors.New("degenerate input for PCA")

// Error is the error type for the package. It implements chem.Error.
type Error struct {
	message string
	deco    []string
	kind    error
}

func (err Error) Error() string {
	msg := err.message
	if err.kind != nil {
		msg = err.kind.Error() + ": " + msg
	}
	if len(err.deco) > 0 {
		msg += " (" + strings.Join(err.deco, " < ") + ")"
	}
	return msg
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Unwrap returns the kind of the error, if any.
func (err Error) Unwrap() error { return err.kind }

// Model is a fitted 2-component PCA.
type Model struct {
	Mean          []float64  //the mean of each feature.
	Components    *mat.Dense //F x 2, the principal directions as columns.
	Variance      []float64  //the variance explained by each component.
	VarianceRatio []float64  //the fraction of the total variance explained by each component.
}

// Features returns the number of features the model was fitted with.
func (M *Model) Features() int {
	return len(M.Mean)
}

// isNil returns true if X is nil, including a nil *mat.Dense.
func isNil(X mat.Matrix) bool {
	if X == nil {
		return true
	}
	d, ok := X.(*mat.Dense)
	return ok && (d == nil || d.IsEmpty())
}

// Fit fits a 2-component PCA to the rows of X. X needs at least 2 rows which are not
// all identical, otherwise an ErrDegenerate error is returned. If X has a single feature,
// the second component is the zero vector, and explains no variance.
func Fit(X mat.Matrix) (*Model, error) {
	if isNil(X) {
		return nil, Error{"no data", []string{"Fit"}, ErrDegenerate}
	}
	n, f := X.Dims()
	if n < 2 {
		return nil, Error{fmt.Sprintf("%d observations, at least 2 are needed", n), []string{"Fit"}, ErrDegenerate}
	}
	M := &Model{Mean: make([]float64, f), Variance: make([]float64, NComponents), VarianceRatio: make([]float64, NComponents)}
	col := make([]float64, n)
	var total float64
	spread := false
	for j := 0; j < f; j++ {
		mat.Col(col, j, X)
		mean, variance := stat.MeanVariance(col, nil)
		M.Mean[j] = mean
		total += variance
		spread = spread || !identical(col)
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, Error{"non-finite values in the data", []string{"Fit"}, nil}
	}
	//the rounding in the mean can give a tiny variance to a constant column.
	if !spread || total == 0 {
		return nil, Error{fmt.Sprintf("all %d observations are identical", n), []string{"Fit"}, ErrDegenerate}
	}
	var pc stat.PC
	if ok := pc.PrincipalComponents(X, nil); !ok {
		return nil, Error{"decomposition failed", []string{"Fit"}, ErrDegenerate}
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)
	_, nvecs := vecs.Dims()
	M.Components = mat.NewDense(f, NComponents, nil)
	for k := 0; k < NComponents && k < nvecs; k++ {
		for j := 0; j < f; j++ {
			M.Components.Set(j, k, vecs.At(j, k))
		}
		M.Variance[k] = vars[k]
		M.VarianceRatio[k] = vars[k] / total
	}
	fixSigns(M.Components)
	return M, nil
}

// identical returns true if all the elements of v are equal.
func identical(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

// fixSigns flips each column of C so that its element with the largest magnitude
// is positive. The first of several elements with the same magnitude decides.
func fixSigns(C *mat.Dense) {
	r, c := C.Dims()
	for k := 0; k < c; k++ {
		best, bestj := 0.0, -1
		for j := 0; j < r; j++ {
			if a := math.Abs(C.At(j, k)); a > best+1e-12 {
				best, bestj = a, j
			}
		}
		if bestj < 0 || C.At(bestj, k) > 0 {
			continue
		}
		for j := 0; j < r; j++ {
			C.Set(j, k, -C.At(j, k))
		}
	}
}

// Transform projects the rows of X, which must have as many columns as features in the model,
// on the principal components. It returns a matrix with one row per row of X and 2 columns.
func (M *Model) Transform(X mat.Matrix) (*mat.Dense, error) {
	if isNil(X) {
		return nil, Error{"no data", []string{"Transform"}, nil}
	}
	n, f := X.Dims()
	if f != M.Features() {
		return nil, Error{fmt.Sprintf("data has %d features, the model was fitted with %d", f, M.Features()), []string{"Transform"}, nil}
	}
	centered := mat.NewDense(n, f, nil)
	centered.Apply(func(i, j int, v float64) float64 { return v - M.Mean[j] }, X)
	ret := mat.NewDense(n, NComponents, nil)
	ret.Mul(centered, M.Components)
	return ret, nil
}

// FitTransform fits a model to X and projects X on its components.
func FitTransform(X mat.Matrix) (*mat.Dense, *Model, error) {
	M, err := Fit(X)
	if err != nil {
		return nil, nil, err
	}
	proj, err := M.Transform(X)
	if err != nil {
		return nil, nil, err
	}
	return proj, M, nil
}

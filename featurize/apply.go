/*
 * apply.go, part of gopca
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
	"context"
	"fmt"

	chem "github.com/rmera/gopca"
	v3 "github.com/rmera/gopca/v3"
	"gonum.org/v1/gonum/mat"
)

// Apply featurizes every stride-th frame of the trajectory t, starting with the first,
// using the topology top. It returns a matrix with one row per frame featurized
// (nil if no frame was) and the index of each of those frames in the trajectory.
// A stride smaller than 1 is taken as 1.
func Apply(f Featurizer, t chem.Traj, top chem.Atomer, stride int) (*mat.Dense, []int, error) {
	X, frames, err := apply(context.Background(), f, t, top, stride)
	return X, frames, errDecorate(err, "Apply")
}

func apply(ctx context.Context, f Featurizer, t chem.Traj, top chem.Atomer, stride int) (*mat.Dense, []int, error) {
	if stride < 1 {
		stride = 1
	}
	nf, err := f.NFeatures(top)
	if err != nil {
		return nil, nil, loadError("", "apply", fmt.Errorf("%s featurizer: %w", f.Kind(), err))
	}
	if t.Len() != top.Len() {
		return nil, nil, loadError("", "apply", fmt.Errorf("trajectory has %d atoms but the topology has %d", t.Len(), top.Len()))
	}
	coords := v3.Zeros(t.Len())
	var data []float64
	var frames []int
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		var c *v3.Matrix
		if i%stride == 0 {
			c = coords
		}
		err := t.Next(c)
		if err != nil {
			if _, ok := err.(chem.LastFrameError); ok {
				break
			}
			return nil, nil, loadError("", "apply", fmt.Errorf("reading frame %d: %w", i, err))
		}
		if c == nil {
			continue
		}
		row := make([]float64, nf)
		if err := f.Featurize(c, top, row); err != nil {
			return nil, nil, loadError("", "apply", fmt.Errorf("featurizing frame %d: %w", i, err))
		}
		data = append(data, row...)
		frames = append(frames, i)
	}
	if len(frames) == 0 {
		return nil, nil, nil
	}
	return mat.NewDense(len(frames), nf, data), frames, nil
}

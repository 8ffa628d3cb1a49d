/*
 * aggregate.go, part of gopca
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
	"log/slog"
	"runtime"
	"time"

	chem "github.com/rmera/gopca"
	"github.com/rmera/gopca/traj"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Index identifies the origin of a row of the feature matrix: File is the position
// of the trajectory in the list of files, and Frame the index of the frame in that trajectory.
type Index struct {
	File  int
	Frame int
}

// Dataset is the result of featurizing a list of trajectories.
type Dataset struct {
	X       *mat.Dense //one row per frame featurized. nil if there are no rows.
	Indices []Index    //the origin of each row of X.
	Files   []string   //the trajectories, in input order, including those with no frames.
}

// Rows returns the number of rows (featurized frames) in the dataset.
func (D *Dataset) Rows() int {
	return len(D.Indices)
}

// Part is the featurization of a single trajectory.
type Part struct {
	File   string
	X      *mat.Dense //nil if no frames were featurized.
	Width  int        //number of features per frame.
	Frames []int
}

// Options contains the options for All.
type Options struct {
	workers int
	stride  int
	logger  *slog.Logger
}

// DefaultOptions returns an Options with the default values:
// one worker per CPU, a stride of 1, and the default slog logger.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.workers = runtime.NumCPU()
	ret.stride = 1
	ret.logger = slog.Default()
	return ret
}

// Workers returns the maximum number of trajectories featurized at the same time,
// and sets it, if a valid value is given.
func (O *Options) Workers(workers ...int) int {
	ret := O.workers
	if len(workers) > 0 && workers[0] > 0 {
		O.workers = workers[0]
	}
	return ret
}

// Stride returns the stride (only every stride-th frame of each trajectory
// is featurized) and sets it, if a valid value is given.
func (O *Options) Stride(stride ...int) int {
	ret := O.stride
	if len(stride) > 0 && stride[0] > 0 {
		O.stride = stride[0]
	}
	return ret
}

// Logger returns the logger used to report progress, and sets it, if
// a non-nil value is given.
func (O *Options) Logger(logger ...*slog.Logger) *slog.Logger {
	ret := O.logger
	if len(logger) > 0 && logger[0] != nil {
		O.logger = logger[0]
	}
	return ret
}

// File opens the trajectory name and featurizes it with f, using the topology top, which must
// have as many atoms as the trajectory.
func File(ctx context.Context, name string, top chem.Atomer, f Featurizer, stride int) (Part, error) {
	t, err := traj.Open(name, top)
	if err != nil {
		return Part{}, loadError(name, "File", err)
	}
	defer t.Close()
	nf, err := f.NFeatures(top)
	if err != nil {
		return Part{}, loadError(name, "File", fmt.Errorf("%s featurizer: %w", f.Kind(), err))
	}
	X, frames, err := apply(ctx, f, t, top, stride)
	if err != nil {
		if e, ok := err.(Error); ok {
			e.filename = name
			err = e
		}
		return Part{}, errDecorate(err, "File")
	}
	return Part{File: name, X: X, Width: nf, Frames: frames}, nil
}

// All featurizes the trajectories in files with f, using the topology top, and stacks the results
// in the order of the files. Trajectories are featurized concurrently, each by its own goroutine,
// with at most the number of workers in the options running at the same time. The first error
// cancels the featurization of the remaining trajectories and is returned.
// An empty list of files gives an ErrNoInput error.
func All(ctx context.Context, files []string, top chem.Atomer, f Featurizer, options ...*Options) (*Dataset, error) {
	var o *Options
	if len(options) > 0 && options[0] != nil {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	if len(files) == 0 {
		return nil, Error{message: "empty trajectory list", deco: []string{"All"}, kind: ErrNoInput}
	}
	if f == nil || top == nil {
		return nil, loadError("", "All", fmt.Errorf("nil featurizer or topology"))
	}
	if _, err := f.NFeatures(top); err != nil {
		return nil, loadError("", "All", fmt.Errorf("%s featurizer: %w", f.Kind(), err))
	}
	log := o.Logger()
	parts := make([]Part, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Workers())
	for i, name := range files {
		i, name := i, name // per-iteration copies (go directive < 1.22)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = loadError(name, "All", fmt.Errorf("featurizing: %v", r))
				}
			}()
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			p, err := File(ctx, name, top, f, o.Stride())
			if err != nil {
				return err
			}
			parts[i] = p
			log.Debug("featurized trajectory", "file", name, "frames", len(p.Frames), "features", p.Width, "elapsed", time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errDecorate(err, "All")
	}
	return Stack(parts)
}

// Stack stacks the feature matrices of the parts, in order, in a Dataset. All the parts need
// to have the same number of features, otherwise an ErrDimension error is returned.
func Stack(parts []Part) (*Dataset, error) {
	if len(parts) == 0 {
		return nil, Error{message: "nothing to stack", deco: []string{"Stack"}, kind: ErrNoInput}
	}
	ret := &Dataset{Files: make([]string, len(parts))}
	width := parts[0].Width
	rows := 0
	for i, p := range parts {
		if p.Width != width {
			return nil, Error{
				message:  fmt.Sprintf("%s gives %d features per frame, but %s gives %d", parts[0].File, width, p.File, p.Width),
				filename: p.File,
				deco:     []string{"Stack"},
				kind:     ErrDimension,
			}
		}
		ret.Files[i] = p.File
		rows += len(p.Frames)
	}
	if rows == 0 {
		return ret, nil
	}
	ret.X = mat.NewDense(rows, width, nil)
	ret.Indices = make([]Index, 0, rows)
	r := 0
	for i, p := range parts {
		if p.X == nil {
			continue
		}
		ret.X.Slice(r, r+len(p.Frames), 0, width).(*mat.Dense).Copy(p.X)
		for _, fr := range p.Frames {
			ret.Indices = append(ret.Indices, Index{File: i, Frame: fr})
		}
		r += len(p.Frames)
	}
	return ret, nil
}

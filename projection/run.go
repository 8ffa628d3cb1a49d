/*
 * run.go, part of gopca
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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rmera/gopca/chemjson"
	"github.com/rmera/gopca/featurize"
	"github.com/rmera/gopca/pca"
	"github.com/rmera/gopca/traj"
)

// Run runs the projection pipeline with the parameters in cfg, saves the result to cfg.Out
// and returns it. Nothing is written if any step fails. If logger is nil, slog.Default() is used.
func Run(ctx context.Context, cfg *Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	files, err := traj.Glob(cfg.Trajectories)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", featurize.ErrNoInput, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no trajectory matches %v", featurize.ErrNoInput, cfg.Trajectories)
	}
	logger.Info("resolved trajectories", "count", len(files))
	f, fdata, err := featurize.Load(cfg.Featurizer)
	if err != nil {
		return nil, err
	}
	mol, err := LoadTopology(cfg.Topology, files)
	if err != nil {
		return nil, err
	}
	nf, err := f.NFeatures(mol)
	if err != nil {
		return nil, fmt.Errorf("%w: %s featurizer %s: %v", featurize.ErrLoad, f.Kind(), cfg.Featurizer, err)
	}
	logger.Info("loaded featurizer", "kind", f.Kind(), "features", nf, "atoms", mol.Len())
	o := featurize.DefaultOptions()
	o.Workers(cfg.workers())
	o.Stride(cfg.Stride)
	o.Logger(logger)
	start := time.Now()
	ds, err := featurize.All(ctx, files, mol, f, o)
	if err != nil {
		return nil, err
	}
	logger.Info("featurized trajectories", "frames", ds.Rows(), "elapsed", time.Since(start))
	X, model, err := pca.FitTransform(ds.X)
	if err != nil {
		return nil, err
	}
	logger.Info("fitted PCA", "explained_variance_ratio", model.VarianceRatio)
	coords := mol.Coords
	if len(coords) > 1 {
		coords = coords[:1]
	}
	top, err := chemjson.MarshalTopology(mol, coords...)
	if err != nil {
		return nil, fmt.Errorf("serializing the topology: %w", err)
	}
	res, err := NewResult(X, ds, model, top, fdata)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := res.Save(cfg.out(), !cfg.NoClobber); err != nil {
		return nil, err
	}
	logger.Debug("saved projection", "path", cfg.out())
	return res, nil
}

/*
 * cmd_pca.go, part of gopca
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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmera/gopca/chemplot"
	"github.com/rmera/gopca/projection"
)

type pcaFlags struct {
	featurizer string
	top        string
	out        string
	plot       string
	workers    int
	stride     int
	noClobber  bool
}

func newPCACmd(verbose *bool) *cobra.Command {
	var fl pcaFlags
	cmd := &cobra.Command{
		Use:   "pca --featurizer F.yaml [flags] TRAJ_OR_PATTERN...",
		Short: "Project trajectory frames on their first 2 principal components",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPCA(cmd, args, &fl, *verbose)
		},
	}
	f := cmd.Flags()
	f.StringVar(&fl.featurizer, "featurizer", "", "Featurizer YAML file (required)")
	f.StringVar(&fl.top, "top", "", "Topology file (PDB, XYZ or JSON). Taken from the first trajectory if not given")
	f.StringVarP(&fl.out, "out", "o", projection.DefaultOut, "Output file, a zstd-compressed named-array container (not HDF5; read it with 'gopca inspect')")
	f.IntVar(&fl.workers, "workers", 0, "Trajectories featurized in parallel (0: one per CPU)")
	f.IntVar(&fl.stride, "stride", 1, "Use only every stride-th frame")
	f.BoolVar(&fl.noClobber, "no-clobber", false, "Fail instead of replacing an existing output file")
	f.StringVar(&fl.plot, "plot", "", "Also save a scatter plot of the projection (png, svg, pdf...)")
	_ = cmd.MarkFlagRequired("featurizer")
	return cmd
}

// config builds the run configuration from the environment, overridden by the flags
// actually given.
func (fl *pcaFlags) config(cmd *cobra.Command, args []string) (*projection.Config, error) {
	cfg, err := projection.ConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	cfg.Featurizer = fl.featurizer
	cfg.Topology = fl.top
	cfg.Trajectories = args
	f := cmd.Flags()
	if f.Changed("out") || cfg.Out == "" {
		cfg.Out = fl.out
	}
	if f.Changed("workers") {
		cfg.Workers = fl.workers
	}
	if f.Changed("stride") {
		cfg.Stride = fl.stride
	}
	if f.Changed("no-clobber") {
		cfg.NoClobber = fl.noClobber
	}
	if cfg.Stride < 1 {
		return nil, fmt.Errorf("stride must be positive, got %d", cfg.Stride)
	}
	return cfg, nil
}

func runPCA(cmd *cobra.Command, args []string, fl *pcaFlags, verbose bool) error {
	cfg, err := fl.config(cmd, args)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), verbose)
	res, err := projection.Run(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	if fl.plot != "" {
		if err := chemplot.Projection(res.X, res.Groups(), res.Files, "PCA projection", fl.plot); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		logger.Info("saved plot", "path", fl.plot)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Projection saved: %s\n", cfg.Out)
	return nil
}

/*
 * main.go, part of gopca
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

// gopca projects molecular dynamics trajectories onto their first 2 principal components.
//
// Usage:
//
//	gopca pca --featurizer F.yaml [--top T.pdb] [--out pca-projection.h5] [--workers N] [--stride K] [--no-clobber] [--plot P.png] TRAJ_OR_PATTERN...
//	gopca featurizer {dihedrals|distances|positions} --top T.pdb [--names CA,...] [--out F.yaml]
//	gopca inspect FILE
//
// The GOPCA_WORKERS, GOPCA_STRIDE, GOPCA_OUT and GOPCA_NO_CLOBBER environment variables
// set defaults for the pca flags.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "gopca",
		Short:         "Principal component analysis of molecular dynamics trajectories",
		Long:          "gopca featurizes MD trajectories frame by frame, pools the features of all\nthe trajectories and projects every frame on the first 2 principal components.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages")
	root.AddCommand(newPCACmd(&verbose))
	root.AddCommand(newFeaturizerCmd())
	root.AddCommand(newInspectCmd())
	return root
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

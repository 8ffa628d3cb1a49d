/*
 * cmd_inspect.go, part of gopca
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
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rmera/gopca/narray"
	"github.com/rmera/gopca/projection"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Describe a projection file",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	nf, err := narray.Open(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:    %s (%s)\n", path, humanize.Bytes(uint64(st.Size())))
	fmt.Fprintf(out, "Fields:\n")
	for _, name := range nf.Names() {
		f, _ := nf.Field(name)
		fmt.Fprintf(out, "  %-26s %-8s %v\n", name, f.Kind, f.Shape)
	}
	res, err := projection.Load(path)
	if err != nil {
		return fmt.Errorf("not a projection file: %w", err)
	}
	fmt.Fprintf(out, "Labels:  %v\n", res.Labels)
	fmt.Fprintf(out, "Frames:  %s\n", humanize.Comma(int64(res.Len())))
	counts := make([]int, len(res.Files))
	for _, g := range res.Groups() {
		counts[g]++
	}
	fmt.Fprintf(out, "Trajectories:\n")
	for i, name := range res.Files {
		fmt.Fprintf(out, "  %-30s %d frames\n", filepath.Base(name), counts[i])
	}
	if len(res.VarianceRatio) > 0 {
		fmt.Fprintf(out, "Explained variance:")
		for i, v := range res.VarianceRatio {
			fmt.Fprintf(out, " PC%d %.1f%%", i+1, 100*v)
		}
		fmt.Fprintln(out)
	}
	return nil
}

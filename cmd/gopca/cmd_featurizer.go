/*
 * cmd_featurizer.go, part of gopca
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

	"github.com/rmera/gopca/featurize"
	"github.com/rmera/gopca/projection"
)

func newFeaturizerCmd() *cobra.Command {
	var top, out string
	var names []string
	var superpose bool
	cmd := &cobra.Command{
		Use:       "featurizer {dihedrals|distances|positions}",
		Short:     "Write a featurizer file for a topology",
		Long:      "dihedrals: sine and cosine of the backbone phi and psi torsions.\ndistances: all distances among the atoms named with --names (default CA).\npositions: cartesian coordinates of the atoms named with --names (default CA).",
		ValidArgs: []string{"dihedrals", "distances", "positions"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			mol, err := projection.LoadTopology(top, nil)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				names = []string{"CA"}
			}
			var f featurize.Featurizer
			switch args[0] {
			case "dihedrals":
				d, err := featurize.BackboneDihedrals(mol)
				if err != nil {
					return err
				}
				f = d
			case "distances":
				d, err := featurize.AtomPairs(mol, names)
				if err != nil {
					return err
				}
				f = d
			default:
				p, err := featurize.AtomPositions(mol, names, superpose)
				if err != nil {
					return err
				}
				f = p
			}
			nf, err := f.NFeatures(mol)
			if err != nil {
				return err
			}
			if err := featurize.Save(f, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Featurizer saved: %s (%s, %d features)\n", out, f.Kind(), nf)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&top, "top", "", "Topology file, PDB, XYZ or JSON (required)")
	fl.StringSliceVar(&names, "names", nil, "Atom names to select, e.g. CA,CB")
	fl.StringVarP(&out, "out", "o", "featurizer.yaml", "Output file")
	fl.BoolVar(&superpose, "superpose", false, "positions: superpose each frame on the topology coordinates first")
	_ = cmd.MarkFlagRequired("top")
	return cmd
}

/*
 * config.go, part of gopca
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
	"runtime"

	"github.com/caarlos0/env/v11"
)

// DefaultOut is the default name of the projection file.
const DefaultOut = "pca-projection.h5"

// Config contains the parameters of a projection run. The fields with an env
// tag can be set from the environment with ConfigFromEnv.
type Config struct {
	Featurizer   string   //path to the featurizer YAML file.
	Topology     string   //path to the topology. If empty, it's taken from the first trajectory.
	Trajectories []string //trajectory files or glob patterns.
	Workers      int      `env:"GOPCA_WORKERS"`    //0 means one per CPU.
	Stride       int      `env:"GOPCA_STRIDE" envDefault:"1"`
	Out          string   `env:"GOPCA_OUT" envDefault:"pca-projection.h5"`
	NoClobber    bool     `env:"GOPCA_NO_CLOBBER"` //refuse to overwrite an existing Out.
}

// ConfigFromEnv returns a Config with the values of the GOPCA_ environment variables,
// or their defaults.
func ConfigFromEnv() (*Config, error) {
	cfg := new(Config)
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// workers returns the number of workers to use.
func (C *Config) workers() int {
	if C.Workers > 0 {
		return C.Workers
	}
	return runtime.NumCPU()
}

// out returns the output path.
func (C *Config) out() string {
	if C.Out == "" {
		return DefaultOut
	}
	return C.Out
}

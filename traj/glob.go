/*
 * glob.go, part of gopca
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

package traj

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Glob resolves a list of file names and glob patterns (as understood by filepath.Glob)
// into a list of existing files. An existing file is taken literally even if its name
// contains pattern metacharacters. The files are returned in the order of the patterns,
// and in lexical order for the files matched by each pattern. Files appearing more than
// once are only kept the first time. Directories are never returned.
// A malformed pattern is an error. No match is not an error; the returned list is empty.
func Glob(patterns []string) ([]string, error) {
	var ret []string
	seen := make(map[string]bool)
	add := func(name string) {
		key := filepath.Clean(name)
		if seen[key] {
			return
		}
		seen[key] = true
		ret = append(ret, name)
	}
	for _, p := range patterns {
		if info, err := os.Stat(p); err == nil {
			if !info.IsDir() {
				add(p)
			}
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("trajectory pattern %q: %w", p, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && !info.IsDir() {
				add(m)
			}
		}
	}
	return ret, nil
}

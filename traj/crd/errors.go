/*
 * errors.go, part of gopca
 *
 * Copyright 2018 Raul Mera Adasme <rmera_changeforat_chem-dot-helsinki-dot-fi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License  as published by
 * the Free Software Foundation; either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 */

package crd

import (
	"fmt"
	"strings"
)

// errDecorate decorates err with the caller's name, if err is one of the
// errors of this package, and returns it. Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	switch e := err.(type) {
	case Error:
		e.deco = e.Decorate(caller)
		return e
	case lastFrameError:
		e.deco = e.Decorate(caller)
		return e
	default:
		return err
	}
}

// Error is the general structure for Amber trajectory errors. It fullfills  chem.Error and chem.TrajError
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	if len(err.deco) == 0 {
		return fmt.Sprintf("Amber trajectory file %s error: %s", err.filename, err.message)
	}
	return fmt.Sprintf("Amber trajectory file %s error: %s (%s)", err.filename, err.message, strings.Join(err.deco, " < "))
}

// Decorate Adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

func (err Error) FileName() string { return err.filename }

func (err Error) Format() string { return "crd" }

func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIni      = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	ReadError      = "Error reading frame"
	UnableToOpen   = "Unable to open file"
	WrongFormat    = "Wrong format in the trajectory file or frame"
	NotEnoughSpace = "Not enough space in passed blocks"
)

// lastFrameError implements chem.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

// NormalLastFrameTermination does nothing
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "crd" }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) lastFrameError {
	return lastFrameError{fileName: filename, deco: []string{caller}}
}

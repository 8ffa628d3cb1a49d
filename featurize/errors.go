/*
 * errors.go, part of gopca
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
	"errors"
	"fmt"
	"strings"
)

// Kinds of errors returned by the package. Use errors.Is to test for them.
var (
	// ErrNoInput means that there were no trajectories to featurize.
	ErrNoInput = errors.New("no input trajectories")
	// ErrLoad means that a trajectory, topology or featurizer could not be read or featurized.
	ErrLoad = errors.New("load error")
	// ErrDimension means that two trajectories gave a different number of features.
	ErrDimension = errors.New("feature dimension mismatch")
)

// Error is the error type for the package. It implements chem.Error.
type Error struct {
	message  string
	filename string //the offending file, if any.
	deco     []string
	kind     error
	cause    error //the underlying error, if any.
}

func (err Error) Error() string {
	var b strings.Builder
	b.WriteString(err.kind.Error())
	if err.filename != "" {
		fmt.Fprintf(&b, " in %s", err.filename)
	}
	if err.message != "" {
		b.WriteString(": " + err.message)
	}
	if len(err.deco) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(err.deco, " < "))
	}
	return b.String()
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// FileName returns the file the error is associated to, or an empty string.
func (err Error) FileName() string { return err.filename }

// Unwrap returns the kind of the error (ErrNoInput, ErrLoad or ErrDimension) and the
// error that caused it, if any.
func (err Error) Unwrap() []error {
	if err.cause == nil {
		return []error{err.kind}
	}
	return []error{err.kind, err.cause}
}

func loadError(filename, caller string, err error) Error {
	return Error{message: err.Error(), filename: filename, deco: []string{caller}, kind: ErrLoad, cause: err}
}

// errDecorate decorates err with caller, if err is an Error, and returns it.
func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.deco = e.Decorate(caller)
		return e
	}
	return err
}

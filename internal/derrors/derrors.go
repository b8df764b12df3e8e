// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package derrors defines internal error values to categorize the different
// types error semantics we support.
package derrors

import (
	"errors"
	"fmt"
)

//lint:file-ignore ST1012 prefixing error values with Err would stutter

var (
	// NotFound indicates that a required file or resource was not found,
	// such as the defaults file or a locale's translation file.
	NotFound = errors.New("not found")
	// InvalidArgument indicates that a configuration value is invalid in
	// some way, for example a field of the wrong type.
	InvalidArgument = errors.New("invalid argument")
	// Unsupported indicates a well-typed value that no code path can handle,
	// such as an unknown translation output format.
	Unsupported = errors.New("unsupported")
)

var exitCodes = []struct {
	err  error
	code int
}{
	{NotFound, 3},
	{InvalidArgument, 4},
	{Unsupported, 5},
}

// ToExitCode returns a process exit code corresponding to err.
// A nil error is 0 and an uncategorized error is 1.
func ToExitCode(err error) int {
	if err == nil {
		return 0
	}
	for _, e := range exitCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return 1
}

// Wrap adds context to the error and allows
// unwrapping the result to recover the original error.
//
// Example:
//
//	defer derrors.Wrap(&err, "copy(%s, %s)", src, dst)
func Wrap(errp *error, format string, args ...any) {
	if *errp != nil {
		*errp = fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), *errp)
	}
}

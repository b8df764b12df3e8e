// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package static

import "github.com/ngi18n/ngbuild/internal/i18n"

type Config struct {
	// Write is true when output files should be written to the plan's
	// output directory. Otherwise the build runs to completion and its
	// files are only listed in the Result.
	Write bool

	// Translations is where the application fetches translation files at
	// bootstrap. It defaults to the plan's source directory.
	Translations i18n.Source
}

// Result describes a finished build.
type Result struct {
	// Files are the emitted files, relative to the output directory.
	Files []string
	// Cycles are the circular imports found among application modules.
	// They are reported but never fail the build.
	Cycles [][]string
	// VendorInputs are the bundled modules that belong to the vendor
	// chunk, relative to the project root.
	VendorInputs []string
	// Shell is the generated shell document.
	Shell []byte
}

// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"slices"
)

// ChunkOrder lists chunk names in the order the shell document loads them.
type ChunkOrder []string

// DefaultChunkOrder loads the runtime first and the application last.
var DefaultChunkOrder = ChunkOrder{"inline", "polyfills", "sw-register", "styles", "vendor", "main"}

// Index returns the position of name in o, or -1.
func (o ChunkOrder) Index(name string) int {
	return slices.Index(o, name)
}

// Sort returns names ordered by their position in o. Names missing from o
// rank before all listed names, and equal ranks keep their input order.
func (o ChunkOrder) Sort(names []string) []string {
	sorted := slices.Clone(names)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return o.Index(a) - o.Index(b)
	})
	return sorted
}

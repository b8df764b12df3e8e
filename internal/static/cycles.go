// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package static

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/ngi18n/ngbuild/internal/derrors"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// metafile is the part of esbuild's metafile that the build reads.
type metafile struct {
	Inputs  map[string]metaInput  `json:"inputs"`
	Outputs map[string]metaOutput `json:"outputs"`
}

type metaInput struct {
	Bytes   int          `json:"bytes"`
	Imports []metaImport `json:"imports"`
}

type metaImport struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external,omitempty"`
}

type metaOutput struct {
	Bytes      int    `json:"bytes"`
	EntryPoint string `json:"entryPoint,omitempty"`
}

func parseMetafile(s string) (*metafile, error) {
	m := &metafile{}
	if s == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(s), m); err != nil {
		return nil, fmt.Errorf("reading esbuild metafile: %v", err)
	}
	return m, nil
}

// findCycles returns the elementary import cycles among the metafile's
// inputs. Inputs whose absolute path under workDir matches the exclude
// expression are left out of the graph. Each cycle starts at its lexically
// smallest member and is reported once.
func findCycles(m *metafile, exclude, workDir string) (_ [][]string, err error) {
	defer derrors.Wrap(&err, "findCycles(%q)", exclude)

	var re *regexp.Regexp
	if exclude != "" {
		re, err = regexp.Compile(exclude)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, derrors.InvalidArgument)
		}
	}
	skip := func(in string) bool {
		if _, ok := m.Inputs[in]; !ok {
			return true
		}
		return re != nil && re.MatchString(filepath.Join(workDir, filepath.FromSlash(in)))
	}

	var names []string
	for in := range m.Inputs {
		if !skip(in) {
			names = append(names, in)
		}
	}
	slices.Sort(names)
	ids := make(map[string]int64, len(names))
	g := simple.NewDirectedGraph()
	for i, n := range names {
		ids[n] = int64(i)
		g.AddNode(simple.Node(i))
	}

	var cycles [][]string
	for _, n := range names {
		for _, imp := range m.Inputs[n].Imports {
			if imp.External || skip(imp.Path) {
				continue
			}
			if imp.Path == n {
				// The graph holds no self edges.
				cycles = append(cycles, []string{n})
				continue
			}
			g.SetEdge(g.NewEdge(simple.Node(ids[n]), simple.Node(ids[imp.Path])))
		}
	}
	for _, nodes := range topo.DirectedCyclesIn(g) {
		// The first node is repeated at the end.
		c := make([]string, len(nodes)-1)
		for i, node := range nodes[:len(nodes)-1] {
			c[i] = names[node.ID()]
		}
		cycles = append(cycles, rotate(c))
	}
	slices.SortFunc(cycles, func(a, b []string) int {
		return slices.Compare(a, b)
	})
	return slices.CompactFunc(cycles, slices.Equal), nil
}

// rotate shifts c so that its smallest element comes first.
func rotate(c []string) []string {
	i := slices.Index(c, slices.Min(c))
	return append(slices.Clone(c[i:]), c[:i]...)
}

// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ngi18n/ngbuild/internal/derrors"
)

// Layout is the static project layout a plan is assembled against.
type Layout struct {
	// WorkDir is the absolute project root.
	WorkDir string
	// SourceDir and OutputDir are relative to WorkDir.
	SourceDir string
	OutputDir string

	BaseHref  string
	DeployURL string

	// MinimizeCSS adds CSS minification to the stylesheet pipeline.
	MinimizeCSS bool

	// NodeModules are the absolute directories whose modules belong to the
	// vendor chunk.
	NodeModules []string
}

// NewLayout returns the conventional layout rooted at workDir. The vendor
// roots are workDir/node_modules, the same directory with symlinks
// resolved, and the compiler's generated copy under src/$$_gendir.
func NewLayout(workDir string) (_ Layout, err error) {
	defer derrors.Wrap(&err, "NewLayout(%q)", workDir)

	workDir, err = filepath.Abs(workDir)
	if err != nil {
		return Layout{}, err
	}
	l := Layout{
		WorkDir:   workDir,
		SourceDir: "src",
		OutputDir: "dist",
	}
	nodeModules := filepath.Join(workDir, "node_modules")
	real, err := filepath.EvalSymlinks(nodeModules)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Layout{}, err
		}
		real = nodeModules
	}
	genDir := filepath.Join(workDir, l.SourceDir, "$$_gendir", "node_modules")
	for _, root := range []string{nodeModules, real, genDir} {
		if !slices.Contains(l.NodeModules, root) {
			l.NodeModules = append(l.NodeModules, root)
		}
	}
	return l, nil
}

// Abs returns the absolute path of elem, which is relative to WorkDir.
func (l Layout) Abs(elem ...string) string {
	return filepath.Join(append([]string{l.WorkDir}, elem...)...)
}

// Source returns the absolute path of a file under SourceDir.
func (l Layout) Source(elem ...string) string {
	return l.Abs(append([]string{l.SourceDir}, elem...)...)
}

// rel returns the ./-prefixed, slash-separated path of a file under
// SourceDir, as the bundler expects entry points.
func (l Layout) rel(elem ...string) string {
	return "./" + path.Join(append([]string{filepath.ToSlash(l.SourceDir)}, elem...)...)
}

// RootStylesheet is the application's global stylesheet. It is injected
// into the page instead of exported as a string.
func (l Layout) RootStylesheet() string {
	return l.Source("styles.css")
}

// IsVendor reports whether the module at resource belongs to the vendor
// chunk: its own path must lie under one of the NodeModules roots.
func (l Layout) IsVendor(resource string) bool {
	if resource == "" {
		return false
	}
	resource = filepath.Clean(resource)
	for _, root := range l.NodeModules {
		if strings.HasPrefix(resource, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

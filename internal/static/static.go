// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !plan9

// Package static runs a build plan with github.com/evanw/esbuild.
//
// esbuild stands in for the webpack runtime the plan is written for. It
// honors the parts of the plan that it can express: entry points, output
// layout, the loader table, the ENV constant, source maps, stylesheet URL
// rewriting, static asset copying, the shell document and the circular
// dependency report. Chunk splitting follows esbuild's own algorithm.
package static

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/ngi18n/ngbuild/internal/derrors"
	"github.com/ngi18n/ngbuild/internal/i18n"
	"github.com/ngi18n/ngbuild/internal/log"
	"github.com/ngi18n/ngbuild/internal/plan"
	"golang.org/x/sync/errgroup"
)

// Build compiles the plan's entry points into its output directory.
// Production settings minify scripts; the layout's MinimizeCSS toggle
// minifies stylesheets. Any compile error fails the build without writing
// output.
//
// Extraction builds are rejected: they need the Angular compiler.
func Build(ctx context.Context, p *plan.Plan, cfg Config) (_ *Result, err error) {
	defer derrors.Wrap(&err, "static.Build")

	s := p.Settings
	l := p.Layout
	ctx = log.NewContextWithLabel(ctx, "locale", s.EffectiveLocale())
	if s.Extract {
		return nil, fmt.Errorf("extraction builds need the Angular compiler: %w", derrors.Unsupported)
	}
	if c := p.Compiler(); c != nil && c.I18nInFile != nil {
		f := l.Source(filepath.FromSlash(*c.I18nInFile))
		if _, err := os.Stat(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("translation file %s for locale %s: %w", f, c.Locale, derrors.NotFound)
			}
			return nil, err
		}
	}
	src := cfg.Translations
	if src == nil {
		src = i18n.FSSource{FS: os.DirFS(l.Source())}
	}
	shell := &shellDocument{}
	if _, err := i18n.Load(ctx, src, shell, &s); err != nil {
		return nil, err
	}

	log.Infof(ctx, "building %s (prod=%t)", l.WorkDir, s.Prod)
	var (
		scripts, styles api.BuildResult
		assets          []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		opts, err := scriptOptions(p, cfg.Write)
		if err != nil {
			return err
		}
		scripts = api.Build(opts)
		return buildErr("scripts", scripts)
	})
	g.Go(func() error {
		opts, err := styleOptions(p, cfg.Write)
		if err != nil {
			return err
		}
		styles = api.Build(opts)
		return buildErr("styles", styles)
	})
	if copts, ok := pluginOptions[*plan.CopyOptions](p, plan.CopyPlugin); ok {
		g.Go(func() error {
			var err error
			assets, err = copyAssets(gctx, copts, l, p.Output.Path, cfg.Write)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, w := range append(scripts.Warnings, styles.Warnings...) {
		log.Warningf(ctx, "esbuild: %s", w.Text)
	}

	res := &Result{}
	var chunks []chunk
	for _, br := range []api.BuildResult{scripts, styles} {
		for _, f := range br.OutputFiles {
			rel, err := filepath.Rel(p.Output.Path, f.Path)
			if err != nil {
				return nil, err
			}
			rel = filepath.ToSlash(rel)
			res.Files = append(res.Files, rel)
			if c, ok := entryChunk(rel); ok {
				chunks = append(chunks, c)
			}
		}
	}
	res.Files = append(res.Files, assets...)

	meta, err := parseMetafile(scripts.Metafile)
	if err != nil {
		return nil, err
	}
	if copts, ok := pluginOptions[*plan.CircularDependencyOptions](p, plan.CircularDependencyPlugin); ok {
		res.Cycles, err = findCycles(meta, copts.Exclude, l.WorkDir)
		if err != nil {
			return nil, err
		}
		for _, c := range res.Cycles {
			log.Warningf(ctx, "circular dependency detected: %s", strings.Join(c, " -> "))
		}
	}
	for in := range meta.Inputs {
		if l.IsVendor(filepath.Join(l.WorkDir, filepath.FromSlash(in))) {
			res.VendorInputs = append(res.VendorInputs, in)
		}
	}
	sort.Strings(res.VendorInputs)

	if hopts, ok := pluginOptions[*plan.HTMLOptions](p, plan.HTMLPlugin); ok {
		var baseHref string
		if bopts, ok := pluginOptions[*plan.BaseHrefOptions](p, plan.BaseHrefPlugin); ok {
			baseHref = bopts.BaseHref
		}
		tmpl, err := os.ReadFile(l.Abs(filepath.FromSlash(hopts.Template)))
		if err != nil {
			return nil, err
		}
		res.Shell, err = renderShell(tmpl, shell.lang, baseHref, l.DeployURL, hopts.ChunksSortMode, chunks)
		if err != nil {
			return nil, err
		}
		name := filepath.Clean(filepath.FromSlash(hopts.Filename))
		if cfg.Write {
			if err := os.WriteFile(filepath.Join(p.Output.Path, name), res.Shell, 0644); err != nil {
				return nil, err
			}
		}
		res.Files = append(res.Files, filepath.ToSlash(name))
	}
	slices.Sort(res.Files)
	log.Infof(ctx, "built %d files (%d vendor modules, %d circular dependencies)",
		len(res.Files), len(res.VendorInputs), len(res.Cycles))
	return res, nil
}

// pluginOptions returns the options of the first plugin named name, if
// they have type T.
func pluginOptions[T any](p *plan.Plan, name string) (T, bool) {
	var zero T
	pl := p.Plugin(name)
	if pl == nil {
		return zero, false
	}
	o, ok := pl.Options.(T)
	return o, ok
}

func buildErr(what string, r api.BuildResult) error {
	if len(r.Errors) == 0 {
		return nil
	}
	var msgs []string
	for _, m := range r.Errors {
		if m.Location != nil {
			msgs = append(msgs, fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text))
		} else {
			msgs = append(msgs, m.Text)
		}
	}
	return fmt.Errorf("error building %s: %s", what, strings.Join(msgs, "; "))
}

// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ngi18n/ngbuild/internal/derrors"
	"github.com/ngi18n/ngbuild/internal/log"
	"github.com/ngi18n/ngbuild/internal/plan"
	"golang.org/x/sync/errgroup"
)

// copyAssets copies the files selected by the copy patterns into outDir
// and returns their paths relative to outDir. Pattern contexts are
// relative to the project root; a missing context is skipped with a
// warning. Files are only listed when write is false.
func copyAssets(ctx context.Context, o *plan.CopyOptions, l plan.Layout, outDir string, write bool) (_ []string, err error) {
	defer derrors.Wrap(&err, "copyAssets")

	type job struct{ src, dst string }
	var jobs []job
	seen := map[string]bool{}
	for _, p := range o.Patterns {
		dir := l.Abs(filepath.FromSlash(p.Context))
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			log.Warningf(ctx, "copy: %s does not exist", dir)
			continue
		}
		names, err := globFiles(os.DirFS(dir), p.From, o.Ignore)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			dst := path.Join(p.To, name)
			if !seen[dst] {
				seen[dst] = true
				jobs = append(jobs, job{filepath.Join(dir, filepath.FromSlash(name)), dst})
			}
		}
	}

	files := make([]string, len(jobs))
	for i, j := range jobs {
		files[i] = j.dst
	}
	if !write {
		return files, nil
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return copyFile(j.src, filepath.Join(outDir, filepath.FromSlash(j.dst)))
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func copyFile(src, dst string) (err error) {
	defer derrors.Wrap(&err, "copyFile(%q, %q)", src, dst)

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// globFiles returns the sorted names of the files of fsys matching from,
// leaving out those whose base name is in ignore. Unless from.Dot is set,
// wildcards do not match names that begin with a dot.
func globFiles(fsys fs.FS, from plan.CopyFrom, ignore []string) ([]string, error) {
	opts := []doublestar.GlobOption{doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors()}
	if !from.Dot {
		opts = append(opts, doublestar.WithNoHidden())
	}
	var names []string
	err := doublestar.GlobWalk(fsys, from.Glob, func(name string, d fs.DirEntry) error {
		if !slices.Contains(ignore, d.Name()) {
			names = append(names, name)
		}
		return nil
	}, opts...)
	if errors.Is(err, doublestar.ErrBadPattern) {
		return nil, fmt.Errorf("glob %q: %w", from.Glob, derrors.InvalidArgument)
	}
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

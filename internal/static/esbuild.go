// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !plan9

package static

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/ngi18n/ngbuild/internal/plan"
)

// ruleExtensions are the file extensions looked up in the plan's rule
// table to build esbuild's loader map.
var ruleExtensions = []string{
	".html", ".eot", ".svg", ".cur",
	".jpg", ".png", ".webp", ".gif", ".otf", ".ttf", ".woff", ".woff2", ".ani",
	".css", ".ts",
}

// loaderFor maps the first loader of a rule to the esbuild loader with the
// same effect.
func loaderFor(name string) (api.Loader, bool) {
	name, _, _ = strings.Cut(name, "?")
	switch name {
	case "raw-loader", "exports-loader":
		return api.LoaderText, true
	case "file-loader", "url-loader":
		return api.LoaderFile, true
	case "style-loader":
		return api.LoaderCSS, true
	case "@ngtools/webpack":
		return api.LoaderTS, true
	}
	return api.LoaderNone, false
}

// loaders derives the loader map from the plan's rules. file is the path
// each extension is matched as, so that include and exclude lists apply.
func loaders(rules []plan.Rule, file func(ext string) string) (map[string]api.Loader, error) {
	m := map[string]api.Loader{
		// Translation files are imported as strings in JIT builds.
		".xlf": api.LoaderText,
	}
	for _, ext := range ruleExtensions {
		for _, r := range rules {
			ok, err := r.Matches(file(ext))
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if ls := r.Loaders(); len(ls) > 0 {
				if l, ok := loaderFor(ls[0]); ok {
					m[ext] = l
				}
			}
			break
		}
	}
	return m, nil
}

// outputName returns the output path of the named entry, without the
// extension esbuild adds.
func outputName(tmpl, name string) string {
	tmpl = strings.TrimSuffix(tmpl, filepath.Ext(tmpl))
	return strings.ReplaceAll(tmpl, "[name]", name)
}

func baseOptions(p *plan.Plan, write bool) api.BuildOptions {
	opts := api.BuildOptions{
		Bundle:            true,
		Platform:          api.PlatformBrowser,
		Outdir:            p.Output.Path,
		AbsWorkingDir:     p.Layout.WorkDir,
		ResolveExtensions: p.Resolve.Extensions,
		MainFields:        p.Resolve.MainFields,
		PreserveSymlinks:  !p.Resolve.Symlinks,
		AssetNames:        "[name].[hash]",
		Metafile:          true,
		Write:             write,
		LogLevel:          api.LogLevelSilent,
	}
	if pl := p.Plugin(plan.SourceMapPlugin); pl != nil {
		opts.Sourcemap = api.SourceMapLinked
		if o, ok := pl.Options.(*plan.SourceMapOptions); ok {
			opts.SourceRoot = o.SourceRoot
		}
	}
	return opts
}

// entries returns the plan's entry points whose files satisfy keep.
func entries(p *plan.Plan, keep func(file string) bool) []api.EntryPoint {
	var eps []api.EntryPoint
	for _, name := range plan.DefaultChunkOrder.Sort(slices.Sorted(maps.Keys(p.Entry))) {
		for _, f := range p.Entry[name] {
			if keep(f) {
				eps = append(eps, api.EntryPoint{
					InputPath:  f,
					OutputPath: outputName(p.Output.Filename, name),
				})
			}
		}
	}
	return eps
}

func isStylesheet(file string) bool { return filepath.Ext(file) == ".css" }

func scriptOptions(p *plan.Plan, write bool) (_ api.BuildOptions, err error) {
	l := p.Layout
	opts := baseOptions(p, write)
	opts.EntryPointsAdvanced = entries(p, func(f string) bool { return !isStylesheet(f) })
	opts.Splitting = true
	opts.Format = api.FormatESModule
	opts.ChunkNames = outputName(strings.ReplaceAll(p.Output.ChunkFilename, "[id]", "[name]-[hash]"), "[name]")
	// Component stylesheets are matched as a path other than the root
	// stylesheet.
	opts.Loader, err = loaders(p.Module.Rules, func(ext string) string { return l.Source("app", "component"+ext) })
	if err != nil {
		return api.BuildOptions{}, err
	}
	if pl := p.Plugin(plan.DefinePlugin); pl != nil {
		if d, ok := pl.Options.(plan.DefineOptions); ok {
			var banner string
			opts.Define, banner, err = defines(d)
			if err != nil {
				return api.BuildOptions{}, err
			}
			if banner != "" {
				opts.Banner = map[string]string{"js": banner}
			}
		}
	}
	if p.Settings.Prod {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
	}
	if c := p.Compiler(); c != nil && c.TSConfigPath != "" {
		tsconfig := l.Abs(filepath.FromSlash(c.TSConfigPath))
		if _, err := os.Stat(tsconfig); err == nil {
			opts.Tsconfig = tsconfig
		} else if !os.IsNotExist(err) {
			return api.BuildOptions{}, err
		}
	}
	opts.Plugins = []api.Plugin{rawLoaderPlugin()}
	return opts, nil
}

func styleOptions(p *plan.Plan, write bool) (_ api.BuildOptions, err error) {
	l := p.Layout
	opts := baseOptions(p, write)
	opts.EntryPointsAdvanced = entries(p, isStylesheet)
	opts.Loader, err = loaders(p.Module.Rules, func(ext string) string {
		if ext == ".css" {
			return l.RootStylesheet()
		}
		return l.Source("assets", "file"+ext)
	})
	if err != nil {
		return api.BuildOptions{}, err
	}
	urls, minify, err := postCSS(p.Module.Rules, l.RootStylesheet())
	if err != nil {
		return api.BuildOptions{}, err
	}
	if minify {
		opts.MinifyWhitespace = true
		opts.MinifySyntax = true
	}
	if urls != nil {
		opts.Plugins = []api.Plugin{cssURLPlugin(*urls)}
	}
	return opts, nil
}

// postCSS returns the URL rewrite policy and whether minification is on
// for the stylesheet at file.
func postCSS(rules []plan.Rule, file string) (urls *plan.URLRewriteOptions, minify bool, err error) {
	for _, r := range rules {
		ok, err := r.Matches(file)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		for _, s := range r.Use {
			o, ok := s.Options.(*plan.PostCSSOptions)
			if !ok {
				continue
			}
			for _, pl := range o.Plugins {
				switch pl.Name {
				case "postcss-url":
					urls, _ = pl.Options.(*plan.URLRewriteOptions)
				case "cssnano":
					minify = true
				}
			}
		}
		return urls, minify, nil
	}
	return nil, false, nil
}

var identRE = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// defines translates compile-time constants for esbuild, which only
// substitutes atoms. Object constants are declared in a banner, and their
// scalar fields are also substituted so that they fold.
func defines(d plan.DefineOptions) (_ map[string]string, banner string, err error) {
	m := map[string]string{}
	var b strings.Builder
	for _, name := range slices.Sorted(maps.Keys(d)) {
		var v any
		if err := json.Unmarshal([]byte(d[name]), &v); err != nil {
			return nil, "", fmt.Errorf("define %s: %v", name, err)
		}
		obj, ok := v.(map[string]any)
		if !ok {
			m[name] = d[name]
			continue
		}
		fmt.Fprintf(&b, "var %s = %s;\n", name, d[name])
		for k, fv := range obj {
			switch fv.(type) {
			case string, bool, float64, nil:
			default:
				continue
			}
			if !identRE.MatchString(k) {
				continue
			}
			data, err := json.Marshal(fv)
			if err != nil {
				return nil, "", err
			}
			m[name+"."+k] = string(data)
		}
	}
	return m, b.String(), nil
}

// rawLoaderPlugin handles inline loader requests such as
// "raw-loader!./messages.fr.xlf" by importing the file as text.
func rawLoaderPlugin() api.Plugin {
	return api.Plugin{
		Name: "raw-loader",
		Setup: func(b api.PluginBuild) {
			b.OnResolve(api.OnResolveOptions{Filter: `^[^!]+-loader!`},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					f := args.Path[strings.LastIndex(args.Path, "!")+1:]
					if !filepath.IsAbs(f) {
						f = filepath.Join(args.ResolveDir, f)
					}
					return api.OnResolveResult{Path: f, Namespace: "raw"}, nil
				})
			b.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: "raw"},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					data, err := os.ReadFile(args.Path)
					if err != nil {
						return api.OnLoadResult{}, err
					}
					s := string(data)
					return api.OnLoadResult{Contents: &s, Loader: api.LoaderText, WatchFiles: []string{args.Path}}, nil
				})
		},
	}
}

// externalURLRE matches URLs that are not files of the project.
var externalURLRE = regexp.MustCompile(`^(/|[a-zA-Z][a-zA-Z0-9+.-]*:)`)

// cssURLPlugin rewrites root-relative url() references and leaves them
// unbundled. Relative references are bundled as assets.
func cssURLPlugin(o plan.URLRewriteOptions) api.Plugin {
	return api.Plugin{
		Name: "postcss-url",
		Setup: func(b api.PluginBuild) {
			b.OnResolve(api.OnResolveOptions{Filter: `.*`},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					if args.Kind != api.ResolveCSSURLToken {
						return api.OnResolveResult{}, nil
					}
					u := plan.RewriteURL(args.Path, o.BaseHref, o.DeployURL)
					if !externalURLRE.MatchString(u) {
						return api.OnResolveResult{}, nil
					}
					return api.OnResolveResult{Path: u, External: true}, nil
				})
		},
	}
}

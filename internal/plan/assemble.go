// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"path"
	"path/filepath"

	"github.com/ngi18n/ngbuild/internal/config"
	"github.com/ngi18n/ngbuild/internal/derrors"
)

// keepCommentsRE matches license and source map comments.
const keepCommentsRE = `(?i)@preserve|@license|[@#]\s*source(?:Mapping)?URL|^!`

// Assemble builds the plan for the resolved settings record rec. The whole
// record is exposed to application code as the ENV constant.
//
// Assemble does no I/O. Its only error is a settings record that cannot be
// decoded or an extraction build with an unsupported output format.
func Assemble(rec config.Record, l Layout) (_ *Plan, err error) {
	defer derrors.Wrap(&err, "Assemble")

	s, err := rec.Settings()
	if err != nil {
		return nil, err
	}
	define, err := rec.Define()
	if err != nil {
		return nil, err
	}
	compiler, err := compilerOptions(s, l)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Resolve: Resolve{
			Extensions: []string{".ts", ".js"},
			Modules:    []string{"./node_modules"},
			Symlinks:   true,
			MainFields: []string{"browser", "module", "main"},
		},
		ResolveLoader: ResolveLoader{Modules: []string{"./node_modules"}},
		Entry: map[string][]string{
			"main":      {l.rel("main.ts")},
			"polyfills": {l.rel("polyfills.ts")},
			"styles":    {l.rel("styles.css")},
		},
		Output: Output{
			Path:          l.Abs(l.OutputDir),
			Filename:      "[name].bundle.js",
			ChunkFilename: "[id].chunk.js",
		},
		Module:  Module{Rules: rules(l)},
		Plugins: plugins(l, define, compiler),
		Node: Node{
			FS:      "empty",
			Global:  true,
			Crypto:  "empty",
			TLS:     "empty",
			Net:     "empty",
			Process: true,
		},
		DevServer: DevServer{HistoryAPIFallback: true},
		Settings:  *s,
		Layout:    l,
	}
	return p, nil
}

func rules(l Layout) []Rule {
	root := l.RootStylesheet()
	return []Rule{
		{Test: `\.html$`, Loader: "raw-loader"},
		{Test: `\.(eot|svg|cur)$`, Loader: "file-loader?name=[name].[hash:20].[ext]"},
		{Test: `\.(jpg|png|webp|gif|otf|ttf|woff|woff2|ani)$`, Loader: "url-loader?name=[name].[hash:20].[ext]&limit=10000"},
		{
			// Component stylesheets are exported as strings.
			Test:    `\.css$`,
			Exclude: []string{root},
			Use:     append([]Step{{Loader: "exports-loader?module.exports.toString()"}}, cssSteps(l)...),
		},
		{
			Test:    `\.css$`,
			Include: []string{root},
			Use:     append([]Step{{Loader: "style-loader"}}, cssSteps(l)...),
		},
		{Test: `\.ts$`, Use: []Step{{Loader: "@ngtools/webpack"}}},
	}
}

// cssSteps is the pipeline shared by both stylesheet rules.
func cssSteps(l Layout) []Step {
	plugins := []PostCSSPlugin{
		{Name: "postcss-url", Options: &URLRewriteOptions{BaseHref: l.BaseHref, DeployURL: l.DeployURL}},
		{Name: "autoprefixer"},
		{Name: "postcss-custom-properties", Options: &CustomPropertiesOptions{Preserve: true}},
	}
	if l.MinimizeCSS {
		plugins = append(plugins, PostCSSPlugin{
			Name: "cssnano",
			Options: &MinimizeOptions{
				Safe:         true,
				KeepComments: keepCommentsRE,
			},
		})
	}
	return []Step{
		{Loader: "css-loader", Options: &CSSLoaderOptions{ImportLoaders: 1}},
		{Loader: "postcss-loader", Options: &PostCSSOptions{Ident: "postcss", Plugins: plugins}},
	}
}

func plugins(l Layout, define string, compiler *CompilerOptions) []Plugin {
	src := filepath.ToSlash(l.SourceDir)
	return []Plugin{
		{Name: NoEmitOnErrorsPlugin},
		{Name: CopyPlugin, Options: &CopyOptions{
			Patterns: []CopyPattern{
				{Context: src, From: CopyFrom{Glob: "assets/**/*", Dot: true}},
				{Context: src, From: CopyFrom{Glob: "favicon.ico", Dot: true}},
			},
			Ignore: []string{".gitkeep"},
			Debug:  "warning",
		}},
		{Name: ProgressPlugin},
		{Name: CircularDependencyPlugin, Options: &CircularDependencyOptions{
			Exclude: `(\\|/)node_modules(\\|/)`,
		}},
		{Name: NamedLazyChunksPlugin},
		{Name: HTMLPlugin, Options: &HTMLOptions{
			Template:       l.rel("index.html"),
			Filename:       "./index.html",
			Inject:         true,
			Compile:        true,
			Cache:          true,
			ShowErrors:     true,
			Chunks:         "all",
			ExcludeChunks:  []string{},
			Title:          "Webpack App",
			XHTML:          true,
			ChunksSortMode: DefaultChunkOrder,
		}},
		{Name: BaseHrefPlugin, Options: &BaseHrefOptions{BaseHref: l.BaseHref}},
		// The vendor and async chunks are carved out of chunks the inline
		// runtime chunk has already been split from.
		{Name: CommonsChunkPlugin, Options: &CommonsChunkOptions{Names: []string{"inline"}}},
		{Name: CommonsChunkPlugin, Options: &CommonsChunkOptions{
			Names:     []string{"vendor"},
			MinChunks: &VendorModules{Roots: l.NodeModules},
			Chunks:    []string{"main"},
		}},
		{Name: CommonsChunkPlugin, Options: &CommonsChunkOptions{
			Names:     []string{"main"},
			MinChunks: 2,
			Async:     "common",
		}},
		{Name: SourceMapPlugin, Options: &SourceMapOptions{
			Filename:                       "[file].map[query]",
			ModuleFilenameTemplate:         "[resource-path]",
			FallbackModuleFilenameTemplate: "[resource-path]?[hash]",
			SourceRoot:                     "webpack:///",
		}},
		{Name: NamedModulesPlugin},
		{Name: DefinePlugin, Options: DefineOptions{"ENV": define}},
		{Name: AngularCompilerPlugin, Options: compiler},
	}
}

// compilerOptions configures the compiler for either a normal build,
// which may substitute a translation file, or an extraction build, which
// writes one.
func compilerOptions(s *config.Settings, l Layout) (*CompilerOptions, error) {
	o := &CompilerOptions{
		MainPath:           "main.ts",
		Locale:             s.EffectiveLocale(),
		SourceMap:          true,
		Exclude:            []string{},
		TSConfigPath:       path.Join(filepath.ToSlash(l.SourceDir), "tsconfig.app.json"),
		CompilerOptions:    map[string]any{},
		SkipCodeGeneration: !s.AOT,
	}
	if !s.Extract {
		o.I18nInFile = InputFile(s)
		if o.I18nInFile != nil {
			o.I18nInFormat = string(config.FormatXLF)
			if s.InFormat != "" {
				o.I18nInFormat = string(s.InFormat)
			}
		}
		return o, nil
	}
	out, err := ExtractionFile(s)
	if err != nil {
		return nil, err
	}
	o.I18nOutFile = out
	o.I18nOutFormat = string(OutputFormat(s))
	return o, nil
}

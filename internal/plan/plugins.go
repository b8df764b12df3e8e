// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

// Plugin names, as exported by their packages.
const (
	NoEmitOnErrorsPlugin     = "NoEmitOnErrorsPlugin"
	CopyPlugin               = "CopyWebpackPlugin"
	ProgressPlugin           = "ProgressPlugin"
	CircularDependencyPlugin = "CircularDependencyPlugin"
	NamedLazyChunksPlugin    = "NamedLazyChunksWebpackPlugin"
	HTMLPlugin               = "HtmlWebpackPlugin"
	BaseHrefPlugin           = "BaseHrefWebpackPlugin"
	CommonsChunkPlugin       = "CommonsChunkPlugin"
	SourceMapPlugin          = "SourceMapDevToolPlugin"
	NamedModulesPlugin       = "NamedModulesPlugin"
	DefinePlugin             = "DefinePlugin"
	AngularCompilerPlugin    = "AngularCompilerPlugin"
)

// A Plugin is a bundler plugin and its options. Options is one of the
// *Options types in this package, or nil.
type Plugin struct {
	Name    string `json:"name"`
	Options any    `json:"options,omitempty"`
}

// CopyOptions describes static files copied into the output directory.
type CopyOptions struct {
	Patterns []CopyPattern `json:"patterns"`
	// Ignore lists base names that are never copied.
	Ignore []string `json:"ignore"`
	Debug  string   `json:"debug"`
}

// A CopyPattern copies the files matching From, relative to Context, to
// the output subdirectory To.
type CopyPattern struct {
	Context string   `json:"context"`
	To      string   `json:"to"`
	From    CopyFrom `json:"from"`
}

// CopyFrom is a glob. "**" matches any number of directories. Dot
// controls whether names starting with a dot match wildcards.
type CopyFrom struct {
	Glob string `json:"glob"`
	Dot  bool   `json:"dot"`
}

// CircularDependencyOptions configures the circular import detector.
type CircularDependencyOptions struct {
	// Exclude is a regular expression; matching modules are not scanned.
	Exclude     string `json:"exclude"`
	FailOnError bool   `json:"failOnError"`
}

// HTMLOptions configures generation of the shell document.
type HTMLOptions struct {
	Template       string     `json:"template"`
	Filename       string     `json:"filename"`
	Hash           bool       `json:"hash"`
	Inject         bool       `json:"inject"`
	Compile        bool       `json:"compile"`
	Favicon        bool       `json:"favicon"`
	Minify         bool       `json:"minify"`
	Cache          bool       `json:"cache"`
	ShowErrors     bool       `json:"showErrors"`
	Chunks         string     `json:"chunks"`
	ExcludeChunks  []string   `json:"excludeChunks"`
	Title          string     `json:"title"`
	XHTML          bool       `json:"xhtml"`
	ChunksSortMode ChunkOrder `json:"chunksSortMode"`
}

// BaseHrefOptions sets the document's <base href>. An empty BaseHref
// leaves the template alone.
type BaseHrefOptions struct {
	BaseHref string `json:"baseHref,omitempty"`
}

// CommonsChunkOptions splits shared modules into the named chunk.
type CommonsChunkOptions struct {
	Names []string `json:"name"`
	// MinChunks is nil (no threshold), an int (minimum number of chunks
	// sharing a module) or a VendorModules selector.
	MinChunks any `json:"minChunks"`
	// Chunks restricts the source chunks.
	Chunks []string `json:"chunks,omitempty"`
	// Async names the deferred chunk extracted from async-loaded modules.
	Async string `json:"async,omitempty"`
}

// VendorModules selects modules whose resource path lies under one of
// Roots. See Layout.IsVendor.
type VendorModules struct {
	Roots []string `json:"resourceUnder"`
}

// SourceMapOptions configures source map emission.
type SourceMapOptions struct {
	Filename                       string `json:"filename"`
	ModuleFilenameTemplate         string `json:"moduleFilenameTemplate"`
	FallbackModuleFilenameTemplate string `json:"fallbackModuleFilenameTemplate"`
	SourceRoot                     string `json:"sourceRoot"`
}

// DefineOptions maps global identifiers to JavaScript expressions.
type DefineOptions map[string]string

// CompilerOptions configures the Angular compiler plugin.
type CompilerOptions struct {
	MainPath string `json:"mainPath"`
	// I18nInFile is the translation file substituted into templates. It
	// is null when the source strings are used as they are.
	I18nInFile   *string `json:"i18nInFile"`
	I18nInFormat string  `json:"i18nInFormat,omitempty"`
	// I18nOutFile and I18nOutFormat are set only for extraction builds.
	I18nOutFile        string         `json:"i18nOutFile,omitempty"`
	I18nOutFormat      string         `json:"i18nOutFormat,omitempty"`
	Locale             string         `json:"locale"`
	Platform           int            `json:"platform"`
	SourceMap          bool           `json:"sourceMap"`
	Exclude            []string       `json:"exclude"`
	TSConfigPath       string         `json:"tsConfigPath"`
	CompilerOptions    map[string]any `json:"compilerOptions"`
	SkipCodeGeneration bool           `json:"skipCodeGeneration"`
}

// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/ngi18n/ngbuild/internal/derrors"
)

// A Rule maps files to an ordered list of transformation steps.
type Rule struct {
	// Test is a regular expression matched against the file path.
	Test string `json:"test"`
	// Include and Exclude hold exact absolute paths.
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
	// Loader is set for single-step rules, Use for the others.
	Loader string `json:"loader,omitempty"`
	Use    []Step `json:"use,omitempty"`
}

// compiledTests caches the compiled Test expressions, keyed by source.
var compiledTests sync.Map

func compileTest(expr string) (*regexp.Regexp, error) {
	if re, ok := compiledTests.Load(expr); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("rule test %q: %v: %w", expr, err, derrors.InvalidArgument)
	}
	compiledTests.Store(expr, re)
	return re, nil
}

// Matches reports whether the rule applies to the file at path.
// A Test that is not a valid regular expression is an error wrapping
// derrors.InvalidArgument.
func (r Rule) Matches(path string) (bool, error) {
	re, err := compileTest(r.Test)
	if err != nil {
		return false, err
	}
	if !re.MatchString(path) {
		return false, nil
	}
	if len(r.Include) > 0 && !slices.Contains(r.Include, path) {
		return false, nil
	}
	return !slices.Contains(r.Exclude, path), nil
}

// Loaders returns the loader names of the rule's steps, in order.
func (r Rule) Loaders() []string {
	if r.Loader != "" {
		return []string{r.Loader}
	}
	var names []string
	for _, s := range r.Use {
		names = append(names, s.Loader)
	}
	return names
}

// A Step is one loader invocation.
type Step struct {
	Loader  string `json:"loader"`
	Options any    `json:"options,omitempty"`
}

// CSSLoaderOptions configures css-loader.
type CSSLoaderOptions struct {
	SourceMap     bool `json:"sourceMap"`
	ImportLoaders int  `json:"importLoaders"`
}

// PostCSSOptions configures postcss-loader.
type PostCSSOptions struct {
	Ident   string          `json:"ident"`
	Plugins []PostCSSPlugin `json:"plugins"`
}

// A PostCSSPlugin is one step of the shared stylesheet post-processing.
type PostCSSPlugin struct {
	Name    string `json:"name"`
	Options any    `json:"options,omitempty"`
}

// URLRewriteOptions is the postcss-url policy. See RewriteURL.
type URLRewriteOptions struct {
	BaseHref  string `json:"baseHref"`
	DeployURL string `json:"deployUrl"`
}

// CustomPropertiesOptions configures postcss-custom-properties.
type CustomPropertiesOptions struct {
	Preserve bool `json:"preserve"`
}

// MinimizeOptions configures cssnano. Comments matching KeepComments are
// kept.
type MinimizeOptions struct {
	Autoprefixer  bool   `json:"autoprefixer"`
	Safe          bool   `json:"safe"`
	MergeLonghand bool   `json:"mergeLonghand"`
	KeepComments  string `json:"keepComments"`
}

var (
	schemeRE     = regexp.MustCompile(`://`)
	multiSlashRE = regexp.MustCompile(`//+`)
)

// RewriteURL rewrites a url() reference found in a stylesheet. Only
// root-relative URLs change, since css-loader resolves the others:
//
//   - with a deploy URL that has a scheme, the deploy URL is prefixed;
//   - otherwise with a base href that has a scheme, the base href is
//     prefixed to /deployURL/url;
//   - otherwise the result is /baseHref/deployURL/url.
//
// Runs of slashes in the joined part collapse to one.
func RewriteURL(url, baseHref, deployURL string) string {
	if !strings.HasPrefix(url, "/") || strings.HasPrefix(url, "//") {
		return url
	}
	switch {
	case schemeRE.MatchString(deployURL):
		return strings.TrimSuffix(deployURL, "/") + url
	case schemeRE.MatchString(baseHref):
		return strings.TrimSuffix(baseHref, "/") + collapseSlashes("/"+deployURL+"/"+url)
	default:
		return collapseSlashes("/" + baseHref + "/" + deployURL + "/" + url)
	}
}

func collapseSlashes(s string) string {
	return multiSlashRE.ReplaceAllString(s, "/")
}

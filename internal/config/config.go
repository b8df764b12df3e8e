// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config resolves the build settings record from a persisted
// defaults file and invocation-time overrides.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/ngi18n/ngbuild/internal/derrors"
	"golang.org/x/text/language"
)

// DefaultsFile is the conventional name of the persisted defaults file.
const DefaultsFile = "env.conf.json"

// Format names a translation file format.
type Format string

const (
	FormatXLF   Format = "xlf"
	FormatXLF2  Format = "xlf2"
	FormatXMB   Format = "xmb"
	FormatXTB   Format = "xtb"
	FormatXLIF  Format = "xlif"
	FormatXLIFF Format = "xliff"
	// FormatXLIFF2 is the long spelling of FormatXLF2.
	FormatXLIFF2 Format = "xliff2"
)

// Settings is the typed view of a resolved Record. Its JSON names are the
// field names application code reads from the ENV constant.
type Settings struct {
	DefaultLang string `json:"defaultLang"`
	// Locale is optional. Use EffectiveLocale to read it.
	Locale string `json:"locale,omitempty"`
	AOT    bool   `json:"aot"`
	Prod   bool   `json:"prod"`
	// Extract selects the message-extraction build.
	Extract    bool   `json:"extract"`
	InFormat   Format `json:"i18nInFormat,omitempty"`
	OutFormat  Format `json:"i18nOutFormat,omitempty"`
	InFile     string `json:"i18nFile,omitempty"`
	OutFile    string `json:"outFile,omitempty"`
	OutputPath string `json:"outputPath,omitempty"`
}

// EffectiveLocale returns Locale, or DefaultLang when no locale is set.
func (s *Settings) EffectiveLocale() string {
	if s.Locale != "" {
		return s.Locale
	}
	return s.DefaultLang
}

// Record is an untyped settings record as read from JSON, YAML, the
// environment or the command line. Keys are the JSON names of Settings
// fields; other keys are carried along untouched.
type Record map[string]any

// Settings decodes r into its typed view. A value of the wrong type is an
// error wrapping derrors.InvalidArgument, as is a language that could
// escape the translation directory when substituted into a file name.
// Languages need not be registered BCP 47 tags; see UnknownLanguages.
func (r Record) Settings() (_ *Settings, err error) {
	defer derrors.Wrap(&err, "Record.Settings()")

	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%v: %w", err, derrors.InvalidArgument)
	}
	for _, tag := range []string{s.DefaultLang, s.Locale} {
		if tag == "" {
			continue
		}
		if strings.ContainsAny(tag, `/\`) || strings.Contains(tag, "..") {
			return nil, fmt.Errorf("language %q is not a file name component: %w", tag, derrors.InvalidArgument)
		}
	}
	return &s, nil
}

// UnknownLanguages returns the languages of s that do not parse as BCP 47
// tags, such as private-use or pseudo locales.
func (s *Settings) UnknownLanguages() []string {
	var unknown []string
	for _, tag := range []string{s.DefaultLang, s.Locale} {
		if tag == "" || slices.Contains(unknown, tag) {
			continue
		}
		if _, err := language.Parse(tag); err != nil {
			unknown = append(unknown, tag)
		}
	}
	return unknown
}

// Define returns the JSON text of r, the value of the ENV compile-time
// constant.
func (r Record) Define() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Dump outputs the record, one key per line, in key order.
func (r Record) Dump(w io.Writer) error {
	for _, k := range slices.Sorted(maps.Keys(r)) {
		v, err := json.Marshal(r[k])
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", k, v); err != nil {
			return err
		}
	}
	return nil
}

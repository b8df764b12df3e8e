// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/ngi18n/ngbuild/internal/derrors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by FromEnviron.
const EnvPrefix = "NGBUILD_"

// ParseFlags converts command-line pairs of the form key=value into a
// Record. A bare key is true, and the values "true" and "false" are
// booleans. Everything else is a string.
func ParseFlags(pairs []string) (_ Record, err error) {
	defer derrors.Wrap(&err, "ParseFlags(%q)", pairs)

	r := Record{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, fmt.Errorf("empty key in %q: %w", p, derrors.InvalidArgument)
		}
		switch {
		case !ok, v == "true":
			r[k] = true
		case v == "false":
			r[k] = false
		default:
			r[k] = v
		}
	}
	return r, nil
}

// environ lists the settings that can be overridden from the environment.
// Unset variables leave their field nil so they contribute no key.
type environ struct {
	DefaultLang *string `env:"DEFAULT_LANG" json:"defaultLang,omitempty"`
	Locale      *string `env:"LOCALE" json:"locale,omitempty"`
	AOT         *bool   `env:"AOT" json:"aot,omitempty"`
	Prod        *bool   `env:"PROD" json:"prod,omitempty"`
	Extract     *bool   `env:"EXTRACT" json:"extract,omitempty"`
	InFormat    *string `env:"I18N_IN_FORMAT" json:"i18nInFormat,omitempty"`
	OutFormat   *string `env:"I18N_OUT_FORMAT" json:"i18nOutFormat,omitempty"`
	InFile      *string `env:"I18N_FILE" json:"i18nFile,omitempty"`
	OutFile     *string `env:"OUT_FILE" json:"outFile,omitempty"`
	OutputPath  *string `env:"OUTPUT_PATH" json:"outputPath,omitempty"`
}

// FromEnviron reads NGBUILD_* variables from vars, or from the process
// environment when vars is nil.
func FromEnviron(vars map[string]string) (_ Record, err error) {
	defer derrors.Wrap(&err, "FromEnviron")

	var e environ
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars, Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("%v: %w", err, derrors.InvalidArgument)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	r := Record{}
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return r, nil
}

// ParseOverrides parses yamlData as a YAML mapping of settings.
func ParseOverrides(yamlData []byte) (_ Record, err error) {
	defer derrors.Wrap(&err, "ParseOverrides(data)")

	var r Record
	if err := yaml.Unmarshal(yamlData, &r); err != nil {
		return nil, fmt.Errorf("%v: %w", err, derrors.InvalidArgument)
	}
	if r == nil {
		r = Record{}
	}
	return r, nil
}

// ParseOverridesFile parses the contents of the overrides file name. Files
// ending in .toml are TOML; everything else is YAML.
func ParseOverridesFile(name string, data []byte) (_ Record, err error) {
	if !strings.EqualFold(filepath.Ext(name), ".toml") {
		return ParseOverrides(data)
	}
	defer derrors.Wrap(&err, "ParseOverridesFile(%q)", name)

	r := Record{}
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%v: %w", err, derrors.InvalidArgument)
	}
	return r, nil
}

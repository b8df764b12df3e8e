// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"

	"dario.cat/mergo"
	"github.com/ngi18n/ngbuild/internal/derrors"
)

// LoadDefaults reads the persisted defaults file at path. The file must hold
// a JSON object with at least a non-empty defaultLang.
func LoadDefaults(path string) (_ Record, err error) {
	defer derrors.Wrap(&err, "LoadDefaults(%q)", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("defaults file is missing: %w", derrors.NotFound)
		}
		return nil, err
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%v: %w", err, derrors.InvalidArgument)
	}
	if lang, _ := r["defaultLang"].(string); lang == "" {
		return nil, fmt.Errorf("defaultLang must be a non-empty string: %w", derrors.InvalidArgument)
	}
	return r, nil
}

// Resolve shallow-merges overrides onto defaults, in order. A key present in
// a later record replaces the value from earlier ones, even when the new
// value is false, empty or null. Neither argument is modified.
func Resolve(defaults Record, overrides ...Record) Record {
	merged := maps.Clone(defaults)
	if merged == nil {
		merged = Record{}
	}
	for _, o := range overrides {
		if len(o) == 0 {
			continue
		}
		// Nested objects are replaced whole, not merged.
		for k, v := range o {
			if _, ok := v.(map[string]any); ok {
				delete(merged, k)
			}
		}
		// Map values are interfaces, so WithOverride replaces them per key
		// instead of skipping zero values.
		if err := mergo.Merge(&merged, o, mergo.WithOverride); err != nil {
			// Both sides are Records; mergo only fails on mismatched types.
			panic(fmt.Sprintf("config.Resolve: %v", err))
		}
	}
	return merged
}

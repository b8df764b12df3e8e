// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ngi18n/ngbuild/internal/config"
	"github.com/ngi18n/ngbuild/internal/derrors"
)

func TestInputFile(t *testing.T) {
	for _, test := range []struct {
		name string
		s    config.Settings
		want string // "" means nil
	}{
		{"other locale", config.Settings{DefaultLang: "en", Locale: "fr"}, "i18n/messages.fr.xlf"},
		{"default locale", config.Settings{DefaultLang: "en", Locale: "en"}, ""},
		{"no locale", config.Settings{DefaultLang: "en"}, ""},
		{"explicit file", config.Settings{DefaultLang: "en", Locale: "de", InFile: "i18n/de.xlf"}, "i18n/de.xlf"},
		{"explicit file, default locale", config.Settings{DefaultLang: "en", InFile: "i18n/de.xlf"}, ""},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := InputFile(&test.s)
			switch {
			case test.want == "" && got != nil:
				t.Errorf("InputFile = %q, want nil", *got)
			case test.want != "" && (got == nil || *got != test.want):
				t.Errorf("InputFile = %v, want %q", got, test.want)
			}
		})
	}
}

func TestExtractionFile(t *testing.T) {
	for _, test := range []struct {
		name    string
		s       config.Settings
		want    string
		wantErr error
	}{
		{name: "default format", s: config.Settings{}, want: "messages.xlf"},
		{name: "xlf2", s: config.Settings{OutFormat: "xlf2"}, want: "messages.xlf"},
		{name: "xliff", s: config.Settings{OutFormat: "xliff"}, want: "messages.xlf"},
		{name: "xliff2", s: config.Settings{OutFormat: "xliff2"}, want: "messages.xlf"},
		{name: "xlif", s: config.Settings{OutFormat: "xlif"}, want: "messages.xlf"},
		{name: "xmb", s: config.Settings{OutFormat: "xmb"}, want: "messages.xmb"},
		{name: "json", s: config.Settings{OutFormat: "json"}, wantErr: derrors.Unsupported},
		{name: "xtb is input only", s: config.Settings{OutFormat: "xtb"}, wantErr: derrors.Unsupported},
		{name: "explicit file", s: config.Settings{OutFormat: "json", OutFile: "source.xlf"}, want: "source.xlf"},
		{name: "output path", s: config.Settings{OutFormat: "xmb", OutputPath: "src/i18n"}, want: filepath.Join("src", "i18n", "messages.xmb")},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := ExtractionFile(&test.s)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("ExtractionFile: got error %v, want %v", err, test.wantErr)
			}
			if got != test.want {
				t.Errorf("ExtractionFile = %q, want %q", got, test.want)
			}
		})
	}
}

// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"fmt"
	"path/filepath"

	"github.com/ngi18n/ngbuild/internal/config"
	"github.com/ngi18n/ngbuild/internal/derrors"
)

// TranslationFile is the conventional translation file of locale,
// relative to the source directory.
func TranslationFile(locale string) string {
	return fmt.Sprintf("i18n/messages.%s.xlf", locale)
}

// InputFile returns the translation file the compiler substitutes into
// templates, or nil when the effective locale is the default language.
// An explicit i18nFile setting replaces the conventional path.
func InputFile(s *config.Settings) *string {
	locale := s.EffectiveLocale()
	if locale == s.DefaultLang {
		return nil
	}
	f := TranslationFile(locale)
	if s.InFile != "" {
		f = s.InFile
	}
	return &f
}

var extractionFiles = map[config.Format]string{
	config.FormatXMB:    "messages.xmb",
	config.FormatXLF:    "messages.xlf",
	config.FormatXLIF:   "messages.xlf",
	config.FormatXLIFF:  "messages.xlf",
	config.FormatXLF2:   "messages.xlf",
	config.FormatXLIFF2: "messages.xlf",
}

// OutputFormat returns the extraction format, xlf unless set.
func OutputFormat(s *config.Settings) config.Format {
	if s.OutFormat == "" {
		return config.FormatXLF
	}
	return s.OutFormat
}

// ExtractionFile returns the path of the file an extraction build writes.
// An explicit outFile wins; otherwise the name follows from the output
// format. The name is joined under outputPath when that is set.
func ExtractionFile(s *config.Settings) (_ string, err error) {
	defer derrors.Wrap(&err, "ExtractionFile")

	name := s.OutFile
	if name == "" {
		f := OutputFormat(s)
		var ok bool
		name, ok = extractionFiles[f]
		if !ok {
			return "", fmt.Errorf("translation output format %q: %w", f, derrors.Unsupported)
		}
	}
	if s.OutputPath != "" {
		name = filepath.Join(s.OutputPath, name)
	}
	return name, nil
}

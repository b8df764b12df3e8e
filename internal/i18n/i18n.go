// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package i18n loads the translation providers the application is
// bootstrapped with.
package i18n

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"

	"github.com/ngi18n/ngbuild/internal/config"
	"github.com/ngi18n/ngbuild/internal/derrors"
	"github.com/ngi18n/ngbuild/internal/plan"
	"golang.org/x/net/context/ctxhttp"
)

// Provider tokens.
const (
	LocaleID           = "LOCALE_ID"
	Translations       = "TRANSLATIONS"
	TranslationsFormat = "TRANSLATIONS_FORMAT"
)

// A Provider binds a value to a dependency-injection token.
type Provider struct {
	Token string `json:"provide"`
	Value string `json:"useValue"`
}

// A Document is the host page. Its language is set to the locale being
// bootstrapped.
type Document interface {
	SetLang(lang string)
}

// A Source fetches translation files.
type Source interface {
	// Translations returns the contents of the translation file name,
	// relative to the application source directory. A missing file is an
	// error wrapping derrors.NotFound.
	Translations(ctx context.Context, name string) ([]byte, error)
}

// Load returns the providers for bootstrapping the application in the
// effective locale of s, setting doc's language as a side effect.
//
// A LOCALE_ID provider is always returned. Translations are fetched only
// for JIT builds in a locale other than the default language; AOT builds
// have them compiled in. The file fetched is plan.InputFile, so an
// explicit i18nFile setting is honored. The fetch is attempted once. A
// failure is returned rather than falling back to the default language.
func Load(ctx context.Context, src Source, doc Document, s *config.Settings) ([]Provider, error) {
	locale := s.EffectiveLocale()
	if doc != nil {
		doc.SetLang(locale)
	}
	providers := []Provider{{Token: LocaleID, Value: locale}}
	file := plan.InputFile(s)
	if s.AOT || file == nil {
		return providers, nil
	}
	data, err := src.Translations(ctx, *file)
	if err != nil {
		return nil, fmt.Errorf("unable to load translations for locale %s, please check that the file %s exists: %w",
			locale, path.Join("src", *file), err)
	}
	return append([]Provider{
		{Token: Translations, Value: string(data)},
		{Token: TranslationsFormat, Value: string(config.FormatXLF)},
	}, providers...), nil
}

// FSSource reads translation files from a file system rooted at the
// application source directory.
type FSSource struct {
	FS fs.FS
}

func (s FSSource) Translations(ctx context.Context, name string) (_ []byte, err error) {
	defer derrors.Wrap(&err, "FSSource.Translations(%q)", name)

	data, err := fs.ReadFile(s.FS, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, derrors.NotFound
	}
	return data, err
}

// HTTPSource fetches translation files relative to BaseURL.
type HTTPSource struct {
	// Client defaults to http.DefaultClient.
	Client  *http.Client
	BaseURL string
}

func (s HTTPSource) Translations(ctx context.Context, name string) (_ []byte, err error) {
	u, err := url.JoinPath(s.BaseURL, name)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, derrors.InvalidArgument)
	}
	defer derrors.Wrap(&err, "HTTPSource.Translations(%q)", u)

	resp, err := ctxhttp.Get(ctx, s.Client, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, derrors.NotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

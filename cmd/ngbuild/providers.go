// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"os"

	"github.com/ngi18n/ngbuild/internal/i18n"
	"github.com/spf13/cobra"
)

var translationsURL string

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Print the translation providers the application bootstraps with",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		o := flagOptions()
		rec, err := o.resolve(ctx)
		if err != nil {
			return err
		}
		s, err := rec.Settings()
		if err != nil {
			return err
		}
		l, err := o.layout()
		if err != nil {
			return err
		}
		var src i18n.Source = i18n.FSSource{FS: os.DirFS(l.Source())}
		if translationsURL != "" {
			src = i18n.HTTPSource{BaseURL: translationsURL}
		}
		providers, err := i18n.Load(ctx, src, nil, s)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(providers)
	},
}

func init() {
	providersCmd.Flags().StringVar(&translationsURL, "translations_url", "",
		"fetch translation files relative to this URL instead of the source directory")
	rootCmd.AddCommand(providersCmd)
}

// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Ngbuild assembles the build plan of an internationalized Angular
// application and runs it.
//
// Usage:
//
//	ngbuild [flags] plan [--format json|yaml]
//	ngbuild [flags] build
//	ngbuild [flags] serve [--addr host:port]
//	ngbuild [flags] providers
//
// Settings come from the defaults file, then NGBUILD_* environment
// variables, then the --overrides YAML or TOML file, then --env flags, each
// source overriding the ones before it.
package main

import (
	"context"

	"github.com/ngi18n/ngbuild/internal/config"
	"github.com/ngi18n/ngbuild/internal/derrors"
	"github.com/ngi18n/ngbuild/internal/log"
	"github.com/spf13/cobra"
)

var (
	defaultsFile  string
	overridesFile string
	envFlags      []string
	workDir       string
	logLevel      string
	logJSON       bool
	baseHref      string
	deployURL     string
	minimizeCSS   bool
)

var rootCmd = &cobra.Command{
	Use:   "ngbuild",
	Short: "Assemble and run the build plan of an i18n Angular application",
	Long: `ngbuild resolves the build settings of an internationalized Angular
application and assembles them into a webpack-shaped build plan. The plan
can be printed for webpack, or run with esbuild.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logJSON {
			log.UseJSON(cmd.ErrOrStderr())
		}
		log.SetLevel(logLevel)
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&defaultsFile, "config", config.DefaultsFile, "defaults file, relative to the working directory")
	f.StringVar(&overridesFile, "overrides", "", "YAML or TOML file of setting overrides")
	f.StringArrayVar(&envFlags, "env", nil, "setting override as key=value; a bare key sets it to true")
	f.StringVar(&workDir, "workdir", ".", "project root")
	f.StringVar(&logLevel, "log_level", "info", "minimum log level: debug, info, warning, error or fatal")
	f.BoolVar(&logJSON, "log_json", false, "log JSON lines instead of text")
	f.StringVar(&baseHref, "base_href", "", "base href of the shell document")
	f.StringVar(&deployURL, "deploy_url", "", "URL the bundles are deployed under")
	f.BoolVar(&minimizeCSS, "minimize_css", false, "minify stylesheets")
}

func main() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Exit(ctx, err, derrors.ToExitCode(err))
	}
}

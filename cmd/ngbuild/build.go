// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/ngi18n/ngbuild/internal/static"
	"github.com/spf13/cobra"
)

var dryRun bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the application with esbuild",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := flagOptions().assemble(ctx)
		if err != nil {
			return err
		}
		res, err := static.Build(ctx, p, static.Config{Write: !dryRun})
		if err != nil {
			return err
		}
		for _, f := range res.Files {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&dryRun, "dry_run", false, "list the output files without writing them")
	rootCmd.AddCommand(buildCmd)
}

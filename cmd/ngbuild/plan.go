// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/ngi18n/ngbuild/internal/derrors"
	"github.com/spf13/cobra"
)

var planFormat string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the build plan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := flagOptions().assemble(cmd.Context())
		if err != nil {
			return err
		}
		var data []byte
		switch planFormat {
		case "json":
			data, err = p.JSON()
		case "yaml":
			data, err = p.YAML()
		default:
			return fmt.Errorf("unknown format %q: %w", planFormat, derrors.InvalidArgument)
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	},
}

func init() {
	planCmd.Flags().StringVar(&planFormat, "format", "json", "output format: json or yaml")
	rootCmd.AddCommand(planCmd)
}

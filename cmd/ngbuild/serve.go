// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/ngi18n/ngbuild/internal/devserver"
	"github.com/ngi18n/ngbuild/internal/log"
	"github.com/spf13/cobra"
)

const defaultAddr = "localhost:4200" // default dev server address

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the built application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		p, err := flagOptions().assemble(ctx)
		if err != nil {
			return err
		}
		srv := &http.Server{
			Addr:    serveAddr,
			Handler: devserver.New(os.DirFS(p.Output.Path), p.DevServer),
		}
		ln, err := net.Listen("tcp", serveAddr)
		if err != nil {
			return err
		}
		log.Infof(ctx, "Serving %s on addr %s", p.Output.Path, ln.Addr())
		return serve(ctx, srv, ln)
	},
}

// serve runs srv on ln until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Errorf(ctx, "Shutdown: %v", err)
		}
	}()
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "HTTP service address to listen for incoming requests on")
	rootCmd.AddCommand(serveCmd)
}

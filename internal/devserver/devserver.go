// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package devserver serves a built application the way the plan's dev
// server policy describes.
package devserver

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ngi18n/ngbuild/internal/log"
	"github.com/ngi18n/ngbuild/internal/plan"
)

// indexPage is the shell document.
const indexPage = "index.html"

type server struct {
	root   fs.FS
	policy plan.DevServer
}

// New returns a handler serving the files of root. With the history API
// fallback enabled, GET and HEAD requests for missing files are answered
// with the shell document so that client-side routes resolve.
func New(root fs.FS, policy plan.DevServer) http.Handler {
	s := &server{root: root, policy: policy}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logRequests)
	r.Get("/*", s.serve)
	r.Head("/*", s.serve)
	return r
}

func (s *server) serve(w http.ResponseWriter, r *http.Request) {
	name, ok := s.resolve(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	f, err := s.root.Open(name)
	if err != nil {
		s.serveError(w, r, err)
		return
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		s.serveError(w, r, err)
		return
	}
	rs, ok := f.(io.ReadSeeker)
	if !ok {
		http.Error(w, "file is not seekable", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), rs)
}

// resolve maps a request path to a file of the root. Directories are
// served through their index page.
func (s *server) resolve(urlPath string) (string, bool) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = indexPage
	}
	if fi, err := fs.Stat(s.root, name); err == nil {
		if !fi.IsDir() {
			return name, true
		}
		index := path.Join(name, indexPage)
		if _, err := fs.Stat(s.root, index); err == nil {
			return index, true
		}
	}
	if s.policy.HistoryAPIFallback {
		return indexPage, true
	}
	return "", false
}

func (s *server) serveError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	log.Errorf(r.Context(), "devserver: %v", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logf := log.Debugf
		if ww.Status() >= 500 {
			logf = log.Errorf
		}
		logf(r.Context(), "%s %s %d (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package devserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/ngi18n/ngbuild/internal/plan"
)

var testFS = fstest.MapFS{
	"index.html":          {Data: []byte("<html>shell</html>")},
	"main.bundle.js":      {Data: []byte("console.log(1)")},
	"assets/logo.png":     {Data: []byte("png")},
	"docs/index.html":     {Data: []byte("docs")},
	"assets/img/icon.svg": {Data: []byte("<svg/>")},
}

func TestServe(t *testing.T) {
	for _, test := range []struct {
		name       string
		method     string
		path       string
		fallback   bool
		wantStatus int
		wantBody   string
	}{
		{"root", http.MethodGet, "/", true, http.StatusOK, "<html>shell</html>"},
		{"file", http.MethodGet, "/main.bundle.js", true, http.StatusOK, "console.log(1)"},
		{"nested file", http.MethodGet, "/assets/img/icon.svg", false, http.StatusOK, "<svg/>"},
		{"directory index", http.MethodGet, "/docs/", false, http.StatusOK, "docs"},
		{"client route", http.MethodGet, "/users/42", true, http.StatusOK, "<html>shell</html>"},
		{"directory without index", http.MethodGet, "/assets", true, http.StatusOK, "<html>shell</html>"},
		{"head client route", http.MethodHead, "/users/42", true, http.StatusOK, ""},
		{"no fallback", http.MethodGet, "/users/42", false, http.StatusNotFound, "404 page not found\n"},
		{"dot dot", http.MethodGet, "/../../etc/passwd", false, http.StatusNotFound, "404 page not found\n"},
		{"post", http.MethodPost, "/users/42", true, http.StatusMethodNotAllowed, ""},
	} {
		t.Run(test.name, func(t *testing.T) {
			h := New(testFS, plan.DevServer{HistoryAPIFallback: test.fallback})
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(test.method, test.path, nil))
			res := w.Result()
			if res.StatusCode != test.wantStatus {
				t.Fatalf("status = %d, want %d", res.StatusCode, test.wantStatus)
			}
			if test.method == http.MethodPost {
				return
			}
			body, err := io.ReadAll(res.Body)
			if err != nil {
				t.Fatal(err)
			}
			if string(body) != test.wantBody {
				t.Errorf("body = %q, want %q", body, test.wantBody)
			}
		})
	}
}

func TestServeContentType(t *testing.T) {
	h := New(testFS, plan.DevServer{HistoryAPIFallback: true})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/client/route", nil))
	if got, want := w.Result().Header.Get("Content-Type"), "text/html; charset=utf-8"; got != want {
		t.Errorf("Content-Type = %q, want %q", got, want)
	}
}

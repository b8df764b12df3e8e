// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package static

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ngi18n/ngbuild/internal/plan"
)

func TestEntryChunk(t *testing.T) {
	for _, test := range []struct {
		in     string
		want   chunk
		wantOK bool
	}{
		{"main.bundle.js", chunk{name: "main", file: "main.bundle.js"}, true},
		{"styles.bundle.css", chunk{name: "styles", file: "styles.bundle.css", css: true}, true},
		{"main.bundle.js.map", chunk{}, false},
		{"chunk-ABC.chunk.js", chunk{}, false},
		{"assets/x.bundle.js", chunk{}, false},
	} {
		got, ok := entryChunk(test.in)
		if ok != test.wantOK || got != test.want {
			t.Errorf("entryChunk(%q) = %+v, %t, want %+v, %t", test.in, got, ok, test.want, test.wantOK)
		}
	}
}

const testTemplate = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>App</title>
</head>
<body>
  <app-root></app-root>
</body>
</html>
`

func TestRenderShell(t *testing.T) {
	chunks := []chunk{
		{name: "main", file: "main.bundle.js"},
		{name: "styles", file: "styles.bundle.css", css: true},
		{name: "polyfills", file: "polyfills.bundle.js"},
	}
	got, err := renderShell([]byte(testTemplate), "fr", "/app/", "", plan.DefaultChunkOrder, chunks)
	if err != nil {
		t.Fatal(err)
	}
	s := string(got)
	for _, want := range []string{
		`<html lang="fr">`,
		`<base href="/app/"/>`,
		`<link rel="stylesheet" href="styles.bundle.css"/></head>`,
		`<script type="module" src="polyfills.bundle.js"></script><script type="module" src="main.bundle.js"></script></body>`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("shell does not contain %q:\n%s", want, s)
		}
	}
}

func TestRenderShellUpdatesBase(t *testing.T) {
	tmpl := `<html><head><base href="/"></head><body></body></html>`
	got, err := renderShell([]byte(tmpl), "", "/sub/", "https://cdn.example.com", plan.DefaultChunkOrder,
		[]chunk{{name: "main", file: "main.bundle.js"}})
	if err != nil {
		t.Fatal(err)
	}
	want := `<html><head><base href="/sub/"/></head><body><script type="module" src="https://cdn.example.com/main.bundle.js"></script></body></html>`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}

func TestChunkURL(t *testing.T) {
	for _, test := range []struct {
		deployURL, want string
	}{
		{"", "main.bundle.js"},
		{"/static/", "/static/main.bundle.js"},
		{"/static", "/static/main.bundle.js"},
		{"https://cdn.example.com", "https://cdn.example.com/main.bundle.js"},
	} {
		if got := chunkURL(test.deployURL, "main.bundle.js"); got != test.want {
			t.Errorf("chunkURL(%q) = %q, want %q", test.deployURL, got, test.want)
		}
	}
}

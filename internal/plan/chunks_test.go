// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChunkOrderSort(t *testing.T) {
	for _, test := range []struct {
		in, want []string
	}{
		{[]string{"main", "vendor", "styles"}, []string{"styles", "vendor", "main"}},
		{[]string{"main", "polyfills", "inline", "sw-register"}, []string{"inline", "polyfills", "sw-register", "main"}},
		{[]string{"main", "lazy-a", "inline", "lazy-b"}, []string{"lazy-a", "lazy-b", "inline", "main"}},
		{nil, nil},
	} {
		in := append([]string(nil), test.in...)
		got := DefaultChunkOrder.Sort(test.in)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Sort(%q) mismatch (-want +got):\n%s", test.in, diff)
		}
		if diff := cmp.Diff(in, test.in); diff != "" {
			t.Errorf("Sort modified its input (-want +got):\n%s", diff)
		}
	}
}

func TestIsVendor(t *testing.T) {
	l := Layout{
		WorkDir: "/work",
		NodeModules: []string{
			"/work/node_modules",
			"/store/node_modules",
			"/work/src/$$_gendir/node_modules",
		},
	}
	for _, test := range []struct {
		resource string
		want     bool
	}{
		{"/work/node_modules/@angular/core/core.js", true},
		{"/store/node_modules/rxjs/Observable.js", true},
		{"/work/src/$$_gendir/node_modules/@angular/core/core.ngfactory.js", true},
		{"/work/node_modules/../src/main.ts", false},
		{"/work/src/app/app.module.ts", false},
		{"/work/node_modules_extra/x.js", false},
		{"/work/node_modules", false},
		{"", false},
	} {
		if got := l.IsVendor(test.resource); got != test.want {
			t.Errorf("IsVendor(%q) = %t, want %t", test.resource, got, test.want)
		}
	}
}

func TestNewLayout(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLayout(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "node_modules"),
		filepath.Join(dir, "src", "$$_gendir", "node_modules"),
	}
	if diff := cmp.Diff(want, l.NodeModules); diff != "" {
		t.Errorf("without node_modules (-want +got):\n%s", diff)
	}

	store := filepath.Join(dir, "store")
	if err := os.Mkdir(store, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(store, filepath.Join(dir, "node_modules")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	realStore, err := filepath.EvalSymlinks(store)
	if err != nil {
		t.Fatal(err)
	}
	l, err = NewLayout(dir)
	if err != nil {
		t.Fatal(err)
	}
	want = []string{
		filepath.Join(dir, "node_modules"),
		realStore,
		filepath.Join(dir, "src", "$$_gendir", "node_modules"),
	}
	if diff := cmp.Diff(want, l.NodeModules); diff != "" {
		t.Errorf("with symlinked node_modules (-want +got):\n%s", diff)
	}
	if !l.IsVendor(filepath.Join(realStore, "rxjs", "index.js")) {
		t.Error("module under the resolved store is not vendor")
	}
}

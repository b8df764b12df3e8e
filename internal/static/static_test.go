// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !plan9

package static

import (
	"context"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/google/go-cmp/cmp"
	"github.com/ngi18n/ngbuild/internal/config"
	"github.com/ngi18n/ngbuild/internal/derrors"
	"github.com/ngi18n/ngbuild/internal/plan"
)

var testProject = map[string]string{
	"src/index.html":      testTemplate,
	"src/main.ts":         "import { start } from './app/a';\ndeclare const ENV: any;\nstart(ENV.defaultLang);\n",
	"src/polyfills.ts":    "export const polyfilled = true;\n",
	"src/styles.css":      "body { background: url(/img/bg.png); }\n",
	"src/app/a.ts":        "import { helper } from './b';\nimport tmpl from './a.html';\nexport function start(lang: string) { helper(lang + tmpl); }\nexport const name = 'a';\n",
	"src/app/b.ts":        "import { name } from './a';\nexport function helper(s: string) { console.log(name, s); }\n",
	"src/app/a.html":      "<p>hello</p>",
	"src/assets/logo.png": "png",
	"src/assets/.gitkeep": "",
	"src/favicon.ico":     "ico",
}

const testXLF = `<?xml version="1.0" encoding="UTF-8" ?><xliff version="1.2"></xliff>`

// withFiles returns testProject plus extra.
func withFiles(extra map[string]string) map[string]string {
	files := maps.Clone(testProject)
	maps.Copy(files, extra)
	return files
}

func testPlan(t *testing.T, files map[string]string, rec config.Record) *plan.Plan {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, files)
	l, err := plan.NewLayout(dir)
	if err != nil {
		t.Fatal(err)
	}
	p, err := plan.Assemble(rec, l)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestBuild(t *testing.T) {
	p := testPlan(t, testProject, config.Record{"defaultLang": "en"})
	res, err := Build(context.Background(), p, Config{Write: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"assets/logo.png",
		"favicon.ico",
		"index.html",
		"main.bundle.js",
		"main.bundle.js.map",
		"polyfills.bundle.js",
		"styles.bundle.css",
	} {
		if !slices.Contains(res.Files, want) {
			t.Errorf("Files = %v, missing %q", res.Files, want)
		}
	}
	if slices.Contains(res.Files, "assets/.gitkeep") {
		t.Error(".gitkeep was copied")
	}

	wantCycles := [][]string{{"src/app/a.ts", "src/app/b.ts"}}
	if diff := cmp.Diff(wantCycles, res.Cycles); diff != "" {
		t.Errorf("Cycles mismatch (-want, +got):\n%s", diff)
	}

	shell := string(res.Shell)
	poly := strings.Index(shell, `src="polyfills.bundle.js"`)
	main := strings.Index(shell, `src="main.bundle.js"`)
	if poly < 0 || main < 0 || poly > main {
		t.Errorf("shell scripts out of order:\n%s", shell)
	}
	if !strings.Contains(shell, `<html lang="en">`) {
		t.Errorf("shell has no lang attribute:\n%s", shell)
	}

	css, err := os.ReadFile(filepath.Join(p.Output.Path, "styles.bundle.css"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(css), "/img/bg.png") {
		t.Errorf("styles.bundle.css lost the root-relative url:\n%s", css)
	}
	js, err := os.ReadFile(filepath.Join(p.Output.Path, "main.bundle.js"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(js), "<p>hello</p>") {
		t.Errorf("main.bundle.js does not inline the template:\n%s", js)
	}
	if _, err := os.Stat(filepath.Join(p.Output.Path, "index.html")); err != nil {
		t.Error(err)
	}
}

func TestBuildExplicitTranslationFile(t *testing.T) {
	files := withFiles(map[string]string{"src/i18n/custom.fr.xlf": testXLF})
	p := testPlan(t, files, config.Record{"defaultLang": "en", "locale": "fr", "i18nFile": "i18n/custom.fr.xlf"})
	res, err := Build(context.Background(), p, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(res.Shell), `<html lang="fr">`) {
		t.Errorf("shell lang is not fr:\n%s", res.Shell)
	}
}

func TestBuildNoWrite(t *testing.T) {
	p := testPlan(t, testProject, config.Record{"defaultLang": "en"})
	res, err := Build(context.Background(), p, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) == 0 {
		t.Error("no files listed")
	}
	if _, err := os.Stat(p.Output.Path); !os.IsNotExist(err) {
		t.Errorf("output directory was created: %v", err)
	}
}

func TestBuildErrors(t *testing.T) {
	for _, test := range []struct {
		name  string
		files map[string]string
		rec   config.Record
		want  error
	}{
		{
			name:  "extract",
			files: testProject,
			rec:   config.Record{"defaultLang": "en", "extract": true},
			want:  derrors.Unsupported,
		},
		{
			name:  "missing translations",
			files: testProject,
			rec:   config.Record{"defaultLang": "en", "locale": "fr"},
			want:  derrors.NotFound,
		},
		{
			name:  "missing explicit translation file",
			files: withFiles(map[string]string{"src/i18n/messages.fr.xlf": testXLF}),
			rec:   config.Record{"defaultLang": "en", "locale": "fr", "i18nFile": "i18n/custom.fr.xlf"},
			want:  derrors.NotFound,
		},
		{
			name:  "missing translations aot",
			files: testProject,
			rec:   config.Record{"defaultLang": "en", "locale": "fr", "aot": true},
			want:  derrors.NotFound,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			p := testPlan(t, test.files, test.rec)
			_, err := Build(context.Background(), p, Config{})
			if !errors.Is(err, test.want) {
				t.Errorf("got %v, want %v", err, test.want)
			}
		})
	}
}

func TestBuildCompileError(t *testing.T) {
	files := withFiles(map[string]string{"src/main.ts": "import { missing } from './nowhere';\nmissing();\n"})
	p := testPlan(t, files, config.Record{"defaultLang": "en"})
	_, err := Build(context.Background(), p, Config{Write: true})
	if err == nil || !strings.Contains(err.Error(), "error building scripts") {
		t.Fatalf("got %v, want a script build error", err)
	}
	if _, err := os.Stat(filepath.Join(p.Output.Path, "main.bundle.js")); !os.IsNotExist(err) {
		t.Errorf("main.bundle.js was written: %v", err)
	}
}

func TestLoaders(t *testing.T) {
	p := testPlan(t, nil, config.Record{"defaultLang": "en"})
	l := p.Layout
	scripts, err := loaders(p.Module.Rules, func(ext string) string { return l.Source("app", "component"+ext) })
	if err != nil {
		t.Fatal(err)
	}
	styles, err := loaders(p.Module.Rules, func(ext string) string {
		if ext == ".css" {
			return l.RootStylesheet()
		}
		return l.Source("assets", "file"+ext)
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		ext           string
		script, style api.Loader
	}{
		{".html", api.LoaderText, api.LoaderText},
		{".svg", api.LoaderFile, api.LoaderFile},
		{".woff2", api.LoaderFile, api.LoaderFile},
		{".css", api.LoaderText, api.LoaderCSS},
		{".ts", api.LoaderTS, api.LoaderTS},
		{".xlf", api.LoaderText, api.LoaderText},
	} {
		if got := scripts[test.ext]; got != test.script {
			t.Errorf("script loader for %s = %v, want %v", test.ext, got, test.script)
		}
		if got := styles[test.ext]; got != test.style {
			t.Errorf("style loader for %s = %v, want %v", test.ext, got, test.style)
		}
	}
}

func TestBadRuleTest(t *testing.T) {
	p := testPlan(t, nil, config.Record{"defaultLang": "en"})
	p.Module.Rules = append([]plan.Rule{{Test: `\.(css$`, Loader: "raw-loader"}}, p.Module.Rules...)
	if _, err := styleOptions(p, false); !errors.Is(err, derrors.InvalidArgument) {
		t.Errorf("styleOptions: got error %v, want InvalidArgument", err)
	}
	if _, err := Build(context.Background(), p, Config{}); !errors.Is(err, derrors.InvalidArgument) {
		t.Errorf("Build: got error %v, want InvalidArgument", err)
	}
}

func TestDefines(t *testing.T) {
	got, banner, err := defines(plan.DefineOptions{
		"ENV":     `{"defaultLang":"en","prod":false,"nested":{"a":1},"bad-key":1}`,
		"VERSION": `"1.0"`,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"ENV.defaultLang": `"en"`,
		"ENV.prod":        "false",
		"VERSION":         `"1.0"`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
	wantBanner := "var ENV = {\"defaultLang\":\"en\",\"prod\":false,\"nested\":{\"a\":1},\"bad-key\":1};\n"
	if banner != wantBanner {
		t.Errorf("banner = %q, want %q", banner, wantBanner)
	}
}

func TestOutputName(t *testing.T) {
	for _, test := range []struct {
		tmpl, name, want string
	}{
		{"[name].bundle.js", "main", "main.bundle"},
		{"[name]-[hash].chunk.js", "[name]", "[name]-[hash].chunk"},
	} {
		if got := outputName(test.tmpl, test.name); got != test.want {
			t.Errorf("outputName(%q, %q) = %q, want %q", test.tmpl, test.name, got, test.want)
		}
	}
}

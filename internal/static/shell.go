// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package static

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/ngi18n/ngbuild/internal/plan"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// shellDocument records the language the application bootstraps in.
type shellDocument struct {
	lang string
}

func (d *shellDocument) SetLang(lang string) { d.lang = lang }

// A chunk is an emitted entry bundle.
type chunk struct {
	name string
	file string // relative to the output directory
	css  bool
}

// entryChunk reports whether rel is an entry bundle, and if so which.
func entryChunk(rel string) (chunk, bool) {
	for _, ext := range []string{".bundle.js", ".bundle.css"} {
		if name, ok := strings.CutSuffix(rel, ext); ok && !strings.Contains(name, "/") {
			return chunk{name: name, file: rel, css: ext == ".bundle.css"}, true
		}
	}
	return chunk{}, false
}

// renderShell injects the chunks into the template, stylesheets at the end
// of the head and scripts at the end of the body, in the given order. It
// also sets the document language and the base href when they are
// non-empty. Chunk URLs are prefixed with deployURL.
func renderShell(tmpl []byte, lang, baseHref, deployURL string, order plan.ChunkOrder, chunks []chunk) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(tmpl))
	if err != nil {
		return nil, err
	}
	root := find(doc, atom.Html)
	head := find(doc, atom.Head)
	body := find(doc, atom.Body)
	if root == nil || head == nil || body == nil {
		return nil, fmt.Errorf("shell template has no html, head or body element")
	}
	if lang != "" {
		setAttr(root, "lang", lang)
	}
	if baseHref != "" {
		base := find(head, atom.Base)
		if base == nil {
			base = element(atom.Base)
			head.InsertBefore(base, head.FirstChild)
		}
		setAttr(base, "href", baseHref)
	}

	names := make([]string, len(chunks))
	byName := map[string][]chunk{}
	for i, c := range chunks {
		names[i] = c.name
		byName[c.name] = append(byName[c.name], c)
	}
	seen := map[string]bool{}
	for _, name := range order.Sort(names) {
		if seen[name] {
			continue
		}
		seen[name] = true
		for _, c := range byName[name] {
			src := chunkURL(deployURL, c.file)
			if c.css {
				n := element(atom.Link, "rel", "stylesheet", "href", src)
				head.AppendChild(n)
			} else {
				n := element(atom.Script, "type", "module", "src", src)
				body.AppendChild(n)
			}
		}
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func chunkURL(deployURL, file string) string {
	if deployURL == "" {
		return file
	}
	if strings.HasSuffix(deployURL, "/") {
		return deployURL + file
	}
	if strings.Contains(deployURL, "://") {
		return deployURL + "/" + file
	}
	return path.Join(deployURL, file)
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := find(c, a); f != nil {
			return f
		}
	}
	return nil
}

func element(a atom.Atom, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

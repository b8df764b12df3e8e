// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plan assembles the bundler build plan for the application from a
// resolved settings record.
//
// A Plan is plain data in the shape of a webpack configuration. Behavior
// that webpack expresses as callbacks (chunk ordering, vendor module
// selection, stylesheet URL rewriting) is carried as declarative options
// here, with Go implementations in ChunkOrder.Sort, Layout.IsVendor and
// RewriteURL for consumers that run the plan themselves.
package plan

import (
	"encoding/json"

	"github.com/ngi18n/ngbuild/internal/config"
	"gopkg.in/yaml.v3"
)

// A Plan is a complete bundler configuration.
type Plan struct {
	Resolve       Resolve             `json:"resolve"`
	ResolveLoader ResolveLoader       `json:"resolveLoader"`
	Entry         map[string][]string `json:"entry"`
	Output        Output              `json:"output"`
	Module        Module              `json:"module"`
	Plugins       []Plugin            `json:"plugins"`
	Node          Node                `json:"node"`
	DevServer     DevServer           `json:"devServer"`

	// Settings and Layout are the inputs the plan was assembled from.
	Settings config.Settings `json:"-"`
	Layout   Layout          `json:"-"`
}

type Resolve struct {
	Extensions []string `json:"extensions"`
	Modules    []string `json:"modules"`
	Symlinks   bool     `json:"symlinks"`
	MainFields []string `json:"mainFields"`
}

type ResolveLoader struct {
	Modules []string `json:"modules"`
}

// Output is the output layout. Path is absolute.
type Output struct {
	Path               string `json:"path"`
	Filename           string `json:"filename"`
	ChunkFilename      string `json:"chunkFilename"`
	CrossOriginLoading bool   `json:"crossOriginLoading"`
}

type Module struct {
	Rules []Rule `json:"rules"`
}

// Node lists the Node.js built-in shims for browser bundles.
type Node struct {
	FS             string `json:"fs"`
	Global         bool   `json:"global"`
	Crypto         string `json:"crypto"`
	TLS            string `json:"tls"`
	Net            string `json:"net"`
	Process        bool   `json:"process"`
	Module         bool   `json:"module"`
	ClearImmediate bool   `json:"clearImmediate"`
	SetImmediate   bool   `json:"setImmediate"`
}

// DevServer is the development server policy.
type DevServer struct {
	// HistoryAPIFallback routes requests for missing files to the shell
	// document.
	HistoryAPIFallback bool `json:"historyApiFallback"`
}

// Plugin returns the first plugin named name, or nil.
func (p *Plan) Plugin(name string) *Plugin {
	for i := range p.Plugins {
		if p.Plugins[i].Name == name {
			return &p.Plugins[i]
		}
	}
	return nil
}

// Compiler returns the options of the Angular compiler plugin.
func (p *Plan) Compiler() *CompilerOptions {
	if pl := p.Plugin(AngularCompilerPlugin); pl != nil {
		if o, ok := pl.Options.(*CompilerOptions); ok {
			return o
		}
	}
	return nil
}

// JSON returns the indented JSON encoding of the plan.
func (p *Plan) JSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// YAML returns the plan as a block-style YAML document with the same field
// names and order as JSON. Scalars are quoted only where YAML requires it.
func (p *Plan) YAML() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	blockStyle(&n)
	return yaml.Marshal(&n)
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

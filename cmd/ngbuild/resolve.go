// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ngi18n/ngbuild/internal/config"
	"github.com/ngi18n/ngbuild/internal/derrors"
	"github.com/ngi18n/ngbuild/internal/log"
	"github.com/ngi18n/ngbuild/internal/plan"
)

// options are the inputs shared by all commands.
type options struct {
	workDir       string
	defaultsFile  string
	overridesFile string
	env           []string
	environ       map[string]string // nil means the process environment
	baseHref      string
	deployURL     string
	minimizeCSS   bool
}

func flagOptions() options {
	return options{
		workDir:       workDir,
		defaultsFile:  defaultsFile,
		overridesFile: overridesFile,
		env:           envFlags,
		baseHref:      baseHref,
		deployURL:     deployURL,
		minimizeCSS:   minimizeCSS,
	}
}

func (o options) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(o.workDir, name)
}

// resolve merges the settings sources in increasing order of precedence.
func (o options) resolve(ctx context.Context) (_ config.Record, err error) {
	defer derrors.Wrap(&err, "resolve")

	defaults, err := config.LoadDefaults(o.path(o.defaultsFile))
	if err != nil {
		return nil, err
	}
	fromEnv, err := config.FromEnviron(o.environ)
	if err != nil {
		return nil, err
	}
	var fromFile config.Record
	if o.overridesFile != "" {
		data, err := os.ReadFile(o.path(o.overridesFile))
		if err != nil {
			return nil, err
		}
		fromFile, err = config.ParseOverridesFile(o.overridesFile, data)
		if err != nil {
			return nil, err
		}
	}
	fromFlags, err := config.ParseFlags(o.env)
	if err != nil {
		return nil, err
	}
	rec := config.Resolve(defaults, fromEnv, fromFile, fromFlags)

	var b strings.Builder
	if err := rec.Dump(&b); err != nil {
		return nil, err
	}
	log.Debugf(ctx, "resolved settings:\n%s", b.String())
	return rec, nil
}

func (o options) layout() (plan.Layout, error) {
	l, err := plan.NewLayout(o.workDir)
	if err != nil {
		return plan.Layout{}, err
	}
	l.BaseHref = o.baseHref
	l.DeployURL = o.deployURL
	l.MinimizeCSS = o.minimizeCSS
	return l, nil
}

// assemble resolves the settings and assembles the plan.
func (o options) assemble(ctx context.Context) (*plan.Plan, error) {
	rec, err := o.resolve(ctx)
	if err != nil {
		return nil, err
	}
	l, err := o.layout()
	if err != nil {
		return nil, err
	}
	p, err := plan.Assemble(rec, l)
	if err != nil {
		return nil, err
	}
	for _, tag := range p.Settings.UnknownLanguages() {
		log.Warningf(ctx, "language %q is not a known BCP 47 tag", tag)
	}
	return p, nil
}

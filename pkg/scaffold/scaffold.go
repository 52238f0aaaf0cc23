// Copyright 2026 loomworks
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scaffold contributes the default pipeline: skeleton tree,
// license file, and the persisted marker every run leaves behind.
package scaffold

import (
	"context"

	"github.com/loomworks/loom/pkg/fileops"
	"github.com/loomworks/loom/pkg/license"
	"github.com/loomworks/loom/pkg/marker"
	"github.com/loomworks/loom/pkg/options"
	"github.com/loomworks/loom/pkg/pipeline"
	"github.com/loomworks/loom/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

// Module is the step module name for the default steps.
const Module = "scaffold"

// 🏭 DefaultPipeline assembles the built-in steps in canonical order.
// The license source is injected so callers can choose embedded-only or
// a GitHub-backed chain.
func DefaultPipeline(src license.Source) pipeline.Pipeline {
	return pipeline.New(
		Step("define-structure", DefineStructure),
		Step("add-license", AddLicense(src)),
		Step("write-marker", WriteMarker),
	)
}

// Step wraps a StepFunc under the scaffold module name.
func Step(name string, fn pipeline.StepFunc) pipeline.Step {
	return pipeline.Step{Module: Module, Name: name, Run: fn}
}

// DefineStructure lays down the skeleton tree. Files a user is expected
// to edit are guarded with NoOverwrite so an update run preserves them.
func DefineStructure(ctx context.Context, t tree.Tree, opts options.Options) (tree.Tree, options.Options, error) {
	if opts.String(options.KeyName) == "" {
		return nil, nil, errors.Errorf("project name is required")
	}
	out := t.Clone()

	type entry struct {
		path    string
		content tree.Content
		op      fileops.Operation
	}
	skeleton := []entry{
		{"README.md", readmeTemplate, fileops.NoOverwrite(fileops.Create())},
		{".gitignore", gitignoreTemplate, fileops.NoOverwrite(fileops.Create())},
		{"go.mod", gomodTemplate, fileops.NoOverwrite(fileops.Create())},
		{"Makefile", makefileTemplate, nil},
		{"cmd/${name}/main.go", mainTemplate, fileops.NoOverwrite(fileops.Create())},
		{"${package}/doc.go", docTemplate, nil},
		{"${package}/${package}.go", packageTemplate, fileops.NoOverwrite(fileops.Create())},
		{"${package}/${package}_test.go", packageTestTemplate, fileops.NoOverwrite(fileops.Create())},
	}

	for _, e := range skeleton {
		path, err := tree.Template(e.path).Render(opts)
		if err != nil {
			return nil, nil, err
		}
		out, err = tree.Ensure(out, path, e.content, e.op)
		if err != nil {
			return nil, nil, errors.Errorf("ensuring %s: %w", path, err)
		}
	}
	return out, opts, nil
}

// AddLicense resolves the configured SPDX identifier and inserts the
// LICENSE leaf. The resolved text keeps ${author}/${year} placeholders so
// it renders against the final options at materialization time.
func AddLicense(src license.Source) pipeline.StepFunc {
	return func(ctx context.Context, t tree.Tree, opts options.Options) (tree.Tree, options.Options, error) {
		spdx := opts.String(options.KeyLicense)
		if spdx == "" || spdx == "none" {
			return t, opts, nil
		}

		text, err := src.Get(ctx, spdx)
		if err != nil {
			return nil, nil, errors.Errorf("resolving license %s: %w", spdx, err)
		}

		out, err := tree.Ensure(t, "LICENSE", tree.Template(text), fileops.NoOverwrite(fileops.Create()))
		if err != nil {
			return nil, nil, err
		}
		return out, opts, nil
	}
}

// WriteMarker appends the persisted marker leaf. It renders deferred so
// the marker reflects the options as every step left them, and it always
// regenerates: the marker is tool-owned, never user-owned.
func WriteMarker(ctx context.Context, t tree.Tree, opts options.Options) (tree.Tree, options.Options, error) {
	content := tree.Func(func(final options.Options) (string, error) {
		return marker.FromOptions(final).Render()
	})
	out, err := tree.Ensure(t, marker.FileName, content, fileops.Create())
	if err != nil {
		return nil, nil, err
	}
	return out, opts, nil
}

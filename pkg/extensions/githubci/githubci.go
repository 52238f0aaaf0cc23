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

// Package githubci contributes a GitHub Actions workflow to the
// scaffold. The workflow file is tool-owned and regenerates on update.
package githubci

import (
	"context"

	"github.com/loomworks/loom/pkg/options"
	"github.com/loomworks/loom/pkg/pipeline"
	"github.com/loomworks/loom/pkg/tree"
)

const workflowPath = ".github/workflows/ci.yml"

const workflowTemplate = tree.Template(`name: ci

on:
  push:
    branches: [main]
  pull_request:

jobs:
  test:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - uses: actions/setup-go@v5
        with:
          go-version-file: go.mod
      - run: go vet ./...
      - run: go test ./...
`)

// Extension adds the workflow step after the skeleton is defined.
type Extension struct{}

// New creates the githubci extension.
func New() *Extension {
	return &Extension{}
}

// Name implements pipeline.Extension.
func (*Extension) Name() string {
	return "githubci"
}

// Contribute implements pipeline.Extension, registering at the default
// anchor (after define-structure).
func (e *Extension) Contribute(p pipeline.Pipeline) (pipeline.Pipeline, error) {
	return p.Register(pipeline.Step{
		Module: e.Name(),
		Name:   "add-workflow",
		Run:    addWorkflow,
	})
}

func addWorkflow(ctx context.Context, t tree.Tree, opts options.Options) (tree.Tree, options.Options, error) {
	out, err := tree.Ensure(t, workflowPath, workflowTemplate, nil)
	if err != nil {
		return nil, nil, err
	}
	return out, opts.WithExtension("githubci"), nil
}

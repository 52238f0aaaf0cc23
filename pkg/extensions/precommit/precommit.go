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

// Package precommit contributes a pre-commit configuration. The file is
// created once and never regenerated: hook revisions drift with the
// user, not with the scaffold.
package precommit

import (
	"context"

	"github.com/loomworks/loom/pkg/fileops"
	"github.com/loomworks/loom/pkg/options"
	"github.com/loomworks/loom/pkg/pipeline"
	"github.com/loomworks/loom/pkg/tree"
)

const configPath = ".pre-commit-config.yaml"

// DefaultHooksRev is the hook revision recorded in the marker so a later
// update knows what the project started from.
const DefaultHooksRev = "v4.6.0"

const configTemplate = tree.Template(`repos:
  - repo: https://github.com/pre-commit/pre-commit-hooks
    rev: ${precommit_rev}
    hooks:
      - id: trailing-whitespace
      - id: end-of-file-fixer
      - id: check-yaml

  - repo: https://github.com/golangci/golangci-lint
    rev: v1.63.4
    hooks:
      - id: golangci-lint
`)

// Extension adds the pre-commit config just before the marker is written,
// so the revision parameter it records ends up persisted.
type Extension struct{}

// New creates the precommit extension.
func New() *Extension {
	return &Extension{}
}

// Name implements pipeline.Extension.
func (*Extension) Name() string {
	return "precommit"
}

// Contribute implements pipeline.Extension.
func (e *Extension) Contribute(p pipeline.Pipeline) (pipeline.Pipeline, error) {
	return p.Register(pipeline.Step{
		Module: e.Name(),
		Name:   "add-config",
		Run:    addConfig,
	}, pipeline.Before("write-marker"))
}

func addConfig(ctx context.Context, t tree.Tree, opts options.Options) (tree.Tree, options.Options, error) {
	rev := DefaultHooksRev
	if params := opts.Params(); params != nil {
		if recorded, ok := params["precommit"]["rev"]; ok {
			rev = recorded
		}
	}
	opts = opts.WithExtension("precommit").
		WithParam("precommit", "rev", rev).
		With("precommit_rev", rev)

	out, err := tree.Ensure(t, configPath, configTemplate, fileops.SkipOnUpdate(fileops.Create()))
	if err != nil {
		return nil, nil, err
	}
	return out, opts, nil
}

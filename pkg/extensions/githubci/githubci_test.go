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

package githubci_test

import (
	"context"
	"testing"

	"github.com/loomworks/loom/pkg/extensions/githubci"
	"github.com/loomworks/loom/pkg/options"
	"github.com/loomworks/loom/pkg/pipeline"
	"github.com/loomworks/loom/pkg/tree"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basePipeline() pipeline.Pipeline {
	noop := func(ctx context.Context, t tree.Tree, opts options.Options) (tree.Tree, options.Options, error) {
		return t, opts, nil
	}
	return pipeline.New(
		pipeline.Step{Module: "scaffold", Name: "define-structure", Run: noop},
		pipeline.Step{Module: "scaffold", Name: "write-marker", Run: noop},
	)
}

func TestContributePlacement(t *testing.T) {
	p, err := githubci.New().Contribute(basePipeline())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"scaffold:define-structure",
		"githubci:add-workflow",
		"scaffold:write-marker",
	}, p.Names())
}

func TestAddWorkflow(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())

	p, err := githubci.New().Contribute(basePipeline())
	require.NoError(t, err)

	out, finalOpts, err := p.Run(ctx, options.New())
	require.NoError(t, err)

	leaf, ok := tree.Lookup(out, ".github/workflows/ci.yml")
	require.True(t, ok)
	assert.Nil(t, leaf.Op, "workflow is tool-owned and regenerates on update")

	content, err := leaf.Content.Render(finalOpts)
	require.NoError(t, err)
	assert.Contains(t, content, "actions/setup-go@v5")

	assert.Equal(t, []string{"githubci"}, finalOpts.Extensions())
}

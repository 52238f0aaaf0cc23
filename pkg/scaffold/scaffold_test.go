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

package scaffold_test

import (
	"context"
	"testing"

	"github.com/loomworks/loom/pkg/license"
	"github.com/loomworks/loom/pkg/marker"
	"github.com/loomworks/loom/pkg/options"
	"github.com/loomworks/loom/pkg/scaffold"
	"github.com/loomworks/loom/pkg/tree"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testCtx(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func baseOptions() options.Options {
	return options.New().
		With(options.KeyName, "demo").
		With(options.KeyPackage, "demo")
}

func TestDefaultPipelineOrder(t *testing.T) {
	p := scaffold.DefaultPipeline(license.Embedded())
	assert.Equal(t, []string{
		"scaffold:define-structure",
		"scaffold:add-license",
		"scaffold:write-marker",
	}, p.Names())
}

func TestDefineStructure(t *testing.T) {
	out, _, err := scaffold.DefineStructure(testCtx(t), tree.New(), baseOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{
		".gitignore",
		"Makefile",
		"README.md",
		"cmd/demo/main.go",
		"demo/demo.go",
		"demo/demo_test.go",
		"demo/doc.go",
		"go.mod",
	}, tree.Leaves(out))

	readme, ok := tree.Lookup(out, "README.md")
	require.True(t, ok)
	assert.NotNil(t, readme.Op, "user-owned files carry a write guard")

	makefile, ok := tree.Lookup(out, "Makefile")
	require.True(t, ok)
	assert.Nil(t, makefile.Op, "tool-owned files use the default operation")
}

func TestDefineStructureRequiresName(t *testing.T) {
	_, _, err := scaffold.DefineStructure(testCtx(t), tree.New(), options.New())
	require.Error(t, err)
}

func TestDefineStructureDoesNotMutateInput(t *testing.T) {
	in := tree.New()
	_, _, err := scaffold.DefineStructure(testCtx(t), in, baseOptions())
	require.NoError(t, err)
	assert.Empty(t, in)
}

func TestAddLicense(t *testing.T) {
	ctx := testCtx(t)
	step := scaffold.AddLicense(license.Embedded())

	t.Run("inserts_leaf", func(t *testing.T) {
		opts := baseOptions().With(options.KeyLicense, "MIT")
		out, _, err := step(ctx, tree.New(), opts)
		require.NoError(t, err)

		leaf, ok := tree.Lookup(out, "LICENSE")
		require.True(t, ok)
		assert.NotNil(t, leaf.Op)

		text, err := leaf.Content.Render(opts.
			With(options.KeyAuthor, "Ada Lovelace").
			With(options.KeyYear, 2026))
		require.NoError(t, err)
		assert.Contains(t, text, "Ada Lovelace")
		assert.Contains(t, text, "2026")
	})

	t.Run("skipped_when_unset", func(t *testing.T) {
		out, _, err := step(ctx, tree.New(), baseOptions())
		require.NoError(t, err)
		_, ok := tree.Lookup(out, "LICENSE")
		assert.False(t, ok)
	})

	t.Run("skipped_when_none", func(t *testing.T) {
		opts := baseOptions().With(options.KeyLicense, "none")
		out, _, err := step(ctx, tree.New(), opts)
		require.NoError(t, err)
		_, ok := tree.Lookup(out, "LICENSE")
		assert.False(t, ok)
	})

	t.Run("unknown_identifier_fails", func(t *testing.T) {
		opts := baseOptions().With(options.KeyLicense, "not-a-license")
		_, _, err := step(ctx, tree.New(), opts)
		require.Error(t, err)
	})
}

func TestWriteMarker(t *testing.T) {
	ctx := testCtx(t)

	out, _, err := scaffold.WriteMarker(ctx, tree.New(), baseOptions())
	require.NoError(t, err)

	leaf, ok := tree.Lookup(out, marker.FileName)
	require.True(t, ok)

	// The marker renders deferred, against whatever options later steps
	// accumulated.
	final := baseOptions().
		WithExtension("githubci").
		WithParam("precommit", "rev", "v4.6.0")
	rendered, err := leaf.Content.Render(final)
	require.NoError(t, err)

	var m marker.Marker
	require.NoError(t, yaml.Unmarshal([]byte(rendered), &m))
	assert.Equal(t, marker.FormatVersion, m.Version)
	assert.Equal(t, "demo", m.Package)
	assert.Equal(t, []string{"githubci"}, m.Extensions)
	assert.Equal(t, "v4.6.0", m.Params["precommit"]["rev"])
}

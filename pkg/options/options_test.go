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

package options_test

import (
	"testing"

	"github.com/loomworks/loom/pkg/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDoesNotMutate(t *testing.T) {
	base := options.New().With(options.KeyName, "demo")
	derived := base.With(options.KeyName, "other").With(options.KeyAuthor, "Ada")

	assert.Equal(t, "demo", base.String(options.KeyName))
	assert.False(t, base.Has(options.KeyAuthor))
	assert.Equal(t, "other", derived.String(options.KeyName))
	assert.Equal(t, "Ada", derived.String(options.KeyAuthor))
}

func TestCloneIsolatesNestedState(t *testing.T) {
	base := options.New().
		WithExtension("githubci").
		WithParam("precommit", "rev", "v1")

	clone := base.Clone()
	clone.Params()["precommit"]["rev"] = "v2"

	assert.Equal(t, "v1", base.Params()["precommit"]["rev"])
}

func TestAccessors(t *testing.T) {
	opts := options.New().
		With(options.KeyName, "demo").
		With(options.KeyUpdate, true).
		With(options.KeyPretend, false).
		With(options.KeyYear, 2026)

	assert.Equal(t, "demo", opts.String(options.KeyName))
	assert.Equal(t, "", opts.String(options.KeyAuthor), "absent key reads empty")
	assert.Equal(t, "", opts.String(options.KeyYear), "non-string reads empty")
	assert.True(t, opts.IsUpdate())
	assert.False(t, opts.IsPretend())
	assert.False(t, opts.IsForce())
}

func TestWithExtension(t *testing.T) {
	opts := options.New().
		WithExtension("githubci").
		WithExtension("precommit").
		WithExtension("githubci")

	assert.Equal(t, []string{"githubci", "precommit"}, opts.Extensions(), "activation order kept, duplicates dropped")
}

func TestWithParam(t *testing.T) {
	opts := options.New().
		WithParam("precommit", "rev", "v1").
		WithParam("precommit", "hooks", "all").
		WithParam("docs", "theme", "plain")

	params := opts.Params()
	require.NotNil(t, params)
	assert.Equal(t, "v1", params["precommit"]["rev"])
	assert.Equal(t, "all", params["precommit"]["hooks"])
	assert.Equal(t, "plain", params["docs"]["theme"])
}

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

package reconcile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/loomworks/loom/pkg/fileops"
	"github.com/loomworks/loom/pkg/license"
	"github.com/loomworks/loom/pkg/marker"
	"github.com/loomworks/loom/pkg/materialize"
	"github.com/loomworks/loom/pkg/options"
	"github.com/loomworks/loom/pkg/pipeline"
	"github.com/loomworks/loom/pkg/reconcile"
	"github.com/loomworks/loom/pkg/scaffold"
	"github.com/loomworks/loom/pkg/status"
	"github.com/loomworks/loom/pkg/tree"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCtx(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func newReconciler(t *testing.T, root string, mod func(*reconcile.Options)) *reconcile.Reconciler {
	t.Helper()
	m, err := materialize.New(materialize.Options{Root: root})
	require.NoError(t, err)

	ropts := reconcile.Options{
		Root:         root,
		Base:         scaffold.DefaultPipeline(license.Embedded()),
		Materializer: m,
	}
	if mod != nil {
		mod(&ropts)
	}

	rec, err := reconcile.New(ropts)
	require.NoError(t, err)
	return rec
}

func projectOptions() options.Options {
	return options.New().
		With(options.KeyName, "demo").
		With(options.KeyPackage, "demo")
}

func readFile(t *testing.T, root string, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func writeFile(t *testing.T, root string, rel string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, filepath.FromSlash(rel)), []byte(content), 0644))
}

// extension under test: contributes one generated file at the default
// anchor and records itself for later update runs.
type addFileExtension struct {
	name string
	path string
	op   fileops.Operation
}

func (e *addFileExtension) Name() string { return e.name }

func (e *addFileExtension) Contribute(p pipeline.Pipeline) (pipeline.Pipeline, error) {
	step := pipeline.Step{
		Module: e.name,
		Name:   "add-file",
		Run: func(ctx context.Context, t tree.Tree, opts options.Options) (tree.Tree, options.Options, error) {
			out, err := tree.Ensure(t, e.path, tree.Literal("generated\n"), e.op)
			if err != nil {
				return nil, nil, err
			}
			return out, opts.WithExtension(e.name), nil
		},
	}
	return p.Register(step)
}

func TestNewValidation(t *testing.T) {
	m, err := materialize.New(materialize.Options{Root: t.TempDir()})
	require.NoError(t, err)

	_, err = reconcile.New(reconcile.Options{Materializer: m})
	require.Error(t, err, "root is required")

	_, err = reconcile.New(reconcile.Options{Root: t.TempDir()})
	require.Error(t, err, "materializer is required")
}

func TestCreateWritesProject(t *testing.T) {
	root := t.TempDir()
	rec := newReconciler(t, root, nil)

	report, err := rec.Create(testCtx(t), projectOptions())
	require.NoError(t, err)

	assert.Equal(t, len(report.Entries), report.Count(fileops.ResultWritten))
	assert.FileExists(t, filepath.Join(root, "README.md"))
	assert.FileExists(t, filepath.Join(root, "cmd", "demo", "main.go"))
	assert.FileExists(t, filepath.Join(root, "demo", "demo.go"))

	m, err := marker.Load(testCtx(t), root)
	require.NoError(t, err)
	assert.Equal(t, marker.FormatVersion, m.Version)
	assert.Equal(t, "demo", m.Package)
}

func TestCreatePretend(t *testing.T) {
	root := t.TempDir()
	rec := newReconciler(t, root, nil)

	report, err := rec.Create(testCtx(t), projectOptions().With(options.KeyPretend, true))
	require.NoError(t, err)
	assert.Equal(t, len(report.Entries), report.Count(fileops.ResultWouldWrite))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdatePreservesUserFiles(t *testing.T) {
	root := t.TempDir()
	rec := newReconciler(t, root, nil)
	ctx := testCtx(t)

	_, err := rec.Create(ctx, projectOptions())
	require.NoError(t, err)

	generatedMakefile := readFile(t, root, "Makefile")
	writeFile(t, root, "README.md", "my own readme\n")
	writeFile(t, root, "Makefile", "my own makefile\n")

	report, err := rec.Update(ctx, projectOptions())
	require.NoError(t, err)

	assert.Equal(t, "my own readme\n", readFile(t, root, "README.md"), "user-guarded file survives")
	assert.Equal(t, generatedMakefile, readFile(t, root, "Makefile"), "tool-owned file is regenerated")

	result, ok := report.Result("README.md")
	require.True(t, ok)
	assert.Equal(t, fileops.ResultSkippedExists, result)
}

func TestUpdateSkipOnUpdatePolicy(t *testing.T) {
	root := t.TempDir()
	ext := &addFileExtension{
		name: "hooks",
		path: ".hooks.yaml",
		op:   fileops.SkipOnUpdate(fileops.Create()),
	}

	rec := newReconciler(t, root, func(o *reconcile.Options) {
		o.Extensions = []pipeline.Extension{ext}
	})
	ctx := testCtx(t)

	_, err := rec.Create(ctx, projectOptions())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, ".hooks.yaml"))

	writeFile(t, root, ".hooks.yaml", "my own hooks\n")

	report, err := rec.Update(ctx, projectOptions())
	require.NoError(t, err)

	assert.Equal(t, "my own hooks\n", readFile(t, root, ".hooks.yaml"), "created once, never regenerated")
	result, ok := report.Result(".hooks.yaml")
	require.True(t, ok)
	assert.Equal(t, fileops.ResultSkippedPolicy, result)
}

func TestUpdateForceOverwrites(t *testing.T) {
	root := t.TempDir()
	rec := newReconciler(t, root, nil)
	ctx := testCtx(t)

	_, err := rec.Create(ctx, projectOptions())
	require.NoError(t, err)

	generated := readFile(t, root, "README.md")
	writeFile(t, root, "README.md", "my own readme\n")

	_, err = rec.Update(ctx, projectOptions().With(options.KeyForce, true))
	require.NoError(t, err)

	assert.Equal(t, generated, readFile(t, root, "README.md"))
}

func TestUpdateMissingMarker(t *testing.T) {
	ctx := testCtx(t)

	t.Run("fatal_without_explicit_package", func(t *testing.T) {
		root := t.TempDir()
		rec := newReconciler(t, root, nil)

		_, err := rec.Update(ctx, options.New().With(options.KeyName, "demo"))
		require.Error(t, err)

		var missing *reconcile.MissingProjectMetadataError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, root, missing.Root)
	})

	t.Run("explicit_package_compensates", func(t *testing.T) {
		root := t.TempDir()
		rec := newReconciler(t, root, nil)

		_, err := rec.Update(ctx, projectOptions())
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(root, "README.md"))
	})
}

func TestUpdateIncompatibleMarker(t *testing.T) {
	root := t.TempDir()
	rec := newReconciler(t, root, nil)

	writeFile(t, root, marker.FileName, "version: 2.0.0\npackage: demo\n")

	_, err := rec.Update(testCtx(t), projectOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incompatible")
}

func TestUpdateMarkerSuppliesPackage(t *testing.T) {
	root := t.TempDir()
	rec := newReconciler(t, root, nil)
	ctx := testCtx(t)

	_, err := rec.Create(ctx, projectOptions())
	require.NoError(t, err)

	// Only the name is explicit; the package comes from the marker.
	_, err = rec.Update(ctx, options.New().With(options.KeyName, "demo"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "demo", "doc.go"))
}

func TestUpdatePreserveGlobs(t *testing.T) {
	root := t.TempDir()
	rec := newReconciler(t, root, func(o *reconcile.Options) {
		o.Preserve = []string{"Makefile", "docs/**"}
	})
	ctx := testCtx(t)

	_, err := rec.Create(ctx, projectOptions())
	require.NoError(t, err)

	writeFile(t, root, "Makefile", "my own makefile\n")

	report, err := rec.Update(ctx, projectOptions())
	require.NoError(t, err)

	assert.Equal(t, "my own makefile\n", readFile(t, root, "Makefile"))
	result, ok := report.Result("Makefile")
	require.True(t, ok)
	assert.Equal(t, fileops.ResultSkippedExists, result)
}

func TestUpdateReactivatesRecordedExtensions(t *testing.T) {
	root := t.TempDir()
	ctx := testCtx(t)
	ext := &addFileExtension{name: "docs", path: "docs/INDEX.md"}

	createRec := newReconciler(t, root, func(o *reconcile.Options) {
		o.Extensions = []pipeline.Extension{ext}
	})
	_, err := createRec.Create(ctx, projectOptions())
	require.NoError(t, err)

	m, err := marker.Load(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs"}, m.Extensions)

	require.NoError(t, os.Remove(filepath.Join(root, "docs", "INDEX.md")))

	t.Run("recorded_extension_reruns", func(t *testing.T) {
		updateRec := newReconciler(t, root, func(o *reconcile.Options) {
			o.Lookup = func(name string) (pipeline.Extension, bool) {
				if name == ext.name {
					return ext, true
				}
				return nil, false
			}
		})
		_, err := updateRec.Update(ctx, projectOptions())
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(root, "docs", "INDEX.md"))
	})

	t.Run("unresolvable_recorded_extension_is_fatal", func(t *testing.T) {
		updateRec := newReconciler(t, root, nil)
		_, err := updateRec.Update(ctx, projectOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not available")
	})
}

func TestStatus(t *testing.T) {
	root := t.TempDir()
	rec := newReconciler(t, root, nil)
	ctx := testCtx(t)

	_, err := rec.Create(ctx, projectOptions())
	require.NoError(t, err)

	writeFile(t, root, "README.md", "my own readme\n")
	require.NoError(t, os.Remove(filepath.Join(root, "Makefile")))

	entries, err := rec.Status(ctx, projectOptions())
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	byPath := map[string]status.Entry{}
	var paths []string
	for _, e := range entries {
		byPath[e.Path] = e
		paths = append(paths, e.Path)
		assert.NotEmpty(t, e.Checksum)
	}
	assert.IsIncreasing(t, paths)

	assert.Equal(t, status.StatusModified, byPath["README.md"].Status)
	assert.Equal(t, status.StatusNew, byPath["Makefile"].Status)
	assert.Equal(t, status.StatusUnchanged, byPath["go.mod"].Status)

	// A status run never touches the project.
	assert.Equal(t, "my own readme\n", readFile(t, root, "README.md"))
	assert.NoFileExists(t, filepath.Join(root, "Makefile"))
}

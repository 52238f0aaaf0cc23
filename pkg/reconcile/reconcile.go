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

// Package reconcile orchestrates create and update runs. Create is a
// plain pipeline run; update first reconstructs the original option set
// from the persisted marker, then re-runs the pipeline with update-mode
// visible to every operation so per-leaf policy decides what survives.
package reconcile

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/loomworks/loom/pkg/fileops"
	"github.com/loomworks/loom/pkg/marker"
	"github.com/loomworks/loom/pkg/materialize"
	"github.com/loomworks/loom/pkg/options"
	"github.com/loomworks/loom/pkg/pipeline"
	"github.com/loomworks/loom/pkg/status"
	"github.com/loomworks/loom/pkg/tree"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// MissingProjectMetadataError reports an update run against a project
// without a readable marker and without explicit options to compensate.
// Falling back to create-mode silently would clobber user files without
// the intended skip/preserve protections.
type MissingProjectMetadataError struct {
	Root string
	Err  error
}

func (e *MissingProjectMetadataError) Error() string {
	return fmt.Sprintf("project %s has no readable scaffold metadata: %v", e.Root, e.Err)
}

func (e *MissingProjectMetadataError) Unwrap() error {
	return e.Err
}

// 🔧 Options configures a Reconciler.
type Options struct {
	// Root is the project directory.
	Root string
	// Base is the default pipeline before extension contributions.
	Base pipeline.Pipeline
	// Extensions are the explicitly activated extensions, in order.
	Extensions []pipeline.Extension
	// Lookup resolves extension names recorded in the marker when the
	// update run re-activates them.
	Lookup func(name string) (pipeline.Extension, bool)
	// Materializer writes the final tree.
	Materializer *materialize.Materializer
	// Preserve holds glob patterns forced to no-overwrite on update.
	Preserve []string
}

// 🎮 Reconciler runs the pipeline in create or update mode.
type Reconciler struct {
	root         string
	base         pipeline.Pipeline
	extensions   []pipeline.Extension
	lookup       func(string) (pipeline.Extension, bool)
	materializer *materialize.Materializer
	preserve     []string
}

// 🏭 New creates a reconciler.
func New(opts Options) (*Reconciler, error) {
	if opts.Root == "" {
		return nil, errors.Errorf("root is required")
	}
	if opts.Materializer == nil {
		return nil, errors.Errorf("materializer is required")
	}
	lookup := opts.Lookup
	if lookup == nil {
		lookup = func(string) (pipeline.Extension, bool) { return nil, false }
	}
	return &Reconciler{
		root:         opts.Root,
		base:         opts.Base,
		extensions:   opts.Extensions,
		lookup:       lookup,
		materializer: opts.Materializer,
		preserve:     opts.Preserve,
	}, nil
}

// Create runs the pipeline against a fresh project directory.
func (r *Reconciler) Create(ctx context.Context, opts options.Options) (*materialize.Report, error) {
	opts = opts.With(options.KeyUpdate, false)

	p, err := pipeline.Assemble(r.base, r.extensions)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, p, opts)
}

// Update re-runs the pipeline against an existing project. The persisted
// marker is loaded first and merged under the explicit options; a missing
// or unparsable marker is fatal unless explicit options carry enough to
// proceed (at minimum the package name).
func (r *Reconciler) Update(ctx context.Context, opts options.Options) (*materialize.Report, error) {
	logger := zerolog.Ctx(ctx)

	m, err := marker.Load(ctx, r.root)
	if err != nil {
		if !opts.Has(options.KeyPackage) {
			return nil, &MissingProjectMetadataError{Root: r.root, Err: err}
		}
		logger.Warn().Err(err).Msg("marker unreadable, proceeding on explicit options")
	} else {
		if err := m.CheckCompatible(); err != nil {
			return nil, errors.Errorf("checking marker compatibility: %w", err)
		}
		opts = m.MergeInto(opts)
	}

	opts = opts.With(options.KeyUpdate, true)

	exts, err := r.activeExtensions(opts)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.Assemble(r.base, exts)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, p, opts)
}

// Status performs a pretend pipeline run and compares every generated
// leaf against the project directory. Comparison is read-only, so the
// per-leaf checksums run concurrently.
func (r *Reconciler) Status(ctx context.Context, opts options.Options) ([]status.Entry, error) {
	opts = opts.With(options.KeyPretend, true).With(options.KeyUpdate, true)

	m, err := marker.Load(ctx, r.root)
	if err != nil {
		if !opts.Has(options.KeyPackage) {
			return nil, &MissingProjectMetadataError{Root: r.root, Err: err}
		}
	} else {
		opts = m.MergeInto(opts)
	}

	exts, err := r.activeExtensions(opts)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.Assemble(r.base, exts)
	if err != nil {
		return nil, err
	}

	t, finalOpts, err := p.Run(ctx, opts)
	if err != nil {
		return nil, err
	}

	type rendered struct {
		path    string
		content []byte
	}
	var leaves []rendered
	err = tree.Walk(t, func(path string, leaf tree.Leaf) error {
		content, err := leaf.Content.Render(finalOpts)
		if err != nil {
			return errors.Errorf("rendering %s: %w", path, err)
		}
		leaves = append(leaves, rendered{path: path, content: []byte(content)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	entries := make([]status.Entry, len(leaves))
	g, _ := errgroup.WithContext(ctx)
	for i, leaf := range leaves {
		i, leaf := i, leaf
		g.Go(func() error {
			st, err := status.Compare(joinRoot(r.root, leaf.path), leaf.content)
			if err != nil {
				return err
			}
			entries[i] = status.Entry{
				Path:     leaf.path,
				Status:   st,
				Checksum: status.Checksum(leaf.content),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// run applies preserve patterns and materializes the pipeline's output.
func (r *Reconciler) run(ctx context.Context, p pipeline.Pipeline, opts options.Options) (*materialize.Report, error) {
	t, finalOpts, err := p.Run(ctx, opts)
	if err != nil {
		return nil, err
	}

	if finalOpts.IsUpdate() && len(r.preserve) > 0 {
		t, err = r.applyPreserve(t)
		if err != nil {
			return nil, err
		}
	}

	return r.materializer.Apply(ctx, t, finalOpts)
}

// applyPreserve forces no-overwrite treatment onto every leaf matching a
// preserve pattern, on top of whatever policy the leaf already carries.
func (r *Reconciler) applyPreserve(t tree.Tree) (tree.Tree, error) {
	var matched []string
	err := tree.Walk(t, func(path string, _ tree.Leaf) error {
		for _, pattern := range r.preserve {
			ok, err := doublestar.Match(pattern, path)
			if err != nil {
				return errors.Errorf("matching preserve pattern %q: %w", pattern, err)
			}
			if ok {
				matched = append(matched, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, path := range matched {
		t, err = tree.Modify(t, path, func(content tree.Content, op fileops.Operation) (tree.Content, fileops.Operation) {
			if op == nil {
				op = fileops.Create()
			}
			return content, fileops.NoOverwrite(op)
		})
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}

// activeExtensions resolves the full activation set for a run: the
// explicitly supplied extensions first, then any extensions recorded in
// the options (typically merged in from the marker) that are not already
// active. Recorded names the registry cannot resolve are fatal, since
// silently dropping one would regenerate files its policy protects.
func (r *Reconciler) activeExtensions(opts options.Options) ([]pipeline.Extension, error) {
	active := append([]pipeline.Extension(nil), r.extensions...)
	seen := map[string]bool{}
	for _, ext := range active {
		seen[ext.Name()] = true
	}
	for _, name := range opts.Extensions() {
		if seen[name] {
			continue
		}
		ext, ok := r.lookup(name)
		if !ok {
			return nil, errors.Errorf("recorded extension %q is not available", name)
		}
		active = append(active, ext)
		seen[name] = true
	}
	return active, nil
}

func joinRoot(root, path string) string {
	return filepath.Join(root, filepath.FromSlash(path))
}

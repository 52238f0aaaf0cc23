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

// Package materialize turns a finished tree into files on disk. The walk
// order is deterministic, each leaf's operation decides whether content
// is written, and the first I/O failure aborts the run: files written by
// earlier leaves stay on disk, there is no rollback.
package materialize

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/loomworks/loom/pkg/fileops"
	"github.com/loomworks/loom/pkg/log"
	"github.com/loomworks/loom/pkg/options"
	"github.com/loomworks/loom/pkg/tree"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📄 Entry records what happened to one leaf.
type Entry struct {
	Path   string // Path relative to the project root
	Result fileops.Result
}

// 📋 Report is the per-leaf outcome of a materialization run.
type Report struct {
	Entries []Entry
}

// Count returns how many entries have the given result.
func (r *Report) Count(result fileops.Result) int {
	n := 0
	for _, e := range r.Entries {
		if e.Result == result {
			n++
		}
	}
	return n
}

// Result returns the recorded result for a path, if present.
func (r *Report) Result(path string) (fileops.Result, bool) {
	for _, e := range r.Entries {
		if e.Path == path {
			return e.Result, true
		}
	}
	return fileops.ResultUnknown, false
}

// 🔧 Options configures a Materializer.
type Options struct {
	// Root is the project directory all leaf paths are joined onto.
	Root string
	// UserLogger, if set, receives per-file feedback.
	UserLogger *log.UserLogger
	// DefaultOp applies to leaves without their own operation. Defaults
	// to fileops.Create().
	DefaultOp fileops.Operation
}

// 💾 Materializer writes trees to the real filesystem.
type Materializer struct {
	root      string
	userLog   *log.UserLogger
	defaultOp fileops.Operation
}

// 🏭 New creates a new materializer rooted at opts.Root.
func New(opts Options) (*Materializer, error) {
	if opts.Root == "" {
		return nil, errors.Errorf("root is required")
	}
	defaultOp := opts.DefaultOp
	if defaultOp == nil {
		defaultOp = fileops.Create()
	}
	return &Materializer{
		root:      filepath.Clean(opts.Root),
		userLog:   opts.UserLogger,
		defaultOp: defaultOp,
	}, nil
}

// Apply walks t depth-first, renders every leaf against opts, and
// applies its operation. Pretend mode travels inside opts: operations
// still evaluate their preconditions but the base write becomes a no-op,
// so the report stays accurate either way.
func (m *Materializer) Apply(ctx context.Context, t tree.Tree, opts options.Options) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	report := &Report{}

	err := tree.Walk(t, func(path string, leaf tree.Leaf) error {
		absPath, err := m.resolve(path)
		if err != nil {
			return err
		}

		content, err := leaf.Content.Render(opts)
		if err != nil {
			return errors.Errorf("rendering %s: %w", path, err)
		}

		op := leaf.Op
		if op == nil {
			op = m.defaultOp
		}

		result, err := op.Apply(ctx, absPath, []byte(content), opts)
		if err != nil {
			m.logChange(path, result, err)
			return errors.Errorf("applying %s: %w", path, err)
		}

		logger.Debug().Str("path", path).Stringer("result", result).Msg("materialized leaf")
		report.Entries = append(report.Entries, Entry{Path: path, Result: result})
		m.logChange(path, result, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// resolve joins a tree path onto the root and rejects anything that
// would escape it.
func (m *Materializer) resolve(path string) (string, error) {
	absPath := filepath.Join(m.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(m.root, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("path escapes project root: %s", path)
	}
	return absPath, nil
}

func (m *Materializer) logChange(path string, result fileops.Result, err error) {
	if m.userLog == nil {
		return
	}
	change := log.FileChange{Path: path, Error: err}
	switch {
	case err != nil:
		change.Type = log.FileError
	case result == fileops.ResultWritten:
		change.Type = log.FileWritten
	case result == fileops.ResultSkippedExists:
		change.Type = log.FilePreserved
		change.Description = "already exists"
	case result == fileops.ResultSkippedPolicy:
		change.Type = log.FileSkipped
		change.Description = "skipped by policy"
	case result == fileops.ResultWouldWrite:
		change.Type = log.FilePlanned
	}
	m.userLog.LogFileChange(change)
}

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

// Package fileops provides the per-leaf write policy for materialization.
// An Operation decides how (and whether) rendered content reaches disk,
// and modifiers wrap an Operation with a single independent precondition.
package fileops

import (
	"context"
	"os"
	"path/filepath"

	"github.com/loomworks/loom/pkg/options"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 Result reports what an Operation did with a leaf.
type Result int

const (
	ResultUnknown       Result = iota
	ResultWritten              // File was written to disk
	ResultSkippedExists        // File already exists and was preserved
	ResultSkippedPolicy        // A policy (e.g. skip-on-update) suppressed the write
	ResultWouldWrite           // Pretend mode: file would have been written
)

// String returns a string representation of Result.
func (r Result) String() string {
	switch r {
	case ResultWritten:
		return "written"
	case ResultSkippedExists:
		return "skipped-exists"
	case ResultSkippedPolicy:
		return "skipped-policy"
	case ResultWouldWrite:
		return "would-write"
	default:
		return "unknown"
	}
}

// 🎯 Operation is the contract for writing one leaf to disk. Operations
// carry no state of their own; everything they need arrives per call.
type Operation interface {
	Apply(ctx context.Context, path string, content []byte, opts options.Options) (Result, error)
}

// OperationFunc adapts a function to the Operation interface.
type OperationFunc func(ctx context.Context, path string, content []byte, opts options.Options) (Result, error)

// Apply implements Operation.
func (f OperationFunc) Apply(ctx context.Context, path string, content []byte, opts options.Options) (Result, error) {
	return f(ctx, path, content, opts)
}

// 🏭 Create returns the base operation: create parent directories and
// write content, overwriting any existing file. In pretend mode no I/O
// happens and the result is ResultWouldWrite.
func Create() Operation {
	return OperationFunc(func(ctx context.Context, path string, content []byte, opts options.Options) (Result, error) {
		logger := zerolog.Ctx(ctx)

		if opts.IsPretend() {
			logger.Debug().Str("path", path).Msg("pretend mode, skipping write")
			return ResultWouldWrite, nil
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return ResultUnknown, errors.Errorf("creating parent directories: %w", err)
		}
		if err := writeFileAtomic(path, content); err != nil {
			return ResultUnknown, errors.Errorf("writing file: %w", err)
		}

		logger.Debug().Str("path", path).Int("bytes", len(content)).Msg("wrote file")
		return ResultWritten, nil
	})
}

// 🛡️ NoOverwrite wraps op so an existing file is never overwritten.
// The force flag suppresses the check entirely.
func NoOverwrite(op Operation) Operation {
	return OperationFunc(func(ctx context.Context, path string, content []byte, opts options.Options) (Result, error) {
		if !opts.IsForce() {
			exists, err := fileExists(path)
			if err != nil {
				return ResultUnknown, err
			}
			if exists {
				zerolog.Ctx(ctx).Debug().Str("path", path).Msg("file exists, preserving")
				return ResultSkippedExists, nil
			}
		}
		return op.Apply(ctx, path, content, opts)
	})
}

// ⏭️ SkipOnUpdate wraps op so the leaf is created once but never
// regenerated during an update run.
func SkipOnUpdate(op Operation) Operation {
	return OperationFunc(func(ctx context.Context, path string, content []byte, opts options.Options) (Result, error) {
		if opts.IsUpdate() {
			zerolog.Ctx(ctx).Debug().Str("path", path).Msg("update mode, skipping by policy")
			return ResultSkippedPolicy, nil
		}
		return op.Apply(ctx, path, content, opts)
	})
}

// 🔐 AddPermissions wraps op and additionally sets permission bits on the
// written file. In pretend mode the chmod is reported, not performed.
func AddPermissions(op Operation, mode os.FileMode) Operation {
	return OperationFunc(func(ctx context.Context, path string, content []byte, opts options.Options) (Result, error) {
		result, err := op.Apply(ctx, path, content, opts)
		if err != nil {
			return result, err
		}
		if result != ResultWritten {
			return result, nil
		}
		if err := os.Chmod(path, mode); err != nil {
			return ResultUnknown, errors.Errorf("setting permissions: %w", err)
		}
		zerolog.Ctx(ctx).Debug().Str("path", path).Stringer("mode", mode).Msg("set permissions")
		return result, nil
	})
}

// writeFileAtomic writes content to a temp file and renames it into place.
func writeFileAtomic(path string, content []byte) error {
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

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

// Package vcs is the thin git collaborator: enough to initialize a fresh
// project and make the first commit, nothing more.
package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Repository is the version-control surface the scaffolder needs.
type Repository interface {
	IsRepo(ctx context.Context) bool
	Init(ctx context.Context) error
	Add(ctx context.Context, paths ...string) error
	Commit(ctx context.Context, message string) error
}

// gitRepo shells out to the git binary.
type gitRepo struct {
	dir string
}

// NewGit returns a Repository operating in dir.
func NewGit(dir string) Repository {
	return &gitRepo{dir: dir}
}

func (g *gitRepo) IsRepo(ctx context.Context) bool {
	_, err := os.Stat(filepath.Join(g.dir, ".git"))
	return err == nil
}

func (g *gitRepo) Init(ctx context.Context) error {
	return g.git(ctx, "init")
}

func (g *gitRepo) Add(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	return g.git(ctx, append([]string{"add", "--"}, paths...)...)
}

func (g *gitRepo) Commit(ctx context.Context, message string) error {
	return g.git(ctx, "commit", "-m", message)
}

func (g *gitRepo) git(ctx context.Context, args ...string) error {
	zerolog.Ctx(ctx).Debug().Strs("args", args).Str("dir", g.dir).Msg("running git")

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

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

// Package tree models a prospective directory layout as a nested mapping.
// All structural operations are pure: they return a new tree and never
// mutate their input, so pipeline steps can safely layer merges on top of
// trees produced by earlier steps.
package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/loomworks/loom/pkg/fileops"
	"gitlab.com/tozd/go/errors"
)

// 🌲 Node is either a nested Tree or a Leaf.
type Node interface {
	node()
}

// Tree maps a path segment to a subtree or leaf.
type Tree map[string]Node

func (Tree) node() {}

// Leaf is a file entry: content plus an optional write policy. A nil Op
// means the materializer's default operation applies.
type Leaf struct {
	Content Content
	Op      fileops.Operation
}

func (Leaf) node() {}

// PathNotFoundError reports that Modify targeted a leaf that does not exist.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("tree path not found: %s", e.Path)
}

// New creates an empty tree.
func New() Tree {
	return Tree{}
}

// SplitPath normalizes a slash-delimited path into segments, dropping
// empty segments so "a//b/" and "a/b" address the same leaf.
func SplitPath(path string) ([]string, error) {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		segments = append(segments, seg)
	}
	if len(segments) == 0 {
		return nil, errors.Errorf("empty tree path: %q", path)
	}
	return segments, nil
}

// JoinPath is the inverse of SplitPath for already-normalized segments.
func JoinPath(segments []string) string {
	return strings.Join(segments, "/")
}

// Clone returns a deep structural copy. Leaf contents and operations are
// shared (they are immutable by contract), directory nodes are copied.
func (t Tree) Clone() Tree {
	out := make(Tree, len(t))
	for key, node := range t {
		if sub, ok := node.(Tree); ok {
			out[key] = sub.Clone()
			continue
		}
		out[key] = node
	}
	return out
}

// Merge deep-merges overlay onto base: directories merge recursively,
// leaves are replaced last-writer-wins. Neither input is mutated.
func Merge(base, overlay Tree) Tree {
	out := base.Clone()
	for key, node := range overlay {
		overlaySub, overlayIsTree := node.(Tree)
		baseSub, baseIsTree := out[key].(Tree)
		if overlayIsTree && baseIsTree {
			out[key] = Merge(baseSub, overlaySub)
			continue
		}
		if overlayIsTree {
			out[key] = overlaySub.Clone()
			continue
		}
		out[key] = node
	}
	return out
}

// Ensure guarantees a leaf exists at path, creating intermediate
// directories as needed. An existing leaf (or subtree) at path is
// replaced: last ensure wins.
func Ensure(t Tree, path string, content Content, op fileops.Operation) (Tree, error) {
	segments, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	return EnsureAt(t, segments, content, op)
}

// EnsureAt is Ensure with explicit path segments.
func EnsureAt(t Tree, segments []string, content Content, op fileops.Operation) (Tree, error) {
	normalized, err := SplitPath(JoinPath(segments))
	if err != nil {
		return nil, err
	}

	out := t.Clone()
	cur := out
	for _, seg := range normalized[:len(normalized)-1] {
		sub, ok := cur[seg].(Tree)
		if !ok {
			sub = Tree{}
			cur[seg] = sub
		}
		cur = sub
	}
	cur[normalized[len(normalized)-1]] = Leaf{Content: content, Op: op}
	return out, nil
}

// Reject removes the leaf or subtree at path. A missing path is a no-op,
// not an error, since extensions may remove conditionally-present files.
// Intermediate directories left empty by the removal are not pruned.
func Reject(t Tree, path string) Tree {
	segments, err := SplitPath(path)
	if err != nil {
		return t.Clone()
	}

	out := t.Clone()
	cur := out
	for _, seg := range segments[:len(segments)-1] {
		sub, ok := cur[seg].(Tree)
		if !ok {
			return out
		}
		cur = sub
	}
	delete(cur, segments[len(segments)-1])
	return out
}

// ModifyFunc rewrites a leaf in place: it receives the existing content
// and operation and returns their replacements.
type ModifyFunc func(content Content, op fileops.Operation) (Content, fileops.Operation)

// Modify replaces the leaf at path via fn. Unlike Reject, a missing leaf
// is an error, surfaced as *PathNotFoundError.
func Modify(t Tree, path string, fn ModifyFunc) (Tree, error) {
	segments, err := SplitPath(path)
	if err != nil {
		return nil, err
	}

	out := t.Clone()
	cur := out
	for _, seg := range segments[:len(segments)-1] {
		sub, ok := cur[seg].(Tree)
		if !ok {
			return nil, &PathNotFoundError{Path: JoinPath(segments)}
		}
		cur = sub
	}
	leaf, ok := cur[segments[len(segments)-1]].(Leaf)
	if !ok {
		return nil, &PathNotFoundError{Path: JoinPath(segments)}
	}

	content, op := fn(leaf.Content, leaf.Op)
	cur[segments[len(segments)-1]] = Leaf{Content: content, Op: op}
	return out, nil
}

// Lookup returns the leaf at path, if present.
func Lookup(t Tree, path string) (Leaf, bool) {
	segments, err := SplitPath(path)
	if err != nil {
		return Leaf{}, false
	}
	cur := t
	for _, seg := range segments[:len(segments)-1] {
		sub, ok := cur[seg].(Tree)
		if !ok {
			return Leaf{}, false
		}
		cur = sub
	}
	leaf, ok := cur[segments[len(segments)-1]].(Leaf)
	return leaf, ok
}

// Walk visits every leaf depth-first in sorted key order, so a given tree
// always materializes in the same sequence. Returning an error from fn
// stops the walk.
func Walk(t Tree, fn func(path string, leaf Leaf) error) error {
	return walk(t, nil, fn)
}

func walk(t Tree, prefix []string, fn func(path string, leaf Leaf) error) error {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		segments := append(append([]string(nil), prefix...), key)
		switch node := t[key].(type) {
		case Tree:
			if err := walk(node, segments, fn); err != nil {
				return err
			}
		case Leaf:
			if err := fn(JoinPath(segments), node); err != nil {
				return err
			}
		}
	}
	return nil
}

// Leaves returns the sorted paths of all leaves, mostly for reporting
// and tests.
func Leaves(t Tree) []string {
	var paths []string
	_ = Walk(t, func(path string, _ Leaf) error {
		paths = append(paths, path)
		return nil
	})
	return paths
}

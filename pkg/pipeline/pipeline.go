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

// Package pipeline holds the ordered sequence of named steps that build
// the project tree. Registration is anchor-relative and value-semantic:
// Register and Unregister return new pipelines, so assembly errors never
// leave a half-modified step list behind.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/loomworks/loom/pkg/options"
	"github.com/loomworks/loom/pkg/tree"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultAnchor is the step new registrations land after when no anchor
// is given: most extensions add files, which must happen after the
// skeleton tree exists but before it is materialized.
const DefaultAnchor = "define-structure"

// 🔄 StepFunc transforms a (tree, options) pair into a new pair.
type StepFunc func(ctx context.Context, t tree.Tree, opts options.Options) (tree.Tree, options.Options, error)

// 🧩 Step is a named pipeline entry. Module qualifies the name so two
// extensions may contribute same-named steps without colliding.
type Step struct {
	Module string
	Name   string
	Run    StepFunc
}

// Qualified returns the module-qualified step name.
func (s Step) Qualified() string {
	return s.Module + ":" + s.Name
}

// AnchorNotFoundError reports a registration against a step name that is
// not present in the pipeline.
type AnchorNotFoundError struct {
	Ref string
}

func (e *AnchorNotFoundError) Error() string {
	return fmt.Sprintf("pipeline anchor not found: %s", e.Ref)
}

// 🧵 Pipeline is an immutable ordered step list.
type Pipeline struct {
	steps []Step
}

// New creates a pipeline from steps, in order.
func New(steps ...Step) Pipeline {
	return Pipeline{steps: append([]Step(nil), steps...)}
}

// Steps returns a copy of the step list.
func (p Pipeline) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// Len returns the number of steps.
func (p Pipeline) Len() int {
	return len(p.steps)
}

// Names returns the qualified step names in order.
func (p Pipeline) Names() []string {
	names := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		names = append(names, s.Qualified())
	}
	return names
}

// Anchor positions a registration relative to a named step. Reference
// form is "name" or "module:name"; a qualified reference must match
// exactly, a bare name matches the first step with that name regardless
// of module.
type Anchor struct {
	ref    string
	before bool
}

// Before positions a step immediately before the referenced step.
func Before(ref string) Anchor {
	return Anchor{ref: ref, before: true}
}

// After positions a step immediately after the referenced step.
func After(ref string) Anchor {
	return Anchor{ref: ref}
}

// indexOf resolves a reference to a step index, or -1.
func (p Pipeline) indexOf(ref string) int {
	if module, name, ok := strings.Cut(ref, ":"); ok {
		for i, s := range p.steps {
			if s.Module == module && s.Name == name {
				return i
			}
		}
		return -1
	}
	for i, s := range p.steps {
		if s.Name == ref {
			return i
		}
	}
	return -1
}

// Register returns a new pipeline with step inserted at the anchor. With
// no anchor the step lands immediately after the canonical
// "define-structure" step.
func (p Pipeline) Register(step Step, anchor ...Anchor) (Pipeline, error) {
	a := After(DefaultAnchor)
	if len(anchor) > 0 {
		a = anchor[0]
	}

	idx := p.indexOf(a.ref)
	if idx < 0 {
		return Pipeline{}, &AnchorNotFoundError{Ref: a.ref}
	}
	if !a.before {
		idx++
	}

	steps := make([]Step, 0, len(p.steps)+1)
	steps = append(steps, p.steps[:idx]...)
	steps = append(steps, step)
	steps = append(steps, p.steps[idx:]...)
	return Pipeline{steps: steps}, nil
}

// Unregister returns a new pipeline without the first step matching ref.
// A missing reference is tolerated: extensions remove steps that may not
// have been contributed in this run.
func (p Pipeline) Unregister(ref string) Pipeline {
	idx := p.indexOf(ref)
	if idx < 0 {
		return Pipeline{steps: append([]Step(nil), p.steps...)}
	}
	steps := make([]Step, 0, len(p.steps)-1)
	steps = append(steps, p.steps[:idx]...)
	steps = append(steps, p.steps[idx+1:]...)
	return Pipeline{steps: steps}
}

// Run folds the pipeline left to right, threading the tree and options
// through every step, starting from an empty tree. A step error aborts
// the run; no materialization has happened yet at that point.
func (p Pipeline) Run(ctx context.Context, opts options.Options) (tree.Tree, options.Options, error) {
	logger := zerolog.Ctx(ctx)

	t := tree.New()
	cur := opts.Clone()
	for _, step := range p.steps {
		logger.Debug().Str("step", step.Qualified()).Msg("running pipeline step")

		next, nextOpts, err := step.Run(ctx, t, cur)
		if err != nil {
			return nil, nil, errors.Errorf("step %s: %w", step.Qualified(), err)
		}
		if next == nil || nextOpts == nil {
			return nil, nil, errors.Errorf("step %s returned nil tree or options", step.Qualified())
		}
		t = next
		cur = nextOpts
	}
	return t, cur, nil
}

// 🔌 Extension contributes steps to a pipeline at assembly time. The
// core never discovers extensions itself; activation order is supplied
// by the caller.
type Extension interface {
	Name() string
	Contribute(p Pipeline) (Pipeline, error)
}

// Assemble applies each extension's contribution in activation order.
func Assemble(base Pipeline, exts []Extension) (Pipeline, error) {
	p := base
	for _, ext := range exts {
		next, err := ext.Contribute(p)
		if err != nil {
			return Pipeline{}, errors.Errorf("extension %s: %w", ext.Name(), err)
		}
		p = next
	}
	return p, nil
}

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

// Package config loads the optional project descriptor that presets
// scaffold options, extension activation, and preserve patterns.
package config

import (
	"context"
	"os"

	"github.com/loomworks/loom/pkg/options"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for descriptor parsers
type Parser interface {
	// 📝 Parse parses the descriptor from bytes
	Parse(ctx context.Context, data []byte) (*Project, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Project is the scaffold descriptor: option presets plus update
// policy knobs that are not per-leaf.
type Project struct {
	Name       string   `json:"name" yaml:"name"`
	Package    string   `json:"package,omitempty" yaml:"package,omitempty"`
	Author     string   `json:"author,omitempty" yaml:"author,omitempty"`
	Email      string   `json:"email,omitempty" yaml:"email,omitempty"`
	License    string   `json:"license,omitempty" yaml:"license,omitempty"`
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`

	// Preserve lists glob patterns whose files are never regenerated
	// during an update, regardless of each leaf's own policy.
	Preserve []string `json:"preserve,omitempty" yaml:"preserve,omitempty"`
}

// 🎯 Load loads the descriptor from a file
func Load(ctx context.Context, path string) (*Project, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading project descriptor")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading descriptor file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	proj, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing descriptor: %w", err)
	}

	if err := proj.Validate(); err != nil {
		return nil, errors.Errorf("validating descriptor: %w", err)
	}

	return proj, nil
}

// 🔍 Validate checks if the descriptor is valid
func (p *Project) Validate() error {
	if p.Name == "" {
		return errors.Errorf("name is required")
	}
	if p.Package == "" {
		p.Package = p.Name
	}
	return nil
}

// ApplyTo layers the descriptor's presets under already-set options:
// anything the caller supplied explicitly wins.
func (p *Project) ApplyTo(opts options.Options) options.Options {
	out := opts.Clone()
	set := func(key, value string) {
		if value != "" && !out.Has(key) {
			out[key] = value
		}
	}
	set(options.KeyName, p.Name)
	set(options.KeyPackage, p.Package)
	set(options.KeyAuthor, p.Author)
	set(options.KeyEmail, p.Email)
	set(options.KeyLicense, p.License)
	for _, ext := range p.Extensions {
		out = out.WithExtension(ext)
	}
	return out
}

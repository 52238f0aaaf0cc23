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

// Package marker persists scaffold metadata alongside a generated
// project so a later update run can reconstruct the options and
// extension set the project was created with.
package marker

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/loomworks/loom/pkg/options"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// FileName is where the marker lives inside a generated project.
const FileName = ".loom.yaml"

// FormatVersion is the scaffold format written by this release. Updates
// accept markers from any release with the same major version.
const FormatVersion = "1.2.0"

// 📦 Marker records what a project was generated with.
type Marker struct {
	Version    string                       `yaml:"version"`
	Package    string                       `yaml:"package"`
	Extensions []string                     `yaml:"extensions,omitempty"`
	Params     map[string]map[string]string `yaml:"params,omitempty"`
}

// Load reads and parses the marker from a project directory.
func Load(ctx context.Context, dir string) (*Marker, error) {
	path := filepath.Join(dir, FileName)
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading project marker")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading marker: %w", err)
	}

	var m Marker
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Errorf("parsing marker: %w", err)
	}
	if m.Version == "" {
		return nil, errors.Errorf("marker %s has no version", path)
	}
	return &m, nil
}

// CheckCompatible rejects markers written by a different major scaffold
// format, which would need a migration this release does not carry.
func (m *Marker) CheckCompatible() error {
	recorded, err := semver.NewVersion(m.Version)
	if err != nil {
		return errors.Errorf("parsing marker version %q: %w", m.Version, err)
	}
	current := semver.MustParse(FormatVersion)
	if recorded.Major() != current.Major() {
		return errors.Errorf("marker format %s is incompatible with %s", m.Version, FormatVersion)
	}
	return nil
}

// Render marshals the marker to its on-disk YAML form.
func (m *Marker) Render() (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", errors.Errorf("marshaling marker: %w", err)
	}
	return string(data), nil
}

// FromOptions builds the marker a finishing pipeline step should persist
// for the current run.
func FromOptions(opts options.Options) *Marker {
	return &Marker{
		Version:    FormatVersion,
		Package:    opts.String(options.KeyPackage),
		Extensions: opts.Extensions(),
		Params:     opts.Params(),
	}
}

// MergeInto layers the recorded values under the explicitly supplied
// options: a key already present in opts wins, per-key ("explicit
// overrides remembered").
func (m *Marker) MergeInto(opts options.Options) options.Options {
	out := opts.Clone()
	if !out.Has(options.KeyPackage) && m.Package != "" {
		out[options.KeyPackage] = m.Package
	}
	if !out.Has(options.KeyVersion) {
		out[options.KeyVersion] = m.Version
	}
	for _, ext := range m.Extensions {
		out = out.WithExtension(ext)
	}
	for ext, kv := range m.Params {
		for key, value := range kv {
			if params := out.Params(); params != nil {
				if _, ok := params[ext][key]; ok {
					continue
				}
			}
			out = out.WithParam(ext, key, value)
		}
	}
	return out
}

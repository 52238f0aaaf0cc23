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

// Package options carries scaffold parameters and run state through the
// pipeline. Options values are never mutated in place: every change goes
// through With/WithParam, which copy, so each pipeline step observes
// exactly what earlier steps returned.
package options

// 🔑 Well-known option keys
const (
	KeyName       = "name"       // project name
	KeyPackage    = "package"    // primary package name
	KeyAuthor     = "author"     // author display name
	KeyEmail      = "email"      // author email
	KeyLicense    = "license"    // SPDX license identifier
	KeyYear       = "year"       // copyright year
	KeyDesc       = "description" // one-line project description
	KeyVersion    = "version"    // scaffold format version
	KeyUpdate     = "update"     // update-mode flag
	KeyPretend    = "pretend"    // dry-run flag
	KeyForce      = "force"      // overwrite escape hatch
	KeyExtensions = "extensions" // activated extension names, in order
	KeyParams     = "params"     // per-extension persisted parameters
)

// 🗺️ Options is a flat mapping from option name to value.
type Options map[string]any

// New creates an empty Options map.
func New() Options {
	return Options{}
}

// Clone returns a shallow copy. Nested extension params are copied one
// level deep so callers cannot alias them back into the source.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	if params, ok := o[KeyParams].(map[string]map[string]string); ok {
		cp := make(map[string]map[string]string, len(params))
		for ext, kv := range params {
			inner := make(map[string]string, len(kv))
			for pk, pv := range kv {
				inner[pk] = pv
			}
			cp[ext] = inner
		}
		out[KeyParams] = cp
	}
	if exts, ok := o[KeyExtensions].([]string); ok {
		out[KeyExtensions] = append([]string(nil), exts...)
	}
	return out
}

// With returns a copy with key set to value.
func (o Options) With(key string, value any) Options {
	out := o.Clone()
	out[key] = value
	return out
}

// Has reports whether key is present.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// String returns the string value for key, or "" if absent or not a string.
func (o Options) String(key string) string {
	v, _ := o[key].(string)
	return v
}

// Bool returns the bool value for key, or false if absent or not a bool.
func (o Options) Bool(key string) bool {
	v, _ := o[key].(bool)
	return v
}

// Strings returns the string-list value for key, or nil.
func (o Options) Strings(key string) []string {
	v, _ := o[key].([]string)
	return v
}

// IsUpdate reports whether this run reconciles a pre-existing project.
func (o Options) IsUpdate() bool { return o.Bool(KeyUpdate) }

// IsPretend reports whether filesystem mutation is suppressed.
func (o Options) IsPretend() bool { return o.Bool(KeyPretend) }

// IsForce reports whether no-overwrite protection is disabled.
func (o Options) IsForce() bool { return o.Bool(KeyForce) }

// Extensions returns the ordered list of activated extension names.
func (o Options) Extensions() []string { return o.Strings(KeyExtensions) }

// WithExtension returns a copy with name appended to the activation list,
// unless it is already recorded.
func (o Options) WithExtension(name string) Options {
	for _, ext := range o.Extensions() {
		if ext == name {
			return o.Clone()
		}
	}
	out := o.Clone()
	out[KeyExtensions] = append(o.Extensions(), name)
	return out
}

// Params returns the per-extension persisted parameters, or nil.
func (o Options) Params() map[string]map[string]string {
	v, _ := o[KeyParams].(map[string]map[string]string)
	return v
}

// WithParam returns a copy with a single extension parameter set.
func (o Options) WithParam(ext, key, value string) Options {
	out := o.Clone()
	params, ok := out[KeyParams].(map[string]map[string]string)
	if !ok {
		params = map[string]map[string]string{}
		out[KeyParams] = params
	}
	inner, ok := params[ext]
	if !ok {
		inner = map[string]string{}
		params[ext] = inner
	}
	inner[key] = value
	return out
}

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

// Package extensions maps extension names to constructors. The core
// never discovers extensions on its own; this registry is the lookup the
// CLI and the reconciler hand to it.
package extensions

import (
	"sort"

	"github.com/loomworks/loom/pkg/extensions/githubci"
	"github.com/loomworks/loom/pkg/extensions/precommit"
	"github.com/loomworks/loom/pkg/pipeline"
)

// 🗺️ builtins maps extension name to constructor.
var builtins = map[string]func() pipeline.Extension{
	"githubci":  func() pipeline.Extension { return githubci.New() },
	"precommit": func() pipeline.Extension { return precommit.New() },
}

// Lookup resolves an extension name to a fresh instance.
func Lookup(name string) (pipeline.Extension, bool) {
	ctor, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Names lists available extension names, sorted for help output.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

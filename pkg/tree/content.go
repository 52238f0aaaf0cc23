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

package tree

import (
	"fmt"
	"regexp"

	"github.com/loomworks/loom/pkg/options"
)

// 📄 Content is the value carried by a leaf: either literal text or a
// deferred rendering against the final options. Render must be
// side-effect free, as it may run once for the real write and again
// during a pretend pass.
type Content interface {
	Render(opts options.Options) (string, error)
}

// Literal is plain text content, used as-is.
type Literal string

// Render implements Content.
func (l Literal) Render(options.Options) (string, error) {
	return string(l), nil
}

// Func is a deferred template: a callable over the options context.
type Func func(opts options.Options) (string, error)

// Render implements Content.
func (f Func) Render(opts options.Options) (string, error) {
	return f(opts)
}

var placeholderRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_-]*)\}`)

// Template is text with ${key} placeholders substituted from options.
// Substitution is safe: a placeholder whose key is absent is left in the
// output verbatim rather than failing the run.
type Template string

// Render implements Content.
func (t Template) Render(opts options.Options) (string, error) {
	out := placeholderRe.ReplaceAllStringFunc(string(t), func(match string) string {
		key := match[2 : len(match)-1]
		v, ok := opts[key]
		if !ok {
			return match
		}
		return fmt.Sprintf("%v", v)
	})
	return out, nil
}

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

package status

import (
	"fmt"

	"github.com/fatih/color"
)

// 🎨 Formatter renders status entries for console output.
type Formatter struct{}

// NewFormatter creates a new Formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// FormatEntry formats one comparison result as a colored line.
func (f *Formatter) FormatEntry(e Entry) string {
	var symbol rune
	var attr color.Attribute
	switch e.Status {
	case StatusNew:
		symbol = '+'
		attr = color.FgGreen
	case StatusModified:
		symbol = '~'
		attr = color.FgBlue
	case StatusUnchanged:
		symbol = '='
		attr = color.FgHiBlack
	default:
		symbol = '?'
		attr = color.FgYellow
	}
	c := color.New(attr)
	return fmt.Sprintf("%s %-45s %s", c.Sprintf("%c", symbol), e.Path, c.Sprint(e.Status.String()))
}

// FormatSummary formats totals for the end of a status listing.
func (f *Formatter) FormatSummary(entries []Entry) string {
	var created, modified, unchanged int
	for _, e := range entries {
		switch e.Status {
		case StatusNew:
			created++
		case StatusModified:
			modified++
		case StatusUnchanged:
			unchanged++
		}
	}
	return fmt.Sprintf("%d new, %d modified, %d unchanged", created, modified, unchanged)
}

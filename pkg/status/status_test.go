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

package status_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/loomworks/loom/pkg/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(existing, []byte("on disk"), 0644))

	tests := []struct {
		name      string
		path      string
		generated string
		want      status.FileStatus
	}{
		{name: "new", path: filepath.Join(dir, "missing.md"), generated: "anything", want: status.StatusNew},
		{name: "unchanged", path: existing, generated: "on disk", want: status.StatusUnchanged},
		{name: "modified", path: existing, generated: "regenerated", want: status.StatusModified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := status.Compare(tt.path, []byte(tt.generated))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChecksum(t *testing.T) {
	a := status.Checksum([]byte("content"))
	b := status.Checksum([]byte("content"))
	c := status.Checksum([]byte("other"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestFileStatusString(t *testing.T) {
	assert.Equal(t, "new", status.StatusNew.String())
	assert.Equal(t, "modified", status.StatusModified.String())
	assert.Equal(t, "unchanged", status.StatusUnchanged.String())
	assert.Equal(t, "unknown", status.StatusUnknown.String())
}

func TestFormatEntry(t *testing.T) {
	f := status.NewFormatter()

	tests := []struct {
		name   string
		entry  status.Entry
		symbol string
	}{
		{name: "new", entry: status.Entry{Path: "README.md", Status: status.StatusNew}, symbol: "+"},
		{name: "modified", entry: status.Entry{Path: "go.mod", Status: status.StatusModified}, symbol: "~"},
		{name: "unchanged", entry: status.Entry{Path: "Makefile", Status: status.StatusUnchanged}, symbol: "="},
		{name: "unknown", entry: status.Entry{Path: "weird", Status: status.StatusUnknown}, symbol: "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := f.FormatEntry(tt.entry)
			assert.Contains(t, line, tt.symbol)
			assert.Contains(t, line, tt.entry.Path)
			assert.Contains(t, line, tt.entry.Status.String())
		})
	}
}

func TestFormatSummary(t *testing.T) {
	f := status.NewFormatter()
	entries := []status.Entry{
		{Path: "a", Status: status.StatusNew},
		{Path: "b", Status: status.StatusNew},
		{Path: "c", Status: status.StatusModified},
		{Path: "d", Status: status.StatusUnchanged},
	}

	assert.Equal(t, "2 new, 1 modified, 1 unchanged", f.FormatSummary(entries))
}

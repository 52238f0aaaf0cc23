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

// Package status compares freshly generated content against what is on
// disk, for reporting what an update run would touch.
package status

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"

	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the current state of a file relative to its
// generated content.
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // File doesn't exist in the project yet
	StatusModified             // File exists but content differs
	StatusUnchanged            // File exists and content matches
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// 📄 Entry is one file's comparison result.
type Entry struct {
	Path     string     // Path relative to the project root
	Status   FileStatus // Comparison outcome
	Checksum string     // Checksum of the generated content
}

// 🔍 Checksum generates a SHA-256 hash of the content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// Compare checks generated content against the file at absPath.
func Compare(absPath string, generated []byte) (FileStatus, error) {
	existing, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusNew, nil
		}
		return StatusUnknown, errors.Errorf("reading file: %w", err)
	}
	if bytes.Equal(existing, generated) {
		return StatusUnchanged, nil
	}
	return StatusModified, nil
}

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

// Package log provides user-facing feedback about scaffold runs, layered
// on top of structured zerolog output.
package log

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 🎨 FileChangeType represents the kind of change made to a file
type FileChangeType int

const (
	FileWritten FileChangeType = iota
	FilePreserved
	FileSkipped
	FilePlanned
	FileError
)

// 🖼️ FileChange represents one materialized leaf's outcome
type FileChange struct {
	Type        FileChangeType
	Path        string
	Description string
	Error       error
}

// 📢 UserLogger provides user-friendly feedback about scaffold progress
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// 📝 LogFileChange logs a file change with appropriate prefix and formatting
func (u *UserLogger) LogFileChange(change FileChange) {
	var prefix, action string
	var printer *pterm.PrefixPrinter
	switch change.Type {
	case FileWritten:
		prefix = "✨"
		action = "Created"
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: prefix})
	case FilePreserved:
		prefix = "🛡️"
		action = "Preserved"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: prefix})
	case FileSkipped:
		prefix = "⏭️"
		action = "Skipped"
		printer = pterm.Debug.WithPrefix(pterm.Prefix{Text: prefix})
	case FilePlanned:
		prefix = "📝"
		action = "Would create"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: prefix})
	case FileError:
		prefix = "❌"
		action = "Error"
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: prefix})
	}

	msg := fmt.Sprintf("%s %s", action, change.Path)
	if change.Description != "" {
		msg += fmt.Sprintf(" (%s)", change.Description)
	}

	if change.Error != nil {
		printer.Println(msg)
		pterm.Error.Println(change.Error)
		u.log.Error().Err(change.Error).Msg(msg)
	} else {
		printer.Println(msg)
		u.log.Info().Msg(msg)
	}
}

// 📣 LogRun announces the start of a scaffold run.
func (u *UserLogger) LogRun(mode, root string) {
	pterm.Info.WithPrefix(pterm.Prefix{Text: "🧵"}).Printfln("%s %s", mode, root)
	u.log.Info().Str("mode", mode).Str("root", root).Msg("starting run")
}

// ✅ LogValidation logs a validation result with appropriate formatting
func (u *UserLogger) LogValidation(ok bool, msg string, err error) {
	if ok {
		pterm.Success.Println(msg)
		u.log.Info().Msg(msg)
		return
	}
	pterm.Error.Println(msg)
	if err != nil {
		pterm.Error.Println(err)
		u.log.Error().Err(err).Msg(msg)
	}
}

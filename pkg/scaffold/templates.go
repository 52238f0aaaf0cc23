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

package scaffold

import "github.com/loomworks/loom/pkg/tree"

// Skeleton file bodies. Placeholders resolve against the final options;
// unknown placeholders survive verbatim by the template contract, so a
// missing optional option (e.g. description) degrades visibly instead of
// failing the run.

const readmeTemplate = tree.Template(`# ${name}

${description}

## Installation

` + "```sh" + `
go install github.com/${author}/${name}/cmd/${name}@latest
` + "```" + `

## Note

This project was scaffolded with loom. Run ` + "`loom update`" + ` inside the
project directory to pull in skeleton changes; files you own are left
untouched.
`)

const gitignoreTemplate = tree.Template(`# Binaries
/bin/
/dist/
*.exe

# Test artifacts
*.out
coverage.html

# Editor litter
*.swp
.idea/
.vscode/
`)

const gomodTemplate = tree.Template(`module github.com/${author}/${name}

go 1.23
`)

const makefileTemplate = tree.Template(`.PHONY: build test lint

build:
	go build ./...

test:
	go test ./...

lint:
	go vet ./...
`)

const mainTemplate = tree.Template(`package main

import (
	"fmt"
	"os"

	"github.com/${author}/${name}/${package}"
)

func main() {
	if err := ${package}.Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
`)

const docTemplate = tree.Template(`// Package ${package} implements ${name}.
//
// ${description}
package ${package}
`)

const packageTemplate = tree.Template(`package ${package}

// Run is the entry point used by cmd/${name}.
func Run(args []string) error {
	return nil
}
`)

const packageTestTemplate = tree.Template(`package ${package}

import "testing"

func TestRun(t *testing.T) {
	if err := Run(nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
`)

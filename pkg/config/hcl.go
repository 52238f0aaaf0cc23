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

package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the descriptor from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Project, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "loom.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	type hclProject struct {
		Name       string   `hcl:"name"`
		Package    string   `hcl:"package,optional"`
		Author     string   `hcl:"author,optional"`
		Email      string   `hcl:"email,optional"`
		License    string   `hcl:"license,optional"`
		Extensions []string `hcl:"extensions,optional"`
		Preserve   []string `hcl:"preserve,optional"`
	}

	var hclProj hclProject
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclProj)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &Project{
		Name:       hclProj.Name,
		Package:    hclProj.Package,
		Author:     hclProj.Author,
		Email:      hclProj.Email,
		License:    hclProj.License,
		Extensions: hclProj.Extensions,
		Preserve:   hclProj.Preserve,
	}, nil
}

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

// Package license resolves an SPDX identifier to license text. The
// embedded source covers the short permissive licenses; the GitHub
// source can fetch anything the Licenses API knows about. Returned text
// uses ${author} and ${year} placeholders so the scaffold template layer
// fills them from options.
package license

import (
	"context"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Source resolves an SPDX license identifier to its text.
type Source interface {
	Get(ctx context.Context, spdx string) (string, error)
}

// UnknownLicenseError reports an identifier no source could resolve.
type UnknownLicenseError struct {
	SPDX string
}

func (e *UnknownLicenseError) Error() string {
	return "unknown license: " + e.SPDX
}

// embeddedSource serves license texts compiled into the binary.
type embeddedSource struct{}

// Embedded returns the built-in license source.
func Embedded() Source {
	return embeddedSource{}
}

func (embeddedSource) Get(ctx context.Context, spdx string) (string, error) {
	text, ok := embeddedTexts[strings.ToLower(spdx)]
	if !ok {
		return "", &UnknownLicenseError{SPDX: spdx}
	}
	return text, nil
}

// githubSource resolves license texts through the GitHub Licenses API.
type githubSource struct {
	client *github.Client
}

// GitHub returns a source backed by the GitHub Licenses API. A nil
// client gets the default unauthenticated one, which is enough for the
// licenses endpoint.
func GitHub(client *github.Client) Source {
	if client == nil {
		client = github.NewClient(nil)
	}
	return &githubSource{client: client}
}

func (s *githubSource) Get(ctx context.Context, spdx string) (string, error) {
	key := strings.ToLower(spdx)
	zerolog.Ctx(ctx).Debug().Str("license", key).Msg("fetching license from github")

	lic, _, err := s.client.Licenses.Get(ctx, key)
	if err != nil {
		return "", errors.Errorf("fetching license %s: %w", spdx, err)
	}
	body := lic.GetBody()
	if body == "" {
		return "", &UnknownLicenseError{SPDX: spdx}
	}
	return normalizePlaceholders(body), nil
}

// chain tries each source in order, falling through on unknown licenses.
type chain []Source

// Chain combines sources; the first one that resolves wins. Errors other
// than UnknownLicenseError stop the chain.
func Chain(sources ...Source) Source {
	return chain(sources)
}

func (c chain) Get(ctx context.Context, spdx string) (string, error) {
	var unknown *UnknownLicenseError
	for _, src := range c {
		text, err := src.Get(ctx, spdx)
		if err == nil {
			return text, nil
		}
		if !errors.As(err, &unknown) {
			return "", err
		}
	}
	return "", &UnknownLicenseError{SPDX: spdx}
}

// normalizePlaceholders rewrites the GitHub API's bracket placeholders to
// the template form the scaffold layer substitutes.
func normalizePlaceholders(body string) string {
	replacer := strings.NewReplacer(
		"[year]", "${year}",
		"[yyyy]", "${year}",
		"[fullname]", "${author}",
		"[name of copyright owner]", "${author}",
	)
	return replacer.Replace(body)
}

// Copyright 2026 EngFlow Inc. All rights reserved.
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

// Package xs is a Gazelle language extension generating Bazel rules for XS scripts preprocessed with adex.
//
// Every directory containing .xs files gets one xs_library grouping the files included by their siblings, and one
// xs_script per remaining file. The #include directives of each file are resolved into deps using the same search
// order as the preprocessor.
package xs

import (
	"path/filepath"
	"strings"

	"github.com/bazelbuild/bazel-gazelle/config"
	"github.com/bazelbuild/bazel-gazelle/language"
	"github.com/bazelbuild/bazel-gazelle/rule"
)

const languageName = "xs"

type xsLanguage struct{}

// xsInclude is a single #include directive of a generated rule's source.
type xsInclude struct {
	// File name as written in the directive, e.g. "./utils.xs"
	rawPath string
	// Repository root relative directory of the including file
	fromPkg string
}

type xsImports struct {
	includes []xsInclude
}

func NewLanguage() language.Language {
	return &xsLanguage{}
}

// language.Language methods
func (*xsLanguage) Kinds() map[string]rule.KindInfo {
	return map[string]rule.KindInfo{
		"xs_library": {
			NonEmptyAttrs:  map[string]bool{"srcs": true},
			MergeableAttrs: map[string]bool{"srcs": true, "deps": true},
		},
		"xs_script": {
			NonEmptyAttrs:  map[string]bool{"srcs": true},
			MergeableAttrs: map[string]bool{"srcs": true, "out": true, "deps": true},
		},
	}
}

func (*xsLanguage) Loads() []rule.LoadInfo {
	return []rule.LoadInfo{
		{
			Name:    "@adex//xs:defs.bzl",
			Symbols: []string{"xs_library", "xs_script"},
		},
	}
}

func (*xsLanguage) Fix(c *config.Config, f *rule.File) {}

func hasXsExtension(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".xs")
}

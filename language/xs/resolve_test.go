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

package xs

import (
	"testing"

	"github.com/EngFlow/adex/internal/index"
	"github.com/bazelbuild/bazel-gazelle/config"
	"github.com/bazelbuild/bazel-gazelle/label"
	"github.com/bazelbuild/bazel-gazelle/resolve"
	"github.com/bazelbuild/bazel-gazelle/rule"
	"github.com/stretchr/testify/assert"
)

func TestImports(t *testing.T) {
	lang := &xsLanguage{}

	testCases := []struct {
		name            string
		ruleKind        string
		srcs            []string
		pkg             string
		expectedImports []resolve.ImportSpec
	}{
		{
			name:     "xs_library sources",
			ruleKind: "xs_library",
			srcs:     []string{"math.xs", "utils.xs"},
			pkg:      "xs/lib",
			expectedImports: []resolve.ImportSpec{
				{Lang: languageName, Imp: "xs/lib/math.xs"},
				{Lang: languageName, Imp: "xs/lib/utils.xs"},
			},
		},
		{
			name:     "xs_library in the repository root",
			ruleKind: "xs_library",
			srcs:     []string{"math.xs"},
			pkg:      "",
			expectedImports: []resolve.ImportSpec{
				{Lang: languageName, Imp: "math.xs"},
			},
		},
		{
			name:            "xs_script is not indexed",
			ruleKind:        "xs_script",
			srcs:            []string{"main.xs"},
			pkg:             "scenario",
			expectedImports: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Exts[languageName] = newXsConfig()

			r := rule.NewRule(tc.ruleKind, "test_rule")
			r.SetAttr("srcs", tc.srcs)
			f := &rule.File{Pkg: tc.pkg}

			assert.Equal(t, tc.expectedImports, lang.Imports(cfg, r, f))
		})
	}
}

func TestCandidatePaths(t *testing.T) {
	searchDirs := []string{"xs/lib", "shared"}

	testCases := []struct {
		name     string
		include  xsInclude
		expected []string
	}{
		{
			name:     "local include",
			include:  xsInclude{rawPath: "./math.xs", fromPkg: "scenario"},
			expected: []string{"scenario/math.xs"},
		},
		{
			name:     "sibling first then search directories",
			include:  xsInclude{rawPath: "math.xs", fromPkg: "scenario"},
			expected: []string{"scenario/math.xs", "xs/lib/math.xs", "shared/math.xs"},
		},
		{
			name:     "relative path",
			include:  xsInclude{rawPath: "../common/math.xs", fromPkg: "scenario/one"},
			expected: []string{"scenario/common/math.xs", "xs/common/math.xs", "common/math.xs"},
		},
		{
			name:     "repository root",
			include:  xsInclude{rawPath: "util/math.xs", fromPkg: ""},
			expected: []string{"util/math.xs", "xs/lib/util/math.xs", "shared/util/math.xs"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, candidatePaths(tc.include, searchDirs))
		})
	}
}

func TestLookupIndexes(t *testing.T) {
	from := label.New("", "scenario", "main")
	indexes := []index.IncludeIndex{
		{
			"ai/core.xs": {label.New("xs_lib", "ai", "core")},
			"math.xs":    {label.New("xs_lib", "", "math"), label.New("other_lib", "", "math")},
		},
		{
			"math.xs": {label.New("fallback", "", "math")},
		},
	}

	testCases := []struct {
		name          string
		rawPath       string
		expectedLabel label.Label
		expectedFound bool
	}{
		{name: "unique mapping", rawPath: "ai/core.xs", expectedLabel: label.New("xs_lib", "ai", "core"), expectedFound: true},
		{name: "unclean path", rawPath: "ai/../ai/core.xs", expectedLabel: label.New("xs_lib", "ai", "core"), expectedFound: true},
		{name: "ambiguous mapping falls back to next index", rawPath: "math.xs", expectedLabel: label.New("fallback", "", "math"), expectedFound: true},
		{name: "local include is never external", rawPath: "./ai/core.xs", expectedLabel: label.NoLabel, expectedFound: false},
		{name: "unknown include", rawPath: "missing.xs", expectedLabel: label.NoLabel, expectedFound: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resolved, found := lookupIndexes(indexes, xsInclude{rawPath: tc.rawPath, fromPkg: "scenario"}, from)
			assert.Equal(t, tc.expectedFound, found)
			assert.Equal(t, tc.expectedLabel, resolved)
		})
	}
}

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
	"path/filepath"
	"testing"

	"github.com/EngFlow/adex/internal/index"
	"github.com/bazelbuild/bazel-gazelle/config"
	"github.com/bazelbuild/bazel-gazelle/label"
	"github.com/bazelbuild/bazel-gazelle/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileWithDirectives(pkg string, directives ...rule.Directive) *rule.File {
	f := rule.EmptyFile(pkg+"/BUILD.bazel", pkg)
	f.Directives = directives
	return f
}

func TestConfigure(t *testing.T) {
	lang := &xsLanguage{}
	c := config.New()

	lang.Configure(c, "", fileWithDirectives("",
		rule.Directive{Key: includeDirsDirective, Value: "shared ./common/"},
		rule.Directive{Key: libraryDirDirective, Value: "//xs/lib"},
		rule.Directive{Key: excludeDirective, Value: "**/*_old.xs"},
	))
	root := getXsConfig(c)
	assert.Equal(t, []string{"shared", "common"}, root.includeDirs)
	assert.Equal(t, "xs/lib", root.libraryDir)
	assert.Equal(t, []string{"xs/lib", "shared", "common"}, root.searchDirs())

	lang.Configure(c, "scenario", fileWithDirectives("scenario",
		rule.Directive{Key: noLibsDirective, Value: "true"},
		rule.Directive{Key: excludeDirective, Value: "draft/*"},
		rule.Directive{Key: excludeDirective, Value: "[invalid"},
		rule.Directive{Key: noLibsDirective, Value: "maybe"},
	))
	child := getXsConfig(c)
	assert.True(t, child.noLibs)
	assert.Equal(t, []string{"shared", "common"}, child.searchDirs())
	assert.Equal(t, []string{"**/*_old.xs", "scenario/draft/*"}, child.excludes)

	// Parent configuration is not modified by its children
	assert.False(t, root.noLibs)
	assert.Equal(t, []string{"**/*_old.xs"}, root.excludes)

	lang.Configure(c, "scenario/empty", fileWithDirectives("scenario/empty",
		rule.Directive{Key: includeDirsDirective, Value: ""},
		rule.Directive{Key: libraryDirDirective, Value: ""},
	))
	assert.Empty(t, getXsConfig(c).searchDirs())
	assert.Equal(t, []string{"shared", "common"}, child.includeDirs)
}

func TestConfigureWithoutBuildFile(t *testing.T) {
	lang := &xsLanguage{}
	c := config.New()

	lang.Configure(c, "", fileWithDirectives("", rule.Directive{Key: includeDirsDirective, Value: "."}))
	lang.Configure(c, "sub", nil)

	conf := getXsConfig(c)
	assert.Equal(t, []string{""}, conf.includeDirs)
	assert.True(t, conf.isSearchDir(""))
	assert.False(t, conf.isSearchDir("sub"))
}

func TestIsExcluded(t *testing.T) {
	conf := &xsConfig{excludes: []string{"**/*_old.xs", "scenario/draft/*"}}

	testCases := []struct {
		file     string
		expected bool
	}{
		{file: "main.xs", expected: false},
		{file: "main_old.xs", expected: true},
		{file: "a/b/main_old.xs", expected: true},
		{file: "scenario/draft/wip.xs", expected: true},
		{file: "scenario/draft/nested/wip.xs", expected: false},
		{file: "scenario/final.xs", expected: false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, conf.isExcluded(tc.file), tc.file)
	}
}

func TestConfigureIndexFile(t *testing.T) {
	lang := &xsLanguage{}
	c := config.New()
	c.RepoRoot = t.TempDir()
	includeIndex := index.IncludeIndex{"ai/core.xs": {label.New("xs_lib", "ai", "core")}}
	require.NoError(t, includeIndex.WriteToFile(filepath.Join(c.RepoRoot, "xs_lib.xsidx")))

	lang.Configure(c, "", fileWithDirectives("",
		rule.Directive{Key: indexFileDirective, Value: "xs_lib.xsidx"},
		rule.Directive{Key: indexFileDirective, Value: "missing.xsidx"},
	))
	assert.Equal(t, []index.IncludeIndex{includeIndex}, getXsConfig(c).indexes)
}

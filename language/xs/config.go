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
	"flag"
	"log"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/EngFlow/adex/internal/index"
	"github.com/bazelbuild/bazel-gazelle/config"
	"github.com/bazelbuild/bazel-gazelle/rule"
	"github.com/bmatcuk/doublestar/v4"
)

const (
	// Space separated list of repository relative directories searched for included files
	includeDirsDirective = "xs_include_dirs"
	// Doublestar pattern, relative to the directory of the BUILD file, of .xs files to ignore
	excludeDirective = "xs_exclude"
	// Repository relative directory playing the role of the bundled adex XS library
	libraryDirDirective = "xs_library_dir"
	// Boolean, disables the library directory like the -no-libs flag of adex
	noLibsDirective = "xs_no_libs"
	// Repository relative path of an include index created by adex-index
	indexFileDirective = "xs_indexfile"
)

// config.Configurer methods
func (*xsLanguage) RegisterFlags(fs *flag.FlagSet, cmd string, c *config.Config) {}
func (*xsLanguage) CheckFlags(fs *flag.FlagSet, c *config.Config) error          { return nil }
func (*xsLanguage) KnownDirectives() []string {
	return []string{
		includeDirsDirective,
		excludeDirective,
		libraryDirDirective,
		noLibsDirective,
		indexFileDirective,
	}
}

func (*xsLanguage) Configure(c *config.Config, rel string, f *rule.File) {
	var conf *xsConfig
	if parentConf, ok := c.Exts[languageName]; !ok {
		conf = newXsConfig()
	} else {
		conf = parentConf.(*xsConfig).clone()
	}
	c.Exts[languageName] = conf

	if f == nil {
		return
	}
	for _, d := range f.Directives {
		switch d.Key {
		case includeDirsDirective:
			conf.includeDirs = conf.includeDirs[:0:0]
			for _, dir := range strings.Fields(d.Value) {
				conf.includeDirs = append(conf.includeDirs, cleanRel(dir))
			}
		case excludeDirective:
			pattern := path.Join(rel, d.Value)
			if d.Value == "" || !doublestar.ValidatePattern(pattern) {
				log.Printf("%v is invalid value for directive %v, expected a valid glob pattern", d.Value, d.Key)
				continue
			}
			conf.excludes = append(conf.excludes, pattern)
		case libraryDirDirective:
			conf.libraryDir = ""
			if d.Value != "" {
				conf.libraryDir = cleanRel(d.Value)
			}
		case noLibsDirective:
			noLibs, err := strconv.ParseBool(d.Value)
			if err != nil {
				log.Printf("%v is invalid value for directive %v, expected true or false", d.Value, d.Key)
				continue
			}
			conf.noLibs = noLibs
		case indexFileDirective:
			includeIndex, err := index.ReadFromFile(filepath.Join(c.RepoRoot, filepath.FromSlash(d.Value)))
			if err != nil {
				log.Printf("Failed to load include index for directive %v: %v", d.Key, err)
				continue
			}
			conf.indexes = append(conf.indexes, includeIndex)
		}
	}
}

type xsConfig struct {
	// Repository relative include directories, in search order
	includeDirs []string
	// Repository relative doublestar patterns of excluded files
	excludes   []string
	libraryDir string
	noLibs     bool
	// Include indexes of XS libraries defined outside of the repository, in lookup order
	indexes []index.IncludeIndex
}

func getXsConfig(c *config.Config) *xsConfig {
	return c.Exts[languageName].(*xsConfig)
}

func newXsConfig() *xsConfig {
	return &xsConfig{}
}

func (conf *xsConfig) clone() *xsConfig {
	copy := *conf
	copy.includeDirs = slices.Clone(conf.includeDirs)
	copy.excludes = slices.Clone(conf.excludes)
	copy.indexes = slices.Clone(conf.indexes)
	return &copy
}

// searchDirs returns the directories searched after the directory of the including file, the library directory first.
func (conf *xsConfig) searchDirs() []string {
	if conf.libraryDir == "" || conf.noLibs {
		return conf.includeDirs
	}
	return append([]string{conf.libraryDir}, conf.includeDirs...)
}

// isSearchDir reports whether files of the rel directory are meant to be included rather than preprocessed.
func (conf *xsConfig) isSearchDir(rel string) bool {
	return slices.Contains(conf.searchDirs(), rel)
}

// isExcluded reports whether the repository relative file matches one of the xs_exclude patterns.
func (conf *xsConfig) isExcluded(file string) bool {
	return slices.ContainsFunc(conf.excludes, func(pattern string) bool {
		return doublestar.MatchUnvalidated(pattern, file)
	})
}

// cleanRel normalizes a repository relative directory, the repository root being "".
func cleanRel(dir string) string {
	dir = path.Clean(strings.TrimLeft(dir, "/"))
	if dir == "." {
		return ""
	}
	return dir
}

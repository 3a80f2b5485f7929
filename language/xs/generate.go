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
	"log"
	"path"
	"path/filepath"
	"strings"

	"github.com/EngFlow/adex/internal/collections"
	"github.com/EngFlow/adex/preprocessor"
	"github.com/bazelbuild/bazel-gazelle/language"
	"github.com/bazelbuild/bazel-gazelle/rule"
)

// language.Language methods
func (*xsLanguage) GenerateRules(args language.GenerateArgs) language.GenerateResult {
	conf := getXsConfig(args.Config)
	sourceInfos := map[string]preprocessor.SourceInfo{}
	files := collections.FilterSlice(args.RegularFiles, func(file string) bool {
		return hasXsExtension(file) && !conf.isExcluded(path.Join(args.Rel, file))
	})
	var parsed []string
	for _, file := range files {
		sourceInfo, err := preprocessor.ParseSourceFile(filepath.Join(args.Dir, file))
		if err != nil {
			log.Printf("%v: failed to parse XS source: %v", path.Join(args.Rel, file), err)
			continue
		}
		sourceInfos[file] = sourceInfo
		parsed = append(parsed, file)
	}

	var libs collections.Set[string]
	if conf.isSearchDir(args.Rel) {
		libs = collections.ToSet(parsed)
	} else {
		libs = siblingIncludes(parsed, sourceInfos)
	}
	scripts := collections.ToSet(parsed).Diff(libs)

	var result = language.GenerateResult{}
	if len(libs) > 0 {
		srcs := libs.SortedValues(strings.Compare)
		r := rule.NewRule("xs_library", filepath.Base(args.Dir))
		r.SetAttr("srcs", srcs)
		if args.File == nil || !args.File.HasDefaultVisibility() {
			r.SetAttr("visibility", []string{"//visibility:public"})
		}
		result.Gen = append(result.Gen, r)
		result.Imports = append(result.Imports, extractImports(args, srcs, sourceInfos))
	}

	for _, script := range scripts.SortedValues(strings.Compare) {
		stem := strings.TrimSuffix(script, filepath.Ext(script))
		r := rule.NewRule("xs_script", stem)
		r.SetAttr("srcs", []string{script})
		r.SetAttr("out", stem+"_out.xs")
		result.Gen = append(result.Gen, r)
		result.Imports = append(result.Imports, extractImports(args, []string{script}, sourceInfos))
	}

	return result
}

// siblingIncludes returns the files included by another file of the same directory.
func siblingIncludes(files []string, sourceInfos map[string]preprocessor.SourceInfo) collections.Set[string] {
	libs := make(collections.Set[string])
	for _, file := range files {
		for _, include := range sourceInfos[file].Includes {
			sibling := path.Clean(include.Path)
			if _, exists := sourceInfos[sibling]; exists && sibling != file {
				libs.Add(sibling)
			}
		}
	}
	return libs
}

func extractImports(args language.GenerateArgs, files []string, sourceInfos map[string]preprocessor.SourceInfo) xsImports {
	includes := []xsInclude{}
	for _, file := range files {
		for _, include := range sourceInfos[file].Includes {
			includes = append(includes, xsInclude{rawPath: include.Path, fromPkg: args.Rel})
		}
	}
	return xsImports{includes: includes}
}

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
	"strings"

	"github.com/EngFlow/adex/internal/collections"
	"github.com/EngFlow/adex/internal/index"
	"github.com/bazelbuild/bazel-gazelle/config"
	"github.com/bazelbuild/bazel-gazelle/label"
	"github.com/bazelbuild/bazel-gazelle/repo"
	"github.com/bazelbuild/bazel-gazelle/resolve"
	"github.com/bazelbuild/bazel-gazelle/rule"
)

// resolve.Resolver methods
func (*xsLanguage) Name() string                                        { return languageName }
func (*xsLanguage) Embeds(r *rule.Rule, from label.Label) []label.Label { return nil }

// Imports indexes the sources of xs_library rules by their repository relative path. Scripts are never included.
func (*xsLanguage) Imports(c *config.Config, r *rule.Rule, f *rule.File) []resolve.ImportSpec {
	if r.Kind() != "xs_library" {
		return nil
	}
	return collections.MapSlice(r.AttrStrings("srcs"), func(src string) resolve.ImportSpec {
		return resolve.ImportSpec{Lang: languageName, Imp: path.Join(f.Pkg, src)}
	})
}

func (lang *xsLanguage) Resolve(c *config.Config, ix *resolve.RuleIndex, rc *repo.RemoteCache, r *rule.Rule, imports any, from label.Label) {
	if imports == nil {
		return
	}
	xsImports := imports.(xsImports)

	deps := make(collections.Set[string])
	for _, include := range xsImports.includes {
		resolvedLabel, found := lang.resolveInclude(c, ix, from, include)
		// Includes of files owned by the rule itself are not deps
		if !found || resolvedLabel == from {
			continue
		}
		deps.Add(resolvedLabel.Rel(from.Repo, from.Pkg).String())
	}
	if len(deps) > 0 {
		r.SetAttr("deps", deps.SortedValues(strings.Compare))
	}
}

// resolveInclude finds the rule providing the included file. Files of the repository take precedence over the ones
// listed in include indexes, the first matching candidate path wins.
func (lang *xsLanguage) resolveInclude(c *config.Config, ix *resolve.RuleIndex, from label.Label, include xsInclude) (label.Label, bool) {
	conf := getXsConfig(c)
	for _, candidate := range candidatePaths(include, conf.searchDirs()) {
		if resolvedLabel, found := lang.resolveImportSpec(c, ix, from, resolve.ImportSpec{Lang: languageName, Imp: candidate}); found {
			return resolvedLabel, true
		}
	}
	return lookupIndexes(conf.indexes, include, from)
}

// lookupIndexes resolves a non-local include using the first include index providing it unambiguously.
func lookupIndexes(indexes []index.IncludeIndex, include xsInclude, from label.Label) (label.Label, bool) {
	if strings.HasPrefix(include.rawPath, "./") {
		return label.NoLabel, false
	}
	for _, includeIndex := range indexes {
		resolvedLabel, ambiguous, found := includeIndex.Lookup(path.Clean(include.rawPath))
		if found {
			return resolvedLabel, true
		}
		if len(ambiguous) > 0 {
			log.Printf("%v: '#include %q' is provided by multiple targets %v, add a '# gazelle:resolve' directive to select one", from, include.rawPath, ambiguous)
		}
	}
	return label.NoLabel, false
}

// candidatePaths lists the repository relative paths an include may refer to, in the order the preprocessor searches
// them: local includes ("./name") only next to the including file, other ones next to the including file and then in
// each search directory.
func candidatePaths(include xsInclude, searchDirs []string) []string {
	if local, isLocal := strings.CutPrefix(include.rawPath, "./"); isLocal {
		return []string{path.Join(include.fromPkg, local)}
	}
	candidates := []string{path.Join(include.fromPkg, include.rawPath)}
	for _, dir := range searchDirs {
		candidates = append(candidates, path.Join(dir, include.rawPath))
	}
	return candidates
}

// resolveImportSpec returns the label of the rule providing importSpec, from itself when the file belongs to the
// resolved rule.
func (*xsLanguage) resolveImportSpec(c *config.Config, ix *resolve.RuleIndex, from label.Label, importSpec resolve.ImportSpec) (label.Label, bool) {
	// Resolve the gazelle:resolve overrides if defined
	if resolvedLabel, ok := resolve.FindRuleWithOverride(c, importSpec, languageName); ok {
		return resolvedLabel, true
	}

	// Resolve using imports registered in Imports
	results := ix.FindRulesByImportWithConfig(c, importSpec, languageName)
	for _, searchResult := range results {
		if !searchResult.IsSelfImport(from) {
			return searchResult.Label, true
		}
	}
	if len(results) > 0 {
		return from, true
	}
	return label.NoLabel, false
}

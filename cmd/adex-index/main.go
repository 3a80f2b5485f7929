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

// Command adex-index creates an include index of an XS library living outside of the repository, typically fetched
// as an external Bazel repository. The index maps every include path of the library to the xs_library target Gazelle
// generates for its directory, allowing the xs Gazelle extension to resolve includes of the library into deps:
//
//	adex-index -dir path/to/library -repo xs_lib -output xs_lib.xsidx
package main

import (
	"flag"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/EngFlow/adex/internal/index"
	"github.com/bazelbuild/bazel-gazelle/label"
	"github.com/bmatcuk/doublestar/v4"
)

func main() {
	dir := flag.String("dir", "", "Root directory of the indexed XS library, the directory passed to adex with -p")
	repository := flag.String("repo", "", "Name of the external repository defining the library, empty if defined in the main repository")
	rootTarget := flag.String("root_target", "", "Name of the target defined in the root directory of the library, defaults to the directory name")
	output := flag.String("output", "xs.xsidx", "Output file path for index")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		log.Fatalf("Missing required -dir flag")
	}
	libraryDir, err := filepath.Abs(*dir)
	if err != nil {
		log.Fatalf("Failed to resolve library directory %v: %v", *dir, err)
	}
	if *rootTarget == "" {
		*rootTarget = filepath.Base(libraryDir)
	}

	includeIndex, err := createIncludeIndex(os.DirFS(libraryDir), *repository, *rootTarget)
	if err != nil {
		log.Fatalf("Failed to index %v: %v", libraryDir, err)
	}
	if err := includeIndex.WriteToFile(*output); err != nil {
		log.Fatal(err)
	}
	if *verbose {
		log.Println(includeIndex.Summary())
	}
	log.Printf("Indexed %d include paths of %v into %v", len(includeIndex), libraryDir, *output)
}

// createIncludeIndex maps the path of every .xs file of fsys to the xs_library target of its directory, the way the
// xs Gazelle extension names them.
func createIncludeIndex(fsys fs.FS, repository, rootTarget string) (index.IncludeIndex, error) {
	files, err := doublestar.Glob(fsys, "**/*.xs", doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}

	includeIndex := make(index.IncludeIndex)
	for _, file := range files {
		if shouldExcludeFile(file) {
			continue
		}
		pkg := path.Dir(file)
		name := path.Base(pkg)
		if pkg == "." {
			pkg, name = "", rootTarget
		}
		includeIndex.Add(file, label.New(repository, pkg, name))
	}
	return includeIndex, nil
}

// shouldExcludeFile skips files of possibly hidden or private directories.
func shouldExcludeFile(file string) bool {
	for segment := range strings.SplitSeq(file, "/") {
		if strings.HasPrefix(segment, ".") || strings.HasPrefix(segment, "_") {
			return true
		}
	}
	return false
}

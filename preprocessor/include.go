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

package preprocessor

import (
	"os"
	"path/filepath"
	"strings"
)

// includeFile resolves name and processes the file it refers to, unless that file has already been processed.
func (s *Session) includeFile(name string, from Location) error {
	path, err := s.resolveInclude(name, from)
	if err != nil {
		return err
	}
	if s.processed.Contains(path) {
		s.warn(from, "include cycle detected for file %q, skipping re-inclusion", path)
		return nil
	}
	return s.processFile(path, from)
}

// resolveInclude returns the canonical path of the file referenced by an #include directive at from.
//
// Names starting with "./" are resolved only against the directory of the including file. Other names are tried
// against the directory of the including file first, then against every include directory in order.
func (s *Session) resolveInclude(name string, from Location) (string, error) {
	currentDir := filepath.Dir(from.Path)

	if local, isLocal := strings.CutPrefix(name, "./"); isLocal {
		candidate := filepath.Join(currentDir, filepath.FromSlash(local))
		if !isRegularFile(candidate) {
			return "", s.fail(from, ErrLocalIncludeNotFound, "%v: %s", ErrLocalIncludeNotFound, candidate)
		}
		return s.canonicalInclude(candidate, from)
	}

	searchDirs := append([]string{currentDir}, s.includeDirs...)
	for _, dir := range searchDirs {
		candidate := filepath.Join(dir, filepath.FromSlash(name))
		if isRegularFile(candidate) {
			return s.canonicalInclude(candidate, from)
		}
	}
	return "", s.fail(from, ErrIncludeNotFound, "included file %q not found, searched: %s", name, strings.Join(searchDirs, ", "))
}

func (s *Session) canonicalInclude(candidate string, from Location) (string, error) {
	path, err := canonicalPath(candidate)
	if err != nil {
		return "", s.fail(from, err, "failed to resolve path %s: %v", candidate, err)
	}
	return path, nil
}

// canonicalPath returns the absolute form of path with symbolic links resolved, so that every file of the include
// tree has a single identity.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

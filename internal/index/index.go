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

// Package index defines a serializable mapping of XS include paths to the Bazel targets providing the included files.
// It is the protocol between adex-index, which indexes XS libraries living outside of the repository, and the xs
// Gazelle extension resolving #include directives into deps.
package index

import (
	"encoding"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/EngFlow/adex/internal/collections"
	"github.com/bazelbuild/bazel-gazelle/label"
)

type (
	// labelUnmarshaler is a wrapper around label.Label that is parsable from
	// JSON text.
	labelUnmarshaler label.Label

	// IncludeIndex maps XS include paths to the Bazel targets (more than one in case of ambiguity) providing them.
	// Serializable to/from JSON.
	IncludeIndex map[string][]label.Label
)

var (
	_ encoding.TextUnmarshaler = (*labelUnmarshaler)(nil)
	_ json.Marshaler           = (*IncludeIndex)(nil)
	_ json.Unmarshaler         = (*IncludeIndex)(nil)
)

func (lm *labelUnmarshaler) UnmarshalText(data []byte) error {
	parsedLabel, err := label.Parse(string(data))
	*lm = labelUnmarshaler(parsedLabel)
	return err
}

func (index IncludeIndex) MarshalJSON() ([]byte, error) {
	jsonDict := make(map[string][]string, len(index))
	for include, labels := range index {
		jsonDict[include] = collections.MapSlice(labels, label.Label.String)
	}
	return json.Marshal(jsonDict)
}

func (index *IncludeIndex) UnmarshalJSON(data []byte) error {
	var jsonDict map[string][]labelUnmarshaler
	if err := json.Unmarshal(data, &jsonDict); err != nil {
		return err
	}

	*index = make(IncludeIndex, len(jsonDict))
	for include, labels := range jsonDict {
		(*index)[include] = collections.MapSlice(labels, func(lbl labelUnmarshaler) label.Label { return label.Label(lbl) })
	}
	return nil
}

// Add records that target provides the file included as include.
func (index IncludeIndex) Add(include string, target label.Label) {
	if !slices.Contains(index[include], target) {
		index[include] = append(index[include], target)
	}
}

// Lookup returns the only target providing include. Missing and ambiguous includes are reported as not found, the
// latter with every candidate target.
func (index IncludeIndex) Lookup(include string) (label.Label, []label.Label, bool) {
	switch targets := index[include]; len(targets) {
	case 0:
		return label.NoLabel, nil, false
	case 1:
		return targets[0], nil, true
	default:
		return label.NoLabel, targets, false
	}
}

func (index IncludeIndex) splitByAmbiguity() (unique, ambiguous []string) {
	unique = make([]string, 0, len(index))
	ambiguous = make([]string, 0, len(index))
	for _, include := range slices.Sorted(maps.Keys(index)) {
		switch len(index[include]) {
		case 0:
			continue
		case 1:
			unique = append(unique, include)
		default:
			ambiguous = append(ambiguous, include)
		}
	}
	return
}

func (index IncludeIndex) Summary() string {
	var sb strings.Builder
	fmt.Fprintln(&sb, "Indexing result:")
	unique, ambiguous := index.splitByAmbiguity()

	fmt.Fprintf(&sb, "  Unique mappings (%d):\n", len(unique))
	for _, include := range unique {
		fmt.Fprintf(&sb, "    %-60q: %s\n", include, index[include][0])
	}

	fmt.Fprintf(&sb, "  Ambiguous mappings (%d):\n", len(ambiguous))
	for _, include := range ambiguous {
		fmt.Fprintf(&sb, "    %-60q: %v\n", include, index[include])
	}

	return sb.String()
}

// WriteToFile stores the index as indented JSON.
func (index IncludeIndex) WriteToFile(path string) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize include index: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write include index %v: %w", path, err)
	}
	return nil
}

// ReadFromFile loads an index previously stored with WriteToFile.
func ReadFromFile(path string) (IncludeIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read include index %v: %w", path, err)
	}
	var index IncludeIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse include index %v: %w", path, err)
	}
	return index, nil
}

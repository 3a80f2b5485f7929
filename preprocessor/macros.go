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
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

// MacroTable maps macro names to their raw replacement text. Values are opaque and may be empty.
type MacroTable map[string]string

func (m MacroTable) Clone() MacroTable {
	return maps.Clone(m)
}

// Define binds name to value, replacing any previous definition.
func (m MacroTable) Define(name, value string) {
	m[name] = value
}

// Undefine removes the binding of name. Returns false if name was not defined.
func (m MacroTable) Undefine(name string) bool {
	if _, exists := m[name]; !exists {
		return false
	}
	delete(m, name)
	return true
}

func (m MacroTable) Lookup(name string) (string, bool) {
	value, exists := m[name]
	return value, exists
}

func (m MacroTable) IsDefined(name string) bool {
	_, exists := m[name]
	return exists
}

// Names returns the defined macro names in sorted order.
func (m MacroTable) Names() []string {
	return slices.Sorted(maps.Keys(m))
}

type MacroDefinition struct {
	Name  string
	Value string
}

var macroIdentifierRegex = regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)

// ParseMacro parses a command line macro definition in the form NAME or NAME=value. A bare NAME defines the macro
// with an empty value.
func ParseMacro(definition string) (MacroDefinition, error) {
	definition = strings.TrimPrefix(definition, "-D") // tolerate gcc/clang style
	name, value, _ := strings.Cut(definition, "=")

	if !macroIdentifierRegex.MatchString(name) {
		return MacroDefinition{}, fmt.Errorf("invalid macro name %q", name)
	}
	return MacroDefinition{Name: name, Value: strings.TrimSpace(value)}, nil
}

func ParseMacros(definitions []string) (MacroTable, error) {
	out := MacroTable{}
	var parsingErrors []error
	for _, d := range definitions {
		defn, err := ParseMacro(d)
		if err != nil {
			parsingErrors = append(parsingErrors, fmt.Errorf("failed to parse: %v: %v", d, err))
			continue
		}
		out.Define(defn.Name, defn.Value)
	}
	return out, errors.Join(parsingErrors...)
}

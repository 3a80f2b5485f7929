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

// Package preprocessor implements the adex preprocessor for XS scripts. It expands `#include` directives, tracks
// `#define`/`#undef` macro bindings, evaluates `#ifdef`/`#endif` blocks and substitutes `@NAME@` references, while
// stripping comments and passing string literals and all other text through verbatim.
//
// A Session holds the state of one run. The macro table, the conditional stack and the output are shared by every
// file of the include tree: a macro defined in an included file stays visible to the includer and to files included
// afterwards.
package preprocessor

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/EngFlow/adex/internal/collections"
	"github.com/EngFlow/adex/preprocessor/internal/lexer"
)

type (
	Options struct {
		// Directories searched for included files, in order, after the directory of the including file.
		IncludeDirs []string
		// Macros defined before the root file is processed.
		Predefined MacroTable
		// Optional callback invoked for every advisory diagnostic when it is emitted.
		Reporter func(Diagnostic)
	}

	// frame is the scanning state of one file of the include tree. The innermost frame belongs to the file being
	// scanned; frames of including files keep their cursor until the included file is done.
	frame struct {
		path    string
		scanner *lexer.Scanner
	}

	// Session preprocesses one root file at a time. It is not safe for concurrent use.
	Session struct {
		includeDirs []string
		predefined  MacroTable
		reporter    func(Diagnostic)

		macros     MacroTable
		conditions conditionalStack
		processed  collections.Set[string] // canonical paths of files that started processing
		frames     collections.Stack[*frame]
		output     []string
		warnings   []Diagnostic
	}
)

func NewSession(opts Options) *Session {
	includeDirs := make([]string, 0, len(opts.IncludeDirs))
	for _, dir := range opts.IncludeDirs {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		includeDirs = append(includeDirs, dir)
	}
	return &Session{
		includeDirs: includeDirs,
		predefined:  opts.Predefined.Clone(),
		reporter:    opts.Reporter,
	}
}

func (s *Session) reset() {
	s.macros = s.predefined.Clone()
	if s.macros == nil {
		s.macros = MacroTable{}
	}
	s.conditions.Clear()
	s.processed = make(collections.Set[string])
	s.frames.Clear()
	s.output = nil
	s.warnings = nil
}

// Process preprocesses rootPath and every file it includes. State left by a previous call is discarded first, so
// processing the same input twice yields the same output.
//
// A fatal problem aborts the whole run: the returned error is a *Diagnostic and the output assembled so far is
// dropped.
func (s *Session) Process(rootPath string) error {
	s.reset()
	path, err := canonicalPath(rootPath)
	if err != nil {
		return s.fail(Location{Path: rootPath}, err, "failed to resolve path: %v", err)
	}
	if err := s.processFile(path, Location{Path: path}); err != nil {
		s.output = nil
		return err
	}
	if depth := s.conditions.Len(); depth > 0 {
		s.warn(s.conditions.outermost(), "%d #ifdef block(s) not closed by #endif at end of input", depth)
	}
	return nil
}

// Fragments returns the output sequence of the last successful run.
func (s *Session) Fragments() []string { return slices.Clone(s.output) }

// Output returns the concatenated output of the last successful run.
func (s *Session) Output() string { return strings.Join(s.output, "") }

// Warnings returns the advisory diagnostics emitted by the last run.
func (s *Session) Warnings() []Diagnostic { return slices.Clone(s.warnings) }

// Macros returns the macro table as left by the last run.
func (s *Session) Macros() MacroTable { return s.macros.Clone() }

// ProcessedFiles returns the canonical paths of all files processed by the last run, sorted.
func (s *Session) ProcessedFiles() []string { return s.processed.SortedValues(strings.Compare) }

func (s *Session) emit(fragment string) {
	s.output = append(s.output, fragment)
}

func (s *Session) locationAt(cursor lexer.Cursor) Location {
	if s.frames.Empty() {
		return Location{}
	}
	return Location{Path: s.frames.Peek().path, Line: cursor.Line, Column: cursor.Column}
}

func (s *Session) warn(loc Location, format string, args ...any) {
	d := Diagnostic{Severity: SeverityWarning, Location: loc, Message: fmt.Sprintf(format, args...)}
	s.warnings = append(s.warnings, d)
	if s.reporter != nil {
		s.reporter(d)
	}
}

func (s *Session) fail(loc Location, err error, format string, args ...any) error {
	return &Diagnostic{Severity: SeverityError, Location: loc, Message: fmt.Sprintf(format, args...), Err: err}
}

// lexicalError converts an error of the scanner into a diagnostic located in the current file.
func (s *Session) lexicalError(err error) error {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return s.fail(s.locationAt(lexErr.Location), lexErr.Err, "%v", lexErr.Err)
	}
	return s.fail(s.locationAt(s.frames.Peek().scanner.Cursor()), err, "%v", err)
}

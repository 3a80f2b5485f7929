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
	"fmt"
	"os"
	"strings"

	"github.com/EngFlow/adex/preprocessor/internal/lexer"
)

// processFile scans a single file, appending its output to the shared output sequence. from is the location
// reported when the file cannot be read, typically the #include directive that referenced it.
func (s *Session) processFile(path string, from Location) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return s.fail(from, err, "failed to read %s: %v", path, err)
	}

	s.processed.Add(path)
	s.frames.Push(&frame{path: path, scanner: lexer.NewScanner(string(content))})
	defer s.frames.Pop()

	sc := s.frames.Peek().scanner
	for !sc.AtEOF() {
		if err := s.step(sc); err != nil {
			return err
		}
	}
	return nil
}

// step consumes one construct from the current file.
func (s *Session) step(sc *lexer.Scanner) error {
	if s.conditions.inactive() {
		s.skipInactiveLine(sc)
		return nil
	}

	switch {
	case sc.Peek() == '#':
		return s.parseDirective(sc)
	case sc.Peek() == '@':
		return s.expandMacro(sc)
	case sc.Peek() == '"':
		literal, err := sc.ReadQuotedString()
		if err != nil {
			return s.lexicalError(err)
		}
		s.emit(literal.Raw)
	case sc.HasPrefix("//"):
		sc.SkipLineComment()
	case sc.HasPrefix("/*"):
		if err := sc.SkipBlockComment(); err != nil {
			return s.lexicalError(err)
		}
	default:
		start := sc.Cursor()
		sc.Next()
		s.emit(sc.Since(start))
	}
	return nil
}

// skipInactiveLine discards one line of an inactive block. Only conditional directives at the beginning of the line
// are recognized: nested #ifdef blocks are pushed as inactive so that their #endif does not close the outer block.
func (s *Session) skipInactiveLine(sc *lexer.Scanner) {
	sc.SkipHorizontalWhitespace()
	if sc.Peek() == '#' {
		start := sc.Cursor()
		sc.Next()
		sc.SkipHorizontalWhitespace()
		if directive, known := lookupDirective(sc.ReadIdentifier()); known {
			switch directive {
			case DirectiveIfdef:
				s.conditions.Push(conditional{active: false, opened: s.locationAt(start)})
			case DirectiveEndif:
				s.conditions.Pop()
			}
		}
	}
	sc.SkipLine()
}

func (s *Session) parseDirective(sc *lexer.Scanner) error {
	start := sc.Cursor()
	sc.Next() // '#'
	sc.SkipHorizontalWhitespace()
	keyword := sc.ReadIdentifier()

	directive, known := lookupDirective(keyword)
	if !known {
		return s.fail(s.locationAt(start), ErrUnknownDirective, "%v: #%s", ErrUnknownDirective, keyword)
	}

	switch directive {
	case DirectiveInclude:
		return s.parseInclude(sc)
	case DirectiveDefine:
		return s.parseDefine(sc)
	case DirectiveUndef:
		s.parseUndef(sc)
		return nil
	case DirectiveIfdef:
		return s.parseIfdef(sc, start)
	case DirectiveEndif:
		return s.parseEndif(sc, start)
	default:
		panic(fmt.Errorf("unhandled directive %v", directive))
	}
}

// #define NAME value-to-end-of-line
func (s *Session) parseDefine(sc *lexer.Scanner) error {
	sc.SkipHorizontalWhitespace()
	at := sc.Cursor()
	name := sc.ReadIdentifier()
	if name == "" {
		return s.fail(s.locationAt(at), ErrMissingIdentifier, "%v for %v", ErrMissingIdentifier, DirectiveDefine)
	}
	sc.SkipHorizontalWhitespace()
	s.macros.Define(name, strings.TrimSpace(sc.ReadLine()))
	sc.SkipLine()
	return nil
}

// #undef NAME. Problems are advisory only.
func (s *Session) parseUndef(sc *lexer.Scanner) {
	sc.SkipHorizontalWhitespace()
	at := sc.Cursor()
	name := sc.ReadIdentifier()
	switch {
	case name == "":
		s.warn(s.locationAt(at), "%v for %v", ErrMissingIdentifier, DirectiveUndef)
	case !s.macros.Undefine(name):
		s.warn(s.locationAt(at), "attempted to undefine undefined macro %q", name)
	}
	sc.SkipLine()
}

// #ifdef NAME
func (s *Session) parseIfdef(sc *lexer.Scanner, start lexer.Cursor) error {
	sc.SkipHorizontalWhitespace()
	at := sc.Cursor()
	name := sc.ReadIdentifier()
	if name == "" {
		return s.fail(s.locationAt(at), ErrMissingIdentifier, "%v for %v", ErrMissingIdentifier, DirectiveIfdef)
	}
	s.conditions.Push(conditional{active: s.macros.IsDefined(name), opened: s.locationAt(start)})
	sc.SkipLine()
	return nil
}

// #endif closing an active block. Inactive blocks are closed by skipInactiveLine.
func (s *Session) parseEndif(sc *lexer.Scanner, start lexer.Cursor) error {
	if s.conditions.Empty() {
		return s.fail(s.locationAt(start), ErrUnmatchedEndif, "%v", ErrUnmatchedEndif)
	}
	s.conditions.Pop()
	sc.SkipLine()
	return nil
}

// #include "path"
func (s *Session) parseInclude(sc *lexer.Scanner) error {
	sc.SkipHorizontalWhitespace()
	at := s.locationAt(sc.Cursor())
	literal, err := sc.ReadQuotedString()
	if err != nil {
		return s.lexicalError(err)
	}
	if literal.Value == "" {
		return s.fail(at, ErrEmptyIncludePath, "%v", ErrEmptyIncludePath)
	}
	sc.SkipLine()
	return s.includeFile(literal.Value, at)
}

// expandMacro handles an @NAME@ reference. The value of a defined macro is emitted as-is, without being scanned
// again; an undefined macro expands to nothing.
func (s *Session) expandMacro(sc *lexer.Scanner) error {
	sc.Next() // opening '@'
	at := sc.Cursor()
	name := sc.ReadIdentifier()
	if name == "" {
		return s.fail(s.locationAt(at), ErrMissingIdentifier, "%v for macro expansion", ErrMissingIdentifier)
	}
	if sc.Peek() != '@' {
		return s.fail(s.locationAt(sc.Cursor()), ErrUnterminatedExpansion, "%v: @%s", ErrUnterminatedExpansion, name)
	}
	sc.Next()

	if value, defined := s.macros.Lookup(name); defined {
		s.emit(value)
	}
	return nil
}

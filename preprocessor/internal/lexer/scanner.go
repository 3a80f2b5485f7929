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

// Package lexer provides the low-level scanning routines of the XS preprocessor. A Scanner walks the text of a single
// file forward, recognizing one construct at a time (whitespace, identifiers, string literals, comments), and tracks
// its location in the source for accurate error reporting.
package lexer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrStringLiteralMissingOpeningQuote = errors.New("expected opening quote for string literal")
	ErrStringLiteralUnterminated        = errors.New("unterminated string literal")
	ErrMultiLineCommentUnterminated     = errors.New("unterminated multi-line comment")
)

// EOF is returned by Scanner.Peek and Scanner.Next when no input is left.
const EOF rune = -1

type (
	// Error is a lexical error together with the location of the construct that caused it.
	Error struct {
		Location Cursor
		Err      error
	}

	// StringLiteral is a double-quoted string read by Scanner.ReadQuotedString.
	StringLiteral struct {
		Value string // content with escape sequences resolved
		Raw   string // verbatim source span, including quotes and backslashes
	}

	// Scanner reads the text of a single source file.
	Scanner struct {
		src    string
		cursor Cursor
	}
)

func (e *Error) Error() string { return fmt.Sprintf("%v: %v", e.Location, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

func NewScanner(src string) *Scanner {
	return &Scanner{src: src, cursor: CursorInit}
}

// Cursor returns the position of the next rune to be read.
func (s *Scanner) Cursor() Cursor { return s.cursor }

// Restore moves the scanner back to a cursor previously returned by Cursor, e.g. to resume after a failed read.
func (s *Scanner) Restore(c Cursor) { s.cursor = c }

func (s *Scanner) AtEOF() bool { return s.cursor.Offset >= len(s.src) }

// Since returns the source text between start and the current position.
func (s *Scanner) Since(start Cursor) string { return s.src[start.Offset:s.cursor.Offset] }

// Peek returns the next rune without consuming it.
func (s *Scanner) Peek() rune {
	if s.AtEOF() {
		return EOF
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.cursor.Offset:])
	return r
}

// HasPrefix reports whether the unread input starts with prefix.
func (s *Scanner) HasPrefix(prefix string) bool {
	return strings.HasPrefix(s.src[s.cursor.Offset:], prefix)
}

// Next consumes and returns the next rune.
func (s *Scanner) Next() rune {
	if s.AtEOF() {
		return EOF
	}
	r, size := utf8.DecodeRuneInString(s.src[s.cursor.Offset:])
	s.cursor = s.cursor.advancedByRune(r, size)
	return r
}

func (s *Scanner) consume(content string) {
	s.cursor = s.cursor.AdvancedBy(content)
}

// SkipHorizontalWhitespace advances past whitespace, stopping at a newline.
func (s *Scanner) SkipHorizontalWhitespace() {
	for r := s.Peek(); r != EOF && r != '\n' && unicode.IsSpace(r); r = s.Peek() {
		s.Next()
	}
}

// SkipLine advances to and past the next newline, or to the end of input.
func (s *Scanner) SkipLine() {
	rest := s.src[s.cursor.Offset:]
	if newline := strings.IndexByte(rest, '\n'); newline >= 0 {
		s.consume(rest[:newline+1])
	} else {
		s.consume(rest)
	}
}

// ReadLine returns the text up to, but not including, the next newline. The newline itself is not consumed.
func (s *Scanner) ReadLine() string {
	rest := s.src[s.cursor.Offset:]
	if newline := strings.IndexByte(rest, '\n'); newline >= 0 {
		rest = rest[:newline]
	}
	s.consume(rest)
	return rest
}

func isIdentifierRune(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// ReadIdentifier consumes the longest run of letters, digits, '_' and '-'. An empty result means that no identifier
// starts at the current position; nothing is consumed in that case.
func (s *Scanner) ReadIdentifier() string {
	start := s.cursor
	for r := s.Peek(); r != EOF && isIdentifierRune(r); r = s.Peek() {
		s.Next()
	}
	return s.Since(start)
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		// Covers \\ and \" as well as unknown escapes, which keep the escaped character as-is.
		return r
	}
}

// ReadQuotedString consumes a C-style double-quoted string literal. The literal may span multiple lines. Errors are
// reported at the location of the opening quote.
func (s *Scanner) ReadQuotedString() (StringLiteral, error) {
	start := s.cursor
	if s.Peek() != '"' {
		return StringLiteral{}, &Error{Location: start, Err: ErrStringLiteralMissingOpeningQuote}
	}
	s.Next()

	var value strings.Builder
	for !s.AtEOF() {
		runeStart := s.cursor
		switch s.Next() {
		case '"':
			return StringLiteral{Value: value.String(), Raw: s.Since(start)}, nil
		case '\\':
			if s.AtEOF() {
				break
			}
			escapeStart := s.cursor
			if r := s.Next(); r == utf8.RuneError {
				value.WriteString(s.Since(escapeStart))
			} else {
				value.WriteRune(unescape(r))
			}
		default:
			value.WriteString(s.Since(runeStart))
		}
	}
	return StringLiteral{}, &Error{Location: start, Err: ErrStringLiteralUnterminated}
}

// SkipLineComment consumes a '//' comment together with its terminating newline.
func (s *Scanner) SkipLineComment() {
	s.SkipLine()
}

// SkipBlockComment consumes a '/* ... */' comment. When the closing marker is missing the rest of the input is
// consumed and the error is reported at the location of the opening marker.
func (s *Scanner) SkipBlockComment() error {
	start := s.cursor
	rest := s.src[start.Offset:]
	if !strings.HasPrefix(rest, "/*") {
		return nil
	}
	end := strings.Index(rest[len("/*"):], "*/")
	if end < 0 {
		s.consume(rest)
		return &Error{Location: start, Err: ErrMultiLineCommentUnterminated}
	}
	s.consume(rest[:len("/*")+end+len("*/")])
	return nil
}

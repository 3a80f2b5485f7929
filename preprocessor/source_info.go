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

	"github.com/EngFlow/adex/preprocessor/internal/lexer"
)

type (
	// SourceInfo is the high-level information extracted from a single XS file without preprocessing it.
	SourceInfo struct {
		Includes []Include
	}

	// Include is an #include directive as written in the source.
	Include struct {
		Path         string // decoded file name, e.g. "./utils.xs"
		Line, Column int    // location of the quoted file name
	}
)

// ParseSource collects the #include directives of src. Comments and string literals are skipped the same way the
// preprocessor skips them, but conditionals are not evaluated and included files are not read: every directive of
// every branch is reported. A lexical error inside an #ifdef block only discards the rest of its line, since the
// preprocessor may never read that branch.
func ParseSource(src []byte) (SourceInfo, error) {
	var info SourceInfo
	depth := 0
	sc := lexer.NewScanner(string(src))
	for !sc.AtEOF() {
		start := sc.Cursor()
		var err error
		switch {
		case sc.Peek() == '"':
			_, err = sc.ReadQuotedString()
		case sc.HasPrefix("//"):
			sc.SkipLineComment()
		case sc.HasPrefix("/*"):
			err = sc.SkipBlockComment()
		case sc.Peek() == '#':
			var include *Include
			include, err = parseSourceDirective(sc, &depth)
			if include != nil {
				info.Includes = append(info.Includes, *include)
			}
		default:
			sc.Next()
		}
		if err != nil {
			if depth == 0 {
				return info, err
			}
			sc.Restore(start)
			sc.SkipLine()
		}
	}
	return info, nil
}

// parseSourceDirective consumes the directive line at the scanner position and updates the #ifdef depth. It returns
// the include named by an #include directive, if any.
func parseSourceDirective(sc *lexer.Scanner, depth *int) (*Include, error) {
	sc.Next()
	sc.SkipHorizontalWhitespace()
	directive, known := lookupDirective(sc.ReadIdentifier())
	if known && directive == DirectiveIfdef {
		*depth++
	} else if known && directive == DirectiveEndif && *depth > 0 {
		*depth--
	}
	if !known || directive != DirectiveInclude {
		// Directives are line based, a #define value may contain unbalanced quotes.
		sc.SkipLine()
		return nil, nil
	}
	sc.SkipHorizontalWhitespace()
	at := sc.Cursor()
	literal, err := sc.ReadQuotedString()
	if err != nil {
		return nil, err
	}
	sc.SkipLine()
	if literal.Value == "" {
		return nil, nil
	}
	return &Include{Path: literal.Value, Line: at.Line, Column: at.Column}, nil
}

// ParseSourceFile reads filename and feeds its contents to ParseSource.
func ParseSourceFile(filename string) (SourceInfo, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return SourceInfo{}, err
	}
	return ParseSource(content)
}

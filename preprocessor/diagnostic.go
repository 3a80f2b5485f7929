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
)

var (
	ErrMissingIdentifier     = errors.New("no macro identifier provided")
	ErrUnterminatedExpansion = errors.New("unterminated macro expansion pattern")
	ErrUnknownDirective      = errors.New("unknown preprocessor directive")
	ErrEmptyIncludePath      = errors.New("no filename provided for #include directive")
	ErrLocalIncludeNotFound  = errors.New("local included file not found")
	ErrIncludeNotFound       = errors.New("included file not found")
	ErrUnmatchedEndif        = errors.New("#endif without matching #ifdef")
)

type (
	// Severity distinguishes fatal diagnostics, which abort the whole run, from advisory ones.
	Severity int

	// Location of a diagnostic. Line and Column are both 1-based, so the first character of a file is at 1:1.
	// Earlier releases of adex printed 0-based columns; tools matching on columns must add one to those.
	Location struct {
		Path         string
		Line, Column int
	}

	// Diagnostic is a message tied to a location in a source file. Fatal diagnostics are returned as errors and
	// unwrap to one of the sentinel errors of this package (or of the file system).
	Diagnostic struct {
		Severity Severity
		Location Location
		Message  string
		Err      error
	}
)

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	default:
		return "Unknown"
	}
}

func (l Location) String() string {
	if l.Line == 0 {
		return l.Path
	}
	return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Column)
}

func (d *Diagnostic) Error() string { return fmt.Sprintf("%v: %s", d.Location, d.Message) }
func (d *Diagnostic) Unwrap() error { return d.Err }

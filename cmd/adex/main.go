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

// Command adex preprocesses an XS script into a single self-contained script:
//
//	adex [flags] <script.xs> -out <output.xs>
//
// Flags may be given before or after the script path.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/EngFlow/adex/preprocessor"
	"github.com/bmatcuk/doublestar/v4"
)

const version = "0.1.0"

const (
	exitSuccess = 0
	exitFailure = 1
	exitUsage   = 2
)

const (
	colorRed    = "\033[91m"
	colorYellow = "\033[93m"
	colorReset  = "\033[0m"
)

// stringList is a repeatable flag collecting every value it was given.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

type options struct {
	script     string
	out        string
	paths      stringList
	defines    stringList
	noLibs     bool
	verbose    bool
	version    bool
	libraryDir string
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("adex: ")
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, defaultLibraryDir()))
}

// defaultLibraryDir is the bundled XS library directory, "xs" next to the executable.
func defaultLibraryDir() string {
	executable, err := os.Executable()
	if err != nil {
		log.Printf("Failed to locate the adex executable, the XS library directory is disabled: %v", err)
		return ""
	}
	return filepath.Join(filepath.Dir(executable), "xs")
}

func run(args []string, stdout, stderr io.Writer, libraryDir string) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitSuccess
	}
	if err != nil {
		return exitUsage
	}
	if opts.version {
		fmt.Fprintf(stdout, "adex %s\n", version)
		return exitSuccess
	}
	opts.libraryDir = libraryDir

	includeDirs, err := validate(opts)
	if err != nil {
		printError(stdout, err.Error())
		return exitFailure
	}
	predefined, err := preprocessor.ParseMacros(opts.defines)
	if err != nil {
		printError(stdout, fmt.Sprintf("invalid macro definition: %v", err))
		return exitFailure
	}

	session := preprocessor.NewSession(preprocessor.Options{
		IncludeDirs: includeDirs,
		Predefined:  predefined,
		Reporter:    func(d preprocessor.Diagnostic) { printDiagnostic(stdout, d) },
	})
	if opts.verbose {
		log.Printf("Processing %v with include directories %v", opts.script, includeDirs)
	}
	if err := session.Process(opts.script); err != nil {
		var diagnostic *preprocessor.Diagnostic
		if errors.As(err, &diagnostic) {
			printDiagnostic(stdout, *diagnostic)
		} else {
			printError(stdout, err.Error())
		}
		return exitFailure
	}

	if err := os.WriteFile(opts.out, []byte(session.Output()), 0o644); err != nil {
		printError(stdout, fmt.Sprintf("failed to write output script: %v", err))
		return exitFailure
	}
	if opts.verbose {
		log.Printf("Wrote %v from %d file(s)", opts.out, len(session.ProcessedFiles()))
	}
	return exitSuccess
}

func parseArgs(args []string, output io.Writer) (options, error) {
	var opts options
	flags := flag.NewFlagSet("adex", flag.ContinueOnError)
	flags.SetOutput(output)
	flags.Usage = func() {
		fmt.Fprintln(output, "Usage: adex [flags] <script.xs>\n\nAoE2DE XS script preprocessor.\n\nFlags:")
		flags.PrintDefaults()
	}
	flags.StringVar(&opts.out, "out", "", "Path of the output script, must have the .xs extension")
	flags.StringVar(&opts.out, "o", "", "Shorthand for -out")
	flags.Var(&opts.paths, "paths", "Additional include directory, may be a glob pattern. Can be repeated")
	flags.Var(&opts.paths, "p", "Shorthand for -paths")
	flags.Var(&opts.defines, "D", "Predefine a macro as NAME or NAME=value. Can be repeated")
	flags.BoolVar(&opts.noLibs, "no-libs", false, "Don't implicitly include the adex XS library directory")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	flags.BoolVar(&opts.version, "version", false, "Print the version and exit")
	flags.BoolVar(&opts.version, "v", false, "Shorthand for -version")

	// The flag package stops at the first positional argument, resume parsing after each one.
	var positional []string
	for {
		if err := flags.Parse(args); err != nil {
			return opts, err
		}
		args = flags.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	if opts.version {
		return opts, nil
	}
	if len(positional) != 1 {
		err := fmt.Errorf("expected exactly 1 input script, got %d", len(positional))
		fmt.Fprintln(output, err)
		flags.Usage()
		return opts, err
	}
	opts.script = positional[0]
	return opts, nil
}

// validate checks the command line in the order the user is most likely to fix it and returns the include directories
// to search, the library directory first.
func validate(opts options) ([]string, error) {
	info, err := os.Stat(opts.script)
	if err != nil {
		return nil, fmt.Errorf("input script file %q does not exist", opts.script)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("input script path %q is not a file", opts.script)
	}

	var includeDirs []string
	if !opts.noLibs && opts.libraryDir != "" {
		includeDirs = append(includeDirs, opts.libraryDir)
	}
	for _, pattern := range opts.paths {
		dirs, err := expandIncludePath(pattern)
		if err != nil {
			return nil, err
		}
		includeDirs = append(includeDirs, dirs...)
	}

	if opts.out == "" {
		return nil, errors.New("output script path is required, use -out or -o")
	}
	if filepath.Ext(opts.out) != ".xs" {
		return nil, errors.New("output script file extension must be .xs for the scenario editor to detect it")
	}
	return includeDirs, nil
}

// expandIncludePath resolves an include path argument into directories. Plain paths must exist, glob patterns must
// match at least one path, and every match must be a directory.
func expandIncludePath(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("additional include path %q is not a valid pattern: %v", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("additional include path %q does not exist", pattern)
	}
	for _, match := range matches {
		if info, err := os.Stat(match); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("additional include path %q is not a directory", match)
		}
	}
	return matches, nil
}

func printError(w io.Writer, message string) {
	fmt.Fprintf(w, "%s[Error] %s%s\n", colorRed, message, colorReset)
}

func printDiagnostic(w io.Writer, d preprocessor.Diagnostic) {
	color := colorYellow
	if d.Severity == preprocessor.SeverityError {
		color = colorRed
	}
	fmt.Fprintf(w, "%s[%v] %s File: %s, Line: %d, Col: %d%s\n",
		color, d.Severity, d.Message, d.Location.Path, d.Location.Line, d.Location.Column, colorReset)
}

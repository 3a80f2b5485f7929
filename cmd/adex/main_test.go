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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestRunWritesOutput(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"src/main.xs":         "#include \"core.xs\"\n#include \"extra.xs\"\n@MODE@ @PLAYERS@\n",
		"lib/core.xs":         "core\n",
		"addons/one/extra.xs": "extra\n",
	})
	out := filepath.Join(root, "out.xs")
	var stdout, stderr bytes.Buffer

	code := run([]string{
		filepath.Join(root, "src", "main.xs"),
		"-o", out,
		"-p", filepath.Join(root, "addons", "*"),
		"-D", "MODE=test",
		"-D", "PLAYERS=8",
	}, &stdout, &stderr, filepath.Join(root, "lib"))

	require.Equal(t, exitSuccess, code, stdout.String())
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "core\nextra\ntest 8\n", string(content))
	assert.Empty(t, stdout.String())
}

func TestRunNoLibs(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"main.xs":     "#include \"core.xs\"\n",
		"lib/core.xs": "core\n",
	})
	out := filepath.Join(root, "out.xs")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-no-libs", "-out", out, filepath.Join(root, "main.xs")}, &stdout, &stderr, filepath.Join(root, "lib"))

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stdout.String(), "[Error] included file \"core.xs\" not found")
	assert.Contains(t, stdout.String(), "File: "+filepath.Join(root, "main.xs")+", Line: 1, Col: 10")
	assert.NoFileExists(t, out)
}

func TestRunPrintsWarnings(t *testing.T) {
	root := writeFiles(t, map[string]string{"main.xs": "ok\n#undef MISSING\n"})
	out := filepath.Join(root, "out.xs")
	var stdout, stderr bytes.Buffer

	code := run([]string{"-o", out, filepath.Join(root, "main.xs")}, &stdout, &stderr, "")

	assert.Equal(t, exitSuccess, code)
	assert.Equal(t,
		colorYellow+`[Warning] attempted to undefine undefined macro "MISSING" File: `+filepath.Join(root, "main.xs")+", Line: 2, Col: 8"+colorReset+"\n",
		stdout.String())
	assert.FileExists(t, out)
}

func TestRunValidation(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"main.xs":       "",
		"not_a_dir.txt": "",
		"dir/.keep":     "",
	})
	script := filepath.Join(root, "main.xs")
	out := filepath.Join(root, "out.xs")

	testCases := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "missing script",
			args:     []string{"-o", out, filepath.Join(root, "missing.xs")},
			expected: "does not exist",
		},
		{
			name:     "script is a directory",
			args:     []string{"-o", out, filepath.Join(root, "dir")},
			expected: "is not a file",
		},
		{
			name:     "missing include path",
			args:     []string{"-o", out, "-p", filepath.Join(root, "nope"), script},
			expected: "additional include path",
		},
		{
			name:     "include path is a file",
			args:     []string{"-o", out, "-p", filepath.Join(root, "not_a_dir.txt"), script},
			expected: "is not a directory",
		},
		{
			name:     "missing output",
			args:     []string{script},
			expected: "output script path is required",
		},
		{
			name:     "wrong output extension",
			args:     []string{"-o", filepath.Join(root, "out.txt"), script},
			expected: "must be .xs",
		},
		{
			name:     "invalid macro",
			args:     []string{"-o", out, "-D", "BAD NAME", script},
			expected: "invalid macro definition",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tc.args, &stdout, &stderr, "")
			assert.Equal(t, exitFailure, code)
			assert.Contains(t, stdout.String(), colorRed+"[Error] ")
			assert.Contains(t, stdout.String(), tc.expected)
			assert.NoFileExists(t, out)
		})
	}
}

func TestRunUsage(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		expected int
	}{
		{name: "no script", args: nil, expected: exitUsage},
		{name: "two scripts", args: []string{"a.xs", "b.xs"}, expected: exitUsage},
		{name: "unknown flag", args: []string{"-unknown", "a.xs"}, expected: exitUsage},
		{name: "help", args: []string{"-help"}, expected: exitSuccess},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tc.expected, run(tc.args, &stdout, &stderr, ""))
			assert.Contains(t, stderr.String(), "Usage: adex")
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRunVersion(t *testing.T) {
	for _, flag := range []string{"-v", "-version"} {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, exitSuccess, run([]string{flag}, &stdout, &stderr, ""))
		assert.Equal(t, "adex "+version+"\n", stdout.String())
	}
}

// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStubs(t *testing.T) {
	var out bytes.Buffer
	code := run(filepath.Join("..", "..", "decl", "testdata", "stubs.yaml"), &out, false)
	assert.Equal(t, 0, code, out.String())
	assert.Equal(t, "ok: 0 diagnostics (0 errors), 17/17 checks passed\n", out.String())
}

func TestRunFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	src := strings.Join([]string{
		"module: broken",
		"classes:",
		"  - name: Animal",
		"    members:",
		"      speak: \"() -> str\"",
		"  - name: Cat",
		"    bases: [Animal]",
		"    overrides: [speak]",
		"    members:",
		"      speak: \"() -> int\"",
		"checks:",
		"  - subtype: [int, bool]",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	var out bytes.Buffer
	assert.Equal(t, 1, run(path, &out, false))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], path+": error: Cat: TypeMismatch at speak.return: Cat.speak is incompatible"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], path+": check failed: checks[0]: int <: bool: "), lines[1])
	assert.Equal(t, "FAIL: 1 diagnostics (1 errors), 0/1 checks passed", lines[2])

	out.Reset()
	assert.Equal(t, 1, run(filepath.Join(t.TempDir(), "missing.yaml"), &out, true))
	assert.Empty(t, out.String())
}

func TestPaint(t *testing.T) {
	assert.Equal(t, "x", printer{}.paint(colorRed, "x"))
	assert.Equal(t, colorRed+"x"+colorReset, printer{color: true}.paint(colorRed, "x"))
}

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

// Command gradual checks the declarations of a YAML stub document: class overrides, overload groups and
// the document's own subtype and call assertions.
//
//	gradual [-no-color] stubs.yaml
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/wdamron/gradual"
	"github.com/wdamron/gradual/decl"
	"github.com/wdamron/gradual/internal/typeutil"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
	colorGreen  = "\x1b[32m"
)

func main() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	fs := flag.NewFlagSet("gradual", flag.ExitOnError)
	noColor := fs.Bool("no-color", false, "disable colored output")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: gradual [-no-color] stubs.yaml")
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	color := !*noColor && useColor(os.Stdout)
	os.Exit(run(fs.Arg(0), os.Stdout, color))
}

// useColor reports whether f is a terminal which should receive colored output.
func useColor(f *os.File) bool {
	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// run checks the stub document at path, writing one line per diagnostic or failed assertion to out.
// The result is the process exit code.
func run(path string, out io.Writer, color bool) int {
	stubs, err := decl.LoadFile(path)
	if err != nil {
		log.Printf("gradual: %v", err)
		return 1
	}

	sink := &gradual.Collector{}
	opts := stubs.Options
	opts.Sink = sink
	c := gradual.New(stubs.Module, opts)
	for _, cls := range stubs.Module.Classes.Classes() {
		c.CheckClass(cls)
	}
	for _, group := range stubs.Module.OverloadGroups() {
		c.CheckOverloads(group)
	}

	p := printer{out: out, color: color}
	for _, d := range sink.Diagnostics {
		p.diagnostic(path, d)
	}
	failed := 0
	for _, r := range stubs.RunChecks(c) {
		if !r.Passed {
			failed++
			p.line(path, colorRed, "check failed", r.Check.String()+": "+r.Detail)
		}
	}

	errs := sink.Errors()
	p.summary(len(sink.Diagnostics), errs, len(stubs.Checks), failed)
	if errs > 0 || failed > 0 {
		return 1
	}
	return 0
}

type printer struct {
	out   io.Writer
	color bool
}

func (p printer) paint(color, s string) string {
	if !p.color {
		return s
	}
	return color + s + colorReset
}

func (p printer) line(path, color, label, msg string) {
	fmt.Fprintf(p.out, "%s: %s: %s\n", path, p.paint(color, label), msg)
}

func (p printer) diagnostic(path string, d gradual.Diagnostic) {
	color := colorRed
	switch d.Severity {
	case gradual.Warning:
		color = colorYellow
	case gradual.Note:
		color = colorCyan
	}
	m := typeutil.Mismatch{Kind: d.Kind, Path: d.Path, Source: d.Source, Target: d.Target, Member: d.Member, Detail: d.Detail}
	msg := m.Error()
	if d.Function != "" {
		msg = d.Function + ": " + msg
	}
	p.line(path, color, d.Severity.String(), msg)
}

func (p printer) summary(diags, errs, checks, failed int) {
	status := p.paint(colorGreen, "ok")
	if errs > 0 || failed > 0 {
		status = p.paint(colorRed, "FAIL")
	}
	fmt.Fprintf(p.out, "%s: %d diagnostics (%d errors), %d/%d checks passed\n", status, diags, errs, checks-failed, checks)
}

/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package executor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Sink receives all operator-facing output from an execution run. Giving it
// an explicit handle keeps the engine silent by default and testable without
// capturing stdout.
type Sink interface {
	Infof(format string, a ...any)
	Successf(format string, a ...any)
	Warnf(format string, a ...any)
	Errorf(format string, a ...any)
	// Writer receives live subprocess output.
	Writer() io.Writer
}

// ConsoleSink writes colored output to the terminal.
type ConsoleSink struct {
	out io.Writer

	success *color.Color
	warn    *color.Color
	fail    *color.Color
}

// NewConsoleSink creates a sink writing to out; nil means os.Stdout.
func NewConsoleSink(out io.Writer) *ConsoleSink {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleSink{
		out:     out,
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed, color.Bold),
	}
}

func (s *ConsoleSink) Infof(format string, a ...any) {
	fmt.Fprintf(s.out, format+"\n", a...)
}

func (s *ConsoleSink) Successf(format string, a ...any) {
	s.success.Fprintf(s.out, format+"\n", a...)
}

func (s *ConsoleSink) Warnf(format string, a ...any) {
	s.warn.Fprintf(s.out, format+"\n", a...)
}

func (s *ConsoleSink) Errorf(format string, a ...any) {
	s.fail.Fprintf(s.out, format+"\n", a...)
}

func (s *ConsoleSink) Writer() io.Writer { return s.out }

// RecordingSink captures output for assertions in tests.
type RecordingSink struct {
	mu    sync.Mutex
	lines []string
	buf   bytes.Buffer
}

func (s *RecordingSink) record(kind, format string, a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, kind+": "+fmt.Sprintf(format, a...))
}

func (s *RecordingSink) Infof(format string, a ...any)    { s.record("info", format, a...) }
func (s *RecordingSink) Successf(format string, a ...any) { s.record("success", format, a...) }
func (s *RecordingSink) Warnf(format string, a ...any)    { s.record("warn", format, a...) }
func (s *RecordingSink) Errorf(format string, a ...any)   { s.record("error", format, a...) }
func (s *RecordingSink) Writer() io.Writer                { return &s.buf }

// Lines returns everything recorded so far.
func (s *RecordingSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

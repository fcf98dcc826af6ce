// Package logging provides a deliberately small, framework-agnostic logging
// contract plus a JSON stdout implementation used across sitecheck.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Field is a simple key/value pair for structured logging fields.
type Field struct {
	Key   string
	Value any
}

// Logger is the cross-package logging contract. Keep implementations small
// so any backend can be swapped in.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger with persistent fields.
	With(fields ...Field) Logger
}

// StdoutLogger prints JSON lines. The component name set via With
// ("component" field) is carried on every entry.
type StdoutLogger struct {
	component string
	out       io.Writer
}

// NewStdoutLogger creates a StdoutLogger. component may be empty.
func NewStdoutLogger(component string) *StdoutLogger {
	return &StdoutLogger{component: component, out: os.Stdout}
}

// NewWriterLogger creates a StdoutLogger that writes to w instead of stdout.
// Useful for routing logs to stderr so report output stays clean.
func NewWriterLogger(component string, w io.Writer) *StdoutLogger {
	return &StdoutLogger{component: component, out: w}
}

func (s *StdoutLogger) log(level, msg string, fields ...Field) {
	type entry struct {
		Level     string         `json:"level"`
		Msg       string         `json:"msg"`
		Component string         `json:"component,omitempty"`
		Time      string         `json:"time"`
		Fields    map[string]any `json:"fields,omitempty"`
	}
	var m map[string]any
	if len(fields) > 0 {
		m = make(map[string]any, len(fields))
		for _, f := range fields {
			m[f.Key] = f.Value
		}
	}
	enc, err := json.Marshal(entry{
		Level:     level,
		Msg:       msg,
		Component: s.component,
		Time:      time.Now().UTC().Format(time.RFC3339),
		Fields:    m,
	})
	if err != nil {
		fmt.Fprintf(s.out, "%s %s %v\n", level, msg, m)
		return
	}
	fmt.Fprintln(s.out, string(enc))
}

func (s *StdoutLogger) Debug(msg string, fields ...Field) { s.log("debug", msg, fields...) }
func (s *StdoutLogger) Info(msg string, fields ...Field)  { s.log("info", msg, fields...) }
func (s *StdoutLogger) Warn(msg string, fields ...Field)  { s.log("warn", msg, fields...) }
func (s *StdoutLogger) Error(msg string, fields ...Field) { s.log("error", msg, fields...) }

func (s *StdoutLogger) With(fields ...Field) Logger {
	child := &StdoutLogger{component: s.component, out: s.out}
	for _, f := range fields {
		if f.Key == "component" {
			if str, ok := f.Value.(string); ok {
				child.component = str
			}
		}
	}
	return child
}

// Nop is a Logger that discards everything. Handy as a default in
// constructors that tolerate a nil logger.
type Nop struct{}

func (Nop) Debug(string, ...Field) {}
func (Nop) Info(string, ...Field)  {}
func (Nop) Warn(string, ...Field)  {}
func (Nop) Error(string, ...Field) {}
func (n Nop) With(...Field) Logger { return n }

// OrNop returns l, or a Nop logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop{}
	}
	return l
}

// Package report renders analysis reports as terminal text, JSON or
// Markdown.
package report

import (
	"io"

	"github.com/raysh454/sitecheck/internal/model"
)

// Writer outputs one report to a configured destination. Implementations
// return the number of bytes written.
type Writer interface {
	Write(report *model.Report) (int, error)
}

// MultiWriter fans one report out to several Writers, e.g. terminal text
// plus a Markdown file. It stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers and returns the total
// bytes written.
func (m *MultiWriter) Write(report *model.Report) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter holds the output destination shared by all writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

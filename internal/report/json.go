package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/raysh454/sitecheck/internal/model"
)

// JSONWriter outputs reports as JSON for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent bool

	// full includes the scraped site content alongside the analysis result.
	full bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables two-space indented output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// WithFullReport includes the scraped site content and processing metadata
// in the output instead of just the analysis result.
func WithFullReport() JSONWriterOption {
	return func(w *JSONWriter) {
		w.full = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// jsonDocument is the default output shape: the analysis result plus
// processing metadata, without the scraped page. Timestamp shadows the
// embedded analysis_timestamp so the document carries a "timestamp" key.
type jsonDocument struct {
	model.AnalysisResult
	AnalysisTimestamp time.Time `json:"timestamp"`
	ProcessingTime    float64   `json:"processing_time"`
	Errors            []string  `json:"errors,omitempty"`
}

// Write marshals the report and writes it with a trailing newline.
func (w *JSONWriter) Write(report *model.Report) (int, error) {
	var v any = jsonDocument{
		AnalysisResult:    report.AnalysisResult,
		AnalysisTimestamp: report.AnalysisResult.AnalysisTimestamp,
		ProcessingTime:    report.ProcessingTime,
		Errors:            report.Errors,
	}
	if w.full {
		v = report
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}

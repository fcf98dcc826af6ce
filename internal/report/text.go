package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/raysh454/sitecheck/internal/model"
)

// TextWriter outputs human-readable reports for terminal display. Plain
// ASCII only, so output pipes cleanly into files and other tools.
type TextWriter struct {
	baseWriter

	// verbose adds security flags and technical details to the output.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables the security-flags and technical-details sections.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *TextWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder
	result := report.AnalysisResult

	sb.WriteString(fmt.Sprintf("URL:            %s\n", result.URL))
	sb.WriteString(fmt.Sprintf("Risk score:     %.1f/10\n", result.RiskScore))
	sb.WriteString(fmt.Sprintf("Confidence:     %.0f%%\n", result.Confidence*100))
	sb.WriteString(fmt.Sprintf("Recommendation: %s\n", result.Recommendation))

	if len(result.SuspiciousElements) > 0 {
		sb.WriteString("\nSuspicious elements:\n")
		for _, element := range result.SuspiciousElements {
			sb.WriteString("  - " + element + "\n")
		}
	}

	if len(result.LegitimateIndicators) > 0 {
		sb.WriteString("\nLegitimate indicators:\n")
		for _, indicator := range result.LegitimateIndicators {
			sb.WriteString("  - " + indicator + "\n")
		}
	}

	if w.verbose {
		w.writeFlags(&sb, result.SecurityFlags)
	}

	if result.BrandImpersonation != nil {
		sb.WriteString(fmt.Sprintf("\nPossible brand impersonation: %s\n", *result.BrandImpersonation))
	}

	sb.WriteString("\nExplanation:\n")
	sb.WriteString("  " + result.Explanation + "\n")

	if w.verbose {
		w.writeTechnical(&sb, report)
	}

	return w.output.Write([]byte(sb.String()))
}

func (w *TextWriter) writeFlags(sb *strings.Builder, flags model.SecurityFlags) {
	sb.WriteString("\nSecurity flags:\n")
	sb.WriteString(fmt.Sprintf("  - HTTPS:               %s\n", okWarn(flags.HasHTTPS, "yes", "NO")))
	sb.WriteString(fmt.Sprintf("  - Suspicious keywords: %s\n", okWarn(!flags.HasSuspiciousKeywords, "none", "FOUND")))
	sb.WriteString(fmt.Sprintf("  - Login forms:         %s\n", okWarn(!flags.HasLoginForms, "none", "FOUND")))
	sb.WriteString(fmt.Sprintf("  - Payment forms:       %s\n", okWarn(!flags.HasPaymentForms, "none", "FOUND")))
}

func (w *TextWriter) writeTechnical(sb *strings.Builder, report *model.Report) {
	sb.WriteString("\nTechnical details:\n")
	sb.WriteString(fmt.Sprintf("  - Processing time: %.2fs\n", report.ProcessingTime))
	if report.SiteContent != nil {
		sb.WriteString(fmt.Sprintf("  - Response time:   %.2fs\n", report.SiteContent.ResponseTime))
		sb.WriteString(fmt.Sprintf("  - Status code:     %d\n", report.SiteContent.StatusCode))
	}
	if len(report.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("  - Errors:          %s\n", strings.Join(report.Errors, ", ")))
	}
}

func okWarn(ok bool, okText, warnText string) string {
	if ok {
		return okText
	}
	return warnText
}

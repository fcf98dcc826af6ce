package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/raysh454/sitecheck/internal/model"
)

// MarkdownWriter outputs reports as GitHub-flavored Markdown, suitable for
// documentation and sharing triage results.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)
	result := report.AnalysisResult

	md.H1("Site Analysis Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + result.URL + "`"},
			{"Risk score", fmt.Sprintf("%.1f/10", result.RiskScore)},
			{"Confidence", fmt.Sprintf("%.0f%%", result.Confidence*100)},
			{"Analyzed at", result.AnalysisTimestamp.Format("2006-01-02 15:04:05 MST")},
			{"Recommendation", result.Recommendation},
		},
	})
	md.PlainText("")

	w.writeAlert(md, result.RiskScore)

	md.H2("Security Flags")
	md.PlainText("")
	flags := result.SecurityFlags
	md.Table(markdown.TableSet{
		Header: []string{"Flag", "Value"},
		Rows: [][]string{
			{"HTTPS", strconv.FormatBool(flags.HasHTTPS)},
			{"Suspicious keywords", strconv.FormatBool(flags.HasSuspiciousKeywords)},
			{"Login forms", strconv.FormatBool(flags.HasLoginForms)},
			{"Payment forms", strconv.FormatBool(flags.HasPaymentForms)},
		},
	})
	md.PlainText("")

	if len(result.SuspiciousElements) > 0 {
		md.H2("Suspicious Elements")
		md.PlainText("")
		md.BulletList(result.SuspiciousElements...)
		md.PlainText("")
	}

	if len(result.LegitimateIndicators) > 0 {
		md.H2("Legitimate Indicators")
		md.PlainText("")
		md.BulletList(result.LegitimateIndicators...)
		md.PlainText("")
	}

	if result.BrandImpersonation != nil {
		md.H2("Brand Impersonation")
		md.PlainText("")
		md.PlainText("Possible impersonation of: **" + *result.BrandImpersonation + "**")
		md.PlainText("")
	}

	md.H2("Explanation")
	md.PlainText("")
	md.PlainText(result.Explanation)
	md.PlainText("")

	if len(report.Errors) > 0 {
		md.H2("Errors")
		md.PlainText("")
		md.BulletList(report.Errors...)
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainTextf("*Processing time: %.2fs*", report.ProcessingTime)

	return len(md.String()), md.Build()
}

// writeAlert writes a severity alert matching the risk band.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, riskScore float64) {
	switch {
	case riskScore >= 7:
		md.Cautionf("High phishing risk (%.1f/10). Do not enter credentials on this site.", riskScore)
	case riskScore >= 3:
		md.Warningf("Medium phishing risk (%.1f/10). Treat this site with caution.", riskScore)
	default:
		md.Tip(fmt.Sprintf("Low phishing risk (%.1f/10).", riskScore))
	}
	md.PlainText("")
}

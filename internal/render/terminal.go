// Package render turns a finished report into its presentation forms.
// Everything here is a pure transformation of the report value.
package render

import (
	"fmt"
	"io"

	"vulnsight/internal/report"
)

func severityGlyph(s report.Severity) string {
	switch s {
	case report.SeverityHigh:
		return "🔴"
	case report.SeverityMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

// Terminal writes the human-readable report. Non-verbose output shows at
// most ten findings.
func Terminal(w io.Writer, r *report.Report, verbose bool) {
	fmt.Fprintf(w, "🔍 Security Scan: %s\n", r.Root)
	fmt.Fprintf(w, "   Scan ID: %s\n", r.ScanID)
	fmt.Fprintf(w, "   Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(w, "📊 Findings\n")
	fmt.Fprintf(w, "   Total: %d\n", r.Summary.Total)
	if r.Summary.High > 0 {
		fmt.Fprintf(w, "   🔴 HIGH: %d\n", r.Summary.High)
	}
	if r.Summary.Medium > 0 {
		fmt.Fprintf(w, "   🟡 MEDIUM: %d\n", r.Summary.Medium)
	}
	if r.Summary.Low > 0 {
		fmt.Fprintf(w, "   🟢 LOW: %d\n", r.Summary.Low)
	}
	if r.Summary.Total == 0 {
		fmt.Fprintf(w, "   ✅ No vulnerabilities found\n")
	}
	fmt.Fprintln(w)

	for i, v := range r.Vulnerabilities {
		if !verbose && i >= 10 {
			fmt.Fprintf(w, "   ... and %d more (use --verbose)\n", len(r.Vulnerabilities)-10)
			break
		}
		fmt.Fprintf(w, "   %s [%s] %s:%d\n", severityGlyph(v.Severity), v.Severity, v.File, v.Line)
		fmt.Fprintf(w, "      %s\n", v.Description)
		if verbose && v.Recommendation != "" {
			fmt.Fprintf(w, "      ↳ %s\n", v.Recommendation)
		}
	}
	if len(r.Vulnerabilities) > 0 {
		fmt.Fprintln(w)
	}

	if len(r.Insights) > 0 {
		fmt.Fprintf(w, "💡 Assessment\n")
		for _, ins := range r.Insights {
			fmt.Fprintf(w, "   %s\n", ins)
		}
	}
}

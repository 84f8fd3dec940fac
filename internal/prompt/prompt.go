// Package prompt serializes a codebase context and the response contract
// into the text blocks sent to the model.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"vulnsight/internal/report"
	"vulnsight/internal/scan"
)

// MaxInsightFindings caps how many findings are quoted in the insight
// prompt: the first N in input order, no re-sorting.
const MaxInsightFindings = 10

var strictJSONConstraints = []string{
	"Return strict JSON only.",
	"Match the schema exactly; no extra fields.",
	"No markdown, comments, or trailing commas.",
	"Do not invent paths, filenames, or line numbers; use only provided inputs.",
}

// FormatContext renders the summary header plus one fenced section per file,
// labeled with its relative path and language tag.
func FormatContext(cctx *scan.CodebaseContext) string {
	var buf strings.Builder
	writeSection(&buf, "CODEBASE SUMMARY", formatSummary(cctx.Summary))
	var files strings.Builder
	for _, f := range cctx.Files {
		fmt.Fprintf(&files, "--- %s (%s) ---\n", f.Path, f.Language)
		files.WriteString("```" + string(f.Language) + "\n")
		files.WriteString(f.Content)
		if !strings.HasSuffix(f.Content, "\n") {
			files.WriteString("\n")
		}
		files.WriteString("```\n")
	}
	writeSection(&buf, "FILES", files.String())
	return buf.String()
}

// BuildAnalysis renders the full vulnerability-detection prompt.
func BuildAnalysis(cctx *scan.CodebaseContext) string {
	var buf strings.Builder
	writeSection(&buf, "PURPOSE",
		"You are a security auditor. Review the codebase below and report every security vulnerability you find.")
	buf.WriteString(FormatContext(cctx))
	writeSection(&buf, "SECURITY CATEGORIES", formatList(SecurityCategories))
	writeSection(&buf, "OUTPUT", DescribeSchema(AnalysisSchema()))
	writeSection(&buf, "CONSTRAINTS", formatList(strictJSONConstraints))
	return strings.TrimSpace(buf.String()) + "\n"
}

// BuildInsight renders the narrative-generation prompt from severity counts
// and up to MaxInsightFindings representative entries.
func BuildInsight(vulns []report.Vulnerability) string {
	high, medium, low := 0, 0, 0
	for _, v := range vulns {
		switch v.Severity {
		case report.SeverityHigh:
			high++
		case report.SeverityMedium:
			medium++
		case report.SeverityLow:
			low++
		}
	}

	var buf strings.Builder
	writeSection(&buf, "PURPOSE",
		"You are a security analyst. Summarize the vulnerability scan results below into one cohesive narrative risk assessment. If no vulnerabilities were found, describe the posture of a clean codebase and what should still be watched.")
	writeSection(&buf, "FINDINGS SUMMARY",
		fmt.Sprintf("total: %d\nhigh: %d\nmedium: %d\nlow: %d", len(vulns), high, medium, low))

	var findings strings.Builder
	for i, v := range vulns {
		if i >= MaxInsightFindings {
			fmt.Fprintf(&findings, "... and %d more\n", len(vulns)-MaxInsightFindings)
			break
		}
		fmt.Fprintf(&findings, "- [%s] %s:%d %s\n", v.Severity, v.File, v.Line, v.Description)
	}
	writeSection(&buf, "FINDINGS", findings.String())
	writeSection(&buf, "OUTPUT", DescribeSchema(InsightSchema()))
	writeSection(&buf, "CONSTRAINTS", formatList(strictJSONConstraints))
	return strings.TrimSpace(buf.String()) + "\n"
}

func formatSummary(s scan.Summary) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "files: %d\n", s.TotalFiles)
	fmt.Fprintf(&buf, "lines: %d\n", s.TotalLines)
	fmt.Fprintf(&buf, "largest file: %s\n", s.LargestFile)
	fmt.Fprintf(&buf, "mean file size: %d bytes\n", s.MeanSize)
	langs := make([]string, 0, len(s.Languages))
	for l := range s.Languages {
		langs = append(langs, string(l))
	}
	sort.Strings(langs)
	for _, l := range langs {
		fmt.Fprintf(&buf, "language %s: %d\n", l, s.Languages[scan.Language(l)])
	}
	return strings.TrimRight(buf.String(), "\n")
}

func formatList(items []string) string {
	var buf strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fmt.Fprintf(&buf, "- %s\n", item)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func writeSection(buf *strings.Builder, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}

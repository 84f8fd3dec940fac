// Package report holds the scan's terminal value: the vulnerability list,
// recomputed severity counts and the insight narrative, plus its committed
// JSON wire format.
package report

import (
	"os"
	"time"

	"github.com/google/uuid"

	"vulnsight/internal/jsonutil"
)

// Severity is the only ordering dimension for reported vulnerabilities.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Valid reports whether s is one of the three known levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Vulnerability is a single model-reported finding. Only the analysis
// client constructs these, from a schema-validated response.
type Vulnerability struct {
	Severity       Severity `json:"severity"`
	File           string   `json:"file"`
	Line           int      `json:"line"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
}

// SummaryCounts partitions the vulnerability list by severity.
// Total always equals High+Medium+Low.
type SummaryCounts struct {
	Total  int `json:"total"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Report is the terminal point of the scan pipeline.
type Report struct {
	ScanID          string          `json:"scan_id"`
	Root            string          `json:"root"`
	GeneratedAt     time.Time       `json:"generated_at"`
	Summary         SummaryCounts   `json:"summary"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Insights        []string        `json:"insights"`
}

// Assemble builds a report, recounting severities from the list itself.
// The model's self-reported counts are never trusted here.
func Assemble(root string, vulns []Vulnerability, insights []string) *Report {
	if vulns == nil {
		vulns = []Vulnerability{}
	}
	if insights == nil {
		insights = []string{}
	}
	var counts SummaryCounts
	for _, v := range vulns {
		counts.Total++
		switch v.Severity {
		case SeverityHigh:
			counts.High++
		case SeverityMedium:
			counts.Medium++
		case SeverityLow:
			counts.Low++
		}
	}
	return &Report{
		ScanID:          uuid.NewString(),
		Root:            root,
		GeneratedAt:     time.Now().UTC(),
		Summary:         counts,
		Vulnerabilities: vulns,
		Insights:        insights,
	}
}

// MarshalJSONBytes renders the committed wire format.
func (r *Report) MarshalJSONBytes() ([]byte, error) {
	return jsonutil.MarshalNoEscape(r)
}

// Parse decodes the wire format back into a Report.
func Parse(data []byte) (*Report, error) {
	var r Report
	if err := jsonutil.UnmarshalFlex(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// WriteFile writes the wire format to path.
func (r *Report) WriteFile(path string) error {
	b, err := r.MarshalJSONBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

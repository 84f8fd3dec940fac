// Package analysis drives the two remote-model requests: vulnerability
// detection over a condensed codebase context, and the narrative insight
// that summarizes the findings. All failures surface as tagged errs kinds.
package analysis

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"vulnsight/internal/errs"
	"vulnsight/internal/jsonutil"
	"vulnsight/internal/llm"
	"vulnsight/internal/prompt"
	"vulnsight/internal/report"
	"vulnsight/internal/scan"
)

// Analyzer runs scans against one configured model.
type Analyzer struct {
	LLM    llm.Client
	APIKey string
	Model  string
	// MaxFiles bounds the condensed context; 0 means scan.DefaultMaxFiles.
	MaxFiles int
	// ScanOptions are passed through to the file scanner.
	ScanOptions scan.Options
}

// modelAnalysis mirrors the analysis response schema. Vulnerabilities is a
// pointer so a response missing the array entirely is distinguishable from
// a present-but-empty one.
type modelAnalysis struct {
	Vulnerabilities *[]report.Vulnerability `json:"vulnerabilities"`
	Summary         json.RawMessage         `json:"summary"`
}

// modelInsight mirrors the insight response schema.
type modelInsight struct {
	Narrative      string          `json:"narrative"`
	RiskAssessment *riskAssessment `json:"risk_assessment"`
}

type riskAssessment struct {
	RiskLevel     string   `json:"risk_level"`
	PriorityAreas []string `json:"priority_areas"`
}

func (a *Analyzer) checkPreconditions() error {
	if a.LLM == nil {
		return errs.New(errs.KindValidation, "model client is not configured")
	}
	if strings.TrimSpace(a.APIKey) == "" {
		return errs.New(errs.KindValidation, "API key is empty")
	}
	if strings.TrimSpace(a.Model) == "" {
		return errs.New(errs.KindValidation, "model identifier is empty")
	}
	return nil
}

// AnalyzeCodebase builds the condensed context for root, issues the
// analysis request and returns the schema-validated vulnerability list.
// An empty list is a valid "no issues found" result.
func (a *Analyzer) AnalyzeCodebase(ctx context.Context, root string) ([]report.Vulnerability, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errs.New(errs.KindValidation, "scan root directory is empty")
	}
	if err := a.checkPreconditions(); err != nil {
		return nil, err
	}

	scanner, err := scan.NewScanner(root, a.ScanOptions)
	if err != nil {
		return nil, err
	}
	full, err := scanner.Snapshot()
	if err != nil {
		return nil, err
	}
	maxFiles := a.MaxFiles
	if maxFiles <= 0 {
		maxFiles = scan.DefaultMaxFiles
	}
	cctx := full.Condense(maxFiles)
	if len(cctx.Files) == 0 {
		return nil, errs.New(errs.KindContextBuild, "condensed context contains no files")
	}

	return a.analyzeContext(ctx, cctx)
}

// AnalyzeFile runs the analysis over a single file. Legacy path for
// spot-checking one source file without a directory walk.
func (a *Analyzer) AnalyzeFile(ctx context.Context, scanner *scan.Scanner, rel string) ([]report.Vulnerability, error) {
	if err := a.checkPreconditions(); err != nil {
		return nil, err
	}
	entry, err := scanner.ReadFile(rel)
	if err != nil {
		return nil, err
	}
	files := []scan.FileEntry{entry}
	cctx := &scan.CodebaseContext{Root: scanner.Root(), Files: files}
	cctx.Summary = scan.Summarize(files)
	return a.analyzeContext(ctx, cctx)
}

func (a *Analyzer) analyzeContext(ctx context.Context, cctx *scan.CodebaseContext) ([]report.Vulnerability, error) {
	raw, err := a.LLM.Invoke(ctx, prompt.BuildAnalysis(cctx), prompt.AnalysisSchema())
	if err != nil {
		return nil, errs.Wrap(errs.KindAnalysis, "analysis request failed", err)
	}

	var parsed modelAnalysis
	if err := jsonutil.UnmarshalFlex(raw, &parsed); err != nil {
		return nil, errs.Wrap(errs.KindAnalysis, "analysis response does not match the declared schema", err)
	}
	if parsed.Vulnerabilities == nil {
		return nil, errs.New(errs.KindAnalysis, "analysis response is missing the vulnerabilities array")
	}

	vulns := make([]report.Vulnerability, 0, len(*parsed.Vulnerabilities))
	for _, v := range *parsed.Vulnerabilities {
		v.Severity = report.Severity(strings.ToLower(string(v.Severity)))
		if !v.Severity.Valid() {
			return nil, errs.Newf(errs.KindAnalysis, "analysis response carries invalid severity %q", v.Severity)
		}
		// The model is told to reference only supplied paths; entries that
		// point elsewhere are dropped rather than trusted into the report.
		if !cctx.Contains(v.File) {
			log.Printf("analysis: dropping finding for unknown path %q", v.File)
			continue
		}
		vulns = append(vulns, v)
	}
	return vulns, nil
}

// GenerateInsights issues the narrative request over the vulnerability
// list. An empty list is valid input and still yields a narrative.
func (a *Analyzer) GenerateInsights(ctx context.Context, vulns []report.Vulnerability) ([]string, error) {
	if err := a.checkPreconditions(); err != nil {
		return nil, err
	}

	raw, err := a.LLM.Invoke(ctx, prompt.BuildInsight(vulns), prompt.InsightSchema())
	if err != nil {
		return nil, errs.Wrap(errs.KindInsight, "insight request failed", err)
	}

	var parsed modelInsight
	if err := jsonutil.UnmarshalFlex(raw, &parsed); err != nil {
		return nil, errs.Wrap(errs.KindInsight, "insight response does not match the declared schema", err)
	}
	if strings.TrimSpace(parsed.Narrative) == "" {
		return nil, errs.New(errs.KindInsight, "insight response is missing the narrative")
	}
	if parsed.RiskAssessment == nil {
		return nil, errs.New(errs.KindInsight, "insight response is missing the risk assessment")
	}
	return []string{parsed.Narrative}, nil
}

// Scan is the full sequential pipeline: context build, analysis request,
// insight request, report assembly.
func (a *Analyzer) Scan(ctx context.Context, root string) (*report.Report, error) {
	vulns, err := a.AnalyzeCodebase(ctx, root)
	if err != nil {
		return nil, err
	}
	insights, err := a.GenerateInsights(ctx, vulns)
	if err != nil {
		return nil, err
	}
	return report.Assemble(root, vulns, insights), nil
}

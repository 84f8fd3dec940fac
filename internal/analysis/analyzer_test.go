package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	genai "google.golang.org/genai"

	"vulnsight/internal/errs"
	"vulnsight/internal/llm"
	"vulnsight/internal/report"
)

func writeRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func newAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{LLM: client, APIKey: "test-key", Model: "test-model"}
}

func analysisResponse(vulns []map[string]any) json.RawMessage {
	b, _ := json.Marshal(map[string]any{
		"vulnerabilities": vulns,
		"summary": map[string]any{
			"issue_count":       len(vulns),
			"critical_findings": []string{},
			"overall_risk":      "low",
		},
	})
	return b
}

func TestAnalyzeCodebase_Preconditions(t *testing.T) {
	fake := &llm.FakeClient{Response: analysisResponse(nil)}

	for name, a := range map[string]*Analyzer{
		"empty api key": {LLM: fake, APIKey: "", Model: "m"},
		"empty model":   {LLM: fake, APIKey: "k", Model: ""},
		"nil client":    {LLM: nil, APIKey: "k", Model: "m"},
	} {
		_, err := a.AnalyzeCodebase(context.Background(), t.TempDir())
		require.Error(t, err, name)
		assert.Equal(t, errs.KindValidation, errs.KindOf(err), name)
	}

	_, err := newAnalyzer(fake).AnalyzeCodebase(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
	assert.Zero(t, fake.Calls, "preconditions must fail before any request")
}

func TestAnalyzeCodebase_Success(t *testing.T) {
	root := writeRepo(t, map[string]string{
		"app.js": "eval(userInput)\n",
	})
	fake := &llm.FakeClient{Response: analysisResponse([]map[string]any{{
		"severity":       "HIGH",
		"file":           "app.js",
		"line":           1,
		"description":    "eval of user input",
		"recommendation": "do not eval untrusted data",
	}})}

	vulns, err := newAnalyzer(fake).AnalyzeCodebase(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, vulns, 1)
	assert.Equal(t, report.SeverityHigh, vulns[0].Severity, "severity must be normalized")
	assert.Equal(t, "app.js", vulns[0].File)
	assert.Equal(t, 1, fake.Calls)
	require.NotNil(t, fake.LastSchema, "request must declare a response schema")
	assert.Contains(t, fake.LastPrompt, "eval(userInput)")
}

func TestAnalyzeCodebase_EmptyArrayIsCleanResult(t *testing.T) {
	root := writeRepo(t, map[string]string{"a.py": "print(1)\n"})
	fake := &llm.FakeClient{Response: analysisResponse([]map[string]any{})}

	vulns, err := newAnalyzer(fake).AnalyzeCodebase(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, vulns)
}

func TestAnalyzeCodebase_MissingArrayFails(t *testing.T) {
	// A response without the vulnerabilities array is a validation failure,
	// never an empty/default result.
	root := writeRepo(t, map[string]string{"a.py": "print(1)\n"})
	fake := &llm.FakeClient{Response: json.RawMessage(`{"summary":{"issue_count":0,"critical_findings":[],"overall_risk":"low"}}`)}

	_, err := newAnalyzer(fake).AnalyzeCodebase(context.Background(), root)
	require.Error(t, err)
	assert.Equal(t, errs.KindAnalysis, errs.KindOf(err))
	assert.Contains(t, err.Error(), "vulnerabilities array")
}

func TestAnalyzeCodebase_TransportFailureWrapped(t *testing.T) {
	root := writeRepo(t, map[string]string{"a.py": "print(1)\n"})
	cause := errors.New("connection reset")
	fake := &llm.FakeClient{Err: cause}

	_, err := newAnalyzer(fake).AnalyzeCodebase(context.Background(), root)
	require.Error(t, err)
	assert.Equal(t, errs.KindAnalysis, errs.KindOf(err))
	assert.ErrorIs(t, err, cause, "original cause must be preserved")
}

func TestAnalyzeCodebase_InvalidSeverityFails(t *testing.T) {
	root := writeRepo(t, map[string]string{"a.py": "print(1)\n"})
	fake := &llm.FakeClient{Response: analysisResponse([]map[string]any{{
		"severity": "catastrophic", "file": "a.py", "line": 1,
		"description": "x", "recommendation": "y",
	}})}

	_, err := newAnalyzer(fake).AnalyzeCodebase(context.Background(), root)
	require.Error(t, err)
	assert.Equal(t, errs.KindAnalysis, errs.KindOf(err))
}

func TestAnalyzeCodebase_UnknownPathDropped(t *testing.T) {
	root := writeRepo(t, map[string]string{"a.py": "print(1)\n"})
	fake := &llm.FakeClient{Response: analysisResponse([]map[string]any{
		{"severity": "low", "file": "a.py", "line": 1, "description": "x", "recommendation": "y"},
		{"severity": "high", "file": "hallucinated.js", "line": 3, "description": "x", "recommendation": "y"},
	})}

	vulns, err := newAnalyzer(fake).AnalyzeCodebase(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, vulns, 1)
	assert.Equal(t, "a.py", vulns[0].File)
}

func TestAnalyzeCodebase_ContextBuildFailurePropagates(t *testing.T) {
	fake := &llm.FakeClient{Response: analysisResponse(nil)}
	_, err := newAnalyzer(fake).AnalyzeCodebase(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, errs.KindContextBuild, errs.KindOf(err))
	assert.Zero(t, fake.Calls, "no request when context build fails")
}

func insightResponse(narrative string) json.RawMessage {
	b, _ := json.Marshal(map[string]any{
		"narrative": narrative,
		"risk_assessment": map[string]any{
			"risk_level":     "low",
			"priority_areas": []string{"dependencies"},
		},
	})
	return b
}

func TestGenerateInsights_EmptyInputStillSucceeds(t *testing.T) {
	fake := &llm.FakeClient{Response: insightResponse("The codebase shows no detected issues.")}

	insights, err := newAnalyzer(fake).GenerateInsights(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, insights, 1)
	assert.NotEmpty(t, insights[0])
}

func TestGenerateInsights_MissingFieldsFail(t *testing.T) {
	a := newAnalyzer(&llm.FakeClient{Response: json.RawMessage(`{"risk_assessment":{"risk_level":"low","priority_areas":[]}}`)})
	_, err := a.GenerateInsights(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, errs.KindInsight, errs.KindOf(err))
	assert.Contains(t, err.Error(), "narrative")

	a = newAnalyzer(&llm.FakeClient{Response: json.RawMessage(`{"narrative":"fine"}`)})
	_, err = a.GenerateInsights(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, errs.KindInsight, errs.KindOf(err))
	assert.Contains(t, err.Error(), "risk assessment")
}

func TestGenerateInsights_TransportFailureWrapped(t *testing.T) {
	cause := errors.New("timeout")
	_, err := newAnalyzer(&llm.FakeClient{Err: cause}).GenerateInsights(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, errs.KindInsight, errs.KindOf(err))
	assert.ErrorIs(t, err, cause)
}

func TestScan_FullPipeline(t *testing.T) {
	root := writeRepo(t, map[string]string{"a.js": "eval(x)\n"})

	// One client serving both calls in order.
	responses := []json.RawMessage{
		analysisResponse([]map[string]any{{
			"severity": "medium", "file": "a.js", "line": 1,
			"description": "eval", "recommendation": "remove eval",
		}}),
		insightResponse("One medium issue found."),
	}
	seq := &sequenceClient{responses: responses}
	a := &Analyzer{LLM: seq, APIKey: "k", Model: "m"}

	rep, err := a.Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Summary.Total)
	assert.Equal(t, 1, rep.Summary.Medium)
	require.Len(t, rep.Insights, 1)
	assert.Equal(t, 2, seq.calls)
}

func TestScan_InsightFailureYieldsNoReport(t *testing.T) {
	root := writeRepo(t, map[string]string{"a.js": "let x\n"})
	seq := &sequenceClient{responses: []json.RawMessage{analysisResponse(nil)}, failAfter: 1}

	rep, err := newAnalyzer(seq).Scan(context.Background(), root)
	require.Error(t, err)
	assert.Nil(t, rep, "a failed insight call must not yield a partial report")
	assert.Equal(t, errs.KindInsight, errs.KindOf(err))
}

// sequenceClient returns queued responses in order, failing once they are
// exhausted or after failAfter calls.
type sequenceClient struct {
	responses []json.RawMessage
	failAfter int
	calls     int
}

func (s *sequenceClient) Invoke(_ context.Context, _ string, _ *genai.Schema) (json.RawMessage, error) {
	s.calls++
	if s.failAfter > 0 && s.calls > s.failAfter {
		return nil, errors.New("boom")
	}
	if s.calls > len(s.responses) {
		return nil, errors.New("no more responses")
	}
	return s.responses[s.calls-1], nil
}

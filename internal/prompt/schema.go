package prompt

import (
	"fmt"
	"sort"
	"strings"

	genai "google.golang.org/genai"
)

// The schemas below are the single source of truth for both the declared
// response contract and the human-readable field list embedded in the
// prompt (see DescribeSchema). Editing a schema updates both sides at once.

// SecurityCategories enumerates what the analysis request asks the model
// to evaluate.
var SecurityCategories = []string{
	"authentication and authorization",
	"input validation and sanitization",
	"cryptography and secrets handling",
	"configuration and hardening",
	"dependency and supply-chain risks",
	"business logic flaws",
	"infrastructure and deployment",
}

// AnalysisSchema declares the response contract for the vulnerability
// detection request.
func AnalysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"vulnerabilities": {
				Type:        genai.TypeArray,
				Description: "every security issue found; empty when the codebase is clean",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"severity": {
							Type:        genai.TypeString,
							Enum:        []string{"high", "medium", "low"},
							Description: "impact level of the issue",
						},
						"file": {
							Type:        genai.TypeString,
							Description: "relative path of the affected file, exactly as given in the input",
						},
						"line": {
							Type:        genai.TypeInteger,
							Description: "1-based line number where the issue occurs",
						},
						"description": {
							Type:        genai.TypeString,
							Description: "what the issue is and why it is dangerous",
						},
						"recommendation": {
							Type:        genai.TypeString,
							Description: "concrete remediation advice",
						},
					},
					Required: []string{"severity", "file", "line", "description", "recommendation"},
				},
			},
			"summary": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"issue_count": {
						Type:        genai.TypeInteger,
						Description: "number of vulnerabilities reported",
					},
					"critical_findings": {
						Type:        genai.TypeArray,
						Items:       &genai.Schema{Type: genai.TypeString},
						Description: "short labels of the most urgent findings",
					},
					"overall_risk": {
						Type:        genai.TypeString,
						Enum:        []string{"low", "medium", "high", "critical"},
						Description: "overall risk posture of the codebase",
					},
				},
				Required: []string{"issue_count", "critical_findings", "overall_risk"},
			},
		},
		Required: []string{"vulnerabilities", "summary"},
	}
}

// InsightSchema declares the response contract for the narrative request.
func InsightSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"narrative": {
				Type:        genai.TypeString,
				Description: "one cohesive paragraph assessing the overall security posture",
			},
			"risk_assessment": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"risk_level": {
						Type:        genai.TypeString,
						Enum:        []string{"low", "medium", "high", "critical"},
						Description: "overall risk level",
					},
					"priority_areas": {
						Type:        genai.TypeArray,
						Items:       &genai.Schema{Type: genai.TypeString},
						Description: "areas to address first",
					},
				},
				Required: []string{"risk_level", "priority_areas"},
			},
		},
		Required: []string{"narrative", "risk_assessment"},
	}
}

// DescribeSchema renders a bullet list of the schema's fields for the
// prompt's OUTPUT section. Because the text is derived from the schema
// value itself, prompt and validator cannot drift apart.
func DescribeSchema(s *genai.Schema) string {
	var buf strings.Builder
	describeInto(&buf, s, "", "")
	return strings.TrimRight(buf.String(), "\n")
}

func describeInto(buf *strings.Builder, s *genai.Schema, name, indent string) {
	if s == nil {
		return
	}
	if name != "" {
		line := fmt.Sprintf("%s- %s (%s", indent, name, typeName(s))
		if len(s.Enum) > 0 {
			line += ": " + strings.Join(s.Enum, "|")
		}
		line += ")"
		if s.Description != "" {
			line += ": " + s.Description
		}
		buf.WriteString(line + "\n")
		indent += "  "
	}
	switch s.Type {
	case genai.TypeObject:
		for _, key := range sortedKeys(s.Properties) {
			describeInto(buf, s.Properties[key], key, indent)
		}
	case genai.TypeArray:
		if s.Items != nil && s.Items.Type == genai.TypeObject {
			buf.WriteString(indent + "each item:\n")
			describeInto(buf, s.Items, "", indent+"  ")
		}
	}
}

func typeName(s *genai.Schema) string {
	switch s.Type {
	case genai.TypeObject:
		return "object"
	case genai.TypeArray:
		return "array"
	case genai.TypeInteger:
		return "integer"
	case genai.TypeNumber:
		return "number"
	case genai.TypeBoolean:
		return "boolean"
	default:
		return "string"
	}
}

func sortedKeys(m map[string]*genai.Schema) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

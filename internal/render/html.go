package render

import (
	"html/template"
	"io"

	"vulnsight/internal/report"
)

// htmlTemplate is the standalone document artifact. Kept minimal: the JSON
// wire format is the machine-readable surface, this is for humans.
var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Security Report: {{.Root}}</title>
<style>
body { font-family: sans-serif; margin: 2rem auto; max-width: 60rem; color: #222; }
h1 { font-size: 1.4rem; }
table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; vertical-align: top; }
.sev-high { color: #b00020; font-weight: bold; }
.sev-medium { color: #b36b00; font-weight: bold; }
.sev-low { color: #2e7d32; font-weight: bold; }
.insight { background: #f5f5f5; padding: 1rem; border-radius: 4px; }
</style>
</head>
<body>
<h1>Security Report</h1>
<p>Scanned <code>{{.Root}}</code> (scan {{.ScanID}}, generated {{.GeneratedAt.Format "2006-01-02 15:04:05 UTC"}})</p>
<p>Total: {{.Summary.Total}} (high {{.Summary.High}}, medium {{.Summary.Medium}}, low {{.Summary.Low}})</p>
{{if .Vulnerabilities}}
<table>
<tr><th>Severity</th><th>Location</th><th>Description</th><th>Recommendation</th></tr>
{{range .Vulnerabilities}}
<tr>
<td class="sev-{{.Severity}}">{{.Severity}}</td>
<td><code>{{.File}}:{{.Line}}</code></td>
<td>{{.Description}}</td>
<td>{{.Recommendation}}</td>
</tr>
{{end}}
</table>
{{else}}
<p>✅ No vulnerabilities found.</p>
{{end}}
{{range .Insights}}<div class="insight">{{.}}</div>{{end}}
</body>
</html>
`))

// HTML writes the report as a standalone HTML document.
func HTML(w io.Writer, r *report.Report) error {
	return htmlTemplate.Execute(w, r)
}

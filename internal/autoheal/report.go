package autoheal

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"
)

// HealEvent records one attempt to heal a broken selector
type HealEvent struct {
	ID             string        `json:"id"`
	Time           time.Time     `json:"time"`
	URL            string        `json:"url"`
	Selector       string        `json:"selector"`
	Description    string        `json:"description"`
	HealedSelector string        `json:"healed_selector,omitempty"`
	Source         Source        `json:"source,omitempty"`
	Confidence     float64       `json:"confidence,omitempty"`
	Stages         []Stage       `json:"stages"`
	Success        bool          `json:"success"`
	Error          string        `json:"error,omitempty"`
	Duration       time.Duration `json:"duration_ns"`
}

// ReportSummary aggregates the events of a report
type ReportSummary struct {
	Healed   int            `json:"healed"`
	Failed   int            `json:"failed"`
	BySource map[Source]int `json:"by_source"`
}

// Report is the document written on shutdown
type Report struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Strategy    Strategy       `json:"strategy"`
	Provider    string         `json:"provider"`
	Healing     HealingMetrics `json:"healing"`
	Cache       CacheMetrics   `json:"cache"`
	Summary     ReportSummary  `json:"summary"`
	Events      []HealEvent    `json:"events"`
}

// Summarize fills r.Summary from r.Events
func (r *Report) Summarize() {
	healed := lo.Filter(r.Events, func(e HealEvent, _ int) bool { return e.Success })
	r.Summary = ReportSummary{
		Healed: len(healed),
		Failed: len(r.Events) - len(healed),
		BySource: lo.MapValues(lo.GroupBy(healed, func(e HealEvent) Source { return e.Source }),
			func(events []HealEvent, _ Source) int { return len(events) }),
	}
}

const reportTimeLayout = "20060102-150405.000"

// ReportFileName returns the base name shared by the JSON and HTML report
func ReportFileName(at time.Time) string {
	return "autoheal-report-" + at.UTC().Format(reportTimeLayout)
}

// WriteReports writes r as JSON and HTML into dir and returns both paths
func WriteReports(dir string, r Report) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create report directory: %w", err)
	}
	r.Summarize()
	base := filepath.Join(dir, ReportFileName(r.GeneratedAt))

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("failed to encode report: %w", err)
	}
	jsonPath := base + ".json"
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write report: %w", err)
	}

	htmlPath := base + ".html"
	f, err := os.Create(htmlPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create HTML report: %w", err)
	}
	defer f.Close()
	if err := reportTemplate.Execute(f, r); err != nil {
		return "", "", fmt.Errorf("failed to render HTML report: %w", err)
	}
	return jsonPath, htmlPath, nil
}

// ReadReport decodes a JSON report
func ReadReport(path string) (Report, error) {
	var r Report
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("failed to read report: %w", err)
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return r, nil
}

// LatestReport returns the newest JSON report in dir
func LatestReport(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "autoheal-report-*.json"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no reports in %s: %w", dir, os.ErrNotExist)
	}
	// the timestamp layout sorts lexically
	return lo.Max(matches), nil
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"percent": func(f float64) string { return fmt.Sprintf("%.2f%%", f*100) },
	"ms":      func(d time.Duration) string { return fmt.Sprintf("%dms", d.Milliseconds()) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Self-healing report {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
.ok { color: #2e7d32; } .failed { color: #c62828; }
</style>
</head>
<body>
<h1>Self-healing report</h1>
<p>Strategy {{.Strategy}}, provider {{.Provider}}, generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</p>
<h2>Summary</h2>
<ul>
<li>Requests: {{.Healing.TotalRequests}}</li>
<li>Original selector worked: {{.Healing.OriginalSuccesses}}</li>
<li>Healed: {{.Summary.Healed}}{{range $source, $n := .Summary.BySource}} ({{$source}}: {{$n}}){{end}}</li>
<li>Failed: {{.Summary.Failed}}</li>
<li>AI calls: {{.Healing.AICalls}} ({{.Healing.AIErrors}} errors)</li>
<li>Mean latency: {{ms .Healing.MeanLatency}}</li>
<li>Cache hit rate: {{percent .Cache.HitRate}} ({{.Cache.TotalEntries}} entries)</li>
</ul>
<h2>Events</h2>
<table>
<tr><th>Time</th><th>URL</th><th>Selector</th><th>Description</th><th>Result</th><th>Source</th><th>Confidence</th><th>Duration</th></tr>
{{range .Events}}<tr>
<td>{{.Time.Format "15:04:05"}}</td>
<td>{{.URL}}</td>
<td><code>{{.Selector}}</code></td>
<td>{{.Description}}</td>
{{if .Success}}<td class="ok"><code>{{.HealedSelector}}</code></td>{{else}}<td class="failed">{{.Error}}</td>{{end}}
<td>{{.Source}}</td>
<td>{{printf "%.2f" .Confidence}}</td>
<td>{{ms .Duration}}</td>
</tr>{{end}}
</table>
</body>
</html>
`))

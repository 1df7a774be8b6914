// Package render formats recommendation results for people to read.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"majormatch/internal/usecase"
)

const WaitingMessage = "Upload a transcript to see major recommendations."

const markdownTemplate = `# Your Recommended Majors
{{ if eq .State "waiting_for_input" }}
_{{ waiting }}_
{{ else }}
Based on {{ .CourseCount }} completed course{{ if ne .CourseCount 1 }}s{{ end }} and a desired income of {{ dollars .DesiredIncome }}.
{{ range $i, $r := .Recommendations }}
## {{ inc $i }}. {{ $r.Major }}

**Completed {{ $r.MatchedCount }} of {{ $r.TotalCount }} key courses** ({{ $r.CompletionPercent }}%)  
Interest match: {{ $r.InterestPercent }}%  
Estimated salary: {{ salary $r.EstimatedSalary }}{{ if $r.EstimatedSalary }} ({{ dollars $r.IncomeGap }} from your target){{ end }}

<details>
<summary>Remaining requirements ({{ len $r.Remaining }})</summary>

{{ bullets $r.Remaining "All key courses completed." }}
</details>

<details>
<summary>Career paths</summary>

**Jobs:** {{ list $r.Jobs }}

**Employers:** {{ list $r.Employers }}
</details>
{{ else }}
No majors in the catalog.
{{ end }}{{ end }}`

var tmpl = template.Must(template.New("recommendations").Funcs(template.FuncMap{
	"waiting": func() string { return WaitingMessage },
	"inc":     func(i int) int { return i + 1 },
	"dollars": Dollars,
	"salary":  Salary,
	"list":    list,
	"bullets": bullets,
}).Parse(markdownTemplate))

func Markdown(w io.Writer, res usecase.RecommendationResult) error {
	if err := tmpl.Execute(w, res); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	return nil
}

func MarkdownString(res usecase.RecommendationResult) (string, error) {
	var b bytes.Buffer
	if err := Markdown(&b, res); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Dollars formats whole dollars with thousands separators, e.g. $70,000.
func Dollars(v int) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	digits := strconv.Itoa(v)
	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + "$" + b.String()
}

func Salary(v *int) string {
	if v == nil {
		return "unavailable"
	}
	return Dollars(*v)
}

func list(items []string) string {
	if len(items) == 0 {
		return "none listed"
	}
	return strings.Join(items, ", ")
}

func bullets(items []string, empty string) string {
	if len(items) == 0 {
		return "_" + empty + "_"
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, "- "+it)
	}
	return strings.Join(lines, "\n")
}

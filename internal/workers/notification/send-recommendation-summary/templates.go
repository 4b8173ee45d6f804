// internal/workers/notification/send-recommendation-summary/templates.go
package sendrecommendationsummary

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"supplement-workers/internal/models"
)

type summaryData struct {
	Items []models.Recommendation
}

var funcs = map[string]interface{}{
	"inc": func(i int) int { return i + 1 },
	"priority": func(p models.Priority) string {
		switch p {
		case models.PriorityHigh:
			return "alta"
		case models.PriorityMedium:
			return "média"
		default:
			return "baixa"
		}
	},
}

var textSummary = texttemplate.Must(texttemplate.New("text").Funcs(funcs).Parse(
	`Suas recomendações:
{{range $i, $r := .Items}}{{inc $i}}. {{$r.SupplementName}} {{$r.RecommendedDosage}}{{$r.DosageUnit}} (prioridade {{priority $r.Priority}})
{{end}}`))

var smsSummary = texttemplate.Must(texttemplate.New("sms").Funcs(funcs).Parse(
	`Suas recomendações: {{range $i, $r := .Items}}{{if $i}}, {{end}}{{$r.SupplementName}}{{end}}`))

var htmlSummary = htmltemplate.Must(htmltemplate.New("html").Funcs(funcs).Parse(
	`<h2>Suas recomendações de suplementos</h2>
<ol>{{range .Items}}
<li><strong>{{.SupplementName}}</strong> {{.RecommendedDosage}}{{.DosageUnit}}<br><small>{{.Reasoning}} (prioridade {{priority .Priority}}, confiança {{.Confidence}}%)</small></li>{{end}}
</ol>`))

type renderedSummary struct {
	Text string
	HTML string
	SMS  string
}

func render(recs []models.Recommendation) (renderedSummary, error) {
	data := summaryData{Items: recs}
	var out renderedSummary
	var buf bytes.Buffer

	if err := textSummary.Execute(&buf, data); err != nil {
		return out, err
	}
	out.Text = buf.String()

	buf.Reset()
	if err := htmlSummary.Execute(&buf, data); err != nil {
		return out, err
	}
	out.HTML = buf.String()

	buf.Reset()
	if err := smsSummary.Execute(&buf, data); err != nil {
		return out, err
	}
	out.SMS = strings.TrimSpace(buf.String())
	return out, nil
}

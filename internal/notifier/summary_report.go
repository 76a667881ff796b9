package notifier

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/aleister1102/jsmon/internal/models"
)

//go:embed templates/summary.html.tmpl
var summaryTemplateFS embed.FS

var summaryTemplate = template.Must(template.ParseFS(summaryTemplateFS, "templates/summary.html.tmpl"))

// SummaryReport is the data behind summary.html
type SummaryReport struct {
	URL                 string
	Fingerprint         string
	PreviousFingerprint string
	Analysis            *models.ChangeAnalysis
	AddedEndpoints      []string
	RemovedEndpoints    []string
}

// RenderSummaryHTML renders the detailed fields of a change analysis as a standalone page
func RenderSummaryHTML(report SummaryReport) ([]byte, error) {
	if report.Analysis == nil {
		report.Analysis = &models.ChangeAnalysis{}
	}
	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

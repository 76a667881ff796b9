package analyst

import (
	"bytes"
	"embed"
	"encoding/json"
	"text/template"

	"github.com/aleister1102/jsmon/internal/extractor"
	"github.com/aleister1102/jsmon/internal/models"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(template.ParseFS(promptFS, "prompts/*.tmpl"))

const noPreviousSummary = "No summary of the previous version is available."

type summarizeData struct {
	URL       string
	Content   string
	Endpoints []extractor.Endpoint
}

type analyzeData struct {
	URL             string
	PreviousSummary string
	DiffText        string
	Truncated       bool
	Endpoints       extractor.EndpointDelta
}

func renderPrompt(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func systemPrompt() string {
	out, err := renderPrompt("system.tmpl", nil)
	if err != nil {
		return ""
	}
	return out
}

// previousSummaryText renders a stored summary for the change prompt
func previousSummaryText(summary *models.Summary) string {
	if summary == nil {
		return noPreviousSummary
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return noPreviousSummary
	}
	return string(data)
}

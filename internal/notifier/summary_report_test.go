package notifier

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/jsmon/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSummaryHTML(t *testing.T) {
	analysis := &models.ChangeAnalysis{
		ShortSummary: "Adds <b>admin</b> route.",
		RiskLevel:    models.RiskHigh,
		Confidence:   "LOW",
		DetailedAnalysis: models.ChangeDetailedAnalysis{
			ChangeOverview: models.ChangeOverview{Type: "Addition", Complexity: "Simple", Category: models.CategoryNewEndpoint},
			SecurityAssessment: models.SecurityAssessment{
				Risks: models.StringList{"Unauthenticated admin API"},
			},
		},
	}

	out, err := RenderSummaryHTML(SummaryReport{
		URL:                 "https://example.com/app.js",
		Fingerprint:         "bbbb",
		PreviousFingerprint: "aaaa",
		Analysis:            analysis,
		AddedEndpoints:      []string{"POST https://example.com/admin"},
	})
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	require.NoError(t, err)

	assert.Equal(t, "HIGH", doc.Find("span.risk-HIGH").Text())
	assert.Equal(t, "Adds <b>admin</b> route.", doc.Find("#short-summary").Text())
	assert.Equal(t, "new_endpoint", doc.Find("#category").Text())
	assert.Equal(t, 1, doc.Find(".low-confidence").Length())
	assert.Equal(t, "POST https://example.com/admin", doc.Find("ul.endpoints-added code").Text())
	assert.Equal(t, 0, doc.Find("ul.endpoints-removed").Length())
	assert.True(t, strings.Contains(doc.Text(), "Unauthenticated admin API"))
	assert.Equal(t, 2, doc.Find("code.fingerprint").Length())
}

func TestRenderSummaryHTML_NilAnalysis(t *testing.T) {
	out, err := RenderSummaryHTML(SummaryReport{URL: "https://example.com/a.js"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "https://example.com/a.js")
}

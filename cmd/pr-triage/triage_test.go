package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
	"github.com/openshift-eng/pr-triage/pkg/flags"
)

func decision() v1.Decision {
	return v1.Decision{
		Repository:     "openshift/origin",
		PullRequest:    v1.PullRequestSnapshot{Number: 12, Title: "Document the triage labels"},
		Classification: v1.Classification{Type: v1.PRTypeDocs, Rule: "docs-paths"},
		Risk:           v1.RiskAssessment{Level: v1.RiskLow, Reasons: []string{"Small change"}},
		Action:         v1.ActionQuickReview,
		Labels:         []string{"triage:docs", "size:small"},
	}
}

func TestWriteDecisionLongTitle(t *testing.T) {
	d := decision()
	d.PullRequest.Title = "Rework the sibling overlap detection so that very long titles survive table output"
	var buf bytes.Buffer
	require.NoError(t, writeDecision(&buf, flags.OutputTable, d))
	assert.Contains(t, buf.String(), "openshift/origin#12 "+d.PullRequest.Title)
}

func TestWriteDecision(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeDecision(&buf, flags.OutputNone, decision()))
		assert.Empty(t, buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeDecision(&buf, flags.OutputJSON, decision()))
		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "openshift/origin", got["repository"])
		assert.Equal(t, "quick-review", got["action"])
		assert.Equal(t, map[string]any{"level": "low", "reasons": []any{"Small change"}}, got["risk"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeDecision(&buf, flags.OutputYAML, decision()))
		assert.Contains(t, buf.String(), "repository: openshift/origin")
		assert.Contains(t, buf.String(), "level: low")
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeDecision(&buf, flags.OutputTable, decision()))
		out := buf.String()
		var prLine string
		for _, line := range strings.Split(out, "\n") {
			if strings.Contains(line, "Pull request") {
				prLine = line
			}
		}
		assert.Contains(t, prLine, "openshift/origin#12 Document the triage labels", out)
		assert.Contains(t, out, "Quick review, low risk")
		assert.Contains(t, out, "triage:docs, size:small")
	})

	t.Run("invalid", func(t *testing.T) {
		assert.Error(t, writeDecision(&bytes.Buffer{}, "xml", decision()))
	})
}

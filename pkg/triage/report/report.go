package report

import (
	"fmt"
	"html"
	"strings"

	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
)

// Marker is the visible text every triage comment heading carries.
const Marker = "PR Triage —"

const trailer = "<sub>Automated triage, recomputed on every push. Labels and recommendations are suggestions; reviewers have the final say.</sub>"

// don't let a long sibling list blow up the comment
const maxDuplicateRows = 10

var riskEmoji = map[v1.RiskLevel]string{
	v1.RiskLow:      "🟢",
	v1.RiskMedium:   "🟡",
	v1.RiskHigh:     "🟠",
	v1.RiskCritical: "🔴",
}

// Render builds the markdown comment body for a decision. Identical decisions render to
// identical text, which is what lets the publisher skip no-op updates.
func Render(d v1.Decision) string {
	var sb strings.Builder
	pr := d.PullRequest

	sb.WriteString(fmt.Sprintf("## %s %s %s\n\n", d.Action.Emoji(), Marker, d.Action.Message()))

	sb.WriteString("| | |\n|:---|:---|\n")
	sb.WriteString(fmt.Sprintf("| **Type** | `%s` |\n", d.Classification.Type))
	sb.WriteString(fmt.Sprintf("| **Risk** | %s %s |\n", riskEmoji[d.Risk.Level], d.Risk.Level))
	sb.WriteString(fmt.Sprintf("| **Size** | +%d / -%d in %d %s |\n", pr.Additions, pr.Deletions, pr.ChangedFiles, plural(pr.ChangedFiles, "file", "files")))
	if b := d.DependencyBump; b != nil {
		bump := fmt.Sprintf("`%s` %s → %s", cell(b.Package), cell(b.From), cell(b.To))
		if b.Kind != "" {
			bump += fmt.Sprintf(" (%s)", b.Kind)
		}
		sb.WriteString(fmt.Sprintf("| **Dependency update** | %s |\n", bump))
	}
	sb.WriteString(fmt.Sprintf("| **Recommended action** | %s |\n", d.Action.Message()))

	sb.WriteString("\n### Risk factors\n\n")
	for _, r := range d.Risk.Reasons {
		sb.WriteString(fmt.Sprintf("- %s\n", r))
	}

	labels := make([]string, 0, len(d.Labels))
	for _, l := range d.Labels {
		labels = append(labels, fmt.Sprintf("`%s`", l))
	}
	sb.WriteString(fmt.Sprintf("\n**Suggested labels:** %s\n", strings.Join(labels, ", ")))

	if d.DuplicateCheck && len(d.Duplicates) > 0 {
		sb.WriteString("\n### Possible duplicates\n\n| PR | Author | File overlap | Note |\n|:---|:---|:---|:---|\n")
		for i, f := range d.Duplicates {
			if i >= maxDuplicateRows {
				sb.WriteString(fmt.Sprintf("\nShowing %d of %d overlapping PRs\n", i, len(d.Duplicates)))
				break
			}
			sb.WriteString(fmt.Sprintf("| #%d %s | @%s | %s %d%% | %s |\n", f.Number, cell(f.Title), f.Author, riskEmoji[f.Risk], f.Overlap, f.Note))
		}
	}

	if c := d.Contributor; c != nil {
		sb.WriteString("\n### Contributor\n\n| | |\n|:---|:---|\n")
		sb.WriteString(fmt.Sprintf("| **Author** | @%s |\n", c.Author))
		sb.WriteString(fmt.Sprintf("| **History** | %d merged, %d closed, %d open |\n", c.History.Merged, c.History.ClosedUnmerged, c.History.Open))
		sb.WriteString(fmt.Sprintf("| **Merge rate** | %d%% |\n", c.MergeRate))
		sb.WriteString(fmt.Sprintf("| **Tier** | `%s` |\n", c.Tier))
		if c.Automated {
			sb.WriteString("| **Automated** | yes |\n")
		}
		sb.WriteString(fmt.Sprintf("| **Guidance** | %s |\n", c.Guidance))
	}

	sb.WriteString("\n---\n")
	sb.WriteString(trailer)
	sb.WriteString("\n")
	return sb.String()
}

// cell makes user supplied text safe inside a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(html.EscapeString(s), "|", "\\|")
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

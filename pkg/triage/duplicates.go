package triage

import (
	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
)

const (
	// DefaultDuplicateThreshold is the overlap percentage at which a sibling is reported.
	DefaultDuplicateThreshold = 50
	// MaxSiblings is how many open PRs are fetched for the overlap check.
	MaxSiblings = 30

	highOverlap = 80
)

const (
	highOverlapNote    = "High file overlap with a PR by another author, possible duplicate effort"
	genericOverlapNote = "Overlapping changes, coordinate to avoid merge conflicts"
)

// Overlap is the floor of the percentage of target files that also appear in sibling.
// It is 0 when target is empty.
func Overlap(target, sibling []string) int {
	if len(target) == 0 {
		return 0
	}
	siblingFiles := sets.New[string](sibling...)
	matches := 0
	for _, f := range target {
		if siblingFiles.Has(f) {
			matches++
		}
	}
	return matches * 100 / len(target)
}

// FindDuplicates reports siblings whose overlap with the target is at least threshold, in
// sibling order. The target PR itself is skipped when it shows up among the siblings.
func FindDuplicates(targetNumber int, targetFiles []string, targetAuthor string, siblings []v1.SiblingPR, threshold int) []v1.DuplicateFinding {
	var findings []v1.DuplicateFinding
	for _, s := range siblings {
		if s.Number == targetNumber {
			continue
		}
		overlap := Overlap(targetFiles, s.Files)
		if len(targetFiles) == 0 || overlap < threshold {
			continue
		}
		finding := v1.DuplicateFinding{
			Number:  s.Number,
			Title:   s.Title,
			Author:  s.Author,
			Overlap: overlap,
			Risk:    v1.RiskMedium,
			Note:    genericOverlapNote,
		}
		if overlap >= highOverlap && s.Author != targetAuthor {
			finding.Risk = v1.RiskHigh
			finding.Note = highOverlapNote
		}
		findings = append(findings, finding)
	}
	return findings
}

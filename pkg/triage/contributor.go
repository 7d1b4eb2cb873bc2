package triage

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
)

var botMarkers = sets.New[string]("bot", "dependabot", "renovate", "snyk", "github-actions", "codecov")

var tierGuidance = map[v1.Tier]string{
	v1.TierFirstTime:    "Welcome the contributor and review the change thoroughly",
	v1.TierNew:          "Review carefully, contributor is new to the repository",
	v1.TierTrusted:      "Trusted contributor, standard review",
	v1.TierRegular:      "Regular contributor, standard review",
	v1.TierLowMergeRate: "Low merge rate, check that the change is wanted before a deep review",
	v1.TierOccasional:   "Occasional contributor, standard review",
}

type tierBand struct {
	tier  v1.Tier
	match func(h v1.AuthorHistory, mergeRate int) bool
}

// tierBands are evaluated in order, the first match wins.
var tierBands = []tierBand{
	{tier: v1.TierFirstTime, match: func(h v1.AuthorHistory, _ int) bool { return h.Total() == 1 && h.Merged == 0 }},
	{tier: v1.TierNew, match: func(h v1.AuthorHistory, _ int) bool { return h.Total() <= 3 }},
	{tier: v1.TierTrusted, match: func(h v1.AuthorHistory, rate int) bool { return rate >= 80 && h.Merged >= 10 }},
	{tier: v1.TierRegular, match: func(_ v1.AuthorHistory, rate int) bool { return rate >= 60 }},
	{tier: v1.TierLowMergeRate, match: func(h v1.AuthorHistory, rate int) bool { return rate < 30 && h.Total() >= 5 }},
}

// MergeRate is the floor of merged over total as a percentage, 0 with no history.
func MergeRate(h v1.AuthorHistory) int {
	total := h.Total()
	if total <= 0 {
		return 0
	}
	return h.Merged * 100 / total
}

// TierFor maps an author history to its tier.
func TierFor(h v1.AuthorHistory) v1.Tier {
	rate := MergeRate(h)
	for _, band := range tierBands {
		if band.match(h, rate) {
			return band.tier
		}
	}
	return v1.TierOccasional
}

// IsAutomated reports whether the login looks like a bot account.
func IsAutomated(login string) bool {
	lower := strings.ToLower(login)
	for marker := range botMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Profile builds the contributor profile for author.
func Profile(author string, h v1.AuthorHistory) v1.ContributorProfile {
	tier := TierFor(h)
	return v1.ContributorProfile{
		Author:    author,
		History:   h,
		MergeRate: MergeRate(h),
		Tier:      tier,
		Guidance:  tierGuidance[tier],
		Automated: IsAutomated(author),
	}
}

package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		name         string
		history      v1.AuthorHistory
		expectedTier v1.Tier
		expectedRate int
	}{
		{name: "first pr", history: v1.AuthorHistory{Open: 1}, expectedTier: v1.TierFirstTime, expectedRate: 0},
		{name: "only closed pr", history: v1.AuthorHistory{ClosedUnmerged: 1}, expectedTier: v1.TierFirstTime, expectedRate: 0},
		{name: "one merged pr is new", history: v1.AuthorHistory{Merged: 1}, expectedTier: v1.TierNew, expectedRate: 100},
		{name: "no history is new", history: v1.AuthorHistory{}, expectedTier: v1.TierNew, expectedRate: 0},
		{name: "three prs", history: v1.AuthorHistory{Merged: 1, Open: 2}, expectedTier: v1.TierNew, expectedRate: 33},
		{name: "trusted", history: v1.AuthorHistory{Merged: 11, Open: 1}, expectedTier: v1.TierTrusted, expectedRate: 91},
		{name: "high rate but few merges is regular", history: v1.AuthorHistory{Merged: 8, Open: 1}, expectedTier: v1.TierRegular, expectedRate: 88},
		{name: "regular at sixty", history: v1.AuthorHistory{Merged: 3, ClosedUnmerged: 2}, expectedTier: v1.TierRegular, expectedRate: 60},
		{name: "low merge rate", history: v1.AuthorHistory{Merged: 1, ClosedUnmerged: 4}, expectedTier: v1.TierLowMergeRate, expectedRate: 20},
		{name: "occasional", history: v1.AuthorHistory{Merged: 2, ClosedUnmerged: 2}, expectedTier: v1.TierOccasional, expectedRate: 50},
		{name: "low rate counts open prs", history: v1.AuthorHistory{Merged: 2, ClosedUnmerged: 1, Open: 4}, expectedTier: v1.TierLowMergeRate, expectedRate: 28},
		{name: "occasional with open prs", history: v1.AuthorHistory{Merged: 2, ClosedUnmerged: 1, Open: 2}, expectedTier: v1.TierOccasional, expectedRate: 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedRate, MergeRate(tt.history))
			assert.Equal(t, tt.expectedTier, TierFor(tt.history))
		})
	}
}

func TestIsAutomated(t *testing.T) {
	for _, login := range []string{"dependabot[bot]", "renovate-bot", "Snyk-Automation", "github-actions", "codecov-commenter", "openshift-ci-robot"} {
		assert.True(t, IsAutomated(login), login)
	}
	for _, login := range []string{"alice", "stbenjam", "deads2k"} {
		assert.False(t, IsAutomated(login), login)
	}
}

func TestProfile(t *testing.T) {
	profile := Profile("dependabot[bot]", v1.AuthorHistory{Merged: 40, ClosedUnmerged: 2})
	assert.Equal(t, v1.TierTrusted, profile.Tier)
	assert.Equal(t, 95, profile.MergeRate)
	assert.True(t, profile.Automated)
	assert.Equal(t, tierGuidance[v1.TierTrusted], profile.Guidance)
}

package triage

import (
	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
)

// RecommendInput is the PR state the recommendation depends on.
type RecommendInput struct {
	Draft            bool
	Risk             v1.RiskLevel
	ReviewDecision   v1.ReviewDecision
	MergeStateStatus v1.MergeStateStatus
	Mergeable        v1.Mergeable
	Type             v1.PRType
}

type recommendation struct {
	action v1.Action
	match  func(in RecommendInput) bool
}

// recommendations are evaluated in order, the first match wins.
var recommendations = []recommendation{
	{action: v1.ActionDraft, match: func(in RecommendInput) bool { return in.Draft }},
	{action: v1.ActionSecurityReview, match: func(in RecommendInput) bool { return in.Risk == v1.RiskCritical }},
	{action: v1.ActionReadyToMerge, match: func(in RecommendInput) bool {
		return in.ReviewDecision == v1.ReviewDecisionApproved && in.MergeStateStatus == v1.MergeStateClean
	}},
	{action: v1.ActionChangesRequested, match: func(in RecommendInput) bool {
		return in.ReviewDecision == v1.ReviewDecisionChangesRequested
	}},
	{action: v1.ActionRebase, match: func(in RecommendInput) bool { return in.Mergeable == v1.MergeableConflicting }},
	{action: v1.ActionQuickReview, match: func(in RecommendInput) bool {
		return in.Type == v1.PRTypeDocs || in.Type == v1.PRTypeDeps
	}},
}

// Recommend picks the single next action for the PR.
func Recommend(in RecommendInput) v1.Action {
	for _, r := range recommendations {
		if r.match(in) {
			return r.action
		}
	}
	return v1.ActionNeedsReview
}

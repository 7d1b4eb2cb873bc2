// Package triage holds the pull request decision engine: classification, risk, duplicate
// detection, contributor tiers, the recommended action, and the resulting label set. Every
// function here is pure; fetching and publishing live in pkg/github.
package triage

import (
	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
)

// Options toggles the optional parts of a triage run.
type Options struct {
	DuplicateThreshold int
	DuplicateCheck     bool
	ContributorProfile bool
}

func DefaultOptions() Options {
	return Options{
		DuplicateThreshold: DefaultDuplicateThreshold,
		DuplicateCheck:     true,
		ContributorProfile: true,
	}
}

// Input is the fetched state of one run. Siblings and History are only read when the
// matching option is enabled.
type Input struct {
	Repository  string
	PullRequest v1.PullRequestSnapshot
	Siblings    []v1.SiblingPR
	History     v1.AuthorHistory
}

// Decide computes the full decision set for a PR.
func Decide(in Input, opts Options) v1.Decision {
	pr := in.PullRequest

	classification := Classify(ClassifyInput{
		Files:      pr.Files,
		Title:      pr.Title,
		Body:       pr.Body,
		HeadBranch: pr.HeadBranch,
	})

	securityFiles := HasSecurityFiles(pr.Files)
	risk := AssessRisk(RiskInput{
		Type:          classification.Type,
		SecurityFiles: securityFiles,
		CIFiles:       HasCIFiles(pr.Files),
		ChangedLines:  pr.ChangedLines(),
		ChangedFiles:  pr.ChangedFiles,
	})

	decision := v1.Decision{
		Repository:     in.Repository,
		PullRequest:    pr,
		Classification: classification,
		Risk:           risk,
		SecurityFiles:  securityFiles,
		Action: Recommend(RecommendInput{
			Draft:            pr.Draft,
			Risk:             risk.Level,
			ReviewDecision:   pr.ReviewDecision,
			MergeStateStatus: pr.MergeStateStatus,
			Mergeable:        pr.Mergeable,
			Type:             classification.Type,
		}),
		Labels: Labels(LabelInput{
			Type:          classification.Type,
			Risk:          risk.Level,
			SecurityFiles: securityFiles,
			Draft:         pr.Draft,
			ChangedLines:  pr.ChangedLines(),
			ChangedFiles:  pr.ChangedFiles,
		}),
		DuplicateCheck: opts.DuplicateCheck,
	}

	if classification.Type == v1.PRTypeDeps {
		decision.DependencyBump = ParseDependencyBump(pr.Title)
	}

	if opts.DuplicateCheck {
		decision.Duplicates = FindDuplicates(pr.Number, pr.Files, pr.Author, in.Siblings, opts.DuplicateThreshold)
	}

	if opts.ContributorProfile {
		profile := Profile(pr.Author, in.History)
		decision.Contributor = &profile
	}

	return decision
}

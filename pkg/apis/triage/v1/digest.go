package v1

import "time"

// MergedPullRequest is a PR merged inside a digest window.
type MergedPullRequest struct {
	Number    int       `json:"number" yaml:"number"`
	Author    string    `json:"author" yaml:"author"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	MergedAt  time.Time `json:"mergedAt" yaml:"mergedAt"`
}

// AuthorCount is one row of the digest's top authors.
type AuthorCount struct {
	Author string `json:"author" yaml:"author"`
	Merged int    `json:"merged" yaml:"merged"`
}

// Digest summarizes repository activity over a window of days.
type Digest struct {
	Repository         string        `json:"repository" yaml:"repository"`
	Since              time.Time     `json:"since" yaml:"since"`
	Until              time.Time     `json:"until" yaml:"until"`
	PRsOpened          int           `json:"prsOpened" yaml:"prsOpened"`
	PRsMerged          int           `json:"prsMerged" yaml:"prsMerged"`
	PRsClosedUnmerged  int           `json:"prsClosedUnmerged" yaml:"prsClosedUnmerged"`
	IssuesOpened       int           `json:"issuesOpened" yaml:"issuesOpened"`
	IssuesClosed       int           `json:"issuesClosed" yaml:"issuesClosed"`
	OpenPRs            int           `json:"openPRs" yaml:"openPRs"`
	OpenIssues         int           `json:"openIssues" yaml:"openIssues"`
	MedianHoursToMerge float64       `json:"medianHoursToMerge" yaml:"medianHoursToMerge"`
	P90HoursToMerge    float64       `json:"p90HoursToMerge" yaml:"p90HoursToMerge"`
	TopAuthors         []AuthorCount `json:"topAuthors" yaml:"topAuthors"`
}

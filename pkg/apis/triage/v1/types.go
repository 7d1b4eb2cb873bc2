package v1

import (
	"fmt"
	"strings"
	"time"
)

// Mergeable describes whether GitHub was able to compute a clean merge for a PR.
type Mergeable string

const (
	MergeableUnknown     Mergeable = "UNKNOWN"
	MergeableMergeable   Mergeable = "MERGEABLE"
	MergeableConflicting Mergeable = "CONFLICTING"
)

// MergeStateStatus is the upper-cased mergeable_state reported by GitHub.
type MergeStateStatus string

const (
	MergeStateClean    MergeStateStatus = "CLEAN"
	MergeStateDirty    MergeStateStatus = "DIRTY"
	MergeStateBlocked  MergeStateStatus = "BLOCKED"
	MergeStateBehind   MergeStateStatus = "BEHIND"
	MergeStateUnstable MergeStateStatus = "UNSTABLE"
	MergeStateHasHooks MergeStateStatus = "HAS_HOOKS"
	MergeStateDraft    MergeStateStatus = "DRAFT"
	MergeStateUnknown  MergeStateStatus = "UNKNOWN"
)

// ReviewDecision summarizes the review state of a PR.
type ReviewDecision string

const (
	ReviewDecisionNone             ReviewDecision = "NONE"
	ReviewDecisionApproved         ReviewDecision = "APPROVED"
	ReviewDecisionChangesRequested ReviewDecision = "CHANGES_REQUESTED"
	ReviewDecisionReviewRequired   ReviewDecision = "REVIEW_REQUIRED"
)

// PullRequestSnapshot is the PR metadata fetched once per run.
type PullRequestSnapshot struct {
	Number           int              `json:"number" yaml:"number"`
	Title            string           `json:"title" yaml:"title"`
	Body             string           `json:"body,omitempty" yaml:"body,omitempty"`
	Author           string           `json:"author" yaml:"author"`
	BaseBranch       string           `json:"baseBranch" yaml:"baseBranch"`
	HeadBranch       string           `json:"headBranch" yaml:"headBranch"`
	CreatedAt        time.Time        `json:"createdAt" yaml:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt" yaml:"updatedAt"`
	Draft            bool             `json:"draft" yaml:"draft"`
	Mergeable        Mergeable        `json:"mergeable" yaml:"mergeable"`
	MergeStateStatus MergeStateStatus `json:"mergeStateStatus" yaml:"mergeStateStatus"`
	ReviewDecision   ReviewDecision   `json:"reviewDecision" yaml:"reviewDecision"`
	Additions        int              `json:"additions" yaml:"additions"`
	Deletions        int              `json:"deletions" yaml:"deletions"`
	ChangedFiles     int              `json:"changedFiles" yaml:"changedFiles"`
	Files            []string         `json:"files" yaml:"files"`
	Labels           []string         `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// ChangedLines is additions plus deletions.
func (s PullRequestSnapshot) ChangedLines() int {
	return s.Additions + s.Deletions
}

// SiblingPR is another open PR in the same repository, used for overlap checks.
type SiblingPR struct {
	Number int      `json:"number" yaml:"number"`
	Title  string   `json:"title" yaml:"title"`
	Author string   `json:"author" yaml:"author"`
	Files  []string `json:"files" yaml:"files"`
}

// AuthorHistory counts an author's PRs in the repository.
type AuthorHistory struct {
	Merged         int `json:"merged" yaml:"merged"`
	ClosedUnmerged int `json:"closedUnmerged" yaml:"closedUnmerged"`
	Open           int `json:"open" yaml:"open"`
}

func (h AuthorHistory) Total() int {
	return h.Merged + h.ClosedUnmerged + h.Open
}

// PRType is the single category a PR is classified into.
type PRType string

const (
	PRTypeChore    PRType = "chore"
	PRTypeDocs     PRType = "docs"
	PRTypeCI       PRType = "ci"
	PRTypeDeps     PRType = "deps"
	PRTypeBugFix   PRType = "bug-fix"
	PRTypeFeature  PRType = "feature"
	PRTypeRefactor PRType = "refactor"
	PRTypeTest     PRType = "test"
)

// Classification is the PR type plus the evidence of the rule that produced it.
type Classification struct {
	Type PRType `json:"type" yaml:"type"`
	// Rule names the rule that fired, "default" when none did.
	Rule string `json:"rule" yaml:"rule"`
	// Evidence is the matched keyword for text rules, or the matched paths for path rules.
	Evidence []string `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// RiskLevel orders from low to critical.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskCritical
)

var riskLevelNames = []string{"low", "medium", "high", "critical"}

func (r RiskLevel) String() string {
	if r < RiskLow || r > RiskCritical {
		return fmt.Sprintf("RiskLevel(%d)", int(r))
	}
	return riskLevelNames[r]
}

func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *RiskLevel) UnmarshalText(text []byte) error {
	level, err := ParseRiskLevel(string(text))
	if err != nil {
		return err
	}
	*r = level
	return nil
}

// ParseRiskLevel is the inverse of RiskLevel.String.
func ParseRiskLevel(s string) (RiskLevel, error) {
	for i, name := range riskLevelNames {
		if strings.EqualFold(s, name) {
			return RiskLevel(i), nil
		}
	}
	return RiskLow, fmt.Errorf("unknown risk level %q", s)
}

// RiskAssessment is the risk level and the reasons produced by the rules that fired.
// Reasons is never empty.
type RiskAssessment struct {
	Level   RiskLevel `json:"level" yaml:"level"`
	Reasons []string  `json:"reasons" yaml:"reasons"`
}

// DuplicateFinding is an open PR whose changed files overlap with the target PR.
type DuplicateFinding struct {
	Number  int       `json:"number" yaml:"number"`
	Title   string    `json:"title" yaml:"title"`
	Author  string    `json:"author" yaml:"author"`
	Overlap int       `json:"overlap" yaml:"overlap"`
	Risk    RiskLevel `json:"risk" yaml:"risk"`
	Note    string    `json:"note" yaml:"note"`
}

// Tier is the trust band of a contributor.
type Tier string

const (
	TierFirstTime    Tier = "first-time"
	TierNew          Tier = "new"
	TierTrusted      Tier = "trusted"
	TierRegular      Tier = "regular"
	TierLowMergeRate Tier = "low-merge-rate"
	TierOccasional   Tier = "occasional"
)

// ContributorProfile is the author's history, merge rate and tier.
type ContributorProfile struct {
	Author    string        `json:"author" yaml:"author"`
	History   AuthorHistory `json:"history" yaml:"history"`
	MergeRate int           `json:"mergeRate" yaml:"mergeRate"`
	Tier      Tier          `json:"tier" yaml:"tier"`
	// Guidance is the recommended reviewer posture for this tier.
	Guidance string `json:"guidance" yaml:"guidance"`
	// Automated marks bot accounts; it does not affect the tier.
	Automated bool `json:"automated" yaml:"automated"`
}

// Action is the single recommended next step for a PR.
type Action string

const (
	ActionDraft            Action = "draft"
	ActionSecurityReview   Action = "security-review"
	ActionReadyToMerge     Action = "ready-to-merge"
	ActionChangesRequested Action = "changes-requested"
	ActionRebase           Action = "rebase"
	ActionQuickReview      Action = "quick-review"
	ActionNeedsReview      Action = "needs-review"
)

var actionMessages = map[Action]string{
	ActionDraft:            "Draft, no review needed yet",
	ActionSecurityReview:   "Security review required",
	ActionReadyToMerge:     "Ready to merge",
	ActionChangesRequested: "Changes requested",
	ActionRebase:           "Merge conflicts, rebase needed",
	ActionQuickReview:      "Quick review, low risk",
	ActionNeedsReview:      "Needs review, assign reviewer",
}

var actionEmoji = map[Action]string{
	ActionDraft:            "📝",
	ActionSecurityReview:   "🔒",
	ActionReadyToMerge:     "✅",
	ActionChangesRequested: "🔄",
	ActionRebase:           "⚠️",
	ActionQuickReview:      "⚡",
	ActionNeedsReview:      "👀",
}

// Message is the human readable form of the action.
func (a Action) Message() string {
	if m, ok := actionMessages[a]; ok {
		return m
	}
	return string(a)
}

func (a Action) Emoji() string {
	if e, ok := actionEmoji[a]; ok {
		return e
	}
	return "❔"
}

// DependencyBump is parsed from titles such as "Bump golang.org/x/net from 0.1.0 to 0.2.0".
type DependencyBump struct {
	Package string `json:"package" yaml:"package"`
	From    string `json:"from" yaml:"from"`
	To      string `json:"to" yaml:"to"`
	// Kind is major, minor or patch; empty when either version does not parse.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// Decision is the finalized set of triage outputs for one PR. It is the only input of the
// report renderer.
type Decision struct {
	Repository     string              `json:"repository" yaml:"repository"`
	PullRequest    PullRequestSnapshot `json:"pullRequest" yaml:"pullRequest"`
	Classification Classification      `json:"classification" yaml:"classification"`
	Risk           RiskAssessment      `json:"risk" yaml:"risk"`
	SecurityFiles  bool                `json:"securityFiles" yaml:"securityFiles"`
	Action         Action              `json:"action" yaml:"action"`
	Labels         []string            `json:"labels" yaml:"labels"`
	DependencyBump *DependencyBump     `json:"dependencyBump,omitempty" yaml:"dependencyBump,omitempty"`
	// DuplicateCheck is false when the check was disabled, Duplicates is then ignored.
	DuplicateCheck bool                `json:"duplicateCheck" yaml:"duplicateCheck"`
	Duplicates     []DuplicateFinding  `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	Contributor    *ContributorProfile `json:"contributor,omitempty" yaml:"contributor,omitempty"`
}

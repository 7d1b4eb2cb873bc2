package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	gh "github.com/google/go-github/v45/github"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
	"github.com/openshift-eng/pr-triage/pkg/triage"
)

const commentIDRegex = `META\s*=\s*{(?P<meta>[^}]*)`

// if we have fewer than this threshold remaining we will report rate limited
const rateLimitThreshold = 500

// larger page size fewer requests counting against our api rate
const pageSize = 100

// concurrent file list requests while collecting siblings
const siblingFetchLimit = 5

var ErrPullRequestNotFound = errors.New("pull request not found")

type Client struct {
	ctx                 context.Context
	prFetch             func(owner, repo string, number int) (*gh.PullRequest, error)
	prFilesFetch        func(owner, repo string, number int) ([]*gh.CommitFile, error)
	prReviewsFetch      func(owner, repo string, number int) ([]*gh.PullRequestReview, error)
	openPRsFetch        func(owner, repo string, limit int) ([]*gh.PullRequest, error)
	closedPRsFetch      func(owner, repo string, since time.Time) ([]*gh.PullRequest, error)
	searchCount         func(query string) (int, error)
	prCommentsFetch     func(owner, repo string, number int) ([]*gh.IssueComment, error)
	prCommentCreate     func(owner, repo string, number int, comment string) (*gh.IssueComment, error)
	prCommentEdit       func(owner, repo string, id int64, comment string) (*gh.IssueComment, error)
	labelFetch          func(owner, repo, name string) (*gh.Label, error)
	labelCreate         func(owner, repo string, label *gh.Label) (*gh.Label, error)
	labelsAdd           func(owner, repo string, number int, labels []string) error
	gitHubCoreRateFetch func() (*gh.Rate, error)
	commentMetaRegEx    *regexp.Regexp
}

func New(ctx context.Context, creds Credentials) *Client {
	return newClient(ctx, gh.NewClient(newGHAuthClient(ctx, creds)))
}

func newClient(ctx context.Context, ghc *gh.Client) *Client {
	client := &Client{ctx: ctx}

	client.prFetch = func(owner, repo string, number int) (*gh.PullRequest, error) {
		pr, _, err := ghc.PullRequests.Get(client.ctx, owner, repo, number)
		return pr, err
	}

	client.prFilesFetch = func(owner, repo string, number int) ([]*gh.CommitFile, error) {
		var all []*gh.CommitFile
		opts := &gh.ListOptions{PerPage: pageSize}
		for {
			files, resp, err := ghc.PullRequests.ListFiles(client.ctx, owner, repo, number, opts)
			if err != nil {
				return nil, err
			}
			all = append(all, files...)
			if resp == nil || resp.NextPage == 0 {
				return all, nil
			}
			opts.Page = resp.NextPage
		}
	}

	client.prReviewsFetch = func(owner, repo string, number int) ([]*gh.PullRequestReview, error) {
		var all []*gh.PullRequestReview
		opts := &gh.ListOptions{PerPage: pageSize}
		for {
			reviews, resp, err := ghc.PullRequests.ListReviews(client.ctx, owner, repo, number, opts)
			if err != nil {
				return nil, err
			}
			all = append(all, reviews...)
			if resp == nil || resp.NextPage == 0 {
				return all, nil
			}
			opts.Page = resp.NextPage
		}
	}

	client.openPRsFetch = func(owner, repo string, limit int) ([]*gh.PullRequest, error) {
		prs, _, err := ghc.PullRequests.List(client.ctx, owner, repo, &gh.PullRequestListOptions{
			State:       "open",
			Sort:        "updated",
			Direction:   "desc",
			ListOptions: gh.ListOptions{PerPage: limit},
		})
		return prs, err
	}

	client.closedPRsFetch = func(owner, repo string, since time.Time) ([]*gh.PullRequest, error) {
		var response []*gh.PullRequest
		opts := &gh.PullRequestListOptions{State: "closed", Sort: "updated", Direction: "desc", ListOptions: gh.ListOptions{PerPage: pageSize}}
		for {
			prs, resp, err := ghc.PullRequests.List(client.ctx, owner, repo, opts)
			if err != nil {
				return response, err
			}

			lastPage := resp == nil || resp.NextPage == 0
			for _, pr := range prs {
				if pr == nil || pr.Number == nil {
					continue
				}
				// sorted by update time, so nothing past this point can be in the window
				if pr.UpdatedAt != nil && pr.UpdatedAt.Before(since) {
					lastPage = true
					break
				}
				response = append(response, pr)
			}

			if lastPage {
				return response, nil
			}
			opts.Page = resp.NextPage
		}
	}

	client.searchCount = func(query string) (int, error) {
		result, _, err := ghc.Search.Issues(client.ctx, query, &gh.SearchOptions{ListOptions: gh.ListOptions{PerPage: 1}})
		if err != nil {
			return 0, err
		}
		return result.GetTotal(), nil
	}

	client.prCommentsFetch = func(owner, repo string, number int) ([]*gh.IssueComment, error) {
		var all []*gh.IssueComment
		opts := &gh.IssueListCommentsOptions{ListOptions: gh.ListOptions{PerPage: pageSize}}
		for {
			comments, resp, err := ghc.Issues.ListComments(client.ctx, owner, repo, number, opts)
			if err != nil {
				return nil, err
			}
			all = append(all, comments...)
			if resp == nil || resp.NextPage == 0 {
				return all, nil
			}
			opts.Page = resp.NextPage
		}
	}

	client.prCommentCreate = func(owner, repo string, number int, comment string) (*gh.IssueComment, error) {
		ghComment := &gh.IssueComment{Body: &comment}
		commentResponse, _, err := ghc.Issues.CreateComment(client.ctx, owner, repo, number, ghComment)
		return commentResponse, err
	}

	client.prCommentEdit = func(owner, repo string, id int64, comment string) (*gh.IssueComment, error) {
		ghComment := &gh.IssueComment{Body: &comment}
		commentResponse, _, err := ghc.Issues.EditComment(client.ctx, owner, repo, id, ghComment)
		return commentResponse, err
	}

	client.labelFetch = func(owner, repo, name string) (*gh.Label, error) {
		label, _, err := ghc.Issues.GetLabel(client.ctx, owner, repo, name)
		return label, err
	}

	client.labelCreate = func(owner, repo string, label *gh.Label) (*gh.Label, error) {
		created, _, err := ghc.Issues.CreateLabel(client.ctx, owner, repo, label)
		return created, err
	}

	client.labelsAdd = func(owner, repo string, number int, labels []string) error {
		_, _, err := ghc.Issues.AddLabelsToIssue(client.ctx, owner, repo, number, labels)
		return err
	}

	client.gitHubCoreRateFetch = func() (*gh.Rate, error) {
		rateLimits, _, err := ghc.RateLimits(client.ctx)
		if err != nil {
			return nil, err
		}
		if rateLimits == nil {
			return nil, nil
		}
		return rateLimits.Core, nil
	}

	client.commentMetaRegEx = regexp.MustCompile(commentIDRegex)

	return client
}

func isNotFound(err error) bool {
	var resp *gh.ErrorResponse
	return errors.As(err, &resp) && resp.Response != nil && resp.Response.StatusCode == http.StatusNotFound
}

func (c *Client) IsWithinRateLimitThreshold() bool {
	rate, err := c.gitHubCoreRateFetch()

	if err != nil {
		// presume we are rate limited if we can't even get the rate limit...
		return true
	}

	if rate == nil {
		// for now assume rate limited if we can't get the rate
		return true
	}

	log.Infof("Github Limit:%d, Remaining:%d", rate.Limit, rate.Remaining)

	return rate.Remaining < rateLimitThreshold
}

// GetPullRequestSnapshot fetches the PR, its complete file list and its reviews.
// A missing PR is reported as ErrPullRequestNotFound.
func (c *Client) GetPullRequestSnapshot(owner, repo string, number int) (*v1.PullRequestSnapshot, error) {
	pr, err := c.prFetch(owner, repo, number)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Wrapf(ErrPullRequestNotFound, "%s/%s#%d", owner, repo, number)
		}
		return nil, errors.Wrapf(err, "error retrieving pull request %s/%s#%d", owner, repo, number)
	}
	if pr == nil {
		return nil, errors.Wrapf(ErrPullRequestNotFound, "%s/%s#%d", owner, repo, number)
	}

	files, err := c.prFilesFetch(owner, repo, number)
	if err != nil {
		return nil, errors.Wrapf(err, "error retrieving files for %s/%s#%d", owner, repo, number)
	}

	reviews, err := c.prReviewsFetch(owner, repo, number)
	if err != nil {
		return nil, errors.Wrapf(err, "error retrieving reviews for %s/%s#%d", owner, repo, number)
	}

	snapshot := &v1.PullRequestSnapshot{
		Number:           pr.GetNumber(),
		Title:            pr.GetTitle(),
		Body:             pr.GetBody(),
		Author:           pr.GetUser().GetLogin(),
		BaseBranch:       pr.GetBase().GetRef(),
		HeadBranch:       pr.GetHead().GetRef(),
		CreatedAt:        pr.GetCreatedAt(),
		UpdatedAt:        pr.GetUpdatedAt(),
		Draft:            pr.GetDraft(),
		Mergeable:        MergeableFor(pr.Mergeable),
		MergeStateStatus: MergeStateFor(pr.GetMergeableState()),
		ReviewDecision:   ReviewDecisionFor(reviews, len(pr.RequestedReviewers)+len(pr.RequestedTeams)),
		Additions:        pr.GetAdditions(),
		Deletions:        pr.GetDeletions(),
		ChangedFiles:     pr.GetChangedFiles(),
		Files:            fileNames(files),
	}
	for _, l := range pr.Labels {
		snapshot.Labels = append(snapshot.Labels, l.GetName())
	}
	return snapshot, nil
}

// ListSiblingPRs returns up to triage.MaxSiblings open PRs with their file lists, most recently updated first.
// A sibling whose file list cannot be fetched fails the whole listing.
func (c *Client) ListSiblingPRs(owner, repo string) ([]v1.SiblingPR, error) {
	prs, err := c.openPRsFetch(owner, repo, triage.MaxSiblings)
	if err != nil {
		return nil, errors.Wrapf(err, "error listing open pull requests for %s/%s", owner, repo)
	}
	if len(prs) > triage.MaxSiblings {
		prs = prs[:triage.MaxSiblings]
	}

	siblings := make([]v1.SiblingPR, len(prs))
	g := new(errgroup.Group)
	g.SetLimit(siblingFetchLimit)
	for i, pr := range prs {
		siblings[i] = v1.SiblingPR{
			Number: pr.GetNumber(),
			Title:  pr.GetTitle(),
			Author: pr.GetUser().GetLogin(),
		}
		g.Go(func() error {
			files, err := c.prFilesFetch(owner, repo, pr.GetNumber())
			if err != nil {
				return errors.Wrapf(err, "error retrieving files for sibling #%d", pr.GetNumber())
			}
			siblings[i].Files = fileNames(files)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return siblings, nil
}

// GetAuthorHistory counts the author's merged, closed-unmerged and open PRs in the repository.
func (c *Client) GetAuthorHistory(owner, repo, author string) (v1.AuthorHistory, error) {
	var history v1.AuthorHistory
	base := fmt.Sprintf("repo:%s/%s is:pr author:%s", owner, repo, SearchAuthor(author))

	g := new(errgroup.Group)
	for query, count := range map[string]*int{
		base + " is:merged":             &history.Merged,
		base + " is:closed is:unmerged": &history.ClosedUnmerged,
		base + " is:open":               &history.Open,
	} {
		g.Go(func() error {
			n, err := c.searchCount(query)
			if err != nil {
				return errors.Wrapf(err, "error searching %q", query)
			}
			*count = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return v1.AuthorHistory{}, err
	}
	return history, nil
}

// SearchAuthor is the author qualifier search accepts for a login. App accounts log in as
// "<name>[bot]" but are searched as "app/<name>".
func SearchAuthor(login string) string {
	if name, ok := strings.CutSuffix(login, "[bot]"); ok && name != "" {
		return "app/" + name
	}
	return login
}

// SearchCount returns the total number of issues and PRs matching a search query.
func (c *Client) SearchCount(query string) (int, error) {
	n, err := c.searchCount(query)
	if err != nil {
		return 0, errors.Wrapf(err, "error searching %q", query)
	}
	return n, nil
}

// ListMergedPullRequestsSince returns PRs merged at or after since, most recently updated first.
func (c *Client) ListMergedPullRequestsSince(owner, repo string, since time.Time) ([]v1.MergedPullRequest, error) {
	prs, err := c.closedPRsFetch(owner, repo, since)
	if err != nil {
		return nil, errors.Wrapf(err, "error listing closed pull requests for %s/%s", owner, repo)
	}

	var merged []v1.MergedPullRequest
	for _, pr := range prs {
		if pr.MergedAt == nil || pr.MergedAt.Before(since) {
			continue
		}
		merged = append(merged, v1.MergedPullRequest{
			Number:    pr.GetNumber(),
			Author:    pr.GetUser().GetLogin(),
			CreatedAt: pr.GetCreatedAt(),
			MergedAt:  *pr.MergedAt,
		})
	}
	return merged, nil
}

func (c *Client) CreatePRComment(owner, repo string, number int, comment string) error {
	_, err := c.prCommentCreate(owner, repo, number, comment)
	return err
}

func (c *Client) EditPRComment(owner, repo string, id int64, comment string) error {
	_, err := c.prCommentEdit(owner, repo, id, comment)
	return err
}

// FindCommentID returns the id and body of the first comment whose META block maps commentKey to commentID.
func (c *Client) FindCommentID(owner, repo string, number int, commentKey, commentID string) (*int64, *string, error) {
	comments, err := c.prCommentsFetch(owner, repo, number)

	if err != nil {
		return nil, nil, err
	}

	for _, cmt := range comments {
		if cmt == nil || cmt.Body == nil {
			continue
		}
		if c.isCommentIDMatch(*cmt.Body, commentKey, commentID) {
			return cmt.ID, cmt.Body, nil
		}
	}
	return nil, nil, nil
}

func (c *Client) isCommentIDMatch(comment, commentKey, commentID string) bool {
	match := c.commentMetaRegEx.FindStringSubmatch(comment)
	if match == nil {
		return false
	}

	index := c.commentMetaRegEx.SubexpIndex("meta")
	if index < 0 {
		return false
	}

	metaJSON := fmt.Sprintf("{%s}", match[index])
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(metaJSON), &result); err != nil {
		log.WithError(err).Errorf("Error searching for commentId: %s, match", commentID)
		return false
	}

	value, ok := result[commentKey]
	return ok && value == commentID
}

// EnsureLabel creates the label with the given color unless it already exists.
// It reports whether the label had to be created.
func (c *Client) EnsureLabel(owner, repo, name, color, description string) (bool, error) {
	_, err := c.labelFetch(owner, repo, name)
	if err == nil {
		return false, nil
	}
	if !isNotFound(err) {
		return false, errors.Wrapf(err, "error looking up label %q", name)
	}

	if _, err := c.labelCreate(owner, repo, &gh.Label{Name: &name, Color: &color, Description: &description}); err != nil {
		return false, errors.Wrapf(err, "error creating label %q", name)
	}
	return true, nil
}

func (c *Client) AddLabels(owner, repo string, number int, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	return c.labelsAdd(owner, repo, number, labels)
}

// MergeableFor maps the REST tri-state mergeable flag.
func MergeableFor(mergeable *bool) v1.Mergeable {
	switch {
	case mergeable == nil:
		return v1.MergeableUnknown
	case *mergeable:
		return v1.MergeableMergeable
	default:
		return v1.MergeableConflicting
	}
}

var mergeStates = map[string]v1.MergeStateStatus{
	"CLEAN":     v1.MergeStateClean,
	"DIRTY":     v1.MergeStateDirty,
	"BLOCKED":   v1.MergeStateBlocked,
	"BEHIND":    v1.MergeStateBehind,
	"UNSTABLE":  v1.MergeStateUnstable,
	"HAS_HOOKS": v1.MergeStateHasHooks,
	"DRAFT":     v1.MergeStateDraft,
}

// MergeStateFor maps the REST mergeable_state string, anything unrecognized is UNKNOWN.
func MergeStateFor(state string) v1.MergeStateStatus {
	if s, ok := mergeStates[strings.ToUpper(state)]; ok {
		return s
	}
	return v1.MergeStateUnknown
}

// ReviewDecisionFor derives the review decision from the PR's reviews, which the API returns oldest first.
// Only each reviewer's latest non-comment review counts.
func ReviewDecisionFor(reviews []*gh.PullRequestReview, pendingRequests int) v1.ReviewDecision {
	latest := map[string]string{}
	for _, r := range reviews {
		state := strings.ToUpper(r.GetState())
		if state == "COMMENTED" || state == "PENDING" || state == "" {
			continue
		}
		latest[r.GetUser().GetLogin()] = state
	}

	var approved bool
	for _, state := range latest {
		switch state {
		case "CHANGES_REQUESTED":
			return v1.ReviewDecisionChangesRequested
		case "APPROVED":
			approved = true
		}
	}
	switch {
	case approved:
		return v1.ReviewDecisionApproved
	case pendingRequests > 0:
		return v1.ReviewDecisionReviewRequired
	default:
		return v1.ReviewDecisionNone
	}
}

func fileNames(files []*gh.CommitFile) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.GetFilename())
	}
	return names
}

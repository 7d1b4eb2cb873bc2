package commenter

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// GitHubClient is the part of github.Client the commenter writes through.
type GitHubClient interface {
	FindCommentID(owner, repo string, number int, commentKey, commentID string) (*int64, *string, error)
	CreatePRComment(owner, repo string, number int, comment string) error
	EditPRComment(owner, repo string, id int64, comment string) error
	EnsureLabel(owner, repo, name, color, description string) (bool, error)
	AddLabels(owner, repo string, number int, labels []string) error
}

type GitHubCommenter struct {
	githubClient GitHubClient
	dryRun       bool
}

const TriageCommentIDKey = `pr_triage_id`

// LabelColor is used for every label the commenter has to create.
const LabelColor = "ededed"

const labelDescription = "Applied by pr-triage"

type CommentOutcome string

const (
	CommentCreated   CommentOutcome = "created"
	CommentUpdated   CommentOutcome = "updated"
	CommentUnchanged CommentOutcome = "unchanged"
	CommentDryRun    CommentOutcome = "dry-run"
)

// LabelOutcome lists the labels that were added and those dropped because they could not be created.
type LabelOutcome struct {
	Applied []string
	Dropped []string
}

func NewGitHubCommenter(githubClient GitHubClient, dryRun bool) *GitHubCommenter {
	return &GitHubCommenter{githubClient: githubClient, dryRun: dryRun}
}

func (ghc *GitHubCommenter) CreateCommentID(number int) string {
	return fmt.Sprintf("PR_TRIAGE_%d", number)
}

// CommentBody prefixes the rendered report with the hidden META block used to find it again.
func (ghc *GitHubCommenter) CommentBody(number int, report string) string {
	return fmt.Sprintf("<!-- META={\"%s\": \"%s\"} -->\n\n%s", TriageCommentIDKey, ghc.CreateCommentID(number), report)
}

// UpsertComment leaves at most one triage comment on the PR. An existing comment is edited in place,
// and not touched at all when its content already matches.
func (ghc *GitHubCommenter) UpsertComment(owner, repo string, number int, report string) (CommentOutcome, error) {
	logger := log.WithField("org", owner).
		WithField("repo", repo).
		WithField("number", number)

	body := ghc.CommentBody(number, report)

	existingID, existingBody, err := ghc.githubClient.FindCommentID(owner, repo, number, TriageCommentIDKey, ghc.CreateCommentID(number))
	if err != nil {
		return "", errors.Wrap(err, "error looking for existing triage comment")
	}

	if existingID != nil && existingBody != nil && strings.TrimSpace(*existingBody) == strings.TrimSpace(body) {
		logger.WithField("comment_id", *existingID).Debug("Triage comment is up to date")
		return CommentUnchanged, nil
	}

	if ghc.dryRun {
		logger.Infof("Dry run, would have written comment:\n%s", body)
		return CommentDryRun, nil
	}

	if existingID != nil {
		if err := ghc.githubClient.EditPRComment(owner, repo, *existingID, body); err != nil {
			return "", errors.Wrapf(err, "error updating triage comment %d", *existingID)
		}
		logger.WithField("comment_id", *existingID).Info("Updated triage comment")
		return CommentUpdated, nil
	}

	if err := ghc.githubClient.CreatePRComment(owner, repo, number, body); err != nil {
		return "", errors.Wrap(err, "error creating triage comment")
	}
	logger.Info("Created triage comment")
	return CommentCreated, nil
}

// ApplyLabels makes sure every label exists and adds them to the PR in a single call.
// A label that cannot be created is dropped with a warning; only the final add is returned as an error.
func (ghc *GitHubCommenter) ApplyLabels(owner, repo string, number int, labels []string) (LabelOutcome, error) {
	logger := log.WithField("org", owner).
		WithField("repo", repo).
		WithField("number", number)

	var outcome LabelOutcome
	if len(labels) == 0 {
		return outcome, nil
	}

	if ghc.dryRun {
		logger.Infof("Dry run, would have applied labels: %s", strings.Join(labels, ", "))
		outcome.Applied = labels
		return outcome, nil
	}

	for _, label := range labels {
		created, err := ghc.githubClient.EnsureLabel(owner, repo, label, LabelColor, labelDescription)
		if err != nil {
			logger.WithError(err).WithField("label", label).Warn("Skipping label")
			outcome.Dropped = append(outcome.Dropped, label)
			continue
		}
		if created {
			logger.WithField("label", label).Debug("Created label")
		}
		outcome.Applied = append(outcome.Applied, label)
	}

	if err := ghc.githubClient.AddLabels(owner, repo, number, outcome.Applied); err != nil {
		dropped := outcome.Dropped
		return LabelOutcome{Dropped: append(dropped, outcome.Applied...)}, errors.Wrap(err, "error adding labels")
	}
	return outcome, nil
}

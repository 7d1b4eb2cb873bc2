// Package triageprocessor runs one triage: fetch the PR and its context, decide, render, publish.
//
// The primary PR fetch is the only read that can fail the run. Sibling and history reads fall back
// to empty results, and the comment and label writes happen last and independently of each other.
package triageprocessor

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
	"github.com/openshift-eng/pr-triage/pkg/github/commenter"
	"github.com/openshift-eng/pr-triage/pkg/metrics"
	"github.com/openshift-eng/pr-triage/pkg/triage"
	"github.com/openshift-eng/pr-triage/pkg/triage/report"
)

type Fetcher interface {
	GetPullRequestSnapshot(owner, repo string, number int) (*v1.PullRequestSnapshot, error)
	ListSiblingPRs(owner, repo string) ([]v1.SiblingPR, error)
	GetAuthorHistory(owner, repo, author string) (v1.AuthorHistory, error)
}

type Publisher interface {
	UpsertComment(owner, repo string, number int, report string) (commenter.CommentOutcome, error)
	ApplyLabels(owner, repo string, number int, labels []string) (commenter.LabelOutcome, error)
}

type Processor struct {
	fetcher      Fetcher
	publisher    Publisher
	options      triage.Options
	enableLabels bool
}

// Result is what a run decided and which parts of it made it to GitHub.
type Result struct {
	Decision       v1.Decision
	Comment        string
	CommentOutcome commenter.CommentOutcome
	Labels         commenter.LabelOutcome
	// Warnings lists every degraded step, in the order they happened.
	Warnings []string
}

func (r *Result) warn(logger *log.Entry, err error, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.WithError(err).Warn(msg)
	r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %v", msg, err))
}

func New(fetcher Fetcher, publisher Publisher, options triage.Options, enableLabels bool) *Processor {
	return &Processor{
		fetcher:      fetcher,
		publisher:    publisher,
		options:      options,
		enableLabels: enableLabels,
	}
}

func observe(phase string, start time.Time) {
	metrics.PhaseDurationMetric.WithLabelValues(phase).Observe(float64(time.Since(start).Milliseconds()))
}

// Run returns an error only when the PR itself cannot be fetched.
func (p *Processor) Run(owner, repo string, number int) (*Result, error) {
	repository := fmt.Sprintf("%s/%s", owner, repo)
	logger := log.WithField("org", owner).
		WithField("repo", repo).
		WithField("number", number)

	start := time.Now()
	pr, err := p.fetcher.GetPullRequestSnapshot(owner, repo, number)
	observe("fetch", start)
	if err != nil {
		return nil, errors.WithMessage(err, "could not fetch pull request")
	}
	logger.Debugf("fetched %q by %s with %d files", pr.Title, pr.Author, len(pr.Files))

	result := &Result{}
	input := triage.Input{Repository: repository, PullRequest: *pr}

	var wg sync.WaitGroup
	var siblingsErr, historyErr error
	if p.options.DuplicateCheck {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer observe("siblings", time.Now())
			input.Siblings, siblingsErr = p.fetcher.ListSiblingPRs(owner, repo)
		}()
	}
	if p.options.ContributorProfile {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer observe("history", time.Now())
			input.History, historyErr = p.fetcher.GetAuthorHistory(owner, repo, pr.Author)
		}()
	}
	wg.Wait()

	if siblingsErr != nil {
		input.Siblings = nil
		metrics.DegradedMetric.WithLabelValues(repository, "siblings").Inc()
		result.warn(logger, siblingsErr, "could not list open pull requests, skipping duplicate detection")
	}
	if historyErr != nil {
		input.History = v1.AuthorHistory{}
		metrics.DegradedMetric.WithLabelValues(repository, "history").Inc()
		result.warn(logger, historyErr, "could not fetch author history, assuming no history")
	}

	result.Decision = triage.Decide(input, p.options)
	result.Comment = report.Render(result.Decision)

	metrics.RiskLevelMetric.WithLabelValues(repository, string(result.Decision.Classification.Type)).Set(float64(result.Decision.Risk.Level))
	metrics.DuplicateFindingsMetric.WithLabelValues(repository).Set(float64(len(result.Decision.Duplicates)))
	logger.WithField("type", result.Decision.Classification.Type).
		WithField("risk", result.Decision.Risk.Level).
		WithField("action", result.Decision.Action).
		Info("triage decided")

	start = time.Now()
	defer observe("publish", start)

	result.CommentOutcome, err = p.publisher.UpsertComment(owner, repo, number, result.Comment)
	if err != nil {
		metrics.WriteErrorMetric.WithLabelValues(repository, "comment").Inc()
		result.warn(logger, err, "could not write triage comment")
	}

	if p.enableLabels {
		result.Labels, err = p.publisher.ApplyLabels(owner, repo, number, result.Decision.Labels)
		switch {
		case err != nil:
			metrics.WriteErrorMetric.WithLabelValues(repository, "labels").Inc()
			result.warn(logger, err, "could not apply labels")
		case len(result.Labels.Dropped) > 0:
			metrics.WriteErrorMetric.WithLabelValues(repository, "labels").Inc()
			result.Warnings = append(result.Warnings, fmt.Sprintf("labels could not be created: %s", strings.Join(result.Labels.Dropped, ", ")))
		}
	}

	return result, nil
}

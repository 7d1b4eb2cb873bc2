// Package digest summarizes a repository's pull request and issue activity over a window of days.
package digest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
	"github.com/openshift-eng/pr-triage/pkg/format"
)

// TopAuthorCount is how many merged-PR authors the digest lists.
const TopAuthorCount = 5

// concurrent search requests, the search API has a much lower rate limit than the core API
const searchLimit = 3

const dateLayout = "2006-01-02"

type Source interface {
	SearchCount(query string) (int, error)
	ListMergedPullRequestsSince(owner, repo string, since time.Time) ([]v1.MergedPullRequest, error)
}

// Build gathers the digest for the days before now. Any failed query fails the digest.
func Build(src Source, owner, repo string, now time.Time, days int) (*v1.Digest, error) {
	if days < 1 {
		return nil, errors.Errorf("digest window must be at least one day, got %d", days)
	}

	since := now.AddDate(0, 0, -days)
	d := &v1.Digest{
		Repository: fmt.Sprintf("%s/%s", owner, repo),
		Since:      since,
		Until:      now,
	}

	scope := fmt.Sprintf("repo:%s/%s", owner, repo)
	date := since.UTC().Format(dateLayout)
	queries := []struct {
		query string
		count *int
	}{
		{fmt.Sprintf("%s is:pr created:>=%s", scope, date), &d.PRsOpened},
		{fmt.Sprintf("%s is:pr is:merged merged:>=%s", scope, date), &d.PRsMerged},
		{fmt.Sprintf("%s is:pr is:unmerged closed:>=%s", scope, date), &d.PRsClosedUnmerged},
		{fmt.Sprintf("%s is:issue created:>=%s", scope, date), &d.IssuesOpened},
		{fmt.Sprintf("%s is:issue is:closed closed:>=%s", scope, date), &d.IssuesClosed},
		{fmt.Sprintf("%s is:pr is:open", scope), &d.OpenPRs},
		{fmt.Sprintf("%s is:issue is:open", scope), &d.OpenIssues},
	}

	g := new(errgroup.Group)
	g.SetLimit(searchLimit)
	for _, q := range queries {
		g.Go(func() error {
			n, err := src.SearchCount(q.query)
			if err != nil {
				return err
			}
			*q.count = n
			return nil
		})
	}

	var merged []v1.MergedPullRequest
	g.Go(func() error {
		var err error
		merged, err = src.ListMergedPullRequestsSince(owner, repo, since)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "error building digest")
	}

	d.MedianHoursToMerge, d.P90HoursToMerge = mergeHours(merged)
	d.TopAuthors = TopAuthors(merged, TopAuthorCount)

	log.WithField("repo", d.Repository).
		WithField("merged", len(merged)).
		Debugf("digest built for %s to %s", since.Format(dateLayout), now.Format(dateLayout))
	return d, nil
}

// mergeHours returns the median and 90th percentile of creation-to-merge time, rounded to a tenth of an hour.
func mergeHours(merged []v1.MergedPullRequest) (float64, float64) {
	hours := make([]float64, 0, len(merged))
	for _, pr := range merged {
		hours = append(hours, pr.MergedAt.Sub(pr.CreatedAt).Hours())
	}
	if len(hours) == 0 {
		return 0, 0
	}

	data := stats.LoadRawData(hours)
	median, _ := stats.Median(data)
	p90, _ := stats.Percentile(data, 90)
	median, _ = stats.Round(median, 1)
	p90, _ = stats.Round(p90, 1)
	return median, p90
}

// TopAuthors ranks authors by merged PR count, ties broken by name.
func TopAuthors(merged []v1.MergedPullRequest, limit int) []v1.AuthorCount {
	counts := map[string]int{}
	for _, pr := range merged {
		counts[pr.Author]++
	}

	authors := make([]v1.AuthorCount, 0, len(counts))
	for author, n := range counts {
		authors = append(authors, v1.AuthorCount{Author: author, Merged: n})
	}
	sort.Slice(authors, func(i, j int) bool {
		if authors[i].Merged != authors[j].Merged {
			return authors[i].Merged > authors[j].Merged
		}
		return authors[i].Author < authors[j].Author
	})

	if len(authors) > limit {
		authors = authors[:limit]
	}
	return authors
}

// Render writes the digest as two tables, ASCII for terminals or Markdown for step summaries.
func Render(d *v1.Digest, mode format.Mode) string {
	var sb strings.Builder

	title := fmt.Sprintf("Activity for %s, %s to %s", d.Repository, d.Since.Format(dateLayout), d.Until.Format(dateLayout))
	if mode == format.Markdown {
		sb.WriteString(fmt.Sprintf("## %s\n\n", title))
	} else {
		sb.WriteString(title + "\n\n")
	}

	activity := format.NewTable(mode).
		Header("Metric", "Count").
		Row("PRs opened", d.PRsOpened).
		Row("PRs merged", d.PRsMerged).
		Row("PRs closed without merge", d.PRsClosedUnmerged).
		Row("Issues opened", d.IssuesOpened).
		Row("Issues closed", d.IssuesClosed).
		Row("Open PRs", d.OpenPRs).
		Row("Open issues", d.OpenIssues).
		Row("Median hours to merge", fmt.Sprintf("%.1f", d.MedianHoursToMerge)).
		Row("p90 hours to merge", fmt.Sprintf("%.1f", d.P90HoursToMerge)).
		AlignRight(2)
	sb.WriteString(activity.String())
	sb.WriteString("\n")

	if len(d.TopAuthors) > 0 {
		authors := format.NewTable(mode).Header("Top authors", "Merged").AlignRight(2)
		for _, a := range d.TopAuthors {
			authors.Row(a.Author, a.Merged)
		}
		sb.WriteString("\n")
		sb.WriteString(authors.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

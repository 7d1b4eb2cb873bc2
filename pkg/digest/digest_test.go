package digest

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
	"github.com/openshift-eng/pr-triage/pkg/format"
)

type fakeSource struct {
	lock    sync.Mutex
	queries []string
	counts  map[string]int
	failOn  string
	merged  []v1.MergedPullRequest
	since   time.Time
}

func (f *fakeSource) SearchCount(query string) (int, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.queries = append(f.queries, query)
	if f.failOn != "" && strings.Contains(query, f.failOn) {
		return 0, fmt.Errorf("search failed")
	}
	for fragment, n := range f.counts {
		if strings.HasSuffix(query, fragment) {
			return n, nil
		}
	}
	return 0, nil
}

func (f *fakeSource) ListMergedPullRequestsSince(owner, repo string, since time.Time) ([]v1.MergedPullRequest, error) {
	f.since = since
	return f.merged, nil
}

var now = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func mergedAfter(number int, author string, hours int) v1.MergedPullRequest {
	created := now.Add(-time.Duration(hours) * time.Hour * 2)
	return v1.MergedPullRequest{Number: number, Author: author, CreatedAt: created, MergedAt: created.Add(time.Duration(hours) * time.Hour)}
}

func TestBuild(t *testing.T) {
	src := &fakeSource{
		counts: map[string]int{
			"is:pr created:>=2024-06-03":             12,
			"is:pr is:merged merged:>=2024-06-03":    10,
			"is:pr is:unmerged closed:>=2024-06-03":  2,
			"is:issue created:>=2024-06-03":          5,
			"is:issue is:closed closed:>=2024-06-03": 4,
			"is:pr is:open":                          31,
			"is:issue is:open":                       77,
		},
	}
	authors := []string{"alice", "bob", "alice", "carol", "dave", "erin", "alice", "bob", "frank", "carol"}
	for i, a := range authors {
		src.merged = append(src.merged, mergedAfter(i+1, a, i+1))
	}

	d, err := Build(src, "openshift", "origin", now, 7)
	require.NoError(t, err)

	assert.Equal(t, now.AddDate(0, 0, -7), src.since)
	assert.Len(t, src.queries, 7)
	for _, q := range src.queries {
		assert.True(t, strings.HasPrefix(q, "repo:openshift/origin "), q)
	}

	assert.Equal(t, "openshift/origin", d.Repository)
	assert.Equal(t, 12, d.PRsOpened)
	assert.Equal(t, 10, d.PRsMerged)
	assert.Equal(t, 2, d.PRsClosedUnmerged)
	assert.Equal(t, 5, d.IssuesOpened)
	assert.Equal(t, 4, d.IssuesClosed)
	assert.Equal(t, 31, d.OpenPRs)
	assert.Equal(t, 77, d.OpenIssues)
	assert.Equal(t, 5.5, d.MedianHoursToMerge)
	assert.Equal(t, 9.0, d.P90HoursToMerge)

	expectedAuthors := []v1.AuthorCount{
		{Author: "alice", Merged: 3},
		{Author: "bob", Merged: 2},
		{Author: "carol", Merged: 2},
		{Author: "dave", Merged: 1},
		{Author: "erin", Merged: 1},
	}
	if diff := cmp.Diff(expectedAuthors, d.TopAuthors); diff != "" {
		t.Errorf("top authors mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFailsOnAnyQuery(t *testing.T) {
	src := &fakeSource{failOn: "is:issue is:open"}
	_, err := Build(src, "openshift", "origin", now, 7)
	assert.Error(t, err)

	_, err = Build(&fakeSource{}, "openshift", "origin", now, 0)
	assert.Error(t, err)
}

func TestBuildWithNoMerges(t *testing.T) {
	d, err := Build(&fakeSource{}, "openshift", "origin", now, 1)
	require.NoError(t, err)
	assert.Zero(t, d.MedianHoursToMerge)
	assert.Zero(t, d.P90HoursToMerge)
	assert.Empty(t, d.TopAuthors)
}

func TestRender(t *testing.T) {
	d := &v1.Digest{
		Repository:         "openshift/origin",
		Since:              now.AddDate(0, 0, -7),
		Until:              now,
		PRsOpened:          12,
		PRsMerged:          10,
		MedianHoursToMerge: 5.5,
		TopAuthors:         []v1.AuthorCount{{Author: "alice", Merged: 3}},
	}

	md := Render(d, format.Markdown)
	assert.True(t, strings.HasPrefix(md, "## Activity for openshift/origin, 2024-06-03 to 2024-06-10\n"), md)
	assert.Contains(t, md, "| PRs opened")
	assert.Contains(t, md, "5.5")
	assert.Contains(t, md, "| alice")

	ascii := Render(d, format.ASCII)
	assert.True(t, strings.HasPrefix(ascii, "Activity for openshift/origin"), ascii)
	assert.Contains(t, ascii, "alice")

	d.TopAuthors = nil
	assert.NotContains(t, Render(d, format.Markdown), "Top authors")
}

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/openshift-eng/pr-triage/pkg/digest"
	"github.com/openshift-eng/pr-triage/pkg/flags"
	"github.com/openshift-eng/pr-triage/pkg/format"
	"github.com/openshift-eng/pr-triage/pkg/metrics"
)

type DigestFlags struct {
	GitHubFlags  *flags.GitHubFlags
	DigestFlags  *flags.DigestFlags
	MetricsFlags *flags.MetricsFlags
}

func NewDigestFlags() *DigestFlags {
	return &DigestFlags{
		GitHubFlags:  flags.NewGitHubFlags(false),
		DigestFlags:  flags.NewDigestFlags(),
		MetricsFlags: flags.NewMetricsFlags(),
	}
}

func (f *DigestFlags) BindFlags(fs *pflag.FlagSet) {
	f.GitHubFlags.BindFlags(fs)
	f.DigestFlags.BindFlags(fs)
	f.MetricsFlags.BindFlags(fs)
}

func (f *DigestFlags) Validate() error {
	if err := f.GitHubFlags.Validate(); err != nil {
		return err
	}
	return f.DigestFlags.Validate()
}

func NewDigestCommand() *cobra.Command {
	f := NewDigestFlags()

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Summarize recent pull request and issue activity",
		Long: `Count the pull requests and issues opened, merged and closed over the last days,
along with merge times and the most active authors. The digest is printed to stdout
and appended to the Actions job summary when one is available.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Validate(); err != nil {
				return errors.WithMessage(err, "error validating options")
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()

			owner, repo := f.GitHubFlags.OwnerRepo()
			ghClient := f.GitHubFlags.GetClient(ctx)
			if ghClient.IsWithinRateLimitThreshold() {
				log.Warn("GitHub rate limit is nearly exhausted, the digest may fail")
			}

			pusher := f.MetricsFlags.GetPusher()
			defer pusher.Push()

			d, err := digest.Build(ghClient, owner, repo, time.Now().UTC(), f.DigestFlags.Days)
			if err != nil {
				return err
			}
			for kind, n := range map[string]int{
				"prs_opened":          d.PRsOpened,
				"prs_merged":          d.PRsMerged,
				"prs_closed_unmerged": d.PRsClosedUnmerged,
				"issues_opened":       d.IssuesOpened,
				"issues_closed":       d.IssuesClosed,
				"open_prs":            d.OpenPRs,
				"open_issues":         d.OpenIssues,
			} {
				metrics.DigestCountMetric.WithLabelValues(d.Repository, kind).Set(float64(n))
			}

			fmt.Fprint(os.Stdout, digest.Render(d, format.ASCII))

			if f.DigestFlags.StepSummary == "" {
				return nil
			}
			summary, err := os.OpenFile(f.DigestFlags.StepSummary, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				return errors.Wrap(err, "could not open step summary")
			}
			defer summary.Close()
			if _, err := summary.WriteString(digest.Render(d, format.Markdown)); err != nil {
				return errors.Wrap(err, "could not write step summary")
			}
			log.Infof("digest appended to %s", strconv.Quote(f.DigestFlags.StepSummary))
			return nil
		},
	}
	f.BindFlags(cmd.Flags())

	return cmd
}

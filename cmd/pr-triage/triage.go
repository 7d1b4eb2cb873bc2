package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
	"github.com/openshift-eng/pr-triage/pkg/flags"
	"github.com/openshift-eng/pr-triage/pkg/format"
	"github.com/openshift-eng/pr-triage/pkg/github/commenter"
	"github.com/openshift-eng/pr-triage/pkg/triageprocessor"
)

type TriageFlags struct {
	GitHubFlags  *flags.GitHubFlags
	TriageFlags  *flags.TriageFlags
	MetricsFlags *flags.MetricsFlags
	Timeout      time.Duration
}

func NewTriageFlags() *TriageFlags {
	return &TriageFlags{
		GitHubFlags:  flags.NewGitHubFlags(true),
		TriageFlags:  flags.NewTriageFlags(),
		MetricsFlags: flags.NewMetricsFlags(),
		Timeout:      5 * time.Minute,
	}
}

func (f *TriageFlags) BindFlags(fs *pflag.FlagSet) {
	f.GitHubFlags.BindFlags(fs)
	f.TriageFlags.BindFlags(fs)
	f.MetricsFlags.BindFlags(fs)
	fs.DurationVar(&f.Timeout, "timeout", f.Timeout, "Overall time limit for the run")
}

func (f *TriageFlags) Validate() error {
	if err := f.GitHubFlags.Validate(); err != nil {
		return err
	}
	return f.TriageFlags.Validate()
}

func NewTriageCommand() *cobra.Command {
	f := NewTriageFlags()

	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Triage a pull request and update its summary comment and labels",
		Long: `Fetch a pull request, classify it, score its risk, look for open PRs touching the
same files and profile the author. The result is kept in a single comment on the PR
and applied as labels. Inside GitHub Actions the repository, PR number and token are
read from the workflow environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Validate(); err != nil {
				return errors.WithMessage(err, "error validating options")
			}

			ctx, cancel := context.WithTimeout(context.Background(), f.Timeout)
			defer cancel()

			owner, repo := f.GitHubFlags.OwnerRepo()
			ghClient := f.GitHubFlags.GetClient(ctx)
			ghCommenter := commenter.NewGitHubCommenter(ghClient, f.TriageFlags.DryRun)
			processor := triageprocessor.New(ghClient, ghCommenter, f.TriageFlags.Options(), f.TriageFlags.EnableLabels)

			pusher := f.MetricsFlags.GetPusher()
			defer pusher.Push()

			result, err := processor.Run(owner, repo, f.GitHubFlags.PRNumber)
			if err != nil {
				return err
			}

			for _, w := range result.Warnings {
				log.Warnf("degraded: %s", w)
			}
			log.WithField("comment", result.CommentOutcome).
				WithField("labels", strings.Join(result.Labels.Applied, ",")).
				Infof("triage of %s/%s#%d complete", owner, repo, f.GitHubFlags.PRNumber)

			return writeDecision(os.Stdout, f.TriageFlags.Output, result.Decision)
		},
	}
	f.BindFlags(cmd.Flags())

	return cmd
}

func writeDecision(w io.Writer, output string, d v1.Decision) error {
	switch output {
	case flags.OutputNone:
		return nil
	case flags.OutputYAML:
		y, err := yaml.Marshal(&d)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(y))
		return err
	case flags.OutputJSON:
		j, err := json.MarshalIndent(&d, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(j))
		return err
	case flags.OutputTable:
		_, err := fmt.Fprintln(w, decisionTable(d).String())
		return err
	}
	return errors.Errorf("invalid output format: %s", output)
}

func decisionTable(d v1.Decision) *format.Table {
	pr := d.PullRequest
	// rows are never wrapped, a table title would be cut at the body width
	t := format.NewTable(format.ASCII).
		Header("Field", "Value").
		Row("Pull request", fmt.Sprintf("%s#%d %s", d.Repository, pr.Number, pr.Title)).
		Row("Type", fmt.Sprintf("%s (%s)", d.Classification.Type, d.Classification.Rule)).
		Row("Risk", d.Risk.Level).
		Row("Reasons", strings.Join(d.Risk.Reasons, "\n")).
		Row("Action", d.Action.Message()).
		Row("Labels", strings.Join(d.Labels, ", "))
	if b := d.DependencyBump; b != nil {
		t.Row("Dependency update", fmt.Sprintf("%s %s -> %s %s", b.Package, b.From, b.To, b.Kind))
	}
	for _, dup := range d.Duplicates {
		t.Row("Overlap", fmt.Sprintf("#%d %d%% (%s)", dup.Number, dup.Overlap, dup.Risk))
	}
	if c := d.Contributor; c != nil {
		t.Row("Contributor", fmt.Sprintf("%s, %s, %d%% merged", c.Author, c.Tier, c.MergeRate))
	}
	return t
}

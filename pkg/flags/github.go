package flags

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/openshift-eng/pr-triage/pkg/github"
)

var (
	ErrMissingRepository  = errors.New("repository is required (--repository or GITHUB_REPOSITORY)")
	ErrMissingPullRequest = errors.New("pull request number is required (--pr-number, PR_NUMBER or a pull_request event)")
	ErrMissingToken       = errors.New("GitHub credentials are required (--token, GITHUB_TOKEN or GitHub App settings)")
)

var repositoryRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// GitHubFlags holds the repository, PR and credentials a run works against.
type GitHubFlags struct {
	Repository        string
	PRNumber          int
	Token             string
	AppID             int64
	AppInstallationID int64

	fs *pflag.FlagSet
	// digest runs against the repository only
	requirePR bool
}

func NewGitHubFlags(requirePR bool) *GitHubFlags {
	return &GitHubFlags{requirePR: requirePR}
}

func (f *GitHubFlags) BindFlags(fs *pflag.FlagSet) {
	f.fs = fs
	fs.StringVar(&f.Repository, "repository", os.Getenv("GITHUB_REPOSITORY"), "Repository in owner/name form")
	if f.requirePR {
		fs.IntVar(&f.PRNumber, "pr-number", f.PRNumber, "Pull request number, defaults to PR_NUMBER or the Actions event payload")
	}
	fs.StringVar(&f.Token, "token", f.Token, "GitHub token, defaults to GITHUB_TOKEN, INPUT_GITHUB-TOKEN or git config github.token")
	fs.Int64Var(&f.AppID, "app-id", f.AppID, "GitHub App id, authenticates as the app installation when set with --app-installation-id and GITHUB_APP_CLIENT_KEY")
	fs.Int64Var(&f.AppInstallationID, "app-installation-id", f.AppInstallationID, "GitHub App installation id")
}

// Validate fills in values from the environment, the Actions event payload and git config,
// then checks that everything required is present.
func (f *GitHubFlags) Validate() error {
	var event github.Event
	if path := os.Getenv("GITHUB_EVENT_PATH"); path != "" {
		var err error
		event, err = github.ReadEvent(path)
		if err != nil {
			log.WithError(err).Warn("ignoring unreadable event payload")
		}
	}

	if f.Repository == "" {
		f.Repository = event.Repository
	}
	if f.Repository == "" {
		return ErrMissingRepository
	}
	if !repositoryRegex.MatchString(f.Repository) {
		return errors.Errorf("invalid repository %q, expected owner/name", f.Repository)
	}

	if f.requirePR {
		if err := resolveInt(f.fs, "pr-number", &f.PRNumber, nil, "PR_NUMBER"); err != nil {
			return err
		}
		if f.PRNumber == 0 {
			f.PRNumber = event.Number
		}
		if f.PRNumber <= 0 {
			return ErrMissingPullRequest
		}
	}

	if f.Token == "" {
		if _, token, ok := lookupEnv("GITHUB_TOKEN", "INPUT_GITHUB-TOKEN"); ok {
			f.Token = token
		}
	}
	if f.Credentials().IsZero() {
		log.Infof("No GitHub token environment variable, checking git config")
		f.Token = github.TokenFromGitConfig()
	}
	if f.Credentials().IsZero() {
		return ErrMissingToken
	}
	return nil
}

func (f *GitHubFlags) OwnerRepo() (string, string) {
	owner, repo, _ := strings.Cut(f.Repository, "/")
	return owner, repo
}

func (f *GitHubFlags) Credentials() github.Credentials {
	creds := github.Credentials{
		Token:          f.Token,
		AppID:          f.AppID,
		InstallationID: f.AppInstallationID,
	}
	if f.AppID != 0 {
		creds.AppPrivateKey = []byte(os.Getenv("GITHUB_APP_CLIENT_KEY"))
	}
	return creds
}

func (f *GitHubFlags) GetClient(ctx context.Context) *github.Client {
	return github.New(ctx, f.Credentials())
}

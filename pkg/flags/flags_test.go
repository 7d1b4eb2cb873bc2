package flags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the developer's environment and git config out of the tests.
func isolate(t *testing.T) {
	for _, name := range []string{
		"GITHUB_REPOSITORY", "GITHUB_EVENT_PATH", "GITHUB_TOKEN", "INPUT_GITHUB-TOKEN", "PR_NUMBER",
		"GITHUB_APP_CLIENT_KEY", "GITHUB_STEP_SUMMARY",
		"INPUT_DUPLICATE-THRESHOLD", "INPUT_DUPLICATE_THRESHOLD",
		"INPUT_ENABLE-LABELS", "INPUT_ENABLE_LABELS",
		"INPUT_ENABLE-DUPLICATE-CHECK", "INPUT_ENABLE_DUPLICATE_CHECK",
		"INPUT_ENABLE-CONTRIBUTOR-PROFILE", "INPUT_ENABLE_CONTRIBUTOR_PROFILE",
		"INPUT_DRY-RUN", "INPUT_DRY_RUN", "INPUT_DAYS",
	} {
		t.Setenv(name, "")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(home, ".gitconfig"))
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "1", "yes", " Yes "} {
		b, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.True(t, b, s)
	}
	for _, s := range []string{"false", "False", "0", "no"} {
		b, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.False(t, b, s)
	}
	_, err := ParseBool("maybe")
	assert.Error(t, err)
}

func parseGitHubFlags(t *testing.T, args ...string) *GitHubFlags {
	f := NewGitHubFlags(true)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return f
}

func TestGitHubFlagsValidate(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		args       []string
		event      string
		wantErr    error
		wantRepo   string
		wantNumber int
		wantToken  string
	}{
		{
			name:       "flags",
			args:       []string{"--repository", "openshift/origin", "--pr-number", "42", "--token", "abc"},
			wantRepo:   "openshift/origin",
			wantNumber: 42,
			wantToken:  "abc",
		},
		{
			name:       "actions environment",
			env:        map[string]string{"GITHUB_REPOSITORY": "openshift/origin", "PR_NUMBER": "7", "INPUT_GITHUB-TOKEN": "xyz"},
			wantRepo:   "openshift/origin",
			wantNumber: 7,
			wantToken:  "xyz",
		},
		{
			name:       "GITHUB_TOKEN wins over the action input",
			env:        map[string]string{"GITHUB_TOKEN": "first", "INPUT_GITHUB-TOKEN": "second"},
			args:       []string{"--repository", "openshift/origin", "--pr-number", "1"},
			wantRepo:   "openshift/origin",
			wantNumber: 1,
			wantToken:  "first",
		},
		{
			name:       "event payload",
			env:        map[string]string{"GITHUB_TOKEN": "abc"},
			event:      `{"pull_request": {"number": 99}, "repository": {"full_name": "openshift/installer"}}`,
			wantRepo:   "openshift/installer",
			wantNumber: 99,
			wantToken:  "abc",
		},
		{
			name:    "missing repository",
			args:    []string{"--pr-number", "1", "--token", "abc"},
			wantErr: ErrMissingRepository,
		},
		{
			name:    "missing pull request",
			args:    []string{"--repository", "openshift/origin", "--token", "abc"},
			wantErr: ErrMissingPullRequest,
		},
		{
			name:    "missing token",
			args:    []string{"--repository", "openshift/origin", "--pr-number", "1"},
			wantErr: ErrMissingToken,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.event != "" {
				t.Setenv("GITHUB_EVENT_PATH", writeFile(t, "event.json", tt.event))
			}

			f := parseGitHubFlags(t, tt.args...)
			err := f.Validate()
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRepo, f.Repository)
			assert.Equal(t, tt.wantNumber, f.PRNumber)
			assert.Equal(t, tt.wantToken, f.Token)
		})
	}
}

func TestGitHubFlagsInvalidRepository(t *testing.T) {
	isolate(t)
	f := parseGitHubFlags(t, "--repository", "origin", "--pr-number", "1", "--token", "abc")
	assert.Error(t, f.Validate())
}

func TestGitHubFlagsOwnerRepoAndApp(t *testing.T) {
	isolate(t)
	t.Setenv("GITHUB_APP_CLIENT_KEY", "pem")
	f := parseGitHubFlags(t, "--repository", "openshift/origin", "--pr-number", "3", "--app-id", "10", "--app-installation-id", "20")
	require.NoError(t, f.Validate())

	owner, repo := f.OwnerRepo()
	assert.Equal(t, "openshift", owner)
	assert.Equal(t, "origin", repo)

	creds := f.Credentials()
	assert.True(t, creds.HasApp())
	assert.Equal(t, []byte("pem"), creds.AppPrivateKey)
}

func parseTriageFlags(t *testing.T, args ...string) *TriageFlags {
	f := NewTriageFlags()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return f
}

func TestTriageFlagsDefaults(t *testing.T) {
	isolate(t)
	f := parseTriageFlags(t)
	require.NoError(t, f.Validate())
	assert.Equal(t, 50, f.DuplicateThreshold)
	assert.True(t, f.EnableLabels)
	assert.True(t, f.EnableDuplicateCheck)
	assert.True(t, f.EnableContributorProfile)
	assert.False(t, f.DryRun)

	opts := f.Options()
	assert.Equal(t, 50, opts.DuplicateThreshold)
	assert.True(t, opts.DuplicateCheck)
	assert.True(t, opts.ContributorProfile)
}

func TestTriageFlagsPrecedence(t *testing.T) {
	isolate(t)
	config := writeFile(t, "triage.yaml", `
triage:
  duplicateThreshold: 70
  enableLabels: false
  enableDuplicateCheck: false
  dryRun: true
`)
	t.Setenv("INPUT_DUPLICATE-THRESHOLD", "60")
	t.Setenv("INPUT_ENABLE-DUPLICATE-CHECK", "yes")

	f := parseTriageFlags(t, "--config", config, "--duplicate-threshold", "80")
	require.NoError(t, f.Validate())

	// flag beats environment and config
	assert.Equal(t, 80, f.DuplicateThreshold)
	// environment beats config
	assert.True(t, f.EnableDuplicateCheck)
	// config beats default
	assert.False(t, f.EnableLabels)
	assert.True(t, f.DryRun)
	assert.True(t, f.EnableContributorProfile)

	f = parseTriageFlags(t, "--config", config)
	require.NoError(t, f.Validate())
	assert.Equal(t, 60, f.DuplicateThreshold)
}

func TestTriageFlagsValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{name: "threshold too high", args: []string{"--duplicate-threshold", "101"}},
		{name: "threshold negative", args: []string{"--duplicate-threshold=-1"}},
		{name: "threshold not a number", env: map[string]string{"INPUT_DUPLICATE-THRESHOLD": "half"}},
		{name: "bad boolean", env: map[string]string{"INPUT_ENABLE-LABELS": "sometimes"}},
		{name: "bad output", args: []string{"--output", "xml"}},
		{name: "missing config", args: []string{"--config", "/does/not/exist.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			f := parseTriageFlags(t, tt.args...)
			assert.Error(t, f.Validate())
		})
	}
}

func TestDigestFlags(t *testing.T) {
	isolate(t)
	t.Setenv("GITHUB_STEP_SUMMARY", "/tmp/summary.md")
	f := NewDigestFlags()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.BindFlags(fs)
	require.NoError(t, fs.Parse(nil))
	require.NoError(t, f.Validate())
	assert.Equal(t, 7, f.Days)
	assert.Equal(t, "/tmp/summary.md", f.StepSummary)

	f = NewDigestFlags()
	fs = pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--days", "0"}))
	assert.Error(t, f.Validate())
}

package flags

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/openshift-eng/pr-triage/pkg/flags/configflags"
	"github.com/openshift-eng/pr-triage/pkg/triage"
)

const (
	OutputNone  = ""
	OutputYAML  = "yaml"
	OutputJSON  = "json"
	OutputTable = "table"
)

// TriageFlags holds the settings of a triage run. Each setting is taken from its flag when given,
// then from the Actions input environment variable, then from the config file, then the default.
type TriageFlags struct {
	DuplicateThreshold       int
	EnableLabels             bool
	EnableDuplicateCheck     bool
	EnableContributorProfile bool
	DryRun                   bool
	Output                   string

	ConfigFlags *configflags.ConfigFlags

	fs *pflag.FlagSet
}

func NewTriageFlags() *TriageFlags {
	return &TriageFlags{
		DuplicateThreshold:       triage.DefaultDuplicateThreshold,
		EnableLabels:             true,
		EnableDuplicateCheck:     true,
		EnableContributorProfile: true,
		ConfigFlags:              configflags.NewConfigFlags(),
	}
}

func (f *TriageFlags) BindFlags(fs *pflag.FlagSet) {
	f.fs = fs
	f.ConfigFlags.BindFlags(fs)
	fs.IntVar(&f.DuplicateThreshold, "duplicate-threshold", f.DuplicateThreshold, "Minimum file overlap percentage (0-100) reported as a possible duplicate")
	fs.BoolVar(&f.EnableLabels, "enable-labels", f.EnableLabels, "Apply triage labels to the PR")
	fs.BoolVar(&f.EnableDuplicateCheck, "enable-duplicate-check", f.EnableDuplicateCheck, "Compare changed files against other open PRs")
	fs.BoolVar(&f.EnableContributorProfile, "enable-contributor-profile", f.EnableContributorProfile, "Include the author's contribution history")
	fs.BoolVar(&f.DryRun, "dry-run", f.DryRun, "Log the comment and labels instead of writing them")
	fs.StringVarP(&f.Output, "output", "o", f.Output, "Also print the decision to stdout; available options are 'yaml', 'json' and 'table'")
}

// Validate resolves every setting against the environment and config file, then checks ranges.
func (f *TriageFlags) Validate() error {
	config, err := f.ConfigFlags.GetConfig()
	if err != nil {
		return err
	}
	settings := config.Triage

	if err := resolveInt(f.fs, "duplicate-threshold", &f.DuplicateThreshold, settings.DuplicateThreshold, "INPUT_DUPLICATE-THRESHOLD", "INPUT_DUPLICATE_THRESHOLD"); err != nil {
		return err
	}
	for _, b := range []struct {
		flag   string
		value  *bool
		config *bool
		env    []string
	}{
		{"enable-labels", &f.EnableLabels, settings.EnableLabels, []string{"INPUT_ENABLE-LABELS", "INPUT_ENABLE_LABELS"}},
		{"enable-duplicate-check", &f.EnableDuplicateCheck, settings.EnableDuplicateCheck, []string{"INPUT_ENABLE-DUPLICATE-CHECK", "INPUT_ENABLE_DUPLICATE_CHECK"}},
		{"enable-contributor-profile", &f.EnableContributorProfile, settings.EnableContributorProfile, []string{"INPUT_ENABLE-CONTRIBUTOR-PROFILE", "INPUT_ENABLE_CONTRIBUTOR_PROFILE"}},
		{"dry-run", &f.DryRun, settings.DryRun, []string{"INPUT_DRY-RUN", "INPUT_DRY_RUN"}},
	} {
		if err := resolveBool(f.fs, b.flag, b.value, b.config, b.env...); err != nil {
			return err
		}
	}

	if f.DuplicateThreshold < 0 || f.DuplicateThreshold > 100 {
		return errors.Errorf("duplicate-threshold must be between 0 and 100, got %d", f.DuplicateThreshold)
	}
	switch f.Output {
	case OutputNone, OutputYAML, OutputJSON, OutputTable:
	default:
		return errors.Errorf("invalid output format: %s", f.Output)
	}
	return nil
}

func (f *TriageFlags) Options() triage.Options {
	return triage.Options{
		DuplicateThreshold: f.DuplicateThreshold,
		DuplicateCheck:     f.EnableDuplicateCheck,
		ContributorProfile: f.EnableContributorProfile,
	}
}

package flags

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/openshift-eng/pr-triage/pkg/flags/configflags"
)

const defaultDigestDays = 7

// DigestFlags holds the window and destinations of the weekly digest.
type DigestFlags struct {
	Days        int
	StepSummary string

	ConfigFlags *configflags.ConfigFlags

	fs *pflag.FlagSet
}

func NewDigestFlags() *DigestFlags {
	return &DigestFlags{
		Days:        defaultDigestDays,
		ConfigFlags: configflags.NewConfigFlags(),
	}
}

func (f *DigestFlags) BindFlags(fs *pflag.FlagSet) {
	f.fs = fs
	f.ConfigFlags.BindFlags(fs)
	fs.IntVar(&f.Days, "days", f.Days, "Number of days the digest covers")
	fs.StringVar(&f.StepSummary,
		"step-summary",
		os.Getenv("GITHUB_STEP_SUMMARY"),
		"File the markdown digest is appended to, defaults to the Actions job summary")
}

func (f *DigestFlags) Validate() error {
	config, err := f.ConfigFlags.GetConfig()
	if err != nil {
		return err
	}
	if err := resolveInt(f.fs, "days", &f.Days, config.Digest.Days, "INPUT_DAYS"); err != nil {
		return err
	}
	if f.Days < 1 {
		return errors.Errorf("days must be at least 1, got %d", f.Days)
	}
	return nil
}

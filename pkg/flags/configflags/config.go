package configflags

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	v1 "github.com/openshift-eng/pr-triage/pkg/apis/config/v1"
)

// ConfigFlags holds the location of the optional pr-triage configuration file.
type ConfigFlags struct {
	Path string
}

func NewConfigFlags() *ConfigFlags {
	return &ConfigFlags{}
}

func (f *ConfigFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Path,
		"config",
		f.Path,
		"YAML file with default triage settings, overridden by flags and environment")
}

// GetConfig returns an empty config when no path was given.
func (f *ConfigFlags) GetConfig() (*v1.TriageConfig, error) {
	var config v1.TriageConfig

	if f.Path == "" {
		return &config, nil
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.WithMessage(err, "could not load config")
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.WithMessage(err, "couldn't unmarshal config")
	}

	return &config, nil
}

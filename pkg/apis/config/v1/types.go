package v1

// TriageConfig is the optional YAML file passed with --config. Unset fields fall back to
// the built-in defaults, and flags or environment variables override anything set here.
type TriageConfig struct {
	Triage TriageSettings `yaml:"triage"`
	Digest DigestSettings `yaml:"digest"`
}

type TriageSettings struct {
	// DuplicateThreshold is the minimum file overlap percentage reported as a possible duplicate.
	DuplicateThreshold *int `yaml:"duplicateThreshold,omitempty"`

	EnableLabels             *bool `yaml:"enableLabels,omitempty"`
	EnableDuplicateCheck     *bool `yaml:"enableDuplicateCheck,omitempty"`
	EnableContributorProfile *bool `yaml:"enableContributorProfile,omitempty"`

	// DryRun logs the comment and labels instead of writing them.
	DryRun *bool `yaml:"dryRun,omitempty"`
}

type DigestSettings struct {
	Days *int `yaml:"days,omitempty"`
}

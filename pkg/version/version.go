package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time with -ldflags "-X github.com/openshift-eng/pr-triage/pkg/version.commitFromGit=..."
var (
	commitFromGit string
	buildDate     string
	gitTreeState  string
)

// modulePath is reported when the binary carries no build info, as in some test binaries.
const modulePath = "github.com/openshift-eng/pr-triage"

type Info struct {
	Module        string `json:"module" yaml:"module"`
	ModuleVersion string `json:"moduleVersion,omitempty" yaml:"moduleVersion,omitempty"`
	GitCommit     string `json:"gitCommit" yaml:"gitCommit"`
	GitTreeState  string `json:"gitTreeState,omitempty" yaml:"gitTreeState,omitempty"`
	BuildDate     string `json:"buildDate,omitempty" yaml:"buildDate,omitempty"`
	GoVersion     string `json:"goVersion" yaml:"goVersion"`
	Compiler      string `json:"compiler" yaml:"compiler"`
	Platform      string `json:"platform" yaml:"platform"`
}

// Get returns the build info, falling back to the VCS stamp the go tool embeds when ldflags were not set.
func Get() Info {
	info := Info{
		Module:       modulePath,
		GitCommit:    commitFromGit,
		GitTreeState: gitTreeState,
		BuildDate:    buildDate,
		GoVersion:    runtime.Version(),
		Compiler:     runtime.Compiler,
		Platform:     fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	bi, ok := debug.ReadBuildInfo()
	if ok && bi.Main.Path != "" {
		info.Module = bi.Main.Path
		if bi.Main.Version != "(devel)" {
			info.ModuleVersion = bi.Main.Version
		}
	}
	if info.GitCommit == "" {
		info.GitCommit = "unknown"
		if ok {
			for _, s := range bi.Settings {
				switch s.Key {
				case "vcs.revision":
					info.GitCommit = s.Value
				case "vcs.modified":
					if info.GitTreeState == "" && s.Value == "true" {
						info.GitTreeState = "dirty"
					}
				}
			}
		}
	}
	return info
}

// String is the one line form: module, module version when known, and commit.
func (i Info) String() string {
	if i.ModuleVersion != "" {
		return fmt.Sprintf("%s %s (%s)", i.Module, i.ModuleVersion, i.GitCommit)
	}
	return fmt.Sprintf("%s (%s)", i.Module, i.GitCommit)
}

package triage

import (
	"regexp"
	"strings"

	"github.com/hashicorp/go-version"

	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
)

// matches dependabot and renovate style titles, "chore(deps): bump x from 1.0.0 to 2.0.0"
var bumpTitleRegex = regexp.MustCompile(`(?i)\b(?:bump|update|upgrade)\s+(\S+)\s+from\s+v?(\S+)\s+to\s+v?(\S+)`)

// ParseDependencyBump extracts a dependency bump from a PR title, nil when the title is not a bump.
func ParseDependencyBump(title string) *v1.DependencyBump {
	m := bumpTitleRegex.FindStringSubmatch(title)
	if m == nil {
		return nil
	}
	bump := &v1.DependencyBump{
		Package: strings.Trim(m[1], "`"),
		From:    strings.TrimRight(m[2], ".,;"),
		To:      strings.TrimRight(m[3], ".,;"),
	}
	bump.Kind = bumpKind(bump.From, bump.To)
	return bump
}

func bumpKind(from, to string) string {
	fromV, err := version.NewVersion(from)
	if err != nil {
		return ""
	}
	toV, err := version.NewVersion(to)
	if err != nil {
		return ""
	}
	f, t := fromV.Segments(), toV.Segments()
	switch {
	case f[0] != t[0]:
		return "major"
	case f[1] != t[1]:
		return "minor"
	default:
		return "patch"
	}
}

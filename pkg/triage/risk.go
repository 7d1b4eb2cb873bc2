package triage

import (
	"fmt"

	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
)

const (
	largeChangeLines    = 500
	largeChangeFiles    = 10
	moderateChangeLines = 200
	moderateChangeFiles = 5
)

const defaultRiskReason = "small, focused change"

// RiskInput is everything the risk scorer looks at.
type RiskInput struct {
	Type          v1.PRType
	SecurityFiles bool
	CIFiles       bool
	ChangedLines  int
	ChangedFiles  int
}

// riskRule yields the level it raises to and its reason when it fires. current is the level
// reached by the rules evaluated before it.
type riskRule struct {
	name string
	eval func(in RiskInput, current v1.RiskLevel) (v1.RiskLevel, string, bool)
}

var riskRules = []riskRule{
	{
		name: "security-files",
		eval: func(in RiskInput, _ v1.RiskLevel) (v1.RiskLevel, string, bool) {
			return v1.RiskCritical, "touches security-sensitive files", in.SecurityFiles
		},
	},
	{
		name: "ci-with-code",
		eval: func(in RiskInput, _ v1.RiskLevel) (v1.RiskLevel, string, bool) {
			return v1.RiskHigh, "modifies CI pipelines alongside code", in.CIFiles && in.Type != v1.PRTypeCI
		},
	},
	{
		// large and moderate are exclusive, a large change never also reports moderate
		name: "change-size",
		eval: func(in RiskInput, current v1.RiskLevel) (v1.RiskLevel, string, bool) {
			if in.ChangedLines > largeChangeLines && in.ChangedFiles > largeChangeFiles {
				return v1.RiskHigh, fmt.Sprintf("large change: %d lines across %d files", in.ChangedLines, in.ChangedFiles), true
			}
			if in.ChangedLines > moderateChangeLines || in.ChangedFiles > moderateChangeFiles {
				if current > v1.RiskLow {
					return current, "", false
				}
				return v1.RiskMedium, fmt.Sprintf("moderate change: %d lines across %d files", in.ChangedLines, in.ChangedFiles), true
			}
			return current, "", false
		},
	},
}

// AssessRisk runs the risk rules in order. Each rule may only raise the level, the reasons
// accumulate in rule order and are never empty.
func AssessRisk(in RiskInput) v1.RiskAssessment {
	level := v1.RiskLow
	reasons := make([]string, 0, len(riskRules))
	for _, rule := range riskRules {
		ruleLevel, reason, fired := rule.eval(in, level)
		if !fired {
			continue
		}
		if ruleLevel > level {
			level = ruleLevel
		}
		reasons = append(reasons, reason)
	}
	if len(reasons) == 0 {
		reasons = append(reasons, defaultRiskReason)
	}
	return v1.RiskAssessment{Level: level, Reasons: reasons}
}

package triage

import (
	"strings"

	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
)

// ClassifyInput is everything the classifier looks at.
type ClassifyInput struct {
	Files      []string
	Title      string
	Body       string
	HeadBranch string
}

// text is the lower-cased title, truncated body and branch the keyword rules scan.
func (in ClassifyInput) text() string {
	body := in.Body
	if r := []rune(body); len(r) > maxBodyChars {
		body = string(r[:maxBodyChars])
	}
	return strings.ToLower(in.Title + " " + body + " " + in.HeadBranch)
}

// classificationRule returns whether it matched and the evidence for the match.
type classificationRule struct {
	name   string
	prType v1.PRType
	match  func(in ClassifyInput, text string) (bool, []string)
}

// classificationRules are evaluated in order, the first match wins.
var classificationRules = []classificationRule{
	{name: "docs-files", prType: v1.PRTypeDocs, match: allFiles(isDocsPath)},
	{name: "ci-files", prType: v1.PRTypeCI, match: allFiles(ciPathRegex.MatchString)},
	{name: "dependency-files", prType: v1.PRTypeDeps, match: allFiles(depsPathRegex.MatchString)},
	{name: "bug-fix-keyword", prType: v1.PRTypeBugFix, match: anyKeyword(bugFixKeywords)},
	{name: "feature-keyword", prType: v1.PRTypeFeature, match: anyKeyword(featureKeywords)},
	{name: "refactor-keyword", prType: v1.PRTypeRefactor, match: anyKeyword(refactorKeywords)},
	{name: "test-files", prType: v1.PRTypeTest, match: allFiles(testPathRegex.MatchString)},
}

// allFiles matches when every changed path satisfies match. An empty file list is skipped so
// that such PRs fall through to the keyword rules and land on chore when nothing else fires.
func allFiles(match func(string) bool) func(ClassifyInput, string) (bool, []string) {
	return func(in ClassifyInput, _ string) (bool, []string) {
		if len(in.Files) == 0 {
			return false, nil
		}
		for _, f := range in.Files {
			if !match(f) {
				return false, nil
			}
		}
		return true, in.Files
	}
}

// requirements.txt and friends are dependency manifests, not documentation.
func isDocsPath(p string) bool {
	return docsPathRegex.MatchString(p) && !depsPathRegex.MatchString(p)
}

func anyKeyword(keywords []string) func(ClassifyInput, string) (bool, []string) {
	return func(_ ClassifyInput, text string) (bool, []string) {
		for _, k := range keywords {
			if strings.Contains(text, k) {
				return true, []string{k}
			}
		}
		return false, nil
	}
}

// Classify returns exactly one PR type for the input, chore when no rule matches.
func Classify(in ClassifyInput) v1.Classification {
	text := in.text()
	for _, rule := range classificationRules {
		if ok, evidence := rule.match(in, text); ok {
			return v1.Classification{Type: rule.prType, Rule: rule.name, Evidence: evidence}
		}
	}
	return v1.Classification{Type: v1.PRTypeChore, Rule: "default"}
}

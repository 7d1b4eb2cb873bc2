package triage

import (
	"regexp"
)

// Path and text patterns shared by the classifier, the risk scorer and the label set.
var (
	docsPathRegex = regexp.MustCompile(`(?i)(\.(md|mdx|markdown|txt|rst)$|^docs?/)`)

	ciPathRegex = regexp.MustCompile(`(?i)(^\.github/workflows/|^\.github/actions/|^\.circleci/|^\.buildkite/|` +
		`(^|/)Makefile$|(^|/)Dockerfile[^/]*$|(^|/)Containerfile$|^\.gitlab-ci\.ya?ml$|^\.travis\.ya?ml$|` +
		`^Jenkinsfile$|^azure-pipelines\.ya?ml$|^\.drone\.ya?ml$|^appveyor\.ya?ml$|^cloudbuild\.ya?ml$)`)

	depsPathRegex = regexp.MustCompile(`(?i)(^|/)(package\.json|package-lock\.json|npm-shrinkwrap\.json|yarn\.lock|pnpm-lock\.yaml|` +
		`go\.mod|go\.sum|Cargo\.toml|Cargo\.lock|requirements[^/]*\.(txt|in)|Pipfile|Pipfile\.lock|poetry\.lock|pyproject\.toml|` +
		`Gemfile|Gemfile\.lock|composer\.json|composer\.lock|pom\.xml|build\.gradle(\.kts)?|gradle\.lockfile|` +
		`mix\.exs|mix\.lock|Podfile|Podfile\.lock|packages\.lock\.json)$`)

	testPathRegex = regexp.MustCompile(`(?i)((^|/)(__tests__|tests?|specs?)/|_test\.|\.(test|spec)\.|(^|/)test_[^/]+$)`)

	securityPathRegex = regexp.MustCompile(`(?i)(auth|secret|crypt|password|passwd|credential|token|oauth|jwt|` +
		`session|permission|rbac|security|saml|\.pem$|\.key$)`)
)

// Keyword lists for the free text rules, matched as substrings of the lower-cased text.
var (
	bugFixKeywords   = []string{"fix", "bug", "crash", "error", "regression", "resolve", "patch"}
	featureKeywords  = []string{"feat", "add", "implement", "new", "support", "introduce"}
	refactorKeywords = []string{"refactor", "cleanup", "reorganize", "rename", "restructure"}
)

// maxBodyChars bounds how much of the PR body is scanned for keywords.
const maxBodyChars = 2000

func anyMatch(re *regexp.Regexp, paths []string) bool {
	for _, p := range paths {
		if re.MatchString(p) {
			return true
		}
	}
	return false
}

// HasSecurityFiles reports whether any changed path looks security sensitive.
func HasSecurityFiles(paths []string) bool {
	return anyMatch(securityPathRegex, paths)
}

// HasCIFiles reports whether any changed path is CI configuration.
func HasCIFiles(paths []string) bool {
	return anyMatch(ciPathRegex, paths)
}

package triage

import (
	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/openshift-eng/pr-triage/pkg/apis/triage/v1"
)

const (
	smallChangeLines = 50
	smallChangeFiles = 2
)

const (
	LabelSecurity  = "security"
	LabelDraft     = "draft"
	LabelSizeSmall = "size:small"
	LabelSizeLarge = "size:large"
)

// LabelSet keeps label names unique in insertion order.
type LabelSet struct {
	names []string
	seen  sets.Set[string]
}

func NewLabelSet() *LabelSet {
	return &LabelSet{seen: sets.New[string]()}
}

func (l *LabelSet) Add(name string) {
	if name == "" || l.seen.Has(name) {
		return
	}
	l.seen.Insert(name)
	l.names = append(l.names, name)
}

// List returns a copy of the labels in insertion order.
func (l *LabelSet) List() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// LabelInput is what the label set is derived from.
type LabelInput struct {
	Type          v1.PRType
	Risk          v1.RiskLevel
	SecurityFiles bool
	Draft         bool
	ChangedLines  int
	ChangedFiles  int
}

func TypeLabel(t v1.PRType) string {
	return "triage:" + string(t)
}

func RiskLabel(r v1.RiskLevel) string {
	return "risk:" + r.String()
}

// Labels returns the labels for a triaged PR, always starting with triage:<type>.
func Labels(in LabelInput) []string {
	labels := NewLabelSet()
	labels.Add(TypeLabel(in.Type))
	if in.Risk >= v1.RiskHigh {
		labels.Add(RiskLabel(in.Risk))
	}
	if in.SecurityFiles {
		labels.Add(LabelSecurity)
	}
	if in.Draft {
		labels.Add(LabelDraft)
	}
	switch {
	case in.ChangedLines < smallChangeLines && in.ChangedFiles <= smallChangeFiles:
		labels.Add(LabelSizeSmall)
	case in.ChangedLines > largeChangeLines:
		labels.Add(LabelSizeLarge)
	}
	return labels.List()
}

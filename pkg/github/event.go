package github

import (
	"os"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Event is the subset of an Actions event payload used to locate the PR.
type Event struct {
	Repository string
	Number     int
}

// ReadEvent reads the payload GitHub Actions writes to GITHUB_EVENT_PATH. pull_request events carry
// the number under pull_request, issue_comment events under issue, and some under a bare number.
func ReadEvent(path string) (Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Event{}, errors.Wrap(err, "error reading event payload")
	}
	return ParseEvent(data)
}

func ParseEvent(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return Event{}, errors.New("event payload is not valid JSON")
	}
	result := gjson.GetManyBytes(data, "pull_request.number", "issue.number", "number", "repository.full_name")

	var event Event
	for _, r := range result[:3] {
		if r.Exists() && r.Int() > 0 {
			event.Number = int(r.Int())
			break
		}
	}
	event.Repository = result[3].String()
	return event, nil
}

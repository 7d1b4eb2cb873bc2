package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPusher(t *testing.T) {
	assert.Nil(t, NewPusher(""))
	assert.NotNil(t, NewPusher("http://localhost:9091"))

	var p *Pusher
	assert.NotPanics(t, p.Push)
}

package configflags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig(t *testing.T) {
	f := NewConfigFlags()
	config, err := f.GetConfig()
	require.NoError(t, err)
	assert.Nil(t, config.Triage.DuplicateThreshold)

	f.Path = filepath.Join(t.TempDir(), "triage.yaml")
	require.NoError(t, os.WriteFile(f.Path, []byte(`
triage:
  duplicateThreshold: 70
  enableLabels: false
digest:
  days: 14
`), 0o600))

	config, err = f.GetConfig()
	require.NoError(t, err)
	require.NotNil(t, config.Triage.DuplicateThreshold)
	assert.Equal(t, 70, *config.Triage.DuplicateThreshold)
	require.NotNil(t, config.Triage.EnableLabels)
	assert.False(t, *config.Triage.EnableLabels)
	assert.Nil(t, config.Triage.EnableDuplicateCheck)
	require.NotNil(t, config.Digest.Days)
	assert.Equal(t, 14, *config.Digest.Days)
}

func TestGetConfigErrors(t *testing.T) {
	f := &ConfigFlags{Path: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err := f.GetConfig()
	assert.Error(t, err)

	f.Path = filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(f.Path, []byte("triage: [unclosed"), 0o600))
	_, err = f.GetConfig()
	assert.Error(t, err)
}

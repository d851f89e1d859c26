package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

func TestExtractCmd_Use(t *testing.T) {
	assert.Equal(t, "extract <dir>", extractCmd.Use)
}

func TestExtractCmd_WritesCSVToStdout(t *testing.T) {
	env := setupTestEnv(t)
	dir := t.TempDir()
	require.NoError(t, env.codec.WriteFile(filepath.Join(dir, "qualification", "a.txt"), sampleInstance()))
	require.NoError(t, env.codec.WriteFile(filepath.Join(dir, "final", "b.txt"), sampleInstance()))

	out, err := executeCommand(t, "extract", dir)

	require.NoError(t, err)
	rows, err := env.csv.ReadRows(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b.txt", rows[0].Name)
	assert.Equal(t, "final", rows[0].Source)
	assert.Equal(t, "a.txt", rows[1].Name)
	assert.Equal(t, "qualification", rows[1].Source)
	assert.Equal(t, 6.0, rows[0].Features[domain.FeatureNumBooks])
}

func TestExtractCmd_WritesFile(t *testing.T) {
	env := setupTestEnv(t)
	dir := t.TempDir()
	require.NoError(t, env.codec.WriteFile(filepath.Join(dir, "a.txt"), sampleInstance()))
	target := filepath.Join(t.TempDir(), "features.csv")

	out, err := executeCommand(t, "extract", dir, "-o", target)

	require.NoError(t, err)
	assert.Contains(t, out, "Extracted 1 instances to "+target)
	rows, err := env.csv.ReadFile(target)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExtractCmd_MissingDir(t *testing.T) {
	setupTestEnv(t)

	_, err := executeCommand(t, "extract", filepath.Join(t.TempDir(), "missing"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "extraction failed")
}

func TestExtractCmd_ServicesNotConfigured(t *testing.T) {
	SetServices(&Services{})

	_, err := executeCommand(t, "extract", ".")

	assert.EqualError(t, err, "feature services not configured")
}

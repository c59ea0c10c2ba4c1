package fingerprint_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/confkit/internal/fingerprint"
)

func writeFiles(t *testing.T, files map[string]string) []string {
	t.Helper()

	dir := t.TempDir()
	paths := make([]string, 0, len(files))
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths = append(paths, path)
	}
	return paths
}

func TestCompute_IsOrderIndependent_When_GivenSameFiles(t *testing.T) {
	t.Parallel()

	paths := writeFiles(t, map[string]string{
		"pyproject.toml": "[project]\nname = \"x\"\n",
		"ci.yml":         "on: push\n",
	})

	a, err := fingerprint.Compute([]string{paths[0], paths[1]})
	require.NoError(t, err)
	b, err := fingerprint.Compute([]string{paths[1], paths[0]})
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestCompute_ChangesDigest_When_ContentChanges(t *testing.T) {
	t.Parallel()

	paths := writeFiles(t, map[string]string{"pyproject.toml": "[project]\nname = \"x\"\n"})

	before, err := fingerprint.Compute(paths)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(paths[0], []byte("[project]\nname = \"y\"\n"), 0o644))

	after, err := fingerprint.Compute(paths)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestCheckAndStore_TracksTransitions_When_CalledRepeatedly(t *testing.T) {
	t.Parallel()

	cache := filepath.Join(t.TempDir(), "confkit", "project.hash")

	status, err := fingerprint.CheckAndStore(cache, 42)
	require.NoError(t, err)
	assert.Equal(t, fingerprint.StatusFirstRun, status)

	status, err = fingerprint.CheckAndStore(cache, 42)
	require.NoError(t, err)
	assert.Equal(t, fingerprint.StatusUnchanged, status)

	status, err = fingerprint.CheckAndStore(cache, 43)
	require.NoError(t, err)
	assert.Equal(t, fingerprint.StatusChanged, status)

	status, err = fingerprint.CheckAndStore(cache, 43)
	require.NoError(t, err)
	assert.Equal(t, fingerprint.StatusUnchanged, status)
}

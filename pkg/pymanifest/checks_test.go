package pymanifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/confkit/pkg/pymanifest"
	"github.com/dkoosis/confkit/pkg/sarif"
)

// writeManifest drops content into a temp dir so readme/license probes have
// a real directory to resolve against.
func writeManifest(t *testing.T, content string, extras ...string) *pymanifest.Manifest {
	t.Helper()

	dir := t.TempDir()
	for _, name := range extras {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o644))
	}

	path := filepath.Join(dir, "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := pymanifest.Load(path)
	require.NoError(t, err)
	return m
}

func ruleIDs(results []sarif.Result) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.RuleID)
	}
	return ids
}

func TestCheck_PassesCleanly_When_ManifestIsWellFormed(t *testing.T) {
	t.Parallel()

	m := writeManifest(t, `[project]
name = "discord-musicbot"
version = "2024.10.5"
readme = "README.md"
license = "MIT"
requires-python = ">=3.11"
authors = [{ name = "Thanos", email = "someone@example.com" }]

[project.urls]
Homepage = "https://example.com/repo"
`, "README.md")

	assert.Empty(t, pymanifest.Check(m))
}

func TestCheck_ProducesExpectedFindings_When_FieldsAreBroken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		extras   []string
		wantRule string
		level    string
	}{
		{
			name:     "error: missing project table",
			content:  "[tool.ruff]\n",
			wantRule: "manifest-missing-project",
			level:    sarif.LevelError,
		},
		{
			name: "error: name violates grammar",
			content: `[project]
name = "-bad-name-"
version = "1.0"
license = "MIT"
`,
			wantRule: "manifest-name-format",
			level:    sarif.LevelError,
		},
		{
			name: "error: version is not PEP 440",
			content: `[project]
name = "thing"
version = "not.a.version!"
license = "MIT"
`,
			wantRule: "manifest-version-format",
			level:    sarif.LevelError,
		},
		{
			name: "error: requires-python specifier is invalid",
			content: `[project]
name = "thing"
version = "1.0"
license = "MIT"
requires-python = ">>3.11"
`,
			wantRule: "manifest-requires-python",
			level:    sarif.LevelError,
		},
		{
			name: "warning: author email malformed",
			content: `[project]
name = "thing"
version = "1.0"
license = "MIT"
authors = [{ name = "Someone", email = "not-an-email" }]
`,
			wantRule: "manifest-author",
			level:    sarif.LevelWarning,
		},
		{
			name: "warning: readme file missing",
			content: `[project]
name = "thing"
version = "1.0"
license = "MIT"
readme = "README.md"
`,
			wantRule: "manifest-readme-missing",
			level:    sarif.LevelWarning,
		},
		{
			name: "warning: url without scheme",
			content: `[project]
name = "thing"
version = "1.0"
license = "MIT"

[project.urls]
Homepage = "example.com/repo"
`,
			wantRule: "manifest-url",
			level:    sarif.LevelWarning,
		},
		{
			name: "note: unusual but plausible license id",
			content: `[project]
name = "thing"
version = "1.0"
license = "MyCorp-1.0"
`,
			wantRule: "manifest-license",
			level:    sarif.LevelNote,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := writeManifest(t, tc.content, tc.extras...)
			results := pymanifest.Check(m)

			require.NotEmpty(t, results, "expected findings, got none")
			assert.Contains(t, ruleIDs(results), tc.wantRule)
			for _, res := range results {
				if res.RuleID == tc.wantRule {
					assert.Equal(t, tc.level, res.Level)
				}
			}
		})
	}
}

func TestCheck_ReportsEveryMissingField_When_ProjectIsEmpty(t *testing.T) {
	t.Parallel()

	m := writeManifest(t, "[project]\n")
	ids := ruleIDs(pymanifest.Check(m))

	// name, version, and license are all required.
	count := 0
	for _, id := range ids {
		if id == "manifest-required-field" {
			count++
		}
	}
	assert.Equal(t, 3, count, "ids: %v", ids)
}

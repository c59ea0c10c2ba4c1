package ruleset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/confkit/pkg/ruleset"
	"github.com/dkoosis/confkit/pkg/sarif"
)

func TestCheck_ProducesExpectedFindings_When_GivenDiverseConfigs(t *testing.T) {
	t.Parallel()

	reg := ruleset.DefaultRegistry()

	tests := []struct {
		name      string
		cfg       ruleset.Config
		wantRules []string
	}{
		{
			name: "success: clean selection yields no findings",
			cfg: ruleset.Config{
				Select:    []string{"E", "F", "ANN", "S"},
				Ignore:    []string{"ANN401", "S311"},
				Unfixable: []string{"ERA001"},
			},
			// ERA001 is unfixable but never selected.
			wantRules: []string{"ruleset-unfixable-redundant"},
		},
		{
			name: "error: unknown selected category",
			cfg: ruleset.Config{
				Select: []string{"E", "BOGUS"},
			},
			wantRules: []string{"ruleset-unknown-code"},
		},
		{
			name: "error: ignored code outside the recognized set",
			cfg: ruleset.Config{
				Select: []string{"ALL"},
				Ignore: []string{"NOPE999"},
			},
			wantRules: []string{"ruleset-ignore-unknown"},
		},
		{
			name: "warning: ignore not covered by selection",
			cfg: ruleset.Config{
				Select: []string{"E"},
				Ignore: []string{"ANN401"},
			},
			wantRules: []string{"ruleset-ignore-redundant"},
		},
		{
			name: "warning: ignore under a lookalike category is still redundant",
			cfg: ruleset.Config{
				Select: []string{"E"},
				// EM101 belongs to EM, not to E.
				Ignore: []string{"EM101"},
			},
			wantRules: []string{"ruleset-ignore-redundant"},
		},
		{
			name: "warning: duplicate codes in a list",
			cfg: ruleset.Config{
				Select: []string{"E", "E"},
			},
			wantRules: []string{"ruleset-duplicate-code"},
		},
		{
			name: "warning: selection lists in both layouts",
			cfg: ruleset.Config{
				Select: []string{"E"},
				Lint:   &ruleset.LintTable{Select: []string{"F"}},
			},
			wantRules: []string{"ruleset-mixed-layout"},
		},
		{
			name: "warning: invalid first-party module name",
			cfg: ruleset.Config{
				Select: []string{"ALL"},
				Isort:  ruleset.IsortConfig{KnownFirstParty: []string{"musicbot", "not-a-module"}},
			},
			wantRules: []string{"ruleset-isort-first-party"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			results := ruleset.Check(tc.cfg, reg, "pyproject.toml")

			require.Len(t, results, len(tc.wantRules))
			for i, want := range tc.wantRules {
				assert.Equal(t, want, results[i].RuleID)
			}
		})
	}
}

func TestCheck_HonorsNestedLintTable_When_NewLayoutUsed(t *testing.T) {
	t.Parallel()

	cfg := ruleset.Config{
		Lint: &ruleset.LintTable{
			Select: []string{"E", "ANN"},
			Ignore: []string{"ANN401"},
		},
	}

	results := ruleset.Check(cfg, ruleset.DefaultRegistry(), "pyproject.toml")
	assert.Empty(t, results)
}

func TestCrossCheckFirstParty_FlagsMissingDirs_When_IncludesDiverge(t *testing.T) {
	t.Parallel()

	cfg := ruleset.Config{
		Isort: ruleset.IsortConfig{KnownFirstParty: []string{"musicbot", "helpers"}},
	}

	results := ruleset.CrossCheckFirstParty(cfg, []string{"musicbot"}, "pyproject.toml")

	require.Len(t, results, 1)
	assert.Equal(t, "ruleset-isort-first-party", results[0].RuleID)
	assert.Equal(t, sarif.LevelNote, results[0].Level)
	assert.Contains(t, results[0].Message.Text, "helpers")
}

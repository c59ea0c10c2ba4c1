package ruleset

import (
	"fmt"
	"regexp"

	"github.com/dkoosis/confkit/pkg/sarif"
)

const (
	ruleUnknownCode        = "ruleset-unknown-code"
	ruleIgnoreUnknown      = "ruleset-ignore-unknown"
	ruleIgnoreRedundant    = "ruleset-ignore-redundant"
	ruleDuplicateCode      = "ruleset-duplicate-code"
	ruleUnfixableUnknown   = "ruleset-unfixable-unknown"
	ruleUnfixableRedundant = "ruleset-unfixable-redundant"
	ruleMixedLayout        = "ruleset-mixed-layout"
	ruleIsortFirstParty    = "ruleset-isort-first-party"
)

var moduleNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Rules describes every check this package can emit, for SARIF driver
// metadata.
func Rules() []sarif.Rule {
	return []sarif.Rule{
		{ID: ruleUnknownCode, ShortDescription: &sarif.Message{Text: "Selected rule code or category is not recognized"}},
		{ID: ruleIgnoreUnknown, ShortDescription: &sarif.Message{Text: "Ignored rule code is not recognized"}},
		{ID: ruleIgnoreRedundant, ShortDescription: &sarif.Message{Text: "Ignored rule code is not covered by any selection"}},
		{ID: ruleDuplicateCode, ShortDescription: &sarif.Message{Text: "Rule code appears more than once in a list"}},
		{ID: ruleUnfixableUnknown, ShortDescription: &sarif.Message{Text: "Unfixable rule code is not recognized"}},
		{ID: ruleUnfixableRedundant, ShortDescription: &sarif.Message{Text: "Unfixable rule code is not covered by any selection"}},
		{ID: ruleMixedLayout, ShortDescription: &sarif.Message{Text: "Selection lists appear both at the top level and under lint"}},
		{ID: ruleIsortFirstParty, ShortDescription: &sarif.Message{Text: "known-first-party entry is not a valid module name"}},
	}
}

// Check validates the rule selection against the registry. The path anchors
// findings to the manifest file.
func Check(cfg Config, reg *Registry, path string) []sarif.Result {
	var results []sarif.Result

	if cfg.Lint != nil && (len(cfg.Select) > 0 || len(cfg.Ignore) > 0 || len(cfg.Unfixable) > 0) {
		results = append(results, sarif.NewFileResult(ruleMixedLayout, sarif.LevelWarning,
			"rule selection lists appear both at the top level and under the lint table; the lint table wins", path, 0))
	}

	eff := cfg.Effective()
	selection := append(append([]string{}, eff.Select...), eff.ExtendSelect...)

	for _, entry := range selection {
		if !reg.Recognizes(entry) {
			results = append(results, sarif.NewFileResult(ruleUnknownCode, sarif.LevelError,
				fmt.Sprintf("selected entry %q is not a recognized rule code or category", entry), path, 0))
		}
	}

	for _, code := range eff.Ignore {
		if !reg.Recognizes(code) {
			results = append(results, sarif.NewFileResult(ruleIgnoreUnknown, sarif.LevelError,
				fmt.Sprintf("ignored code %q is not a recognized rule code", code), path, 0))
			continue
		}
		if !coveredByAny(reg, selection, code) {
			results = append(results, sarif.NewFileResult(ruleIgnoreRedundant, sarif.LevelWarning,
				fmt.Sprintf("ignored code %q is not covered by any selected category; the ignore has no effect", code), path, 0))
		}
	}

	for _, code := range eff.Unfixable {
		if !reg.Recognizes(code) {
			results = append(results, sarif.NewFileResult(ruleUnfixableUnknown, sarif.LevelError,
				fmt.Sprintf("unfixable code %q is not a recognized rule code", code), path, 0))
			continue
		}
		if !coveredByAny(reg, selection, code) {
			results = append(results, sarif.NewFileResult(ruleUnfixableRedundant, sarif.LevelWarning,
				fmt.Sprintf("unfixable code %q is not covered by any selected category", code), path, 0))
		}
	}

	results = append(results, duplicates(eff.Select, "select", path)...)
	results = append(results, duplicates(eff.ExtendSelect, "extend-select", path)...)
	results = append(results, duplicates(eff.Ignore, "ignore", path)...)
	results = append(results, duplicates(eff.Unfixable, "unfixable", path)...)

	for _, mod := range eff.Isort.KnownFirstParty {
		if !moduleNamePattern.MatchString(mod) {
			results = append(results, sarif.NewFileResult(ruleIsortFirstParty, sarif.LevelWarning,
				fmt.Sprintf("known-first-party entry %q is not a valid module name", mod), path, 0))
		}
	}

	return results
}

// CrossCheckFirstParty verifies isort's first-party modules against the
// directories the type checker includes. A first-party module that is not an
// included directory usually means the two tables drifted apart.
func CrossCheckFirstParty(cfg Config, includes []string, path string) []sarif.Result {
	included := make(map[string]struct{}, len(includes))
	for _, dir := range includes {
		included[dir] = struct{}{}
	}

	var results []sarif.Result
	for _, mod := range cfg.Effective().Isort.KnownFirstParty {
		if !moduleNamePattern.MatchString(mod) {
			continue // already reported by Check
		}
		if _, ok := included[mod]; !ok {
			results = append(results, sarif.NewFileResult(ruleIsortFirstParty, sarif.LevelNote,
				fmt.Sprintf("first-party module %q is not among the type checker's included directories", mod), path, 0))
		}
	}
	return results
}

func coveredByAny(reg *Registry, selection []string, code string) bool {
	for _, entry := range selection {
		if reg.Covers(entry, code) {
			return true
		}
	}
	return false
}

func duplicates(list []string, listName, path string) []sarif.Result {
	seen := make(map[string]struct{}, len(list))
	var results []sarif.Result
	for _, code := range list {
		if _, dup := seen[code]; dup {
			results = append(results, sarif.NewFileResult(ruleDuplicateCode, sarif.LevelWarning,
				fmt.Sprintf("code %q appears more than once in %s", code, listName), path, 0))
			continue
		}
		seen[code] = struct{}{}
	}
	return results
}

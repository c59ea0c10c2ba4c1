// Package drift compares two revisions of a project manifest and reports
// changes that deserve review: version regressions, identity changes, and
// newly silenced linter rules.
package drift

import (
	"fmt"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"

	"github.com/dkoosis/confkit/pkg/pymanifest"
	"github.com/dkoosis/confkit/pkg/sarif"
)

const (
	ruleVersionRegression = "drift-version-regression"
	ruleNameChange        = "drift-name-change"
	ruleLicenseChange     = "drift-license-change"
	rulePythonFloor       = "drift-python-floor"
	ruleIgnoreAdded       = "drift-ignore-added"
)

// Rules describes every check this package can emit.
func Rules() []sarif.Rule {
	return []sarif.Rule{
		{ID: ruleVersionRegression, ShortDescription: &sarif.Message{Text: "Version regressed between revisions"}},
		{ID: ruleNameChange, ShortDescription: &sarif.Message{Text: "Package name changed between revisions"}},
		{ID: ruleLicenseChange, ShortDescription: &sarif.Message{Text: "License changed between revisions"}},
		{ID: rulePythonFloor, ShortDescription: &sarif.Message{Text: "Minimum runtime version changed between revisions"}},
		{ID: ruleIgnoreAdded, ShortDescription: &sarif.Message{Text: "Linter rule newly ignored between revisions"}},
	}
}

// Compare reports manifest drift from the older revision to the newer one.
// Findings anchor to the newer file.
func Compare(older, newer *pymanifest.Manifest) []sarif.Result {
	var results []sarif.Result
	path := newer.Path

	if older.Project.Name != "" && newer.Project.Name != "" {
		oldName := pymanifest.NormalizeName(older.Project.Name)
		newName := pymanifest.NormalizeName(newer.Project.Name)
		if oldName != newName {
			results = append(results, sarif.NewFileResult(ruleNameChange, sarif.LevelWarning,
				fmt.Sprintf("package name changed from %q to %q", older.Project.Name, newer.Project.Name), path, 0))
		}
	}

	results = append(results, compareVersions(older, newer)...)

	oldLic := strings.TrimSpace(older.Project.License.Text)
	newLic := strings.TrimSpace(newer.Project.License.Text)
	if oldLic != "" && newLic != "" && oldLic != newLic {
		results = append(results, sarif.NewFileResult(ruleLicenseChange, sarif.LevelWarning,
			fmt.Sprintf("license changed from %q to %q", oldLic, newLic), path, 0))
	}

	results = append(results, comparePythonFloor(older, newer)...)
	results = append(results, compareIgnores(older, newer)...)

	return results
}

func compareVersions(older, newer *pymanifest.Manifest) []sarif.Result {
	oldV, errOld := pep440.Parse(older.Project.Version)
	newV, errNew := pep440.Parse(newer.Project.Version)
	if errOld != nil || errNew != nil {
		return nil // the manifest checker owns malformed versions
	}

	if newV.LessThan(oldV) {
		return []sarif.Result{sarif.NewFileResult(ruleVersionRegression, sarif.LevelError,
			fmt.Sprintf("version regressed from %s to %s", older.Project.Version, newer.Project.Version), newer.Path, 0)}
	}
	return nil
}

func comparePythonFloor(older, newer *pymanifest.Manifest) []sarif.Result {
	oldFloor := minimumBound(older.Project.RequiresPython)
	newFloor := minimumBound(newer.Project.RequiresPython)
	if oldFloor == nil || newFloor == nil {
		return nil
	}

	if newFloor.GreaterThan(*oldFloor) {
		return []sarif.Result{sarif.NewFileResult(rulePythonFloor, sarif.LevelNote,
			fmt.Sprintf("minimum runtime version raised from %s to %s", oldFloor, newFloor), newer.Path, 0)}
	}
	if newFloor.LessThan(*oldFloor) {
		return []sarif.Result{sarif.NewFileResult(rulePythonFloor, sarif.LevelNote,
			fmt.Sprintf("minimum runtime version lowered from %s to %s", oldFloor, newFloor), newer.Path, 0)}
	}
	return nil
}

// minimumBound extracts the version of the first lower-bound clause in a
// specifier set. Sets without a lower bound yield nil.
func minimumBound(spec string) *pep440.Version {
	for _, clause := range strings.Split(spec, ",") {
		clause = strings.TrimSpace(clause)
		var raw string
		switch {
		case strings.HasPrefix(clause, ">="):
			raw = strings.TrimSpace(clause[2:])
		case strings.HasPrefix(clause, "~="):
			raw = strings.TrimSpace(clause[2:])
		default:
			continue
		}
		v, err := pep440.Parse(raw)
		if err != nil {
			return nil
		}
		return &v
	}
	return nil
}

func compareIgnores(older, newer *pymanifest.Manifest) []sarif.Result {
	oldIgnored := map[string]struct{}{}
	for _, code := range older.Tool.Ruff.Effective().Ignore {
		oldIgnored[code] = struct{}{}
	}

	var results []sarif.Result
	for _, code := range newer.Tool.Ruff.Effective().Ignore {
		if _, ok := oldIgnored[code]; !ok {
			results = append(results, sarif.NewFileResult(ruleIgnoreAdded, sarif.LevelNote,
				fmt.Sprintf("linter rule %s is newly ignored; review the rationale", code), newer.Path, 0))
		}
	}
	return results
}

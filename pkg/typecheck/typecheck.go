// Package typecheck validates the type checker's table in the project
// manifest: strictness mode, included source directories, and the declared
// target runtime version.
package typecheck

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"

	"github.com/dkoosis/confkit/pkg/sarif"
)

// Config mirrors the [tool.pyright] table.
type Config struct {
	Include          []string `toml:"include"`
	Exclude          []string `toml:"exclude"`
	Strict           []string `toml:"strict"`
	TypeCheckingMode string   `toml:"typeCheckingMode"`
	PythonVersion    string   `toml:"pythonVersion"`
	PythonPlatform   string   `toml:"pythonPlatform"`
}

const (
	ruleMode            = "typecheck-mode"
	ruleIncludeMissing  = "typecheck-include-missing"
	ruleIncludeEmpty    = "typecheck-include-empty"
	ruleStrictRedundant = "typecheck-strict-redundant"
	rulePlatform        = "typecheck-platform"
	rulePythonVersion   = "typecheck-python-version"
)

var validModes = map[string]struct{}{
	"off": {}, "basic": {}, "standard": {}, "strict": {},
}

var validPlatforms = map[string]struct{}{
	"Linux": {}, "Darwin": {}, "Windows": {}, "All": {},
}

// Rules describes every check this package can emit.
func Rules() []sarif.Rule {
	return []sarif.Rule{
		{ID: ruleMode, ShortDescription: &sarif.Message{Text: "Type checking mode is not recognized"}},
		{ID: ruleIncludeMissing, ShortDescription: &sarif.Message{Text: "Included directory does not exist"}},
		{ID: ruleIncludeEmpty, ShortDescription: &sarif.Message{Text: "Included directory contains no source files"}},
		{ID: ruleStrictRedundant, ShortDescription: &sarif.Message{Text: "Per-path strict list is redundant under strict mode"}},
		{ID: rulePlatform, ShortDescription: &sarif.Message{Text: "Python platform is not recognized"}},
		{ID: rulePythonVersion, ShortDescription: &sarif.Message{Text: "Declared python version is invalid or inconsistent"}},
	}
}

// Check validates the config. rootDir is the directory the manifest lives
// in; include entries are resolved against it. path anchors findings.
func Check(cfg Config, rootDir, path string) []sarif.Result {
	var results []sarif.Result

	if cfg.TypeCheckingMode != "" {
		if _, ok := validModes[cfg.TypeCheckingMode]; !ok {
			results = append(results, sarif.NewFileResult(ruleMode, sarif.LevelError,
				fmt.Sprintf("typeCheckingMode %q is not one of off, basic, standard, strict", cfg.TypeCheckingMode), path, 0))
		}
	}

	if cfg.PythonPlatform != "" {
		if _, ok := validPlatforms[cfg.PythonPlatform]; !ok {
			results = append(results, sarif.NewFileResult(rulePlatform, sarif.LevelWarning,
				fmt.Sprintf("pythonPlatform %q is not one of Linux, Darwin, Windows, All", cfg.PythonPlatform), path, 0))
		}
	}

	if cfg.PythonVersion != "" {
		if _, err := pep440.Parse(cfg.PythonVersion); err != nil {
			results = append(results, sarif.NewFileResult(rulePythonVersion, sarif.LevelError,
				fmt.Sprintf("pythonVersion %q does not parse as a version: %v", cfg.PythonVersion, err), path, 0))
		}
	}

	if cfg.TypeCheckingMode == "strict" && len(cfg.Strict) > 0 {
		results = append(results, sarif.NewFileResult(ruleStrictRedundant, sarif.LevelWarning,
			"strict path list has no effect when typeCheckingMode is already strict", path, 0))
	}

	for _, include := range cfg.Include {
		dir := filepath.Join(rootDir, filepath.FromSlash(include))
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			results = append(results, sarif.NewFileResult(ruleIncludeMissing, sarif.LevelError,
				fmt.Sprintf("included directory %q does not exist under the project root", include), path, 0))
			continue
		}
		if !containsSourceFiles(dir) {
			results = append(results, sarif.NewFileResult(ruleIncludeEmpty, sarif.LevelWarning,
				fmt.Sprintf("included directory %q contains no python source files", include), path, 0))
		}
	}

	return results
}

// CrossCheckPythonVersion verifies the declared target version against the
// manifest's requires-python specifier.
func CrossCheckPythonVersion(cfg Config, requiresPython, path string) []sarif.Result {
	if cfg.PythonVersion == "" || requiresPython == "" {
		return nil
	}

	v, err := pep440.Parse(cfg.PythonVersion)
	if err != nil {
		return nil // already reported by Check
	}
	spec, err := pep440.NewSpecifiers(requiresPython)
	if err != nil {
		return nil // the manifest checker owns this
	}

	if !spec.Check(v) {
		return []sarif.Result{sarif.NewFileResult(rulePythonVersion, sarif.LevelError,
			fmt.Sprintf("pythonVersion %s does not satisfy requires-python %q", cfg.PythonVersion, requiresPython), path, 0)}
	}
	return nil
}

func containsSourceFiles(dir string) bool {
	found := false
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".py") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

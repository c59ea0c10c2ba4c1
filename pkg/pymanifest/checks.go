package pymanifest

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
	"github.com/go-playground/validator/v10"

	"github.com/dkoosis/confkit/pkg/sarif"
)

const (
	ruleMissingProject = "manifest-missing-project"
	ruleRequiredField  = "manifest-required-field"
	ruleNameFormat     = "manifest-name-format"
	ruleVersionFormat  = "manifest-version-format"
	ruleRequiresPython = "manifest-requires-python"
	ruleLicense        = "manifest-license"
	ruleAuthor         = "manifest-author"
	ruleReadmeMissing  = "manifest-readme-missing"
	ruleURL            = "manifest-url"
)

// namePattern is the PEP 508 project name grammar.
var namePattern = regexp.MustCompile(`^([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])$`)

var normalizeRuns = regexp.MustCompile(`[-_.]+`)

// spdxIDs is the set of license identifiers accepted without complaint.
// Anything else matching the general SPDX shape gets a note; the rest a
// warning.
var spdxIDs = map[string]struct{}{
	"MIT": {}, "Apache-2.0": {}, "BSD-2-Clause": {}, "BSD-3-Clause": {},
	"GPL-2.0-only": {}, "GPL-2.0-or-later": {}, "GPL-3.0-only": {},
	"GPL-3.0-or-later": {}, "LGPL-3.0-only": {}, "LGPL-3.0-or-later": {},
	"AGPL-3.0-only": {}, "AGPL-3.0-or-later": {}, "MPL-2.0": {}, "ISC": {},
	"Unlicense": {}, "CC0-1.0": {}, "0BSD": {}, "Zlib": {},
}

var spdxShape = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.+-]*$`)

var structValidator = validator.New()

// Rules describes every check this package can emit.
func Rules() []sarif.Rule {
	return []sarif.Rule{
		{ID: ruleMissingProject, ShortDescription: &sarif.Message{Text: "Manifest has no [project] table"}},
		{ID: ruleRequiredField, ShortDescription: &sarif.Message{Text: "Required project field is missing"}},
		{ID: ruleNameFormat, ShortDescription: &sarif.Message{Text: "Project name violates the name grammar"}},
		{ID: ruleVersionFormat, ShortDescription: &sarif.Message{Text: "Version is not a valid PEP 440 version"}},
		{ID: ruleRequiresPython, ShortDescription: &sarif.Message{Text: "requires-python is not a valid specifier set"}},
		{ID: ruleLicense, ShortDescription: &sarif.Message{Text: "License is not a recognized SPDX identifier"}},
		{ID: ruleAuthor, ShortDescription: &sarif.Message{Text: "Author record is incomplete or malformed"}},
		{ID: ruleReadmeMissing, ShortDescription: &sarif.Message{Text: "Declared readme file does not exist"}},
		{ID: ruleURL, ShortDescription: &sarif.Message{Text: "Project URL does not parse"}},
	}
}

// Check validates the manifest's metadata. It is pure over the parsed model
// except for the readme existence probe, which resolves relative to the
// manifest's directory.
func Check(m *Manifest) []sarif.Result {
	path := m.Path

	if !m.HasProject() {
		return []sarif.Result{sarif.NewFileResult(ruleMissingProject, sarif.LevelError,
			"manifest has no [project] table", path, 0)}
	}

	var results []sarif.Result
	p := m.Project

	for field, value := range map[string]string{
		"name":    p.Name,
		"version": p.Version,
	} {
		if strings.TrimSpace(value) == "" {
			results = append(results, sarif.NewFileResult(ruleRequiredField, sarif.LevelError,
				fmt.Sprintf("required field %q is missing from [project]", field), path, 0))
		}
	}

	if p.Name != "" && !namePattern.MatchString(p.Name) {
		results = append(results, sarif.NewFileResult(ruleNameFormat, sarif.LevelError,
			fmt.Sprintf("project name %q violates the allowed name grammar (normalized form would be %q)",
				p.Name, NormalizeName(p.Name)), path, 0))
	}

	if p.Version != "" {
		if _, err := pep440.Parse(p.Version); err != nil {
			results = append(results, sarif.NewFileResult(ruleVersionFormat, sarif.LevelError,
				fmt.Sprintf("version %q is not a valid PEP 440 version: %v", p.Version, err), path, 0))
		}
	}

	if p.RequiresPython != "" {
		if _, err := pep440.NewSpecifiers(p.RequiresPython); err != nil {
			results = append(results, sarif.NewFileResult(ruleRequiresPython, sarif.LevelError,
				fmt.Sprintf("requires-python %q is not a valid version specifier set: %v", p.RequiresPython, err), path, 0))
		}
	}

	results = append(results, checkLicense(p.License, path)...)
	results = append(results, checkAuthors(p.Authors, path)...)

	if p.Readme.File != "" {
		readme := filepath.Join(filepath.Dir(path), filepath.FromSlash(p.Readme.File))
		if _, err := os.Stat(readme); err != nil {
			results = append(results, sarif.NewFileResult(ruleReadmeMissing, sarif.LevelWarning,
				fmt.Sprintf("declared readme %q does not exist next to the manifest", p.Readme.File), path, 0))
		}
	}

	for label, raw := range p.URLs {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			results = append(results, sarif.NewFileResult(ruleURL, sarif.LevelWarning,
				fmt.Sprintf("project url %q (%s) is not a valid http(s) URL", raw, label), path, 0))
		}
	}

	return results
}

// NormalizeName applies PEP 503 normalization: lowercase, with runs of
// dots, hyphens, and underscores collapsed to a single hyphen.
func NormalizeName(name string) string {
	return strings.ToLower(normalizeRuns.ReplaceAllString(name, "-"))
}

func checkLicense(lic License, path string) []sarif.Result {
	if lic.File != "" {
		full := filepath.Join(filepath.Dir(path), filepath.FromSlash(lic.File))
		if _, err := os.Stat(full); err != nil {
			return []sarif.Result{sarif.NewFileResult(ruleLicense, sarif.LevelWarning,
				fmt.Sprintf("license file %q does not exist next to the manifest", lic.File), path, 0)}
		}
		return nil
	}

	text := strings.TrimSpace(lic.Text)
	if text == "" {
		return []sarif.Result{sarif.NewFileResult(ruleRequiredField, sarif.LevelError,
			`required field "license" is missing from [project]`, path, 0)}
	}
	if _, ok := spdxIDs[text]; ok {
		return nil
	}
	if spdxShape.MatchString(text) {
		return []sarif.Result{sarif.NewFileResult(ruleLicense, sarif.LevelNote,
			fmt.Sprintf("license %q is not in the known SPDX identifier set", text), path, 0)}
	}
	return []sarif.Result{sarif.NewFileResult(ruleLicense, sarif.LevelWarning,
		fmt.Sprintf("license %q does not look like an SPDX identifier", text), path, 0)}
}

func checkAuthors(authors []Author, path string) []sarif.Result {
	var results []sarif.Result
	for i, author := range authors {
		err := structValidator.Struct(author)
		if err == nil {
			continue
		}

		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			results = append(results, sarif.NewFileResult(ruleAuthor, sarif.LevelWarning,
				fmt.Sprintf("author %d: %v", i, err), path, 0))
			continue
		}
		for _, fe := range fieldErrs {
			switch fe.Field() {
			case "Name":
				results = append(results, sarif.NewFileResult(ruleAuthor, sarif.LevelWarning,
					fmt.Sprintf("author %d has no name", i), path, 0))
			case "Email":
				results = append(results, sarif.NewFileResult(ruleAuthor, sarif.LevelWarning,
					fmt.Sprintf("author %d: %q is not a valid email address", i, author.Email), path, 0))
			}
		}
	}
	return results
}

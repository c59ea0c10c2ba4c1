package ruleset

import (
	"sort"
	"strings"
)

// Registry maps rule category prefixes to their human names. Category
// prefixes may themselves end in digits (C90, T20 name whole categories,
// while C901 and T201 are codes within them), so codes are recognized by
// longest-known-prefix matching rather than by splitting on the first digit.
type Registry struct {
	categories map[string]string
	parents    map[string]string
}

// DefaultRegistry returns the registry of generally recognized categories.
func DefaultRegistry() *Registry {
	return &Registry{
		// PL is an umbrella over the pylint sub-categories; no other
		// category contains another.
		parents: map[string]string{
			"PLC": "PL",
			"PLE": "PL",
			"PLR": "PL",
			"PLW": "PL",
		},
		categories: map[string]string{
		"F":     "pyflakes",
		"E":     "pycodestyle errors",
		"W":     "pycodestyle warnings",
		"C90":   "mccabe complexity",
		"I":     "import sorting",
		"N":     "naming",
		"D":     "docstrings",
		"UP":    "upgrade suggestions",
		"YTT":   "sys.version misuse",
		"ANN":   "annotations",
		"ASYNC": "async pitfalls",
		"S":     "security",
		"BLE":   "blind except",
		"FBT":   "boolean traps",
		"B":     "bugbear",
		"A":     "builtin shadowing",
		"COM":   "trailing commas",
		"C4":    "comprehensions",
		"DTZ":   "naive datetimes",
		"T10":   "debugger calls",
		"EM":    "error messages",
		"EXE":   "executable files",
		"FA":    "future annotations",
		"ISC":   "implicit concatenation",
		"ICN":   "import conventions",
		"LOG":   "logging",
		"G":     "logging format",
		"INP":   "implicit namespace packages",
		"PIE":   "misc lints",
		"T20":   "print statements",
		"PYI":   "stub files",
		"PT":    "pytest style",
		"Q":     "quotes",
		"RSE":   "raise statements",
		"RET":   "return statements",
		"SLF":   "private member access",
		"SLOT":  "__slots__",
		"SIM":   "simplification",
		"TID":   "tidy imports",
		"TC":    "type-checking blocks",
		"INT":   "gettext",
		"ARG":   "unused arguments",
		"PTH":   "pathlib migration",
		"TD":    "todo format",
		"FIX":   "fixme markers",
		"ERA":   "commented-out code",
		"PD":    "pandas vet",
		"PGH":   "pygrep hooks",
		"PL":    "pylint",
		"PLC":   "pylint convention",
		"PLE":   "pylint errors",
		"PLR":   "pylint refactor",
		"PLW":   "pylint warnings",
		"TRY":   "exception handling",
		"FLY":   "f-string conversion",
		"NPY":   "numpy rules",
		"PERF":  "performance",
		"FURB":  "modernization",
		"RUF":   "implementation-specific",
		"CPY":   "copyright notices",
		"AIR":   "Airflow",
		"DJ":    "Django",
	}}
}

// Categories returns the known category prefixes in sorted order.
func (r *Registry) Categories() []string {
	out := make([]string, 0, len(r.categories))
	for c := range r.categories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Name returns the human name of a category, or "" if unknown.
func (r *Registry) Name(category string) string {
	return r.categories[category]
}

// IsCategory reports whether the entry names a whole category.
func (r *Registry) IsCategory(entry string) bool {
	_, ok := r.categories[entry]
	return ok
}

// Recognizes reports whether the entry is a known category, a code within a
// known category, or the special value "ALL".
func (r *Registry) Recognizes(entry string) bool {
	if entry == "ALL" {
		return true
	}
	return r.IsCategory(entry) || r.CategoryOf(entry) != ""
}

// CategoryOf returns the category a code belongs to: the longest known
// prefix whose remainder is all digits. Whole categories map to themselves.
// Unrecognized entries return "".
func (r *Registry) CategoryOf(code string) string {
	if r.IsCategory(code) {
		return code
	}
	best := ""
	for cat := range r.categories {
		if len(cat) <= len(best) || !strings.HasPrefix(code, cat) {
			continue
		}
		if rest := code[len(cat):]; rest != "" && allDigits(rest) {
			best = cat
		}
	}
	return best
}

// Covers reports whether a selection entry covers the given code. "ALL"
// covers everything; a category covers its own codes and its sub-categories
// ("PL" covers "PLR2004"); a partial code prefix like "E5" covers the codes
// in its category that extend it. Categories never bleed into unrelated ones
// that merely share a leading letter ("E" does not cover "ERA001").
func (r *Registry) Covers(selection, code string) bool {
	if selection == "ALL" || selection == code {
		return true
	}
	cat := r.CategoryOf(code)
	if cat == "" {
		return false
	}
	if selection == cat || r.parents[cat] == selection {
		return true
	}
	return !r.IsCategory(selection) &&
		r.CategoryOf(selection) == cat &&
		strings.HasPrefix(code, selection)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Package ruleset models a linter's rule selection config: selected rule
// codes or categories, explicitly ignored codes, and codes exempted from
// automatic fixing.
package ruleset

// Config mirrors the linter's table in the project manifest. Older layouts
// put the selection lists at the top level; newer ones nest them under a
// "lint" sub-table. Both are accepted.
type Config struct {
	Select       []string    `toml:"select"`
	ExtendSelect []string    `toml:"extend-select"`
	Ignore       []string    `toml:"ignore"`
	Unfixable    []string    `toml:"unfixable"`
	Isort        IsortConfig `toml:"isort"`
	LineLength   int         `toml:"line-length"`

	Lint *LintTable `toml:"lint"`
}

// LintTable is the nested lint sub-table of the newer config layout.
type LintTable struct {
	Select       []string    `toml:"select"`
	ExtendSelect []string    `toml:"extend-select"`
	Ignore       []string    `toml:"ignore"`
	Unfixable    []string    `toml:"unfixable"`
	Isort        IsortConfig `toml:"isort"`
}

// IsortConfig holds import-sorting behavior.
type IsortConfig struct {
	KnownFirstParty  []string `toml:"known-first-party"`
	CombineAsImports bool     `toml:"combine-as-imports"`
}

// Effective flattens the two accepted layouts into a single selection view.
// When both layouts carry a list, the nested one wins; mixing them is
// reported separately by Check.
func (c Config) Effective() LintTable {
	eff := LintTable{
		Select:       c.Select,
		ExtendSelect: c.ExtendSelect,
		Ignore:       c.Ignore,
		Unfixable:    c.Unfixable,
		Isort:        c.Isort,
	}
	if c.Lint == nil {
		return eff
	}
	if len(c.Lint.Select) > 0 {
		eff.Select = c.Lint.Select
	}
	if len(c.Lint.ExtendSelect) > 0 {
		eff.ExtendSelect = c.Lint.ExtendSelect
	}
	if len(c.Lint.Ignore) > 0 {
		eff.Ignore = c.Lint.Ignore
	}
	if len(c.Lint.Unfixable) > 0 {
		eff.Unfixable = c.Lint.Unfixable
	}
	if len(c.Lint.Isort.KnownFirstParty) > 0 {
		eff.Isort = c.Lint.Isort
	}
	return eff
}

// Empty reports whether the config declares no rule selection at all.
func (c Config) Empty() bool {
	eff := c.Effective()
	return len(eff.Select) == 0 && len(eff.ExtendSelect) == 0 &&
		len(eff.Ignore) == 0 && len(eff.Unfixable) == 0
}

package ruleset

import "testing"

func TestRegistry_RecognizesEntries_When_GivenCodesAndCategories(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()

	tests := []struct {
		entry string
		want  bool
	}{
		{"ALL", true},
		{"E", true},
		{"E501", true},
		{"ANN401", true},
		{"C901", true},  // C90 category, single digit after
		{"T201", true},  // T20 category
		{"PLR2004", true},
		{"RUF012", true},
		{"DJ008", true},
		{"CPY001", true},
		{"AIR001", true},
		{"ZZZ", false},
		{"E50A", false},
		{"501", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := reg.Recognizes(tc.entry); got != tc.want {
			t.Fatalf("Recognizes(%q): want %v, got %v", tc.entry, tc.want, got)
		}
	}
}

func TestCategoryOf_PrefersLongestPrefix_When_CategoriesOverlap(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()

	tests := []struct {
		code string
		want string
	}{
		{"C901", "C90"},
		{"C416", "C4"},
		{"T201", "T20"},
		{"T100", "T10"},
		{"PLR2004", "PLR"},
		{"E501", "E"},
		{"ANN", "ANN"},
		{"XYZ123", ""},
	}

	for _, tc := range tests {
		if got := reg.CategoryOf(tc.code); got != tc.want {
			t.Fatalf("CategoryOf(%q): want %q, got %q", tc.code, tc.want, got)
		}
	}
}

func TestCovers_MatchesByCategory_When_SelectionIsCategoryCodeOrAll(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry()

	tests := []struct {
		selection string
		code      string
		want      bool
	}{
		{"ALL", "ANN401", true},
		{"ANN", "ANN401", true},
		{"ANN401", "ANN401", true},
		{"E", "E501", true},
		// Partial code prefixes stay within their category; PL is the
		// umbrella over the pylint sub-categories.
		{"E5", "E501", true},
		{"PL", "PLR2004", true},
		{"PLR", "PLR2004", true},
		{"S", "ANN401", false},
		// A shared leading letter is not coverage.
		{"E", "ERA001", false},
		{"E", "EM101", false},
		{"T", "T201", false},
		{"E5", "E401", false},
		{"E", "ZZZ999", false},
	}

	for _, tc := range tests {
		if got := reg.Covers(tc.selection, tc.code); got != tc.want {
			t.Fatalf("Covers(%q, %q): want %v, got %v", tc.selection, tc.code, tc.want, got)
		}
	}
}

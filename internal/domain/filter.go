package domain

import "github.com/google/uuid"

// RecipeFilter carries the optional search criteria from the HTTP layer to
// the repo layer. Each nil/empty field contributes no predicate; present
// fields are ANDed together.
type RecipeFilter struct {
	// TitleFragments are whitespace-delimited tokens from the search box.
	// A recipe matches when its title contains ANY fragment (OR semantics).
	TitleFragments []string

	// MaxActiveTime and MaxTotalTime, when set, keep only recipes whose
	// corresponding time is <= the bound. Recipes with an unrecorded (NULL)
	// time are excluded by such a filter.
	MaxActiveTime *int
	MaxTotalTime  *int

	// IncludedLabels and ExcludedLabels are accepted from the search form
	// but currently have no effect on results. The search page has always
	// advertised label filtering without applying it; keep parsing them so
	// submissions never error.
	IncludedLabels []uuid.UUID
	ExcludedLabels []uuid.UUID
}

// Empty reports whether the filter contributes no predicates at all.
// RecipeService.Search routes an empty filter to List.
func (f RecipeFilter) Empty() bool {
	return len(f.TitleFragments) == 0 && f.MaxActiveTime == nil && f.MaxTotalTime == nil
}

package web

import (
	"net/http"
	"strings"

	"github.com/calkins/recipelister/internal/domain"
	"github.com/calkins/recipelister/internal/form"
)

type searchData struct {
	pageData
	Form *form.Form
}

// handleSearch handles GET /search.
// With no query string it renders the search form; with one it validates,
// builds the filter, and renders the list page with the matches. The search
// form is read-only and therefore carries no anti-forgery token.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	labels, err := s.labels.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	f := searchForm(labelOptions(labels))

	if !f.ValidateOnSubmit(r, form.QuerySubmission{}) {
		s.renderPage(w, r, http.StatusOK, "search", searchData{pageData: s.page(r), Form: f})
		return
	}

	filter := domain.RecipeFilter{
		TitleFragments: strings.Fields(f.String("title_fragments")),
		MaxActiveTime:  f.Int("max_active_time"),
		MaxTotalTime:   f.Int("max_total_time"),
		IncludedLabels: f.UUIDs("included_labels"),
		ExcludedLabels: f.UUIDs("excluded_labels"),
	}

	recipes, err := s.recipes.Search(r.Context(), filter)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.renderPage(w, r, http.StatusOK, "index", indexData{pageData: s.page(r), Recipes: recipes})
}

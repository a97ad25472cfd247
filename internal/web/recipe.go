package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/calkins/recipelister/internal/domain"
	"github.com/calkins/recipelister/internal/form"
	"github.com/calkins/recipelister/internal/middleware"
)

type indexData struct {
	pageData
	Recipes []domain.Recipe
}

type recipeData struct {
	pageData
	Recipe domain.Recipe
}

type recipeFormData struct {
	pageData
	Form *form.Form
}

type editRecipeData struct {
	pageData
	Form   *form.Form
	Recipe domain.Recipe
}

// handleIndex handles GET / — the full recipe list.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.recipes.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.renderPage(w, r, http.StatusOK, "index", indexData{pageData: s.page(r), Recipes: recipes})
}

// handleViewRecipe handles GET /recipe/{recipeID}.
// Unknown and malformed IDs both land on the 404 page.
func (s *Server) handleViewRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}

	recipe, err := s.recipes.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.handleNotFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}
	s.renderPage(w, r, http.StatusOK, "recipe", recipeData{pageData: s.page(r), Recipe: recipe})
}

// handleAddRecipe handles GET and POST /recipe/add.
// GET renders the empty form; POST validates, persists, and redirects to the
// new recipe. Invalid submissions re-render the form with field errors and
// never touch storage.
func (s *Server) handleAddRecipe(w http.ResponseWriter, r *http.Request) {
	labels, err := s.labels.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	f := recipeForm(labelOptions(labels))

	sess, _ := middleware.SessionFrom(r.Context())
	if !f.ValidateOnSubmit(r, form.PostSubmission{CSRFToken: sess.CSRFToken}) {
		s.renderPage(w, r, http.StatusOK, "add_recipe", recipeFormData{pageData: s.page(r), Form: f})
		return
	}

	created, err := s.recipes.Create(r.Context(), recipeFromForm(f), f.UUIDs("labels"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/recipe/"+created.ID.String(), http.StatusSeeOther)
}

// handleEditRecipe handles GET and POST /recipe/edit/{recipeID}.
// The multi-select offers only the labels not yet attached; already-attached
// labels are listed with per-label remove links instead.
func (s *Server) handleEditRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}

	recipe, err := s.recipes.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.handleNotFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}

	labels, err := s.labels.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	f := recipeForm(labelOptions(selectableLabels(labels, recipe.Labels)))

	sess, _ := middleware.SessionFrom(r.Context())
	if !f.ValidateOnSubmit(r, form.PostSubmission{CSRFToken: sess.CSRFToken}) {
		if r.Method == http.MethodGet {
			prefillRecipeForm(f, recipe)
		}
		s.renderPage(w, r, http.StatusOK, "edit_recipe", editRecipeData{pageData: s.page(r), Form: f, Recipe: recipe})
		return
	}

	// Only newly selected labels are passed along: editing adds labels but
	// never removes them. Deselecting an attached label has no effect; the
	// remove links are the one detach path. Reconciliation was never built
	// and the spec of record is the behavior as shipped.
	updated, err := s.recipes.Update(r.Context(), id, recipeFromForm(f), f.UUIDs("labels"))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/recipe/"+updated.ID.String(), http.StatusSeeOther)
}

// handleRemoveLabel handles GET /remove_label/recipe/{recipeID}/label/{labelID}.
// Detaches the label when recipe and label exist and are linked; otherwise a
// no-op. Either way the client lands back on the edit page.
func (s *Server) handleRemoveLabel(w http.ResponseWriter, r *http.Request) {
	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}

	// A malformed label ID is treated like an unknown one: no-op.
	if labelID, err := uuid.Parse(chi.URLParam(r, "labelID")); err == nil {
		if err := s.recipes.RemoveLabel(r.Context(), recipeID, labelID); err != nil {
			s.serverError(w, r, err)
			return
		}
	}
	http.Redirect(w, r, "/recipe/edit/"+recipeID.String(), http.StatusFound)
}

// recipeFromForm builds the domain value from a validated submission.
func recipeFromForm(f *form.Form) domain.Recipe {
	return domain.Recipe{
		Title:      f.String("title"),
		Body:       f.String("recipe_body"),
		TotalTime:  f.Int("total_time"),
		ActiveTime: f.Int("active_time"),
	}
}

// prefillRecipeForm populates the form fields from the stored recipe.
func prefillRecipeForm(f *form.Form, recipe domain.Recipe) {
	f.SetValue("title", recipe.Title)
	f.SetValue("recipe_body", recipe.Body)
	if recipe.TotalTime != nil {
		f.SetValue("total_time", strconv.Itoa(*recipe.TotalTime))
	}
	if recipe.ActiveTime != nil {
		f.SetValue("active_time", strconv.Itoa(*recipe.ActiveTime))
	}
}

// selectableLabels returns all labels minus the ones already attached.
func selectableLabels(all, attached []domain.Label) []domain.Label {
	attachedIDs := make(map[uuid.UUID]bool, len(attached))
	for _, l := range attached {
		attachedIDs[l.ID] = true
	}
	selectable := []domain.Label{}
	for _, l := range all {
		if !attachedIDs[l.ID] {
			selectable = append(selectable, l)
		}
	}
	return selectable
}

// Package service contains the business logic for recipelister.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/calkins/recipelister/internal/domain"
	"github.com/calkins/recipelister/internal/repo"
)

// RecipeService implements business logic for Recipe operations.
// It holds the label repo as well because removing a label from a recipe
// verifies both sides of the link exist first.
type RecipeService struct {
	recipes repo.RecipeRepo
	labels  repo.LabelRepo
}

// NewRecipeService constructs a RecipeService backed by the provided repos.
func NewRecipeService(recipes repo.RecipeRepo, labels repo.LabelRepo) *RecipeService {
	return &RecipeService{recipes: recipes, labels: labels}
}

// Create validates and persists a new recipe with the selected labels.
// Returns domain.ErrValidation if input violates business rules; nothing is
// persisted in that case.
func (s *RecipeService) Create(ctx context.Context, recipe domain.Recipe, labelIDs []uuid.UUID) (domain.Recipe, error) {
	if err := validateRecipe(recipe); err != nil {
		return domain.Recipe{}, err
	}
	result, err := s.recipes.Create(ctx, recipe, labelIDs)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single recipe by ID, labels included.
func (s *RecipeService) GetByID(ctx context.Context, id uuid.UUID) (domain.Recipe, error) {
	result, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all recipes.
// Always returns a non-nil slice so callers can safely range over it.
func (s *RecipeService) List(ctx context.Context) ([]domain.Recipe, error) {
	recipes, err := s.recipes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RecipeService.List: %w", err)
	}
	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	return recipes, nil
}

// Update validates the submission, verifies the recipe exists, overwrites
// its mutable fields, and attaches any newly selected labels.
//
// Labels are only ever added here. A label left unselected on the edit form
// stays attached — reconciliation was never built, and the edit form renders
// only the not-yet-attached labels as choices. Detaching goes through
// RemoveLabel exclusively.
func (s *RecipeService) Update(ctx context.Context, id uuid.UUID, recipe domain.Recipe, addLabelIDs []uuid.UUID) (domain.Recipe, error) {
	if _, err := s.recipes.GetByID(ctx, id); err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Update: %w", err)
	}
	if err := validateRecipe(recipe); err != nil {
		return domain.Recipe{}, err
	}
	recipe.ID = id
	result, err := s.recipes.Update(ctx, recipe, addLabelIDs)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Update: %w", err)
	}
	return result, nil
}

// RemoveLabel detaches a label from a recipe. When the recipe or the label
// does not exist, or the label is not attached, it is a no-op — the caller
// redirects back to the edit page either way.
func (s *RecipeService) RemoveLabel(ctx context.Context, recipeID, labelID uuid.UUID) error {
	if _, err := s.recipes.GetByID(ctx, recipeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("service.RecipeService.RemoveLabel: %w", err)
	}
	if _, err := s.labels.GetByID(ctx, labelID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("service.RecipeService.RemoveLabel: %w", err)
	}
	if err := s.recipes.DetachLabel(ctx, recipeID, labelID); err != nil {
		return fmt.Errorf("service.RecipeService.RemoveLabel: %w", err)
	}
	return nil
}

// Search returns all recipes matching the filter. An empty filter is the
// "show everything" search and takes the List path.
// Always returns a non-nil slice so callers can safely range over it.
func (s *RecipeService) Search(ctx context.Context, f domain.RecipeFilter) ([]domain.Recipe, error) {
	if f.Empty() {
		return s.List(ctx)
	}
	recipes, err := s.recipes.Search(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.RecipeService.Search: %w", err)
	}
	if recipes == nil {
		recipes = []domain.Recipe{}
	}
	return recipes, nil
}

// validateRecipe enforces business rules common to both Create and Update.
//   - Title and body must be non-empty (whitespace-only values are rejected).
//   - Times, when set, must not be negative.
//
// The form layer enforces the same rules for nicer per-field messages; this
// is the backstop so no caller can persist an invalid recipe.
func validateRecipe(recipe domain.Recipe) error {
	if strings.TrimSpace(recipe.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if strings.TrimSpace(recipe.Body) == "" {
		return fmt.Errorf("%w: recipe body is required", domain.ErrValidation)
	}
	if recipe.TotalTime != nil && *recipe.TotalTime < 0 {
		return fmt.Errorf("%w: total time must not be negative", domain.ErrValidation)
	}
	if recipe.ActiveTime != nil && *recipe.ActiveTime < 0 {
		return fmt.Errorf("%w: active time must not be negative", domain.ErrValidation)
	}
	return nil
}

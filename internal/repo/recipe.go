// Package repo contains all database access logic for recipelister.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/calkins/recipelister/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows
// integration tests to pass a transaction that is rolled back after each
// test, giving free per-test isolation without any manual cleanup.
//
// Begin is included because recipe mutations touch two tables (recipes and
// recipe_labels) and must commit or roll back as one unit. On a pgx.Tx,
// Begin opens a savepoint, so the test-isolation trick still works.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RecipeRepo defines the persistence operations for Recipes and the
// recipe_labels join table. The service layer depends on this interface,
// not the concrete Postgres implementation, which allows the service to be
// unit-tested with a mock.
type RecipeRepo interface {
	// Create inserts a new recipe and links the given labels, all in one
	// transaction. Returns the persisted record with DB-generated fields
	// and its labels populated.
	Create(ctx context.Context, recipe domain.Recipe, labelIDs []uuid.UUID) (domain.Recipe, error)

	// GetByID retrieves a single recipe by primary key, labels included.
	// Returns domain.ErrNotFound if no recipe with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Recipe, error)

	// List returns all recipes ordered by title. Labels are not loaded —
	// the list page only shows titles and times.
	List(ctx context.Context) ([]domain.Recipe, error)

	// Update overwrites the mutable fields of an existing recipe and links
	// any additional labels, in one transaction. It never unlinks labels.
	// Returns domain.ErrNotFound if no recipe with that ID exists.
	Update(ctx context.Context, recipe domain.Recipe, addLabelIDs []uuid.UUID) (domain.Recipe, error)

	// DetachLabel removes one recipe-label link. Removing a link that does
	// not exist is a no-op, not an error.
	DetachLabel(ctx context.Context, recipeID, labelID uuid.UUID) error

	// Search returns all recipes matching the filter, ordered by title.
	// Labels are not loaded.
	Search(ctx context.Context, f domain.RecipeFilter) ([]domain.Recipe, error)
}

// pgRecipeRepo is the Postgres implementation of RecipeRepo.
type pgRecipeRepo struct {
	db db
}

// NewRecipeRepo constructs a RecipeRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewRecipeRepo(db db) RecipeRepo {
	return &pgRecipeRepo{db: db}
}

const recipeColumns = `id, title, recipe_body, total_time, active_time, created_at, updated_at`

// Create inserts the recipe row and its label links in one transaction.
func (r *pgRecipeRepo) Create(ctx context.Context, recipe domain.Recipe, labelIDs []uuid.UUID) (domain.Recipe, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	const q = `
		INSERT INTO recipes (title, recipe_body, total_time, active_time)
		VALUES (@title, @recipe_body, @total_time, @active_time)
		RETURNING ` + recipeColumns

	args := pgx.NamedArgs{
		"title":       recipe.Title,
		"recipe_body": recipe.Body,
		"total_time":  recipe.TotalTime, // nil becomes NULL
		"active_time": recipe.ActiveTime,
	}

	result, err := scanRecipe(tx.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Create: %w", err)
	}

	if err := attachLabels(ctx, tx, result.ID, labelIDs); err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Create: %w", err)
	}
	result.Labels, err = labelsForRecipe(ctx, tx, result.ID)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Create: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Create: commit: %w", err)
	}
	return result, nil
}

// GetByID retrieves a recipe by primary key, with its labels.
func (r *pgRecipeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Recipe, error) {
	const q = `
		SELECT ` + recipeColumns + `
		FROM recipes
		WHERE id = @id`

	result, err := scanRecipe(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.GetByID: %w", err)
	}

	result.Labels, err = labelsForRecipe(ctx, r.db, result.ID)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all recipes ordered by title.
func (r *pgRecipeRepo) List(ctx context.Context) ([]domain.Recipe, error) {
	const q = `
		SELECT ` + recipeColumns + `
		FROM recipes
		ORDER BY title`

	recipes, err := collectRecipes(r.db.Query(ctx, q))
	if err != nil {
		return nil, fmt.Errorf("repo.RecipeRepo.List: %w", err)
	}
	return recipes, nil
}

// Update overwrites the mutable fields and links any additional labels.
// Label links are only ever added here; detaching goes through DetachLabel.
func (r *pgRecipeRepo) Update(ctx context.Context, recipe domain.Recipe, addLabelIDs []uuid.UUID) (domain.Recipe, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Update: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	const q = `
		UPDATE recipes
		SET title       = @title,
		    recipe_body = @recipe_body,
		    total_time  = @total_time,
		    active_time = @active_time,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + recipeColumns

	args := pgx.NamedArgs{
		"id":          recipe.ID,
		"title":       recipe.Title,
		"recipe_body": recipe.Body,
		"total_time":  recipe.TotalTime,
		"active_time": recipe.ActiveTime,
	}

	result, err := scanRecipe(tx.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Update: %w", err)
	}

	if err := attachLabels(ctx, tx, result.ID, addLabelIDs); err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Update: %w", err)
	}
	result.Labels, err = labelsForRecipe(ctx, tx, result.ID)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Update: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Update: commit: %w", err)
	}
	return result, nil
}

// DetachLabel removes one recipe-label link. Zero rows affected is fine —
// the operation is idempotent.
func (r *pgRecipeRepo) DetachLabel(ctx context.Context, recipeID, labelID uuid.UUID) error {
	const q = `
		DELETE FROM recipe_labels
		WHERE recipe_id = @recipe_id
		  AND label_id  = @label_id`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"recipe_id": recipeID, "label_id": labelID})
	if err != nil {
		return fmt.Errorf("repo.RecipeRepo.DetachLabel: %w", err)
	}
	return nil
}

// Search builds the WHERE clause as an explicit predicate list: each present
// filter criterion contributes exactly one predicate, and predicates are
// ANDed. Title fragments are ORed inside a single predicate.
//
// Note on NULL times: `active_time <= @n` is not true when active_time is
// NULL, so a max-time filter excludes recipes whose time is unrecorded.
func (r *pgRecipeRepo) Search(ctx context.Context, f domain.RecipeFilter) ([]domain.Recipe, error) {
	q := `SELECT ` + recipeColumns + ` FROM recipes`

	var preds []string
	args := pgx.NamedArgs{}

	if f.MaxActiveTime != nil {
		preds = append(preds, `active_time <= @max_active_time`)
		args["max_active_time"] = *f.MaxActiveTime
	}
	if f.MaxTotalTime != nil {
		preds = append(preds, `total_time <= @max_total_time`)
		args["max_total_time"] = *f.MaxTotalTime
	}
	if len(f.TitleFragments) > 0 {
		ors := make([]string, len(f.TitleFragments))
		for i, frag := range f.TitleFragments {
			name := fmt.Sprintf("frag%d", i)
			ors[i] = fmt.Sprintf(`title ILIKE '%%' || @%s || '%%' ESCAPE '\'`, name)
			args[name] = escapeLike(frag)
		}
		preds = append(preds, "("+strings.Join(ors, " OR ")+")")
	}
	// f.IncludedLabels / f.ExcludedLabels: advertised by the search form but
	// intentionally not applied. See domain.RecipeFilter.

	if len(preds) > 0 {
		q += " WHERE " + strings.Join(preds, " AND ")
	}
	q += " ORDER BY title"

	recipes, err := collectRecipes(r.db.Query(ctx, q, args))
	if err != nil {
		return nil, fmt.Errorf("repo.RecipeRepo.Search: %w", err)
	}
	return recipes, nil
}

// attachLabels links each label to the recipe. ON CONFLICT DO NOTHING makes
// re-attaching an already-linked label a no-op, so callers never need to
// diff against the current label set first.
func attachLabels(ctx context.Context, tx pgx.Tx, recipeID uuid.UUID, labelIDs []uuid.UUID) error {
	const q = `
		INSERT INTO recipe_labels (recipe_id, label_id)
		VALUES (@recipe_id, @label_id)
		ON CONFLICT (recipe_id, label_id) DO NOTHING`

	for _, labelID := range labelIDs {
		_, err := tx.Exec(ctx, q, pgx.NamedArgs{"recipe_id": recipeID, "label_id": labelID})
		if err != nil {
			return fmt.Errorf("attach label %s: %w", labelID, err)
		}
	}
	return nil
}

// collectRecipes drains a recipe query into a slice, closing the rows.
func collectRecipes(rows pgx.Rows, err error) ([]domain.Recipe, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []domain.Recipe{}
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		recipes = append(recipes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return recipes, nil
}

// escapeLike backslash-escapes the LIKE metacharacters in a search fragment
// so user input always matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecipe maps a single database row into a domain.Recipe.
// It handles the UUID and nullable time conversions.
func scanRecipe(s scanner) (domain.Recipe, error) {
	var (
		rec        domain.Recipe
		id         pgtype.UUID
		totalTime  pgtype.Int4
		activeTime pgtype.Int4
	)

	err := s.Scan(&id, &rec.Title, &rec.Body, &totalTime, &activeTime, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Recipe{}, domain.ErrNotFound
		}
		return domain.Recipe{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	if totalTime.Valid {
		v := int(totalTime.Int32)
		rec.TotalTime = &v
	}
	if activeTime.Valid {
		v := int(activeTime.Int32)
		rec.ActiveTime = &v
	}
	return rec, nil
}

package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/calkins/recipelister/internal/domain"
)

// LabelRepo defines the persistence operations for Labels.
type LabelRepo interface {
	// Upsert inserts a label by name, or returns the existing label if the
	// name already exists.
	Upsert(ctx context.Context, name string) (domain.Label, error)

	// GetByID retrieves a single label by its UUID primary key.
	// Returns domain.ErrNotFound if no label with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Label, error)

	// List returns all labels ordered by name.
	List(ctx context.Context) ([]domain.Label, error)

	// ListByRecipe returns all labels linked to a recipe, ordered by name.
	ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]domain.Label, error)
}

// pgLabelRepo is the Postgres implementation of LabelRepo.
type pgLabelRepo struct {
	db db
}

// NewLabelRepo constructs a LabelRepo backed by the provided db connection.
func NewLabelRepo(db db) LabelRepo {
	return &pgLabelRepo{db: db}
}

// Upsert inserts a label or returns the existing row on name conflict.
// The DO UPDATE SET trick forces the RETURNING clause to fire even when
// the conflict handler skips the insert — without it, RETURNING returns
// nothing on DO NOTHING conflicts.
func (r *pgLabelRepo) Upsert(ctx context.Context, name string) (domain.Label, error) {
	const q = `
		INSERT INTO labels (name)
		VALUES (@name)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at`

	result, err := scanLabel(r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name}))
	if err != nil {
		return domain.Label{}, fmt.Errorf("repo.LabelRepo.Upsert: %w", err)
	}
	return result, nil
}

// GetByID retrieves a label by primary key.
func (r *pgLabelRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Label, error) {
	const q = `
		SELECT id, name, created_at
		FROM labels
		WHERE id = @id`

	result, err := scanLabel(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Label{}, fmt.Errorf("repo.LabelRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all labels ordered by name.
func (r *pgLabelRepo) List(ctx context.Context) ([]domain.Label, error) {
	const q = `
		SELECT id, name, created_at
		FROM labels
		ORDER BY name`

	labels, err := collectLabels(r.db.Query(ctx, q))
	if err != nil {
		return nil, fmt.Errorf("repo.LabelRepo.List: %w", err)
	}
	return labels, nil
}

// ListByRecipe returns all labels linked to a recipe, ordered by name.
func (r *pgLabelRepo) ListByRecipe(ctx context.Context, recipeID uuid.UUID) ([]domain.Label, error) {
	labels, err := labelsForRecipe(ctx, r.db, recipeID)
	if err != nil {
		return nil, fmt.Errorf("repo.LabelRepo.ListByRecipe: %w", err)
	}
	return labels, nil
}

// labelsForRecipe is shared with RecipeRepo, which loads a recipe's labels
// inside the same transaction that mutated them.
func labelsForRecipe(ctx context.Context, db db, recipeID uuid.UUID) ([]domain.Label, error) {
	const q = `
		SELECT l.id, l.name, l.created_at
		FROM labels l
		JOIN recipe_labels rl ON rl.label_id = l.id
		WHERE rl.recipe_id = @recipe_id
		ORDER BY l.name`

	return collectLabels(db.Query(ctx, q, pgx.NamedArgs{"recipe_id": recipeID}))
}

// collectLabels drains a label query into a slice, closing the rows.
func collectLabels(rows pgx.Rows, err error) ([]domain.Label, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := []domain.Label{}
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return labels, nil
}

// scanLabel maps a single database row into a domain.Label.
func scanLabel(s scanner) (domain.Label, error) {
	var (
		l  domain.Label
		id pgtype.UUID
	)
	err := s.Scan(&id, &l.Name, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Label{}, domain.ErrNotFound
		}
		return domain.Label{}, err
	}
	l.ID = uuid.UUID(id.Bytes)
	return l, nil
}

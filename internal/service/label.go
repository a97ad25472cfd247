package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/calkins/recipelister/internal/domain"
	"github.com/calkins/recipelister/internal/repo"
)

// LabelService implements business logic for Label operations.
// Label identity is the UUID, but names are unique: creating a label whose
// name already exists returns the existing label rather than an error.
type LabelService struct {
	labels repo.LabelRepo
}

// NewLabelService constructs a LabelService backed by the provided LabelRepo.
func NewLabelService(labels repo.LabelRepo) *LabelService {
	return &LabelService{labels: labels}
}

// CreateByName trims and persists a label. Returns domain.ErrValidation if
// the name is empty after trimming.
func (s *LabelService) CreateByName(ctx context.Context, name string) (domain.Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Label{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	result, err := s.labels.Upsert(ctx, name)
	if err != nil {
		return domain.Label{}, fmt.Errorf("service.LabelService.CreateByName: %w", err)
	}
	return result, nil
}

// List returns all labels.
// Always returns a non-nil slice so callers can safely range over it.
func (s *LabelService) List(ctx context.Context) ([]domain.Label, error) {
	labels, err := s.labels.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.LabelService.List: %w", err)
	}
	if labels == nil {
		labels = []domain.Label{}
	}
	return labels, nil
}

// Package domain contains the core data types for the recipelister application.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, web).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Recipe is a titled cooking instruction record with optional time metadata
// and zero or more labels. Times are in minutes; nil means "not recorded",
// which is distinct from zero.
type Recipe struct {
	ID         uuid.UUID
	Title      string
	Body       string
	TotalTime  *int
	ActiveTime *int
	Labels     []Label
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Label is a reusable tag attachable to many recipes.
// Labels are global — not owned by any recipe. Identity is the UUID, but
// Name is unique too: creating a label with an existing name returns the
// existing row instead of a duplicate.
type Label struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

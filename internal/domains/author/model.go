package author

import (
	"time"

	"github.com/google/uuid"
)

// Author represents the core Author entity.
// An author owns zero or more books; deleting an author cascades to its
// books in the record store.
type Author struct {
	ID uuid.UUID `json:"id" db:"id"`

	Name string `json:"name" db:"name"`

	// Audit timestamps
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

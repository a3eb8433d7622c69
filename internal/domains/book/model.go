package book

import (
	"time"

	"github.com/google/uuid"
)

// Validation constants
const (
	MaxTitleLength = 200
)

// Book represents the core Book entity.
// This is the domain model, independent of database/API concerns.
// Every book belongs to exactly one author; deleting the author cascades to
// its books (enforced by the record store).
type Book struct {
	ID uuid.UUID `json:"id" db:"id"`

	Title           string `json:"title" db:"title"`
	PublicationYear int    `json:"publication_year" db:"publication_year"`

	// Relationship
	AuthorID uuid.UUID `json:"author_id" db:"author_id"`

	// Audit timestamps
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AuthorRef is the minimal projection of an author the book domain needs for
// name-based filtering and statistics. Kept local to avoid a dependency on
// the author domain.
type AuthorRef struct {
	ID   uuid.UUID
	Name string
}

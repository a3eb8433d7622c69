package book

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for Book data access operations.
// Implementations must enforce referential integrity: creating or updating a
// book with a missing author_id fails with ErrAuthorReference.
type Repository interface {
	// Create inserts a new book.
	// Returns: created book with ID and timestamps.
	// Errors: ErrAuthorReference if author_id does not exist.
	Create(ctx context.Context, b *Book) (*Book, error)

	// GetByID retrieves a book by UUID.
	// Returns: ErrBookNotFound if not exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Book, error)

	// ListAll retrieves the full book collection. Filtering, ordering and
	// pagination are applied by the query resolver over this row set.
	ListAll(ctx context.Context) ([]Book, error)

	// ListByAuthor retrieves all books referencing the given author.
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]Book, error)

	// Update persists the book's current field values.
	// Errors: ErrBookNotFound, ErrAuthorReference.
	Update(ctx context.Context, b *Book) (*Book, error)

	// Delete removes a book by ID.
	// Errors: ErrBookNotFound.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of book rows.
	Count(ctx context.Context) (int, error)
}

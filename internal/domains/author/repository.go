package author

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for Author data access operations.
type Repository interface {
	// Create inserts a new author.
	// Returns: created author with ID and timestamps.
	Create(ctx context.Context, a *Author) (*Author, error)

	// GetByID retrieves an author by UUID.
	// Returns: ErrAuthorNotFound if not exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Author, error)

	// ListAll retrieves the full author collection; the query resolver
	// filters, orders and paginates over this row set.
	ListAll(ctx context.Context) ([]Author, error)

	// Update persists the author's current field values.
	// Errors: ErrAuthorNotFound.
	Update(ctx context.Context, a *Author) (*Author, error)

	// Delete removes the author and cascades to all books referencing it.
	// Errors: ErrAuthorNotFound.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByID checks existence without fetching the row. Used by the book
	// serializer's author_id rule.
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// Count returns the number of author rows, independent of whether they
	// have books.
	Count(ctx context.Context) (int, error)
}

package author

import (
	"context"

	"github.com/google/uuid"
)

// Service defines business logic operations for the Author domain.
// Responses embed the live nested books projection, fetched per request from
// the record store (no caching across a single request).
type Service interface {
	// Create validates and stores a new author.
	// Errors: field errors (name).
	Create(ctx context.Context, req *CreateAuthorRequest) (*Author, error)

	// Get retrieves an author together with its current books.
	// Errors: ErrAuthorNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Author, []BookInfo, error)

	// List resolves the query over the full author collection; books maps
	// each returned author id to its nested projection.
	List(ctx context.Context, q Query) (authors []Author, books map[uuid.UUID][]BookInfo, total int, err error)

	// Update applies a partial update.
	// Errors: ErrAuthorNotFound, field errors.
	Update(ctx context.Context, id uuid.UUID, req *UpdateAuthorRequest) (*Author, error)

	// Delete removes the author; the store cascades to its books.
	// Errors: ErrAuthorNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}

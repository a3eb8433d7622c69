package book

import (
	"context"

	"github.com/google/uuid"
)

// Service defines business logic operations for the Book domain.
type Service interface {
	// Create validates and stores a new book.
	// Validation rules run in order (title, publication_year, author_id
	// existence); the first failure is returned as a field error.
	Create(ctx context.Context, req *CreateBookRequest) (*Book, error)

	// Get retrieves a book plus the other books by the same author
	// (for the related_books_by_author projection).
	// Errors: ErrBookNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Book, []Book, error)

	// List resolves the query over the full collection and returns the
	// requested page, the total count after filtering, and the filters that
	// were actually applied.
	List(ctx context.Context, q Query) ([]Book, int, map[string]string, error)

	// ListByAuthor returns the author's books in title order.
	// Errors: ErrAuthorReference if the author does not exist.
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]Book, error)

	// Update applies a partial update; rules run only for supplied fields.
	// Errors: ErrBookNotFound, field errors.
	Update(ctx context.Context, id uuid.UUID, req *UpdateBookRequest) (*Book, error)

	// Delete removes a book.
	// Errors: ErrBookNotFound.
	Delete(ctx context.Context, id uuid.UUID) error

	// Statistics aggregates over the full current collection, fresh per
	// request.
	Statistics(ctx context.Context) (*Statistics, error)
}

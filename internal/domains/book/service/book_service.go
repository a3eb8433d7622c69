package service

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"library-api/internal/domains/author"
	"library-api/internal/domains/book"
	"library-api/pkg/logger"
)

// bookService implements book.Service
type bookService struct {
	repo    book.Repository
	authors author.Repository
}

// NewBookService creates a new book service instance
func NewBookService(repo book.Repository, authors author.Repository) book.Service {
	return &bookService{
		repo:    repo,
		authors: authors,
	}
}

func (s *bookService) Create(ctx context.Context, req *book.CreateBookRequest) (*book.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkAuthorExists(ctx, req.AuthorID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, req.ToEntity())
	if err != nil {
		// The store can still lose the race between the existence check and
		// the insert; re-express the integrity failure as a field error.
		if errors.Is(err, book.ErrAuthorReference) {
			return nil, authorFieldError(req.AuthorID)
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	logger.Info("book created", map[string]interface{}{
		"book_id":   created.ID.String(),
		"author_id": created.AuthorID.String(),
	})
	return created, nil
}

func (s *bookService) Get(ctx context.Context, id uuid.UUID) (*book.Book, []book.Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	byAuthor, err := s.repo.ListByAuthor(ctx, b.AuthorID)
	if err != nil {
		return nil, nil, err
	}

	related := make([]book.Book, 0, len(byAuthor))
	for _, other := range byAuthor {
		if other.ID != b.ID {
			related = append(related, other)
		}
	}
	return b, related, nil
}

func (s *bookService) List(ctx context.Context, q book.Query) ([]book.Book, int, map[string]string, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, 0, nil, err
	}

	names, err := s.authorNames(ctx)
	if err != nil {
		return nil, 0, nil, err
	}

	page, total := q.Apply(all, names)
	return page, total, q.FiltersApplied(), nil
}

func (s *bookService) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]book.Book, error) {
	exists, err := s.authors.ExistsByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, book.ErrAuthorReference
	}
	return s.repo.ListByAuthor(ctx, authorID)
}

func (s *bookService) Update(ctx context.Context, id uuid.UUID, req *book.UpdateBookRequest) (*book.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.AuthorID != nil {
		if err := s.checkAuthorExists(ctx, *req.AuthorID); err != nil {
			return nil, err
		}
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.ApplyToEntity(current)
	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		if errors.Is(err, book.ErrAuthorReference) {
			return nil, authorFieldError(current.AuthorID)
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	logger.Info("book updated", map[string]interface{}{
		"book_id": updated.ID.String(),
	})
	return updated, nil
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("book deleted", map[string]interface{}{
		"book_id": id.String(),
	})
	return nil
}

// Statistics aggregates over the full current collection on every call.
// Results are never cached so the numbers always reflect the live store.
func (s *bookService) Statistics(ctx context.Context) (*book.Statistics, error) {
	books, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	authors, err := s.authors.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	refs := make([]book.AuthorRef, len(authors))
	for i, a := range authors {
		refs[i] = book.AuthorRef{ID: a.ID, Name: a.Name}
	}
	return book.Aggregate(books, refs), nil
}

// checkAuthorExists turns a dangling author reference into a field error so
// it surfaces as a validation failure, not a 404.
func (s *bookService) checkAuthorExists(ctx context.Context, authorID uuid.UUID) error {
	exists, err := s.authors.ExistsByID(ctx, authorID)
	if err != nil {
		return err
	}
	if !exists {
		return authorFieldError(authorID)
	}
	return nil
}

func authorFieldError(authorID uuid.UUID) error {
	return validation.Errors{
		"author_id": fmt.Errorf("author %q does not exist", authorID),
	}
}

func (s *bookService) authorNames(ctx context.Context) (map[uuid.UUID]string, error) {
	authors, err := s.authors.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(authors))
	for _, a := range authors {
		names[a.ID] = a.Name
	}
	return names, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"library-api/internal/domains/author"
	"library-api/internal/domains/book"
	"library-api/pkg/logger"
)

// authorService implements author.Service
type authorService struct {
	repo  author.Repository
	books book.Repository
}

// NewAuthorService creates a new author service instance.
// Depends on repository abstractions, not concrete types, so tests can plug
// in the in-memory store.
func NewAuthorService(repo author.Repository, books book.Repository) author.Service {
	return &authorService{
		repo:  repo,
		books: books,
	}
}

func (s *authorService) Create(ctx context.Context, req *author.CreateAuthorRequest) (*author.Author, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, req.ToEntity())
	if err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	logger.Info("author created", map[string]interface{}{
		"author_id": created.ID.String(),
	})
	return created, nil
}

func (s *authorService) Get(ctx context.Context, id uuid.UUID) (*author.Author, []author.BookInfo, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	infos, err := s.booksFor(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return a, infos, nil
}

func (s *authorService) List(ctx context.Context, q author.Query) ([]author.Author, map[uuid.UUID][]author.BookInfo, int, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, nil, 0, err
	}

	page, total := q.Apply(all)

	// Nested books projection for the returned page only.
	books := make(map[uuid.UUID][]author.BookInfo, len(page))
	for _, a := range page {
		infos, err := s.booksFor(ctx, a.ID)
		if err != nil {
			return nil, nil, 0, err
		}
		books[a.ID] = infos
	}
	return page, books, total, nil
}

func (s *authorService) Update(ctx context.Context, id uuid.UUID, req *author.UpdateAuthorRequest) (*author.Author, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.ApplyToEntity(current)
	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	logger.Info("author updated", map[string]interface{}{
		"author_id": updated.ID.String(),
	})
	return updated, nil
}

func (s *authorService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("author deleted", map[string]interface{}{
		"author_id": id.String(),
	})
	return nil
}

// booksFor builds the nested projection, always fresh from the store.
func (s *authorService) booksFor(ctx context.Context, authorID uuid.UUID) ([]author.BookInfo, error) {
	list, err := s.books.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	infos := make([]author.BookInfo, len(list))
	for i, b := range list {
		infos[i] = author.BookInfo{
			ID:              b.ID,
			Title:           b.Title,
			PublicationYear: b.PublicationYear,
			AuthorID:        b.AuthorID,
		}
	}
	return infos, nil
}

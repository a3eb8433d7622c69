package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"library-api/internal/domains/author"
	"library-api/internal/domains/book"
)

// Store is an in-memory record store for authors and books. It enforces the
// same contract as the PostgreSQL implementation: referential integrity on
// book.author_id and cascade delete from author to books. Used by tests and
// as the container's fallback when no database is configured.
type Store struct {
	mu      sync.RWMutex
	authors map[uuid.UUID]author.Author
	books   map[uuid.UUID]book.Book
}

func New() *Store {
	return &Store{
		authors: make(map[uuid.UUID]author.Author),
		books:   make(map[uuid.UUID]book.Book),
	}
}

// Authors returns the author repository view of the store.
func (s *Store) Authors() author.Repository {
	return &authorRepo{s}
}

// Books returns the book repository view of the store.
func (s *Store) Books() book.Repository {
	return &bookRepo{s}
}

// ========================================
// AUTHOR REPOSITORY
// ========================================

type authorRepo struct {
	s *Store
}

func (r *authorRepo) Create(_ context.Context, a *author.Author) (*author.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	created := *a
	created.ID = uuid.New()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.s.authors[created.ID] = created
	return &created, nil
}

func (r *authorRepo) GetByID(_ context.Context, id uuid.UUID) (*author.Author, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.authors[id]
	if !ok {
		return nil, author.ErrAuthorNotFound
	}
	return &a, nil
}

func (r *authorRepo) ListAll(_ context.Context) ([]author.Author, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]author.Author, 0, len(r.s.authors))
	for _, a := range r.s.authors {
		out = append(out, a)
	}
	// Deterministic snapshot order; the resolver re-orders anyway.
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r *authorRepo) Update(_ context.Context, a *author.Author) (*author.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.authors[a.ID]
	if !ok {
		return nil, author.ErrAuthorNotFound
	}

	updated := *a
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.s.authors[a.ID] = updated
	return &updated, nil
}

func (r *authorRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.authors[id]; !ok {
		return author.ErrAuthorNotFound
	}
	delete(r.s.authors, id)

	// Cascade: remove every book referencing the author.
	for bid, b := range r.s.books {
		if b.AuthorID == id {
			delete(r.s.books, bid)
		}
	}
	return nil
}

func (r *authorRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.authors[id]
	return ok, nil
}

func (r *authorRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return len(r.s.authors), nil
}

// ========================================
// BOOK REPOSITORY
// ========================================

type bookRepo struct {
	s *Store
}

func (r *bookRepo) Create(_ context.Context, b *book.Book) (*book.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.authors[b.AuthorID]; !ok {
		return nil, book.ErrAuthorReference
	}

	now := time.Now().UTC()
	created := *b
	created.ID = uuid.New()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.s.books[created.ID] = created
	return &created, nil
}

func (r *bookRepo) GetByID(_ context.Context, id uuid.UUID) (*book.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return &b, nil
}

func (r *bookRepo) ListAll(_ context.Context) ([]book.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]book.Book, 0, len(r.s.books))
	for _, b := range r.s.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r *bookRepo) ListByAuthor(_ context.Context, authorID uuid.UUID) ([]book.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]book.Book, 0)
	for _, b := range r.s.books {
		if b.AuthorID == authorID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *bookRepo) Update(_ context.Context, b *book.Book) (*book.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.books[b.ID]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	if _, ok := r.s.authors[b.AuthorID]; !ok {
		return nil, book.ErrAuthorReference
	}

	updated := *b
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.s.books[b.ID] = updated
	return &updated, nil
}

func (r *bookRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[id]; !ok {
		return book.ErrBookNotFound
	}
	delete(r.s.books, id)
	return nil
}

func (r *bookRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return len(r.s.books), nil
}

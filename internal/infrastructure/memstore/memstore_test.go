package memstore

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/domains/author"
	"library-api/internal/domains/book"
)

func TestStore_CreateAssignsIDAndTimestamps(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.Authors().Create(ctx, &author.Author{Name: "Frank Herbert"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.False(t, a.CreatedAt.IsZero())
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)
}

func TestStore_BookCreateEnforcesAuthorReference(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Books().Create(ctx, &book.Book{Title: "Orphan", PublicationYear: 2000, AuthorID: uuid.New()})
	assert.ErrorIs(t, err, book.ErrAuthorReference)
}

func TestStore_BookUpdateEnforcesAuthorReference(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.Authors().Create(ctx, &author.Author{Name: "A"})
	require.NoError(t, err)
	b, err := s.Books().Create(ctx, &book.Book{Title: "T", PublicationYear: 2000, AuthorID: a.ID})
	require.NoError(t, err)

	b.AuthorID = uuid.New()
	_, err = s.Books().Update(ctx, b)
	assert.ErrorIs(t, err, book.ErrAuthorReference)
}

func TestStore_DeleteAuthorCascadesToBooks(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.Authors().Create(ctx, &author.Author{Name: "A"})
	require.NoError(t, err)
	other, err := s.Authors().Create(ctx, &author.Author{Name: "B"})
	require.NoError(t, err)

	b1, err := s.Books().Create(ctx, &book.Book{Title: "One", PublicationYear: 2000, AuthorID: a.ID})
	require.NoError(t, err)
	kept, err := s.Books().Create(ctx, &book.Book{Title: "Two", PublicationYear: 2001, AuthorID: other.ID})
	require.NoError(t, err)

	require.NoError(t, s.Authors().Delete(ctx, a.ID))

	_, err = s.Books().GetByID(ctx, b1.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	// Books of other authors are untouched.
	got, err := s.Books().GetByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, "Two", got.Title)

	count, err := s.Books().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_NotFoundErrors(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Authors().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, author.ErrAuthorNotFound)

	err = s.Authors().Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, author.ErrAuthorNotFound)

	_, err = s.Books().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	err = s.Books().Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestStore_UpdatePreservesCreatedAt(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.Authors().Create(ctx, &author.Author{Name: "Before"})
	require.NoError(t, err)

	a.Name = "After"
	updated, err := s.Authors().Update(ctx, a)
	require.NoError(t, err)

	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, a.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestStore_ListByAuthorSortedByTitle(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.Authors().Create(ctx, &author.Author{Name: "A"})
	require.NoError(t, err)

	for _, title := range []string{"Gamma", "Alpha", "Beta"} {
		_, err := s.Books().Create(ctx, &book.Book{Title: title, PublicationYear: 2000, AuthorID: a.ID})
		require.NoError(t, err)
	}

	list, err := s.Books().ListByAuthor(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha", list[0].Title)
	assert.Equal(t, "Beta", list[1].Title)
	assert.Equal(t, "Gamma", list[2].Title)
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-api/internal/domains/book"
	"library-api/pkg/logger"
)

const bookColumns = `id, title, publication_year, author_id, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository - Raw SQL with pgxpool
func NewPostgresRepository(pool *pgxpool.Pool) book.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, b *book.Book) (*book.Book, error) {
	query := `
		INSERT INTO books (title, publication_year, author_id)
		VALUES ($1, $2, $3)
		RETURNING ` + bookColumns

	row := r.pool.QueryRow(ctx, query, b.Title, b.PublicationYear, b.AuthorID)
	created, err := scanBook(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, book.ErrAuthorReference
		}
		logger.Error("insert book failed", err)
		return nil, fmt.Errorf("failed to insert book: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	b, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, book.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return b, nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]book.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		logger.Error("list books failed", err)
		return nil, fmt.Errorf("list books query failed: %w", err)
	}

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[book.Book])
	if err != nil {
		return nil, fmt.Errorf("collect rows failed: %w", err)
	}
	return books, nil
}

func (r *postgresRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]book.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE author_id = $1 ORDER BY title, id`

	rows, err := r.pool.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("list books by author query failed: %w", err)
	}

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[book.Book])
	if err != nil {
		return nil, fmt.Errorf("collect rows failed: %w", err)
	}
	return books, nil
}

func (r *postgresRepository) Update(ctx context.Context, b *book.Book) (*book.Book, error) {
	query := `
		UPDATE books
		SET title = $1, publication_year = $2, author_id = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + bookColumns

	row := r.pool.QueryRow(ctx, query, b.Title, b.PublicationYear, b.AuthorID, b.ID)
	updated, err := scanBook(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, book.ErrBookNotFound
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, book.ErrAuthorReference
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if result.RowsAffected() == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count books query failed: %w", err)
	}
	return count, nil
}

func scanBook(row pgx.Row) (*book.Book, error) {
	var b book.Book
	err := row.Scan(&b.ID, &b.Title, &b.PublicationYear, &b.AuthorID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// isForeignKeyViolation - 23503 means the referenced author row does not exist
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

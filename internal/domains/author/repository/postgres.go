package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-api/internal/domains/author"
	"library-api/pkg/cache"
	"library-api/pkg/database"
	"library-api/pkg/logger"
)

const authorColumns = `id, name, created_at, updated_at`

// Cache key constants
const (
	authorCacheKeyPrefix = "author:"
	cacheTTL             = 15 * time.Minute
)

// postgresRepository implements author.Repository
// Uses pgxpool for PostgreSQL and Redis for single-row caching
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository creates a new author repository instance
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) author.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func (r *postgresRepository) Create(ctx context.Context, a *author.Author) (*author.Author, error) {
	query := `
		INSERT INTO authors (name)
		VALUES ($1)
		RETURNING ` + authorColumns

	created, err := scanAuthor(r.pool.QueryRow(ctx, query, a.Name))
	if err != nil {
		logger.Error("insert author failed", err)
		return nil, fmt.Errorf("failed to insert author: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*author.Author, error) {
	cacheKey := authorCacheKeyPrefix + id.String()

	if r.cache != nil {
		var a author.Author
		if found, err := r.cache.Get(ctx, cacheKey, &a); err == nil && found {
			return &a, nil
		}
	}

	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`

	a, err := scanAuthor(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, author.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, cacheKey, a, cacheTTL); err != nil {
			logger.Warn("author cache set failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return a, nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]author.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		logger.Error("list authors failed", err)
		return nil, fmt.Errorf("list authors query failed: %w", err)
	}

	authors, err := pgx.CollectRows(rows, pgx.RowToStructByName[author.Author])
	if err != nil {
		return nil, fmt.Errorf("collect rows failed: %w", err)
	}
	return authors, nil
}

func (r *postgresRepository) Update(ctx context.Context, a *author.Author) (*author.Author, error) {
	query := `
		UPDATE authors
		SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + authorColumns

	updated, err := scanAuthor(r.pool.QueryRow(ctx, query, a.Name, a.ID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, author.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	r.invalidate(ctx, a.ID)
	return updated, nil
}

// Delete removes the author and every book that references it. Both
// statements run in one transaction so a failure leaves the rows intact.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM books WHERE author_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete author books: %w", err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete author: %w", err)
		}
		if result.RowsAffected() == 0 {
			return author.ErrAuthorNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.invalidate(ctx, id)
	return nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check author: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM authors`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count authors query failed: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, authorCacheKeyPrefix+id.String()); err != nil {
		logger.Warn("author cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func scanAuthor(row pgx.Row) (*author.Author, error) {
	var a author.Author
	err := row.Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

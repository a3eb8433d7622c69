package book

import "errors"

var (
	// Business Rule Errors
	ErrBookNotFound = errors.New("book not found")
	// ErrAuthorReference - the referenced author_id does not exist. Raised by
	// the store on integrity violation and re-expressed by the service as a
	// field error on author_id, never leaked as a raw store error.
	ErrAuthorReference = errors.New("referenced author does not exist")

	// Database Errors
	ErrDatabaseQuery = errors.New("database query error")
)

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return "BOOK_NOT_FOUND"
	case errors.Is(err, ErrAuthorReference):
		return "INVALID_AUTHOR_REFERENCE"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return 404
	case errors.Is(err, ErrAuthorReference):
		return 400
	default:
		return 500
	}
}

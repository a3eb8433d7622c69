package author

import "errors"

var (
	// Business Rule Errors
	ErrAuthorNotFound = errors.New("author not found")

	// Database Errors
	ErrDatabaseQuery = errors.New("database query error")
)

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return "AUTHOR_NOT_FOUND"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return 404
	default:
		return 500
	}
}

package book

import (
	"fmt"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldError(t *testing.T, err error, field string) string {
	t.Helper()
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	require.Contains(t, errs, field)
	return errs[field].Error()
}

func TestCreateBookRequest_TitleRequired(t *testing.T) {
	req := CreateBookRequest{Title: "", PublicationYear: 2000, AuthorID: uuid.New()}

	err := req.Validate()
	assert.Equal(t, "title must not be empty", fieldError(t, err, "title"))
}

func TestCreateBookRequest_WhitespaceTitleFailsAfterNormalize(t *testing.T) {
	req := CreateBookRequest{Title: "   ", PublicationYear: 2000, AuthorID: uuid.New()}
	req.Normalize()

	err := req.Validate()
	assert.Equal(t, "title must not be empty", fieldError(t, err, "title"))
}

func TestCreateBookRequest_TitleTooLong(t *testing.T) {
	req := CreateBookRequest{
		Title:           strings.Repeat("x", MaxTitleLength+1),
		PublicationYear: 2000,
		AuthorID:        uuid.New(),
	}

	err := req.Validate()
	assert.Equal(t,
		fmt.Sprintf("title must be at most %d characters", MaxTitleLength),
		fieldError(t, err, "title"))
}

func TestCreateBookRequest_TitleAtLimitPasses(t *testing.T) {
	req := CreateBookRequest{
		Title:           strings.Repeat("x", MaxTitleLength),
		PublicationYear: 2000,
		AuthorID:        uuid.New(),
	}

	assert.NoError(t, req.Validate())
}

func TestCreateBookRequest_FutureYearMessageNamesCurrentYear(t *testing.T) {
	currentYear := time.Now().Year()
	req := CreateBookRequest{Title: "ok", PublicationYear: currentYear + 1, AuthorID: uuid.New()}

	err := req.Validate()
	assert.Equal(t,
		fmt.Sprintf("publication year cannot be in the future; current year is %d", currentYear),
		fieldError(t, err, "publication_year"))
}

func TestCreateBookRequest_CurrentYearPasses(t *testing.T) {
	req := CreateBookRequest{Title: "ok", PublicationYear: time.Now().Year(), AuthorID: uuid.New()}
	assert.NoError(t, req.Validate())
}

func TestCreateBookRequest_RulesShortCircuitInOrder(t *testing.T) {
	// Both fields are invalid; only the first rule's failure is reported.
	req := CreateBookRequest{Title: "", PublicationYear: time.Now().Year() + 10, AuthorID: uuid.New()}

	err := req.Validate()
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "title")
	assert.NotContains(t, errs, "publication_year")
}

func TestCreateBookRequest_NormalizeTrimsOnly(t *testing.T) {
	req := CreateBookRequest{Title: "  The Hobbit  ", PublicationYear: 1937, AuthorID: uuid.New()}
	req.Normalize()

	// Interior whitespace and case are preserved.
	assert.Equal(t, "The Hobbit", req.Title)
}

func TestUpdateBookRequest_ValidatesOnlySuppliedFields(t *testing.T) {
	year := time.Now().Year() + 1
	req := UpdateBookRequest{PublicationYear: &year}

	err := req.Validate()
	_ = fieldError(t, err, "publication_year")

	// Nothing supplied, nothing to validate.
	assert.NoError(t, UpdateBookRequest{}.Validate())
}

func TestUpdateBookRequest_ApplyToEntityKeepsOmittedFields(t *testing.T) {
	authorID := uuid.New()
	b := &Book{Title: "Dune", PublicationYear: 1965, AuthorID: authorID}

	newTitle := "Dune Messiah"
	req := UpdateBookRequest{Title: &newTitle}
	req.ApplyToEntity(b)

	assert.Equal(t, "Dune Messiah", b.Title)
	assert.Equal(t, 1965, b.PublicationYear)
	assert.Equal(t, authorID, b.AuthorID)
}

func TestToResponses_EmptySliceMarshalsAsArray(t *testing.T) {
	out := ToResponses(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

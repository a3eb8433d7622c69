package book

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// CreateBookRequest - POST /v1/books
type CreateBookRequest struct {
	Title           string    `json:"title"`
	PublicationYear int       `json:"publication_year"`
	AuthorID        uuid.UUID `json:"author_id"`
}

// UpdateBookRequest - PUT/PATCH /v1/books/:id
// All fields optional for partial updates; omitted fields keep prior values.
type UpdateBookRequest struct {
	Title           *string    `json:"title,omitempty"`
	PublicationYear *int       `json:"publication_year,omitempty"`
	AuthorID        *uuid.UUID `json:"author_id,omitempty"`
}

// BookResponse - wire representation of a book. The author is referenced by
// id only; books never embed an author projection (keeps serialization
// acyclic).
type BookResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	PublicationYear int       `json:"publication_year"`
	AuthorID        uuid.UUID `json:"author_id"`
}

// ToResponse converts Book to BookResponse
func (b *Book) ToResponse() *BookResponse {
	return &BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		PublicationYear: b.PublicationYear,
		AuthorID:        b.AuthorID,
	}
}

// ToResponses converts a book slice, always yielding a non-nil slice so list
// endpoints marshal as [] rather than null.
func ToResponses(books []Book) []BookResponse {
	out := make([]BookResponse, len(books))
	for i, b := range books {
		out[i] = *b.ToResponse()
	}
	return out
}

// Normalize trims leading/trailing whitespace on string fields. The only
// normalization performed on input.
func (r *CreateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func (r *UpdateBookRequest) Normalize() {
	if r.Title != nil {
		trimmed := strings.TrimSpace(*r.Title)
		r.Title = &trimmed
	}
}

// fieldRule is one named validation rule. Rules run in declaration order and
// the first failure wins, reported under the offending field name.
type fieldRule struct {
	field string
	check func() error
}

func runRules(rules []fieldRule) error {
	for _, r := range rules {
		if err := r.check(); err != nil {
			return validation.Errors{r.field: err}
		}
	}
	return nil
}

func titleRule(title string) func() error {
	return func() error {
		return validation.Validate(title,
			validation.Required.Error("title must not be empty"),
			validation.RuneLength(1, MaxTitleLength).Error(
				fmt.Sprintf("title must be at most %d characters", MaxTitleLength)),
		)
	}
}

func publicationYearRule(year int) func() error {
	return func() error {
		return validation.Validate(year, validation.By(yearNotInFuture))
	}
}

// yearNotInFuture rejects years beyond the current wall-clock year. The
// message states the current year.
func yearNotInFuture(value interface{}) error {
	year, _ := value.(int)
	currentYear := time.Now().Year()
	if year > currentYear {
		return fmt.Errorf("publication year cannot be in the future; current year is %d", currentYear)
	}
	return nil
}

// Validate runs the ordered rule list for creation. author_id existence is
// checked by the service against the record store.
func (r CreateBookRequest) Validate() error {
	return runRules([]fieldRule{
		{"title", titleRule(r.Title)},
		{"publication_year", publicationYearRule(r.PublicationYear)},
	})
}

// Validate applies the same rules, but only to supplied fields.
func (r UpdateBookRequest) Validate() error {
	var rules []fieldRule
	if r.Title != nil {
		rules = append(rules, fieldRule{"title", titleRule(*r.Title)})
	}
	if r.PublicationYear != nil {
		rules = append(rules, fieldRule{"publication_year", publicationYearRule(*r.PublicationYear)})
	}
	return runRules(rules)
}

// ToEntity converts CreateBookRequest to a Book entity
func (r *CreateBookRequest) ToEntity() *Book {
	return &Book{
		Title:           r.Title,
		PublicationYear: r.PublicationYear,
		AuthorID:        r.AuthorID,
	}
}

// ApplyToEntity applies UpdateBookRequest to an existing Book entity.
// Only non-nil fields are applied (PATCH behavior).
func (r *UpdateBookRequest) ApplyToEntity(b *Book) {
	if r.Title != nil {
		b.Title = *r.Title
	}
	if r.PublicationYear != nil {
		b.PublicationYear = *r.PublicationYear
	}
	if r.AuthorID != nil {
		b.AuthorID = *r.AuthorID
	}
}

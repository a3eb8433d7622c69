package author

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// CreateAuthorRequest - POST /v1/authors
// The nested books projection is read-only: a "books" key in the payload is
// simply not bound, never an error.
type CreateAuthorRequest struct {
	Name string `json:"name"`
}

// UpdateAuthorRequest - PUT/PATCH /v1/authors/:id
// All fields optional for partial updates; omitted fields keep prior values.
type UpdateAuthorRequest struct {
	Name *string `json:"name,omitempty"`
}

// BookInfo is the read-only nested book projection embedded in author
// responses. It references its author by id only, so the serialization has
// no cycle.
type BookInfo struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	PublicationYear int       `json:"publication_year"`
	AuthorID        uuid.UUID `json:"author_id"`
}

// AuthorResponse - wire representation of an author with its live books.
type AuthorResponse struct {
	ID    uuid.UUID  `json:"id"`
	Name  string     `json:"name"`
	Books []BookInfo `json:"books"`
}

// ToResponse converts Author plus its current books to the wire form.
// books may be nil for an author without books; the projection still
// marshals as [].
func (a *Author) ToResponse(books []BookInfo) *AuthorResponse {
	if books == nil {
		books = []BookInfo{}
	}
	return &AuthorResponse{
		ID:    a.ID,
		Name:  a.Name,
		Books: books,
	}
}

// Normalize trims leading/trailing whitespace on string fields.
func (r *CreateAuthorRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *UpdateAuthorRequest) Normalize() {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
}

func nameRule(name string) error {
	return validation.Validate(name,
		validation.Required.Error("name must not be empty"),
	)
}

// Validate reports failures as a field error map.
func (r CreateAuthorRequest) Validate() error {
	if err := nameRule(r.Name); err != nil {
		return validation.Errors{"name": err}
	}
	return nil
}

// Validate applies the name rule only when the field is supplied.
func (r UpdateAuthorRequest) Validate() error {
	if r.Name != nil {
		if err := nameRule(*r.Name); err != nil {
			return validation.Errors{"name": err}
		}
	}
	return nil
}

// ToEntity converts CreateAuthorRequest to an Author entity
func (r *CreateAuthorRequest) ToEntity() *Author {
	return &Author{Name: r.Name}
}

// ApplyToEntity applies UpdateAuthorRequest to an existing Author entity.
func (r *UpdateAuthorRequest) ApplyToEntity(a *Author) {
	if r.Name != nil {
		a.Name = *r.Name
	}
}

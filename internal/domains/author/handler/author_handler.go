package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"library-api/internal/domains/author"
	"library-api/internal/shared/response"
)

type AuthorHandler struct {
	service author.Service
}

func NewAuthorHandler(svc author.Service) *AuthorHandler {
	return &AuthorHandler{
		service: svc,
	}
}

// ========================================
// CREATE: POST /api/v1/authors
// ========================================

func (h *AuthorHandler) Create(c *gin.Context) {
	var req author.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created.ToResponse(nil))
}

// ========================================
// READ: GET /api/v1/authors/:id
// ========================================

// GetByID returns the author with its current books nested.
func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "author not found")
		return
	}

	a, books, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, a.ToResponse(books))
}

// ========================================
// READ: GET /api/v1/authors
// ========================================

func (h *AuthorHandler) List(c *gin.Context) {
	q := author.ParseQuery(c.Request.URL.Query())

	authors, books, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.handleError(c, err)
		return
	}

	items := make([]author.AuthorResponse, len(authors))
	for i, a := range authors {
		items[i] = *a.ToResponse(books[a.ID])
	}

	response.Success(c, http.StatusOK, gin.H{
		"authors":         items,
		"total_count":     total,
		"filters_applied": q.FiltersApplied(),
	})
}

// ========================================
// UPDATE: PUT/PATCH /api/v1/authors/:id
// ========================================

func (h *AuthorHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "author not found")
		return
	}

	var req author.UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if _, err := h.service.Update(c.Request.Context(), id, &req); err != nil {
		h.handleError(c, err)
		return
	}

	// Respond with the live nested books projection, same shape as GetByID.
	updated, books, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated.ToResponse(books))
}

// ========================================
// DELETE: DELETE /api/v1/authors/:id
// ========================================

func (h *AuthorHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "author not found")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AuthorHandler) handleError(c *gin.Context, err error) {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		response.ValidationFailed(c, fieldErrs)
		return
	}

	status := author.ToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		response.InternalServerError(c, "internal server error")
		return
	}
	response.ErrorResponse(c, status, author.ToErrorCode(err), err.Error())
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"library-api/internal/domains/book"
	"library-api/internal/shared/response"
)

type BookHandler struct {
	service book.Service
}

func NewBookHandler(svc book.Service) *BookHandler {
	return &BookHandler{
		service: svc,
	}
}

// ========================================
// CREATE: POST /api/v1/books
// ========================================

func (h *BookHandler) Create(c *gin.Context) {
	var req book.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, created.ToResponse())
}

// ========================================
// READ: GET /api/v1/books/:id
// ========================================

// GetByID returns the book together with the author's other books.
func (h *BookHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "book not found")
		return
	}

	b, related, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"book":                    b.ToResponse(),
		"related_books_by_author": book.ToResponses(related),
	})
}

// ========================================
// READ: GET /api/v1/books
// ========================================

// List resolves the collection query: filter, then sort, then paginate.
// Unknown or unparsable parameters are skipped, never an error.
func (h *BookHandler) List(c *gin.Context) {
	q := book.ParseQuery(c.Request.URL.Query())

	books, total, applied, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"books":           book.ToResponses(books),
		"total_count":     total,
		"filters_applied": applied,
	})
}

// ========================================
// READ: GET /api/v1/books/by-author/:author_id
// ========================================

func (h *BookHandler) ListByAuthor(c *gin.Context) {
	authorID, err := uuid.Parse(c.Param("author_id"))
	if err != nil {
		response.NotFound(c, "author not found")
		return
	}

	books, err := h.service.ListByAuthor(c.Request.Context(), authorID)
	if err != nil {
		if errors.Is(err, book.ErrAuthorReference) {
			response.NotFound(c, "author not found")
			return
		}
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"books":       book.ToResponses(books),
		"total_count": len(books),
	})
}

// ========================================
// UPDATE: PUT/PATCH /api/v1/books/:id
// ========================================

func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "book not found")
		return
	}

	var req book.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated.ToResponse())
}

// ========================================
// DELETE: DELETE /api/v1/books/:id
// ========================================

func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "book not found")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ========================================
// READ: GET /api/v1/books/statistics
// ========================================

// Statistics aggregates over the live collection on every request.
func (h *BookHandler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func (h *BookHandler) handleError(c *gin.Context, err error) {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		response.ValidationFailed(c, fieldErrs)
		return
	}

	status := book.ToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		response.InternalServerError(c, "internal server error")
		return
	}
	response.ErrorResponse(c, status, book.ToErrorCode(err), err.Error())
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/domains/author"
	"library-api/internal/domains/book"
	bookService "library-api/internal/domains/book/service"
	"library-api/internal/infrastructure/memstore"
	"library-api/internal/shared/middleware"
	"library-api/internal/shared/permission"
	"library-api/pkg/jwt"
)

const testSecret = "test-secret"

type env struct {
	router  *gin.Engine
	store   *memstore.Store
	manager *jwt.Manager
}

func newEnv(t *testing.T, gate permission.Gate) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	svc := bookService.NewBookService(store.Books(), store.Authors())
	h := NewBookHandler(svc)
	manager := jwt.NewManager(testSecret)

	router := gin.New()
	router.Use(middleware.Caller(manager))

	books := router.Group("/api/v1/books")
	{
		books.GET("", middleware.Permit(gate, permission.CapView), h.List)
		books.GET("/statistics", middleware.Permit(gate, permission.CapView), h.Statistics)
		books.POST("", middleware.Permit(gate, permission.CapCreate), h.Create)
		books.GET("/:id", middleware.Permit(gate, permission.CapView), h.GetByID)
		books.PATCH("/:id", middleware.Permit(gate, permission.CapEdit), h.Update)
		books.DELETE("/:id", middleware.Permit(gate, permission.CapDelete), h.Delete)
	}
	router.GET("/api/v1/books/by-author/:author_id", middleware.Permit(gate, permission.CapView), h.ListByAuthor)

	return &env{router: router, store: store, manager: manager}
}

func (e *env) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) token(t *testing.T, role string) string {
	t.Helper()
	token, err := e.manager.GenerateToken("user-1", role, time.Minute)
	require.NoError(t, err)
	return token
}

func (e *env) seedAuthor(t *testing.T, name string) *author.Author {
	t.Helper()
	a, err := e.store.Authors().Create(context.Background(), &author.Author{Name: name})
	require.NoError(t, err)
	return a
}

func (e *env) seedBook(t *testing.T, title string, year int, a *author.Author) *book.Book {
	t.Helper()
	b, err := e.store.Books().Create(context.Background(), &book.Book{
		Title: title, PublicationYear: year, AuthorID: a.ID,
	})
	require.NoError(t, err)
	return b
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreate_AnonymousDeniedBeforeValidation(t *testing.T) {
	e := newEnv(t, permission.NewGate())

	// The body is invalid too; the permission gate must win.
	w := e.do(t, http.MethodPost, "/api/v1/books", "", gin.H{"title": ""})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "UNAUTHORIZED", errObj["code"])
}

func TestCreate_ValidationErrorShape(t *testing.T) {
	e := newEnv(t, permission.NewGate())
	a := e.seedAuthor(t, "Frank Herbert")

	w := e.do(t, http.MethodPost, "/api/v1/books", e.token(t, ""), gin.H{
		"title":            "",
		"publication_year": 1965,
		"author_id":        a.ID,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
	details := errObj["details"].(map[string]interface{})
	assert.Contains(t, details, "title")
}

func TestCreate_Success(t *testing.T) {
	e := newEnv(t, permission.NewGate())
	a := e.seedAuthor(t, "Frank Herbert")

	w := e.do(t, http.MethodPost, "/api/v1/books", e.token(t, ""), gin.H{
		"title":            "Dune",
		"publication_year": 1965,
		"author_id":        a.ID,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Dune", data["title"])
	assert.Equal(t, a.ID.String(), data["author_id"])
}

func TestGetByID_IncludesRelatedBooks(t *testing.T) {
	e := newEnv(t, permission.NewGate())
	a := e.seedAuthor(t, "Frank Herbert")
	dune := e.seedBook(t, "Dune", 1965, a)
	e.seedBook(t, "Dune Messiah", 1969, a)

	w := e.do(t, http.MethodGet, "/api/v1/books/"+dune.ID.String(), "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	got := data["book"].(map[string]interface{})
	assert.Equal(t, "Dune", got["title"])
	related := data["related_books_by_author"].([]interface{})
	require.Len(t, related, 1)
	assert.Equal(t, "Dune Messiah", related[0].(map[string]interface{})["title"])
}

func TestGetByID_NotFound(t *testing.T) {
	e := newEnv(t, permission.NewGate())

	w := e.do(t, http.MethodGet, "/api/v1/books/9e8e7b9a-0000-0000-0000-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// A malformed id is also a 404, not a 500.
	w = e.do(t, http.MethodGet, "/api/v1/books/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestList_FiltersAppliedAndTotal(t *testing.T) {
	e := newEnv(t, permission.NewGate())
	herbert := e.seedAuthor(t, "Frank Herbert")
	tolkien := e.seedAuthor(t, "J. R. R. Tolkien")
	e.seedBook(t, "Dune", 1965, herbert)
	e.seedBook(t, "The Hobbit", 1937, tolkien)

	w := e.do(t, http.MethodGet, "/api/v1/books?search=dune&publication_year=banana", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total_count"])
	// The unparsable filter is skipped and absent from filters_applied.
	applied := data["filters_applied"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"search": "dune"}, applied)

	books := data["books"].([]interface{})
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].(map[string]interface{})["title"])
}

func TestListByAuthor_UnknownAuthorIs404(t *testing.T) {
	e := newEnv(t, permission.NewGate())

	w := e.do(t, http.MethodGet, "/api/v1/books/by-author/9e8e7b9a-0000-0000-0000-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdate_PartialPatch(t *testing.T) {
	e := newEnv(t, permission.NewGate())
	a := e.seedAuthor(t, "Frank Herbert")
	dune := e.seedBook(t, "Dune", 1965, a)

	w := e.do(t, http.MethodPatch, "/api/v1/books/"+dune.ID.String(), e.token(t, ""), gin.H{
		"publication_year": 1966,
	})

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Dune", data["title"])
	assert.Equal(t, float64(1966), data["publication_year"])
}

func TestDelete_NoContent(t *testing.T) {
	e := newEnv(t, permission.NewGate())
	a := e.seedAuthor(t, "Frank Herbert")
	dune := e.seedBook(t, "Dune", 1965, a)

	w := e.do(t, http.MethodDelete, "/api/v1/books/"+dune.ID.String(), e.token(t, ""), nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())

	w = e.do(t, http.MethodGet, "/api/v1/books/"+dune.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatistics_Endpoint(t *testing.T) {
	e := newEnv(t, permission.NewGate())
	a := e.seedAuthor(t, "Frank Herbert")
	e.seedBook(t, "Dune", 1965, a)
	e.seedBook(t, "Dune Messiah", 1969, a)

	w := e.do(t, http.MethodGet, "/api/v1/books/statistics", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total_books"])
	assert.Equal(t, float64(1), data["total_authors"])
	decades := data["books_per_decade"].(map[string]interface{})
	assert.Equal(t, float64(2), decades["1960s"])
	top := data["most_prolific_authors"].([]interface{})
	require.Len(t, top, 1)
	assert.Equal(t, "Frank Herbert", top[0].(map[string]interface{})["name"])
}

func TestRoleOverlay_ViewerCannotWrite(t *testing.T) {
	e := newEnv(t, permission.NewGateWithRoles())
	a := e.seedAuthor(t, "Frank Herbert")

	w := e.do(t, http.MethodPost, "/api/v1/books", e.token(t, "viewer"), gin.H{
		"title":            "Dune",
		"publication_year": 1965,
		"author_id":        a.ID,
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodPost, "/api/v1/books", e.token(t, "editor"), gin.H{
		"title":            "Dune",
		"publication_year": 1965,
		"author_id":        a.ID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestInvalidToken_Rejected(t *testing.T) {
	e := newEnv(t, permission.NewGate())

	w := e.do(t, http.MethodGet, "/api/v1/books", "garbage.token.here", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

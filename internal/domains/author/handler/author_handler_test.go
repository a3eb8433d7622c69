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
	authorService "library-api/internal/domains/author/service"
	"library-api/internal/domains/book"
	"library-api/internal/infrastructure/memstore"
	"library-api/internal/shared/middleware"
	"library-api/internal/shared/permission"
	"library-api/pkg/jwt"
)

type env struct {
	router  *gin.Engine
	store   *memstore.Store
	manager *jwt.Manager
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	svc := authorService.NewAuthorService(store.Authors(), store.Books())
	h := NewAuthorHandler(svc)
	manager := jwt.NewManager("test-secret")
	gate := permission.NewGate()

	router := gin.New()
	router.Use(middleware.Caller(manager))

	authors := router.Group("/api/v1/authors")
	{
		authors.GET("", middleware.Permit(gate, permission.CapView), h.List)
		authors.POST("", middleware.Permit(gate, permission.CapCreate), h.Create)
		authors.GET("/:id", middleware.Permit(gate, permission.CapView), h.GetByID)
		authors.PATCH("/:id", middleware.Permit(gate, permission.CapEdit), h.Update)
		authors.DELETE("/:id", middleware.Permit(gate, permission.CapDelete), h.Delete)
	}

	return &env{router: router, store: store, manager: manager}
}

func (e *env) do(t *testing.T, method, path string, authed bool, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token, err := e.manager.GenerateToken("user-1", "", time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) seed(t *testing.T, name string, titles ...string) *author.Author {
	t.Helper()
	a, err := e.store.Authors().Create(context.Background(), &author.Author{Name: name})
	require.NoError(t, err)
	for i, title := range titles {
		_, err := e.store.Books().Create(context.Background(), &book.Book{
			Title: title, PublicationYear: 1960 + i, AuthorID: a.ID,
		})
		require.NoError(t, err)
	}
	return a
}

func data(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body, "data")
	return body["data"].(map[string]interface{})
}

func TestCreate_AnonymousDenied(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/v1/authors", false, gin.H{"name": "Frank Herbert"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreate_EmptyNameIsValidationError(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/v1/authors", true, gin.H{"name": "   "})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
	assert.Contains(t, errObj["details"].(map[string]interface{}), "name")
}

func TestCreate_NewAuthorHasEmptyBooksArray(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/v1/authors", true, gin.H{"name": "Frank Herbert"})

	require.Equal(t, http.StatusCreated, w.Code)
	d := data(t, w)
	assert.Equal(t, "Frank Herbert", d["name"])
	// Serialized as [], never null.
	books, ok := d["books"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, books)
}

func TestGetByID_NestedBooks(t *testing.T) {
	e := newEnv(t)
	a := e.seed(t, "Frank Herbert", "Dune", "Dune Messiah")

	w := e.do(t, http.MethodGet, "/api/v1/authors/"+a.ID.String(), false, nil)

	require.Equal(t, http.StatusOK, w.Code)
	d := data(t, w)
	books := d["books"].([]interface{})
	require.Len(t, books, 2)
	first := books[0].(map[string]interface{})
	// Nested book entries are flat: no author projection inside.
	assert.NotContains(t, first, "author")
	assert.Equal(t, a.ID.String(), first["author_id"])
}

func TestList_ShapeAndFilters(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "Frank Herbert", "Dune")
	e.seed(t, "J. R. R. Tolkien")

	w := e.do(t, http.MethodGet, "/api/v1/authors?search=herbert", false, nil)

	require.Equal(t, http.StatusOK, w.Code)
	d := data(t, w)
	assert.Equal(t, float64(1), d["total_count"])
	assert.Equal(t, map[string]interface{}{"search": "herbert"}, d["filters_applied"])

	authors := d["authors"].([]interface{})
	require.Len(t, authors, 1)
	entry := authors[0].(map[string]interface{})
	assert.Equal(t, "Frank Herbert", entry["name"])
	assert.Len(t, entry["books"].([]interface{}), 1)
}

func TestUpdate_ReturnsNestedBooks(t *testing.T) {
	e := newEnv(t)
	a := e.seed(t, "Frank Hebert", "Dune")

	w := e.do(t, http.MethodPatch, "/api/v1/authors/"+a.ID.String(), true, gin.H{"name": "Frank Herbert"})

	require.Equal(t, http.StatusOK, w.Code)
	d := data(t, w)
	assert.Equal(t, "Frank Herbert", d["name"])
	assert.Len(t, d["books"].([]interface{}), 1)
}

func TestDelete_Author(t *testing.T) {
	e := newEnv(t)
	a := e.seed(t, "Frank Herbert", "Dune")

	w := e.do(t, http.MethodDelete, "/api/v1/authors/"+a.ID.String(), true, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(t, http.MethodGet, "/api/v1/authors/"+a.ID.String(), false, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The cascade removed the author's books too.
	count, err := e.store.Books().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetByID_MalformedIDIs404(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/api/v1/authors/not-a-uuid", false, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

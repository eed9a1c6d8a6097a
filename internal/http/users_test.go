package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/booktracker/internal/entities"
)

func TestCreateUser(t *testing.T) {
	server, cleanup := setupTestServer(t, "")
	defer cleanup()

	w := server.request(t, http.MethodPost, "/users", map[string]any{
		"name":  "Alice",
		"email": "alice@example.com",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeJSON(t, w)
	assert.NotZero(t, body["id"])
	assert.Equal(t, "Alice", body["name"])
	assert.Equal(t, "alice@example.com", body["email"])
}

func TestCreateUser_EmailRequired(t *testing.T) {
	server, cleanup := setupTestServer(t, "")
	defer cleanup()

	w := server.request(t, http.MethodPost, "/users", map[string]any{"name": "No Email"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := decodeJSON(t, w)["error"].([]any)
	assert.Contains(t, errs, "email is required")
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	server, cleanup := setupTestServer(t, "")
	defer cleanup()

	server.createUser(t, "taken@example.com")

	w := server.request(t, http.MethodPost, "/users", map[string]any{
		"name":  "Copycat",
		"email": "taken@example.com",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := decodeJSON(t, w)["error"].([]any)
	assert.Contains(t, errs, "email has already been taken")
}

func TestDeleteUser(t *testing.T) {
	server, cleanup := setupTestServer(t, "")
	defer cleanup()

	user := server.createUser(t, "doomed@example.com")
	server.createBook(t, user.ID, "Their Book", "Author", "finished", 5)

	w := server.request(t, http.MethodDelete, fmt.Sprintf("/users/%d", user.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var bookCount int64
	server.db.Model(&entities.Book{}).Count(&bookCount)
	assert.Zero(t, bookCount)
}

func TestDeleteUser_NotFound(t *testing.T) {
	server, cleanup := setupTestServer(t, "")
	defer cleanup()

	w := server.request(t, http.MethodDelete, "/users/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateAuthor(t *testing.T) {
	server, cleanup := setupTestServer(t, "")
	defer cleanup()

	w := server.request(t, http.MethodPost, "/authors", map[string]any{"name": "Frank Herbert"})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeJSON(t, w)
	assert.NotZero(t, body["id"])
	assert.Equal(t, "Frank Herbert", body["name"])
}

func TestCreateAuthor_DuplicateName(t *testing.T) {
	server, cleanup := setupTestServer(t, "")
	defer cleanup()

	w := server.request(t, http.MethodPost, "/authors", map[string]any{"name": "Frank Herbert"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = server.request(t, http.MethodPost, "/authors", map[string]any{"name": "Frank Herbert"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := decodeJSON(t, w)["error"].([]any)
	assert.Contains(t, errs, "name has already been taken")
}

func TestListAuthors(t *testing.T) {
	server, cleanup := setupTestServer(t, "")
	defer cleanup()

	for _, name := range []string{"Zelazny", "Asimov"} {
		w := server.request(t, http.MethodPost, "/authors", map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := server.request(t, http.MethodGet, "/authors", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	authors := decodeJSON(t, w)["authors"].([]any)
	require.Len(t, authors, 2)
	assert.Equal(t, "Asimov", authors[0].(map[string]any)["name"])

	w = server.request(t, http.MethodGet, "/authors?q=Zel", nil)
	authors = decodeJSON(t, w)["authors"].([]any)
	require.Len(t, authors, 1)
	assert.Equal(t, "Zelazny", authors[0].(map[string]any)["name"])
}

func TestListTags(t *testing.T) {
	server, cleanup := setupTestServer(t, "")
	defer cleanup()

	user := server.createUser(t, "tagslist@example.com")
	book := server.createBook(t, user.ID, "Dune", "Herbert", "finished", 5)

	w := server.request(t, http.MethodPost, fmt.Sprintf("/books/%d/tags", book.ID), map[string]any{
		"names": []string{"sci-fi", "classic"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = server.request(t, http.MethodGet, "/tags", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	tags := decodeJSON(t, w)["tags"].([]any)
	require.Len(t, tags, 2)
	assert.Equal(t, "classic", tags[0].(map[string]any)["name"])
	assert.Equal(t, "sci-fi", tags[1].(map[string]any)["name"])
}

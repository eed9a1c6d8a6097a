package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktracker/internal/entities"
)

// AuthorStore defines the author database operations the controller uses.
type AuthorStore interface {
	CreateAuthor(name string) (*entities.Author, error)
	SearchAuthors(query string) ([]entities.Author, error)
}

type AuthorsController struct {
	store AuthorStore
}

func NewAuthorsController(store AuthorStore) *AuthorsController {
	return &AuthorsController{store: store}
}

// CreateAuthor registers a new author.
// POST /authors
func (ac *AuthorsController) CreateAuthor(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondUnprocessable(c, []string{"name is required"})
		return
	}

	author, err := ac.store.CreateAuthor(req.Name)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			respondUnprocessable(c, []string{"name has already been taken"})
			return
		}
		respondInternalError(c, err, "create author")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": author.ID, "name": author.Name})
}

// ListAuthors lists authors ordered by name, optionally filtered by a
// name substring.
// GET /authors
func (ac *AuthorsController) ListAuthors(c *gin.Context) {
	authors, err := ac.store.SearchAuthors(c.Query("q"))
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}

	out := make([]gin.H, 0, len(authors))
	for _, author := range authors {
		out = append(out, gin.H{"id": author.ID, "name": author.Name})
	}
	c.JSON(http.StatusOK, gin.H{"authors": out})
}

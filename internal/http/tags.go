package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktracker/internal/entities"
)

// TagStore defines the tag database operations the controller uses.
type TagStore interface {
	SearchTags(query string) ([]entities.Tag, error)
}

type TagsController struct {
	store TagStore
}

func NewTagsController(store TagStore) *TagsController {
	return &TagsController{store: store}
}

// ListTags lists tags ordered by name, optionally filtered by a name
// substring.
// GET /tags
func (tc *TagsController) ListTags(c *gin.Context) {
	tags, err := tc.store.SearchTags(c.Query("q"))
	if err != nil {
		respondInternalError(c, err, "list tags")
		return
	}

	out := make([]gin.H, 0, len(tags))
	for _, tag := range tags {
		out = append(out, gin.H{"id": tag.ID, "name": tag.Name})
	}
	c.JSON(http.StatusOK, gin.H{"tags": out})
}

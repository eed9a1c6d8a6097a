package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktracker/internal/services"
	"github.com/mrlokans/booktracker/internal/validators"
)

// BulkCreate validates and creates up to MaxBulkItems books in one
// request. Individual failures are reported per item and never abort the
// batch; the batch itself responds 200 as long as the envelope is valid.
// POST /books/bulk
func (bc *BooksController) BulkCreate(c *gin.Context) {
	var envelope struct {
		Books *json.RawMessage `json:"books"`
	}
	if err := c.ShouldBindJSON(&envelope); err != nil {
		respondBadRequest(c, "Invalid JSON")
		return
	}
	if envelope.Books == nil {
		respondBadRequest(c, "books parameter is required")
		return
	}

	var items []validators.BookPayload
	if err := json.Unmarshal(*envelope.Books, &items); err != nil {
		respondBadRequest(c, "books must be an array")
		return
	}
	if len(items) == 0 {
		respondUnprocessable(c, "books array cannot be empty")
		return
	}
	if len(items) > services.MaxBulkItems {
		respondBadRequest(c, fmt.Sprintf("books array cannot exceed %d items", services.MaxBulkItems))
		return
	}

	c.JSON(http.StatusOK, bc.creator.CreateBulk(items))
}

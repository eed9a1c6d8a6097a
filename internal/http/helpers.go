package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error response format for all API errors.
// Details carries field-level validation messages when present.
type ErrorResponse struct {
	Error any `json:"error"`
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
}

// respondUnprocessable sends a 422 response. The payload is either a
// single message or a list of validation errors.
func respondUnprocessable(c *gin.Context, errs any) {
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: errs})
}

// respondInternalError logs the error and sends a 500 response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. Responds with 404 and returns false for garbage values,
// matching the lookup-by-id semantics of the routes that use it.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondNotFound(c)
		return 0, false
	}
	return uint(id), true
}

// parseOptionalUserID reads an optional user_id query parameter. A
// missing or non-numeric value means "no user scope".
func parseOptionalUserID(c *gin.Context) *uint {
	raw := c.Query("user_id")
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	id := uint(parsed)
	return &id
}

// atoiOrZero parses an integer query value, treating garbage as zero so
// the repository defaults kick in.
func atoiOrZero(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

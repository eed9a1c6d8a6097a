// Package validators holds field-level validation for incoming payloads,
// kept out of the controllers so the bulk pipeline can reuse it.
package validators

import (
	"strings"

	"github.com/mrlokans/booktracker/internal/entities"
)

// BookPayload is a raw book-creation request. Pointer fields distinguish
// "absent" from a zero value.
type BookPayload struct {
	UserID     *uint   `json:"user_id"`
	Title      string  `json:"title"`
	AuthorName string  `json:"author_name"`
	Status     *string `json:"status"`
	Rating     *int    `json:"rating"`
}

// ValidateBookCreate returns all validation errors for a creation payload.
// An empty slice means the payload is valid.
func ValidateBookCreate(payload BookPayload) []string {
	errors := []string{}
	if payload.UserID == nil {
		errors = append(errors, "user_id is required")
	}
	if strings.TrimSpace(payload.Title) == "" {
		errors = append(errors, "title is required")
	}
	if strings.TrimSpace(payload.AuthorName) == "" {
		errors = append(errors, "author_name is required")
	}
	if payload.Rating != nil && (*payload.Rating < 0 || *payload.Rating > 5) {
		errors = append(errors, "rating must be between 0 and 5")
	}
	if payload.Status != nil && !entities.IsValidStatus(*payload.Status) {
		errors = append(errors, "status must be one of to_read, reading, finished")
	}
	return errors
}

// Package services holds the business logic sitting between the HTTP
// controllers and the repositories.
package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/booktracker/internal/entities"
	"github.com/mrlokans/booktracker/internal/serializers"
	"github.com/mrlokans/booktracker/internal/validators"
)

// MaxBulkItems caps the number of items a single bulk request may carry.
const MaxBulkItems = 100

// ErrUserNotFound is returned when a creation payload references a user
// that does not exist.
var ErrUserNotFound = errors.New("User not found")

// UserStore is the user lookup the book service needs.
type UserStore interface {
	GetUserByID(id uint) (*entities.User, error)
}

// AuthorStore resolves authors by exact name, creating them on demand.
type AuthorStore interface {
	GetOrCreateAuthor(name string) (*entities.Author, error)
}

// BookStore is the subset of the books repository the service uses.
type BookStore interface {
	CreateBook(book *entities.Book) error
	GetBookByID(id uint) (*entities.Book, error)
}

// BookService implements book creation, both single and bulk.
type BookService struct {
	users   UserStore
	authors AuthorStore
	books   BookStore
}

// NewBookService creates a new book service.
func NewBookService(users UserStore, authors AuthorStore, books BookStore) *BookService {
	return &BookService{users: users, authors: authors, books: books}
}

// CreateWithAuthor resolves (or creates) the author by exact name and
// creates the book for the referenced user. The payload is expected to
// have passed validation already; the user reference is still checked
// here because it can only be verified against storage.
func (s *BookService) CreateWithAuthor(payload validators.BookPayload) (*entities.Book, error) {
	if payload.UserID == nil {
		return nil, errors.New("user_id is required")
	}

	if _, err := s.users.GetUserByID(*payload.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	author, err := s.authors.GetOrCreateAuthor(strings.TrimSpace(payload.AuthorName))
	if err != nil {
		return nil, fmt.Errorf("resolve author: %w", err)
	}

	book := entities.Book{
		UserID:   *payload.UserID,
		AuthorID: author.ID,
		Title:    strings.TrimSpace(payload.Title),
		Status:   entities.StatusToRead,
	}
	if payload.Status != nil {
		book.Status = entities.BookStatus(*payload.Status)
	}
	if payload.Rating != nil {
		book.Rating = *payload.Rating
	}

	if err := s.books.CreateBook(&book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	// Reload with associations so the caller serializes the same shape
	// as any other read path.
	return s.books.GetBookByID(book.ID)
}

// BulkItemResult is the outcome for one bulk item, in input order.
// Successful items carry the serialized book; failures carry the error
// message and the item's original position.
type BulkItemResult struct {
	Success bool              `json:"success"`
	Book    *serializers.Book `json:"book,omitempty"`
	Error   string            `json:"error,omitempty"`
	Index   *int              `json:"index,omitempty"`
}

// BulkMeta summarizes a bulk run. Successful + Failed always equals Total.
type BulkMeta struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BulkResult is the full outcome of a bulk creation request.
type BulkResult struct {
	Results []BulkItemResult `json:"results"`
	Meta    BulkMeta         `json:"meta"`
}

// CreateBulk validates and creates each item independently. A failing
// item is recorded and never aborts the batch; items already persisted
// stay persisted regardless of later failures.
func (s *BookService) CreateBulk(items []validators.BookPayload) *BulkResult {
	result := &BulkResult{
		Results: make([]BulkItemResult, 0, len(items)),
		Meta:    BulkMeta{Total: len(items)},
	}

	for i := range items {
		index := i
		if errs := validators.ValidateBookCreate(items[i]); len(errs) > 0 {
			result.Results = append(result.Results, BulkItemResult{
				Success: false,
				Error:   strings.Join(errs, ", "),
				Index:   &index,
			})
			result.Meta.Failed++
			continue
		}

		book, err := s.CreateWithAuthor(items[i])
		if err != nil {
			result.Results = append(result.Results, BulkItemResult{
				Success: false,
				Error:   err.Error(),
				Index:   &index,
			})
			result.Meta.Failed++
			continue
		}

		serialized := serializers.NewBook(book)
		result.Results = append(result.Results, BulkItemResult{
			Success: true,
			Book:    &serialized,
		})
		result.Meta.Successful++
	}

	return result
}

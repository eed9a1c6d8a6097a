package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/booktracker/internal/database/books"
	"github.com/mrlokans/booktracker/internal/entities"
	"github.com/mrlokans/booktracker/internal/serializers"
	"github.com/mrlokans/booktracker/internal/services"
	"github.com/mrlokans/booktracker/internal/validators"
)

// BookStore defines the book database operations the controller uses.
type BookStore interface {
	QueryBooks(opts books.QueryOptions) (*books.QueryResult, error)
	GetBookByID(id uint) (*entities.Book, error)
	UpdateBook(id uint, patch books.BookPatch) (*entities.Book, error)
	DeleteBook(id uint) error
	AddReview(bookID uint, body string, rating int) (*entities.Review, error)
	AddReadingSession(bookID uint, minutes int, date time.Time) (*entities.ReadingSession, error)
}

// BookCreator is the creation service behind POST /books and the bulk
// endpoint.
type BookCreator interface {
	CreateWithAuthor(payload validators.BookPayload) (*entities.Book, error)
	CreateBulk(items []validators.BookPayload) *services.BulkResult
}

// TagLinker resolves tags by name and links them to books.
type TagLinker interface {
	GetOrCreateTag(name string) (*entities.Tag, error)
	LinkBook(bookID, tagID uint) error
}

type BooksController struct {
	store   BookStore
	creator BookCreator
	tags    TagLinker
}

func NewBooksController(store BookStore, creator BookCreator, tags TagLinker) *BooksController {
	return &BooksController{store: store, creator: creator, tags: tags}
}

// ListBooks returns a filtered, sorted and paginated book listing.
// GET /books
func (bc *BooksController) ListBooks(c *gin.Context) {
	opts := books.QueryOptions{
		UserID:      parseOptionalUserID(c),
		Status:      c.Query("status"),
		AuthorQuery: c.Query("author"),
		Tag:         c.Query("tag"),
		Search:      c.Query("q"),
		Sort:        c.Query("sort"),
		Dir:         c.Query("dir"),
		Page:        atoiOrZero(c.Query("page")),
		PerPage:     atoiOrZero(c.Query("per_page")),
	}

	result, err := bc.store.QueryBooks(opts)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books": serializers.NewBooks(result.Records),
		"meta":  result.Meta,
	})
}

// CreateBook creates a single book, resolving the author by name.
// POST /books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var payload validators.BookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "Invalid JSON")
		return
	}

	if errs := validators.ValidateBookCreate(payload); len(errs) > 0 {
		respondUnprocessable(c, errs)
		return
	}

	book, err := bc.creator.CreateWithAuthor(payload)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondUnprocessable(c, services.ErrUserNotFound.Error())
			return
		}
		respondInternalError(c, err, "create book")
		return
	}

	c.JSON(http.StatusCreated, serializers.NewBook(book))
}

// GetBook returns a single book with its associations.
// GET /books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBookByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c)
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, serializers.NewBook(book))
}

// UpdateBook applies a partial update of title, status and rating.
// PATCH /books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := bc.store.GetBookByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c)
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	var req struct {
		Title  *string `json:"title"`
		Status *string `json:"status"`
		Rating *int    `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid JSON")
		return
	}

	errs := []string{}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		errs = append(errs, "title is required")
	}
	if req.Status != nil && !entities.IsValidStatus(*req.Status) {
		errs = append(errs, "status must be one of to_read, reading, finished")
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		errs = append(errs, "rating must be between 0 and 5")
	}
	if len(errs) > 0 {
		respondUnprocessable(c, errs)
		return
	}

	book, err := bc.store.UpdateBook(id, books.BookPatch{
		Title:  req.Title,
		Status: req.Status,
		Rating: req.Rating,
	})
	if err != nil {
		respondInternalError(c, err, "update book")
		return
	}

	c.JSON(http.StatusOK, serializers.NewBook(book))
}

// DeleteBook removes a book and all its dependent rows.
// DELETE /books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := bc.store.GetBookByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c)
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	if err := bc.store.DeleteBook(id); err != nil {
		respondInternalError(c, err, "delete book")
		return
	}

	c.Status(http.StatusNoContent)
}

// AddTags links one or more tags to a book, creating missing tags by
// name. Re-linking an existing tag is a no-op.
// POST /books/:id/tags
func (bc *BooksController) AddTags(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := bc.store.GetBookByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c)
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	var req struct {
		Names []string `json:"names"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid JSON")
		return
	}

	names := make([]string, 0, len(req.Names))
	for _, name := range req.Names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		respondUnprocessable(c, "names must be a non-empty array")
		return
	}

	for _, name := range names {
		tag, err := bc.tags.GetOrCreateTag(name)
		if err != nil {
			respondInternalError(c, err, "get or create tag")
			return
		}
		if err := bc.tags.LinkBook(id, tag.ID); err != nil {
			respondInternalError(c, err, "link tag to book")
			return
		}
	}

	book, err := bc.store.GetBookByID(id)
	if err != nil {
		respondInternalError(c, err, "reload book")
		return
	}
	c.JSON(http.StatusOK, serializers.NewBook(book))
}

// AddReview appends a review to a book.
// POST /books/:id/reviews
func (bc *BooksController) AddReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := bc.store.GetBookByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c)
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	var req struct {
		Body   string `json:"body"`
		Rating int    `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid JSON")
		return
	}

	errs := []string{}
	if strings.TrimSpace(req.Body) == "" {
		errs = append(errs, "body is required")
	}
	if req.Rating < 0 || req.Rating > 5 {
		errs = append(errs, "rating must be between 0 and 5")
	}
	if len(errs) > 0 {
		respondUnprocessable(c, errs)
		return
	}

	if _, err := bc.store.AddReview(id, req.Body, req.Rating); err != nil {
		respondInternalError(c, err, "add review")
		return
	}

	book, err := bc.store.GetBookByID(id)
	if err != nil {
		respondInternalError(c, err, "reload book")
		return
	}
	c.JSON(http.StatusCreated, serializers.NewBook(book))
}

// AddReadingSession appends a reading session to a book. A missing or
// unparseable date falls back to today.
// POST /books/:id/reading_sessions
func (bc *BooksController) AddReadingSession(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := bc.store.GetBookByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c)
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	var req struct {
		Minutes int    `json:"minutes"`
		Date    string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid JSON")
		return
	}

	if req.Minutes <= 0 {
		respondUnprocessable(c, []string{"minutes must be greater than 0"})
		return
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if req.Date != "" {
		if parsed, err := time.Parse(serializers.DateFormat, req.Date); err == nil {
			date = parsed
		}
	}

	if _, err := bc.store.AddReadingSession(id, req.Minutes, date); err != nil {
		respondInternalError(c, err, "add reading session")
		return
	}

	book, err := bc.store.GetBookByID(id)
	if err != nil {
		respondInternalError(c, err, "reload book")
		return
	}
	c.JSON(http.StatusCreated, serializers.NewBook(book))
}

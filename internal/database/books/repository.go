// Package books provides database operations for the book catalogue,
// including the filtered/sorted/paginated listing used by the API.
package books

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/booktracker/internal/entities"
)

// Pagination defaults and bounds for book listings.
const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// QueryOptions configures a book listing. All filters are optional; the
// zero value of a field means "no constraint".
type QueryOptions struct {
	// UserID restricts the listing to books owned by the given user.
	UserID *uint
	// Status filters on the exact status value. Unknown values simply
	// match nothing; they are not rejected here.
	Status string
	// AuthorQuery is a case-insensitive substring match on the author name.
	AuthorQuery string
	// Tag matches books linked to a tag with this exact name.
	Tag string
	// Search matches the book title OR the author name as a
	// case-insensitive substring. Blank (after trimming) means no search.
	Search string
	// Sort is "title" or "created_at"; anything else falls back to "created_at".
	Sort string
	// Dir is "asc" (case-insensitive); anything else means "desc".
	Dir string
	// Page is 1-based; values below 1 normalize to DefaultPage.
	Page int
	// PerPage defaults to DefaultPerPage and is clamped to MaxPerPage.
	PerPage int
}

// PageMeta describes the page of a listing result. Total counts all
// matching books before pagination.
type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

// QueryResult is one page of books plus paging metadata.
type QueryResult struct {
	Records []entities.Book
	Meta    PageMeta
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// normalize applies the documented defaults and bounds to opts.
func (o QueryOptions) normalize() QueryOptions {
	if o.Sort != "title" && o.Sort != "created_at" {
		o.Sort = "created_at"
	}
	if strings.EqualFold(o.Dir, "asc") {
		o.Dir = "asc"
	} else {
		o.Dir = "desc"
	}
	if o.Page <= 0 {
		o.Page = DefaultPage
	}
	if o.PerPage <= 0 {
		o.PerPage = DefaultPerPage
	}
	if o.PerPage > MaxPerPage {
		o.PerPage = MaxPerPage
	}
	return o
}

// filters returns a gorm scope applying every filter in opts. All filters
// combine with AND; the free-text search is itself an OR over book title
// and author name.
func filters(opts QueryOptions) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if opts.UserID != nil {
			db = db.Where("books.user_id = ?", *opts.UserID)
		}
		if opts.Status != "" {
			db = db.Where("books.status = ?", opts.Status)
		}

		authorsJoined := false
		joinAuthors := func(db *gorm.DB) *gorm.DB {
			if !authorsJoined {
				db = db.Joins("JOIN authors ON authors.id = books.author_id")
				authorsJoined = true
			}
			return db
		}

		if opts.AuthorQuery != "" {
			db = joinAuthors(db).
				Where("LOWER(authors.name) LIKE ?", "%"+strings.ToLower(opts.AuthorQuery)+"%")
		}
		if opts.Tag != "" {
			db = db.
				Joins("JOIN book_tags ON book_tags.book_id = books.id").
				Joins("JOIN tags ON tags.id = book_tags.tag_id").
				Where("tags.name = ?", opts.Tag)
		}
		if q := strings.TrimSpace(opts.Search); q != "" {
			pattern := "%" + strings.ToLower(q) + "%"
			db = joinAuthors(db).
				Where("LOWER(books.title) LIKE ? OR LOWER(authors.name) LIKE ?", pattern, pattern)
		}
		return db
	}
}

// preloadAssociations loads every association the public book
// representation needs, with the documented ordering.
func preloadAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		}).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("reviews.created_at DESC, reviews.id DESC")
		}).
		Preload("ReadingSessions", func(db *gorm.DB) *gorm.DB {
			return db.Order("reading_sessions.date DESC, reading_sessions.id DESC")
		})
}

// QueryBooks returns the page of books matching opts plus paging metadata.
// Unmatched filters yield an empty page with Total 0, never an error.
func (r *Repository) QueryBooks(opts QueryOptions) (*QueryResult, error) {
	opts = opts.normalize()

	var total int64
	if err := r.db.Model(&entities.Book{}).Scopes(filters(opts)).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	// Secondary order by id keeps pagination deterministic across books
	// with equal sort-key values.
	order := fmt.Sprintf("books.%s %s, books.id ASC", opts.Sort, opts.Dir)

	records := []entities.Book{}
	err := preloadAssociations(r.db.Model(&entities.Book{})).
		Scopes(filters(opts)).
		Select("books.*").
		Order(order).
		Offset((opts.Page - 1) * opts.PerPage).
		Limit(opts.PerPage).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}

	return &QueryResult{
		Records: records,
		Meta: PageMeta{
			Page:    opts.Page,
			PerPage: opts.PerPage,
			Total:   total,
		},
	}, nil
}

// ExportOptions restricts an export to a subset of the catalogue. Unlike
// listings there is no pagination; every matching book is returned.
type ExportOptions struct {
	UserID *uint
	Status string
	Tag    string
}

// ListForExport returns all books matching opts, newest first, with every
// association preloaded.
func (r *Repository) ListForExport(opts ExportOptions) ([]entities.Book, error) {
	records := []entities.Book{}
	err := preloadAssociations(r.db.Model(&entities.Book{})).
		Scopes(filters(QueryOptions{UserID: opts.UserID, Status: opts.Status, Tag: opts.Tag})).
		Select("books.*").
		Order("books.created_at DESC, books.id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list books for export: %w", err)
	}
	return records, nil
}

// CreateBook inserts a new book.
func (r *Repository) CreateBook(book *entities.Book) error {
	return r.db.Create(book).Error
}

// GetBookByID retrieves a book with all associations preloaded.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := preloadAssociations(r.db).First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// BookPatch carries the partially-updatable book fields. Nil means
// "leave unchanged"; a zero rating is a valid value, not an omission.
type BookPatch struct {
	Title  *string
	Status *string
	Rating *int
}

// UpdateBook applies a partial update and returns the refreshed book.
func (r *Repository) UpdateBook(id uint, patch BookPatch) (*entities.Book, error) {
	updates := map[string]any{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Rating != nil {
		updates["rating"] = *patch.Rating
	}
	if len(updates) > 0 {
		if err := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetBookByID(id)
}

// DeleteBook removes a book together with its tag links, reviews and
// reading sessions in one transaction.
func (r *Repository) DeleteBook(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM book_tags WHERE book_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.ReadingSession{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Book{}, id).Error
	})
}

// AddReview appends a review to a book.
func (r *Repository) AddReview(bookID uint, body string, rating int) (*entities.Review, error) {
	review := &entities.Review{
		BookID: bookID,
		Body:   body,
		Rating: rating,
	}
	if err := r.db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// AddReadingSession appends a reading session to a book.
func (r *Repository) AddReadingSession(bookID uint, minutes int, date time.Time) (*entities.ReadingSession, error) {
	session := &entities.ReadingSession{
		BookID:  bookID,
		Minutes: minutes,
		Date:    date,
	}
	if err := r.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

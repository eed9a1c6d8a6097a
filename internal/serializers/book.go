// Package serializers maps entities to their public API representation.
package serializers

import (
	"time"

	"github.com/mrlokans/booktracker/internal/entities"
)

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

type UserRef struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthorRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type TagRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ReviewRef struct {
	ID     uint   `json:"id"`
	Body   string `json:"body"`
	Rating int    `json:"rating"`
}

type ReadingSessionRef struct {
	ID      uint   `json:"id"`
	Minutes int    `json:"minutes"`
	Date    string `json:"date"`
}

// Book is the public representation of a book with its flat associations.
type Book struct {
	ID              uint                `json:"id"`
	Title           string              `json:"title"`
	Status          string              `json:"status"`
	Rating          int                 `json:"rating"`
	TotalMinutes    int                 `json:"total_minutes"`
	User            *UserRef            `json:"user"`
	Author          AuthorRef           `json:"author"`
	Tags            []TagRef            `json:"tags"`
	Reviews         []ReviewRef         `json:"reviews"`
	ReadingSessions []ReadingSessionRef `json:"reading_sessions"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// NewBook renders a book with preloaded associations into its public
// shape. Association ordering (tags by name, reviews and sessions newest
// first) is established by the repository preloads.
func NewBook(book *entities.Book) Book {
	serialized := Book{
		ID:              book.ID,
		Title:           book.Title,
		Status:          string(book.Status),
		Rating:          book.Rating,
		TotalMinutes:    book.TotalMinutes(),
		Author:          AuthorRef{ID: book.Author.ID, Name: book.Author.Name},
		Tags:            []TagRef{},
		Reviews:         []ReviewRef{},
		ReadingSessions: []ReadingSessionRef{},
		CreatedAt:       book.CreatedAt,
		UpdatedAt:       book.UpdatedAt,
	}
	if book.User.ID != 0 {
		serialized.User = &UserRef{ID: book.User.ID, Name: book.User.Name, Email: book.User.Email}
	}
	for _, tag := range book.Tags {
		serialized.Tags = append(serialized.Tags, TagRef{ID: tag.ID, Name: tag.Name})
	}
	for _, review := range book.Reviews {
		serialized.Reviews = append(serialized.Reviews, ReviewRef{ID: review.ID, Body: review.Body, Rating: review.Rating})
	}
	for _, session := range book.ReadingSessions {
		serialized.ReadingSessions = append(serialized.ReadingSessions, ReadingSessionRef{
			ID:      session.ID,
			Minutes: session.Minutes,
			Date:    session.Date.Format(DateFormat),
		})
	}
	return serialized
}

// NewBooks renders a slice of books.
func NewBooks(books []entities.Book) []Book {
	serialized := make([]Book, 0, len(books))
	for i := range books {
		serialized = append(serialized, NewBook(&books[i]))
	}
	return serialized
}

package entities

import "time"

type BookStatus string

const (
	StatusToRead   BookStatus = "to_read"
	StatusReading  BookStatus = "reading"
	StatusFinished BookStatus = "finished"
)

// BookStatuses lists every valid book status, in lifecycle order.
var BookStatuses = []BookStatus{StatusToRead, StatusReading, StatusFinished}

// IsValidStatus reports whether s is one of the known book statuses.
func IsValidStatus(s string) bool {
	for _, status := range BookStatuses {
		if string(status) == s {
			return true
		}
	}
	return false
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Books     []Book    `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Book struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	UserID          uint             `gorm:"index;not null" json:"user_id"`
	AuthorID        uint             `gorm:"index;not null" json:"author_id"`
	Title           string           `gorm:"index;size:512;not null" json:"title"`
	Status          BookStatus       `gorm:"size:20;default:'to_read'" json:"status"`
	Rating          int              `gorm:"default:0" json:"rating"`
	User            User             `gorm:"foreignKey:UserID" json:"-"`
	Author          Author           `gorm:"foreignKey:AuthorID" json:"-"`
	Tags            []Tag            `gorm:"many2many:book_tags;" json:"tags,omitempty"`
	Reviews         []Review         `gorm:"foreignKey:BookID" json:"reviews,omitempty"`
	ReadingSessions []ReadingSession `gorm:"foreignKey:BookID" json:"reading_sessions,omitempty"`
	CreatedAt       time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// TotalMinutes sums the minutes of the preloaded reading sessions.
func (b *Book) TotalMinutes() int {
	total := 0
	for _, s := range b.ReadingSessions {
		total += s.Minutes
	}
	return total
}

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"index;not null" json:"book_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Rating    int       `gorm:"default:0" json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

type ReadingSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"index;not null" json:"book_id"`
	Minutes   int       `gorm:"not null" json:"minutes"`
	Date      time.Time `gorm:"type:date;not null" json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

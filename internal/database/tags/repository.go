// Package tags provides database operations for tag management and the
// book/tag link table.
package tags

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/booktracker/internal/entities"
)

// Repository handles all tag database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tags repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreateTag retrieves or creates a tag by exact name.
func (r *Repository) GetOrCreateTag(name string) (*entities.Tag, error) {
	tag := entities.Tag{Name: name}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&tag).Error
	if err != nil {
		return nil, err
	}
	if tag.ID != 0 {
		return &tag, nil
	}
	var existing entities.Tag
	if err := r.db.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// LinkBook associates a tag with a book. Linking an already-linked pair
// is a no-op; the (book, tag) pair is never duplicated.
func (r *Repository) LinkBook(bookID, tagID uint) error {
	return r.db.Exec(
		"INSERT OR IGNORE INTO book_tags (book_id, tag_id) VALUES (?, ?)",
		bookID, tagID,
	).Error
}

// SearchTags lists tags ordered by name, optionally restricted to a name
// substring.
func (r *Repository) SearchTags(query string) ([]entities.Tag, error) {
	var tags []entities.Tag
	scope := r.db.Order("name ASC")
	if query != "" {
		scope = scope.Where("name LIKE ?", "%"+query+"%")
	}
	err := scope.Find(&tags).Error
	return tags, err
}

// DeleteOrphanTags removes tags that no book links to.
func (r *Repository) DeleteOrphanTags() (int64, error) {
	result := r.db.Exec(`
		DELETE FROM tags
		WHERE id NOT IN (SELECT tag_id FROM book_tags)
	`)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Package authors provides database operations for author management.
package authors

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/booktracker/internal/entities"
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateAuthor creates a new author.
func (r *Repository) CreateAuthor(name string) (*entities.Author, error) {
	author := &entities.Author{Name: name}
	if err := r.db.Create(author).Error; err != nil {
		return nil, err
	}
	return author, nil
}

// GetOrCreateAuthor retrieves or creates an author by exact name. The
// insert ignores conflicts on the unique name index, so concurrent
// requests for the same name converge on a single row.
func (r *Repository) GetOrCreateAuthor(name string) (*entities.Author, error) {
	author := entities.Author{Name: name}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&author).Error
	if err != nil {
		return nil, err
	}
	if author.ID != 0 {
		return &author, nil
	}
	// Conflict path: the row already existed, fetch it.
	var existing entities.Author
	if err := r.db.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// SearchAuthors lists authors ordered by name, optionally restricted to a
// name substring.
func (r *Repository) SearchAuthors(query string) ([]entities.Author, error) {
	var authors []entities.Author
	scope := r.db.Order("name ASC")
	if query != "" {
		scope = scope.Where("name LIKE ?", "%"+query+"%")
	}
	err := scope.Find(&authors).Error
	return authors, err
}

// DeleteOrphanAuthors removes authors that no book references.
func (r *Repository) DeleteOrphanAuthors() (int64, error) {
	result := r.db.Exec(`
		DELETE FROM authors
		WHERE id NOT IN (SELECT author_id FROM books)
	`)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

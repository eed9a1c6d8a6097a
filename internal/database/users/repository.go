// Package users provides database operations for user management.
package users

import (
	"gorm.io/gorm"

	"github.com/mrlokans/booktracker/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user. Email must be unique.
func (r *Repository) CreateUser(name, email string) (*entities.User, error) {
	user := &entities.User{
		Name:  name,
		Email: email,
	}
	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user and cascades the delete to the user's books
// and their dependent rows.
func (r *Repository) DeleteUser(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var bookIDs []uint
		if err := tx.Model(&entities.Book{}).Where("user_id = ?", id).Pluck("id", &bookIDs).Error; err != nil {
			return err
		}
		if len(bookIDs) > 0 {
			if err := tx.Exec("DELETE FROM book_tags WHERE book_id IN ?", bookIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("book_id IN ?", bookIDs).Delete(&entities.Review{}).Error; err != nil {
				return err
			}
			if err := tx.Where("book_id IN ?", bookIDs).Delete(&entities.ReadingSession{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", id).Delete(&entities.Book{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&entities.User{}, id).Error
	})
}

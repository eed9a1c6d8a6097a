package users

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booktracker/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	t.Helper()
	dbPath := "./test_users_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Author{},
		&entities.Tag{},
		&entities.Book{},
		&entities.Review{},
		&entities.ReadingSession{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func TestCreateUser(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.CreateUser("Alice", "alice@example.com")

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestCreateUser_DuplicateEmailFails(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.CreateUser("Alice", "alice@example.com")
	require.NoError(t, err)

	_, err = repo.CreateUser("Other Alice", "alice@example.com")
	require.Error(t, err)
	assert.Contains(t, strings.ToUpper(err.Error()), "UNIQUE")
}

func TestGetUserByID_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetUserByID(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteUser_CascadesToBooksAndDependents(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := repo.CreateUser("Doomed", "doomed@example.com")
	require.NoError(t, err)
	other, err := repo.CreateUser("Survivor", "survivor@example.com")
	require.NoError(t, err)

	author := &entities.Author{Name: "Author"}
	require.NoError(t, db.Create(author).Error)
	tag := &entities.Tag{Name: "fiction"}
	require.NoError(t, db.Create(tag).Error)

	mine := &entities.Book{UserID: user.ID, AuthorID: author.ID, Title: "Mine", Status: entities.StatusReading}
	require.NoError(t, db.Create(mine).Error)
	theirs := &entities.Book{UserID: other.ID, AuthorID: author.ID, Title: "Theirs", Status: entities.StatusToRead}
	require.NoError(t, db.Create(theirs).Error)

	require.NoError(t, db.Exec("INSERT INTO book_tags (book_id, tag_id) VALUES (?, ?)", mine.ID, tag.ID).Error)
	require.NoError(t, db.Create(&entities.Review{BookID: mine.ID, Body: "ok", Rating: 3}).Error)
	require.NoError(t, db.Create(&entities.ReadingSession{BookID: mine.ID, Minutes: 20}).Error)

	require.NoError(t, repo.DeleteUser(user.ID))

	_, err = repo.GetUserByID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var bookCount, reviewCount, sessionCount, linkCount int64
	db.Model(&entities.Book{}).Count(&bookCount)
	db.Model(&entities.Review{}).Count(&reviewCount)
	db.Model(&entities.ReadingSession{}).Count(&sessionCount)
	db.Table("book_tags").Count(&linkCount)

	assert.Equal(t, int64(1), bookCount)
	assert.Zero(t, reviewCount)
	assert.Zero(t, sessionCount)
	assert.Zero(t, linkCount)

	// The other user's data is untouched.
	survivor, err := repo.GetUserByID(other.ID)
	require.NoError(t, err)
	assert.Equal(t, "Survivor", survivor.Name)
}

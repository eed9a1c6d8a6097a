package services

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booktracker/internal/database/authors"
	"github.com/mrlokans/booktracker/internal/database/books"
	"github.com/mrlokans/booktracker/internal/database/users"
	"github.com/mrlokans/booktracker/internal/entities"
	"github.com/mrlokans/booktracker/internal/validators"
)

type testEnv struct {
	db       *gorm.DB
	users    *users.Repository
	authors  *authors.Repository
	books    *books.Repository
	bookSvc  *BookService
	statsSvc *StatsService
	export   *ExportService
}

func setupTestEnv(t *testing.T) (*testEnv, func()) {
	t.Helper()
	dbPath := "./test_services_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

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

	userRepo := users.NewRepository(db)
	authorRepo := authors.NewRepository(db)
	bookRepo := books.NewRepository(db)

	env := &testEnv{
		db:       db,
		users:    userRepo,
		authors:  authorRepo,
		books:    bookRepo,
		bookSvc:  NewBookService(userRepo, authorRepo, bookRepo),
		statsSvc: NewStatsService(db),
		export:   NewExportService(bookRepo),
	}

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return env, cleanup
}

func uintPtr(v uint) *uint    { return &v }
func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func TestCreateWithAuthor(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	user, err := env.users.CreateUser("Reader", "reader@example.com")
	require.NoError(t, err)

	book, err := env.bookSvc.CreateWithAuthor(validators.BookPayload{
		UserID:     &user.ID,
		Title:      "  Dune  ",
		AuthorName: " Frank Herbert ",
		Status:     strPtr("finished"),
		Rating:     intPtr(5),
	})

	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, entities.StatusFinished, book.Status)
	assert.Equal(t, 5, book.Rating)
	assert.Equal(t, "Frank Herbert", book.Author.Name)
	assert.Equal(t, user.ID, book.User.ID)
}

func TestCreateWithAuthor_DefaultsStatusToToRead(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	user, err := env.users.CreateUser("Reader", "reader@example.com")
	require.NoError(t, err)

	book, err := env.bookSvc.CreateWithAuthor(validators.BookPayload{
		UserID:     &user.ID,
		Title:      "Dune",
		AuthorName: "Frank Herbert",
	})

	require.NoError(t, err)
	assert.Equal(t, entities.StatusToRead, book.Status)
	assert.Zero(t, book.Rating)
}

func TestCreateWithAuthor_UnknownUser(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	_, err := env.bookSvc.CreateWithAuthor(validators.BookPayload{
		UserID:     uintPtr(999),
		Title:      "Dune",
		AuthorName: "Frank Herbert",
	})

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateWithAuthor_ReusesExistingAuthor(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	user, err := env.users.CreateUser("Reader", "reader@example.com")
	require.NoError(t, err)

	first, err := env.bookSvc.CreateWithAuthor(validators.BookPayload{
		UserID: &user.ID, Title: "Dune", AuthorName: "Frank Herbert",
	})
	require.NoError(t, err)

	second, err := env.bookSvc.CreateWithAuthor(validators.BookPayload{
		UserID: &user.ID, Title: "Dune Messiah", AuthorName: "Frank Herbert",
	})
	require.NoError(t, err)

	assert.Equal(t, first.AuthorID, second.AuthorID)

	var count int64
	env.db.Model(&entities.Author{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateBulk_AllValid(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	user, err := env.users.CreateUser("Reader", "reader@example.com")
	require.NoError(t, err)

	result := env.bookSvc.CreateBulk([]validators.BookPayload{
		{UserID: &user.ID, Title: "Dune", AuthorName: "Frank Herbert"},
		{UserID: &user.ID, Title: "Foundation", AuthorName: "Isaac Asimov"},
	})

	assert.Equal(t, BulkMeta{Total: 2, Successful: 2, Failed: 0}, result.Meta)
	require.Len(t, result.Results, 2)
	for _, item := range result.Results {
		assert.True(t, item.Success)
		assert.NotNil(t, item.Book)
		assert.Nil(t, item.Index)
		assert.Empty(t, item.Error)
	}
}

func TestCreateBulk_PartialFailure(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	user, err := env.users.CreateUser("Reader", "reader@example.com")
	require.NoError(t, err)

	result := env.bookSvc.CreateBulk([]validators.BookPayload{
		{UserID: &user.ID, Title: "Book A", AuthorName: "Author X"},
		{Title: "Book B", AuthorName: "Author Y"},
	})

	assert.Equal(t, BulkMeta{Total: 2, Successful: 1, Failed: 1}, result.Meta)
	require.Len(t, result.Results, 2)

	assert.True(t, result.Results[0].Success)
	require.NotNil(t, result.Results[0].Book)
	assert.Equal(t, "Book A", result.Results[0].Book.Title)

	failed := result.Results[1]
	assert.False(t, failed.Success)
	assert.Equal(t, "user_id is required", failed.Error)
	require.NotNil(t, failed.Index)
	assert.Equal(t, 1, *failed.Index)

	// The valid item is persisted even though a sibling failed.
	var count int64
	env.db.Model(&entities.Book{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateBulk_FailureAtIndexZeroKeepsIndex(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	result := env.bookSvc.CreateBulk([]validators.BookPayload{
		{Title: "No user"},
	})

	require.Len(t, result.Results, 1)
	failed := result.Results[0]
	assert.False(t, failed.Success)
	require.NotNil(t, failed.Index)
	assert.Equal(t, 0, *failed.Index)
}

func TestCreateBulk_JoinsValidationErrors(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	result := env.bookSvc.CreateBulk([]validators.BookPayload{{}})

	require.Len(t, result.Results, 1)
	assert.Equal(t,
		"user_id is required, title is required, author_name is required",
		result.Results[0].Error)
}

func TestCreateBulk_UnknownUserIsAPerItemFailure(t *testing.T) {
	env, cleanup := setupTestEnv(t)
	defer cleanup()

	user, err := env.users.CreateUser("Reader", "reader@example.com")
	require.NoError(t, err)

	result := env.bookSvc.CreateBulk([]validators.BookPayload{
		{UserID: uintPtr(999), Title: "Ghost", AuthorName: "Nobody"},
		{UserID: &user.ID, Title: "Real", AuthorName: "Somebody"},
	})

	assert.Equal(t, BulkMeta{Total: 2, Successful: 1, Failed: 1}, result.Meta)
	assert.Equal(t, "User not found", result.Results[0].Error)
	assert.True(t, result.Results[1].Success)
}

package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktracker/internal/auth"
)

// RouterConfig holds all dependencies needed to build the router.
type RouterConfig struct {
	BookStore   BookStore
	BookCreator BookCreator
	TagLinker   TagLinker
	TagStore    TagStore
	AuthorStore AuthorStore
	UserStore   UserStore
	Stats       StatsProvider
	Exporter    Exporter

	// APIKey enables authentication for API routes when non-empty.
	APIKey  string
	Version string
}

// NewRouter builds the gin engine with all routes registered. The root,
// health and version endpoints stay open; everything else requires the
// API key when one is configured.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.Version)
	router.GET("/", healthController.Root)
	router.GET("/health", healthController.Health)
	router.GET("/version", healthController.Version)

	api := router.Group("/")
	api.Use(auth.APIKeyMiddleware(cfg.APIKey))

	usersController := NewUsersController(cfg.UserStore)
	api.POST("/users", usersController.CreateUser)
	api.DELETE("/users/:id", usersController.DeleteUser)

	authorsController := NewAuthorsController(cfg.AuthorStore)
	api.POST("/authors", authorsController.CreateAuthor)
	api.GET("/authors", authorsController.ListAuthors)

	tagsController := NewTagsController(cfg.TagStore)
	api.GET("/tags", tagsController.ListTags)

	booksController := NewBooksController(cfg.BookStore, cfg.BookCreator, cfg.TagLinker)
	api.GET("/books", booksController.ListBooks)
	api.POST("/books", booksController.CreateBook)
	api.POST("/books/bulk", booksController.BulkCreate)

	exportController := NewExportController(cfg.Exporter)
	api.GET("/books/export", exportController.ExportBooks)

	api.GET("/books/:id", booksController.GetBook)
	api.PATCH("/books/:id", booksController.UpdateBook)
	api.DELETE("/books/:id", booksController.DeleteBook)
	api.POST("/books/:id/tags", booksController.AddTags)
	api.POST("/books/:id/reviews", booksController.AddReview)
	api.POST("/books/:id/reading_sessions", booksController.AddReadingSession)

	statsController := NewStatsController(cfg.Stats)
	api.GET("/stats", statsController.GetStats)

	return router
}

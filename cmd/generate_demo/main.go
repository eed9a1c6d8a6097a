// Command generate_demo creates a demo database with sample data so the
// API is useful right away.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/mrlokans/booktracker/internal/database"
	"github.com/mrlokans/booktracker/internal/database/authors"
	"github.com/mrlokans/booktracker/internal/database/books"
	"github.com/mrlokans/booktracker/internal/database/tags"
	"github.com/mrlokans/booktracker/internal/database/users"
	"github.com/mrlokans/booktracker/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

type demoBook struct {
	title    string
	author   string
	status   entities.BookStatus
	rating   int
	tagNames []string
	reviews  []entities.Review
	sessions []int // minutes, one session per entry on consecutive days
}

var demoBooks = []demoBook{
	{
		title:    "Harry Potter and the Sorcerer's Stone",
		author:   "J. K. Rowling",
		status:   entities.StatusReading,
		rating:   5,
		tagNames: []string{"fantasy", "ya"},
		reviews:  []entities.Review{{Body: "Magical start to a classic series.", Rating: 5}},
		sessions: []int{45},
	},
	{
		title:    "A Game of Thrones",
		author:   "George R. R. Martin",
		status:   entities.StatusToRead,
		rating:   0,
		tagNames: []string{"fantasy"},
	},
	{
		title:    "Dune",
		author:   "Frank Herbert",
		status:   entities.StatusFinished,
		rating:   5,
		tagNames: []string{"sci-fi", "classic"},
		reviews:  []entities.Review{{Body: "Great book", Rating: 5}},
		sessions: []int{60, 40},
	},
	{
		title:    "Foundation",
		author:   "Isaac Asimov",
		status:   entities.StatusReading,
		rating:   4,
		tagNames: []string{"sci-fi"},
		reviews:  []entities.Review{{Body: "Good read", Rating: 4}},
		sessions: []int{30},
	},
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	userRepo := users.NewRepository(db.DB)
	authorRepo := authors.NewRepository(db.DB)
	tagRepo := tags.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)

	user, err := userRepo.CreateUser("Demo User", "demo@example.com")
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	for _, cfg := range demoBooks {
		author, err := authorRepo.GetOrCreateAuthor(cfg.author)
		if err != nil {
			log.Fatalf("Failed to create author %s: %v", cfg.author, err)
		}

		book := entities.Book{
			UserID:   user.ID,
			AuthorID: author.ID,
			Title:    cfg.title,
			Status:   cfg.status,
			Rating:   cfg.rating,
		}
		if err := bookRepo.CreateBook(&book); err != nil {
			log.Fatalf("Failed to create book %s: %v", cfg.title, err)
		}

		for _, tagName := range cfg.tagNames {
			tag, err := tagRepo.GetOrCreateTag(tagName)
			if err != nil {
				log.Fatalf("Failed to create tag %s: %v", tagName, err)
			}
			if err := tagRepo.LinkBook(book.ID, tag.ID); err != nil {
				log.Fatalf("Failed to tag book %s: %v", cfg.title, err)
			}
		}

		for _, review := range cfg.reviews {
			if _, err := bookRepo.AddReview(book.ID, review.Body, review.Rating); err != nil {
				log.Fatalf("Failed to add review to %s: %v", cfg.title, err)
			}
		}

		for i, minutes := range cfg.sessions {
			date := time.Now().UTC().AddDate(0, 0, -i)
			if _, err := bookRepo.AddReadingSession(book.ID, minutes, date); err != nil {
				log.Fatalf("Failed to add reading session to %s: %v", cfg.title, err)
			}
		}

		log.Printf("Saved: %s by %s", cfg.title, cfg.author)
	}

	log.Printf("Seeded demo data. User email: %s", user.Email)
}

package services

import (
	"database/sql"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/mrlokans/booktracker/internal/entities"
)

// StatsSnapshot is the aggregate view over a book scope. Averages are nil
// (serialized as null) when there is nothing to average; sums and counts
// are always present and default to 0.
type StatsSnapshot struct {
	TotalBooks    int64 `json:"total_books"`
	TotalFinished int64 `json:"total_finished"`
	TotalMinutes  int64 `json:"total_minutes"`

	ToReadCount   int64 `json:"to_read_count"`
	ReadingCount  int64 `json:"reading_count"`
	FinishedCount int64 `json:"finished_count"`

	AverageRating      *float64         `json:"average_rating"`
	TotalRatedBooks    int64            `json:"total_rated_books"`
	RatingDistribution map[string]int64 `json:"rating_distribution"`

	TotalReadingSessions  int64    `json:"total_reading_sessions"`
	AverageSessionMinutes *float64 `json:"average_session_minutes"`
	BooksWithSessions     int64    `json:"books_with_sessions"`
}

// StatsService computes aggregate statistics over books and their
// reading sessions.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService creates a new stats service.
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Stats computes the snapshot for all books, or for a single user's books
// when userID is given.
func (s *StatsService) Stats(userID *uint) (*StatsSnapshot, error) {
	bookScope := func(db *gorm.DB) *gorm.DB {
		if userID != nil {
			db = db.Where("books.user_id = ?", *userID)
		}
		return db
	}
	sessionScope := func(db *gorm.DB) *gorm.DB {
		db = db.Joins("JOIN books ON books.id = reading_sessions.book_id")
		return bookScope(db)
	}

	snapshot := &StatsSnapshot{
		RatingDistribution: map[string]int64{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0},
	}

	books := func() *gorm.DB { return s.db.Model(&entities.Book{}).Scopes(bookScope) }
	sessions := func() *gorm.DB { return s.db.Model(&entities.ReadingSession{}).Scopes(sessionScope) }

	if err := books().Count(&snapshot.TotalBooks).Error; err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	statusCounts := []struct {
		Status string
		Count  int64
	}{}
	err := books().Select("books.status AS status, COUNT(*) AS count").
		Group("books.status").Scan(&statusCounts).Error
	if err != nil {
		return nil, fmt.Errorf("count books by status: %w", err)
	}
	for _, row := range statusCounts {
		switch entities.BookStatus(row.Status) {
		case entities.StatusToRead:
			snapshot.ToReadCount = row.Count
		case entities.StatusReading:
			snapshot.ReadingCount = row.Count
		case entities.StatusFinished:
			snapshot.FinishedCount = row.Count
		}
	}
	snapshot.TotalFinished = snapshot.FinishedCount

	err = sessions().Select("COALESCE(SUM(reading_sessions.minutes), 0)").
		Scan(&snapshot.TotalMinutes).Error
	if err != nil {
		return nil, fmt.Errorf("sum reading minutes: %w", err)
	}

	// Rating analytics cover rated books only (rating > 0).
	if err := books().Where("books.rating > 0").Count(&snapshot.TotalRatedBooks).Error; err != nil {
		return nil, fmt.Errorf("count rated books: %w", err)
	}
	if snapshot.TotalRatedBooks > 0 {
		var avg sql.NullFloat64
		err = books().Where("books.rating > 0").
			Select("AVG(books.rating)").Scan(&avg).Error
		if err != nil {
			return nil, fmt.Errorf("average rating: %w", err)
		}
		if avg.Valid {
			rounded := round2(avg.Float64)
			snapshot.AverageRating = &rounded
		}

		distribution := []struct {
			Rating int
			Count  int64
		}{}
		err = books().Where("books.rating > 0").
			Select("books.rating AS rating, COUNT(*) AS count").
			Group("books.rating").Scan(&distribution).Error
		if err != nil {
			return nil, fmt.Errorf("rating distribution: %w", err)
		}
		for _, row := range distribution {
			if row.Rating >= 1 && row.Rating <= 5 {
				snapshot.RatingDistribution[fmt.Sprint(row.Rating)] = row.Count
			}
		}
	}

	if err := sessions().Count(&snapshot.TotalReadingSessions).Error; err != nil {
		return nil, fmt.Errorf("count reading sessions: %w", err)
	}
	if snapshot.TotalReadingSessions > 0 {
		var avg sql.NullFloat64
		err = sessions().Select("AVG(reading_sessions.minutes)").Scan(&avg).Error
		if err != nil {
			return nil, fmt.Errorf("average session minutes: %w", err)
		}
		if avg.Valid {
			rounded := round2(avg.Float64)
			snapshot.AverageSessionMinutes = &rounded
		}
	}

	err = sessions().Distinct("reading_sessions.book_id").Count(&snapshot.BooksWithSessions).Error
	if err != nil {
		return nil, fmt.Errorf("count books with sessions: %w", err)
	}

	return snapshot, nil
}

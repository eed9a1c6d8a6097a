package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/booktracker/internal/database/books"
	"github.com/mrlokans/booktracker/internal/entities"
	"github.com/mrlokans/booktracker/internal/serializers"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Export request errors; all of them are client errors.
var (
	ErrFormatRequired = errors.New("format parameter is required")
	ErrInvalidFormat  = errors.New("Invalid format. Must be 'json' or 'csv'")
	ErrInvalidStatus  = errors.New("Invalid status. Must be one of: to_read, reading, finished")
)

// csvHeader is the fixed column set of a CSV export. Always emitted, even
// for an empty result.
var csvHeader = []string{
	"id", "title", "status", "rating", "total_minutes",
	"author_id", "author_name", "tags",
	"review_count", "average_review_rating",
	"reading_session_count",
	"created_at", "updated_at",
}

// ExportParams selects the book scope and output format of an export.
type ExportParams struct {
	Format string
	UserID *uint
	Status string
	Tag    string
}

// ExportMeta describes a JSON export document.
type ExportMeta struct {
	Total      int    `json:"total"`
	Format     string `json:"format"`
	ExportedAt string `json:"exported_at"`
}

// ExportDocument is the JSON export body.
type ExportDocument struct {
	Books []serializers.Book `json:"books"`
	Meta  ExportMeta         `json:"meta"`
}

// ExportResult holds the rendered export in the requested format. Exactly
// one of JSON and CSV is populated, according to Format.
type ExportResult struct {
	Format string
	JSON   *ExportDocument
	CSV    string
}

// ExportStore lists the full book scope an export covers.
type ExportStore interface {
	ListForExport(opts books.ExportOptions) ([]entities.Book, error)
}

// ExportService materializes a filtered book scope into JSON or CSV.
type ExportService struct {
	store ExportStore
}

// NewExportService creates a new export service.
func NewExportService(store ExportStore) *ExportService {
	return &ExportService{store: store}
}

// Export renders all books matching params. Unlike the listing endpoint,
// an unknown status here is a client error rather than an empty result.
func (s *ExportService) Export(params ExportParams) (*ExportResult, error) {
	format := strings.ToLower(strings.TrimSpace(params.Format))
	if format == "" {
		return nil, ErrFormatRequired
	}
	if format != FormatJSON && format != FormatCSV {
		return nil, ErrInvalidFormat
	}
	if params.Status != "" && !entities.IsValidStatus(params.Status) {
		return nil, ErrInvalidStatus
	}

	records, err := s.store.ListForExport(books.ExportOptions{
		UserID: params.UserID,
		Status: params.Status,
		Tag:    params.Tag,
	})
	if err != nil {
		return nil, fmt.Errorf("load export scope: %w", err)
	}

	if format == FormatJSON {
		return &ExportResult{
			Format: FormatJSON,
			JSON: &ExportDocument{
				Books: serializers.NewBooks(records),
				Meta: ExportMeta{
					Total:      len(records),
					Format:     FormatJSON,
					ExportedAt: time.Now().UTC().Format(time.RFC3339),
				},
			},
		}, nil
	}

	rendered, err := renderCSV(records)
	if err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}
	return &ExportResult{Format: FormatCSV, CSV: rendered}, nil
}

func renderCSV(records []entities.Book) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	for i := range records {
		book := &records[i]

		tagNames := make([]string, 0, len(book.Tags))
		for _, tag := range book.Tags {
			tagNames = append(tagNames, tag.Name)
		}

		reviewCount := len(book.Reviews)
		avgReviewRating := 0.0
		if reviewCount > 0 {
			sum := 0
			for _, review := range book.Reviews {
				sum += review.Rating
			}
			avgReviewRating = round2(float64(sum) / float64(reviewCount))
		}

		row := []string{
			strconv.FormatUint(uint64(book.ID), 10),
			book.Title,
			string(book.Status),
			strconv.Itoa(book.Rating),
			strconv.Itoa(book.TotalMinutes()),
			strconv.FormatUint(uint64(book.Author.ID), 10),
			book.Author.Name,
			strings.Join(tagNames, ", "),
			strconv.Itoa(reviewCount),
			strconv.FormatFloat(avgReviewRating, 'f', 2, 64),
			strconv.Itoa(len(book.ReadingSessions)),
			book.CreatedAt.UTC().Format(time.RFC3339),
			book.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

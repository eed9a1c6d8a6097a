package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktracker/internal/services"
)

// Exporter renders a filtered book scope into JSON or CSV.
type Exporter interface {
	Export(params services.ExportParams) (*services.ExportResult, error)
}

type ExportController struct {
	exporter Exporter
}

func NewExportController(exporter Exporter) *ExportController {
	return &ExportController{exporter: exporter}
}

// ExportBooks materializes all books matching the filters, unpaginated.
// A bad status is a client error here, unlike the listing endpoint.
// GET /books/export
func (ec *ExportController) ExportBooks(c *gin.Context) {
	result, err := ec.exporter.Export(services.ExportParams{
		Format: c.Query("format"),
		UserID: parseOptionalUserID(c),
		Status: c.Query("status"),
		Tag:    c.Query("tag"),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFormatRequired),
			errors.Is(err, services.ErrInvalidFormat),
			errors.Is(err, services.ErrInvalidStatus):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "export books")
		}
		return
	}

	if result.Format == services.FormatCSV {
		c.Header("Content-Disposition", `attachment; filename="books_export.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(result.CSV))
		return
	}

	c.JSON(http.StatusOK, result.JSON)
}

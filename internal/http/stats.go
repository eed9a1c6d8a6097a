package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktracker/internal/services"
)

// StatsProvider computes the aggregate snapshot for a book scope.
type StatsProvider interface {
	Stats(userID *uint) (*services.StatsSnapshot, error)
}

type StatsController struct {
	stats StatsProvider
}

func NewStatsController(stats StatsProvider) *StatsController {
	return &StatsController{stats: stats}
}

// GetStats returns aggregate statistics, optionally scoped to one user.
// GET /stats
func (sc *StatsController) GetStats(c *gin.Context) {
	snapshot, err := sc.stats.Stats(parseOptionalUserID(c))
	if err != nil {
		respondInternalError(c, err, "compute stats")
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const serviceName = "booktracker"

type HealthController struct {
	version string
}

func NewHealthController(version string) *HealthController {
	return &HealthController{version: version}
}

// Root identifies the service.
// GET /
func (hc *HealthController) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"name": serviceName, "version": hc.version})
}

// Health reports liveness.
// GET /health
func (hc *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Version reports the build version.
// GET /version
func (hc *HealthController) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": hc.version})
}

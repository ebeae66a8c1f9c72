package http

import "github.com/gin-gonic/gin"

// Register registers the project store routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/projects/list", h.list)
	rg.GET("/projects/get", h.get)
	rg.POST("/projects/save", h.save)
	rg.POST("/projects/clear", h.clear)
	rg.POST("/hosting/clear", h.clear)
	rg.POST("/hosting/reset", h.hostingReset)
}

// AvailableEndpoints is reported by the fallback route for unknown
// paths.
var AvailableEndpoints = []string{
	"/api/projects/list",
	"/api/projects/get",
	"/api/projects/save",
	"/api/projects/clear",
	"/api/hosting/clear",
	"/api/hosting/reset",
}

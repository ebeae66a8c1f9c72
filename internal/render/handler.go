package render

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomify-app/roomify-backend/internal/auth"
)

// Handler exposes render generation over HTTP.
type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// Register registers the render routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/render", h.generate)
}

func (h *Handler) generate(c *gin.Context) {
	if _, ok := auth.CurrentUser(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	if h.client == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Render service not configured"})
		return
	}

	var opts Options
	if err := c.ShouldBindJSON(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rendered, err := h.client.Generate(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate render", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"renderedImage": rendered})
}

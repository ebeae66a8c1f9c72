package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomify-app/roomify-backend/internal/auth"
	"github.com/roomify-app/roomify-backend/internal/projects/domain"
	"github.com/roomify-app/roomify-backend/internal/projects/service"
)

// HostingResetter drops the cached hosting configuration so the next
// save provisions a fresh host.
type HostingResetter interface {
	Reset(ctx context.Context) error
}

// Handler exposes the project store over HTTP.
type Handler struct {
	svc     *service.ProjectService
	hosting HostingResetter
}

func NewHandler(svc *service.ProjectService, hosting HostingResetter) *Handler {
	return &Handler{svc: svc, hosting: hosting}
}

func (h *Handler) list(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	projects, err := h.svc.List(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list projects", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, listResponse{Projects: projects})
}

func (h *Handler) get(c *gin.Context) {
	id := c.Query("id")
	scope := c.DefaultQuery("scope", "user")
	ownerID := c.Query("ownerId")

	var user *auth.User
	if u, ok := auth.CurrentUser(c); ok {
		user = &u
	}

	project, err := h.svc.Get(c.Request.Context(), user, id, scope, ownerID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, getResponse{Project: project})
}

func (h *Handler) save(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Project == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project id and image required"})
		return
	}

	visibility := domain.VisibilityPrivate
	if req.Visibility == domain.VisibilityPublic {
		visibility = domain.VisibilityPublic
	}

	project, err := h.svc.Save(c.Request.Context(), user, *req.Project, visibility)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saveResponse{Saved: true, ID: project.ID, Project: project})
}

func (h *Handler) clear(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	result, err := h.svc.Clear(c.Request.Context(), user)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) hostingReset(c *gin.Context) {
	if _, ok := auth.CurrentUser(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	if h.hosting == nil {
		c.JSON(http.StatusOK, gin.H{"reset": true})
		return
	}
	if err := h.hosting.Reset(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset hosting", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}

// writeError maps domain errors to HTTP status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case domain.ErrNotAuthenticated:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case domain.ErrNotOwner:
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
	case domain.ErrProjectNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	case domain.ErrProjectIDRequired, domain.ErrSourceImageRequired, domain.ErrSourceNotDurable:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "message": err.Error()})
	}
}

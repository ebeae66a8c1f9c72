package bootstrap

import (
	"net/http"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/roomify-app/roomify-backend/internal/api/http"
	"github.com/roomify-app/roomify-backend/internal/api/http/middleware"
	"github.com/roomify-app/roomify-backend/internal/auth"
	authmw "github.com/roomify-app/roomify-backend/internal/auth/middleware"
	"github.com/roomify-app/roomify-backend/internal/hosting"
	projectshttp "github.com/roomify-app/roomify-backend/internal/projects/http"
	"github.com/roomify-app/roomify-backend/internal/projects/service"
	"github.com/roomify-app/roomify-backend/internal/render"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Redis       *redis.Client
	AuthClient  *fbauth.Client // nil enables the dev fallback middleware
	Projects    *service.ProjectService
	Resolver    *hosting.Resolver
	Render      *render.Client // nil disables the render endpoint gracefully
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	// The storage worker is CORS-open.
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-User-Id", "X-User-Name")
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")
	api.Use(middleware.RequestIDMiddleware())

	// Auth is optional at the transport layer: public-scope fetches serve
	// anonymous callers, and every operation that needs a caller enforces
	// it itself. A presented token is still verified and rejected when
	// invalid.
	if dep.AuthClient != nil {
		api.Use(authmw.FirebaseOptionalAuthMiddleware(dep.AuthClient))
	} else {
		api.Use(auth.OptionalUser())
	}

	projectsHandler := projectshttp.NewHandler(dep.Projects, dep.Resolver)
	projectsHandler.Register(api)

	renderHandler := render.NewHandler(dep.Render)
	renderHandler.Register(api)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":              "Not found",
			"path":               c.Request.URL.Path,
			"availableEndpoints": projectshttp.AvailableEndpoints,
		})
	})

	return r
}

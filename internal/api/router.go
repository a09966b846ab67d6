package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisame/anireleases/internal/catalog"
	"github.com/hisame/anireleases/internal/imagecache"
)

// Server represents the REST API and UI server
type Server struct {
	router  *gin.Engine
	catalog *catalog.Service
	images  *imagecache.Cache
}

// NewServer creates a new API server
func NewServer(catalog *catalog.Service, images *imagecache.Cache) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:  gin.New(),
		catalog: catalog,
		images:  images,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.router.Use(gin.Recovery())

	// Logging middleware
	s.router.Use(func(c *gin.Context) {
		c.Next()
		slog.Info("API request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	})

	// CORS for development
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	// Releases
	api.POST("/refresh", s.refresh)
	api.GET("/releases", s.listReleases)
	api.GET("/releases/:type/:id", s.getRelease)

	// Cover images
	api.GET("/image", s.getImage)

	// Status
	api.GET("/status", s.getStatus)

	// Master-detail UI
	s.router.GET("/", s.index)
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Error response helper
func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

package api

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// getImage serves a cover image through the cache. The browser hits this
// endpoint instead of the upstream CDN so every cover is downloaded once.
func (s *Server) getImage(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		errorResponse(c, http.StatusBadRequest, "missing url parameter")
		return
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errorResponse(c, http.StatusBadRequest, "invalid image URL")
		return
	}

	img, err := s.images.Fetch(c.Request.Context(), raw)
	if err != nil {
		errorResponse(c, http.StatusNotFound, "image unavailable")
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, img.ContentType, img.Data)
}

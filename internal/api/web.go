package api

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed web/index.html
var webFS embed.FS

// index serves the single-page master-detail UI.
func (s *Server) index(c *gin.Context) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "UI not bundled")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

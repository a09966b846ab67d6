package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hisame/anireleases/internal/catalog"
	"github.com/hisame/anireleases/internal/media"
)

const dateLayout = "2006-01-02"

// Release request/response types

type RefreshRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

type ItemResponse struct {
	ID             int    `json:"id"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	NativeTitle    string `json:"native_title,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	CountryCode    string `json:"country_code,omitempty"`
	Country        string `json:"country"`
	Language       string `json:"language"`
	PublicationDay string `json:"publication_day"`
	Format         string `json:"format"`
	Status         string `json:"status"`
	Description    string `json:"description,omitempty"`
	SiteURL        string `json:"site_url,omitempty"`
}

type ReleasesResponse struct {
	Items     []ItemResponse `json:"items"`
	Count     int            `json:"count"`
	From      string         `json:"from,omitempty"`
	To        string         `json:"to,omitempty"`
	FetchedAt *time.Time     `json:"fetched_at,omitempty"`
}

type StatusResponse struct {
	HasSnapshot  bool       `json:"has_snapshot"`
	Items        int        `json:"items"`
	From         string     `json:"from,omitempty"`
	To           string     `json:"to,omitempty"`
	FetchedAt    *time.Time `json:"fetched_at,omitempty"`
	CachedImages int        `json:"cached_images"`
}

func toItemResponse(it media.Item) ItemResponse {
	return ItemResponse{
		ID:             it.ID,
		Type:           string(it.Type),
		Title:          it.Title,
		NativeTitle:    it.NativeTitle,
		ImageURL:       it.ImageURL,
		CountryCode:    it.CountryCode,
		Country:        it.Country,
		Language:       it.Language,
		PublicationDay: it.PublicationDay(),
		Format:         it.Format,
		Status:         it.Status,
		Description:    it.Description,
		SiteURL:        it.SiteURL,
	}
}

func toReleasesResponse(items []media.Item, snap *catalog.Snapshot) ReleasesResponse {
	resp := ReleasesResponse{
		Items: make([]ItemResponse, len(items)),
		Count: len(items),
	}
	for i, it := range items {
		resp.Items[i] = toItemResponse(it)
	}
	if snap != nil {
		resp.From = snap.From.Format(dateLayout)
		resp.To = snap.To.Format(dateLayout)
		t := snap.FetchedAt
		resp.FetchedAt = &t
	}
	return resp
}

// refresh fetches a fresh snapshot for the requested date range. It runs
// synchronously; a newer refresh cancels this one.
func (s *Server) refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	from, err := time.Parse(dateLayout, req.From)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid from date, want YYYY-MM-DD")
		return
	}
	to, err := time.Parse(dateLayout, req.To)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid to date, want YYYY-MM-DD")
		return
	}

	snap, err := s.catalog.Refresh(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, catalog.ErrSuperseded) {
			errorResponse(c, http.StatusConflict, err.Error())
			return
		}
		errorResponse(c, http.StatusBadGateway, err.Error())
		return
	}

	// Warm the image cache for the new snapshot.
	for _, it := range snap.Items {
		s.images.Request(it.ImageURL)
	}

	c.JSON(http.StatusOK, toReleasesResponse(snap.Items, snap))
}

// listReleases returns a filtered view of the current snapshot.
func (s *Server) listReleases(c *gin.Context) {
	mediaType := media.TypeAll
	if raw := c.Query("type"); raw != "" {
		t, ok := media.ParseType(raw)
		if !ok {
			errorResponse(c, http.StatusBadRequest, "type must be ALL, ANIME or MANGA")
			return
		}
		mediaType = t
	}

	snap, ok := s.catalog.Current()
	if !ok {
		c.JSON(http.StatusOK, ReleasesResponse{Items: []ItemResponse{}})
		return
	}

	items := media.Filter(snap.Items, mediaType, c.Query("q"))
	c.JSON(http.StatusOK, toReleasesResponse(items, snap))
}

// getRelease returns a single item from the current snapshot.
func (s *Server) getRelease(c *gin.Context) {
	t, ok := media.ParseType(c.Param("type"))
	if !ok || t == media.TypeAll {
		errorResponse(c, http.StatusBadRequest, "type must be ANIME or MANGA")
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		errorResponse(c, http.StatusBadRequest, "invalid ID format")
		return
	}

	snap, ok := s.catalog.Current()
	if !ok {
		errorResponse(c, http.StatusNotFound, "no snapshot loaded")
		return
	}

	key := media.Key{Type: t, ID: id}
	for _, it := range snap.Items {
		if it.Key() == key {
			c.JSON(http.StatusOK, toItemResponse(it))
			return
		}
	}
	errorResponse(c, http.StatusNotFound, "item not found")
}

func (s *Server) getStatus(c *gin.Context) {
	resp := StatusResponse{
		CachedImages: s.images.Len(),
	}
	if snap, ok := s.catalog.Current(); ok {
		resp.HasSnapshot = true
		resp.Items = len(snap.Items)
		resp.From = snap.From.Format(dateLayout)
		resp.To = snap.To.Format(dateLayout)
		t := snap.FetchedAt
		resp.FetchedAt = &t
	}
	c.JSON(http.StatusOK, resp)
}

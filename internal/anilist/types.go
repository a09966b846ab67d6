package anilist

import (
	"time"

	"github.com/hisame/anireleases/internal/media"
)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlResponse struct {
	Data struct {
		Page struct {
			Media []rawMedia `json:"media"`
		} `json:"Page"`
	} `json:"data"`
	Errors []gqlError `json:"errors"`
}

type gqlError struct {
	Message string `json:"message"`
}

// rawMedia mirrors one entry of data.Page.media. AniList returns null for
// unknown fields, which decodes to the zero value here.
type rawMedia struct {
	ID     int    `json:"id"`
	Type   string `json:"type"`
	Format string `json:"format"`
	Status string `json:"status"`
	Title  struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
		Native  string `json:"native"`
	} `json:"title"`
	StartDate struct {
		Year  int `json:"year"`
		Month int `json:"month"`
		Day   int `json:"day"`
	} `json:"startDate"`
	CountryOfOrigin string `json:"countryOfOrigin"`
	Description     string `json:"description"`
	SiteURL         string `json:"siteUrl"`
	CoverImage      struct {
		Large  string `json:"large"`
		Medium string `json:"medium"`
		Color  string `json:"color"`
	} `json:"coverImage"`
}

// toItem maps a raw API entry to a domain record. Missing fields degrade to
// fallbacks instead of failing the fetch.
func (m rawMedia) toItem(requested media.Type) media.Item {
	title := m.Title.English
	if title == "" {
		title = m.Title.Romaji
	}
	if title == "" {
		title = "Untitled"
	}

	imageURL := m.CoverImage.Large
	if imageURL == "" {
		imageURL = m.CoverImage.Medium
	}

	country, language := media.CountryForCode(m.CountryOfOrigin)

	mediaType := media.Type(m.Type)
	if mediaType == "" {
		mediaType = requested
	}

	format := m.Format
	if format == "" {
		format = "Unknown"
	}
	status := m.Status
	if status == "" {
		status = "Unknown"
	}

	return media.Item{
		ID:          m.ID,
		Type:        mediaType,
		Title:       title,
		NativeTitle: m.Title.Native,
		ImageURL:    imageURL,
		CountryCode: m.CountryOfOrigin,
		Country:     country,
		Language:    language,
		StartDate:   m.startDate(),
		Format:      format,
		Status:      status,
		Description: media.CleanDescription(m.Description),
		SiteURL:     m.SiteURL,
	}
}

// startDate builds a concrete date only when year, month and day are all
// present and form a real calendar date.
func (m rawMedia) startDate() *time.Time {
	sd := m.StartDate
	if sd.Year == 0 || sd.Month == 0 || sd.Day == 0 {
		return nil
	}
	d := time.Date(sd.Year, time.Month(sd.Month), sd.Day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components; reject anything that
	// did not round-trip.
	if d.Year() != sd.Year || int(d.Month()) != sd.Month || d.Day() != sd.Day {
		return nil
	}
	return &d
}

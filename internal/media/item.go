package media

import "time"

// Type identifies the kind of media an item describes.
type Type string

const (
	TypeAnime Type = "ANIME"
	TypeManga Type = "MANGA"

	// TypeAll is accepted by Filter to disable type filtering.
	TypeAll Type = "ALL"
)

// ParseType validates a type string from an API parameter.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeAnime, TypeManga, TypeAll:
		return Type(s), true
	}
	return "", false
}

// Item is one anime or manga release record. Items are built once per fetch
// and never mutated afterwards.
type Item struct {
	ID          int
	Type        Type
	Title       string
	NativeTitle string
	ImageURL    string
	CountryCode string
	Country     string
	Language    string
	StartDate   *time.Time // nil when AniList has no complete date
	Format      string
	Status      string
	Description string
	SiteURL     string
}

// Key identifies an item for deduplication. The same numeric ID can appear
// under both ANIME and MANGA, so the type is part of the key.
type Key struct {
	Type Type
	ID   int
}

// Key returns the deduplication key for the item.
func (it Item) Key() Key {
	return Key{Type: it.Type, ID: it.ID}
}

// PublicationDay formats the start date for display.
func (it Item) PublicationDay() string {
	if it.StartDate == nil {
		return "Unknown"
	}
	return it.StartDate.Format("2006-01-02")
}

// sortEpoch is the sentinel applied to items with no start date so they sink
// to the bottom of a date-descending list.
var sortEpoch = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// SortDate returns the date used for ordering.
func (it Item) SortDate() time.Time {
	if it.StartDate == nil {
		return sortEpoch
	}
	return *it.StartDate
}

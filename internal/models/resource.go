package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Category represents a resource category
type Category string

const (
	CategoryMusic          Category = "music"
	CategorySFX            Category = "sfx"
	CategoryImages         Category = "images"
	CategoryAnimations     Category = "animations"
	CategoryFonts          Category = "fonts"
	CategoryPresets        Category = "presets"
	CategoryMinecraftIcons Category = "minecraft-icons"

	// CategoryFavorites is a pseudo category selecting the caller's favorite resources
	CategoryFavorites Category = "favorites"
)

// KnownCategories lists the categories served by the hub, in display order
var KnownCategories = []Category{
	CategoryMusic,
	CategorySFX,
	CategoryImages,
	CategoryAnimations,
	CategoryFonts,
	CategoryPresets,
	CategoryMinecraftIcons,
}

// ResourceID identifies a resource within its source.
// Upstream sources mint numbers or prefixed strings; numeric IDs are written back as JSON numbers.
type ResourceID string

// UnmarshalJSON accepts both JSON strings and JSON numbers
func (id *ResourceID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ResourceID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid resource id %s: %w", data, err)
	}
	*id = ResourceID(n.String())
	return nil
}

// MarshalJSON writes plain integers as numbers and everything else as strings
func (id ResourceID) MarshalJSON() ([]byte, error) {
	if id.IsNumeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// IsNumeric reports whether the ID is a canonical non-negative integer
func (id ResourceID) IsNumeric() bool {
	s := string(id)
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	_, err := strconv.ParseUint(s, 10, 63)
	return err == nil
}

// String returns the ID as plain text
func (id ResourceID) String() string {
	return string(id)
}

// Resource is a downloadable asset record
type Resource struct {
	ID          ResourceID `json:"id"`
	Title       string     `json:"title"`
	Category    Category   `json:"category"`
	Subcategory string     `json:"subcategory,omitempty"`
	Credit      string     `json:"credit,omitempty"`
	Filetype    string     `json:"filetype,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
	PreviewURL  string     `json:"preview_url,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Software    string     `json:"software,omitempty"`
	Description string     `json:"description,omitempty"`
}

// RequiresAttribution reports whether the resource must be credited when used
func (r Resource) RequiresAttribution() bool {
	return r.Credit != ""
}

// SortOrder represents the ordering of a resource listing
type SortOrder string

const (
	SortNewest  SortOrder = "newest"
	SortPopular SortOrder = "popular"
	SortAZ      SortOrder = "a-z"
	SortZA      SortOrder = "z-a"
)

// ParseSortOrder returns the sort order for s, defaulting to newest
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortPopular, SortAZ, SortZA:
		return SortOrder(s)
	default:
		return SortNewest
	}
}

// ResourcePage is one page of a filtered and sorted resource listing
type ResourcePage struct {
	Items                  []Resource `json:"items"`
	Total                  int        `json:"total"`
	Page                   int        `json:"page"`
	PageSize               int        `json:"pageSize"`
	AvailableSubcategories []string   `json:"availableSubcategories"`
	HasCategoryResources   bool       `json:"hasCategoryResources"`
}

// CategorySummary describes one category of the catalog
type CategorySummary struct {
	Name  Category `json:"name"`
	Count int      `json:"count"`
}

// ResourceDetail is a resource together with its resolved download location
type ResourceDetail struct {
	Resource
	ResolvedURL   string `json:"resolved_url"`
	Filename      string `json:"filename"`
	ForceDownload bool   `json:"force_download"`
	Downloads     int64  `json:"downloads"`
}

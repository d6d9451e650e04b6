// Package normalizer turns the JSON shapes published by the static catalog, the worker API and the
// MCI proxy into canonical models.Resource values.
package normalizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/renderdragon/backend/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MCIIDOffset keeps MCI proxy ids clear of catalog ids
const MCIIDOffset = 100000

// uncategorized is used for array items that carry no category
const uncategorized = "uncategorized"

// BlacklistedSubcategories lists subcategories that are never served for a category
var BlacklistedSubcategories = map[models.Category][]string{
	models.CategoryMinecraftIcons: {"backgrounds"},
}

var extensionPattern = regexp.MustCompile(`\.[^/.]+$`)

// CanonicalCategory maps upstream category aliases to the names used by the hub
func CanonicalCategory(category string) models.Category {
	switch category {
	case "mcicons", "minecraft_icons":
		return models.CategoryMinecraftIcons
	case "resources":
		return models.CategoryImages
	default:
		return models.Category(category)
	}
}

// APICategory maps a hub category to the name the worker API expects
func APICategory(category models.Category) string {
	if category == models.CategoryMinecraftIcons {
		return "mcicons"
	}
	return string(category)
}

// IsSafeURL reports whether value is an absolute http or https URL
func IsSafeURL(value string) bool {
	if value == "" {
		return false
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// PickFirstSafeURL returns the first candidate accepted by IsSafeURL, or empty string
func PickFirstSafeURL(candidates ...string) string {
	for _, c := range candidates {
		if IsSafeURL(c) {
			return c
		}
	}
	return ""
}

// InferSubcategory guesses the subcategory of a preset from its download location
func InferSubcategory(rawURL string, category models.Category) string {
	if category != models.CategoryPresets {
		return ""
	}
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "/adobe/"):
		return "adobe"
	case strings.Contains(lower, "/davinci/"):
		return "davinci"
	case strings.Contains(lower, "/previews/"):
		return "previews"
	}
	return ""
}

// Extension returns the file extension of the last path segment of rawURL, ignoring the query string
func Extension(rawURL string) string {
	clean, _, _ := strings.Cut(rawURL, "?")
	last := clean[strings.LastIndex(clean, "/")+1:]
	dot := strings.LastIndex(last, ".")
	if dot < 0 {
		return ""
	}
	return last[dot+1:]
}

// Deslug turns a file name such as "iron_ingot.png" into a display title ("Iron Ingot")
func Deslug(name string) string {
	base := extensionPattern.ReplaceAllString(name, "")
	words := strings.Fields(strings.ReplaceAll(base, "_", " "))
	if len(words) == 0 {
		return ""
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// IsBlacklisted reports whether resources of category in subcategory are hidden
func IsBlacklisted(category models.Category, subcategory string) bool {
	for _, s := range BlacklistedSubcategories[category] {
		if strings.EqualFold(s, subcategory) {
			return true
		}
	}
	return false
}

// NormalizeItems normalizes the items listed under one category.
// Entries that are not objects or have a blank title are dropped.
func NormalizeItems(category string, items []json.RawMessage) []models.Resource {
	canonical := CanonicalCategory(category)
	out := make([]models.Resource, 0, len(items))
	for index, raw := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
			continue
		}
		res, ok := normalizeItem(canonical, index, fields)
		if !ok {
			continue
		}
		out = append(out, res)
	}
	return out
}

func normalizeItem(category models.Category, index int, fields map[string]json.RawMessage) (models.Resource, bool) {
	title := strings.TrimSpace(stringField(fields, "title"))
	if title == "" {
		return models.Resource{}, false
	}

	previewURL := stringField(fields, "preview_url")
	imageURL := stringField(fields, "image_url")
	downloadURL := PickFirstSafeURL(
		stringField(fields, "download_url"),
		stringField(fields, "url"),
		previewURL,
		imageURL,
	)

	subcategory := stringField(fields, "subcategory")
	if subcategory == "" {
		subcategory = InferSubcategory(downloadURL, category)
	}
	if IsBlacklisted(category, subcategory) {
		return models.Resource{}, false
	}

	filetype := stringField(fields, "filetype")
	if filetype == "" {
		filetype = stringField(fields, "ext")
	}
	if filetype == "" {
		filetype = Extension(downloadURL)
	}

	var id models.ResourceID
	if raw, ok := fields["id"]; ok {
		// ids of an unexpected type fall back to the positional id
		_ = json.Unmarshal(raw, &id)
	}
	if id == "" {
		id = models.ResourceID(fmt.Sprintf("%s-%d", category, index))
	}

	res := models.Resource{
		ID:          id,
		Title:       title,
		Category:    category,
		Subcategory: subcategory,
		Credit:      stringField(fields, "credit"),
		Filetype:    filetype,
		DownloadURL: downloadURL,
		Software:    stringField(fields, "software"),
		Description: stringField(fields, "description"),
	}
	if IsSafeURL(previewURL) {
		res.PreviewURL = previewURL
	}
	if IsSafeURL(imageURL) {
		res.ImageURL = imageURL
	}
	return res, true
}

// NormalizeDocument normalizes a whole catalog document. Accepted shapes are a flat array of items
// carrying their own category, {"categories": {"<category>": [...]}} and {"<category>": [...]}.
// Anything else yields an empty list.
func NormalizeDocument(raw json.RawMessage) []models.Resource {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []models.Resource{}
	}
	if raw[0] == '[' {
		return normalizeArray(raw)
	}

	entries, ok := objectEntries(raw)
	if !ok {
		return []models.Resource{}
	}
	for _, e := range entries {
		if e.key == "categories" && isObject(e.value) {
			if nested, ok := objectEntries(e.value); ok {
				entries = nested
			}
			break
		}
	}

	out := make([]models.Resource, 0)
	for _, e := range entries {
		out = append(out, NormalizeItems(e.key, arrayItems(e.value))...)
	}
	return out
}

// NormalizeCategoryDocument normalizes a single category file: either an array of items or an
// object with a "files" array as returned by the worker API
func NormalizeCategoryDocument(category string, raw json.RawMessage) []models.Resource {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []models.Resource{}
	}
	if raw[0] == '[' {
		return NormalizeItems(category, arrayItems(raw))
	}
	var wrapper struct {
		Files json.RawMessage `json:"files"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return []models.Resource{}
	}
	return NormalizeItems(category, arrayItems(wrapper.Files))
}

// CategorySlice returns the raw items listed for category in a grouped or flat catalog document
func CategorySlice(raw json.RawMessage, category string) []json.RawMessage {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	if nested, ok := doc["categories"]; ok && isObject(nested) {
		doc = nil
		if err := json.Unmarshal(nested, &doc); err != nil {
			return nil
		}
	}
	return arrayItems(doc[category])
}

type mciItem struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	URL         string `json:"url"`
}

// NormalizeMCI converts the MCI proxy listing into minecraft-icons resources
func NormalizeMCI(raw json.RawMessage) []models.Resource {
	items := arrayItems(raw)
	out := make([]models.Resource, 0, len(items))
	for index, rawItem := range items {
		var item mciItem
		if err := json.Unmarshal(rawItem, &item); err != nil {
			continue
		}
		title := Deslug(item.Name)
		if title == "" || IsBlacklisted(models.CategoryMinecraftIcons, item.Subcategory) {
			continue
		}
		res := models.Resource{
			ID:          models.ResourceID(strconv.Itoa(MCIIDOffset + index)),
			Title:       title,
			Category:    models.CategoryMinecraftIcons,
			Subcategory: item.Subcategory,
			Filetype:    "png",
			Description: item.Category,
		}
		if IsSafeURL(item.URL) {
			res.DownloadURL = item.URL
			res.PreviewURL = item.URL
			res.ImageURL = item.URL
		}
		out = append(out, res)
	}
	return out
}

// normalizeArray groups a flat item array by category, keeping first-seen category order
func normalizeArray(raw json.RawMessage) []models.Resource {
	items := arrayItems(raw)
	order := make([]string, 0)
	grouped := make(map[string][]json.RawMessage)
	for _, item := range items {
		var head struct {
			Category json.RawMessage `json:"category"`
		}
		_ = json.Unmarshal(item, &head)
		category := rawString(head.Category)
		if category == "" {
			category = uncategorized
		}
		if _, seen := grouped[category]; !seen {
			order = append(order, category)
		}
		grouped[category] = append(grouped[category], item)
	}

	out := make([]models.Resource, 0, len(items))
	for _, category := range order {
		out = append(out, NormalizeItems(category, grouped[category])...)
	}
	return out
}

type entry struct {
	key   string
	value json.RawMessage
}

// objectEntries decodes a JSON object into its members in document order
func objectEntries(raw json.RawMessage) ([]entry, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil, false
	}
	entries := make([]entry, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		entries = append(entries, entry{key: key, value: value})
	}
	return entries, true
}

// arrayItems returns the elements of a JSON array, or nil for anything else
func arrayItems(raw json.RawMessage) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

// stringField reads a string-ish member; numbers are kept in their JSON spelling
func stringField(fields map[string]json.RawMessage, key string) string {
	return rawString(fields[key])
}

func rawString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(raw)
	}
	return ""
}

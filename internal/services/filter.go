package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/renderdragon/backend/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var leadingNonDigits = regexp.MustCompile(`^[^0-9]+`)

type filterOptions struct {
	category    models.Category
	subcategory string
	search      string
	favoriteIDs []string
}

type filterResult struct {
	items                  []models.Resource
	availableSubcategories []string
	hasCategoryResources   bool
}

// filterResources applies the category, subcategory and search filters in that order.
// The input slice is never modified.
func filterResources(resources []models.Resource, opts filterOptions) filterResult {
	result := filterResult{
		availableSubcategories: []string{},
		hasCategoryResources:   true,
	}

	items := make([]models.Resource, 0, len(resources))
	switch opts.category {
	case "":
		for _, r := range resources {
			if r.Category != models.CategoryMinecraftIcons {
				items = append(items, r)
			}
		}
	case models.CategoryFavorites:
		wanted := make(map[string]bool, len(opts.favoriteIDs))
		for _, id := range opts.favoriteIDs {
			wanted[id] = true
		}
		for _, r := range resources {
			if wanted[r.ID.String()] {
				items = append(items, r)
			}
		}
	default:
		for _, r := range resources {
			if r.Category == opts.category {
				items = append(items, r)
			}
		}
		result.availableSubcategories = subcategoriesOf(items)
		result.hasCategoryResources = len(items) > 0
	}

	if opts.subcategory != "" && opts.subcategory != "all" && contains(result.availableSubcategories, opts.subcategory) {
		kept := items[:0]
		for _, r := range items {
			if r.Subcategory == opts.subcategory {
				kept = append(kept, r)
			}
		}
		items = kept
	}

	if search := strings.ToLower(strings.TrimSpace(opts.search)); search != "" {
		kept := items[:0]
		for _, r := range items {
			if strings.Contains(strings.ToLower(r.Title), search) {
				kept = append(kept, r)
			}
		}
		items = kept
	}

	result.items = items
	return result
}

// sortResources orders items in place. Equal elements keep their catalog order.
func sortResources(items []models.Resource, order models.SortOrder, counts models.DownloadCounts) {
	switch order {
	case models.SortPopular:
		sort.SliceStable(items, func(i, j int) bool {
			return countFor(counts, items[i].ID.String()) > countFor(counts, items[j].ID.String())
		})
	case models.SortAZ, models.SortZA:
		// Collators keep per-call buffers and cannot be shared between goroutines
		c := collate.New(language.English)
		sign := 1
		if order == models.SortZA {
			sign = -1
		}
		sort.SliceStable(items, func(i, j int) bool {
			return sign*c.CompareString(items[i].Title, items[j].Title) < 0
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return NumericSortKey(items[i].ID) > NumericSortKey(items[j].ID)
		})
	}
}

// NumericSortKey approximates recency from an id: leading non-digits are stripped and the rest
// is read as a number. Ids that do not parse sort as 0.
func NumericSortKey(id models.ResourceID) float64 {
	trimmed := leadingNonDigits.ReplaceAllString(id.String(), "")
	if trimmed == "" {
		return 0
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0
	}
	return n
}

// countFor looks up the download count of id, falling back to its numeric form for prefixed ids
func countFor(counts models.DownloadCounts, id string) int64 {
	if n, ok := counts[id]; ok {
		return n
	}
	if numeric, ok := NumericID(id); ok {
		return counts[strconv.FormatInt(numeric, 10)]
	}
	return 0
}

func paginate(items []models.Resource, page, pageSize int) []models.Resource {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []models.Resource{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}

func subcategoriesOf(items []models.Resource) []string {
	seen := make(map[string]bool)
	subs := make([]string, 0)
	for _, r := range items {
		if r.Subcategory != "" && !seen[r.Subcategory] {
			seen[r.Subcategory] = true
			subs = append(subs, r.Subcategory)
		}
	}
	sort.Strings(subs)
	return subs
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/renderdragon/backend/internal/cache"
	"github.com/renderdragon/backend/internal/models"
	"github.com/renderdragon/backend/internal/normalizer"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ResourceRepository is the interface that wraps methods for resources table data access
type ResourceRepository interface {
	// Method GetAll retrieve every resource stored in the legacy resources table.
	//
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	GetAll(ctx context.Context) ([]models.Resource, error)
	// Method GetByCategory retrieve the resources of one category.
	//
	// Please reference GetAll method for more information about error values.
	GetByCategory(ctx context.Context, category models.Category) ([]models.Resource, error)
}

// StaticCatalog is the interface that wraps the JSON files published with the site
type StaticCatalog interface {
	// Method Index fetch the category manifest. "false" is returned when the manifest is missing or has no categories.
	Index(ctx context.Context) (*models.IndexFile, bool)
	// Method CategoryFile fetch the file of one category.
	//
	// "file" parameter is the path listed in the manifest. Empty value selects the conventional location.
	CategoryFile(ctx context.Context, category, file string) (json.RawMessage, bool)
	// Method All fetch the combined catalog.
	All(ctx context.Context) (json.RawMessage, bool)
	// Method Legacy fetch the single-file catalog that predates the manifest.
	Legacy(ctx context.Context) (json.RawMessage, bool)
}

// WorkerCatalog is the interface that wraps the worker API
type WorkerCatalog interface {
	// Method All fetch {"categories": {...}} with every category.
	All(ctx context.Context) (json.RawMessage, bool)
	// Method Category fetch {"category": ..., "files": [...]} for a single category.
	Category(ctx context.Context, category models.Category) (json.RawMessage, bool)
	// Method Categories fetch the names of the categories served by the worker.
	Categories(ctx context.Context) (*models.WorkerCategories, bool)
}

// IconCatalog is the interface that wraps the MCI proxy
type IconCatalog interface {
	// Method Icons fetch the flat list of icons.
	Icons(ctx context.Context) (json.RawMessage, bool)
}

// CountSnapshotter provides download counts for popularity sorting
type CountSnapshotter interface {
	// Method Snapshot returns a copy of the current in-memory download counts.
	Snapshot() models.DownloadCounts
}

// Cache keys of the static catalog (resources-cache namespace)
const (
	indexCacheKey          = "index-v1"
	allCacheKey            = "all-v1"
	categoryCacheKeyPrefix = "category-v1:"
)

// Cache keys of the remote APIs (rd-cache namespace)
const (
	apiAllCacheKey            = "api:all-resources"
	apiCategoriesCacheKey     = "api:categories"
	apiCategoryCacheKeyPrefix = "api:category:"
	apiMCICacheKey            = "api:mci-icons"
)

// GitHubRawBase is the repository the hub's assets are mirrored in
const GitHubRawBase = "https://raw.githubusercontent.com/Yxmura/resources_renderdragon/main"

// Listing page sizes
const (
	DefaultPageSize = 24
	MaxPageSize     = 500
)

// refreshConcurrency bounds parallel category reloads during a refresh
const refreshConcurrency = 4

// sharedLoadTimeout bounds a coalesced catalog load once it no longer follows its first caller
const sharedLoadTimeout = 2 * time.Minute

// forceDownloadCategories are served as attachments rather than links
var forceDownloadCategories = map[models.Category]bool{
	models.CategoryPresets:        true,
	models.CategoryImages:         true,
	models.CategoryAnimations:     true,
	models.CategoryFonts:          true,
	models.CategoryMusic:          true,
	models.CategorySFX:            true,
	models.CategoryMinecraftIcons: true,
}

// ResourceQuery selects one page of the catalog
type ResourceQuery struct {
	Search      string
	Category    string
	Subcategory string
	Sort        models.SortOrder
	Page        int
	PageSize    int
	FavoriteIDs []string
}

// ResourceSources groups the upstream catalogs the service aggregates
type ResourceSources struct {
	Static StaticCatalog
	Worker WorkerCatalog
	Icons  IconCatalog
	Repo   ResourceRepository
}

type resourceService struct {
	sources       ResourceSources
	resourceCache *cache.Store
	apiCache      *cache.Store
	counts        CountSnapshotter
	loads         singleflight.Group
	normalized    normalizedMemo
	logger        *zap.Logger
}

// NewResourceService creates a new resource aggregation service
func NewResourceService(sources ResourceSources, resourceCache, apiCache *cache.Store, counts CountSnapshotter, logger *zap.Logger) *resourceService {
	return &resourceService{
		sources:       sources,
		resourceCache: resourceCache,
		apiCache:      apiCache,
		counts:        counts,
		logger:        logger,
	}
}

// LoadAll returns every resource of the catalog, using the first source that yields any.
// The returned slice is shared and must not be modified.
func (s *resourceService) LoadAll(ctx context.Context) []models.Resource {
	return s.collapse(ctx, "all", func(ctx context.Context) []models.Resource {
		return s.loadAll(ctx, true)
	})
}

// LoadCategory returns the resources of one category, using the first source that yields any.
// The returned slice is shared and must not be modified.
func (s *resourceService) LoadCategory(ctx context.Context, category models.Category) []models.Resource {
	category = normalizer.CanonicalCategory(string(category))
	return s.collapse(ctx, "category:"+string(category), func(ctx context.Context) []models.Resource {
		return s.loadCategory(ctx, category, true)
	})
}

// Refresh reloads the whole catalog and every indexed category, bypassing the caches
func (s *resourceService) Refresh(ctx context.Context) (*models.RefreshSummary, error) {
	all := s.loadAll(ctx, false)

	categories := s.refreshTargets(ctx)
	counts := make([]int, len(categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for i, category := range categories {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			counts[i] = len(s.loadCategory(gctx, category, false))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to refresh categories: %w", err)
	}

	summary := &models.RefreshSummary{
		Total:      len(all),
		Categories: make(map[string]int, len(categories)),
	}
	for i, category := range categories {
		summary.Categories[string(category)] = counts[i]
	}

	s.logger.Info("resource catalog refreshed",
		zap.Int("total", summary.Total),
		zap.Int("categories", len(categories)),
	)
	return summary, nil
}

// Categories returns the catalog categories with their resource counts
func (s *resourceService) Categories(ctx context.Context) []models.CategorySummary {
	if index, ok := s.loadIndex(ctx, true); ok {
		summaries := make([]models.CategorySummary, 0, len(index.Categories))
		for name, entry := range index.Categories {
			summaries = append(summaries, models.CategorySummary{
				Name:  normalizer.CanonicalCategory(name),
				Count: entry.Count,
			})
		}
		return orderSummaries(mergeSummaries(summaries))
	}

	counts := make(map[models.Category]int)
	for _, r := range s.LoadAll(ctx) {
		counts[r.Category]++
	}
	if worker, ok := s.loadWorkerCategories(ctx); ok {
		for _, name := range worker.Categories {
			category := normalizer.CanonicalCategory(name)
			if _, seen := counts[category]; !seen {
				counts[category] = 0
			}
		}
	}

	summaries := make([]models.CategorySummary, 0, len(counts))
	for name, count := range counts {
		summaries = append(summaries, models.CategorySummary{Name: name, Count: count})
	}
	return orderSummaries(summaries)
}

// List filters, sorts and pages the catalog
func (s *resourceService) List(ctx context.Context, query ResourceQuery) (*models.ResourcePage, error) {
	if query.Page == 0 {
		query.Page = 1
	}
	if query.PageSize == 0 {
		query.PageSize = DefaultPageSize
	}
	if query.Page < 1 {
		return nil, fmt.Errorf("invalid page: %d", query.Page)
	}
	if query.PageSize < 1 || query.PageSize > MaxPageSize {
		return nil, fmt.Errorf("invalid page size: %d (must be between 1 and %d)", query.PageSize, MaxPageSize)
	}

	selected := selectedCategory(query.Category)

	var loaded []models.Resource
	if selected == "" || selected == models.CategoryFavorites {
		loaded = s.LoadAll(ctx)
	} else {
		loaded = s.LoadCategory(ctx, selected)
	}

	filtered := filterResources(loaded, filterOptions{
		category:    selected,
		subcategory: query.Subcategory,
		search:      query.Search,
		favoriteIDs: query.FavoriteIDs,
	})

	var counts models.DownloadCounts
	if query.Sort == models.SortPopular && s.counts != nil {
		counts = s.counts.Snapshot()
	}
	sortResources(filtered.items, query.Sort, counts)

	return &models.ResourcePage{
		Items:                  paginate(filtered.items, query.Page, query.PageSize),
		Total:                  len(filtered.items),
		Page:                   query.Page,
		PageSize:               query.PageSize,
		AvailableSubcategories: filtered.availableSubcategories,
		HasCategoryResources:   filtered.hasCategoryResources,
	}, nil
}

// Find returns a single resource with its resolved download location
func (s *resourceService) Find(ctx context.Context, category, id string) (*models.ResourceDetail, error) {
	canonical := normalizer.CanonicalCategory(category)

	res, ok := findResource(s.LoadCategory(ctx, canonical), canonical, id)
	if !ok {
		res, ok = findResource(s.LoadAll(ctx), canonical, id)
	}
	if !ok {
		return nil, fmt.Errorf("resource not found")
	}

	detail := &models.ResourceDetail{
		Resource:      res,
		ResolvedURL:   ResolveDownloadURL(res),
		Filename:      Filename(res),
		ForceDownload: ShouldForceDownload(res.Category),
	}
	if s.counts != nil {
		detail.Downloads = countFor(s.counts.Snapshot(), res.ID.String())
	}
	return detail, nil
}

// ResolveDownloadURL returns the URL a resource is downloaded from. Direct links are preferred;
// otherwise the location is derived from the GitHub mirror layout.
func ResolveDownloadURL(r models.Resource) string {
	if direct := normalizer.PickFirstSafeURL(r.DownloadURL, r.PreviewURL, r.ImageURL); direct != "" {
		return direct
	}

	title := strings.ReplaceAll(strings.ToLower(r.Title), " ", "%20")

	if r.Category == models.CategoryPresets {
		prefix := "d"
		if r.Subcategory == "adobe" {
			prefix = "a"
		}
		return fmt.Sprintf("%s/presets/PREVIEWS/%s%s.mp4", GitHubRawBase, prefix, title)
	}

	if r.Credit != "" {
		credit := strings.ReplaceAll(r.Credit, " ", "_")
		return fmt.Sprintf("%s/%s/%s__%s.%s", GitHubRawBase, r.Category, title, credit, fileExtension(r))
	}

	return fmt.Sprintf("%s/%s/%s.%s", GitHubRawBase, r.Category, title, fileExtension(r))
}

// ShouldForceDownload reports whether resources of category are sent as attachments
func ShouldForceDownload(category models.Category) bool {
	return forceDownloadCategories[category]
}

// Filename returns the name a downloaded resource is saved under
func Filename(r models.Resource) string {
	return r.Title + "." + fileExtension(r)
}

func fileExtension(r models.Resource) string {
	if r.Filetype == "" {
		return "file"
	}
	return r.Filetype
}

// collapse runs load once for concurrent callers asking for the same key.
// The shared load is detached from the caller that started it, so one cancelled request does not
// cut the fetch short for the others; each caller stops waiting when its own context is done.
func (s *resourceService) collapse(ctx context.Context, key string, load func(ctx context.Context) []models.Resource) []models.Resource {
	ch := s.loads.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()
		return load(loadCtx), nil
	})

	select {
	case res := <-ch:
		return res.Val.([]models.Resource)
	case <-ctx.Done():
		return []models.Resource{}
	}
}

func (s *resourceService) loadAll(ctx context.Context, useCache bool) []models.Resource {
	if useCache {
		if raw, ok := cache.ReadAs[json.RawMessage](ctx, s.resourceCache, allCacheKey); ok {
			return s.normalized.get(allCacheKey, raw, normalizer.NormalizeDocument)
		}
	}

	if raw, ok := s.sources.Static.All(ctx); ok {
		if items := normalizer.NormalizeDocument(raw); len(items) > 0 {
			s.resourceCache.Write(ctx, allCacheKey, raw)
			return items
		}
	}

	if raw, ok := s.sources.Static.Legacy(ctx); ok {
		if items := normalizer.NormalizeDocument(raw); len(items) > 0 {
			s.resourceCache.Write(ctx, allCacheKey, raw)
			return items
		}
	}

	if raw, ok := s.workerAll(ctx, useCache); ok {
		if items := normalizer.NormalizeDocument(raw); len(items) > 0 {
			return items
		}
	}

	return s.fromRepository(ctx, "")
}

func (s *resourceService) loadCategory(ctx context.Context, category models.Category, useCache bool) []models.Resource {
	name := string(category)
	cacheKey := categoryCacheKeyPrefix + name

	if useCache {
		if raw, ok := cache.ReadAs[json.RawMessage](ctx, s.resourceCache, cacheKey); ok {
			return s.normalized.get(cacheKey, raw, func(raw json.RawMessage) []models.Resource {
				return normalizer.NormalizeCategoryDocument(name, raw)
			})
		}
	}

	var file string
	if index, ok := s.loadIndex(ctx, useCache); ok {
		file = indexFile(index, category)
	}
	if raw, ok := s.sources.Static.CategoryFile(ctx, name, file); ok {
		if items := normalizer.NormalizeCategoryDocument(name, raw); len(items) > 0 {
			s.resourceCache.Write(ctx, cacheKey, raw)
			return items
		}
	}

	if raw, ok := s.sources.Static.Legacy(ctx); ok {
		if items := normalizer.NormalizeItems(name, categorySlice(raw, category)); len(items) > 0 {
			s.resourceCache.Write(ctx, allCacheKey, raw)
			return items
		}
	}

	if category == models.CategoryMinecraftIcons {
		if items := s.loadIcons(ctx, useCache); len(items) > 0 {
			return items
		}
	}

	if items := s.workerCategory(ctx, category, useCache); len(items) > 0 {
		return items
	}

	return s.fromRepository(ctx, category)
}

func (s *resourceService) loadIndex(ctx context.Context, useCache bool) (*models.IndexFile, bool) {
	if useCache {
		if index, ok := cache.ReadAs[models.IndexFile](ctx, s.resourceCache, indexCacheKey); ok && index.Categories != nil {
			return &index, true
		}
	}
	index, ok := s.sources.Static.Index(ctx)
	if !ok {
		return nil, false
	}
	s.resourceCache.Write(ctx, indexCacheKey, index)
	return index, true
}

func (s *resourceService) workerAll(ctx context.Context, useCache bool) (json.RawMessage, bool) {
	if useCache {
		if raw, ok := cache.ReadAs[json.RawMessage](ctx, s.apiCache, apiAllCacheKey); ok {
			return raw, true
		}
	}
	if s.sources.Worker == nil {
		return nil, false
	}
	raw, ok := s.sources.Worker.All(ctx)
	if !ok {
		return nil, false
	}
	s.apiCache.Write(ctx, apiAllCacheKey, raw)
	return raw, true
}

func (s *resourceService) workerCategory(ctx context.Context, category models.Category, useCache bool) []models.Resource {
	name := string(category)
	cacheKey := apiCategoryCacheKeyPrefix + name

	if useCache {
		if raw, ok := cache.ReadAs[json.RawMessage](ctx, s.apiCache, apiAllCacheKey); ok {
			items := s.normalized.get(apiAllCacheKey+":"+name, raw, func(raw json.RawMessage) []models.Resource {
				return normalizer.NormalizeItems(name, categorySlice(raw, category))
			})
			if len(items) > 0 {
				return items
			}
		}
		if raw, ok := cache.ReadAs[json.RawMessage](ctx, s.apiCache, cacheKey); ok {
			return s.normalized.get(cacheKey, raw, func(raw json.RawMessage) []models.Resource {
				return normalizer.NormalizeCategoryDocument(name, raw)
			})
		}
	}

	if s.sources.Worker == nil {
		return nil
	}
	raw, ok := s.sources.Worker.Category(ctx, category)
	if !ok {
		return nil
	}
	items := normalizer.NormalizeCategoryDocument(name, raw)
	if len(items) > 0 {
		s.apiCache.Write(ctx, cacheKey, raw)
	}
	return items
}

func (s *resourceService) loadWorkerCategories(ctx context.Context) (*models.WorkerCategories, bool) {
	if categories, ok := cache.ReadAs[models.WorkerCategories](ctx, s.apiCache, apiCategoriesCacheKey); ok {
		return &categories, true
	}
	if s.sources.Worker == nil {
		return nil, false
	}
	categories, ok := s.sources.Worker.Categories(ctx)
	if !ok {
		return nil, false
	}
	s.apiCache.Write(ctx, apiCategoriesCacheKey, categories)
	return categories, true
}

func (s *resourceService) loadIcons(ctx context.Context, useCache bool) []models.Resource {
	if useCache {
		if raw, ok := cache.ReadAs[json.RawMessage](ctx, s.apiCache, apiMCICacheKey); ok {
			return s.normalized.get(apiMCICacheKey, raw, normalizer.NormalizeMCI)
		}
	}
	if s.sources.Icons == nil {
		return nil
	}
	raw, ok := s.sources.Icons.Icons(ctx)
	if !ok {
		return nil
	}
	items := normalizer.NormalizeMCI(raw)
	if len(items) > 0 {
		s.apiCache.Write(ctx, apiMCICacheKey, raw)
	}
	return items
}

// fromRepository reads the legacy table; an empty category selects every row
func (s *resourceService) fromRepository(ctx context.Context, category models.Category) []models.Resource {
	if s.sources.Repo == nil {
		return []models.Resource{}
	}

	var (
		rows []models.Resource
		err  error
	)
	if category == "" {
		rows, err = s.sources.Repo.GetAll(ctx)
	} else {
		rows, err = s.sources.Repo.GetByCategory(ctx, category)
	}
	if err != nil {
		s.logger.Warn("failed to load resources from database", zap.String("category", string(category)), zap.Error(err))
		return []models.Resource{}
	}

	// rows go through the same rules as upstream JSON
	raw := make([]json.RawMessage, 0, len(rows))
	for _, r := range rows {
		encoded, err := json.Marshal(r)
		if err != nil {
			continue
		}
		raw = append(raw, encoded)
	}
	if category != "" {
		return normalizer.NormalizeItems(string(category), raw)
	}
	doc, err := json.Marshal(raw)
	if err != nil {
		return []models.Resource{}
	}
	return normalizer.NormalizeDocument(doc)
}

// refreshTargets lists the categories reloaded by Refresh
func (s *resourceService) refreshTargets(ctx context.Context) []models.Category {
	seen := make(map[models.Category]bool)
	targets := make([]models.Category, 0, len(models.KnownCategories))
	for _, c := range models.KnownCategories {
		seen[c] = true
		targets = append(targets, c)
	}
	if index, ok := s.loadIndex(ctx, false); ok {
		extra := make([]string, 0)
		for name := range index.Categories {
			if c := normalizer.CanonicalCategory(name); !seen[c] {
				seen[c] = true
				extra = append(extra, string(c))
			}
		}
		sort.Strings(extra)
		for _, name := range extra {
			targets = append(targets, models.Category(name))
		}
	}
	return targets
}

// indexFile returns the manifest path of category, trying its upstream aliases
func indexFile(index *models.IndexFile, category models.Category) string {
	for _, name := range categoryAliases(category) {
		if entry, ok := index.Categories[name]; ok && entry.File != "" {
			return entry.File
		}
	}
	return ""
}

// categorySlice returns the raw items of category in a grouped document, trying its upstream aliases
func categorySlice(raw json.RawMessage, category models.Category) []json.RawMessage {
	for _, name := range categoryAliases(category) {
		if items := normalizer.CategorySlice(raw, name); len(items) > 0 {
			return items
		}
	}
	return nil
}

func categoryAliases(category models.Category) []string {
	switch category {
	case models.CategoryMinecraftIcons:
		return []string{string(category), "mcicons", "minecraft_icons"}
	case models.CategoryImages:
		return []string{string(category), "resources"}
	default:
		return []string{string(category)}
	}
}

// mergeSummaries adds up categories that collapse to the same canonical name
func mergeSummaries(summaries []models.CategorySummary) []models.CategorySummary {
	merged := make(map[models.Category]int)
	for _, s := range summaries {
		merged[s.Name] += s.Count
	}
	out := make([]models.CategorySummary, 0, len(merged))
	for name, count := range merged {
		out = append(out, models.CategorySummary{Name: name, Count: count})
	}
	return out
}

// orderSummaries puts known categories first in display order, then the rest alphabetically
func orderSummaries(summaries []models.CategorySummary) []models.CategorySummary {
	rank := make(map[models.Category]int, len(models.KnownCategories))
	for i, c := range models.KnownCategories {
		rank[c] = i
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		ri, iKnown := rank[summaries[i].Name]
		rj, jKnown := rank[summaries[j].Name]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return summaries[i].Name < summaries[j].Name
		}
	})
	return summaries
}

// Lists reports whether any source lists a resource with id. Prefixed and plain forms of the same
// numeric id (main-42 and 42) match each other.
func (s *resourceService) Lists(ctx context.Context, id string) bool {
	if listsID(s.LoadAll(ctx), id) {
		return true
	}
	return listsID(s.LoadCategory(ctx, models.CategoryMinecraftIcons), id)
}

func listsID(items []models.Resource, id string) bool {
	numeric, isNumeric := NumericID(id)
	for _, r := range items {
		if r.ID.String() == id {
			return true
		}
		if isNumeric {
			if n, ok := NumericID(r.ID.String()); ok && n == numeric {
				return true
			}
		}
	}
	return false
}

func findResource(items []models.Resource, category models.Category, id string) (models.Resource, bool) {
	for _, r := range items {
		if r.ID.String() == id && (category == "" || r.Category == category) {
			return r, true
		}
	}
	return models.Resource{}, false
}

func selectedCategory(raw string) models.Category {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "", "all":
		return ""
	case string(models.CategoryFavorites):
		return models.CategoryFavorites
	default:
		return normalizer.CanonicalCategory(raw)
	}
}

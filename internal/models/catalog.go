package models

// IndexFile is the manifest published at /resources.index.json
type IndexFile struct {
	GeneratedAt string                `json:"generated_at,omitempty"`
	Categories  map[string]IndexEntry `json:"categories,omitempty"`
}

// IndexEntry points at the per-category JSON file of the static catalog
type IndexEntry struct {
	Count int    `json:"count"`
	File  string `json:"file"`
}

// WorkerCategories is the response of the worker API /categories endpoint
type WorkerCategories struct {
	Categories []string `json:"categories"`
	Total      int      `json:"total"`
}

// ExportDocument is the grouped catalog written by the export command
type ExportDocument struct {
	Categories map[string][]ExportItem `json:"categories"`
}

// ExportItem is one resource in the worker-compatible export format
type ExportItem struct {
	ID     ResourceID `json:"id"`
	Title  string     `json:"title"`
	Ext    string     `json:"ext,omitempty"`
	URL    string     `json:"url,omitempty"`
	Credit string     `json:"credit,omitempty"`
}

package models

// DownloadCount is a persisted download counter row
type DownloadCount struct {
	ResourceID int64 `json:"resource_id" db:"resource_id"`
	Count      int64 `json:"count" db:"count"`
}

// DownloadCounts maps resource IDs to download totals
type DownloadCounts map[string]int64

// DownloadPayload is the outcome of a download action: either a redirect to the asset
// or the asset body to be sent as an attachment
type DownloadPayload struct {
	RedirectURL string
	Body        []byte
	ContentType string
	Filename    string
}

// IsRedirect reports whether the client should be sent to RedirectURL
func (p *DownloadPayload) IsRedirect() bool {
	return p.RedirectURL != ""
}

// DownloadIncrementResponse reports the new in-memory count of a resource
type DownloadIncrementResponse struct {
	ResourceID string `json:"resource_id"`
	Count      int64  `json:"count"`
}

package middlewares

import (
	"encoding/json"
	"net/http"

	"github.com/dustin/go-humanize"
)

// RequestSizeLimitMiddleware rejects bodies larger than limit bytes. Bodies without a declared
// length are cut off by http.MaxBytesReader when the handler reads past the limit.
func RequestSizeLimitMiddleware(limit int64) func(http.Handler) http.Handler {
	message, _ := json.Marshal(map[string]string{
		"error": "request body exceeds " + humanize.IBytes(uint64(limit)),
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				w.Write(message)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

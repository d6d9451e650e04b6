package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/renderdragon/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupUpstream serves fixed bodies by path; unknown paths return 404
func setupUpstream(t *testing.T, routes map[string]string) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if body == "<500>" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, NewClient(server.Client(), zap.NewNop())
}

func TestClient_FetchJSON(t *testing.T) {
	server, client := setupUpstream(t, map[string]string{
		"/ok":      `{"a":1}`,
		"/broken":  `{"a":`,
		"/failing": "<500>",
	})
	ctx := context.Background()

	tests := []struct {
		name     string
		path     string
		expectOK bool
	}{
		{name: "valid json", path: "/ok", expectOK: true},
		{name: "invalid json", path: "/broken", expectOK: false},
		{name: "server error", path: "/failing", expectOK: false},
		{name: "not found", path: "/missing", expectOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, ok := client.FetchJSON(ctx, server.URL+tt.path)
			assert.Equal(t, tt.expectOK, ok)
			if tt.expectOK {
				assert.JSONEq(t, `{"a":1}`, string(raw))
			} else {
				assert.Nil(t, raw)
			}
		})
	}

	t.Run("network error", func(t *testing.T) {
		_, ok := client.FetchJSON(ctx, "http://127.0.0.1:1/unreachable")
		assert.False(t, ok)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, ok := client.FetchJSON(cancelled, server.URL+"/ok")
		assert.False(t, ok)
	})
}

func TestStaticSource(t *testing.T) {
	server, client := setupUpstream(t, map[string]string{
		IndexPath:                  `{"generated_at":"2025-06-01","categories":{"music":{"count":2,"file":"resources/music.v3.json"}}}`,
		"/resources/music.v3.json": `[{"id":1,"title":"Song"}]`,
		"/resources/sfx.json":      `[{"id":2,"title":"Pop"}]`,
		AllPath:                    `{"categories":{}}`,
		LegacyPath:                 `{"music":[]}`,
	})
	source := NewStaticSource(client, server.URL+"/")
	ctx := context.Background()

	index, ok := source.Index(ctx)
	require.True(t, ok)
	assert.Equal(t, models.IndexEntry{Count: 2, File: "resources/music.v3.json"}, index.Categories["music"])

	raw, ok := source.CategoryFile(ctx, "music", index.Categories["music"].File)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":1,"title":"Song"}]`, string(raw))

	raw, ok = source.CategoryFile(ctx, "sfx", "")
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":2,"title":"Pop"}]`, string(raw))

	_, ok = source.CategoryFile(ctx, "fonts", "")
	assert.False(t, ok)

	_, ok = source.All(ctx)
	assert.True(t, ok)
	_, ok = source.Legacy(ctx)
	assert.True(t, ok)
}

func TestStaticSource_IndexWithoutCategories(t *testing.T) {
	server, client := setupUpstream(t, map[string]string{IndexPath: `{"generated_at":"x"}`})
	source := NewStaticSource(client, server.URL)

	_, ok := source.Index(context.Background())
	assert.False(t, ok)
}

func TestWorkerSource(t *testing.T) {
	server, client := setupUpstream(t, map[string]string{
		"/all":              `{"categories":{"mcicons":[{"id":1,"title":"Pick","url":"https://x/p.png"}]}}`,
		"/category/mcicons": `{"category":"mcicons","files":[{"id":1,"title":"Pick"}]}`,
		"/category/music":   `{"category":"music"}`,
		"/categories":       `{"categories":["music","mcicons"],"total":2}`,
	})
	source := NewWorkerSource(client, server.URL)
	ctx := context.Background()

	_, ok := source.All(ctx)
	assert.True(t, ok)

	_, ok = source.Category(ctx, models.CategoryMinecraftIcons)
	assert.True(t, ok, "minecraft-icons is requested as mcicons")

	_, ok = source.Category(ctx, models.CategoryMusic)
	assert.False(t, ok, "responses without files are ignored")

	categories, ok := source.Categories(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"music", "mcicons"}, categories.Categories)
	assert.Equal(t, 2, categories.Total)
}

func TestWorkerSource_Disabled(t *testing.T) {
	source := NewWorkerSource(NewClient(http.DefaultClient, zap.NewNop()), "")
	ctx := context.Background()

	assert.False(t, source.Enabled())
	_, ok := source.All(ctx)
	assert.False(t, ok)
	_, ok = source.Category(ctx, models.CategoryMusic)
	assert.False(t, ok)
	_, ok = source.Categories(ctx)
	assert.False(t, ok)
}

func TestMCISource(t *testing.T) {
	server, client := setupUpstream(t, map[string]string{
		"/mci-proxy": `[{"name":"a.png","category":"Items","subcategory":"x","url":"https://x/a.png"}]`,
		"/object":    `{"error":"rate limited"}`,
	})
	ctx := context.Background()

	_, ok := NewMCISource(client, server.URL+"/mci-proxy").Icons(ctx)
	assert.True(t, ok)

	_, ok = NewMCISource(client, server.URL+"/object").Icons(ctx)
	assert.False(t, ok)

	_, ok = NewMCISource(client, "").Icons(ctx)
	assert.False(t, ok)
}

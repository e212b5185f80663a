package imagegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/shuheykoyama/tnap/internal/errors"
	"github.com/shuheykoyama/tnap/internal/slides"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestGeneration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req generationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a cat wearing headphones", req.Prompt)
		assert.Equal(t, "dall-e-3", req.Model)
		assert.Equal(t, 1, req.N)
		assert.Equal(t, "1024x1024", req.Size)

		payload := map[string]any{
			"data": []any{
				map[string]any{"url": "https://images.example/0.png", "revised_prompt": "a cat"},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	ref, err := client.RequestGeneration(context.Background(), "  a cat wearing headphones ")
	require.NoError(t, err)
	assert.Equal(t, "https://images.example/0.png", ref.URL)
	assert.Equal(t, "a cat", ref.RevisedPrompt)
}

func TestRequestGenerationFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"api error", http.StatusBadRequest, `{"error":{"message":"content policy violation"}}`, "content policy violation"},
		{"server error", http.StatusInternalServerError, `upstream unavailable`, "http 500"},
		{"no data", http.StatusOK, `{"data":[]}`, "no image url"},
		{"bad json", http.StatusOK, `{`, "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
			_, err := client.RequestGeneration(context.Background(), "prompt")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, errors.GenerationFailed, errors.KindOf(err))
		})
	}
}

func TestRequestGenerationValidatesInput(t *testing.T) {
	client := NewClient(Config{APIKey: "k"})
	_, err := client.RequestGeneration(context.Background(), "   ")
	assert.ErrorContains(t, err, "prompt required")

	client = NewClient(Config{})
	_, err = client.RequestGeneration(context.Background(), "cat")
	assert.ErrorContains(t, err, "api key required")
}

func TestMaterialize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "session", "0.png")
	d := NewDownloader()

	item, err := d.Materialize(context.Background(), SourceRef{URL: server.URL + "/0.png"}, dest)
	require.NoError(t, err)
	assert.Equal(t, slides.Item(dest), item)

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary download files are cleaned up")

	_, err = d.Materialize(context.Background(), SourceRef{URL: server.URL + "/missing.png"}, dest+".2")
	require.Error(t, err)
	assert.Equal(t, errors.DownloadFailed, errors.KindOf(err))
	assert.NoFileExists(t, dest+".2")

	_, err = d.Materialize(context.Background(), SourceRef{}, dest)
	assert.ErrorContains(t, err, "empty url")
}

package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetArticlesCoercesWireShapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "/v2/articles", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total": 1,
			"articles": [{
				"link": "https://example.com/a",
				"title": "headline",
				"publishDate": "2024-01-01T00:00:00Z",
				"source": "wire",
				"language": "en",
				"confidence": "0.8"
			}]
		}`))
	}))
	defer srv.Close()

	client := NewClient("secret", WithBaseURL(srv.URL))

	page, err := client.GetArticles(context.Background(), nil)
	require.NoError(t, err)

	require.Equal(t, 1, page.Total)
	require.Len(t, page.Articles, 1)
	assert.Equal(t, 0.8, page.Articles[0].Confidence)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), page.Articles[0].PublishDate.UTC())
}

func TestClient_RetriesOnRetryableStatusThenSucceeds(t *testing.T) {
	var attempts atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewClient("secret", WithBaseURL(srv.URL))

	var out map[string]any
	err := client.DoRequest(context.Background(), http.MethodGet, "/v2/ping", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, int32(3), attempts.Load())
	assert.Equal(t, true, out["ok"])
}

func TestClient_DoesNotRetryOnBadRequest(t *testing.T) {
	var attempts atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient("secret", WithBaseURL(srv.URL))

	err := client.DoRequest(context.Background(), http.MethodGet, "/v2/broken", nil, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_DoesNotRetryOnUnauthorized(t *testing.T) {
	var attempts atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))

	err := client.DoRequest(context.Background(), http.MethodGet, "/v2/articles", nil, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_DoRequestEncodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var decoded map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&decoded))
		assert.Equal(t, "bar", decoded["foo"])
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient("secret", WithBaseURL(srv.URL))
	err := client.DoRequest(context.Background(), http.MethodPost, "/v2/webhooks", map[string]string{"foo": "bar"}, nil)
	require.NoError(t, err)
}

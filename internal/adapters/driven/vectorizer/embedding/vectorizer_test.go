package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, embedding []float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/embeddings":
			var req embedRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.NotEmpty(t, req.Model)
			require.NoError(t, json.NewEncoder(w).Encode(embedResponse{Embedding: embedding}))
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestVectorize(t *testing.T) {
	server := newTestServer(t, []float64{0.1, 0.2, 0.3})
	defer server.Close()

	v := NewVectorizer(Config{BaseURL: server.URL, Dimensions: 3, RequestsPerSecond: 1000})

	vec, err := v.Vectorize(context.Background(), "some document text")

	require.NoError(t, err)
	require.Len(t, vec, 3)
	assert.InDelta(t, 0.1, vec[0], 1e-6)
	assert.InDelta(t, 0.3, vec[2], 1e-6)
}

func TestVectorize_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	v := NewVectorizer(Config{BaseURL: server.URL, RequestsPerSecond: 1000})

	_, err := v.Vectorize(context.Background(), "text")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestVectorize_CancelledContext(t *testing.T) {
	server := newTestServer(t, []float64{0.1})
	defer server.Close()

	v := NewVectorizer(Config{BaseURL: server.URL, RequestsPerSecond: 1000})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Vectorize(ctx, "text")
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	server := newTestServer(t, nil)
	defer server.Close()

	v := NewVectorizer(Config{BaseURL: server.URL})

	assert.NoError(t, v.Ping(context.Background()))
}

func TestPing_Unreachable(t *testing.T) {
	v := NewVectorizer(Config{BaseURL: "http://127.0.0.1:1"})

	assert.Error(t, v.Ping(context.Background()))
}

func TestDefaults(t *testing.T) {
	v := NewVectorizer(Config{})

	assert.Equal(t, DefaultDimensions, v.Dimensions())
	assert.Equal(t, "embedding:"+DefaultModel, v.Name())
}

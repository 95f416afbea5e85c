package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchClient_Search(t *testing.T) {
	var gotPayload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		json.NewEncoder(w).Encode(searchResponse{Results: []SearchResult{
			{Title: "Study A", URL: "https://a.edu/x", Content: "findings", Score: 0.9},
			{Title: "Study B", URL: "https://b.org/y", Content: "more", Score: 0.7},
		}})
	}))
	defer server.Close()

	client := NewSearchClient(server.URL, "test-key")
	results, err := client.Search(context.Background(), "plant care research", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Study A", results[0].Title)
	assert.Equal(t, "test-key", gotPayload["api_key"])
	assert.Equal(t, "plant care research", gotPayload["query"])
	assert.Equal(t, float64(5), gotPayload["max_results"])
}

func TestSearchClient_SearchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewSearchClient(server.URL, "test-key")
	_, err := client.Search(context.Background(), "anything", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestSearchClient_SearchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewSearchClient(server.URL, "test-key")
	_, err := client.Search(context.Background(), "anything", 5)
	assert.Error(t, err)
}

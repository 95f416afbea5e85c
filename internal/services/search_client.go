package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SearchResult is one hit from the web search API.
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// SearchClient talks to the Tavily-style search API used for research.
type SearchClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewSearchClient(baseURL, apiKey string) *SearchClient {
	return &SearchClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *SearchClient) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	payload := map[string]interface{}{
		"api_key":      c.apiKey,
		"query":        query,
		"search_depth": "advanced",
		"max_results":  maxResults,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search API returned status %d: %s", resp.StatusCode, string(msg))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %v", err)
	}

	return parsed.Results, nil
}

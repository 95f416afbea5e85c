package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredibilityScore(t *testing.T) {
	tests := []struct {
		url      string
		expected float64
	}{
		{"https://research.stanford.edu/paper", 0.90},
		{"https://www.cdc.gov/stats", 0.90},
		{"https://www.ox.edu.uk/study", 0.90},
		{"https://www.nature.com/articles/s41586", 0.80},
		{"https://dl.acm.org/doi/10.1145/1", 0.80},
		{"https://arxiv.org/abs/2401.00001", 0.80},
		{"https://www.wikipedia.org/wiki/SEO", 0.65},
		{"https://someblog.com/post", 0.40},
		{"not a url", 0.40},
		{"", 0.40},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, credibilityScore(tt.url), "url: %s", tt.url)
	}
}

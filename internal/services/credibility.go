package services

import (
	"net/url"
	"strings"
)

const (
	arxivCredibility   = 0.85
	userPDFCredibility = 0.60
	minCredibility     = 0.40
)

var journalHosts = []string{
	"nature.com",
	"sciencedirect.com",
	"springer.com",
	"wiley.com",
	"ieee.org",
	"acm.org",
	"jstor.org",
	"pubmed.ncbi.nlm.nih.gov",
	"semanticscholar.org",
	"arxiv.org",
}

// credibilityScore rates a source URL for use in an article. Academic and
// government hosts rank highest, followed by known journals, then .org,
// then everything else.
func credibilityScore(rawURL string) float64 {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return minCredibility
	}
	host := strings.ToLower(u.Host)

	switch {
	case strings.HasSuffix(host, ".edu") || strings.Contains(host, ".edu."):
		return 0.90
	case strings.HasSuffix(host, ".gov") || strings.Contains(host, ".gov."):
		return 0.90
	}

	for _, jh := range journalHosts {
		if host == jh || strings.HasSuffix(host, "."+jh) {
			return 0.80
		}
	}

	if strings.HasSuffix(host, ".org") {
		return 0.65
	}

	return minCredibility
}

package tracker

import (
	"math"
	"regexp"
	"strings"
)

var urlRegex = regexp.MustCompile(`https?://[^\s<>"']+`)

// Keywords that mark a URL as an application portal: career-site path
// segments plus the common ATS vendors.
var jobURLKeywords = []string{
	"careers", "jobs", "apply", "application", "hiring", "recruiting",
	"workday", "greenhouse", "lever", "bamboohr", "smartrecruiters",
	"taleo", "icims", "jobvite", "ashby", "portal",
}

// Hosts that never point at an application: social networks, analytics,
// CDN and newsletter plumbing.
var genericURLHosts = []string{
	"linkedin.com", "facebook.com", "twitter.com", "x.com", "instagram.com",
	"googleapis.com", "google-analytics.com", "doubleclick.net",
	"cloudfront.net", "list-manage.com",
}

// BestURL returns the most application-portal-looking URL in the message,
// or "" when the message carries no URL at all. A present URL is always
// returned, even when every candidate scores at or below zero.
func BestURL(subject, body string) string {
	urls := urlRegex.FindAllString(body+" "+subject, -1)
	if len(urls) == 0 {
		return ""
	}

	best := ""
	bestScore := math.MinInt
	for _, url := range urls {
		url = strings.TrimRight(url, ".,;:)>]")
		if score := scoreURL(url); score > bestScore {
			best, bestScore = url, score
		}
	}
	return best
}

func scoreURL(url string) int {
	lower := strings.ToLower(url)
	score := 0
	for _, keyword := range jobURLKeywords {
		if strings.Contains(lower, keyword) {
			score += 10
		}
	}
	for _, host := range genericURLHosts {
		if strings.Contains(lower, host) {
			score -= 20
		}
	}
	// Short URLs are unlikely to be tracking redirects
	if len(url) < 100 {
		score += 5
	}
	return score
}

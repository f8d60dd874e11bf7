package cli

import "net/url"

const searchBaseURL = "https://www.google.com/search?q="

// SearchURL returns a web search link for a transaction description.
func SearchURL(description string) string {
	return searchBaseURL + url.QueryEscape(description)
}

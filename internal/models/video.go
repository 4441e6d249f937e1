package models

import "time"

// Video is a single search result from the video platform. PublishedAt is
// kept as the RFC3339 string the API returned so the value written to the
// sheet reads back identical to what was fetched.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channel_title"`
	PublishedAt  string `json:"published_at"`
	URL          string `json:"url"`
}

// Analysis pairs a video with the content-idea text generated for it.
type Analysis struct {
	Video *Video `json:"video"`
	Ideas string `json:"ideas"`
}

type RunReport struct {
	Date     time.Time   `json:"date"`
	Keyword  string      `json:"keyword"`
	Analyses []*Analysis `json:"analyses"`
	Fetched  int         `json:"fetched"`
	Skipped  int         `json:"skipped"`
}

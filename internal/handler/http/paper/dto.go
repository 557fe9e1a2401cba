// Package paper provides the HTTP handlers for summarizing papers and
// downloading the generated summaries.
package paper

// ReadingTimeDTO holds reading-time estimates in whole minutes.
type ReadingTimeDTO struct {
	OriginalMinutes int `json:"original_minutes"`
	SummaryMinutes  int `json:"summary_minutes"`
}

// SummarizeResponse is the JSON body returned by POST /summarize.
type SummarizeResponse struct {
	Summary      string         `json:"summary"`
	Strategy     string         `json:"strategy"`
	Fallback     bool           `json:"fallback"`
	ElapsedMS    int64          `json:"elapsed_ms"`
	DownloadLink string         `json:"download_link"`
	UsageCount   int64          `json:"usage_count"`
	ReadingTime  ReadingTimeDTO `json:"reading_time"`
}

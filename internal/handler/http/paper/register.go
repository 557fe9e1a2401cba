package paper

import "net/http"

// Register registers the summarize and download routes with mux.
func Register(mux *http.ServeMux, summarize SummarizeHandler, download DownloadHandler) {
	mux.Handle("POST /summarize", summarize)
	mux.Handle("GET /download/{filename}", download)
}

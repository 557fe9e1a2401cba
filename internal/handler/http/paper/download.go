package paper

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"paper-digest/internal/handler/http/respond"
	"paper-digest/internal/infra/artifact"
)

// MsgFileNotFound is returned when a download names no stored file.
const MsgFileNotFound = "File not found!"

// DownloadHandler handles GET /download/{filename}.
type DownloadHandler struct {
	Artifacts *artifact.Store
}

// ServeHTTP sends the named file as an attachment.
func (h DownloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")

	f, _, err := h.Artifacts.Open(name)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) || errors.Is(err, artifact.ErrInvalidName) {
			respond.Error(w, http.StatusNotFound, MsgFileNotFound)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, fmt.Errorf("open %s: %w", name, err))
		return
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeContent(w, r, name, time.Time{}, f)
}

package paper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"paper-digest/internal/domain/entity"
	"paper-digest/internal/handler/http/respond"
	"paper-digest/internal/infra/artifact"
	"paper-digest/internal/observability/logging"
	"paper-digest/internal/utils/text"
)

// MsgNoInput is returned when neither an upload nor a URL yields any text.
const MsgNoInput = "No valid input provided or could not extract text."

// maxFormMemory is the part of a multipart form kept in memory; the rest spills to disk.
const maxFormMemory = 8 << 20

// Summarizer produces a summary for extracted text.
type Summarizer interface {
	SummarizeText(ctx context.Context, text string) (entity.Summary, error)
}

// URLFetcher returns the text of the page at url.
type URLFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// PDFExtractor returns the text of the PDF stored at path.
type PDFExtractor interface {
	ExtractFile(path string) (string, error)
}

// UsageCounter counts completed summaries.
type UsageCounter interface {
	Increment(ctx context.Context) (int64, error)
}

// SummarizeHandler handles POST /summarize.
//
// The request is a form with either a pdf_file upload or a paper_url field; the
// upload wins when both are present. The summary is written to the artifact
// store for download and counted before the response is sent.
type SummarizeHandler struct {
	Svc       Summarizer
	Fetcher   URLFetcher
	PDF       PDFExtractor
	Artifacts *artifact.Store
	Usage     UsageCounter
}

// ServeHTTP implements http.Handler.
func (h SummarizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if err := parseForm(r); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		logger.Warn("malformed summarize request", slog.Any("error", err))
		respond.Error(w, http.StatusBadRequest, MsgNoInput)
		return
	}

	source, content, err := h.extract(ctx, r)
	if err != nil {
		logger.Warn("could not extract text",
			slog.String("source", source),
			slog.String("error", respond.SanitizeError(err)))
	}
	if strings.TrimSpace(content) == "" {
		respond.Error(w, http.StatusBadRequest, MsgNoInput)
		return
	}

	summary, err := h.Svc.SummarizeText(ctx, content)
	if err != nil {
		if errors.Is(err, entity.ErrEmptyDocument) {
			respond.Error(w, http.StatusBadRequest, MsgNoInput)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	if err := h.Artifacts.Save(ctx, artifact.DefaultName, summary.Text); err != nil {
		respond.SafeError(w, http.StatusInternalServerError,
			respond.NewAppError(http.StatusInternalServerError, "could not save summary", err))
		return
	}

	// a failed write is logged by the counter; the request still succeeds
	count, _ := h.Usage.Increment(ctx)

	logger.Info("paper summarized",
		slog.String("source", source),
		slog.String("strategy", summary.StrategyID),
		slog.Bool("fallback", summary.Fallback),
		slog.Duration("elapsed", summary.Elapsed))

	respond.JSON(w, http.StatusOK, SummarizeResponse{
		Summary:      summary.Text,
		Strategy:     summary.StrategyID,
		Fallback:     summary.Fallback,
		ElapsedMS:    summary.Elapsed.Milliseconds(),
		DownloadLink: artifact.DefaultName,
		UsageCount:   count,
		ReadingTime: ReadingTimeDTO{
			OriginalMinutes: text.ReadingTime(text.CountWords(content), text.DefaultWordsPerMinute),
			SummaryMinutes:  text.ReadingTime(text.CountWords(summary.Text), text.DefaultWordsPerMinute),
		},
	})
}

// parseForm accepts multipart and URL-encoded forms.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// extract returns the document text and the source it came from.
func (h SummarizeHandler) extract(ctx context.Context, r *http.Request) (source, content string, err error) {
	file, header, err := r.FormFile("pdf_file")
	switch {
	case err == nil && header.Filename != "":
		defer func() { _ = file.Close() }()
		content, err = h.extractUpload(ctx, header.Filename, file)
		return "pdf", content, err
	case err == nil:
		_ = file.Close()
	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		return "pdf", "", err
	}

	if url := strings.TrimSpace(r.FormValue("paper_url")); url != "" {
		content, err = h.Fetcher.FetchContent(ctx, url)
		return "url", content, err
	}
	return "none", "", nil
}

// extractUpload stores the upload under a unique name and extracts its text.
func (h SummarizeHandler) extractUpload(ctx context.Context, filename string, file io.Reader) (string, error) {
	path, err := h.Artifacts.SaveFrom(ctx, uploadName(filename), file)
	if err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return h.PDF.ExtractFile(path)
}

// uploadName derives a safe, unique file name from a client-supplied one.
func uploadName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if artifact.ValidateName(base) != nil {
		base = "upload.pdf"
	}
	return uuid.NewString()[:8] + "-" + base
}

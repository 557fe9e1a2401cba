package fetcher

import "errors"

// Sentinel errors for document ingestion. Callers distinguish them with errors.Is
// and map every one of them to "no text could be extracted".
var (
	// ErrInvalidURL indicates the URL is malformed or uses a scheme other than http/https.
	//
	// Example:
	//   - "not-a-url" → ErrInvalidURL
	//   - "file:///etc/passwd" → ErrInvalidURL
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the URL resolves to a loopback, private or link-local address.
	ErrPrivateIP = errors.New("private IP access denied (SSRF prevention)")

	// ErrTooManyRedirects indicates the redirect chain exceeded the configured maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrExtractionFailed indicates the HTML or PDF could not be parsed.
	ErrExtractionFailed = errors.New("content extraction failed")

	// ErrNoContent indicates the document parsed fine but contained no text.
	ErrNoContent = errors.New("no text content found")
)

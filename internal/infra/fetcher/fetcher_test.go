package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paper-digest/internal/resilience/retry"
)

// testConfig allows loopback targets so httptest servers are reachable.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.DenyPrivateIPs = false
	cfg.Timeout = time.Second
	return cfg
}

func fastRetry(c *pageClient) {
	c.retry.InitialDelay = time.Millisecond
	c.retry.MaxDelay = 5 * time.Millisecond
}

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, html)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const paperPage = `<!DOCTYPE html>
<html><head><title>Attention</title></head>
<body>
<nav>Home | Papers</nav>
<article>
<h1>Attention Is All You Need</h1>
<p>The dominant sequence transduction models are based on recurrent networks.</p>
<p>We propose a new simple network architecture, the <b>Transformer</b>.</p>
<div>Sidebar text that is not a paragraph.</div>
</article>
</body></html>`

/* ───────── ParagraphFetcher ───────── */

func TestParagraphFetcher_JoinsParagraphs(t *testing.T) {
	srv := serveHTML(t, paperPage)

	got, err := NewParagraphFetcher(testConfig()).FetchContent(context.Background(), srv.URL)
	require.NoError(t, err)

	want := "The dominant sequence transduction models are based on recurrent networks.\n" +
		"We propose a new simple network architecture, the Transformer."
	assert.Equal(t, want, got)
}

func TestParagraphFetcher_NoParagraphs(t *testing.T) {
	srv := serveHTML(t, `<html><body><div>only divs</div><p>   </p></body></html>`)

	_, err := NewParagraphFetcher(testConfig()).FetchContent(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestParagraphFetcher_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	_, err := NewParagraphFetcher(testConfig()).FetchContent(context.Background(), srv.URL)
	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestParagraphFetcher_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = fmt.Fprint(w, `<p>finally</p>`)
	}))
	defer srv.Close()

	f := NewParagraphFetcher(testConfig())
	fastRetry(f.pages)

	got, err := f.FetchContent(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "finally", got)
	assert.Equal(t, int32(3), calls.Load())
}

func TestParagraphFetcher_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewParagraphFetcher(testConfig())
	fastRetry(f.pages)

	_, err := f.FetchContent(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestParagraphFetcher_BodyTooLarge(t *testing.T) {
	srv := serveHTML(t, "<p>"+strings.Repeat("a", 4096)+"</p>")

	cfg := testConfig()
	cfg.MaxBodySize = 1024
	_, err := NewParagraphFetcher(cfg).FetchContent(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestParagraphFetcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	cfg := testConfig()
	cfg.Timeout = 30 * time.Millisecond
	_, err := NewParagraphFetcher(cfg).FetchContent(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestParagraphFetcher_TooManyRedirects(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+"/loop", http.StatusFound)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.MaxRedirects = 2
	_, err := NewParagraphFetcher(cfg).FetchContent(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrTooManyRedirects)
}

func TestParagraphFetcher_RejectsPrivateTargets(t *testing.T) {
	srv := serveHTML(t, paperPage)

	cfg := testConfig()
	cfg.DenyPrivateIPs = true
	_, err := NewParagraphFetcher(cfg).FetchContent(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrPrivateIP)
}

/* ───────── ReadabilityFetcher ───────── */

func TestReadabilityFetcher_ExtractsArticle(t *testing.T) {
	body := `<html><head><title>Paper</title></head><body><article>` +
		strings.Repeat(`<p>Self-attention relates different positions of a single sequence to compute a representation. `+
			`It has been used successfully in reading comprehension and summarization tasks.</p>`, 5) +
		`</article></body></html>`
	srv := serveHTML(t, body)

	got, err := NewReadabilityFetcher(testConfig()).FetchContent(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, got, "Self-attention relates different positions")
}

func TestReadabilityFetcher_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	_, err := NewReadabilityFetcher(testConfig()).FetchContent(context.Background(), srv.URL)
	require.Error(t, err)
}

/* ───────── New / Config ───────── */

func TestNew_SelectsExtractor(t *testing.T) {
	cfg := testConfig()
	f, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &ParagraphFetcher{}, f)

	cfg.Extractor = ExtractorReadability
	f, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &ReadabilityFetcher{}, f)

	cfg.Extractor = "regex"
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, want: "timeout"},
		{name: "tiny body", mutate: func(c *Config) { c.MaxBodySize = 10 }, want: "max body size"},
		{name: "huge body", mutate: func(c *Config) { c.MaxBodySize = 1 << 40 }, want: "max body size"},
		{name: "redirects", mutate: func(c *Config) { c.MaxRedirects = 11 }, want: "max redirects"},
		{name: "extractor", mutate: func(c *Config) { c.Extractor = "" }, want: "extractor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

/* ───────── URL validation ───────── */

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		deny    bool
		wantErr error
	}{
		{name: "http allowed", url: "http://203.0.113.10/paper", deny: true},
		{name: "https allowed", url: "https://198.51.100.7/paper", deny: true},
		{name: "file scheme", url: "file:///etc/passwd", deny: true, wantErr: ErrInvalidURL},
		{name: "ftp scheme", url: "ftp://example.com/x", deny: false, wantErr: ErrInvalidURL},
		{name: "no host", url: "http:///x", deny: false, wantErr: ErrInvalidURL},
		{name: "loopback", url: "http://127.0.0.1/", deny: true, wantErr: ErrPrivateIP},
		{name: "private", url: "http://10.1.2.3/", deny: true, wantErr: ErrPrivateIP},
		{name: "link local", url: "http://169.254.169.254/latest", deny: true, wantErr: ErrPrivateIP},
		{name: "ipv6 loopback", url: "http://[::1]/", deny: true, wantErr: ErrPrivateIP},
		{name: "private allowed when disabled", url: "http://10.1.2.3/", deny: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateURL(tt.url, tt.deny)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	for _, ip := range []string{"127.0.0.1", "10.0.0.1", "172.16.5.4", "192.168.1.1", "169.254.1.1", "::1", "fc00::1", "fe80::1", "0.0.0.0"} {
		assert.True(t, isPrivateIP(net.ParseIP(ip)), ip)
	}
	for _, ip := range []string{"8.8.8.8", "203.0.113.1", "2001:4860:4860::8888"} {
		assert.False(t, isPrivateIP(net.ParseIP(ip)), ip)
	}
}

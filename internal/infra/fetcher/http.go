// Package fetcher turns user input into plain document text: paper pages fetched
// by URL (paragraph or readability extraction) and uploaded PDF files.
package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"paper-digest/internal/resilience/circuitbreaker"
	"paper-digest/internal/resilience/retry"
)

// page is a fetched HTML response.
type page struct {
	body []byte
	url  *url.URL
}

// pageClient performs validated, size-limited GET requests through a circuit
// breaker, retrying transient failures.
type pageClient struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	retry   retry.Config
	cfg     Config
}

func newPageClient(cfg Config) *pageClient {
	c := &pageClient{
		breaker: circuitbreaker.New(circuitbreaker.ContentFetchConfig()),
		retry:   retry.ContentFetchConfig(),
		cfg:     cfg,
	}
	c.client = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= c.cfg.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			// every hop is validated again
			if err := validateURL(req.URL.String(), c.cfg.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return c
}

// get validates urlStr and fetches it.
func (c *pageClient) get(ctx context.Context, urlStr string) (page, error) {
	if err := validateURL(urlStr, c.cfg.DenyPrivateIPs); err != nil {
		return page{}, err
	}

	var p page
	err := retry.WithBackoff(ctx, c.retry, func() error {
		res, err := circuitbreaker.Do(c.breaker, func() (page, error) {
			return c.do(ctx, urlStr)
		})
		if err != nil {
			if circuitbreaker.IsRejected(err) {
				return fmt.Errorf("content fetch unavailable: %w", err)
			}
			return err
		}
		p = res
		return nil
	})
	return p, err
}

func (c *pageClient) do(ctx context.Context, urlStr string) (page, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return page{}, fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return page{}, fmt.Errorf("%w: request exceeded %v", ErrTimeout, c.cfg.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && (errors.Is(urlErr.Err, ErrTooManyRedirects) ||
			errors.Is(urlErr.Err, ErrPrivateIP) || errors.Is(urlErr.Err, ErrInvalidURL)) {
			return page{}, urlErr.Err
		}
		return page{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return page{}, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodySize+1))
	if err != nil {
		return page{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.cfg.MaxBodySize {
		return page{}, fmt.Errorf("%w: response exceeds limit %d bytes", ErrBodyTooLarge, c.cfg.MaxBodySize)
	}

	final := resp.Request.URL
	return page{body: body, url: final}, nil
}

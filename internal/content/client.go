package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/soramame/dramalearn/internal/cache"
	"github.com/soramame/dramalearn/internal/progress"
)

// ClientOptions configures a Client. Cache is optional: without one every
// read goes to the network. MaxRetryAttempts counts retries after the first
// try, matching the backend's rate-limit guidance.
type ClientOptions struct {
	BaseURL          string
	APIKey           string
	Cache            *cache.Cache
	CacheTTL         time.Duration
	MaxRetryAttempts uint
	Logger           *slog.Logger
}

// Client fetches dramas, keywords, and raw subtitles from the content backend
// and submits progress attempts to it. Fetches read through the local cache.
type Client struct {
	httpClient       *resty.Client
	contentCache     *cache.Cache
	cacheTTL         time.Duration
	maxRetryAttempts uint
	logger           *slog.Logger
}

var _ Fetcher = (*Client)(nil)
var _ progress.Submitter = (*Client)(nil)
var _ progress.TotalsSource = (*Client)(nil)

func NewClient(opts ClientOptions) *Client {
	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	if opts.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+opts.APIKey)
	}
	client.SetHeader("Content-Type", "application/json")

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Minute
	}

	return &Client{
		httpClient:       client,
		contentCache:     opts.Cache,
		cacheTTL:         opts.CacheTTL,
		maxRetryAttempts: opts.MaxRetryAttempts,
		logger:           opts.Logger,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()

	// Retry on network-related errors
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Retry on 5xx errors (server errors)
	if strings.Contains(errStr, "response error 5") {
		return true
	}

	// Retry on rate limiting (429)
	if strings.Contains(errStr, "response error 429") {
		return true
	}

	return false
}

func (client *Client) withRetry(ctx context.Context, call func() error) error {
	return retry.Do(
		func() error {
			if err := call(); err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

// FetchDramaContent returns a drama and its keyword list, serving from the
// cache when both halves are present and refreshing the cache after a
// successful network fetch.
func (client *Client) FetchDramaContent(ctx context.Context, dramaID string) (*DramaContent, error) {
	if cached := client.cachedDramaContent(dramaID); cached != nil {
		client.logger.Debug("drama content served from cache", "dramaId", dramaID)
		return cached, nil
	}

	var result *DramaContent
	if err := client.withRetry(ctx, func() error {
		fetched, err := client.fetchDramaContent(ctx, dramaID)
		if err != nil {
			return err
		}
		result = fetched
		return nil
	}); err != nil {
		return nil, err
	}

	if client.contentCache != nil {
		client.contentCache.CacheDramaContent(dramaID, result.Drama, result.Keywords, client.cacheTTL)
	}
	return result, nil
}

func (client *Client) cachedDramaContent(dramaID string) *DramaContent {
	if client.contentCache == nil {
		return nil
	}
	content := &DramaContent{}
	if !client.contentCache.Get(cache.DramaKey(dramaID), &content.Drama) {
		return nil
	}
	if !client.contentCache.Get(cache.KeywordsKey(dramaID), &content.Keywords) {
		return nil
	}
	return content
}

func (client *Client) fetchDramaContent(ctx context.Context, dramaID string) (*DramaContent, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetResult(&DramaContent{}).
		Get("/dramas/" + dramaID)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return nil, fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*DramaContent)
	if responseBody == nil || responseBody.Drama.ID == "" {
		return nil, fmt.Errorf("empty drama in response: %s", response.String())
	}
	return responseBody, nil
}

// FetchSubtitles returns the raw subtitle document at url.
func (client *Client) FetchSubtitles(ctx context.Context, url string) (string, error) {
	var raw string
	if err := client.withRetry(ctx, func() error {
		response, err := client.httpClient.R().
			SetContext(ctx).
			Get(url)
		if err != nil {
			return fmt.Errorf("httpClient.Get > %w", err)
		}
		if response.IsError() {
			return fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
		}
		// String() trims surrounding whitespace, which would lose the
		// document's trailing newline.
		raw = string(response.Bytes())
		return nil
	}); err != nil {
		return "", err
	}
	return raw, nil
}

// PreloadVideo fetches url once to warm local delivery and records a preload
// marker so playback can tell warmed videos apart.
func (client *Client) PreloadVideo(ctx context.Context, url string) error {
	if client.contentCache != nil && client.contentCache.IsVideoPreloaded(url) {
		return nil
	}

	if err := client.withRetry(ctx, func() error {
		response, err := client.httpClient.R().
			SetContext(ctx).
			Get(url)
		if err != nil {
			return fmt.Errorf("httpClient.Get > %w", err)
		}
		if response.IsError() {
			return fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
		}
		return nil
	}); err != nil {
		return err
	}

	if client.contentCache != nil {
		client.contentCache.MarkVideoPreloaded(url, client.cacheTTL)
	}
	client.logger.Info("video preloaded", "url", url)
	return nil
}

// SubmitAttempt implements the progress.Submitter interface
func (client *Client) SubmitAttempt(ctx context.Context, req progress.SubmitRequest) error {
	return client.withRetry(ctx, func() error {
		response, err := client.httpClient.R().
			SetContext(ctx).
			SetBody(req).
			Post("/progress/attempts")
		if err != nil {
			return fmt.Errorf("httpClient.Post > %w", err)
		}
		if response.IsError() {
			return fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
		}
		return nil
	})
}

// TotalKeywords implements the progress.TotalsSource interface
func (client *Client) TotalKeywords(ctx context.Context, dramaID string) (int, error) {
	content, err := client.FetchDramaContent(ctx, dramaID)
	if err != nil {
		return 0, fmt.Errorf("FetchDramaContent > %w", err)
	}
	return len(content.Keywords), nil
}

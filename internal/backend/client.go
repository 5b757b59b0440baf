// Package backend implements the HTTP client for the posture backend API.
package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	derrors "git.home.luguber.info/inful/mailposture/internal/errors"
	"git.home.luguber.info/inful/mailposture/internal/metrics"
	"git.home.luguber.info/inful/mailposture/internal/retry"
)

const defaultTimeout = 30 * time.Second

// Options tunes the client; zero values get sensible defaults.
type Options struct {
	CheckSMTPTLS bool
	HTTPClient   *http.Client
	Recorder     metrics.Recorder
	// Retry governs transient-failure retries (transport errors and 5xx
	// responses). The zero value means the default policy.
	Retry retry.Policy
}

// Client queries the posture backend.
type Client struct {
	baseURL      string
	apiKey       string
	checkSMTPTLS bool
	httpClient   *http.Client
	recorder     metrics.Recorder
	retry        retry.Policy
}

// New creates a backend client. baseURL must not end in a slash (config
// already trims it).
func New(baseURL, apiKey string, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	policy := opts.Retry
	if policy == (retry.Policy{}) {
		policy = retry.DefaultPolicy()
	}
	return &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		checkSMTPTLS: opts.CheckSMTPTLS,
		httpClient:   httpClient,
		recorder:     recorder,
		retry:        policy,
	}
}

// Lookup fetches the posture report for an already-normalized domain,
// retrying transient failures per the configured policy.
func (c *Client) Lookup(ctx context.Context, domain string) (*Report, error) {
	q := url.Values{"api_key": {c.apiKey}}
	if c.checkSMTPTLS {
		q.Set("check_smtp_tls", "true")
	}
	endpoint := c.baseURL + "/domain/" + url.PathEscape(domain) + "?" + q.Encode()

	var lastErr error
	for attempt := 0; ; attempt++ {
		report, retryable, err := c.lookupOnce(ctx, domain, endpoint)
		if err == nil {
			return report, nil
		}
		lastErr = err
		if !retryable || attempt >= c.retry.MaxRetries {
			return nil, lastErr
		}
		select {
		case <-ctx.Done():
			return nil, lastErr
		case <-time.After(c.retry.Delay(attempt + 1)):
		}
	}
}

// lookupOnce performs a single backend request. The retryable result marks
// failures worth another attempt: transport errors and 5xx responses.
func (c *Client) lookupOnce(ctx context.Context, domain, endpoint string) (*Report, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, derrors.Wrap(err, derrors.CategoryBackend, "build backend request").Build()
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recorder.ObserveLookupDuration(time.Since(start), false)
		return nil, ctx.Err() == nil, derrors.Wrap(err, derrors.CategoryBackend, "backend unreachable").
			WithContext("domain", domain).
			Build()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.recorder.ObserveLookupDuration(time.Since(start), false)
		return nil, resp.StatusCode >= 500, derrors.BackendError("backend returned unexpected status").
			WithContext("domain", domain).
			WithContext("status", resp.StatusCode).
			Build()
	}

	var report Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		c.recorder.ObserveLookupDuration(time.Since(start), false)
		return nil, false, derrors.Wrap(err, derrors.CategoryBackend, "decode backend response").
			WithContext("domain", domain).
			Build()
	}
	c.recorder.ObserveLookupDuration(time.Since(start), true)

	if report.Domain == "" {
		report.Domain = domain
	}
	return &report, false, nil
}

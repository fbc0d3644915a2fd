package gpa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"price-crawler/internal/cache"
	"price-crawler/internal/models"
	"price-crawler/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Client talks to the GPA API shared by the Pão de Açúcar and Clube Extra
// storefronts. Every response body is cached by exact URL for the life
// of the client's cache.
type Client struct {
	baseURL   string
	http      *http.Client
	responses cache.Cache
	inflight  *singleflight.Group
	debug     bool
	logger    *zap.Logger
}

// NewClient creates a new GPA client backed by responses
func NewClient(baseURL string, responses cache.Cache, timeout time.Duration, debug bool) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: timeout},
		responses: responses,
		inflight:  &singleflight.Group{},
		debug:     debug,
		logger:    util.GetLogger(),
	}
}

// WithCache returns a copy of the client bound to another run cache
func (c *Client) WithCache(responses cache.Cache) *Client {
	clone := *c
	clone.responses = responses
	clone.inflight = &singleflight.Group{}
	return &clone
}

func (c *Client) url(brand models.Brand, path string) (string, error) {
	if !brand.Valid() {
		return "", fmt.Errorf("%w: unknown brand %q", ErrMalformedInput, brand)
	}
	return fmt.Sprintf("%s/%s%s", c.baseURL, brand, path), nil
}

// fetch performs a cached GET and unwraps the response envelope.
// A backend 404 yields NotFound with a nil error.
func fetch[T any](ctx context.Context, c *Client, brand models.Brand, path string) (Result[T], error) {
	url, err := c.url(brand, path)
	if err != nil {
		return NotFound[T](), err
	}

	body, err := c.getBody(ctx, brand, url)
	if err != nil {
		util.GPARequestsTotal.WithLabelValues(string(brand), util.OutcomeTransportError).Inc()
		return NotFound[T](), err
	}

	var envelope models.Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &envelope); err != nil {
		util.GPARequestsTotal.WithLabelValues(string(brand), util.OutcomeBackendError).Inc()
		return NotFound[T](), &BackendError{Message: "invalid response envelope", Err: err}
	}

	if envelope.Code == http.StatusNotFound {
		util.GPARequestsTotal.WithLabelValues(string(brand), util.OutcomeNotFound).Inc()
		return NotFound[T](), nil
	}

	content, err := unwrap(envelope)
	if err != nil {
		util.GPARequestsTotal.WithLabelValues(string(brand), util.OutcomeBackendError).Inc()
		return NotFound[T](), err
	}

	var value T
	if err := json.Unmarshal(content, &value); err != nil {
		util.GPARequestsTotal.WithLabelValues(string(brand), util.OutcomeBackendError).Inc()
		return NotFound[T](), fmt.Errorf("%w: failed to decode content of %s: %v", ErrMalformedInput, url, err)
	}

	util.GPARequestsTotal.WithLabelValues(string(brand), util.OutcomeSuccess).Inc()
	return Found(value), nil
}

func unwrap(envelope models.Envelope[json.RawMessage]) (json.RawMessage, error) {
	if envelope.Code != http.StatusOK || envelope.Status != "success" {
		return nil, &BackendError{
			Code:    envelope.Code,
			Status:  envelope.Status,
			Message: envelope.Message,
		}
	}
	if envelope.Content == nil || bytes.Equal(*envelope.Content, []byte("null")) {
		return nil, &BackendError{
			Code:    envelope.Code,
			Status:  envelope.Status,
			Message: "missing content",
		}
	}
	return *envelope.Content, nil
}

// getBody serves url from the run cache, fetching it at most once
func (c *Client) getBody(ctx context.Context, brand models.Brand, url string) ([]byte, error) {
	body, err := c.responses.Get(ctx, url)
	if err == nil {
		util.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return body, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn("Response cache lookup failed",
			zap.String("url", url),
			zap.Error(err))
	}
	util.CacheLookupsTotal.WithLabelValues("miss").Inc()

	v, err, _ := c.inflight.Do(url, func() (interface{}, error) {
		body, err := c.doRequest(ctx, brand, url)
		if err != nil {
			return nil, err
		}
		if err := c.responses.Set(ctx, url, body); err != nil {
			c.logger.Warn("Failed to cache response",
				zap.String("url", url),
				zap.Error(err))
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Client) doRequest(ctx context.Context, brand models.Brand, url string) ([]byte, error) {
	ctx, span := util.StartSpan(ctx, "gpa.Client.doRequest",
		util.AttrBrand.String(string(brand)),
		util.AttrURL.String(url))
	var err error
	defer func() { util.EndSpan(span, err) }()

	start := time.Now()
	defer func() {
		util.GPARequestLatency.WithLabelValues(string(brand)).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		err = fmt.Errorf("failed to create request: %w", err)
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		err = &BackendError{Message: "request failed", Err: err}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = &BackendError{Code: resp.StatusCode, Message: "failed to read response body", Err: err}
		return nil, err
	}

	// The envelope carries the real status; the HTTP status is only
	// trusted when the body is not JSON.
	if !json.Valid(body) {
		err = &BackendError{
			Code:    resp.StatusCode,
			Status:  resp.Status,
			Message: "response body is not JSON",
		}
		return nil, err
	}

	if c.debug {
		c.logger.Debug("GPA response",
			zap.String("url", url),
			zap.ByteString("body", body))
	}

	return body, nil
}

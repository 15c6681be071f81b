// Package appwrite is the docstore driver for the hosted Appwrite backend (REST API v1).
package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/docstore"
	"github.com/fekuna/omnipos-storefront-service/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 15 * time.Second
	defaultRPS     = 20.0
	defaultBurst   = 10
)

type Config struct {
	Endpoint   string // e.g. https://cloud.appwrite.io/v1
	ProjectID  string
	APIKey     string
	DatabaseID string
	Timeout    time.Duration
	RPS        float64
	Burst      int
}

// Client implements docstore.Client and docstore.Storage.
type Client struct {
	http    *http.Client
	cfg     Config
	base    string
	limiter *rate.Limiter
	logger  logger.ZapLogger
}

var (
	_ docstore.Client  = (*Client)(nil)
	_ docstore.Storage = (*Client)(nil)
)

func New(cfg Config, log logger.ZapLogger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RPS <= 0 {
		cfg.RPS = defaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}

	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		base:    strings.TrimRight(cfg.Endpoint, "/"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		logger:  log,
	}
}

func (c *Client) ListDocuments(ctx context.Context, collection string, queries ...docstore.Query) (*docstore.DocumentList, error) {
	params := url.Values{}
	for _, q := range queries {
		params.Add("queries[]", q.String())
	}

	body, err := c.doRequest(ctx, http.MethodGet, c.documentsPath(collection), params, nil)
	if err != nil {
		return nil, wrapError("list", collection, "", err)
	}

	var out docstore.DocumentList
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, wrapError("list", collection, "", fmt.Errorf("decode response: %w", err))
	}
	if out.Documents == nil {
		out.Documents = []docstore.Document{}
	}
	return &out, nil
}

func (c *Client) GetDocument(ctx context.Context, collection, id string) (*docstore.Document, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.documentsPath(collection)+"/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, wrapError("get", collection, id, err)
	}
	return decodeDocument("get", collection, id, body)
}

func (c *Client) CreateDocument(ctx context.Context, collection, id string, data map[string]any) (*docstore.Document, error) {
	payload := map[string]any{
		"documentId": id,
		"data":       data,
	}
	body, err := c.doRequest(ctx, http.MethodPost, c.documentsPath(collection), nil, payload)
	if err != nil {
		return nil, wrapError("create", collection, id, err)
	}
	return decodeDocument("create", collection, id, body)
}

func (c *Client) UpdateDocument(ctx context.Context, collection, id string, data map[string]any) (*docstore.Document, error) {
	payload := map[string]any{"data": data}
	body, err := c.doRequest(ctx, http.MethodPatch, c.documentsPath(collection)+"/"+url.PathEscape(id), nil, payload)
	if err != nil {
		return nil, wrapError("update", collection, id, err)
	}
	return decodeDocument("update", collection, id, body)
}

func (c *Client) documentsPath(collection string) string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents",
		url.PathEscape(c.cfg.DatabaseID), url.PathEscape(collection))
}

func decodeDocument(op, collection, id string, body []byte) (*docstore.Document, error) {
	var doc docstore.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, wrapError(op, collection, id, fmt.Errorf("decode response: %w", err))
	}
	return &doc, nil
}

// doRequest executes an authenticated request with client-side rate limiting.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Appwrite-Project", c.cfg.ProjectID)
	if c.cfg.APIKey != "" {
		req.Header.Set("X-Appwrite-Key", c.cfg.APIKey)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("appwrite request", zap.String("method", method), zap.String("path", path))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, docstore.ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, ErrServer
	}

	apiErr := &APIError{Status: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = string(body)
	}
	return nil, apiErr
}

package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"acornAdmin/internal/modules/listview/application/port"
	"acornAdmin/internal/shared/auth"
)

const defaultBaseURL = "http://localhost:8080"

// RESTClient wraps resty with base URL handling and bearer token forwarding so adapters only deal
// with paths and status codes.
type RESTClient struct {
	baseURL string
	client  *resty.Client
}

// NewRESTClient builds a client for the backend at baseURL. A zero timeout falls back to 10s; no
// retries are configured because a failed load is terminal for that attempt.
func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	client := resty.New().
		SetBaseURL(trimmed).
		SetTimeout(timeoutOrDefault(timeout)).
		SetHeader("Accept", "application/json")
	return &RESTClient{baseURL: trimmed, client: client}
}

// BaseURL returns the normalized backend base URL.
func (c *RESTClient) BaseURL() string { return c.baseURL }

func (c *RESTClient) request(ctx context.Context) *resty.Request {
	req := c.client.R().SetContext(ctx)
	if token := auth.TokenFromContext(ctx); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// Get issues GET path and returns the raw body of a 2xx response.
func (c *RESTClient) Get(ctx context.Context, path string) ([]byte, error) {
	res, err := c.request(ctx).Get(path)
	return c.handle(http.MethodGet, path, res, err)
}

// Post sends body as JSON to path.
func (c *RESTClient) Post(ctx context.Context, path string, body any) ([]byte, error) {
	res, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	return c.handle(http.MethodPost, path, res, err)
}

// Delete issues DELETE path.
func (c *RESTClient) Delete(ctx context.Context, path string) ([]byte, error) {
	res, err := c.request(ctx).Delete(path)
	return c.handle(http.MethodDelete, path, res, err)
}

func (c *RESTClient) handle(method, path string, res *resty.Response, err error) ([]byte, error) {
	if err != nil {
		slog.Error("backend request error", slog.String("method", method), slog.String("path", path), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s %s: %w", port.ErrFetchFailed, method, path, err)
	}
	status := res.StatusCode()
	slog.Debug("backend response", slog.String("method", method), slog.String("path", path), slog.Int("status", status), slog.Duration("elapsed", res.Time()))

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, port.ErrCollectionForbidden
	case status == http.StatusNotFound:
		return nil, port.ErrRecordNotFound
	case status == http.StatusBadRequest || status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: %s", port.ErrMutationRejected, snippet(res.Body()))
	case status < 200 || status >= 300:
		slog.Error("backend unexpected status", slog.String("method", method), slog.String("path", path), slog.Int("status", status), slog.String("body", snippet(res.Body())))
		return nil, fmt.Errorf("%w: unexpected status %d", port.ErrFetchFailed, status)
	}
	return res.Body(), nil
}

func snippet(body []byte) string {
	const limit = 2048
	if len(body) > limit {
		body = body[:limit]
	}
	return strings.TrimSpace(string(body))
}

func timeoutOrDefault(value time.Duration) time.Duration {
	if value <= 0 {
		return 10 * time.Second
	}
	return value
}

// Package frontend is the dashboard service: it reads the API over HTTP and
// renders the results. It never talks to the store.
package frontend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/metrics"
)

const (
	// DefaultTimeout bounds a whole fetch, body included.
	DefaultTimeout = 5 * time.Second
	maxBodyBytes   = 8 << 20
)

var (
	// ErrTransport covers unreachable hosts, timeouts and non-2xx answers.
	ErrTransport = errors.New("error connecting to API service")
	// ErrDecode covers bodies that are not JSON or carry no record list.
	ErrDecode = errors.New("unexpected response from API service")
)

// Result is the outcome of one fetch. Records is only meaningful when Err is nil.
type Result[T any] struct {
	Records []T
	Err     error
}

// Present reports whether the fetch produced a usable list.
func (r Result[T]) Present() bool { return r.Err == nil }

// Client performs GETs against the API base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.SugaredLogger
	metrics    *metrics.Metrics
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.SugaredLogger, m *metrics.Metrics) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				ResponseHeaderTimeout: timeout,
				MaxIdleConnsPerHost:   4,
				IdleConnTimeout:       90 * time.Second,
			},
		},
		logger:  logger,
		metrics: m,
	}
}

// BaseURL returns the API base URL the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Close drops idle keep-alive connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// FetchList GETs path and decodes a list of T. The body may be a bare JSON
// array or an envelope whose "data" field is an array. Failures are returned
// inside the Result, never as a panic or a separate error.
func FetchList[T any](ctx context.Context, c *Client, path string) Result[T] {
	body, err := c.get(ctx, path)
	if err != nil {
		c.record(path, "transport", err)
		return Result[T]{Err: err}
	}
	records, err := decodeList[T](body)
	if err != nil {
		c.record(path, "decode", err)
		return Result[T]{Err: err}
	}
	c.record(path, "ok", nil)
	return Result[T]{Records: records}
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	return body, nil
}

func decodeList[T any](body []byte) ([]T, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not JSON", ErrDecode)
	}
	list := gjson.ParseBytes(body)
	if !list.IsArray() {
		list = list.Get("data")
		if !list.IsArray() {
			return nil, fmt.Errorf("%w: no record list in body", ErrDecode)
		}
	}
	out := []T{}
	if err := json.Unmarshal([]byte(list.Raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return out, nil
}

func (c *Client) record(path, outcome string, err error) {
	c.metrics.IncFetch(path, outcome)
	if err != nil {
		c.logger.Warnw("api fetch failed", "url", c.baseURL+path, "outcome", outcome, "err", err)
		return
	}
	c.logger.Debugw("api fetch", "url", c.baseURL+path)
}

// Package inventoryapi talks to the remote inventory API:
//
//	GET    /inventory          -> []InventoryItem
//	GET    /inventory/alerts   -> []AlertRecord
//	GET    /inventory/metrics  -> SummaryMetrics
//	POST   /inventory          <- Draft
//	PUT    /inventory/{id}     <- Draft
//	DELETE /inventory/{id}
//
// Reads are forgiving only about JSON shape: a list endpoint that answers with
// valid JSON other than an array yields an empty collection, and a metrics
// body that is valid JSON but not an object yields zero counters. A body that
// is not JSON at all, or a null metrics body, is an error.
package inventoryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stockdash/models"
)

// ErrNotJSON is returned when a read answers with a body that does not parse.
var ErrNotJSON = errors.New("response body is not JSON")

// StatusError is returned when the API answers a mutation with a non-2xx status.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client is a thin JSON client. It holds no state besides its transport.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient builds a client for baseURL. A zero timeout means requests may
// block until the server answers or ctx is done.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	out := []models.InventoryItem{}
	if err := c.getList(ctx, "/inventory", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListAlerts(ctx context.Context) ([]models.AlertRecord, error) {
	out := []models.AlertRecord{}
	if err := c.getList(ctx, "/inventory/alerts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Metrics(ctx context.Context) (models.SummaryMetrics, error) {
	var m models.SummaryMetrics
	body, err := c.call(ctx, http.MethodGet, "/inventory/metrics", nil)
	if err != nil {
		return m, err
	}
	if err := checkJSON("/inventory/metrics", body); err != nil {
		return m, err
	}
	switch firstByte(body) {
	case '{':
	case 'n':
		return m, fmt.Errorf("decode metrics: null body")
	default:
		return m, nil
	}
	if err := json.Unmarshal(body, &m); err != nil {
		return models.SummaryMetrics{}, fmt.Errorf("decode metrics: %w", err)
	}
	return m, nil
}

// CreateItem posts a draft. The created record is discarded; callers re-read
// the collection to learn the assigned id.
func (c *Client) CreateItem(ctx context.Context, d models.Draft) error {
	_, err := c.call(ctx, http.MethodPost, "/inventory", d)
	return err
}

func (c *Client) UpdateItem(ctx context.Context, id int64, d models.Draft) error {
	_, err := c.call(ctx, http.MethodPut, itemPath(id), d)
	return err
}

func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	_, err := c.call(ctx, http.MethodDelete, itemPath(id), nil)
	return err
}

func itemPath(id int64) string {
	return "/inventory/" + strconv.FormatInt(id, 10)
}

func (c *Client) getList(ctx context.Context, path string, target any) error {
	body, err := c.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := checkJSON(path, body); err != nil {
		return err
	}
	if firstByte(body) != '[' {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// call performs one request. Reads accept any status and let the body shape
// decide; mutations fail on non-2xx.
func (c *Client) call(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if method != http.MethodGet && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

func checkJSON(path string, body []byte) error {
	if !json.Valid(body) {
		return fmt.Errorf("GET %s: %w", path, ErrNotJSON)
	}
	return nil
}

func firstByte(body []byte) byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

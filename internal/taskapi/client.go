package taskapi

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

	"task_frontend/internal/domain"
	"task_frontend/internal/logger"
)

// AuthHeader carries the shared static credential on every request.
const AuthHeader = "auth"

const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Client talks to the remote task backend. Calls are independent round trips:
// no batching, no retry.
type Client struct {
	baseURL    string
	auth       string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client. The default has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func NewClient(baseURL, auth string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		auth:       auth,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("task api %s: status %d - %s", e.Op, e.StatusCode, e.Body)
}

// List fetches every task. A missing or null data field yields an empty list.
// Entries that are null or not records are kept as nil, and a record with a
// malformed field keeps its other fields.
func (c *Client) List(ctx context.Context) ([]*domain.Task, error) {
	body, err := c.do(ctx, OpList, http.MethodGet, "/api/tasks", nil)
	if err != nil {
		return nil, err
	}

	// a body without a usable data array counts as an empty list
	var res listResponse
	if err := json.Unmarshal(body, &res); err != nil {
		logger.Warn("task api list: unexpected body", "error", err)
		return []*domain.Task{}, nil
	}
	if res.Data == nil {
		return []*domain.Task{}, nil
	}
	return decodeTasks(res.Data), nil
}

// Create posts the draft and returns the created record. The record is nil
// when the backend answers without one.
func (c *Client) Create(ctx context.Context, d domain.Draft) (*domain.Task, error) {
	body, err := c.do(ctx, OpCreate, http.MethodPost, "/api/addtask", d)
	if err != nil {
		return nil, err
	}

	var res recordResponse
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &res); err != nil {
			logger.Warn("task api create: unexpected body", "error", err)
			return nil, nil
		}
	}
	return decodeTask(res.Data), nil
}

// Update replaces the task's fields. The backend's answer is not part of the
// contract, so the returned record is best effort and may be nil.
func (c *Client) Update(ctx context.Context, id domain.TaskID, d domain.Draft) (*domain.Task, error) {
	body, err := c.do(ctx, OpUpdate, http.MethodPut, "/api/edittask/"+url.PathEscape(id.String()), d)
	if err != nil {
		return nil, err
	}
	return decodeRecord(body), nil
}

func (c *Client) Delete(ctx context.Context, id domain.TaskID) error {
	_, err := c.do(ctx, OpDelete, http.MethodDelete, "/api/delete/"+url.PathEscape(id.String()), nil)
	return err
}

func (c *Client) do(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	start := time.Now()
	defer func() {
		RequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("task api %s: encode: %w", op, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("task api %s: %w", op, err)
	}
	req.Header.Set(AuthHeader, c.auth)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("task api request", "op", op, "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observe(op, outcomeTransportError)
		return nil, fmt.Errorf("task api %s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observe(op, outcomeTransportError)
		return nil, fmt.Errorf("task api %s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observe(op, outcomeHTTPError)
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	observe(op, outcomeOK)
	return body, nil
}

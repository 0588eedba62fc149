// Package client is a Go client for the timetable REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GoCodeAlone/timetable/comms"
	"github.com/GoCodeAlone/timetable/inventory"
	"github.com/GoCodeAlone/timetable/material"
	"github.com/GoCodeAlone/timetable/server/api"
	"github.com/GoCodeAlone/timetable/suggest"
	"github.com/GoCodeAlone/timetable/task"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client holds HTTP client state for talking to a timetable server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a Client for the server at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// do performs a request with an optional JSON body and decodes the JSON
// response into v (may be nil).
func (c *Client) do(ctx context.Context, method, path string, body, v any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(b))
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(b, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if v == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Status returns the server status.
func (c *Client) Status(ctx context.Context) (*api.Status, error) {
	var st api.Status
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// ListTasks returns tasks matching f, ordered by start time.
func (c *Client) ListTasks(ctx context.Context, f task.Filter) ([]*task.Task, error) {
	q := url.Values{}
	if f.OperatorID != "" {
		q.Set("operator", f.OperatorID)
	}
	if f.OperationID != "" {
		q.Set("operation", f.OperationID)
	}
	if f.From != nil {
		q.Set("from", f.From.Format(time.RFC3339))
	}
	if f.To != nil {
		q.Set("to", f.To.Format(time.RFC3339))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}
	path := "/api/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var tasks []*task.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask retrieves a task by ID.
func (c *Client) GetTask(ctx context.Context, id string) (*task.Task, error) {
	var t task.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// PutTask adds t (empty ID) or replaces the stored task with its ID, and
// returns the task as saved.
func (c *Client) PutTask(ctx context.Context, t *task.Task) (*task.Task, error) {
	var saved task.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", t, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteTask removes a task by ID.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}

// ListInventory returns every inventory item ordered by name.
func (c *Client) ListInventory(ctx context.Context) ([]inventory.Item, error) {
	var items []inventory.Item
	if err := c.do(ctx, http.MethodGet, "/api/inventory", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetInventoryItem retrieves an inventory item by name.
func (c *Client) GetInventoryItem(ctx context.Context, name string) (inventory.Item, error) {
	var item inventory.Item
	err := c.do(ctx, http.MethodGet, "/api/inventory/"+url.PathEscape(name), nil, &item)
	return item, err
}

// PutInventoryItem inserts or replaces an inventory item.
func (c *Client) PutInventoryItem(ctx context.Context, item inventory.Item) error {
	return c.do(ctx, http.MethodPost, "/api/inventory", item, nil)
}

// CheckMaterials evaluates materials against the server's inventory.
func (c *Client) CheckMaterials(ctx context.Context, materials material.List) (*api.CheckResponse, error) {
	var resp api.CheckResponse
	if err := c.do(ctx, http.MethodPost, "/api/materials/check", api.CheckRequest{Materials: materials}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Suggest asks the server for a start time for requirement.
func (c *Client) Suggest(ctx context.Context, requirement string) (*suggest.Suggestion, error) {
	var sug suggest.Suggestion
	if err := c.do(ctx, http.MethodPost, "/api/suggest", api.SuggestRequest{Requirement: requirement}, &sug); err != nil {
		return nil, err
	}
	return &sug, nil
}

// Changes returns up to limit recent change events of type t ("" for all).
func (c *Client) Changes(ctx context.Context, t comms.EventType, limit int) ([]*comms.Event, error) {
	q := url.Values{}
	if t != "" {
		q.Set("type", string(t))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/changes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var events []*comms.Event
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Snapshot is a consistent view of the data a scheduling form works from.
type Snapshot struct {
	Tasks     []*task.Task
	Inventory []inventory.Item
}

// Snapshot fetches all tasks and the inventory concurrently. On any failure
// nothing is returned, so callers can keep their previous snapshot.
func (c *Client) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tasks, err := c.ListTasks(ctx, task.Filter{})
		if err != nil {
			return fmt.Errorf("load tasks: %w", err)
		}
		snap.Tasks = tasks
		return nil
	})
	g.Go(func() error {
		items, err := c.ListInventory(ctx)
		if err != nil {
			return fmt.Errorf("load inventory: %w", err)
		}
		snap.Inventory = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

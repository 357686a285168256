package tasks

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
)

// ErrNotFound is returned when the task store has no task with the given id.
var ErrNotFound = errors.New("task not found")

// DefaultUserID is the owner recorded on tasks created by this client.
const DefaultUserID = "user"

// StatusError is returned for non-2xx responses from the task store.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Code, e.Body)
}

// Listing is the body of the task-store listing endpoint.
type Listing struct {
	Value []Task `json:"value"`
}

// Client talks to the task-store endpoint (GET/POST on the collection,
// DELETE/PATCH on "<endpoint>/<id>").
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a task-store client. A nil httpClient uses http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     httpClient,
	}
}

// Endpoint returns the collection URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// List fetches the task collection. A non-2xx status or a body without a
// "value" array is an error; an empty array is a valid result.
func (c *Client) List(ctx context.Context) ([]Task, error) {
	var listing struct {
		Value *[]Task `json:"value"`
	}
	if err := c.do(ctx, "list tasks", http.MethodGet, c.endpoint, nil, &listing); err != nil {
		return nil, err
	}
	if listing.Value == nil {
		return nil, fmt.Errorf("list tasks: malformed body: missing value array")
	}
	return *listing.Value, nil
}

// Add creates a pending task with the given text.
func (c *Client) Add(ctx context.Context, text string) (Task, error) {
	body := Task{Text: text, Completed: false, UserID: DefaultUserID}
	var created Task
	if err := c.do(ctx, "add task", http.MethodPost, c.endpoint, body, &created); err != nil {
		return Task{}, err
	}
	return created, nil
}

// Remove deletes the task with the given id.
func (c *Client) Remove(ctx context.Context, id int) error {
	return c.do(ctx, "remove task", http.MethodDelete, c.itemURL(id), nil, nil)
}

// Complete sets the completed flag of the task with the given id.
func (c *Client) Complete(ctx context.Context, id int, completed bool) (Task, error) {
	body := map[string]bool{"Completed": completed}
	var updated Task
	if err := c.do(ctx, "complete task", http.MethodPatch, c.itemURL(id), body, &updated); err != nil {
		return Task{}, err
	}
	return updated, nil
}

func (c *Client) itemURL(id int) string {
	return c.endpoint + "/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, op, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && method != http.MethodGet {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: malformed body: %w", op, err)
	}
	return nil
}

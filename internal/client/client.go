// Package client implements the executor's view of the relay: the queue
// store collaborator surface (readFile, saveFile, deleteFile, listFiles)
// over HTTP with bearer-token authentication.
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
	"time"

	"taskrelay/internal/logging"
)

// ErrRemote marks a request the relay received but answered with a
// domain failure (success=false). Transport errors are returned as-is so
// callers can tell "server said no" from "server unreachable".
var ErrRemote = errors.New("relay reported failure")

// Client talks to a relay server.
type Client struct {
	baseURL     string
	token       string
	listTimeout time.Duration
	http        *http.Client
}

// New creates a relay client. listTimeout bounds only the ListFiles call;
// other calls run under the caller's context.
func New(baseURL, token string, listTimeout time.Duration) *Client {
	return &Client{
		baseURL:     baseURL,
		token:       token,
		listTimeout: listTimeout,
		http:        &http.Client{},
	}
}

// Close releases idle connections. The client is unusable afterwards only
// in the sense that new requests will redial.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// envelope mirrors the relay's JSON response shape.
type envelope struct {
	Success bool     `json:"success"`
	Content string   `json:"content"`
	Files   []string `json:"files"`
	Error   string   `json:"error"`
}

// ReadFile fetches a document's content.
func (c *Client) ReadFile(ctx context.Context, collection, name string) (string, error) {
	query := url.Values{"type": {collection}, "filename": {name}}
	env, err := c.get(ctx, "/read_file", query)
	if err != nil {
		return "", err
	}
	if !env.Success {
		return "", fmt.Errorf("%w: %s", ErrRemote, env.Error)
	}
	return env.Content, nil
}

// SaveFile writes a document, overwriting any existing one.
func (c *Client) SaveFile(ctx context.Context, collection, name, content string) error {
	env, err := c.post(ctx, "/save_file", map[string]string{
		"type": collection, "filename": name, "content": content,
	})
	if err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("%w: %s", ErrRemote, env.Error)
	}
	return nil
}

// DeleteFile removes a document.
func (c *Client) DeleteFile(ctx context.Context, collection, name string) error {
	env, err := c.post(ctx, "/delete_file", map[string]string{
		"type": collection, "filename": name,
	})
	if err != nil {
		return err
	}
	if !env.Success {
		return fmt.Errorf("%w: %s", ErrRemote, env.Error)
	}
	return nil
}

// ListFiles lists pending document names in a collection. The call is
// bounded by the client's list timeout so a hung relay cannot stall the
// poll loop indefinitely.
func (c *Client) ListFiles(ctx context.Context, collection string) ([]string, error) {
	if c.listTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.listTimeout)
		defer cancel()
	}

	env, err := c.get(ctx, "/list_commands", url.Values{"type": {collection}})
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", ErrRemote, env.Error)
	}
	return env.Files, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body map[string]string) (*envelope, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)

	logging.ClientDebug("%s %s", req.Method, req.URL.Path)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to decode response (status %d): %w %s", resp.StatusCode, err, body)
	}
	return &env, nil
}

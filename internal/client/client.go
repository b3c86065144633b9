// Package client is a typed HTTP client for the inventory REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/RaviGowdaS/InventoryManagement/internal/model"
)

// APIError is a failed envelope returned by the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return e.Message
}

// Client talks to one inventory server on behalf of one token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for baseURL. An empty token issues unauthenticated
// requests; set one with SetToken after logging in.
func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the server the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// SetToken replaces the bearer token sent with each request.
func (c *Client) SetToken(token string) { c.token = token }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type authData struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

type itemData struct {
	Item *model.Item `json:"item"`
}

// do sends body as JSON and decodes the envelope's data into out. Either may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Status: resp.StatusCode}
		}
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding %s %s data: %w", method, path, err)
		}
	}
	return nil
}

// Register creates an account and returns it with a fresh token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	var out authData
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return nil, "", err
	}
	return out.User, out.Token, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	var out authData
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, "", err
	}
	return out.User, out.Token, nil
}

// Profile returns the user the token belongs to.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var out struct {
		User *model.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Logout revokes the current token on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// ListItems fetches one page of active items matching f.
func (c *Client) ListItems(ctx context.Context, f model.ItemFilter) (*model.ItemPage, error) {
	f = f.Normalized()
	q := url.Values{}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("limit", strconv.Itoa(f.Limit))
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}

	var page model.ItemPage
	if err := c.do(ctx, http.MethodGet, "/api/items?"+q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []model.Item{}
	}
	return &page, nil
}

// GetItem fetches a single item by id.
func (c *Client) GetItem(ctx context.Context, id string) (*model.Item, error) {
	var out itemData
	if err := c.do(ctx, http.MethodGet, "/api/items/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out.Item, nil
}

// CreateItem creates an item owned by the token's user.
func (c *Client) CreateItem(ctx context.Context, in model.ItemInput) (*model.Item, error) {
	var out itemData
	if err := c.do(ctx, http.MethodPost, "/api/items", in, &out); err != nil {
		return nil, err
	}
	return out.Item, nil
}

// UpdateItem applies the supplied fields of in to the item.
func (c *Client) UpdateItem(ctx context.Context, id string, in model.ItemInput) (*model.Item, error) {
	var out itemData
	if err := c.do(ctx, http.MethodPut, "/api/items/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return out.Item, nil
}

// DeleteItem removes the item.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/items/"+url.PathEscape(id), nil, nil)
}

// Categories lists the distinct categories of active items.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/items/categories", nil, &out); err != nil {
		return nil, err
	}
	if out.Categories == nil {
		out.Categories = []string{}
	}
	return out.Categories, nil
}

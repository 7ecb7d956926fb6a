// Package orderclient is a small REST client for the click & collect order API.
package orderclient

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

	"click-collect/models"

	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// Client talks to the order API rooted at baseURL (for example
// "http://localhost:8080/api").
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.SugaredLogger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateOrder submits a new order and returns it with its order number.
func (c *Client) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	var order models.Order
	if _, err := c.do(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches the current state of an order.
func (c *Client) GetOrder(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	if _, err := c.do(ctx, http.MethodGet, orderPath(orderNumber), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkCollected confirms pickup. The returned order is nil when the server
// answers 204 No Content.
func (c *Client) MarkCollected(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	status, err := c.do(ctx, http.MethodPost, orderPath(orderNumber)+"/collect", nil, &order)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	return &order, nil
}

// SubmitReview rates a collected order.
func (c *Client) SubmitReview(ctx context.Context, orderNumber string, req models.ReviewRequest) (*models.Review, error) {
	var review models.Review
	if _, err := c.do(ctx, http.MethodPost, orderPath(orderNumber)+"/review", req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// GetReview returns the order's review, or nil when none has been left.
func (c *Client) GetReview(ctx context.Context, orderNumber string) (*models.Review, error) {
	var resp struct {
		Review *models.Review `json:"review"`
	}
	if _, err := c.do(ctx, http.MethodGet, orderPath(orderNumber)+"/review", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Review, nil
}

// ListRestaurants returns the public restaurant catalogue.
func (c *Client) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var resp struct {
		Restaurants []models.Restaurant `json:"restaurants"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/restaurants", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Restaurants, nil
}

// GetRestaurant looks a restaurant up by slug.
func (c *Client) GetRestaurant(ctx context.Context, slug string) (*models.Restaurant, error) {
	var resp struct {
		Restaurant models.Restaurant `json:"restaurant"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/restaurants/"+url.PathEscape(slug), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Restaurant, nil
}

// GetMenu returns a restaurant's menu in display order, unavailable items included.
func (c *Client) GetMenu(ctx context.Context, slug string) ([]models.MenuItem, error) {
	var resp struct {
		Menu []models.MenuItem `json:"menu"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/restaurants/"+url.PathEscape(slug)+"/menu", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Menu, nil
}

func orderPath(orderNumber string) string {
	return "/orders/" + url.PathEscape(orderNumber)
}

// do performs one request. Non-2xx responses become *APIError; transport and
// decoding failures are wrapped with the method and path.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debugw("order api request failed", "method", method, "path", path, "error", err)
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	c.logger.Debugw("order api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, newAPIError(resp.StatusCode, data)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return resp.StatusCode, nil
}

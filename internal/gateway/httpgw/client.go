// Package httpgw implements the persistence gateway port against the
// komsyte backend's JSON API.
package httpgw

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/komsyte/pos-engine/internal/gateway"
)

var _ gateway.Gateway = (*Client)(nil)

// Client talks to the remote persistence service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithBearerToken attaches an Authorization header to every request.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// NewClient instantiates the gateway client with sane defaults.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("gateway base URL is required")
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// FetchCatalog loads the restaurant menu.
func (c *Client) FetchCatalog(ctx context.Context) ([]gateway.ProductRecord, error) {
	var products []gateway.ProductRecord
	if err := c.do(ctx, http.MethodGet, "/api/restaurant/menu", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchStock loads the product list with current quantities.
func (c *Client) FetchStock(ctx context.Context) ([]gateway.ProductRecord, error) {
	var products []gateway.ProductRecord
	if err := c.do(ctx, http.MethodGet, "/api/stock", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchTables loads the restaurant floor layout.
func (c *Client) FetchTables(ctx context.Context) ([]gateway.TableRecord, error) {
	var tables []gateway.TableRecord
	if err := c.do(ctx, http.MethodGet, "/api/restaurant/tables", nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// FetchOrder loads the open order for an occupied table.
func (c *Client) FetchOrder(ctx context.Context, tableNumber int) ([]gateway.LineRecord, error) {
	var payload struct {
		Items []gateway.LineRecord `json:"items"`
	}
	path := fmt.Sprintf("/api/restaurant/order/%d", tableNumber)
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// SubmitKOT sends the given lines to the kitchen for the table.
func (c *Client) SubmitKOT(ctx context.Context, tableNumber int, lines []gateway.LineRecord) error {
	body := struct {
		TableNumber int                  `json:"tableNumber"`
		Items       []gateway.LineRecord `json:"items"`
	}{TableNumber: tableNumber, Items: lines}
	return c.do(ctx, http.MethodPost, "/api/restaurant/kot", body, nil)
}

// CloseTable settles the table's order on the backend.
func (c *Client) CloseTable(ctx context.Context, tableNumber int) error {
	body := struct {
		TableNumber int `json:"tableNumber"`
	}{TableNumber: tableNumber}
	return c.do(ctx, http.MethodPost, "/api/restaurant/close-bill", body, nil)
}

// FinalizeBill persists an immutable bill; the backend decrements stock.
func (c *Client) FinalizeBill(ctx context.Context, bill gateway.BillRecord) error {
	return c.do(ctx, http.MethodPost, "/api/bills", bill, nil)
}

// AdjustStock adds deltaQty units to the product identified by barcode.
func (c *Client) AdjustStock(ctx context.Context, barcode string, deltaQty int) error {
	body := struct {
		Barcode     string `json:"barcode"`
		Quantity    int    `json:"quantity"`
		UpdateStock bool   `json:"updateStock"`
	}{Barcode: barcode, Quantity: deltaQty, UpdateStock: true}
	return c.do(ctx, http.MethodPost, "/api/products", body, nil)
}

// RegisterProduct creates a new catalog entry.
func (c *Client) RegisterProduct(ctx context.Context, product gateway.ProductRecord) error {
	return c.do(ctx, http.MethodPost, "/api/products", product, nil)
}

// DeleteProduct permanently removes a catalog entry.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/stock/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode gateway request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &gateway.Error{Kind: gateway.KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return classify(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &gateway.Error{Kind: gateway.KindRemote, Status: resp.StatusCode, Message: "malformed gateway response", Err: err}
	}
	return nil
}

// classify maps an error response to the engine's failure taxonomy,
// preferring the remote-provided message when one is present.
func classify(resp *http.Response) error {
	kind := gateway.KindRemote
	if resp.StatusCode == http.StatusNotFound {
		kind = gateway.KindNotFound
	}
	return &gateway.Error{
		Kind:    kind,
		Status:  resp.StatusCode,
		Message: remoteMessage(resp.Body),
	}
}

func remoteMessage(body io.Reader) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 1<<16)).Decode(&payload); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(payload.Error); msg != "" {
		return msg
	}
	return strings.TrimSpace(payload.Message)
}

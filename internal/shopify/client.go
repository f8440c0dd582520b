// Package shopify talks to the Shopify GraphQL Admin API.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"storepilot/config"
)

// Executor runs one GraphQL document against the store.
type Executor interface {
	Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}

// TransportError is a failure to get a JSON answer from the Admin API:
// network errors, non-2xx statuses and bodies that are not JSON.
type TransportError struct {
	StatusCode int // 0 when no response was received
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode == 0:
		return fmt.Sprintf("shopify request failed: %v", e.Err)
	case e.Err != nil:
		return fmt.Sprintf("shopify returned %d: %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("shopify returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client posts GraphQL documents to the Admin API endpoint.
type Client struct {
	client   *resty.Client
	endpoint string
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

func NewClient(cfg config.ShopifyConfig) *Client {
	c := resty.New().
		SetHeader("X-Shopify-Access-Token", cfg.AccessToken).
		SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}
	return &Client{
		client:   c,
		endpoint: cfg.GraphQLURL(),
	}
}

// Execute sends the document and returns the response body as-is. GraphQL
// level errors (an "errors" array in a 200 response) are data, not errors.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(graphQLRequest{Query: query, Variables: variables}).
		Post(c.endpoint)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.IsError() {
		return nil, &TransportError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	body := resp.Body()
	if !json.Valid(body) {
		return nil, &TransportError{StatusCode: resp.StatusCode(), Err: fmt.Errorf("malformed JSON response")}
	}
	return json.RawMessage(body), nil
}

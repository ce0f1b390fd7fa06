// Package api is the REST client for the coaching platform. It owns the
// entity types and the response-envelope handling; the resource packages
// bind its endpoint methods to optimistic stores.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the production API origin.
const DefaultBaseURL = "https://api.coachkit.app"

// Error is a failed API call, carrying the server's message when the
// response envelope had one.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

// Client talks to the coaching platform API.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	apiKey  string
	tokens  oauth2.TokenSource
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client (e.g. one with a caching
// transport).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBaseURL overrides the API origin.
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if u, err := url.Parse(raw); err == nil {
			c.baseURL = u
		}
	}
}

// WithAPIKey authenticates requests with a static key header.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithTokenSource authenticates requests with bearer tokens from ts,
// taking precedence over any API key.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the request logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates an API client.
func New(opts ...Option) *Client {
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		http:    http.DefaultClient,
		baseURL: u,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) newReq(ctx context.Context, method, p string, body any) (*http.Request, error) {
	u := *c.baseURL
	u.Path = path.Join(u.Path, p)

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("token source: %w", err)
		}
		tok.SetAuthHeader(req)
	} else if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
	return req, nil
}

// do performs the request and decodes the response envelope. For 2xx
// responses an unparseable body yields an empty envelope rather than an
// error; collections default to empty downstream. For other statuses the
// envelope's message is surfaced when present, else fallbackMsg.
func (c *Client) do(ctx context.Context, method, p string, body any, fallbackMsg string) (*envelope, error) {
	req, err := c.newReq(ctx, method, p, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, p, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, p, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		env = envelope{}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = fallbackMsg
		}
		c.log.Debug().Int("status", resp.StatusCode).Str("path", p).Msg("api call failed")
		return nil, &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	return &env, nil
}

// decodeList unmarshals an envelope collection, defaulting to empty on
// missing or malformed payloads.
func decodeList[T any](raw json.RawMessage) []T {
	if len(raw) == 0 {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return []T{}
	}
	return items
}

// decodeOne unmarshals a single entity from an envelope's data field.
// Unlike collections, a missing entity is an error: mutations reconcile
// against the server's copy and cannot proceed without one.
func decodeOne[T any](raw json.RawMessage) (T, error) {
	var item T
	if len(raw) == 0 {
		return item, errors.New("response missing entity data")
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return item, fmt.Errorf("decode entity: %w", err)
	}
	return item, nil
}

// Package api implements the subset of the scheduling API used to provision
// calendars: authentication, admin lookup, calendar and opening hours creation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http/httpproxy"
)

// DefaultTimeout bounds every request to the scheduling API.
const DefaultTimeout = 10 * time.Second

// Tokens that expire within this margin are renewed before use.
const refreshMargin = time.Minute

const maxErrorBody = 512

type Options struct {
	Timeout time.Duration
	Proxy   *httpproxy.Config
	Logger  *slog.Logger
}

// Client is a scheduling API client. It is not safe for concurrent use.
type Client struct {
	base   string
	client *http.Client
	log    *slog.Logger
	now    func() time.Time

	token       string
	expires     time.Time
	credentials credentials
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewClient(base string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	log := options.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxy(options.Proxy)

	return &Client{
		base: strings.TrimRight(strings.TrimSpace(base), "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		log: log,
		now: time.Now,
	}
}

func (c *Client) BaseURL() string {
	return c.base
}

func proxy(config *httpproxy.Config) func(*http.Request) (*url.URL, error) {
	if config == nil {
		config = httpproxy.FromEnvironment()
	}

	f := config.ProxyFunc()

	return func(rq *http.Request) (*url.URL, error) {
		return f(rq.URL)
	}
}

func (c *Client) post(ctx context.Context, path string, request any, response any) error {
	return c.do(ctx, http.MethodPost, path, request, response, true)
}

func (c *Client) get(ctx context.Context, path string, response any) error {
	return c.do(ctx, http.MethodGet, path, nil, response, true)
}

func (c *Client) do(ctx context.Context, method, path string, request any, response any, authorised bool) error {
	if authorised {
		if err := c.renew(ctx); err != nil {
			return err
		}
	}

	var body io.Reader
	if request != nil {
		b, err := json.Marshal(request)
		if err != nil {
			return err
		}

		body = bytes.NewReader(b)
	}

	uri := c.base + path
	rq, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return err
	}

	rq.Header.Set("Accept", "application/json")
	rq.Header.Set("X-Request-Id", uuid.NewString())
	if request != nil {
		rq.Header.Set("Content-Type", "application/json")
	}

	if authorised && c.token != "" {
		rq.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	rs, err := c.client.Do(rq)
	if err != nil {
		return err
	}

	defer rs.Body.Close()

	c.log.Debug("api", "method", method, "path", path, "status", rs.StatusCode, "duration", time.Since(start))

	if rs.StatusCode < 200 || rs.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(rs.Body, maxErrorBody))

		return &HTTPError{
			Method:     method,
			URL:        uri,
			StatusCode: rs.StatusCode,
			Body:       strings.TrimSpace(string(b)),
		}
	}

	if response != nil {
		if err := json.NewDecoder(rs.Body).Decode(response); err != nil {
			return fmt.Errorf("invalid response from %v %v (%w)", method, path, err)
		}
	}

	return nil
}

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	ghAPI "github.com/cli/go-gh/v2/pkg/api"
)

// Client talks to a Hound server's JSON API.
type Client struct {
	rest *ghAPI.RESTClient
	base string
}

type Options struct {
	// Server is the base URL of the Hound instance, e.g. http://localhost:6080.
	Server string
	// Token is sent as a bearer token, for servers behind an auth proxy.
	Token     string
	Timeout   time.Duration
	Transport http.RoundTripper
	UserAgent string
	// Log receives a dump of every request when set.
	Log        io.Writer
	LogVerbose bool
}

func NewClient(opts Options) (*Client, error) {
	base, err := normalizeServer(opts.Server)
	if err != nil {
		return nil, err
	}
	u, _ := url.Parse(base)

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	headers := map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json; charset=utf-8",
	}
	if opts.UserAgent != "" {
		headers["User-Agent"] = opts.UserAgent
	}

	// go-gh only attaches credentials to requests for Host. Without a
	// token, Host points at a name no request is ever sent to.
	host, token := u.Hostname(), opts.Token
	if token == "" {
		host, token = "hound-tui.invalid", "none"
	} else {
		headers["Authorization"] = "Bearer " + token
	}

	rest, err := ghAPI.NewRESTClient(ghAPI.ClientOptions{
		Host:           host,
		AuthToken:      token,
		Transport:      transport,
		Headers:        headers,
		Timeout:        opts.Timeout,
		Log:            opts.Log,
		LogIgnoreEnv:   true,
		LogVerboseHTTP: opts.LogVerbose,
	})
	if err != nil {
		return nil, fmt.Errorf("create hound client: %w", err)
	}
	return &Client{rest: rest, base: base}, nil
}

// Server returns the normalized base URL requests are sent to.
func (c *Client) Server() string {
	return c.base
}

func (c *Client) endpoint(path string) string {
	return c.base + "/api/v1/" + strings.TrimPrefix(path, "/")
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.rest.DoWithContext(ctx, http.MethodGet, c.endpoint(path), nil, result)
}

func normalizeServer(server string) (string, error) {
	server = strings.TrimSpace(server)
	if server == "" {
		return "", fmt.Errorf("server URL is required (use --server or HOUND_TUI_SERVER)")
	}
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("parse server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("server URL must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("server URL %q has no host", server)
	}
	u.RawQuery, u.Fragment = "", ""
	return strings.TrimRight(u.String(), "/"), nil
}

// StatusCode returns the HTTP status of a failed request, or 0 when the
// request never got a response.
func StatusCode(err error) int {
	var httpErr *ghAPI.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

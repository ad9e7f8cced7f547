package net

import (
	"errors"
	"fmt"
	stdnet "net"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"
)

var (
	// ErrTooManyRedirects is returned when a redirect chain exceeds the client limit
	ErrTooManyRedirects = errors.New("too many redirects")
	// ErrMissingLocation is returned for a redirect response without a Location header
	ErrMissingLocation = errors.New("redirect without location header")
)

// Client is a wrapper around fasthttp.Client
type Client struct {
	client       *fasthttp.Client
	timeout      time.Duration
	maxRedirects int
	userAgent    string
}

// Option customises a Client
type Option func(*Client)

// WithDial routes every connection through dial instead of the network.
func WithDial(dial func(addr string) (stdnet.Conn, error)) Option {
	return func(c *Client) {
		c.client.Dial = dial
	}
}

// WithMaxRedirects caps how many redirects Fetch follows.
func WithMaxRedirects(n int) Option {
	return func(c *Client) {
		c.maxRedirects = n
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a new HTTP client with a per-request timeout in seconds
func NewClient(timeout int, opts ...Option) *Client {
	c := &Client{
		client: &fasthttp.Client{
			MaxConnsPerHost:          512,
			ReadTimeout:              time.Duration(timeout) * time.Second,
			WriteTimeout:             time.Duration(timeout) * time.Second,
			NoDefaultUserAgentHeader: true,
		},
		timeout:      time.Duration(timeout) * time.Second,
		maxRedirects: 30,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Response is the outcome of a Fetch once every redirect has been followed
type Response struct {
	Status    int
	FinalURL  string
	Redirects int
}

// Fetch performs a GET request, following redirects until a non-redirect
// response arrives. The whole chain shares one timeout.
func (c *Client) Fetch(target string) (*Response, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	deadline := time.Now().Add(c.timeout)
	current := target

	for redirects := 0; ; redirects++ {
		req.Reset()
		resp.Reset()
		req.SetRequestURI(current)
		req.Header.SetMethod(fasthttp.MethodGet)
		if c.userAgent != "" {
			req.Header.SetUserAgent(c.userAgent)
		}

		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}

		status := resp.StatusCode()
		if !isRedirect(status) {
			return &Response{Status: status, FinalURL: current, Redirects: redirects}, nil
		}
		if redirects >= c.maxRedirects {
			return nil, ErrTooManyRedirects
		}

		location := resp.Header.Peek(fasthttp.HeaderLocation)
		if len(location) == 0 {
			return nil, ErrMissingLocation
		}
		next, err := resolve(current, string(location))
		if err != nil {
			return nil, fmt.Errorf("bad redirect location %q: %w", location, err)
		}
		current = next
	}
}

// GetBody performs a GET request and returns the body
func (c *Client) GetBody(target string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(target)
	req.Header.SetMethod(fasthttp.MethodGet)
	if c.userAgent != "" {
		req.Header.SetUserAgent(c.userAgent)
	}

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode(), target)
	}

	// Copy body because ReleaseResponse recycles it
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())

	return body, nil
}

func isRedirect(status int) bool {
	switch status {
	case fasthttp.StatusMovedPermanently,
		fasthttp.StatusFound,
		fasthttp.StatusSeeOther,
		fasthttp.StatusTemporaryRedirect,
		fasthttp.StatusPermanentRedirect:
		return true
	}
	return false
}

// resolve turns a Location header into an absolute URL relative to base
func resolve(base, location string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(ref).String(), nil
}

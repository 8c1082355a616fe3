package sentry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/samber/lo"
	"github.com/sthembisoo/sentry-worker/cmd/sentry/types"
)

const (
	ClientName    = "sentry-worker"
	ClientVersion = "1.0.0"
	ClientID      = ClientName + "/" + ClientVersion

	eventLogger   = "worker"
	eventPlatform = "javascript"
	authVersion   = 7
)

// Config is the client configuration
type Config struct {
	// DSN is the connection string controlling where events are sent. Required.
	DSN string
	// Transport issues the request. Defaults to a resty client.
	Transport Transport
}

// CaptureOptions carries optional event metadata. Empty strings and nil maps or slices
// are left out of the event; empty non-nil maps and slices are sent.
type CaptureOptions struct {
	Level       types.Level
	Extra       map[string]any
	Tags        map[string]string
	Release     string
	Dist        string
	Environment string
	ServerName  string
	Transaction string
	User        types.User
	Fingerprint []string
	Request     types.Request
	Breadcrumbs []types.Breadcrumb
}

// Result is the outcome of an asynchronous report
type Result struct {
	Response *http.Response
	Err      error
}

// Client builds one store request per reported error and hands it to its transport.
// It holds no state besides its configuration and is safe for concurrent use.
type Client struct {
	dsn       *DSN
	transport Transport
}

// New parses the DSN and creates a client
func New(cfg Config) (*Client, error) {
	dsn, err := ParseDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}

	transport := cfg.Transport
	if transport == nil {
		transport = NewRestyTransport(nil)
	}

	return &Client{dsn: dsn, transport: transport}, nil
}

// DSN returns the parsed destination
func (c *Client) DSN() DSN {
	return *c.dsn
}

// StoreURL is the URL every event is POSTed to
func (c *Client) StoreURL() string {
	return c.dsn.StoreURL()
}

// Report sends err to the collector and returns the transport's response unmodified.
// Nothing is sent when the stack cannot be extracted. Transport errors are returned as is
// and never retried.
func (c *Client) Report(ctx context.Context, err error, opts *CaptureOptions) (*http.Response, error) {
	req, buildErr := c.newRequest(ctx, err, opts, 1)
	if buildErr != nil {
		return nil, buildErr
	}
	return c.transport.Do(req)
}

// ReportAsync builds the request synchronously and issues it on a new goroutine.
// The returned channel receives exactly one Result.
func (c *Client) ReportAsync(ctx context.Context, err error, opts *CaptureOptions) <-chan Result {
	result := make(chan Result, 1)

	req, buildErr := c.newRequest(ctx, err, opts, 1)
	if buildErr != nil {
		result <- Result{Err: buildErr}
		close(result)
		return result
	}

	go func() {
		defer close(result)
		resp, err := c.transport.Do(req)
		result <- Result{Response: resp, Err: err}
	}()
	return result
}

// BuildEvent returns the document Report would send for err
func (c *Client) BuildEvent(err error, opts *CaptureOptions) (*types.Event, error) {
	return c.buildEvent(err, opts, 1)
}

func (c *Client) newRequest(ctx context.Context, err error, opts *CaptureOptions, skip int) (*http.Request, error) {
	event, buildErr := c.buildEvent(err, opts, skip+1)
	if buildErr != nil {
		return nil, buildErr
	}

	body, buildErr := json.Marshal(event)
	if buildErr != nil {
		return nil, fmt.Errorf("failed to encode event: %w", buildErr)
	}

	req, buildErr := http.NewRequestWithContext(ctx, http.MethodPost, c.dsn.StoreURL(), bytes.NewReader(body))
	if buildErr != nil {
		return nil, fmt.Errorf("failed to create request: %w", buildErr)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", ClientID)
	req.Header.Set("X-Sentry-Auth", c.authHeader())

	return req, nil
}

func (c *Client) buildEvent(err error, opts *CaptureOptions, skip int) (*types.Event, error) {
	frames, extractErr := extractFrames(err, skip+1)
	if extractErr != nil {
		return nil, extractErr
	}

	if opts == nil {
		opts = &CaptureOptions{}
	}

	return &types.Event{
		Logger:      eventLogger,
		Platform:    eventPlatform,
		Level:       opts.Level,
		Extra:       opts.Extra,
		Fingerprint: opts.Fingerprint,
		Exception: types.ExceptionList{
			Values: []types.Exception{{
				Type:       exceptionType(err),
				Value:      err.Error(),
				Stacktrace: types.Stacktrace{Frames: frames},
			}},
		},
		Tags:        opts.Tags,
		User:        opts.User,
		Request:     opts.Request,
		ServerName:  opts.ServerName,
		Transaction: opts.Transaction,
		Release:     opts.Release,
		Dist:        opts.Dist,
		Environment: opts.Environment,
		Breadcrumbs: opts.Breadcrumbs,
	}, nil
}

func (c *Client) authHeader() string {
	return fmt.Sprintf("Sentry sentry_version=%d, sentry_client=%s, sentry_key=%s", authVersion, ClientID, c.dsn.PublicKey)
}

// exceptionType prefers an explicit ErrorType() name anywhere in the chain over the Go type
func exceptionType(err error) string {
	var named interface{ ErrorType() string }
	if errors.As(err, &named) {
		return lo.Ternary(named.ErrorType() != "", named.ErrorType(), fmt.Sprintf("%T", err))
	}
	return fmt.Sprintf("%T", err)
}

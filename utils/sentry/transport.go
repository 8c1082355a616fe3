package sentry

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Transport issues the request built for an event and returns the collector's response.
// *http.Client satisfies it.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// TransportFunc adapts a plain function to Transport
type TransportFunc func(req *http.Request) (*http.Response, error)

func (f TransportFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// restyTransport is the default transport. Resty retries are left disabled.
type restyTransport struct {
	client *resty.Client
}

// NewRestyTransport sends requests through client, or a fresh resty client when nil
func NewRestyTransport(client *resty.Client) Transport {
	if client == nil {
		client = resty.New()
	}
	return &restyTransport{client: client}
}

func (t *restyTransport) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		body = b
	}

	response, err := t.client.R().
		SetContext(req.Context()).
		SetHeaderMultiValues(req.Header).
		SetBody(body).
		Execute(req.Method, req.URL.String())
	if err != nil {
		return nil, err
	}

	// resty has already drained the body; hand callers a readable copy
	raw := response.RawResponse
	raw.Body = io.NopCloser(bytes.NewReader(response.Body()))
	return raw, nil
}

package fetcher

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Transport is an http.RoundTripper backed by Client, so libraries such as
// go-github share its throttling and retries. Responses of every status are
// returned as-is so callers can interpret them.
type Transport struct {
	client *Client
}

// NewTransport creates a new Transport
func NewTransport(client *Client) *Transport {
	return &Transport{client: client}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != "" && req.Method != http.MethodGet {
		return nil, fmt.Errorf("unsupported method %s", req.Method)
	}

	extraHeaders := make(map[string]string)
	for k, v := range req.Header {
		if len(v) > 0 {
			extraHeaders[k] = v[0]
		}
	}

	resp, err := t.client.roundTrip(req.Context(), req.URL.String(), extraHeaders)
	if resp == nil {
		return nil, err
	}

	// The body is already decompressed; a stale Content-Encoding would make
	// the caller try to decompress it again.
	resp.Headers.Del("Content-Encoding")

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		StatusCode:    resp.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        resp.Headers,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       req,
	}, nil
}

// Transport returns the client as an http.RoundTripper
func (c *Client) Transport() http.RoundTripper {
	return NewTransport(c)
}

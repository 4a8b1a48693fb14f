// Package middleware provides http client middleware wrappers
package middleware

import "net/http"

// Client provides common interface for client-side http middleware
type Client interface {
	Preprocess(req *http.Request) (*http.Request, error)
	Postprocess(resp *http.Response) (*http.Response, error)
}

// Transport provides generic http client middleware with intercepting callbacks
type Transport struct {
	Transport   http.RoundTripper
	Middlewares []Client
}

// NewClient returns http client applying given middlewares on default transport
func NewClient(middlewares ...Client) *http.Client {
	return &http.Client{
		Transport: &Transport{
			Transport:   http.DefaultTransport,
			Middlewares: middlewares,
		},
	}
}

// RoundTrip implementation
func (c *Transport) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	for _, m := range c.Middlewares {
		req, err = m.Preprocess(req)
		if err != nil {
			return
		}
	}

	transport := c.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	resp, err = transport.RoundTrip(req)
	if err != nil {
		return
	}

	for _, m := range c.Middlewares {
		resp, err = m.Postprocess(resp)
		if err != nil {
			_ = resp.Body.Close()

			return nil, err
		}
	}

	return
}

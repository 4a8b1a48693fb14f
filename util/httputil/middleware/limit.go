package middleware

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrTooLarge is returned when response body exceeds configured limit
	ErrTooLarge = errors.New("response body too large")
)

// StatusError is returned for non-successful response status
type StatusError struct {
	Status     string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response status: %s", e.Status)
}

// ClientStatusCheck rejects responses with non-2xx status
type ClientStatusCheck struct{}

// Preprocess noop
func (ClientStatusCheck) Preprocess(req *http.Request) (*http.Request, error) {
	return req, nil
}

// Postprocess implementation
func (ClientStatusCheck) Postprocess(resp *http.Response) (*http.Response, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, &StatusError{
			Status:     resp.Status,
			StatusCode: resp.StatusCode,
		}
	}

	return resp, nil
}

// ClientSizeLimit rejects responses larger than Max bytes
type ClientSizeLimit struct {
	Max int64
}

// Preprocess noop
func (c *ClientSizeLimit) Preprocess(req *http.Request) (*http.Request, error) {
	return req, nil
}

// Postprocess implementation
func (c *ClientSizeLimit) Postprocess(resp *http.Response) (*http.Response, error) {
	if c.Max <= 0 {
		return resp, nil
	}

	if resp.ContentLength > c.Max {
		return resp, ErrTooLarge
	}

	resp.Body = &limitedBody{
		ReadCloser: resp.Body,
		left:       c.Max,
	}

	return resp, nil
}

type limitedBody struct {
	io.ReadCloser
	left int64
}

func (b *limitedBody) Read(p []byte) (n int, err error) {
	if b.left < 0 {
		return 0, ErrTooLarge
	}

	if int64(len(p)) > b.left+1 {
		p = p[:b.left+1]
	}

	n, err = b.ReadCloser.Read(p)
	b.left -= int64(n)

	if b.left < 0 {
		return n, ErrTooLarge
	}

	return
}

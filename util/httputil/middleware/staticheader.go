package middleware

import (
	"net/http"
	"net/textproto"
)

// ClientStaticHeaders provides middleware to statically add/set headers to outgoing http requests
type ClientStaticHeaders struct {
	Set map[string][]string
	Add map[string][]string
}

// UserAgent returns middleware setting user-agent header
func UserAgent(agent string) *ClientStaticHeaders {
	return &ClientStaticHeaders{
		Set: map[string][]string{
			"user-agent": {agent},
		},
	}
}

// Preprocess implementation
func (c *ClientStaticHeaders) Preprocess(req *http.Request) (*http.Request, error) {
	if len(c.Add) == 0 && len(c.Set) == 0 {
		return req, nil
	}

	req = req.Clone(req.Context())

	for k, vs := range c.Add {
		key := textproto.CanonicalMIMEHeaderKey(k)

		req.Header[key] = append(req.Header[key], vs...)
	}

	for k, vs := range c.Set {
		key := textproto.CanonicalMIMEHeaderKey(k)

		req.Header[key] = vs
	}

	return req, nil
}

// Postprocess noop
func (c *ClientStaticHeaders) Postprocess(resp *http.Response) (*http.Response, error) {
	return resp, nil
}

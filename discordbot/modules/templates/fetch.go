package templates

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/eientei/blueprint/template"
)

// Fetch downloads and decodes template document
func Fetch(ctx context.Context, client *http.Client, url string) (*template.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching template: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}

	return template.Decode(bytes.NewReader(bs))
}

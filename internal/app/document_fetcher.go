package app

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

type FetchedDocument struct {
	Data        []byte
	ContentType string
}

// HTTPFetcher downloads stored documents by their public URL. Only URLs under
// the blob store's public base are fetched, redirects included.
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
	base     *url.URL
	basePath string
}

// NewHTTPFetcher builds a fetcher confined to baseURL. An empty or unparsable
// baseURL rejects every fetch.
func NewHTTPFetcher(baseURL string, timeout time.Duration, maxBytes int64) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = 25 << 20
	}
	f := &HTTPFetcher{maxBytes: maxBytes}
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		f.base = u
		f.basePath = strings.TrimRight(u.Path, "/") + "/"
	}
	f.client = &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("%w: too many redirects", ErrFetchDocument)
			}
			if !f.allowed(req.URL) {
				return fmt.Errorf("%w: redirect to %s is outside blob storage", ErrFetchDocument, req.URL.Host)
			}
			return nil
		},
	}
	return f
}

func (f *HTTPFetcher) allowed(u *url.URL) bool {
	if f.base == nil || u.User != nil {
		return false
	}
	if !strings.EqualFold(u.Scheme, f.base.Scheme) || !strings.EqualFold(u.Host, f.base.Host) {
		return false
	}
	return u.Path == path.Clean(u.Path) && strings.HasPrefix(u.Path, f.basePath)
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*FetchedDocument, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse url: %v", ErrFetchDocument, err)
	}
	if !f.allowed(u) {
		return nil, fmt.Errorf("%w: %q is outside blob storage", ErrFetchDocument, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetchDocument, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchDocument, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrFetchDocument, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetchDocument, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrFetchDocument, f.maxBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			contentType = mediaType
		}
	}
	return &FetchedDocument{Data: data, ContentType: strings.ToLower(contentType)}, nil
}

package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrBodyTooLarge is returned by Get when a response exceeds the configured
// body limit.
var ErrBodyTooLarge = resty.ErrResponseBodyTooLarge

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(timeout)}
}

// WithBodyLimit caps response bodies at limit bytes; reading stops there and
// Get fails with ErrBodyTooLarge. A non-positive limit disables the cap.
func (r *RestyClient) WithBodyLimit(limit int) *RestyClient {
	if limit > 0 {
		r.client.SetResponseBodyLimit(limit)
	}
	return r
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs
// or request hooks. A zero timeout leaves the transport without a deadline.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return WrapResponse(resp), nil
}

// WrapResponse adapts a resty response to the Response interface.
func WrapResponse(resp *resty.Response) Response {
	return &restyResponseAdapter{resp: resp}
}

type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte             { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int          { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header(key string) string { return r.resp.Header().Get(key) }

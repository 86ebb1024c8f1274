package apiclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/samvad-hq/samvad-portal/pkg/httpclient"
)

const (
	// HeaderAuthorization carries the raw credential on every request.
	HeaderAuthorization = "Authorization"

	PathSignUp = "/auth/sign-up"
	PathSignIn = "/auth/sign-in"
)

// Client is the authenticated API client. Build it once and share it; it keeps
// no per-call state.
type Client struct {
	http    *resty.Client
	creds   CredentialProvider
	log     Logger
	baseURL string
}

// Option customises a Client at construction time.
type Option func(*options)

type options struct {
	timeout time.Duration
	headers map[string]string
	log     Logger
}

// WithTimeout bounds every request. The default is no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithHeaders adds static headers to every request. Authorization is always
// overwritten by the credential provider.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) { o.headers = headers }
}

// WithLogger routes request diagnostics to log.
func WithLogger(log Logger) Option {
	return func(o *options) { o.log = log }
}

// New builds a client bound to baseURL. A nil provider behaves as if no
// credential were stored.
func New(baseURL string, creds CredentialProvider, opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if creds == nil {
		creds = noCredential{}
	}
	if o.log == nil {
		o.log = noopLogger{}
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	rc := httpclient.NewRestyHTTPClient(o.timeout).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	if len(o.headers) > 0 {
		rc.SetHeaders(o.headers)
	}

	c := &Client{
		http:    rc,
		creds:   creds,
		log:     o.log,
		baseURL: baseURL,
	}
	rc.OnBeforeRequest(c.interceptRequest)
	return c
}

// BaseURL returns the address every request path is resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// interceptRequest attaches the credential read at call time. An absent
// credential still sends the request with an empty header.
func (c *Client) interceptRequest(_ *resty.Client, req *resty.Request) error {
	req.Header.Set(HeaderAuthorization, c.creds.Credential())
	return nil
}

// interceptResponse strips the transport envelope from a completed exchange.
func (c *Client) interceptResponse(resp *resty.Response) (Payload, error) {
	if !resp.IsSuccess() {
		return nil, c.interceptError(resp.Request.Method, resp.Request.URL, resp, nil)
	}
	return Payload(resp.Body()), nil
}

// interceptError reshapes a failure once: a server answer becomes
// *ServerError with the body only, anything else a *TransportError.
func (c *Client) interceptError(method, path string, resp *resty.Response, err error) error {
	if err == nil && resp != nil && resp.RawResponse != nil {
		c.log.DebugObj("api request rejected", "api_error", map[string]any{
			"method": method,
			"path":   path,
			"status": resp.StatusCode(),
		})
		return &ServerError{Payload: Payload(resp.Body())}
	}
	c.log.WarnObj("api request failed", "api_error", map[string]any{
		"method": method,
		"path":   path,
		"error":  errString(err),
	})
	return &TransportError{Method: method, Path: path, Err: err}
}

// Do issues a single request and returns the response body on a 2xx status.
// body may be nil, a struct, a map or raw bytes.
func (c *Client) Do(ctx context.Context, method, path string, body any) (Payload, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, c.interceptError(method, path, resp, err)
	}
	return c.interceptResponse(resp)
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string) (Payload, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (Payload, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (Payload, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (Payload, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, data any) (Payload, error) {
	return c.Post(ctx, PathSignUp, data)
}

// SignIn exchanges the given credentials for a session payload.
func (c *Client) SignIn(ctx context.Context, data any) (Payload, error) {
	return c.Post(ctx, PathSignIn, data)
}

func errString(err error) string {
	if err == nil {
		return "no response"
	}
	return err.Error()
}

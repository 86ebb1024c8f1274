package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/samvad-hq/samvad-portal/pkg/httpclient"
)

const defaultHTTPTimeout = 5 * time.Second

// httpPublisher POSTs each event as JSON to a webhook.
type httpPublisher struct {
	sink
	url    string
	client *resty.Client
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Target == "" {
		return nil, fmt.Errorf("sink %q: missing webhook url", cfg.ID)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := httpclient.NewRestyHTTPClient(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeaders(cfg.Headers)

	return &httpPublisher{sink: newSink(cfg, log), url: cfg.Target, client: client}, nil
}

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(evt).
		Post(h.url)
	if err == nil && !resp.IsSuccess() {
		err = fmt.Errorf("webhook answered %d: %s", resp.StatusCode(), bodySnippet(resp.Body()))
	}
	return h.delivered(evt, err)
}

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 256 {
		s = s[:256]
	}
	return s
}

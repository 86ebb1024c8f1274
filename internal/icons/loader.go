package icons

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/samvad-hq/samvad-portal/internal/logger"
	"github.com/samvad-hq/samvad-portal/pkg/httpclient"
	"github.com/samvad-hq/samvad-portal/pkg/sanitizer"
)

const (
	maxSVGBodyBytes = 1 << 20 // 1 MiB
)

var (
	// ErrNoSVG is returned when a fetched document contains no <svg> element.
	ErrNoSVG = errors.New("document has no svg element")
	// ErrSVGTooLarge is returned when a fetched document exceeds the body cap.
	ErrSVGTooLarge = errors.New("svg document too large")
)

// Rendered is one icon ready for raw insertion.
type Rendered struct {
	ID     string                    `json:"id"`
	Name   string                    `json:"name"`
	Markup sanitizer.RenderDirective `json:"markup"`
}

// Loader fetches remote SVG icons and sanitizes them for inline rendering.
type Loader struct {
	client httpclient.Client
	log    logger.Logger
}

// NewLoader constructs a loader with the provided HTTP client (or default).
func NewLoader(client httpclient.Client, log logger.Logger) *Loader {
	if client == nil {
		client = httpclient.NewRestyClient(15 * time.Second).WithBodyLimit(maxSVGBodyBytes)
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Loader{client: client, log: log}
}

// Load fetches one icon and returns its sanitized markup.
func (l *Loader) Load(ctx context.Context, icon Icon) (Rendered, error) {
	resp, err := l.client.Get(ctx, icon.URL, icon.Headers)
	if errors.Is(err, httpclient.ErrBodyTooLarge) {
		return Rendered{}, fmt.Errorf("icon %s: %w (limit %d)", icon.ID, ErrSVGTooLarge, maxSVGBodyBytes)
	}
	if err != nil {
		return Rendered{}, fmt.Errorf("fetch icon %s: %w", icon.ID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return Rendered{}, fmt.Errorf("icon %s returned status %d body: %s", icon.ID, resp.StatusCode(), snippet)
	}

	// A truncated document would parse into a silently corrupted icon.
	body := resp.Body()
	if len(body) > maxSVGBodyBytes {
		return Rendered{}, fmt.Errorf("icon %s: %w (%d bytes, limit %d)", icon.ID, ErrSVGTooLarge, len(body), maxSVGBodyBytes)
	}

	markup, err := extractSVG(body)
	if err != nil {
		return Rendered{}, fmt.Errorf("icon %s: %w", icon.ID, err)
	}

	return Rendered{
		ID:     icon.ID,
		Name:   icon.Name,
		Markup: sanitizer.SafeMarkup(markup),
	}, nil
}

// LoadAll fetches icons in order, pausing between requests. Failed icons are
// logged and skipped; their errors are joined into the returned error. On
// cancellation it returns what it has so far.
func (l *Loader) LoadAll(ctx context.Context, icons []Icon) ([]Rendered, error) {
	out := make([]Rendered, 0, len(icons))
	var errs []error

	for i, icon := range icons {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		r, err := l.Load(ctx, icon)
		if err != nil {
			l.log.WarnObj("icon load failed", "icon_error", map[string]any{
				"icon_id": icon.ID,
				"url":     icon.URL,
				"error":   err.Error(),
			})
			errs = append(errs, err)
		} else {
			out = append(out, r)
		}

		if delay := icon.RequestDelay(); delay > 0 && i < len(icons)-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out, ctx.Err()
			case <-timer.C:
			}
		}
	}

	l.log.InfoObj("icons loaded", "icons_result", map[string]any{
		"requested": len(icons),
		"loaded":    len(out),
	})
	return out, errors.Join(errs...)
}

// extractSVG returns the outer markup of the first <svg> element in body.
func extractSVG(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse markup: %w", err)
	}

	node := doc.Find("svg").First()
	if node.Length() == 0 {
		return "", ErrNoSVG
	}
	markup, err := goquery.OuterHtml(node)
	if err != nil {
		return "", fmt.Errorf("render svg: %w", err)
	}
	return markup, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-portal/internal/config"
	"github.com/samvad-hq/samvad-portal/internal/icons"
	"github.com/samvad-hq/samvad-portal/internal/logger"
	"github.com/samvad-hq/samvad-portal/internal/session"
	"github.com/samvad-hq/samvad-portal/internal/storage"
	"github.com/samvad-hq/samvad-portal/pkg/apiclient"
	"github.com/samvad-hq/samvad-portal/pkg/publishers"
)

// Portal wires the cookie store, the authenticated API client, session flows,
// auth event publishers and the icon loader. Build one per process.
type Portal struct {
	cfg      *config.Config
	log      logger.Logger
	store    storage.Store
	client   *apiclient.Client
	fanout   *publishers.Fanout
	sessions *session.Manager
	icons    *icons.Loader
}

// NewPortal builds the portal runtime from config.
func NewPortal(ctx context.Context, cfg *config.Config, log logger.Logger) (*Portal, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	storeOpts := storage.Options{
		CookieTTL:       cfg.CookieTTL,
		CleanupInterval: cfg.CookieCleanupInterval,
	}
	store, err := storage.NewStore(cfg.CookieStoreType, cfg.CookieStorePath, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("init cookie store: %w", err)
	}
	log.InfoObj("cookie store initialized", "storage_config", map[string]any{
		"type":                     cfg.CookieStoreType,
		"path":                     cfg.CookieStorePath,
		"cookie_ttl_seconds":       int(cfg.CookieTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.CookieCleanupInterval.Seconds()),
	})

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		store.Close()
		return nil, err
	}

	client := apiclient.New(cfg.APIBaseURL, session.CookieCredential{Store: store},
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithLogger(log),
	)
	log.InfoObj("api client ready", "api_config", map[string]any{
		"base_url":        client.BaseURL(),
		"timeout_seconds": int(cfg.APITimeout.Seconds()),
	})

	return &Portal{
		cfg:      cfg,
		log:      log,
		store:    store,
		client:   client,
		fanout:   fanout,
		sessions: session.NewManager(client, store, fanout, log),
		icons:    icons.NewLoader(nil, log),
	}, nil
}

// buildFanout loads auth event sinks. No publishers file means no sinks.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(cfg.PublishersFile) == "" {
		return publishers.NewFanout(nil), nil
	}

	sinks, err := publishers.LoadSinks(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers file: %w", err)
	}
	enabled := sinks.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":     pubCfg.ID,
			"type":   pubCfg.Type,
			"events": strings.Join(pubCfg.Events, ","),
		})
	}
	log.InfoObj("auth event sinks loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Client returns the shared authenticated API client.
func (p *Portal) Client() *apiclient.Client { return p.client }

// Sessions returns the session flows.
func (p *Portal) Sessions() *session.Manager { return p.sessions }

// LoadIcons renders every icon from the configured icons file.
func (p *Portal) LoadIcons(ctx context.Context) ([]icons.Rendered, error) {
	reg, err := icons.LoadRegistry(p.cfg.IconsFile)
	if err != nil {
		return nil, fmt.Errorf("load icons registry: %w", err)
	}
	return p.icons.LoadAll(ctx, reg.All())
}

// Close releases publishers and the cookie store.
func (p *Portal) Close() error {
	if p == nil {
		return nil
	}
	var errs []error
	if err := p.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	if p.store != nil {
		if err := p.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cookie store: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		p.log.ErrorObj("portal close failed", "error", err)
		return err
	}
	return nil
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/cinescope/internal/catalog"
	"github.com/mmcdole/cinescope/internal/config"
	"github.com/mmcdole/cinescope/internal/domain"
	"github.com/mmcdole/cinescope/internal/logging"
	"github.com/mmcdole/cinescope/internal/preferences"
	"github.com/mmcdole/cinescope/internal/reviews"
	"github.com/mmcdole/cinescope/internal/session"
	"github.com/mmcdole/cinescope/internal/store"
	"github.com/mmcdole/cinescope/internal/watchlist"
)

// app holds the wired services shared by every command
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	kv     domain.KVStore

	session   *session.Store
	watchlist *watchlist.Store
	prefs     *preferences.Store

	catalogClient *catalog.Client
	catalog       *catalog.Service
	api           *reviews.Client
	reviews       *reviews.Service
}

// newApp loads configuration, opens storage and restores persisted state
func newApp(opts *globalOptions) (*app, error) {
	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.verbose {
		cfg.Logging.Level = "DEBUG"
	}

	logger, err := logging.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = logging.NullLogger()
	}
	slog.SetDefault(logger)

	kv, err := store.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	ns := cfg.Storage.Namespace
	api := reviews.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)

	sess := session.NewStore(api, session.NewRepository(kv, ns), logger)
	list := watchlist.NewStore(watchlist.NewRepository(kv, ns), logger)
	prefs := preferences.NewStore(kv, ns, logger)

	// The watchlist follows the session; Restore notifies it
	sess.Subscribe(list)
	sess.Restore()
	lang := prefs.Restore()

	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.Catalog.Timeout, logger)
	client.SetLanguage(lang.Locale())
	catalogSvc := catalog.NewService(client, logger)
	catalogSvc.SetCache(catalog.NewHomeCache(kv, ns+string(lang)+":", cfg.Catalog.CacheTTL))

	logger.Info("starting cinescope",
		"version", Version,
		"storage", cfg.Storage.Driver,
		"authenticated", sess.IsAuthenticated(),
		"language", lang,
	)

	return &app{
		cfg:           cfg,
		logger:        logger,
		kv:            kv,
		session:       sess,
		watchlist:     list,
		prefs:         prefs,
		catalogClient: client,
		catalog:       catalogSvc,
		api:           api,
		reviews:       reviews.NewService(api, sess, logger),
	}, nil
}

// Close releases storage
func (a *app) Close() error {
	return a.kv.Close()
}

// requireCatalog fails when the catalog API key is missing
func (a *app) requireCatalog() error {
	if !a.cfg.IsConfigured() {
		return fmt.Errorf("catalog.api_key is not set; run cinescope to configure it or set CINESCOPE_CATALOG_API_KEY")
	}
	return nil
}

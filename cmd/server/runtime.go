package main

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/research-library/internal/backend"
	"github.com/JaimeStill/research-library/internal/config"
	"github.com/JaimeStill/research-library/internal/library"
	"github.com/JaimeStill/research-library/internal/metrics"
	"github.com/JaimeStill/research-library/pkg/logging"
)

// Runtime holds the subsystems shared by every page.
type Runtime struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Backend  *backend.Client
	Store    *library.Store
	Composer *library.Composer
	Browse   *library.View
	Picker   *library.View
}

// NewRuntime builds one store shared by the browse view and the query picker.
func NewRuntime(cfg *config.Config) (*Runtime, error) {
	logger := logging.New(&cfg.Logging)

	m := metrics.New()

	var observer backend.Observer
	var refreshObserver library.RefreshObserver
	if cfg.Metrics.IsEnabled() {
		observer = m
		refreshObserver = m
	}

	client := backend.New(&cfg.Backend, logger, observer)
	store := library.NewStore(client, logger, refreshObserver)
	composer := library.NewComposer(client, logger)

	browse, err := library.NewView(store, client, library.Options{
		Mode:             library.ModeBrowse,
		MaxUploadSize:    cfg.Upload.MaxUploadSizeBytes(),
		DescriptionWidth: cfg.View.DescriptionWidth,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("browse view: %w", err)
	}

	picker, err := library.NewView(store, client, library.Options{
		Mode:             library.ModeSelect,
		Owner:            composer,
		DescriptionWidth: cfg.View.DescriptionWidth,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("picker view: %w", err)
	}

	return &Runtime{
		Logger:   logger,
		Metrics:  m,
		Backend:  client,
		Store:    store,
		Composer: composer,
		Browse:   browse,
		Picker:   picker,
	}, nil
}

// Close cancels every in-flight library action.
func (r *Runtime) Close() {
	r.Browse.Close()
	r.Picker.Close()
}

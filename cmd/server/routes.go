package main

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/research-library/internal/backend"
	"github.com/JaimeStill/research-library/internal/config"
	"github.com/JaimeStill/research-library/internal/library"
	"github.com/JaimeStill/research-library/pkg/handlers"
	"github.com/JaimeStill/research-library/pkg/routes"
	"github.com/JaimeStill/research-library/web/app"
)

// registerRoutes configures the web UI, snapshot, health, and metrics routes.
func registerRoutes(r routes.System, runtime *Runtime, cfg *config.Config) error {
	appHandler, err := app.NewHandler(
		runtime.Browse,
		runtime.Picker,
		runtime.Composer,
		"",
		cfg.Upload.MaxUploadSizeBytes(),
		runtime.Logger,
	)
	if err != nil {
		return err
	}
	r.RegisterGroup(appHandler.Routes())

	r.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/healthz",
		Handler: handleHealthCheck,
	})

	r.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/api/documents",
		Handler: handleSnapshot(runtime.Store, runtime.Logger),
	})

	if cfg.Metrics.IsEnabled() {
		r.Handle("GET "+cfg.Metrics.Path, runtime.Metrics.Handler())
	}

	return nil
}

// handleHealthCheck responds with OK status for health monitoring.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Snapshot is the JSON view of the shared document store.
type Snapshot struct {
	Status    library.Status     `json:"status"`
	Tag       string             `json:"tag,omitempty"`
	Error     string             `json:"error,omitempty"`
	Documents []backend.Document `json:"documents"`
}

// handleSnapshot serves the store's current documents without refreshing.
// A store that failed before ever loading answers 502.
func handleSnapshot(store *library.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.Err()
		if err != nil && !store.Loaded() {
			handlers.RespondError(w, logger, http.StatusBadGateway, err)
			return
		}

		snap := Snapshot{
			Status:    store.Status(),
			Tag:       store.TagFilter(),
			Documents: store.Documents(),
		}
		if err != nil {
			snap.Error = library.Message(err)
		}
		handlers.RespondJSON(w, http.StatusOK, snap)
	}
}

package main

import (
	"log/slog"

	"github.com/JaimeStill/research-library/pkg/middleware"
)

// buildMiddleware creates the middleware stack with slash trimming and request logging.
func buildMiddleware(logger *slog.Logger) middleware.System {
	middlewareSys := middleware.New()
	middlewareSys.Use(middleware.TrimSlash())
	middlewareSys.Use(middleware.Logger(logger.With("system", "http")))
	return middlewareSys
}

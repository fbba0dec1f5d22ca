package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	v1 "github.com/gosuda/backoffice/internal/api/v1"
)

const healthTimeout = 2 * time.Second

func apiConfig(title string) huma.Config {
	cfg := huma.DefaultConfig(title, "1.0.0")
	cfg.Servers = []*huma.Server{
		{URL: "/api"},
	}
	return cfg
}

func registerPublicRoutes(r chi.Router, sessions v1.Sessions) {
	// The authenticated API owns the OpenAPI document and docs pages.
	cfg := apiConfig("Back-office Auth API")
	cfg.OpenAPIPath = ""
	cfg.DocsPath = ""
	cfg.SchemasPath = ""
	v1.RegisterAuthRoutes(humachi.New(r, cfg), sessions)
}

func registerAPIRoutes(r chi.Router, b v1.Backoffice) {
	v1.RegisterRoutes(humachi.New(r, apiConfig("Back-office API")), b)
}

func healthHandler(checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, p := range checks {
			if err := p.Ping(ctx); err != nil {
				log.Warn().Err(err).Str("dependency", name).Msg("health check failed")
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[name] = "unreachable"
				continue
			}
			body[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

package httptransport

import (
	"net/http"
	"sort"

	"reputation-bot/internal/config"
	"reputation-bot/internal/engine"
	"reputation-bot/internal/feed"
	"reputation-bot/internal/metrics"
	"reputation-bot/internal/schedule"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

type Deps struct {
	Engine      *engine.Engine
	Scheduler   *schedule.Scheduler
	Pinger      Pinger
	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics
	Feed        *feed.Buffer
}

func NewRouter(deps Deps, cfg config.ServerConfig) *chi.Mux {
	publicHandlers := NewPublicHandlers(deps.Engine)
	adminHandlers := NewAdminHandlers(deps.Engine, deps.Scheduler, deps.Pinger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(deps.HTTPMetrics.Middleware)
	r.Use(CORSMiddleware(cfg.CORSOrigins))

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())
	if deps.Registry != nil {
		r.Handle("/metrics", metrics.Handler(deps.Registry))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Get("/public/leaderboard", publicHandlers.Leaderboard())
		r.Get("/public/chatters", publicHandlers.Chatters())
		r.Get("/public/sellers", publicHandlers.Sellers())
		r.Get("/public/sellers/{tag}", publicHandlers.SellerInfo())
		r.Get("/public/polls", publicHandlers.Polls())
		r.Get("/public/polls/{poll_id}", publicHandlers.Poll())
		r.Get("/public/announcement", publicHandlers.Announcement())
		if deps.Feed != nil {
			r.Get("/public/events", feed.SSEHandler(deps.Feed))
			r.Get("/public/events/ws", feed.WSHandler(deps.Feed))
		}

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Use(BodyCaptureMiddleware(4096))
			r.Post("/sellers", adminHandlers.AddSeller())
			r.Delete("/sellers/{tag}", adminHandlers.RemoveSeller())
			r.Get("/sellers/{tag}/history", adminHandlers.SellerHistory())
			r.Get("/complaints", adminHandlers.Complaints())
			r.Post("/complaints/{complaint_id}/approve", adminHandlers.ApproveComplaint())
			r.Get("/accounts", adminHandlers.Accounts())
			r.Post("/topup", adminHandlers.Topup())
			r.Get("/ledger", adminHandlers.Ledger())
			r.Put("/announcement", adminHandlers.Announcement())
			if deps.Scheduler != nil {
				r.Get("/jobs", adminHandlers.Jobs())
				r.Post("/jobs/{job}/run", adminHandlers.RunJob())
			}
		})
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	for _, rt := range routes {
		log.Debug().Str("method", rt.Method).Str("path", rt.Path).Msg("route registered")
	}
	log.Info().Int("routes", len(routes)).Msg("http routes registered")
}

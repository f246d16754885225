// Package api serves a rack layout over HTTP for a local browser UI.
//
// The server wraps a single [planner.Planner] behind a mutex: requests are
// applied one at a time and each accepted mutation is saved by the planner
// before the response is written. Destructive operations (shrinking past
// placed modules, clearing the rack) take an explicit "confirm" flag; a
// request without it is answered with 409 and the list of instances that
// would be lost, so the UI can ask the user and retry.
//
// # Routes
//
//	GET    /api/health
//	GET    /api/rack
//	PUT    /api/rack/height         {"height": 12, "confirm": false}
//	PUT    /api/rack/width          {"width": "10inch"}
//	POST   /api/rack/clear          {"confirm": true}
//	GET    /api/rack/svg
//	GET    /api/modules?q=switch
//	POST   /api/modules             {"name": ..., "heightUnits": 1, "category": ...}
//	PATCH  /api/modules/{id}        {"name": ...}
//	DELETE /api/modules/{id}
//	GET    /api/placements/check?index=4&module=server-2u&moving=
//	GET    /api/placements/targets?module=server-2u&moving=
//	POST   /api/placements          {"index": 4, "module": "server-2u", "moving": ""}
//	DELETE /api/placements/{id}
//
// # Errors
//
// Failures are returned as {"error": {"code", "message", "details"}} with
// the status derived from the error code: INVALID_* 400, *_NOT_FOUND 404,
// placement rejections 422, declined confirmations and MODULE_IN_USE 409.
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/racktower/pkg/buildinfo"
	"github.com/matzehuels/racktower/pkg/cache"
	"github.com/matzehuels/racktower/pkg/observability"
	"github.com/matzehuels/racktower/pkg/planner"
)

// Options configures a [Server].
type Options struct {
	// Cache stores rendered SVGs. Nil disables caching.
	Cache cache.Cache

	// Logger receives request logs. Nil means log.Default().
	Logger *log.Logger
}

// Server is the HTTP front end of a planner.
type Server struct {
	mu      sync.Mutex
	planner *planner.Planner
	cache   cache.Cache
	logger  *log.Logger
	router  chi.Router
}

// New creates a server for p.
func New(p *planner.Planner, opts Options) *Server {
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	s := &Server{
		planner: p,
		cache:   opts.Cache,
		logger:  opts.Logger,
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)

		r.Route("/rack", func(r chi.Router) {
			r.Get("/", s.getRack)
			r.Put("/height", s.putHeight)
			r.Put("/width", s.putWidth)
			r.Post("/clear", s.clearRack)
			r.Get("/svg", s.getSVG)
		})

		r.Route("/modules", func(r chi.Router) {
			r.Get("/", s.listModules)
			r.Post("/", s.createModule)
			r.Patch("/{id}", s.editModule)
			r.Delete("/{id}", s.deleteModule)
		})

		r.Route("/placements", func(r chi.Router) {
			r.Get("/check", s.checkPlacement)
			r.Get("/targets", s.placementTargets)
			r.Post("/", s.place)
			r.Delete("/{id}", s.removePlacement)
		})
	})
	return r
}

// observe logs each request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", elapsed)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
	})
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

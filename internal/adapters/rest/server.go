package rest

import (
	"context"
	"net/http"
	"time"

	"rental-search-service/internal/core/port"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type ServerConfig struct {
	Port             string
	AllowedOrigins   []string
	SecureCookie     bool
	InquiryRateLimit RateLimitConfig
}

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter собирает маршруты API; вынесен отдельно, чтобы тесты гоняли его через httptest
func NewRouter(cfg ServerConfig,
	filterHandlers *SearchFilterHandler,
	searchHandlers *SearchHandler,
	optionsHandlers *FilterOptionsHandler,
	inquiryHandlers *InquiryHandler,
	baseLogger port.LoggerPort) http.Handler {

	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", SessionHeader, "X-Trace-ID"},
			ExposedHeaders:   []string{SessionHeader, "X-Trace-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	inquiryLimiter := NewSessionRateLimiter(cfg.InquiryRateLimit)

	r.Route("/api/v1", func(r chi.Router) {
		// справочники от сессии не зависят
		r.Get("/filters/options", optionsHandlers.GetFilterOptions)
		r.Get("/dictionaries/cities", optionsHandlers.GetCities)
		r.Get("/dictionaries/cities/{city}/localities", optionsHandlers.GetLocalities)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(cfg.SecureCookie))

			r.Get("/search", searchHandlers.Search)

			r.Get("/filters", filterHandlers.GetFilters)
			r.Put("/filters", filterHandlers.SetFilters)
			r.Patch("/filters", filterHandlers.UpdateFilter)
			r.Delete("/filters", filterHandlers.ClearFilters)
			r.Post("/filters/apply", filterHandlers.ApplyFilters)

			r.Put("/session/location", filterHandlers.SetUserLocation)
			r.Delete("/session/location", filterHandlers.ClearUserLocation)
			r.Put("/session/near-me", filterHandlers.SetNearMe)

			r.With(inquiryLimiter.Middleware).Post("/listings/{listingID}/inquiries", inquiryHandlers.CreateInquiry)
		})
	})

	return r
}

func NewServer(cfg ServerConfig, handler http.Handler, baseLogger port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}

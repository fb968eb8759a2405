package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/neotube/neotube/internal/app"
	"github.com/neotube/neotube/internal/domain"
	"github.com/neotube/neotube/internal/ports"
)

type Server struct {
	logger   zerolog.Logger
	media    *app.MediaService
	settings *app.SettingsService
	bus      ports.EventBus
	// limiter est optionnel et permet d'appliquer maxConcurrentStreams à chaud.
	limiter        *app.StreamLimiter
	allowedOrigins []string
}

func NewServer(logger zerolog.Logger, media *app.MediaService, settings *app.SettingsService, bus ports.EventBus, limiter *app.StreamLimiter, allowedOrigins []string) *Server {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return &Server{logger: logger, media: media, settings: settings, bus: bus, limiter: limiter, allowedOrigins: allowedOrigins}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "Content-Length"},
		MaxAge:         300,
	}))
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("request_id", "Request-Id"))
	r.Use(hlog.RemoteAddrHandler("remote_ip"))
	r.Use(hlog.UserAgentHandler("user_agent"))
	r.Use(hlog.AccessHandler(accessLogFn))

	r.Route("/api", func(r chi.Router) {
		// Flux longs: pas de timeout.
		r.Get("/events", s.handleEvents)
		if s.media != nil {
			r.Get("/download", s.handleDownload)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(defaultRequestTimeout))

			r.Get("/health", s.handleHealth)
			r.Get("/version", s.handleVersion)
			r.Get("/openapi.json", s.handleOpenAPI)

			if s.media != nil {
				r.Get("/video-info", s.handleVideoInfo)
			}
			if s.settings != nil {
				NewSettingsHandler(s.settings, func(updated domain.ServerSettings) {
					if s.limiter != nil && updated.MaxConcurrentStreams > 0 {
						s.limiter.SetLimit(updated.MaxConcurrentStreams)
					}
				}).Routes(r)
			}
		})
	})

	return r
}

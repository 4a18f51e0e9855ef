package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sleeplog/apiserver/config"
	"github.com/sleeplog/apiserver/internal/auth"
	"github.com/sleeplog/apiserver/internal/cache"
	"github.com/sleeplog/apiserver/internal/db"
	"github.com/sleeplog/apiserver/internal/geo"
	"github.com/sleeplog/apiserver/internal/handlers"
	"github.com/sleeplog/apiserver/internal/logging"
	"github.com/sleeplog/apiserver/internal/metrics"
	ratelimit "github.com/sleeplog/apiserver/internal/middleware"
	"github.com/sleeplog/apiserver/internal/mq"
	"github.com/sleeplog/apiserver/internal/services"
	"github.com/sleeplog/apiserver/internal/sleep"
	"github.com/sleeplog/apiserver/internal/storage"
	"github.com/sleeplog/apiserver/internal/store"
)

const limiterCleanupInterval = 5 * time.Minute

// Server wraps the HTTP server, its router and the backends it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	logger     *zap.Logger
	db         *sql.DB
	cache      *cache.RedisCache
	broker     mq.Backend
	objects    *storage.Storage
	stop       chan struct{}
}

// New connects every configured backend and builds the router. Redis, the
// message broker and object storage are optional.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Server{
		logger: logger,
		db:     dbConn,
		stop:   make(chan struct{}),
	}

	if err := s.openBackends(ctx, cfg); err != nil {
		s.closeBackends()
		return nil, err
	}

	catalog := sleep.DefaultCatalog()
	recordRepo := store.NewSleepRecordRepository(dbConn)

	userService := services.NewUserService(store.NewUserRepository(dbConn))
	recordService := services.NewSleepRecordService(recordRepo, catalog)

	httpClient := geo.NewHTTPClient(cfg.Geo.Timeout)
	var geoCache services.Cache
	if s.cache != nil {
		geoCache = s.cache
	}
	daylightService := services.NewDaylightService(
		geo.NewNominatim(cfg.Geo.GeocoderURL, cfg.Geo.UserAgent, httpClient),
		geo.NewSunTimesClient(cfg.Geo.SunTimesURL, httpClient),
		geoCache,
		cfg.Geo.CacheTTL,
		catalog,
		logger,
	)

	objects, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		s.closeBackends()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	var exportService *services.ExportService
	if objects != nil {
		s.objects = storage.NewStorage(objects)
		if err := s.objects.EnsureBucket(ctx); err != nil {
			s.closeBackends()
			return nil, fmt.Errorf("ensure bucket: %w", err)
		}
		var publisher services.ExportPublisher
		if s.broker != nil {
			publisher = mq.New(s.broker)
		}
		exportService = services.NewExportService(recordRepo, publisher, s.objects, cfg.MQ.ExportChannel, catalog, logger)
	} else if s.broker != nil {
		logger.Warn("message broker configured without object storage; exports disabled")
	}

	var limiter func(http.Handler) http.Handler
	if cfg.RateLimit.RPS > 0 {
		rl := ratelimit.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger)
		rl.StartCleanup(limiterCleanupInterval, s.stop)
		limiter = rl.Handler
	}

	tokens := auth.NewTokenManager(jwtSecret, cfg.TokenTTL)
	authMiddleware := handlers.Authenticate(tokens)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		logging.RequestLogger(logger),
		middleware.Recoverer,
		metrics.InstrumentHandler,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Handle("/metrics", metrics.Handler())

	handlers.AuthRouter(router, handlers.NewAuthHandler(userService, tokens, logger), limiter)
	router.Route("/sleep-records", func(r chi.Router) {
		handlers.SleepRecordRouter(r, handlers.NewSleepRecordHandler(recordService, catalog, logger), authMiddleware)
	})
	router.With(authMiddleware).Get("/daylight", handlers.NewDaylightHandler(daylightService, catalog, logger).Lookup)
	if exportService != nil {
		router.Route("/exports", func(r chi.Router) {
			handlers.ExportRouter(r, handlers.NewExportHandler(exportService, logger), authMiddleware)
		})
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	s.router = router
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) openBackends(ctx context.Context, cfg config.Config) error {
	if cfg.Redis.Addr != "" {
		c, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("open redis: %w", err)
		}
		s.cache = c
	}

	broker, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		return fmt.Errorf("open broker: %w", err)
	}
	s.broker = broker
	return nil
}

func (s *Server) closeBackends() {
	if s.objects != nil {
		if err := s.objects.Close(); err != nil {
			s.logger.Warn("close storage", zap.Error(err))
		}
	}
	if s.broker != nil {
		if err := s.broker.Close(); err != nil {
			s.logger.Warn("close broker", zap.Error(err))
		}
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Warn("close redis", zap.Error(err))
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warn("close database", zap.Error(err))
		}
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start runs the HTTP server. It returns nil after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within ctx, then releases backends.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stop)
	err := s.httpServer.Shutdown(ctx)
	s.closeBackends()
	return err
}

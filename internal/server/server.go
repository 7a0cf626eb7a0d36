package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lostfound/apiserver/config"
	"github.com/lostfound/apiserver/internal/events"
	"github.com/lostfound/apiserver/internal/handlers"
	"github.com/lostfound/apiserver/internal/recordstore"
	"github.com/lostfound/apiserver/internal/services"
	"github.com/lostfound/apiserver/internal/storage"
	"github.com/lostfound/apiserver/internal/store"
	"github.com/lostfound/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	records    recordstore.Store
	bus        *events.Bus
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	records, err := openRecordStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	uploads, err := openUploadStorage(ctx, cfg)
	if err != nil {
		_ = records.Close()
		return nil, err
	}

	bus, err := openEventBus(ctx, cfg)
	if err != nil {
		_ = records.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(records)
	reportRepo := store.NewReportRepository(records)
	notificationRepo := store.NewNotificationRepository(records)

	userService := services.NewUserService(userRepo, reportRepo, notificationRepo)
	reportService := services.NewReportService(reportRepo)
	notificationService := services.NewNotificationService(notificationRepo)

	var publisher services.EventPublisher
	if bus != nil {
		publisher = bus
	}
	matchService := services.NewMatchService(reportRepo, notificationRepo, publisher)

	if err := seedAdmin(ctx, cfg, userService); err != nil {
		_ = records.Close()
		return nil, err
	}

	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, jwtSecret)
	})
	router.Route("/reports", func(r chi.Router) {
		handlers.ReportRouter(r, reportService, userService, uploads, authMiddleware)
	})
	router.Route("/notifications", func(r chi.Router) {
		handlers.NotificationRouter(r, notificationService, authMiddleware)
	})
	router.Route("/admin", func(r chi.Router) {
		handlers.AdminRouter(r, userService, reportService, matchService, authMiddleware)
	})
	router.Route("/uploads", func(r chi.Router) {
		handlers.UploadsRouter(r, uploads)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		records:    records,
		bus:        bus,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.bus != nil {
		_ = s.bus.Close()
	}
	if s.records != nil {
		_ = s.records.Close()
	}
	return s.httpServer.Close()
}

func openRecordStore(ctx context.Context, cfg config.Config) (recordstore.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendFile, "":
		return recordstore.NewFileStore(cfg.DataDir)
	case config.StoreBackendPostgres:
		return recordstore.NewPostgresStore(ctx, cfg.Database)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func openUploadStorage(ctx context.Context, cfg config.Config) (*storage.Storage, error) {
	var backend storage.ObjectStorage
	var err error
	switch cfg.StorageBackend {
	case config.StorageBackendLocal, "":
		backend, err = storage.NewLocalStorage(cfg.UploadsDir)
	case config.StorageBackendMinio:
		backend, err = storage.NewMinioClient(cfg.Minio)
	case config.StorageBackendGCS:
		backend, err = storage.NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, err
	}

	wrapped := storage.NewStorage(backend)
	if err := wrapped.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return wrapped, nil
}

func openEventBus(ctx context.Context, cfg config.Config) (*events.Bus, error) {
	switch cfg.EventsBackend {
	case config.EventsBackendNone, "":
		return nil, nil
	case config.EventsBackendRabbitMQ:
		backend, err := events.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return events.New(backend), nil
	case config.EventsBackendPubSub:
		backend, err := events.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return events.New(backend), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.EventsBackend)
	}
}

// seedAdmin creates the configured admin account when it does not exist
// yet. Without configuration no admin is seeded.
func seedAdmin(ctx context.Context, cfg config.Config, userService *services.UserService) error {
	email := strings.TrimSpace(cfg.AdminEmail)
	password := cfg.AdminPassword
	if email == "" || password == "" {
		return nil
	}

	if _, err := userService.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = userService.Create(ctx, types.User{
		Email:        email,
		Name:         "Administrator",
		Role:         types.RoleAdmin,
		PasswordHash: string(hashed),
	})
	return err
}

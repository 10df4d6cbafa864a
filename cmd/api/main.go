package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/hfarran/studiohub/docs"
	"github.com/hfarran/studiohub/internal/config"
	"github.com/hfarran/studiohub/internal/database"
	"github.com/hfarran/studiohub/internal/event"
	"github.com/hfarran/studiohub/internal/faq"
	"github.com/hfarran/studiohub/internal/invite"
	"github.com/hfarran/studiohub/internal/joinrequest"
	"github.com/hfarran/studiohub/internal/studio"
	"github.com/hfarran/studiohub/internal/user"
	"github.com/hfarran/studiohub/internal/waitlist"
	"github.com/hfarran/studiohub/pkg/logger"
	mw "github.com/hfarran/studiohub/pkg/middleware"
)

// @title        StudioHub API
// @version      1.0
// @description  Community studio membership and access control service
// @BasePath     /api/v1
func main() {
	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer log.Sync()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatal("failed to apply migrations", zap.Error(err))
	}
	cancel()

	log.Info("connected to database")

	// Domain event sink: redis when configured, log-only otherwise
	var events event.Publisher = event.NewLogPublisher(log)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(pingCtx).Err()
		pingCancel()

		if err != nil {
			log.Warn("redis unreachable, falling back to log publisher", zap.Error(err))
		} else {
			events = event.NewRedisPublisher(client)
			log.Info("publishing domain events to redis", zap.String("addr", cfg.RedisAddr))
		}
	}

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Studio feature (role authority + membership store)
	studioRepo := studio.NewRepository(db)
	studioService := studio.NewService(studioRepo, events, log)
	studioHandler := studio.NewHandler(studioService)

	// Admission pathways
	inviteRepo := invite.NewRepository(db)
	inviteService := invite.NewService(inviteRepo, studioService, events, log)
	inviteHandler := invite.NewHandler(inviteService)

	requestRepo := joinrequest.NewRepository(db)
	requestService := joinrequest.NewService(requestRepo, studioService, events, log)
	requestHandler := joinrequest.NewHandler(requestService)

	waitlistRepo := waitlist.NewRepository(db)
	waitlistService := waitlist.NewService(waitlistRepo, studioService, events, log)
	waitlistHandler := waitlist.NewHandler(waitlistService)

	// FAQ feature
	faqRepo := faq.NewRepository(db)
	faqService := faq.NewService(faqRepo, studioService)
	faqHandler := faq.NewHandler(faqService)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(mw.Identity)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/users", userHandler.Routes())
		r.Mount("/studios", studioHandler.Routes(
			inviteHandler.StudioRoutes(),
			requestHandler.Routes(),
			waitlistHandler.StudioRoutes(),
			faqHandler.Routes(),
		))
		r.Mount("/invites", inviteHandler.UserRoutes())
		r.Mount("/waitlist", waitlistHandler.ReviewRoutes())
	})

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

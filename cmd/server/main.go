package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/inkwell/core"
	"github.com/dmitrymomot/inkwell/modules/auth"
	"github.com/dmitrymomot/inkwell/modules/post"
	"github.com/dmitrymomot/inkwell/pkg/config"
	"github.com/dmitrymomot/inkwell/pkg/email"
	"github.com/dmitrymomot/inkwell/pkg/file"
	"github.com/dmitrymomot/inkwell/pkg/httpserver"
	"github.com/dmitrymomot/inkwell/pkg/logger"
	mongodb "github.com/dmitrymomot/inkwell/pkg/mongo"
	"github.com/dmitrymomot/inkwell/pkg/ratelimiter"
	redisconn "github.com/dmitrymomot/inkwell/pkg/redis"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"inkwell"`
	Debug       bool   `env:"APP_DEBUG" envDefault:"false"`

	// StorageDriver selects where processed uploads land: "local" or "s3".
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"local"`
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"./public/img"`

	// RateLimitDriver selects the limiter backend: "memory" or "redis".
	RateLimitDriver         string        `env:"RATE_LIMIT_DRIVER" envDefault:"memory"`
	RateLimitCapacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"100"`
	RateLimitRefillRate     int           `env:"RATE_LIMIT_REFILL_RATE" envDefault:"100"`
	RateLimitRefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"1h"`
}

func main() {
	ctx := context.Background()

	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(logger.WithEnvironment(appCfg.Environment, appCfg.ServiceName))
	logger.SetAsDefault(log)

	fatal := func(msg string, err error) {
		log.ErrorContext(ctx, msg, logger.Error(err))
		os.Exit(1)
	}

	// Database.
	var mongoCfg mongodb.Config
	config.MustLoad(&mongoCfg)
	db, err := mongodb.NewWithDatabase(ctx, mongoCfg)
	if err != nil {
		fatal("failed to connect to mongodb", err)
	}
	defer db.Client().Disconnect(context.Background())

	// Redis, shared by the rate limiter and the health endpoint.
	var redisCfg redisconn.Config
	config.MustLoad(&redisCfg)
	redisClient, err := redisconn.Connect(ctx, redisCfg)
	if err != nil {
		fatal("failed to connect to redis", err)
	}
	defer redisClient.Close()

	// Outbound email.
	var emailCfg email.Config
	config.MustLoad(&emailCfg)
	var mailer email.EmailSender
	if emailCfg.PostmarkServerToken != "" {
		mailer, err = email.NewPostmarkClient(emailCfg)
		if err != nil {
			fatal("failed to configure postmark", err)
		}
	} else {
		mailer = email.NewDevSender(emailCfg.DevSenderDir, log)
	}

	// Upload storage.
	var files file.Storage
	switch appCfg.StorageDriver {
	case "s3":
		var s3Cfg file.S3Config
		config.MustLoad(&s3Cfg)
		files, err = file.NewS3Storage(ctx, s3Cfg)
		if err != nil {
			fatal("failed to configure s3 storage", err)
		}
	default:
		files, err = file.NewLocalStorage(appCfg.UploadDir, "/img/")
		if err != nil {
			fatal("failed to configure local storage", err)
		}
	}

	render := core.NewErrorRenderer(log, appCfg.Debug)

	// Auth.
	var authCfg auth.Config
	config.MustLoad(&authCfg)
	tokens, err := auth.NewTokenIssuer(authCfg.JWTSecret, authCfg.JWTTTL, authCfg.CookieSecure)
	if err != nil {
		fatal("failed to configure token issuer", err)
	}

	authStore := auth.NewMongoStorage(db)
	if err := authStore.EnsureIndexes(ctx); err != nil {
		fatal("failed to ensure user indexes", err)
	}
	authSvc := auth.NewService(authStore, mailer,
		auth.WithLogger(log),
		auth.WithBcryptCost(authCfg.BcryptCost),
		auth.WithResetTokenTTL(authCfg.ResetTokenTTL),
		auth.WithAppBaseURL(authCfg.AppBaseURL),
	)
	mw := auth.NewMiddleware(tokens, authStore, render)
	authHandler := auth.NewHandler(authSvc, tokens, mw, render)

	// Posts.
	postStore := post.NewMongoStorage(db)
	if err := postStore.EnsureIndexes(ctx); err != nil {
		fatal("failed to ensure post indexes", err)
	}
	postSvc := post.NewService(postStore, post.WithLogger(log))
	uploader := post.NewUploader(postSvc, files, log)
	postHandler := post.NewHandler(postSvc, uploader, mw, render)

	// Rate limiting.
	var limiterStore ratelimiter.Store
	if appCfg.RateLimitDriver == "redis" {
		limiterStore = ratelimiter.NewRedisStore(redisClient, appCfg.ServiceName+":ratelimit")
	} else {
		memStore := ratelimiter.NewMemoryStore()
		defer memStore.Close()
		limiterStore = memStore
	}
	bucket, err := ratelimiter.NewBucket(limiterStore, ratelimiter.Config{
		Capacity:       appCfg.RateLimitCapacity,
		RefillRate:     appCfg.RateLimitRefillRate,
		RefillInterval: appCfg.RateLimitRefillInterval,
	})
	if err != nil {
		fatal("failed to configure rate limiter", err)
	}

	// Router.
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(ratelimiter.Middleware(bucket, ratelimiter.ClientIP))

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log,
		mongodb.Healthcheck(db.Client()),
		redisconn.Healthcheck(redisClient),
	))

	r.Mount("/api/v1/users", authHandler.Router())
	r.Mount("/api/v1/posts", postHandler.Router())

	if appCfg.StorageDriver != "s3" {
		r.Handle("/img/*", http.StripPrefix("/img/",
			http.FileServer(http.Dir(appCfg.UploadDir))))
	}

	// HTTP server.
	var srvCfg httpserver.Config
	config.MustLoad(&srvCfg)
	srv := httpserver.NewFromConfig(srvCfg, httpserver.WithLogger(log))

	log.InfoContext(ctx, "starting server",
		slog.String("env", appCfg.Environment),
		slog.String("addr", srvCfg.Addr),
	)

	if err := srv.Run(ctx, r); err != nil {
		fatal("server stopped with error", err)
	}
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/eliteclass/ediary/internal/app"
	"github.com/eliteclass/ediary/internal/auth"
	"github.com/eliteclass/ediary/internal/config"
	"github.com/eliteclass/ediary/internal/db"
	"github.com/eliteclass/ediary/internal/jobs"
	"github.com/eliteclass/ediary/internal/logging"
	"github.com/eliteclass/ediary/internal/mail"
	"github.com/eliteclass/ediary/internal/observability"
	"github.com/eliteclass/ediary/internal/render"
	"github.com/eliteclass/ediary/internal/session"
	"github.com/eliteclass/ediary/internal/storage"
	"github.com/eliteclass/ediary/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Closer()
	logger := lg.Base

	render.SetLocation(cfg.Location)
	if cfg.Prod() {
		gin.SetMode(gin.ReleaseMode)
	}

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Release)
	if err != nil {
		logger.Warn("sentry init failed", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(database); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	cols, err := db.DetectProfileColumns(ctx, database)
	if err != nil {
		logger.Warn("profile columns detection failed", zap.Error(err))
	}
	if !cols.All() {
		logger.Warn("profiles table lacks optional columns", zap.Any("columns", cols))
	}

	store, err := storage.New(cfg.StorageDir, cfg.SessionSecret, cfg.PublicBaseURL)
	if err != nil {
		logger.Fatal("storage", zap.Error(err))
	}

	mailer := mail.New(cfg.SendgridKey, cfg.MailFrom, logger)
	authSvc := auth.NewService(database, mailer, cfg.PublicBaseURL, logger)
	tokens := auth.NewTokens(cfg.SessionSecret)
	guard := &session.Guard{
		Tokens: tokens,
		Store:  session.DBStore{DB: database, Cols: cols},
		Log:    logger,
	}

	runner := jobs.New(ctx, logger)
	jobs.StartMaintenance(runner, database)

	router := web.NewRouter(&web.Deps{
		DB:        database,
		Auth:      authSvc,
		Tokens:    tokens,
		Guard:     guard,
		Store:     store,
		Homeworks: app.NewHomeworks(database, store, logger),
		Cols:      cols,
		Log:       logger,
		Loc:       cfg.Location,
		Secure:    cfg.Prod(),
	})
	srv := web.Start(ctx, cfg.HTTPAddr, router, logger)

	<-ctx.Done()
	logger.Info("shutting down")
	srv.Wait()
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	myPostgresRepo "github.com/kvistberg/noteboard/auth-service/internal/adapters/db/postgres"
	transport "github.com/kvistberg/noteboard/auth-service/internal/adapters/transport/http"
	"github.com/kvistberg/noteboard/auth-service/internal/app/auth/hash"
	appjwt "github.com/kvistberg/noteboard/auth-service/internal/app/auth/jwt"
	appsvc "github.com/kvistberg/noteboard/auth-service/internal/app/auth/service"
	"github.com/kvistberg/noteboard/auth-service/internal/infra/config"
	lg "github.com/kvistberg/noteboard/auth-service/internal/infra/log"
	"github.com/kvistberg/noteboard/auth-service/internal/infra/migrate"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	issuer, err := appjwt.NewJwtIssuer(cfg)
	if err != nil {
		zapLog.Fatal("failed to init token issuer", zap.Error(err))
	}

	userRepo := myPostgresRepo.NewPostgresUserRepo(db)
	hasher := hash.New(cfg.PasswordPepper)
	svc := appsvc.New(userRepo, hasher, issuer, validator.New())

	router := transport.NewRouter(svc, cfg, zapLog)
	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: router}

	var g errgroup.Group
	g.Go(func() error {
		zapLog.Info("http server listening", zap.String("addr", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}

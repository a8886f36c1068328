package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"busticket/internal/cache"
	intconfig "busticket/internal/config"
	intdb "busticket/internal/db"
	router "busticket/internal/http"
	"busticket/internal/http/handlers"
	"busticket/internal/otp"
	"busticket/internal/services"
	"busticket/internal/utils"

	"go.uber.org/zap"
)

func main() {
	env := intconfig.LoadEnv()
	logger := utils.InitLogger(env.IsProduction(), env.LogLevel)
	defer func() { _ = logger.Sync() }()

	db := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()
	if err := intdb.EnsureSchema(db); err != nil {
		logger.Fatal("failed to prepare schema", zap.Error(err))
	}

	var store cache.Store
	if strings.EqualFold(env.CacheDriver, "memory") {
		logger.Warn("using in-memory cache; sessions and OTP codes are lost on restart")
		store = cache.NewMemoryStore()
	} else {
		store = cache.NewRedisStore(intconfig.ConnectRedis(env), "busticket:")
		defer intconfig.CloseRedis()
	}

	r := router.NewRouter(&handlers.Handlers{
		Env:     env,
		DB:      db,
		Cache:   store,
		Sender:  otp.LogSender{Logger: logger},
		Gateway: services.LogGateway{},
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", env.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}

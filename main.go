package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boardgamelist/internal/auth"
	"boardgamelist/internal/cache"
	intconfig "boardgamelist/internal/config"
	intdb "boardgamelist/internal/db"
	"boardgamelist/internal/domain"
	"boardgamelist/internal/domain/models"
	router "boardgamelist/internal/http"
	"boardgamelist/internal/http/middleware"
	"boardgamelist/internal/repositories"
	"boardgamelist/internal/services"
	"boardgamelist/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := intconfig.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	env, err := intconfig.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logFile, err := utils.ConfigureLogger(env.LogLevel, env.LogFormat, env.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, closeStore, err := buildDeps(ctx, env)
	if err != nil {
		utils.Log.WithError(err).Fatal("startup failed")
	}
	defer closeStore.Close()

	deps.Cache.StartJanitor(ctx, env.ListCacheJanitor)
	if deps.Limiter != nil {
		deps.Limiter.StartSweeper(ctx, time.Minute)
	}

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           router.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		utils.Log.WithFields(logrus.Fields{"addr": env.AppAddr, "data_source": env.DataSource}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	utils.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Log.WithError(err).Error("graceful shutdown failed")
		return
	}
	utils.Log.Info("server stopped")
}

func buildDeps(ctx context.Context, env intconfig.Env) (router.Deps, io.Closer, error) {
	deps := router.Deps{
		Env:      env,
		Cache:    cache.New(env.ListCacheTTL),
		Tokens:   auth.NewTokenService(env.JWTSecret, env.JWTIssuer, env.JWTAudience, env.JWTTTL),
		Policies: auth.NewRegistry(auth.DefaultPolicies()),
	}
	if env.RateLimitRPS > 0 {
		deps.Limiter = middleware.NewRateLimiter(env.RateLimitRPS, env.RateLimitBurst)
	}

	var closer io.Closer = io.NopCloser(nil)
	switch env.DataSource {
	case intconfig.DataSourceMemory:
		now := time.Now().UTC()
		deps.BoardGames = repositories.NewMemorySource(models.BoardGameSchema, repositories.SampleBoardGames(now)...)
		deps.Mechanics = repositories.NewMemorySource(models.MechanicSchema, repositories.SampleMechanics(now)...)
		deps.Users = repositories.NewMemoryUserStore()
	default:
		db, err := intconfig.OpenDB(ctx, env.MySQLDSN)
		if err != nil {
			return router.Deps{}, nil, err
		}
		closer = db
		if env.DBEnsureSchema {
			if err := intdb.EnsureSchema(ctx, db); err != nil {
				_ = db.Close()
				return router.Deps{}, nil, err
			}
		}
		deps.BoardGames = repositories.BoardGameRepository{DB: db}
		deps.Mechanics = repositories.MechanicRepository{DB: db}
		deps.Users = repositories.UserRepository{DB: db}
	}

	if err := bootstrapAdmin(ctx, env, deps); err != nil {
		_ = closer.Close()
		return router.Deps{}, nil, err
	}
	return deps, closer, nil
}

// bootstrapAdmin creates the configured administrator once; an existing account is kept.
func bootstrapAdmin(ctx context.Context, env intconfig.Env, deps router.Deps) error {
	if env.AdminUser == "" || env.AdminPassword == "" {
		return nil
	}
	svc := services.AccountService{Users: deps.Users, Tokens: deps.Tokens, RequestID: "startup"}
	_, err := svc.Register(ctx, models.RegisterPayload{
		UserName: env.AdminUser,
		Email:    env.AdminUser + "@localhost",
		Password: env.AdminPassword,
	}, auth.RoleAdministrator, auth.RoleModerator)
	if err != nil && !domain.IsConflict(err) {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	return nil
}

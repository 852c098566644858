package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EmpoweredVote/registrar/internal/accounts"
	"github.com/EmpoweredVote/registrar/internal/auth"
	"github.com/EmpoweredVote/registrar/internal/config"
	"github.com/EmpoweredVote/registrar/internal/db"
	"github.com/EmpoweredVote/registrar/internal/invites"
	"github.com/EmpoweredVote/registrar/internal/profiles"
	"github.com/EmpoweredVote/registrar/internal/tokens"
	"gorm.io/gorm/logger"
)

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Production() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	slog.SetDefault(log)
	if cfg.EphemeralSecret {
		log.Warn("JWT_SECRET not set; using a random per-process secret, sessions will not survive a restart")
	}

	gdb, err := db.Connect(db.Options{Driver: cfg.DBDriver, DSN: cfg.DatabaseURL, LogLevel: logger.Warn})
	if err != nil {
		log.Error("connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close(gdb)

	if err := auth.Migrate(gdb); err != nil {
		log.Error("migrate", "error", err)
		os.Exit(1)
	}

	tokenSvc, err := tokens.New([]byte(cfg.JWTSecret), cfg.TokenTTL)
	if err != nil {
		log.Error("token service", "error", err)
		os.Exit(1)
	}

	accountStore := accounts.NewStore(gdb)
	profileStore := profiles.NewStore(gdb)
	ledger := invites.NewLedger(gdb)
	linker := profiles.NewLinker(gdb, profileStore, accountStore)

	gw := auth.NewGateway(auth.Deps{
		Accounts: accountStore,
		Invites:  ledger,
		Linker:   linker,
		Tokens:   tokenSvc,
		Hasher:   auth.NewBcryptHasher(cfg.BcryptCost),
		Logger:   log,
	})

	handler := newRouter(cfg, routerDeps{
		DB:       gdb,
		Accounts: accountStore,
		Profiles: profileStore,
		Invites:  ledger,
		Linker:   linker,
		Gateway:  gw,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.AppEnv, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
}

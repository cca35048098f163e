package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/example/ec-storefront/internal/api"
	"github.com/example/ec-storefront/internal/auth"
	"github.com/example/ec-storefront/internal/config"
	"github.com/example/ec-storefront/pkg/closer"
)

func main() {
	app := &cli.App{
		Name:  "mockserver",
		Usage: "run the development commerce service with the demo catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address, overrides MOCKSERVER_ADDR"},
			&cli.StringFlag{Name: "log-level", Usage: "overrides MOCKSERVER_LOG_LEVEL"},
			&cli.StringFlag{Name: "seed-user", Usage: "username:password created at startup"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("mockserver stopped")
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("seed-user") {
		cfg.SeedUser = c.String("seed-user")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	log := logger.WithField("component", "mockserver")

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	backend := api.NewBackend(api.DemoProducts(), api.DemoProductTypes())

	if username, password, ok := cfg.Seed(); ok {
		hash, err := hasher.Hash(password)
		if err != nil {
			return errors.Wrap(err, "hash seed password")
		}
		if _, err := backend.CreateAccount(username, "", hash); err != nil {
			return errors.Wrap(err, "create seed user")
		}
		log.WithField("username", username).Info("seed user created")
	}

	handlers := api.NewHandlers(backend, jwtService, hasher, logger)
	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.NewRouter(handlers, jwtService, logger),
	}

	shutdown := closer.New(0)
	shutdown.Add("http server", server.Shutdown)

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":     cfg.Addr,
			"products": len(backend.Products()),
		}).Info("server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "listen")
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return shutdown.Close(shutdownCtx)
}

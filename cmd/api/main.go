package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/config"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/router"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/user"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/pkg/database"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/pkg/utilities"
)

var addrFlag = &cli.StringFlag{Name: "addr", Usage: "listen address, overrides API_ADDR"}

func main() {
	app := &cli.App{
		Name:   "api",
		Usage:  "users API service",
		Flags:  []cli.Flag{addrFlag},
		Action: serve,
		Commands: []*cli.Command{
			{Name: "serve", Usage: "run the HTTP API (default)", Flags: []cli.Flag{addrFlag}, Action: serve},
			{Name: "init-db", Usage: "create and seed the users table, then exit", Action: initDB},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	lg, err := utilities.Init(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return cfg, lg, nil
}

func serve(c *cli.Context) error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Infow("starting api", "service", cfg.ServiceName, "driver", cfg.DB.Driver, "db_host", cfg.DB.Host)

	gw, err := database.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer gw.Close()

	// an unreachable store is reported per request, not fatal at start
	if err := gw.Ping(c.Context); err != nil {
		sugar.Warnw("store not reachable yet", "err", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.APIAddr
	if v := c.String("addr"); v != "" {
		addr = v
	}
	srv := &http.Server{
		Addr: addr,
		Handler: router.RegisterRoutes(router.APIDeps{
			Logger:      sugar,
			Gateway:     gw,
			Metrics:     metrics.New("api"),
			IDs:         utilities.NewIDGenerator(cfg.SnowflakeNode),
			ServiceName: cfg.ServiceName,
			HealthName:  cfg.HealthServiceName,
		}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	sugar.Infow("api listening", "addr", addr)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
	return nil
}

func initDB(c *cli.Context) error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	gw, err := database.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer gw.Close()

	conn, err := gw.Acquire(c.Context)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer conn.Close()

	if err := user.NewUserService(nil, sugar).EnsureSchema(c.Context, conn); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	sugar.Infow("users table ready", "db", cfg.DB.DBName)
	return nil
}

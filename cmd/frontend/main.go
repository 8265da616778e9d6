package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/config"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/frontend"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/router"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/pkg/utilities"
)

func main() {
	app := &cli.App{
		Name:  "frontend",
		Usage: "dashboard rendering data from the users API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address, overrides FRONTEND_ADDR"},
			&cli.StringFlag{Name: "api-url", Usage: "API base URL, overrides API_URL"},
		},
		Action: serve,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "frontend: %v\n", err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	lg, err := utilities.Init(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	apiURL := cfg.APIURL
	if v := c.String("api-url"); v != "" {
		apiURL = strings.TrimRight(v, "/")
	}
	addr := cfg.FrontendAddr
	if v := c.String("addr"); v != "" {
		addr = v
	}

	m := metrics.New("frontend")
	client := frontend.NewClient(apiURL, cfg.FetchTimeout, sugar, m)
	defer client.Close()

	srv := &http.Server{
		Addr: addr,
		Handler: router.RegisterFrontendRoutes(router.FrontendDeps{
			Logger:  sugar,
			Client:  client,
			Metrics: m,
			IDs:     utilities.NewIDGenerator(cfg.SnowflakeNode),
		}),
		ReadTimeout: cfg.ReadTimeout,
		// a render waits on two API fetches
		WriteTimeout: cfg.WriteTimeout + 2*cfg.FetchTimeout,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	sugar.Infow("frontend listening", "addr", addr, "api_url", apiURL)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}

	sugar.Info("shutting down")
	doneCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	formdesk "github.com/goliatone/go-formdesk"
	"github.com/goliatone/go-formdesk/internal/config"
	"github.com/goliatone/go-formdesk/internal/logging"
	"github.com/goliatone/go-formdesk/internal/server"
	"github.com/goliatone/go-formdesk/pkg/form"
	"github.com/goliatone/go-formdesk/pkg/renderers/vanilla"
	"github.com/goliatone/go-formdesk/pkg/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "formdesk-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("formdesk-server", pflag.ExitOnError)
	config.RegisterFlags(flags)
	secure := flags.Bool("secure-cookies", false, "mark the session cookie Secure")
	title := flags.String("title", vanilla.DefaultTitle, "page heading")
	templatesDir := flags.String("templates-dir", "", "directory overriding the embedded page templates")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := formdesk.LoadRegistry(ctx, formdesk.Sources{
		Dir:     cfg.Forms.Dir,
		OpenAPI: cfg.Forms.OpenAPI,
	})
	if err != nil {
		return err
	}

	mode, err := cfg.ProgressMode()
	if err != nil {
		return err
	}
	store := session.NewStore(
		formdesk.NewSessionFactory(registry,
			form.WithProgressMode(mode),
			form.WithRequiredEnforcement(cfg.Form.EnforceRequired),
		),
		session.WithTTL(cfg.Session.TTL),
	)

	themeConfig, err := formdesk.LoadTheme(cfg.Theme.File, cfg.Theme.Variant)
	if err != nil {
		return err
	}

	renderers, err := formdesk.NewRendererRegistry([]vanilla.Option{
		vanilla.WithTitle(*title),
		vanilla.WithTemplatesDir(*templatesDir),
	}, nil)
	if err != nil {
		return err
	}
	page, err := renderers.Get("vanilla")
	if err != nil {
		return err
	}

	srv, err := server.New(registry, store,
		server.WithLogger(logger),
		server.WithBasePath(cfg.Server.BasePath),
		server.WithRenderer(page),
		server.WithTheme(themeConfig),
		server.WithSecureCookies(*secure),
	)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	go srv.SweepSessions(ctx, cfg.Session.TTL/2)

	logger.Info("listening",
		"addr", cfg.Server.Addr,
		"base_path", cfg.Server.BasePath,
		"forms", registry.Names(),
		"renderers", renderers.List(),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "grace", cfg.Server.ShutdownGrace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

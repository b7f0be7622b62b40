package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	formdesk "github.com/goliatone/go-formdesk"
	"github.com/goliatone/go-formdesk/internal/config"
	"github.com/goliatone/go-formdesk/internal/logging"
	"github.com/goliatone/go-formdesk/pkg/desk"
	"github.com/goliatone/go-formdesk/pkg/form"
	"github.com/goliatone/go-formdesk/pkg/renderers/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "formdesk-cli: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("formdesk-cli", pflag.ExitOnError)
	config.RegisterFlags(flags)
	output := flags.StringP("output", "o", "", "write the records as JSON to this file on exit")
	plain := flags.Bool("plain", false, "disable colors in status messages")
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
	ctrl, dk := formdesk.NewDesk(registry,
		form.WithProgressMode(mode),
		form.WithRequiredEnforcement(cfg.Form.EnforceRequired),
	)
	dk.OnEvent(func(event desk.Event) {
		logger.Debug("desk event", "kind", event.Kind, "record", event.Record.ID)
	})

	options := []tui.Option{}
	if *plain {
		options = append(options, tui.WithTheme(tui.Theme{ErrorPrefix: "! "}))
	}
	terminal, err := tui.New(options...)
	if err != nil {
		return err
	}

	runErr := terminal.Run(ctx, registry, ctrl, dk)
	if errors.Is(runErr, tui.ErrAborted) || errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	if *output != "" {
		if err := writeRecords(*output, dk); err != nil {
			return errors.Join(runErr, err)
		}
		logger.Info("records written", "file", *output, "count", dk.Len())
	}
	return runErr
}

func writeRecords(path string, dk *desk.Desk) error {
	data, err := json.MarshalIndent(dk.Records(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

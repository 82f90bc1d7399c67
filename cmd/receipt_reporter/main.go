package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kurochkinivan/receipt_reporter/internal/app"
	"github.com/kurochkinivan/receipt_reporter/internal/config"
	"github.com/kurochkinivan/receipt_reporter/internal/domain"
	"github.com/urfave/cli/v3"
)

var version = "dev"

type loggerKey struct{}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd().Run(ctx, os.Args); err != nil {
		if errors.Is(err, domain.ErrSetup) {
			fmt.Fprintf(os.Stderr, "setup error: %s\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "stopped app due to the error %q\n", err)
		}
		os.Exit(1)
	}
}

func cmd() *cli.Command {
	var configFile string

	return &cli.Command{
		Name:    "receipt_reporter",
		Usage:   "Extract, review and consolidate receipts for tax reporting",
		Version: version,
		Flags:   rootFlags(&configFile),
		Before:  setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "Extract structured data from every receipt in a directory",
				ArgsUsage: "[INPUT_DIR]",
				Flags:     extractFlags(&configFile),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load(cmd)
					if cmd.Args().Present() {
						cfg.InputDirectory = cmd.Args().First()
					}

					_, err := app.New(logger(ctx), cfg, os.Stdout).Extract(ctx)
					return err
				},
			},
			{
				Name:      "classify",
				Usage:     "Assign tax categories to the receipts of a finished extraction run",
				ArgsUsage: "RUN_ARTIFACT",
				Flags:     classifyFlags(&configFile),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if !cmd.Args().Present() {
						return fmt.Errorf("%w: no run artifact given", domain.ErrSetup)
					}

					_, err := app.New(logger(ctx), config.LoadClassify(cmd), os.Stdout).Classify(ctx, cmd.Args().First())
					return err
				},
			},
			{
				Name:      "consolidate",
				Usage:     "Merge reviewed workbooks into an accounting import file",
				ArgsUsage: "WORKBOOK_OR_DIR...",
				Flags:     consolidateFlags(&configFile),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if !cmd.Args().Present() {
						return fmt.Errorf("%w: no workbooks given", domain.ErrSetup)
					}

					_, err := app.New(logger(ctx), config.LoadConsolidate(cmd), os.Stdout).Consolidate(ctx, cmd.Args().Slice())
					return err
				},
			},
			{
				Name:  "serve",
				Usage: "Serve stored extraction runs over HTTP",
				Flags: serveFlags(&configFile),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return app.New(logger(ctx), config.LoadServe(cmd), os.Stdout).Serve(ctx)
				},
			},
		},
	}
}

func setupLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
		return ctx, fmt.Errorf("invalid log level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(cmd.String("log-format")) {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "text", "":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return ctx, fmt.Errorf("invalid log format %q", cmd.String("log-format"))
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return context.WithValue(ctx, loggerKey{}, log), nil
}

func logger(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return log
	}

	return slog.Default()
}

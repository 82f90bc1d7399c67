package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kurochkinivan/receipt_reporter/internal/audit"
	"github.com/kurochkinivan/receipt_reporter/internal/config"
	"github.com/kurochkinivan/receipt_reporter/internal/pipeline"
	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

func fromYAML(key string, configFile *string) cli.ValueSourceChain {
	return cli.NewValueSourceChain(yaml.YAML(key, altsrc.NewStringPtrSourcer(configFile)))
}

func rootFlags(configFile *string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Validator:   validateConfig,
			Usage:       "Load configuration from `FILE`",
			Destination: configFile,
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Set log level (debug, info, warn, error)",
			Value:   "info",
			Sources: fromYAML("log.level", configFile),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Set log format (text, json)",
			Value:   "text",
			Sources: fromYAML("log.format", configFile),
		},
	}
}

func extractFlags(configFile *string) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "input-dir",
			Aliases: []string{"i"},
			Usage:   "Set directory with receipt images and PDFs",
			Value:   "receipts",
			Sources: fromYAML("app.input_dir", configFile),
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "Set directory to write run artifacts and reports to",
			Value:   "receipts_extracted",
			Sources: fromYAML("app.output_dir", configFile),
		},
		&cli.StringFlag{
			Name:    "pdf-mode",
			Usage:   "Set how PDFs are sent to the model (render, document)",
			Value:   config.PDFModeRender,
			Sources: fromYAML("extraction.pdf_mode", configFile),
		},
		&cli.StringFlag{
			Name:    "pdf-converter",
			Usage:   "Set command used to render PDF pages",
			Value:   "pdftoppm",
			Sources: fromYAML("extraction.pdf_converter", configFile),
		},
		&cli.IntFlag{
			Name:    "max-image-side",
			Usage:   "Set longest image side in pixels before downscaling",
			Value:   2000,
			Sources: fromYAML("extraction.max_image_side", configFile),
		},
		&cli.StringFlag{
			Name:      "prompt-dir",
			Usage:     "Append every *.md file in `DIR` to the extraction prompt",
			Sources:   fromYAML("extraction.prompt_dir", configFile),
			Validator: validateDirectory,
		},
		&cli.StringFlag{
			Name:    "schema-file",
			Usage:   "Validate payloads against the JSON schema in `FILE`",
			Sources: fromYAML("extraction.schema_file", configFile),
		},
		&cli.BoolFlag{
			Name:    "classify",
			Usage:   "Assign tax categories to extracted receipts",
			Sources: fromYAML("extraction.classify", configFile),
		},
		&cli.StringFlag{
			Name:    "layout",
			Usage:   "Load review workbook layout from `FILE`",
			Sources: fromYAML("report.layout", configFile),
		},
		&cli.BoolFlag{
			Name:    "workbook",
			Usage:   "Write a review workbook",
			Value:   true,
			Sources: fromYAML("report.workbook", configFile),
		},
		&cli.BoolFlag{
			Name:    "pdf-report",
			Usage:   "Write a PDF run report",
			Value:   true,
			Sources: fromYAML("report.pdf", configFile),
		},
	}

	flags = append(flags, runFlags(configFile)...)
	flags = append(flags, llmFlags(configFile)...)

	return append(flags, postgresFlags(configFile, false)...)
}

func classifyFlags(configFile *string) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "Set directory to write classification reports to (default: next to the run artifact)",
			Sources: fromYAML("classify.output_dir", configFile),
		},
	}

	flags = append(flags, runFlags(configFile)...)

	return append(flags, llmFlags(configFile)...)
}

// runFlags control the parallel retried model calls shared by extract and
// classify.
func runFlags(configFile *string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "audit-dir",
			Usage:   "Set directory for model call logs (default: <output-dir>/llm_logs)",
			Sources: fromYAML("app.audit_dir", configFile),
		},
		&cli.StringFlag{
			Name:    "audit-format",
			Usage:   "Set model call log format (json, yaml)",
			Value:   audit.FormatJSON,
			Sources: fromYAML("app.audit_format", configFile),
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Set number of files processed in parallel",
			Value:   pipeline.DefaultMaxWorkers,
			Sources: fromYAML("extraction.workers", configFile),
		},
		&cli.IntFlag{
			Name:    "max-attempts",
			Usage:   "Set maximum model calls per file",
			Value:   pipeline.DefaultMaxAttempts,
			Sources: fromYAML("extraction.max_attempts", configFile),
		},
		&cli.DurationFlag{
			Name:    "base-delay",
			Usage:   "Set base retry delay, multiplied by the attempt number",
			Value:   pipeline.DefaultBaseDelay,
			Sources: fromYAML("extraction.base_delay", configFile),
		},
	}
}

func llmFlags(configFile *string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "provider",
			Usage:   "Set model provider (anthropic, openai)",
			Value:   config.ProviderAnthropic,
			Sources: fromYAML("llm.provider", configFile),
		},
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Set model name (default depends on provider)",
			Sources: fromYAML("llm.model", configFile),
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Set API key (or ANTHROPIC_API_KEY / OPENAI_API_KEY)",
			Sources: fromYAML("llm.api_key", configFile),
		},
		&cli.StringFlag{
			Name:    "llm-base-url",
			Usage:   "Override provider API base URL",
			Sources: fromYAML("llm.base_url", configFile),
		},
		&cli.IntFlag{
			Name:    "max-tokens",
			Usage:   "Set maximum tokens in a model response",
			Value:   4000,
			Sources: fromYAML("llm.max_tokens", configFile),
		},
		&cli.DurationFlag{
			Name:    "llm-timeout",
			Usage:   "Set timeout of a single model call",
			Value:   2 * time.Minute,
			Sources: fromYAML("llm.timeout", configFile),
		},
	}
}

func consolidateFlags(configFile *string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "Set directory to write the import file to",
			Value:   "receipts_consolidated",
			Sources: fromYAML("consolidate.output_dir", configFile),
		},
		&cli.StringFlag{
			Name:    "layout",
			Usage:   "Load review workbook layout from `FILE`",
			Sources: fromYAML("report.layout", configFile),
		},
	}
}

func serveFlags(configFile *string) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "http-host",
			Usage:   "Set HTTP server host",
			Value:   "localhost",
			Sources: fromYAML("http.host", configFile),
		},
		&cli.StringFlag{
			Name:    "http-port",
			Usage:   "Set HTTP server port",
			Value:   "8080",
			Sources: fromYAML("http.port", configFile),
		},
		&cli.DurationFlag{
			Name:    "http-idle-timeout",
			Usage:   "Set HTTP server idle timeout",
			Value:   1 * time.Minute,
			Sources: fromYAML("http.idle_timeout", configFile),
		},
		&cli.DurationFlag{
			Name:    "http-read-timeout",
			Usage:   "Set HTTP server read timeout",
			Value:   15 * time.Second,
			Sources: fromYAML("http.read_timeout", configFile),
		},
		&cli.DurationFlag{
			Name:    "http-write-timeout",
			Usage:   "Set HTTP server write timeout",
			Value:   15 * time.Second,
			Sources: fromYAML("http.write_timeout", configFile),
		},
	}

	return append(flags, postgresFlags(configFile, true)...)
}

// postgresFlags are optional for extract, where an empty host disables
// persistence, and required for serve.
func postgresFlags(configFile *string, required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "pg-host",
			Usage:    "Set PostgreSQL host",
			Sources:  fromYAML("postgresql.host", configFile),
			Required: required,
		},
		&cli.StringFlag{
			Name:    "pg-port",
			Usage:   "Set PostgreSQL port",
			Value:   "5432",
			Sources: fromYAML("postgresql.port", configFile),
		},
		&cli.StringFlag{
			Name:     "pg-username",
			Usage:    "Set PostgreSQL username",
			Sources:  fromYAML("postgresql.username", configFile),
			Required: required,
		},
		&cli.StringFlag{
			Name:    "pg-password",
			Usage:   "Set PostgreSQL password",
			Sources: fromYAML("postgresql.password", configFile),
		},
		&cli.StringFlag{
			Name:    "pg-dbname",
			Usage:   "Set PostgreSQL database name",
			Value:   "receipts",
			Sources: fromYAML("postgresql.dbname", configFile),
		},
	}
}

func validateDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%q does not exist", dir)
		}
		return fmt.Errorf("failed to stat %q: %w", dir, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}

	return nil
}

func validateConfig(config string) error {
	info, err := os.Stat(config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%q does not exist", config)
		}
		return fmt.Errorf("failed to stat %q: %w", config, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%q is a directory, not a file", config)
	}

	ext := filepath.Ext(info.Name())
	if ext != ".yml" && ext != ".yaml" {
		return fmt.Errorf("invalid extension %q", config)
	}

	return nil
}

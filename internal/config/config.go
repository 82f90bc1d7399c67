package config

import (
	"os"
	"time"

	"github.com/urfave/cli/v3"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"

	PDFModeRender   = "render"
	PDFModeDocument = "document"
)

type Config struct {
	App
	Extraction
	LLM
	Report
	PostgreSQL
	HTTP
}

type App struct {
	InputDirectory  string
	OutputDirectory string
	AuditDirectory  string
	AuditFormat     string
}

type Extraction struct {
	MaxWorkers   int
	MaxAttempts  int
	BaseDelay    time.Duration
	PDFMode      string
	PDFConverter string
	MaxImageSide int
	PromptDir    string
	SchemaFile   string
	Classify     bool
}

type LLM struct {
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

type Report struct {
	LayoutFile string
	Workbook   bool
	PDF        bool
}

type PostgreSQL struct {
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
}

// Enabled reports whether run persistence was configured at all.
func (p PostgreSQL) Enabled() bool {
	return p.Host != "" && p.Username != ""
}

type HTTP struct {
	Host         string
	Port         string
	IdleTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func Load(cmd *cli.Command) *Config {
	return &Config{
		App: App{
			InputDirectory:  cmd.String("input-dir"),
			OutputDirectory: cmd.String("output-dir"),
			AuditDirectory:  cmd.String("audit-dir"),
			AuditFormat:     cmd.String("audit-format"),
		},
		Extraction: Extraction{
			MaxWorkers:   cmd.Int("workers"),
			MaxAttempts:  cmd.Int("max-attempts"),
			BaseDelay:    cmd.Duration("base-delay"),
			PDFMode:      cmd.String("pdf-mode"),
			PDFConverter: cmd.String("pdf-converter"),
			MaxImageSide: cmd.Int("max-image-side"),
			PromptDir:    cmd.String("prompt-dir"),
			SchemaFile:   cmd.String("schema-file"),
			Classify:     cmd.Bool("classify"),
		},
		LLM: loadLLM(cmd),
		Report: Report{
			LayoutFile: cmd.String("layout"),
			Workbook:   cmd.Bool("workbook"),
			PDF:        cmd.Bool("pdf-report"),
		},
		PostgreSQL: loadPostgreSQL(cmd),
	}
}

// LoadClassify builds the configuration of the classify command, which
// reuses the worker and retry settings of extraction.
func LoadClassify(cmd *cli.Command) *Config {
	return &Config{
		App: App{
			OutputDirectory: cmd.String("output-dir"),
			AuditDirectory:  cmd.String("audit-dir"),
			AuditFormat:     cmd.String("audit-format"),
		},
		Extraction: Extraction{
			MaxWorkers:  cmd.Int("workers"),
			MaxAttempts: cmd.Int("max-attempts"),
			BaseDelay:   cmd.Duration("base-delay"),
			Classify:    true,
		},
		LLM: loadLLM(cmd),
	}
}

// LoadConsolidate builds the configuration of the consolidate command.
func LoadConsolidate(cmd *cli.Command) *Config {
	return &Config{
		App: App{
			OutputDirectory: cmd.String("output-dir"),
		},
		Report: Report{
			LayoutFile: cmd.String("layout"),
		},
	}
}

// LoadServe builds the configuration of the read-only API server.
func LoadServe(cmd *cli.Command) *Config {
	return &Config{
		PostgreSQL: loadPostgreSQL(cmd),
		HTTP: HTTP{
			Host:         cmd.String("http-host"),
			Port:         cmd.String("http-port"),
			IdleTimeout:  cmd.Duration("http-idle-timeout"),
			ReadTimeout:  cmd.Duration("http-read-timeout"),
			WriteTimeout: cmd.Duration("http-write-timeout"),
		},
	}
}

// apiKey falls back to the provider's conventional environment variable
// when no key was given explicitly.
func apiKey(explicit, provider string) string {
	if explicit != "" {
		return explicit
	}

	if provider == ProviderOpenAI {
		return os.Getenv("OPENAI_API_KEY")
	}

	return os.Getenv("ANTHROPIC_API_KEY")
}

func loadLLM(cmd *cli.Command) LLM {
	return LLM{
		Provider:  cmd.String("provider"),
		Model:     cmd.String("model"),
		APIKey:    apiKey(cmd.String("api-key"), cmd.String("provider")),
		BaseURL:   cmd.String("llm-base-url"),
		MaxTokens: cmd.Int("max-tokens"),
		Timeout:   cmd.Duration("llm-timeout"),
	}
}

func loadPostgreSQL(cmd *cli.Command) PostgreSQL {
	return PostgreSQL{
		Host:     cmd.String("pg-host"),
		Port:     cmd.String("pg-port"),
		Username: cmd.String("pg-username"),
		Password: cmd.String("pg-password"),
		DBName:   cmd.String("pg-dbname"),
	}
}

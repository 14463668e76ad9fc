// Package cmd implements the CLI application to prepare a retirement.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/nestegg"
	"github.com/etnz/nestegg/advisor"
	"github.com/etnz/nestegg/internal/logger"
	"github.com/etnz/nestegg/store"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Commands are the subcommands, in the order they are listed in the help.
var Commands = []subcommands.Command{
	&addCmd{},
	&removeCmd{},
	&qtyCmd{},
	&cashCmd{},
	&listCmd{},
	&pendingCmd{},
	&planCmd{},
	&projectCmd{},
	&analyzeCmd{},
	&trendingCmd{},
	&adviseCmd{},
	&assistCmd{},
	&saveCmd{},
	&exportCmd{},
	&topicCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	dataDir   = flag.String("data-dir", "", "Folder of the saved state and of config.yaml (default ~/.nestegg)")
	storeKind = flag.String("store", "", "Storage backend: dir, sqlite, redis or memory")
	dsn       = flag.String("dsn", "", "Storage location: a folder, a database file or a redis:// URL")
	apiKey    = flag.String("api-key", "", "Gemini API key")
	model     = flag.String("model", "", "Gemini model")
	currency  = flag.String("currency", "", "Currency of prices and savings")
	logLevel  = flag.String("log-level", "", "Log level: debug, info, warn or error")
)

// now is the clock of the commands.
var now = time.Now

// Config is the resolved configuration of the application.
type Config struct {
	DataDir  string
	Store    string
	DSN      string
	APIKey   string
	Model    string
	Currency string
	LogLevel string
}

// LoadConfig reads the configuration. Flags win over NESTEGG_* environment
// variables (possibly set in a .env file), which win over config.yaml in the
// data folder.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("nestegg")
	v.AutomaticEnv()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	v.SetDefault("data_dir", filepath.Join(home, ".nestegg"))
	v.SetDefault("store", store.KindDir)
	v.SetDefault("dsn", "")
	v.SetDefault("api_key", "")
	v.SetDefault("model", advisor.DefaultModel)
	v.SetDefault("currency", "TWD")
	v.SetDefault("log_level", "warn")

	flags := map[string]string{
		"data_dir":  *dataDir,
		"store":     *storeKind,
		"dsn":       *dsn,
		"api_key":   *apiKey,
		"model":     *model,
		"currency":  *currency,
		"log_level": *logLevel,
	}
	dir := flags["data_dir"]
	if dir == "" {
		dir = v.GetString("data_dir")
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("cannot read config: %w", err)
		}
	}
	for key, value := range flags {
		if value != "" {
			v.Set(key, value)
		}
	}

	cfg := Config{
		DataDir:  v.GetString("data_dir"),
		Store:    v.GetString("store"),
		DSN:      v.GetString("dsn"),
		APIKey:   v.GetString("api_key"),
		Model:    v.GetString("model"),
		Currency: v.GetString("currency"),
		LogLevel: v.GetString("log_level"),
	}
	if cfg.DSN == "" {
		switch cfg.Store {
		case store.KindDir, "":
			cfg.DSN = cfg.DataDir
		case store.KindSQLite:
			cfg.DSN = filepath.Join(cfg.DataDir, "nest.db")
		}
	}
	return cfg, nil
}

// Logger returns the logger configured by 'cfg'.
func (cfg Config) Logger() zerolog.Logger {
	l := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true})
	logger.SetGlobalLogger(l)
	return l
}

// OpenPortfolio loads the configuration and opens the saved portfolio. The
// returned function closes the storage.
func OpenPortfolio(ctx context.Context) (*nestegg.Portfolio, Config, func(), error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, cfg, nil, err
	}
	log := cfg.Logger()
	backend, err := store.Open(cfg.Store, cfg.DSN)
	if err != nil {
		return nil, cfg, nil, err
	}
	log.Debug().Str("store", cfg.Store).Str("dsn", cfg.DSN).Msg("storage opened")
	p := nestegg.Open(ctx, backend, nestegg.WithLogger(log), nestegg.WithCurrency(cfg.Currency))
	closer := func() {
		if err := backend.Close(); err != nil {
			log.Warn().Err(err).Msg("cannot close storage")
		}
	}
	return p, cfg, closer, nil
}

// openPortfolio is the common prologue of the commands.
func openPortfolio(ctx context.Context) (*nestegg.Portfolio, Config, func(), bool) {
	p, cfg, closer, err := OpenPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening portfolio: %v\n", err)
		return nil, cfg, nil, false
	}
	return p, cfg, closer, true
}

// credential resolves the Gemini API key, -api-key and NESTEGG_API_KEY first.
func (cfg Config) credential() (string, error) {
	return advisor.Credential(cfg.APIKey)
}

// printMarkdown renders markdown for the terminal, or prints it raw when it
// cannot be rendered.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the tools read, e.g.
// DECKGEN_LOG_LEVEL.
const EnvPrefix = "DECKGEN"

// Config holds settings shared by the command-line tools.
type Config struct {
	LogLevel  string
	LogFormat string
	NoColor   bool

	// render_pptx
	TempDir  string
	CheckFit bool
	FontDirs []string

	// tune_plan
	Strict bool

	// Sources that contributed, for logging.
	ConfigFile string
	EnvFile    string
}

// Load resolves configuration from, lowest precedence first: defaults, an
// optional deckgen.yaml (or the file named by --config), a .env file,
// DECKGEN_* environment variables and flags set on the command line.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	var cfg Config
	if err := godotenv.Load(".env"); err == nil {
		cfg.EnvFile = ".env"
	} else if !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return cfg, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("deckgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return cfg, fmt.Errorf("failed to read deckgen.yaml: %w", err)
			}
		}
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	cfg.LogLevel = strings.ToLower(v.GetString(KeyLogLevel))
	cfg.LogFormat = strings.ToLower(v.GetString(KeyLogFormat))
	cfg.NoColor = v.GetBool(KeyNoColor)
	cfg.TempDir = v.GetString(KeyTempDir)
	cfg.CheckFit = v.GetBool(KeyCheckFit)
	cfg.FontDirs = v.GetStringSlice(KeyFontDir)
	cfg.Strict = v.GetBool(KeyStrict)

	return cfg, cfg.Validate()
}

// Validate checks the log settings and that TempDir, when set, is an
// existing directory.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json; got %q", c.LogFormat)
	}
	if c.TempDir != "" {
		info, err := os.Stat(c.TempDir)
		if err != nil {
			return fmt.Errorf("temp dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("temp dir %s is not a directory", c.TempDir)
		}
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/leitnerbox/internal/leitner"
	"github.com/conorfennell/leitnerbox/internal/storage"
)

// EnvPrefix prefixes every environment variable read by Load, e.g.
// LEITNERBOX_DECK_PATH sets deck.path.
const EnvPrefix = "LEITNERBOX_"

type Config struct {
	Deck   DeckConfig   `koanf:"deck"`
	Import ImportConfig `koanf:"import"`
	Log    LogConfig    `koanf:"log"`
	Serve  ServeConfig  `koanf:"serve"`
}

type DeckConfig struct {
	Path     string `koanf:"path" validate:"required"`
	Driver   string `koanf:"driver" validate:"omitempty,oneof=json sqlite"`
	Boxes    []int  `koanf:"boxes" validate:"min=1,dive,gt=0"`
	Autosave bool   `koanf:"autosave"`
}

type ImportConfig struct {
	Sheet    string `koanf:"sheet"`
	ReposDir string `koanf:"repos_dir" validate:"required"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	File  string `koanf:"file"`
}

type ServeConfig struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"deck":      "deck.path",
	"driver":    "deck.driver",
	"boxes":     "deck.boxes",
	"autosave":  "deck.autosave",
	"sheet":     "import.sheet",
	"repos-dir": "import.repos_dir",
	"log-level": "log.level",
	"log-file":  "log.file",
	"addr":      "serve.addr",
}

// Flags registers every config flag, with its default, on fs. The returned
// FlagSet is meant to be parsed by the caller and handed to Load.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "YAML config file")
	fs.String("env-file", ".env", "file with environment variables to load if present")

	fs.String("deck", "deck.json", "deck file (.json, or .db/.sqlite for SQLite)")
	fs.String("driver", "", "storage driver: json or sqlite (default: from the deck file extension)")
	fs.IntSlice("boxes", leitner.DefaultSizes, "box sizes in cm for a new deck")
	fs.Bool("autosave", false, "save after every answer and refill")
	fs.String("sheet", "", "spreadsheet sheet to import (default: first sheet)")
	fs.String("repos-dir", "repos", "directory for cloned import repositories")
	fs.String("log-level", "info", "log level")
	fs.String("log-file", "", "write logs to this file instead of stderr")
	fs.String("addr", "127.0.0.1:8321", "listen address for serve")
	return fs
}

// Load layers flag defaults, the YAML file named by --config, the env file
// and LEITNERBOX_ variables, and finally the flags set on the command line.
// fs must already be parsed.
func Load(fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path, _ := fs.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if envFile, _ := fs.GetString("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, iofs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}
	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	err = k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(fs, f)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Deck.Driver == "" {
		cfg.Deck.Driver = storage.DetectDriver(cfg.Deck.Path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its validate tag.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// envValue turns LEITNERBOX_DECK_PATH into deck.path. Only the first
// underscore after the section splits, so LEITNERBOX_IMPORT_REPOS_DIR
// becomes import.repos_dir. Box sizes are given comma separated.
func envValue(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.Replace(key, "_", ".", 1)
	if key == "deck.boxes" {
		return key, strings.Split(value, ",")
	}
	return key, value
}

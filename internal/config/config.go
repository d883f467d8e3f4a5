// Package config loads settings from the embedded defaults, an optional
// user file, .env and MEMAGENT_* environment variables, in that order of
// increasing precedence.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/petasbytes/memagent/internal/provider"
)

//go:embed config.yml
var defaults []byte

// PlaceholderAPIKey is the credential shipped in example configs.
const PlaceholderAPIKey = "YOUR_API_KEY_HERE"

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

type S3 struct {
	Endpoint  string
	Region    string
	Bucket    string
	Key       string
	AccessKey string
	SecretKey string
	Secure    bool
}

type Store struct {
	Backend    string
	Path       string
	SQLitePath string
	S3         S3
}

type Server struct {
	Addr string
}

type Log struct {
	Level string
}

type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int64
	Temperature float64
	AgentID     string
	Store       Store
	Server      Server
	Log         Log
}

// Load reads configuration. path names an optional YAML file; an empty path
// or a missing file falls back to the defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("read default config: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	v.SetEnvPrefix("MEMAGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("api_key", "MEMAGENT_API_KEY", "CLAUDE_API_KEY", "ANTHROPIC_API_KEY")

	cfg := &Config{
		Provider:    strings.ToLower(v.GetString("provider")),
		Model:       v.GetString("model"),
		APIKey:      v.GetString("api_key"),
		BaseURL:     v.GetString("base_url"),
		MaxTokens:   v.GetInt64("max_tokens"),
		Temperature: v.GetFloat64("temperature"),
		AgentID:     v.GetString("agent_id"),
		Store: Store{
			Backend:    strings.ToLower(v.GetString("store.backend")),
			Path:       v.GetString("store.path"),
			SQLitePath: v.GetString("store.sqlite_path"),
			S3: S3{
				Endpoint:  v.GetString("store.s3.endpoint"),
				Region:    v.GetString("store.s3.region"),
				Bucket:    v.GetString("store.s3.bucket"),
				Key:       v.GetString("store.s3.key"),
				AccessKey: v.GetString("store.s3.access_key"),
				SecretKey: v.GetString("store.s3.secret_key"),
				Secure:    v.GetBool("store.s3.secure"),
			},
		},
		Server: Server{Addr: v.GetString("server.addr")},
		Log:    Log{Level: v.GetString("log.level")},
	}

	if cfg.Provider == provider.KindOpenAI {
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.Model == provider.DefaultAnthropicModel {
			cfg.Model = provider.DefaultOpenAIModel
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case provider.KindAnthropic, provider.KindOpenAI:
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}
	switch c.Store.Backend {
	case BackendFile:
		if c.Store.Path == "" {
			return errors.New("config: store.path is required for the file backend")
		}
	case BackendSQLite:
		if c.Store.SQLitePath == "" || c.AgentID == "" {
			return errors.New("config: store.sqlite_path and agent_id are required for the sqlite backend")
		}
	case BackendS3:
		if c.Store.S3.Endpoint == "" || c.Store.S3.Bucket == "" || c.Store.S3.Key == "" {
			return errors.New("config: store.s3.endpoint, bucket and key are required for the s3 backend")
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("config: max_tokens must be positive, got %d", c.MaxTokens)
	}
	return nil
}

// Warnings lists non-fatal problems to log once at startup.
func (c *Config) Warnings() []string {
	var out []string
	switch strings.TrimSpace(c.APIKey) {
	case "":
		out = append(out, "no API key configured; model calls will fail until one is set")
	case PlaceholderAPIKey:
		out = append(out, "API key is still the placeholder "+PlaceholderAPIKey)
	}
	return out
}

package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging    LoggingConfig    `yaml:"logging"`
	ServerAddr string           `yaml:"server_addr"`
	Generation GenerationConfig `yaml:"generation"`
	LinkedIn   LinkedInConfig   `yaml:"linkedin"`
	Article    ArticleConfig    `yaml:"article"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GenerationConfig controls the Gemini generation client.
// MaxRetries counts retries after the first attempt; backoff between
// attempts is linear (attempt * BackoffSeconds).
type GenerationConfig struct {
	Model          string   `yaml:"model"`
	Models         []string `yaml:"models"`
	MaxRetries     int      `yaml:"max_retries"`
	BackoffSeconds int      `yaml:"backoff_seconds"`
}

type LinkedInConfig struct {
	APIBase               string `yaml:"api_base"`
	ResolveTimeoutSeconds int    `yaml:"resolve_timeout_seconds"`
	PublishTimeoutSeconds int    `yaml:"publish_timeout_seconds"`
}

// ArticleConfig holds defaults for the generate/publish flow.
// API keys never appear here; they are supplied per session.
type ArticleConfig struct {
	DefaultSavePath string `yaml:"default_save_path"`
	DryRunDefault   bool   `yaml:"dry_run_default"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	c := defaultConfig()

	// Load the configuration file. A missing file falls back to defaults so
	// the binary can run from a bare checkout.
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err == nil {
		if err := yaml.Unmarshal(data, &c); err != nil {
			panic(err)
		}
	}
	applyFallbacks(&c)
	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func defaultConfig() AppConfig {
	return AppConfig{
		Logging:    LoggingConfig{Level: "info"},
		ServerAddr: ":8080",
		Generation: GenerationConfig{
			Model:          "gemini-pro-latest",
			Models:         []string{"gemini-pro-latest", "gemini-1.0-mini"},
			MaxRetries:     2,
			BackoffSeconds: 1,
		},
		LinkedIn: LinkedInConfig{
			APIBase:               "https://api.linkedin.com/v2",
			ResolveTimeoutSeconds: 10,
			PublishTimeoutSeconds: 15,
		},
		Article: ArticleConfig{
			DefaultSavePath: "article.txt",
			DryRunDefault:   true,
		},
	}
}

// applyFallbacks fills zero values left by a partial config.yaml.
func applyFallbacks(c *AppConfig) {
	d := defaultConfig()
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.ServerAddr == "" {
		c.ServerAddr = d.ServerAddr
	}
	if c.Generation.Model == "" {
		c.Generation.Model = d.Generation.Model
	}
	if len(c.Generation.Models) == 0 {
		c.Generation.Models = d.Generation.Models
	}
	if c.Generation.MaxRetries <= 0 {
		c.Generation.MaxRetries = d.Generation.MaxRetries
	}
	if c.Generation.BackoffSeconds <= 0 {
		c.Generation.BackoffSeconds = d.Generation.BackoffSeconds
	}
	if c.LinkedIn.APIBase == "" {
		c.LinkedIn.APIBase = d.LinkedIn.APIBase
	}
	if c.LinkedIn.ResolveTimeoutSeconds <= 0 {
		c.LinkedIn.ResolveTimeoutSeconds = d.LinkedIn.ResolveTimeoutSeconds
	}
	if c.LinkedIn.PublishTimeoutSeconds <= 0 {
		c.LinkedIn.PublishTimeoutSeconds = d.LinkedIn.PublishTimeoutSeconds
	}
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

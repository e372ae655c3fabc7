package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the agentsearch API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the candidate store settings.
type DatabaseConfig struct {
	DSN           string `yaml:"dsn"`
	RunMigrations bool   `yaml:"run_migrations"`
}

// CacheConfig holds the key-value store used for the query-embedding cache
// and budget counters. No addrs disables both.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	EmbeddingTTLHour int      `yaml:"embedding_ttl_hours"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a cache is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// Limited reports whether any limit is set.
func (b BudgetConfig) Limited() bool { return b.DailyTokenLimit > 0 || b.MonthlyTokenLimit > 0 }

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider            string       `yaml:"provider"`
	APIKey              string       `yaml:"api_key"`
	BaseURL             string       `yaml:"base_url"`
	Model               string       `yaml:"model"`
	Dimensions          int          `yaml:"dimensions"`
	QueryInstruction    string       `yaml:"query_instruction"`
	DocumentInstruction string       `yaml:"document_instruction"`
	Budget              BudgetConfig `yaml:"budget"`
}

// ModelConfig holds one completion model's settings.
type ModelConfig struct {
	Provider   string `yaml:"provider"` // openai, anthropic (judge only)
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	MaxTokens  int    `yaml:"max_tokens"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// RateLimitConfig bounds judge calls per second across requests. Zero disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// LLMConfig holds completion settings for the interpreter and the judge.
type LLMConfig struct {
	Interpreter ModelConfig     `yaml:"interpreter"`
	Judge       ModelConfig     `yaml:"judge"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Budget      BudgetConfig    `yaml:"budget"`
}

// PipelineConfig holds the search thresholds. Omitted or zero counts select
// the defaults. The two thresholds are pointers: omitted selects the default
// (0.30 and 40), an explicit 0 disables the threshold.
type PipelineConfig struct {
	SimilarityFloor  *float64 `yaml:"similarity_floor"`
	FetchMultiplier  int      `yaml:"fetch_multiplier"`
	ShortlistCap     int      `yaml:"shortlist_cap"`
	JudgeConcurrency int      `yaml:"judge_concurrency"`
	MinFitScore      *int     `yaml:"min_fit_score"`
	SuggestionSample int      `yaml:"suggestion_sample"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates a YAML document.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
// Pipeline thresholds are left at zero; the services substitute their own defaults.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// a search waits on up to two rounds of judge calls
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.EmbeddingTTLHour <= 0 {
		c.Cache.EmbeddingTTLHour = 24 * 7
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.LLM.Interpreter.Provider == "" {
		c.LLM.Interpreter.Provider = "openai"
	}
	if c.LLM.Judge.Provider == "" {
		c.LLM.Judge.Provider = "openai"
	}
	if c.LLM.Interpreter.TimeoutSec <= 0 {
		c.LLM.Interpreter.TimeoutSec = 15
	}
	if c.LLM.Judge.TimeoutSec <= 0 {
		c.LLM.Judge.TimeoutSec = 30
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must not be negative, got %d", c.Embedding.Dimensions)
	}
	if err := validateAction("embedding.budget", c.Embedding.Budget.Action); err != nil {
		return err
	}
	if err := validateAction("llm.budget", c.LLM.Budget.Action); err != nil {
		return err
	}
	if c.LLM.Interpreter.Provider != "openai" {
		return fmt.Errorf("llm.interpreter.provider must be \"openai\", got %q", c.LLM.Interpreter.Provider)
	}
	switch c.LLM.Judge.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("llm.judge.provider must be \"openai\" or \"anthropic\", got %q", c.LLM.Judge.Provider)
	}
	if c.LLM.Interpreter.Model == "" || c.LLM.Judge.Model == "" {
		return fmt.Errorf("llm.interpreter.model and llm.judge.model are required")
	}
	if c.LLM.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("llm.rate_limit.requests_per_second must not be negative")
	}
	if f := c.Pipeline.SimilarityFloor; f != nil && (*f < 0 || *f >= 1) {
		return fmt.Errorf("pipeline.similarity_floor must be in [0, 1), got %v", *f)
	}
	if s := c.Pipeline.MinFitScore; s != nil && (*s < 0 || *s > 100) {
		return fmt.Errorf("pipeline.min_fit_score must be in [0, 100], got %d", *s)
	}
	return nil
}

func validateAction(section, action string) error {
	switch action {
	case "", "warn", "reject":
		return nil
	default:
		return fmt.Errorf("%s.action must be \"warn\" or \"reject\", got %q", section, action)
	}
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

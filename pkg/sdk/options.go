package agentsearch

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/lighthouse-careers/agentsearch/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	cfg config.Config

	embedder    Embedder
	interpreter StructuredCompleter
	reasoner    Reasoner

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

func newClientConfig() *clientConfig {
	c := &clientConfig{}
	c.cfg.Database.RunMigrations = true
	return c
}

// WithSQLite sets the candidate store DSN. Required.
func WithSQLite(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Database.DSN = dsn
	})
}

// WithCache enables the Redis or Valkey cache for query embeddings and budget counters.
func WithCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Cache.Addrs = []string{addr}
		c.cfg.Cache.Password = password
	})
}

// WithOpenAI sets the API key and base URL of the OpenAI-compatible provider
// used by every model call. An empty baseURL selects the OpenAI API.
func WithOpenAI(apiKey, baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Embedding.APIKey, c.cfg.Embedding.BaseURL = apiKey, baseURL
		c.cfg.LLM.Interpreter.APIKey, c.cfg.LLM.Interpreter.BaseURL = apiKey, baseURL
		if c.cfg.LLM.Judge.APIKey == "" {
			c.cfg.LLM.Judge.APIKey, c.cfg.LLM.Judge.BaseURL = apiKey, baseURL
		}
	})
}

// WithEmbeddingModel sets the embedding model and its vector dimensions.
func WithEmbeddingModel(model string, dimensions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Embedding.Model = model
		c.cfg.Embedding.Dimensions = dimensions
	})
}

// WithInstructions sets the texts prepended to queries and profiles before embedding.
func WithInstructions(query, document string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Embedding.QueryInstruction = query
		c.cfg.Embedding.DocumentInstruction = document
	})
}

// WithInterpreterModel sets the structured-output model used to interpret queries.
func WithInterpreterModel(model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.LLM.Interpreter.Model = model
	})
}

// WithJudgeModel sets the judge provider ("openai" or "anthropic") and model.
// An empty apiKey keeps the key set by WithOpenAI.
func WithJudgeModel(provider, apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.LLM.Judge.Provider = provider
		c.cfg.LLM.Judge.Model = model
		if apiKey != "" {
			c.cfg.LLM.Judge.APIKey = apiKey
			c.cfg.LLM.Judge.BaseURL = ""
		}
	})
}

// WithJudgeRateLimit throttles judge calls across searches.
func WithJudgeRateLimit(perSecond float64, burst int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.LLM.RateLimit = config.RateLimitConfig{RequestsPerSecond: perSecond, Burst: burst}
	})
}

// WithBudgets limits embedding and completion token spend.
func WithBudgets(embedding, llm Budget) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Embedding.Budget = budgetConfig(embedding)
		c.cfg.LLM.Budget = budgetConfig(llm)
	})
}

func budgetConfig(b Budget) config.BudgetConfig {
	action := "warn"
	if b.Reject {
		action = "reject"
	}
	return config.BudgetConfig{DailyTokenLimit: b.DailyTokens, MonthlyTokenLimit: b.MonthlyTokens, Action: action}
}

// WithPipeline overrides the search thresholds.
func WithPipeline(p Pipeline) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Pipeline = config.PipelineConfig{
			SimilarityFloor:  p.SimilarityFloor,
			FetchMultiplier:  p.FetchMultiplier,
			ShortlistCap:     p.ShortlistCap,
			JudgeConcurrency: p.JudgeConcurrency,
			MinFitScore:      p.MinFitScore,
		}
	})
}

// WithEmbedder replaces the OpenAI embedding provider.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithInterpreter replaces the query interpretation provider.
func WithInterpreter(sc StructuredCompleter) Option {
	return optionFunc(func(c *clientConfig) {
		c.interpreter = sc
	})
}

// WithReasoner replaces the judge provider.
func WithReasoner(r Reasoner) Option {
	return optionFunc(func(c *clientConfig) {
		c.reasoner = r
	})
}

// WithLogger enables structured logging for SDK operations and the pipeline.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

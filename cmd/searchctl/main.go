// Command searchctl seeds the candidate store and runs searches from the shell.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	logpkg "github.com/lighthouse-careers/agentsearch/internal/logger"
	"github.com/lighthouse-careers/agentsearch/internal/version"
	agentsearch "github.com/lighthouse-careers/agentsearch/pkg/sdk"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "searchctl:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "searchctl",
		Usage:   "Seed crew profiles and run candidate searches",
		Version: version.String(),
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "SQLite DSN of the candidate store",
				EnvVars: []string{"DATABASE_DSN"},
				Value:   "file:agentsearch.db",
			},
			&cli.StringFlag{
				Name:    "cache",
				Usage:   "Redis or Valkey address for the embedding cache and budget counters",
				EnvVars: []string{"CACHE_ADDR"},
			},
			&cli.StringFlag{
				Name:    "openai-api-key",
				Usage:   "API key of the OpenAI-compatible provider",
				EnvVars: []string{"OPENAI_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "openai-base-url",
				Usage:   "Base URL of the OpenAI-compatible provider",
				EnvVars: []string{"OPENAI_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				EnvVars: []string{"EMBEDDING_MODEL"},
				Value:   "text-embedding-3-small",
			},
			&cli.IntFlag{
				Name:    "embedding-dimensions",
				Usage:   "Embedding dimensions (0 keeps the model default)",
				EnvVars: []string{"EMBEDDING_DIMENSIONS"},
			},
			&cli.StringFlag{
				Name:    "interpreter-model",
				Usage:   "Structured-output model used to interpret queries",
				EnvVars: []string{"INTERPRETER_MODEL"},
				Value:   "gpt-4o-mini",
			},
			&cli.StringFlag{
				Name:    "judge-provider",
				Usage:   "Judge provider (openai, anthropic)",
				EnvVars: []string{"JUDGE_PROVIDER"},
				Value:   "openai",
			},
			&cli.StringFlag{
				Name:    "judge-model",
				Usage:   "Judge model name",
				EnvVars: []string{"JUDGE_MODEL"},
				Value:   "gpt-4o-mini",
			},
			&cli.StringFlag{
				Name:    "judge-api-key",
				Usage:   "Judge API key when it differs from the OpenAI key",
				EnvVars: []string{"JUDGE_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "seed",
				Usage:     "Embed and store candidates from a JSON file",
				ArgsUsage: "<file.json>",
				Action:    seedCommand,
			},
			{
				Name:      "search",
				Usage:     "Run a natural-language search and print the JSON response",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: agentsearch.DefaultLimit,
					},
				},
			},
			{
				Name:      "delete",
				Usage:     "Soft-delete a candidate",
				ArgsUsage: "<candidate-id>",
				Action:    deleteCommand,
			},
			{
				Name:   "usage",
				Usage:  "Print token usage for the current period",
				Action: usageCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "period",
						Usage: "Budget window (day, month)",
						Value: string(agentsearch.PeriodDay),
					},
				},
			},
		},
	}
}

// clientFactory opens the SDK client. Tests replace it to inject stub providers.
var clientFactory = func(c *cli.Context, logger *zap.Logger) (*agentsearch.Client, error) {
	opts := []agentsearch.Option{
		agentsearch.WithSQLite(c.String("db")),
		agentsearch.WithOpenAI(c.String("openai-api-key"), c.String("openai-base-url")),
		agentsearch.WithEmbeddingModel(c.String("embedding-model"), c.Int("embedding-dimensions")),
		agentsearch.WithInterpreterModel(c.String("interpreter-model")),
		agentsearch.WithJudgeModel(c.String("judge-provider"), c.String("judge-api-key"), c.String("judge-model")),
		agentsearch.WithLogger(logger),
	}
	if addr := c.String("cache"); addr != "" {
		opts = append(opts, agentsearch.WithCache(addr, os.Getenv("CACHE_PASSWORD")))
	}
	return agentsearch.New(c.Context, opts...)
}

// withClient opens a client for the duration of one command.
func withClient(c *cli.Context, fn func(*agentsearch.Client) error) error {
	logger, err := logpkg.NewLogger("local", c.String("log-level"))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := clientFactory(c, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	return fn(client)
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one query argument")
	}
	return withClient(c, func(client *agentsearch.Client) error {
		resp, err := client.Search(c.Context, c.Args().First(), c.Int("limit"))
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, resp)
	})
}

func deleteCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one candidate id")
	}
	return withClient(c, func(client *agentsearch.Client) error {
		if err := client.Delete(c.Context, c.Args().First()); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "deleted %s\n", c.Args().First())
		return nil
	})
}

func usageCommand(c *cli.Context) error {
	period := agentsearch.UsagePeriod(c.String("period"))
	if period != agentsearch.PeriodDay && period != agentsearch.PeriodMonth {
		return fmt.Errorf("invalid period %q (want day or month)", period)
	}
	return withClient(c, func(client *agentsearch.Client) error {
		return printJSON(c.App.Writer, client.Usage(c.Context, period))
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

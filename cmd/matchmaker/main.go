package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/siherrmann/matchmaker"
	"github.com/siherrmann/matchmaker/core/llm"
	"github.com/siherrmann/matchmaker/helper"
	"github.com/siherrmann/matchmaker/model"
	"github.com/siherrmann/matchmaker/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rootCmd = &cobra.Command{
		Use:   "matchmaker",
		Short: "Generates attendee matches for events and sends introductions.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Ignore a missing .env file
			_ = godotenv.Load()
			return nil
		},
		SilenceUsage: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE:  runServe,
	}

	generateCmd = &cobra.Command{
		Use:   "generate <event-id>",
		Short: "Generate matches for one event and print the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerate,
	}

	importCmd = &cobra.Command{
		Use:   "import <event-id> <file.csv>",
		Short: "Import attendees of an event from a CSV file",
		Args:  cobra.ExactArgs(2),
		RunE:  runImport,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("addr", ":8080", "address the HTTP server listens on")
	flags.Int("embedding-dim", 1536, "dimension of stored response embeddings")
	flags.String("embedding-provider", "openai", `embedding provider, "openai" or "local"`)
	flags.String("embedding-model", "", "OpenAI embedding model")
	flags.String("openai-api-key", "", "OpenAI API key")
	flags.String("openai-base-url", "", "base URL of an OpenAI compatible API")
	flags.String("chat-model", llm.DefaultChatModel, "model generating common interests")
	flags.String("jwt-secret", "", "HS256 secret of bearer tokens")
	flags.Int("k", 3, "neighbours per attendee")
	flags.Int("batch-size", 5, "concurrent common interests requests")
	flags.Duration("enrich-timeout", 20*time.Second, "timeout of one common interests request")
	flags.Duration("intro-interval", 600*time.Millisecond, "pause between two introductions")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	for _, name := range []string{
		"addr", "embedding-dim", "embedding-provider", "embedding-model", "openai-api-key",
		"openai-base-url", "chat-model", "jwt-secret", "k", "batch-size", "enrich-timeout",
		"intro-interval", "log-level",
	} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("matchmaker")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	// OPENAI_API_KEY is honoured as well
	if err := viper.BindEnv("openai-api-key", "MATCHMAKER_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(serveCmd, generateCmd, importCmd)
}

func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log-level"))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(helper.NewPrettyHandler(os.Stdout, helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: level},
	}))
}

func newMatchmaker(logger *slog.Logger) (*matchmaker.Matchmaker, error) {
	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return nil, err
	}

	apiKey := viper.GetString("openai-api-key")
	baseURL := viper.GetString("openai-base-url")

	opts := []matchmaker.Option{
		matchmaker.WithLogger(logger),
		matchmaker.WithMatchConfig(model.MatchConfig{
			K:             viper.GetInt("k"),
			BatchSize:     viper.GetInt("batch-size"),
			EnrichTimeout: viper.GetDuration("enrich-timeout"),
		}),
		matchmaker.WithIntroductionInterval(viper.GetDuration("intro-interval")),
	}
	if apiKey != "" {
		opts = append(opts, matchmaker.WithSummarizer(llm.NewOpenAISummarizer(llm.Config{
			APIKey:  apiKey,
			BaseURL: baseURL,
			Model:   viper.GetString("chat-model"),
		}, logger)))
	} else {
		logger.Warn("OPENAI_API_KEY not configured, using fallback for common interests")
	}

	m, err := matchmaker.NewMatchmaker(dbConfig, viper.GetInt("embedding-dim"), opts...)
	if err != nil {
		return nil, err
	}

	switch provider := viper.GetString("embedding-provider"); provider {
	case "local":
		if err := m.UseDefaultPipeline(); err != nil {
			m.Close()
			return nil, err
		}
	case "openai":
		if apiKey != "" {
			m.UseOpenAIPipeline(apiKey, baseURL, viper.GetString("embedding-model"))
		}
	default:
		m.Close()
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}

	return m, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	secret := viper.GetString("jwt-secret")
	if secret == "" {
		return fmt.Errorf("jwt secret is required, set MATCHMAKER_JWT_SECRET")
	}

	m, err := newMatchmaker(logger)
	if err != nil {
		return err
	}
	defer m.Close()

	srv := server.New(m,
		server.WithLogger(logger),
		server.WithMetrics(m.Metrics),
		server.WithJWTSecret(secret),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Start(viper.GetString("addr"))
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	eventID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid event id: %w", err)
	}

	m, err := newMatchmaker(newLogger())
	if err != nil {
		return err
	}
	defer m.Close()

	result, err := m.GenerateMatches(cmd.Context(), eventID)
	if err != nil {
		return err
	}
	return printJSON(cmd, result)
}

func runImport(cmd *cobra.Command, args []string) error {
	eventID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid event id: %w", err)
	}

	file, err := os.Open(args[1])
	if err != nil {
		return err
	}
	defer file.Close()

	m, err := newMatchmaker(newLogger())
	if err != nil {
		return err
	}
	defer m.Close()

	result, err := m.ImportCSV(cmd.Context(), eventID, file)
	if err != nil {
		return err
	}
	return printJSON(cmd, result)
}

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anilvk/examaudit/internal/gateway"
	"github.com/anilvk/examaudit/internal/gateway/gemini"
	openaigw "github.com/anilvk/examaudit/internal/gateway/openai"
	"github.com/anilvk/examaudit/internal/handler"
	appI18n "github.com/anilvk/examaudit/internal/i18n"
	"github.com/anilvk/examaudit/internal/pipeline"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "examaudit",
		Short: "Exam evaluation reports with an audited score check",
	}

	serve := serveCmd()
	root.AddCommand(serve, evaluateCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `examaudit --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the evaluation relay server",
		RunE:  runServe,
	}
	cmd.Flags().StringP("addr", "a", ":8080", "HTTP listen address")
	cmd.Flags().StringP("lang", "l", "en", "Language for user-facing messages (en, ru)")
	addGatewayFlags(cmd)
	addLogFlags(cmd)
	return cmd
}

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one exam script and print the report as JSON",
		RunE:  runEvaluate,
	}
	f := cmd.Flags()
	f.String("artifact", "", "Path to the artifact bundle (question paper, key, script) (required)")
	f.String("feedback", "", "Path to the human evaluator's feedback document (required)")
	f.StringP("lang", "l", "en", "Language for user-facing messages (en, ru)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addGatewayFlags(cmd)
	addLogFlags(cmd)

	_ = cmd.MarkFlagRequired("artifact")
	_ = cmd.MarkFlagRequired("feedback")

	return cmd
}

func addGatewayFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("gateway", "g", "gemini", "Generation gateway (gemini, openai)")
	f.String("api-key", "", "Generation API key (or set EXAMAUDIT_API_KEY)")
	f.StringP("model", "m", "gemini-2.5-flash", "Generation model name")
	f.String("llm-url", "", "Base URL for OpenAI-compatible gateways")
}

func addLogFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("EXAMAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("examaudit")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/examaudit")
	v.AddConfigPath("/etc/examaudit")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// newGateway builds the configured gateway. Credentials are read here,
// once, and injected; the pipeline itself never touches the environment.
func newGateway(v *viper.Viper) (gateway.Gateway, error) {
	apiKey := v.GetString("api-key")
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required: set --api-key flag or EXAMAUDIT_API_KEY env var")
	}
	model := v.GetString("model")

	switch strings.ToLower(v.GetString("gateway")) {
	case "gemini":
		return gemini.New(apiKey, model), nil
	case "openai":
		return openaigw.New(v.GetString("llm-url"), apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown gateway %q (want gemini or openai)", v.GetString("gateway"))
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	gw, err := newGateway(v)
	if err != nil {
		return err
	}

	h := handler.New(pipeline.New(gw))

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"gateway", v.GetString("gateway"),
		"model", v.GetString("model"),
		"lang", lang,
	)
	return http.ListenAndServe(addr, r)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	if err := appI18n.Init(v.GetString("lang")); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	gw, err := newGateway(v)
	if err != nil {
		return err
	}

	artifact, err := fileInput(v.GetString("artifact"))
	if err != nil {
		return err
	}
	feedback, err := fileInput(v.GetString("feedback"))
	if err != nil {
		return err
	}

	p := pipeline.New(gw)
	rpt, err := p.Run(context.Background(), artifact, feedback)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	data, err := json.MarshalIndent(rpt, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}

// fileInput reads a source document from disk, taking the media type from
// the file extension and leaving unknown types to content sniffing.
func fileInput(path string) (pipeline.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("read %s: %w", path, err)
	}
	return pipeline.Input{
		Name:      filepath.Base(path),
		MediaType: mime.TypeByExtension(filepath.Ext(path)),
		Data:      data,
	}, nil
}

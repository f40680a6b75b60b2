// Command translate runs the docxtranslate engine once against a single
// file on disk, without standing up the HTTP server. It loads a .docx,
// pushes it through the same pipeline the API exposes, and writes the
// translated .docx plus a plaintext log file next to it.
//
// Usage:
//
//	translate -in report.docx -out report.es.docx -lang Spanish -model claude-sonnet-4-5
//
// The API key is read from -api-key or, if unset, from the
// TRANSLATE_API_KEY environment variable. Exit codes: 0 success, 1 error.
package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/heartmarshall/docxtranslate/internal/provider"
	"github.com/heartmarshall/docxtranslate/internal/service/translation"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/heartmarshall/docxtranslate/internal/progress"
	"github.com/heartmarshall/docxtranslate/internal/translate/executor"
	"github.com/heartmarshall/docxtranslate/internal/translate/planner"
)

// tunables holds the planner/executor settings for a one-shot run. These
// rarely change between invocations, so they live in env/YAML rather than
// flags; the per-run identity (file, language, credentials) is flag-only.
type tunables struct {
	MaxConcurrentBatches int           `yaml:"max_concurrent_batches" env:"TRANSLATE_MAX_CONCURRENT_BATCHES" env-default:"4"`
	PerAttemptTimeout    time.Duration `yaml:"per_attempt_timeout"    env:"TRANSLATE_PER_ATTEMPT_TIMEOUT"    env-default:"600s"`
	MaxRetries           int           `yaml:"max_retries"            env:"TRANSLATE_MAX_RETRIES"            env-default:"3"`
	RetryBackoff         time.Duration `yaml:"retry_backoff"          env:"TRANSLATE_RETRY_BACKOFF"          env-default:"2s"`
	WindowSize           int           `yaml:"window_size"            env:"TRANSLATE_WINDOW_SIZE"            env-default:"100"`
	TokenTargetSimple    int           `yaml:"token_target_simple"    env:"TRANSLATE_TOKEN_TARGET_SIMPLE"    env-default:"5000"`
	TokenTargetModerate  int           `yaml:"token_target_moderate"  env:"TRANSLATE_TOKEN_TARGET_MODERATE"  env-default:"3000"`
	TokenTargetComplex   int           `yaml:"token_target_complex"   env:"TRANSLATE_TOKEN_TARGET_COMPLEX"   env-default:"2000"`
}

func loadTunables(path string) (*tunables, error) {
	var cfg tunables
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("read tunables config: %w", err)
			}
			return &cfg, nil
		}
		return nil, fmt.Errorf("tunables config: file %s not found", path)
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read tunables env: %w", err)
	}
	return &cfg, nil
}

func main() {
	inPath := flag.String("in", "", "path to the source .docx file (required)")
	outPath := flag.String("out", "", "path to write the translated .docx (default: <in>.<lang>.docx)")
	lang := flag.String("lang", "", "target language, e.g. Spanish (required)")
	model := flag.String("model", "claude-sonnet-4-5", "LLM model name")
	apiKey := flag.String("api-key", os.Getenv("TRANSLATE_API_KEY"), "LLM API key (or set TRANSLATE_API_KEY)")
	tunablesPath := flag.String("config", "", "path to an optional YAML tunables file")
	preview := flag.Bool("preview", false, "print a plaintext preview of the translated document to stdout")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *inPath == "" || *lang == "" || *apiKey == "" {
		logger.Error("missing required flags", slog.String("usage", "translate -in FILE -lang LANGUAGE [-api-key KEY]"))
		os.Exit(1)
	}
	if *outPath == "" {
		*outPath = defaultOutPath(*inPath, *lang)
	}

	cfg, err := loadTunables(*tunablesPath)
	if err != nil {
		logger.Error("load tunables", slog.String("error", err.Error()))
		os.Exit(1)
	}

	docxBytes, err := os.ReadFile(*inPath)
	if err != nil {
		logger.Error("read input file", slog.String("path", *inPath), slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := progress.New(5*time.Minute, time.Minute)
	defer store.Stop()

	newClient := func(apiKey, model string) provider.Client {
		return provider.NewAnthropicClient(apiKey, model)
	}

	svc := translation.New(translation.Config{
		Planner: planner.Config{
			WindowSize:          cfg.WindowSize,
			TokenTargetSimple:   cfg.TokenTargetSimple,
			TokenTargetModerate: cfg.TokenTargetModerate,
			TokenTargetComplex:  cfg.TokenTargetComplex,
		},
		Executor: executor.Config{
			MaxConcurrentBatches: cfg.MaxConcurrentBatches,
			PerAttemptTimeout:    cfg.PerAttemptTimeout,
			MaxRetries:           cfg.MaxRetries,
			RetryBackoff:         cfg.RetryBackoff,
		},
	}, newClient, store, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	progressID := filepath.Base(*inPath)

	logger.Info("translation started",
		slog.String("in", *inPath),
		slog.String("lang", *lang),
		slog.String("model", *model),
	)

	result, err := svc.Translate(ctx, translation.Request{
		DocxBase64:     base64.StdEncoding.EncodeToString(docxBytes),
		FileName:       filepath.Base(*inPath),
		TargetLanguage: *lang,
		Model:          *model,
		APIKey:         *apiKey,
		ProgressID:     progressID,
		IncludePreview: *preview,
	})
	if err != nil {
		logger.Error("translation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	out, err := base64.StdEncoding.DecodeString(result.DocxBase64)
	if err != nil {
		logger.Error("decode result document", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		logger.Error("write output file", slog.String("path", *outPath), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logPath := strings.TrimSuffix(*outPath, filepath.Ext(*outPath)) + ".log.txt"
	if err := os.WriteFile(logPath, []byte(strings.Join(result.Logs, "\n")), 0o644); err != nil {
		logger.Warn("write log file", slog.String("path", logPath), slog.String("error", err.Error()))
	}

	logger.Info("translation complete",
		slog.String("out", *outPath),
		slog.String("log", logPath),
		slog.Int("paragraphs", result.Stats.ParagraphCount),
		slog.Int("total_tokens", result.Stats.TotalTokens),
		slog.Float64("estimated_cost", result.Stats.EstimatedCost),
	)

	if *preview && result.Preview != "" {
		fmt.Println("--- preview ---")
		fmt.Println(result.Preview)
	}
}

func defaultOutPath(inPath, lang string) string {
	ext := filepath.Ext(inPath)
	base := strings.TrimSuffix(inPath, ext)
	suffix := strings.ToLower(strings.ReplaceAll(lang, " ", "-"))
	return fmt.Sprintf("%s.%s%s", base, suffix, ext)
}

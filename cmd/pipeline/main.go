// Command pipeline runs one audio file through the full query pipeline and
// writes the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"voicefaq/internal/bootstrap"
	"voicefaq/internal/models"
	"voicefaq/internal/service"
	"voicefaq/pkg/config"
	"voicefaq/pkg/logger"
)

func main() {
	var (
		audioPath    = pflag.String("audio", "", "Path to audio file (wav/mp3)")
		faqPath      = pflag.String("faq", "data/brand_faq.csv", "Path to FAQ CSV")
		whisperModel = pflag.String("whisper_model", "base", "Whisper model (tiny, base, small...)")
		k            = pflag.IntP("k", "k", 3, "Number of top FAQ matches to return")
		outPath      = pflag.String("out", "full_pipeline_output.json", "Where to write the result JSON")
		envFile      = pflag.String("env", "", "Optional env file to load")
	)
	pflag.Parse()

	if *audioPath == "" {
		fmt.Fprintln(os.Stderr, "--audio is required")
		pflag.Usage()
		os.Exit(2)
	}
	for _, p := range []struct{ what, path string }{{"Audio file", *audioPath}, {"FAQ CSV", *faqPath}} {
		if _, err := os.Stat(p.path); err != nil {
			fmt.Fprintf(os.Stderr, "%s not found: %s\n", p.what, p.path)
			os.Exit(1)
		}
	}

	cfg, err := loadConfig(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	components, err := bootstrap.Build(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize pipeline", zap.Error(err))
	}
	defer components.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := components.Pipeline.Run(ctx, service.RunInput{
		AudioPath:    *audioPath,
		FAQTablePath: *faqPath,
		STTModel:     *whisperModel,
		K:            *k,
		FAQSource:    models.FAQSourceDefault,
	})
	if err != nil {
		appLogger.Fatal("Pipeline failed", zap.Error(err))
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		appLogger.Fatal("Failed to encode result", zap.Error(err))
	}
	if err := os.WriteFile(*outPath, append(data, '\n'), 0o644); err != nil {
		appLogger.Fatal("Failed to write result", zap.Error(err))
	}

	fmt.Println(result.Response)
	appLogger.Info("Saved pipeline output", zap.String("path", *outPath))
}

func loadConfig(envFile string) (*config.Config, error) {
	if envFile != "" {
		return config.LoadFile(envFile)
	}
	return config.Load()
}

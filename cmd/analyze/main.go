// One-shot runner: analyze a single video URL and print the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spacesedan/tubepulse/config"
	"github.com/spacesedan/tubepulse/internal/analyzer"
	"github.com/spacesedan/tubepulse/internal/artifacts"
	"github.com/spacesedan/tubepulse/internal/cache"
	"github.com/spacesedan/tubepulse/internal/clients"
	"github.com/spacesedan/tubepulse/internal/logging"
	"github.com/spacesedan/tubepulse/internal/models"
	"github.com/spacesedan/tubepulse/internal/sentiment"
	"github.com/spacesedan/tubepulse/internal/youtube"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: analyze <video-url>")
		os.Exit(2)
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	modelDir := os.Getenv("MODEL_DIR")
	if modelDir == "" {
		modelDir = "models"
	}
	store := artifacts.Load(modelDir)
	if os.Getenv("MODEL_BACKEND") == "vader" {
		store.UseTextClassifier(sentiment.NewLexiconClassifier())
		if !store.AggregatorLoaded() {
			store.UseAggregator(artifacts.MajorityAggregator{})
		}
	}

	yt, err := clients.GetYouTubeClient()
	if err != nil {
		slog.Error("[Analyze] Failed to initialize YouTube client",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	var titleCache youtube.TitleCache
	if vc := cache.InitValkey(); vc != nil {
		titleCache = vc
	}
	defer cache.CloseValkey()

	svc := analyzer.New(store,
		youtube.NewCommentFetcher(yt),
		youtube.NewMetadataFetcher(yt, titleCache))

	report, err := svc.Analyze(context.Background(), os.Args[1])
	if err != nil {
		var analysisErr *models.AnalysisError
		if errors.As(err, &analysisErr) {
			printJSON(analysisErr)
			os.Exit(1)
		}
		slog.Error("[Analyze] Analysis failed",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	printJSON(report)
}

func printJSON(payload any) {
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		slog.Error("[Analyze] Failed to encode result",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(string(out))
}

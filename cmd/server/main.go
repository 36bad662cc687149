package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
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

type analyzeRequest struct {
	YouTubeURL string `json:"youtube_url"`
}

type analyzeCommentsRequest struct {
	Comments   []string `json:"comments"`
	VideoTitle string   `json:"video_title"`
}

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	store := buildStore()
	svc, err := buildAnalyzer(store)
	if err != nil {
		slog.Error("[Server] Failed to initialize analyzer",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cache.CloseValkey()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth(svc))
	mux.HandleFunc("POST /analyze", handleAnalyze(svc))
	mux.HandleFunc("POST /analyze-comments", handleAnalyzeComments(svc))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("[Server] Listening",
		slog.String("port", port),
		slog.Bool("models_loaded", svc.IsReady()))

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		slog.Error("[Server] Server stopped",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func buildStore() *artifacts.Store {
	modelDir := os.Getenv("MODEL_DIR")
	if modelDir == "" {
		modelDir = "models"
	}
	store := artifacts.Load(modelDir)

	switch backend := os.Getenv("MODEL_BACKEND"); backend {
	case "", "json":
	case "onnx":
		onnx, err := artifacts.NewONNXClassifier(os.Getenv("ONNX_MODEL_PATH"), models.LabelCodes())
		if err != nil {
			slog.Error("[Server] ONNX backend unavailable",
				slog.String("error", err.Error()))
		} else {
			store.UseTextClassifier(onnx)
		}
	case "vader":
		store.UseTextClassifier(sentiment.NewLexiconClassifier())
		if !store.AggregatorLoaded() {
			store.UseAggregator(artifacts.MajorityAggregator{})
		}
	default:
		slog.Warn("[Server] Unknown MODEL_BACKEND, using json artifacts",
			slog.String("backend", backend))
	}

	if !store.IsReady() {
		slog.Warn("[Server] Not all model artifacts loaded, analyses will return the default distribution")
	}
	return store
}

func buildAnalyzer(store *artifacts.Store) (*analyzer.Analyzer, error) {
	yt, err := clients.GetYouTubeClient()
	if err != nil {
		return nil, err
	}

	var titleCache youtube.TitleCache
	if vc := cache.InitValkey(); vc != nil {
		titleCache = vc
	}

	comments := youtube.NewCommentFetcher(yt)
	metadata := youtube.NewMetadataFetcher(yt, titleCache)
	return analyzer.New(store, comments, metadata), nil
}

func handleHealth(svc *analyzer.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":        "healthy",
			"service":       "comment-emotion-analyzer",
			"models_loaded": svc.IsReady(),
		})
	}
}

func handleAnalyze(svc *analyzer.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.YouTubeURL == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "youtube_url is required"})
			return
		}

		report, err := svc.Analyze(r.Context(), req.YouTubeURL)
		writeOutcome(w, report, err)
	}
}

func handleAnalyzeComments(svc *analyzer.Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeCommentsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Comments) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "comments is required"})
			return
		}
		if req.VideoTitle == "" {
			req.VideoTitle = "Test Video"
		}

		report, err := svc.AnalyzeList(req.Comments, req.VideoTitle)
		writeOutcome(w, report, err)
	}
}

// writeOutcome renders either outcome with status 200: a failed analysis is
// still a complete, schema-valid result, so callers treat every response
// uniformly.
func writeOutcome(w http.ResponseWriter, report *models.AnalysisReport, err error) {
	if err != nil {
		var analysisErr *models.AnalysisError
		if errors.As(err, &analysisErr) {
			writeJSON(w, http.StatusOK, analysisErr)
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("[Server] Failed to encode response",
			slog.String("error", err.Error()))
	}
}

package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"health-vision/api/internal/config"
	"health-vision/api/internal/handle"
	"health-vision/api/internal/httpserver"
	"health-vision/api/internal/logger"
	"health-vision/api/internal/vision"
	"health-vision/api/internal/vision/gemini"
	"health-vision/api/internal/vision/gpt"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	engines := &vision.Engines{}
	if cfg.OpenAIAPIKey != "" {
		engines.OpenAI = gpt.New(gpt.Config{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			Logger:  lg.Named("gpt"),
		})
	}
	if cfg.GeminiAPIKey != "" {
		engines.Gemini = gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel, lg.Named("gemini"))
	}
	engine, err := engines.GetEngine(cfg.LLMName)
	if err != nil {
		lg.Fatal("engine", zap.Error(err))
	}

	cls, err := vision.NewClassifier(engine,
		vision.WithLogger(lg.Named("classifier")),
		vision.WithMaxImageSide(cfg.MaxImageSide),
		vision.WithPromptDir(cfg.PromptDir),
	)
	if err != nil {
		lg.Fatal("classifier", zap.Error(err))
	}

	mux := http.NewServeMux()
	handle.New(cls, handle.Options{
		TmpDir:         cfg.TmpDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Timeout:        cfg.RequestTimeout,
		Logger:         lg.Named("http"),
	}).Register(mux)

	h := httpserver.Handler(mux, httpserver.Options{
		CORSOrigins: cfg.CORSOrigins,
		AccessLog:   lg.Named("access"),
	})

	lg.Info("starting",
		zap.String("engine", engine.Name()),
		zap.String("model", engine.GetModel()),
		zap.String("env", cfg.AppEnv),
	)
	if err := httpserver.StartHTTP("0.0.0.0:"+cfg.Port, h, lg); err != nil {
		lg.Fatal("http server", zap.Error(err))
	}
}

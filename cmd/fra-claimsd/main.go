package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vanadhikar/fra-claims/internal/common"
	"github.com/vanadhikar/fra-claims/internal/export"
	"github.com/vanadhikar/fra-claims/internal/fallback"
	"github.com/vanadhikar/fra-claims/internal/llm"
	"github.com/vanadhikar/fra-claims/internal/llm/gemini"
	"github.com/vanadhikar/fra-claims/internal/ocr"
	"github.com/vanadhikar/fra-claims/internal/pipeline"
	"github.com/vanadhikar/fra-claims/internal/repository"
	"github.com/vanadhikar/fra-claims/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		DialTimeout:  cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, logger)

	claims := repository.NewClaimRepository(db, logger)

	acquirer := ocr.NewExtractor(ocr.Config{
		Tesseract:     cfg.OCR.Tesseract,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
		PageWorkers:   cfg.OCR.PageWorkers,
	}, logger)

	// without an API key the pipeline runs on pattern extraction alone
	var primary llm.FieldExtractor
	if cfg.LLM.APIKey != "" {
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		}, logger)
		if err != nil {
			logger.Error("gemini client init failed", "error", err)
			os.Exit(1)
		}
		defer func() { _ = client.Close() }()
		primary = client
	} else {
		logger.Warn("GEMINI_API_KEY not set; using fallback extraction only")
	}

	processor := pipeline.NewProcessor(logger, acquirer, primary, fallback.NewExtractor(logger))
	exporter := export.NewService(claims, logger)
	handlers := server.NewHandlers(processor, claims, exporter, logger)

	srv := server.New(cfg.Server, handlers, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}
	logger.Info("stopped")
}

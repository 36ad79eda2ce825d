package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/u759/AllanAI-sub001/application/pipeline"
	"github.com/u759/AllanAI-sub001/infrastructure/drive"
	"github.com/u759/AllanAI-sub001/infrastructure/httpapi"
	"github.com/u759/AllanAI-sub001/infrastructure/inference"
	"github.com/u759/AllanAI-sub001/infrastructure/logging"
	"github.com/u759/AllanAI-sub001/infrastructure/metrics"
	"github.com/u759/AllanAI-sub001/infrastructure/storage"
	"github.com/u759/AllanAI-sub001/infrastructure/video"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the match analysis HTTP service",
	Long: `Start the HTTP service: accept match video uploads, process them on a
bounded worker pool, and expose status, statistics, events, highlights and
video streaming endpoints.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.New(cfg.Logging)

	store, err := storage.NewVideoStore(cfg.Storage.VideoDirectory)
	if err != nil {
		return err
	}
	repo := storage.NewMemoryRepository()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	pipelineMetrics := metrics.NewPipeline(registry)

	engine := inference.NewEngine(cfg.Inference, cfg.Pipeline, logger)
	reader := video.NewMetadataReader(cfg.Pipeline.FallbackFPS, cfg.Heuristic.MaxFrameSamples)
	motion := video.NewMotionAnalyzer(cfg.Heuristic)

	opts := []pipeline.Option{pipeline.WithMetrics(pipelineMetrics)}
	if cfg.Archive.Enabled {
		archiver, err := drive.NewArchiver(cmd.Context(), cfg.Archive)
		if err != nil {
			return fmt.Errorf("configure drive archiver: %w", err)
		}
		opts = append(opts, pipeline.WithArchiver(archiver))
	}

	svc := pipeline.NewService(repo, reader, engine, motion, cfg.Pipeline, logger, opts...)
	pool := pipeline.NewPool(svc, cfg.Workers, logger, pipeline.WithPoolMetrics(pipelineMetrics))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	pool.Start(ctx)

	server := httpapi.NewServer(repo, store, pool, logger, registry)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe(cfg.Server.Address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down, draining worker pool")
	drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return pool.Shutdown(drainCtx)
}

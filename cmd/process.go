package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/u759/AllanAI-sub001/application/pipeline"
	"github.com/u759/AllanAI-sub001/domain/match"
	"github.com/u759/AllanAI-sub001/infrastructure/inference"
	"github.com/u759/AllanAI-sub001/infrastructure/logging"
	"github.com/u759/AllanAI-sub001/infrastructure/storage"
	"github.com/u759/AllanAI-sub001/infrastructure/video"
)

var processVideoPath string

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Analyze a local match video and print the results",
	Long: `Run the full analysis pipeline once, inline, against a local video file.

This is the same pipeline the serve command runs per upload: external
inference when configured, heuristic motion analysis otherwise.

Example:
  allanai process --video recordings/match.mp4`,
	RunE: runProcessCmd,
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringVar(&processVideoPath, "video", "", "Path to the match video file (required)")
	processCmd.MarkFlagRequired("video")
}

func runProcessCmd(cmd *cobra.Command, args []string) error {
	logger := logging.New(cfg.Logging)
	repo := storage.NewMemoryRepository()

	m := &match.Match{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Status:    match.StatusUploaded,
		VideoPath: processVideoPath,
	}
	if err := repo.Save(cmd.Context(), m); err != nil {
		return err
	}

	engine := inference.NewEngine(cfg.Inference, cfg.Pipeline, logger)
	reader := video.NewMetadataReader(cfg.Pipeline.FallbackFPS, cfg.Heuristic.MaxFrameSamples)
	motion := video.NewMotionAnalyzer(cfg.Heuristic)
	svc := pipeline.NewService(repo, reader, engine, motion, cfg.Pipeline, logger)

	if err := svc.Process(cmd.Context(), m.ID); err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	result, err := repo.Get(cmd.Context(), m.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Match %s: %s\n", result.ID, result.Status)
	fmt.Fprintf(out, "Source: %s\n", result.Processing.PrimarySource)
	fmt.Fprintf(out, "Duration: %.1fs  Events: %d  Shots: %d\n", result.Duration, len(result.Events), len(result.Shots))
	fmt.Fprintf(out, "Score: %d - %d\n", result.Statistics.Player1Score, result.Statistics.Player2Score)
	fmt.Fprintf(out, "Ball speed: avg %.1f km/h, max %.1f km/h\n", result.Statistics.AvgBallSpeed, result.Statistics.MaxBallSpeed)
	for _, note := range result.Processing.Notes {
		fmt.Fprintf(out, "Note: %s\n", note)
	}
	if ref := result.Highlights.PlayOfTheGame; ref != nil {
		fmt.Fprintf(out, "Play of the game at %s\n", time.Duration(ref.Timestamp)*time.Millisecond)
	}
	return nil
}

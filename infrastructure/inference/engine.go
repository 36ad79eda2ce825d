package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/u759/AllanAI-sub001/domain/analysis"
	"github.com/u759/AllanAI-sub001/infrastructure/config"
)

// maxCapturedOutput bounds how much process output is attached to errors.
const maxCapturedOutput = 2048

// Engine implements analysis.Engine by launching the configured external
// inference command and parsing its result file. Every failure here is
// path-local: the pipeline falls back to the heuristic analyzer.
type Engine struct {
	cfg         config.InferenceConfig
	fallbackFPS float64
	runner      CommandRunner
	logger      *slog.Logger
}

// EngineOption is a functional option for configuring Engine
type EngineOption func(*Engine)

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) EngineOption {
	return func(e *Engine) {
		e.runner = runner
	}
}

// NewEngine creates an inference engine from configuration.
func NewEngine(cfg config.InferenceConfig, pipeline config.PipelineConfig, logger *slog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		cfg:         cfg,
		fallbackFPS: pipeline.FallbackFPS,
		runner:      &ExecCommandRunner{},
		logger:      logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze runs the external process for one match. An empty-but-present
// result is valid; "the model found nothing" is not an error here.
func (e *Engine) Analyze(ctx context.Context, matchID, videoPath string) (*analysis.Result, error) {
	if !e.cfg.Enabled {
		return nil, analysis.ErrInferenceDisabled
	}

	outputDir, err := e.prepareOutputDir(matchID)
	if err != nil {
		return nil, err
	}

	words, err := e.resolveCommand(matchID, videoPath, outputDir)
	if err != nil {
		return nil, err
	}

	if err := e.validateLaunch(words); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout())
	defer cancel()

	e.logger.Debug("launching inference process", "match_id", matchID, "command", strings.Join(words, " "))
	output, runErr := e.runner.CombinedOutput(runCtx, e.cfg.WorkingDirectory, words[0], words[1:]...)
	if runCtx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("inference process exceeded %s timeout and was killed", e.cfg.Timeout())
	}
	if runErr != nil {
		return nil, fmt.Errorf("inference process failed: %w (output: %s)", runErr, tail(output))
	}

	resultPath := e.resolve(e.cfg.ResultFile, matchID, videoPath, outputDir)
	data, err := os.ReadFile(resultPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: expected %s", analysis.ErrNoResult, resultPath)
		}
		return nil, fmt.Errorf("read result file %s: %w", resultPath, err)
	}

	return parseResult(data, e.fallbackFPS, e.cfg.ConfidenceThreshold)
}

// prepareOutputDir creates the per-match output directory so concurrent
// runs never share result files.
func (e *Engine) prepareOutputDir(matchID string) (string, error) {
	dir := filepath.Join(e.cfg.OutputDirectory, matchID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create inference output directory: %w", err)
	}
	return dir, nil
}

// resolveCommand substitutes the template placeholders and splits the
// command line shell-style.
func (e *Engine) resolveCommand(matchID, videoPath, outputDir string) ([]string, error) {
	line := e.resolve(e.cfg.Command, matchID, videoPath, outputDir)
	words, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("malformed command template: %w", err)
	}
	if len(words) == 0 {
		return nil, errors.New("command template resolved to an empty command")
	}
	return words, nil
}

func (e *Engine) resolve(template, matchID, videoPath, outputDir string) string {
	return strings.NewReplacer(
		"{matchId}", matchID,
		"{video}", videoPath,
		"{outputDir}", outputDir,
		"{weights}", e.cfg.WeightsPath,
		"{confidence}", fmt.Sprintf("%g", e.cfg.ConfidenceThreshold),
	).Replace(template)
}

// validateLaunch fails fast with a descriptive error instead of letting the
// process start fail silently: the working directory must exist, and any
// script file referenced by the command must be present.
func (e *Engine) validateLaunch(words []string) error {
	if e.cfg.WorkingDirectory != "" {
		info, err := os.Stat(e.cfg.WorkingDirectory)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("inference working directory %s does not exist", e.cfg.WorkingDirectory)
		}
	}
	for _, word := range words {
		if !isScriptReference(word) {
			continue
		}
		if !e.fileExists(word) {
			return fmt.Errorf("inference script %s does not exist", word)
		}
	}
	return nil
}

func isScriptReference(word string) bool {
	switch filepath.Ext(word) {
	case ".py", ".sh", ".pt":
		return true
	}
	return false
}

// fileExists resolves relative paths against the working directory, the way
// the launched process will.
func (e *Engine) fileExists(path string) bool {
	if !filepath.IsAbs(path) && e.cfg.WorkingDirectory != "" {
		path = filepath.Join(e.cfg.WorkingDirectory, path)
	}
	_, err := os.Stat(path)
	return err == nil
}

func tail(output []byte) string {
	s := strings.TrimSpace(string(output))
	if len(s) > maxCapturedOutput {
		s = "..." + s[len(s)-maxCapturedOutput:]
	}
	return s
}

// Ensure Engine implements analysis.Engine
var _ analysis.Engine = (*Engine)(nil)

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/u759/AllanAI-sub001/domain/analysis"
	"github.com/u759/AllanAI-sub001/domain/archive"
	"github.com/u759/AllanAI-sub001/domain/match"
	"github.com/u759/AllanAI-sub001/infrastructure/config"
)

// Metrics receives pipeline observations. The zero implementation discards
// them; the serve command wires the prometheus collectors.
type Metrics interface {
	MatchProcessed(source match.Source, seconds float64)
	MatchFailed()
	QueueDepth(depth int)
}

type nopMetrics struct{}

func (nopMetrics) MatchProcessed(match.Source, float64) {}
func (nopMetrics) MatchFailed()                         {}
func (nopMetrics) QueueDepth(int)                       {}

// Service orchestrates the processing of one match: status transitions,
// inference-vs-heuristic path selection, synthesis, scoring, statistics,
// and highlight curation.
type Service struct {
	repo     match.Repository
	metadata analysis.MetadataReader
	engine   analysis.Engine
	motion   analysis.MotionAnalyzer
	synth    *Synthesizer
	archiver archive.Archiver
	metrics  Metrics
	logger   *slog.Logger
}

// Option is a functional option for configuring Service
type Option func(*Service)

// WithArchiver enables post-completion video archival.
func WithArchiver(a archive.Archiver) Option {
	return func(s *Service) {
		s.archiver = a
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates the match processing orchestrator.
func NewService(
	repo match.Repository,
	metadata analysis.MetadataReader,
	engine analysis.Engine,
	motion analysis.MotionAnalyzer,
	cfg config.PipelineConfig,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		repo:     repo,
		metadata: metadata,
		engine:   engine,
		motion:   motion,
		synth:    NewSynthesizer(cfg),
		metrics:  nopMetrics{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// analysisOutcome is everything one processing run produced.
type analysisOutcome struct {
	duration   float64
	events     []match.Event
	shots      []match.Shot
	statistics match.Statistics
	highlights match.Highlights
	summary    match.ProcessingSummary
}

// Process runs the full pipeline for one match id. The match is transitioned
// UPLOADED -> PROCESSING immediately, then to COMPLETE or FAILED exactly once
// on the terminating path, with processedAt stamped either way.
func (s *Service) Process(ctx context.Context, matchID string) error {
	m, err := s.repo.Get(ctx, matchID)
	if err != nil {
		return fmt.Errorf("load match %s: %w", matchID, err)
	}

	m.Status = match.StatusProcessing
	if err := s.repo.Save(ctx, m); err != nil {
		return fmt.Errorf("persist PROCESSING for match %s: %w", matchID, err)
	}

	started := time.Now()
	outcome, err := s.runAnalysis(ctx, m)
	processedAt := time.Now()
	m.ProcessedAt = &processedAt

	if err != nil {
		s.logger.Error("match processing failed", "match_id", matchID, "error", err)
		m.Status = match.StatusFailed
		m.Processing.AddNote(fmt.Sprintf("processing failed: %v", err))
		s.metrics.MatchFailed()
		if saveErr := s.repo.Save(ctx, m); saveErr != nil {
			return errors.Join(err, saveErr)
		}
		return err
	}

	m.Status = match.StatusComplete
	m.Duration = outcome.duration
	m.Events = outcome.events
	m.Shots = outcome.shots
	m.Statistics = outcome.statistics
	m.Highlights = outcome.highlights
	m.Processing = outcome.summary

	s.archiveVideo(ctx, m)

	if err := s.repo.Save(ctx, m); err != nil {
		return fmt.Errorf("persist COMPLETE for match %s: %w", matchID, err)
	}

	elapsed := processedAt.Sub(started).Seconds()
	s.metrics.MatchProcessed(m.Processing.PrimarySource, elapsed)
	s.logger.Info("match processed",
		"match_id", matchID,
		"source", m.Processing.PrimarySource,
		"events", len(m.Events),
		"shots", len(m.Shots),
		"duration_s", elapsed,
	)
	return nil
}

// runAnalysis converts a panic anywhere in the analysis stages into a task
// error, so the match still reaches FAILED with processedAt stamped.
func (s *Service) runAnalysis(ctx context.Context, m *match.Match) (out *analysisOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("analysis panic: %v", r)
		}
	}()
	return s.analyze(ctx, m)
}

// analyze runs the three-tier degradation chain: model, heuristic, fallback
// singleton. Only a video that cannot be opened, or a failing heuristic
// decode, is fatal.
func (s *Service) analyze(ctx context.Context, m *match.Match) (*analysisOutcome, error) {
	meta, err := s.metadata.ReadMetadata(ctx, m.VideoPath)
	if err != nil {
		return nil, err
	}
	durationMs := int64(meta.DurationSeconds * 1000)

	var summary match.ProcessingSummary

	result, inferErr := s.engine.Analyze(ctx, m.ID, m.VideoPath)
	attempted := true
	if inferErr != nil {
		result = nil
		if errors.Is(inferErr, analysis.ErrInferenceDisabled) {
			attempted = false
		} else {
			s.logger.Warn("inference unavailable", "match_id", m.ID, "error", inferErr)
			summary.AddNote(fmt.Sprintf("inference unavailable: %v", inferErr))
		}
	}

	var (
		events   []match.Event
		shots    []match.Shot
		rawStats *analysis.RawStatistics
	)

	if result != nil && len(result.Events) > 0 {
		events, shots = s.synth.FromInference(result)
		if len(shots) == 0 {
			shots = s.synth.ShotsFromEvents(events)
			summary.AddNote("model returned no shots; synthesized from events")
		}
		summary.PrimarySource = match.SourceModel
		summary.Sources = []match.Source{match.SourceModel}
		rawStats = result.Statistics
	} else {
		if result != nil {
			summary.AddNote("inference returned no events")
		}
		spikes, motionErr := s.motion.DetectMotion(ctx, m.VideoPath, meta.FPS)
		if motionErr != nil {
			return nil, fmt.Errorf("heuristic motion analysis: %w", motionErr)
		}
		events, shots = s.synth.FromSpikes(spikes, meta.FPS)
		if len(events) == 0 {
			ev, shot := s.synth.FallbackPair(durationMs, meta.FPS)
			events = []match.Event{ev}
			shots = []match.Shot{shot}
			summary.AddNote("no motion spikes detected; inserted fallback highlight")
		}
		if attempted {
			summary.PrimarySource = match.SourceHeuristicFallback
			summary.UsedHeuristicFallback = true
			summary.Sources = []match.Source{match.SourceModel, match.SourceHeuristic}
			summary.AddNote("fell back to heuristic motion analysis")
		} else {
			summary.PrimarySource = match.SourceHeuristic
			summary.Sources = []match.Source{match.SourceHeuristic}
		}
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].Timestamp < events[j].Timestamp })

	tracker := NewScoreTracker()
	tracker.Apply(events)

	return &analysisOutcome{
		duration:   meta.DurationSeconds,
		events:     events,
		shots:      shots,
		statistics: BuildStatistics(rawStats, events, shots, tracker.State()),
		highlights: CurateHighlights(events),
		summary:    summary,
	}, nil
}

// archiveVideo uploads the original video when an archiver is configured.
// Failures are audit-trail notes, never task failures.
func (s *Service) archiveVideo(ctx context.Context, m *match.Match) {
	if s.archiver == nil {
		return
	}
	name := fmt.Sprintf("match-%s%s", m.ID, filepath.Ext(m.VideoPath))
	url, err := s.archiver.Upload(ctx, m.VideoPath, name)
	if err != nil {
		s.logger.Warn("video archival failed", "match_id", m.ID, "error", err)
		m.Processing.AddNote(fmt.Sprintf("archival failed: %v", err))
		return
	}
	m.Processing.AddNote("video archived: " + url)
}

package telemetry

import (
	"time"

	"github.com/galleyproject/galley/pkg/compile"
)

// CompileSink adapts the event publisher and metrics collector to the
// compiler's EventSink interface, so progress reporting and metrics stay
// out of the ordering logic.
type CompileSink struct {
	runID      string
	pub        *EventPublisher
	metrics    *Metrics
	phaseStart map[string]time.Time
}

// NewCompileSink creates a sink for one run. Either collaborator may be
// nil, in which case its half is skipped.
func NewCompileSink(runID string, pub *EventPublisher, metrics *Metrics) *CompileSink {
	return &CompileSink{
		runID:      runID,
		pub:        pub,
		metrics:    metrics,
		phaseStart: make(map[string]time.Time),
	}
}

// PhaseStarted implements compile.EventSink.
func (s *CompileSink) PhaseStarted(phase string, fileCount int) {
	s.phaseStart[phase] = time.Now()
	if s.pub != nil {
		s.pub.PublishPhaseStarted(s.runID, phase, fileCount)
	}
}

// PhaseCompleted implements compile.EventSink.
func (s *CompileSink) PhaseCompleted(phase string) {
	if s.pub != nil {
		s.pub.PublishPhaseCompleted(s.runID, phase)
	}
	if s.metrics != nil {
		if start, ok := s.phaseStart[phase]; ok {
			s.metrics.RecordPhase(phase, time.Since(start))
		}
	}
}

// FileLoaded implements compile.EventSink.
func (s *CompileSink) FileLoaded(phase string, path string) {
	if s.pub != nil {
		s.pub.PublishFileLoaded(s.runID, phase, path)
	}
	if s.metrics != nil {
		s.metrics.RecordFileLoaded(phase)
		if phase == compile.PhaseRecipes {
			s.metrics.RecordRecipeIncluded()
		}
	}
}

// FileLoadFailed implements compile.EventSink.
func (s *CompileSink) FileLoadFailed(phase string, path string, err error) {
	if s.pub != nil {
		s.pub.PublishFileLoadFailed(s.runID, phase, path, err.Error())
	}
	if s.metrics != nil {
		s.metrics.RecordFileLoadFailed(phase)
	}
}

// RecipeNotFound implements compile.EventSink.
func (s *CompileSink) RecipeNotFound(err error) {
	if s.pub != nil {
		s.pub.PublishRecipeNotFound(s.runID, err.Error())
	}
}

// RecipeLoadFailed implements compile.EventSink.
func (s *CompileSink) RecipeLoadFailed(path string, err error) {
	if s.pub != nil {
		s.pub.PublishRecipeLoadFailed(s.runID, path, err.Error())
	}
	if s.metrics != nil {
		s.metrics.RecordFileLoadFailed(compile.PhaseRecipes)
	}
}

var _ compile.EventSink = (*CompileSink)(nil)

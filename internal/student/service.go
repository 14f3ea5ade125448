package student

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"sumo-go/internal/logger"
	"sumo-go/internal/metrics"
	"sumo-go/internal/student/ranking"
)

type Service interface {
	// Lookup finds a student and resolves tier progress and celebration
	// parameters from the returned point total.
	Lookup(ctx context.Context, rawID string) (*Result, error)
	Levels() []ranking.Tier
}

type service struct {
	source       Source
	ladder       *ranking.Ladder
	celebrations *ranking.Celebrations
	validate     *validator.Validate
}

func NewService(source Source, ladder *ranking.Ladder, celebrations *ranking.Celebrations) Service {
	return &service{
		source:       source,
		ladder:       ladder,
		celebrations: celebrations,
		validate:     validator.New(),
	}
}

func (s *service) Lookup(ctx context.Context, rawID string) (*Result, error) {
	id, err := NormalizeID(rawID)
	if err != nil {
		metrics.StudentLookupsTotal.WithLabelValues(metrics.OutcomeInvalidID).Inc()
		return nil, err
	}

	log := logger.FromContext(ctx).With("student_id", id)

	start := time.Now()
	st, err := s.source.Find(ctx, id)
	metrics.SourceRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		switch {
		case errors.Is(err, ErrStudentNotFound):
			metrics.StudentLookupsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
			log.Info("Student not found")
			return nil, err
		case errors.Is(err, ErrInvalidRecord):
			metrics.StudentLookupsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
			log.Warn("Source returned an invalid record", "error", err)
			return nil, err
		default:
			metrics.StudentLookupsTotal.WithLabelValues(metrics.OutcomeError).Inc()
			log.Error("Student source failed", "error", err)
			return nil, fmt.Errorf("find student %s: %w", id, err)
		}
	}

	if err := s.validate.Struct(st); err != nil {
		metrics.StudentLookupsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		log.Warn("Student record failed validation", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	progress, err := s.ladder.Resolve(st.Points)
	if err != nil {
		metrics.StudentLookupsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	celebration, err := s.celebrations.Select(st.Points)
	if err != nil {
		metrics.StudentLookupsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	metrics.StudentLookupsTotal.WithLabelValues(metrics.OutcomeFound).Inc()
	metrics.TierResolutions.WithLabelValues(progress.Current.Name).Inc()
	log.Debug("Student resolved",
		"points", st.Points,
		"tier", progress.Current.Name,
		"at_top", progress.Next == nil)

	return &Result{
		Student:     st,
		CurrentTier: progress.Current,
		NextLevel:   progress.Next,
		Celebration: celebration,
	}, nil
}

func (s *service) Levels() []ranking.Tier {
	return s.ladder.Tiers()
}

// Package domain defines the progress model for SOTA activator milestones.
package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrInvalidCallsign is returned for a blank callsign.
	ErrInvalidCallsign = errors.New("invalid callsign")
	// ErrResolutionFailed indicates the callsign could not be mapped to a user id.
	ErrResolutionFailed = errors.New("callsign could not be resolved")
	// ErrHistoryUnavailable indicates the activation log could not be fetched.
	ErrHistoryUnavailable = errors.New("activation history unavailable")
	// ErrEmptyHistory is returned when an activator has no activations.
	ErrEmptyHistory = errors.New("no activation data")
	// ErrNegativeRate rejects a weekly rate below zero.
	ErrNegativeRate = errors.New("weekly rate must be a non-negative number")
	// ErrTargetDateInPast rejects target dates before today.
	ErrTargetDateInPast = errors.New("target date must be today or later")
)

// IdentityResolver maps a callsign to the upstream user id.
type IdentityResolver interface {
	ResolveUserID(ctx context.Context, callsign string) (int64, error)
}

// HistoryProvider returns the raw activation log for a user id, in any order.
type HistoryProvider interface {
	FetchActivations(ctx context.Context, userID int64) ([]ActivationRecord, error)
}

// EvaluationPublisher announces completed evaluations to interested parties.
type EvaluationPublisher interface {
	PublishEvaluation(ctx context.Context, evaluation Evaluation) error
}

// Evaluation bundles a result with the identity and history it was computed from.
type Evaluation struct {
	Callsign string
	UserID   int64
	History  ActivationHistory
	Result   ProjectionResult
}

// EvaluateRequest captures the input from the API or CLI layer.
type EvaluateRequest struct {
	Callsign   string
	WeeklyRate float64
	TargetDate *time.Time
}

// Service orchestrates lookup, fetch and evaluation for one activator.
type Service struct {
	resolver  IdentityResolver
	history   HistoryProvider
	publisher EvaluationPublisher
	clock     func() time.Time
	logger    *zap.Logger
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithClock overrides the source of "today".
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) { s.clock = clock }
}

// WithPublisher sets where completed evaluations are announced.
func WithPublisher(p EvaluationPublisher) ServiceOption {
	return func(s *Service) { s.publisher = p }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService constructs a Service.
func NewService(resolver IdentityResolver, history HistoryProvider, opts ...ServiceOption) *Service {
	s := &Service{
		resolver: resolver,
		history:  history,
		clock:    time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeCallsign trims and upper-cases a callsign.
func NormalizeCallsign(callsign string) string {
	return strings.ToUpper(strings.TrimSpace(callsign))
}

// Evaluate resolves the callsign, fetches its activation log and runs the progress model.
func (s *Service) Evaluate(ctx context.Context, req EvaluateRequest) (*Evaluation, error) {
	callsign := NormalizeCallsign(req.Callsign)
	if callsign == "" {
		return nil, ErrInvalidCallsign
	}

	userID, err := s.resolver.ResolveUserID(ctx, callsign)
	if err != nil {
		if errors.Is(err, ErrResolutionFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}

	records, err := s.history.FetchActivations(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrHistoryUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
	}

	history, err := NewActivationHistory(records)
	if err != nil {
		return nil, err
	}

	result, err := Evaluate(history, EvaluationInput{
		UserWeeklyRate: req.WeeklyRate,
		TargetDate:     req.TargetDate,
		Today:          s.clock(),
	})
	if err != nil {
		return nil, err
	}

	evaluation := &Evaluation{
		Callsign: callsign,
		UserID:   userID,
		History:  history,
		Result:   result,
	}

	if s.publisher != nil {
		if err := s.publisher.PublishEvaluation(ctx, *evaluation); err != nil {
			s.logger.Warn("publish evaluation failed",
				zap.String("callsign", callsign),
				zap.Error(err),
			)
		}
	}

	return evaluation, nil
}

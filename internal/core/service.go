package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"pipelinetracker/pkg/domain"
)

// Service exposes the transactional record operations for stages, methods,
// details and actors.
type Service struct {
	store          PersistentStore
	files          FileStore
	logger         Logger
	clock          Clock
	metrics        MetricsRecorder
	tracer         Tracer
	newID          func() string
	strictActorIDs bool
}

// Option customises a Service.
type Option func(*Service)

// WithLogger overrides the service logger.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source for generated timestamps.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMetricsRecorder installs a metrics sink.
func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithTracer installs a tracer.
func WithTracer(tracer Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithStrictActorIDs makes unknown actor ids on methods an invalid reference
// instead of dropping them.
func WithStrictActorIDs(strict bool) Option {
	return func(s *Service) { s.strictActorIDs = strict }
}

// NewService constructs a service backed by the supplied store and file store.
func NewService(store PersistentStore, files FileStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		files:   files,
		logger:  noopLogger{},
		clock:   systemClock{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}

func (s *Service) run(ctx context.Context, op string, fn func(Transaction) error) error {
	return s.observe(ctx, op, func(ctx context.Context) error {
		return s.store.RunInTransaction(ctx, fn)
	})
}

func (s *Service) view(ctx context.Context, op string, fn func(TransactionView) error) error {
	return s.observe(ctx, op, func(ctx context.Context) error {
		return s.store.View(ctx, fn)
	})
}

// observe reports fn as one operation to the tracer, metrics and logger.
func (s *Service) observe(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, op)
	started := time.Now()
	err := fn(ctx)
	s.finish(ctx, op, started, span, err)
	return err
}

func (s *Service) finish(ctx context.Context, op string, started time.Time, span TraceSpan, err error) {
	elapsed := time.Since(started)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, elapsed)
	switch {
	case err == nil:
		s.logger.Debug("operation completed", "operation", op, "duration", elapsed)
	case isClientError(err):
		s.logger.Debug("operation rejected", "operation", op, "error", err)
	default:
		s.logger.Error("operation failed", "operation", op, "error", err)
	}
}

// removeFiles deletes stored files after their rows are gone. Failures are
// logged and otherwise ignored.
func (s *Service) removeFiles(ctx context.Context, op string, paths []string) {
	if s.files == nil {
		return
	}
	for _, path := range paths {
		if err := s.files.Remove(ctx, path); err != nil {
			s.logger.Warn("stored file cleanup failed", "operation", op, "path", path, "error", err)
		}
	}
}

func isClientError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrInvalidReference) ||
		errors.Is(err, domain.ErrConflict)
}

// referenceCheck turns a missing parent into an invalid reference on field.
func referenceCheck(err error, entity domain.EntityType, field, id string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ReferenceError{Entity: entity, Field: field, IDs: []string{id}}
	}
	return err
}

package service

//go:generate go run go.uber.org/mock/mockgen -source=./recorder.go -destination=../mocks/recorder_mock.go -package=mocks

import (
	"context"
	"hotel/config"
	"hotel/infras/kafka"
	"hotel/internal/domains/audit/model"
	"hotel/internal/domains/audit/repository"
	"hotel/shared/actor"
	"hotel/shared/timezone"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultBufferSize = 1024
	sinkWriteTimeout  = 5 * time.Second
)

// Recorder emits audit events. Record never blocks and never fails the caller: when the
// buffer is full the event is dropped after being logged.
type Recorder interface {
	Record(ctx context.Context, act actor.Actor, action, details string, severity model.Severity)
	Close()
}

// Sink is where buffered audit events end up.
type Sink interface {
	Write(ctx context.Context, entry model.Log) error
}

type recorderImpl struct {
	entries  chan model.Log
	sink     Sink
	mu       sync.RWMutex
	closed   bool
	finished chan struct{}
}

// New publishes to Kafka when it is enabled and writes straight to the audit table otherwise.
func New(cfg *config.Config, client kafka.Client, repo repository.Audit) Recorder {
	if cfg.Kafka.Enable && client != nil {
		return NewRecorder(NewKafkaSink(client, cfg.Kafka.AuditTopic), defaultBufferSize)
	}

	return NewRecorder(NewStoreSink(repo), defaultBufferSize)
}

func NewRecorder(sink Sink, bufferSize int) Recorder {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}

	r := &recorderImpl{
		entries:  make(chan model.Log, bufferSize),
		sink:     sink,
		finished: make(chan struct{}),
	}

	go r.run()

	return r
}

func (r *recorderImpl) Record(_ context.Context, act actor.Actor, action, details string, severity model.Severity) {
	entry := model.Log{
		ID:        uuid.NewString(),
		UserID:    act.ID,
		UserName:  act.Name,
		Role:      act.Role,
		Action:    action,
		Details:   details,
		Severity:  severity,
		CreatedAt: timezone.Now(),
	}

	log.WithLevel(level(severity)).
		Str("audit_id", entry.ID).
		Str("action", action).
		Str("user_id", act.ID).
		Str("role", act.Role).
		Msg(details)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		log.Warn().Str("action", action).Msg("audit recorder closed, dropping event")

		return
	}

	select {
	case r.entries <- entry:
	default:
		log.Warn().Str("action", action).Msg("audit buffer full, dropping event")
	}
}

// Close stops accepting events and waits for the buffered ones to be written.
func (r *recorderImpl) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.entries)
	}
	r.mu.Unlock()

	<-r.finished
}

func (r *recorderImpl) run() {
	defer close(r.finished)

	for entry := range r.entries {
		ctx, cancel := context.WithTimeout(context.Background(), sinkWriteTimeout)

		if err := r.sink.Write(ctx, entry); err != nil {
			log.Error().Err(err).Str("audit_id", entry.ID).Str("action", entry.Action).Msg("failed to write audit event")
		}

		cancel()
	}
}

func level(severity model.Severity) zerolog.Level {
	switch severity {
	case model.SeverityCritical:
		return zerolog.ErrorLevel
	case model.SeverityWarning:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

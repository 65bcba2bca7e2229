package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hotel/config"
	"hotel/infras/otel/mocks"
	auditMocks "hotel/internal/domains/audit/mocks"
	"hotel/internal/domains/audit/model"
	"hotel/internal/domains/audit/service"
	"hotel/shared/actor"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
)

type memorySink struct {
	mu      sync.Mutex
	entries []model.Log
	block   chan struct{}
}

func (s *memorySink) Write(_ context.Context, entry model.Log) error {
	if s.block != nil {
		<-s.block
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)

	return nil
}

func (s *memorySink) all() []model.Log {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]model.Log(nil), s.entries...)
}

func TestRecorder_RecordAndClose(t *testing.T) {
	sink := &memorySink{}
	recorder := service.NewRecorder(sink, 8)

	act := actor.Actor{ID: "u1", Name: "Asha", Role: constant.RoleReceptionist}

	recorder.Record(context.Background(), act, model.ActionBookingCreated, "Booking b1 created", model.SeverityInfo)
	recorder.Record(context.Background(), act, model.ActionRevenueLeakage, "Balance 500.00 on b1", model.SeverityCritical)
	recorder.Close()

	entries := sink.all()
	require.Len(t, entries, 2)

	assert.Equal(t, model.ActionBookingCreated, entries[0].Action)
	assert.Equal(t, "u1", entries[0].UserID)
	assert.Equal(t, "Asha", entries[0].UserName)
	assert.Equal(t, constant.RoleReceptionist, entries[0].Role)
	assert.NotEmpty(t, entries[0].ID)
	assert.Equal(t, model.SeverityCritical, entries[1].Severity)

	assert.NotPanics(t, func() {
		recorder.Record(context.Background(), act, model.ActionCheckIn, "after close", model.SeverityInfo)
		recorder.Close()
	})
}

func TestRecorder_DropsWhenFull(t *testing.T) {
	sink := &memorySink{block: make(chan struct{})}
	recorder := service.NewRecorder(sink, 1)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for i := range 50 {
			recorder.Record(context.Background(), actor.System(), model.ActionCheckIn, fmt.Sprint(i), model.SeverityInfo)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full buffer")
	}

	close(sink.block)
	recorder.Close()

	assert.Less(t, len(sink.all()), 50)
}

func TestAuditService_Store(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := auditMocks.NewMockAudit(ctrl)
	svc := service.NewService(mockRepo, mocks.NewOtel())

	entry := model.Log{ID: "a1", Action: model.ActionCheckOut}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   bool
	}{
		{
			name: "stored",
			setupMock: func() {
				mockRepo.EXPECT().Insert(gomock.Any(), entry).Return(nil)
			},
		},
		{
			name: "redelivery is ignored",
			setupMock: func() {
				mockRepo.EXPECT().Insert(gomock.Any(), entry).
					Return(fmt.Errorf("failed to insert data (audit_log): %w", &pq.Error{Code: constant.PqErrorCodeUniqueViolation}))
			},
		},
		{
			name: "database error",
			setupMock: func() {
				mockRepo.EXPECT().Insert(gomock.Any(), entry).Return(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Store(context.Background(), entry)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuditService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := auditMocks.NewMockAudit(ctrl)
	svc := service.NewService(mockRepo, mocks.NewOtel())

	params := gDto.QueryParams{Page: 1, Limit: 10}

	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(12, nil)
	mockRepo.EXPECT().
		GetAll(gomock.Any(), gDto.QueryParams{Page: 1, Limit: 10, SortBy: model.FieldCreatedAt, SortDir: gDto.SortDirDesc}, gomock.Any()).
		Return([]model.Log{{ID: "a2", Action: model.ActionFraudFlag, Severity: model.SeverityWarning}}, nil)

	res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})
	require.NoError(t, err)

	assert.Equal(t, 12, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	require.Len(t, res.Logs, 1)
	assert.Equal(t, "warning", res.Logs[0].Severity)
}

func TestConsumer_Handle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := auditMocks.NewMockAudit(ctrl)
	consumer := service.NewConsumer(&config.Config{}, nil, service.NewService(mockRepo, mocks.NewOtel()))

	entry := model.Log{ID: "a3", Action: model.ActionBookingDeleted, Severity: model.SeverityCritical}
	payload, err := json.Marshal(entry)
	require.NoError(t, err)

	mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, got model.Log) error {
			assert.Equal(t, entry.ID, got.ID)
			assert.Equal(t, entry.Severity, got.Severity)

			return nil
		})

	assert.NoError(t, consumer.Handle(context.Background(), kafkaGo.Message{Key: []byte("a3"), Value: payload}))
	assert.NoError(t, consumer.Handle(context.Background(), kafkaGo.Message{Value: []byte("{not json")}))

	consumer.Run(context.Background())
}

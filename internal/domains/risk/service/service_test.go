package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	genaiMocks "hotel/infras/genai/mocks"
	"hotel/infras/otel/mocks"
	"hotel/internal/domains/risk/model"
	"hotel/internal/domains/risk/service"
)

func TestScorer_Score(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := genaiMocks.NewMockClient(ctrl)
	scorer := service.New(mockClient, mocks.NewOtel())

	draft := model.Draft{GuestName: "Ravi Kumar", Phone: "9876543210", Nights: 1, TotalAmount: 60000, PaymentMode: "cash"}

	tests := []struct {
		name      string
		setupMock func()
		want      model.Result
		wantErr   bool
	}{
		{
			name: "disabled client",
			setupMock: func() {
				mockClient.EXPECT().Enabled().Return(false)
			},
			want: model.Result{Score: 0, Reason: model.ReasonDisabled},
		},
		{
			name: "model verdict is clamped",
			setupMock: func() {
				mockClient.EXPECT().Enabled().Return(true)
				mockClient.EXPECT().GenerateJSON(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, prompt string, out any) error {
						assert.Contains(t, prompt, "Ravi Kumar")
						assert.Contains(t, prompt, "60000.00")

						res, ok := out.(*model.Result)
						require.True(t, ok)
						res.Score = 140
						res.Reason = "  cash heavy one night stay "

						return nil
					})
			},
			want: model.Result{Score: 100, Reason: "cash heavy one night stay"},
		},
		{
			name: "model failure",
			setupMock: func() {
				mockClient.EXPECT().Enabled().Return(true)
				mockClient.EXPECT().GenerateJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("quota exceeded"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			got, err := scorer.Score(context.Background(), draft)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResult_Clamp(t *testing.T) {
	assert.Equal(t, 0, model.Result{Score: -5}.Clamp().Score)
	assert.Equal(t, 42, model.Result{Score: 42}.Clamp().Score)
	assert.Equal(t, 100, model.Result{Score: 101}.Clamp().Score)
}

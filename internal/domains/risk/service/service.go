package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"hotel/infras/genai"
	"hotel/infras/otel"
	"hotel/internal/domains/risk/model"
	"hotel/shared/constant"
	"strings"

	"github.com/rs/zerolog/log"
)

const promptTemplate = `Act as a hotel security analyst. Analyze this booking for behavioral fraud patterns.

Data:
- Guest: %s
- Email: %s
- Phone: %s
- ID proof: %s
- Room type: %s
- Stay: %s to %s (%d nights, booked %d days ahead)
- Total amount: %.2f
- Payment mode: %s

Risk factors to check:
1. Local ID with a 1-night stay.
2. High value stay (above 50000) paid purely in cash.
3. Mismatch between name complexity and simple email or phone patterns.
4. Very short lead time for high-value suites.

Return JSON only: {"score": number from 0 to 100 where above 70 is high risk, "reason": "concise forensic explanation"}`

// Scorer rates how likely a booking is fraudulent.
type Scorer interface {
	Score(ctx context.Context, draft model.Draft) (model.Result, error)
}

type geminiScorer struct {
	client genai.Client
	otel   otel.Otel
}

func New(client genai.Client, otel otel.Otel) Scorer {
	return &geminiScorer{
		client: client,
		otel:   otel,
	}
}

func (s *geminiScorer) Score(ctx context.Context, draft model.Draft) (res model.Result, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".risk.Score")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !s.client.Enabled() {
		return model.Result{Score: model.MinScore, Reason: model.ReasonDisabled}, nil
	}

	if err = s.client.GenerateJSON(ctx, buildPrompt(draft), &res); err != nil {
		log.Warn().Err(err).Str("guest", draft.GuestName).Msg("risk analysis failed")

		return model.Result{}, fmt.Errorf("failed to score booking: %w", err)
	}

	res = res.Clamp()
	res.Reason = strings.TrimSpace(res.Reason)

	scope.SetAttribute("risk.score", res.Score)

	return res, nil
}

func buildPrompt(d model.Draft) string {
	return fmt.Sprintf(promptTemplate,
		d.GuestName, d.Email, d.Phone, d.IDProof, d.RoomType,
		d.CheckIn, d.CheckOut, d.Nights, d.LeadDays,
		d.TotalAmount, d.PaymentMode,
	)
}

package service

import (
	"context"
	"fmt"
	"hotel/infras/otel"
	"hotel/internal/domains/audit/model"
	"hotel/internal/domains/audit/model/dto"
	"hotel/internal/domains/audit/repository"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gRepo "hotel/shared/repository"

	"github.com/rs/zerolog/log"
)

type Audit interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetLogsResponse, error)
	Store(ctx context.Context, entry model.Log) error
}

type serviceImpl struct {
	repo repository.Audit
	otel otel.Otel
}

func NewService(repo repository.Audit, otel otel.Otel) Audit {
	return &serviceImpl{
		repo: repo,
		otel: otel,
	}
}

// GetAll lists the trail newest first unless another ordering is requested.
func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetLogsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	if params.SortBy == constant.Empty {
		params.SortBy = model.FieldCreatedAt
		params.SortDir = gDto.SortDirDesc
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count audit logs")

		return res, fmt.Errorf("failed to count audit logs: %w", err)
	}

	logs, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get audit logs")

		return res, fmt.Errorf("failed to get audit logs: %w", err)
	}

	res.FromModels(logs, total, params.Limit)

	return res, nil
}

// Store persists an event delivered by the audit topic. Redelivered events are ignored.
func (s *serviceImpl) Store(ctx context.Context, entry model.Log) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.Store")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.repo.Insert(ctx, entry); err != nil {
		if gRepo.IsUniqueViolation(err) {
			log.Debug().Str("audit_id", entry.ID).Msg("audit event already stored")

			return nil
		}

		log.Error().Err(err).Str("audit_id", entry.ID).Msg("failed to store audit event")

		return fmt.Errorf("failed to store audit event: %w", err)
	}

	return nil
}

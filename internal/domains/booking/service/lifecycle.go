package service

import (
	"context"
	"fmt"
	"time"

	auditModel "hotel/internal/domains/audit/model"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	riskModel "hotel/internal/domains/risk/model"
	roomModel "hotel/internal/domains/room/model"
	"hotel/shared"
	"hotel/shared/actor"
	"hotel/shared/base64"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/lock"
	"hotel/shared/money"
	"hotel/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const defaultRiskTimeout = 4 * time.Second

// transitionFunc returns the extra columns to write when a booking leaves its current status.
type transitionFunc func(ctx context.Context, tx *sqlx.Tx, booking model.Booking) (map[string]any, error)

func (s *serviceImpl) Create(ctx context.Context, act actor.Actor, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	start, end, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return res, err
	}

	room, err := s.findRoom(ctx, req.RoomID)
	if err != nil {
		return res, err
	}

	if req.BookedAsAC && !room.HasAC() {
		return res, failure.BadRequestFromString(fmt.Sprintf("room %s has no air conditioning", room.Number)) // nolint:wrapcheck
	}

	booking := req.ToModel(act, start, end)
	booking.TotalAmount = money.Round(float64(booking.Nights()) * room.NightlyRate(req.BookedAsAC))

	booking.Status = model.StatusPending
	if act.IsStaff() {
		booking.Status = model.StatusConfirmed
	}

	risk := s.score(ctx, booking, room)
	booking.RiskScore = risk.Score
	booking.RiskReason = risk.Reason

	if req.IDProofImage != constant.Empty {
		if booking.IDProofURL, err = s.uploadIDProof(ctx, booking.ID, req.IDProofImage); err != nil {
			return res, err
		}
	}

	release, err := s.locker.Acquire(ctx, lock.Keys(booking.ID, booking.RoomID)...)
	if err != nil {
		s.discardIDProof(ctx, booking.IDProofURL)

		return res, err //nolint:wrapcheck
	}
	defer release()

	grandTotal := booking.Invoice().GrandTotal

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.ensureAvailable(ctx, tx, booking.RoomID, start, end, constant.Empty); err != nil {
			return err
		}

		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			log.Error().Err(err).Msg("failed to insert booking")

			return fmt.Errorf("failed to insert booking: %w", err)
		}

		return s.ledger.RecordCharge(ctx, tx, booking.ID, grandTotal) //nolint:wrapcheck
	})
	if err != nil {
		s.discardIDProof(ctx, booking.IDProofURL)

		return res, err //nolint:wrapcheck
	}

	s.audit.Record(ctx, act, auditModel.ActionBookingCreated,
		fmt.Sprintf("Booking %s for %s in room %s from %s to %s, status %s, grand total %.2f",
			booking.ID, booking.GuestName(), room.Number, timezone.FormatDate(start), timezone.FormatDate(end),
			booking.Status, grandTotal),
		auditModel.SeverityInfo)

	if risk.Score > s.cfg.Booking.RiskWarnThreshold {
		s.audit.Record(ctx, act, auditModel.ActionFraudFlag,
			fmt.Sprintf("Booking %s scored %d: %s", booking.ID, risk.Score, risk.Reason), auditModel.SeverityWarning)
	}

	s.Invalidate(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

// score never fails: a slow or broken scorer degrades to a neutral result.
func (s *serviceImpl) score(ctx context.Context, booking model.Booking, room roomModel.Room) riskModel.Result {
	timeout := time.Duration(s.cfg.External.Gemini.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultRiskTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := s.scorer.Score(ctx, riskModel.Draft{
		GuestName:   booking.GuestName(),
		Email:       booking.Email,
		Phone:       booking.Phone,
		IDProof:     booking.IDProof,
		RoomType:    string(room.Type),
		CheckIn:     timezone.FormatDate(booking.CheckIn),
		CheckOut:    timezone.FormatDate(booking.CheckOut),
		Nights:      booking.Nights(),
		TotalAmount: booking.TotalAmount,
		PaymentMode: string(booking.PaymentMode),
		LeadDays:    timezone.NightsBetween(timezone.Today(), booking.CheckIn),
	})
	if err != nil {
		log.Warn().Err(err).Str("booking_id", booking.ID).Msg("risk scoring unavailable")

		return riskModel.Result{Score: 0, Reason: riskModel.ReasonUnavailable}
	}

	return res
}

func (s *serviceImpl) uploadIDProof(ctx context.Context, bookingID, image string) (string, error) {
	contentType, data, err := base64.Decode(image)
	if err != nil {
		return constant.Empty, failure.BadRequest(err) // nolint:wrapcheck
	}

	url, err := s.s3.UploadFileBytes(ctx, idProofDirectory, bookingID, contentType, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload id proof")

		return constant.Empty, fmt.Errorf("failed to upload id proof: %w", err)
	}

	return url, nil
}

func (s *serviceImpl) discardIDProof(ctx context.Context, url string) {
	if url == constant.Empty {
		return
	}

	if err := s.s3.DeleteFile(context.WithoutCancel(ctx), url); err != nil {
		log.Error().Err(err).Str("url", url).Msg("failed to delete orphaned id proof")
	}
}

// transition moves a booking out of from under the room and booking locks.
func (s *serviceImpl) transition(ctx context.Context, act actor.Actor, id string, from model.Status, apply transitionFunc) (model.Booking, error) {
	current, err := s.find(ctx, id)
	if err != nil {
		return current, err
	}

	release, err := s.locker.Acquire(ctx, lock.Keys(id, current.RoomID)...)
	if err != nil {
		return current, err //nolint:wrapcheck
	}
	defer release()

	var booking model.Booking

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error

		booking, err = s.findTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if booking.Status != from {
			return failure.InvalidTransition(fmt.Sprintf("booking %s is %s, expected %s", id, booking.Status, from)) // nolint:wrapcheck
		}

		fields, err := apply(ctx, tx, booking)
		if err != nil {
			return err
		}

		fields = shared.MergeFields(fields, act.Label())

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to update booking status")

			return fmt.Errorf("failed to update booking status: %w", err)
		}

		return nil
	})
	if err != nil {
		return booking, err //nolint:wrapcheck
	}

	s.Invalidate(ctx, id)

	return booking, nil
}

func statusTo(status model.Status) transitionFunc {
	return func(context.Context, *sqlx.Tx, model.Booking) (map[string]any, error) {
		return map[string]any{model.FieldStatus: status}, nil
	}
}

// voidTo ends a booking that never started. The room charge is credited back so the ledger
// keeps matching the now empty invoice.
func (s *serviceImpl) voidTo(status model.Status) transitionFunc {
	return func(ctx context.Context, tx *sqlx.Tx, booking model.Booking) (map[string]any, error) {
		voided := booking
		voided.TotalAmount = 0
		voided.Discount = 0

		if _, err := s.ledger.Reconcile(ctx, tx, booking.ID, booking.Invoice().GrandTotal, voided.Invoice().GrandTotal); err != nil {
			return nil, err //nolint:wrapcheck
		}

		return map[string]any{
			model.FieldStatus:      status,
			model.FieldTotalAmount: voided.TotalAmount,
			model.FieldDiscount:    voided.Discount,
		}, nil
	}
}

func (s *serviceImpl) setRoomStatus(ctx context.Context, tx *sqlx.Tx, act actor.Actor, roomID string, status roomModel.Status) error {
	fields := shared.MergeFields(map[string]any{roomModel.FieldStatus: status}, act.Label())

	if err := s.roomRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update room status")

		return fmt.Errorf("failed to update room status: %w", err)
	}

	return nil
}

func (s *serviceImpl) Approve(ctx context.Context, act actor.Actor, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Approve")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !act.HasRole(constant.RoleAdmin, constant.RoleManager, constant.RoleReceptionist) {
		return s.deny(ctx, act, fmt.Sprintf("%s (%s) attempted to approve booking %s", act.Label(), act.Role, id))
	}

	booking, err := s.transition(ctx, act, id, model.StatusPending, statusTo(model.StatusConfirmed))
	if err != nil {
		return err
	}

	s.audit.Record(ctx, act, auditModel.ActionBookingApproved,
		fmt.Sprintf("Booking %s for %s approved", id, booking.GuestName()), auditModel.SeverityInfo)

	return nil
}

func (s *serviceImpl) Reject(ctx context.Context, act actor.Actor, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Reject")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !act.HasRole(constant.RoleAdmin, constant.RoleManager, constant.RoleReceptionist) {
		return s.deny(ctx, act, fmt.Sprintf("%s (%s) attempted to reject booking %s", act.Label(), act.Role, id))
	}

	booking, err := s.transition(ctx, act, id, model.StatusPending, s.voidTo(model.StatusRejected))
	if err != nil {
		return err
	}

	s.audit.Record(ctx, act, auditModel.ActionBookingRejected,
		fmt.Sprintf("Booking %s for %s rejected", id, booking.GuestName()), auditModel.SeverityWarning)

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, act actor.Actor, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	void := s.voidTo(model.StatusCancelled)

	booking, err := s.transition(ctx, act, id, model.StatusPending,
		func(ctx context.Context, tx *sqlx.Tx, booking model.Booking) (map[string]any, error) {
			if !act.IsStaff() && booking.GuestID != act.ID {
				return nil, s.deny(ctx, act, fmt.Sprintf("%s attempted to cancel booking %s of another guest", act.Label(), id))
			}

			return void(ctx, tx, booking)
		})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, act, auditModel.ActionBookingCancelled,
		fmt.Sprintf("Booking %s for %s cancelled", id, booking.GuestName()), auditModel.SeverityWarning)

	return nil
}

func (s *serviceImpl) CheckIn(ctx context.Context, act actor.Actor, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !act.IsStaff() {
		return s.deny(ctx, act, fmt.Sprintf("%s attempted to check in booking %s", act.Label(), id))
	}

	booking, err := s.transition(ctx, act, id, model.StatusConfirmed,
		func(ctx context.Context, tx *sqlx.Tx, booking model.Booking) (map[string]any, error) {
			if err := s.setRoomStatus(ctx, tx, act, booking.RoomID, roomModel.StatusOccupied); err != nil {
				return nil, err
			}

			return map[string]any{model.FieldStatus: model.StatusCheckedIn}, nil
		})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, act, auditModel.ActionCheckIn,
		fmt.Sprintf("%s checked in to room of booking %s", booking.GuestName(), id), auditModel.SeverityInfo)

	return nil
}

// CheckOut refuses to release the guest while more than the configured tolerance is owed.
// The refusal leaves the booking checked in.
func (s *serviceImpl) CheckOut(ctx context.Context, act actor.Actor, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckOut")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !act.IsStaff() {
		return s.deny(ctx, act, fmt.Sprintf("%s attempted to check out booking %s", act.Label(), id))
	}

	booking, err := s.transition(ctx, act, id, model.StatusCheckedIn,
		func(ctx context.Context, tx *sqlx.Tx, booking model.Booking) (map[string]any, error) {
			inv := booking.Invoice()

			if !inv.Settled(s.cfg.Booking.CheckoutTolerance) {
				s.audit.Record(ctx, act, auditModel.ActionRevenueLeakage,
					fmt.Sprintf("Checkout of booking %s blocked, balance due %.2f", id, inv.BalanceDue), auditModel.SeverityCritical)

				return nil, failure.OutstandingBalance(fmt.Sprintf("balance of %.2f must be collected before checkout", inv.BalanceDue)) // nolint:wrapcheck
			}

			if err := s.setRoomStatus(ctx, tx, act, booking.RoomID, roomModel.StatusCleaning); err != nil {
				return nil, err
			}

			return map[string]any{model.FieldStatus: model.StatusCheckedOut}, nil
		})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, act, auditModel.ActionCheckOut,
		fmt.Sprintf("%s checked out of booking %s", booking.GuestName(), id), auditModel.SeverityInfo)

	return nil
}

// ExpirePending cancels pending bookings whose check-in passed more than the configured
// grace period before asOf. It returns how many were cancelled.
func (s *serviceImpl) ExpirePending(ctx context.Context, asOf time.Time) (expired int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ExpirePending")
	defer scope.End()
	defer scope.TraceIfError(err)

	cutoff := timezone.NormalizeDate(asOf).AddDate(0, 0, -s.cfg.Booking.PendingExpiryDays)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusPending, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldCheckIn, Value: cutoff, Operator: gDto.FilterOperatorLess, Table: model.TableName},
		},
	}

	stale, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get stale pending bookings")

		return 0, fmt.Errorf("failed to get stale pending bookings: %w", err)
	}

	system := actor.System()

	for _, booking := range stale {
		if _, err := s.transition(ctx, system, booking.ID, model.StatusPending, s.voidTo(model.StatusCancelled)); err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to expire pending booking")

			continue
		}

		s.audit.Record(ctx, system, auditModel.ActionBookingExpired,
			fmt.Sprintf("Pending booking %s for %s expired, check-in was %s", booking.ID, booking.GuestName(), timezone.FormatDate(booking.CheckIn)),
			auditModel.SeverityWarning)

		expired++
	}

	return expired, nil
}

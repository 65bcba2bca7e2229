package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	auditModel "hotel/internal/domains/audit/model"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	roomModel "hotel/internal/domains/room/model"
	"hotel/shared"
	"hotel/shared/actor"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/shared/lock"
	"hotel/shared/money"
	"hotel/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// updateAttempts bounds how often Update starts over after the booking changed rooms while it
// waited for its locks.
const updateAttempts = 3

var errBookingMoved = failure.Conflict("booking was moved to another room by a concurrent request, please retry")

// Update amends a booking. Role gates run before anything is checked or written; a stay that
// moves is re-checked for availability against everything but itself. The ledger is never
// rewritten: the change in grand total is appended as a debit or credit.
func (s *serviceImpl) Update(ctx context.Context, act actor.Actor, req dto.UpdateBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	for range updateAttempts {
		err = s.update(ctx, act, req, id)
		if !errors.Is(err, errBookingMoved) {
			return err
		}

		log.Warn().Str("booking_id", id).Msg("booking changed rooms while waiting for its lock, retrying")
	}

	return err
}

// update locks the rooms the booking is known to use plus the requested one. The booking is
// read again under those locks; when its room is no longer the one locked, errBookingMoved
// sends the caller round again.
func (s *serviceImpl) update(ctx context.Context, act actor.Actor, req dto.UpdateBookingRequest, id string) error {
	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	targetRoomID := current.RoomID
	if req.RoomID != nil {
		targetRoomID = *req.RoomID
	}

	release, err := s.locker.Acquire(ctx, lock.Keys(id, current.RoomID, targetRoomID)...)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer release()

	var (
		changed []string
		delta   float64
	)

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		before, err := s.findTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if before.RoomID != current.RoomID {
			return errBookingMoved
		}

		if err := s.authorizeUpdate(ctx, act, before, req); err != nil {
			return err
		}

		if !before.Active() {
			return failure.InvalidTransition(fmt.Sprintf("booking %s is %s and can no longer be changed", id, before.Status)) // nolint:wrapcheck
		}

		room, err := s.findRoom(ctx, targetRoomOf(before, req))
		if err != nil {
			return err
		}

		after, err := applyChanges(before, req, room)
		if err != nil {
			return err
		}

		if after.RoomID != before.RoomID || !after.CheckIn.Equal(before.CheckIn) || !after.CheckOut.Equal(before.CheckOut) {
			if err := s.ensureAvailable(ctx, tx, after.RoomID, after.CheckIn, after.CheckOut, id); err != nil {
				return err
			}
		}

		fields := changedFields(before, after)
		if len(fields) == 0 {
			return nil
		}

		for field := range fields {
			changed = append(changed, field)
		}

		fields = shared.MergeFields(fields, act.Label())

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to update booking")

			return fmt.Errorf("failed to update booking: %w", err)
		}

		delta, err = s.ledger.Reconcile(ctx, tx, id, before.Invoice().GrandTotal, after.Invoice().GrandTotal)

		return err //nolint:wrapcheck
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	if len(changed) == 0 {
		return nil
	}

	slices.Sort(changed)

	s.audit.Record(ctx, act, auditModel.ActionBookingModified,
		fmt.Sprintf("Booking %s changed (%s), ledger adjusted by %.2f", id, strings.Join(changed, ", "), delta),
		auditModel.SeverityWarning)

	s.Invalidate(ctx, id)

	return nil
}

func targetRoomOf(booking model.Booking, req dto.UpdateBookingRequest) string {
	if req.RoomID != nil {
		return *req.RoomID
	}

	return booking.RoomID
}

// authorizeUpdate applies the date gates against the booking as stored. Moving the check-in
// needs admin or manager whatever the status; moving the check-out of a settled booking needs
// admin. Guests may only touch their own bookings.
func (s *serviceImpl) authorizeUpdate(ctx context.Context, act actor.Actor, booking model.Booking, req dto.UpdateBookingRequest) error {
	if !act.IsStaff() && booking.GuestID != act.ID {
		return s.deny(ctx, act, fmt.Sprintf("%s attempted to modify booking %s of another guest", act.Label(), booking.ID))
	}

	if dateChanged(req.CheckIn, booking.CheckIn) && !act.HasRole(constant.RoleAdmin, constant.RoleManager) {
		return s.deny(ctx, act, fmt.Sprintf("%s (%s) attempted to change check-in date of booking %s", act.Label(), act.Role, booking.ID))
	}

	if dateChanged(req.CheckOut, booking.CheckOut) && booking.Settled() && !act.HasRole(constant.RoleAdmin) {
		return s.deny(ctx, act, fmt.Sprintf("%s (%s) attempted to change check-out date of %s booking %s", act.Label(), act.Role, booking.Status, booking.ID))
	}

	return nil
}

// dateChanged treats an unparsable value as a change so that the gate still applies.
func dateChanged(value *string, current time.Time) bool {
	if value == nil {
		return false
	}

	date, err := timezone.ParseDate(*value)
	if err != nil {
		return true
	}

	return !date.Equal(timezone.NormalizeDate(current))
}

// applyChanges returns the booking as it will be after req. room must be the room the booking
// ends up in. The room charge is repriced at its current rate only when the room, the dates or
// the AC choice change.
func applyChanges(before model.Booking, req dto.UpdateBookingRequest, room roomModel.Room) (model.Booking, error) {
	after := before
	after.CheckIn = timezone.NormalizeDate(before.CheckIn)
	after.CheckOut = timezone.NormalizeDate(before.CheckOut)
	after.RoomID = targetRoomOf(before, req)

	var err error

	if req.CheckIn != nil {
		if after.CheckIn, err = timezone.ParseDate(*req.CheckIn); err != nil {
			return after, failure.BadRequest(err) // nolint:wrapcheck
		}
	}

	if req.CheckOut != nil {
		if after.CheckOut, err = timezone.ParseDate(*req.CheckOut); err != nil {
			return after, failure.BadRequest(err) // nolint:wrapcheck
		}
	}

	if !after.CheckOut.After(after.CheckIn) {
		return after, failure.BadRequestFromString("check_out must be after check_in") // nolint:wrapcheck
	}

	setIfPresent(&after.FirstName, req.FirstName)
	setIfPresent(&after.LastName, req.LastName)
	setIfPresent(&after.Email, req.Email)
	setIfPresent(&after.Phone, req.Phone)
	setIfPresent(&after.IDProof, req.IDProof)
	setIfPresent(&after.Remarks, req.Remarks)
	setIfPresent(&after.BookedAsAC, req.BookedAsAC)
	setIfPresent(&after.GSTIncluded, req.GSTIncluded)

	if req.PaymentMode != nil {
		after.PaymentMode = model.PaymentMode(*req.PaymentMode)
	}

	if req.Discount != nil {
		after.Discount = money.Round(*req.Discount)
	}

	if after.BookedAsAC && !room.HasAC() {
		return after, failure.BadRequestFromString(fmt.Sprintf("room %s has no air conditioning", room.Number)) // nolint:wrapcheck
	}

	repriced := after.RoomID != before.RoomID ||
		!after.CheckIn.Equal(timezone.NormalizeDate(before.CheckIn)) ||
		!after.CheckOut.Equal(timezone.NormalizeDate(before.CheckOut)) ||
		after.BookedAsAC != before.BookedAsAC

	if repriced {
		after.TotalAmount = money.Round(float64(after.Nights()) * room.NightlyRate(after.BookedAsAC))
	}

	return after, nil
}

func setIfPresent[T any](dst *T, value *T) {
	if value != nil {
		*dst = *value
	}
}

func changedFields(before, after model.Booking) map[string]any {
	fields := map[string]any{}

	set := func(changed bool, field string, value any) {
		if changed {
			fields[field] = value
		}
	}

	set(after.RoomID != before.RoomID, model.FieldRoomID, after.RoomID)
	set(after.FirstName != before.FirstName, model.FieldFirstName, after.FirstName)
	set(after.LastName != before.LastName, model.FieldLastName, after.LastName)
	set(after.Email != before.Email, model.FieldEmail, after.Email)
	set(after.Phone != before.Phone, model.FieldPhone, after.Phone)
	set(after.IDProof != before.IDProof, model.FieldIDProof, after.IDProof)
	set(!after.CheckIn.Equal(timezone.NormalizeDate(before.CheckIn)), model.FieldCheckIn, after.CheckIn)
	set(!after.CheckOut.Equal(timezone.NormalizeDate(before.CheckOut)), model.FieldCheckOut, after.CheckOut)
	set(after.PaymentMode != before.PaymentMode, model.FieldPaymentMode, after.PaymentMode)
	set(after.BookedAsAC != before.BookedAsAC, model.FieldBookedAsAC, after.BookedAsAC)
	set(after.GSTIncluded != before.GSTIncluded, model.FieldGSTIncluded, after.GSTIncluded)
	set(after.Discount != before.Discount, model.FieldDiscount, after.Discount)
	set(after.TotalAmount != before.TotalAmount, model.FieldTotalAmount, after.TotalAmount)
	set(after.Remarks != before.Remarks, model.FieldRemarks, after.Remarks)

	return fields
}

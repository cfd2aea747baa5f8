package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/homequest/realty-api/internal/core/domain"
	"github.com/homequest/realty-api/internal/core/ports"
)

const (
	defaultLateFeeRate     = 0.05
	defaultGracePeriodDays = 5
)

// BookingService drives rent and PG booking lifecycles. Approval is the money
// moment: the deposit-plus-first-month debit, the status change, the resource
// occupation and the first payment record commit or roll back together.
type BookingService struct {
	rentBookings  ports.RentBookingRepository
	pgBookings    ports.PgBookingRepository
	payments      ports.PaymentRepository
	properties    ports.PropertyRepository
	pg            ports.PgRepository
	inquiries     ports.InquiryRepository
	wallet        ports.WalletService
	notifications ports.NotificationService
	tx            ports.TxRunner
	logger        zerolog.Logger
}

func NewBookingService(
	rentBookings ports.RentBookingRepository,
	pgBookings ports.PgBookingRepository,
	payments ports.PaymentRepository,
	properties ports.PropertyRepository,
	pg ports.PgRepository,
	inquiries ports.InquiryRepository,
	wallet ports.WalletService,
	notifications ports.NotificationService,
	tx ports.TxRunner,
	logger zerolog.Logger,
) *BookingService {
	return &BookingService{
		rentBookings:  rentBookings,
		pgBookings:    pgBookings,
		payments:      payments,
		properties:    properties,
		pg:            pg,
		inquiries:     inquiries,
		wallet:        wallet,
		notifications: notifications,
		tx:            tx,
		logger:        logger,
	}
}

// CreateRent requests a whole-property tenancy. The overlap check catches the
// common case; the partial unique index on open bookings decides races.
func (s *BookingService) CreateRent(ctx context.Context, actor ports.Actor, input ports.CreateRentBookingInput) (*domain.RentBooking, error) {
	property, err := s.properties.FindByID(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.OwnerID == "" {
		return nil, domain.ErrPropertyNoOwner
	}
	if property.Status != domain.PropertyForRent {
		return nil, domain.ErrPropertyUnavailable
	}

	end := openBookingEndFor(input.EndDate)
	conflict, err := s.rentBookings.FindConflicting(ctx, input.PropertyID, input.StartDate, end)
	if err != nil {
		return nil, fmt.Errorf("check conflicts: %w", err)
	}
	if conflict != nil {
		return nil, domain.ErrBookingConflict
	}

	rent := input.MonthlyRent
	if rent <= 0 {
		rent = property.Price
	}

	now := time.Now().UTC()
	booking, err := s.rentBookings.Create(ctx, &domain.RentBooking{
		PropertyID:      input.PropertyID,
		TenantID:        actor.ID,
		OwnerID:         property.OwnerID,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		MonthlyRent:     rent,
		SecurityDeposit: input.SecurityDeposit,
		Status:          domain.BookingPendingApproval,
		LateFeeRate:     defaultLateFeeRate,
		GracePeriodDays: defaultGracePeriodDays,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, err
	}

	s.notifyBooking(ctx, &domain.BookingNotification{
		RecipientID:   property.OwnerID,
		RentBookingID: booking.ID,
		Type:          domain.NotifyBookingCreated,
		Title:         "New Booking Request",
		Message:       fmt.Sprintf("%s %s requested to rent %s", actor.FirstName, actor.LastName, property.Title),
		Priority:      domain.PriorityHigh,
		ActionURL:     "/bookings/pending",
	})

	s.logger.Info().
		Str("booking_id", booking.ID).
		Str("property_id", input.PropertyID).
		Str("tenant_id", actor.ID).
		Msg("rent booking requested")

	return booking, nil
}

// CreatePg requests a bed-level tenancy. The rent defaults to the bed's
// advertised rate.
func (s *BookingService) CreatePg(ctx context.Context, actor ports.Actor, input ports.CreatePgBookingInput) (*domain.PgBooking, error) {
	bed, err := s.pg.FindBed(ctx, input.BedID)
	if err != nil {
		return nil, err
	}
	if bed.Occupied {
		return nil, domain.ErrBedOccupied
	}

	property, err := s.properties.FindByID(ctx, bed.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.OwnerID == "" {
		return nil, domain.ErrPropertyNoOwner
	}

	rent := input.MonthlyRent
	if rent <= 0 {
		rent = bed.MonthlyRent
	}

	now := time.Now().UTC()
	booking, err := s.pgBookings.Create(ctx, &domain.PgBooking{
		BedID:           input.BedID,
		PropertyID:      bed.PropertyID,
		TenantID:        actor.ID,
		OwnerID:         property.OwnerID,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		MonthlyRent:     rent,
		SecurityDeposit: input.SecurityDeposit,
		Status:          domain.BookingPendingApproval,
		LateFeeRate:     defaultLateFeeRate,
		GracePeriodDays: defaultGracePeriodDays,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return nil, err
	}

	s.notifyBooking(ctx, &domain.BookingNotification{
		RecipientID: property.OwnerID,
		PgBookingID: booking.ID,
		Type:        domain.NotifyBookingCreated,
		Title:       "New PG Booking Request",
		Message:     fmt.Sprintf("%s %s requested bed %s at %s", actor.FirstName, actor.LastName, bed.BedNumber, property.Title),
		Priority:    domain.PriorityHigh,
		ActionURL:   "/bookings/pending",
	})

	s.logger.Info().
		Str("booking_id", booking.ID).
		Str("bed_id", input.BedID).
		Str("tenant_id", actor.ID).
		Msg("pg booking requested")

	return booking, nil
}

// ApproveRent activates a pending booking. It requires an AGREED inquiry with
// approved documents, then in one transaction debits the tenant's wallet for
// deposit plus first month, activates the booking, marks the property RENTED
// and records the first month as PAID.
func (s *BookingService) ApproveRent(ctx context.Context, actor ports.Actor, input ports.ApproveBookingInput) (*domain.RentBooking, error) {
	booking, err := s.rentBookings.FindByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor, ActBookingManage, Resource{OwnerID: booking.OwnerID, ClientID: booking.TenantID}) {
		return nil, domain.ErrForbidden
	}
	if booking.Status != domain.BookingPendingApproval {
		return nil, domain.ErrBookingNotPending
	}

	if err := s.requireApprovedDocuments(ctx, booking.PropertyID, booking.TenantID); err != nil {
		return nil, err
	}

	if input.FinalMonthlyRent > 0 {
		booking.MonthlyRent = input.FinalMonthlyRent
	}
	if input.FinalSecurityDeposit > 0 {
		booking.SecurityDeposit = input.FinalSecurityDeposit
	}

	now := time.Now().UTC()
	total := booking.SecurityDeposit + booking.MonthlyRent

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.wallet.DeductMoney(ctx, booking.TenantID, total,
			"Security deposit and first month rent", "rent_booking_"+booking.ID); err != nil {
			return err
		}

		booking.Status = domain.BookingActive
		booking.ApprovalDate = &now
		booking.IsPaid = true
		booking.UpdatedAt = now
		if err := s.rentBookings.Update(ctx, booking); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}

		if err := s.properties.UpdateStatus(ctx, booking.PropertyID, domain.PropertyRented); err != nil {
			return fmt.Errorf("update property: %w", err)
		}

		_, err := s.payments.Create(ctx, &domain.MonthlyPayment{
			RentBookingID:    booking.ID,
			DueDate:          domain.NextDueDate(nil, now),
			Amount:           booking.MonthlyRent,
			Status:           domain.PaymentPaid,
			PaidDate:         &now,
			PaymentReference: "rent_booking_" + booking.ID,
			CreatedAt:        now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	message := input.Message
	if message == "" {
		message = "Your booking has been approved. Welcome home!"
	}
	s.notifyBooking(ctx, &domain.BookingNotification{
		RecipientID:   booking.TenantID,
		RentBookingID: booking.ID,
		Type:          domain.NotifyBookingApproved,
		Title:         "Booking Approved",
		Message:       message,
		Priority:      domain.PriorityHigh,
		ActionURL:     "/bookings/" + booking.ID,
	})

	s.logger.Info().
		Str("booking_id", booking.ID).
		Float64("amount", total).
		Msg("rent booking approved")

	return booking, nil
}

// ApprovePg activates a pending bed booking and occupies the bed, with the
// same transactional debit as rent approval.
func (s *BookingService) ApprovePg(ctx context.Context, actor ports.Actor, input ports.ApproveBookingInput) (*domain.PgBooking, error) {
	booking, err := s.pgBookings.FindByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor, ActBookingManage, Resource{OwnerID: booking.OwnerID, ClientID: booking.TenantID}) {
		return nil, domain.ErrForbidden
	}
	if booking.Status != domain.BookingPendingApproval {
		return nil, domain.ErrBookingNotPending
	}

	bed, err := s.pg.FindBed(ctx, booking.BedID)
	if err != nil {
		return nil, err
	}
	if bed.Occupied {
		return nil, domain.ErrBedOccupied
	}

	if err := s.requireApprovedDocuments(ctx, booking.PropertyID, booking.TenantID); err != nil {
		return nil, err
	}

	if input.FinalMonthlyRent > 0 {
		booking.MonthlyRent = input.FinalMonthlyRent
	}
	if input.FinalSecurityDeposit > 0 {
		booking.SecurityDeposit = input.FinalSecurityDeposit
	}

	now := time.Now().UTC()
	total := booking.SecurityDeposit + booking.MonthlyRent

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.wallet.DeductMoney(ctx, booking.TenantID, total,
			"Security deposit and first month rent (PG)", "pg_booking_"+booking.ID); err != nil {
			return err
		}

		booking.Status = domain.BookingActive
		booking.ApprovalDate = &now
		booking.IsPaid = true
		booking.UpdatedAt = now
		if err := s.pgBookings.Update(ctx, booking); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}

		if err := s.pg.SetBedOccupied(ctx, booking.BedID, true); err != nil {
			return fmt.Errorf("occupy bed: %w", err)
		}

		_, err := s.payments.Create(ctx, &domain.MonthlyPayment{
			PgBookingID:      booking.ID,
			DueDate:          domain.NextDueDate(nil, now),
			Amount:           booking.MonthlyRent,
			Status:           domain.PaymentPaid,
			PaidDate:         &now,
			PaymentReference: "pg_booking_" + booking.ID,
			CreatedAt:        now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	message := input.Message
	if message == "" {
		message = "Your PG booking has been approved."
	}
	s.notifyBooking(ctx, &domain.BookingNotification{
		RecipientID: booking.TenantID,
		PgBookingID: booking.ID,
		Type:        domain.NotifyBookingApproved,
		Title:       "Booking Approved",
		Message:     message,
		Priority:    domain.PriorityHigh,
		ActionURL:   "/bookings/" + booking.ID,
	})

	s.logger.Info().
		Str("booking_id", booking.ID).
		Float64("amount", total).
		Msg("pg booking approved")

	return booking, nil
}

// RejectRent declines a pending booking with a reason.
func (s *BookingService) RejectRent(ctx context.Context, actor ports.Actor, bookingID, reason string) (*domain.RentBooking, error) {
	booking, err := s.rentBookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor, ActBookingManage, Resource{OwnerID: booking.OwnerID, ClientID: booking.TenantID}) {
		return nil, domain.ErrForbidden
	}
	if booking.Status != domain.BookingPendingApproval {
		return nil, domain.ErrBookingNotPending
	}

	booking.Status = domain.BookingRejected
	booking.RejectionReason = reason
	booking.UpdatedAt = time.Now().UTC()
	if err := s.rentBookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	s.notifyBooking(ctx, &domain.BookingNotification{
		RecipientID:   booking.TenantID,
		RentBookingID: booking.ID,
		Type:          domain.NotifyBookingRejected,
		Title:         "Booking Rejected",
		Message:       reason,
		Priority:      domain.PriorityMedium,
		ActionURL:     "/bookings/" + booking.ID,
	})

	return booking, nil
}

// Cancel cancels a rent or PG booking. An active booking releases its
// resource; refundDeposit credits the security deposit back to the tenant
// when the booking had already been paid for.
func (s *BookingService) Cancel(ctx context.Context, actor ports.Actor, bookingID, reason string, refundDeposit bool) error {
	if booking, err := s.rentBookings.FindByID(ctx, bookingID); err == nil {
		return s.cancelRent(ctx, actor, booking, reason, refundDeposit)
	} else if err != domain.ErrBookingNotFound {
		return err
	}

	booking, err := s.pgBookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	return s.cancelPg(ctx, actor, booking, reason, refundDeposit)
}

func (s *BookingService) cancelRent(ctx context.Context, actor ports.Actor, booking *domain.RentBooking, reason string, refundDeposit bool) error {
	if !CanPerform(actor, ActBookingCancel, Resource{OwnerID: booking.OwnerID, ClientID: booking.TenantID}) {
		return domain.ErrForbidden
	}
	if !booking.Status.CanTransitionTo(domain.BookingCancelled) {
		return fmt.Errorf("%w (booking is %s)", domain.ErrBookingNotActive, booking.Status)
	}

	wasActive := booking.Status == domain.BookingActive || booking.Status == domain.BookingExtended

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		booking.Status = domain.BookingCancelled
		booking.CancellationReason = reason
		booking.UpdatedAt = time.Now().UTC()
		if err := s.rentBookings.Update(ctx, booking); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}

		if wasActive {
			if err := s.properties.UpdateStatus(ctx, booking.PropertyID, domain.PropertyForRent); err != nil {
				return fmt.Errorf("release property: %w", err)
			}
		}

		if refundDeposit && booking.IsPaid && booking.SecurityDeposit > 0 {
			_, err := s.wallet.AddMoney(ctx, booking.TenantID, booking.SecurityDeposit,
				"Security deposit refund", "refund_"+booking.ID)
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyBooking(ctx, &domain.BookingNotification{
		RecipientID:   otherParty(actor.ID, booking.OwnerID, booking.TenantID),
		RentBookingID: booking.ID,
		Type:          domain.NotifyBookingCancelled,
		Title:         "Booking Cancelled",
		Message:       reason,
		Priority:      domain.PriorityMedium,
		ActionURL:     "/bookings/" + booking.ID,
	})
	return nil
}

func (s *BookingService) cancelPg(ctx context.Context, actor ports.Actor, booking *domain.PgBooking, reason string, refundDeposit bool) error {
	if !CanPerform(actor, ActBookingCancel, Resource{OwnerID: booking.OwnerID, ClientID: booking.TenantID}) {
		return domain.ErrForbidden
	}
	if !booking.Status.CanTransitionTo(domain.BookingCancelled) {
		return fmt.Errorf("%w (booking is %s)", domain.ErrBookingNotActive, booking.Status)
	}

	wasActive := booking.Status == domain.BookingActive

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		booking.Status = domain.BookingCancelled
		booking.CancellationReason = reason
		booking.UpdatedAt = time.Now().UTC()
		if err := s.pgBookings.Update(ctx, booking); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}

		if wasActive {
			if err := s.pg.SetBedOccupied(ctx, booking.BedID, false); err != nil {
				return fmt.Errorf("release bed: %w", err)
			}
		}

		if refundDeposit && booking.IsPaid && booking.SecurityDeposit > 0 {
			_, err := s.wallet.AddMoney(ctx, booking.TenantID, booking.SecurityDeposit,
				"Security deposit refund", "refund_"+booking.ID)
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyBooking(ctx, &domain.BookingNotification{
		RecipientID: otherParty(actor.ID, booking.OwnerID, booking.TenantID),
		PgBookingID: booking.ID,
		Type:        domain.NotifyBookingCancelled,
		Title:       "Booking Cancelled",
		Message:     reason,
		Priority:    domain.PriorityMedium,
		ActionURL:   "/bookings/" + booking.ID,
	})
	return nil
}

// TerminateRent ends an active tenancy early at the owner's initiative and
// releases the property.
func (s *BookingService) TerminateRent(ctx context.Context, actor ports.Actor, bookingID, reason string) (*domain.RentBooking, error) {
	booking, err := s.rentBookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor, ActBookingManage, Resource{OwnerID: booking.OwnerID, ClientID: booking.TenantID}) {
		return nil, domain.ErrForbidden
	}
	if !booking.Status.CanTransitionTo(domain.BookingTerminated) {
		return nil, domain.ErrBookingNotActive
	}

	now := time.Now().UTC()
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		booking.Status = domain.BookingTerminated
		booking.TerminationReason = reason
		booking.TerminationDate = &now
		booking.UpdatedAt = now
		if err := s.rentBookings.Update(ctx, booking); err != nil {
			return fmt.Errorf("update booking: %w", err)
		}
		return s.properties.UpdateStatus(ctx, booking.PropertyID, domain.PropertyForRent)
	})
	if err != nil {
		return nil, err
	}

	s.notifyBooking(ctx, &domain.BookingNotification{
		RecipientID:   booking.TenantID,
		RentBookingID: booking.ID,
		Type:          domain.NotifyBookingTerminated,
		Title:         "Tenancy Terminated",
		Message:       reason,
		Priority:      domain.PriorityUrgent,
		ActionURL:     "/bookings/" + booking.ID,
	})

	s.logger.Info().Str("booking_id", booking.ID).Msg("rent booking terminated")
	return booking, nil
}

// PayMonthlyRent settles a PENDING or OVERDUE obligation, including any
// accrued late fee, and schedules the following month.
func (s *BookingService) PayMonthlyRent(ctx context.Context, actor ports.Actor, paymentID string) (*domain.MonthlyPayment, error) {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	tenantID, ownerID, rent, err := s.paymentParties(ctx, payment)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor, ActPaymentExecute, Resource{OwnerID: ownerID, ClientID: tenantID}) {
		return nil, domain.ErrForbidden
	}
	if !payment.Payable() {
		return nil, domain.ErrPaymentNotPending
	}

	now := time.Now().UTC()
	reference := uuid.NewString()
	total := payment.TotalDue()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.wallet.DeductMoney(ctx, tenantID, total,
			"Monthly rent payment", "payment_"+payment.ID); err != nil {
			return err
		}

		payment.Status = domain.PaymentPaid
		payment.PaidDate = &now
		payment.PaymentReference = reference
		if err := s.payments.Update(ctx, payment); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}

		_, err := s.payments.Create(ctx, &domain.MonthlyPayment{
			RentBookingID: payment.RentBookingID,
			PgBookingID:   payment.PgBookingID,
			DueDate:       domain.NextDueDate(&payment.DueDate, now),
			Amount:        rent,
			Status:        domain.PaymentPending,
			CreatedAt:     now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifyBooking(ctx, &domain.BookingNotification{
		RecipientID:   ownerID,
		RentBookingID: payment.RentBookingID,
		PgBookingID:   payment.PgBookingID,
		Type:          domain.NotifyPaymentReceived,
		Title:         "Rent Payment Received",
		Message:       fmt.Sprintf("Rent payment of %.0f received", total),
		Priority:      domain.PriorityMedium,
		ActionURL:     "/payments",
	})

	s.logger.Info().
		Str("payment_id", payment.ID).
		Float64("amount", total).
		Str("reference", reference).
		Msg("monthly rent paid")

	return payment, nil
}

// ListMine returns the actor's bookings as tenant, both kinds.
func (s *BookingService) ListMine(ctx context.Context, actor ports.Actor) (*ports.BookingsResult, error) {
	rents, err := s.rentBookings.ListByTenant(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	pgs, err := s.pgBookings.ListByTenant(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &ports.BookingsResult{RentBookings: rents, PgBookings: pgs}, nil
}

// ListOwned returns the bookings on the actor's listings; admins see all.
func (s *BookingService) ListOwned(ctx context.Context, actor ports.Actor) (*ports.BookingsResult, error) {
	return s.listOwned(ctx, actor, "")
}

// PendingApprovals narrows the owned view to requests awaiting a decision.
func (s *BookingService) PendingApprovals(ctx context.Context, actor ports.Actor) (*ports.BookingsResult, error) {
	return s.listOwned(ctx, actor, domain.BookingPendingApproval)
}

func (s *BookingService) listOwned(ctx context.Context, actor ports.Actor, status domain.BookingStatus) (*ports.BookingsResult, error) {
	ownerID := actor.ID
	if actor.IsAdmin() {
		ownerID = ""
	}

	rents, err := s.rentBookings.ListByOwner(ctx, ownerID, status)
	if err != nil {
		return nil, err
	}
	pgs, err := s.pgBookings.ListByOwner(ctx, ownerID, status)
	if err != nil {
		return nil, err
	}
	return &ports.BookingsResult{RentBookings: rents, PgBookings: pgs}, nil
}

// MyPayments returns every obligation across the actor's bookings.
func (s *BookingService) MyPayments(ctx context.Context, actor ports.Actor) ([]*domain.MonthlyPayment, error) {
	bookings, err := s.ListMine(ctx, actor)
	if err != nil {
		return nil, err
	}

	rentIDs := make([]string, 0, len(bookings.RentBookings))
	for _, b := range bookings.RentBookings {
		rentIDs = append(rentIDs, b.ID)
	}
	pgIDs := make([]string, 0, len(bookings.PgBookings))
	for _, b := range bookings.PgBookings {
		pgIDs = append(pgIDs, b.ID)
	}
	if len(rentIDs) == 0 && len(pgIDs) == 0 {
		return []*domain.MonthlyPayment{}, nil
	}

	return s.payments.ListForBookings(ctx, rentIDs, pgIDs, "")
}

// requireApprovedDocuments couples booking approval to the inquiry workflow:
// the tenant must hold an AGREED inquiry on the property with verified
// documents.
func (s *BookingService) requireApprovedDocuments(ctx context.Context, propertyID, tenantID string) error {
	inquiry, err := s.inquiries.FindAgreed(ctx, propertyID, tenantID)
	if err != nil {
		if err == domain.ErrInquiryNotFound {
			return domain.ErrDocumentsNotApproved
		}
		return err
	}
	if inquiry.DocumentStatus != domain.DocumentApproved {
		return domain.ErrDocumentsNotApproved
	}
	return nil
}

func (s *BookingService) paymentParties(ctx context.Context, p *domain.MonthlyPayment) (tenantID, ownerID string, rent float64, err error) {
	if p.RentBookingID != "" {
		booking, err := s.rentBookings.FindByID(ctx, p.RentBookingID)
		if err != nil {
			return "", "", 0, err
		}
		return booking.TenantID, booking.OwnerID, booking.MonthlyRent, nil
	}

	booking, err := s.pgBookings.FindByID(ctx, p.PgBookingID)
	if err != nil {
		return "", "", 0, err
	}
	return booking.TenantID, booking.OwnerID, booking.MonthlyRent, nil
}

func (s *BookingService) notifyBooking(ctx context.Context, n *domain.BookingNotification) {
	if _, err := s.notifications.PublishBooking(ctx, n); err != nil {
		s.logger.Warn().Err(err).Str("recipient_id", n.RecipientID).Msg("failed to publish booking notification")
	}
}

func otherParty(actorID, ownerID, tenantID string) string {
	if actorID == ownerID {
		return tenantID
	}
	return ownerID
}

func openBookingEndFor(end *time.Time) time.Time {
	if end == nil {
		return time.Time{}
	}
	return *end
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/homequest/realty-api/internal/core/domain"
	"github.com/homequest/realty-api/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis) used to make payment
// execution safe against client retries.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

// InquiryService drives the negotiation state machine. Every state-changing
// operation appends a chat message, persists a notification for the
// counter-party (outbox), then best-effort pushes live events.
type InquiryService struct {
	inquiries     ports.InquiryRepository
	chat          ports.ChatRepository
	properties    ports.PropertyRepository
	wallet        ports.WalletService
	notifications ports.NotificationService
	pusher        ports.Pusher
	tx            ports.TxRunner
	dedup         DedupChecker
	logger        zerolog.Logger
}

func NewInquiryService(
	inquiries ports.InquiryRepository,
	chat ports.ChatRepository,
	properties ports.PropertyRepository,
	wallet ports.WalletService,
	notifications ports.NotificationService,
	pusher ports.Pusher,
	tx ports.TxRunner,
	dedup DedupChecker,
	logger zerolog.Logger,
) *InquiryService {
	return &InquiryService{
		inquiries:     inquiries,
		chat:          chat,
		properties:    properties,
		wallet:        wallet,
		notifications: notifications,
		pusher:        pusher,
		tx:            tx,
		dedup:         dedup,
		logger:        logger,
	}
}

// Create opens a PENDING inquiry. The partial unique index on
// (client, property) makes a second non-terminal inquiry lose with a
// conflict instead of silently duplicating the thread.
func (s *InquiryService) Create(ctx context.Context, actor ports.Actor, input ports.CreateInquiryInput) (*domain.Inquiry, error) {
	property, err := s.properties.FindByID(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.OwnerID == "" {
		return nil, domain.ErrPropertyNoOwner
	}

	now := time.Now().UTC()
	inquiry, err := s.inquiries.Create(ctx, &domain.Inquiry{
		PropertyID:     input.PropertyID,
		ClientID:       actor.ID,
		OwnerID:        property.OwnerID,
		Status:         domain.InquiryPending,
		OfferedPrice:   input.OfferedPrice,
		DocumentStatus: domain.DocumentNone,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	if input.Message != "" {
		s.appendMessage(ctx, inquiry.ID, actor.ID, domain.MessageText, input.Message, 0)
	}
	if input.OfferedPrice > 0 {
		s.appendMessage(ctx, inquiry.ID, actor.ID, domain.MessagePriceOffer,
			fmt.Sprintf("I would like to offer %.0f for this property.", input.OfferedPrice), input.OfferedPrice)
	}

	s.notify(ctx, property.OwnerID, domain.NotifyInquiryNew, "New Property Inquiry",
		fmt.Sprintf("You have received a new inquiry for %s from %s %s", property.Title, actor.FirstName, actor.LastName),
		"/inquiries/"+inquiry.ID)

	s.pusher.Push(property.OwnerID, ports.Event{Name: ports.EventInquiryNew, Payload: inquiry})

	s.logger.Info().
		Str("inquiry_id", inquiry.ID).
		Str("property_id", input.PropertyID).
		Str("client_id", actor.ID).
		Msg("inquiry created")

	return inquiry, nil
}

// Get returns the inquiry with its message history and marks incoming
// messages as read.
func (s *InquiryService) Get(ctx context.Context, actor ports.Actor, inquiryID string) (*ports.InquiryDetail, error) {
	inquiry, err := s.inquiries.FindByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor, ActInquiryRead, Resource{OwnerID: inquiry.OwnerID, ClientID: inquiry.ClientID}) {
		return nil, domain.ErrForbidden
	}

	messages, err := s.chat.ListByInquiry(ctx, inquiryID)
	if err != nil {
		return nil, err
	}

	if err := s.chat.MarkRead(ctx, inquiryID, actor.ID, time.Now().UTC()); err != nil {
		s.logger.Warn().Err(err).Str("inquiry_id", inquiryID).Msg("mark read failed")
	}

	return &ports.InquiryDetail{Inquiry: inquiry, Messages: messages}, nil
}

func (s *InquiryService) ListMine(ctx context.Context, actor ports.Actor) ([]*domain.Inquiry, error) {
	return s.inquiries.ListByClient(ctx, actor.ID)
}

// ListOwned returns the inquiries on the actor's listings; admins see all.
func (s *InquiryService) ListOwned(ctx context.Context, actor ports.Actor) ([]*domain.Inquiry, error) {
	ownerID := actor.ID
	if actor.IsAdmin() {
		ownerID = ""
	}
	return s.inquiries.ListByOwner(ctx, ownerID)
}

// SendMessage appends a chat message and advances the negotiation state for
// price-bearing types: OFFER/COUNTER -> NEGOTIATING, ACCEPT -> AGREED,
// REJECT -> NEGOTIATING.
func (s *InquiryService) SendMessage(ctx context.Context, actor ports.Actor, input ports.SendMessageInput) (*domain.ChatMessage, error) {
	inquiry, err := s.inquiries.FindByID(ctx, input.InquiryID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor, ActInquiryMessage, Resource{OwnerID: inquiry.OwnerID, ClientID: inquiry.ClientID}) {
		return nil, domain.ErrForbidden
	}
	if inquiry.Status.Terminal() {
		return nil, fmt.Errorf("%w (inquiry is %s)", domain.ErrInvalidTransition, inquiry.Status)
	}

	msgType := domain.MessageType(input.Type)
	if msgType == "" {
		msgType = domain.MessageText
	}

	message, err := s.appendMessage(ctx, inquiry.ID, actor.ID, msgType, input.Content, input.PriceAmount)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	switch msgType {
	case domain.MessagePriceOffer, domain.MessagePriceCounter:
		inquiry.Status = domain.InquiryNegotiating
		inquiry.OfferedPrice = input.PriceAmount
		statusChanged = true
	case domain.MessagePriceAccept:
		if inquiry.Status.CanTransitionTo(domain.InquiryAgreed) {
			inquiry.Status = domain.InquiryAgreed
			if input.PriceAmount > 0 {
				inquiry.AgreedPrice = input.PriceAmount
			} else {
				inquiry.AgreedPrice = inquiry.OfferedPrice
			}
			statusChanged = true
		}
	case domain.MessagePriceReject:
		inquiry.Status = domain.InquiryNegotiating
		statusChanged = true
	}

	if statusChanged {
		inquiry.UpdatedAt = time.Now().UTC()
		if err := s.inquiries.Update(ctx, inquiry); err != nil {
			return nil, fmt.Errorf("update inquiry: %w", err)
		}
		s.pushStatus(inquiry)
	}

	recipientID := inquiry.CounterpartyOf(actor.ID)
	s.notify(ctx, recipientID, domain.NotifyInquiryUpdate,
		fmt.Sprintf("New message from %s", actor.FirstName), truncate(input.Content, 50),
		"/inquiries/"+inquiry.ID)

	s.pushMessage(recipientID, inquiry.ID, message, actor)

	return message, nil
}

// SubmitDocument records a KYC document for verification. Inquiry status is
// untouched; only documentStatus moves to PENDING.
func (s *InquiryService) SubmitDocument(ctx context.Context, actor ports.Actor, inquiryID, documentURL, note string) (*domain.Inquiry, error) {
	inquiry, err := s.inquiries.FindByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor, ActDocumentSubmit, Resource{OwnerID: inquiry.OwnerID, ClientID: inquiry.ClientID}) {
		return nil, domain.ErrForbidden
	}

	inquiry.DocumentURL = documentURL
	inquiry.DocumentStatus = domain.DocumentPending
	inquiry.UpdatedAt = time.Now().UTC()
	if err := s.inquiries.Update(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("update inquiry: %w", err)
	}

	if note == "" {
		note = "Document submitted for verification"
	}
	message, err := s.chat.Append(ctx, &domain.ChatMessage{
		InquiryID:      inquiryID,
		SenderID:       actor.ID,
		Type:           domain.MessageDocument,
		Content:        note,
		AttachmentURL:  documentURL,
		AttachmentType: "PDF",
		SentAt:         time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	s.notify(ctx, inquiry.OwnerID, domain.NotifyInquiryUpdate, "New Document Submitted",
		"A document has been submitted for verification", "/inquiries/"+inquiryID)
	s.pushMessage(inquiry.OwnerID, inquiryID, message, actor)

	return inquiry, nil
}

// VerifyDocument records the owner/admin decision on a submitted document.
func (s *InquiryService) VerifyDocument(ctx context.Context, actor ports.Actor, inquiryID string, approved bool, note string) (*domain.Inquiry, error) {
	inquiry, err := s.inquiries.FindByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor, ActDocumentVerify, Resource{OwnerID: inquiry.OwnerID, ClientID: inquiry.ClientID}) {
		return nil, domain.ErrForbidden
	}

	decision := domain.DocumentRejected
	if approved {
		decision = domain.DocumentApproved
	}
	inquiry.DocumentStatus = decision
	inquiry.UpdatedAt = time.Now().UTC()
	if err := s.inquiries.Update(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("update inquiry: %w", err)
	}

	if note == "" {
		note = fmt.Sprintf("Document %s", decision)
	}
	message, err := s.appendMessage(ctx, inquiryID, actor.ID, domain.MessageDocumentDecision, note, 0)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, inquiry.ClientID, domain.NotifyInquiryUpdate,
		fmt.Sprintf("Document %s", decision), note, "/inquiries/"+inquiryID)
	s.pushMessage(inquiry.ClientID, inquiryID, message, actor)
	s.pushStatus(inquiry)

	return inquiry, nil
}

// ApproveForPayment moves the inquiry to AGREED at the given price, falling
// back to the standing offer when no price is named.
func (s *InquiryService) ApproveForPayment(ctx context.Context, actor ports.Actor, inquiryID string, price float64) (*domain.Inquiry, error) {
	inquiry, err := s.inquiries.FindByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor, ActPaymentApprove, Resource{OwnerID: inquiry.OwnerID, ClientID: inquiry.ClientID}) {
		return nil, domain.ErrForbidden
	}
	if !inquiry.Status.CanTransitionTo(domain.InquiryAgreed) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, inquiry.Status, domain.InquiryAgreed)
	}

	inquiry.Status = domain.InquiryAgreed
	if price > 0 {
		inquiry.AgreedPrice = price
	} else {
		inquiry.AgreedPrice = inquiry.OfferedPrice
	}
	inquiry.UpdatedAt = time.Now().UTC()
	if err := s.inquiries.Update(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("update inquiry: %w", err)
	}

	message, err := s.appendMessage(ctx, inquiryID, actor.ID, domain.MessageSystem,
		fmt.Sprintf("Approved for payment at %.0f. Please proceed to payment.", inquiry.AgreedPrice), 0)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, inquiry.ClientID, domain.NotifyInquiryUpdate, "Ready for Payment",
		"Your inquiry has been approved. You can now proceed to payment.", "/inquiries/"+inquiryID)
	s.pushMessage(inquiry.ClientID, inquiryID, message, actor)
	s.pushStatus(inquiry)

	return inquiry, nil
}

// ProcessPayment settles an AGREED inquiry from the client's wallet. The
// debit, the status change, and the property update run in one transaction;
// insufficient funds leaves every record untouched. A repeated call with the
// same idempotency key replays the current state without a second debit.
func (s *InquiryService) ProcessPayment(ctx context.Context, actor ports.Actor, inquiryID, idempotencyKey string) (*domain.Inquiry, error) {
	inquiry, err := s.inquiries.FindByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor, ActPaymentExecute, Resource{OwnerID: inquiry.OwnerID, ClientID: inquiry.ClientID}) {
		return nil, domain.ErrForbidden
	}

	if idempotencyKey != "" {
		isDup, err := s.dedup.IsDuplicate(ctx, paymentDedupKey(inquiryID, idempotencyKey))
		if err != nil {
			s.logger.Warn().Err(err).Str("inquiry_id", inquiryID).Msg("dedup check failed, processing anyway")
		} else if isDup {
			s.logger.Info().Str("inquiry_id", inquiryID).Msg("idempotent payment replay")
			return inquiry, nil
		}
	}

	if inquiry.Status != domain.InquiryAgreed {
		return nil, domain.ErrNotPaymentReady
	}

	property, err := s.properties.FindByID(ctx, inquiry.PropertyID)
	if err != nil {
		return nil, err
	}

	amount := inquiry.AgreedPrice
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.wallet.DeductMoney(ctx, actor.ID, amount,
			"Payment for property: "+property.Title, "inquiry_"+inquiryID); err != nil {
			return err
		}

		now := time.Now().UTC()
		inquiry.Status = domain.InquiryPurchased
		inquiry.ClosedAt = &now
		inquiry.UpdatedAt = now
		if err := s.inquiries.Update(ctx, inquiry); err != nil {
			return fmt.Errorf("update inquiry: %w", err)
		}

		return s.properties.UpdateStatus(ctx, property.ID, property.SoldStatus())
	})
	if err != nil {
		return nil, err
	}

	if idempotencyKey != "" {
		if err := s.dedup.Mark(ctx, paymentDedupKey(inquiryID, idempotencyKey)); err != nil {
			s.logger.Warn().Err(err).Str("inquiry_id", inquiryID).Msg("failed to set dedup key")
		}
	}

	message, err := s.appendMessage(ctx, inquiryID, actor.ID, domain.MessageSystem,
		fmt.Sprintf("Payment of %.0f successful. Status updated to PURCHASED.", amount), 0)
	if err != nil {
		s.logger.Warn().Err(err).Str("inquiry_id", inquiryID).Msg("failed to append payment message")
	}

	s.notify(ctx, inquiry.OwnerID, domain.NotifyInquiryUpdate, "Property Purchased",
		fmt.Sprintf("Payment received for %s. Amount: %.0f", property.Title, amount),
		"/inquiries/"+inquiryID)

	if message != nil {
		s.pushMessage(inquiry.OwnerID, inquiryID, message, actor)
	}
	s.pushStatus(inquiry)
	s.pusher.Push(inquiry.ClientID, ports.Event{Name: ports.EventPurchaseSuccess, Payload: inquiry})

	s.logger.Info().
		Str("inquiry_id", inquiryID).
		Str("client_id", actor.ID).
		Float64("amount", amount).
		Msg("inquiry payment processed")

	return inquiry, nil
}

// UpdateStatus applies an explicit status change. The target is validated
// against the enum and the transition map; arbitrary strings are refused.
func (s *InquiryService) UpdateStatus(ctx context.Context, actor ports.Actor, inquiryID, status string) (*domain.Inquiry, error) {
	inquiry, err := s.inquiries.FindByID(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor, ActInquiryCancel, Resource{OwnerID: inquiry.OwnerID, ClientID: inquiry.ClientID}) {
		return nil, domain.ErrForbidden
	}

	next, err := domain.ParseInquiryStatus(status)
	if err != nil {
		return nil, err
	}
	if !inquiry.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, inquiry.Status, next)
	}

	inquiry.Status = next
	if next.Terminal() {
		now := time.Now().UTC()
		inquiry.ClosedAt = &now
	}
	inquiry.UpdatedAt = time.Now().UTC()
	if err := s.inquiries.Update(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("update inquiry: %w", err)
	}

	s.appendMessage(ctx, inquiryID, actor.ID, domain.MessageSystem,
		fmt.Sprintf("Inquiry status changed to %s", next), 0)
	s.notify(ctx, inquiry.CounterpartyOf(actor.ID), domain.NotifyInquiryUpdate,
		"Inquiry Updated", fmt.Sprintf("Inquiry status changed to %s", next), "/inquiries/"+inquiryID)
	s.pushStatus(inquiry)

	return inquiry, nil
}

// UnreadCount counts unread chat messages across every inquiry the actor
// participates in.
func (s *InquiryService) UnreadCount(ctx context.Context, actor ports.Actor) (int64, error) {
	mine, err := s.inquiries.ListByClient(ctx, actor.ID)
	if err != nil {
		return 0, err
	}
	owned, err := s.inquiries.ListByOwner(ctx, actor.ID)
	if err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(mine)+len(owned))
	for _, inq := range mine {
		ids = append(ids, inq.ID)
	}
	for _, inq := range owned {
		ids = append(ids, inq.ID)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	return s.chat.CountUnread(ctx, ids, actor.ID)
}

func (s *InquiryService) appendMessage(ctx context.Context, inquiryID, senderID string, t domain.MessageType, content string, price float64) (*domain.ChatMessage, error) {
	message, err := s.chat.Append(ctx, &domain.ChatMessage{
		InquiryID:   inquiryID,
		SenderID:    senderID,
		Type:        t,
		Content:     content,
		PriceAmount: price,
		SentAt:      time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("inquiry_id", inquiryID).Msg("failed to append chat message")
		return nil, fmt.Errorf("append message: %w", err)
	}
	return message, nil
}

func (s *InquiryService) notify(ctx context.Context, recipientID string, t domain.NotificationType, title, body, link string) {
	if _, err := s.notifications.Publish(ctx, &domain.Notification{
		RecipientID: recipientID,
		Type:        t,
		Title:       title,
		Body:        body,
		Link:        link,
	}); err != nil {
		s.logger.Warn().Err(err).Str("recipient_id", recipientID).Msg("failed to publish notification")
	}
}

// chatFrame is the payload of a receive_message push.
type chatFrame struct {
	Type      string              `json:"type"`
	InquiryID string              `json:"inquiry_id"`
	Message   *domain.ChatMessage `json:"message"`
	Sender    senderFrame         `json:"sender"`
}

type senderFrame struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (s *InquiryService) pushMessage(recipientID, inquiryID string, message *domain.ChatMessage, sender ports.Actor) {
	s.pusher.Push(recipientID, ports.Event{
		Name: ports.EventReceiveMessage,
		Payload: chatFrame{
			Type:      "CHAT_MESSAGE",
			InquiryID: inquiryID,
			Message:   message,
			Sender:    senderFrame{ID: sender.ID, FirstName: sender.FirstName, LastName: sender.LastName},
		},
	})
}

// statusFrame is the payload of a status_update push, sent to both parties.
type statusFrame struct {
	Type           string                `json:"type"`
	InquiryID      string                `json:"inquiry_id"`
	Status         domain.InquiryStatus  `json:"status"`
	OfferedPrice   float64               `json:"offered_price,omitempty"`
	AgreedPrice    float64               `json:"agreed_price,omitempty"`
	DocumentStatus domain.DocumentStatus `json:"document_status"`
}

func (s *InquiryService) pushStatus(inquiry *domain.Inquiry) {
	frame := ports.Event{
		Name: ports.EventStatusUpdate,
		Payload: statusFrame{
			Type:           "STATUS_UPDATE",
			InquiryID:      inquiry.ID,
			Status:         inquiry.Status,
			OfferedPrice:   inquiry.OfferedPrice,
			AgreedPrice:    inquiry.AgreedPrice,
			DocumentStatus: inquiry.DocumentStatus,
		},
	}
	s.pusher.Push(inquiry.ClientID, frame)
	s.pusher.Push(inquiry.OwnerID, frame)
}

func paymentDedupKey(inquiryID, idempotencyKey string) string {
	return "payment:" + inquiryID + ":" + idempotencyKey
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

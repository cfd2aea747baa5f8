package ports

import (
	"context"
	"time"

	"github.com/homequest/realty-api/internal/core/domain"
)

// InquiryRepository defines persistence for negotiation threads.
//
// Create must rely on the partial unique index over (client_id, property_id)
// for non-terminal statuses and surface a duplicate insert as
// domain.ErrDuplicateInquiry.
type InquiryRepository interface {
	Create(ctx context.Context, inq *domain.Inquiry) (*domain.Inquiry, error)
	FindByID(ctx context.Context, id string) (*domain.Inquiry, error)
	// FindAgreed looks up the AGREED inquiry coupling a booking approval to
	// its negotiation thread.
	FindAgreed(ctx context.Context, propertyID, clientID string) (*domain.Inquiry, error)
	ListByClient(ctx context.Context, clientID string) ([]*domain.Inquiry, error)
	// ListByOwner returns all inquiries when ownerID is empty (admin view).
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Inquiry, error)
	Update(ctx context.Context, inq *domain.Inquiry) error
}

// ChatRepository defines persistence for inquiry chat messages.
type ChatRepository interface {
	Append(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error)
	ListByInquiry(ctx context.Context, inquiryID string) ([]*domain.ChatMessage, error)
	// MarkRead flags every unread message in the inquiry not sent by readerID.
	MarkRead(ctx context.Context, inquiryID, readerID string, at time.Time) error
	CountUnread(ctx context.Context, inquiryIDs []string, readerID string) (int64, error)
}

// CreateInquiryInput opens a negotiation thread on a property.
type CreateInquiryInput struct {
	PropertyID   string
	Message      string
	OfferedPrice float64
}

// SendMessageInput appends a chat message to an inquiry.
type SendMessageInput struct {
	InquiryID   string
	Type        string
	Content     string
	PriceAmount float64
}

// InquiryDetail is an inquiry together with its full message history.
type InquiryDetail struct {
	Inquiry  *domain.Inquiry
	Messages []*domain.ChatMessage
}

// InquiryService drives the negotiation state machine. Every state-changing
// operation appends a chat message, persists a notification for the
// counter-party, and pushes a live event when that party is connected.
type InquiryService interface {
	Create(ctx context.Context, actor Actor, input CreateInquiryInput) (*domain.Inquiry, error)
	Get(ctx context.Context, actor Actor, inquiryID string) (*InquiryDetail, error)
	ListMine(ctx context.Context, actor Actor) ([]*domain.Inquiry, error)
	ListOwned(ctx context.Context, actor Actor) ([]*domain.Inquiry, error)
	SendMessage(ctx context.Context, actor Actor, input SendMessageInput) (*domain.ChatMessage, error)
	SubmitDocument(ctx context.Context, actor Actor, inquiryID, documentURL, note string) (*domain.Inquiry, error)
	VerifyDocument(ctx context.Context, actor Actor, inquiryID string, approved bool, note string) (*domain.Inquiry, error)
	ApproveForPayment(ctx context.Context, actor Actor, inquiryID string, price float64) (*domain.Inquiry, error)
	ProcessPayment(ctx context.Context, actor Actor, inquiryID, idempotencyKey string) (*domain.Inquiry, error)
	UpdateStatus(ctx context.Context, actor Actor, inquiryID, status string) (*domain.Inquiry, error)
	UnreadCount(ctx context.Context, actor Actor) (int64, error)
}

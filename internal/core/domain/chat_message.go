package domain

import "time"

// MessageType classifies a chat message within an inquiry thread.
type MessageType string

const (
	MessageText             MessageType = "TEXT"
	MessagePriceOffer       MessageType = "PRICE_OFFER"
	MessagePriceCounter     MessageType = "PRICE_COUNTER"
	MessagePriceAccept      MessageType = "PRICE_ACCEPT"
	MessagePriceReject      MessageType = "PRICE_REJECT"
	MessageDocument         MessageType = "DOCUMENT"
	MessageDocumentDecision MessageType = "DOCUMENT_DECISION"
	MessageSystem           MessageType = "SYSTEM"
	MessagePurchaseConfirm  MessageType = "PURCHASE_CONFIRMED"
)

// ChatMessage is an append-only message belonging to an inquiry. Only the
// read-receipt fields (IsRead, ReadAt) are ever mutated after insert.
type ChatMessage struct {
	ID             string      `json:"id" bson:"_id,omitempty"`
	InquiryID      string      `json:"inquiry_id" bson:"inquiry_id"`
	SenderID       string      `json:"sender_id" bson:"sender_id"`
	Type           MessageType `json:"type" bson:"type"`
	Content        string      `json:"content,omitempty" bson:"content,omitempty"`
	PriceAmount    float64     `json:"price_amount,omitempty" bson:"price_amount,omitempty"`
	AttachmentURL  string      `json:"attachment_url,omitempty" bson:"attachment_url,omitempty"`
	AttachmentType string      `json:"attachment_type,omitempty" bson:"attachment_type,omitempty"`
	IsRead         bool        `json:"is_read" bson:"is_read"`
	ReadAt         *time.Time  `json:"read_at,omitempty" bson:"read_at,omitempty"`
	SentAt         time.Time   `json:"sent_at" bson:"sent_at"`
}

// PriceBearing reports whether this message type carries a price that drives
// the negotiation state machine.
func (t MessageType) PriceBearing() bool {
	switch t {
	case MessagePriceOffer, MessagePriceCounter, MessagePriceAccept, MessagePriceReject:
		return true
	}
	return false
}

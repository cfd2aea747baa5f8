package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/homequest/realty-api/internal/core/domain"
	"github.com/homequest/realty-api/internal/core/ports"
)

const dispatchTimeout = 15 * time.Second

// clientFrame is one inbound message from a connected client.
type clientFrame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Client-initiated event names.
const (
	frameSendMessage      = "send_message"
	frameTyping           = "typing"
	frameJoinChat         = "join_chat"
	framePurchaseRequest  = "purchase_request"
	frameConfirmPurchase  = "confirm_purchase"
	frameSendDocument     = "send_document"
	frameDocumentDecision = "document_decision"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated HTTP requests to WebSocket connections and
// routes inbound frames to the inquiry workflow. It is the WS counterpart of
// the inquiry HTTP endpoints; both go through the same service.
type Handler struct {
	hub       *Hub
	inquiries ports.InquiryService
	jwtSecret string
	logger    zerolog.Logger
}

func NewHandler(hub *Hub, inquiries ports.InquiryService, jwtSecret string, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, inquiries: inquiries, jwtSecret: jwtSecret, logger: logger}
}

// Serve handles GET /ws?token=<jwt>. The token goes in the query string
// because browser WebSocket clients cannot set headers.
func (h *Handler) Serve(c echo.Context) error {
	actor, err := h.authenticate(c.QueryParam("token"))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := newClient(h.hub, conn, actor)
	h.hub.register(client)

	go client.writePump()
	go client.readPump(h.dispatch)
	return nil
}

func (h *Handler) authenticate(token string) (ports.Actor, error) {
	if token == "" {
		return ports.Actor{}, fmt.Errorf("missing token")
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return ports.Actor{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ports.Actor{}, fmt.Errorf("unexpected claims type")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return ports.Actor{}, fmt.Errorf("missing sub claim")
	}
	role, _ := claims["role"].(string)
	firstName, _ := claims["first_name"].(string)
	lastName, _ := claims["last_name"].(string)

	return ports.Actor{ID: sub, Role: role, FirstName: firstName, LastName: lastName}, nil
}

func (h *Handler) dispatch(client *Client, frame *clientFrame) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	var err error
	switch frame.Event {
	case frameJoinChat:
		err = h.handleJoinChat(ctx, client, frame.Payload)
	case frameTyping:
		h.handleTyping(client, frame.Payload)
	case frameSendMessage:
		err = h.handleSendMessage(ctx, client, frame.Payload)
	case framePurchaseRequest:
		err = h.handlePurchaseRequest(ctx, client, frame.Payload)
	case frameConfirmPurchase:
		err = h.handleConfirmPurchase(ctx, client, frame.Payload)
	case frameSendDocument:
		err = h.handleSendDocument(ctx, client, frame.Payload)
	case frameDocumentDecision:
		err = h.handleDocumentDecision(ctx, client, frame.Payload)
	default:
		err = fmt.Errorf("unknown event %q", frame.Event)
	}

	if err != nil {
		h.logger.Debug().Err(err).
			Str("user_id", client.userID).
			Str("event", frame.Event).
			Msg("ws frame rejected")
		client.enqueue(ports.Event{
			Name:    ports.EventErrorMessage,
			Payload: map[string]string{"event": frame.Event, "error": err.Error()},
		})
	}
}

func (h *Handler) handleJoinChat(ctx context.Context, client *Client, payload json.RawMessage) error {
	var p struct {
		InquiryID string `json:"inquiry_id"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}

	// authorizes membership before joining the room
	if _, err := h.inquiries.Get(ctx, client.actor, p.InquiryID); err != nil {
		return err
	}

	h.hub.joinRoom(p.InquiryID, client)
	return nil
}

func (h *Handler) handleTyping(client *Client, payload json.RawMessage) {
	var p struct {
		InquiryID string `json:"inquiry_id"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return
	}

	h.hub.Broadcast(p.InquiryID, client, ports.Event{
		Name: frameTyping,
		Payload: map[string]string{
			"inquiry_id": p.InquiryID,
			"user_id":    client.userID,
		},
	})
}

func (h *Handler) handleSendMessage(ctx context.Context, client *Client, payload json.RawMessage) error {
	var p struct {
		InquiryID   string  `json:"inquiry_id"`
		Type        string  `json:"type"`
		Content     string  `json:"content"`
		PriceAmount float64 `json:"price_amount"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}

	_, err := h.inquiries.SendMessage(ctx, client.actor, ports.SendMessageInput{
		InquiryID:   p.InquiryID,
		Type:        p.Type,
		Content:     p.Content,
		PriceAmount: p.PriceAmount,
	})
	return err
}

// handlePurchaseRequest is the buyer accepting the standing price over the
// live channel.
func (h *Handler) handlePurchaseRequest(ctx context.Context, client *Client, payload json.RawMessage) error {
	var p struct {
		InquiryID string  `json:"inquiry_id"`
		Price     float64 `json:"price"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}

	_, err := h.inquiries.SendMessage(ctx, client.actor, ports.SendMessageInput{
		InquiryID:   p.InquiryID,
		Type:        string(domain.MessagePriceAccept),
		Content:     "Purchase requested at the agreed price",
		PriceAmount: p.Price,
	})
	return err
}

// handleConfirmPurchase is the owner approving the inquiry for payment.
func (h *Handler) handleConfirmPurchase(ctx context.Context, client *Client, payload json.RawMessage) error {
	var p struct {
		InquiryID string  `json:"inquiry_id"`
		Price     float64 `json:"price"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}

	_, err := h.inquiries.ApproveForPayment(ctx, client.actor, p.InquiryID, p.Price)
	return err
}

func (h *Handler) handleSendDocument(ctx context.Context, client *Client, payload json.RawMessage) error {
	var p struct {
		InquiryID   string `json:"inquiry_id"`
		DocumentURL string `json:"document_url"`
		Note        string `json:"note"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}

	_, err := h.inquiries.SubmitDocument(ctx, client.actor, p.InquiryID, p.DocumentURL, p.Note)
	return err
}

func (h *Handler) handleDocumentDecision(ctx context.Context, client *Client, payload json.RawMessage) error {
	var p struct {
		InquiryID string `json:"inquiry_id"`
		Approved  bool   `json:"approved"`
		Note      string `json:"note"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}

	_, err := h.inquiries.VerifyDocument(ctx, client.actor, p.InquiryID, p.Approved, p.Note)
	return err
}

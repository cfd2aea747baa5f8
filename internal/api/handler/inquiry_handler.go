package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homequest/realty-api/internal/api/metrics"
	"github.com/homequest/realty-api/internal/core/domain"
	"github.com/homequest/realty-api/internal/core/ports"
	"github.com/homequest/realty-api/internal/infrastructure/storage"
)

// InquiryHandler exposes the negotiation workflow over HTTP. The same
// operations are reachable over WebSocket frames; both paths converge on
// ports.InquiryService.
type InquiryHandler struct {
	service ports.InquiryService
	docs    storage.DocumentStorage
}

func NewInquiryHandler(service ports.InquiryService, docs storage.DocumentStorage) *InquiryHandler {
	return &InquiryHandler{service: service, docs: docs}
}

type createInquiryRequest struct {
	PropertyID   string  `json:"property_id" validate:"required"`
	Message      string  `json:"message"`
	OfferedPrice float64 `json:"offered_price" validate:"omitempty,gt=0"`
}

// Create handles POST /v1/inquiries.
//
// @Summary      Open an inquiry on a property
// @Tags         inquiries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createInquiryRequest  true  "Inquiry details"
// @Success      201   {object}  domain.Inquiry
// @Failure      409   {object}  map[string]string
// @Router       /v1/inquiries [post]
func (h *InquiryHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createInquiryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	inquiry, err := h.service.Create(c.Request().Context(), actor, ports.CreateInquiryInput{
		PropertyID:   req.PropertyID,
		Message:      req.Message,
		OfferedPrice: req.OfferedPrice,
	})
	if err != nil {
		return err
	}

	metrics.InquiriesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, inquiry)
}

// ListMine handles GET /v1/inquiries/my.
func (h *InquiryHandler) ListMine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	inquiries, err := h.service.ListMine(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inquiries)
}

// ListOwned handles GET /v1/inquiries/owned.
func (h *InquiryHandler) ListOwned(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	inquiries, err := h.service.ListOwned(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inquiries)
}

type inquiryDetailResponse struct {
	Inquiry  *domain.Inquiry       `json:"inquiry"`
	Messages []*domain.ChatMessage `json:"messages"`
}

// Get handles GET /v1/inquiries/:id, returning the thread with its message
// history and marking incoming messages read.
func (h *InquiryHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inquiryDetailResponse{Inquiry: detail.Inquiry, Messages: detail.Messages})
}

type sendMessageRequest struct {
	Type        string  `json:"type" validate:"omitempty,oneof=TEXT PRICE_OFFER PRICE_COUNTER PRICE_ACCEPT PRICE_REJECT"`
	Content     string  `json:"content"`
	PriceAmount float64 `json:"price_amount" validate:"omitempty,gt=0"`
}

// SendMessage handles POST /v1/inquiries/:id/messages. Price-bearing types
// advance the negotiation state.
func (h *InquiryHandler) SendMessage(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	message, err := h.service.SendMessage(c.Request().Context(), actor, ports.SendMessageInput{
		InquiryID:   c.Param("id"),
		Type:        req.Type,
		Content:     req.Content,
		PriceAmount: req.PriceAmount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, message)
}

type uploadURLRequest struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
}

type uploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
}

// DocumentUploadURL handles POST /v1/inquiries/:id/documents/upload-url. The
// client PUTs the file straight to object storage and then submits the key.
func (h *InquiryHandler) DocumentUploadURL(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req uploadURLRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	url, key, err := h.docs.PresignUpload(c.Request().Context(), actor.ID, c.Param("id"), req.Filename, req.ContentType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, uploadURLResponse{UploadURL: url, Key: key})
}

type submitDocumentRequest struct {
	DocumentURL string `json:"document_url" validate:"required"`
	Note        string `json:"note"`
}

// SubmitDocument handles POST /v1/inquiries/:id/documents.
func (h *InquiryHandler) SubmitDocument(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req submitDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	inquiry, err := h.service.SubmitDocument(c.Request().Context(), actor, c.Param("id"), req.DocumentURL, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inquiry)
}

type verifyDocumentRequest struct {
	Approved *bool  `json:"approved" validate:"required"`
	Note     string `json:"note"`
}

// VerifyDocument handles PUT /v1/inquiries/:id/documents/decision.
func (h *InquiryHandler) VerifyDocument(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req verifyDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	inquiry, err := h.service.VerifyDocument(c.Request().Context(), actor, c.Param("id"), *req.Approved, req.Note)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inquiry)
}

type approvePaymentRequest struct {
	Price float64 `json:"price" validate:"omitempty,gt=0"`
}

// ApproveForPayment handles POST /v1/inquiries/:id/approve-payment.
func (h *InquiryHandler) ApproveForPayment(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req approvePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	inquiry, err := h.service.ApproveForPayment(c.Request().Context(), actor, c.Param("id"), req.Price)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inquiry)
}

// ProcessPayment handles POST /v1/inquiries/:id/payment. The Idempotency-Key
// header makes retries safe.
//
// @Summary      Pay for an agreed inquiry from the wallet
// @Tags         inquiries
// @Produce      json
// @Security     BearerAuth
// @Param        id               path    string  true   "Inquiry ID"
// @Param        Idempotency-Key  header  string  false  "Client retry token"
// @Success      200  {object}  domain.Inquiry
// @Failure      422  {object}  map[string]string
// @Router       /v1/inquiries/{id}/payment [post]
func (h *InquiryHandler) ProcessPayment(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	idempotencyKey := c.Request().Header.Get("Idempotency-Key")
	inquiry, err := h.service.ProcessPayment(c.Request().Context(), actor, c.Param("id"), idempotencyKey)
	if err != nil {
		switch err {
		case domain.ErrInsufficientFunds:
			metrics.InquiryPaymentsTotal.WithLabelValues("insufficient_funds").Inc()
		default:
			metrics.InquiryPaymentsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.InquiryPaymentsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, inquiry)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus handles PUT /v1/inquiries/:id/status. The target status is
// validated against the enum and the transition map.
func (h *InquiryHandler) UpdateStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	inquiry, err := h.service.UpdateStatus(c.Request().Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inquiry)
}

// UnreadCount handles GET /v1/inquiries/unread-count.
func (h *InquiryHandler) UnreadCount(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	count, err := h.service.UnreadCount(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"unread_count": count})
}

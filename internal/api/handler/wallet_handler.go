package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homequest/realty-api/internal/api/metrics"
	"github.com/homequest/realty-api/internal/core/ports"
)

type WalletHandler struct {
	service ports.WalletService
}

func NewWalletHandler(service ports.WalletService) *WalletHandler {
	return &WalletHandler{service: service}
}

// Get handles GET /v1/wallet, creating an empty wallet on first access.
func (h *WalletHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	wallet, err := h.service.GetOrCreate(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wallet)
}

type addMoneyRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description"`
	ReferenceID string  `json:"reference_id"`
}

// AddMoney handles POST /v1/wallet/add.
//
// @Summary      Credit the wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addMoneyRequest  true  "Credit details"
// @Success      200   {object}  domain.Wallet
// @Failure      400   {object}  map[string]string
// @Router       /v1/wallet/add [post]
func (h *WalletHandler) AddMoney(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req addMoneyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	description := req.Description
	if description == "" {
		description = "Wallet top-up"
	}

	wallet, err := h.service.AddMoney(c.Request().Context(), actor.ID, req.Amount, description, req.ReferenceID)
	if err != nil {
		metrics.WalletOperationsTotal.WithLabelValues("CREDIT", "error").Inc()
		return err
	}

	metrics.WalletOperationsTotal.WithLabelValues("CREDIT", "success").Inc()
	return c.JSON(http.StatusOK, wallet)
}

// Transactions handles GET /v1/wallet/transactions, newest first.
func (h *WalletHandler) Transactions(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	transactions, err := h.service.Transactions(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transactions)
}

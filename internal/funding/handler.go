package funding

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes deposit and withdrawal endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a funding handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type fundingRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type fundingResponse struct {
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// Deposit credits the authenticated caller's wallet.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	return h.run(c, h.service.Deposit)
}

// Withdraw debits the authenticated caller's wallet.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	return h.run(c, h.service.Withdraw)
}

func (h *Handler) run(c *fiber.Ctx, op func(context.Context, string, decimal.Decimal) (Result, error)) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	var req fundingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := op(c.UserContext(), userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrNoWallet):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.Status(http.StatusOK).JSON(fundingResponse{Balance: res.Balance, Currency: res.Currency})
}

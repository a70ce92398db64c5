package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes wallet read endpoints.
type Handler struct {
	store Store
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

type walletResponse struct {
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// List returns all wallet rows owned by the authenticated caller.
func (h *Handler) List(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	wallets, err := h.store.ListByUser(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]walletResponse, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, walletResponse{Currency: w.Currency, Balance: w.Balance, UpdatedAt: w.UpdatedAt})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"wallets": out})
}

// Balance returns the caller's balance for one currency.
func (h *Handler) Balance(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	currency := c.Params("currency")
	w, err := h.store.Get(c.UserContext(), userID, currency)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(walletResponse{Currency: w.Currency, Balance: w.Balance, UpdatedAt: w.UpdatedAt})
}

package transfer

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes transfer endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a transfer handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transferRequest struct {
	RecipientEmail string          `json:"recipient_email"`
	Amount         decimal.Decimal `json:"amount"`
}

type transferResponse struct {
	Success          bool            `json:"success"`
	NewSenderBalance decimal.Decimal `json:"new_sender_balance"`
	RecipientEmail   string          `json:"recipient_email"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
}

type recordResponse struct {
	ID             string          `json:"id"`
	SenderEmail    string          `json:"sender_email"`
	RecipientEmail string          `json:"recipient_email"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

func callerFromCtx(c *fiber.Ctx) Caller {
	id, _ := c.Locals("user_id").(string)
	email, _ := c.Locals("user_email").(string)
	return Caller{ID: id, Email: email}
}

// Create executes a peer-to-peer transfer on behalf of the authenticated caller.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid_input", err.Error())
	}

	res, err := h.service.Transfer(c.UserContext(), callerFromCtx(c), Input{
		RecipientEmail: req.RecipientEmail,
		Amount:         req.Amount,
	})
	if err != nil {
		var insufficient *InsufficientBalanceError
		switch {
		case errors.Is(err, ErrUnauthorized):
			return errorResponse(c, http.StatusUnauthorized, "unauthorized", err.Error())
		case errors.Is(err, ErrInvalidInput):
			return errorResponse(c, http.StatusBadRequest, "invalid_input", err.Error())
		case errors.Is(err, ErrRecipientNotFound):
			return errorResponse(c, http.StatusNotFound, "recipient_not_found", err.Error())
		case errors.Is(err, ErrSelfTransfer):
			return errorResponse(c, http.StatusBadRequest, "self_transfer_not_allowed", err.Error())
		case errors.Is(err, ErrSenderWalletNotFound):
			return errorResponse(c, http.StatusNotFound, "sender_wallet_not_found", err.Error())
		case errors.As(err, &insufficient):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error":           "insufficient_balance",
				"message":         insufficient.Error(),
				"current_balance": insufficient.Balance,
			})
		default:
			return errorResponse(c, http.StatusInternalServerError, "transfer_failed", "transfer failed")
		}
	}

	return c.Status(http.StatusOK).JSON(transferResponse{
		Success:          true,
		NewSenderBalance: res.NewSenderBalance,
		RecipientEmail:   res.RecipientEmail,
		Amount:           res.Amount,
		Currency:         res.Currency,
	})
}

// History returns the caller's transfer records.
func (h *Handler) History(c *fiber.Ctx) error {
	records, err := h.service.History(c.UserContext(), callerFromCtx(c))
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return errorResponse(c, http.StatusUnauthorized, "unauthorized", err.Error())
		}
		return errorResponse(c, http.StatusInternalServerError, "history_unavailable", err.Error())
	}
	out := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, recordResponse{
			ID:             rec.ID,
			SenderEmail:    rec.SenderEmail,
			RecipientEmail: rec.RecipientEmail,
			Amount:         rec.Amount,
			Currency:       rec.Currency,
			Status:         rec.Status,
			CreatedAt:      rec.CreatedAt,
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"transfers": out})
}

func errorResponse(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

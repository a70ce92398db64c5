package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coinbridge/coinbridge/internal/funding"
)

// RegisterFundingRoutes wires deposit and withdrawal endpoints behind the
// idempotency middleware.
func RegisterFundingRoutes(r fiber.Router, h *funding.Handler, idem fiber.Handler) {
	r.Post("/deposits", idem, h.Deposit)
	r.Post("/withdrawals", idem, h.Withdraw)
}

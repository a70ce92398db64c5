package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coinbridge/coinbridge/internal/wallet"
)

// RegisterWalletRoutes wires wallet read endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Get("/wallets", h.List)
	r.Get("/wallets/:currency/balance", h.Balance)
}

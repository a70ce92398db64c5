package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coinbridge/coinbridge/internal/transfer"
)

// RegisterTransferRoutes wires the peer-to-peer transfer endpoints. No
// idempotency layer here: a replayed transfer request is a second transfer.
func RegisterTransferRoutes(r fiber.Router, h *transfer.Handler) {
	r.Post("/transfers", h.Create)
	r.Get("/transfers", h.History)
}

package routes

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/coinbridge/coinbridge/internal/identity"
	"github.com/coinbridge/coinbridge/internal/wallet"
)

// RegisterIdentityRoutes wires registration and auto-provisions a zero-balance
// wallet in the fixed currency for each new user.
func RegisterIdentityRoutes(r fiber.Router, ids *identity.Service, wallets wallet.Store, d *Deps) {
	r.Post("/identity/register", func(c *fiber.Ctx) error {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		user, err := ids.Register(c.UserContext(), identity.Credentials{Email: req.Email, Password: req.Password})
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if err := wallets.Create(c.UserContext(), user.ID, d.Cfg.Currency, decimal.Zero); err != nil {
			d.Logger.Warn("auto-provision wallet", slog.String("user_id", user.ID), slog.Any("error", err))
		}
		d.Logger.Info("identity.register completed",
			slog.String("user_id", user.ID),
			slog.String("email", user.Email),
			slog.Int("status", http.StatusCreated),
		)
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"user_id": user.ID,
			"email":   user.Email,
		})
	})
}

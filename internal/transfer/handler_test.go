package transfer

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coinbridge/coinbridge/internal/identity"
	"github.com/coinbridge/coinbridge/internal/ledger"
	"github.com/coinbridge/coinbridge/internal/logging"
	"github.com/coinbridge/coinbridge/internal/wallet"
)

func newTestApp(t *testing.T) (*fiber.App, *fixture) {
	t.Helper()
	f := &fixture{
		users:   identity.NewMemoryRepository(),
		wallets: wallet.NewMemoryStore(),
		ledger:  ledger.NewInMemory(),
		journal: NewMemoryJournal(),
	}
	f.svc = NewService(f.users, f.wallets, f.ledger, f.journal, nil, logging.Discard(), testCurrency)

	f.sender = identity.User{ID: uuid.NewString(), Email: "sender@example.com", CreatedAt: time.Now().UTC()}
	f.recipient = identity.User{ID: uuid.NewString(), Email: "recipient@example.com", CreatedAt: time.Now().UTC()}
	for _, u := range []identity.User{f.sender, f.recipient} {
		if err := f.users.Create(context.Background(), u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	app := fiber.New()
	app.Use(cors.New(cors.Config{AllowOrigins: "*"}))
	// Stand-in for the JWT middleware: inject the authenticated caller.
	app.Use(func(c *fiber.Ctx) error {
		if token := c.Get("X-Test-User"); token != "" {
			c.Locals("user_id", f.sender.ID)
			c.Locals("user_email", f.sender.Email)
		}
		return c.Next()
	})
	h := NewHandler(f.svc)
	app.Post("/transfers", h.Create)
	app.Get("/transfers", h.History)
	return app, f
}

func postTransfer(t *testing.T, app *fiber.App, authed bool, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/transfers", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if authed {
		req.Header.Set("X-Test-User", "1")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

func TestHandlerTransferSuccess(t *testing.T) {
	app, f := newTestApp(t)
	f.seedSender(t, "100.00")

	status, body := postTransfer(t, app, true, `{"recipient_email":"recipient@example.com","amount":"40.00"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body)
	}
	if body["currency"] != testCurrency {
		t.Fatalf("expected currency %s, got %v", testCurrency, body["currency"])
	}
	if got := body["new_sender_balance"]; got != "60" && got != "60.00" {
		t.Fatalf("expected new balance 60, got %v", got)
	}
}

func TestHandlerUnauthorized(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := postTransfer(t, app, false, `{"recipient_email":"recipient@example.com","amount":"1"}`)
	if status != fiber.StatusUnauthorized || body["error"] != "unauthorized" {
		t.Fatalf("expected 401 unauthorized, got %d %v", status, body)
	}
}

func TestHandlerInsufficientBalanceCarriesCurrent(t *testing.T) {
	app, f := newTestApp(t)
	f.seedSender(t, "10.00")

	status, body := postTransfer(t, app, true, `{"recipient_email":"recipient@example.com","amount":"15.00"}`)
	if status != fiber.StatusBadRequest || body["error"] != "insufficient_balance" {
		t.Fatalf("expected 400 insufficient_balance, got %d %v", status, body)
	}
	if got := body["current_balance"]; got != "10" && got != "10.00" {
		t.Fatalf("expected current_balance 10, got %v", got)
	}
}

func TestHandlerErrorCodes(t *testing.T) {
	app, f := newTestApp(t)
	f.seedSender(t, "100")

	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"invalid amount", `{"recipient_email":"recipient@example.com","amount":"-5"}`, fiber.StatusBadRequest, "invalid_input"},
		{"missing recipient", `{"amount":"5"}`, fiber.StatusBadRequest, "invalid_input"},
		{"unknown recipient", `{"recipient_email":"ghost@example.com","amount":"5"}`, fiber.StatusNotFound, "recipient_not_found"},
		{"self transfer", `{"recipient_email":"sender@example.com","amount":"5"}`, fiber.StatusBadRequest, "self_transfer_not_allowed"},
	}
	for _, tc := range cases {
		status, body := postTransfer(t, app, true, tc.body)
		if status != tc.status || body["error"] != tc.code {
			t.Fatalf("%s: expected %d %s, got %d %v", tc.name, tc.status, tc.code, status, body)
		}
	}
}

func TestHandlerReplayPerformsTwoTransfers(t *testing.T) {
	app, f := newTestApp(t)
	f.seedSender(t, "100")

	body := `{"recipient_email":"recipient@example.com","amount":"10"}`
	for i := 0; i < 2; i++ {
		if status, resp := postTransfer(t, app, true, body); status != fiber.StatusOK {
			t.Fatalf("replay %d: expected 200, got %d %v", i+1, status, resp)
		}
	}
	if !f.balance(t, f.sender.ID).Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected sender at 80 after replay, got %s", f.balance(t, f.sender.ID))
	}
}

func TestHandlerPreflightAndCORSHeaders(t *testing.T) {
	app, _ := newTestApp(t)

	// Pre-flight probe is answered independent of transfer logic.
	req := httptest.NewRequest(fiber.MethodOptions, "/transfers", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://app.example.com")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, fiber.MethodPost)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", resp.StatusCode)
	}
	if resp.Header.Get(fiber.HeaderAccessControlAllowOrigin) != "*" {
		t.Fatalf("preflight missing permissive CORS header")
	}

	// Error responses carry the header too.
	req = httptest.NewRequest(fiber.MethodPost, "/transfers", strings.NewReader(`{}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderOrigin, "https://app.example.com")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.Header.Get(fiber.HeaderAccessControlAllowOrigin) != "*" {
		t.Fatalf("error response missing permissive CORS header")
	}
}

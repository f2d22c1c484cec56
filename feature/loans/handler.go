package loans

import (
	"errors"

	"loan-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RenewRequest is the body of a single renewal.
type RenewRequest struct {
	LoanID string `json:"loan_id"`
}

// Handler handles HTTP requests for loans.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the loan routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/loans")
	group.Get("/", h.HandleListAccounts)
	group.Post("/refresh", h.HandleRefresh)
	group.Post("/renew", h.HandleRenewLoan)
	group.Post("/renew-all", h.HandleRenewAll)
	group.Get("/:account", h.HandleGetAccount)
	group.Get("/:account/sensors", h.HandleGetSensors)
	group.Get("/:account/:loan", h.HandleGetLoan)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrLoanNotFound), errors.Is(err, ErrSensorNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusBadGateway
	}
}

// HandleListAccounts lists every account with its loans.
// @Summary List Accounts
// @Description List every configured account with its current loans.
// @Tags loans
// @Produce json
// @Success 200 {array} loans.AccountView "Accounts"
// @Router /loans [get]
func (h *Handler) HandleListAccounts(c *fiber.Ctx) error {
	return c.JSON(h.service.ListAccounts())
}

// HandleGetAccount returns one account.
// @Summary Get Account
// @Description Get the loans of a single account.
// @Tags loans
// @Produce json
// @Param account path string true "Account ID"
// @Success 200 {object} loans.AccountView "Account"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /loans/{account} [get]
func (h *Handler) HandleGetAccount(c *fiber.Ctx) error {
	view, err := h.service.GetAccount(c.Params("account"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(view)
}

// HandleGetSensors renders the sensors of an account.
// @Summary Get Sensors
// @Description Render the aggregate and per-loan sensors of an account.
// @Tags loans
// @Produce json
// @Param account path string true "Account ID"
// @Success 200 {array} sensor.State "Sensors"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /loans/{account}/sensors [get]
func (h *Handler) HandleGetSensors(c *fiber.Ctx) error {
	states, err := h.service.Sensors(c.Params("account"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(states)
}

// HandleGetLoan renders the sensor of one loan.
// @Summary Get Loan
// @Description Render the sensor of a single tracked loan.
// @Tags loans
// @Produce json
// @Param account path string true "Account ID"
// @Param loan path string true "Loan ID"
// @Success 200 {object} sensor.State "Sensor"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /loans/{account}/{loan} [get]
func (h *Handler) HandleGetLoan(c *fiber.Ctx) error {
	state, err := h.service.LoanSensor(c.Params("account"), c.Params("loan"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(state)
}

// HandleRefresh refreshes every account.
// @Summary Refresh
// @Description Refresh the loans of every account.
// @Tags loans
// @Produce json
// @Success 200 {object} map[string]string "Refreshed"
// @Failure 502 {object} map[string]string "Refresh Failed"
// @Router /loans/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.Refresh(c.Context()); err != nil {
		l.Error("Refresh failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleRenewLoan renews a single loan.
// @Summary Renew Loan
// @Description Renew a loan on every account that lists it.
// @Tags loans
// @Accept json
// @Produce json
// @Param request body loans.RenewRequest true "Loan to renew"
// @Success 200 {object} map[string]interface{} "Renewal results per account"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 502 {object} map[string]string "Renewal Failed"
// @Router /loans/renew [post]
func (h *Handler) HandleRenewLoan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req RenewRequest
	if err := c.BodyParser(&req); err != nil || req.LoanID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "loan_id is required"})
	}

	results, err := h.service.RenewLoan(c.Context(), req.LoanID)
	if err != nil {
		l.Error("Renewal failed", zap.String("loan_id", req.LoanID), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(results)
}

// HandleRenewAll renews every renewable loan.
// @Summary Renew All
// @Description Renew every renewable loan on every account.
// @Tags loans
// @Produce json
// @Success 200 {object} loans.RenewAllResult "Renewals"
// @Router /loans/renew-all [post]
func (h *Handler) HandleRenewAll(c *fiber.Ctx) error {
	return c.JSON(h.service.RenewAll(c.Context()))
}

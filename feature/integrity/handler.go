package integrity

import (
	"loan-sync/core/logger"
	"loan-sync/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Referenced by the swagger annotations.
	var _ = checks.RegistryReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/registry", h.HandleRegistryCheck)
	group.Get("/archive", h.HandleArchiveCheck)
	group.Get("/accounts", h.HandleAccountsCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Registry, Archive, Accounts).
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if regReport, err := h.service.CheckRegistry(); err != nil {
		report["registry"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["registry"] = regReport
	}

	if h.service.ArchiveEnabled() {
		if archReport, err := h.service.CheckArchive(ctx); err != nil {
			report["archive"] = map[string]interface{}{"status": "error", "error": err.Error()}
		} else {
			report["archive"] = archReport
		}
	} else {
		report["archive"] = map[string]interface{}{"status": "disabled"}
	}

	report["accounts"] = h.service.CheckAccounts()

	return c.JSON(report)
}

// HandleRegistryCheck checks the registry schema.
// @Summary Check Registry Schema
// @Description Checks that the entity registry table has every expected column.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.RegistryReport "Registry Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/registry [get]
func (h *Handler) HandleRegistryCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckRegistry()
	if err != nil {
		l.Error("Registry schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(report)
}

// HandleArchiveCheck checks and optionally fixes the archive.
// @Summary Check Archive
// @Description Compares archived exports with the running accounts. Optionally removes orphaned exports.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Remove orphaned exports"
// @Success 200 {object} checks.ArchiveReport "Archive Report"
// @Failure 404 {object} map[string]string "Archive Disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/archive [get]
func (h *Handler) HandleArchiveCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	if !h.service.ArchiveEnabled() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "archive is not enabled"})
	}
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckArchive(c.Context())
	if err != nil {
		l.Error("Archive check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(report.Orphaned) > 0 {
		l.Warn("Orphaned exports detected", zap.Strings("orphaned", report.Orphaned))

		if fix {
			if err := h.service.FixArchive(c.Context(), report.Orphaned); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":    "Failed to remove orphaned exports",
					"details":  err.Error(),
					"orphaned": report.Orphaned,
				})
			}
			return c.JSON(fiber.Map{
				"status":  "fixed",
				"removed": report.Orphaned,
				"missing": report.Missing,
			})
		}
	}

	return c.JSON(report)
}

// HandleAccountsCheck reports account refresh health.
// @Summary Check Accounts
// @Description Reports whether each account refreshed successfully and tracks every listed loan.
// @Tags integrity
// @Produce json
// @Success 200 {array} checks.AccountReport "Account Reports"
// @Router /integrity/accounts [get]
func (h *Handler) HandleAccountsCheck(c *fiber.Ctx) error {
	reports := h.service.CheckAccounts()
	unhealthy := 0
	for _, r := range reports {
		if !r.Healthy {
			unhealthy++
		}
	}
	if unhealthy > 0 {
		logger.WithRayID(h.service.logger, c).Warn("Unhealthy accounts", zap.Int("count", unhealthy))
	}
	return c.JSON(reports)
}

package handlers

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/protect-ed/backend/internal/storage/models"
	"github.com/protect-ed/backend/pkg/logger"
)

type AssessmentLister interface {
	ListAssessments(ctx context.Context) ([]*models.Assessment, error)
}

type AdminHandler struct {
	store AssessmentLister
}

func NewAdminHandler(store AssessmentLister) *AdminHandler {
	return &AdminHandler{store: store}
}

// HandleData returns all persisted assessments, newest first, with the
// serialized report re-inflated so the console gets structured JSON.
func (h *AdminHandler) HandleData(c *fiber.Ctx) error {
	assessments, err := h.store.ListAssessments(c.Context())
	if err != nil {
		logger.Error("Failed to list assessments", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load assessments",
		})
	}

	rows := make([]fiber.Map, 0, len(assessments))
	for _, a := range assessments {
		var report json.RawMessage
		if json.Valid([]byte(a.FullReport)) {
			report = json.RawMessage(a.FullReport)
		} else {
			report, _ = json.Marshal(a.FullReport)
		}

		rows = append(rows, fiber.Map{
			"id":            a.ID,
			"timestamp":     a.Timestamp,
			"risk_level":    a.RiskLevel,
			"main_category": a.MainCategory,
			"confidence":    a.Confidence,
			"full_report":   report,
		})
	}

	return c.JSON(rows)
}

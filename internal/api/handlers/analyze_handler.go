package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/protect-ed/backend/internal/metrics"
	"github.com/protect-ed/backend/internal/risk"
	"github.com/protect-ed/backend/internal/storage/models"
	"github.com/protect-ed/backend/pkg/logger"
)

// AssessmentStore is the persistence collaborator. Inserts are best-effort:
// a failure is logged and counted, never surfaced to the caller.
type AssessmentStore interface {
	InsertAssessment(ctx context.Context, a *models.Assessment) error
}

type AnalyzeHandler struct {
	aggregator *risk.Aggregator
	store      AssessmentStore
}

func NewAnalyzeHandler(aggregator *risk.Aggregator, store AssessmentStore) *AnalyzeHandler {
	return &AnalyzeHandler{
		aggregator: aggregator,
		store:      store,
	}
}

func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req struct {
		GroupedAnswers map[string][]risk.AnswerItem `json:"grouped_answers"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
		})
	}

	sanitizeGroupedAnswers(req.GroupedAnswers)

	start := time.Now()
	report := h.aggregator.Analyze(c.Context(), req.GroupedAnswers)
	metrics.AnalyzeDuration.Observe(time.Since(start).Seconds())

	metrics.SectionsPerRequest.Observe(float64(len(report.Breakdown)))
	metrics.ClassificationsTotal.WithLabelValues(report.General.Method, string(report.General.Category)).Inc()
	metrics.RiskLevelTotal.WithLabelValues("overall", report.General.Risk).Inc()
	for _, outcome := range report.Breakdown {
		metrics.RiskLevelTotal.WithLabelValues("section", outcome.Risk).Inc()
	}

	h.persist(c.Context(), report)

	metrics.AnalyzeTotal.WithLabelValues("success").Inc()

	return c.JSON(fiber.Map{
		"status": "success",
		"result": report,
	})
}

func (h *AnalyzeHandler) persist(ctx context.Context, report *risk.Report) {
	serialized, err := json.Marshal(report)
	if err != nil {
		logger.Warn("Failed to serialize report for persistence", zap.Error(err))
		metrics.PersistenceFailures.Inc()
		return
	}

	now := time.Now()
	assessment := &models.Assessment{
		ID:           uuid.NewString(),
		Timestamp:    now.Format("2006-01-02 15:04:05"),
		RiskLevel:    report.General.Risk,
		MainCategory: string(report.General.Category),
		Confidence:   report.General.Confidence,
		FullReport:   string(serialized),
		CreatedAt:    now.Unix(),
	}

	if err := h.store.InsertAssessment(ctx, assessment); err != nil {
		logger.Warn("Failed to persist assessment", zap.Error(err))
		metrics.PersistenceFailures.Inc()
		return
	}

	logger.Info("Assessment saved",
		zap.String("id", assessment.ID),
		zap.String("risk_level", assessment.RiskLevel),
	)
}

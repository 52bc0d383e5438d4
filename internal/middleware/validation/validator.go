package validation

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/protect-ed/backend/internal/risk"
)

type Config struct {
	MaxSections      int
	MaxItemsPerGroup int
	MaxTextLength    int
	Logger           *zap.Logger
}

// Middleware bounds the analyze payload before it reaches the classifier:
// grouped_answers must be present and every dimension capped. Oversized or
// malformed requests never hit the model layers.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxSections == 0 {
		cfg.MaxSections = 50
	}
	if cfg.MaxItemsPerGroup == 0 {
		cfg.MaxItemsPerGroup = 100
	}
	if cfg.MaxTextLength == 0 {
		cfg.MaxTextLength = 5000
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost || !strings.Contains(c.Path(), "/analyze") {
			return c.Next()
		}

		contentType := c.Get("Content-Type")
		if contentType != "" && !strings.Contains(contentType, "application/json") {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
				"status":  "error",
				"message": "Unsupported content type",
			})
		}

		var req struct {
			GroupedAnswers map[string][]risk.AnswerItem `json:"grouped_answers"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid JSON format",
			})
		}

		if len(req.GroupedAnswers) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "grouped_answers is required",
			})
		}

		if len(req.GroupedAnswers) > cfg.MaxSections {
			cfg.Logger.Warn("Too many sections in request",
				zap.String("ip", c.IP()),
				zap.Int("sections", len(req.GroupedAnswers)),
			)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": "Too many answer sections",
			})
		}

		for name, items := range req.GroupedAnswers {
			if len(items) > cfg.MaxItemsPerGroup {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"status":  "error",
					"message": "Too many answers in section " + name,
				})
			}
			for _, item := range items {
				if len(item.Text) > cfg.MaxTextLength {
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"status":  "error",
						"message": "Answer text exceeds maximum length",
					})
				}
				if item.Weight < 0 {
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"status":  "error",
						"message": "Answer weight must be non-negative",
					})
				}
			}
		}

		return c.Next()
	}
}

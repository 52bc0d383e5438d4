package validation

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(Middleware(cfg))
	app.Post("/api/v1/analyze", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success"})
	})
	app.Get("/api/v1/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})
	return app
}

func post(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestMiddleware_ValidPayloadPasses(t *testing.T) {
	app := validationApp(Config{})
	status := post(t, app, `{"grouped_answers":{"S":[{"text":"he hit me","weight":5}]}}`)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestMiddleware_MissingGroupedAnswers(t *testing.T) {
	app := validationApp(Config{})
	assert.Equal(t, fiber.StatusBadRequest, post(t, app, `{}`))
	assert.Equal(t, fiber.StatusBadRequest, post(t, app, `{"grouped_answers":{}}`))
}

func TestMiddleware_MalformedJSON(t *testing.T) {
	app := validationApp(Config{})
	assert.Equal(t, fiber.StatusBadRequest, post(t, app, `{"grouped_answers":`))
}

func TestMiddleware_TooManySections(t *testing.T) {
	app := validationApp(Config{MaxSections: 1})
	status := post(t, app, `{"grouped_answers":{"A":[{"text":"x y z","weight":1}],"B":[{"text":"x y z","weight":1}]}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestMiddleware_TextTooLong(t *testing.T) {
	app := validationApp(Config{MaxTextLength: 10})
	status := post(t, app, `{"grouped_answers":{"S":[{"text":"this text is definitely too long","weight":1}]}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestMiddleware_NegativeWeight(t *testing.T) {
	app := validationApp(Config{})
	status := post(t, app, `{"grouped_answers":{"S":[{"text":"he hit me","weight":-1}]}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestMiddleware_WrongContentType(t *testing.T) {
	app := validationApp(Config{})
	req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader("text=1"))
	req.Header.Set("Content-Type", "text/plain")
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestMiddleware_IgnoresOtherRoutes(t *testing.T) {
	app := validationApp(Config{})
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/health", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

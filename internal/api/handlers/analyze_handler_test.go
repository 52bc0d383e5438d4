package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protect-ed/backend/internal/classify"
	"github.com/protect-ed/backend/internal/risk"
	"github.com/protect-ed/backend/internal/storage/models"
	"github.com/protect-ed/backend/internal/taxonomy"
)

type fakeStore struct {
	inserted []*models.Assessment
	err      error
}

func (f *fakeStore) InsertAssessment(_ context.Context, a *models.Assessment) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, a)
	return nil
}

func testApp(store *fakeStore) *fiber.App {
	engine := classify.NewEngine(classify.NewKeywordLayer(taxonomy.KeywordRules()))
	handler := NewAnalyzeHandler(risk.NewAggregator(engine), store)

	app := fiber.New()
	app.Post("/api/v1/analyze", handler.HandleAnalyze)
	return app
}

func postAnalyze(t *testing.T, app *fiber.App, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp.StatusCode, parsed
}

func TestHandleAnalyze_PhysicalAbuseScenario(t *testing.T) {
	store := &fakeStore{}
	app := testApp(store)

	status, body := postAnalyze(t, app, `{"grouped_answers":{"Section A":[{"text":"he hit me","weight":5}]}}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "success", body["status"])

	result := body["result"].(map[string]interface{})
	general := result["general"].(map[string]interface{})
	assert.Equal(t, "Physical Abuse", general["category"])
	assert.Equal(t, "Severe", general["risk"])
	assert.Equal(t, "red", general["color"])
	assert.Equal(t, "100.0%", general["confidence"])
	assert.Equal(t, "Go to a safe place immediately. Call 911.", general["advice"])

	breakdown := result["breakdown"].(map[string]interface{})
	section := breakdown["Section A"].(map[string]interface{})
	assert.Equal(t, "Physical Abuse", section["category"])
	assert.Equal(t, "Severe", section["risk"])
	assert.Equal(t, "red", section["color"])
	assert.Equal(t, "100.0%", section["confidence"])

	require.Len(t, store.inserted, 1)
	saved := store.inserted[0]
	assert.Equal(t, "Severe", saved.RiskLevel)
	assert.Equal(t, "Physical Abuse", saved.MainCategory)
	assert.Equal(t, "100.0%", saved.Confidence)
	assert.NotEmpty(t, saved.ID)
	assert.True(t, json.Valid([]byte(saved.FullReport)))
}

func TestHandleAnalyze_HTMLStrippedBeforeClassification(t *testing.T) {
	store := &fakeStore{}
	app := testApp(store)

	status, body := postAnalyze(t, app,
		`{"grouped_answers":{"S":[{"text":"<p>he <b>hit</b> me</p><script>alert(1)</script>","weight":1}]}}`)
	require.Equal(t, fiber.StatusOK, status)

	result := body["result"].(map[string]interface{})
	breakdown := result["breakdown"].(map[string]interface{})
	section := breakdown["S"].(map[string]interface{})
	assert.Equal(t, "Physical Abuse", section["category"], "markup must not hide keyword triggers")
}

func TestHandleAnalyze_InvalidBody(t *testing.T) {
	app := testApp(&fakeStore{})

	status, body := postAnalyze(t, app, `{"grouped_answers": not json`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "error", body["status"])
}

func TestHandleAnalyze_PersistenceFailureDoesNotFailRequest(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	app := testApp(store)

	status, body := postAnalyze(t, app, `{"grouped_answers":{"S1":[{"text":"normal day","weight":1}]}}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "success", body["status"])

	result := body["result"].(map[string]interface{})
	general := result["general"].(map[string]interface{})
	assert.Equal(t, "Healthy/Low Risk", general["category"])
	assert.Equal(t, "Low", general["risk"])
	assert.Equal(t, "green", general["color"])
	assert.Equal(t, "0.0%", general["confidence"])
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apihttp "github.com/helpdesk-platform/intake-service/internal/api/http"
	"github.com/helpdesk-platform/intake-service/internal/api/http/handlers"
	"github.com/helpdesk-platform/intake-service/internal/classify"
	"github.com/helpdesk-platform/intake-service/internal/config"
	"github.com/helpdesk-platform/intake-service/internal/domain"
	"github.com/helpdesk-platform/intake-service/internal/observability"
	"github.com/helpdesk-platform/intake-service/internal/persistence"
	"github.com/helpdesk-platform/intake-service/internal/repository/memory"
	"github.com/helpdesk-platform/intake-service/internal/service"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	kbRepo := memory.NewKBRepository()
	require.NoError(t, kbRepo.Create(t.Context(), &domain.KBArticle{
		Titles:    map[string]string{"ru": "Сброс пароля VPN", "en": "VPN password reset"},
		Bodies:    map[string]string{"ru": "Откройте портал self-service.", "en": "Open the self-service portal."},
		Category:  "access_vpn",
		Type:      domain.KBTypeGuide,
		Keywords:  []string{"vpn", "пароль", "сброс"},
		Published: true,
	}))

	tickets := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  memory.NewTicketRepository(),
		MessageRepo: memory.NewTicketMessageRepository(),
		TriageRepo:  memory.NewTriageRepository(),
	}, logger)
	identity := service.NewIdentityService(memory.NewUserRepository(), logger)
	annotator := service.NewTriageService(classify.NewKeywordClassifier(), config.TriageConfig{
		ClassifyTimeoutSeconds: 2,
		AutoResolveThreshold:   0.8,
	}, metrics, logger)
	matcher := service.NewKBService(kbRepo)
	intake := service.NewIntakeService(identity, tickets, annotator, matcher, nil,
		config.IntakeConfig{SuggestionLimit: 3}, metrics, logger)

	app := fiber.New()
	apihttp.RegisterMiddlewares(app, logger, metrics, 10*time.Second)
	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		Health:  handlers.NewHealthHandler("helpdesk-intake", "test", &persistence.Postgres{}, nil, metrics),
		Intake:  handlers.NewIntakeHandler(intake),
		Tickets: handlers.NewTicketsHandler(tickets),
		KB:      handlers.NewKBHandler(matcher),
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (*http.Response, map[string]any) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func intakePayload() map[string]any {
	return map[string]any{
		"source":    "telegram",
		"source_id": "tg:55100",
		"user":      map[string]any{"id": "tg:123456", "name": "Айгерим"},
		"subject":   "VPN не работает",
		"body":      "Не могу подключиться, ошибка 789, нужен сброс пароля",
		"language":  "ru",
	}
}

func TestReceiveMessageCreatesTriagedTicket(t *testing.T) {
	app := newTestApp(t)

	resp, body := postJSON(t, app, "/intake/messages", intakePayload())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, "triaged", data["status"])
	assert.Equal(t, true, data["is_new"])
	assert.Equal(t, float64(1), data["thread_length"])

	triage := data["triage"].(map[string]any)
	assert.Equal(t, "access_vpn", triage["category"])
	assert.NotEmpty(t, triage["suggested_response"])

	suggestions := data["suggestions"].([]any)
	require.NotEmpty(t, suggestions)
	first := suggestions[0].(map[string]any)
	assert.Equal(t, "Сброс пароля VPN", first["title"])
}

func TestReceiveMessageRedeliveryReturnsOK(t *testing.T) {
	app := newTestApp(t)

	resp, _ := postJSON(t, app, "/intake/messages", intakePayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := postJSON(t, app, "/intake/messages", intakePayload())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["is_new"])
	assert.Equal(t, float64(1), data["thread_length"])
}

func TestReceiveMessageValidation(t *testing.T) {
	app := newTestApp(t)

	payload := intakePayload()
	delete(payload, "body")
	resp, body := postJSON(t, app, "/intake/messages", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errBody := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
}

func TestTicketLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)

	_, body := postJSON(t, app, "/intake/messages", intakePayload())
	ticketID := body["data"].(map[string]any)["ticket_id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/tickets/"+ticketID, nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, "triaged", detail["status"])

	resp, _ = postJSON(t, app, fmt.Sprintf("/tickets/%s/transition", ticketID),
		map[string]any{"status": "in_progress"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = postJSON(t, app, fmt.Sprintf("/tickets/%s/transition", ticketID),
		map[string]any{"status": "closed"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", body["error"].(map[string]any)["code"])
}

func TestKBSearchOverHTTP(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet,
		"/kb/search?category=access_vpn&keywords=vpn,пароль&lang=ru&limit=5", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	items := decodeBody(t, resp)["data"].([]any)
	require.NotEmpty(t, items)
	assert.Equal(t, "Сброс пароля VPN", items[0].(map[string]any)["title"])
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Without postgres configured the in-memory stores still count as ready.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agentcommand/tracker/internal/app/controllers"
	"github.com/agentcommand/tracker/internal/app/repositories"
	"github.com/agentcommand/tracker/internal/app/services"
	"github.com/agentcommand/tracker/internal/middleware"
	"github.com/agentcommand/tracker/internal/pkg/agent"
	"github.com/agentcommand/tracker/internal/pkg/auth"
	"github.com/agentcommand/tracker/internal/pkg/filestorage"
	"github.com/agentcommand/tracker/internal/pkg/notify"
	"github.com/agentcommand/tracker/internal/seed"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedGenerator struct {
	reply string
}

func (g *cannedGenerator) Ready() error { return nil }

func (g *cannedGenerator) Generate(context.Context, agent.Prompt) (string, error) {
	return g.reply, nil
}

type countingProvider struct {
	mu    sync.Mutex
	calls int
}

func (p *countingProvider) Send(context.Context, notify.Channel, string, string) (json.RawMessage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return json.RawMessage(`{"sid":"SM123"}`), nil
}

func (p *countingProvider) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type harness struct {
	router    *gin.Engine
	provider  *countingProvider
	generator *cannedGenerator
}

type options struct {
	verifier *auth.TokenVerifier
	limiter  *middleware.RateLimiter
}

func newHarness(t *testing.T, opts options) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog, err := seed.LoadCatalog()
	require.NoError(t, err)
	repos := repositories.NewRepositories(repositories.NewMemoryStore())
	blobs, err := filestorage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := filestorage.NewURLSigner("route-secret", time.Minute, "http://files.test")

	generator := &cannedGenerator{reply: "A short summary."}
	gateway := agent.NewGateway(generator, agent.NewHTTPPageFetcher(time.Second), zerolog.Nop())
	provider := &countingProvider{}
	dispatcher := notify.NewDispatcherWithProviders(map[notify.Channel]notify.Provider{
		notify.ChannelEmail:    provider,
		notify.ChannelSMS:      provider,
		notify.ChannelWhatsApp: provider,
		notify.ChannelTelegram: provider,
	}, zerolog.Nop())

	nop := zerolog.Nop()
	ctrl := Controllers{
		Agent:        controllers.NewAgentController(gateway),
		Notification: controllers.NewNotificationController(services.NewNotificationService(repos.StudentRepository, dispatcher, nop)),
		Student:      controllers.NewStudentController(services.NewStudentService(repos.StudentRepository, nop)),
		Application: controllers.NewApplicationController(services.NewLifecycleService(
			repos.ApplicationRepository, repos.StudentRepository, repos.UniversityRepository, catalog, nop)),
		Document: controllers.NewDocumentController(services.NewDocumentService(
			repos.DocumentRepository, repos.StudentRepository, blobs, signer, 1<<20, nop)),
		University: controllers.NewUniversityController(services.NewUniversityService(
			repos.UniversityRepository, catalog, agent.NewClient(gateway), nop)),
		Stats: controllers.NewStatsController(services.NewStatsService(repos.StudentRepository)),
		Advisor: controllers.NewAdvisorController(services.NewAdvisorService(
			repos.StudentRepository, agent.NewClient(gateway), nop)),
	}

	limiter := opts.limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(0, 0)
	}
	router := gin.New()
	SetupRouter(router, ctrl, middleware.NewAuthMiddleware(opts.verifier), limiter)
	return &harness{router: router, provider: provider, generator: generator}
}

func (h *harness) do(t *testing.T, method, path string, body any, headers ...string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func dataOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "body has no data object: %v", body)
	return data
}

func errorOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	detail, ok := body["error"].(map[string]any)
	require.True(t, ok, "body has no error object: %v", body)
	return detail
}

func TestPing(t *testing.T) {
	h := newHarness(t, options{})
	code, body := h.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong", body["message"])
}

func TestApplicationLifecycleOverHTTP(t *testing.T) {
	h := newHarness(t, options{})

	code, body := h.do(t, http.MethodPost, "/api/v1/students", map[string]any{"name": "Ama", "email": "ama@example.com"})
	require.Equal(t, http.StatusCreated, code, body)
	student := dataOf(t, body)
	assert.Equal(t, "Drafting", student["status"])
	studentID := student["id"].(string)

	code, body = h.do(t, http.MethodPost, "/api/v1/students/"+studentID+"/applications", map[string]any{"university_id": "uoft"})
	require.Equal(t, http.StatusCreated, code, body)
	app := dataOf(t, body)
	assert.Equal(t, "Univ. of Toronto", app["university_name"])
	assert.Equal(t, "Planning", app["status"])
	assert.Equal(t, "2026-01-15", app["deadline"])
	assert.EqualValues(t, 8, app["total"])
	assert.EqualValues(t, 0, app["completed"])
	appID := app["id"].(string)

	code, body = h.do(t, http.MethodPost, "/api/v1/applications/"+appID+"/checklist/sop/toggle", nil)
	require.Equal(t, http.StatusOK, code, body)
	app = dataOf(t, body)
	assert.EqualValues(t, 1, app["completed"])
	checklist := app["checklist"].([]any)
	sop := checklist[4].(map[string]any)
	assert.Equal(t, "sop", sop["id"])
	assert.Equal(t, "Submitted", sop["status"])
	assert.NotNil(t, sop["date"])

	code, body = h.do(t, http.MethodPatch, "/api/v1/applications/"+appID+"/status", map[string]any{"status": "Applied"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Applied", dataOf(t, body)["status"])

	code, body = h.do(t, http.MethodPatch, "/api/v1/applications/"+appID+"/status", map[string]any{"status": "Bogus"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VAL_001", errorOf(t, body)["code"])

	code, body = h.do(t, http.MethodGet, "/api/v1/students/"+studentID+"/applications", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 1)

	code, body = h.do(t, http.MethodGet, "/api/v1/applications/missing", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "RES_001", errorOf(t, body)["code"])

	code, body = h.do(t, http.MethodPost, "/api/v1/applications/"+appID+"/checklist/nope/toggle", nil)
	assert.Equal(t, http.StatusNotFound, code, body)
}

func TestStudentValidationOverHTTP(t *testing.T) {
	h := newHarness(t, options{})

	code, body := h.do(t, http.MethodPost, "/api/v1/students", map[string]any{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, code)
	detail := errorOf(t, body)
	assert.Equal(t, "VAL_001", detail["code"])
	assert.Contains(t, detail["message"], "name is required")
	assert.Contains(t, detail["message"], "email must be a valid email address")

	code, body = h.do(t, http.MethodPost, "/api/v1/students", map[string]any{"name": "Kofi", "status": "Sleeping"})
	assert.Equal(t, http.StatusBadRequest, code, body)
}

func TestAgentEndpoint(t *testing.T) {
	h := newHarness(t, options{})

	code, body := h.do(t, http.MethodPost, "/api/v1/agent", map[string]any{"action": "nope"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid action. Supported actions: "+strings.Join(agent.ActionNames, ", "), body["error"])

	code, body = h.do(t, http.MethodPost, "/api/v1/agent", map[string]any{
		"action":  agent.ActionSummarizeText,
		"payload": map[string]any{"text": "Ama submitted her SOP."},
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "A short summary.", body["result"])

	code, body = h.do(t, http.MethodPost, "/api/v1/agent", map[string]any{"action": agent.ActionSummarizeText})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, body["error"])
}

func TestAdvisorEndpoints(t *testing.T) {
	h := newHarness(t, options{})

	code, body := h.do(t, http.MethodPost, "/api/v1/students", map[string]any{"name": "Ama", "gpa": "3.8", "major": "Computer Science"})
	require.Equal(t, http.StatusCreated, code, body)
	base := "/api/v1/students/" + dataOf(t, body)["id"].(string)

	h.generator.reply = "```json\n[{\"name\":\"York University\",\"programs\":[\"CS\",\"Math\"]}]\n```"
	code, body = h.do(t, http.MethodPost, base+"/brainstorm", map[string]any{"mode": "universities", "userNotes": "likes robotics"})
	require.Equal(t, http.StatusOK, code, body)
	result := dataOf(t, body)
	assert.Equal(t, "universities", result["mode"])
	suggestions, ok := result["suggestions"].([]any)
	require.True(t, ok, result)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "York University", suggestions[0].(map[string]any)["name"])
	assert.Nil(t, result["text"])

	h.generator.reply = "1. York University, because of its robotics lab"
	code, body = h.do(t, http.MethodPost, base+"/brainstorm", map[string]any{"mode": "universities"})
	require.Equal(t, http.StatusOK, code, body)
	result = dataOf(t, body)
	assert.Nil(t, result["suggestions"])
	assert.Equal(t, "1. York University, because of its robotics lab", result["text"])

	h.generator.reply = "# Essay angles"
	code, body = h.do(t, http.MethodPost, base+"/brainstorm", map[string]any{"mode": "essays"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "# Essay angles", dataOf(t, body)["text"])

	code, body = h.do(t, http.MethodPost, base+"/brainstorm", map[string]any{"mode": "poems"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VAL_001", errorOf(t, body)["code"])

	code, _ = h.do(t, http.MethodPost, "/api/v1/students/missing/brainstorm", map[string]any{"mode": "strategy"})
	assert.Equal(t, http.StatusNotFound, code)

	h.generator.reply = "## Executive Summary"
	code, body = h.do(t, http.MethodPost, base+"/report", nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "## Executive Summary", dataOf(t, body)["report"])
}

func TestAgentEndpointRateLimited(t *testing.T) {
	h := newHarness(t, options{limiter: middleware.NewRateLimiter(0.001, 1)})
	req := map[string]any{"action": agent.ActionSummarizeText, "payload": map[string]any{"text": "x"}}

	code, _ := h.do(t, http.MethodPost, "/api/v1/agent", req)
	assert.Equal(t, http.StatusOK, code)

	code, body := h.do(t, http.MethodPost, "/api/v1/agent", req)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.NotEmpty(t, body["error"])
}

func TestNotificationEndpoints(t *testing.T) {
	h := newHarness(t, options{})

	code, body := h.do(t, http.MethodPost, "/api/v1/notifications", map[string]any{
		"channel": "sms", "recipient": "+15550001111", "message": "Offer received",
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"sid": "SM123"}, body["data"])

	code, body = h.do(t, http.MethodPost, "/api/v1/notifications", map[string]any{"channel": "sms", "message": "hi"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing required fields: channel, recipient, message", body["error"])

	code, body = h.do(t, http.MethodPost, "/api/v1/notifications", map[string]any{"channel": "fax", "recipient": "x", "message": "hi"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Unsupported channel: fax", body["error"])
	assert.Equal(t, 1, h.provider.count())

	code, body = h.do(t, http.MethodPost, "/api/v1/students", map[string]any{"name": "Kofi"})
	require.Equal(t, http.StatusCreated, code)
	studentID := dataOf(t, body)["id"].(string)

	code, body = h.do(t, http.MethodPost, "/api/v1/students/"+studentID+"/notify", map[string]any{"channel": "whatsapp"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Phone number required for whatsapp", body["error"])
	assert.Equal(t, 1, h.provider.count(), "no dispatch without a phone number")

	code, body = h.do(t, http.MethodPost, "/api/v1/students/missing/notify", map[string]any{"channel": "email"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.NotEmpty(t, body["error"])
}

func TestDocumentUploadAndSignedDownload(t *testing.T) {
	h := newHarness(t, options{})

	_, body := h.do(t, http.MethodPost, "/api/v1/students", map[string]any{"name": "Ama"})
	studentID := dataOf(t, body)["id"].(string)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "transcript.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 transcript"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/"+studentID+"/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var uploaded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploaded))
	doc := dataOf(t, uploaded)
	assert.Equal(t, "transcript.pdf", doc["name"])
	assert.Equal(t, "application/pdf", doc["mime_type"])
	docID := doc["id"].(string)

	code, body := h.do(t, http.MethodGet, "/api/v1/documents/"+docID+"/url", nil)
	require.Equal(t, http.StatusOK, code, body)
	signed, err := url.Parse(dataOf(t, body)["url"].(string))
	require.NoError(t, err)
	assert.Equal(t, "files.test", signed.Host)

	w = httptest.NewRecorder()
	h.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, signed.RequestURI(), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.4 transcript", w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	code, _ = h.do(t, http.MethodGet, signed.Path+"?token=forged", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = h.do(t, http.MethodDelete, "/api/v1/documents/"+docID, nil)
	assert.Equal(t, http.StatusOK, code)

	code, body = h.do(t, http.MethodGet, "/api/v1/students/"+studentID+"/documents", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["data"])
}

func TestUniversitiesAndStats(t *testing.T) {
	h := newHarness(t, options{})

	code, body := h.do(t, http.MethodPost, "/api/v1/universities", map[string]any{
		"name": "Trent University", "location": "Peterborough, ON", "deadline": "Feb 1, 2026",
	})
	require.Equal(t, http.StatusCreated, code, body)
	custom := dataOf(t, body)
	assert.Equal(t, true, custom["custom"])

	code, body = h.do(t, http.MethodGet, "/api/v1/universities/"+custom["id"].(string), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Trent University", dataOf(t, body)["name"])

	code, body = h.do(t, http.MethodGet, "/api/v1/universities", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 27)

	code, _ = h.do(t, http.MethodPost, "/api/v1/universities/extract", map[string]any{"url": "not a url"})
	assert.Equal(t, http.StatusBadRequest, code)

	_, _ = h.do(t, http.MethodPost, "/api/v1/students", map[string]any{"name": "Ama", "status": "Submitted"})
	code, body = h.do(t, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, code)
	stats := dataOf(t, body)
	assert.EqualValues(t, 1, stats["total"])
	assert.EqualValues(t, 1, stats["submitted"])
	assert.EqualValues(t, 1, stats["missing_docs"])
}

func TestBearerAuth(t *testing.T) {
	verifier := auth.NewTokenVerifier(auth.JWTConfig{SecretKey: "idp-secret", TokenIssuer: "idp"})
	h := newHarness(t, options{verifier: verifier})

	code, body := h.do(t, http.MethodGet, "/api/v1/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTH_008", errorOf(t, body)["code"])

	code, body = h.do(t, http.MethodGet, "/api/v1/stats", nil, "Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTH_005", errorOf(t, body)["code"])

	token, err := verifier.IssueToken("agent-1", "agent@example.com", time.Hour)
	require.NoError(t, err)
	code, _ = h.do(t, http.MethodGet, "/api/v1/stats", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, code)

	code, _ = h.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, code, "ping stays public")
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/jobboard-ai/internal/ai"
	"github.com/spigell/jobboard-ai/internal/matching"
	"github.com/spigell/jobboard-ai/internal/store"
)

type stubMatcher struct {
	results    []matching.MatchResult
	err        error
	lastCaller store.Caller
	lastID     uuid.UUID
}

func (m *stubMatcher) FindJobsForSeeker(_ context.Context, caller store.Caller) ([]matching.MatchResult, error) {
	m.lastCaller = caller
	return m.results, m.err
}

func (m *stubMatcher) FindCandidatesForVacancy(_ context.Context, caller store.Caller, id uuid.UUID) ([]matching.MatchResult, error) {
	m.lastCaller = caller
	m.lastID = id
	return m.results, m.err
}

type stubAssistant struct {
	lastText    string
	lastProfile ai.ProfileSummary
	resume      string
}

func (a *stubAssistant) AnalyzeCV(_ context.Context, text string) ai.AnalysisResult {
	a.lastText = text
	return ai.AnalysisResult{Skills: []string{"Go"}, Experience: "3 yil", Recommendations: []string{}, FromModel: true}
}

func (a *stubAssistant) GenerateResume(_ context.Context, profile ai.ProfileSummary) string {
	a.lastProfile = profile
	return a.resume
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestServer(m *stubMatcher, a *stubAssistant) *Server {
	return New(Config{}, m, a, stubPinger{}, zap.NewNop())
}

func withIdentity(req *http.Request, id uuid.UUID, role string) *http.Request {
	req.Header.Set(HeaderUserID, id.String())
	req.Header.Set(HeaderUserRole, role)
	return req
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode body %q: %v", body, err)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubMatcher{}, &stubAssistant{})

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var body map[string]any
	decode(t, resp, &body)
	if body["status"] != "healthy" || body["database"] != "ok" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestJobMatches(t *testing.T) {
	seekerID := uuid.New()
	m := &stubMatcher{results: []matching.MatchResult{{ID: uuid.New(), Title: "Go Developer", MatchScore: 80, Skills: []string{}}}}
	srv := newTestServer(m, &stubAssistant{})

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/v1/matches/jobs", nil), seekerID, "seeker")
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var body struct {
		Results []matching.MatchResult `json:"results"`
		Count   int                    `json:"count"`
	}
	decode(t, resp, &body)
	if body.Count != 1 || body.Results[0].Title != "Go Developer" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if m.lastCaller.ID != seekerID || m.lastCaller.Role != store.RoleJobSeeker {
		t.Fatalf("unexpected caller passed to matcher: %+v", m.lastCaller)
	}
}

func TestIdentityIsRequired(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		id   string
		role string
	}{
		{name: "missing", id: "", role: ""},
		{name: "bad id", id: "42", role: "seeker"},
		{name: "bad role", id: uuid.NewString(), role: "guest"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := newTestServer(&stubMatcher{}, &stubAssistant{})
			req := httptest.NewRequest(http.MethodGet, "/api/v1/matches/jobs", nil)
			if tc.id != "" {
				req.Header.Set(HeaderUserID, tc.id)
			}
			req.Header.Set(HeaderUserRole, tc.role)

			resp, err := srv.App().Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", resp.StatusCode)
			}
		})
	}
}

func TestCandidateMatchesErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		path   string
		err    error
		expect int
	}{
		{name: "not found", path: uuid.NewString(), err: fmt.Errorf("find candidates: %w", store.ErrNotFound), expect: http.StatusNotFound},
		{name: "forbidden", path: uuid.NewString(), err: fmt.Errorf("find candidates: %w", store.ErrForbidden), expect: http.StatusForbidden},
		{name: "bad id", path: "not-a-uuid", expect: http.StatusBadRequest},
		{name: "internal", path: uuid.NewString(), err: fmt.Errorf("list candidates: connection reset"), expect: http.StatusInternalServerError},
		{name: "ok", path: uuid.NewString(), expect: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := &stubMatcher{err: tc.err, results: []matching.MatchResult{}}
			srv := newTestServer(m, &stubAssistant{})

			req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/v1/matches/vacancies/"+tc.path+"/candidates", nil), uuid.New(), "employer")
			resp, err := srv.App().Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tc.expect {
				t.Fatalf("expected %d, got %d", tc.expect, resp.StatusCode)
			}
			if tc.err != nil {
				var body map[string]any
				decode(t, resp, &body)
				if !strings.Contains(body["error"].(string), "find candidates") && tc.expect != http.StatusInternalServerError {
					t.Fatalf("expected operation name in error message, got %v", body["error"])
				}
			}
		})
	}
}

func TestAnalyzeCVJSON(t *testing.T) {
	a := &stubAssistant{}
	srv := newTestServer(&stubMatcher{}, a)

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/v1/ai/cv/analyze", strings.NewReader(`{"text": " Go dasturchi "}`)), uuid.New(), "job_seeker")
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var body ai.AnalysisResult
	decode(t, resp, &body)
	if len(body.Skills) != 1 || body.Skills[0] != "Go" || !body.FromModel {
		t.Fatalf("unexpected analysis: %+v", body)
	}
	if a.lastText != "Go dasturchi" {
		t.Fatalf("unexpected text passed to assistant: %q", a.lastText)
	}
}

func TestAnalyzeCVMultipart(t *testing.T) {
	a := &stubAssistant{}
	srv := newTestServer(&stubMatcher{}, a)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("cv", "cv.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("Aziz Karimov\n\nGo dasturchi")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/v1/ai/cv/analyze", &buf), uuid.New(), "job_seeker")
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if a.lastText != "Aziz Karimov\nGo dasturchi" {
		t.Fatalf("unexpected extracted text: %q", a.lastText)
	}
}

func TestAnalyzeCVRejectsEmptyText(t *testing.T) {
	srv := newTestServer(&stubMatcher{}, &stubAssistant{})

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/v1/ai/cv/analyze", strings.NewReader(`{"text": "  "}`)), uuid.New(), "job_seeker")
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestResumeKeepsStatusOnDegradation(t *testing.T) {
	a := &stubAssistant{resume: ai.DiagnosticQuotaExceeded}
	srv := newTestServer(&stubMatcher{}, a)

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/v1/ai/resume", strings.NewReader(`{"name": "Aziz", "skills": ["Go"]}`)), uuid.New(), "job_seeker")
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected AI degradation to keep 200, got %d", resp.StatusCode)
	}

	var body map[string]any
	decode(t, resp, &body)
	if body["resume"] != ai.DiagnosticQuotaExceeded || body["fromModel"] != false {
		t.Fatalf("unexpected body: %v", body)
	}
	if a.lastProfile.Name != "Aziz" || len(a.lastProfile.Skills) != 1 {
		t.Fatalf("unexpected profile passed to assistant: %+v", a.lastProfile)
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(fiber.NewError(fiber.StatusTeapot, "x")); got != fiber.StatusTeapot {
		t.Fatalf("expected fiber error code, got %d", got)
	}
}

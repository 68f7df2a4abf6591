package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"eunoia/internal/analysis"
	"eunoia/internal/model"
	"eunoia/internal/repository"
	"eunoia/internal/service"
	"eunoia/internal/transport/ws"
)

type memUsers struct {
	mu    sync.Mutex
	users []*model.User
}

func (r *memUsers) Create(ctx context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = "u" + strconv.Itoa(len(r.users)+1)
	copy := *u
	r.users = append(r.users, &copy)
	return nil
}

func (r *memUsers) find(match func(*model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			copy := *u
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *memUsers) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Email == email })
}

func (r *memUsers) EnsureIndexes(ctx context.Context) error { return nil }

type memAssessments struct {
	mu   sync.Mutex
	docs []model.RiskAssessment
	fail bool
}

func (r *memAssessments) Create(ctx context.Context, a *model.RiskAssessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("no primary")
	}
	a.ID = "a" + strconv.Itoa(len(r.docs)+1)
	r.docs = append(r.docs, *a)
	return nil
}

func (r *memAssessments) ListByUser(ctx context.Context, userID string, limit int) ([]model.RiskAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.RiskAssessment{}
	for i := len(r.docs) - 1; i >= 0; i-- {
		if r.docs[i].UserID == userID {
			out = append(out, r.docs[i])
		}
	}
	return out, nil
}

func (r *memAssessments) EnsureIndexes(ctx context.Context) error { return nil }

func (r *memAssessments) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

type memBehavioral struct {
	docs []model.TextAnalysis
}

func (r *memBehavioral) Create(ctx context.Context, a *model.TextAnalysis) error {
	a.ID = "b" + strconv.Itoa(len(r.docs)+1)
	r.docs = append(r.docs, *a)
	return nil
}

type testServer struct {
	handler     http.Handler
	assessments *memAssessments
	behavioral  *memBehavioral
}

func newTestServer(t *testing.T, ratePerMin int) *testServer {
	t.Helper()
	users := &memUsers{}
	ts := &testServer{assessments: &memAssessments{}, behavioral: &memBehavioral{}}

	hub := ws.NewHub()
	t.Cleanup(hub.Close)

	// No models loaded: every analysis runs on the lexical path
	registry := analysis.NewRegistry(nil, nil)
	analyzer := analysis.NewAnalyzer(registry, time.Second)
	authSvc := service.NewAuthService(users, "test-secret", time.Hour)
	assessmentSvc := service.NewAssessmentService(analyzer, analysis.NewWeightedScorer(analysis.DefaultWeights()),
		service.RuleRecommender{}, ts.assessments, ts.behavioral, nil, hub)
	healthSvc := service.NewHealthService(service.PingerFunc(func(context.Context) error { return nil }), nil, registry)

	ts.handler = NewRouter(&Container{
		AuthService:       authSvc,
		AssessmentService: assessmentSvc,
		UserService:       service.NewUserService(users),
		HealthService:     healthSvc,
		WSHub:             hub,
		AllowedOrigins:    []string{"http://localhost:5173"},
		AuthRatePerMin:    ratePerMin,
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func (ts *testServer) register(t *testing.T, email string) model.TokenResponse {
	t.Helper()
	rec := ts.do(t, "POST", "/auth/register", "", map[string]interface{}{
		"firstName": "Sam", "lastName": "Lee", "email": email, "password": "password123",
		"phoneNumber": "555", "location": "Here", "gender": "x", "age": 30,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
	}
	return decode[model.TokenResponse](t, rec)
}

func assessmentBody(userID string) map[string]interface{} {
	return map[string]interface{}{
		"user_id":            userID,
		"social_media_posts": []string{"I feel sad and alone", "can't stop worrying"},
		"sleep_hours":        5.5,
		"activity_level":     2,
		"mood_rating":        2,
		"stress_level":       4,
	}
}

func TestRiskAssessmentWithToken(t *testing.T) {
	ts := newTestServer(t, 0)
	tok := ts.register(t, "sam@example.com")

	rec := ts.do(t, "POST", "/ai/risk-assessment", tok.AccessToken, assessmentBody(tok.UserID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	resp := decode[model.RiskAssessmentResponse](t, rec)
	if resp.RiskScore < 0 || resp.RiskScore > 100 || resp.RiskLevel != model.LevelForScore(resp.RiskScore) {
		t.Fatalf("inconsistent response %+v", resp)
	}
	if resp.AssessmentID == "" || resp.Timestamp.IsZero() || len(resp.Recommendations) == 0 || len(resp.Factors) == 0 {
		t.Fatalf("incomplete response %+v", resp)
	}
	if ts.assessments.count() != 1 {
		t.Fatalf("stored %d assessments, want 1", ts.assessments.count())
	}
}

func TestRiskAssessmentWithoutToken(t *testing.T) {
	ts := newTestServer(t, 0)

	for _, token := range []string{"", "not-a-jwt"} {
		rec := ts.do(t, "POST", "/ai/risk-assessment", token, assessmentBody("u1"))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: status=%d, want 401", token, rec.Code)
		}
	}
	if ts.assessments.count() != 0 {
		t.Fatalf("unauthenticated requests stored %d assessments", ts.assessments.count())
	}
}

func TestIdenticalRequestsCreateTwoRecords(t *testing.T) {
	ts := newTestServer(t, 0)
	tok := ts.register(t, "sam@example.com")

	ids := map[string]bool{}
	for i := 0; i < 2; i++ {
		rec := ts.do(t, "POST", "/ai/risk-assessment", tok.AccessToken, assessmentBody(tok.UserID))
		if rec.Code != http.StatusOK {
			t.Fatalf("status=%d", rec.Code)
		}
		ids[decode[model.RiskAssessmentResponse](t, rec).AssessmentID] = true
	}
	if ts.assessments.count() != 2 || len(ids) != 2 {
		t.Fatalf("stored=%d distinct ids=%d, want 2/2", ts.assessments.count(), len(ids))
	}
}

func TestRiskAssessmentValidation(t *testing.T) {
	ts := newTestServer(t, 0)
	tok := ts.register(t, "sam@example.com")

	bad := []map[string]interface{}{
		{"social_media_posts": []string{"hi"}},
		{"user_id": tok.UserID, "sleep_hours": 30},
		{"user_id": tok.UserID, "mood_rating": 9},
	}
	for _, body := range bad {
		if rec := ts.do(t, "POST", "/ai/risk-assessment", tok.AccessToken, body); rec.Code != http.StatusBadRequest {
			t.Fatalf("body %v: status=%d, want 400", body, rec.Code)
		}
	}

	req := httptest.NewRequest("POST", "/ai/risk-assessment", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed JSON: status=%d, want 400", rec.Code)
	}
	if ts.assessments.count() != 0 {
		t.Fatalf("invalid requests were stored")
	}
}

func TestRiskAssessmentMinimalBody(t *testing.T) {
	ts := newTestServer(t, 0)
	tok := ts.register(t, "sam@example.com")

	rec := ts.do(t, "POST", "/ai/risk-assessment", tok.AccessToken, map[string]interface{}{"user_id": tok.UserID})
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	resp := decode[model.RiskAssessmentResponse](t, rec)
	if resp.RiskScore != analysis.BaselineScore || resp.Factors == nil {
		t.Fatalf("unexpected minimal response %+v", resp)
	}
}

func TestRiskAssessmentNotSaved(t *testing.T) {
	ts := newTestServer(t, 0)
	tok := ts.register(t, "sam@example.com")
	ts.assessments.fail = true

	rec := ts.do(t, "POST", "/ai/risk-assessment", tok.AccessToken, assessmentBody(tok.UserID))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d, want 503", rec.Code)
	}
	body := decode[struct {
		Error      string                       `json:"error"`
		Assessment model.RiskAssessmentResponse `json:"assessment"`
	}](t, rec)
	if body.Error != service.ErrNotSaved.Error() || body.Assessment.AssessmentID != "" || body.Assessment.RiskLevel == "" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestAuthErrors(t *testing.T) {
	ts := newTestServer(t, 0)
	ts.register(t, "sam@example.com")

	rec := ts.do(t, "POST", "/auth/register", "", map[string]interface{}{
		"firstName": "Sam", "lastName": "Lee", "email": "sam@example.com", "password": "password123",
	})
	if rec.Code != http.StatusBadRequest || decode[map[string]string](t, rec)["error"] != "Email already registered" {
		t.Fatalf("duplicate register: %d %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, "POST", "/auth/login", "", map[string]string{"email": "sam@example.com", "password": "nope-nope"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: status=%d, want 401", rec.Code)
	}

	rec = ts.do(t, "POST", "/auth/login", "", map[string]string{"email": "sam@example.com", "password": "password123"})
	if rec.Code != http.StatusOK || decode[model.TokenResponse](t, rec).TokenType != "bearer" {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
}

func TestAnalyzeTextAndHistory(t *testing.T) {
	ts := newTestServer(t, 0)
	tok := ts.register(t, "sam@example.com")

	rec := ts.do(t, "POST", "/ai/analyze-text", tok.AccessToken, map[string]string{"text": "I am SAD today", "user_id": tok.UserID})
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze-text: %d %s", rec.Code, rec.Body.String())
	}
	analysisResp := decode[model.TextAnalysisResponse](t, rec)
	if analysisResp.AnalysisID == "" || analysisResp.MentalHealthIndicators.DepressionIndicators != 1 {
		t.Fatalf("unexpected analysis %+v", analysisResp)
	}
	if len(ts.behavioral.docs) != 1 {
		t.Fatalf("analysis not stored")
	}

	for i := 0; i < 2; i++ {
		ts.do(t, "POST", "/ai/risk-assessment", tok.AccessToken, assessmentBody(tok.UserID))
	}
	rec = ts.do(t, "GET", "/user/assessments", tok.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history: %d", rec.Code)
	}
	history := decode[model.AssessmentHistoryResponse](t, rec)
	if len(history.Assessments) != 2 || history.Assessments[0].ID != "a2" {
		t.Fatalf("unexpected history %+v", history)
	}

	rec = ts.do(t, "GET", "/user/profile", tok.AccessToken, nil)
	profile := decode[map[string]model.UserProfile](t, rec)
	if rec.Code != http.StatusOK || profile["user"].Email != "sam@example.com" {
		t.Fatalf("profile: %d %s", rec.Code, rec.Body.String())
	}
}

func TestPublicEndpoints(t *testing.T) {
	ts := newTestServer(t, 0)

	if rec := ts.do(t, "GET", "/", "", nil); rec.Code != http.StatusOK || decode[map[string]string](t, rec)["status"] != "running" {
		t.Fatalf("root: %d %s", rec.Code, rec.Body.String())
	}

	rec := ts.do(t, "GET", "/health", "", nil)
	health := decode[service.HealthStatus](t, rec)
	if rec.Code != http.StatusOK || health.Models["sentiment"] != "unavailable" || health.Cache != "disabled" {
		t.Fatalf("health: %d %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest("OPTIONS", "/ai/risk-assessment", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	out := httptest.NewRecorder()
	ts.handler.ServeHTTP(out, req)
	if out.Code != http.StatusOK || out.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("preflight: %d %v", out.Code, out.Header())
	}
	if out.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing request id")
	}
}

func TestAuthRateLimit(t *testing.T) {
	ts := newTestServer(t, 2)
	creds := map[string]string{"email": "x@example.com", "password": "whatever1"}

	for i := 0; i < 2; i++ {
		if rec := ts.do(t, "POST", "/auth/login", "", creds); rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status=%d, want 401", i+1, rec.Code)
		}
	}
	if rec := ts.do(t, "POST", "/auth/login", "", creds); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status=%d, want 429", rec.Code)
	}
}

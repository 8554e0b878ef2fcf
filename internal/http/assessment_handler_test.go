package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"psyscore/internal/domain"
	"psyscore/internal/norms"
	"psyscore/internal/repository"
	"psyscore/internal/scoring"
	"psyscore/internal/service"
)

type memAssessmentRepo struct {
	mu    sync.Mutex
	items map[string]domain.Assessment
}

func (m *memAssessmentRepo) Create(_ context.Context, a domain.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[a.ID] = a
	return nil
}

func (m *memAssessmentRepo) GetByID(_ context.Context, id string) (domain.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return domain.Assessment{}, pgx.ErrNoRows
	}
	return a, nil
}

func (m *memAssessmentRepo) FindSimilar(_ context.Context, id string, k int) ([]domain.SimilarAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.SimilarAssessment{}
	for other, a := range m.items {
		if other == id || len(out) >= k {
			continue
		}
		out = append(out, domain.SimilarAssessment{ID: other, Archetype: a.Result.Archetype.Name, Profile: a.Result.Traits.Profile()})
	}
	return out, nil
}

type testServer struct {
	router *gin.Engine
	jwt    *service.JWTService
}

func newTestServer(t *testing.T, repo *memAssessmentRepo) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	table := norms.Default()

	var assessmentRepo repository.AssessmentRepository
	if repo != nil {
		assessmentRepo = repo
	}
	svc := service.NewAssessmentService(logger, scoring.New(table), assessmentRepo, nil,
		service.NewMemorySubmissionLimiter(time.Hour, 2), service.NewPseudonymizer("k"),
		service.AssessmentOptions{BatchMaxSize: 3})

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash secret: %v", err)
	}
	jwtSvc := service.NewJWTService("secret", time.Hour)
	r := NewRouter(logger, nil, jwtSvc,
		NewAssessmentHandler(logger, svc, service.NewQuestionnaireService(), table),
		NewAuthHandler(logger, service.NewClientAuthenticator("dashboard", string(hash)), jwtSvc),
	)
	return testServer{router: r, jwt: jwtSvc}
}

func (s testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
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
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s testServer) token(t *testing.T) string {
	t.Helper()
	tok, err := s.jwt.GenerateAccessToken("dashboard")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return tok.AccessToken
}

func allFours(respondent string) domain.ScoreRequest {
	var rs []domain.RawResponse
	for _, trait := range domain.CanonicalTraits {
		rs = append(rs, domain.RawResponse{QuestionID: string(trait), Trait: string(trait), RawScore: domain.Score(4), ResponseTimeMs: 5000})
	}
	return domain.ScoreRequest{RespondentID: respondent, Responses: rs}
}

func TestScoreHandler_ReturnsResult(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := srv.do(t, http.MethodPost, "/score", allFours(""), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Result domain.ScoringResult `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result.Traits[domain.Openness].Score != 74 || resp.Result.ScoredCount != 5 {
		t.Fatalf("unexpected result: %+v", resp.Result.Traits)
	}
}

func TestScoreHandler_AcceptsStringScores(t *testing.T) {
	srv := newTestServer(t, nil)
	body := map[string]any{
		"responses": []map[string]any{
			{"question_id": "q1", "trait": "Openness", "raw_score": "5"},
			{"question_id": "q2", "trait": "openness", "raw_score": "bogus"},
			{"question_id": "q3", "trait": "zeal", "raw_score": 4},
		},
	}
	rec := srv.do(t, http.MethodPost, "/score", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Result domain.ScoringResult `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result.ScoredCount != 2 || resp.Result.IgnoredCount != 1 {
		t.Fatalf("unexpected counts: scored=%d ignored=%d", resp.Result.ScoredCount, resp.Result.IgnoredCount)
	}
	// "bogus" cae en el punto medio: (5+3)/2 = 4.
	if resp.Result.Traits[domain.Openness].Score != 74 {
		t.Fatalf("unexpected openness: %d", resp.Result.Traits[domain.Openness].Score)
	}
}

func TestScoreHandler_IgnoresWronglyTypedEntries(t *testing.T) {
	srv := newTestServer(t, nil)
	body := `{"responses":[
		{"question_id":"q1","trait":"openness","raw_score":5,"response_time_ms":"slow"},
		{"question_id":"q2","trait":42,"raw_score":5},
		"oops"
	]}`
	req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Result domain.ScoringResult `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result.ResponseCount != 3 || resp.Result.ScoredCount != 1 || resp.Result.IgnoredCount != 2 {
		t.Fatalf("unexpected counts: %d/%d/%d", resp.Result.ResponseCount, resp.Result.ScoredCount, resp.Result.IgnoredCount)
	}
	if resp.Result.Traits[domain.Openness].Score != 98 {
		t.Fatalf("unexpected openness: %d", resp.Result.Traits[domain.Openness].Score)
	}
}

func TestScoreHandler_RejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestScoreBatchHandler(t *testing.T) {
	srv := newTestServer(t, nil)

	ok := srv.do(t, http.MethodPost, "/score/batch", map[string]any{
		"requests": []domain.ScoreRequest{allFours(""), {}},
	}, "")
	if ok.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", ok.Code)
	}
	var resp struct {
		Results []domain.ScoringResult `json:"results"`
	}
	if err := json.Unmarshal(ok.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 2 || resp.Results[1].ResponseCount != 0 {
		t.Fatalf("unexpected batch results: %d", len(resp.Results))
	}

	tooLarge := srv.do(t, http.MethodPost, "/score/batch", map[string]any{
		"requests": []domain.ScoreRequest{{}, {}, {}, {}},
	}, "")
	if tooLarge.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", tooLarge.Code)
	}
}

func TestQuestionnaireHandlers(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/questionnaire?tier=basic", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var q struct {
		Tier  domain.Tier           `json:"tier"`
		Items []domain.QuestionItem `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q.Tier != domain.TierBasic || len(q.Items) != 15 {
		t.Fatalf("unexpected questionnaire: tier=%s items=%d", q.Tier, len(q.Items))
	}

	var answers []domain.Answer
	for _, it := range q.Items {
		answers = append(answers, domain.Answer{QuestionID: it.ID, Value: domain.Score(3), ResponseTimeMs: 4000})
	}
	scored := srv.do(t, http.MethodPost, "/questionnaire/score", domain.AnswerSheet{Answers: answers}, "")
	if scored.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", scored.Code, scored.Body.String())
	}
	var resp struct {
		Result domain.ScoringResult `json:"result"`
	}
	if err := json.Unmarshal(scored.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result.ScoredCount != 15 || resp.Result.Traits[domain.Neuroticism].Score != 50 {
		t.Fatalf("unexpected scored questionnaire: %+v", resp.Result.Traits)
	}
}

func TestNormsHandler(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := srv.do(t, http.MethodGet, "/norms", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "attention") {
		t.Fatalf("norms response missing instruments: %s", rec.Body.String())
	}
}

func TestTokenHandler(t *testing.T) {
	srv := newTestServer(t, nil)

	bad := srv.do(t, http.MethodPost, "/auth/token", map[string]string{"client_id": "dashboard", "client_secret": "nope"}, "")
	if bad.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", bad.Code)
	}
	missing := srv.do(t, http.MethodPost, "/auth/token", map[string]string{"client_id": "dashboard"}, "")
	if missing.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", missing.Code)
	}

	ok := srv.do(t, http.MethodPost, "/auth/token", map[string]string{"client_id": "dashboard", "client_secret": "s3cret"}, "")
	if ok.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", ok.Code)
	}
	var resp struct {
		Token service.AccessToken `json:"token"`
	}
	if err := json.Unmarshal(ok.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	claims, err := srv.jwt.ParseAccessToken(resp.Token.AccessToken)
	if err != nil || claims.ClientID != "dashboard" {
		t.Fatalf("issued token not valid: %v %+v", err, claims)
	}
}

func TestAssessmentRoutes_SubmitGetSimilar(t *testing.T) {
	repo := &memAssessmentRepo{items: map[string]domain.Assessment{}}
	srv := newTestServer(t, repo)
	token := srv.token(t)

	if rec := srv.do(t, http.MethodPost, "/assessments", allFours("ana@example.com"), ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	var ids []string
	for _, who := range []string{"ana@example.com", "bo@example.com"} {
		rec := srv.do(t, http.MethodPost, "/assessments", allFours(who), token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Assessment domain.Assessment `json:"assessment"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Assessment.RespondentHash == "" || strings.Contains(resp.Assessment.RespondentHash, "@") {
			t.Fatalf("respondent not pseudonymized: %q", resp.Assessment.RespondentHash)
		}
		ids = append(ids, resp.Assessment.ID)
	}

	get := srv.do(t, http.MethodGet, "/assessments/"+ids[0], nil, token)
	if get.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", get.Code)
	}

	similar := srv.do(t, http.MethodGet, "/assessments/"+ids[0]+"/similar?limit=3", nil, token)
	if similar.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", similar.Code)
	}
	var sim struct {
		Similar []domain.SimilarAssessment `json:"similar"`
	}
	if err := json.Unmarshal(similar.Body.Bytes(), &sim); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sim.Similar) != 1 || sim.Similar[0].ID != ids[1] {
		t.Fatalf("unexpected neighbours: %+v", sim.Similar)
	}

	if rec := srv.do(t, http.MethodGet, "/assessments/"+ids[0]+"/similar?limit=x", nil, token); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodGet, "/assessments/not-a-uuid", nil, token); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodGet, "/assessments/7a1c6c02-5a4b-4f4e-9a39-2f0d3c1f6f00", nil, token); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAssessmentRoutes_ErrorMapping(t *testing.T) {
	noDB := newTestServer(t, nil)
	token := noDB.token(t)
	if rec := noDB.do(t, http.MethodPost, "/assessments", allFours("ana"), token); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without persistence, got %d", rec.Code)
	}

	srv := newTestServer(t, &memAssessmentRepo{items: map[string]domain.Assessment{}})
	token = srv.token(t)
	if rec := srv.do(t, http.MethodPost, "/assessments", allFours("  "), token); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank respondent, got %d", rec.Code)
	}
	for i := 0; i < 2; i++ {
		if rec := srv.do(t, http.MethodPost, "/assessments", allFours("ana"), token); rec.Code != http.StatusCreated {
			t.Fatalf("submission %d: expected 201, got %d", i, rec.Code)
		}
	}
	if rec := srv.do(t, http.MethodPost, "/assessments", allFours("ANA"), token); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", rec.Code)
	}
}

func TestRouter_HealthAndCORS(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := srv.do(t, http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}

	req := httptest.NewRequest(http.MethodOptions, "/score", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	pre := httptest.NewRecorder()
	srv.router.ServeHTTP(pre, req)
	if pre.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected CORS headers on preflight, got %v", pre.Header())
	}
}

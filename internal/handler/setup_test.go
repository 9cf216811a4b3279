package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Fozan3060/ai-career-coach/internal/domain"
	"github.com/Fozan3060/ai-career-coach/internal/middleware"
)

const (
	testJWTSecret = "test-jwt-secret"
	testUserEmail = "user@example.com"
	testUserName  = "Test User"
)

// signToken issues a session token for the given plan.
func signToken(t *testing.T, plan string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		Email: testUserEmail,
		Name:  testUserName,
		Plan:  plan,
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// newAuthedRouter returns a gin engine with session auth applied, ready for
// route registration.
func newAuthedRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Auth(testJWTSecret))
	return r
}

// doJSON performs a JSON request against the router and returns the recorder.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody decodes the recorder body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

// stubDispatcher returns a scripted output or error and records the call.
type stubDispatcher struct {
	output     json.RawMessage
	err        error
	gotTask    string
	gotPayload any
	gotCalls   int
}

func (s *stubDispatcher) RunTaskAndAwait(_ context.Context, taskName string, payload any) (json.RawMessage, error) {
	s.gotTask = taskName
	s.gotPayload = payload
	s.gotCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.output, nil
}

// stubHistory is an in-memory history store.
type stubHistory struct {
	created []domain.HistoryRecord
	records map[string]*domain.HistoryRecord
	byUser  []domain.HistoryRecord
	err     error
}

func newStubHistory() *stubHistory {
	return &stubHistory{records: map[string]*domain.HistoryRecord{}}
}

func (s *stubHistory) Create(_ context.Context, rec *domain.HistoryRecord) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.created = append(s.created, *rec)
	return int64(len(s.created)), nil
}

func (s *stubHistory) ReplaceContent(_ context.Context, recordID string, content json.RawMessage) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	rec, ok := s.records[recordID]
	if !ok {
		return 0, nil
	}
	rec.Content = content
	return 1, nil
}

func (s *stubHistory) GetByRecordID(_ context.Context, recordID string) (*domain.HistoryRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	rec, ok := s.records[recordID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func (s *stubHistory) ListByUserEmail(_ context.Context, _ string) ([]domain.HistoryRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byUser, nil
}

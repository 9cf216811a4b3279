package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Fozan3060/ai-career-coach/internal/agentrun"
	"github.com/Fozan3060/ai-career-coach/internal/domain"
	"github.com/Fozan3060/ai-career-coach/internal/handler"
	"github.com/Fozan3060/ai-career-coach/internal/logger"
)

func newRoadmapRouter(t *testing.T, d *stubDispatcher, store *stubHistory) *gin.Engine {
	t.Helper()

	r := newAuthedRouter(t)
	h := handler.NewRoadmapHandler(d, store, logger.NewNop())
	r.POST("/ai-roadmap-agent", h.Generate)
	return r
}

func TestRoadmap_ParsesFencedOutputAndPersists(t *testing.T) {
	// The run output is a JSON-encoded string of model text wrapped in
	// markdown fences, as models tend to produce.
	modelText := "```json\n{\"roadmapTitle\":\"Backend Developer\",\"initialNodes\":[]}\n```"
	encoded, err := json.Marshal(modelText)
	if err != nil {
		t.Fatalf("failed to encode model text: %v", err)
	}

	d := &stubDispatcher{output: encoded}
	store := newStubHistory()
	r := newRoadmapRouter(t, d, store)
	token := signToken(t, "")

	w := doJSON(t, r, http.MethodPost, "/ai-roadmap-agent", token, map[string]string{
		"roadmapId": "rm-1",
		"userInput": "Backend Developer",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if d.gotTask != domain.TaskRoadmapGenerator {
		t.Errorf("dispatched task = %q, want %q", d.gotTask, domain.TaskRoadmapGenerator)
	}

	var body struct {
		Output struct {
			RoadmapTitle string `json:"roadmapTitle"`
		} `json:"output"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Output.RoadmapTitle != "Backend Developer" {
		t.Errorf("roadmapTitle = %q, want %q", body.Output.RoadmapTitle, "Backend Developer")
	}

	if len(store.created) != 1 {
		t.Fatalf("created %d records, want 1", len(store.created))
	}
	rec := store.created[0]
	if rec.RecordID != "rm-1" {
		t.Errorf("RecordID = %q, want rm-1", rec.RecordID)
	}
	if rec.UserEmail != testUserEmail {
		t.Errorf("UserEmail = %q, want %q", rec.UserEmail, testUserEmail)
	}
	if rec.AIAgentType != domain.TagRoadmap {
		t.Errorf("AIAgentType = %q, want %q", rec.AIAgentType, domain.TagRoadmap)
	}
}

func TestRoadmap_MissingFields(t *testing.T) {
	d := &stubDispatcher{}
	r := newRoadmapRouter(t, d, newStubHistory())
	token := signToken(t, "")

	w := doJSON(t, r, http.MethodPost, "/ai-roadmap-agent", token, map[string]string{
		"userInput": "Backend Developer",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if d.gotCalls != 0 {
		t.Errorf("dispatcher called %d times, want 0", d.gotCalls)
	}
}

func TestRoadmap_MalformedModelOutput(t *testing.T) {
	d := &stubDispatcher{output: json.RawMessage(`"this is not json at all"`)}
	store := newStubHistory()
	r := newRoadmapRouter(t, d, store)
	token := signToken(t, "")

	w := doJSON(t, r, http.MethodPost, "/ai-roadmap-agent", token, map[string]string{
		"roadmapId": "rm-1",
		"userInput": "Backend Developer",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if len(store.created) != 0 {
		t.Errorf("created %d records, want 0", len(store.created))
	}
}

func TestRoadmap_TimeoutDoesNotPersist(t *testing.T) {
	d := &stubDispatcher{err: agentrun.ErrTimeout}
	store := newStubHistory()
	r := newRoadmapRouter(t, d, store)
	token := signToken(t, "")

	w := doJSON(t, r, http.MethodPost, "/ai-roadmap-agent", token, map[string]string{
		"roadmapId": "rm-1",
		"userInput": "Backend Developer",
	})
	if w.Code != http.StatusRequestTimeout {
		t.Fatalf("status = %d, want 408", w.Code)
	}
	if len(store.created) != 0 {
		t.Errorf("created %d records, want 0", len(store.created))
	}
}

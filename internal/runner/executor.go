package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Fozan3060/ai-career-coach/internal/agents"
	"github.com/Fozan3060/ai-career-coach/internal/domain"
	"github.com/Fozan3060/ai-career-coach/internal/logger"
)

// taskTimeout bounds a single agent execution. Pollers give up after about
// 30 seconds, but the run itself is allowed to finish and store its result.
const taskTimeout = 2 * time.Minute

// taskFunc executes one named task and returns the run output payload.
type taskFunc func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)

// Executor runs dispatched agent tasks and records their outcome in the
// registry. Once started, a run is never cancelled externally; it ends in
// exactly one terminal state.
type Executor struct {
	registry *Registry
	provider agents.Provider
	log      logger.Logger
	tasks    map[string]taskFunc
}

// NewExecutor creates an executor with all career agent tasks registered.
func NewExecutor(registry *Registry, provider agents.Provider, log logger.Logger) *Executor {
	e := &Executor{
		registry: registry,
		provider: provider,
		log:      log,
	}
	e.tasks = map[string]taskFunc{
		domain.TaskCareerChat:           e.runCareerChat,
		domain.TaskResumeAnalyzer:       e.runResumeAnalyzer,
		domain.TaskRoadmapGenerator:     e.runRoadmapGenerator,
		domain.TaskCoverLetterGenerator: e.runCoverLetterGenerator,
	}
	return e
}

// Known reports whether taskName is registered.
func (e *Executor) Known(taskName string) bool {
	_, ok := e.tasks[taskName]
	return ok
}

// Execute runs the task for an already-registered run record and stores the
// terminal status. It is called on its own goroutine; the dispatch response
// does not wait for it.
func (e *Executor) Execute(runID, taskName string, payload json.RawMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	log := e.log.With(logger.String("run_id", runID), logger.String("task", taskName))

	if err := e.registry.SetRunning(ctx, runID); err != nil {
		log.Error("Failed to mark run running", logger.Error(err))
		return
	}

	task := e.tasks[taskName]
	output, err := task(ctx, payload)
	if err != nil {
		log.Warn("Agent task failed", logger.Error(err))
		if setErr := e.registry.SetFailed(ctx, runID, err.Error()); setErr != nil {
			log.Error("Failed to record run failure", logger.Error(setErr))
		}
		return
	}

	if setErr := e.registry.SetCompleted(ctx, runID, output); setErr != nil {
		log.Error("Failed to record run output", logger.Error(setErr))
		return
	}
	log.Info("Agent task completed")
}

// chatMessage is one assistant message in the chat task output.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatOutput mirrors the agent-kit result shape the web client reads:
// the reply sits in output[0].content.
type chatOutput struct {
	Output []chatMessage `json:"output"`
}

type chatPayload struct {
	UserInput string `json:"userInput"`
}

func (e *Executor) runCareerChat(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	var p chatPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode chat payload: %w", err)
	}
	if strings.TrimSpace(p.UserInput) == "" {
		return nil, fmt.Errorf("empty userInput")
	}

	text, err := e.provider.Generate(ctx, agents.CareerChatPrompt, p.UserInput)
	if err != nil {
		return nil, err
	}

	return json.Marshal(chatOutput{
		Output: []chatMessage{{Role: "assistant", Content: text}},
	})
}

type resumePayload struct {
	RecordID         string `json:"recordId"`
	Base64ResumeFile string `json:"base64ResumeFile"`
	PDFText          string `json:"pdfText"`
	AIAgentType      string `json:"aiAgentType"`
	UserEmail        string `json:"userEmail"`
}

func (e *Executor) runResumeAnalyzer(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	var p resumePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode resume payload: %w", err)
	}
	if strings.TrimSpace(p.PDFText) == "" {
		return nil, fmt.Errorf("empty resume text")
	}

	text, err := e.provider.Generate(ctx, agents.ResumeAnalyzerPrompt, p.PDFText)
	if err != nil {
		return nil, err
	}
	return json.Marshal(text)
}

type roadmapPayload struct {
	RoadmapID string `json:"roadmapId"`
	UserInput string `json:"userInput"`
	UserEmail string `json:"userEmail"`
}

func (e *Executor) runRoadmapGenerator(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	var p roadmapPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode roadmap payload: %w", err)
	}
	if strings.TrimSpace(p.UserInput) == "" {
		return nil, fmt.Errorf("empty userInput")
	}

	text, err := e.provider.Generate(ctx, agents.RoadmapGeneratorPrompt, p.UserInput)
	if err != nil {
		return nil, err
	}
	return json.Marshal(text)
}

type coverLetterPayload struct {
	FullName         string `json:"fullName"`
	JobTitle         string `json:"jobTitle"`
	CompanyName      string `json:"companyName"`
	ResumeHighlights string `json:"resumeHighlights"`
	JobDescription   string `json:"jobDescription"`
	UserEmail        string `json:"userEmail"`
}

func (e *Executor) runCoverLetterGenerator(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	var p coverLetterPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decode cover letter payload: %w", err)
	}

	user := fmt.Sprintf(
		"Full name: %s\nJob title: %s\nCompany: %s\n\nResume highlights:\n%s\n\nJob description:\n%s",
		p.FullName, p.JobTitle, p.CompanyName, p.ResumeHighlights, p.JobDescription,
	)

	text, err := e.provider.Generate(ctx, agents.CoverLetterPrompt, user)
	if err != nil {
		return nil, err
	}
	return json.Marshal(text)
}

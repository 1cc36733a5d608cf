package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/ai"
)

// TurnSummary is one prior exchange given to the interviewer as context.
type TurnSummary struct {
	Question string
	Answer   string
}

// MockContext describes the ongoing mock-interview session.
type MockContext struct {
	JobTitle       string
	JobDescription string
	PriorTurns     []TurnSummary
}

// MockQuestion is the next question to ask.
type MockQuestion struct {
	Question string `json:"question"`
	Category string `json:"category"`
}

// EvalInput is one answered question to score.
type EvalInput struct {
	Question string
	Answer   string
}

// Evaluation is the validated scoring of one answer.
type Evaluation struct {
	Score          int      `json:"score"`
	Feedback       string   `json:"feedback"`
	StrongPoints   []string `json:"strong_points"`
	AreasToImprove []string `json:"areas_to_improve"`
}

// MockInterviewer runs a turn-based mock interview: it asks the next
// question and evaluates each answer.
type MockInterviewer struct {
	opts Opts
}

// NewMockInterviewer builds a mock interviewer on the given client.
func NewMockInterviewer(opts Opts) *MockInterviewer {
	return &MockInterviewer{opts: opts}
}

const mockQuestionSystem = `You are conducting a realistic mock interview.
Given the job and the questions already asked, ask the single next question.
Do not repeat ground already covered; escalate naturally as the interview
progresses.

Respond in this JSON format:
{
  "question": string,
  "category": "behavioral" | "technical" | "situational" | "company"
}
`

// NextQuestion asks the model for the next interview question.
func (a *MockInterviewer) NextQuestion(ctx context.Context, mc MockContext) ai.Response[MockQuestion] {
	if strings.TrimSpace(mc.JobTitle) == "" {
		return ai.Fail[MockQuestion](ai.InvalidInput("jobTitle is required"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Job title: %s\n", mc.JobTitle)
	if strings.TrimSpace(mc.JobDescription) != "" {
		fmt.Fprintf(&b, "\nJob description:\n%s\n", mc.JobDescription)
	}
	if len(mc.PriorTurns) > 0 {
		b.WriteString("\nAlready asked:\n")
		for i, turn := range mc.PriorTurns {
			fmt.Fprintf(&b, "%d. %s\n", i+1, turn.Question)
		}
	}

	req := ai.Request{
		SystemPrompt: mockQuestionSystem + jsonOnly,
		UserMessage:  b.String(),
		Temperature:  0.7,
	}
	return ai.Invoke(ctx, a.opts.Client, a.opts.Retry, req, parseMockQuestion)
}

func parseMockQuestion(text string) (MockQuestion, *ai.AgentError) {
	var out MockQuestion
	if aerr := ai.DecodeObject(text, &out); aerr != nil {
		return MockQuestion{}, aerr
	}
	if aerr := ai.RequireNonEmpty("question", out.Question); aerr != nil {
		return MockQuestion{}, aerr
	}
	if aerr := ai.RequireOneOf("category", out.Category, questionCategories); aerr != nil {
		return MockQuestion{}, aerr
	}
	return out, nil
}

const mockEvalSystem = `You are an interview coach scoring one answer.
Score the answer from 0 to 100 for substance, structure, and relevance, with
direct feedback, what worked, and what to improve.

Respond in this JSON format:
{
  "score": number,
  "feedback": string,
  "strong_points": [string],
  "areas_to_improve": [string]
}
`

// Evaluate scores one answered question.
func (a *MockInterviewer) Evaluate(ctx context.Context, in EvalInput) ai.Response[Evaluation] {
	if strings.TrimSpace(in.Question) == "" {
		return ai.Fail[Evaluation](ai.InvalidInput("question is required"))
	}
	if strings.TrimSpace(in.Answer) == "" {
		return ai.Fail[Evaluation](ai.InvalidInput("answer is required"))
	}

	req := ai.Request{
		SystemPrompt: mockEvalSystem + jsonOnly,
		UserMessage:  fmt.Sprintf("Question: %s\n\nCandidate answer:\n%s\n", in.Question, in.Answer),
		Temperature:  0.3,
	}
	return ai.Invoke(ctx, a.opts.Client, a.opts.Retry, req, parseEvaluation)
}

func parseEvaluation(text string) (Evaluation, *ai.AgentError) {
	var out Evaluation
	if aerr := ai.DecodeObject(text, &out); aerr != nil {
		return Evaluation{}, aerr
	}
	if aerr := ai.RequireScore("score", out.Score); aerr != nil {
		return Evaluation{}, aerr
	}
	if aerr := ai.RequireNonEmpty("feedback", out.Feedback); aerr != nil {
		return Evaluation{}, aerr
	}
	for field, arr := range map[string][]string{
		"strong_points":    out.StrongPoints,
		"areas_to_improve": out.AreasToImprove,
	} {
		if aerr := ai.RequireArray(field, arr); aerr != nil {
			return Evaluation{}, aerr
		}
	}
	return out, nil
}

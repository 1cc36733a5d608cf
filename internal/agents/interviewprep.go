package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/ai"
)

// PrepInput describes the interview to prepare for.
type PrepInput struct {
	JobTitle       string
	JobDescription string
	ResumeText     string
}

// PrepQuestion is one generated interview question.
type PrepQuestion struct {
	Question   string `json:"question"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Hint       string `json:"hint"`
}

// PrepResult is the validated question set.
type PrepResult struct {
	Questions []PrepQuestion `json:"questions"`
}

// InterviewPrep generates likely interview questions for a job.
type InterviewPrep struct {
	opts Opts
}

// NewInterviewPrep builds an interview-prep agent on the given client.
func NewInterviewPrep(opts Opts) *InterviewPrep {
	return &InterviewPrep{opts: opts}
}

const interviewPrepSystem = `You are an experienced interviewer preparing a candidate.
Generate 8-12 questions this candidate is likely to face for the given job,
mixing behavioral, technical, situational, and company questions across
difficulties, with a short hint on how to approach each.

Respond in this JSON format:
{
  "questions": [
    {
      "question": string,
      "category": "behavioral" | "technical" | "situational" | "company",
      "difficulty": "easy" | "medium" | "hard",
      "hint": string
    }
  ]
}

Ground technical questions in the job description's actual stack. `

// Generate validates the input, invokes the model, and returns the validated
// question set.
func (a *InterviewPrep) Generate(ctx context.Context, in PrepInput) ai.Response[PrepResult] {
	if strings.TrimSpace(in.JobTitle) == "" {
		return ai.Fail[PrepResult](ai.InvalidInput("jobTitle is required"))
	}
	if len(strings.TrimSpace(in.JobDescription)) < minDescriptionLen {
		return ai.Fail[PrepResult](ai.InvalidInput(fmt.Sprintf("jobDescription must be at least %d characters", minDescriptionLen)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Job title: %s\n\nJob description:\n%s\n", in.JobTitle, in.JobDescription)
	if strings.TrimSpace(in.ResumeText) != "" {
		fmt.Fprintf(&b, "\nCandidate resume:\n%s\n", in.ResumeText)
	}

	req := ai.Request{
		SystemPrompt: interviewPrepSystem + jsonOnly,
		UserMessage:  b.String(),
		Temperature:  0.5,
	}
	return ai.Invoke(ctx, a.opts.Client, a.opts.Retry, req, parsePrepResult)
}

func parsePrepResult(text string) (PrepResult, *ai.AgentError) {
	var out PrepResult
	if aerr := ai.DecodeObject(text, &out); aerr != nil {
		return PrepResult{}, aerr
	}
	if out.Questions == nil {
		return PrepResult{}, ai.ValidationError("questions is required and must be an array")
	}
	if len(out.Questions) == 0 {
		return PrepResult{}, ai.ValidationError("questions must not be empty")
	}
	for i, q := range out.Questions {
		if aerr := ai.RequireNonEmpty(fmt.Sprintf("questions[%d].question", i), q.Question); aerr != nil {
			return PrepResult{}, aerr
		}
		if aerr := ai.RequireOneOf(fmt.Sprintf("questions[%d].category", i), q.Category, questionCategories); aerr != nil {
			return PrepResult{}, aerr
		}
		if aerr := ai.RequireOneOf(fmt.Sprintf("questions[%d].difficulty", i), q.Difficulty, questionDifficulties); aerr != nil {
			return PrepResult{}, aerr
		}
	}
	return out, nil
}

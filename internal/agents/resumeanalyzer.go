package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/ai"
)

// minResumeLen rejects fragments; a usable resume is at least this long.
const minResumeLen = 100

// ResumeInput is the resume text to review.
type ResumeInput struct {
	ResumeText string
}

// ResumeAnalysis is the validated review of a resume.
type ResumeAnalysis struct {
	OverallScore   int            `json:"overall_score"`
	Strengths      []string       `json:"strengths"`
	Weaknesses     []string       `json:"weaknesses"`
	Suggestions    []string       `json:"suggestions"`
	KeywordDensity map[string]int `json:"keyword_density"`
	Summary        string         `json:"summary"`
}

// ResumeAnalyzer reviews a resume on its own, independent of any job.
type ResumeAnalyzer struct {
	opts Opts
}

// NewResumeAnalyzer builds a resume analyzer on the given client.
func NewResumeAnalyzer(opts Opts) *ResumeAnalyzer {
	return &ResumeAnalyzer{opts: opts}
}

const resumeAnalyzerSystem = `You are an expert resume reviewer with hiring experience.
Review the resume for clarity, impact, and completeness. Identify concrete
strengths and weaknesses, actionable suggestions, and the density of notable
skill keywords (keyword to occurrence count). Assign an overall score from
0 to 100.

Respond in this JSON format:
{
  "overall_score": number,
  "strengths": [string],
  "weaknesses": [string],
  "suggestions": [string],
  "keyword_density": {"keyword": number},
  "summary": string
}

Base all reasoning only on the provided text. `

// Analyze validates the input, invokes the model, and returns the validated
// review.
func (a *ResumeAnalyzer) Analyze(ctx context.Context, in ResumeInput) ai.Response[ResumeAnalysis] {
	if len(strings.TrimSpace(in.ResumeText)) < minResumeLen {
		return ai.Fail[ResumeAnalysis](ai.InvalidInput(fmt.Sprintf("resumeText must be at least %d characters", minResumeLen)))
	}

	req := ai.Request{
		SystemPrompt: resumeAnalyzerSystem + jsonOnly,
		UserMessage:  fmt.Sprintf("Resume:\n%s\n", in.ResumeText),
		Temperature:  0.2,
	}
	return ai.Invoke(ctx, a.opts.Client, a.opts.Retry, req, parseResumeAnalysis)
}

func parseResumeAnalysis(text string) (ResumeAnalysis, *ai.AgentError) {
	var out ResumeAnalysis
	if aerr := ai.DecodeObject(text, &out); aerr != nil {
		return ResumeAnalysis{}, aerr
	}
	if aerr := ai.RequireScore("overall_score", out.OverallScore); aerr != nil {
		return ResumeAnalysis{}, aerr
	}
	for field, arr := range map[string][]string{
		"strengths":   out.Strengths,
		"weaknesses":  out.Weaknesses,
		"suggestions": out.Suggestions,
	} {
		if aerr := ai.RequireArray(field, arr); aerr != nil {
			return ResumeAnalysis{}, aerr
		}
	}
	if aerr := ai.RequireNonEmpty("summary", out.Summary); aerr != nil {
		return ResumeAnalysis{}, aerr
	}
	return out, nil
}

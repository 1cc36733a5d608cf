package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/ai"
)

// minDescriptionLen guards against pasting a job title into the description
// field; anything shorter carries too little signal to analyze.
const minDescriptionLen = 50

// JobInput is the caller-supplied posting to analyze. ResumeText is
// optional; when present the match score is computed against it.
type JobInput struct {
	JobTitle       string
	CompanyName    string
	JobDescription string
	ResumeText     string
}

// JobAnalysis is the validated analysis of one job posting.
type JobAnalysis struct {
	MatchScore       int      `json:"match_score"`
	Seniority        string   `json:"seniority"`
	RequiredSkills   []string `json:"required_skills"`
	NiceToHaveSkills []string `json:"nice_to_have_skills"`
	Responsibilities []string `json:"responsibilities"`
	RedFlags         []string `json:"red_flags"`
	Summary          string   `json:"summary"`
}

// JobAnalyzer evaluates a job posting and how well the candidate fits it.
type JobAnalyzer struct {
	opts Opts
}

// NewJobAnalyzer builds a job analyzer on the given client.
func NewJobAnalyzer(opts Opts) *JobAnalyzer {
	return &JobAnalyzer{opts: opts}
}

func (a *JobAnalyzer) validate(in JobInput) *ai.AgentError {
	if strings.TrimSpace(in.JobTitle) == "" {
		return ai.InvalidInput("jobTitle is required")
	}
	if strings.TrimSpace(in.CompanyName) == "" {
		return ai.InvalidInput("companyName is required")
	}
	if len(strings.TrimSpace(in.JobDescription)) < minDescriptionLen {
		return ai.InvalidInput(fmt.Sprintf("jobDescription must be at least %d characters", minDescriptionLen))
	}
	return nil
}

const jobAnalyzerSystem = `You are an expert career advisor who evaluates job postings.
Analyze the posting for a candidate deciding whether to apply: extract the
required and nice-to-have skills, the core responsibilities, the seniority
level, and any red flags (vague scope, unrealistic expectations, pay opacity).
Assign a match score from 0 to 100. When a resume is provided, score how well
that candidate matches the posting; otherwise score the overall quality and
clarity of the posting itself.

Respond in this JSON format:
{
  "match_score": number,
  "seniority": "entry" | "mid" | "senior" | "lead" | "executive",
  "required_skills": [string],
  "nice_to_have_skills": [string],
  "responsibilities": [string],
  "red_flags": [string],
  "summary": string
}

Base all reasoning only on the provided text. Do not invent requirements. `

func (a *JobAnalyzer) prompt(in JobInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job title: %s\nCompany: %s\n\nJob description:\n%s\n", in.JobTitle, in.CompanyName, in.JobDescription)
	if strings.TrimSpace(in.ResumeText) != "" {
		fmt.Fprintf(&b, "\nCandidate resume:\n%s\n", in.ResumeText)
	}
	return b.String()
}

// Analyze validates the input, invokes the model, and returns the validated
// analysis. Input failures return INVALID_INPUT without a vendor call.
func (a *JobAnalyzer) Analyze(ctx context.Context, in JobInput) ai.Response[JobAnalysis] {
	if aerr := a.validate(in); aerr != nil {
		return ai.Fail[JobAnalysis](aerr)
	}

	req := ai.Request{
		SystemPrompt: jobAnalyzerSystem + jsonOnly,
		UserMessage:  a.prompt(in),
		Temperature:  0.2,
	}
	return ai.Invoke(ctx, a.opts.Client, a.opts.Retry, req, parseJobAnalysis)
}

func parseJobAnalysis(text string) (JobAnalysis, *ai.AgentError) {
	var out JobAnalysis
	if aerr := ai.DecodeObject(text, &out); aerr != nil {
		return JobAnalysis{}, aerr
	}
	if aerr := ai.RequireScore("match_score", out.MatchScore); aerr != nil {
		return JobAnalysis{}, aerr
	}
	if aerr := ai.RequireOneOf("seniority", out.Seniority, seniorityLevels); aerr != nil {
		return JobAnalysis{}, aerr
	}
	for field, arr := range map[string][]string{
		"required_skills":     out.RequiredSkills,
		"nice_to_have_skills": out.NiceToHaveSkills,
		"responsibilities":    out.Responsibilities,
		"red_flags":           out.RedFlags,
	} {
		if aerr := ai.RequireArray(field, arr); aerr != nil {
			return JobAnalysis{}, aerr
		}
	}
	if aerr := ai.RequireNonEmpty("summary", out.Summary); aerr != nil {
		return JobAnalysis{}, aerr
	}
	return out, nil
}

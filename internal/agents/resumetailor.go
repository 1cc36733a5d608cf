package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/ai"
)

// Project is an external project (e.g. imported from GitHub) offered to the
// tailor as extra material.
type Project struct {
	Name        string
	Description string
	Language    string
	URL         string
	Stars       int
}

// TailorInput pairs a resume with the job to tailor it toward.
type TailorInput struct {
	ResumeText     string
	JobDescription string
	Projects       []Project
}

// TailoredResume is the validated tailoring result.
type TailoredResume struct {
	TailoredSummary   string   `json:"tailored_summary"`
	Highlights        []string `json:"highlights"`
	KeywordsAdded     []string `json:"keywords_added"`
	SectionsRewritten []string `json:"sections_rewritten"`
	FitScore          int      `json:"fit_score"`
}

// ResumeTailor rewrites resume material toward one job description.
type ResumeTailor struct {
	opts Opts
}

// NewResumeTailor builds a resume tailor on the given client.
func NewResumeTailor(opts Opts) *ResumeTailor {
	return &ResumeTailor{opts: opts}
}

const resumeTailorSystem = `You are an expert resume writer.
Tailor the candidate's resume toward the given job description: rewrite the
professional summary, pick the strongest highlights to lead with, and list
the job-description keywords you worked in. When side projects are provided,
use them where they strengthen the fit. Score the tailored fit from 0 to 100.

Respond in this JSON format:
{
  "tailored_summary": string,
  "highlights": [string],
  "keywords_added": [string],
  "sections_rewritten": [string],
  "fit_score": number
}

Never invent experience the candidate does not have. `

func (a *ResumeTailor) prompt(in TailorInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Resume:\n%s\n\nTarget job description:\n%s\n", in.ResumeText, in.JobDescription)
	if len(in.Projects) > 0 {
		b.WriteString("\nSide projects:\n")
		for _, p := range in.Projects {
			fmt.Fprintf(&b, "- %s (%s, %d stars): %s\n", p.Name, p.Language, p.Stars, p.Description)
		}
	}
	return b.String()
}

// Tailor validates the input, invokes the model, and returns the validated
// tailoring result.
func (a *ResumeTailor) Tailor(ctx context.Context, in TailorInput) ai.Response[TailoredResume] {
	if len(strings.TrimSpace(in.ResumeText)) < minResumeLen {
		return ai.Fail[TailoredResume](ai.InvalidInput(fmt.Sprintf("resumeText must be at least %d characters", minResumeLen)))
	}
	if len(strings.TrimSpace(in.JobDescription)) < minDescriptionLen {
		return ai.Fail[TailoredResume](ai.InvalidInput(fmt.Sprintf("jobDescription must be at least %d characters", minDescriptionLen)))
	}

	req := ai.Request{
		SystemPrompt: resumeTailorSystem + jsonOnly,
		UserMessage:  a.prompt(in),
		Temperature:  0.4,
	}
	return ai.Invoke(ctx, a.opts.Client, a.opts.Retry, req, parseTailoredResume)
}

func parseTailoredResume(text string) (TailoredResume, *ai.AgentError) {
	var out TailoredResume
	if aerr := ai.DecodeObject(text, &out); aerr != nil {
		return TailoredResume{}, aerr
	}
	if aerr := ai.RequireNonEmpty("tailored_summary", out.TailoredSummary); aerr != nil {
		return TailoredResume{}, aerr
	}
	for field, arr := range map[string][]string{
		"highlights":         out.Highlights,
		"keywords_added":     out.KeywordsAdded,
		"sections_rewritten": out.SectionsRewritten,
	} {
		if aerr := ai.RequireArray(field, arr); aerr != nil {
			return TailoredResume{}, aerr
		}
	}
	if aerr := ai.RequireScore("fit_score", out.FitScore); aerr != nil {
		return TailoredResume{}, aerr
	}
	return out, nil
}

// Package agents implements the AI-backed analysis agents. Each agent
// validates its input, builds a prompt, and invokes the model through the
// ai package, validating the JSON reply field by field before returning it.
package agents

import (
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/ai"
)

// Opts wires an agent to its model client and retry bounds. Agents hold no
// other state; every call is independent.
type Opts struct {
	Client ai.Client
	Retry  ai.RetryOptions
}

// jsonOnly is appended to every system prompt. The parsers still strip
// fences and reprompt on non-JSON, but asking first cuts the retry rate.
const jsonOnly = "Return only a single valid JSON object. " +
	"Do not include explanations, markdown fences, or any text before or after the JSON."

var (
	seniorityLevels      = []string{"entry", "mid", "senior", "lead", "executive"}
	questionCategories   = []string{"behavioral", "technical", "situational", "company"}
	questionDifficulties = []string{"easy", "medium", "hard"}
)

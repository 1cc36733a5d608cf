package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/ai"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/agents"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/db"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/interview"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/job"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/models"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/resume"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubClient plays back canned reply texts, one per call.
type stubClient struct {
	calls int
	texts []string
	errs  []error
}

func (c *stubClient) Complete(ctx context.Context, req ai.Request) (*ai.RawResponse, error) {
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return nil, c.errs[i]
	}
	text := ""
	if i < len(c.texts) {
		text = c.texts[i]
	} else if len(c.texts) > 0 {
		text = c.texts[len(c.texts)-1]
	}
	return &ai.RawResponse{
		Text:       text,
		Usage:      ai.Usage{InputTokens: 100, OutputTokens: 50},
		Model:      "claude-sonnet-4",
		StopReason: "end_turn",
	}, nil
}

func (c *stubClient) Model() string { return "claude-sonnet-4" }

func testRouter(t *testing.T, client *stubClient) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(db.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := gdb.Create(&models.User{ID: "usr-1", Email: "alice@example.com", Name: "Alice"}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	router := NewRouter(StartOpts{
		DB: gdb,
		AI: agents.Opts{
			Client: client,
			Retry:  ai.RetryOptions{MaxRetries: 2, RetryDelay: time.Millisecond},
		},
	})
	return router, gdb
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	router, _ := testRouter(t, &stubClient{})
	w := doJSON(t, router, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestJobCRUDOverHTTP(t *testing.T) {
	router, _ := testRouter(t, &stubClient{})

	// Create.
	w := doJSON(t, router, http.MethodPost, "/api/jobs", gin.H{
		"userId": "usr-1", "title": "Backend Engineer", "company": "Acme",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	var created models.Job
	decode(t, w, &created)
	if created.Status != job.StatusWishlist {
		t.Errorf("new job status = %q, want wishlist", created.Status)
	}

	// List with filter.
	w = doJSON(t, router, http.MethodGet, "/api/jobs?company=Acme", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var jobs []models.Job
	decode(t, w, &jobs)
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	// Update (status key rejected).
	w = doJSON(t, router, http.MethodPatch, "/api/jobs/"+created.ID, gin.H{"status": "applied"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status via PATCH should be rejected, got %d", w.Code)
	}
	w = doJSON(t, router, http.MethodPatch, "/api/jobs/"+created.ID, gin.H{"notes": "referred by Sam"})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", w.Code, w.Body.String())
	}

	// Unknown ID.
	w = doJSON(t, router, http.MethodGet, "/api/jobs/job-zzzzz", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get unknown = %d, want 404", w.Code)
	}

	// Delete.
	w = doJSON(t, router, http.MethodDelete, "/api/jobs/"+created.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", w.Code)
	}
}

func TestJobApplicationsOverHTTP(t *testing.T) {
	router, gdb := testRouter(t, &stubClient{})
	j, err := job.Create(gdb, job.CreateOpts{UserID: "usr-1", Title: "SRE", Company: "Globex"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	w := doJSON(t, router, http.MethodPost, "/api/jobs/"+j.ID+"/applications", gin.H{
		"resumeId": "res-aaaaa", "method": "portal",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("record application status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/jobs/"+j.ID+"/applications", gin.H{
		"method": "fax",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown method status = %d, want 400", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/jobs/"+j.ID+"/applications", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list applications status = %d", w.Code)
	}
	var apps []models.Application
	decode(t, w, &apps)
	if len(apps) != 1 || apps[0].Method != "portal" {
		t.Errorf("applications = %+v, want one portal application", apps)
	}

	w = doJSON(t, router, http.MethodGet, "/api/jobs/job-zzzzz/applications", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown job status = %d, want 404", w.Code)
	}
}

func TestJobStatusTransitionOverHTTP(t *testing.T) {
	router, gdb := testRouter(t, &stubClient{})
	j, err := job.Create(gdb, job.CreateOpts{UserID: "usr-1", Title: "SRE", Company: "Globex"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	w := doJSON(t, router, http.MethodPost, "/api/jobs/"+j.ID+"/status", gin.H{
		"status": "applied", "note": "sent via referral",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("transition status = %d: %s", w.Code, w.Body.String())
	}
	var moved models.Job
	decode(t, w, &moved)
	if moved.Status != job.StatusApplied {
		t.Errorf("status = %q, want applied", moved.Status)
	}

	// Same-status move is a 400.
	w = doJSON(t, router, http.MethodPost, "/api/jobs/"+j.ID+"/status", gin.H{"status": "applied"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("same-status = %d, want 400", w.Code)
	}

	// Unknown status is a 400.
	w = doJSON(t, router, http.MethodPost, "/api/jobs/"+j.ID+"/status", gin.H{"status": "poached"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown status = %d, want 400", w.Code)
	}

	// History shows the one move.
	w = doJSON(t, router, http.MethodGet, "/api/jobs/"+j.ID+"/history", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d", w.Code)
	}
	var history []models.StatusChange
	decode(t, w, &history)
	if len(history) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(history))
	}
	if history[0].FromStatus != job.StatusWishlist || history[0].ToStatus != job.StatusApplied {
		t.Errorf("unexpected history record: %+v", history[0])
	}
	if history[0].Note != "sent via referral" {
		t.Errorf("note = %q", history[0].Note)
	}
}

const validJobAnalysis = `{
	"match_score": 82,
	"seniority": "senior",
	"required_skills": ["go", "sql"],
	"nice_to_have_skills": ["kubernetes"],
	"responsibilities": ["own the data pipeline"],
	"red_flags": [],
	"summary": "Strong fit for a backend generalist."
}`

func seedAnalyzableJob(t *testing.T, gdb *gorm.DB) *models.Job {
	t.Helper()
	j, err := job.Create(gdb, job.CreateOpts{
		UserID:  "usr-1",
		Title:   "Backend Engineer",
		Company: "Acme",
		Description: "We are hiring a backend engineer to build and operate our " +
			"Go services, own the data pipeline, and mentor junior engineers.",
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return j
}

func TestJobAnalyzeOverHTTP(t *testing.T) {
	client := &stubClient{texts: []string{validJobAnalysis}}
	router, gdb := testRouter(t, client)
	j := seedAnalyzableJob(t, gdb)

	w := doJSON(t, router, http.MethodPost, "/api/jobs/"+j.ID+"/analyze", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("analyze status = %d: %s", w.Code, w.Body.String())
	}
	var row models.JobAnalysis
	decode(t, w, &row)
	if row.MatchScore != 82 {
		t.Errorf("MatchScore = %d, want 82", row.MatchScore)
	}
	if row.Model != "claude-sonnet-4" {
		t.Errorf("Model = %q", row.Model)
	}
	if client.calls != 1 {
		t.Errorf("vendor calls = %d, want 1", client.calls)
	}
}

func TestJobAnalyzeInvalidInputIs400(t *testing.T) {
	client := &stubClient{texts: []string{validJobAnalysis}}
	router, gdb := testRouter(t, client)
	// Description too short for analysis.
	j, err := job.Create(gdb, job.CreateOpts{UserID: "usr-1", Title: "SRE", Company: "Acme", Description: "short"})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	w := doJSON(t, router, http.MethodPost, "/api/jobs/"+j.ID+"/analyze", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
	if client.calls != 0 {
		t.Errorf("vendor calls = %d, want 0", client.calls)
	}
}

func TestJobAnalyzeAuthFailureIs502(t *testing.T) {
	authErr := &ai.APIError{StatusCode: 401, Message: "invalid x-api-key"}
	client := &stubClient{errs: []error{authErr, authErr, authErr}}
	router, gdb := testRouter(t, client)
	j := seedAnalyzableJob(t, gdb)

	w := doJSON(t, router, http.MethodPost, "/api/jobs/"+j.ID+"/analyze", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502: %s", w.Code, w.Body.String())
	}
	if client.calls != 1 {
		t.Errorf("vendor calls = %d, want 1 (auth errors are not retried)", client.calls)
	}
}

func TestJobAnalyzeExhaustedRetriesIs503(t *testing.T) {
	serverErr := &ai.APIError{StatusCode: 500, Message: "overloaded"}
	client := &stubClient{errs: []error{serverErr, serverErr, serverErr}}
	router, gdb := testRouter(t, client)
	j := seedAnalyzableJob(t, gdb)

	w := doJSON(t, router, http.MethodPost, "/api/jobs/"+j.ID+"/analyze", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503: %s", w.Code, w.Body.String())
	}
	if client.calls != 2 {
		t.Errorf("vendor calls = %d, want 2 (MaxRetries)", client.calls)
	}
}

const validResumeAnalysis = `{
	"overall_score": 74,
	"strengths": ["clear impact statements"],
	"weaknesses": ["no metrics"],
	"suggestions": ["quantify outcomes"],
	"keyword_density": {"go": 4},
	"summary": "Solid backend resume that needs numbers."
}`

func seedResume(t *testing.T, gdb *gorm.DB) *models.Resume {
	t.Helper()
	r, err := resume.Create(gdb, resume.CreateOpts{
		UserID:    "usr-1",
		Title:     "General resume",
		Content:   strings.Repeat("Built and shipped production Go services. ", 5),
		IsPrimary: true,
	})
	if err != nil {
		t.Fatalf("create resume: %v", err)
	}
	return r
}

func TestResumeAnalyzeOverHTTP(t *testing.T) {
	client := &stubClient{texts: []string{validResumeAnalysis}}
	router, gdb := testRouter(t, client)
	r := seedResume(t, gdb)

	w := doJSON(t, router, http.MethodPost, "/api/resumes/"+r.ID+"/analyze", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var row models.ResumeAnalysis
	decode(t, w, &row)
	if row.OverallScore != 74 {
		t.Errorf("OverallScore = %d, want 74", row.OverallScore)
	}
}

const validTailored = `{
	"tailored_summary": "Backend engineer with Go and SQL focus.",
	"highlights": ["led billing rewrite"],
	"keywords_added": ["kubernetes"],
	"sections_rewritten": ["summary"],
	"fit_score": 80
}`

func TestResumeTailorOverHTTP(t *testing.T) {
	client := &stubClient{texts: []string{validTailored}}
	router, gdb := testRouter(t, client)
	r := seedResume(t, gdb)
	j := seedAnalyzableJob(t, gdb)

	w := doJSON(t, router, http.MethodPost, "/api/resumes/"+r.ID+"/tailor", gin.H{"jobId": j.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var row models.TailoredResume
	decode(t, w, &row)
	if row.JobID != j.ID || row.ResumeID != r.ID {
		t.Errorf("unexpected row linkage: %+v", row)
	}

	// Missing jobId is a 400.
	w = doJSON(t, router, http.MethodPost, "/api/resumes/"+r.ID+"/tailor", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing jobId = %d, want 400", w.Code)
	}
}

const validPrep = `{
	"questions": [
		{"question": "Describe a race you debugged.", "category": "technical", "difficulty": "medium", "hint": "tooling"}
	]
}`

const validMockQuestion = `{"question": "Walk me through your last project.", "category": "behavioral"}`

const validEvaluation = `{
	"score": 78,
	"feedback": "Good structure, missing metrics.",
	"strong_points": ["clear narrative"],
	"areas_to_improve": ["quantify impact"]
}`

func seedInterview(t *testing.T, gdb *gorm.DB) *models.Interview {
	t.Helper()
	j := seedAnalyzableJob(t, gdb)
	ivw, err := interview.Create(gdb, interview.CreateOpts{
		JobID:       j.ID,
		Round:       "technical",
		ScheduledAt: time.Now().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create interview: %v", err)
	}
	return ivw
}

func TestInterviewPrepOverHTTP(t *testing.T) {
	client := &stubClient{texts: []string{validPrep}}
	router, gdb := testRouter(t, client)
	ivw := seedInterview(t, gdb)

	w := doJSON(t, router, http.MethodPost, "/api/interviews/"+ivw.ID+"/prep", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var row models.InterviewPrep
	decode(t, w, &row)
	if row.InterviewID != ivw.ID {
		t.Errorf("InterviewID = %q, want %q", row.InterviewID, ivw.ID)
	}
}

func TestInterviewUpcomingOverHTTP(t *testing.T) {
	router, gdb := testRouter(t, &stubClient{})
	seedInterview(t, gdb) // 48h out, inside default 7d window

	w := doJSON(t, router, http.MethodGet, "/api/interviews/upcoming", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var upcoming []models.Interview
	decode(t, w, &upcoming)
	if len(upcoming) != 1 {
		t.Fatalf("expected 1 upcoming, got %d", len(upcoming))
	}

	w = doJSON(t, router, http.MethodGet, "/api/interviews/upcoming?window=1h", nil)
	decode(t, w, &upcoming)
	if len(upcoming) != 0 {
		t.Errorf("expected none inside 1h window, got %d", len(upcoming))
	}

	w = doJSON(t, router, http.MethodGet, "/api/interviews/upcoming?window=whenever", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad window = %d, want 400", w.Code)
	}
}

func TestMockInterviewFlowOverHTTP(t *testing.T) {
	client := &stubClient{texts: []string{validMockQuestion, validEvaluation, validMockQuestion}}
	router, gdb := testRouter(t, client)
	ivw := seedInterview(t, gdb)

	// Start a session; the first question comes back with it.
	w := doJSON(t, router, http.MethodPost, "/api/interviews/"+ivw.ID+"/mock", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("start status = %d: %s", w.Code, w.Body.String())
	}
	var started struct {
		Session  models.MockSession `json:"session"`
		Question models.MockTurn    `json:"question"`
	}
	decode(t, w, &started)
	if started.Question.Sequence != 1 {
		t.Errorf("first question sequence = %d, want 1", started.Question.Sequence)
	}

	// Answer it; get an evaluation and the next question.
	path := fmt.Sprintf("/api/mock/%s/answer", started.Session.ID)
	w = doJSON(t, router, http.MethodPost, path, gin.H{"answer": "I led the billing rewrite."})
	if w.Code != http.StatusOK {
		t.Fatalf("answer status = %d: %s", w.Code, w.Body.String())
	}
	var reply struct {
		Evaluation   agents.Evaluation `json:"evaluation"`
		NextQuestion models.MockTurn   `json:"nextQuestion"`
	}
	decode(t, w, &reply)
	if reply.Evaluation.Score != 78 {
		t.Errorf("evaluation score = %d, want 78", reply.Evaluation.Score)
	}
	if reply.NextQuestion.Sequence != 2 {
		t.Errorf("next question sequence = %d, want 2", reply.NextQuestion.Sequence)
	}

	// Empty answer is a 400.
	w = doJSON(t, router, http.MethodPost, path, gin.H{"answer": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty answer = %d, want 400", w.Code)
	}

	// Unknown session is a 404.
	w = doJSON(t, router, http.MethodPost, "/api/mock/00000000-0000-0000-0000-000000000000/answer", gin.H{"answer": "hi"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown session = %d, want 404", w.Code)
	}
}

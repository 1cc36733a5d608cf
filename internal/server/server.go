// Package server exposes the career-coach JSON API over HTTP.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/agents"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/ghimport"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/notify"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StartOpts holds configuration for the API server.
type StartOpts struct {
	DB       *gorm.DB
	Port     int
	Out      io.Writer
	AI       agents.Opts
	Importer *ghimport.Importer // optional: GitHub project import for tailoring
	Notifier notify.Notifier    // optional: status-change notifications
}

// deps carries the wired services handlers draw from.
type deps struct {
	db          *gorm.DB
	jobAnalyzer *agents.JobAnalyzer
	resAnalyzer *agents.ResumeAnalyzer
	resTailor   *agents.ResumeTailor
	prep        *agents.InterviewPrep
	mock        *agents.MockInterviewer
	importer    *ghimport.Importer
	notifier    notify.Notifier
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("server: db is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	router := NewRouter(opts)

	addr := fmt.Sprintf(":%d", opts.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Career coach API listening on http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// NewRouter builds the gin engine with all routes registered. Split from
// Start so tests can drive it with httptest.
func NewRouter(opts StartOpts) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	d := &deps{
		db:          opts.DB,
		jobAnalyzer: agents.NewJobAnalyzer(opts.AI),
		resAnalyzer: agents.NewResumeAnalyzer(opts.AI),
		resTailor:   agents.NewResumeTailor(opts.AI),
		prep:        agents.NewInterviewPrep(opts.AI),
		mock:        agents.NewMockInterviewer(opts.AI),
		importer:    opts.Importer,
		notifier:    opts.Notifier,
	}

	registerRoutes(router, d)
	return router
}

// registerRoutes sets up all API routes on the gin router.
func registerRoutes(router *gin.Engine, d *deps) {
	api := router.Group("/api")

	api.GET("/health", handleHealth(d))

	api.POST("/jobs", handleJobCreate(d))
	api.GET("/jobs", handleJobList(d))
	api.GET("/jobs/:id", handleJobGet(d))
	api.PATCH("/jobs/:id", handleJobUpdate(d))
	api.DELETE("/jobs/:id", handleJobDelete(d))
	api.POST("/jobs/:id/status", handleJobStatus(d))
	api.GET("/jobs/:id/history", handleJobHistory(d))
	api.POST("/jobs/:id/analyze", handleJobAnalyze(d))
	api.POST("/jobs/:id/applications", handleApplicationCreate(d))
	api.GET("/jobs/:id/applications", handleApplicationList(d))

	api.POST("/resumes", handleResumeCreate(d))
	api.GET("/resumes", handleResumeList(d))
	api.GET("/resumes/:id", handleResumeGet(d))
	api.PATCH("/resumes/:id", handleResumeUpdate(d))
	api.DELETE("/resumes/:id", handleResumeDelete(d))
	api.POST("/resumes/:id/primary", handleResumeSetPrimary(d))
	api.POST("/resumes/:id/analyze", handleResumeAnalyze(d))
	api.POST("/resumes/:id/tailor", handleResumeTailor(d))

	api.POST("/interviews", handleInterviewCreate(d))
	api.GET("/interviews", handleInterviewList(d))
	api.GET("/interviews/upcoming", handleInterviewUpcoming(d))
	api.GET("/interviews/:id", handleInterviewGet(d))
	api.PATCH("/interviews/:id", handleInterviewUpdate(d))
	api.DELETE("/interviews/:id", handleInterviewDelete(d))
	api.POST("/interviews/:id/prep", handleInterviewPrep(d))
	api.POST("/interviews/:id/mock", handleMockStart(d))
	api.POST("/mock/:sessionId/answer", handleMockAnswer(d))
}

func handleHealth(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := d.db.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

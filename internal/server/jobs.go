package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/agents"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/job"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/notify"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/resume"
	"github.com/gin-gonic/gin"
)

type jobCreateRequest struct {
	UserID      string `json:"userId"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	Notes       string `json:"notes"`
}

func handleJobCreate(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req jobCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, "invalid JSON body: "+err.Error())
			return
		}
		j, err := job.Create(d.db, job.CreateOpts{
			UserID:      req.UserID,
			Title:       req.Title,
			Company:     req.Company,
			Description: req.Description,
			URL:         req.URL,
			Location:    req.Location,
			Salary:      req.Salary,
			Notes:       req.Notes,
		})
		if err != nil {
			writeBadRequest(c, err.Error())
			return
		}
		c.JSON(http.StatusCreated, j)
	}
}

func handleJobList(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobs, err := job.List(d.db, job.ListFilters{
			UserID:  c.Query("userId"),
			Status:  c.Query("status"),
			Company: c.Query("company"),
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, jobs)
	}
}

func handleJobGet(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		j, err := job.Get(d.db, c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, j)
	}
}

func handleJobUpdate(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var updates map[string]interface{}
		if err := c.ShouldBindJSON(&updates); err != nil {
			writeBadRequest(c, "invalid JSON body: "+err.Error())
			return
		}
		if _, ok := updates["status"]; ok {
			writeBadRequest(c, "status changes must go through POST /api/jobs/:id/status")
			return
		}
		if err := job.Update(d.db, c.Param("id"), updates); err != nil {
			writeErr(c, err)
			return
		}
		j, err := job.Get(d.db, c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, j)
	}
}

func handleJobDelete(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := job.Delete(d.db, c.Param("id")); err != nil {
			writeErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type statusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func handleJobStatus(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, "invalid JSON body: "+err.Error())
			return
		}
		if req.Status == "" {
			writeBadRequest(c, "status is required")
			return
		}
		j, err := job.Transition(d.db, c.Param("id"), req.Status, req.Note)
		if err != nil {
			writeErr(c, err)
			return
		}
		d.notifyStatusChange(c.Request.Context(), j.Title, j.Company, req.Status)
		c.JSON(http.StatusOK, j)
	}
}

// notifyStatusChange reports a board move to the configured chat targets.
// Failures are logged, never surfaced to the API caller.
func (d *deps) notifyStatusChange(ctx context.Context, title, company, status string) {
	if d.notifier == nil {
		return
	}
	severity := "info"
	switch status {
	case job.StatusOffer, job.StatusAccepted:
		severity = "success"
	case job.StatusRejected, job.StatusWithdrawn:
		severity = "warning"
	}
	evt := notify.Event{
		Title:    fmt.Sprintf("%s at %s moved to %s", title, company, status),
		Severity: severity,
	}
	if err := d.notifier.Send(ctx, evt); err != nil {
		log.Printf("server: status notification: %v", err)
	}
}

func handleJobHistory(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := job.Get(d.db, c.Param("id")); err != nil {
			writeErr(c, err)
			return
		}
		history, err := job.History(d.db, c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, history)
	}
}

type applicationRequest struct {
	ResumeID    string    `json:"resumeId"`
	Method      string    `json:"method"`
	CoverLetter string    `json:"coverLetter"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func handleApplicationCreate(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req applicationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, "invalid JSON body: "+err.Error())
			return
		}
		app, err := job.RecordApplication(d.db, job.ApplicationOpts{
			JobID:       c.Param("id"),
			ResumeID:    req.ResumeID,
			Method:      req.Method,
			CoverLetter: req.CoverLetter,
			SubmittedAt: req.SubmittedAt,
		})
		if err != nil {
			if errors.Is(err, job.ErrNotFound) {
				writeErr(c, err)
			} else {
				writeBadRequest(c, err.Error())
			}
			return
		}
		c.JSON(http.StatusCreated, app)
	}
}

func handleApplicationList(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := job.Get(d.db, c.Param("id")); err != nil {
			writeErr(c, err)
			return
		}
		apps, err := job.ListApplications(d.db, c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, apps)
	}
}

func handleJobAnalyze(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		j, err := job.Get(d.db, c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}

		resumeText := ""
		if primary, err := resume.Primary(d.db, j.UserID); err == nil && primary != nil {
			resumeText = primary.Content
		}

		resp := d.jobAnalyzer.Analyze(c.Request.Context(), agents.JobInput{
			JobTitle:       j.Title,
			CompanyName:    j.Company,
			JobDescription: j.Description,
			ResumeText:     resumeText,
		})
		if !resp.Success {
			writeAgentError(c, resp.Error)
			return
		}

		row, err := job.SaveAnalysis(d.db, j.ID, resp.Data, resp.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

package server

import (
	"net/http"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/agents"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/job"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/resume"
	"github.com/gin-gonic/gin"
)

type resumeCreateRequest struct {
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsPrimary bool   `json:"isPrimary"`
}

func handleResumeCreate(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resumeCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, "invalid JSON body: "+err.Error())
			return
		}
		r, err := resume.Create(d.db, resume.CreateOpts{
			UserID:    req.UserID,
			Title:     req.Title,
			Content:   req.Content,
			IsPrimary: req.IsPrimary,
		})
		if err != nil {
			writeBadRequest(c, err.Error())
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

func handleResumeList(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		resumes, err := resume.List(d.db, c.Query("userId"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, resumes)
	}
}

func handleResumeGet(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := resume.Get(d.db, c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func handleResumeUpdate(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var updates map[string]interface{}
		if err := c.ShouldBindJSON(&updates); err != nil {
			writeBadRequest(c, "invalid JSON body: "+err.Error())
			return
		}
		if err := resume.Update(d.db, c.Param("id"), updates); err != nil {
			writeErr(c, err)
			return
		}
		r, err := resume.Get(d.db, c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func handleResumeDelete(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := resume.Delete(d.db, c.Param("id")); err != nil {
			writeErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleResumeSetPrimary(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := resume.SetPrimary(d.db, c.Param("id")); err != nil {
			writeErr(c, err)
			return
		}
		r, err := resume.Get(d.db, c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func handleResumeAnalyze(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := resume.Get(d.db, c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}

		resp := d.resAnalyzer.Analyze(c.Request.Context(), agents.ResumeInput{ResumeText: r.Content})
		if !resp.Success {
			writeAgentError(c, resp.Error)
			return
		}

		row, err := resume.SaveAnalysis(d.db, r.ID, resp.Data, resp.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

type tailorRequest struct {
	JobID      string `json:"jobId"`
	GithubUser string `json:"githubUser"`
}

func handleResumeTailor(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tailorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, "invalid JSON body: "+err.Error())
			return
		}
		if req.JobID == "" {
			writeBadRequest(c, "jobId is required")
			return
		}

		r, err := resume.Get(d.db, c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		j, err := job.Get(d.db, req.JobID)
		if err != nil {
			writeErr(c, err)
			return
		}

		var projects []agents.Project
		if req.GithubUser != "" && d.importer != nil {
			projects, err = d.importer.FetchProjects(c.Request.Context(), req.GithubUser)
			if err != nil {
				writeBadRequest(c, "github import: "+err.Error())
				return
			}
		}

		resp := d.resTailor.Tailor(c.Request.Context(), agents.TailorInput{
			ResumeText:     r.Content,
			JobDescription: j.Description,
			Projects:       projects,
		})
		if !resp.Success {
			writeAgentError(c, resp.Error)
			return
		}

		row, err := resume.SaveTailored(d.db, r.ID, j.ID, resp.Data, resp.Model)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

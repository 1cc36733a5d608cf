package server

import (
	"net/http"
	"time"

	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/agents"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/interview"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/models"
	"github.com/Bravisma-Soft/ai-career-coach-sub001/internal/resume"
	"github.com/gin-gonic/gin"
)

type interviewCreateRequest struct {
	JobID       string    `json:"jobId"`
	Round       string    `json:"round"`
	Interviewer string    `json:"interviewer"`
	Location    string    `json:"location"`
	Notes       string    `json:"notes"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

func handleInterviewCreate(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req interviewCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, "invalid JSON body: "+err.Error())
			return
		}
		ivw, err := interview.Create(d.db, interview.CreateOpts{
			JobID:       req.JobID,
			Round:       req.Round,
			Interviewer: req.Interviewer,
			Location:    req.Location,
			Notes:       req.Notes,
			ScheduledAt: req.ScheduledAt,
		})
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, ivw)
	}
}

func handleInterviewList(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Query("jobId")
		if jobID == "" {
			writeBadRequest(c, "jobId query parameter is required")
			return
		}
		interviews, err := interview.ListForJob(d.db, jobID)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, interviews)
	}
}

func handleInterviewUpcoming(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		window := 7 * 24 * time.Hour
		if w := c.Query("window"); w != "" {
			parsed, err := time.ParseDuration(w)
			if err != nil || parsed <= 0 {
				writeBadRequest(c, "window must be a positive duration (e.g. 72h)")
				return
			}
			window = parsed
		}
		interviews, err := interview.Upcoming(d.db, time.Now(), window)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, interviews)
	}
}

func handleInterviewGet(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ivw, err := interview.Get(d.db, c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, ivw)
	}
}

func handleInterviewUpdate(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var updates map[string]interface{}
		if err := c.ShouldBindJSON(&updates); err != nil {
			writeBadRequest(c, "invalid JSON body: "+err.Error())
			return
		}
		if err := interview.Update(d.db, c.Param("id"), updates); err != nil {
			writeErr(c, err)
			return
		}
		ivw, err := interview.Get(d.db, c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, ivw)
	}
}

func handleInterviewDelete(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := interview.Delete(d.db, c.Param("id")); err != nil {
			writeErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleInterviewPrep(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ivw, err := interview.Get(d.db, c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}

		resumeText := ""
		if primary, err := resume.Primary(d.db, ivw.Job.UserID); err == nil && primary != nil {
			resumeText = primary.Content
		}

		resp := d.prep.Generate(c.Request.Context(), agents.PrepInput{
			JobTitle:       ivw.Job.Title,
			JobDescription: ivw.Job.Description,
			ResumeText:     resumeText,
		})
		if !resp.Success {
			writeAgentError(c, resp.Error)
			return
		}

		row, err := interview.SavePrep(d.db, ivw.ID, resp.Data, resp.Model)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

func handleMockStart(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ivw, err := interview.Get(d.db, c.Param("id"))
		if err != nil {
			writeErr(c, err)
			return
		}

		session, err := interview.StartMock(d.db, ivw.ID)
		if err != nil {
			writeErr(c, err)
			return
		}

		resp := d.mock.NextQuestion(c.Request.Context(), agents.MockContext{
			JobTitle:       ivw.Job.Title,
			JobDescription: ivw.Job.Description,
		})
		if !resp.Success {
			writeAgentError(c, resp.Error)
			return
		}
		turn, err := interview.AppendQuestion(d.db, session.ID, resp.Data)
		if err != nil {
			writeErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"session":  session,
			"question": turn,
		})
	}
}

type answerRequest struct {
	Answer string `json:"answer"`
}

func handleMockAnswer(d *deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req answerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBadRequest(c, "invalid JSON body: "+err.Error())
			return
		}
		if req.Answer == "" {
			writeBadRequest(c, "answer is required")
			return
		}

		session, err := interview.GetMock(d.db, c.Param("sessionId"))
		if err != nil {
			writeErr(c, err)
			return
		}
		if session.Status != "active" {
			writeBadRequest(c, "mock session is already completed")
			return
		}
		pending := pendingTurn(session)
		if pending == nil {
			writeBadRequest(c, "no pending question to answer")
			return
		}

		ivw, err := interview.Get(d.db, session.InterviewID)
		if err != nil {
			writeErr(c, err)
			return
		}

		evalResp := d.mock.Evaluate(c.Request.Context(), agents.EvalInput{
			Question: pending.Question,
			Answer:   req.Answer,
		})
		if !evalResp.Success {
			writeAgentError(c, evalResp.Error)
			return
		}
		if err := interview.RecordAnswer(d.db, pending.ID, req.Answer, evalResp.Data); err != nil {
			writeErr(c, err)
			return
		}

		mc := agents.MockContext{
			JobTitle:       ivw.Job.Title,
			JobDescription: ivw.Job.Description,
		}
		for _, t := range session.Turns {
			answer := t.Answer
			if t.ID == pending.ID {
				answer = req.Answer
			}
			mc.PriorTurns = append(mc.PriorTurns, agents.TurnSummary{
				Question: t.Question,
				Answer:   answer,
			})
		}

		nextResp := d.mock.NextQuestion(c.Request.Context(), mc)
		if !nextResp.Success {
			writeAgentError(c, nextResp.Error)
			return
		}
		next, err := interview.AppendQuestion(d.db, session.ID, nextResp.Data)
		if err != nil {
			writeErr(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"evaluation":   evalResp.Data,
			"nextQuestion": next,
		})
	}
}

// pendingTurn returns the newest unanswered turn, if any.
func pendingTurn(session *models.MockSession) *models.MockTurn {
	for i := len(session.Turns) - 1; i >= 0; i-- {
		if session.Turns[i].Answer == "" {
			return &session.Turns[i]
		}
	}
	return nil
}

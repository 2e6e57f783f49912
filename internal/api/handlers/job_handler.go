package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joblinkhq/joblink/internal/services"
	"github.com/joblinkhq/joblink/internal/utils"
)

type JobHandler struct {
	svc services.JobService
}

func NewJobHandler(svc services.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

type JobRequest struct {
	CompanyID    string   `json:"companyId"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Salary       int64    `json:"salary"`
	Experience   int      `json:"experience"`
	Location     string   `json:"location"`
	JobType      string   `json:"jobType"`
	Positions    int      `json:"position"`
}

func (r JobRequest) toInput() services.JobInput {
	return services.JobInput{
		CompanyID:    r.CompanyID,
		Title:        r.Title,
		Description:  r.Description,
		Requirements: r.Requirements,
		Salary:       r.Salary,
		Experience:   r.Experience,
		Location:     r.Location,
		JobType:      r.JobType,
		Positions:    r.Positions,
	}
}

func (h *JobHandler) Post(c *gin.Context) {
	const op = "JobHandler.Post"

	recruiterID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	j, err := h.svc.Post(c.Request.Context(), recruiterID, req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Job posted successfully.",
		"job":     j,
	})
}

func (h *JobHandler) List(c *gin.Context) {
	out, err := h.svc.Search(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"jobs":    out,
	})
}

func (h *JobHandler) Get(c *gin.Context) {
	j, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"job":     j,
	})
}

func (h *JobHandler) ListMine(c *gin.Context) {
	recruiterID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.ListMine(c.Request.Context(), recruiterID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"jobs":    out,
	})
}

func (h *JobHandler) Update(c *gin.Context) {
	const op = "JobHandler.Update"

	recruiterID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	j, err := h.svc.Update(c.Request.Context(), recruiterID, c.Param("id"), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Job updated successfully.",
		"job":     j,
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joblinkhq/joblink/internal/services"
	"github.com/joblinkhq/joblink/internal/utils"
)

type ApplicationHandler struct {
	svc services.ApplicationService
}

func NewApplicationHandler(svc services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	workerID, ok := requireUserID(c)
	if !ok {
		return
	}

	a, err := h.svc.Apply(c.Request.Context(), workerID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Applied successfully.",
		"application": a,
	})
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	workerID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.ListMine(c.Request.Context(), workerID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"applications": out,
	})
}

func (h *ApplicationHandler) Applicants(c *gin.Context) {
	recruiterID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.Applicants(c.Request.Context(), recruiterID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"applications": out,
	})
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	const op = "ApplicationHandler.UpdateStatus"

	recruiterID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "status is required", err))
		return
	}

	a, err := h.svc.UpdateStatus(c.Request.Context(), recruiterID, c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Status updated successfully.",
		"application": a,
	})
}

func (h *ApplicationHandler) ListAccepted(c *gin.Context) {
	recruiterID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.ListAccepted(c.Request.Context(), recruiterID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"applications": out,
	})
}

func (h *ApplicationHandler) CreateCheckoutSession(c *gin.Context) {
	recruiterID, ok := requireUserID(c)
	if !ok {
		return
	}

	url, err := h.svc.CreateCheckout(c.Request.Context(), recruiterID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     url,
	})
}

func (h *ApplicationHandler) MarkPaid(c *gin.Context) {
	a, err := h.svc.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Payment recorded.",
		"application": a,
	})
}

type RateRequest struct {
	Score  int    `json:"score" binding:"required"`
	Review string `json:"review"`
}

func (h *ApplicationHandler) Rate(c *gin.Context) {
	const op = "ApplicationHandler.Rate"

	workerID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "score is required", err))
		return
	}

	a, err := h.svc.Rate(c.Request.Context(), workerID, c.Param("id"), req.Score, req.Review)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Rating submitted.",
		"application": a,
	})
}

type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

func (h *ApplicationHandler) Feedback(c *gin.Context) {
	const op = "ApplicationHandler.Feedback"

	recruiterID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "feedback is required", err))
		return
	}

	a, err := h.svc.Feedback(c.Request.Context(), recruiterID, c.Param("id"), req.Feedback)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Feedback submitted.",
		"application": a,
	})
}

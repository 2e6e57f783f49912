package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joblinkhq/joblink/internal/services"
	"github.com/joblinkhq/joblink/internal/utils"
)

type CompanyHandler struct {
	svc services.CompanyService
}

func NewCompanyHandler(svc services.CompanyService) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

type RegisterCompanyRequest struct {
	CompanyName string `json:"companyName" binding:"required"`
}

func (h *CompanyHandler) Register(c *gin.Context) {
	const op = "CompanyHandler.Register"

	recruiterID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req RegisterCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "companyName is required", err))
		return
	}

	co, err := h.svc.Register(c.Request.Context(), recruiterID, req.CompanyName)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Company registered successfully.",
		"company": co,
	})
}

func (h *CompanyHandler) ListMine(c *gin.Context) {
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
		"success":   true,
		"companies": out,
	})
}

func (h *CompanyHandler) Get(c *gin.Context) {
	co, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"company": co,
	})
}

func (h *CompanyHandler) Update(c *gin.Context) {
	const op = "CompanyHandler.Update"

	recruiterID, ok := requireUserID(c)
	if !ok {
		return
	}

	logo, mime, _, err := openImageUpload(c, op)
	if err != nil {
		writeError(c, err)
		return
	}

	in := services.CompanyUpdateInput{
		Logo:         logo,
		LogoMimeType: mime,
	}
	if v, ok := c.GetPostForm("name"); ok {
		in.Name = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		in.Description = &v
	}
	if v, ok := c.GetPostForm("website"); ok {
		in.Website = &v
	}
	if v, ok := c.GetPostForm("location"); ok {
		in.Location = &v
	}

	co, err := h.svc.Update(c.Request.Context(), recruiterID, c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Company information updated.",
		"company": co,
	})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joblinkhq/joblink/internal/services"
	"github.com/joblinkhq/joblink/internal/utils"
)

type UserHandler struct {
	svc services.UserService
}

func NewUserHandler(svc services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Register(c *gin.Context) {
	const op = "UserHandler.Register"

	photo, mime, _, err := openImageUpload(c, op)
	if err != nil {
		writeError(c, err)
		return
	}

	u, err := h.svc.Register(c.Request.Context(), services.RegisterInput{
		FullName:      c.PostForm("fullname"),
		Email:         c.PostForm("email"),
		PhoneNumber:   c.PostForm("phoneNumber"),
		Password:      c.PostForm("password"),
		Role:          c.PostForm("role"),
		Photo:         photo,
		PhotoMimeType: mime,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created successfully.",
		"user":    u,
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (h *UserHandler) Login(c *gin.Context) {
	const op = "UserHandler.Login"

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	u, token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		writeError(c, err)
		return
	}

	// Credential travels in a cookie; browser calls use withCredentials.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", token, 24*60*60, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Welcome back, " + u.FullName,
		"user":    u,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully.",
	})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	const op = "UserHandler.UpdateProfile"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	resume, mime, origName, err := openImageUpload(c, op)
	if err != nil {
		writeError(c, err)
		return
	}

	in := services.ProfileUpdateInput{
		Resume:             resume,
		ResumeMimeType:     mime,
		ResumeOriginalName: origName,
	}
	if v, ok := c.GetPostForm("fullname"); ok {
		in.FullName = &v
	}
	if v, ok := c.GetPostForm("phoneNumber"); ok {
		in.PhoneNumber = &v
	}
	if v, ok := c.GetPostForm("bio"); ok {
		in.Bio = &v
	}
	if v, ok := c.GetPostForm("skills"); ok {
		skills := []string{}
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
		in.Skills = &skills
	}

	u, err := h.svc.UpdateProfile(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully.",
		"user":    u,
	})
}

func (h *UserHandler) ListWorkers(c *gin.Context) {
	out, err := h.svc.ListWorkers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"workers": out,
	})
}

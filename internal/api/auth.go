package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bharathbhent-backend/internal/service"
)

type registerUserRequest struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Mobile string `json:"mobile" binding:"required"`
}

type registerAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Mobile   string `json:"mobile" binding:"required"`
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

type loginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *handler) registerUser(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	email, err := h.auth.RegisterUser(c.Request.Context(), service.RegisterUserInput{
		Name: req.Name, Email: req.Email, Mobile: req.Mobile,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "OTP sent to your email", gin.H{"email": email})
}

func (h *handler) verifyUser(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	user, token, err := h.auth.VerifyUserOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		fail(c, err)
		return
	}
	respondToken(c, "OTP verified successfully", token, user)
}

func (h *handler) loginUser(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	email, err := h.auth.LoginUser(c.Request.Context(), req.Email)
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "OTP sent to your email", gin.H{"email": email})
}

func (h *handler) registerAdmin(c *gin.Context) {
	var req registerAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	email, err := h.auth.RegisterAdmin(c.Request.Context(), service.RegisterAdminInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Mobile: req.Mobile,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "OTP sent to your email", gin.H{"email": email})
}

func (h *handler) verifyAdmin(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	admin, token, err := h.auth.VerifyAdminOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		fail(c, err)
		return
	}
	respondToken(c, "OTP verified successfully", token, admin)
}

func (h *handler) loginAdmin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	admin, token, err := h.auth.LoginAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	respondToken(c, "Logged in successfully", token, admin)
}

func (h *handler) me(c *gin.Context) {
	who, err := h.auth.Me(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, who)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/perfectcherry/cherry-server/internal/messages"
	"github.com/perfectcherry/cherry-server/internal/service/user"
)

// UserHandler adapts the user service to HTTP.
type UserHandler struct {
	svc *user.Service
}

func NewUserHandler(svc *user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create handles POST /user/create.
func (h *UserHandler) Create(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Respond(c, http.StatusCreated, msg)
}

// Login handles POST /user/login and returns the bearer token.
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Delete handles DELETE /user/delete/:userID.
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	msg, err := h.svc.Delete(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	Respond(c, http.StatusOK, msg)
}

// ResetPassword handles PATCH /user/resetPassword.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req user.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.svc.ResetPassword(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Respond(c, http.StatusOK, msg)
}

// ForgotPassword handles PATCH /user/forgotPassword/:userName.
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	msg, err := h.svc.ForgotPassword(c.Request.Context(), c.Param("userName"))
	if err != nil {
		Fail(c, err)
		return
	}
	Respond(c, http.StatusOK, msg)
}

// parseUserID reads the user id path parameter shared by most routes.
// Writes the 400 envelope itself when the value is not a positive integer.
func parseUserID(c *gin.Context) (uint64, bool) {
	for _, name := range []string{"userID", "userId"} {
		if raw := c.Param(name); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				Respond(c, http.StatusBadRequest, messages.InvalidUserID)
				return 0, false
			}
			return id, true
		}
	}
	Respond(c, http.StatusBadRequest, messages.InvalidUserID)
	return 0, false
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/perfectcherry/cherry-server/internal/service/account"
)

// AccountHandler adapts the account service to HTTP.
type AccountHandler struct {
	svc *account.Service
}

func NewAccountHandler(svc *account.Service) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// Update handles PATCH /userAccount/update.
func (h *AccountHandler) Update(c *gin.Context) {
	var req account.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Respond(c, http.StatusOK, msg)
}

// AllDataByID handles GET /userAccount/getAllUserDataById/:userId.
// Returns the raw account entity, images included.
func (h *AccountHandler) AllDataByID(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	acc, err := h.svc.AllDataByID(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

// DataByID handles GET /userAccount/getUserDataById/:userId.
// Returns the account shaped to its profile photo only.
func (h *AccountHandler) DataByID(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	acc, err := h.svc.DataByID(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

// PeopleNearMe handles GET /userAccount/findPeopleNearMe/:userId.
func (h *AccountHandler) PeopleNearMe(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	nearby, err := h.svc.PeopleNearMe(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nearby)
}

// Activate handles PATCH /userAccount/activate/:userID.
func (h *AccountHandler) Activate(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	msg, err := h.svc.Activate(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	Respond(c, http.StatusOK, msg)
}

// Deactivate handles PATCH /userAccount/deactivate/:userID.
func (h *AccountHandler) Deactivate(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	msg, err := h.svc.Deactivate(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	Respond(c, http.StatusOK, msg)
}

package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/perfectcherry/cherry-server/internal/db"
	"github.com/perfectcherry/cherry-server/internal/messages"
	"github.com/perfectcherry/cherry-server/internal/service/interest"
)

// InterestHandler adapts the interest service to HTTP.
type InterestHandler struct {
	svc *interest.Service
}

func NewInterestHandler(svc *interest.Service) *InterestHandler {
	return &InterestHandler{svc: svc}
}

// Send handles POST /interest/send.
func (h *InterestHandler) Send(c *gin.Context) {
	var req interest.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Respond(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.svc.Send(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Respond(c, http.StatusOK, msg)
}

// Accept handles PATCH /interest/accept/:interestID.
func (h *InterestHandler) Accept(c *gin.Context) {
	h.transition(c, h.svc.Accept)
}

// Decline handles PATCH /interest/decline/:interestID.
func (h *InterestHandler) Decline(c *gin.Context) {
	h.transition(c, h.svc.Decline)
}

// transition parses the interest id and runs accept or decline. A value
// that is not a positive integer is rejected here, before any service or
// persistence access.
func (h *InterestHandler) transition(c *gin.Context, op func(context.Context, uint64) (string, error)) {
	interestID, err := strconv.ParseUint(c.Param("interestID"), 10, 64)
	if err != nil || interestID == 0 {
		Respond(c, http.StatusBadRequest, messages.InvalidInterestID)
		return
	}

	msg, err := op(c.Request.Context(), interestID)
	if err != nil {
		Fail(c, err)
		return
	}
	Respond(c, http.StatusOK, msg)
}

// Sent handles GET /interest/sent/:userId.
func (h *InterestHandler) Sent(c *gin.Context) { h.list(c, h.svc.Sent) }

// Received handles GET /interest/received/:userId.
func (h *InterestHandler) Received(c *gin.Context) { h.list(c, h.svc.Received) }

// AcceptedByMe handles GET /interest/acceptedByMe/:userId.
func (h *InterestHandler) AcceptedByMe(c *gin.Context) { h.list(c, h.svc.AcceptedByMe) }

// AcceptedByThem handles GET /interest/acceptedByThem/:userId.
func (h *InterestHandler) AcceptedByThem(c *gin.Context) { h.list(c, h.svc.AcceptedByThem) }

// DeclinedByMe handles GET /interest/declinedByMe/:userId.
func (h *InterestHandler) DeclinedByMe(c *gin.Context) { h.list(c, h.svc.DeclinedByMe) }

// DeclinedByThem handles GET /interest/declinedByThem/:userId.
func (h *InterestHandler) DeclinedByThem(c *gin.Context) { h.list(c, h.svc.DeclinedByThem) }

// PendingCount handles GET /interest/pendingCount/:userId.
func (h *InterestHandler) PendingCount(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	count, err := h.svc.PendingCount(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *InterestHandler) list(c *gin.Context, query func(context.Context, uint64) ([]db.UserAccount, error)) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	accounts, err := query(c.Request.Context(), userID)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

package handler

import (
	"net/http"
	"strconv"

	"Doubts_Clearance/internal/apperr"
	"Doubts_Clearance/internal/middleware"
	"Doubts_Clearance/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	svc *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list users failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ToggleUserStatus flips a user between active and suspended. Suspending
// also revokes the user's live session.
func (h *AdminHandler) ToggleUserStatus(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid user id"})
		return
	}

	user, err := h.svc.ToggleUserStatus(c.Request.Context(), userID, middleware.UserID(c))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"msg": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) ListDoubts(c *gin.Context) {
	doubts, err := h.svc.ListDoubts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list doubts failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"doubts": doubts})
}

type DoubtActionReq struct {
	Action  string `json:"action"`
	ReplyID uint64 `json:"replyId"`
}

// DoubtAction dispatches a moderation action (approve, hide, delete) on
// a doubt.
func (h *AdminHandler) DoubtAction(c *gin.Context) {
	doubtID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || doubtID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid doubt id"})
		return
	}

	var req DoubtActionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	doubt, err := h.svc.HandleDoubtAction(c.Request.Context(), doubtID, middleware.UserID(c), req.Action, req.ReplyID)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"msg": apperr.Message(err)})
		return
	}
	if doubt == nil {
		c.JSON(http.StatusOK, gin.H{"msg": "ok"})
		return
	}
	c.JSON(http.StatusOK, doubt)
}

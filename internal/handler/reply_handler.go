package handler

import (
	"net/http"
	"strconv"

	"Doubts_Clearance/internal/apperr"
	"Doubts_Clearance/internal/middleware"
	"Doubts_Clearance/internal/model"
	"Doubts_Clearance/internal/service"

	"github.com/gin-gonic/gin"
)

type ReplyHandler struct {
	svc *service.ReplyService
}

func NewReplyHandler(svc *service.ReplyService) *ReplyHandler {
	return &ReplyHandler{svc: svc}
}

type AddReplyReq struct {
	Message    string `json:"message"`
	Attachment string `json:"attachment"`
}

// Add appends a reply to a doubt and returns the updated reply list.
func (h *ReplyHandler) Add(c *gin.Context) {
	userID := middleware.UserID(c)
	doubtID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || doubtID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid doubt id"})
		return
	}

	var req AddReplyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	replies, err := h.svc.Add(c.Request.Context(), doubtID, userID, req.Message, req.Attachment)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"msg": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"replies": replies})
}

// Approve toggles approval on a reply. The doubt author approves with owner
// authority; admins get moderator authority on the same route.
func (h *ReplyHandler) Approve(c *gin.Context) {
	userID := middleware.UserID(c)
	doubtID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || doubtID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid doubt id"})
		return
	}
	replyID, err := strconv.ParseUint(c.Param("replyId"), 10, 64)
	if err != nil || replyID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid reply id"})
		return
	}

	capability := service.CapabilityOwnerApprove
	if middleware.Role(c) == model.RoleAdmin {
		capability = service.CapabilityAdminModerate
	}

	doubt, err := h.svc.SetApproval(c.Request.Context(), doubtID, replyID, userID, capability)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"msg": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, doubt)
}

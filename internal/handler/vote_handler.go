package handler

import (
	"net/http"
	"strconv"

	"Doubts_Clearance/internal/apperr"
	"Doubts_Clearance/internal/middleware"
	"Doubts_Clearance/internal/service"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	svc *service.VoteService
}

func NewVoteHandler(svc *service.VoteService) *VoteHandler {
	return &VoteHandler{svc: svc}
}

type VoteReq struct {
	Type string `json:"type"` // UP or DOWN
}

// Vote casts, switches or retracts the caller's vote on a doubt.
func (h *VoteHandler) Vote(c *gin.Context) {
	userID := middleware.UserID(c)
	doubtID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || doubtID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid doubt id"})
		return
	}

	var req VoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	counts, err := h.svc.Apply(c.Request.Context(), doubtID, userID, req.Type)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"msg": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, counts)
}

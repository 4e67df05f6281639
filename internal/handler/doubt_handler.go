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

type DoubtHandler struct {
	svc   *service.DoubtService
	votes *service.VoteService
}

func NewDoubtHandler(svc *service.DoubtService, votes *service.VoteService) *DoubtHandler {
	return &DoubtHandler{svc: svc, votes: votes}
}

type CreateDoubtReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Attachments []string `json:"attachments"`
}

type CheckDuplicateReq struct {
	Title string `json:"title"`
}

// Create posts a new doubt.
func (h *DoubtHandler) Create(c *gin.Context) {
	userID := middleware.UserID(c)

	var req CreateDoubtReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	doubt, err := h.svc.Create(c.Request.Context(), userID, req.Title, req.Description, req.Tags, req.Attachments)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"msg": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusCreated, doubt)
}

// CheckDuplicate surfaces possibly-similar existing doubts before creation.
func (h *DoubtHandler) CheckDuplicate(c *gin.Context) {
	var req CheckDuplicateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	matches := h.svc.FindSimilar(c.Request.Context(), req.Title)
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// ListAll returns every visible doubt, newest first.
func (h *DoubtHandler) ListAll(c *gin.Context) {
	doubts, err := h.svc.ListAll(c.Request.Context(), middleware.Role(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"doubts": doubts})
}

// ListMine returns the requester's own doubts.
func (h *DoubtHandler) ListMine(c *gin.Context) {
	doubts, err := h.svc.ListMine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"doubts": doubts})
}

// Get fetches one doubt and bumps its view counter. The vote total is served
// cache-first and the caller's own vote rides along for the UI; both are
// best-effort reads that fall back to the stored doubt.
func (h *DoubtHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid doubt id"})
		return
	}

	doubt, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"msg": apperr.Message(err)})
		return
	}

	if total, err := h.votes.Total(c.Request.Context(), id); err == nil {
		doubt.VoteTotal = total
	}
	yourVote, err := h.votes.CallerVote(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		yourVote = model.VoteNone
	}
	c.JSON(http.StatusOK, gin.H{"doubt": doubt, "your_vote": yourVote})
}

// Dashboard returns the counts plus the five most recent doubts.
func (h *DoubtHandler) Dashboard(c *gin.Context) {
	dash, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "dashboard failed"})
		return
	}
	c.JSON(http.StatusOK, dash)
}

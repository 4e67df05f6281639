package handler

import (
	"net/http"
	"strconv"

	"Doubts_Clearance/internal/apperr"
	"Doubts_Clearance/internal/middleware"
	"Doubts_Clearance/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type RegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleReq struct {
	Credential string `json:"credential"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	user, pair, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"msg": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": pair})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	user, pair, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"msg": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": pair})
}

// Google signs a user in with a Google ID token from the institutional
// OAuth flow.
func (h *UserHandler) Google(c *gin.Context) {
	var req GoogleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	user, pair, err := h.svc.GoogleSignIn(c.Request.Context(), req.Credential)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"msg": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": pair})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.UserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *UserHandler) TokenRefresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.svc.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"msg": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ReputationHistory lists a user's reputation adjustments, newest first.
func (h *UserHandler) ReputationHistory(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid user id"})
		return
	}

	history, err := h.svc.ReputationHistory(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "history failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/grupoevolution/tiktokconteudos/internal/logger"
	"github.com/grupoevolution/tiktokconteudos/internal/middleware"
	"github.com/grupoevolution/tiktokconteudos/internal/model"
	"github.com/grupoevolution/tiktokconteudos/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth   *service.AuthService
	secret []byte
}

func NewAuthHandler(auth *service.AuthService, secret []byte) *AuthHandler {
	return &AuthHandler{auth: auth, secret: secret}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	u, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) {
			logger.Warn("login.failed", "email", req.Email)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		respondError(c, err)
		return
	}

	token, err := middleware.IssueToken(h.secret, u.ID, u.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info("login.ok", "uid", u.ID, "email", u.Email)

	c.JSON(http.StatusOK, model.LoginResponse{
		Success:  true,
		Token:    token,
		UserType: "admin",
		User:     model.UserView{ID: u.ID, Email: u.Email},
	})
}

func (h *AuthHandler) Verify(c *gin.Context) {
	claims, err := middleware.BearerClaims(c, h.secret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": claims})
}

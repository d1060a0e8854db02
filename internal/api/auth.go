package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tomiwa-code/recipe-share-api/internal/apperr"
	"github.com/tomiwa-code/recipe-share-api/internal/service"
)

type AuthHandler struct {
	svc    service.IAuthService
	logger *slog.Logger
}

func NewAuthHandler(svc service.IAuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// Register handles POST /auth/register. The payload may be JSON or a
// form/multipart body.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, apperr.Validation("body", err.Error()))
		return
	}

	user, token, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Location: req.Location,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, "account created", authResponse{User: user, Token: token})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, apperr.Validation("body", err.Error()))
		return
	}

	user, token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "logged in", authResponse{User: user, Token: token})
}

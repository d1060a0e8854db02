package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tomiwa-code/recipe-share-api/internal/apperr"
	"github.com/tomiwa-code/recipe-share-api/internal/middleware"
	"github.com/tomiwa-code/recipe-share-api/internal/service"
)

type UserHandler struct {
	svc    service.IAuthService
	logger *slog.Logger
}

func NewUserHandler(svc service.IAuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// Me handles GET /user/me.
func (h *UserHandler) Me(c *gin.Context) {
	caller, ok := middleware.CallerIdentity(c)
	if !ok {
		respondError(c, h.logger, apperr.Unauthorized("authentication required"))
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), caller.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "profile fetched", user)
}

// UpdateProfile handles PUT /user/update: a multipart form with optional
// name/location fields and optional avatar/cover image files.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	caller, ok := middleware.CallerIdentity(c)
	if !ok {
		respondError(c, h.logger, apperr.Unauthorized("authentication required"))
		return
	}

	var in service.UpdateProfileInput
	if v, present := c.GetPostForm("name"); present {
		in.Name = &v
	}
	if v, present := c.GetPostForm("location"); present {
		in.Location = &v
	}

	avatar, err := optionalFormImage(c, "avatar")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	in.Avatar = avatar

	cover, err := optionalFormImage(c, "cover")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	in.Cover = cover

	user, err := h.svc.UpdateProfile(c.Request.Context(), caller, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "profile updated", user)
}

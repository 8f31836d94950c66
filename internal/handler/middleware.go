package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"school_service/internal/auth"
	"school_service/internal/service"
)

const identityKey = "identity"

// bearerToken returns the token of an "Authorization: Bearer <token>" header,
// or "" when the header is absent or uses another scheme.
func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// VerifyUser runs the session verifier on the bearer token and stores the
// caller identity in the request context.
func (h *Handler) VerifyUser(c *gin.Context) {
	const op = "handler.VerifyUser"

	log := h.log.With(slog.String("op", op))

	id, err := h.auth.Authenticate(c.Request.Context(), bearerToken(c))
	if err != nil {
		if reason, ok := auth.RejectionReason(err); ok {
			log.Warn("session rejected", slog.String("reason", string(reason)))

			newErrorResponse(c, http.StatusUnauthorized, "unauthorized")

			return
		}

		if errors.Is(err, service.ErrUnauthorized) {
			newErrorResponse(c, http.StatusUnauthorized, "unauthorized")

			return
		}

		log.Error("failed to verify session", slog.Any("error", err))

		newErrorResponse(c, http.StatusInternalServerError, "internal error")

		return
	}

	c.Set(identityKey, id)

	c.Next()
}

// VerifyAdmin must run after VerifyUser.
func (h *Handler) VerifyAdmin(c *gin.Context) {
	id, ok := caller(c)
	if !ok || !id.IsAdmin() {
		h.log.Warn("admin route denied", slog.String("username", id.Username), slog.String("path", c.FullPath()))

		newErrorResponse(c, http.StatusForbidden, "admin access required")

		return
	}

	c.Next()
}

func caller(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}

	id, ok := v.(auth.Identity)

	return id, ok
}

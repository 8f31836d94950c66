package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"school_service/internal/models"
	"school_service/internal/service"
)

type registerRequest struct {
	Username       string                 `json:"username"`
	Password       string                 `json:"password"`
	Role           models.Role            `json:"role"`
	RoleAttributes *models.RoleAttributes `json:"roleAttributes"`
	AdditionalData *models.RoleAttributes `json:"additionalData"`
}

func (r registerRequest) attributes() models.RoleAttributes {
	switch {
	case r.RoleAttributes != nil:
		return *r.RoleAttributes
	case r.AdditionalData != nil:
		return *r.AdditionalData
	}
	return models.RoleAttributes{}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	const op = "handler.Register"

	log := h.log.With(slog.String("op", op))

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug("failed to read request body", slog.Any("error", err))

		newErrorResponse(c, http.StatusBadRequest, "invalid request body")

		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Username:   req.Username,
		Password:   req.Password,
		Role:       req.Role,
		Attributes: req.attributes(),
	})
	if err != nil {
		h.writeError(c, log, err)

		return
	}

	log.Info("user registered", slog.String("username", user.Username), slog.String("role", string(user.Role)))

	c.JSON(http.StatusCreated, dataResponse{Message: "user registered", Data: user.View()})
}

// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	const op = "handler.Login"

	log := h.log.With(slog.String("op", op))

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug("failed to read request body", slog.Any("error", err))

		newErrorResponse(c, http.StatusBadRequest, "invalid request body")

		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// unknown user and wrong password look the same from outside
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			log.Info("login failed", slog.String("username", req.Username))

			newErrorResponse(c, http.StatusUnauthorized, "invalid credentials")

			return
		}

		h.writeError(c, log, err)

		return
	}

	log.Info("user logged in", slog.String("username", req.Username))

	c.JSON(http.StatusOK, loginResponse{Message: "login successful", Token: token})
}

// POST /auth/logout
//
// Logout reads the bearer token itself instead of going through VerifyUser:
// expired tokens and tokens of deleted users can still be revoked.
func (h *Handler) Logout(c *gin.Context) {
	const op = "handler.Logout"

	log := h.log.With(slog.String("op", op))

	if err := h.auth.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		h.writeError(c, log, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

// GET /auth/me
func (h *Handler) Me(c *gin.Context) {
	id, _ := caller(c)

	c.JSON(http.StatusOK, id)
}

// GET /auth/userlist
func (h *Handler) ListUsers(c *gin.Context) {
	const op = "handler.ListUsers"

	log := h.log.With(slog.String("op", op))

	users, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		h.writeError(c, log, err)

		return
	}

	c.JSON(http.StatusOK, users)
}

// DELETE /auth/delete/:username
func (h *Handler) DeleteUser(c *gin.Context) {
	const op = "handler.DeleteUser"

	log := h.log.With(slog.String("op", op))

	username := c.Param("username")
	if err := h.auth.DeleteUser(c.Request.Context(), username); err != nil {
		h.writeError(c, log, err)

		return
	}

	log.Info("user deleted", slog.String("username", username))

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

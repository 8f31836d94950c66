package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"school_service/internal/models"
)

// POST /messages
func (h *Handler) CreateMessages(c *gin.Context) {
	const op = "handler.CreateMessages"

	log := h.log.With(slog.String("op", op))

	var batch []models.NewMessage
	if err := c.ShouldBindJSON(&batch); err != nil {
		log.Debug("failed to read request body", slog.Any("error", err))

		newErrorResponse(c, http.StatusBadRequest, "expected an array of messages")

		return
	}

	created, err := h.messages.Create(c.Request.Context(), batch)
	if err != nil {
		h.writeError(c, log, err)

		return
	}

	log.Info("messages created", slog.Int("count", len(created)))

	c.JSON(http.StatusCreated, dataResponse{Message: "messages created", Data: created})
}

// GET /messages
func (h *Handler) ListMessages(c *gin.Context) {
	const op = "handler.ListMessages"

	msgs, err := h.messages.List(c.Request.Context())
	if err != nil {
		h.writeError(c, h.log.With(slog.String("op", op)), err)

		return
	}

	c.JSON(http.StatusOK, msgs)
}

// GET /messages/user
func (h *Handler) Inbox(c *gin.Context) {
	const op = "handler.Inbox"

	id, _ := caller(c)

	msgs, err := h.messages.Inbox(c.Request.Context(), id.Username)
	if err != nil {
		h.writeError(c, h.log.With(slog.String("op", op)), err)

		return
	}

	c.JSON(http.StatusOK, msgs)
}

// GET /messages/:id
func (h *Handler) GetMessage(c *gin.Context) {
	const op = "handler.GetMessage"

	id, _ := caller(c)

	msg, err := h.messages.Get(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		h.writeError(c, h.log.With(slog.String("op", op)), err)

		return
	}

	c.JSON(http.StatusOK, msg)
}

// PUT /messages/:id
func (h *Handler) UpdateMessage(c *gin.Context) {
	const op = "handler.UpdateMessage"

	log := h.log.With(slog.String("op", op))

	var upd models.MessageUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		log.Debug("failed to read request body", slog.Any("error", err))

		newErrorResponse(c, http.StatusBadRequest, "invalid request body")

		return
	}

	msg, err := h.messages.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		h.writeError(c, log, err)

		return
	}

	c.JSON(http.StatusOK, dataResponse{Message: "message updated", Data: msg})
}

// DELETE /messages/:id
func (h *Handler) DeleteMessage(c *gin.Context) {
	const op = "handler.DeleteMessage"

	log := h.log.With(slog.String("op", op))

	if err := h.messages.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, log, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}

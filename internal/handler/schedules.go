package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"school_service/internal/models"
)

// POST /schedules
func (h *Handler) CreateSchedules(c *gin.Context) {
	const op = "handler.CreateSchedules"

	log := h.log.With(slog.String("op", op))

	var batch []models.NewSchedule
	if err := c.ShouldBindJSON(&batch); err != nil {
		log.Debug("failed to read request body", slog.Any("error", err))

		newErrorResponse(c, http.StatusBadRequest, "expected an array of schedule entries")

		return
	}

	created, err := h.schedules.Create(c.Request.Context(), batch)
	if err != nil {
		h.writeError(c, log, err)

		return
	}

	log.Info("schedules created", slog.Int("count", len(created)))

	c.JSON(http.StatusCreated, dataResponse{Message: "schedules created", Data: created})
}

// GET /schedules
func (h *Handler) ListSchedules(c *gin.Context) {
	const op = "handler.ListSchedules"

	list, err := h.schedules.List(c.Request.Context())
	if err != nil {
		h.writeError(c, h.log.With(slog.String("op", op)), err)

		return
	}

	c.JSON(http.StatusOK, list)
}

// GET /schedules/:day
func (h *Handler) ListDaySchedules(c *gin.Context) {
	const op = "handler.ListDaySchedules"

	log := h.log.With(slog.String("op", op))

	var filter models.ScheduleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid query")

		return
	}

	id, _ := caller(c)

	list, err := h.schedules.ListDay(c.Request.Context(), id, c.Param("day"), filter)
	if err != nil {
		h.writeError(c, log, err)

		return
	}

	c.JSON(http.StatusOK, list)
}

// GET /schedules/:day/:id
func (h *Handler) GetSchedule(c *gin.Context) {
	const op = "handler.GetSchedule"

	sch, err := h.schedules.Get(c.Request.Context(), c.Param("day"), c.Param("id"))
	if err != nil {
		h.writeError(c, h.log.With(slog.String("op", op)), err)

		return
	}

	c.JSON(http.StatusOK, sch)
}

// PUT /schedules/:day/:id
func (h *Handler) UpdateSchedule(c *gin.Context) {
	const op = "handler.UpdateSchedule"

	log := h.log.With(slog.String("op", op))

	var upd models.ScheduleUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		log.Debug("failed to read request body", slog.Any("error", err))

		newErrorResponse(c, http.StatusBadRequest, "invalid request body")

		return
	}

	sch, err := h.schedules.Update(c.Request.Context(), c.Param("day"), c.Param("id"), upd)
	if err != nil {
		h.writeError(c, log, err)

		return
	}

	c.JSON(http.StatusOK, dataResponse{Message: "schedule updated", Data: sch})
}

// DELETE /schedules/:day/:id
func (h *Handler) DeleteSchedule(c *gin.Context) {
	const op = "handler.DeleteSchedule"

	log := h.log.With(slog.String("op", op))

	if err := h.schedules.Delete(c.Request.Context(), c.Param("day"), c.Param("id")); err != nil {
		h.writeError(c, log, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "schedule deleted"})
}

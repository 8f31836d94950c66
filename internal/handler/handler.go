package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"school_service/internal/auth"
	"school_service/internal/models"
	"school_service/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
	DeleteUser(ctx context.Context, username string) error
	ListUsers(ctx context.Context) ([]models.UserView, error)
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

type MessageService interface {
	Create(ctx context.Context, batch []models.NewMessage) ([]models.Message, error)
	List(ctx context.Context) ([]models.Message, error)
	Inbox(ctx context.Context, username string) ([]models.Message, error)
	Get(ctx context.Context, caller auth.Identity, id string) (models.Message, error)
	Update(ctx context.Context, id string, upd models.MessageUpdate) (models.Message, error)
	Delete(ctx context.Context, id string) error
}

type ScheduleService interface {
	Create(ctx context.Context, batch []models.NewSchedule) ([]models.Schedule, error)
	List(ctx context.Context) ([]models.Schedule, error)
	ListDay(ctx context.Context, caller auth.Identity, day string, filter models.ScheduleFilter) ([]models.Schedule, error)
	Get(ctx context.Context, day, id string) (models.Schedule, error)
	Update(ctx context.Context, day, id string, upd models.ScheduleUpdate) (models.Schedule, error)
	Delete(ctx context.Context, day, id string) error
}

type Handler struct {
	auth      AuthService
	messages  MessageService
	schedules ScheduleService
	log       *slog.Logger
}

type errorResponse struct {
	Message string `json:"message"`
}

type dataResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func newErrorResponse(c *gin.Context, statusCode int, errMessage string) {
	c.AbortWithStatusJSON(statusCode, errorResponse{Message: errMessage})
}

func NewHandler(authSrvc AuthService, messages MessageService, schedules ScheduleService, lgr *slog.Logger) *Handler {
	return &Handler{
		auth:      authSrvc,
		messages:  messages,
		schedules: schedules,
		log:       lgr,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.RequestLogger())

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)

		authGroup.Use(h.VerifyUser)
		authGroup.GET("/me", h.Me)
		authGroup.GET("/userlist", h.VerifyAdmin, h.ListUsers)
		authGroup.DELETE("/delete/:username", h.VerifyAdmin, h.DeleteUser)
	}

	messages := router.Group("/messages", h.VerifyUser)
	{
		messages.POST("", h.VerifyAdmin, h.CreateMessages)
		messages.GET("", h.VerifyAdmin, h.ListMessages)
		messages.GET("/user", h.Inbox)
		messages.GET("/:id", h.GetMessage)
		messages.PUT("/:id", h.VerifyAdmin, h.UpdateMessage)
		messages.DELETE("/:id", h.VerifyAdmin, h.DeleteMessage)
	}

	schedules := router.Group("/schedules", h.VerifyUser)
	{
		schedules.POST("", h.VerifyAdmin, h.CreateSchedules)
		schedules.GET("", h.ListSchedules)
		schedules.GET("/:day", h.ListDaySchedules)
		schedules.GET("/:day/:id", h.GetSchedule)
		schedules.PUT("/:day/:id", h.VerifyAdmin, h.UpdateSchedule)
		schedules.DELETE("/:day/:id", h.VerifyAdmin, h.DeleteSchedule)
	}

	return router
}

// RequestLogger logs one line per request after it has been served.
func (h *Handler) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		h.log.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", requestPath(c)),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// requestPath prefers the route pattern so ids stay out of the logs.
// Unmatched requests have no pattern and fall back to the raw path.
func requestPath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

// writeError maps the service error taxonomy to a status code and a message
// that carries no internal detail.
func (h *Handler) writeError(c *gin.Context, log *slog.Logger, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		log.Debug("validation failed", slog.String("reason", verr.Reason))
		newErrorResponse(c, http.StatusBadRequest, verr.Reason)
	case errors.Is(err, service.ErrValidation):
		newErrorResponse(c, http.StatusBadRequest, "invalid request")
	case errors.Is(err, service.ErrAlreadyExists):
		newErrorResponse(c, http.StatusBadRequest, "already exists")
	case errors.Is(err, service.ErrNotFound):
		newErrorResponse(c, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		newErrorResponse(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrUnauthorized):
		newErrorResponse(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, service.ErrForbidden):
		newErrorResponse(c, http.StatusForbidden, "forbidden")
	default:
		log.Error("request failed", slog.Any("error", err))
		newErrorResponse(c, http.StatusInternalServerError, "internal error")
	}
}

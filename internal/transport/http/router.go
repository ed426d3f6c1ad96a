package rest

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Gunvolt24/kconsumer/internal/consumer"
	"github.com/Gunvolt24/kconsumer/internal/domain"
	"github.com/Gunvolt24/kconsumer/internal/ports"
	"github.com/Gunvolt24/kconsumer/internal/usecase"
	"github.com/Gunvolt24/kconsumer/pkg/httpx"
	"github.com/Gunvolt24/kconsumer/pkg/validate"
)

const (
	defaultStatusTimeoutMS = 1000
	maxStatusTimeoutMS     = 5000
)

// Handler — HTTP-обработчики управления консьюмером и чтения сохранённых сообщений.
type Handler struct {
	control ports.ConsumerControl
	reader  ports.MessageReadService
	log     ports.Logger
	timeout time.Duration // таймаут обращения к хранилищу; 0 — без ограничения
}

// NewHandler — reader может быть nil: тогда /messages отвечает 503.
func NewHandler(control ports.ConsumerControl, reader ports.MessageReadService, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{control: control, reader: reader, log: log, timeout: timeout}
}

// NewRouter — gin с recovery, request-id, логированием и (если задан serviceName) otelgin.
func NewRouter(h *Handler, serviceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if serviceName != "" {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/consumer/status", h.status)
	r.POST("/consumer/subscribe", h.subscribe)

	r.GET("/topics/:topic/count", h.countMessages)
	r.GET("/messages/:topic/:partition/:offset", h.getMessage)

	return r
}

type statusResponse struct {
	State      domain.LifecycleState   `json:"state"`
	Assignment []domain.TopicPartition `json:"assignment"`
	Error      string                  `json:"error,omitempty"`
}

// status — состояние жизненного цикла и текущее назначение.
// Если назначение недоступно (нет подписки, не запущен, таймаут), отдаём состояние и причину.
func (h *Handler) status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(),
		httpx.ParseTimeoutMS(c, defaultStatusTimeoutMS, maxStatusTimeoutMS))
	defer cancel()

	resp := statusResponse{State: h.control.State(), Assignment: []domain.TopicPartition{}}
	tps, err := h.control.Assignment(ctx)
	switch {
	case err == nil:
		if tps != nil {
			resp.Assignment = tps
		}
	case errors.Is(err, consumer.ErrNotSubscribed), errors.Is(err, consumer.ErrNotStarted):
		resp.Error = err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		resp.Error = "assignment request timed out"
	default:
		h.log.Errorf(c.Request.Context(), "Assignment failed err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

type subscribeRequest struct {
	Topics []string `json:"topics"`
}

func (h *Handler) subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := h.control.Subscribe(req.Topics...); err != nil {
		if errors.Is(err, validate.ErrInvalidTopic) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Errorf(c.Request.Context(), "Subscribe failed topics=%v err=%v", req.Topics, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"topics": req.Topics})
}

func (h *Handler) getMessage(c *gin.Context) {
	if h.reader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": usecase.ErrStorageDisabled.Error()})
		return
	}
	partition, okP := httpx.ParamInt64(c, "partition", 0, math.MaxInt32)
	offset, okO := httpx.ParamInt64(c, "offset", 0, math.MaxInt64)
	if !okP || !okO {
		c.JSON(http.StatusBadRequest, gin.H{"error": "partition and offset must be non-negative integers"})
		return
	}
	ref := domain.MessageRef{Topic: c.Param("topic"), Partition: int32(partition), Offset: offset}

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	msg, err := h.reader.GetMessage(ctx, ref)
	if err != nil {
		h.storageError(c, "GetMessage", ref.String(), err)
		return
	}
	if msg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) countMessages(c *gin.Context) {
	if h.reader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": usecase.ErrStorageDisabled.Error()})
		return
	}
	topic := c.Param("topic")

	ctx, cancel := h.storageCtx(c)
	defer cancel()

	n, err := h.reader.CountMessages(ctx, topic)
	if err != nil {
		h.storageError(c, "CountMessages", topic, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topic": topic, "count": n})
}

func (h *Handler) storageCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *Handler) storageError(c *gin.Context, op, key string, err error) {
	switch {
	case errors.Is(err, usecase.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "storage timeout"})
	default:
		h.log.Errorf(c.Request.Context(), "%s failed key=%s err=%v", op, key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

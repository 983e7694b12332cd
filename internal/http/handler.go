package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"network-dashboard/internal/http/middleware"
	"network-dashboard/internal/service"
)

// Handler serves the aggregated table for the network-api binary.
type Handler struct {
	network *service.NetworkService
	log     zerolog.Logger
}

func NewHandler(network *service.NetworkService, log zerolog.Logger) *Handler {
	return &Handler{network: network, log: log}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := r.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/data", h.getData)
	protected.POST("/cache/invalidate", h.invalidateCache)
}

// getData returns the rows as a bare JSON array.
func (h *Handler) getData(c *gin.Context) {
	rows, err := h.network.Rows(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *Handler) invalidateCache(c *gin.Context) {
	if err := h.network.Invalidate(c.Request.Context()); err != nil {
		h.handleError(c, err)
		return
	}

	event := h.log.Info()
	if claims, ok := middleware.Claims(c); ok {
		event = event.Str("user_id", claims.UserID)
	}
	event.Msg("cache invalidated on request")
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	respondError(c, h.log, err)
}

func respondError(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrSourceUnavailable):
		c.JSON(http.StatusBadGateway, errorResponse(service.ErrSourceUnavailable.Error()))
	case errors.Is(err, service.ErrAwaitingData):
		c.JSON(http.StatusServiceUnavailable, errorResponse(service.ErrAwaitingData.Error()))
	case errors.Is(err, service.ErrInvalidSelection):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	default:
		log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{"data": data}
}

func errorResponse(message string) gin.H {
	return gin.H{"error": message}
}

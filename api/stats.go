package api

import (
	"net/http"

	"github.com/Domenick1991/aircargo/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	service booking.BookingUseCase
}

func NewStatsHandler(service booking.BookingUseCase) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Register(router *gin.RouterGroup) {
	router.GET("/bookings", h.bookings)
}

func (h *StatsHandler) bookings(c *gin.Context) {
	counts, err := h.service.StatusCounts(c.Request.Context())
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	total := 0
	byStatus := make(map[string]int, len(counts))
	for status, count := range counts {
		byStatus[string(status)] = count
		total += count
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "by_status": byStatus})
}

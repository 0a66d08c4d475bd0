package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/aircargo/internal/domain"
	"github.com/Domenick1991/aircargo/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Pieces      int      `json:"pieces"`
	WeightKG    float64  `json:"weight_kg"`
	UserID      int64    `json:"user_id"`
	FlightIDs   []string `json:"flight_ids"`
}

type updateStatusRequest struct {
	Status      string `json:"status"`
	Location    string `json:"location"`
	FlightID    string `json:"flight_id"`
	Description string `json:"description"`
}

type bulkStatusRequest struct {
	RefIDs   []string `json:"ref_ids"`
	Status   string   `json:"status"`
	Location string   `json:"location"`
}

type flightResponse struct {
	FlightID          string `json:"flight_id"`
	FlightNumber      string `json:"flight_number"`
	AirlineName       string `json:"airline_name"`
	DepartureDatetime string `json:"departure_datetime"`
	ArrivalDatetime   string `json:"arrival_datetime"`
	Origin            string `json:"origin"`
	Destination       string `json:"destination"`
}

type timelineEventResponse struct {
	EventType   string `json:"event_type"`
	Location    string `json:"location,omitempty"`
	FlightID    string `json:"flight_id,omitempty"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

type bookingResponse struct {
	RefID       string                  `json:"ref_id"`
	Origin      string                  `json:"origin"`
	Destination string                  `json:"destination"`
	Pieces      int                     `json:"pieces"`
	WeightKG    float64                 `json:"weight_kg"`
	Status      string                  `json:"status"`
	Version     int                     `json:"version"`
	CreatedAt   string                  `json:"created_at"`
	UpdatedAt   string                  `json:"updated_at"`
	Flights     []flightResponse        `json:"flights"`
	Timeline    []timelineEventResponse `json:"timeline"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:ref", h.get)
	router.PATCH("/:ref/status", h.updateStatus)
	router.POST("/bulk-status", h.bulkStatus)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Origin == "" || req.Destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin and destination are required"})
		return
	}
	if req.Origin == req.Destination {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin and destination must differ"})
		return
	}

	agg, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		Origin:      req.Origin,
		Destination: req.Destination,
		Pieces:      req.Pieces,
		WeightKG:    req.WeightKG,
		UserID:      req.UserID,
		FlightIDs:   req.FlightIDs,
	})
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(agg))
}

func (h *BookingHandler) get(c *gin.Context) {
	agg, err := h.service.GetBookingHistory(c.Request.Context(), c.Param("ref"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	if agg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(agg))
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agg, err := h.service.UpdateStatus(c.Request.Context(), booking.UpdateStatusInput{
		RefID:       c.Param("ref"),
		Status:      domain.BookingStatus(req.Status),
		Location:    req.Location,
		FlightID:    req.FlightID,
		Description: req.Description,
	})
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	if agg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(agg))
}

func (h *BookingHandler) bulkStatus(c *gin.Context) {
	var req bulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.RefIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ref_ids is required"})
		return
	}

	outcomes, err := h.service.BulkUpdateStatus(c.Request.Context(), booking.BulkUpdateInput{
		RefIDs:   req.RefIDs,
		Status:   domain.BookingStatus(req.Status),
		Location: req.Location,
	})
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": outcomes})
}

func toBookingResponse(agg *domain.BookingAggregate) bookingResponse {
	resp := bookingResponse{
		RefID:       agg.RefID,
		Origin:      agg.Origin,
		Destination: agg.Destination,
		Pieces:      agg.Pieces,
		WeightKG:    agg.WeightKG,
		Status:      string(agg.Status),
		Version:     agg.Version,
		CreatedAt:   agg.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   agg.UpdatedAt.Format(time.RFC3339),
		Flights:     make([]flightResponse, 0, len(agg.Flights)),
		Timeline:    make([]timelineEventResponse, 0, len(agg.Timeline)),
	}
	for _, f := range agg.Flights {
		resp.Flights = append(resp.Flights, toFlightResponse(f))
	}
	for _, e := range agg.Timeline {
		resp.Timeline = append(resp.Timeline, timelineEventResponse{
			EventType:   string(e.EventType),
			Location:    e.Location,
			FlightID:    e.FlightID,
			Description: e.Description,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp
}

func toFlightResponse(f domain.Flight) flightResponse {
	return flightResponse{
		FlightID:          f.FlightID,
		FlightNumber:      f.FlightNumber,
		AirlineName:       f.AirlineName,
		DepartureDatetime: f.DepartureDatetime.Format(time.RFC3339),
		ArrivalDatetime:   f.ArrivalDatetime.Format(time.RFC3339),
		Origin:            f.Origin,
		Destination:       f.Destination,
	}
}

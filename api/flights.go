package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/aircargo/internal/domain"
	"github.com/Domenick1991/aircargo/internal/service/flights"
	"github.com/Domenick1991/aircargo/internal/service/routes"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	flights flights.FlightUseCase
	routes  routes.RouteUseCase
}

type createFlightRequest struct {
	FlightID          string    `json:"flight_id"`
	FlightNumber      string    `json:"flight_number"`
	AirlineName       string    `json:"airline_name"`
	DepartureDatetime time.Time `json:"departure_datetime"`
	ArrivalDatetime   time.Time `json:"arrival_datetime"`
	Origin            string    `json:"origin"`
	Destination       string    `json:"destination"`
}

type transitRouteResponse struct {
	Legs                 []routeLegResponse `json:"legs"`
	Hub                  string             `json:"hub"`
	TotalDurationMinutes int                `json:"total_duration_minutes"`
	LayoverMinutes       int                `json:"layover_minutes"`
}

type routeLegResponse struct {
	flightResponse
	SequenceOrder int `json:"sequence_order"`
}

type routesResponse struct {
	Direct  []flightResponse       `json:"direct"`
	Transit []transitRouteResponse `json:"transit"`
}

func NewFlightHandler(flightSvc flights.FlightUseCase, routeSvc routes.RouteUseCase) *FlightHandler {
	return &FlightHandler{flights: flightSvc, routes: routeSvc}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/", h.create)
	router.GET("/routes", h.findRoutes)
	router.GET("/:id", h.get)
}

func (h *FlightHandler) list(c *gin.Context) {
	list, err := h.flights.List(c.Request.Context())
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	resp := make([]flightResponse, 0, len(list))
	for _, f := range list {
		resp = append(resp, toFlightResponse(f))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.flights.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(*flight))
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight := domain.Flight{
		FlightID:          req.FlightID,
		FlightNumber:      req.FlightNumber,
		AirlineName:       req.AirlineName,
		DepartureDatetime: req.DepartureDatetime,
		ArrivalDatetime:   req.ArrivalDatetime,
		Origin:            req.Origin,
		Destination:       req.Destination,
	}
	if err := h.flights.Create(c.Request.Context(), &flight); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(flight))
}

func (h *FlightHandler) findRoutes(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")
	dateParam := c.Query("departure_date")
	if origin == "" || destination == "" || dateParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin, destination and departure_date are required"})
		return
	}
	if origin == destination {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin and destination must differ"})
		return
	}
	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "departure_date must be YYYY-MM-DD"})
		return
	}

	result, err := h.routes.FindRoutes(c.Request.Context(), origin, destination, date)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	resp := routesResponse{
		Direct:  make([]flightResponse, 0, len(result.Direct)),
		Transit: make([]transitRouteResponse, 0, len(result.Transit)),
	}
	for _, f := range result.Direct {
		resp.Direct = append(resp.Direct, toFlightResponse(f))
	}
	for _, t := range result.Transit {
		legs := make([]routeLegResponse, 0, len(t.Legs))
		for _, leg := range t.Legs {
			legs = append(legs, routeLegResponse{
				flightResponse: toFlightResponse(leg.Flight),
				SequenceOrder:  leg.SequenceOrder,
			})
		}
		resp.Transit = append(resp.Transit, transitRouteResponse{
			Legs:                 legs,
			Hub:                  t.Hub,
			TotalDurationMinutes: t.TotalDurationMinutes,
			LayoverMinutes:       t.LayoverMinutes,
		})
	}
	c.JSON(http.StatusOK, resp)
}

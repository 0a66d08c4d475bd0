package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/aircargo/internal/domain"
	"github.com/Domenick1991/aircargo/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.BookingAggregate, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingAggregate), args.Error(1)
}

func (m *MockBookingUseCase) UpdateStatus(ctx context.Context, input booking.UpdateStatusInput) (*domain.BookingAggregate, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingAggregate), args.Error(1)
}

func (m *MockBookingUseCase) GetBookingHistory(ctx context.Context, refID string) (*domain.BookingAggregate, error) {
	args := m.Called(ctx, refID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingAggregate), args.Error(1)
}

func (m *MockBookingUseCase) BulkUpdateStatus(ctx context.Context, input booking.BulkUpdateInput) ([]booking.BulkOutcome, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking.BulkOutcome), args.Error(1)
}

func (m *MockBookingUseCase) StatusCounts(ctx context.Context) (map[domain.BookingStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.BookingStatus]int), args.Error(1)
}

func testAggregate(refID string, status domain.BookingStatus, version int) *domain.BookingAggregate {
	return &domain.BookingAggregate{
		Booking: domain.Booking{
			RefID:       refID,
			Origin:      "DEL",
			Destination: "BLR",
			Pieces:      2,
			WeightKG:    50,
			Status:      status,
			Version:     version,
		},
		Timeline: []domain.TimelineEvent{
			{EventType: domain.BookingStatusBooked, Location: "DEL", Description: "Booking created"},
		},
	}
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBookingRequest{
		Origin:      "DEL",
		Destination: "BLR",
		Pieces:      2,
		WeightKG:    50,
		FlightIDs:   []string{"6E101-2026-09-01"},
	})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateBooking", c.Request.Context(), mock.AnythingOfType("booking.CreateBookingInput")).
		Return(testAggregate("AWB-260831120000-AB12CD", domain.BookingStatusBooked, 1), nil).Once()

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "AWB-260831120000-AB12CD", response.RefID)
	assert.Equal(t, string(domain.BookingStatusBooked), response.Status)
	assert.Equal(t, 1, response.Version)
	assert.Len(t, response.Timeline, 1)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_SameOriginDestination(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(createBookingRequest{Origin: "DEL", Destination: "DEL", Pieces: 1, WeightKG: 10})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	// rejected before reaching the lifecycle manager
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking")
}

func TestBookingHandler_get_NotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "ref", Value: "AWB-MISSING"}}
	c.Request = httptest.NewRequest("GET", "/bookings/AWB-MISSING", nil)

	mockService.On("GetBookingHistory", c.Request.Context(), "AWB-MISSING").Return(nil, nil).Once()

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_get(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	refID := "AWB-260831120000-AB12CD"
	c.Params = gin.Params{{Key: "ref", Value: refID}}
	c.Request = httptest.NewRequest("GET", "/bookings/"+refID, nil)

	mockService.On("GetBookingHistory", c.Request.Context(), refID).
		Return(testAggregate(refID, domain.BookingStatusDeparted, 2), nil).Once()

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusDeparted), response.Status)
	assert.Equal(t, 2, response.Version)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_updateStatus_Locked(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	refID := "AWB-260831120000-AB12CD"
	body, _ := json.Marshal(updateStatusRequest{Status: "ARRIVED", Location: "BLR"})
	c.Params = gin.Params{{Key: "ref", Value: refID}}
	c.Request = httptest.NewRequest("PATCH", "/bookings/"+refID+"/status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("UpdateStatus", c.Request.Context(), mock.AnythingOfType("booking.UpdateStatusInput")).
		Return(nil, domain.ErrResourceLocked).Once()

	handler.updateStatus(c)

	assert.Equal(t, http.StatusLocked, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_updateStatus_BusinessRuleConflict(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	refID := "AWB-260831120000-AB12CD"
	body, _ := json.Marshal(updateStatusRequest{Status: "CANCELLED"})
	c.Params = gin.Params{{Key: "ref", Value: refID}}
	c.Request = httptest.NewRequest("PATCH", "/bookings/"+refID+"/status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("UpdateStatus", c.Request.Context(), mock.AnythingOfType("booking.UpdateStatusInput")).
		Return(nil, domain.ErrBusinessRule).Once()

	handler.updateStatus(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_updateStatus_VanishedAfterUpdate(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	refID := "AWB-260831120000-AB12CD"
	body, _ := json.Marshal(updateStatusRequest{Status: "ARRIVED", Location: "BLR"})
	c.Params = gin.Params{{Key: "ref", Value: refID}}
	c.Request = httptest.NewRequest("PATCH", "/bookings/"+refID+"/status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("UpdateStatus", c.Request.Context(), mock.AnythingOfType("booking.UpdateStatusInput")).
		Return(nil, nil).Once()

	handler.updateStatus(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_updateStatus(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	refID := "AWB-260831120000-AB12CD"
	body, _ := json.Marshal(updateStatusRequest{Status: "ARRIVED", Location: "BLR"})
	c.Params = gin.Params{{Key: "ref", Value: refID}}
	c.Request = httptest.NewRequest("PATCH", "/bookings/"+refID+"/status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("UpdateStatus", c.Request.Context(), booking.UpdateStatusInput{
		RefID:    refID,
		Status:   domain.BookingStatusArrived,
		Location: "BLR",
	}).Return(testAggregate(refID, domain.BookingStatusArrived, 3), nil).Once()

	handler.updateStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusArrived), response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_bulkStatus(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(bulkStatusRequest{RefIDs: []string{"AWB-1", "AWB-2"}, Status: "DEPARTED"})
	c.Request = httptest.NewRequest("POST", "/bookings/bulk-status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	outcomes := []booking.BulkOutcome{
		{RefID: "AWB-1", Success: true},
		{RefID: "AWB-2", Success: false, Error: "resource locked"},
	}
	mockService.On("BulkUpdateStatus", c.Request.Context(), mock.AnythingOfType("booking.BulkUpdateInput")).
		Return(outcomes, nil).Once()

	handler.bulkStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_bulkStatus_EmptyRefs(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(bulkStatusRequest{Status: "DEPARTED"})
	c.Request = httptest.NewRequest("POST", "/bookings/bulk-status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.bulkStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "BulkUpdateStatus")
}

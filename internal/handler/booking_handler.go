package handler

import (
	"net/http"

	"fleetadmin/internal/middleware"
	"fleetadmin/internal/model"
	"fleetadmin/internal/service"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

func (h *BookingHandler) RegisterRoutes(router *gin.RouterGroup) {
	bookings := router.Group("/bookings", middleware.RequirePermission("bookings"))
	{
		bookings.GET("", h.ListBookings)
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id", h.UpdateBooking)
		bookings.PATCH("/:id/status", h.UpdateBookingStatus)
		bookings.GET("/:id/timeline", h.GetBookingTimeline)
		bookings.DELETE("/:id", h.DeleteBooking)
	}
}

// ListBookings returns every booking matching the filters
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Search booking number, customer, route or vehicle"
// @Param        status  query     string  false  "pending, confirmed, completed or cancelled"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.Response{data=[]model.Booking}
// @Router       /api/bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	q, params, paged := listRequest(c)
	bookings, total, err := h.bookingService.List(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondList(c, bookings, total, params, paged)
}

// GetBooking returns one booking with its timeline
// @Summary      Get booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.Response{data=model.Booking}
// @Failure      404  {object}  response.Response
// @Router       /api/bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, booking))
}

// CreateBooking numbers and stores a new booking
// @Summary      Create booking
// @Description  Trip days, balance and payment status are derived from the submitted dates and amounts
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      model.Booking  true  "Booking"
// @Success      201      {object}  response.Response{data=model.Booking}
// @Failure      400      {object}  response.Response
// @Router       /api/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req model.Booking
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	booking, err := h.bookingService.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, booking))
}

// UpdateBooking replaces a booking
// @Summary      Update booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string         true  "Booking ID"
// @Param        payload  body      model.Booking  true  "Booking"
// @Success      200      {object}  response.Response{data=model.Booking}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/bookings/{id} [put]
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	var req model.Booking
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	booking, err := h.bookingService.Update(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, booking))
}

// UpdateBookingStatus moves a booking to another status
// @Summary      Change booking status
// @Description  approved and rejected are accepted as confirmed and cancelled
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Booking ID"
// @Param        payload  body      service.UpdateStatusRequest  true  "New status"
// @Success      200      {object}  response.Response{data=model.Booking}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/bookings/{id}/status [patch]
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, booking))
}

// GetBookingTimeline returns the booking's history, oldest first
// @Summary      Booking timeline
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.Response{data=[]model.TimelineEntry}
// @Router       /api/bookings/{id}/timeline [get]
func (h *BookingHandler) GetBookingTimeline(c *gin.Context) {
	timeline, err := h.bookingService.Timeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, timeline))
}

// DeleteBooking removes a booking
// @Summary      Delete booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/bookings/{id} [delete]
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	if err := h.bookingService.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Booking deleted"}))
}

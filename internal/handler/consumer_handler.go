package handler

import (
	"net/http"

	"fleetadmin/internal/middleware"
	"fleetadmin/internal/model"
	"fleetadmin/internal/service"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type ConsumerHandler struct {
	svc service.ConsumerService
}

func NewConsumerHandler(svc service.ConsumerService) *ConsumerHandler {
	return &ConsumerHandler{svc: svc}
}

func (h *ConsumerHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/consumers", middleware.RequirePermission("consumers"))
	{
		group.GET("", h.ListConsumers)
		group.POST("", h.CreateConsumer)
		group.GET("/:id", h.GetConsumer)
		group.PUT("/:id", h.UpdateConsumer)
		group.DELETE("/:id", h.DeleteConsumer)
		group.GET("/:id/bookings", h.GetConsumerBookings)
		group.GET("/:id/payments", h.GetConsumerPayments)
	}
}

// ListConsumers returns every consumer matching the filters
// @Summary      List consumers
// @Tags         consumers
// @Produce      json
// @Security     BearerAuth
// @Param        search    query     string  false  "Search text"
// @Param        category  query     string  false  "regular, corporate or new"
// @Success      200       {object}  response.Response{data=[]model.Consumer}
// @Router       /api/consumers [get]
func (h *ConsumerHandler) ListConsumers(c *gin.Context) {
	q, params, paged := listRequest(c)
	items, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondList(c, items, total, params, paged)
}

// GetConsumer returns one consumer
// @Summary      Get consumer
// @Tags         consumers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID"
// @Success      200  {object}  response.Response{data=model.Consumer}
// @Failure      404  {object}  response.Response
// @Router       /api/consumers/{id} [get]
func (h *ConsumerHandler) GetConsumer(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// CreateConsumer stores a new consumer
// @Summary      Create consumer
// @Tags         consumers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      model.Consumer  true  "consumer"
// @Success      201      {object}  response.Response{data=model.Consumer}
// @Failure      400      {object}  response.Response
// @Router       /api/consumers [post]
func (h *ConsumerHandler) CreateConsumer(c *gin.Context) {
	var req model.Consumer
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	item, err := h.svc.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// UpdateConsumer replaces a consumer
// @Summary      Update consumer
// @Tags         consumers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string       true  "ID"
// @Param        payload  body      model.Consumer  true  "consumer"
// @Success      200      {object}  response.Response{data=model.Consumer}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/consumers/{id} [put]
func (h *ConsumerHandler) UpdateConsumer(c *gin.Context) {
	var req model.Consumer
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	item, err := h.svc.Update(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteConsumer removes a consumer
// @Summary      Delete consumer
// @Tags         consumers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/consumers/{id} [delete]
func (h *ConsumerHandler) DeleteConsumer(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Consumer deleted"}))
}

// GetConsumerBookings returns the consumer's bookings, matched by phone
// @Summary      Consumer bookings
// @Tags         consumers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Consumer ID"
// @Success      200  {object}  response.Response{data=[]model.Booking}
// @Router       /api/consumers/{id}/bookings [get]
func (h *ConsumerHandler) GetConsumerBookings(c *gin.Context) {
	bookings, err := h.svc.Bookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, bookings))
}

// GetConsumerPayments returns the consumer's invoices
// @Summary      Consumer payments
// @Tags         consumers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Consumer ID"
// @Success      200  {object}  response.Response{data=[]model.Payment}
// @Router       /api/consumers/{id}/payments [get]
func (h *ConsumerHandler) GetConsumerPayments(c *gin.Context) {
	payments, err := h.svc.Payments(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, payments))
}

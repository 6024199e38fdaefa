package handler

import (
	"net/http"

	"fleetadmin/internal/middleware"
	"fleetadmin/internal/model"
	"fleetadmin/internal/service"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	svc service.VehicleService
}

func NewVehicleHandler(svc service.VehicleService) *VehicleHandler {
	return &VehicleHandler{svc: svc}
}

func (h *VehicleHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/vehicles", middleware.RequirePermission("vehicles"))
	{
		group.GET("/compliance/reminders", h.GetComplianceReminders)
		group.GET("", h.ListVehicles)
		group.POST("", h.CreateVehicle)
		group.GET("/:id", h.GetVehicle)
		group.PUT("/:id", h.UpdateVehicle)
		group.DELETE("/:id", h.DeleteVehicle)
	}
}

// ListVehicles returns every vehicle matching the filters
// @Summary      List vehicles
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Param        search    query     string  false  "Search text"
// @Param        category  query     string  false  "bus, car, tempo or mini-bus"
// @Success      200       {object}  response.Response{data=[]model.Vehicle}
// @Router       /api/vehicles [get]
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	q, params, paged := listRequest(c)
	items, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondList(c, items, total, params, paged)
}

// GetVehicle returns one vehicle
// @Summary      Get vehicle
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID"
// @Success      200  {object}  response.Response{data=model.Vehicle}
// @Failure      404  {object}  response.Response
// @Router       /api/vehicles/{id} [get]
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// CreateVehicle stores a new vehicle
// @Summary      Create vehicle
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      model.Vehicle  true  "vehicle"
// @Success      201      {object}  response.Response{data=model.Vehicle}
// @Failure      400      {object}  response.Response
// @Router       /api/vehicles [post]
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req model.Vehicle
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

// UpdateVehicle replaces a vehicle
// @Summary      Update vehicle
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string       true  "ID"
// @Param        payload  body      model.Vehicle  true  "vehicle"
// @Success      200      {object}  response.Response{data=model.Vehicle}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/vehicles/{id} [put]
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	var req model.Vehicle
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

// DeleteVehicle removes a vehicle
// @Summary      Delete vehicle
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/vehicles/{id} [delete]
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Vehicle deleted"}))
}

// GetComplianceReminders lists certificates expiring within 30 days, most urgent first
// @Summary      Compliance reminders
// @Tags         vehicles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]calc.Reminder}
// @Router       /api/vehicles/compliance/reminders [get]
func (h *VehicleHandler) GetComplianceReminders(c *gin.Context) {
	reminders, err := h.svc.ComplianceReminders(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, reminders))
}

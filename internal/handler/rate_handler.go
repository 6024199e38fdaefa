package handler

import (
	"net/http"

	"fleetadmin/internal/middleware"
	"fleetadmin/internal/model"
	"fleetadmin/internal/service"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type RateHandler struct {
	svc service.RateService
}

func NewRateHandler(svc service.RateService) *RateHandler {
	return &RateHandler{svc: svc}
}

func (h *RateHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/rates", middleware.RequirePermission("rates"))
	{
		group.GET("", h.ListRateCards)
		group.POST("", h.CreateRateCard)
		group.GET("/:id", h.GetRateCard)
		group.PUT("/:id", h.UpdateRateCard)
		group.DELETE("/:id", h.DeleteRateCard)
	}
}

// ListRateCards returns every rate card matching the filters
// @Summary      List rate cards
// @Tags         rates
// @Produce      json
// @Security     BearerAuth
// @Param        search    query     string  false  "Search text"
// @Param        category  query     string  false  "km_wise, lumpsum or daily_wages"
// @Success      200       {object}  response.Response{data=[]model.RateCard}
// @Router       /api/rates [get]
func (h *RateHandler) ListRateCards(c *gin.Context) {
	q, params, paged := listRequest(c)
	items, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondList(c, items, total, params, paged)
}

// GetRateCard returns one rate card
// @Summary      Get rate card
// @Tags         rates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID"
// @Success      200  {object}  response.Response{data=model.RateCard}
// @Failure      404  {object}  response.Response
// @Router       /api/rates/{id} [get]
func (h *RateHandler) GetRateCard(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// CreateRateCard stores a new rate card
// @Summary      Create rate card
// @Tags         rates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      model.RateCard  true  "rate card"
// @Success      201      {object}  response.Response{data=model.RateCard}
// @Failure      400      {object}  response.Response
// @Router       /api/rates [post]
func (h *RateHandler) CreateRateCard(c *gin.Context) {
	var req model.RateCard
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

// UpdateRateCard replaces a rate card
// @Summary      Update rate card
// @Tags         rates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string       true  "ID"
// @Param        payload  body      model.RateCard  true  "rate card"
// @Success      200      {object}  response.Response{data=model.RateCard}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/rates/{id} [put]
func (h *RateHandler) UpdateRateCard(c *gin.Context) {
	var req model.RateCard
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

// DeleteRateCard removes a rate card
// @Summary      Delete rate card
// @Tags         rates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/rates/{id} [delete]
func (h *RateHandler) DeleteRateCard(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Rate card deleted"}))
}

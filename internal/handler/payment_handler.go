package handler

import (
	"net/http"

	"fleetadmin/internal/middleware"
	"fleetadmin/internal/model"
	"fleetadmin/internal/service"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	svc service.PaymentService
}

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/payments", middleware.RequirePermission("payments"))
	{
		group.GET("/reminders", h.GetPaymentReminders)
		group.GET("", h.ListPayments)
		group.POST("", h.CreatePayment)
		group.GET("/:id", h.GetPayment)
		group.PUT("/:id", h.UpdatePayment)
		group.DELETE("/:id", h.DeletePayment)
		group.GET("/:id/pdf", h.DownloadInvoicePDF)
	}
}

// ListPayments returns every payment matching the filters
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        search    query     string  false  "Search text"
// @Param        category  query     string  false  "pending, partial, completed or overdue"
// @Success      200       {object}  response.Response{data=[]model.Payment}
// @Router       /api/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	q, params, paged := listRequest(c)
	items, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondList(c, items, total, params, paged)
}

// GetPayment returns one payment
// @Summary      Get payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID"
// @Success      200  {object}  response.Response{data=model.Payment}
// @Failure      404  {object}  response.Response
// @Router       /api/payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// CreatePayment stores a new payment
// @Summary      Create payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      model.Payment  true  "payment"
// @Success      201      {object}  response.Response{data=model.Payment}
// @Failure      400      {object}  response.Response
// @Router       /api/payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req model.Payment
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

// UpdatePayment replaces a payment
// @Summary      Update payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string       true  "ID"
// @Param        payload  body      model.Payment  true  "payment"
// @Success      200      {object}  response.Response{data=model.Payment}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/payments/{id} [put]
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	var req model.Payment
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

// DeletePayment removes a payment
// @Summary      Delete payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/payments/{id} [delete]
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Payment deleted"}))
}

// GetPaymentReminders lists unpaid invoices past their due date
// @Summary      Payment reminders
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.PaymentReminder}
// @Router       /api/payments/reminders [get]
func (h *PaymentHandler) GetPaymentReminders(c *gin.Context) {
	reminders, err := h.svc.Reminders(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, reminders))
}

// DownloadInvoicePDF renders the invoice as a PDF attachment
// @Summary      Invoice PDF
// @Tags         payments
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "Payment ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  response.Response
// @Router       /api/payments/{id}/pdf [get]
func (h *PaymentHandler) DownloadInvoicePDF(c *gin.Context) {
	data, filename, err := h.svc.PDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

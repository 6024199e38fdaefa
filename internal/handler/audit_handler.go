package handler

import (
	"fleetadmin/internal/middleware"
	"fleetadmin/internal/model"
	"fleetadmin/internal/service"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/audit-logs")
	group.Use(middleware.RequireRole(model.RoleOwner, model.RoleAdmin)) // Protect history logs
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs returns the change history, newest first
// @Summary      Get audit logs
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        search    query     string  false  "Search entity name, user or action"
// @Param        category  query     string  false  "Entity type, e.g. booking"
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  response.Response{data=[]model.AuditLog}
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	q, params, paged := listRequest(c)
	logs, total, err := h.auditService.List(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondList(c, logs, total, params, paged)
}

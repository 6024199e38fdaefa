package handler

import (
	"net/http"
	"time"

	"fleetadmin/internal/middleware"
	"fleetadmin/internal/service"
	"fleetadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/reports/:kind", middleware.RequirePermission("reports"), h.GetReport)
}

// parseDay accepts YYYY-MM-DD or RFC3339; empty means unset.
func parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// GetReport builds a summary for a date range, as JSON or PDF
// @Summary      Report
// @Description  Defaults to the current month when no dates are given
// @Tags         reports
// @Produce      json
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        kind    path      string  true   "bookings, revenue, vehicles, customers or expenses"
// @Param        start   query     string  false  "Start date (YYYY-MM-DD)"
// @Param        end     query     string  false  "End date, inclusive (YYYY-MM-DD)"
// @Param        format  query     string  false  "pdf for a PDF download"
// @Success      200     {object}  response.Response{data=model.Report}
// @Failure      400     {object}  response.Response
// @Router       /api/reports/{kind} [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	start, err := parseDay(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid start date, expected YYYY-MM-DD"))
		return
	}
	end, err := parseDay(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid end date, expected YYYY-MM-DD"))
		return
	}

	kind := c.Param("kind")
	if c.Query("format") == "pdf" {
		data, filename, err := h.reportService.PDF(c.Request.Context(), kind, start, end)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/pdf", data)
		return
	}

	report, err := h.reportService.Generate(c.Request.Context(), kind, start, end)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

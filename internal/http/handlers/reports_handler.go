package handlers

import (
	"net/http"
	"strings"

	"busticket/internal/domain/models"
	"busticket/internal/http/middleware"
	"busticket/internal/repositories"
	"busticket/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) reportsService(c *gin.Context) services.ReportsService {
	return services.ReportsService{
		Trips:     repositories.TripsRepository{DB: h.db()},
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/v1/reports/sales?agencyId=&start_date=&end_date=
func (h *Handlers) GetSalesReport(c *gin.Context) {
	report, err := h.reportsService(c).GetSalesReport(c.Request.Context(), services.SalesReportFilter{
		AgencyID:  strings.TrimSpace(c.Query("agencyId")),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /api/v1/reports/manifest?agencyId=&busTypeId=&from=&to=&date=[&format=pdf]
func (h *Handlers) GetTripManifest(c *gin.Context) {
	trip := models.TripKey{
		AgencyID:   strings.TrimSpace(c.Query("agencyId")),
		BusTypeID:  strings.TrimSpace(c.Query("busTypeId")),
		RouteFrom:  c.Query("from"),
		RouteTo:    c.Query("to"),
		TravelDate: c.Query("date"),
	}
	entries, err := h.reportsService(c).GetManifest(c.Request.Context(), trip)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !strings.EqualFold(c.Query("format"), "pdf") {
		c.JSON(http.StatusOK, entries)
		return
	}

	pdfBytes, filename, err := services.BuildManifestPDF(trip, entries)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

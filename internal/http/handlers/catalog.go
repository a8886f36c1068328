package handlers

import (
	"net/http"

	"busticket/internal/catalog"
	"busticket/internal/seating"

	"github.com/gin-gonic/gin"
)

// GET /api/v1/agencies?from=&to=
func ListAgencies(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.FilterAgencies(c.Query("from"), c.Query("to")))
}

// GET /api/v1/agencies/:id
func GetAgency(c *gin.Context) {
	a, ok := catalog.FindAgency(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "not_found", "agency not found", nil)
		return
	}
	c.JSON(http.StatusOK, a)
}

// GET /api/v1/cities
func ListCities(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.Cities())
}

// GET /api/v1/bus-types
func ListBusTypes(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.BusTypes())
}

// GET /api/v1/bus-types/:id/layout
func GetBusTypeLayout(c *gin.Context) {
	bt, ok := catalog.FindBusType(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "not_found", "bus type not found", nil)
		return
	}
	m, err := seating.Generate(bt.TotalSeats)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "invalid_layout", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"busType":  bt,
		"seatMap":  m,
		"rows":     m.Rows(),
		"rowCount": m.RowCount(),
	})
}

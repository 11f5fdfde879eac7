// README: Read-only handlers over the store's derived views.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleetbook/internal/store"
)

type QueryHandler struct {
	store *store.Store
}

func NewQueryHandler(st *store.Store) *QueryHandler {
	return &QueryHandler{store: st}
}

// Bundle returns the customer-facing read model in one shot.
func (h *QueryHandler) Bundle(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.CustomerView())
}

// AdminBundle returns every entity plus fleet statistics.
func (h *QueryHandler) AdminBundle(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.AdminView())
}

func (h *QueryHandler) Cab(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cab, found := h.store.CabByID(id)
	if !found {
		writeError(c, http.StatusNotFound, "cab not found")
		return
	}
	c.JSON(http.StatusOK, cab)
}

// Occupancy reports the booked-seat set for a cab and date.
func (h *QueryHandler) Occupancy(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		writeError(c, http.StatusBadRequest, "date is required")
		return
	}
	seats := h.store.Occupancy(id, date)
	if seats == nil {
		seats = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"cabId": id, "date": date, "bookedSeats": seats})
}

func (h *QueryHandler) DriverTrips(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"driverId": id, "trips": h.store.DriverTrips(id)})
}

// Manifest groups a date's trips into one row per physical departure.
// Defaults to today.
func (h *QueryHandler) Manifest(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "journeys": h.store.Manifest(date)})
}

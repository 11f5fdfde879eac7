// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fleetbook/internal/http/handlers"
	"fleetbook/internal/http/middleware"
	"fleetbook/internal/http/ws"
	"fleetbook/internal/maps"
	"fleetbook/internal/modules/booking"
	"fleetbook/internal/store"
)

// NewRouter wires the full caller-facing store API. geocoder may be nil.
func NewRouter(
	st *store.Store,
	bookingService *booking.Service,
	geocoder *maps.Geocoder,
	hub *ws.Hub,
) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(cors.Default())

	queryHandler := handlers.NewQueryHandler(st)
	r.GET("/api/bundle", queryHandler.Bundle)
	r.GET("/api/admin/bundle", queryHandler.AdminBundle)
	r.GET("/api/cabs/:id", queryHandler.Cab)
	r.GET("/api/cabs/:id/occupancy", queryHandler.Occupancy)
	r.GET("/api/drivers/:id/trips", queryHandler.DriverTrips)
	r.GET("/api/admin/manifest", queryHandler.Manifest)

	adminHandler := handlers.NewAdminHandler(st, geocoder)
	r.POST("/api/cabs", adminHandler.CreateCab)
	r.PUT("/api/cabs/:id", adminHandler.UpdateCab)
	r.DELETE("/api/cabs/:id", adminHandler.DeleteCab)
	r.POST("/api/drivers", adminHandler.CreateDriver)
	r.PUT("/api/drivers/:id", adminHandler.UpdateDriver)
	r.DELETE("/api/drivers/:id", adminHandler.DeleteDriver)
	r.POST("/api/locations", adminHandler.CreateLocation)
	r.PUT("/api/locations/:name", adminHandler.UpdateLocation)
	r.DELETE("/api/locations/:name", adminHandler.DeleteLocation)
	r.POST("/api/locations/:name/pickup-points", adminHandler.AddPickupPoint)
	r.DELETE("/api/locations/:name/pickup-points", adminHandler.DeletePickupPoint)
	r.POST("/api/customers", adminHandler.CreateCustomer)
	r.POST("/api/admin/reset", adminHandler.Reset)

	flowHandler := handlers.NewFlowHandler(bookingService)
	r.POST("/api/flows", flowHandler.Start)
	r.GET("/api/flows/:id", flowHandler.Get)
	r.POST("/api/flows/search", flowHandler.Search)
	r.POST("/api/flows/:id/cab", flowHandler.SelectCab)
	r.POST("/api/flows/:id/seats", flowHandler.ConfirmSeats)
	r.POST("/api/flows/:id/customer", flowHandler.Identity)
	r.POST("/api/flows/:id/pay", flowHandler.Pay)
	r.POST("/api/flows/:id/back", flowHandler.Back)
	r.POST("/api/flows/:id/info", flowHandler.Info)
	r.POST("/api/flows/:id/reset", flowHandler.Reset)

	r.GET("/ws", hub.Handle)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}

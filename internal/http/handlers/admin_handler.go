// README: Administrative handlers for fleet, location, and pickup-point commands.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetbook/internal/maps"
	"fleetbook/internal/modules/state"
	"fleetbook/internal/store"
	"fleetbook/internal/types"
)

type AdminHandler struct {
	store    *store.Store
	geocoder *maps.Geocoder
}

// NewAdminHandler wires the admin command surface. geocoder may be nil;
// location commands then require explicit coordinates.
func NewAdminHandler(st *store.Store, geocoder *maps.Geocoder) *AdminHandler {
	return &AdminHandler{store: st, geocoder: geocoder}
}

type cabReq struct {
	Type         string    `json:"type"`
	Registration string    `json:"registration"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	Price        int64     `json:"price"`
	Seats        int       `json:"seats"`
	DriverID     *types.ID `json:"driverId"`
	Departure    string    `json:"departure"`
}

func (r cabReq) toCab(id types.ID) state.Cab {
	return state.Cab{
		ID:           id,
		Type:         r.Type,
		Registration: r.Registration,
		From:         r.From,
		To:           r.To,
		Price:        r.Price,
		Seats:        r.Seats,
		DriverID:     r.DriverID,
		Departure:    r.Departure,
	}
}

func (h *AdminHandler) CreateCab(c *gin.Context) {
	var req cabReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cab, err := h.store.CreateCab(c.Request.Context(), req.toCab(0))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cab)
}

func (h *AdminHandler) UpdateCab(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req cabReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.store.UpdateCab(c.Request.Context(), req.toCab(id)); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": id})
}

func (h *AdminHandler) DeleteCab(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteCab(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

type driverReq struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AdminHandler) CreateDriver(c *gin.Context) {
	var req driverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	d, err := h.store.CreateDriver(c.Request.Context(), state.Driver{
		Name:     req.Name,
		Phone:    req.Phone,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeStoreError(c, err)
		return
	}
	// The credential is write-only; never echo it back.
	d.Password = ""
	c.JSON(http.StatusCreated, d)
}

func (h *AdminHandler) UpdateDriver(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req driverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.store.UpdateDriver(c.Request.Context(), state.Driver{
		ID:       id,
		Name:     req.Name,
		Phone:    req.Phone,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": id})
}

func (h *AdminHandler) DeleteDriver(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteDriver(c.Request.Context(), id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

type locationReq struct {
	Name    string  `json:"name"`
	NewName string  `json:"newName"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// resolvePosition falls back to the geocoder when the request carries no
// coordinates and a geocoder is configured.
func (h *AdminHandler) resolvePosition(c *gin.Context, name string, req locationReq) types.Point {
	pos := types.Point{Lat: req.Lat, Lng: req.Lng}
	if pos.Zero() && h.geocoder != nil && name != "" {
		if resolved, err := h.geocoder.Resolve(c.Request.Context(), name); err == nil {
			return resolved
		}
	}
	return pos
}

func (h *AdminHandler) CreateLocation(c *gin.Context) {
	var req locationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	pos := h.resolvePosition(c, req.Name, req)
	if err := h.store.CreateLocation(c.Request.Context(), req.Name, pos); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state.Location{Name: req.Name, Lat: pos.Lat, Lng: pos.Lng})
}

// UpdateLocation renames and/or moves a location; the rename cascades
// through cabs, trips, and pickup points inside the reducer.
func (h *AdminHandler) UpdateLocation(c *gin.Context) {
	name := c.Param("name")
	var req locationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	pos := types.Point{Lat: req.Lat, Lng: req.Lng}
	if pos.Zero() && req.NewName != "" && req.NewName != name && h.geocoder != nil {
		if resolved, err := h.geocoder.Resolve(c.Request.Context(), req.NewName); err == nil {
			pos = resolved
		}
	}
	if err := h.store.UpdateLocation(c.Request.Context(), name, req.NewName, pos); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": name})
}

func (h *AdminHandler) DeleteLocation(c *gin.Context) {
	name := c.Param("name")
	if err := h.store.DeleteLocation(c.Request.Context(), name); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": name})
}

type pickupPointReq struct {
	Point string `json:"point"`
}

func (h *AdminHandler) AddPickupPoint(c *gin.Context) {
	name := c.Param("name")
	var req pickupPointReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.store.AddPickupPoint(c.Request.Context(), name, req.Point); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"location": name, "point": req.Point})
}

func (h *AdminHandler) DeletePickupPoint(c *gin.Context) {
	name := c.Param("name")
	var req pickupPointReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.store.DeletePickupPoint(c.Request.Context(), name, req.Point); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": name, "point": req.Point})
}

type customerReq struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (h *AdminHandler) CreateCustomer(c *gin.Context) {
	var req customerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	cust, err := h.store.CreateCustomer(c.Request.Context(), state.Customer{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cust)
}

// Reset swaps the canonical seed state back in.
func (h *AdminHandler) Reset(c *gin.Context) {
	if err := h.store.Reset(c.Request.Context()); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}

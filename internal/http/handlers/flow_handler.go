// README: Booking-flow handlers; one route per workflow transition.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetbook/internal/http/middleware"
	"fleetbook/internal/modules/booking"
	"fleetbook/internal/modules/state"
	"fleetbook/internal/types"
)

type FlowHandler struct {
	booking *booking.Service
}

func NewFlowHandler(svc *booking.Service) *FlowHandler {
	return &FlowHandler{booking: svc}
}

func (h *FlowHandler) Start(c *gin.Context) {
	c.JSON(http.StatusCreated, h.booking.Start())
}

func (h *FlowHandler) Get(c *gin.Context) {
	f, err := h.booking.Get(c.Param("id"))
	if err != nil {
		writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

type searchReq struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Date  string `json:"date"`
	Seats int    `json:"seats"`
}

func (r searchReq) criteria() state.Booking {
	return state.Booking{From: r.From, To: r.To, Date: r.Date, Seats: r.Seats}
}

// Search lists cabs matching the criteria; read-only, the flow stays in
// searching until a cab is selected.
func (h *FlowHandler) Search(c *gin.Context) {
	var req searchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	options := h.booking.Search(req.criteria())
	if options == nil {
		options = []booking.CabOption{}
	}
	c.JSON(http.StatusOK, gin.H{"cabs": options})
}

type selectCabReq struct {
	CabID types.ID `json:"cabId"`
	searchReq
}

func (h *FlowHandler) SelectCab(c *gin.Context) {
	var req selectCabReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	f, err := h.booking.SelectCab(c.Param("id"), req.CabID, req.criteria())
	if err != nil {
		writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

type seatsReq struct {
	Seats  []string `json:"seats"`
	Pickup string   `json:"pickup"`
	Drop   string   `json:"drop"`
}

func (h *FlowHandler) ConfirmSeats(c *gin.Context) {
	var req seatsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	f, err := h.booking.ConfirmSeats(c.Param("id"), req.Seats, req.Pickup, req.Drop)
	if err != nil {
		writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

type identityReq struct {
	CustomerID types.ID `json:"customerId"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Email      string   `json:"email"`
}

// Identity resolves the customer: an explicit id attaches directly (and
// skips authentication), otherwise match-by-phone-or-create.
func (h *FlowHandler) Identity(c *gin.Context) {
	var req identityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	var (
		f   booking.Flow
		err error
	)
	if req.CustomerID != 0 {
		f, err = h.booking.AttachCustomer(c.Param("id"), req.CustomerID)
	} else {
		f, err = h.booking.ResolveCustomer(c.Request.Context(), c.Param("id"), state.Customer{
			Name:  req.Name,
			Phone: req.Phone,
			Email: req.Email,
		})
	}
	if err != nil {
		writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// Pay confirms payment and dispatches the single Add-Trip of the flow.
func (h *FlowHandler) Pay(c *gin.Context) {
	trip, err := h.booking.ConfirmPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeFlowError(c, err)
		return
	}
	middleware.CountBooking()
	c.JSON(http.StatusCreated, trip)
}

func (h *FlowHandler) Back(c *gin.Context) {
	f, err := h.booking.Back(c.Param("id"))
	if err != nil {
		writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *FlowHandler) Info(c *gin.Context) {
	f, err := h.booking.OpenInfo(c.Param("id"))
	if err != nil {
		writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *FlowHandler) Reset(c *gin.Context) {
	f, err := h.booking.Reset(c.Param("id"))
	if err != nil {
		writeFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

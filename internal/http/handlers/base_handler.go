// README: Base handler utilities (JSON helpers, id parsing, error mapping).
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fleetbook/internal/modules/booking"
	"fleetbook/internal/modules/state"
	"fleetbook/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

func parseID(c *gin.Context, param string) (types.ID, bool) {
	n, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || n <= 0 {
		writeError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return types.ID(n), true
}

// writeStoreError maps reducer rejections to 422: the request was
// well-formed but the mutation was refused and state is unchanged.
func writeStoreError(c *gin.Context, err error) {
	if errors.Is(err, state.ErrRejected) {
		writeError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeError(c, http.StatusInternalServerError, "internal error")
}

func writeFlowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrFlowNotFound), errors.Is(err, booking.ErrCabGone):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrBadStep), errors.Is(err, booking.ErrSeatTaken), errors.Is(err, booking.ErrNotResolved):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrBadSelection), errors.Is(err, booking.ErrNoMatch):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, state.ErrRejected):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

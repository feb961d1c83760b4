package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the engine's error taxonomy onto HTTP codes.
// Conflicts all surface as one 409 shape so callers can show a uniform
// "these dates are unavailable" message; the source stays in the payload
// and in the logs.
func respondServiceError(c *gin.Context, err error) {
	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "dates unavailable",
			"source":  conflict.Source,
		})
		return
	}

	var validation *services.ValidationError
	if errors.As(err, &validation) {
		utils.JSONError(c, http.StatusBadRequest, validation.Message)
		return
	}

	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		utils.JSONError(c, http.StatusNotFound, notFound.Error())
		return
	}

	var syncErr *services.SyncError
	if errors.As(err, &syncErr) {
		utils.JSONError(c, http.StatusBadGateway, syncErr.Error())
		return
	}

	utils.JSONError(c, http.StatusInternalServerError, "internal error")
}

// parseDateRangeQuery reads from/to (YYYY-MM-DD) query params.
func parseDateRangeQuery(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := utils.ParseDate(c.Query("from"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid or missing 'from' date (YYYY-MM-DD)")
		return time.Time{}, time.Time{}, false
	}
	to, err := utils.ParseDate(c.Query("to"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid or missing 'to' date (YYYY-MM-DD)")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// propertyIDQuery reads property_id, defaulting to the single seeded unit.
func propertyIDQuery(c *gin.Context) uint {
	raw := c.Query("property_id")
	if raw == "" {
		return 1
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 1
	}
	return uint(id)
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

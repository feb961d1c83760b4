package controllers

import (
	"net/http"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type AvailabilityController struct {
	Svc *services.AvailabilityService
}

func NewAvailabilityController(svc *services.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{Svc: svc}
}

// GetAvailability renders the calendar for a window. The optional ?ref=
// parameter hides holds belonging to that checkout session, so a guest
// mid-checkout sees their own dates as free.
func (ac *AvailabilityController) GetAvailability(c *gin.Context) {
	from, to, ok := parseDateRangeQuery(c)
	if !ok {
		return
	}

	statuses, err := ac.Svc.GetAvailability(propertyIDQuery(c), from, to, c.Query("ref"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	blocked := 0
	for _, st := range statuses {
		if !st.Available {
			blocked++
		}
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"dates":   statuses,
		"blocked": blocked,
	})
}

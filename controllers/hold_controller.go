package controllers

import (
	"net/http"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type HoldController struct {
	Svc *services.HoldService
}

func NewHoldController(svc *services.HoldService) *HoldController {
	return &HoldController{Svc: svc}
}

type CreateHoldRequest struct {
	PropertyID  uint   `json:"property_id"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	ReferenceID string `json:"reference_id" binding:"required"`
	Reason      string `json:"reason"`
}

func (hc *HoldController) CreateHold(c *gin.Context) {
	var req CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid start_date (YYYY-MM-DD)")
		return
	}
	end, err := utils.ParseDate(req.EndDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid end_date (YYYY-MM-DD)")
		return
	}

	propertyID := req.PropertyID
	if propertyID == 0 {
		propertyID = 1
	}

	hold, err := hc.Svc.Create(services.CreateHoldInput{
		PropertyID:  propertyID,
		StartDate:   start,
		EndDate:     end,
		ReferenceID: req.ReferenceID,
		Reason:      req.Reason,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, hold)
}

func (hc *HoldController) ReleaseHold(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := hc.Svc.Release(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"released": id})
}

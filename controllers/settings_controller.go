package controllers

import (
	"net/http"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	Svc *services.SettingsService
}

func NewSettingsController(svc *services.SettingsService) *SettingsController {
	return &SettingsController{Svc: svc}
}

func (sc *SettingsController) GetSettings(c *gin.Context) {
	rows, err := sc.Svc.All(propertyIDQuery(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rows)
}

type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}

func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	propertyID := propertyIDQuery(c)
	for key, value := range req.Settings {
		if err := sc.Svc.Set(propertyID, key, value); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	rows, err := sc.Svc.All(propertyID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rows)
}

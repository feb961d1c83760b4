package controllers

import (
	"net/http"

	"rental-backend/models"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BlackoutController struct {
	DB *gorm.DB
}

func NewBlackoutController(db *gorm.DB) *BlackoutController {
	return &BlackoutController{DB: db}
}

type BlackoutRequest struct {
	PropertyID uint   `json:"property_id"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

func (bc *BlackoutController) GetBlackouts(c *gin.Context) {
	var blackouts []models.BlackoutDate
	if err := bc.DB.Where("property_id = ?", propertyIDQuery(c)).
		Order("start_date").Find(&blackouts).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list blackout dates")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, blackouts)
}

func (bc *BlackoutController) CreateBlackout(c *gin.Context) {
	var req BlackoutRequest
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
	if err := utils.ValidateRange(start, end); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	blackout := models.BlackoutDate{
		PropertyID: req.PropertyID,
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
	}
	if blackout.PropertyID == 0 {
		blackout.PropertyID = 1
	}

	if err := bc.DB.Create(&blackout).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create blackout")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, blackout)
}

func (bc *BlackoutController) DeleteBlackout(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	res := bc.DB.Delete(&models.BlackoutDate{}, id)
	if res.Error != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete blackout")
		return
	}
	if res.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, "blackout not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

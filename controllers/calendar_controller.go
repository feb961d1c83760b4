package controllers

import (
	"net/http"

	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CalendarController struct {
	Sync *services.SyncService
	DB   *gorm.DB
}

func NewCalendarController(sync *services.SyncService, db *gorm.DB) *CalendarController {
	return &CalendarController{Sync: sync, DB: db}
}

type CalendarRequest struct {
	PropertyID uint   `json:"property_id"`
	Platform   string `json:"platform" binding:"required"`
	Name       string `json:"name"`
	FeedURL    string `json:"feed_url" binding:"required"`
	Active     *bool  `json:"active"`
}

func (cc *CalendarController) GetCalendars(c *gin.Context) {
	var calendars []models.ExternalCalendar
	if err := cc.DB.Where("property_id = ?", propertyIDQuery(c)).Find(&calendars).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list calendars")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, calendars)
}

func (cc *CalendarController) CreateCalendar(c *gin.Context) {
	var req CalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	cal := models.ExternalCalendar{
		PropertyID: req.PropertyID,
		Platform:   req.Platform,
		Name:       req.Name,
		FeedURL:    req.FeedURL,
		Active:     true,
	}
	if cal.PropertyID == 0 {
		cal.PropertyID = 1
	}
	if req.Active != nil {
		cal.Active = *req.Active
	}

	if err := cc.DB.Create(&cal).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create calendar")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, cal)
}

func (cc *CalendarController) DeleteCalendar(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	res := cc.DB.Delete(&models.ExternalCalendar{}, id)
	if res.Error != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete calendar")
		return
	}
	if res.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, "calendar not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

type syncItem struct {
	UID       string `json:"uid" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Status    string `json:"status"`
	GuestName string `json:"guest_name"`
	Title     string `json:"title"`
}

type SyncCalendarRequest struct {
	Reservations []syncItem `json:"reservations"`
}

// SyncCalendar runs one reconciliation. With a request body the supplied
// reservation list is used directly (the scheduler and channel-manager
// callbacks post this way); with an empty body the calendar's own feed is
// fetched first.
func (cc *CalendarController) SyncCalendar(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if c.Request.ContentLength == 0 {
		result, err := cc.Sync.SyncCalendar(c.Request.Context(), id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, result)
		return
	}

	var req SyncCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	incoming := make([]services.IncomingReservation, 0, len(req.Reservations))
	for _, item := range req.Reservations {
		start, err := utils.ParseDate(item.StartDate)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid start_date for uid "+item.UID)
			return
		}
		end, err := utils.ParseDate(item.EndDate)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid end_date for uid "+item.UID)
			return
		}
		incoming = append(incoming, services.IncomingReservation{
			UID:       item.UID,
			StartDate: start,
			EndDate:   end,
			Status:    item.Status,
			GuestName: item.GuestName,
			Title:     item.Title,
		})
	}

	result, err := cc.Sync.Reconcile(id, incoming)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

// GetSyncRuns lists the audit trail for one calendar, newest first.
func (cc *CalendarController) GetSyncRuns(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var runs []models.SyncRun
	if err := cc.DB.Where("calendar_id = ?", id).
		Order("started_at DESC").Limit(50).Find(&runs).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list sync runs")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, runs)
}

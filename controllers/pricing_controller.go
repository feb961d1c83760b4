package controllers

import (
	"net/http"
	"strconv"

	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PricingController struct {
	Svc *services.PricingService
	DB  *gorm.DB
}

func NewPricingController(svc *services.PricingService, db *gorm.DB) *PricingController {
	return &PricingController{Svc: svc, DB: db}
}

// Quote prices a stay without touching any state. Advisory only: the
// binding price is computed again when the booking commits.
func (pc *PricingController) Quote(c *gin.Context) {
	from, to, ok := parseDateRangeQuery(c)
	if !ok {
		return
	}

	guests, err := strconv.Atoi(c.DefaultQuery("guests", "2"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid guests")
		return
	}

	quote, err := pc.Svc.Quote(propertyIDQuery(c), from, to, guests, c.Query("coupon"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, quote)
}

// --- admin CRUD for pricing rules ---

type PricingRuleRequest struct {
	PropertyID uint    `json:"property_id"`
	RuleType   string  `json:"rule_type" binding:"required"`
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	IsPercent  bool    `json:"is_percent"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	MinNights  int     `json:"min_nights"`
	Active     *bool   `json:"active"`
}

func (pc *PricingController) GetPricingRules(c *gin.Context) {
	var rules []models.PricingRule
	if err := pc.DB.Where("property_id = ?", propertyIDQuery(c)).
		Order("rule_type, created_at DESC").Find(&rules).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list pricing rules")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rules)
}

func (pc *PricingController) CreatePricingRule(c *gin.Context) {
	var req PricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	rule := models.PricingRule{
		PropertyID: req.PropertyID,
		RuleType:   req.RuleType,
		Name:       req.Name,
		Value:      req.Value,
		IsPercent:  req.IsPercent,
		MinNights:  req.MinNights,
		Active:     true,
	}
	if rule.PropertyID == 0 {
		rule.PropertyID = 1
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}
	if req.StartDate != "" {
		d, err := utils.ParseDate(req.StartDate)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid start_date")
			return
		}
		rule.StartDate = &d
	}
	if req.EndDate != "" {
		d, err := utils.ParseDate(req.EndDate)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid end_date")
			return
		}
		rule.EndDate = &d
	}

	if err := pc.DB.Create(&rule).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create pricing rule")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rule)
}

func (pc *PricingController) DeletePricingRule(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	res := pc.DB.Delete(&models.PricingRule{}, id)
	if res.Error != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete pricing rule")
		return
	}
	if res.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, "pricing rule not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

// --- admin CRUD for coupons ---

type CouponRequest struct {
	PropertyID uint    `json:"property_id"`
	Code       string  `json:"code" binding:"required"`
	Type       string  `json:"type" binding:"required"`
	Value      float64 `json:"value" binding:"required"`
	MinNights  int     `json:"min_nights"`
	ValidFrom  string  `json:"valid_from"`
	ValidUntil string  `json:"valid_until"`
	UsageLimit int     `json:"usage_limit"`
}

func (pc *PricingController) GetCoupons(c *gin.Context) {
	var coupons []models.Coupon
	if err := pc.DB.Where("property_id = ?", propertyIDQuery(c)).
		Order("created_at DESC").Find(&coupons).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list coupons")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, coupons)
}

func (pc *PricingController) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Type != models.CouponTypePercent && req.Type != models.CouponTypeFixed {
		utils.JSONError(c, http.StatusBadRequest, "type must be percent or fixed")
		return
	}

	coupon := models.Coupon{
		PropertyID: req.PropertyID,
		Code:       models.NormalizeCouponCode(req.Code),
		Type:       req.Type,
		Value:      req.Value,
		MinNights:  req.MinNights,
		UsageLimit: req.UsageLimit,
		Active:     true,
	}
	if coupon.PropertyID == 0 {
		coupon.PropertyID = 1
	}
	if req.ValidFrom != "" {
		d, err := utils.ParseDate(req.ValidFrom)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid valid_from")
			return
		}
		coupon.ValidFrom = &d
	}
	if req.ValidUntil != "" {
		d, err := utils.ParseDate(req.ValidUntil)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid valid_until")
			return
		}
		coupon.ValidUntil = &d
	}

	if err := pc.DB.Create(&coupon).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create coupon")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, coupon)
}

func (pc *PricingController) DeleteCoupon(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	res := pc.DB.Delete(&models.Coupon{}, id)
	if res.Error != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete coupon")
		return
	}
	if res.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, "coupon not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

package models

import "time"

// Rule types understood by the pricing service. At most one rule of a
// given type is expected to apply to a given date; when several do, the
// configured resolution strategy picks the winner.
const (
	RuleBaseRate         = "base_rate"
	RuleSeasonalRate     = "seasonal_rate"
	RuleWeekendRate      = "weekend_rate"
	RuleMinimumNights    = "minimum_nights"
	RuleLongStayDiscount = "long_stay_discount"
	RuleCleaningFee      = "cleaning_fee"
	RuleServiceFee       = "service_fee"
	RuleTATRate          = "tat_rate"
	RuleCountyRate       = "county_rate"
	RuleGETRate          = "get_rate"
)

// PricingRule is one typed parameter of the pricing model, optionally
// scoped to a date range and optionally expressed as a percentage.
type PricingRule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PropertyID uint   `gorm:"index;column:property_id" json:"property_id"`
	RuleType   string `gorm:"column:rule_type;size:32;index" json:"rule_type"`
	Name       string `gorm:"size:255" json:"name,omitempty"`

	Value     float64 `json:"value"`
	IsPercent bool    `gorm:"column:is_percent;default:false" json:"is_percent"`

	StartDate *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`

	// MinNights is the threshold for minimum_nights and long_stay_discount
	// rules; ignored by the other types.
	MinNights int `gorm:"column:min_nights;default:0" json:"min_nights,omitempty"`

	Active bool `gorm:"default:true" json:"active"`
}

// AppliesOn reports whether the rule's date scope covers the given date.
// An unscoped rule covers every date.
func (r *PricingRule) AppliesOn(date time.Time) bool {
	if r.StartDate != nil && date.Before(*r.StartDate) {
		return false
	}
	if r.EndDate != nil && !date.Before(*r.EndDate) {
		return false
	}
	return true
}

// ScopeDays returns the width of the rule's date scope in days, or -1 for
// an unscoped (open-ended) rule. Narrower scopes are more specific.
func (r *PricingRule) ScopeDays() int {
	if r.StartDate == nil || r.EndDate == nil {
		return -1
	}
	return int(r.EndDate.Sub(*r.StartDate).Hours() / 24)
}

package models

import (
	"strings"
	"time"
)

const (
	CouponTypePercent = "percent"
	CouponTypeFixed   = "fixed"
)

// Coupon is a promotional code. The booking path only reads coupons;
// usage counting happens when a booking that carried the code commits.
type Coupon struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PropertyID uint    `gorm:"index;column:property_id" json:"property_id"`
	Code       string  `gorm:"size:64;uniqueIndex" json:"code"`
	Type       string  `gorm:"size:16" json:"type"`
	Value      float64 `json:"value"`

	MinNights  int        `gorm:"column:min_nights;default:0" json:"min_nights"`
	ValidFrom  *time.Time `gorm:"column:valid_from" json:"valid_from,omitempty"`
	ValidUntil *time.Time `gorm:"column:valid_until" json:"valid_until,omitempty"`

	UsageLimit int  `gorm:"column:usage_limit;default:0" json:"usage_limit"`
	UsedCount  int  `gorm:"column:used_count;default:0" json:"used_count"`
	Active     bool `gorm:"default:true" json:"active"`
}

// Usable reports whether the coupon can be applied to a stay of the given
// length starting checks at now. A zero UsageLimit means unlimited.
func (c *Coupon) Usable(now time.Time, nights int) bool {
	if !c.Active {
		return false
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	if c.MinNights > 0 && nights < c.MinNights {
		return false
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return false
	}
	return true
}

// NormalizeCouponCode uppercases and trims a user-supplied code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

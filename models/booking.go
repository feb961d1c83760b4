package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCanceled  = "canceled"
)

// Booking is an accepted occupancy of a [StartDate, EndDate) range.
// EndDate is exclusive: the checkout day is not occupied.
// Rows are only ever created inside BookingService.Create's transaction.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PropertyID uint   `gorm:"index;column:property_id" json:"property_id"`
	Reference  string `gorm:"column:reference;size:32;uniqueIndex" json:"reference"`
	Status     string `gorm:"column:status;size:16;index" json:"status"`

	StartDate time.Time `gorm:"column:start_date;index" json:"start_date"`
	EndDate   time.Time `gorm:"column:end_date;index" json:"end_date"`
	Nights    int       `gorm:"column:nights" json:"nights"`

	Adults   int `gorm:"column:adults;default:1" json:"adults"`
	Children int `gorm:"column:children;default:0" json:"children"`

	Subtotal    float64 `gorm:"column:subtotal" json:"subtotal"`
	CleaningFee float64 `gorm:"column:cleaning_fee" json:"cleaning_fee"`
	ServiceFee  float64 `gorm:"column:service_fee" json:"service_fee"`
	Taxes       float64 `gorm:"column:taxes" json:"taxes"`
	Discount    float64 `gorm:"column:discount" json:"discount"`
	Total       float64 `gorm:"column:total" json:"total"`
	Currency    string  `gorm:"size:8" json:"currency"`
	CouponCode  string  `gorm:"column:coupon_code;size:64" json:"coupon_code,omitempty"`

	// PriceBreakdown keeps the itemized quote the guest accepted, so later
	// rule or rate edits never change what a confirmed booking is bound to.
	PriceBreakdown datatypes.JSON `gorm:"column:price_breakdown" json:"price_breakdown,omitempty"`

	PaymentReference string  `gorm:"column:payment_reference;size:128" json:"payment_reference,omitempty"`
	IdempotencyKey   *string `gorm:"column:idempotency_key;size:128;uniqueIndex" json:"idempotency_key,omitempty"`

	CanceledAt *time.Time `gorm:"column:canceled_at" json:"canceled_at,omitempty"`

	Guests []Guest `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"guests"`
}

// NumberOfGuests is what the pricing and capacity checks care about.
func (b *Booking) NumberOfGuests() int {
	return b.Adults + b.Children
}

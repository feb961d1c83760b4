package services

import (
	"errors"
	"fmt"
	"time"

	"rental-backend/models"
	"rental-backend/utils"

	"gorm.io/gorm"
)

// RuleResolver picks the winning rule among same-type candidates for a
// given date. It is injectable so the tie-breaking policy is an explicit
// decision rather than incidental row order.
type RuleResolver func(candidates []models.PricingRule, date time.Time) *models.PricingRule

// MostSpecificRule is the default resolver: among active rules whose date
// scope covers the date, the narrowest scope wins; a date-scoped rule
// always beats an unscoped one; ties go to the most recently created row.
func MostSpecificRule(candidates []models.PricingRule, date time.Time) *models.PricingRule {
	var best *models.PricingRule
	for i := range candidates {
		r := &candidates[i]
		if !r.Active || !r.AppliesOn(date) {
			continue
		}
		if best == nil || ruleBeats(r, best) {
			best = r
		}
	}
	return best
}

func ruleBeats(a, b *models.PricingRule) bool {
	as, bs := a.ScopeDays(), b.ScopeDays()
	switch {
	case as >= 0 && bs < 0:
		return true
	case as < 0 && bs >= 0:
		return false
	case as != bs:
		return as < bs
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// Quote is the itemized price breakdown a booking is bound to.
type Quote struct {
	PropertyID uint      `json:"property_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Nights     int       `json:"nights"`
	Guests     int       `json:"guests"`

	NightlyRate float64 `json:"nightly_rate"` // average across the stay
	Subtotal    float64 `json:"subtotal"`
	CleaningFee float64 `json:"cleaning_fee"`
	ServiceFee  float64 `json:"service_fee"`

	TATTax      float64 `json:"tat_tax"`
	CountyTax   float64 `json:"county_tax"`
	GETTax      float64 `json:"get_tax"`
	TotalTaxes  float64 `json:"total_taxes"`

	LongStayDiscount float64 `json:"long_stay_discount,omitempty"`
	CouponCode       string  `json:"coupon_code,omitempty"`
	Discount         float64 `json:"discount"`

	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// PricingService computes quotes from the active pricing rules. It is a
// pure read path: rule lookup plus arithmetic, no locking.
type PricingService struct {
	DB      *gorm.DB
	Resolve RuleResolver
}

func NewPricingService(db *gorm.DB) *PricingService {
	return &PricingService{DB: db, Resolve: MostSpecificRule}
}

// Quote prices a stay. A coupon code, when given, must pass every
// validity check or the whole quote fails with a ValidationError.
func (s *PricingService) Quote(propertyID uint, start, end time.Time, guests int, couponCode string) (*Quote, error) {
	if err := utils.ValidateRange(start, end); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if guests <= 0 {
		return nil, validationErrorf("guest count must be positive")
	}

	var property models.Property
	if err := s.DB.First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "property", ID: propertyID}
		}
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if guests > property.MaxGuests {
		return nil, validationErrorf("property sleeps at most %d guests", property.MaxGuests)
	}

	var rules []models.PricingRule
	if err := s.DB.Where("property_id = ? AND active = ?", propertyID, true).Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to load pricing rules: %w", err)
	}

	var coupon *models.Coupon
	if couponCode != "" {
		var c models.Coupon
		err := s.DB.Where("code = ?", models.NormalizeCouponCode(couponCode)).First(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationErrorf("coupon code %q is not valid", couponCode)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load coupon: %w", err)
		}
		coupon = &c
	}

	return computeQuote(rules, coupon, propertyID, utils.Midnight(start), utils.Midnight(end),
		guests, property.Currency, time.Now().UTC(), s.Resolve)
}

// computeQuote is the pure pricing core. The tax cascade is a compliance
// requirement and must not be reordered: TAT and the county surcharge are
// levied on gross receipts, GET is levied on gross receipts inclusive of
// the first two.
func computeQuote(rules []models.PricingRule, coupon *models.Coupon, propertyID uint,
	start, end time.Time, guests int, currency string, now time.Time, resolve RuleResolver) (*Quote, error) {

	byType := make(map[string][]models.PricingRule)
	for _, r := range rules {
		byType[r.RuleType] = append(byType[r.RuleType], r)
	}

	nights := utils.NightsBetween(start, end)

	if minRule := resolve(byType[models.RuleMinimumNights], start); minRule != nil && minRule.MinNights > 0 {
		if nights < minRule.MinNights {
			return nil, validationErrorf("stay requires at least %d nights", minRule.MinNights)
		}
	}

	var subtotal float64
	for _, night := range utils.EnumerateDates(start, end) {
		rate, err := nightlyRate(byType, night, resolve)
		if err != nil {
			return nil, err
		}
		subtotal += rate
	}

	var longStay float64
	if lsRule := resolve(byType[models.RuleLongStayDiscount], start); lsRule != nil &&
		lsRule.MinNights > 0 && nights >= lsRule.MinNights {
		if lsRule.IsPercent {
			longStay = subtotal * lsRule.Value / 100
		} else {
			longStay = lsRule.Value
		}
		if longStay > subtotal {
			longStay = subtotal
		}
		subtotal -= longStay
	}

	cleaningFee := feeAmount(resolve(byType[models.RuleCleaningFee], start), subtotal)
	// Service fee is zero by current policy; the line item is retained so
	// enabling it is a rule change, not a code change.
	serviceFee := feeAmount(resolve(byType[models.RuleServiceFee], start), subtotal)

	gross := subtotal + cleaningFee
	tat := gross * taxRate(resolve(byType[models.RuleTATRate], start))
	county := gross * taxRate(resolve(byType[models.RuleCountyRate], start))
	receiptsWithTax := gross + tat + county
	get := receiptsWithTax * taxRate(resolve(byType[models.RuleGETRate], start))
	totalTaxes := tat + county + get

	var discount float64
	if coupon != nil {
		if !coupon.Usable(now, nights) {
			return nil, validationErrorf("coupon code %q is not valid for this stay", coupon.Code)
		}
		switch coupon.Type {
		case models.CouponTypePercent:
			discount = subtotal * coupon.Value / 100
		case models.CouponTypeFixed:
			discount = coupon.Value
		default:
			return nil, fmt.Errorf("unknown coupon type %q", coupon.Type)
		}
		if discount > subtotal {
			discount = subtotal
		}
	}

	total := subtotal + cleaningFee + serviceFee + totalTaxes - discount

	q := &Quote{
		PropertyID:       propertyID,
		StartDate:        start,
		EndDate:          end,
		Nights:           nights,
		Guests:           guests,
		Subtotal:         utils.RoundCents(subtotal),
		CleaningFee:      utils.RoundCents(cleaningFee),
		ServiceFee:       utils.RoundCents(serviceFee),
		TATTax:           utils.RoundCents(tat),
		CountyTax:        utils.RoundCents(county),
		GETTax:           utils.RoundCents(get),
		TotalTaxes:       utils.RoundCents(totalTaxes),
		LongStayDiscount: utils.RoundCents(longStay),
		Discount:         utils.RoundCents(discount),
		Total:            utils.RoundCents(total),
		Currency:         currency,
	}
	if nights > 0 {
		q.NightlyRate = utils.RoundCents(subtotal / float64(nights))
	}
	if coupon != nil {
		q.CouponCode = coupon.Code
	}
	return q, nil
}

// nightlyRate prices one night: a seasonal rate covering the date wins,
// then the weekend rate on Friday/Saturday nights, then the base rate.
func nightlyRate(byType map[string][]models.PricingRule, night time.Time, resolve RuleResolver) (float64, error) {
	if seasonal := resolve(byType[models.RuleSeasonalRate], night); seasonal != nil {
		return seasonal.Value, nil
	}
	if utils.IsWeekendNight(night) {
		if weekend := resolve(byType[models.RuleWeekendRate], night); weekend != nil {
			return weekend.Value, nil
		}
	}
	if base := resolve(byType[models.RuleBaseRate], night); base != nil {
		return base.Value, nil
	}
	return 0, fmt.Errorf("no base rate configured for %s", night.Format(utils.DateLayout))
}

func feeAmount(rule *models.PricingRule, subtotal float64) float64 {
	if rule == nil {
		return 0
	}
	if rule.IsPercent {
		return subtotal * rule.Value / 100
	}
	return rule.Value
}

func taxRate(rule *models.PricingRule) float64 {
	if rule == nil {
		return 0
	}
	return rule.Value
}

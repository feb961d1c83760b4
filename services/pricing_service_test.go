package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"rental-backend/models"
	"rental-backend/utils"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func datePtr(t *testing.T, s string) *time.Time {
	d := date(t, s)
	return &d
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.005 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func taxRuleSet() []models.PricingRule {
	return []models.PricingRule{
		{ID: 1, RuleType: models.RuleBaseRate, Value: 250, Active: true},
		{ID: 2, RuleType: models.RuleCleaningFee, Value: 150, Active: true},
		{ID: 3, RuleType: models.RuleServiceFee, Value: 0, Active: true},
		{ID: 4, RuleType: models.RuleTATRate, Value: 0.1025, Active: true},
		{ID: 5, RuleType: models.RuleCountyRate, Value: 0.03, Active: true},
		{ID: 6, RuleType: models.RuleGETRate, Value: 0.045, Active: true},
	}
}

// The cascade is compliance-sensitive: TAT and the county surcharge are
// levied on gross receipts, GET on gross receipts inclusive of both.
func TestTaxCascade(t *testing.T) {
	// 4 weeknights at 250 = 1000 subtotal (Jun 1 2025 is a Sunday).
	q, err := computeQuote(taxRuleSet(), nil, 1,
		date(t, "2025-06-01"), date(t, "2025-06-05"), 2, "USD",
		time.Now().UTC(), MostSpecificRule)
	if err != nil {
		t.Fatalf("computeQuote: %v", err)
	}

	approx(t, "Subtotal", q.Subtotal, 1000.00)
	approx(t, "CleaningFee", q.CleaningFee, 150.00)
	approx(t, "TATTax", q.TATTax, 117.88)     // 1150 * 0.1025 = 117.875
	approx(t, "CountyTax", q.CountyTax, 34.50) // 1150 * 0.03
	// GET is tax-on-tax: (1150 + 117.875 + 34.50) * 0.045 = 58.606875
	approx(t, "GETTax", q.GETTax, 58.61)
	approx(t, "TotalTaxes", q.TotalTaxes, 210.98)
	approx(t, "Total", q.Total, 1360.98)
	if q.Nights != 4 {
		t.Errorf("Nights = %d, want 4", q.Nights)
	}
}

func TestWeekendAndSeasonalRates(t *testing.T) {
	rules := append(taxRuleSet(),
		models.PricingRule{ID: 7, RuleType: models.RuleWeekendRate, Value: 300, Active: true},
		models.PricingRule{
			ID: 8, RuleType: models.RuleSeasonalRate, Value: 400, Active: true,
			StartDate: datePtr(t, "2025-12-20"), EndDate: datePtr(t, "2026-01-05"),
		},
	)

	// Jun 5 2025 is a Thursday: nights Thu(250) Fri(300) Sat(300).
	q, err := computeQuote(rules, nil, 1,
		date(t, "2025-06-05"), date(t, "2025-06-08"), 2, "USD",
		time.Now().UTC(), MostSpecificRule)
	if err != nil {
		t.Fatalf("computeQuote: %v", err)
	}
	approx(t, "weekend subtotal", q.Subtotal, 850)

	// Holiday stay: seasonal rate overrides both base and weekend.
	q, err = computeQuote(rules, nil, 1,
		date(t, "2025-12-26"), date(t, "2025-12-29"), 2, "USD",
		time.Now().UTC(), MostSpecificRule)
	if err != nil {
		t.Fatalf("computeQuote: %v", err)
	}
	approx(t, "seasonal subtotal", q.Subtotal, 1200)
}

func TestMinimumNightsRejected(t *testing.T) {
	rules := append(taxRuleSet(),
		models.PricingRule{ID: 9, RuleType: models.RuleMinimumNights, MinNights: 3, Active: true})

	_, err := computeQuote(rules, nil, 1,
		date(t, "2025-06-01"), date(t, "2025-06-03"), 2, "USD",
		time.Now().UTC(), MostSpecificRule)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for 2-night stay, got %v", err)
	}
}

func TestLongStayDiscountAppliesAtThreshold(t *testing.T) {
	rules := append(taxRuleSet(),
		models.PricingRule{
			ID: 10, RuleType: models.RuleLongStayDiscount,
			Value: 10, IsPercent: true, MinNights: 7, Active: true,
		})

	q, err := computeQuote(rules, nil, 1,
		date(t, "2025-06-01"), date(t, "2025-06-08"), 2, "USD",
		time.Now().UTC(), MostSpecificRule)
	if err != nil {
		t.Fatalf("computeQuote: %v", err)
	}
	// 5 weeknights + 2 weekend nights all at base 250 = 1750, minus 10%.
	approx(t, "LongStayDiscount", q.LongStayDiscount, 175)
	approx(t, "Subtotal", q.Subtotal, 1575)

	// One night short of the threshold: no discount.
	q, err = computeQuote(rules, nil, 1,
		date(t, "2025-06-01"), date(t, "2025-06-07"), 2, "USD",
		time.Now().UTC(), MostSpecificRule)
	if err != nil {
		t.Fatalf("computeQuote: %v", err)
	}
	approx(t, "LongStayDiscount below threshold", q.LongStayDiscount, 0)
}

func TestCouponDiscount(t *testing.T) {
	now := time.Now().UTC()
	coupon := &models.Coupon{
		Code: "SUMMER10", Type: models.CouponTypePercent, Value: 10, Active: true,
	}

	q, err := computeQuote(taxRuleSet(), coupon, 1,
		date(t, "2025-06-01"), date(t, "2025-06-05"), 2, "USD", now, MostSpecificRule)
	if err != nil {
		t.Fatalf("computeQuote: %v", err)
	}
	// Percentage coupons apply to the subtotal only, never to taxes/fees.
	approx(t, "Discount", q.Discount, 100)
	approx(t, "TotalTaxes", q.TotalTaxes, 210.98)
	approx(t, "Total", q.Total, 1260.98)
}

func TestCouponValidity(t *testing.T) {
	now := time.Now().UTC()
	expired := now.Add(-24 * time.Hour)

	cases := []struct {
		name   string
		coupon models.Coupon
	}{
		{"inactive", models.Coupon{Code: "X", Type: models.CouponTypeFixed, Value: 50, Active: false}},
		{"expired", models.Coupon{Code: "X", Type: models.CouponTypeFixed, Value: 50, Active: true, ValidUntil: &expired}},
		{"min nights", models.Coupon{Code: "X", Type: models.CouponTypeFixed, Value: 50, Active: true, MinNights: 10}},
		{"used up", models.Coupon{Code: "X", Type: models.CouponTypeFixed, Value: 50, Active: true, UsageLimit: 5, UsedCount: 5}},
	}
	for _, tc := range cases {
		_, err := computeQuote(taxRuleSet(), &tc.coupon, 1,
			date(t, "2025-06-01"), date(t, "2025-06-05"), 2, "USD", now, MostSpecificRule)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}
}

func TestFixedCouponCappedAtSubtotal(t *testing.T) {
	coupon := &models.Coupon{Code: "BIG", Type: models.CouponTypeFixed, Value: 99999, Active: true}
	q, err := computeQuote(taxRuleSet(), coupon, 1,
		date(t, "2025-06-01"), date(t, "2025-06-05"), 2, "USD",
		time.Now().UTC(), MostSpecificRule)
	if err != nil {
		t.Fatalf("computeQuote: %v", err)
	}
	approx(t, "Discount", q.Discount, 1000)
	if q.Total < 0 {
		t.Errorf("Total went negative: %v", q.Total)
	}
}

func TestMostSpecificRuleResolution(t *testing.T) {
	day := date(t, "2025-07-04")
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	unscoped := models.PricingRule{ID: 1, RuleType: models.RuleBaseRate, Value: 200, Active: true, CreatedAt: older}
	wide := models.PricingRule{
		ID: 2, RuleType: models.RuleBaseRate, Value: 275, Active: true, CreatedAt: older,
		StartDate: datePtr(t, "2025-06-01"), EndDate: datePtr(t, "2025-09-01"),
	}
	narrow := models.PricingRule{
		ID: 3, RuleType: models.RuleBaseRate, Value: 350, Active: true, CreatedAt: older,
		StartDate: datePtr(t, "2025-07-01"), EndDate: datePtr(t, "2025-07-10"),
	}

	got := MostSpecificRule([]models.PricingRule{unscoped, wide, narrow}, day)
	if got == nil || got.ID != 3 {
		t.Fatalf("expected narrowest rule to win, got %+v", got)
	}

	// Same scope width: most recently created wins.
	narrowNewer := narrow
	narrowNewer.ID = 4
	narrowNewer.Value = 375
	narrowNewer.CreatedAt = newer
	got = MostSpecificRule([]models.PricingRule{narrow, narrowNewer}, day)
	if got == nil || got.ID != 4 {
		t.Fatalf("expected newest rule to win the tie, got %+v", got)
	}

	// Inactive and out-of-scope rules never win.
	inactive := narrow
	inactive.ID = 5
	inactive.Active = false
	got = MostSpecificRule([]models.PricingRule{unscoped, inactive}, day)
	if got == nil || got.ID != 1 {
		t.Fatalf("expected unscoped fallback, got %+v", got)
	}
	if MostSpecificRule([]models.PricingRule{narrow}, date(t, "2025-08-01")) != nil {
		t.Fatal("rule applied outside its date scope")
	}
}

func TestNoBaseRateConfigured(t *testing.T) {
	rules := []models.PricingRule{
		{ID: 1, RuleType: models.RuleTATRate, Value: 0.1025, Active: true},
	}
	if _, err := computeQuote(rules, nil, 1,
		date(t, "2025-06-01"), date(t, "2025-06-05"), 2, "USD",
		time.Now().UTC(), MostSpecificRule); err == nil {
		t.Fatal("expected error when no base rate exists")
	}
}

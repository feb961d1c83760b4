package controllers

import (
	"net/http"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	Svc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{Svc: svc}
}

type BookingGuest struct {
	FullName  string `json:"full_name" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IsPrimary bool   `json:"is_primary"`
}

type CreateBookingRequest struct {
	PropertyID       uint           `json:"property_id"`
	StartDate        string         `json:"start_date" binding:"required"`
	EndDate          string         `json:"end_date" binding:"required"`
	Adults           int            `json:"adults" binding:"required"`
	Children         int            `json:"children"`
	CouponCode       string         `json:"coupon_code"`
	IdempotencyKey   string         `json:"idempotency_key" binding:"required"`
	PaymentReference string         `json:"payment_reference"`
	Guests           []BookingGuest `json:"guests"`
}

func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
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

	guests := make([]services.GuestInput, 0, len(req.Guests))
	for _, g := range req.Guests {
		guests = append(guests, services.GuestInput{
			FullName:  g.FullName,
			Email:     g.Email,
			Phone:     g.Phone,
			IsPrimary: g.IsPrimary,
		})
	}

	booking, err := bc.Svc.Create(c.Request.Context(), services.CreateBookingInput{
		PropertyID:       propertyID,
		StartDate:        start,
		EndDate:          end,
		Adults:           req.Adults,
		Children:         req.Children,
		CouponCode:       req.CouponCode,
		IdempotencyKey:   req.IdempotencyKey,
		PaymentReference: req.PaymentReference,
		Guests:           guests,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, booking)
}

func (bc *BookingController) GetBookings(c *gin.Context) {
	list, err := bc.Svc.List(propertyIDQuery(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (bc *BookingController) GetBookingByID(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	booking, err := bc.Svc.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (bc *BookingController) CancelBooking(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	booking, err := bc.Svc.Cancel(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

type ConfirmPaymentRequest struct {
	IdempotencyKey   string `json:"idempotency_key" binding:"required"`
	PaymentReference string `json:"payment_reference" binding:"required"`
}

// ConfirmPayment is the callback surface for the payment collaborator:
// it finalizes the pending→confirmed transition.
func (bc *BookingController) ConfirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := bc.Svc.ConfirmPayment(c.Request.Context(), req.IdempotencyKey, req.PaymentReference)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

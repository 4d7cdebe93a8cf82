package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/Domenick1991/slotbooking/internal/domain"
	"github.com/Domenick1991/slotbooking/internal/invoice"
	"github.com/Domenick1991/slotbooking/internal/service/reservation"
	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	service  reservation.ReservationUseCase
	invoices invoice.Renderer
	now      func() time.Time
}

type createOrderRequest struct {
	SlotID string `json:"slot_id" binding:"required"`
}

type verifyPaymentRequest struct {
	SlotID    string `json:"slot_id" binding:"required"`
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type bookingResponse struct {
	Booking *domain.Booking `json:"booking"`
}

type cancelResponse struct {
	Message          string          `json:"message"`
	Booking          *domain.Booking `json:"booking"`
	AlreadyCancelled bool            `json:"already_cancelled,omitempty"`
}

type bookingsResponse struct {
	Bookings []domain.Booking `json:"bookings"`
}

type bookingsWithSlotResponse struct {
	Bookings []domain.BookingWithSlot `json:"bookings"`
}

func NewReservationHandler(service reservation.ReservationUseCase, invoices invoice.Renderer) *ReservationHandler {
	return &ReservationHandler{service: service, invoices: invoices, now: time.Now}
}

// Register expects router to be behind Authenticate.
func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("/order", h.createOrder)
	router.POST("/verify", h.verify)
	router.GET("", h.listForCaller)
	router.GET("/payments/:paymentId", h.byPayment)
	router.GET("/:id/invoice", h.invoice)
	router.DELETE("/:id", h.cancel)

	admin := router.Group("", RequireAdmin())
	admin.GET("/all", h.listAll)
	admin.GET("/slot/:slotId", h.listForSlot)
}

func (h *ReservationHandler) createOrder(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), caller, req.SlotID)
	if err != nil {
		writeError(c, err, orderConflict)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *ReservationHandler) verify(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.VerifyPayment(c.Request.Context(), caller, reservation.VerifyPaymentInput{
		SlotID:    req.SlotID,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		writeError(c, err, verifyConflict)
		return
	}
	c.JSON(http.StatusOK, bookingResponse{Booking: booking})
}

func (h *ReservationHandler) cancel(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	result, err := h.service.CancelBooking(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		writeError(c, err, defaultConflict)
		return
	}
	message := "booking cancelled"
	if result.AlreadyCancelled {
		message = "booking already cancelled"
	}
	c.JSON(http.StatusOK, cancelResponse{Message: message, Booking: result.Booking, AlreadyCancelled: result.AlreadyCancelled})
}

func (h *ReservationHandler) listForCaller(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	bookings, err := h.service.CallerBookings(c.Request.Context(), caller, c.Query("caller"))
	if err != nil {
		writeError(c, err, defaultConflict)
		return
	}
	c.JSON(http.StatusOK, bookingsResponse{Bookings: bookings})
}

func (h *ReservationHandler) listAll(c *gin.Context) {
	bookings, err := h.service.ConfirmedBookings(c.Request.Context())
	if err != nil {
		writeError(c, err, defaultConflict)
		return
	}
	c.JSON(http.StatusOK, bookingsWithSlotResponse{Bookings: bookings})
}

func (h *ReservationHandler) listForSlot(c *gin.Context) {
	bookings, err := h.service.SlotBookings(c.Request.Context(), c.Param("slotId"))
	if err != nil {
		writeError(c, err, defaultConflict)
		return
	}
	c.JSON(http.StatusOK, bookingsResponse{Bookings: bookings})
}

func (h *ReservationHandler) byPayment(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	booking, err := h.service.BookingByPayment(c.Request.Context(), caller, c.Param("paymentId"))
	if err != nil {
		writeError(c, err, defaultConflict)
		return
	}
	c.JSON(http.StatusOK, bookingResponse{Booking: booking})
}

func (h *ReservationHandler) invoice(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	booking, err := h.service.BookingForCaller(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		writeError(c, err, defaultConflict)
		return
	}

	var buf bytes.Buffer
	if err := h.invoices.Render(&buf, booking, h.now()); err != nil {
		writeError(c, err, defaultConflict)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+h.invoices.Filename(booking.ID))
	c.Data(http.StatusOK, h.invoices.ContentType(), buf.Bytes())
}

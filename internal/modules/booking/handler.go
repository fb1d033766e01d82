package booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/response"
	"hotelbooking/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/my", h.MyBookings)
	rg.POST("/bookings/:id/cancel", h.CancelBooking)
	rg.POST("/bookings/:id/check-in", h.CheckIn)
	rg.POST("/bookings/:id/check-out", h.CheckOut)
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/hotels/:id/available-rooms", h.AvailableRooms)
	rg.GET("/rooms/:id/calendar", h.RoomCalendar)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return
	}
	req.UserID = c.GetInt64("user_id")

	b, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) MyBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, err := h.service.MyBookings(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	b, err := h.service.Cancel(c.Request.Context(), bookingID, c.GetInt64("user_id"), domain.Role(c.GetString("role")), req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CheckIn(c *gin.Context) {
	h.partnerAction(c, h.service.CheckIn)
}

func (h *Handler) CheckOut(c *gin.Context) {
	h.partnerAction(c, h.service.CheckOut)
}

func (h *Handler) partnerAction(c *gin.Context, action func(ctx context.Context, bookingID, actorUserID int64) (*domain.Booking, error)) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	b, err := action(c.Request.Context(), bookingID, c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) AvailableRooms(c *gin.Context) {
	hotelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid hotel id")
		return
	}
	start, err1 := time.Parse("2006-01-02", c.Query("start"))
	end, err2 := time.Parse("2006-01-02", c.Query("end"))
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "start and end must be YYYY-MM-DD")
		return
	}

	rooms, err := h.service.AvailableRooms(c.Request.Context(), hotelID, start, end)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := AvailableRoomsResponse{
		HotelID:   hotelID,
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Rooms:     make([]RoomBrief, 0, len(rooms)),
	}
	for _, r := range rooms {
		resp.Rooms = append(resp.Rooms, RoomBrief{
			ID:            r.ID,
			Name:          r.Name,
			PricePerNight: r.PricePerNight,
			MaxAdults:     r.MaxAdults,
			MaxChildren:   r.MaxChildren,
			Photos:        r.Photos,
		})
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) RoomCalendar(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid room id")
		return
	}
	from, err1 := time.Parse("2006-01-02", c.Query("from"))
	to, err2 := time.Parse("2006-01-02", c.Query("to"))
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "from and to must be YYYY-MM-DD")
		return
	}

	busy, err := h.service.RoomCalendar(c.Request.Context(), roomID, from, to)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := CalendarResponse{RoomID: roomID, Busy: make([]BusyInterval, 0, len(busy))}
	for _, r := range busy {
		resp.Busy = append(resp.Busy, BusyInterval{
			Start: r.Start.Format("2006-01-02"),
			End:   r.End.Format("2006-01-02"),
		})
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrCapacity):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrConflict), errors.Is(err, ErrRoomBusy):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Room is not available for the selected dates")
	case errors.Is(err, ErrDuplicateAction), errors.Is(err, ErrBadTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process booking request")
	}
}

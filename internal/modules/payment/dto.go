package payment

type CreatePaymentRequest struct {
	BookingID int64 `json:"booking_id" binding:"required" example:"123"`
}

type CreatePaymentResponse struct {
	OrderID string `json:"order_id" example:"123_1717237800000"`
	PayURL  string `json:"pay_url" example:"https://test-payment.momo.vn/v2/gateway/pay?t=..."`
	Gateway string `json:"gateway" example:"momo"`
}

// VNPayIPNResponse is the acknowledgement body the gateway's IPN contract
// requires, with its documented RspCode strings.
type VNPayIPNResponse struct {
	RspCode string `json:"RspCode" example:"00"`
	Message string `json:"Message" example:"Confirm Success"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"invalid request"`
}

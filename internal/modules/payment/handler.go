package payment

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/gateway/momo"
	"hotelbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service            *Service
	frontendSuccessURL string
	frontendFailureURL string
	loggerf            func(format string, args ...interface{})
}

func NewHandler(service *Service, frontendSuccessURL, frontendFailureURL string, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{
		service:            service,
		frontendSuccessURL: frontendSuccessURL,
		frontendFailureURL: frontendFailureURL,
		loggerf:            loggerf,
	}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/momo/create", h.CreateMoMo)
	rg.POST("/payments/vnpay/create", h.CreateVNPay)
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/momo/ipn", h.MoMoIPN)
	rg.GET("/payments/momo/return", h.MoMoReturn)
	rg.GET("/payments/vnpay/ipn", h.VNPayIPN)
	rg.GET("/payments/vnpay/return", h.VNPayReturn)
}

func (h *Handler) CreateMoMo(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	resp, err := h.service.CreateMoMoPayment(c.Request.Context(), req)
	if err != nil {
		h.writeCreateError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) CreateVNPay(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	resp, err := h.service.CreateVNPayPayment(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		h.writeCreateError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// MoMoIPN handles the server-to-server notification. MoMo retries on any
// non-200, so the handler acknowledges with 200 and a body regardless of the
// internal processing outcome.
func (h *Handler) MoMoIPN(c *gin.Context) {
	rawBody, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(strings.NewReader(string(rawBody)))

	var p momo.IPNPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		h.loggerf("level=error msg=malformed momo ipn body err=%v raw_body=%s", err, string(rawBody))
		c.JSON(http.StatusOK, gin.H{"message": "received"})
		return
	}

	if _, err := h.service.HandleMoMoCallback(c.Request.Context(), p, string(rawBody)); err != nil {
		h.loggerf("level=error msg=momo ipn processing failed order_id=%s err=%v", p.OrderID, err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "received"})
}

// MoMoReturn handles the browser redirect. The query carries the same signed
// field set as the IPN; it feeds the same reconcile path and then forwards
// the user to the frontend result page.
func (h *Handler) MoMoReturn(c *gin.Context) {
	var p momo.IPNPayload
	if err := c.ShouldBindQuery(&p); err != nil {
		c.Redirect(http.StatusFound, h.frontendFailureURL)
		return
	}

	bookingID, _ := domain.BookingIDFromOrderID(p.OrderID)
	h.service.SaveReturnVisit(c.Request.Context(), p.OrderID, c.Request.URL.RawQuery)

	if _, err := h.service.HandleMoMoCallback(c.Request.Context(), p, c.Request.URL.RawQuery); err != nil {
		h.loggerf("level=error msg=momo return processing failed order_id=%s err=%v", p.OrderID, err)
		c.Redirect(http.StatusFound, h.resultURL(h.frontendFailureURL, bookingID, p.Message))
		return
	}
	if p.ResultCode != momo.ResultCodeSuccess {
		c.Redirect(http.StatusFound, h.resultURL(h.frontendFailureURL, bookingID, p.Message))
		return
	}
	c.Redirect(http.StatusFound, h.resultURL(h.frontendSuccessURL, bookingID, p.Message))
}

// VNPayIPN answers with the gateway's documented RspCode contract. This is
// stricter than MoMo's blanket 200 and must not be conflated with it.
func (h *Handler) VNPayIPN(c *gin.Context) {
	params := queryToMap(c.Request.URL.Query())

	resp, err := h.service.HandleVNPayCallback(c.Request.Context(), params, c.Request.URL.RawQuery)
	if err != nil {
		h.loggerf("level=warn msg=vnpay ipn rejected txn_ref=%s rsp_code=%s err=%v", params["vnp_TxnRef"], resp.RspCode, err)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) VNPayReturn(c *gin.Context) {
	params := queryToMap(c.Request.URL.Query())
	orderID := params["vnp_TxnRef"]
	bookingID, _ := domain.BookingIDFromOrderID(orderID)

	h.service.SaveReturnVisit(c.Request.Context(), orderID, c.Request.URL.RawQuery)

	_, err := h.service.HandleVNPayCallback(c.Request.Context(), params, c.Request.URL.RawQuery)
	if err != nil {
		h.loggerf("level=error msg=vnpay return processing failed order_id=%s err=%v", orderID, err)
		c.Redirect(http.StatusFound, h.resultURL(h.frontendFailureURL, bookingID, "payment could not be verified"))
		return
	}
	if params["vnp_ResponseCode"] != "00" {
		c.Redirect(http.StatusFound, h.resultURL(h.frontendFailureURL, bookingID, "payment was not completed"))
		return
	}
	c.Redirect(http.StatusFound, h.resultURL(h.frontendSuccessURL, bookingID, "payment confirmed"))
}

func (h *Handler) writeCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, ErrGateway):
		response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create payment")
	}
}

func (h *Handler) resultURL(base string, bookingID int64, message string) string {
	return fmt.Sprintf("%s?bookingId=%d&message=%s", base, bookingID, url.QueryEscape(message))
}

func queryToMap(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

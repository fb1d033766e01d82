package momo

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ResultCodeSuccess is the only resultCode MoMo documents as a completed
// payment; every other code is a failure.
const ResultCodeSuccess = 0

var ErrInvalidSignature = errors.New("momo: invalid signature")

type Config struct {
	PartnerCode string
	PartnerName string
	StoreID     string
	AccessKey   string
	SecretKey   string
	Endpoint    string
	RedirectURL string
	IPNURL      string
	RequestType string
	Lang        string
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.RequestType == "" {
		cfg.RequestType = "captureWallet"
	}
	if cfg.Lang == "" {
		cfg.Lang = "vi"
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

type createRequest struct {
	PartnerCode string `json:"partnerCode"`
	PartnerName string `json:"partnerName"`
	StoreID     string `json:"storeId"`
	RequestID   string `json:"requestId"`
	Amount      string `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	Lang        string `json:"lang"`
	RequestType string `json:"requestType"`
	AutoCapture bool   `json:"autoCapture"`
	ExtraData   string `json:"extraData"`
	Signature   string `json:"signature"`
}

type createResponse struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
	PayURL     string `json:"payUrl"`
	RequestID  string `json:"requestId"`
	OrderID    string `json:"orderId"`
}

// CreatePayment signs and posts a create-payment request and returns the
// payUrl the user's browser should be sent to.
func (c *Client) CreatePayment(ctx context.Context, orderID string, amount int64, orderInfo string) (string, error) {
	req := createRequest{
		PartnerCode: c.cfg.PartnerCode,
		PartnerName: c.cfg.PartnerName,
		StoreID:     c.cfg.StoreID,
		RequestID:   uuid.NewString(),
		Amount:      strconv.FormatInt(amount, 10),
		OrderID:     orderID,
		OrderInfo:   orderInfo,
		RedirectURL: c.cfg.RedirectURL,
		IPNURL:      c.cfg.IPNURL,
		Lang:        c.cfg.Lang,
		RequestType: c.cfg.RequestType,
		AutoCapture: true,
		ExtraData:   "",
	}
	req.Signature = c.SignCreate(req.RequestID, req.Amount, req.OrderID, req.OrderInfo, req.ExtraData)

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal create request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("momo create request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read momo response: %w", err)
	}

	var out createResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode momo response: %w", err)
	}
	if out.ResultCode != ResultCodeSuccess {
		return "", fmt.Errorf("momo create rejected: resultCode=%d message=%s", out.ResultCode, out.Message)
	}
	if out.PayURL == "" {
		return "", errors.New("momo create response missing payUrl")
	}
	return out.PayURL, nil
}

// SignCreate builds the documented create-payment signature: the raw string
// uses MoMo's fixed key order (not lexicographic sorting), HMAC-SHA256 with
// the partner secret, hex-encoded.
func (c *Client) SignCreate(requestID, amount, orderID, orderInfo, extraData string) string {
	raw := "accessKey=" + c.cfg.AccessKey +
		"&amount=" + amount +
		"&extraData=" + extraData +
		"&ipnUrl=" + c.cfg.IPNURL +
		"&orderId=" + orderID +
		"&orderInfo=" + orderInfo +
		"&partnerCode=" + c.cfg.PartnerCode +
		"&redirectUrl=" + c.cfg.RedirectURL +
		"&requestId=" + requestID +
		"&requestType=" + c.cfg.RequestType
	return c.hmacHex(raw)
}

// IPNPayload is the notification field set MoMo sends both as the IPN POST
// body and as the redirect query string, signature included.
type IPNPayload struct {
	PartnerCode  string `json:"partnerCode" form:"partnerCode"`
	OrderID      string `json:"orderId" form:"orderId"`
	RequestID    string `json:"requestId" form:"requestId"`
	Amount       int64  `json:"amount" form:"amount"`
	OrderInfo    string `json:"orderInfo" form:"orderInfo"`
	OrderType    string `json:"orderType" form:"orderType"`
	TransID      int64  `json:"transId" form:"transId"`
	ResultCode   int    `json:"resultCode" form:"resultCode"`
	Message      string `json:"message" form:"message"`
	PayType      string `json:"payType" form:"payType"`
	ResponseTime int64  `json:"responseTime" form:"responseTime"`
	ExtraData    string `json:"extraData" form:"extraData"`
	Signature    string `json:"signature" form:"signature"`
}

// SignIPN computes the expected signature of an inbound notification. MoMo
// documents its own fixed field order for responses, distinct from the
// create-request order.
func (c *Client) SignIPN(p IPNPayload) string {
	raw := "accessKey=" + c.cfg.AccessKey +
		"&amount=" + strconv.FormatInt(p.Amount, 10) +
		"&extraData=" + p.ExtraData +
		"&message=" + p.Message +
		"&orderId=" + p.OrderID +
		"&orderInfo=" + p.OrderInfo +
		"&orderType=" + p.OrderType +
		"&partnerCode=" + p.PartnerCode +
		"&payType=" + p.PayType +
		"&requestId=" + p.RequestID +
		"&responseTime=" + strconv.FormatInt(p.ResponseTime, 10) +
		"&resultCode=" + strconv.Itoa(p.ResultCode) +
		"&transId=" + strconv.FormatInt(p.TransID, 10)
	return c.hmacHex(raw)
}

// VerifyIPN rejects notifications whose signature does not match. Absence of
// proof is absence of confirmation.
func (c *Client) VerifyIPN(p IPNPayload) error {
	expected := c.SignIPN(p)
	if !hmac.Equal([]byte(expected), []byte(p.Signature)) {
		return ErrInvalidSignature
	}
	return nil
}

func (c *Client) hmacHex(raw string) string {
	mac := hmac.New(sha256.New, []byte(c.cfg.SecretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Gateway response codes per the VNPay merchant integration docs. The IPN
// handler must answer with these exact strings.
const (
	RspCodeSuccess          = "00"
	RspCodeOrderNotFound    = "01"
	RspCodeOrderConfirmed   = "02"
	RspCodeInvalidAmount    = "04"
	RspCodeInvalidSignature = "97"
	RspCodeUnknownError     = "99"
)

// ResponseCodeSuccess is the vnp_ResponseCode value for a completed payment.
const ResponseCodeSuccess = "00"

var ErrInvalidSignature = errors.New("vnpay: invalid signature")

// hanoi is the gateway's fixed timezone. vnp_CreateDate must be formatted in
// UTC+7 no matter where the server runs; a host-local time here produces a
// wrong signature input and a gateway-side rejection.
var hanoi = time.FixedZone("UTC+7", 7*60*60)

type Config struct {
	TmnCode    string
	HashSecret string
	BaseURL    string
	ReturnURL  string
	Version    string
}

type Builder struct {
	cfg Config
}

func NewBuilder(cfg Config) *Builder {
	if cfg.Version == "" {
		cfg.Version = "2.1.0"
	}
	return &Builder{cfg: cfg}
}

// BuildPaymentURL returns the signed redirect URL for one payment attempt.
// Amount is in VND and is transmitted scaled x100 per the gateway convention.
func (b *Builder) BuildPaymentURL(orderID string, amount int64, orderInfo, clientIP string, now time.Time) string {
	params := map[string]string{
		"vnp_Version":    b.cfg.Version,
		"vnp_Command":    "pay",
		"vnp_TmnCode":    b.cfg.TmnCode,
		"vnp_Amount":     strconv.FormatInt(amount*100, 10),
		"vnp_CurrCode":   "VND",
		"vnp_TxnRef":     orderID,
		"vnp_OrderInfo":  orderInfo,
		"vnp_OrderType":  "other",
		"vnp_Locale":     "vn",
		"vnp_ReturnUrl":  b.cfg.ReturnURL,
		"vnp_IpAddr":     clientIP,
		"vnp_CreateDate": now.In(hanoi).Format("20060102150405"),
	}

	query := HashData(params)
	secureHash := b.Sign(query)
	return b.cfg.BaseURL + "?" + query + "&vnp_SecureHash=" + secureHash
}

// HashData canonicalizes a parameter map: URL-encode keys and values (space
// becomes '+'), sort by encoded key, join as key=value&... This exact string
// is both the signed payload and the query string. Sorting happens on the
// encoded keys alone so a key that is a prefix of another still lands in
// key order, not in whatever order '=' compares against the longer key.
func HashData(params map[string]string) string {
	values := make(map[string]string, len(params))
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		ek := url.QueryEscape(k)
		values[ek] = url.QueryEscape(v)
		keys = append(keys, ek)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values[k])
	}
	return strings.Join(pairs, "&")
}

// Sign computes the hex HMAC-SHA512 of the canonical query string.
func (b *Builder) Sign(hashData string) string {
	mac := hmac.New(sha512.New, []byte(b.cfg.HashSecret))
	mac.Write([]byte(hashData))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCallback checks an inbound vnp_* parameter set (return or IPN)
// against its vnp_SecureHash: strip the hash fields, re-run the identical
// canonicalization and signing, and require an exact digest match. Any
// mismatch must hard-fail the reconciliation.
func (b *Builder) VerifyCallback(params map[string]string) error {
	received := params["vnp_SecureHash"]
	if received == "" {
		return ErrInvalidSignature
	}

	filtered := make(map[string]string, len(params))
	for k, v := range params {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		filtered[k] = v
	}

	expected := b.Sign(HashData(filtered))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(received))) {
		return ErrInvalidSignature
	}
	return nil
}

package momo

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testConfig() Config {
	return Config{
		PartnerCode: "MOMOTEST",
		PartnerName: "Hotel Booking",
		StoreID:     "store-01",
		AccessKey:   "access-key",
		SecretKey:   "secret-key",
		RedirectURL: "https://example.com/payments/momo/return",
		IPNURL:      "https://example.com/payments/momo/ipn",
	}
}

func TestSignCreate_FixedKeyOrder(t *testing.T) {
	c := NewClient(testConfig())

	got := c.SignCreate("req-1", "1500000", "123_1717237800000", "Booking 123", "")

	raw := "accessKey=access-key" +
		"&amount=1500000" +
		"&extraData=" +
		"&ipnUrl=https://example.com/payments/momo/ipn" +
		"&orderId=123_1717237800000" +
		"&orderInfo=Booking 123" +
		"&partnerCode=MOMOTEST" +
		"&redirectUrl=https://example.com/payments/momo/return" +
		"&requestId=req-1" +
		"&requestType=captureWallet"
	mac := hmac.New(sha256.New, []byte("secret-key"))
	mac.Write([]byte(raw))
	want := hex.EncodeToString(mac.Sum(nil))

	if got != want {
		t.Fatalf("signature = %s, want %s", got, want)
	}
}

func TestVerifyIPN(t *testing.T) {
	c := NewClient(testConfig())
	p := IPNPayload{
		PartnerCode:  "MOMOTEST",
		OrderID:      "123_1717237800000",
		RequestID:    "req-1",
		Amount:       1500000,
		OrderInfo:    "Booking 123",
		OrderType:    "momo_wallet",
		TransID:      4088878653,
		ResultCode:   0,
		Message:      "Successful.",
		PayType:      "qr",
		ResponseTime: 1717237900000,
	}
	p.Signature = c.SignIPN(p)

	if err := c.VerifyIPN(p); err != nil {
		t.Fatalf("valid IPN must verify: %v", err)
	}

	tampered := p
	tampered.Amount = 1
	if err := c.VerifyIPN(tampered); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("tampered IPN must fail, got %v", err)
	}

	unsigned := p
	unsigned.Signature = ""
	if err := c.VerifyIPN(unsigned); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("unsigned IPN must fail, got %v", err)
	}
}

func TestCreatePayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode create request: %v", err)
		}
		if req.Signature == "" {
			t.Fatal("create request must be signed")
		}
		if req.Amount != "1500000" {
			t.Fatalf("amount = %s, want decimal string 1500000", req.Amount)
		}
		_ = json.NewEncoder(w).Encode(createResponse{
			ResultCode: 0,
			Message:    "Successful.",
			PayURL:     "https://test-payment.momo.vn/v2/gateway/pay?t=abc",
		})
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Endpoint = srv.URL
	c := NewClient(cfg)

	payURL, err := c.CreatePayment(context.Background(), "123_1717237800000", 1500000, "Booking 123")
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if payURL != "https://test-payment.momo.vn/v2/gateway/pay?t=abc" {
		t.Fatalf("unexpected payUrl %s", payURL)
	}
}

func TestCreatePayment_GatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(createResponse{ResultCode: 41, Message: "Duplicated orderId"})
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Endpoint = srv.URL
	c := NewClient(cfg)

	if _, err := c.CreatePayment(context.Background(), "123_1", 1000, "Booking 123"); err == nil {
		t.Fatal("non-zero resultCode must be an error")
	}
}

package razorpay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(map[string]interface{}{
		"key_id":     " rzp_test_abc ",
		"key_secret": " secret ",
	})
	if err != nil {
		t.Fatalf("parse config failed: %v", err)
	}
	if cfg.KeyID != "rzp_test_abc" || cfg.KeySecret != "secret" {
		t.Fatalf("config not trimmed: %+v", cfg)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("unexpected default api base url: %s", cfg.APIBaseURL)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("validate config failed: %v", err)
	}
	if err := ValidateConfig(&Config{KeyID: "rzp", APIBaseURL: defaultAPIBaseURL}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected missing secret to be rejected, got %v", err)
	}
}

func TestToMinorAmount(t *testing.T) {
	cases := map[string]int64{
		"900":     90000,
		"899.99":  89999,
		"0.015":   2,
		"1000.10": 100010,
	}
	for input, want := range cases {
		got, err := ToMinorAmount(input)
		if err != nil {
			t.Fatalf("amount %s: %v", input, err)
		}
		if got != want {
			t.Fatalf("amount %s: want %d got %d", input, want, got)
		}
	}
	if _, err := ToMinorAmount("0"); err == nil {
		t.Fatalf("expected zero amount to be rejected")
	}
}

func TestCreateOrder(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_abc" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/v1/orders" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_Nx1","entity":"order","amount":90000,"currency":"INR","status":"created"}`))
	}))
	defer server.Close()

	cfg := &Config{KeyID: "rzp_test_abc", KeySecret: "secret", APIBaseURL: server.URL}
	result, err := CreateOrder(context.Background(), cfg, CreateInput{
		Receipt:  "rcpt-1",
		Amount:   "900.00",
		Currency: "inr",
		Notes:    map[string]string{"order_no": "AC1"},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if result.OrderID != "order_Nx1" || result.Amount != 90000 || result.Status != "created" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if captured["currency"] != "INR" || captured["receipt"] != "rcpt-1" {
		t.Fatalf("unexpected request payload: %+v", captured)
	}
	if amount, _ := captured["amount"].(float64); amount != 90000 {
		t.Fatalf("expected amount in paise, got %v", captured["amount"])
	}
}

func TestCreateOrderGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`))
	}))
	defer server.Close()

	cfg := &Config{KeyID: "rzp", KeySecret: "secret", APIBaseURL: server.URL}
	_, err := CreateOrder(context.Background(), cfg, CreateInput{Receipt: "r", Amount: "10", Currency: "INR"})
	if !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected response error, got %v", err)
	}
}

func TestVerifyPaymentSignature(t *testing.T) {
	cfg := &Config{KeySecret: "secret"}
	sig := computeSignature("secret", "order_Nx1|pay_29QQoUBi66xm2f")
	if err := VerifyPaymentSignature(cfg, "order_Nx1", "pay_29QQoUBi66xm2f", sig); err != nil {
		t.Fatalf("expected signature to verify: %v", err)
	}
	if err := VerifyPaymentSignature(cfg, "order_Nx1", "pay_other", sig); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected tampered payment id to fail, got %v", err)
	}
	if err := VerifyPaymentSignature(cfg, "order_Nx1", "pay_29QQoUBi66xm2f", ""); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected empty signature to fail, got %v", err)
	}
}

package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/constants"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"
)

func newRazorpayTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			Receipt  string `json:"receipt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"id":"order_test_1","entity":"order","amount":%d,"currency":%q,"receipt":%q,"status":"created"}`,
			body.Amount, body.Currency, body.Receipt)
	}))
	t.Cleanup(server.Close)
	return server
}

func signRazorpay(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestApplyChannelInput(t *testing.T) {
	cases := []struct {
		name  string
		input PaymentChannelInput
		want  error
	}{
		{"missing name", PaymentChannelInput{ProviderType: "razorpay"}, ErrPaymentChannelInvalid},
		{"unknown provider", PaymentChannelInput{Name: "x", ProviderType: "paypal"}, ErrPaymentProviderNotSupported},
		{"razorpay missing secret", PaymentChannelInput{Name: "x", ProviderType: "razorpay", Config: map[string]interface{}{"key_id": "rzp"}}, ErrPaymentChannelInvalid},
		{"zwitch missing key", PaymentChannelInput{Name: "x", ProviderType: "zwitch", Config: map[string]interface{}{}}, ErrPaymentChannelInvalid},
	}
	for _, tc := range cases {
		if err := applyChannelInput(&models.PaymentChannel{}, tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestCreateAndVerifyPayment(t *testing.T) {
	f := newOrderFixture(t)
	server := newRazorpayTestServer(t)
	f.createCoupon(t, models.Coupon{
		Code:          "SAVE10",
		DiscountType:  constants.CouponTypePercentage,
		DiscountValue: models.NewMoney("10"),
	})

	order, err := f.placeOrder("user-1", "SAVE10", CreateOrderItem{ProductID: f.ring.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	paymentRepo := repository.NewPaymentRepository(f.db)
	svc := NewPaymentService(f.db, paymentRepo, repository.NewPaymentChannelRepository(f.db), f.service)
	ctx := context.Background()
	channel, err := svc.CreateChannel(PaymentChannelInput{
		Name:         "Razorpay",
		ProviderType: " Razorpay ",
		Config: map[string]interface{}{
			"key_id":       "rzp_test_abc",
			"key_secret":   "secret",
			"api_base_url": server.URL,
		},
	})
	if err != nil {
		t.Fatalf("create channel failed: %v", err)
	}

	public, err := svc.ListPublicChannels()
	if err != nil || len(public) != 1 || public[0].KeyID != "rzp_test_abc" {
		t.Fatalf("unexpected public channels: %+v %v", public, err)
	}

	if _, err := svc.CreatePayment(ctx, CreatePaymentInput{OrderNo: order.OrderNo, ChannelID: channel.ID, UserID: "intruder"}); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign shopper must not pay the order, got %v", err)
	}
	checkout, err := svc.CreatePayment(ctx, CreatePaymentInput{OrderNo: order.OrderNo, ChannelID: channel.ID, UserID: "user-1"})
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if checkout.Amount != 27000 || checkout.GatewayOrderID != "order_test_1" || checkout.KeyID != "rzp_test_abc" {
		t.Fatalf("unexpected checkout: %+v", checkout)
	}

	bad := VerifyPaymentInput{GatewayOrderID: "order_test_1", GatewayPaymentID: "pay_1", Signature: "deadbeef"}
	if _, err := svc.VerifyPayment(ctx, bad); !errors.Is(err, ErrPaymentSignatureInvalid) {
		t.Fatalf("expected ErrPaymentSignatureInvalid, got %v", err)
	}

	good := VerifyPaymentInput{
		GatewayOrderID:   "order_test_1",
		GatewayPaymentID: "pay_1",
		Signature:        signRazorpay("secret", "order_test_1", "pay_1"),
	}
	payment, err := svc.VerifyPayment(ctx, good)
	if err != nil {
		t.Fatalf("verify payment failed: %v", err)
	}
	if payment.Status != constants.PaymentStatusSuccess || payment.PaidAt == nil {
		t.Fatalf("unexpected payment: %+v", payment)
	}
	paid, _ := f.service.reload(order.ID)
	if paid.Status != constants.OrderStatusPaid {
		t.Fatalf("expected order paid, got %s", paid.Status)
	}
	if _, err := svc.VerifyPayment(ctx, good); err != nil {
		t.Fatalf("repeated verification must be idempotent: %v", err)
	}
	if _, err := svc.CreatePayment(ctx, CreatePaymentInput{OrderNo: order.OrderNo, ChannelID: channel.ID, UserID: "user-1"}); !errors.Is(err, ErrOrderNotPayable) {
		t.Fatalf("paid order must not be payable again, got %v", err)
	}
}

func TestCreatePaymentRejectsZwitch(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.placeOrder("", "", CreateOrderItem{ProductID: f.ring.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	svc := NewPaymentService(f.db, repository.NewPaymentRepository(f.db), repository.NewPaymentChannelRepository(f.db), f.service)
	channel, err := svc.CreateChannel(PaymentChannelInput{
		Name:         "Zwitch",
		ProviderType: "zwitch",
		Config:       map[string]interface{}{"access_key": "ak"},
	})
	if err != nil {
		t.Fatalf("create channel failed: %v", err)
	}
	_, err = svc.CreatePayment(context.Background(), CreatePaymentInput{OrderNo: order.OrderNo, ChannelID: channel.ID})
	if !errors.Is(err, ErrPaymentProviderNotSupported) {
		t.Fatalf("expected ErrPaymentProviderNotSupported, got %v", err)
	}
}

func TestCreatePaymentSettlesFullyDiscountedOrder(t *testing.T) {
	f := newOrderFixture(t)
	big := f.createCoupon(t, models.Coupon{
		Code:          "BIG",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: models.NewMoney("1000"),
	})
	order, err := f.placeOrder("user-1", "BIG", CreateOrderItem{ProductID: f.ring.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !order.TotalAmount.IsZero() {
		t.Fatalf("expected zero total, got %s", order.TotalAmount.String())
	}

	paymentRepo := repository.NewPaymentRepository(f.db)
	svc := NewPaymentService(f.db, paymentRepo, repository.NewPaymentChannelRepository(f.db), f.service)
	checkout, err := svc.CreatePayment(context.Background(), CreatePaymentInput{OrderNo: order.OrderNo, UserID: "user-1"})
	if err != nil {
		t.Fatalf("zero amount order must settle without a gateway: %v", err)
	}
	if !checkout.Paid || checkout.ProviderType != constants.PaymentProviderNone || checkout.Amount != 0 {
		t.Fatalf("unexpected checkout: %+v", checkout)
	}

	paid, _ := f.service.reload(order.ID)
	if paid.Status != constants.OrderStatusPaid || paid.PaidAt == nil {
		t.Fatalf("expected order paid, got %s", paid.Status)
	}
	var payment models.Payment
	if err := f.db.First(&payment, checkout.PaymentID).Error; err != nil {
		t.Fatalf("load payment failed: %v", err)
	}
	if payment.Status != constants.PaymentStatusSuccess || !payment.Amount.IsZero() || payment.PaidAt == nil {
		t.Fatalf("unexpected payment: %+v", payment)
	}
	if got := f.usedCount(t, big.ID); got != 1 {
		t.Fatalf("coupon redemption must stay committed, used_count=%d", got)
	}
	if _, err := f.service.CancelOrder(context.Background(), order.OrderNo, "user-1"); !errors.Is(err, ErrOrderNotCancelable) {
		t.Fatalf("paid order must not be cancelable, got %v", err)
	}
	if usage, _ := f.usageRepo.GetByOrderID(order.ID); usage == nil {
		t.Fatalf("paid order must keep its usage record")
	}
	if _, err := svc.CreatePayment(context.Background(), CreatePaymentInput{OrderNo: order.OrderNo, UserID: "user-1"}); !errors.Is(err, ErrOrderNotPayable) {
		t.Fatalf("settled order must not be payable again, got %v", err)
	}
}

func TestCreatePaymentRequiresChannelForPositiveTotal(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.placeOrder("", "", CreateOrderItem{ProductID: f.ring.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	svc := NewPaymentService(f.db, repository.NewPaymentRepository(f.db), repository.NewPaymentChannelRepository(f.db), f.service)
	if _, err := svc.CreatePayment(context.Background(), CreatePaymentInput{OrderNo: order.OrderNo}); !errors.Is(err, ErrPaymentChannelNotFound) {
		t.Fatalf("expected ErrPaymentChannelNotFound, got %v", err)
	}
}

package public

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/coupon"
)

func TestValidateCouponRequestAcceptsMixedIdentifiers(t *testing.T) {
	raw := `{"code":"save10","cartTotal":"1250.50","userId":42,"cartItems":[{"product_id":7,"category_id":"3"},{"collection_id":null}]}`
	var req ValidateCouponRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if req.UserID != "42" || req.CartTotal.String() != "1250.5" {
		t.Fatalf("unexpected request: %+v", req)
	}

	converted := req.toCouponRequest("")
	if converted.UserID != "42" || len(converted.CartItems) != 2 {
		t.Fatalf("unexpected coupon request: %+v", converted)
	}
	if converted.CartItems[0].ProductID != "7" || converted.CartItems[0].CategoryID != "3" || converted.CartItems[1].CollectionID != "" {
		t.Fatalf("unexpected cart items: %+v", converted.CartItems)
	}
	if got := req.toCouponRequest("user-9").UserID; got != "user-9" {
		t.Fatalf("verified shopper must override userId, got %s", got)
	}
}

func TestFlexibleIDRejectsObjects(t *testing.T) {
	var id flexibleID
	if err := json.Unmarshal([]byte(`{"id":1}`), &id); err == nil {
		t.Fatalf("object identifiers must be rejected")
	}
}

func TestCouponHTTPStatus(t *testing.T) {
	cases := map[coupon.Outcome]int{
		coupon.OutcomeApplied:        http.StatusOK,
		coupon.OutcomeRejected:       http.StatusOK,
		coupon.OutcomeInputError:     http.StatusBadRequest,
		coupon.OutcomeInfrastructure: http.StatusInternalServerError,
	}
	for outcome, want := range cases {
		if got := couponHTTPStatus(outcome); got != want {
			t.Fatalf("outcome %d want %d got %d", outcome, want, got)
		}
	}
}

package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/config"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/constants"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func decodeEnvelopeCode(t *testing.T, body []byte) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestAdminJWTAuthMiddlewareRejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := service.NewAuthService(&config.Config{JWT: config.JWTConfig{SecretKey: "admin-secret"}}, nil, nil)
	for name, mw := range map[string]gin.HandlerFunc{
		"nil service": AdminJWTAuthMiddleware(nil),
		"no header":   AdminJWTAuthMiddleware(svc),
	} {
		r := gin.New()
		r.Use(mw)
		r.GET("/admin/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%s: status want 200 got %d", name, w.Code)
		}
		if code := decodeEnvelopeCode(t, w.Body.Bytes()); code != 401 {
			t.Fatalf("%s: status_code want 401 got %d", name, code)
		}
	}
}

func TestAdminRBACMiddlewareSuperBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyAdminID, uint(1))
		c.Set(adminIsSuperContextKey, c.GetHeader("X-Super") == "1")
		c.Next()
	})
	r.Use(AdminRBACMiddleware(nil))
	r.GET("/admin/coupons", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/coupons", nil)
	req.Header.Set("X-Super", "1")
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("super admin should bypass rbac, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/coupons", nil)
	r.ServeHTTP(w, req)
	if code := decodeEnvelopeCode(t, w.Body.Bytes()); code != 401 {
		t.Fatalf("non-super admin without authz service must be rejected, got %d", code)
	}
}

func TestShopperIdentityMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := service.NewAuthService(&config.Config{ShopperJWT: config.JWTConfig{SecretKey: "shopper-secret"}}, nil, nil)
	r := gin.New()
	r.Use(ShopperIdentityMiddleware(svc))
	r.GET("/whoami", func(c *gin.Context) {
		id, _ := c.Get(constants.ContextKeyShopperID)
		c.JSON(http.StatusOK, gin.H{"shopper_id": id})
	})
	r.GET("/orders", RequireShopperMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	sign := func(secret string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "user-7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		signed, err := token.SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign token failed: %v", err)
		}
		return signed
	}

	cases := []struct {
		header string
		want   string
	}{
		{header: "Bearer " + sign("shopper-secret"), want: `"shopper_id":"user-7"`},
		{header: "Bearer " + sign("forged"), want: `"shopper_id":null`},
		{header: "", want: `"shopper_id":null`},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		r.ServeHTTP(w, req)
		if !strings.Contains(w.Body.String(), tc.want) {
			t.Fatalf("want body containing %s, got %s", tc.want, w.Body.String())
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	r.ServeHTTP(w, req)
	if code := decodeEnvelopeCode(t, w.Body.Bytes()); code != 401 {
		t.Fatalf("anonymous shopper must be rejected, got %d", code)
	}
}

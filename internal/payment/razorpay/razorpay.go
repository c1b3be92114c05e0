package razorpay

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
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid    = errors.New("razorpay config invalid")
	ErrRequestFailed    = errors.New("razorpay request failed")
	ErrResponseInvalid  = errors.New("razorpay response invalid")
	ErrSignatureInvalid = errors.New("razorpay signature invalid")
)

const (
	defaultAPIBaseURL = "https://api.razorpay.com"
	defaultTimeout    = 12 * time.Second
	receiptMaxLength  = 40
)

// Config Razorpay 渠道配置。
type Config struct {
	KeyID      string `json:"key_id"`
	KeySecret  string `json:"key_secret"`
	APIBaseURL string `json:"api_base_url"`
}

// CreateInput 创建 Razorpay 订单输入。
type CreateInput struct {
	Receipt  string
	Amount   string
	Currency string
	Notes    map[string]string
}

// CreateResult 创建 Razorpay 订单返回。
type CreateResult struct {
	OrderID  string
	Amount   int64
	Currency string
	Status   string
	Raw      map[string]interface{}
}

// ParseConfig 解析配置。
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: empty config", ErrConfigInvalid)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal config failed", ErrConfigInvalid)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshal config failed", ErrConfigInvalid)
	}
	cfg.normalize()
	return &cfg, nil
}

// ValidateConfig 校验配置。
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if cfg.KeyID == "" {
		return fmt.Errorf("%w: key_id is required", ErrConfigInvalid)
	}
	if cfg.KeySecret == "" {
		return fmt.Errorf("%w: key_secret is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return fmt.Errorf("%w: api_base_url is invalid", ErrConfigInvalid)
	}
	return nil
}

// CreateOrder 调用 Orders API 创建网关订单，金额以最小货币单位提交。
func CreateOrder(ctx context.Context, cfg *Config, input CreateInput) (*CreateResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	receipt := strings.TrimSpace(input.Receipt)
	if receipt == "" {
		return nil, fmt.Errorf("%w: receipt is required", ErrConfigInvalid)
	}
	if len(receipt) > receiptMaxLength {
		receipt = receipt[:receiptMaxLength]
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrConfigInvalid)
	}
	amount, err := ToMinorAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(input.Notes) > 0 {
		payload["notes"] = input.Notes
	}
	respBody, statusCode, err := doJSONRequest(ctx, cfg, http.MethodPost, "/v1/orders", payload)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: create order status %d: %s", ErrResponseInvalid, statusCode, readErrorDescription(respBody))
	}

	raw, err := decodeRawMap(respBody)
	if err != nil {
		return nil, err
	}
	result := &CreateResult{
		OrderID:  readString(raw, "id"),
		Currency: readString(raw, "currency"),
		Status:   readString(raw, "status"),
		Raw:      raw,
	}
	if parsed, err := strconv.ParseInt(readString(raw, "amount"), 10, 64); err == nil {
		result.Amount = parsed
	}
	if result.OrderID == "" {
		return nil, fmt.Errorf("%w: missing order id", ErrResponseInvalid)
	}
	if result.Amount != amount {
		return nil, fmt.Errorf("%w: amount mismatch", ErrResponseInvalid)
	}
	return result, nil
}

// VerifyPaymentSignature 校验 Checkout 回传的签名：HMAC-SHA256(order_id|payment_id)。
func VerifyPaymentSignature(cfg *Config, orderID, paymentID, signature string) error {
	if cfg == nil || cfg.KeySecret == "" {
		return fmt.Errorf("%w: key_secret is required", ErrConfigInvalid)
	}
	orderID = strings.TrimSpace(orderID)
	paymentID = strings.TrimSpace(paymentID)
	signature = strings.ToLower(strings.TrimSpace(signature))
	if orderID == "" || paymentID == "" || signature == "" {
		return fmt.Errorf("%w: missing fields", ErrSignatureInvalid)
	}
	expected := computeSignature(cfg.KeySecret, orderID+"|"+paymentID)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return fmt.Errorf("%w: verify failed", ErrSignatureInvalid)
	}
	return nil
}

// ToMinorAmount 将金额转换为最小货币单位（INR 为 paise）。
func ToMinorAmount(amount string) (int64, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("%w: amount is invalid", ErrConfigInvalid)
	}
	if !value.IsPositive() {
		return 0, fmt.Errorf("%w: amount must be positive", ErrConfigInvalid)
	}
	return value.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

func computeSignature(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Config) normalize() {
	c.KeyID = strings.TrimSpace(c.KeyID)
	c.KeySecret = strings.TrimSpace(c.KeySecret)
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
}

func doJSONRequest(ctx context.Context, cfg *Config, method, path string, payload interface{}) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: encode request failed", ErrRequestFailed)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, cfg.APIBaseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.SetBasicAuth(cfg.KeyID, cfg.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := (&http.Client{Timeout: defaultTimeout}).Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	return respBody, resp.StatusCode, nil
}

func decodeRawMap(body []byte) (map[string]interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var raw map[string]interface{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return raw, nil
}

func readErrorDescription(body []byte) string {
	raw, err := decodeRawMap(body)
	if err != nil {
		return ""
	}
	if detail, ok := raw["error"].(map[string]interface{}); ok {
		return readString(detail, "description")
	}
	return ""
}

func readString(raw map[string]interface{}, key string) string {
	value, ok := raw[key]
	if !ok || value == nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return typed.String()
	case float64:
		return strconv.FormatInt(int64(typed), 10)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", typed))
	}
}

package coupon

import (
	"context"
	"fmt"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/logger"

	"github.com/shopspring/decimal"
)

const defaultCurrencySymbol = "₹"

var hundred = decimal.NewFromInt(100)

// Validator 优惠券校验器
type Validator struct {
	store          Store
	mode           Mode
	now            func() time.Time
	currencySymbol string
}

// Option 校验器选项
type Option func(*Validator)

// WithClock 注入时钟，便于测试有效期
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// WithCurrencySymbol 设置门槛文案中的货币符号
func WithCurrencySymbol(symbol string) Option {
	return func(v *Validator) {
		if symbol != "" {
			v.currencySymbol = symbol
		}
	}
}

// NewValidator 创建校验器
func NewValidator(store Store, mode Mode, opts ...Option) *Validator {
	v := &Validator{
		store:          store,
		mode:           mode,
		now:            time.Now,
		currencySymbol: defaultCurrencySymbol,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Mode 返回校验模式
func (v *Validator) Mode() Mode {
	return v.mode
}

// Validate 按顺序执行关卡，第一个失败的关卡决定返回的错误
//
// 所有拒绝与基础设施故障都以 Result 返回，不会返回 error。
func (v *Validator) Validate(ctx context.Context, req Request) Result {
	total := req.CartTotal
	code := Normalize(req.Code)
	log := logger.FromContext(ctx)

	if v.mode == Authoritative {
		if code == "" || total.IsZero() {
			return rejected(total, MsgCodeAndTotal, OutcomeInputError)
		}
	} else if code == "" {
		return rejected(total, MsgEnterCode, OutcomeInputError)
	}

	rule, err := v.store.LookupCoupon(ctx, code)
	if err != nil {
		log.Errorw("coupon_validate_lookup_failed", "code", code, "mode", v.mode.String(), "error", err)
		return rejected(total, MsgValidationFailed, OutcomeInfrastructure)
	}
	if rule == nil {
		return rejected(total, MsgInvalidCode, OutcomeRejected)
	}

	if msg := v.checkStatus(rule, total); msg != "" {
		return rejected(total, msg, OutcomeRejected)
	}

	if v.mode == Authoritative {
		msg, err := v.checkUsage(ctx, rule, req.UserID)
		if err != nil {
			log.Errorw("coupon_validate_usage_count_failed",
				"coupon_id", rule.ID,
				"code", code,
				"user_id", req.UserID,
				"error", err,
			)
			return rejected(total, MsgValidationFailed, OutcomeInfrastructure)
		}
		if msg != "" {
			return rejected(total, msg, OutcomeRejected)
		}
		if !applicable(rule, req.CartItems) {
			return rejected(total, MsgNotApplicable, OutcomeRejected)
		}
	}

	discount, final := Compute(rule.DiscountType, rule.DiscountValue, total)
	return Result{
		Valid:      true,
		Discount:   discount,
		FinalTotal: final,
		Outcome:    OutcomeApplied,
		Coupon: &Summary{
			ID:            rule.ID,
			Code:          rule.Code,
			Name:          rule.Name,
			DiscountType:  rule.DiscountType,
			DiscountValue: rule.DiscountValue,
		},
	}
}

// 关卡 3-7
func (v *Validator) checkStatus(rule *Rule, total decimal.Decimal) string {
	if !rule.IsActive {
		return MsgNotActive
	}
	if rule.IsPaused {
		return MsgPaused
	}
	now := v.now()
	if now.Before(rule.ValidFrom) {
		return MsgNotYetValid
	}
	if now.After(rule.ValidUntil) {
		return MsgExpired
	}
	if rule.MinimumOrderAmount != nil && total.LessThan(*rule.MinimumOrderAmount) {
		return fmt.Sprintf("Minimum order amount of %s%s required", v.currencySymbol, rule.MinimumOrderAmount.String())
	}
	return ""
}

// 关卡 8-9
func (v *Validator) checkUsage(ctx context.Context, rule *Rule, userID string) (string, error) {
	if rule.MaxUses != nil {
		used, err := v.store.CountUsage(ctx, rule.ID)
		if err != nil {
			return "", err
		}
		if used >= int64(*rule.MaxUses) {
			return MsgUsageLimit, nil
		}
	}
	if rule.MaxUsesPerUser != nil && userID != "" {
		used, err := v.store.CountUsageByUser(ctx, rule.ID, userID)
		if err != nil {
			return "", err
		}
		if used >= int64(*rule.MaxUsesPerUser) {
			return MsgPerUserLimit, nil
		}
	}
	return "", nil
}

// 关卡 10：购物车为空时放行
func applicable(rule *Rule, items []CartItem) bool {
	if len(items) == 0 {
		return true
	}
	var pick func(CartItem) string
	switch rule.ApplicableTo {
	case ScopeProducts:
		pick = func(it CartItem) string { return it.ProductID }
	case ScopeCategories:
		pick = func(it CartItem) string { return it.CategoryID }
	case ScopeCollections:
		pick = func(it CartItem) string { return it.CollectionID }
	default:
		return true
	}

	allowed := make(map[string]struct{}, len(rule.ApplicableIDs))
	for _, id := range rule.ApplicableIDs {
		allowed[id] = struct{}{}
	}
	for _, item := range items {
		id := pick(item)
		if id == "" {
			continue
		}
		if _, ok := allowed[id]; ok {
			return true
		}
	}
	return false
}

// Compute 计算折扣与应付金额，折扣不超过购物车金额，结果保留 2 位小数
func Compute(kind DiscountType, value, total decimal.Decimal) (discount, final decimal.Decimal) {
	switch kind {
	case DiscountPercentage:
		discount = total.Mul(value).Div(hundred)
	case DiscountFixedAmount:
		discount = value
	default:
		discount = decimal.Zero
	}
	if discount.GreaterThan(total) {
		discount = total
	}
	discount = discount.Round(2)
	final = total.Sub(discount).Round(2)
	if final.IsNegative() {
		final = decimal.Zero
	}
	return discount, final
}

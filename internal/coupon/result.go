package coupon

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// 对外展示的校验结果文案
const (
	MsgEnterCode        = "Please enter a coupon code"
	MsgCodeAndTotal     = "Code and cartTotal are required"
	MsgInvalidCode      = "Invalid coupon code"
	MsgNotActive        = "This coupon is not active"
	MsgPaused           = "This coupon is currently paused"
	MsgNotYetValid      = "This coupon is not yet valid"
	MsgExpired          = "This coupon has expired"
	MsgUsageLimit       = "This coupon has reached its usage limit"
	MsgPerUserLimit     = "You have already used this coupon the maximum number of times"
	MsgNotApplicable    = "This coupon is not applicable to items in your cart"
	MsgValidationFailed = "An error occurred while validating the coupon"
)

// Outcome 结果分类，决定边界层的 HTTP 状态码
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeInputError
	OutcomeRejected
	OutcomeInfrastructure
)

// Summary 校验通过时返回的优惠券摘要
type Summary struct {
	ID            uint
	Code          string
	Name          string
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
}

// Result 校验结果
//
// 拒绝时 Discount 为 0，FinalTotal 原样返回购物车金额。
type Result struct {
	Valid      bool
	Discount   decimal.Decimal
	FinalTotal decimal.Decimal
	Error      string
	Coupon     *Summary
	Outcome    Outcome
}

type summaryJSON struct {
	ID            uint         `json:"id"`
	Code          string       `json:"code"`
	Name          string       `json:"name"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
}

type resultJSON struct {
	Valid      bool         `json:"valid"`
	Discount   float64      `json:"discount"`
	FinalTotal float64      `json:"finalTotal"`
	Error      string       `json:"error,omitempty"`
	Coupon     *summaryJSON `json:"coupon,omitempty"`
}

// MarshalJSON 输出线上约定的结构：error 仅在失败时出现，coupon 仅在成功时出现
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Valid:      r.Valid,
		Discount:   r.Discount.Round(2).InexactFloat64(),
		FinalTotal: r.FinalTotal.Round(2).InexactFloat64(),
	}
	if !r.Valid {
		out.Error = r.Error
	}
	if r.Valid && r.Coupon != nil {
		out.Coupon = &summaryJSON{
			ID:            r.Coupon.ID,
			Code:          r.Coupon.Code,
			Name:          r.Coupon.Name,
			DiscountType:  r.Coupon.DiscountType,
			DiscountValue: r.Coupon.DiscountValue.InexactFloat64(),
		}
	}
	return json.Marshal(out)
}

// Rejection 构造业务拒绝结果，用于校验之外的关卡（如下单时的额度预占）
func Rejection(total decimal.Decimal, msg string) Result {
	return rejected(total, msg, OutcomeRejected)
}

func rejected(total decimal.Decimal, msg string, outcome Outcome) Result {
	return Result{
		Valid:      false,
		Discount:   decimal.Zero,
		FinalTotal: total,
		Error:      msg,
		Outcome:    outcome,
	}
}

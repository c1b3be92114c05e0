package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/constants"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/coupon"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/logger"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/queue"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultOrderExpireMinutes = 30
	defaultOrderNoPrefix      = "AC"
	maxOrderItemQuantity      = 99
)

// OrderService 订单服务
type OrderService struct {
	db            *gorm.DB
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	couponRepo    repository.CouponRepository
	usageRepo     repository.CouponUsageRepository
	couponService *CouponService
	queueClient   *queue.Client
	options       OrderOptions
	now           func() time.Time
}

// OrderOptions 订单配置
type OrderOptions struct {
	ExpireMinutes int
	OrderNoPrefix string
	Currency      string
}

// NewOrderService 创建订单服务
func NewOrderService(db *gorm.DB, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, couponRepo repository.CouponRepository, usageRepo repository.CouponUsageRepository, couponService *CouponService, queueClient *queue.Client, options OrderOptions) *OrderService {
	if options.ExpireMinutes <= 0 {
		options.ExpireMinutes = defaultOrderExpireMinutes
	}
	if strings.TrimSpace(options.OrderNoPrefix) == "" {
		options.OrderNoPrefix = defaultOrderNoPrefix
	}
	if strings.TrimSpace(options.Currency) == "" {
		options.Currency = constants.DefaultCurrency
	}
	return &OrderService{
		db:            db,
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		couponRepo:    couponRepo,
		usageRepo:     usageRepo,
		couponService: couponService,
		queueClient:   queueClient,
		options:       options,
		now:           time.Now,
	}
}

// SetClock 替换时钟（测试用）
func (s *OrderService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateOrderItem 下单商品项
type CreateOrderItem struct {
	ProductID uint
	Quantity  int
}

// CustomerInput 收件人信息
type CustomerInput struct {
	Name  string
	Email string
	Phone string
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID          string
	Items           []CreateOrderItem
	CouponCode      string
	Customer        CustomerInput
	ShippingAddress map[string]interface{}
	ClientIP        string
}

// CreateOrder 创建订单
//
// 价格以服务端商品数据为准；使用优惠券时在同一事务内完成终检、额度预占与使用记录写入。
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	items, err := mergeCreateOrderItems(input.Items)
	if err != nil {
		return nil, err
	}
	customer, err := normalizeCustomer(input.Customer)
	if err != nil {
		return nil, err
	}
	userID := strings.TrimSpace(input.UserID)
	code := coupon.Normalize(input.CouponCode)
	now := s.now()
	expiresAt := now.Add(time.Duration(s.options.ExpireMinutes) * time.Minute)
	log := logger.FromContext(ctx)

	var order *models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderItems, cartItems, subtotal, err := s.priceItems(tx, items)
		if err != nil {
			return err
		}

		discount := decimal.Zero
		total := subtotal
		var applied *coupon.Summary
		if code != "" {
			result := s.couponService.validatorInTx(tx).Validate(ctx, coupon.Request{
				Code:      code,
				CartTotal: subtotal,
				UserID:    userID,
				CartItems: cartItems,
			})
			if !result.Valid {
				if result.Outcome == coupon.OutcomeInfrastructure {
					return ErrCouponValidation
				}
				return &CouponRejectedError{Result: result}
			}
			discount, total, applied = result.Discount, result.FinalTotal, result.Coupon
			allocateCouponDiscount(orderItems, discount)
		}

		order = &models.Order{
			OrderNo:         generateOrderNo(s.options.OrderNoPrefix, now),
			UserID:          userID,
			CustomerName:    customer.Name,
			CustomerEmail:   customer.Email,
			CustomerPhone:   customer.Phone,
			ShippingAddress: models.JSON(input.ShippingAddress),
			Status:          constants.OrderStatusPendingPayment,
			Currency:        s.options.Currency,
			OriginalAmount:  models.NewMoneyFromDecimal(subtotal),
			DiscountAmount:  models.NewMoneyFromDecimal(discount),
			TotalAmount:     models.NewMoneyFromDecimal(total),
			ClientIP:        strings.TrimSpace(input.ClientIP),
			ExpiresAt:       &expiresAt,
		}
		if applied != nil {
			couponID := applied.ID
			order.CouponID = &couponID
			order.CouponCode = applied.Code
		}
		if err := s.orderRepo.WithTx(tx).Create(order, orderItems); err != nil {
			return err
		}
		if applied == nil {
			return nil
		}
		return s.redeemCoupon(tx, order, applied.ID)
	})
	if err != nil {
		var rejected *CouponRejectedError
		if errors.As(err, &rejected) {
			log.Infow("order_coupon_rejected", "code", code, "user_id", userID, "reason", err.Error())
		}
		return nil, err
	}

	log.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"total", order.TotalAmount.String(),
		"coupon_code", order.CouponCode,
	)
	if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{
		OrderID: order.ID,
	}, expiresAt.Sub(now)); err != nil {
		log.Errorw("order_enqueue_timeout_cancel_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
	}
	return order, nil
}

// priceItems 锁定库存并按当前售价生成订单项
func (s *OrderService) priceItems(tx *gorm.DB, items []CreateOrderItem) ([]models.OrderItem, []coupon.CartItem, decimal.Decimal, error) {
	productRepo := s.productRepo.WithTx(tx)
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := productRepo.ListByIDs(ids)
	if err != nil {
		return nil, nil, decimal.Zero, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	cartItems := make([]coupon.CartItem, 0, len(items))
	subtotal := decimal.Zero
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok || !product.IsActive || !product.Price.Decimal.IsPositive() {
			return nil, nil, decimal.Zero, ErrProductNotAvailable
		}
		reserved, err := productRepo.ReserveStock(product.ID, item.Quantity)
		if err != nil {
			return nil, nil, decimal.Zero, err
		}
		if !reserved {
			return nil, nil, decimal.Zero, &OutOfStockError{ProductName: product.Name}
		}

		lineTotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		subtotal = subtotal.Add(lineTotal)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:    product.ID,
			CategoryID:   product.CategoryID,
			CollectionID: product.CollectionID,
			ProductName:  product.Name,
			UnitPrice:    product.Price,
			Quantity:     item.Quantity,
			TotalPrice:   models.NewMoneyFromDecimal(lineTotal),
		})
		cartItems = append(cartItems, cartItemFromProduct(product))
	}
	return orderItems, cartItems, subtotal, nil
}

// redeemCoupon 预占额度并写入使用记录，超出每人上限时整单回滚
func (s *OrderService) redeemCoupon(tx *gorm.DB, order *models.Order, couponID uint) error {
	couponRepo := s.couponRepo.WithTx(tx)
	usageRepo := s.usageRepo.WithTx(tx)

	reserved, err := couponRepo.ReserveUsage(couponID)
	if err != nil {
		return err
	}
	if !reserved {
		return &CouponRejectedError{Result: coupon.Rejection(order.OriginalAmount.Decimal, coupon.MsgUsageLimit)}
	}

	usage := &models.CouponUsage{
		CouponID:         couponID,
		OrderID:          order.ID,
		UserID:           order.UserID,
		DiscountAmount:   order.DiscountAmount,
		OrderTotalBefore: order.OriginalAmount,
		OrderTotalAfter:  order.TotalAmount,
	}
	if err := usageRepo.Create(usage); err != nil {
		return err
	}

	if order.UserID == "" {
		return nil
	}
	row, err := couponRepo.GetByID(couponID)
	if err != nil {
		return err
	}
	if row == nil || row.MaxUsesPerUser == nil {
		return nil
	}
	count, err := usageRepo.CountByUser(couponID, order.UserID)
	if err != nil {
		return err
	}
	if count > int64(*row.MaxUsesPerUser) {
		return &CouponRejectedError{Result: coupon.Rejection(order.OriginalAmount.Decimal, coupon.MsgPerUserLimit)}
	}
	return nil
}

func cartItemFromProduct(product models.Product) coupon.CartItem {
	item := coupon.CartItem{
		ProductID:  fmt.Sprintf("%d", product.ID),
		CategoryID: fmt.Sprintf("%d", product.CategoryID),
	}
	if product.CollectionID != nil {
		item.CollectionID = fmt.Sprintf("%d", *product.CollectionID)
	}
	return item
}

// allocateCouponDiscount 按小计比例分摊优惠，尾差计入最后一项
func allocateCouponDiscount(items []models.OrderItem, discount decimal.Decimal) {
	if len(items) == 0 || !discount.IsPositive() {
		return
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice.Decimal)
	}
	if !total.IsPositive() {
		return
	}
	remaining := discount
	for i := range items {
		share := remaining
		if i < len(items)-1 {
			share = discount.Mul(items[i].TotalPrice.Decimal).Div(total).Round(2)
			if share.GreaterThan(remaining) {
				share = remaining
			}
		}
		items[i].CouponDiscount = models.NewMoneyFromDecimal(share)
		remaining = remaining.Sub(share)
	}
}

// mergeCreateOrderItems 合并重复商品的下单项
func mergeCreateOrderItems(items []CreateOrderItem) ([]CreateOrderItem, error) {
	if len(items) == 0 {
		return nil, ErrOrderItemInvalid
	}
	quantities := make(map[uint]int, len(items))
	for _, item := range items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return nil, ErrOrderItemInvalid
		}
		quantities[item.ProductID] += item.Quantity
		if quantities[item.ProductID] > maxOrderItemQuantity {
			return nil, ErrOrderItemInvalid
		}
	}
	merged := make([]CreateOrderItem, 0, len(quantities))
	for productID, quantity := range quantities {
		merged = append(merged, CreateOrderItem{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged, nil
}

func normalizeCustomer(input CustomerInput) (CustomerInput, error) {
	customer := CustomerInput{
		Name:  strings.TrimSpace(input.Name),
		Email: strings.ToLower(strings.TrimSpace(input.Email)),
		Phone: strings.TrimSpace(input.Phone),
	}
	if customer.Name == "" || customer.Email == "" || customer.Phone == "" {
		return customer, ErrOrderCustomerInvalid
	}
	if _, err := mail.ParseAddress(customer.Email); err != nil {
		return customer, ErrOrderCustomerInvalid
	}
	return customer, nil
}

func generateOrderNo(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%s%s", prefix, now.Format("20060102150405"), randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/constants"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/logger"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/payment/razorpay"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentService 支付服务
type PaymentService struct {
	db           *gorm.DB
	paymentRepo  repository.PaymentRepository
	channelRepo  repository.PaymentChannelRepository
	orderService *OrderService
}

// NewPaymentService 创建支付服务
func NewPaymentService(db *gorm.DB, paymentRepo repository.PaymentRepository, channelRepo repository.PaymentChannelRepository, orderService *OrderService) *PaymentService {
	return &PaymentService{
		db:           db,
		paymentRepo:  paymentRepo,
		channelRepo:  channelRepo,
		orderService: orderService,
	}
}

// PaymentChannelInput 创建/更新支付渠道输入
type PaymentChannelInput struct {
	Name         string
	ProviderType string
	Config       map[string]interface{}
	IsActive     *bool
	SortOrder    int
}

// PublicPaymentChannel 前台可见的渠道信息，不含密钥
type PublicPaymentChannel struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	ProviderType string `json:"provider_type"`
	KeyID        string `json:"key_id,omitempty"`
}

// CreatePaymentInput 发起支付输入
type CreatePaymentInput struct {
	OrderNo   string
	ChannelID uint
	UserID    string
}

// PaymentCheckout 前端唤起 Checkout 所需参数
type PaymentCheckout struct {
	PaymentID      uint   `json:"payment_id"`
	OrderNo        string `json:"order_no"`
	ProviderType   string `json:"provider_type"`
	KeyID          string `json:"key_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Paid           bool   `json:"paid"` // 零元订单直接完成，无需唤起 Checkout
}

// VerifyPaymentInput Checkout 回传的支付结果
type VerifyPaymentInput struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

// CreateChannel 创建支付渠道
func (s *PaymentService) CreateChannel(input PaymentChannelInput) (*models.PaymentChannel, error) {
	channel := &models.PaymentChannel{IsActive: true}
	if err := applyChannelInput(channel, input); err != nil {
		return nil, err
	}
	if err := s.channelRepo.Create(channel); err != nil {
		return nil, err
	}
	return channel, nil
}

// UpdateChannel 更新支付渠道
func (s *PaymentService) UpdateChannel(id uint, input PaymentChannelInput) (*models.PaymentChannel, error) {
	channel, err := s.GetChannel(id)
	if err != nil {
		return nil, err
	}
	if err := applyChannelInput(channel, input); err != nil {
		return nil, err
	}
	if err := s.channelRepo.Update(channel); err != nil {
		return nil, err
	}
	return channel, nil
}

// DeleteChannel 删除支付渠道
func (s *PaymentService) DeleteChannel(id uint) error {
	if _, err := s.GetChannel(id); err != nil {
		return err
	}
	return s.channelRepo.Delete(id)
}

// GetChannel 获取支付渠道
func (s *PaymentService) GetChannel(id uint) (*models.PaymentChannel, error) {
	if id == 0 {
		return nil, ErrPaymentChannelNotFound
	}
	channel, err := s.channelRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, ErrPaymentChannelNotFound
	}
	return channel, nil
}

// ListChannels 后台渠道列表
func (s *PaymentService) ListChannels(filter repository.PaymentChannelListFilter) ([]models.PaymentChannel, int64, error) {
	return s.channelRepo.List(filter)
}

// ListPublicChannels 前台可用渠道
func (s *PaymentService) ListPublicChannels() ([]PublicPaymentChannel, error) {
	channels, _, err := s.channelRepo.List(repository.PaymentChannelListFilter{Page: 1, PageSize: 50, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	result := make([]PublicPaymentChannel, 0, len(channels))
	for _, channel := range channels {
		item := PublicPaymentChannel{ID: channel.ID, Name: channel.Name, ProviderType: channel.ProviderType}
		if channel.ProviderType == constants.PaymentProviderRazorpay {
			if cfg, err := razorpay.ParseConfig(channel.ConfigJSON); err == nil {
				item.KeyID = cfg.KeyID
			}
		}
		result = append(result, item)
	}
	return result, nil
}

// ListPayments 后台支付记录
func (s *PaymentService) ListPayments(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.paymentRepo.ListAdmin(filter)
}

// CreatePayment 为待支付订单创建网关订单，金额为优惠后的实付金额
func (s *PaymentService) CreatePayment(ctx context.Context, input CreatePaymentInput) (*PaymentCheckout, error) {
	order, err := s.orderService.GetOrderByNo(ctx, input.OrderNo, input.UserID)
	if err != nil {
		return nil, err
	}
	if order.Status != constants.OrderStatusPendingPayment {
		return nil, ErrOrderNotPayable
	}
	if !order.TotalAmount.Decimal.GreaterThan(decimal.Zero) {
		return s.settleZeroAmount(ctx, order)
	}
	channel, err := s.GetChannel(input.ChannelID)
	if err != nil {
		return nil, err
	}
	if !channel.IsActive {
		return nil, ErrPaymentChannelNotFound
	}
	if channel.ProviderType != constants.PaymentProviderRazorpay {
		return nil, ErrPaymentProviderNotSupported
	}
	cfg, err := razorpay.ParseConfig(channel.ConfigJSON)
	if err != nil {
		return nil, ErrPaymentChannelInvalid
	}

	receipt := uuid.NewString()
	created, err := razorpay.CreateOrder(ctx, cfg, razorpay.CreateInput{
		Receipt:  receipt,
		Amount:   order.TotalAmount.String(),
		Currency: order.Currency,
		Notes: map[string]string{
			"order_no": order.OrderNo,
		},
	})
	if err != nil {
		logger.FromContext(ctx).Errorw("payment_gateway_create_failed",
			"order_no", order.OrderNo,
			"channel_id", channel.ID,
			"error", err,
		)
		if errors.Is(err, razorpay.ErrConfigInvalid) {
			return nil, ErrPaymentChannelInvalid
		}
		return nil, ErrPaymentGatewayFailed
	}

	payment := &models.Payment{
		OrderID:         order.ID,
		ChannelID:       channel.ID,
		ProviderType:    channel.ProviderType,
		Amount:          order.TotalAmount,
		Currency:        order.Currency,
		Receipt:         receipt,
		Status:          constants.PaymentStatusCreated,
		ProviderRef:     created.OrderID,
		ProviderPayload: models.JSON(created.Raw),
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Infow("payment_created",
		"payment_id", payment.ID,
		"order_no", order.OrderNo,
		"gateway_order_id", created.OrderID,
		"amount", payment.Amount.String(),
	)
	return &PaymentCheckout{
		PaymentID:      payment.ID,
		OrderNo:        order.OrderNo,
		ProviderType:   channel.ProviderType,
		KeyID:          cfg.KeyID,
		GatewayOrderID: created.OrderID,
		Amount:         created.Amount,
		Currency:       order.Currency,
	}, nil
}

// settleZeroAmount 券后实付为零的订单不调用网关，直接记一笔成功支付并置为已支付
func (s *PaymentService) settleZeroAmount(ctx context.Context, order *models.Order) (*PaymentCheckout, error) {
	now := s.orderService.now()
	payment := &models.Payment{
		OrderID:      order.ID,
		ProviderType: constants.PaymentProviderNone,
		Amount:       models.NewMoneyFromDecimal(decimal.Zero),
		Currency:     order.Currency,
		Receipt:      uuid.NewString(),
		Status:       constants.PaymentStatusSuccess,
		PaidAt:       &now,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		paid, err := s.orderService.markPaidTx(tx, order.ID, now)
		if err != nil {
			return err
		}
		if !paid {
			return ErrOrderNotPayable
		}
		return s.paymentRepo.WithTx(tx).Create(payment)
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Infow("payment_zero_amount_settled",
		"payment_id", payment.ID,
		"order_no", order.OrderNo,
	)
	return &PaymentCheckout{
		PaymentID:    payment.ID,
		OrderNo:      order.OrderNo,
		ProviderType: payment.ProviderType,
		Currency:     order.Currency,
		Paid:         true,
	}, nil
}

// VerifyPayment 校验 Checkout 签名并将支付与订单置为成功
func (s *PaymentService) VerifyPayment(ctx context.Context, input VerifyPaymentInput) (*models.Payment, error) {
	gatewayOrderID := strings.TrimSpace(input.GatewayOrderID)
	payment, err := s.paymentRepo.GetByProviderRef(gatewayOrderID)
	if err != nil {
		return nil, err
	}
	if payment == nil || gatewayOrderID == "" {
		return nil, ErrPaymentNotFound
	}
	if payment.Status == constants.PaymentStatusSuccess {
		return payment, nil
	}
	channel, err := s.GetChannel(payment.ChannelID)
	if err != nil {
		return nil, err
	}
	cfg, err := razorpay.ParseConfig(channel.ConfigJSON)
	if err != nil {
		return nil, ErrPaymentChannelInvalid
	}
	log := logger.FromContext(ctx)
	if err := razorpay.VerifyPaymentSignature(cfg, gatewayOrderID, input.GatewayPaymentID, input.Signature); err != nil {
		log.Warnw("payment_signature_invalid", "payment_id", payment.ID, "gateway_order_id", gatewayOrderID)
		return nil, ErrPaymentSignatureInvalid
	}

	now := s.orderService.now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		paid, err := s.orderService.markPaidTx(tx, payment.OrderID, now)
		if err != nil {
			return err
		}
		if !paid {
			return ErrOrderNotPayable
		}
		payment.Status = constants.PaymentStatusSuccess
		payment.ProviderPaymentID = strings.TrimSpace(input.GatewayPaymentID)
		payment.PaidAt = &now
		return s.paymentRepo.WithTx(tx).Update(payment)
	})
	if err != nil {
		if errors.Is(err, ErrOrderNotPayable) {
			log.Warnw("payment_captured_for_closed_order",
				"payment_id", payment.ID,
				"order_id", payment.OrderID,
				"gateway_payment_id", input.GatewayPaymentID,
			)
		}
		return nil, err
	}
	log.Infow("payment_succeeded",
		"payment_id", payment.ID,
		"order_id", payment.OrderID,
		"gateway_payment_id", payment.ProviderPaymentID,
	)
	return payment, nil
}

func applyChannelInput(channel *models.PaymentChannel, input PaymentChannelInput) error {
	name := strings.TrimSpace(input.Name)
	provider := strings.ToLower(strings.TrimSpace(input.ProviderType))
	if name == "" {
		return ErrPaymentChannelInvalid
	}
	switch provider {
	case constants.PaymentProviderRazorpay:
		cfg, err := razorpay.ParseConfig(input.Config)
		if err != nil {
			return ErrPaymentChannelInvalid
		}
		if err := razorpay.ValidateConfig(cfg); err != nil {
			return ErrPaymentChannelInvalid
		}
	case constants.PaymentProviderZwitch:
		if input.Config == nil || strings.TrimSpace(stringValue(input.Config["access_key"])) == "" {
			return ErrPaymentChannelInvalid
		}
	default:
		return ErrPaymentProviderNotSupported
	}
	channel.Name = name
	channel.ProviderType = provider
	channel.ConfigJSON = models.JSON(input.Config)
	channel.SortOrder = input.SortOrder
	if input.IsActive != nil {
		channel.IsActive = *input.IsActive
	}
	return nil
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

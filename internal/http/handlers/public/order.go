package public

import (
	handlershared "github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/handlers/shared"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// OrderCustomerRequest 收货人信息
type OrderCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" binding:"required"`
	CouponCode      string                 `json:"coupon_code"`
	UserID          string                 `json:"user_id"`
	Customer        OrderCustomerRequest   `json:"customer"`
	ShippingAddress map[string]interface{} `json:"shipping_address"`
}

// CreateOrder 创建订单，游客与登录顾客均可下单
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items := make([]service.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	userID := req.UserID
	if shopperID := handlershared.ShopperID(c); shopperID != "" {
		userID = shopperID
	}

	order, err := h.OrderService.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		UserID:     userID,
		Items:      items,
		CouponCode: req.CouponCode,
		Customer: service.CustomerInput{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		ShippingAddress: req.ShippingAddress,
		ClientIP:        c.ClientIP(),
	})
	if err != nil {
		respondOrderCreateError(c, err)
		return
	}

	response.Success(c, order)
}

// GetOrder 按订单号获取订单
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.OrderService.GetOrderByNo(c.Request.Context(), c.Param("order_no"), handlershared.ShopperID(c))
	if err != nil {
		respondMapped(c, err, orderErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// ListOrders 获取当前顾客的订单
func (h *Handler) ListOrders(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	orders, total, err := h.OrderService.ListUserOrders(c.Request.Context(), handlershared.ShopperID(c), c.Query("status"), page, pageSize)
	if err != nil {
		respondMapped(c, err, orderErrorRules, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	pageResult(c, orders, page, pageSize, total)
}

// CancelOrder 取消未支付订单
func (h *Handler) CancelOrder(c *gin.Context) {
	order, err := h.OrderService.CancelOrder(c.Request.Context(), c.Param("order_no"), handlershared.ShopperID(c))
	if err != nil {
		respondMapped(c, err, orderErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, order)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/constants"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/coupon"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/queue"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type orderFixture struct {
	db         *gorm.DB
	service    *OrderService
	coupons    *CouponService
	ring       models.Product
	necklace   models.Product
	rings      models.Category
	necklaces  models.Category
	bridal     models.Collection
	couponRepo *repository.GormCouponRepository
	usageRepo  *repository.GormCouponUsageRepository
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	db := openServiceTestDB(t)

	rings := models.Category{Slug: "rings", Name: "Rings", IsActive: true}
	necklaces := models.Category{Slug: "necklaces", Name: "Necklaces", IsActive: true}
	if err := db.Create(&rings).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	if err := db.Create(&necklaces).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	bridal := models.Collection{Slug: "bridal", Name: "Bridal", IsActive: true}
	if err := db.Create(&bridal).Error; err != nil {
		t.Fatalf("create collection failed: %v", err)
	}
	ring := models.Product{
		CategoryID:    rings.ID,
		CollectionID:  &bridal.ID,
		Slug:          "solitaire-ring",
		Name:          "Solitaire Ring",
		Price:         models.NewMoney("300.00"),
		StockQuantity: 5,
		IsActive:      true,
	}
	necklace := models.Product{
		CategoryID:    necklaces.ID,
		Slug:          "pearl-necklace",
		Name:          "Pearl Necklace",
		Price:         models.NewMoney("200.00"),
		StockQuantity: 2,
		IsActive:      true,
	}
	if err := db.Create(&ring).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if err := db.Create(&necklace).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	couponRepo := repository.NewCouponRepository(db)
	usageRepo := repository.NewCouponUsageRepository(db)
	couponService := NewCouponService(couponRepo, usageRepo, nil, time.Minute, "₹")
	couponService.SetClock(func() time.Time { return testNow })
	orderService := NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		couponRepo,
		usageRepo,
		couponService,
		queue.NewClient(nil),
		OrderOptions{ExpireMinutes: 30},
	)
	orderService.SetClock(func() time.Time { return testNow })

	return &orderFixture{
		db:         db,
		service:    orderService,
		coupons:    couponService,
		ring:       ring,
		necklace:   necklace,
		rings:      rings,
		necklaces:  necklaces,
		bridal:     bridal,
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
	}
}

func (f *orderFixture) createCoupon(t *testing.T, row models.Coupon) models.Coupon {
	t.Helper()
	if row.ValidFrom.IsZero() {
		row.ValidFrom = testNow.Add(-24 * time.Hour)
	}
	if row.ValidUntil.IsZero() {
		row.ValidUntil = testNow.Add(24 * time.Hour)
	}
	if row.Name == "" {
		row.Name = row.Code
	}
	if row.ApplicableTo == "" {
		row.ApplicableTo = constants.CouponScopeAll
	}
	row.IsActive = true
	if err := f.db.Create(&row).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return row
}

func (f *orderFixture) placeOrder(userID, code string, items ...CreateOrderItem) (*models.Order, error) {
	return f.service.CreateOrder(context.Background(), CreateOrderInput{
		UserID:     userID,
		Items:      items,
		CouponCode: code,
		Customer: CustomerInput{
			Name:  "Asha Rao",
			Email: "Asha@Example.com",
			Phone: "+91 98450 00000",
		},
		ShippingAddress: map[string]interface{}{"city": "Bengaluru"},
	})
}

func (f *orderFixture) usedCount(t *testing.T, id uint) int {
	t.Helper()
	row, err := f.couponRepo.GetByID(id)
	if err != nil || row == nil {
		t.Fatalf("load coupon failed: %v", err)
	}
	return row.UsedCount
}

func (f *orderFixture) stock(t *testing.T, id uint) int {
	t.Helper()
	var product models.Product
	if err := f.db.First(&product, id).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	return product.StockQuantity
}

func intPtr(v int) *int { return &v }

func TestMergeCreateOrderItems(t *testing.T) {
	merged, err := mergeCreateOrderItems([]CreateOrderItem{
		{ProductID: 2, Quantity: 1},
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 3},
	})
	if err != nil {
		t.Fatalf("mergeCreateOrderItems error: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 items, got %d", len(merged))
	}
	if merged[0].ProductID != 1 || merged[0].Quantity != 2 {
		t.Fatalf("unexpected first item: %+v", merged[0])
	}
	if merged[1].ProductID != 2 || merged[1].Quantity != 4 {
		t.Fatalf("unexpected second item: %+v", merged[1])
	}
}

func TestMergeCreateOrderItemsRejectsInvalid(t *testing.T) {
	cases := [][]CreateOrderItem{
		nil,
		{{ProductID: 0, Quantity: 1}},
		{{ProductID: 1, Quantity: 0}},
		{{ProductID: 1, Quantity: 60}, {ProductID: 1, Quantity: 40}},
	}
	for i, items := range cases {
		if _, err := mergeCreateOrderItems(items); !errors.Is(err, ErrOrderItemInvalid) {
			t.Fatalf("case %d: expected ErrOrderItemInvalid, got %v", i, err)
		}
	}
}

func TestAllocateCouponDiscount(t *testing.T) {
	items := []models.OrderItem{
		{ProductID: 1, TotalPrice: models.NewMoney("100.00")},
		{ProductID: 2, TotalPrice: models.NewMoney("50.00")},
		{ProductID: 3, TotalPrice: models.NewMoney("50.00")},
	}
	allocateCouponDiscount(items, decimal.RequireFromString("10.01"))

	want := []string{"5.01", "2.50", "2.50"}
	sum := decimal.Zero
	for i, item := range items {
		sum = sum.Add(item.CouponDiscount.Decimal)
		if item.CouponDiscount.String() != want[i] {
			t.Fatalf("item %d: expected %s, got %s", i, want[i], item.CouponDiscount.String())
		}
	}
	if !sum.Equal(decimal.RequireFromString("10.01")) {
		t.Fatalf("allocated discount should sum to 10.01, got %s", sum.String())
	}
}

func TestNormalizeCustomer(t *testing.T) {
	customer, err := normalizeCustomer(CustomerInput{Name: " Asha ", Email: " Asha@Example.COM ", Phone: " 98450 "})
	if err != nil {
		t.Fatalf("normalizeCustomer error: %v", err)
	}
	if customer.Email != "asha@example.com" || customer.Name != "Asha" || customer.Phone != "98450" {
		t.Fatalf("unexpected customer: %+v", customer)
	}
	if _, err := normalizeCustomer(CustomerInput{Name: "Asha", Email: "not-an-email", Phone: "1"}); !errors.Is(err, ErrOrderCustomerInvalid) {
		t.Fatalf("expected ErrOrderCustomerInvalid, got %v", err)
	}
}

func TestCreateOrderWithoutCoupon(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.placeOrder("", "", CreateOrderItem{ProductID: f.ring.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPendingPayment {
		t.Fatalf("expected pending payment, got %s", order.Status)
	}
	if order.TotalAmount.String() != "600.00" || order.DiscountAmount.String() != "0.00" {
		t.Fatalf("unexpected amounts: total=%s discount=%s", order.TotalAmount.String(), order.DiscountAmount.String())
	}
	if order.ExpiresAt == nil || !order.ExpiresAt.Equal(testNow.Add(30*time.Minute)) {
		t.Fatalf("unexpected expires_at: %v", order.ExpiresAt)
	}
	if order.CustomerEmail != "asha@example.com" {
		t.Fatalf("expected normalized email, got %s", order.CustomerEmail)
	}
	if got := f.stock(t, f.ring.ID); got != 3 {
		t.Fatalf("expected stock 3 after reservation, got %d", got)
	}
}

func TestCreateOrderAppliesCouponAndRecordsUsage(t *testing.T) {
	f := newOrderFixture(t)
	row := f.createCoupon(t, models.Coupon{
		Code:               "SAVE10",
		DiscountType:       constants.CouponTypePercentage,
		DiscountValue:      models.NewMoney("10"),
		MinimumOrderAmount: models.MoneyPtr(models.NewMoney("200")),
	})

	order, err := f.placeOrder("user-1", " save10 ",
		CreateOrderItem{ProductID: f.ring.ID, Quantity: 1},
		CreateOrderItem{ProductID: f.necklace.ID, Quantity: 1},
	)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.OriginalAmount.String() != "500.00" || order.DiscountAmount.String() != "50.00" || order.TotalAmount.String() != "450.00" {
		t.Fatalf("unexpected amounts: %s - %s = %s", order.OriginalAmount.String(), order.DiscountAmount.String(), order.TotalAmount.String())
	}
	if order.CouponID == nil || *order.CouponID != row.ID || order.CouponCode != "SAVE10" {
		t.Fatalf("unexpected coupon snapshot: %+v %s", order.CouponID, order.CouponCode)
	}
	if got := f.usedCount(t, row.ID); got != 1 {
		t.Fatalf("expected used_count 1, got %d", got)
	}
	usage, err := f.usageRepo.GetByOrderID(order.ID)
	if err != nil || usage == nil {
		t.Fatalf("expected usage record, got %v %v", usage, err)
	}
	if usage.UserID != "user-1" || usage.DiscountAmount.String() != "50.00" || usage.OrderTotalAfter.String() != "450.00" {
		t.Fatalf("unexpected usage: %+v", usage)
	}

	var items []models.OrderItem
	if err := f.db.Where("order_id = ?", order.ID).Order("product_id asc").Find(&items).Error; err != nil {
		t.Fatalf("load items failed: %v", err)
	}
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.CouponDiscount.Decimal)
	}
	if !sum.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("item discounts should sum to 50, got %s", sum.String())
	}
}

func TestCreateOrderRejectedCouponRollsBack(t *testing.T) {
	f := newOrderFixture(t)
	f.createCoupon(t, models.Coupon{
		Code:               "FLAT100",
		DiscountType:       constants.CouponTypeFixedAmount,
		DiscountValue:      models.NewMoney("100"),
		MinimumOrderAmount: models.MoneyPtr(models.NewMoney("1000")),
	})

	_, err := f.placeOrder("", "FLAT100", CreateOrderItem{ProductID: f.necklace.ID, Quantity: 1})
	var rejected *CouponRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected CouponRejectedError, got %v", err)
	}
	if rejected.Result.Error != "Minimum order amount of ₹1000 required" {
		t.Fatalf("unexpected rejection message: %s", rejected.Result.Error)
	}
	if !errors.Is(err, ErrCouponRejected) {
		t.Fatalf("expected errors.Is ErrCouponRejected")
	}
	if got := f.stock(t, f.necklace.ID); got != 2 {
		t.Fatalf("stock must be restored by rollback, got %d", got)
	}
	var orders int64
	f.db.Model(&models.Order{}).Count(&orders)
	if orders != 0 {
		t.Fatalf("expected no orders, got %d", orders)
	}
}

func TestCreateOrderEnforcesMaxUses(t *testing.T) {
	f := newOrderFixture(t)
	row := f.createCoupon(t, models.Coupon{
		Code:          "ONCE",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: models.NewMoney("20"),
		MaxUses:       intPtr(1),
	})

	if _, err := f.placeOrder("", "ONCE", CreateOrderItem{ProductID: f.ring.ID, Quantity: 1}); err != nil {
		t.Fatalf("first order failed: %v", err)
	}
	_, err := f.placeOrder("", "ONCE", CreateOrderItem{ProductID: f.ring.ID, Quantity: 1})
	var rejected *CouponRejectedError
	if !errors.As(err, &rejected) || rejected.Result.Error != coupon.MsgUsageLimit {
		t.Fatalf("expected usage limit rejection, got %v", err)
	}
	if got := f.usedCount(t, row.ID); got != 1 {
		t.Fatalf("expected used_count to stay 1, got %d", got)
	}
}

func TestRedeemCouponReservationGuardsRace(t *testing.T) {
	f := newOrderFixture(t)
	row := f.createCoupon(t, models.Coupon{
		Code:          "LAST",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: models.NewMoney("20"),
		MaxUses:       intPtr(1),
	})
	// 模拟并发：校验通过后另一笔订单已抢先占用额度
	if err := f.db.Model(&models.Coupon{}).Where("id = ?", row.ID).Update("used_count", 1).Error; err != nil {
		t.Fatalf("update used_count failed: %v", err)
	}
	order := &models.Order{ID: 99, OriginalAmount: models.NewMoney("300"), TotalAmount: models.NewMoney("280")}
	err := f.db.Transaction(func(tx *gorm.DB) error {
		return f.service.redeemCoupon(tx, order, row.ID)
	})
	var rejected *CouponRejectedError
	if !errors.As(err, &rejected) || rejected.Result.Error != coupon.MsgUsageLimit {
		t.Fatalf("expected usage limit rejection, got %v", err)
	}
	if rejected.Result.FinalTotal.String() != "300" {
		t.Fatalf("rejection should echo the original total, got %s", rejected.Result.FinalTotal.String())
	}
	count, err := f.usageRepo.CountByCoupon(row.ID)
	if err != nil || count != 0 {
		t.Fatalf("expected no usage rows, got %d %v", count, err)
	}
}

func TestCreateOrderEnforcesPerUserLimit(t *testing.T) {
	f := newOrderFixture(t)
	row := f.createCoupon(t, models.Coupon{
		Code:           "WELCOME",
		DiscountType:   constants.CouponTypePercentage,
		DiscountValue:  models.NewMoney("5"),
		MaxUsesPerUser: intPtr(1),
	})

	if _, err := f.placeOrder("user-1", "WELCOME", CreateOrderItem{ProductID: f.ring.ID, Quantity: 1}); err != nil {
		t.Fatalf("first order failed: %v", err)
	}
	_, err := f.placeOrder("user-1", "WELCOME", CreateOrderItem{ProductID: f.ring.ID, Quantity: 1})
	var rejected *CouponRejectedError
	if !errors.As(err, &rejected) || rejected.Result.Error != coupon.MsgPerUserLimit {
		t.Fatalf("expected per-user rejection, got %v", err)
	}
	if _, err := f.placeOrder("user-2", "WELCOME", CreateOrderItem{ProductID: f.ring.ID, Quantity: 1}); err != nil {
		t.Fatalf("other user should redeem: %v", err)
	}
	if got := f.usedCount(t, row.ID); got != 2 {
		t.Fatalf("expected used_count 2, got %d", got)
	}
}

func TestCreateOrderEnforcesApplicability(t *testing.T) {
	f := newOrderFixture(t)
	f.createCoupon(t, models.Coupon{
		Code:          "BRIDAL",
		DiscountType:  constants.CouponTypePercentage,
		DiscountValue: models.NewMoney("15"),
		ApplicableTo:  constants.CouponScopeCollections,
		ApplicableIDs: models.StringArray{fmt.Sprintf("%d", f.bridal.ID)},
	})

	_, err := f.placeOrder("", "BRIDAL", CreateOrderItem{ProductID: f.necklace.ID, Quantity: 1})
	var rejected *CouponRejectedError
	if !errors.As(err, &rejected) || rejected.Result.Error != coupon.MsgNotApplicable {
		t.Fatalf("expected not applicable rejection, got %v", err)
	}
	order, err := f.placeOrder("", "BRIDAL", CreateOrderItem{ProductID: f.ring.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("collection coupon should apply to ring: %v", err)
	}
	if order.DiscountAmount.String() != "45.00" {
		t.Fatalf("expected discount 45.00, got %s", order.DiscountAmount.String())
	}
}

func TestCreateOrderOutOfStock(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.placeOrder("", "", CreateOrderItem{ProductID: f.necklace.ID, Quantity: 3})
	var outOfStock *OutOfStockError
	if !errors.As(err, &outOfStock) || outOfStock.ProductName != "Pearl Necklace" {
		t.Fatalf("expected OutOfStockError, got %v", err)
	}
	if !errors.Is(err, ErrProductOutOfStock) {
		t.Fatalf("expected errors.Is ErrProductOutOfStock")
	}
}

func TestCancelOrderReleasesCouponAndStock(t *testing.T) {
	f := newOrderFixture(t)
	row := f.createCoupon(t, models.Coupon{
		Code:          "ONCE",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: models.NewMoney("20"),
		MaxUses:       intPtr(1),
	})
	order, err := f.placeOrder("user-1", "ONCE", CreateOrderItem{ProductID: f.ring.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := f.service.CancelOrder(context.Background(), order.OrderNo, "someone-else"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign user, got %v", err)
	}
	canceled, err := f.service.CancelOrder(context.Background(), order.OrderNo, "user-1")
	if err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}
	if canceled.Status != constants.OrderStatusCanceled || canceled.CanceledAt == nil {
		t.Fatalf("unexpected canceled order: %+v", canceled)
	}
	if got := f.usedCount(t, row.ID); got != 0 {
		t.Fatalf("expected used_count released to 0, got %d", got)
	}
	if usage, _ := f.usageRepo.GetByOrderID(order.ID); usage != nil {
		t.Fatalf("expected usage record deleted, got %+v", usage)
	}
	if got := f.stock(t, f.ring.ID); got != 5 {
		t.Fatalf("expected stock restored to 5, got %d", got)
	}
	if _, err := f.service.CancelOrder(context.Background(), order.OrderNo, "user-1"); !errors.Is(err, ErrOrderNotCancelable) {
		t.Fatalf("expected ErrOrderNotCancelable on second cancel, got %v", err)
	}

	// 释放后额度可被再次使用
	if _, err := f.placeOrder("user-2", "ONCE", CreateOrderItem{ProductID: f.ring.ID, Quantity: 1}); err != nil {
		t.Fatalf("released coupon should be redeemable: %v", err)
	}
}

func TestCancelExpiredOrder(t *testing.T) {
	f := newOrderFixture(t)
	row := f.createCoupon(t, models.Coupon{
		Code:          "SAVE10",
		DiscountType:  constants.CouponTypePercentage,
		DiscountValue: models.NewMoney("10"),
	})
	order, err := f.placeOrder("", "SAVE10", CreateOrderItem{ProductID: f.ring.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := f.service.CancelExpiredOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("cancel expired order failed: %v", err)
	}
	current, _ := f.service.reload(order.ID)
	if current.Status != constants.OrderStatusPendingPayment {
		t.Fatalf("order within payment window must stay pending, got %s", current.Status)
	}

	f.service.SetClock(func() time.Time { return testNow.Add(31 * time.Minute) })
	if err := f.service.CancelExpiredOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("cancel expired order failed: %v", err)
	}
	current, _ = f.service.reload(order.ID)
	if current.Status != constants.OrderStatusCanceled {
		t.Fatalf("expected canceled, got %s", current.Status)
	}
	if got := f.usedCount(t, row.ID); got != 0 {
		t.Fatalf("expected used_count 0, got %d", got)
	}
	if err := f.service.CancelExpiredOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("repeated timeout task must be a no-op: %v", err)
	}
}

func TestSweepAndLazyExpiry(t *testing.T) {
	f := newOrderFixture(t)
	first, err := f.placeOrder("user-1", "", CreateOrderItem{ProductID: f.ring.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	second, err := f.placeOrder("user-1", "", CreateOrderItem{ProductID: f.necklace.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	f.service.SetClock(func() time.Time { return testNow.Add(time.Hour) })
	got, err := f.service.GetOrderByNo(context.Background(), first.OrderNo, "user-1")
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got.Status != constants.OrderStatusCanceled {
		t.Fatalf("expected lazily canceled order, got %s", got.Status)
	}

	canceled, err := f.service.SweepExpiredOrders(context.Background(), 100)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if canceled != 1 {
		t.Fatalf("expected sweep to cancel 1 order, got %d", canceled)
	}
	current, _ := f.service.reload(second.ID)
	if current.Status != constants.OrderStatusCanceled {
		t.Fatalf("expected second order canceled, got %s", current.Status)
	}
	if stock := f.stock(t, f.necklace.ID); stock != 2 {
		t.Fatalf("expected necklace stock restored, got %d", stock)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newOrderFixture(t)
	order, err := f.placeOrder("", "", CreateOrderItem{ProductID: f.ring.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	ctx := context.Background()

	if _, err := f.service.UpdateStatus(ctx, order.ID, constants.OrderStatusShipped); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	paid, err := f.service.UpdateStatus(ctx, order.ID, constants.OrderStatusPaid)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if paid.PaidAt == nil {
		t.Fatalf("expected paid_at to be set")
	}
	for _, status := range []string{constants.OrderStatusProcessing, constants.OrderStatusShipped, constants.OrderStatusDelivered} {
		updated, err := f.service.UpdateStatus(ctx, order.ID, status)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("expected %s, got %s", status, updated.Status)
		}
	}
	if _, err := f.service.UpdateStatus(ctx, order.ID, constants.OrderStatusCanceled); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("delivered order must not cancel, got %v", err)
	}
}

func TestCouponServiceAdvisoryVersusAuthoritative(t *testing.T) {
	f := newOrderFixture(t)
	f.createCoupon(t, models.Coupon{
		Code:          "ONCE",
		DiscountType:  constants.CouponTypeFixedAmount,
		DiscountValue: models.NewMoney("20"),
		MaxUses:       intPtr(1),
	})
	if _, err := f.placeOrder("", "ONCE", CreateOrderItem{ProductID: f.ring.ID, Quantity: 1}); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	req := coupon.Request{Code: "once", CartTotal: decimal.NewFromInt(300)}
	advisory := f.coupons.Check(context.Background(), req)
	if !advisory.Valid || !advisory.Discount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("advisory check should ignore usage limits, got %+v", advisory)
	}
	authoritative := f.coupons.Validate(context.Background(), req)
	if authoritative.Valid || authoritative.Error != coupon.MsgUsageLimit {
		t.Fatalf("authoritative validation should enforce usage limit, got %+v", authoritative)
	}

	unknown := f.coupons.Validate(context.Background(), coupon.Request{Code: "NOPE", CartTotal: decimal.NewFromInt(300)})
	if unknown.Valid || unknown.Error != coupon.MsgInvalidCode || !unknown.FinalTotal.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected unknown code result: %+v", unknown)
	}
}

func TestGenerateOrderNo(t *testing.T) {
	no := generateOrderNo("AC", testNow)
	if len(no) != len("AC")+14+6 {
		t.Fatalf("unexpected order no length: %s", no)
	}
	if no[:16] != "AC20260315120000" {
		t.Fatalf("unexpected order no prefix: %s", no)
	}
}

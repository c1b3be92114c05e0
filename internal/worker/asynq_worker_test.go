package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/constants"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/provider"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/queue"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func newWorkerTestConsumer(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	couponRepo := repository.NewCouponRepository(db)
	usageRepo := repository.NewCouponUsageRepository(db)
	orderService := service.NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		couponRepo,
		usageRepo,
		service.NewCouponService(couponRepo, usageRepo, nil, 0, ""),
		queue.NewClient(nil),
		service.OrderOptions{},
	)
	return NewConsumer(&provider.Container{OrderService: orderService}), db
}

func seedPendingOrder(t *testing.T, db *gorm.DB, orderNo string, expiresAt time.Time) (models.Order, models.Product) {
	t.Helper()
	category := models.Category{Slug: "bangles-" + orderNo, Name: "Bangles", IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product := models.Product{
		CategoryID:    category.ID,
		Slug:          "kada-" + orderNo,
		Name:          "Gold Kada",
		Price:         models.NewMoney("150.00"),
		StockQuantity: 1,
		IsActive:      true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	order := models.Order{
		OrderNo:        orderNo,
		CustomerName:   "Asha",
		Status:         constants.OrderStatusPendingPayment,
		Currency:       "INR",
		OriginalAmount: models.NewMoney("300.00"),
		TotalAmount:    models.NewMoney("300.00"),
		ExpiresAt:      &expiresAt,
		Items: []models.OrderItem{{
			ProductID:   product.ID,
			CategoryID:  category.ID,
			ProductName: product.Name,
			UnitPrice:   models.NewMoney("150.00"),
			Quantity:    2,
			TotalPrice:  models.NewMoney("300.00"),
		}},
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order, product
}

func timeoutTask(t *testing.T, orderID uint) *asynq.Task {
	t.Helper()
	task, err := queue.NewOrderTimeoutCancelTask(queue.OrderTimeoutCancelPayload{OrderID: orderID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	return task
}

func TestHandleOrderTimeoutCancelSkipsInvalidPayload(t *testing.T) {
	consumer, _ := newWorkerTestConsumer(t)
	ctx := context.Background()

	if err := consumer.handleOrderTimeoutCancel(ctx, asynq.NewTask(queue.TaskOrderTimeoutCancel, []byte("{"))); err != nil {
		t.Fatalf("malformed payload must not be retried, got %v", err)
	}
	if err := consumer.handleOrderTimeoutCancel(ctx, timeoutTask(t, 0)); err != nil {
		t.Fatalf("zero order id must be skipped, got %v", err)
	}
	if err := consumer.handleOrderTimeoutCancel(ctx, timeoutTask(t, 404)); err != nil {
		t.Fatalf("missing order must be skipped, got %v", err)
	}

	var empty *Consumer
	if err := empty.handleOrderTimeoutCancel(ctx, timeoutTask(t, 1)); err != nil {
		t.Fatalf("nil consumer must be a no-op, got %v", err)
	}
}

func TestHandleOrderTimeoutCancelReleasesStock(t *testing.T) {
	consumer, db := newWorkerTestConsumer(t)
	ctx := context.Background()

	live, _ := seedPendingOrder(t, db, "AC-LIVE", time.Now().Add(time.Hour))
	if err := consumer.handleOrderTimeoutCancel(ctx, timeoutTask(t, live.ID)); err != nil {
		t.Fatalf("handle live order failed: %v", err)
	}
	var reloaded models.Order
	if err := db.First(&reloaded, live.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPendingPayment {
		t.Fatalf("order within its payment window must stay pending, got %s", reloaded.Status)
	}

	expired, product := seedPendingOrder(t, db, "AC-EXPIRED", time.Now().Add(-time.Minute))
	if err := consumer.handleOrderTimeoutCancel(ctx, timeoutTask(t, expired.ID)); err != nil {
		t.Fatalf("handle expired order failed: %v", err)
	}
	if err := db.First(&reloaded, expired.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCanceled || reloaded.CanceledAt == nil {
		t.Fatalf("expected canceled order, got %+v", reloaded)
	}
	var stocked models.Product
	if err := db.First(&stocked, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if stocked.StockQuantity != 3 {
		t.Fatalf("expected stock 3 after release, got %d", stocked.StockQuantity)
	}
}

func TestHandleOrderExpiredSweep(t *testing.T) {
	consumer, db := newWorkerTestConsumer(t)
	first, _ := seedPendingOrder(t, db, "AC-S1", time.Now().Add(-2*time.Minute))
	second, _ := seedPendingOrder(t, db, "AC-S2", time.Now().Add(-time.Minute))
	pending, _ := seedPendingOrder(t, db, "AC-S3", time.Now().Add(time.Hour))

	if err := consumer.handleOrderExpiredSweep(context.Background(), queue.NewOrderExpiredSweepTask()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	statuses := map[uint]string{
		first.ID:   constants.OrderStatusCanceled,
		second.ID:  constants.OrderStatusCanceled,
		pending.ID: constants.OrderStatusPendingPayment,
	}
	for id, want := range statuses {
		var order models.Order
		if err := db.First(&order, id).Error; err != nil {
			t.Fatalf("reload order %d failed: %v", id, err)
		}
		if order.Status != want {
			t.Fatalf("order %d: expected %s, got %s", id, want, order.Status)
		}
	}
}

func TestRegisterSkipsNil(t *testing.T) {
	var consumer *Consumer
	consumer.Register(asynq.NewServeMux())
	NewConsumer(nil).Register(nil)
}

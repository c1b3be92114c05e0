package provider

import (
	"context"
	"errors"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/authz"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/cache"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/config"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/logger"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/queue"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/service"

	"gorm.io/gorm"
)

const cachePingTimeout = 2 * time.Second

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	Cache       *cache.Store
	QueueClient *queue.Client

	// Repositories
	AdminRepo          repository.AdminRepository
	CategoryRepo       repository.CategoryRepository
	CollectionRepo     repository.CollectionRepository
	ProductRepo        repository.ProductRepository
	BannerRepo         repository.BannerRepository
	CouponRepo         repository.CouponRepository
	CouponUsageRepo    repository.CouponUsageRepository
	OrderRepo          repository.OrderRepository
	PaymentRepo        repository.PaymentRepository
	PaymentChannelRepo repository.PaymentChannelRepository
	DashboardRepo      repository.DashboardRepository

	// Services
	AuthzService       *authz.Service
	AuthService        *service.AuthService
	CategoryService    *service.CategoryService
	CollectionService  *service.CollectionService
	ProductService     *service.ProductService
	BannerService      *service.BannerService
	CouponService      *service.CouponService
	CouponAdminService *service.CouponAdminService
	OrderService       *service.OrderService
	PaymentService     *service.PaymentService
	DashboardService   *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config, db *gorm.DB) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if db == nil {
		return nil, errors.New("db is nil")
	}

	// 初始化缓存，连接失败时降级为直连数据库
	store := cache.New(&cfg.Redis)
	if store.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), cachePingTimeout)
		err := store.Ping(ctx)
		cancel()
		if err != nil {
			logger.Warnw("provider_init_redis_failed", "error", err)
			_ = store.Close()
			store = nil
		}
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		Cache:       store,
		QueueClient: queue.NewClient(&cfg.Queue),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	if err := c.initServices(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) initRepositories() {
	db := c.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.CollectionRepo = repository.NewCollectionRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.BannerRepo = repository.NewBannerRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CouponUsageRepo = repository.NewCouponUsageRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.PaymentChannelRepo = repository.NewPaymentChannelRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() error {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	c.AuthzService = authzService
	if err := c.AuthzService.SyncBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}

	cfg := c.Config
	couponTTL := time.Duration(cfg.Coupon.CacheTTLSeconds) * time.Second

	c.AuthService = service.NewAuthService(cfg, c.AdminRepo, c.Cache)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.CollectionService = service.NewCollectionService(c.DB, c.CollectionRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.CollectionRepo)
	c.BannerService = service.NewBannerService(c.BannerRepo)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.CouponUsageRepo, c.Cache, couponTTL, cfg.Store.CurrencySymbol)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo, c.CouponUsageRepo, c.Cache)
	c.OrderService = service.NewOrderService(c.DB, c.OrderRepo, c.ProductRepo, c.CouponRepo, c.CouponUsageRepo, c.CouponService, c.QueueClient, service.OrderOptions{
		ExpireMinutes: cfg.Order.PaymentExpireMinutes,
		OrderNoPrefix: cfg.Order.OrderNoPrefix,
		Currency:      cfg.Store.Currency,
	})
	c.PaymentService = service.NewPaymentService(c.DB, c.PaymentRepo, c.PaymentChannelRepo, c.OrderService)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo, c.Cache, cfg.Store.Currency)

	return c.SyncAdminRoles()
}

// SyncAdminRoles 将管理员表中的角色同步到授权策略
func (c *Container) SyncAdminRoles() error {
	admins, err := c.AdminRepo.List()
	if err != nil {
		return err
	}
	for _, admin := range admins {
		if err := c.AuthzService.AssignAdminRole(admin.ID, admin.Role); err != nil {
			logger.Errorw("provider_sync_admin_role_failed", "admin_id", admin.ID, "role", admin.Role, "error", err)
			return err
		}
	}
	return nil
}

// Close 释放缓存与队列连接
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	return errors.Join(c.QueueClient.Close(), c.Cache.Close())
}

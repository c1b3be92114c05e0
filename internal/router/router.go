package router

import (
	"sort"
	"strings"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/authz"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/config"
	adminhandlers "github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/handlers/admin"
	publichandlers "github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/handlers/public"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/logger"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	adminLoginRule := RateLimitRule{
		Prefix:        "admin_login",
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
	}
	couponRule := RateLimitRule{
		Prefix:        "coupon_validate",
		WindowSeconds: cfg.Security.CouponRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CouponRateLimit.MaxAttempts,
		MessageKey:    "error.rate_limited",
		FailOpen:      true,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))
	r.Use(CORSMiddleware(cfg.CORS))

	shopperIdentity := ShopperIdentityMiddleware(c.AuthService)
	couponLimiter := RateLimitMiddleware(c.Cache, couponRule, KeyByIP)

	// 优惠券终检（店面结账页直接调用的裸响应接口）
	r.POST("/api/validate-coupon", shopperIdentity, couponLimiter, publicHandler.ValidateCoupon)

	apiV1 := r.Group("/api/v1")
	{
		apiV1.POST("/coupons/validate", shopperIdentity, couponLimiter, publicHandler.ValidateCoupon)

		// 公开接口
		public := apiV1.Group("/public")
		public.Use(shopperIdentity)
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/collections", publicHandler.GetCollections)
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:slug", publicHandler.GetProduct)
			public.GET("/banners", publicHandler.GetBanners)
			public.GET("/payment-channels", publicHandler.GetPaymentChannels)
			public.POST("/coupons/check", couponLimiter, publicHandler.CheckCoupon)
		}

		// 订单与支付（游客可下单，登录顾客自动关联）
		shop := apiV1.Group("")
		shop.Use(shopperIdentity)
		{
			shop.POST("/orders", publicHandler.CreateOrder)
			shop.GET("/orders", RequireShopperMiddleware(), publicHandler.ListOrders)
			shop.GET("/orders/:order_no", publicHandler.GetOrder)
			shop.POST("/orders/:order_no/cancel", publicHandler.CancelOrder)
			shop.POST("/orders/:order_no/payments", publicHandler.CreatePayment)
			shop.POST("/payments/verify", publicHandler.VerifyPayment)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(c.Cache, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			// 仅需登录的接口
			self := admin.Group("")
			self.Use(AdminJWTAuthMiddleware(c.AuthService))
			{
				self.GET("/me", adminHandler.GetMe)
				self.PUT("/password", adminHandler.ChangePassword)
			}

			// 需要鉴权的接口
			authorized := admin.Group("")
			authorized.Use(AdminJWTAuthMiddleware(c.AuthService), AdminRBACMiddleware(c.AuthzService))
			{
				// 仪表盘
				authorized.GET("/dashboard/overview", adminHandler.GetDashboardOverview)

				// 商品目录
				authorized.GET("/categories", adminHandler.GetAdminCategories)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
				authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)
				authorized.GET("/collections", adminHandler.GetAdminCollections)
				authorized.POST("/collections", adminHandler.CreateCollection)
				authorized.PUT("/collections/:id", adminHandler.UpdateCollection)
				authorized.DELETE("/collections/:id", adminHandler.DeleteCollection)
				authorized.GET("/products", adminHandler.GetAdminProducts)
				authorized.GET("/products/:id", adminHandler.GetAdminProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)

				// Banner 管理
				authorized.GET("/banners", adminHandler.GetAdminBanners)
				authorized.GET("/banners/:id", adminHandler.GetAdminBanner)
				authorized.POST("/banners", adminHandler.CreateBanner)
				authorized.PUT("/banners/:id", adminHandler.UpdateBanner)
				authorized.DELETE("/banners/:id", adminHandler.DeleteBanner)

				// 优惠券
				authorized.GET("/coupons", adminHandler.GetAdminCoupons)
				authorized.POST("/coupons", adminHandler.CreateCoupon)
				authorized.GET("/coupons/:id", adminHandler.GetAdminCoupon)
				authorized.PUT("/coupons/:id", adminHandler.UpdateCoupon)
				authorized.DELETE("/coupons/:id", adminHandler.DeleteCoupon)
				authorized.POST("/coupons/:id/pause", adminHandler.PauseCoupon)
				authorized.POST("/coupons/:id/resume", adminHandler.ResumeCoupon)
				authorized.GET("/coupons/:id/usages", adminHandler.GetAdminCouponUsages)
				authorized.GET("/coupon-usages", adminHandler.GetAdminCouponUsages)

				// 订单管理
				authorized.GET("/orders", adminHandler.GetAdminOrders)
				authorized.GET("/orders/:id", adminHandler.GetAdminOrder)
				authorized.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)

				// 支付渠道与支付记录
				authorized.GET("/payment-channels", adminHandler.GetPaymentChannels)
				authorized.POST("/payment-channels", adminHandler.CreatePaymentChannel)
				authorized.GET("/payment-channels/:id", adminHandler.GetPaymentChannel)
				authorized.PUT("/payment-channels/:id", adminHandler.UpdatePaymentChannel)
				authorized.DELETE("/payment-channels/:id", adminHandler.DeletePaymentChannel)
				authorized.GET("/payments", adminHandler.GetAdminPayments)

				// 权限
				authorized.GET("/authz/roles", adminHandler.GetAuthzRoles)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		switch item.Path {
		case "/api/v1/admin/login", "/api/v1/admin/me", "/api/v1/admin/password":
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}

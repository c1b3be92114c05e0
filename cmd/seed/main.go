package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/app"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/config"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/logger"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/provider"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/service"
)

type seedProduct struct {
	category   string
	collection string
	input      service.ProductInput
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	log := logger.S()

	db, err := app.InitDatabase(cfg)
	if err != nil {
		log.Fatalw("seed_database_init_failed", "error", err)
	}
	container, err := provider.NewContainer(cfg, db)
	if err != nil {
		log.Fatalw("seed_container_init_failed", "error", err)
	}
	defer func() { _ = container.Close() }()

	ctx := context.Background()
	categoryIDs := seedCategories(container)
	collectionIDs := seedCollections(container)
	seedProducts(container, categoryIDs, collectionIDs)
	seedCoupons(ctx, container)
	seedAdmins(ctx, container)

	log.Infow("seed_done")
}

func seedCategories(c *provider.Container) map[string]uint {
	inputs := []service.CatalogGroupInput{
		{Slug: "necklaces", Name: "Necklaces", SortOrder: 1},
		{Slug: "earrings", Name: "Earrings", SortOrder: 2},
		{Slug: "rings", Name: "Rings", SortOrder: 3},
		{Slug: "bangles", Name: "Bangles", SortOrder: 4},
	}
	ids := make(map[string]uint, len(inputs))
	for _, input := range inputs {
		category, err := c.CategoryService.Create(input)
		if err == nil {
			logger.Infow("seed_category_created", "slug", category.Slug)
			ids[category.Slug] = category.ID
			continue
		}
		if !errors.Is(err, service.ErrSlugExists) {
			logger.Errorw("seed_category_failed", "slug", input.Slug, "error", err)
			continue
		}
		existing, lookupErr := c.CategoryRepo.GetBySlug(input.Slug)
		if lookupErr != nil || existing == nil {
			logger.Errorw("seed_category_lookup_failed", "slug", input.Slug, "error", lookupErr)
			continue
		}
		ids[existing.Slug] = existing.ID
	}
	return ids
}

func seedCollections(c *provider.Container) map[string]uint {
	featured := true
	inputs := []service.CatalogGroupInput{
		{Slug: "bridal", Name: "Bridal", IsFeatured: &featured, SortOrder: 1},
		{Slug: "everyday-gold", Name: "Everyday Gold", SortOrder: 2},
	}
	ids := make(map[string]uint, len(inputs))
	for _, input := range inputs {
		collection, err := c.CollectionService.Create(input)
		if err == nil {
			logger.Infow("seed_collection_created", "slug", collection.Slug)
			ids[collection.Slug] = collection.ID
			continue
		}
		if !errors.Is(err, service.ErrSlugExists) {
			logger.Errorw("seed_collection_failed", "slug", input.Slug, "error", err)
			continue
		}
		existing, lookupErr := c.CollectionRepo.GetBySlug(input.Slug)
		if lookupErr != nil || existing == nil {
			logger.Errorw("seed_collection_lookup_failed", "slug", input.Slug, "error", lookupErr)
			continue
		}
		ids[existing.Slug] = existing.ID
	}
	return ids
}

func seedProducts(c *provider.Container, categoryIDs, collectionIDs map[string]uint) {
	products := []seedProduct{
		{category: "necklaces", collection: "bridal", input: service.ProductInput{
			Slug: "kundan-necklace-set", Name: "Kundan Necklace Set", Material: "Gold plated brass",
			Price: models.NewMoney("4999"), CompareAtPrice: models.NewMoney("6499"), StockQuantity: 12,
		}},
		{category: "earrings", collection: "everyday-gold", input: service.ProductInput{
			Slug: "gold-hoops", Name: "Gold Hoops", Material: "22k gold",
			Price: models.NewMoney("1299"), StockQuantity: 40,
		}},
		{category: "rings", collection: "bridal", input: service.ProductInput{
			Slug: "emerald-band", Name: "Emerald Band", Material: "Sterling silver",
			Price: models.NewMoney("2450.50"), StockQuantity: 8,
		}},
		{category: "bangles", input: service.ProductInput{
			Slug: "temple-bangles", Name: "Temple Bangles (Pair)", Material: "Antique gold finish",
			Price: models.NewMoney("1899"), StockQuantity: 20,
		}},
	}
	for _, item := range products {
		categoryID, ok := categoryIDs[item.category]
		if !ok {
			logger.Warnw("seed_product_skipped", "slug", item.input.Slug, "reason", "category_missing")
			continue
		}
		input := item.input
		input.CategoryID = categoryID
		if collectionID, ok := collectionIDs[item.collection]; ok {
			input.CollectionID = &collectionID
		}
		product, err := c.ProductService.Create(input)
		switch {
		case err == nil:
			logger.Infow("seed_product_created", "slug", product.Slug)
		case errors.Is(err, service.ErrSlugExists):
			logger.Infow("seed_product_exists", "slug", input.Slug)
		default:
			logger.Errorw("seed_product_failed", "slug", input.Slug, "error", err)
		}
	}
}

func seedCoupons(ctx context.Context, c *provider.Container) {
	now := time.Now()
	minimum := models.NewMoney("200")
	coupons := []service.CouponInput{
		{Code: "SAVE10", Name: "Save 10%", DiscountType: "percentage", DiscountValue: models.NewMoney("10")},
		{Code: "FLAT100", Name: "Flat ₹100 off", DiscountType: "fixed_amount", DiscountValue: models.NewMoney("100"), MinimumOrderAmount: &minimum},
		{Code: "BIG", Name: "Festive ₹1000 off", DiscountType: "fixed_amount", DiscountValue: models.NewMoney("1000")},
	}
	for _, input := range coupons {
		input.ValidFrom = now.Add(-time.Hour)
		input.ValidUntil = now.AddDate(1, 0, 0)
		coupon, err := c.CouponAdminService.Create(ctx, input)
		switch {
		case err == nil:
			logger.Infow("seed_coupon_created", "code", coupon.Code)
		case errors.Is(err, service.ErrCouponCodeExists):
			logger.Infow("seed_coupon_exists", "code", input.Code)
		default:
			logger.Errorw("seed_coupon_failed", "code", input.Code, "error", err)
		}
	}

	// 确认种子数据可被列表接口检索
	if _, total, err := c.CouponAdminService.List(ctx, repository.CouponListFilter{Page: 1, PageSize: 1}); err == nil {
		logger.Infow("seed_coupon_total", "total", total)
	}
}

func seedAdmins(ctx context.Context, c *provider.Container) {
	password := os.Getenv("AC_SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "jewel2026"
	}
	accounts := map[string]string{
		"catalog":     "catalog_manager",
		"marketing":   "marketing",
		"fulfillment": "fulfillment",
		"finance":     "finance",
		"auditor":     "readonly_auditor",
	}
	for username, role := range accounts {
		admin, created, err := c.AuthService.EnsureAdmin(ctx, username, password, role, false)
		if err != nil {
			logger.Errorw("seed_admin_failed", "username", username, "error", err)
			continue
		}
		if err := c.AuthzService.AssignAdminRole(admin.ID, admin.Role); err != nil {
			logger.Errorw("seed_admin_role_sync_failed", "username", username, "role", admin.Role, "error", err)
			continue
		}
		logger.Infow("seed_admin_ready", "username", username, "role", admin.Role, "created", created)
	}
}

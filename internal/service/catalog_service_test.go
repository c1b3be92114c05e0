package service

import (
	"errors"
	"testing"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"
)

func TestNormalizeSlug(t *testing.T) {
	cases := map[[2]string]string{
		{"", "Kundan Necklace Set"}:    "kundan-necklace-set",
		{" Gold  Hoops! ", "ignored"}: "gold-hoops",
		{"--", ""}:                     "",
		{"", "Nath & Bindi"}:           "nath-bindi",
	}
	for input, want := range cases {
		if got := normalizeSlug(input[0], input[1]); got != want {
			t.Fatalf("normalizeSlug(%q, %q) = %q, want %q", input[0], input[1], got, want)
		}
	}
}

func TestCategoryDeleteRejectsInUse(t *testing.T) {
	f := newOrderFixture(t)
	svc := NewCategoryService(repository.NewCategoryRepository(f.db))

	if _, err := svc.Create(CatalogGroupInput{Name: "Rings"}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
	if err := svc.Delete(f.rings.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("expected ErrCategoryInUse, got %v", err)
	}
	empty, err := svc.Create(CatalogGroupInput{Name: "Anklets"})
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	if empty.Slug != "anklets" || !empty.IsActive {
		t.Fatalf("unexpected category: %+v", empty)
	}
	if err := svc.Delete(empty.ID); err != nil {
		t.Fatalf("delete empty category failed: %v", err)
	}
	if err := svc.Delete(empty.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCollectionDeleteDetachesProducts(t *testing.T) {
	f := newOrderFixture(t)
	svc := NewCollectionService(f.db, repository.NewCollectionRepository(f.db))

	if err := svc.Delete(f.bridal.ID); err != nil {
		t.Fatalf("delete collection failed: %v", err)
	}
	var ring models.Product
	if err := f.db.First(&ring, f.ring.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if ring.CollectionID != nil {
		t.Fatalf("expected product detached from collection, got %v", *ring.CollectionID)
	}
}

func TestProductServiceValidation(t *testing.T) {
	f := newOrderFixture(t)
	svc := NewProductService(
		repository.NewProductRepository(f.db),
		repository.NewCategoryRepository(f.db),
		repository.NewCollectionRepository(f.db),
	)
	base := ProductInput{
		CategoryID:    f.rings.ID,
		Name:          "Emerald Band",
		Price:         models.NewMoney("1250.50"),
		StockQuantity: 4,
	}

	zeroPrice := base
	zeroPrice.Price = models.NewMoney("0")
	if _, err := svc.Create(zeroPrice); !errors.Is(err, ErrProductPriceInvalid) {
		t.Fatalf("expected ErrProductPriceInvalid, got %v", err)
	}
	unknownCategory := base
	unknownCategory.CategoryID = 999
	if _, err := svc.Create(unknownCategory); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	missingCollection := base
	collectionID := uint(999)
	missingCollection.CollectionID = &collectionID
	if _, err := svc.Create(missingCollection); !errors.Is(err, ErrCollectionNotFound) {
		t.Fatalf("expected ErrCollectionNotFound, got %v", err)
	}

	product, err := svc.Create(base)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if product.Slug != "emerald-band" {
		t.Fatalf("unexpected slug: %s", product.Slug)
	}
	if _, err := svc.Create(base); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}

	inactive := false
	base.IsActive = &inactive
	if _, err := svc.Update(product.ID, base); err != nil {
		t.Fatalf("update product failed: %v", err)
	}
	if _, err := svc.GetPublic("emerald-band"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("inactive product must be hidden, got %v", err)
	}
}

func TestBannerWindowValidation(t *testing.T) {
	db := openServiceTestDB(t)
	svc := NewBannerService(repository.NewBannerRepository(db))
	start := testNow
	end := testNow.Add(-time.Hour)
	if _, err := svc.Create(BannerInput{Image: "https://cdn.example/hero.jpg", StartAt: &start, EndAt: &end}); !errors.Is(err, ErrBannerInvalid) {
		t.Fatalf("expected ErrBannerInvalid, got %v", err)
	}
	if _, err := svc.Create(BannerInput{Title: "Festive"}); !errors.Is(err, ErrBannerInvalid) {
		t.Fatalf("banner without image must be rejected, got %v", err)
	}
	banner, err := svc.Create(BannerInput{Title: "Festive", Image: "https://cdn.example/hero.jpg"})
	if err != nil {
		t.Fatalf("create banner failed: %v", err)
	}
	if !banner.IsActive {
		t.Fatalf("new banner should default to active")
	}
}

func TestDashboardResolveRange(t *testing.T) {
	svc := NewDashboardService(nil, nil, "INR")
	svc.now = func() time.Time { return testNow }

	key, from, to, err := svc.resolveRange(DashboardQueryInput{})
	if err != nil || key != "7d" {
		t.Fatalf("unexpected default range: %s %v", key, err)
	}
	if to.Sub(from) != 7*24*time.Hour {
		t.Fatalf("expected a 7 day window, got %v", to.Sub(from))
	}

	longFrom := testNow.AddDate(0, 0, -120)
	if _, _, _, err := svc.resolveRange(DashboardQueryInput{Range: "custom", From: &longFrom, To: &testNow}); !errors.Is(err, ErrRangeInvalid) {
		t.Fatalf("expected ErrRangeInvalid for long range, got %v", err)
	}
	if _, _, _, err := svc.resolveRange(DashboardQueryInput{Range: "yearly"}); !errors.Is(err, ErrRangeInvalid) {
		t.Fatalf("expected ErrRangeInvalid for unknown range, got %v", err)
	}
}

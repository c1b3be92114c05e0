package admin

import (
	handlershared "github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/handlers/shared"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

var catalogErrorRules = []handlershared.MappedError{
	{Target: service.ErrCatalogInputInvalid, Code: response.CodeBadRequest, Key: "error.catalog_invalid"},
	{Target: service.ErrSlugExists, Code: response.CodeConflict, Key: "error.slug_exists"},
	{Target: service.ErrCategoryNotFound, Code: response.CodeNotFound, Key: "error.category_not_found"},
	{Target: service.ErrCategoryInUse, Code: response.CodeConflict, Key: "error.category_in_use"},
	{Target: service.ErrCollectionNotFound, Code: response.CodeNotFound, Key: "error.collection_not_found"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductPriceInvalid, Code: response.CodeBadRequest, Key: "error.product_price_invalid"},
}

// CatalogGroupRequest 分类/系列请求
type CatalogGroupRequest struct {
	Slug        string `json:"slug"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsActive    *bool  `json:"is_active"`
	IsFeatured  *bool  `json:"is_featured"`
	SortOrder   int    `json:"sort_order"`
}

func (req CatalogGroupRequest) toInput() service.CatalogGroupInput {
	return service.CatalogGroupInput{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		IsActive:    req.IsActive,
		IsFeatured:  req.IsFeatured,
		SortOrder:   req.SortOrder,
	}
}

// ProductRequest 商品请求
type ProductRequest struct {
	CategoryID     uint         `json:"category_id" binding:"required"`
	CollectionID   *uint        `json:"collection_id"`
	Slug           string       `json:"slug"`
	Name           string       `json:"name" binding:"required"`
	Description    string       `json:"description"`
	Material       string       `json:"material"`
	Price          models.Money `json:"price"`
	CompareAtPrice models.Money `json:"compare_at_price"`
	Images         []string     `json:"images"`
	StockQuantity  int          `json:"stock_quantity"`
	IsActive       *bool        `json:"is_active"`
	SortOrder      int          `json:"sort_order"`
}

func (req ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		CategoryID:     req.CategoryID,
		CollectionID:   req.CollectionID,
		Slug:           req.Slug,
		Name:           req.Name,
		Description:    req.Description,
		Material:       req.Material,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		Images:         req.Images,
		StockQuantity:  req.StockQuantity,
		IsActive:       req.IsActive,
		SortOrder:      req.SortOrder,
	}
}

// GetAdminCategories 获取分类列表 (Admin)
func (h *Handler) GetAdminCategories(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	categories, total, err := h.CategoryService.List(false, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	pageResult(c, categories, page, pageSize, total)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CatalogGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Create(req.toInput())
	if err != nil {
		respondMapped(c, err, catalogErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req CatalogGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	category, err := h.CategoryService.Update(id, req.toInput())
	if err != nil {
		respondMapped(c, err, catalogErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(id); err != nil {
		respondMapped(c, err, catalogErrorRules, response.CodeInternal, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetAdminCollections 获取系列列表 (Admin)
func (h *Handler) GetAdminCollections(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	collections, total, err := h.CollectionService.List(false, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	pageResult(c, collections, page, pageSize, total)
}

// CreateCollection 创建系列
func (h *Handler) CreateCollection(c *gin.Context) {
	var req CatalogGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	collection, err := h.CollectionService.Create(req.toInput())
	if err != nil {
		respondMapped(c, err, catalogErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, collection)
}

// UpdateCollection 更新系列
func (h *Handler) UpdateCollection(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req CatalogGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	collection, err := h.CollectionService.Update(id, req.toInput())
	if err != nil {
		respondMapped(c, err, catalogErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, collection)
}

// DeleteCollection 删除系列，关联商品解除归属
func (h *Handler) DeleteCollection(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.CollectionService.Delete(id); err != nil {
		respondMapped(c, err, catalogErrorRules, response.CodeInternal, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// GetAdminProducts 获取商品列表 (Admin)
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	products, total, err := h.ProductService.ListAdmin(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   handlershared.QueryUint(c, "category_id"),
		CollectionID: handlershared.QueryUint(c, "collection_id"),
		Search:       c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	pageResult(c, products, page, pageSize, total)
}

// GetAdminProduct 获取商品详情 (Admin)
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	product, err := h.ProductService.Get(id)
	if err != nil {
		respondMapped(c, err, catalogErrorRules, response.CodeInternal, "error.product_fetch_failed")
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondMapped(c, err, catalogErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Update(id, req.toInput())
	if err != nil {
		respondMapped(c, err, catalogErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondMapped(c, err, catalogErrorRules, response.CodeInternal, "error.delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

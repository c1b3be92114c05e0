package public

import (
	"strconv"

	handlershared "github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/handlers/shared"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/http/response"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"

	"github.com/gin-gonic/gin"
)

const publicFeaturedLimit = 12

// GetCategories 获取上架分类
func (h *Handler) GetCategories(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	categories, total, err := h.CategoryService.List(true, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	pageResult(c, categories, page, pageSize, total)
}

// GetCollections 获取系列，featured=true 时只返回推荐系列
func (h *Handler) GetCollections(c *gin.Context) {
	if featured, _ := strconv.ParseBool(c.Query("featured")); featured {
		collections, err := h.CollectionService.ListFeatured(publicFeaturedLimit)
		if err != nil {
			respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
			return
		}
		response.Success(c, collections)
		return
	}

	page, pageSize := handlershared.QueryPagination(c)
	collections, total, err := h.CollectionService.List(true, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	pageResult(c, collections, page, pageSize, total)
}

// GetProducts 获取商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	products, total, err := h.ProductService.ListPublic(repository.ProductListFilter{
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

// GetProduct 按 slug 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.ProductService.GetPublic(c.Param("slug"))
	if err != nil {
		respondMapped(c, err, catalogErrorRules, response.CodeInternal, "error.product_fetch_failed")
		return
	}
	response.Success(c, product)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bharathbhent-backend/internal/apperr"
	"bharathbhent-backend/internal/models"
	"bharathbhent-backend/internal/service"
)

type productRequest struct {
	Name               *string            `json:"name"`
	Description        *string            `json:"description"`
	Price              *float64           `json:"price" binding:"omitempty,min=0"`
	DiscountPercentage *float64           `json:"discountPercentage" binding:"omitempty,min=0,max=100"`
	Images             []models.Image     `json:"images"`
	Category           *models.Category   `json:"category" binding:"omitempty,category"`
	Stock              *int               `json:"stock" binding:"omitempty,min=0"`
	Dimensions         *models.Dimensions `json:"dimensions"`
	Material           *string            `json:"material"`
	DeliveryTime       *string            `json:"deliveryTime"`
	ReturnPolicy       *string            `json:"returnPolicy"`
	ShippingPolicy     *string            `json:"shippingPolicy"`
}

func (r productRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:               r.Name,
		Description:        r.Description,
		Price:              r.Price,
		DiscountPercentage: r.DiscountPercentage,
		Images:             r.Images,
		Category:           r.Category,
		Stock:              r.Stock,
		Dimensions:         r.Dimensions,
		Material:           r.Material,
		DeliveryTime:       r.DeliveryTime,
		ReturnPolicy:       r.ReturnPolicy,
		ShippingPolicy:     r.ShippingPolicy,
	}
}

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

func (h *handler) listProducts(c *gin.Context) {
	category := models.Category(c.Query("category"))
	if category != "" && !category.Valid() {
		fail(c, apperr.Newf(apperr.Validation, "Invalid category %q", category))
		return
	}
	products, err := h.catalog.List(c.Request.Context(), category)
	if err != nil {
		fail(c, err)
		return
	}
	respondList(c, products, len(products))
}

func (h *handler) listProductsByCategory(c *gin.Context) {
	category := models.Category(c.Param("category"))
	if !category.Valid() {
		fail(c, apperr.Newf(apperr.Validation, "Invalid category %q", category))
		return
	}
	products, err := h.catalog.List(c.Request.Context(), category)
	if err != nil {
		fail(c, err)
		return
	}
	respondList(c, products, len(products))
}

func (h *handler) getProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	p, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

func (h *handler) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	p, err := h.catalog.Create(c.Request.Context(), req.input())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, p)
}

func (h *handler) updateProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	p, err := h.catalog.Update(c.Request.Context(), id, req.input())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

func (h *handler) deleteProduct(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Product deleted", gin.H{})
}

func (h *handler) addReview(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	p, err := h.catalog.AddReview(c.Request.Context(), identity(c).ID, id, req.Rating, req.Comment)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

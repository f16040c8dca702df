package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type addCartRequest struct {
	ProductID string `json:"productId" binding:"required,objectid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (h *handler) getCart(c *gin.Context) {
	cart, err := h.carts.Get(c.Request.Context(), identity(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, cart)
}

func (h *handler) addToCart(c *gin.Context) {
	var req addCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	productID, _ := primitive.ObjectIDFromHex(req.ProductID)
	userID := identity(c).ID
	if _, err := h.carts.AddItem(c.Request.Context(), userID, productID, req.Quantity); err != nil {
		fail(c, err)
		return
	}
	h.writeCart(c, userID)
}

func (h *handler) updateCartItem(c *gin.Context) {
	itemID, ok := objectIDParam(c, "itemId")
	if !ok {
		return
	}
	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	userID := identity(c).ID
	if _, err := h.carts.UpdateItem(c.Request.Context(), userID, itemID, req.Quantity); err != nil {
		fail(c, err)
		return
	}
	h.writeCart(c, userID)
}

func (h *handler) removeCartItem(c *gin.Context) {
	itemID, ok := objectIDParam(c, "itemId")
	if !ok {
		return
	}
	userID := identity(c).ID
	if _, err := h.carts.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		fail(c, err)
		return
	}
	h.writeCart(c, userID)
}

func (h *handler) clearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), identity(c).ID); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Cart cleared", gin.H{"items": []any{}})
}

// writeCart responds with the cart lines joined to their products.
func (h *handler) writeCart(c *gin.Context, userID primitive.ObjectID) {
	cart, err := h.carts.Get(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, cart)
}

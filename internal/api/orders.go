package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bharathbhent-backend/internal/models"
	"bharathbhent-backend/internal/service"
)

type createOrderRequest struct {
	ShippingInfo models.ShippingInfo `json:"shippingInfo"`
	PaymentInfo  models.PaymentInfo  `json:"paymentInfo"`
	PromoCode    string              `json:"promoCode"`
}

type updateOrderRequest struct {
	OrderStatus models.OrderStatus `json:"orderStatus" binding:"required,orderstatus"`
}

func (h *handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	order, err := h.orders.CreateOrder(c.Request.Context(), identity(c).ID, service.CreateOrderInput{
		ShippingInfo: req.ShippingInfo,
		PaymentInfo:  req.PaymentInfo,
		PromoCode:    req.PromoCode,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, order)
}

func (h *handler) myOrders(c *gin.Context) {
	orders, err := h.orders.ListMine(c.Request.Context(), identity(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	respondList(c, orders, len(orders))
}

func (h *handler) allOrders(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respondList(c, orders, len(orders))
}

func (h *handler) getOrder(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id, identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

func (h *handler) updateOrder(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), id, req.OrderStatus)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

func (h *handler) deleteOrder(c *gin.Context) {
	id, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Order deleted", gin.H{})
}

// liveOrders upgrades to a websocket that streams order events to admins.
func (h *handler) liveOrders(c *gin.Context) {
	if h.hub == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	if err := h.hub.Serve(c.Writer, c.Request); err != nil {
		log.Debug().Err(err).Msg("order feed closed")
	}
}

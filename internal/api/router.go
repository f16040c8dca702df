// Package api exposes the storefront services over HTTP with gin.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"bharathbhent-backend/internal/events"
	"bharathbhent-backend/internal/logger"
	"bharathbhent-backend/internal/service"
)

type Services struct {
	Auth     *service.AuthService
	Catalog  *service.CatalogService
	Carts    *service.CartService
	Orders   *service.OrderService
	Accounts *service.AccountService
}

type Options struct {
	Logger        zerolog.Logger
	CORSOrigins   []string
	AuthRateLimit float64
	AuthRateBurst int
	// Hub serves GET /orders/live when set.
	Hub *events.Hub
	// Ping reports storage health for GET /health.
	Ping func(ctx context.Context) error
}

type handler struct {
	auth     *service.AuthService
	catalog  *service.CatalogService
	carts    *service.CartService
	orders   *service.OrderService
	accounts *service.AccountService
	hub      *events.Hub
	ping     func(ctx context.Context) error
}

func NewRouter(s Services, opts Options) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}
	h := &handler{
		auth:     s.Auth,
		catalog:  s.Catalog,
		carts:    s.Carts,
		orders:   s.Orders,
		accounts: s.Accounts,
		hub:      opts.Hub,
		ping:     opts.Ping,
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware(opts.Logger), corsMiddleware(opts.CORSOrigins))
	r.GET("/health", h.health)

	authn := Authenticate(s.Auth)
	v1 := r.Group("/api/v1")

	a := v1.Group("/auth")
	a.GET("/me", authn, h.me)
	limited := a.Group("", RateLimit(opts.AuthRateLimit, opts.AuthRateBurst))
	{
		limited.POST("/register", h.registerUser)
		limited.POST("/verify-otp", h.verifyUser)
		limited.POST("/login", h.loginUser)
		limited.POST("/admin/register", h.registerAdmin)
		limited.POST("/admin/verify-otp", h.verifyAdmin)
		limited.POST("/admin/login", h.loginAdmin)
	}

	p := v1.Group("/products")
	{
		p.GET("", h.listProducts)
		p.GET("/category/:category", h.listProductsByCategory)
		p.GET("/:id", h.getProduct)
		p.POST("/:id/reviews", authn, RequireUser, h.addReview)
	}

	cart := v1.Group("/cart", authn, RequireUser)
	{
		cart.GET("", h.getCart)
		cart.POST("", h.addToCart)
		cart.DELETE("", h.clearCart)
		cart.PUT("/:itemId", h.updateCartItem)
		cart.DELETE("/:itemId", h.removeCartItem)
	}

	o := v1.Group("/orders", authn)
	{
		o.POST("", RequireUser, h.createOrder)
		o.GET("/me", RequireUser, h.myOrders)
		o.GET("", RequireAdmin, h.allOrders)
		o.GET("/live", RequireAdmin, h.liveOrders)
		o.GET("/:id", h.getOrder)
		o.PUT("/:id", RequireAdmin, h.updateOrder)
		o.DELETE("/:id", RequireAdmin, h.deleteOrder)
	}

	u := v1.Group("/users", authn, RequireUser)
	{
		u.GET("/me", h.getProfile)
		u.PUT("/me", h.updateProfile)
		u.GET("/saved", h.savedProducts)
		u.POST("/saved/:productId", h.saveProduct)
		u.DELETE("/saved/:productId", h.unsaveProduct)
	}

	admin := v1.Group("/admin", authn, RequireAdmin)
	{
		admin.GET("/users", h.listUsers)
		admin.GET("/users/:id", h.getUser)
		admin.POST("/products", h.createProduct)
		admin.PUT("/products/:id", h.updateProduct)
		admin.DELETE("/products/:id", h.deleteProduct)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, envelope{Success: false, Message: "Route not found"})
	})
	return r, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowCredentials = false
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func (h *handler) health(c *gin.Context) {
	status, storage := http.StatusOK, "ok"
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			status, storage = http.StatusServiceUnavailable, "unavailable"
		}
	}
	c.JSON(status, envelope{Success: status == http.StatusOK, Data: gin.H{"status": storage}})
}

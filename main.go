// main.go

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"bharathbhent-backend/internal/api"
	"bharathbhent-backend/internal/auth"
	"bharathbhent-backend/internal/cache"
	"bharathbhent-backend/internal/config"
	"bharathbhent-backend/internal/events"
	"bharathbhent-backend/internal/logger"
	"bharathbhent-backend/internal/mailer"
	"bharathbhent-backend/internal/repository"
	"bharathbhent-backend/internal/repository/memory"
	"bharathbhent-backend/internal/service"
)

// stores groups the storage backends the services are built on.
type stores struct {
	users    service.UserStore
	admins   service.AdminStore
	otps     service.OTPStore
	products service.ProductStore
	carts    service.CartStore
	orders   service.OrderStore
	ping     func(ctx context.Context) error
	close    func(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	l := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("storage unavailable")
	}

	var productCache service.ProductCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		productCache = cache.NewRedis(rdb, cfg.ProductCacheTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("product cache enabled")
	}

	hub := events.NewHub()
	defer hub.Close()
	publishers := events.Multi{hub}
	if len(cfg.KafkaBrokers) > 0 {
		k := events.NewKafka(events.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
		defer k.Close()
		publishers = append(publishers, k)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("order events to kafka")
	}

	var mail mailer.Sender = mailer.Log{}
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	} else {
		log.Warn().Msg("SMTP_HOST not set, OTP mails are logged")
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	otp := service.NewOTPService(st.otps, mail, cfg.AppName, cfg.OTPTTL)
	router, err := api.NewRouter(api.Services{
		Auth:     service.NewAuthService(st.users, st.admins, otp, tokens, auth.NewHasher(cfg.BcryptCost)),
		Catalog:  service.NewCatalogService(st.products, st.users, productCache),
		Carts:    service.NewCartService(st.carts, st.products),
		Orders:   service.NewOrderService(st.carts, st.products, st.orders, productCache, publishers),
		Accounts: service.NewAccountService(st.users, st.products),
	}, api.Options{
		Logger:        l,
		CORSOrigins:   cfg.CORSOrigins,
		AuthRateLimit: cfg.AuthRateLimit,
		AuthRateBurst: cfg.AuthRateBurst,
		Hub:           hub,
		Ping:          st.ping,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	if err := st.close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("close storage")
	}
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Store == "memory" {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		db := memory.New()
		db.ExpireOTPsAfter(cfg.OTPTTL)
		return &stores{
			users: db.Users(), admins: db.Admins(), otps: db.OTPs(),
			products: db.Products(), carts: db.Carts(), orders: db.Orders(),
			ping:  func(context.Context) error { return nil },
			close: func(context.Context) error { return nil },
		}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	m, err := repository.Connect(connectCtx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	if err := m.EnsureIndexes(connectCtx, cfg.OTPTTL); err != nil {
		_ = m.Disconnect(context.Background())
		return nil, err
	}
	log.Info().Str("db", cfg.MongoDB).Bool("transactions", cfg.UseTransactions).Msg("connected to MongoDB")
	return &stores{
		users:    repository.NewUserRepository(m),
		admins:   repository.NewAdminRepository(m),
		otps:     repository.NewOTPRepository(m),
		products: repository.NewProductRepository(m),
		carts:    repository.NewCartRepository(m),
		orders:   repository.NewOrderRepository(m, cfg.UseTransactions),
		ping:     m.Ping,
		close:    m.Disconnect,
	}, nil
}

package service

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/apperr"
	"bharathbhent-backend/internal/auth"
	"bharathbhent-backend/internal/cache"
	"bharathbhent-backend/internal/events"
	"bharathbhent-backend/internal/mailer"
	"bharathbhent-backend/internal/models"
	"bharathbhent-backend/internal/repository/memory"
)

type captureMailer struct {
	mu   sync.Mutex
	msgs []mailer.Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msg)
	return nil
}

var codeRe = regexp.MustCompile(`\b(\d{6})\b`)

func (m *captureMailer) lastCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.msgs, "no mail sent")
	match := codeRe.FindStringSubmatch(m.msgs[len(m.msgs)-1].Body)
	require.Len(t, match, 2)
	return match[1]
}

type capturePublisher struct {
	mu  sync.Mutex
	got []events.OrderEvent
}

func (p *capturePublisher) Publish(_ context.Context, ev events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, ev)
	return nil
}

// countingCache is a map-backed ProductCache that records invalidations.
type countingCache struct {
	mu      sync.Mutex
	items   map[string]models.Product
	hits    int
	deleted []string
}

func newCountingCache() *countingCache {
	return &countingCache{items: map[string]models.Product{}}
}

func (c *countingCache) Get(_ context.Context, id string) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.items[id]
	if !ok {
		return nil, cache.ErrMiss
	}
	c.hits++
	return &p, nil
}

func (c *countingCache) Set(_ context.Context, p *models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[p.ID.Hex()] = *p
	return nil
}

func (c *countingCache) Del(_ context.Context, ids ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.items, id)
	}
	c.deleted = append(c.deleted, ids...)
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type env struct {
	db      *memory.DB
	mail    *captureMailer
	events  *capturePublisher
	cache   *countingCache
	clock   *clock
	tokens  *auth.Tokens
	otp     *OTPService
	auth    *AuthService
	catalog *CatalogService
	carts   *CartService
	orders  *OrderService
	account *AccountService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		db:     memory.New(),
		mail:   &captureMailer{},
		events: &capturePublisher{},
		cache:  newCountingCache(),
		clock:  &clock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		tokens: auth.NewTokens("test-secret", 30*24*time.Hour),
	}
	e.account = NewAccountService(e.db.Users(), e.db.Products())
	e.otp = NewOTPService(e.db.OTPs(), e.mail, "Bharath Bhent", 5*time.Minute)
	e.otp.now = e.clock.now
	e.auth = NewAuthService(e.db.Users(), e.db.Admins(), e.otp, e.tokens, auth.NewHasher(4))
	e.catalog = NewCatalogService(e.db.Products(), e.db.Users(), e.cache)
	e.carts = NewCartService(e.db.Carts(), e.db.Products())
	e.orders = NewOrderService(e.db.Carts(), e.db.Products(), e.db.Orders(), e.cache, e.events)
	e.orders.now = e.clock.now
	return e
}

func (e *env) product(t *testing.T, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Description: name, Price: price, Stock: stock, Category: models.CategoryArtefacts}
	p.ApplyDefaults()
	require.NoError(t, e.db.Products().Create(context.Background(), p))
	return p
}

func (e *env) user(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "Test", Email: email, Mobile: primitive.NewObjectID().Hex()}
	require.NoError(t, e.db.Users().Create(context.Background(), u))
	return u
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), err.Error())
}

func checkout() CreateOrderInput {
	return CreateOrderInput{
		ShippingInfo: models.ShippingInfo{Address: "12 MG Road", City: "Bengaluru", State: "KA", PinCode: "560001", PhoneNo: "9000000000"},
		PaymentInfo:  models.PaymentInfo{ID: "pay_1", Status: "paid", Method: models.PaymentUPI},
	}
}

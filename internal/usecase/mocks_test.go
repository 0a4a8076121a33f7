package usecase_test

import (
	"context"
	"time"

	"messapp/internal/domain/catalog"
	"messapp/internal/domain/model"
	"messapp/internal/domain/ordering"
	repo "messapp/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos
// =====================

// TxManagerMock runs fn against fixed repos.
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders        repo.OrderRepository
	orderItems    repo.OrderItemRepository
	menu          repo.MenuRepository
	subscriptions repo.SubscriptionRepository
	users         repo.UserRepository
	auditLogs     repo.AuditLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository               { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository       { return r.orderItems }
func (r *TxReposMock) Menu() repo.MenuRepository                  { return r.menu }
func (r *TxReposMock) Subscriptions() repo.SubscriptionRepository { return r.subscriptions }
func (r *TxReposMock) Users() repo.UserRepository                 { return r.users }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository         { return r.auditLogs }

// =====================
// Repositories
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	list, _ := args.Get(0).([]model.Order)
	total, _ := args.Get(1).(int64)
	return list, total, args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	id, _ := args.Get(0).(int64)
	return id, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatusFrom(ctx context.Context, orderID int64, from ordering.Status, to ordering.Status) error {
	return m.Called(ctx, orderID, from, to).Error(0)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]model.Order)
	total, _ := args.Get(1).(int64)
	return list, total, args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	return m.Called(ctx, orderID, items).Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) ListByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	args := m.Called(ctx, orderIDs)
	byOrder, _ := args.Get(0).(map[int64][]model.OrderItem)
	return byOrder, args.Error(1)
}

type MenuRepoMock struct{ mock.Mock }

func (m *MenuRepoMock) ListCategories(ctx context.Context) ([]model.MenuCategory, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]model.MenuCategory)
	return v, args.Error(1)
}

func (m *MenuRepoMock) ListItems(ctx context.Context) ([]model.MenuItem, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]model.MenuItem)
	return v, args.Error(1)
}

func (m *MenuRepoMock) FindItemsByIDs(ctx context.Context, ids []int64) ([]model.MenuItem, error) {
	args := m.Called(ctx, ids)
	v, _ := args.Get(0).([]model.MenuItem)
	return v, args.Error(1)
}

func (m *MenuRepoMock) SaveCategory(ctx context.Context, c *model.MenuCategory) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MenuRepoMock) SaveItem(ctx context.Context, it *model.MenuItem) error {
	return m.Called(ctx, it).Error(0)
}

func (m *MenuRepoMock) DeleteItemsExcept(ctx context.Context, keep []int64) error {
	return m.Called(ctx, keep).Error(0)
}

func (m *MenuRepoMock) DeleteCategoriesExcept(ctx context.Context, keep []int64) error {
	return m.Called(ctx, keep).Error(0)
}

type SubscriptionRepoMock struct{ mock.Mock }

func (m *SubscriptionRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Subscription, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(model.Subscription)
	return s, args.Error(1)
}

func (m *SubscriptionRepoMock) Save(ctx context.Context, s *model.Subscription) error {
	return m.Called(ctx, s).Error(0)
}

func (m *SubscriptionRepoMock) ListByUserIDs(ctx context.Context, userIDs []int64) ([]model.Subscription, error) {
	args := m.Called(ctx, userIDs)
	v, _ := args.Get(0).([]model.Subscription)
	return v, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEnrollment(ctx context.Context, enrollment string) (*model.User, error) {
	args := m.Called(ctx, enrollment)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *UserRepoMock) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	v, _ := args.Get(0).([]model.User)
	return v, args.Error(1)
}

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *AuditLogRepoMock) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, f)
	v, _ := args.Get(0).([]model.AuditLog)
	return v, args.Error(1)
}

// =====================
// Cache / catalog / clock
// =====================

type CatalogCacheMock struct{ mock.Mock }

func (m *CatalogCacheMock) Get(ctx context.Context) ([]byte, bool, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]byte)
	return b, args.Bool(1), args.Error(2)
}

func (m *CatalogCacheMock) Set(ctx context.Context, data []byte) error {
	return m.Called(ctx, data).Error(0)
}

func (m *CatalogCacheMock) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type CatalogSourceStub struct {
	Catalog catalog.Catalog
	Err     error
}

func (s CatalogSourceStub) StudentCatalog(context.Context) (catalog.Catalog, error) {
	return s.Catalog, s.Err
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

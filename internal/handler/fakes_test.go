package handler_test

import (
	"context"
	"sort"
	"sync"

	"messapp/internal/domain/catalog"
	"messapp/internal/domain/model"
	"messapp/internal/domain/ordering"
	"messapp/internal/repository"
)

// in-memory store behind the repository interfaces, enough to drive handlers end to end
type memStore struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	orders []model.Order
	items  map[int64][]model.OrderItem
	subs   map[int64]model.Subscription
	audit  []model.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		users: map[int64]*model.User{},
		items: map[int64][]model.OrderItem{},
		subs:  map[int64]model.Subscription{},
	}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(r repository.TxRepos) error) error {
	return fn(memRepos{s})
}

type memRepos struct{ s *memStore }

func (r memRepos) Orders() repository.OrderRepository               { return memOrders{r.s} }
func (r memRepos) OrderItems() repository.OrderItemRepository       { return memOrderItems{r.s} }
func (r memRepos) Menu() repository.MenuRepository                  { return nil }
func (r memRepos) Subscriptions() repository.SubscriptionRepository { return memSubs{r.s} }
func (r memRepos) Users() repository.UserRepository                 { return memUsers{r.s} }
func (r memRepos) AuditLogs() repository.AuditLogRepository         { return memAudit{r.s} }

// users

type memUsers struct{ s *memStore }

func (u memUsers) Create(ctx context.Context, user *model.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user.ID = int64(len(u.s.users) + 1)
	cp := *user
	u.s.users[user.ID] = &cp
	return nil
}

func (u memUsers) FindByID(ctx context.Context, id int64) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if us, ok := u.s.users[id]; ok {
		cp := *us
		return &cp, nil
	}
	return nil, nil
}

func (u memUsers) FindByEnrollment(ctx context.Context, enrollment string) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, us := range u.s.users {
		if us.Enrollment == enrollment {
			cp := *us
			return &cp, nil
		}
	}
	return nil, nil
}

func (u memUsers) Update(ctx context.Context, user *model.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	cp := *user
	u.s.users[user.ID] = &cp
	return nil
}

func (u memUsers) IncrementTokenVersion(ctx context.Context, id int64) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	us, ok := u.s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	us.TokenVersion++
	return nil
}

func (u memUsers) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	var out []model.User
	for _, us := range u.s.users {
		if us.Role == role {
			out = append(out, *us)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// orders

type memOrders struct{ s *memStore }

func (o memOrders) FindByID(ctx context.Context, id int64) (model.Order, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	for _, ord := range o.s.orders {
		if ord.ID == id {
			return ord, nil
		}
	}
	return model.Order{}, repository.ErrNotFound
}

func (o memOrders) ListByUserID(ctx context.Context, userID int64, page, limit int) ([]model.Order, int64, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	var out []model.Order
	for i := len(o.s.orders) - 1; i >= 0; i-- {
		if o.s.orders[i].UserID == userID {
			out = append(out, o.s.orders[i])
		}
	}
	return out, int64(len(out)), nil
}

func (o memOrders) Create(ctx context.Context, order model.Order) (int64, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	for _, ord := range o.s.orders {
		if ord.UserID == order.UserID && ord.IdempotencyKey == order.IdempotencyKey {
			return 0, repository.ErrConflict
		}
	}
	order.ID = int64(len(o.s.orders) + 1)
	o.s.orders = append(o.s.orders, order)
	return order.ID, nil
}

func (o memOrders) UpdateStatusFrom(ctx context.Context, id int64, from, to ordering.Status) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	for i := range o.s.orders {
		if o.s.orders[i].ID != id {
			continue
		}
		if o.s.orders[i].Status != from {
			return repository.ErrConflict
		}
		o.s.orders[i].Status = to
		return nil
	}
	return repository.ErrNotFound
}

func (o memOrders) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	for _, ord := range o.s.orders {
		if ord.UserID == userID && ord.IdempotencyKey == key {
			return ord, true, nil
		}
	}
	return model.Order{}, false, nil
}

func (o memOrders) ListAdmin(ctx context.Context, f repository.AdminOrderListFilter) ([]model.Order, int64, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	var out []model.Order
	for i := len(o.s.orders) - 1; i >= 0; i-- {
		ord := o.s.orders[i]
		if f.Status != "" && string(ord.Status) != f.Status {
			continue
		}
		if f.IsPreorder != nil && ord.IsPreorder != *f.IsPreorder {
			continue
		}
		out = append(out, ord)
	}
	return out, int64(len(out)), nil
}

type memOrderItems struct{ s *memStore }

func (m memOrderItems) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, it := range items {
		it.OrderID = orderID
		m.s.items[orderID] = append(m.s.items[orderID], it)
	}
	return nil
}

func (m memOrderItems) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return append([]model.OrderItem(nil), m.s.items[orderID]...), nil
}

func (m memOrderItems) ListByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make(map[int64][]model.OrderItem, len(orderIDs))
	for _, id := range orderIDs {
		if items, ok := m.s.items[id]; ok {
			out[id] = append([]model.OrderItem(nil), items...)
		}
	}
	return out, nil
}

// subscriptions

type memSubs struct{ s *memStore }

func (m memSubs) FindByUserID(ctx context.Context, userID int64) (model.Subscription, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if sub, ok := m.s.subs[userID]; ok {
		return sub, nil
	}
	return model.Subscription{}, repository.ErrNotFound
}

func (m memSubs) Save(ctx context.Context, sub *model.Subscription) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if sub.ID == 0 {
		sub.ID = int64(len(m.s.subs) + 1)
	}
	m.s.subs[sub.UserID] = *sub
	return nil
}

func (m memSubs) ListByUserIDs(ctx context.Context, ids []int64) ([]model.Subscription, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Subscription
	for _, id := range ids {
		if sub, ok := m.s.subs[id]; ok {
			out = append(out, sub)
		}
	}
	return out, nil
}

type memAudit struct{ s *memStore }

func (m memAudit) Create(ctx context.Context, l model.AuditLog) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	l.ID = int64(len(m.s.audit) + 1)
	m.s.audit = append(m.s.audit, l)
	return nil
}

func (m memAudit) List(ctx context.Context, f repository.AuditLogFilter) ([]model.AuditLog, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]model.AuditLog, 0, len(m.s.audit))
	for i := len(m.s.audit) - 1; i >= 0; i-- {
		out = append(out, m.s.audit[i])
	}
	return out, nil
}

type staticCatalog struct{ c catalog.Catalog }

func (s staticCatalog) StudentCatalog(context.Context) (catalog.Catalog, error) { return s.c, nil }

package repository

import "context"

// Repositories bound to one transaction.
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Menu() MenuRepository
	Subscriptions() SubscriptionRepository
	Users() UserRepository
	AuditLogs() AuditLogRepository
}

// Hides begin/commit/rollback from usecases.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}

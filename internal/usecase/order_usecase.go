package usecase

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"messapp/internal/domain/catalog"
	"messapp/internal/domain/model"
	"messapp/internal/domain/ordering"
	repo "messapp/internal/repository"

	"github.com/google/uuid"
)

// CatalogSource is the menu the student ordered from.
type CatalogSource interface {
	StudentCatalog(ctx context.Context) (catalog.Catalog, error)
}

type OrderUsecase struct {
	tx      repo.TransactionManager
	subs    repo.SubscriptionRepository
	catalog CatalogSource
	clock   Clock
}

func NewOrderUsecase(tx repo.TransactionManager, subs repo.SubscriptionRepository, catalog CatalogSource, clock Clock) *OrderUsecase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &OrderUsecase{tx: tx, subs: subs, catalog: catalog, clock: clock}
}

// maxLineQuantity caps one line after duplicates are merged.
const maxLineQuantity = 100

// errKeyTaken: a concurrent request stored the same key first.
var errKeyTaken = errors.New("idempotency key taken")

type OrderLineInput struct {
	MenuItemID int64 `json:"menu_item_id"`
	Quantity   int64 `json:"quantity"`
}

// SubmitOrderInput is the POST /orders body. Prices are never sent.
type SubmitOrderInput struct {
	StudentName    string           `json:"student_name"`
	Items          []OrderLineInput `json:"items"`
	IsPreorder     bool             `json:"is_preorder"`
	Category       string           `json:"category,omitempty"`
	PaymentMethod  string           `json:"payment_method"`
	MessPassNumber string           `json:"mess_pass_number,omitempty"`
	// from the X-Idempotency-Key header
	IdempotencyKey string `json:"-"`
}

type OrderItemOutput struct {
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	UnitPrice  *int64 `json:"unit_price"`
	Quantity   int64  `json:"quantity"`
}

type OrderOutput struct {
	ID             int64             `json:"id"`
	UserID         int64             `json:"user_id"`
	StudentName    string            `json:"student_name"`
	IsPreorder     bool              `json:"is_preorder"`
	Category       string            `json:"category,omitempty"`
	PaymentMethod  string            `json:"payment_method"`
	MessPassNumber string            `json:"mess_pass_number,omitempty"`
	Status         string            `json:"status"`
	TotalPrice     int64             `json:"total_price"`
	CreatedAt      time.Time         `json:"created_at"`
	Items          []OrderItemOutput `json:"items"`
}

func (u *OrderUsecase) SubmitOrder(ctx context.Context, userID int64, in SubmitOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}
	if len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency key")
	}

	name := strings.TrimSpace(in.StudentName)
	if name == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	lines, err := mergeLines(in.Items)
	if err != nil {
		return OrderOutput{}, err
	}

	method := ordering.PaymentMethod(in.PaymentMethod)
	if !method.Valid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_method")
	}

	cat, err := u.catalog.StudentCatalog(ctx)
	if err != nil {
		return OrderOutput{}, err
	}

	category := ""
	if in.IsPreorder {
		c, ok := cat.FindCategory(strings.TrimSpace(in.Category))
		if !ok {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "unknown category")
		}
		category = c.Name
	}

	//メスパス払いは本人の有効なパスだけ
	pass := ""
	if method == ordering.PaymentMessPass {
		pass = strings.TrimSpace(in.MessPassNumber)
		if err := u.checkPass(ctx, userID, pass); err != nil {
			return OrderOutput{}, err
		}
	}

	// snapshot name and price from the menu the order was placed against
	items := make([]model.OrderItem, 0, len(lines))
	var total int64
	for _, l := range lines {
		it, ok := cat.FindItem(l.MenuItemID)
		if !ok {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "menu item no longer available")
		}
		if it.Price.Valid {
			// 桁あふれで合計が負にならないように
			if it.Price.Amount > 0 && l.Quantity > (math.MaxInt64-total)/it.Price.Amount {
				return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
			}
			total += it.Price.Amount * l.Quantity
		}
		items = append(items, model.OrderItem{
			MenuItemID:        it.ID,
			NameSnapshot:      it.Name,
			UnitPriceSnapshot: it.Price.Ptr(),
			Quantity:          l.Quantity,
		})
	}

	//注文処理はトランザクション
	var out OrderOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			return u.replay(ctx, r, existing, &out)
		}

		now := u.clock.Now()
		o := model.Order{
			UserID:         userID,
			StudentName:    name,
			IsPreorder:     in.IsPreorder,
			Category:       category,
			PaymentMethod:  method,
			MessPassNumber: pass,
			Status:         ordering.InitialStatus(in.IsPreorder),
			TotalPrice:     total,
			IdempotencyKey: key,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		// 注文作成
		orderID, err := r.Orders().Create(ctx, o)
		if err != nil {
			// 同時に同じキーが入った。このtxはもう使えないので外で取り直す
			if errors.Is(err, repo.ErrConflict) {
				return errKeyTaken
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.ID = orderID
		out = toOrderOutput(o, items)
		return nil
	})
	if errors.Is(err, errKeyTaken) {
		return u.replayByKey(ctx, userID, key)
	}
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// replayByKey reads the winning order in a new transaction.
func (u *OrderUsecase) replayByKey(ctx context.Context, userID int64, key string) (OrderOutput, error) {
	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !found {
			return NewHTTPError(http.StatusConflict, "idempotency conflict")
		}
		return u.replay(ctx, r, existing, &out)
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) replay(ctx context.Context, r repo.TxRepos, o model.Order, out *OrderOutput) error {
	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	*out = toOrderOutput(o, items)
	return nil
}

// checkPass: mess-pass payment needs the caller's own active pass.
func (u *OrderUsecase) checkPass(ctx context.Context, userID int64, pass string) error {
	if pass == "" {
		return NewHTTPError(http.StatusForbidden, "Invalid Mess Pass")
	}
	s, err := u.subs.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusForbidden, "Invalid Mess Pass")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	rec := toRecord(s)
	if !rec.CanPayWithPass() || rec.MessPassNumber != pass {
		return NewHTTPError(http.StatusForbidden, "Invalid Mess Pass")
	}
	return nil
}

// ListMyOrders is the student's history, newest first.
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page, limit int) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, page, limit)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs, err = withItems(ctx, r, orders)
		return err
	})
	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// GetMyOrder is one of the caller's orders; someone else's order is a 404.
func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		//他人の注文は「存在しない扱い」にする
		if errors.Is(err, repo.ErrNotFound) || (err == nil && o.UserID != userID) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return u.replay(ctx, r, o, &out)
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// mergeLines folds duplicate ids into one line, keeping first-seen order.
func mergeLines(in []OrderLineInput) ([]OrderLineInput, error) {
	if len(in) == 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}
	out := make([]OrderLineInput, 0, len(in))
	idx := make(map[int64]int, len(in))
	for _, l := range in {
		if l.MenuItemID <= 0 {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid menu_item_id")
		}
		if l.Quantity < 1 || l.Quantity > maxLineQuantity {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
		// 同じ商品はまとめて、まとめた後も上限チェック
		if i, ok := idx[l.MenuItemID]; ok {
			out[i].Quantity += l.Quantity
			if out[i].Quantity > maxLineQuantity {
				return nil, NewHTTPError(http.StatusBadRequest, "invalid quantity")
			}
			continue
		}
		idx[l.MenuItemID] = len(out)
		out = append(out, l)
	}
	return out, nil
}

// withItems loads the lines of a page of orders in one round trip.
func withItems(ctx context.Context, r repo.TxRepos, orders []model.Order) ([]OrderOutput, error) {
	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	byOrder, err := r.OrderItems().ListByOrderIDs(ctx, ids)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o, byOrder[o.ID]))
	}
	return outs, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			MenuItemID: it.MenuItemID,
			Name:       it.NameSnapshot,
			UnitPrice:  it.UnitPriceSnapshot,
			Quantity:   it.Quantity,
		})
	}

	return OrderOutput{
		ID:             o.ID,
		UserID:         o.UserID,
		StudentName:    o.StudentName,
		IsPreorder:     o.IsPreorder,
		Category:       o.Category,
		PaymentMethod:  string(o.PaymentMethod),
		MessPassNumber: o.MessPassNumber,
		Status:         string(o.Status),
		TotalPrice:     o.TotalPrice,
		CreatedAt:      o.CreatedAt,
		Items:          outItems,
	}
}

// ToOrder is the domain view of a wire order.
func (o OrderOutput) ToOrder() ordering.Order {
	items := make([]ordering.Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ordering.Item{ItemID: it.MenuItemID, Name: it.Name, Quantity: it.Quantity})
	}
	return ordering.Order{
		ID:             o.ID,
		StudentName:    o.StudentName,
		Items:          items,
		IsPreorder:     o.IsPreorder,
		Category:       o.Category,
		PaymentMethod:  ordering.PaymentMethod(o.PaymentMethod),
		MessPassNumber: o.MessPassNumber,
		Status:         ordering.Status(o.Status),
		CreatedAt:      o.CreatedAt,
	}
}

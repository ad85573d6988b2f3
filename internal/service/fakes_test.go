package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	dbmodel "github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/segmentio/kafka-go"
)

// 測試用in-memory實作
// 行為對齊真實repo的語意: GetProductByID查無回(nil,nil)、
// DeductStock為鎖內check-and-decrement

type fakeProductRepo struct {
	mu       sync.RWMutex
	products map[uint]*dbmodel.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uint]*dbmodel.Product)}
}

func (f *fakeProductRepo) put(p *dbmodel.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ProductID] = p
}

func (f *fakeProductRepo) CreateProduct(ctx context.Context, product *dbmodel.Product) error {
	f.put(product)
	return nil
}

func (f *fakeProductRepo) GetProductByID(ctx context.Context, id uint) (*dbmodel.Product, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetProductsByCategory(ctx context.Context, category string) ([]dbmodel.Product, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []dbmodel.Product
	for _, p := range f.products {
		if p.Category == category {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) GetProductsPaginated(ctx context.Context, page, pageSize int) ([]dbmodel.Product, int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []dbmodel.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) UpdateProduct(ctx context.Context, product *dbmodel.Product) error {
	f.put(product)
	return nil
}

func (f *fakeProductRepo) AddStock(ctx context.Context, id uint, quantity uint) error {
	return nil
}

func (f *fakeProductRepo) DeleteProduct(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

type fakeStockRepo struct {
	mu     sync.Mutex
	stocks map[uint]int
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{stocks: make(map[uint]int)}
}

func (f *fakeStockRepo) CreateStock(ctx context.Context, productID uint, stock uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stocks[productID] = int(stock)
	return nil
}

func (f *fakeStockRepo) GetStock(ctx context.Context, productID uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stock, ok := f.stocks[productID]
	if !ok {
		return 0, fmt.Errorf("%w: product %d", redis_repo.ErrStockNotFound, productID)
	}
	return stock, nil
}

func (f *fakeStockRepo) AddStock(ctx context.Context, productID uint, quantity uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stocks[productID] += int(quantity)
	return f.stocks[productID], nil
}

// 鎖內檢查加扣減，語意等同redis Lua script
func (f *fakeStockRepo) DeductStock(ctx context.Context, productID uint, quantity uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stock, ok := f.stocks[productID]
	if !ok {
		return 0, fmt.Errorf("%w: product %d", redis_repo.ErrStockNotFound, productID)
	}
	if stock < int(quantity) {
		return 0, fmt.Errorf("%w: product %d", redis_repo.ErrStockNotEnough, productID)
	}
	f.stocks[productID] = stock - int(quantity)
	return f.stocks[productID], nil
}

func (f *fakeStockRepo) DeleteStock(ctx context.Context, productID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stocks, productID)
	return nil
}

func (f *fakeStockRepo) current(productID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stocks[productID]
}

type fakeCartRepo struct {
	mu              sync.Mutex
	carts           map[int][]model.CartLine
	seq             int64
	failRemoveLines bool
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[int][]model.CartLine)}
}

func (f *fakeCartRepo) Get(ctx context.Context, userID int) (*model.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]model.CartLine, len(f.carts[userID]))
	copy(lines, f.carts[userID])
	return &model.Cart{UserID: userID, Lines: lines}, nil
}

func (f *fakeCartRepo) SetLine(ctx context.Context, userID int, productID uint, quantity int, snapshot model.Money) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, line := range f.carts[userID] {
		if line.ProductID == productID {
			f.carts[userID][i].Quantity = quantity
			f.carts[userID][i].SnapshotPrice = snapshot
			return nil
		}
	}
	f.seq++
	f.carts[userID] = append(f.carts[userID], model.CartLine{
		ProductID:     productID,
		Quantity:      quantity,
		SnapshotPrice: snapshot,
		Seq:           f.seq,
	})
	return nil
}

func (f *fakeCartRepo) ChangeQuantity(ctx context.Context, userID int, productID uint, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, line := range f.carts[userID] {
		if line.ProductID == productID {
			f.carts[userID][i].Quantity = quantity
			return nil
		}
	}
	return fmt.Errorf("%w: product %d", redis_repo.ErrCartLineNotFound, productID)
}

func (f *fakeCartRepo) RemoveLines(ctx context.Context, userID int, productIDs []uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRemoveLines {
		return errors.New("injected cart failure")
	}
	removed := make(map[uint]bool, len(productIDs))
	for _, id := range productIDs {
		removed[id] = true
	}
	var remaining []model.CartLine
	for _, line := range f.carts[userID] {
		if !removed[line.ProductID] {
			remaining = append(remaining, line)
		}
	}
	f.carts[userID] = remaining
	return nil
}

func (f *fakeCartRepo) Clear(ctx context.Context, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, userID)
	return nil
}

func (f *fakeCartRepo) lineCount(userID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.carts[userID])
}

type fakeOrderRepo struct {
	mu          sync.Mutex
	orders      map[string]*model.Order
	hardDeleted []string
	failCreate  bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*model.Order)}
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("injected db failure")
	}
	f.orders[order.OrderID] = order
	return nil
}

func (f *fakeOrderRepo) GetOrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[orderID], nil
}

func (f *fakeOrderRepo) GetOrdersByUserID(ctx context.Context, userID int) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) HardDeleteOrder(ctx context.Context, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.orders, orderID)
	f.hardDeleted = append(f.hardDeleted, orderID)
	return nil
}

func (f *fakeOrderRepo) orderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

type fakeProducer struct {
	mu       sync.Mutex
	messages []kafka.Message
}

func (f *fakeProducer) Produce(ctx context.Context, msgs []kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeProducer) Close() error {
	return nil
}

func (f *fakeProducer) messageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

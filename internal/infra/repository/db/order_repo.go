package db

import (
	"context"
	"errors"

	domain "github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"gorm.io/gorm"
)

// IOrderRepository 訂單持久化介面
// CreateOrder為單一transaction，訂單主檔與品項要嘛全部落地要嘛全部失敗
type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int) ([]domain.Order, error)
	// HardDeleteOrder 補償用，撤銷已寫入但後續步驟失敗的訂單
	HardDeleteOrder(ctx context.Context, orderID string) error
}

type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// 創建訂單
// 同一個tx內寫入訂單、品項，並同步扣減商品鏡像庫存
// 鏡像庫存僅供報表查詢，扣減不影響tx成敗 (權威庫存已在redis扣過)
func (s *OrderRepo) CreateOrder(ctx context.Context, order *domain.Order) error {
	dbOrder := toDbOrder(order)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dbOrder).Error; err != nil {
			return err
		}
		for _, item := range order.Lines {
			tx.Model(&model.Product{}).
				Where("product_id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
		}
		return nil
	})
}

func (s *OrderRepo) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").First(&order, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomainOrder(&order), nil
}

func (s *OrderRepo) GetOrdersByUserID(ctx context.Context, userID int) ([]domain.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).Preload("OrderItems").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	result := make([]domain.Order, 0, len(orders))
	for i := range orders {
		result = append(result, *toDomainOrder(&orders[i]))
	}
	return result, nil
}

// 硬刪除訂單
func (s *OrderRepo) HardDeleteOrder(ctx context.Context, orderID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("order_id = ?", orderID).Delete(&model.Order{}).Error
	})
}

func toDbOrder(order *domain.Order) *model.Order {
	items := make([]model.OrderItem, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, model.OrderItem{
			OrderID:     order.OrderID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Price:       line.UnitPrice.Amount,
		})
	}
	return &model.Order{
		OrderID:    order.OrderID,
		UserID:     order.UserID,
		OrderItems: items,
		Amount:     order.Amount.Amount,
		Currency:   order.Amount.Currency,
		State:      order.State,
		OrderDate:  order.OrderDate,
	}
}

func toDomainOrder(order *model.Order) *domain.Order {
	lines := make([]domain.OrderLine, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		lines = append(lines, domain.OrderLine{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   domain.Money{Amount: item.Price, Currency: order.Currency},
		})
	}
	return &domain.Order{
		OrderID:   order.OrderID,
		UserID:    order.UserID,
		Lines:     lines,
		Amount:    domain.Money{Amount: order.Amount, Currency: order.Currency},
		OrderDate: order.OrderDate,
		State:     order.State,
	}
}

var _ IOrderRepository = (*OrderRepo)(nil)

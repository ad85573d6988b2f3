package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
)

type ReconcileError error

// ErrCartCurrencyConflict 購物車內出現不同幣別
// 單一幣別catalog下不應該發生，視為資料不一致的致命錯誤，不做靜默轉換
var ErrCartCurrencyConflict ReconcileError = errors.New("cart currency conflict")

// IReconcileService 購物車對帳引擎
type IReconcileService interface {
	Reconcile(ctx context.Context, cart *model.Cart) (*model.ReconciliationResult, error)
}

// 對帳引擎為純讀取運算，不做任何mutation
// preview與正式結帳共用同一份邏輯，輸出順序與購物車加入順序一致
type ReconcileService struct {
	productRepo db.IProductRepository
	stockRepo   redis_repo.IStockRepository
}

func NewReconcileService(productRepo db.IProductRepository, stockRepo redis_repo.IStockRepository) *ReconcileService {
	if !util.HasImplementation(productRepo) {
		panic("ReconcileService dependency productRepo is nil")
	}
	if !util.HasImplementation(stockRepo) {
		panic("ReconcileService dependency stockRepo is nil")
	}
	return &ReconcileService{productRepo: productRepo, stockRepo: stockRepo}
}

// Reconcile 逐一核對購物車品項與catalog當下狀態
// 每個品項個別判定，避免單一品項不足導致整個購物車失敗:
//   - 商品不存在(含已下架) -> product-removed
//   - 庫存為0 -> out-of-stock
//   - 庫存小於需求量 -> quantity-exceeds-available (整筆丟棄，不做部分滿足)
//   - 其餘品項以catalog當下價格計入，不使用購物車快照價
//
// 總金額以decimal精確累加，跨幣別相加回傳ErrCartCurrencyConflict
func (s *ReconcileService) Reconcile(ctx context.Context, cart *model.Cart) (*model.ReconciliationResult, error) {
	result := &model.ReconciliationResult{
		ValidLines:    []model.OrderLine{},
		DiscardedRows: []model.UnorderableRow{},
	}

	for _, line := range cart.Lines {
		product, err := s.productRepo.GetProductByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get product %d failed: %w", line.ProductID, err)
		}
		if product == nil {
			result.DiscardedRows = append(result.DiscardedRows, model.UnorderableRow{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Reason:    model.DiscardProductRemoved,
			})
			continue
		}

		stock, err := s.stockRepo.GetStock(ctx, line.ProductID)
		if err != nil {
			// 商品存在但從未建立庫存，視為0
			if errors.Is(err, redis_repo.ErrStockNotFound) {
				stock = 0
			} else {
				return nil, fmt.Errorf("get stock %d failed: %w", line.ProductID, err)
			}
		}

		if stock == 0 {
			result.DiscardedRows = append(result.DiscardedRows, model.UnorderableRow{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Reason:    model.DiscardOutOfStock,
			})
			continue
		}

		if stock < line.Quantity {
			result.DiscardedRows = append(result.DiscardedRows, model.UnorderableRow{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Reason:    model.DiscardQuantityExceeded,
			})
			continue
		}

		unitPrice, err := model.NewMoney(product.Price, product.Currency)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog price for product %d: %w", line.ProductID, err)
		}

		result.ValidLines = append(result.ValidLines, model.OrderLine{
			ProductID:   product.ProductID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
		})
	}

	total, err := SumOrderLines(result.ValidLines)
	if err != nil {
		return nil, err
	}
	result.Total = total

	return result, nil
}

// SumOrderLines 計算品項小計總和
// 幣別以第一個品項為準，出現混幣回傳ErrCartCurrencyConflict
func SumOrderLines(lines []model.OrderLine) (model.Money, error) {
	if len(lines) == 0 {
		return model.Money{}, nil
	}

	total := model.ZeroMoney(lines[0].UnitPrice.Currency)
	for _, line := range lines {
		sum, err := total.Add(line.Subtotal())
		if err != nil {
			return model.Money{}, fmt.Errorf("%w: %v", ErrCartCurrencyConflict, err)
		}
		total = sum
	}
	return total, nil
}

var _ IReconcileService = (*ReconcileService)(nil)

package redis_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// IStockRepository 商品可售庫存存取介面
// redis為庫存唯一真相來源，扣減必須是原子的check-and-decrement
type IStockRepository interface {
	// CreateStock 建立商品庫存，上架時呼叫
	CreateStock(ctx context.Context, productID uint, stock uint) error

	// GetStock 取得商品庫存數量
	GetStock(ctx context.Context, productID uint) (int, error)

	// AddStock 增加庫存，補貨與補償回滾共用
	AddStock(ctx context.Context, productID uint, quantity uint) (int, error)

	// DeductStock 原子性扣減庫存，不足時整筆失敗不做部分扣減
	DeductStock(ctx context.Context, productID uint, quantity uint) (int, error)

	// DeleteStock 刪除商品庫存，下架時呼叫
	DeleteStock(ctx context.Context, productID uint) error
}

type StockRepoError error

var (
	ErrStockNotFound  StockRepoError = errors.New("product stock not found")
	ErrStockNotEnough StockRepoError = errors.New("product stock not enough")
)

type StockRepo struct {
	stockCache *redis.Client
}

func NewStockRepo(stockCache *redis.Client) *StockRepo {
	return &StockRepo{stockCache: stockCache}
}

// redis 商品庫存
// 結構: stock:{productID} -> 數量
func generateStockKey(productID uint) string {
	return fmt.Sprintf("stock:%d", productID)
}

func (s *StockRepo) CreateStock(ctx context.Context, productID uint, stock uint) error {
	return s.stockCache.Set(ctx, generateStockKey(productID), stock, 0).Err()
}

// 取得庫存數量
// 錯誤:
//   - ErrStockNotFound: 商品庫存不存在
//   - err: 其他錯誤
func (s *StockRepo) GetStock(ctx context.Context, productID uint) (int, error) {
	stock, err := s.stockCache.Get(ctx, generateStockKey(productID)).Int()
	if err == redis.Nil {
		return 0, fmt.Errorf("%w: product %d", ErrStockNotFound, productID)
	}
	if err != nil {
		return 0, err
	}
	return stock, nil
}

// 增加庫存數量
// INCRBY 會返回增加後的值
func (s *StockRepo) AddStock(ctx context.Context, productID uint, quantity uint) (int, error) {
	result := s.stockCache.IncrBy(ctx, generateStockKey(productID), int64(quantity))
	if err := result.Err(); err != nil {
		return 0, err
	}
	return int(result.Val()), nil
}

// 原子性扣減庫存
/*
	使用Lua確保檢查與扣減之間不會被其他結帳插隊
	返回值:
		- 扣減後的庫存數量
		- 錯誤:
			- ErrStockNotFound: 商品庫存不存在
			- ErrStockNotEnough: 庫存不足
			- err: 其他錯誤
*/
func (s *StockRepo) DeductStock(ctx context.Context, productID uint, quantity uint) (int, error) {
	const stockDeductionScript = `
	local key = KEYS[1]
	local quantity = tonumber(ARGV[1])

	local current_stock = redis.call('GET', key)
	if not current_stock then
		return -1
	end

	current_stock = tonumber(current_stock)

	if current_stock < quantity then
		return -2  -- 表示庫存不足
	end

	return redis.call('DECRBY', key, quantity)
	`

	result, err := s.stockCache.Eval(ctx, stockDeductionScript, []string{generateStockKey(productID)}, quantity).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to deduct stock: %w", err)
	}

	resultInt, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected result type: %T", result)
	}

	switch {
	case resultInt == -1:
		return 0, fmt.Errorf("%w: product %d", ErrStockNotFound, productID)
	case resultInt == -2:
		return 0, fmt.Errorf("%w: product %d", ErrStockNotEnough, productID)
	default:
		return int(resultInt), nil
	}
}

// DeleteStock 直接刪除庫存資料
func (s *StockRepo) DeleteStock(ctx context.Context, productID uint) error {
	return s.stockCache.Del(ctx, generateStockKey(productID)).Err()
}

// 確保 StockRepo 實現了 IStockRepository 介面
var _ IStockRepository = (*StockRepo)(nil)

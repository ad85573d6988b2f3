package redis_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	domain "github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

// ICartRepository 購物車存取介面
// 購物車只存在redis，結帳成功後消費掉的品項才會移除
// 同一使用者的購物車操作不會並發 (carts are not shared)，
// 跨品項不需要額外鎖
type ICartRepository interface {
	// Get 取得購物車，品項依加入順序排列；購物車不存在回傳空購物車
	Get(ctx context.Context, userID int) (*domain.Cart, error)

	// SetLine 新增或覆寫品項，新品項會取得遞增seq
	SetLine(ctx context.Context, userID int, productID uint, quantity int, snapshot domain.Money) error

	// ChangeQuantity 變更既有品項數量
	ChangeQuantity(ctx context.Context, userID int, productID uint, quantity int) error

	// RemoveLines 移除指定品項 (僅限這些品項)，結帳消費與手動移除共用
	RemoveLines(ctx context.Context, userID int, productIDs []uint) error

	// Clear 清空購物車
	Clear(ctx context.Context, userID int) error
}

type CartRepoError error

var ErrCartLineNotFound CartRepoError = errors.New("cart line not found")

type CartRepo struct {
	cartCache *redis.Client
}

func NewCartRepo(cartCache *redis.Client) *CartRepo {
	return &CartRepo{cartCache: cartCache}
}

func generateCartItemKey(userID int) string {
	return fmt.Sprintf("cart:%d:items", userID)
}

func generateCartMetaKey(userID int) string {
	return fmt.Sprintf("cart:%d:meta", userID)
}

// cartLineValue hash field的JSON值
// seq為購物車內遞增序號，讀取時依seq排序還原加入順序
type cartLineValue struct {
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
	Seq      int64  `json:"seq"`
}

func (r *CartRepo) Get(ctx context.Context, userID int) (*domain.Cart, error) {
	items, err := r.cartCache.HGetAll(ctx, generateCartItemKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}

	cart := &domain.Cart{UserID: userID}
	for field, value := range items {
		productID, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %s: %w", field, err)
		}

		var line cartLineValue
		if err := json.Unmarshal([]byte(value), &line); err != nil {
			return nil, fmt.Errorf("invalid cart line for product %s: %w", field, err)
		}

		snapshot, err := domain.NewMoneyFromString(line.Price, line.Currency)
		if err != nil {
			return nil, fmt.Errorf("invalid snapshot price for product %s: %w", field, err)
		}

		cart.Lines = append(cart.Lines, domain.CartLine{
			ProductID:     uint(productID),
			Quantity:      line.Quantity,
			SnapshotPrice: snapshot,
			Seq:           line.Seq,
		})
	}

	// 依seq還原加入順序
	sort.Slice(cart.Lines, func(i, j int) bool {
		return cart.Lines[i].Seq < cart.Lines[j].Seq
	})

	return cart, nil
}

// 新增或覆寫品項
// 既有品項沿用原seq，只更新數量與快照價
func (r *CartRepo) SetLine(ctx context.Context, userID int, productID uint, quantity int, snapshot domain.Money) error {
	itemsKey := generateCartItemKey(userID)
	field := strconv.FormatUint(uint64(productID), 10)

	seq, err := r.lineSeq(ctx, userID, itemsKey, field)
	if err != nil {
		return err
	}

	value, err := json.Marshal(cartLineValue{
		Quantity: quantity,
		Price:    snapshot.Amount.StringFixed(2),
		Currency: snapshot.Currency,
		Seq:      seq,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal cart line: %w", err)
	}

	if err := r.cartCache.HSet(ctx, itemsKey, field, value).Err(); err != nil {
		return fmt.Errorf("failed to set cart line: %w", err)
	}
	return nil
}

// 取得品項seq，新品項從meta counter取號
// 同一使用者的購物車操作為互斥，取號與寫入間不會有並發寫
func (r *CartRepo) lineSeq(ctx context.Context, userID int, itemsKey, field string) (int64, error) {
	existing, err := r.cartCache.HGet(ctx, itemsKey, field).Result()
	if err != nil && err != redis.Nil {
		return 0, fmt.Errorf("failed to read cart line: %w", err)
	}
	if err == nil {
		var line cartLineValue
		if err := json.Unmarshal([]byte(existing), &line); err != nil {
			return 0, fmt.Errorf("invalid cart line: %w", err)
		}
		return line.Seq, nil
	}

	seq, err := r.cartCache.HIncrBy(ctx, generateCartMetaKey(userID), "seq", 1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate cart line seq: %w", err)
	}
	return seq, nil
}

// 變更既有品項數量
// 錯誤:
//   - ErrCartLineNotFound: 品項不存在
func (r *CartRepo) ChangeQuantity(ctx context.Context, userID int, productID uint, quantity int) error {
	itemsKey := generateCartItemKey(userID)
	field := strconv.FormatUint(uint64(productID), 10)

	existing, err := r.cartCache.HGet(ctx, itemsKey, field).Result()
	if err == redis.Nil {
		return fmt.Errorf("%w: product %d", ErrCartLineNotFound, productID)
	}
	if err != nil {
		return fmt.Errorf("failed to read cart line: %w", err)
	}

	var line cartLineValue
	if err := json.Unmarshal([]byte(existing), &line); err != nil {
		return fmt.Errorf("invalid cart line: %w", err)
	}
	line.Quantity = quantity

	value, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("failed to marshal cart line: %w", err)
	}
	if err := r.cartCache.HSet(ctx, itemsKey, field, value).Err(); err != nil {
		return fmt.Errorf("failed to update cart line: %w", err)
	}
	return nil
}

// 移除指定品項
// 購物車變空時連同meta一併清除
func (r *CartRepo) RemoveLines(ctx context.Context, userID int, productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}

	itemsKey := generateCartItemKey(userID)
	fields := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		fields = append(fields, strconv.FormatUint(uint64(id), 10))
	}

	if err := r.cartCache.HDel(ctx, itemsKey, fields...).Err(); err != nil {
		return fmt.Errorf("failed to remove cart lines: %w", err)
	}

	remaining, err := r.cartCache.HLen(ctx, itemsKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check cart size: %w", err)
	}
	if remaining == 0 {
		return r.cartCache.Del(ctx, itemsKey, generateCartMetaKey(userID)).Err()
	}
	return nil
}

// 清空購物車
func (r *CartRepo) Clear(ctx context.Context, userID int) error {
	err := r.cartCache.Del(ctx, generateCartItemKey(userID), generateCartMetaKey(userID)).Err()
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

var _ ICartRepository = (*CartRepo)(nil)

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

type CartError error

var ErrProductNotFound CartError = errors.New("product not found")

// ICartService 購物車服務
// 購物車操作不碰庫存，庫存只在結帳commit時扣減
type ICartService interface {
	GetCart(ctx context.Context, userID int) (*model.Cart, error)
	// AddItem 加入品項並記錄當下價格快照，數量限制 [1, max]
	AddItem(ctx context.Context, userID int, productID uint, quantity int) error
	// ChangeQuantity 變更品項數量，範圍外直接回validation error
	ChangeQuantity(ctx context.Context, userID int, productID uint, quantity int) error
	RemoveItem(ctx context.Context, userID int, productID uint) error
	Clear(ctx context.Context, userID int) error
}

type CartService struct {
	cartRepo    redis_repo.ICartRepository
	productRepo db.IProductRepository
	maxQuantity int
}

func NewCartService(cartRepo redis_repo.ICartRepository, productRepo db.IProductRepository, maxQuantity int) *CartService {
	if !util.HasImplementation(cartRepo) {
		panic("CartService dependency cartRepo is nil")
	}
	if !util.HasImplementation(productRepo) {
		panic("CartService dependency productRepo is nil")
	}
	return &CartService{cartRepo: cartRepo, productRepo: productRepo, maxQuantity: maxQuantity}
}

func (s *CartService) GetCart(ctx context.Context, userID int) (*model.Cart, error) {
	return s.cartRepo.Get(ctx, userID)
}

// 加入購物車
// 快照價僅供顯示，結帳金額以catalog當下價格為準
func (s *CartService) AddItem(ctx context.Context, userID int, productID uint, quantity int) error {
	q, err := model.NewQuantity(quantity, s.maxQuantity)
	if err != nil {
		return err
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: product %d", ErrProductNotFound, productID)
	}

	snapshot, err := model.NewMoney(product.Price, product.Currency)
	if err != nil {
		return fmt.Errorf("invalid catalog price for product %d: %w", productID, err)
	}

	return s.cartRepo.SetLine(ctx, userID, productID, q.Int(), snapshot)
}

func (s *CartService) ChangeQuantity(ctx context.Context, userID int, productID uint, quantity int) error {
	q, err := model.NewQuantity(quantity, s.maxQuantity)
	if err != nil {
		return err
	}
	return s.cartRepo.ChangeQuantity(ctx, userID, productID, q.Int())
}

func (s *CartService) RemoveItem(ctx context.Context, userID int, productID uint) error {
	return s.cartRepo.RemoveLines(ctx, userID, []uint{productID})
}

func (s *CartService) Clear(ctx context.Context, userID int) error {
	return s.cartRepo.Clear(ctx, userID)
}

var _ ICartService = (*CartService)(nil)

package service

import (
	"context"
	"errors"
	"fmt"

	dbmodel "github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
)

// ICatalogService 商品目錄服務，管理端操作
type ICatalogService interface {
	// CreateProduct 上架商品，db主檔與redis庫存一起建立
	CreateProduct(ctx context.Context, product *dbmodel.Product, initialStock uint) error
	// GetProduct 取得商品與即時可售庫存
	GetProduct(ctx context.Context, id uint) (*dbmodel.Product, int, error)
	ListProducts(ctx context.Context, page, pageSize int) ([]dbmodel.Product, int64, error)
	ListProductsByCategory(ctx context.Context, category string) ([]dbmodel.Product, error)
	// Restock 補貨，redis權威庫存與db鏡像一起加
	Restock(ctx context.Context, id uint, quantity uint) (int, error)
	// DeleteProduct 下架，刪除後既有購物車品項會對帳成product-removed
	DeleteProduct(ctx context.Context, id uint) error
}

type CatalogService struct {
	productRepo db.IProductRepository
	stockRepo   redis_repo.IStockRepository
}

func NewCatalogService(productRepo db.IProductRepository, stockRepo redis_repo.IStockRepository) *CatalogService {
	if !util.HasImplementation(productRepo) {
		panic("CatalogService dependency productRepo is nil")
	}
	if !util.HasImplementation(stockRepo) {
		panic("CatalogService dependency stockRepo is nil")
	}
	return &CatalogService{productRepo: productRepo, stockRepo: stockRepo}
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *dbmodel.Product, initialStock uint) error {
	product.Stock = initialStock
	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return err
	}
	return s.stockRepo.CreateStock(ctx, product.ProductID, initialStock)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*dbmodel.Product, int, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if product == nil {
		return nil, 0, fmt.Errorf("%w: product %d", ErrProductNotFound, id)
	}

	stock, err := s.stockRepo.GetStock(ctx, id)
	if err != nil {
		if errors.Is(err, redis_repo.ErrStockNotFound) {
			return product, 0, nil
		}
		return nil, 0, err
	}
	return product, stock, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, page, pageSize int) ([]dbmodel.Product, int64, error) {
	return s.productRepo.GetProductsPaginated(ctx, page, pageSize)
}

func (s *CatalogService) ListProductsByCategory(ctx context.Context, category string) ([]dbmodel.Product, error) {
	return s.productRepo.GetProductsByCategory(ctx, category)
}

// 補貨
// redis為權威來源先加，db鏡像跟著加
func (s *CatalogService) Restock(ctx context.Context, id uint, quantity uint) (int, error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, fmt.Errorf("%w: product %d", ErrProductNotFound, id)
	}

	stock, err := s.stockRepo.AddStock(ctx, id, quantity)
	if err != nil {
		return 0, err
	}

	if err := s.productRepo.AddStock(ctx, id, quantity); err != nil {
		return stock, err
	}
	return stock, nil
}

// 下架商品
// 軟刪除主檔並移除庫存，之後對帳一律判定product-removed
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	return s.stockRepo.DeleteStock(ctx, id)
}

var _ ICatalogService = (*CatalogService)(nil)

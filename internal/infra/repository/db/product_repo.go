package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"gorm.io/gorm"
)

// IProductRepository 商品主檔存取介面
// 價格、幣別、名稱以db為權威來源
// 庫存權威來源在redis，db的stock欄位只是鏡像
type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	// GetProductByID 查無商品時回傳 (nil, nil)，由呼叫端決定語意
	GetProductByID(ctx context.Context, id uint) (*model.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]model.Product, error)
	GetProductsPaginated(ctx context.Context, page, pageSize int) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	// AddStock 增加鏡像庫存欄位
	AddStock(ctx context.Context, id uint, quantity uint) error
	// DeleteProduct 軟刪除，刪除後GetProductByID視為不存在
	DeleteProduct(ctx context.Context, id uint) error
}

type ProductRepo struct {
	db *DbDao
}

func NewProductRepo(db *DbDao) *ProductRepo {
	return &ProductRepo{db: db}
}

func (s *ProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

func (s *ProductRepo) GetProductByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductRepo) GetProductsByCategory(ctx context.Context, category string) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Where("category = ?", category).Find(&products).Error
	return products, err
}

// 分頁查詢商品
func (s *ProductRepo) GetProductsPaginated(ctx context.Context, page, pageSize int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	offset := (page - 1) * pageSize

	// 計算總數
	s.db.WithContext(ctx).Model(&model.Product{}).Count(&total)

	// 分頁查詢
	err := s.db.WithContext(ctx).Offset(offset).Limit(pageSize).Find(&products).Error

	return products, total, err
}

func (s *ProductRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Save(product).Error
}

// 增加鏡像庫存
func (s *ProductRepo) AddStock(ctx context.Context, id uint, quantity uint) error {
	return s.db.WithContext(ctx).Model(&model.Product{}).
		Where("product_id = ?", id).
		Update("stock", gorm.Expr("stock + ?", quantity)).Error
}

// 軟刪除商品
func (s *ProductRepo) DeleteProduct(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

var _ IProductRepository = (*ProductRepo)(nil)

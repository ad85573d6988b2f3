package service

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	dbmodel "github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ReconcileServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	productRepo *fakeProductRepo
	stockRepo   *fakeStockRepo
	service     *ReconcileService
}

func (s *ReconcileServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.productRepo = newFakeProductRepo()
	s.stockRepo = newFakeStockRepo()
	s.service = NewReconcileService(s.productRepo, s.stockRepo)
}

func TestReconcileServiceSuite(t *testing.T) {
	suite.Run(t, new(ReconcileServiceTestSuite))
}

func (s *ReconcileServiceTestSuite) seedProduct(id uint, name, price string, stock int) {
	s.productRepo.put(&dbmodel.Product{
		ProductID: id,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Currency:  "TWD",
	})
	if stock >= 0 {
		s.Require().NoError(s.stockRepo.CreateStock(s.ctx, id, uint(stock)))
	}
}

func cartOf(userID int, lines ...model.CartLine) *model.Cart {
	return &model.Cart{UserID: userID, Lines: lines}
}

func snapshot(price string) model.Money {
	m, _ := model.NewMoneyFromString(price, "TWD")
	return m
}

func (s *ReconcileServiceTestSuite) TestEmptyCart() {
	result, err := s.service.Reconcile(s.ctx, cartOf(1))
	require.NoError(s.T(), err)
	require.Empty(s.T(), result.ValidLines)
	require.Empty(s.T(), result.DiscardedRows)
	require.True(s.T(), result.Total.Amount.IsZero())
}

// 商品不存在(含已下架)的品項列為product-removed
func (s *ReconcileServiceTestSuite) TestProductRemoved() {
	cart := cartOf(1, model.CartLine{ProductID: 99, Quantity: 2, SnapshotPrice: snapshot("10.00"), Seq: 1})

	result, err := s.service.Reconcile(s.ctx, cart)
	require.NoError(s.T(), err)
	require.Empty(s.T(), result.ValidLines)
	require.Len(s.T(), result.DiscardedRows, 1)
	require.Equal(s.T(), model.DiscardProductRemoved, result.DiscardedRows[0].Reason)
	require.Equal(s.T(), uint(99), result.DiscardedRows[0].ProductID)
	require.Equal(s.T(), 2, result.DiscardedRows[0].Quantity)
}

// 庫存為0列out-of-stock，庫存不足列quantity-exceeds-available
// 不足時整筆丟棄，不做部分滿足
func (s *ReconcileServiceTestSuite) TestStockDiscardReasons() {
	s.seedProduct(1, "sold out", "10.00", 0)
	s.seedProduct(2, "almost gone", "20.00", 3)

	cart := cartOf(1,
		model.CartLine{ProductID: 1, Quantity: 1, SnapshotPrice: snapshot("10.00"), Seq: 1},
		model.CartLine{ProductID: 2, Quantity: 5, SnapshotPrice: snapshot("20.00"), Seq: 2},
	)

	result, err := s.service.Reconcile(s.ctx, cart)
	require.NoError(s.T(), err)
	require.Empty(s.T(), result.ValidLines)
	require.Len(s.T(), result.DiscardedRows, 2)
	require.Equal(s.T(), model.DiscardOutOfStock, result.DiscardedRows[0].Reason)
	require.Equal(s.T(), model.DiscardQuantityExceeded, result.DiscardedRows[1].Reason)
	// 整筆丟棄，數量維持原需求量
	require.Equal(s.T(), 5, result.DiscardedRows[1].Quantity)
}

// 商品存在但從未建立庫存key，視為庫存0
func (s *ReconcileServiceTestSuite) TestMissingStockKeyTreatedAsZero() {
	s.seedProduct(1, "no stock key", "10.00", -1)

	cart := cartOf(1, model.CartLine{ProductID: 1, Quantity: 1, SnapshotPrice: snapshot("10.00"), Seq: 1})

	result, err := s.service.Reconcile(s.ctx, cart)
	require.NoError(s.T(), err)
	require.Len(s.T(), result.DiscardedRows, 1)
	require.Equal(s.T(), model.DiscardOutOfStock, result.DiscardedRows[0].Reason)
}

// 結帳金額以catalog當下價格為準，不使用購物車快照價
func (s *ReconcileServiceTestSuite) TestAuthoritativePriceOverSnapshot() {
	s.seedProduct(1, "repriced", "10.00", 10)

	// 加入購物車時價格是9.00，之後catalog調漲到10.00
	cart := cartOf(1, model.CartLine{ProductID: 1, Quantity: 2, SnapshotPrice: snapshot("9.00"), Seq: 1})

	result, err := s.service.Reconcile(s.ctx, cart)
	require.NoError(s.T(), err)
	require.Len(s.T(), result.ValidLines, 1)
	require.True(s.T(), result.ValidLines[0].UnitPrice.Amount.Equal(decimal.RequireFromString("10.00")))
	require.True(s.T(), result.Total.Amount.Equal(decimal.RequireFromString("20.00")))
	require.Equal(s.T(), "TWD", result.Total.Currency)
}

// 輸出順序與購物車加入順序一致，混合可成單與丟棄品項
func (s *ReconcileServiceTestSuite) TestMixedCartKeepsOrder() {
	s.seedProduct(1, "first", "10.00", 10)
	s.seedProduct(3, "third", "5.50", 4)

	cart := cartOf(1,
		model.CartLine{ProductID: 1, Quantity: 1, SnapshotPrice: snapshot("10.00"), Seq: 1},
		model.CartLine{ProductID: 2, Quantity: 1, SnapshotPrice: snapshot("1.00"), Seq: 2},
		model.CartLine{ProductID: 3, Quantity: 2, SnapshotPrice: snapshot("5.50"), Seq: 3},
	)

	result, err := s.service.Reconcile(s.ctx, cart)
	require.NoError(s.T(), err)
	require.Len(s.T(), result.ValidLines, 2)
	require.Equal(s.T(), uint(1), result.ValidLines[0].ProductID)
	require.Equal(s.T(), uint(3), result.ValidLines[1].ProductID)
	require.Equal(s.T(), "first", result.ValidLines[0].ProductName)
	require.Len(s.T(), result.DiscardedRows, 1)
	require.Equal(s.T(), uint(2), result.DiscardedRows[0].ProductID)
	// 10.00 + 5.50*2
	require.True(s.T(), result.Total.Amount.Equal(decimal.RequireFromString("21.00")))
}

// 對帳為純讀取，重複呼叫結果一致且不動到任何狀態
func (s *ReconcileServiceTestSuite) TestReconcileIsIdempotent() {
	s.seedProduct(1, "stable", "10.00", 5)
	cart := cartOf(1, model.CartLine{ProductID: 1, Quantity: 2, SnapshotPrice: snapshot("10.00"), Seq: 1})

	first, err := s.service.Reconcile(s.ctx, cart)
	require.NoError(s.T(), err)
	second, err := s.service.Reconcile(s.ctx, cart)
	require.NoError(s.T(), err)

	require.Equal(s.T(), first, second)
	require.Equal(s.T(), 5, s.stockRepo.current(1))
}

// 混幣購物車視為資料不一致，直接回錯誤
func (s *ReconcileServiceTestSuite) TestCurrencyConflict() {
	s.seedProduct(1, "twd item", "10.00", 5)
	s.productRepo.put(&dbmodel.Product{
		ProductID: 2,
		Name:      "usd item",
		Price:     decimal.RequireFromString("3.00"),
		Currency:  "USD",
	})
	s.Require().NoError(s.stockRepo.CreateStock(s.ctx, 2, 5))

	cart := cartOf(1,
		model.CartLine{ProductID: 1, Quantity: 1, SnapshotPrice: snapshot("10.00"), Seq: 1},
		model.CartLine{ProductID: 2, Quantity: 1, SnapshotPrice: snapshot("3.00"), Seq: 2},
	)

	_, err := s.service.Reconcile(s.ctx, cart)
	require.ErrorIs(s.T(), err, ErrCartCurrencyConflict)
}

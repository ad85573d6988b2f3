package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	evt_model "github.com/RoyceAzure/lab/storefront/internal/domain/model/event"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type CheckoutError error

var errOrderPersistFailed CheckoutError = errors.New("order persist failed")

// ICheckoutService 結帳協調者
type ICheckoutService interface {
	// PreviewCheckout 試算結帳結果，純讀取，無任何副作用
	PreviewCheckout(ctx context.Context, userID int) (*model.ReconciliationResult, error)

	// PlaceOrder 正式下單
	PlaceOrder(ctx context.Context, userID int) (*model.PlacementResult, error)
}

// 結帳協調者
// 對帳(純運算)與實際落地(扣庫存/寫訂單/清購物車)分離，
// 落地失敗一律補償回滾，不會留下部分成立的訂單
type CheckoutService struct {
	reconcileService IReconcileService
	cartRepo         redis_repo.ICartRepository
	stockRepo        redis_repo.IStockRepository
	orderRepo        db.IOrderRepository
	orderProducer    producer.Producer
	logger           *zerolog.Logger
}

func NewCheckoutService(
	reconcileService IReconcileService,
	cartRepo redis_repo.ICartRepository,
	stockRepo redis_repo.IStockRepository,
	orderRepo db.IOrderRepository,
	orderProducer producer.Producer,
	logger *zerolog.Logger,
) *CheckoutService {
	if !util.HasImplementation(reconcileService) {
		panic("CheckoutService dependency reconcileService is nil")
	}
	if !util.HasImplementation(cartRepo) {
		panic("CheckoutService dependency cartRepo is nil")
	}
	if !util.HasImplementation(stockRepo) {
		panic("CheckoutService dependency stockRepo is nil")
	}
	if !util.HasImplementation(orderRepo) {
		panic("CheckoutService dependency orderRepo is nil")
	}
	if orderProducer == nil {
		panic("CheckoutService dependency orderProducer is nil")
	}
	if logger == nil {
		panic("CheckoutService dependency logger is nil")
	}

	return &CheckoutService{
		reconcileService: reconcileService,
		cartRepo:         cartRepo,
		stockRepo:        stockRepo,
		orderRepo:        orderRepo,
		orderProducer:    orderProducer,
		logger:           logger,
	}
}

func (s *CheckoutService) PreviewCheckout(ctx context.Context, userID int) (*model.ReconciliationResult, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.reconcileService.Reconcile(ctx, cart)
}

// PlaceOrder 正式下單
// 1. 對帳取得可成單品項
// 2. 逐品項原子扣庫存，扣失敗的品項改列out-of-stock後重算金額
//    (commit時的補償性複檢，不重跑整個對帳，也不等待競爭中的庫存)
// 3. 寫入訂單、移除已消費的購物車品項，任一步失敗全部回滾
// 4. 成功後異步發佈OrderCreated事件，發佈失敗不影響訂單
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID int) (*model.PlacementResult, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	reconciled, err := s.reconcileService.Reconcile(ctx, cart)
	if err != nil {
		return nil, err
	}

	discarded := reconciled.DiscardedRows
	if len(reconciled.ValidLines) == 0 {
		return emptyOrderResult(discarded), nil
	}

	// 逐品項原子扣庫存
	// 對帳與commit之間庫存可能已被並發結帳消費，
	// 扣不到的品項直接改列discarded，輸家不重試不等待
	committed := make([]model.OrderLine, 0, len(reconciled.ValidLines))
	for _, line := range reconciled.ValidLines {
		_, err := s.stockRepo.DeductStock(ctx, line.ProductID, uint(line.Quantity))
		if err != nil {
			if errors.Is(err, redis_repo.ErrStockNotEnough) || errors.Is(err, redis_repo.ErrStockNotFound) {
				discarded = append(discarded, model.UnorderableRow{
					ProductID: line.ProductID,
					Quantity:  line.Quantity,
					Reason:    model.DiscardOutOfStock,
				})
				continue
			}
			// 基礎設施錯誤，回滾已扣的庫存
			s.restoreStock(ctx, committed)
			return nil, fmt.Errorf("deduct stock for product %d failed: %w", line.ProductID, err)
		}
		committed = append(committed, line)
	}

	if len(committed) == 0 {
		return emptyOrderResult(discarded), nil
	}

	// 複檢後重算金額，只計入實際扣到庫存的品項
	total, err := SumOrderLines(committed)
	if err != nil {
		s.restoreStock(ctx, committed)
		return nil, err
	}

	order := &model.Order{
		OrderID:   util.GenerateOrderIDByUUID(),
		UserID:    userID,
		Lines:     committed,
		Amount:    total,
		OrderDate: time.Now().UTC(),
		State:     model.OrderStateCreated,
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		// 補償機制 訂單寫入失敗視同整筆結帳失敗
		s.restoreStock(ctx, committed)
		return nil, fmt.Errorf("%w: %v", errOrderPersistFailed, err)
	}

	// 只移除已消費的品項，discarded品項留在購物車給使用者處理
	consumedIDs := make([]uint, 0, len(committed))
	for _, line := range committed {
		consumedIDs = append(consumedIDs, line.ProductID)
	}
	if err := s.cartRepo.RemoveLines(ctx, userID, consumedIDs); err != nil {
		// all-or-nothing: 購物車清除失敗就撤單還庫存
		if delErr := s.orderRepo.HardDeleteOrder(ctx, order.OrderID); delErr != nil {
			s.logger.Error().Err(delErr).Str("order_id", order.OrderID).Msg("failed to revert order after cart clear failure")
		}
		s.restoreStock(ctx, committed)
		return nil, fmt.Errorf("remove consumed cart lines failed: %w", err)
	}

	// 次要事件發布，有錯誤會記錄，交由後續程序處理
	go s.produceOrderCreatedEvent(userID, order)

	return &model.PlacementResult{
		Success:       true,
		Order:         order,
		DiscardedRows: discarded,
	}, nil
}

func emptyOrderResult(discarded []model.UnorderableRow) *model.PlacementResult {
	return &model.PlacementResult{
		Success:       false,
		DiscardedRows: discarded,
		ErrorCode:     model.ErrorCodeEmptyOrder,
	}
}

// restoreStock 回滾已扣的庫存
// 盡力而為，失敗記log待後續人工或排程修復
func (s *CheckoutService) restoreStock(ctx context.Context, lines []model.OrderLine) {
	for _, line := range lines {
		if _, err := s.stockRepo.AddStock(ctx, line.ProductID, uint(line.Quantity)); err != nil {
			s.logger.Error().Err(err).
				Uint("product_id", line.ProductID).
				Int("quantity", line.Quantity).
				Msg("failed to restore stock during rollback")
		}
	}
}

// 事件發布與訂單成立脫鉤，消費端失敗不會回滾訂單
func (s *CheckoutService) produceOrderCreatedEvent(userID int, order *model.Order) {
	evt := evt_model.NewOrderCreatedEvent(order)
	msg, err := prepareEventMessage(userID, evt_model.OrderCreatedEventName, evt)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.OrderID).Msg("failed to prepare order created event")
		return
	}

	if err := s.orderProducer.Produce(context.Background(), []kafka.Message{msg}); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.OrderID).Msg("failed to produce order created event")
	}
}

// 通用的事件消息準備函數
// key使用userID，同一使用者的事件保證進同一分區
func prepareEventMessage(userID int, eventType evt_model.EventType, payload interface{}) (kafka.Message, error) {
	eventBytes, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(strconv.Itoa(userID)),
		Value: eventBytes,
		Headers: []kafka.Header{
			{
				Key:   "event_type",
				Value: []byte(eventType),
			},
		},
	}, nil
}

var _ ICheckoutService = (*CheckoutService)(nil)

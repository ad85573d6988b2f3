package handler

import (
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/go-chi/chi/v5"
)

type CheckoutHandler struct {
	checkoutService service.ICheckoutService
	orderRepo       db.IOrderRepository
}

func NewCheckoutHandler(checkoutService service.ICheckoutService, orderRepo db.IOrderRepository) *CheckoutHandler {
	if checkoutService == nil {
		panic("checkoutService cannot be nil")
	}
	if orderRepo == nil {
		panic("orderRepo cannot be nil")
	}
	return &CheckoutHandler{
		checkoutService: checkoutService,
		orderRepo:       orderRepo,
	}
}

func parseUserID(r *http.Request) (int, bool) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || userID <= 0 {
		return 0, false
	}
	return userID, true
}

// 結帳試算
// 純讀取，重複呼叫結果一致
func (h *CheckoutHandler) Preview(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid user id")
		return
	}

	result, err := h.checkoutService.PreviewCheckout(r.Context(), userID)
	if err != nil {
		api.ErrorJSON(w, http.StatusInternalServerError, "preview checkout failed")
		return
	}

	api.SuccessJSON(w, result)
}

// 下單
// EMPTY_ORDER等領域結果以200回傳，呼叫端依success/error_code判斷
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid user id")
		return
	}

	result, err := h.checkoutService.PlaceOrder(r.Context(), userID)
	if err != nil {
		api.ErrorJSON(w, http.StatusInternalServerError, "place order failed")
		return
	}

	api.SuccessJSON(w, result)
}

func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid user id")
		return
	}

	orders, err := h.orderRepo.GetOrdersByUserID(r.Context(), userID)
	if err != nil {
		api.ErrorJSON(w, http.StatusInternalServerError, "list orders failed")
		return
	}

	api.SuccessJSON(w, orders)
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cartService service.ICartService
}

func NewCartHandler(cartService service.ICartService) *CartHandler {
	if cartService == nil {
		panic("cartService cannot be nil")
	}
	return &CartHandler{cartService: cartService}
}

func parseProductID(r *http.Request) (uint, bool) {
	productID, err := strconv.ParseUint(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID == 0 {
		return 0, false
	}
	return uint(productID), true
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid user id")
		return
	}

	cart, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		api.ErrorJSON(w, http.StatusInternalServerError, "get cart failed")
		return
	}

	api.SuccessJSON(w, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var addDTO dto.AddCartItemDTO
	if err := json.NewDecoder(r.Body).Decode(&addDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.cartService.AddItem(r.Context(), userID, addDTO.ProductID, addDTO.Quantity)
	if err != nil {
		writeCartError(w, err)
		return
	}

	api.SuccessJSON(w, nil)
}

func (h *CartHandler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid user id")
		return
	}
	productID, ok := parseProductID(r)
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var changeDTO dto.ChangeQuantityDTO
	if err := json.NewDecoder(r.Body).Decode(&changeDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.cartService.ChangeQuantity(r.Context(), userID, productID, changeDTO.Quantity)
	if err != nil {
		writeCartError(w, err)
		return
	}

	api.SuccessJSON(w, nil)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid user id")
		return
	}
	productID, ok := parseProductID(r)
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.cartService.RemoveItem(r.Context(), userID, productID); err != nil {
		api.ErrorJSON(w, http.StatusInternalServerError, "remove cart item failed")
		return
	}

	api.SuccessJSON(w, nil)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(r)
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.cartService.Clear(r.Context(), userID); err != nil {
		api.ErrorJSON(w, http.StatusInternalServerError, "clear cart failed")
		return
	}

	api.SuccessJSON(w, nil)
}

// 驗證類錯誤回4xx，其餘視為系統錯誤
func writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrQuantityTooSmall), errors.Is(err, model.ErrQuantityExceedsLimit):
		api.ErrorJSON(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrProductNotFound), errors.Is(err, redis_repo.ErrCartLineNotFound):
		api.ErrorJSON(w, http.StatusNotFound, err.Error())
	default:
		api.ErrorJSON(w, http.StatusInternalServerError, "cart operation failed")
	}
}

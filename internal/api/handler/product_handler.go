package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	dbmodel "github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	catalogService service.ICatalogService
}

func NewProductHandler(catalogService service.ICatalogService) *ProductHandler {
	if catalogService == nil {
		panic("catalogService cannot be nil")
	}
	return &ProductHandler{catalogService: catalogService}
}

// 上架商品
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var createDTO dto.CreateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&createDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	price, err := decimal.NewFromString(createDTO.Price)
	if err != nil || price.IsNegative() {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid price")
		return
	}
	if createDTO.Currency == "" {
		api.ErrorJSON(w, http.StatusBadRequest, "currency is required")
		return
	}

	product := &dbmodel.Product{
		Code:        createDTO.Code,
		Name:        createDTO.Name,
		Price:       price,
		Currency:    createDTO.Currency,
		Category:    createDTO.Category,
		Description: createDTO.Description,
	}

	if err := h.catalogService.CreateProduct(r.Context(), product, createDTO.InitialStock); err != nil {
		api.ErrorJSON(w, http.StatusInternalServerError, "create product failed")
		return
	}

	api.SuccessJSON(w, dto.ConvertProductToDTO(product, int(createDTO.InitialStock)))
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, stock, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			api.ErrorJSON(w, http.StatusNotFound, err.Error())
			return
		}
		api.ErrorJSON(w, http.StatusInternalServerError, "get product failed")
		return
	}

	api.SuccessJSON(w, dto.ConvertProductToDTO(product, stock))
}

// 商品列表
// 帶category參數時依分類查詢，否則分頁查全部
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		products, err := h.catalogService.ListProductsByCategory(r.Context(), category)
		if err != nil {
			api.ErrorJSON(w, http.StatusInternalServerError, "list products failed")
			return
		}
		api.SuccessJSON(w, convertProductList(products, int64(len(products))))
		return
	}

	page, pageSize := parsePagination(r)
	products, total, err := h.catalogService.ListProducts(r.Context(), page, pageSize)
	if err != nil {
		api.ErrorJSON(w, http.StatusInternalServerError, "list products failed")
		return
	}

	api.SuccessJSON(w, convertProductList(products, total))
}

// 補貨
func (h *ProductHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var restockDTO dto.RestockDTO
	if err := json.NewDecoder(r.Body).Decode(&restockDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if restockDTO.Quantity == 0 {
		api.ErrorJSON(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	stock, err := h.catalogService.Restock(r.Context(), id, restockDTO.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			api.ErrorJSON(w, http.StatusNotFound, err.Error())
			return
		}
		api.ErrorJSON(w, http.StatusInternalServerError, "restock failed")
		return
	}

	api.SuccessJSON(w, map[string]int{"stock": stock})
}

// 下架商品
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		api.ErrorJSON(w, http.StatusInternalServerError, "delete product failed")
		return
	}

	api.SuccessJSON(w, nil)
}

func parseID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parsePagination(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func convertProductList(products []dbmodel.Product, total int64) dto.ProductListDTO {
	list := dto.ProductListDTO{Total: total, Products: make([]dto.ProductDTO, 0, len(products))}
	for i := range products {
		list.Products = append(list.Products, dto.ConvertProductToDTO(&products[i], int(products[i].Stock)))
	}
	return list
}

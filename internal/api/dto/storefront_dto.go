package dto

import (
	dbmodel "github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
)

type AddCartItemDTO struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type ChangeQuantityDTO struct {
	Quantity int `json:"quantity"`
}

type CreateProductDTO struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	Currency     string `json:"currency"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	InitialStock uint   `json:"initial_stock"`
}

type RestockDTO struct {
	Quantity uint `json:"quantity"`
}

type ProductDTO struct {
	ProductID   uint   `json:"product_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func ConvertProductToDTO(product *dbmodel.Product, stock int) ProductDTO {
	return ProductDTO{
		ProductID:   product.ProductID,
		Code:        product.Code,
		Name:        product.Name,
		Price:       product.Price.StringFixed(2),
		Currency:    product.Currency,
		Stock:       stock,
		Category:    product.Category,
		Description: product.Description,
	}
}

type ProductListDTO struct {
	Products []ProductDTO `json:"products"`
	Total    int64        `json:"total"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductVariantInput variante enviada al crear/actualizar un producto.
type ProductVariantInput struct {
	Name     string          `json:"name" validate:"required,min=1,max=100"`
	Price    decimal.Decimal `json:"price"`
	IsActive *bool           `json:"is_active"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	BranchID          string                `json:"branch_id" validate:"required"`
	Name              string                `json:"name" validate:"required,min=1,max=200"`
	Category          string                `json:"category" validate:"omitempty,max=100"`
	ProductUnit       string                `json:"product_unit" validate:"omitempty,max=50"`
	SaleUnit          string                `json:"sale_unit" validate:"omitempty,max=50"`
	BasePrice         decimal.Decimal       `json:"base_price"`
	LowStockThreshold int                   `json:"low_stock_threshold" validate:"min=0"`
	IsActive          *bool                 `json:"is_active"`
	Variants          []ProductVariantInput `json:"variants" validate:"omitempty,dive"`
}

// UpdateProductRequest entrada para actualizar un producto. Variants != nil reemplaza todas.
type UpdateProductRequest struct {
	Name              *string               `json:"name" validate:"omitempty,min=1,max=200"`
	Category          *string               `json:"category" validate:"omitempty,max=100"`
	ProductUnit       *string               `json:"product_unit" validate:"omitempty,max=50"`
	SaleUnit          *string               `json:"sale_unit" validate:"omitempty,max=50"`
	BasePrice         *decimal.Decimal      `json:"base_price"`
	LowStockThreshold *int                  `json:"low_stock_threshold" validate:"omitempty,min=0"`
	IsActive          *bool                 `json:"is_active"`
	Variants          []ProductVariantInput `json:"variants" validate:"omitempty,dive"`
}

// ProductVariantResponse salida de una variante.
type ProductVariantResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	IsActive bool            `json:"is_active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                string                   `json:"id"`
	BranchID          string                   `json:"branch_id"`
	Name              string                   `json:"name"`
	Category          string                   `json:"category"`
	ProductUnit       string                   `json:"product_unit"`
	SaleUnit          string                   `json:"sale_unit"`
	BasePrice         decimal.Decimal          `json:"base_price"`
	IsActive          bool                     `json:"is_active"`
	LowStockThreshold int                      `json:"low_stock_threshold"`
	Variants          []ProductVariantResponse `json:"variants"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

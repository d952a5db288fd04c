// Package store provides an interface for inventory storage operations.
package store

import (
	"context"

	"github.com/abgdnv/inventory/internal/store/db"
)

// InventoryStore abstracts product and stock persistence.
type InventoryStore interface {
	// CreateProduct inserts a product and returns its generated id.
	CreateProduct(ctx context.Context, params *db.CreateProductParams) (int64, error)

	// CreateStock inserts the zeroed stock row for a product.
	// Returns ErrStockExists if the row is already present and ErrProductNotFound if the product is missing.
	CreateStock(ctx context.Context, productID int64) error

	// CreateProductWithStock inserts a product and its stock row in one transaction.
	CreateProductWithStock(ctx context.Context, params *db.CreateProductParams) (int64, error)

	// FindProductByID returns ErrProductNotFound if no product exists with the given id.
	FindProductByID(ctx context.Context, id int64) (*db.Product, error)

	// FindAllProducts returns all products ordered by id, or an empty slice.
	FindAllProducts(ctx context.Context) ([]db.Product, error)

	// UpdateProduct replaces all attributes of a product and returns the affected row count.
	// Returns ErrProductNotFound if no product exists with the given id.
	UpdateProduct(ctx context.Context, params *db.UpdateProductParams) (int64, error)

	// DeleteProduct removes a product together with its stock row.
	// Returns ErrProductNotFound if no product exists with the given id.
	DeleteProduct(ctx context.Context, id int64) (int64, error)

	// SearchProducts returns products whose field equals value.
	// Returns ErrProductNotFound when nothing matches.
	SearchProducts(ctx context.Context, field SearchField, value string) ([]db.Product, error)

	// FindStockByProductID returns ErrStockNotFound if the product has no stock row.
	FindStockByProductID(ctx context.Context, productID int64) (*db.Stock, error)

	// UpdateStock replaces amount and dates of a stock row and returns the affected row count.
	// Returns ErrNegativeAmount for amounts below zero and ErrStockNotFound if the row is missing.
	UpdateStock(ctx context.Context, params *db.UpdateStockParams) (int64, error)

	// FindProductsWithoutStock lists ids of products that have no stock row.
	FindProductsWithoutStock(ctx context.Context) ([]int64, error)

	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error
}

package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const productColumns = `product_id, product_name, category, brand, description, unit_size, supplier_id, supplier_name, contact_information, barcode, location`

const createProduct = `-- name: CreateProduct :one
INSERT INTO products (product_name, category, brand, description, unit_size, supplier_id, supplier_name, contact_information, barcode, location)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING product_id
`

type CreateProductParams struct {
	ProductName        *string `json:"product_name"`
	Category           *string `json:"category"`
	Brand              *string `json:"brand"`
	Description        *string `json:"description"`
	UnitSize           *string `json:"unit_size"`
	SupplierID         *int64  `json:"supplier_id"`
	SupplierName       *string `json:"supplier_name"`
	ContactInformation *string `json:"contact_information"`
	Barcode            *string `json:"barcode"`
	Location           *string `json:"location"`
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (int64, error) {
	row := q.db.QueryRow(ctx, createProduct,
		arg.ProductName,
		arg.Category,
		arg.Brand,
		arg.Description,
		arg.UnitSize,
		arg.SupplierID,
		arg.SupplierName,
		arg.ContactInformation,
		arg.Barcode,
		arg.Location,
	)
	var productID int64
	err := row.Scan(&productID)
	return productID, err
}

const findProductByID = `-- name: FindProductByID :one
SELECT ` + productColumns + ` FROM products WHERE product_id = $1
`

func (q *Queries) FindProductByID(ctx context.Context, productID int64) (Product, error) {
	rows, err := q.db.Query(ctx, findProductByID, productID)
	if err != nil {
		return Product{}, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[Product])
}

const findAllProducts = `-- name: FindAllProducts :many
SELECT ` + productColumns + ` FROM products ORDER BY product_id
`

func (q *Queries) FindAllProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, findAllProducts)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Product])
}

const updateProduct = `-- name: UpdateProduct :execrows
UPDATE products
SET product_name = $2, category = $3, brand = $4, description = $5, unit_size = $6,
    supplier_id = $7, supplier_name = $8, contact_information = $9, barcode = $10, location = $11
WHERE product_id = $1
`

type UpdateProductParams struct {
	ProductID          int64   `json:"product_id"`
	ProductName        *string `json:"product_name"`
	Category           *string `json:"category"`
	Brand              *string `json:"brand"`
	Description        *string `json:"description"`
	UnitSize           *string `json:"unit_size"`
	SupplierID         *int64  `json:"supplier_id"`
	SupplierName       *string `json:"supplier_name"`
	ContactInformation *string `json:"contact_information"`
	Barcode            *string `json:"barcode"`
	Location           *string `json:"location"`
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateProduct,
		arg.ProductID,
		arg.ProductName,
		arg.Category,
		arg.Brand,
		arg.Description,
		arg.UnitSize,
		arg.SupplierID,
		arg.SupplierName,
		arg.ContactInformation,
		arg.Barcode,
		arg.Location,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteProduct = `-- name: DeleteProduct :execrows
DELETE FROM products WHERE product_id = $1
`

func (q *Queries) DeleteProduct(ctx context.Context, productID int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteProduct, productID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const searchProducts = `SELECT ` + productColumns + ` FROM products WHERE CAST(%s AS TEXT) = $1 ORDER BY product_id`

// SearchProducts matches column against value by text equality. column must be a trusted identifier;
// it is quoted but not validated here.
func (q *Queries) SearchProducts(ctx context.Context, column string, value string) ([]Product, error) {
	query := fmt.Sprintf(searchProducts, pgx.Identifier{column}.Sanitize())
	rows, err := q.db.Query(ctx, query, value)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Product])
}

package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const createStock = `-- name: CreateStock :exec
INSERT INTO stock (product_id) VALUES ($1)
`

func (q *Queries) CreateStock(ctx context.Context, productID int64) error {
	_, err := q.db.Exec(ctx, createStock, productID)
	return err
}

const findStockByProductID = `-- name: FindStockByProductID :one
SELECT product_id, amount, last_purchase, expiry_date FROM stock WHERE product_id = $1
`

func (q *Queries) FindStockByProductID(ctx context.Context, productID int64) (Stock, error) {
	row := q.db.QueryRow(ctx, findStockByProductID, productID)
	var i Stock
	err := row.Scan(
		&i.ProductID,
		&i.Amount,
		&i.LastPurchase,
		&i.ExpiryDate,
	)
	return i, err
}

const updateStock = `-- name: UpdateStock :execrows
UPDATE stock SET amount = $2, last_purchase = $3, expiry_date = $4 WHERE product_id = $1
`

type UpdateStockParams struct {
	ProductID    int64       `json:"product_id"`
	Amount       int32       `json:"amount"`
	LastPurchase pgtype.Date `json:"last_purchase"`
	ExpiryDate   pgtype.Date `json:"expiry_date"`
}

func (q *Queries) UpdateStock(ctx context.Context, arg UpdateStockParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateStock,
		arg.ProductID,
		arg.Amount,
		arg.LastPurchase,
		arg.ExpiryDate,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const findProductsWithoutStock = `-- name: FindProductsWithoutStock :many
SELECT p.product_id
FROM products p
LEFT JOIN stock s ON s.product_id = p.product_id
WHERE s.product_id IS NULL
ORDER BY p.product_id
`

func (q *Queries) FindProductsWithoutStock(ctx context.Context) ([]int64, error) {
	rows, err := q.db.Query(ctx, findProductsWithoutStock)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

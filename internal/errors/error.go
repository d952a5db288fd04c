// Package errors provides sentinel errors for inventory operations.
package errors

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrStockNotFound = errors.New("stock not found")
var ErrStockExists = errors.New("stock already exists for product")

var ErrInvalidSearchField = errors.New("invalid search field")
var ErrNegativeAmount = errors.New("stock amount must not be negative")
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

var ErrTransactionBegin = errors.New("failed to begin transaction")
var ErrTransactionCommit = errors.New("failed to commit transaction")
var ErrTransactionRollback = errors.New("failed to rollback transaction")

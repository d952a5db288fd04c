package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	ierrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/abgdnv/inventory/internal/store/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes the store maps to sentinels.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// PgStore implements InventoryStore using PostgreSQL as the data store.
type PgStore struct {
	db     *pgxpool.Pool
	q      *db.Queries
	logger *slog.Logger
}

// NewPgStore creates a new instance of InventoryStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool, logger *slog.Logger) *PgStore {
	return &PgStore{
		db:     dbp,
		q:      db.New(dbp),
		logger: logger.With("component", "store"),
	}
}

func (p *PgStore) CreateProduct(ctx context.Context, params *db.CreateProductParams) (int64, error) {
	id, err := p.q.CreateProduct(ctx, *params)
	if err != nil {
		return 0, p.persistenceError(ctx, "failed to create product", err)
	}
	return id, nil
}

func (p *PgStore) CreateStock(ctx context.Context, productID int64) error {
	err := createStock(ctx, p.q, productID)
	if err != nil && !errors.Is(err, ierrors.ErrStockExists) && !errors.Is(err, ierrors.ErrProductNotFound) {
		p.logger.ErrorContext(ctx, "Stock insert failed", "product_id", productID, "error", err)
	}
	return err
}

func createStock(ctx context.Context, q *db.Queries, productID int64) error {
	err := q.CreateStock(ctx, productID)
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ierrors.ErrStockExists
		case pgForeignKeyViolation:
			return ierrors.ErrProductNotFound
		}
	}
	return fmt.Errorf("failed to create stock: %w", err)
}

func (p *PgStore) CreateProductWithStock(ctx context.Context, params *db.CreateProductParams) (int64, error) {
	var id int64
	txErr := p.withTransaction(ctx, func(qtx *db.Queries) error {
		var err error
		id, err = qtx.CreateProduct(ctx, *params)
		if err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return createStock(ctx, qtx, id)
	})
	if txErr != nil {
		p.logger.ErrorContext(ctx, "Failed to create product with stock", "error", txErr)
		return 0, txErr
	}
	return id, nil
}

func (p *PgStore) FindProductByID(ctx context.Context, id int64) (*db.Product, error) {
	product, err := p.q.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ierrors.ErrProductNotFound
		}
		return nil, p.persistenceError(ctx, "failed to find product by ID", err)
	}
	return &product, nil
}

func (p *PgStore) FindAllProducts(ctx context.Context) ([]db.Product, error) {
	products, err := p.q.FindAllProducts(ctx)
	if err != nil {
		return nil, p.persistenceError(ctx, "failed to find all products", err)
	}
	return products, nil
}

func (p *PgStore) UpdateProduct(ctx context.Context, params *db.UpdateProductParams) (int64, error) {
	affected, err := p.q.UpdateProduct(ctx, *params)
	if err != nil {
		return 0, p.persistenceError(ctx, "failed to update product", err)
	}
	if affected == 0 {
		return 0, ierrors.ErrProductNotFound
	}
	return affected, nil
}

// DeleteProduct relies on ON DELETE CASCADE to remove the stock row in the same statement.
func (p *PgStore) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	affected, err := p.q.DeleteProduct(ctx, id)
	if err != nil {
		return 0, p.persistenceError(ctx, "failed to delete product", err)
	}
	if affected == 0 {
		return 0, ierrors.ErrProductNotFound
	}
	return affected, nil
}

func (p *PgStore) SearchProducts(ctx context.Context, field SearchField, value string) ([]db.Product, error) {
	column, ok := field.Column()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ierrors.ErrInvalidSearchField, string(field))
	}
	products, err := p.q.SearchProducts(ctx, column, value)
	if err != nil {
		return nil, p.persistenceError(ctx, "failed to search products", err)
	}
	if len(products) == 0 {
		return nil, ierrors.ErrProductNotFound
	}
	return products, nil
}

func (p *PgStore) FindStockByProductID(ctx context.Context, productID int64) (*db.Stock, error) {
	stock, err := p.q.FindStockByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ierrors.ErrStockNotFound
		}
		return nil, p.persistenceError(ctx, "failed to find stock", err)
	}
	return &stock, nil
}

func (p *PgStore) UpdateStock(ctx context.Context, params *db.UpdateStockParams) (int64, error) {
	if params.Amount < 0 {
		return 0, ierrors.ErrNegativeAmount
	}
	affected, err := p.q.UpdateStock(ctx, *params)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation {
			return 0, ierrors.ErrNegativeAmount
		}
		return 0, p.persistenceError(ctx, "failed to update stock", err)
	}
	if affected == 0 {
		return 0, ierrors.ErrStockNotFound
	}
	return affected, nil
}

func (p *PgStore) FindProductsWithoutStock(ctx context.Context) ([]int64, error) {
	ids, err := p.q.FindProductsWithoutStock(ctx)
	if err != nil {
		return nil, p.persistenceError(ctx, "failed to find products without stock", err)
	}
	return ids, nil
}

func (p *PgStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// persistenceError logs the failed operation and wraps err for the caller.
func (p *PgStore) persistenceError(ctx context.Context, op string, err error) error {
	p.logger.ErrorContext(ctx, "Database operation failed", "operation", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(qtx *db.Queries) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return ierrors.ErrTransactionBegin
	}
	qtx := p.q.WithTx(tx)

	err = fn(qtx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			p.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", rbErr, "cause", err)
			return errors.Join(ierrors.ErrTransactionRollback, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		p.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return ierrors.ErrTransactionCommit
	}

	return nil
}

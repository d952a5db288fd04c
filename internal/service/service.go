// Package service provides the implementation of inventory business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ierrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/abgdnv/inventory/internal/store"
	"github.com/abgdnv/inventory/internal/store/db"
	"github.com/abgdnv/inventory/pkg/messaging"
	"github.com/abgdnv/inventory/pkg/messaging/events"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// DateLayout is the wire format of stock dates.
const DateLayout = "2006-01-02"

// InventoryService defines the methods for managing products and their stock.
type InventoryService interface {
	// Create adds a product together with its zeroed stock row and returns the new id.
	Create(ctx context.Context, product ProductCreateDto) (int64, error)

	// FindByID returns ErrProductNotFound if no product exists with the given id.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// FindAll returns all products, or an empty slice.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Search returns products whose filter attribute equals value.
	// Returns ErrInvalidSearchField for unknown attributes and ErrProductNotFound when nothing matches.
	Search(ctx context.Context, filter, value string) ([]ProductDto, error)

	// Update replaces every attribute of the product and returns the affected row count.
	Update(ctx context.Context, product ProductDto) (int64, error)

	// Delete removes the product and its stock and returns the affected row count.
	Delete(ctx context.Context, id int64) (int64, error)

	// FindStock returns ErrStockNotFound if the product has no stock row.
	FindStock(ctx context.Context, productID int64) (*StockDto, error)

	// UpdateStock replaces amount and dates and returns the stored stock.
	UpdateStock(ctx context.Context, stock StockDto) (*StockDto, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// Service implements InventoryService.
type Service struct {
	repository      store.InventoryStore
	publisher       messaging.Publisher
	productsCounter metric.Int64Counter
	stockCounter    metric.Int64Counter
}

// NewService creates a new instance of InventoryService with the provided repository and publisher.
func NewService(repo store.InventoryStore, publisher messaging.Publisher) *Service {
	meter := otel.Meter("inventory-service")
	productsCounter, err := meter.Int64Counter("inventory.products.created", metric.WithDescription("Total number of created products"))
	if err != nil {
		panic(fmt.Sprintf("failed to create inventory.products.created counter: %v", err))
	}
	stockCounter, err := meter.Int64Counter("inventory.stock.updated", metric.WithDescription("Total number of stock updates"))
	if err != nil {
		panic(fmt.Sprintf("failed to create inventory.stock.updated counter: %v", err))
	}
	return &Service{
		repository:      repo,
		publisher:       publisher,
		productsCounter: productsCounter,
		stockCounter:    stockCounter,
	}
}

// ProductCreateDto represents the data transfer object for creating a product.
type ProductCreateDto struct {
	ProductName        *string `json:"ProductName"        validate:"omitnil,max=255"`
	Category           *string `json:"Category"           validate:"omitnil,max=255"`
	Brand              *string `json:"Brand"              validate:"omitnil,max=255"`
	Description        *string `json:"Description"        validate:"omitnil,max=2000"`
	UnitSize           *string `json:"UnitSize"           validate:"omitnil,max=64"`
	SupplierID         *int64  `json:"SupplierID"         validate:"omitnil,gte=0"`
	SupplierName       *string `json:"SupplierName"       validate:"omitnil,max=255"`
	ContactInformation *string `json:"ContactInformation" validate:"omitnil,max=255"`
	Barcode            *string `json:"Barcode"            validate:"omitnil,max=64"`
	Location           *string `json:"Location"           validate:"omitnil,max=255"`
}

// ProductDto represents a stored product. Nil attributes have no value.
type ProductDto struct {
	ProductID          int64   `json:"ProductID"`
	ProductName        *string `json:"ProductName"        validate:"omitnil,max=255"`
	Category           *string `json:"Category"           validate:"omitnil,max=255"`
	Brand              *string `json:"Brand"              validate:"omitnil,max=255"`
	Description        *string `json:"Description"        validate:"omitnil,max=2000"`
	UnitSize           *string `json:"UnitSize"           validate:"omitnil,max=64"`
	SupplierID         *int64  `json:"SupplierID"         validate:"omitnil,gte=0"`
	SupplierName       *string `json:"SupplierName"       validate:"omitnil,max=255"`
	ContactInformation *string `json:"ContactInformation" validate:"omitnil,max=255"`
	Barcode            *string `json:"Barcode"            validate:"omitnil,max=64"`
	Location           *string `json:"Location"           validate:"omitnil,max=255"`
}

// StockDto represents the stock of one product. Empty dates have no value.
type StockDto struct {
	ProductID    int64  `json:"ProductID"    validate:"gt=0"`
	Amount       int32  `json:"Amount"       validate:"gte=0"`
	LastPurchase string `json:"LastPurchase" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate   string `json:"ExpiryDate"   validate:"omitempty,datetime=2006-01-02"`
}

func (s *Service) Create(ctx context.Context, product ProductCreateDto) (int64, error) {
	id, err := s.repository.CreateProductWithStock(ctx, &db.CreateProductParams{
		ProductName:        product.ProductName,
		Category:           product.Category,
		Brand:              product.Brand,
		Description:        product.Description,
		UnitSize:           product.UnitSize,
		SupplierID:         product.SupplierID,
		SupplierName:       product.SupplierName,
		ContactInformation: product.ContactInformation,
		Barcode:            product.Barcode,
		Location:           product.Location,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}

	s.publish(ctx, events.NewProductCreated(id, carrierFrom(ctx)))
	s.productsCounter.Add(ctx, 1)

	return id, nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.repository.FindProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return toDto(product), nil
}

func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return toDtos(products), nil
}

func (s *Service) Search(ctx context.Context, filter, value string) ([]ProductDto, error) {
	field, err := store.ParseSearchField(filter)
	if err != nil {
		return nil, err
	}
	products, err := s.repository.SearchProducts(ctx, field, value)
	if err != nil {
		return nil, fmt.Errorf("failed to search products by %s: %w", filter, err)
	}
	return toDtos(products), nil
}

func (s *Service) Update(ctx context.Context, product ProductDto) (int64, error) {
	affected, err := s.repository.UpdateProduct(ctx, &db.UpdateProductParams{
		ProductID:          product.ProductID,
		ProductName:        product.ProductName,
		Category:           product.Category,
		Brand:              product.Brand,
		Description:        product.Description,
		UnitSize:           product.UnitSize,
		SupplierID:         product.SupplierID,
		SupplierName:       product.SupplierName,
		ContactInformation: product.ContactInformation,
		Barcode:            product.Barcode,
		Location:           product.Location,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update product with ID %d: %w", product.ProductID, err)
	}

	s.publish(ctx, events.NewProductUpdated(product.ProductID, carrierFrom(ctx)))
	return affected, nil
}

func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	affected, err := s.repository.DeleteProduct(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}

	s.publish(ctx, events.NewProductDeleted(id, carrierFrom(ctx)))
	return affected, nil
}

func (s *Service) FindStock(ctx context.Context, productID int64) (*StockDto, error) {
	stock, err := s.repository.FindStockByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stock for product %d: %w", productID, err)
	}
	return toStockDto(stock), nil
}

func (s *Service) UpdateStock(ctx context.Context, stock StockDto) (*StockDto, error) {
	if stock.Amount < 0 {
		return nil, ierrors.ErrNegativeAmount
	}
	lastPurchase, err := parseDate(stock.LastPurchase)
	if err != nil {
		return nil, err
	}
	expiryDate, err := parseDate(stock.ExpiryDate)
	if err != nil {
		return nil, err
	}

	params := &db.UpdateStockParams{
		ProductID:    stock.ProductID,
		Amount:       stock.Amount,
		LastPurchase: lastPurchase,
		ExpiryDate:   expiryDate,
	}
	if _, err = s.repository.UpdateStock(ctx, params); err != nil {
		return nil, fmt.Errorf("failed to update stock for product %d: %w", stock.ProductID, err)
	}

	updated := toStockDto((*db.Stock)(params))
	s.publish(ctx, events.StockUpdatedEvent{
		Carrier:      carrierFrom(ctx),
		ProductID:    updated.ProductID,
		Amount:       updated.Amount,
		LastPurchase: updated.LastPurchase,
		ExpiryDate:   updated.ExpiryDate,
		OccurredAt:   time.Now().UTC(),
	})
	s.stockCounter.Add(ctx, 1)

	return updated, nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repository.Ping(ctx)
}

// publish sends the event and logs a failure; the write it describes has already succeeded.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event", "subject", event.Subject(), "error", err)
	}
}

func carrierFrom(ctx context.Context) propagation.MapCarrier {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier
}

// parseDate maps "" to NULL and anything else to a DATE in DateLayout.
func parseDate(value string) (pgtype.Date, error) {
	if value == "" {
		return pgtype.Date{}, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return pgtype.Date{}, fmt.Errorf("%w: %q", ierrors.ErrInvalidDate, value)
	}
	return pgtype.Date{Time: t, Valid: true}, nil
}

func formatDate(d pgtype.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(DateLayout)
}

func toDto(product *db.Product) *ProductDto {
	return &ProductDto{
		ProductID:          product.ProductID,
		ProductName:        product.ProductName,
		Category:           product.Category,
		Brand:              product.Brand,
		Description:        product.Description,
		UnitSize:           product.UnitSize,
		SupplierID:         product.SupplierID,
		SupplierName:       product.SupplierName,
		ContactInformation: product.ContactInformation,
		Barcode:            product.Barcode,
		Location:           product.Location,
	}
}

func toDtos(products []db.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i, item := range products {
		dtos[i] = *toDto(&item)
	}
	return dtos
}

func toStockDto(stock *db.Stock) *StockDto {
	return &StockDto{
		ProductID:    stock.ProductID,
		Amount:       stock.Amount,
		LastPurchase: formatDate(stock.LastPurchase),
		ExpiryDate:   formatDate(stock.ExpiryDate),
	}
}

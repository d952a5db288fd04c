package service

import (
	"context"
	"errors"
	"testing"
	"time"

	ierrors "github.com/abgdnv/inventory/internal/errors"
	"github.com/abgdnv/inventory/internal/store"
	"github.com/abgdnv/inventory/internal/store/db"
	"github.com/abgdnv/inventory/pkg/messaging"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// mockInventoryStore is a mock implementation of the InventoryStore interface.
type mockInventoryStore struct {
	product      db.Product
	products     []db.Product
	stock        db.Stock
	id           int64
	affected     int64
	error        error
	searchField  store.SearchField
	updatedStock *db.UpdateStockParams
}

func (m *mockInventoryStore) CreateProduct(_ context.Context, _ *db.CreateProductParams) (int64, error) {
	return m.id, m.error
}

func (m *mockInventoryStore) CreateStock(_ context.Context, _ int64) error {
	return m.error
}

func (m *mockInventoryStore) CreateProductWithStock(_ context.Context, _ *db.CreateProductParams) (int64, error) {
	return m.id, m.error
}

func (m *mockInventoryStore) FindProductByID(_ context.Context, _ int64) (*db.Product, error) {
	return &m.product, m.error
}

func (m *mockInventoryStore) FindAllProducts(_ context.Context) ([]db.Product, error) {
	return m.products, m.error
}

func (m *mockInventoryStore) UpdateProduct(_ context.Context, _ *db.UpdateProductParams) (int64, error) {
	return m.affected, m.error
}

func (m *mockInventoryStore) DeleteProduct(_ context.Context, _ int64) (int64, error) {
	return m.affected, m.error
}

func (m *mockInventoryStore) SearchProducts(_ context.Context, field store.SearchField, _ string) ([]db.Product, error) {
	m.searchField = field
	return m.products, m.error
}

func (m *mockInventoryStore) FindStockByProductID(_ context.Context, _ int64) (*db.Stock, error) {
	return &m.stock, m.error
}

func (m *mockInventoryStore) UpdateStock(_ context.Context, params *db.UpdateStockParams) (int64, error) {
	m.updatedStock = params
	return m.affected, m.error
}

func (m *mockInventoryStore) FindProductsWithoutStock(_ context.Context) ([]int64, error) {
	return nil, m.error
}

func (m *mockInventoryStore) Ping(_ context.Context) error {
	return m.error
}

// recordingPublisher keeps published subjects.
type recordingPublisher struct {
	subjects []string
	error    error
}

func (p *recordingPublisher) Publish(_ context.Context, event messaging.Event) error {
	p.subjects = append(p.subjects, event.Subject())
	return p.error
}

func strPtr(s string) *string { return &s }

func Test_InventoryService_Create(t *testing.T) {
	ErrStore := errors.New("store error")
	testCases := []struct {
		name        string
		mockStore   *mockInventoryStore
		publisher   *recordingPublisher
		expectedID  int64
		subjects    []string
		expectError error
	}{
		{
			name:       "Success - product created",
			mockStore:  &mockInventoryStore{id: 5},
			publisher:  &recordingPublisher{},
			expectedID: 5,
			subjects:   []string{messaging.ProductCreatedSubject},
		},
		{
			name:       "Success - publish failure does not fail the write",
			mockStore:  &mockInventoryStore{id: 6},
			publisher:  &recordingPublisher{error: errors.New("broker down")},
			expectedID: 6,
			subjects:   []string{messaging.ProductCreatedSubject},
		},
		{
			name:        "Error - store error",
			mockStore:   &mockInventoryStore{error: ErrStore},
			publisher:   &recordingPublisher{},
			expectError: ErrStore,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewService(tc.mockStore, tc.publisher)
			// when
			id, err := service.Create(context.Background(), ProductCreateDto{ProductName: strPtr("Tea")})
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Empty(t, tc.publisher.subjects, "no event for a failed write")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedID, id)
			assert.Equal(t, tc.subjects, tc.publisher.subjects)
		})
	}
}

func Test_InventoryService_FindByID(t *testing.T) {
	testCases := []struct {
		name        string
		mockStore   *mockInventoryStore
		expected    *ProductDto
		expectError error
	}{
		{
			name:      "Success - product found",
			mockStore: &mockInventoryStore{product: db.Product{ProductID: 3, ProductName: strPtr("Tea")}},
			expected:  &ProductDto{ProductID: 3, ProductName: strPtr("Tea")},
		},
		{
			name:        "Error - product not found",
			mockStore:   &mockInventoryStore{error: ierrors.ErrProductNotFound},
			expectError: ierrors.ErrProductNotFound,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service := NewService(tc.mockStore, messaging.NoopPublisher{})

			found, err := service.FindByID(context.Background(), 3)

			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_InventoryService_FindAll(t *testing.T) {
	testCases := []struct {
		name        string
		mockStore   *mockInventoryStore
		expected    []ProductDto
		expectError bool
	}{
		{
			name:      "Success - products found",
			mockStore: &mockInventoryStore{products: []db.Product{{ProductID: 1}, {ProductID: 2}}},
			expected:  []ProductDto{{ProductID: 1}, {ProductID: 2}},
		},
		{
			name:      "Success - no products",
			mockStore: &mockInventoryStore{products: []db.Product{}},
			expected:  []ProductDto{},
		},
		{
			name:        "Error - store error",
			mockStore:   &mockInventoryStore{error: errors.New("store error")},
			expectError: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service := NewService(tc.mockStore, messaging.NoopPublisher{})

			list, err := service.FindAll(context.Background())

			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, list)
		})
	}
}

func Test_InventoryService_Search(t *testing.T) {
	testCases := []struct {
		name        string
		filter      string
		mockStore   *mockInventoryStore
		field       store.SearchField
		expectError error
	}{
		{
			name:      "Success - allow-listed field",
			filter:    "Brand",
			mockStore: &mockInventoryStore{products: []db.Product{{ProductID: 1}}},
			field:     store.SearchBrand,
		},
		{
			name:        "Error - field not allowed",
			filter:      "brand; DROP TABLE products",
			mockStore:   &mockInventoryStore{},
			expectError: ierrors.ErrInvalidSearchField,
		},
		{
			name:        "Error - nothing matches",
			filter:      "Brand",
			mockStore:   &mockInventoryStore{error: ierrors.ErrProductNotFound},
			field:       store.SearchBrand,
			expectError: ierrors.ErrProductNotFound,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service := NewService(tc.mockStore, messaging.NoopPublisher{})

			list, err := service.Search(context.Background(), tc.filter, "Acme")

			assert.Equal(t, tc.field, tc.mockStore.searchField)
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
			assert.Len(t, list, 1)
		})
	}
}

func Test_InventoryService_UpdateAndDelete(t *testing.T) {
	t.Run("Success - update publishes event", func(t *testing.T) {
		publisher := &recordingPublisher{}
		service := NewService(&mockInventoryStore{affected: 1}, publisher)

		affected, err := service.Update(context.Background(), ProductDto{ProductID: 1})

		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
		assert.Equal(t, []string{messaging.ProductUpdatedSubject}, publisher.subjects)
	})
	t.Run("Error - update of missing product", func(t *testing.T) {
		publisher := &recordingPublisher{}
		service := NewService(&mockInventoryStore{error: ierrors.ErrProductNotFound}, publisher)

		_, err := service.Update(context.Background(), ProductDto{ProductID: 1})

		assert.ErrorIs(t, err, ierrors.ErrProductNotFound)
		assert.Empty(t, publisher.subjects)
	})
	t.Run("Success - delete publishes event", func(t *testing.T) {
		publisher := &recordingPublisher{}
		service := NewService(&mockInventoryStore{affected: 1}, publisher)

		affected, err := service.Delete(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
		assert.Equal(t, []string{messaging.ProductDeletedSubject}, publisher.subjects)
	})
	t.Run("Error - delete of missing product", func(t *testing.T) {
		service := NewService(&mockInventoryStore{error: ierrors.ErrProductNotFound}, messaging.NoopPublisher{})

		_, err := service.Delete(context.Background(), 1)

		assert.ErrorIs(t, err, ierrors.ErrProductNotFound)
	})
}

func Test_InventoryService_FindStock(t *testing.T) {
	mockStore := &mockInventoryStore{stock: db.Stock{
		ProductID:    4,
		Amount:       12,
		LastPurchase: pgtype.Date{Time: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC), Valid: true},
	}}
	service := NewService(mockStore, messaging.NoopPublisher{})

	stock, err := service.FindStock(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, &StockDto{ProductID: 4, Amount: 12, LastPurchase: "2024-05-02", ExpiryDate: ""}, stock)
}

func Test_InventoryService_UpdateStock(t *testing.T) {
	testCases := []struct {
		name        string
		input       StockDto
		mockStore   *mockInventoryStore
		expected    *StockDto
		expectError error
	}{
		{
			name:      "Success - dates stored",
			input:     StockDto{ProductID: 1, Amount: 20, LastPurchase: "2024-01-10", ExpiryDate: "2024-03-01"},
			mockStore: &mockInventoryStore{affected: 1},
			expected:  &StockDto{ProductID: 1, Amount: 20, LastPurchase: "2024-01-10", ExpiryDate: "2024-03-01"},
		},
		{
			name:      "Success - empty dates mean no value",
			input:     StockDto{ProductID: 1, Amount: 0},
			mockStore: &mockInventoryStore{affected: 1},
			expected:  &StockDto{ProductID: 1, Amount: 0},
		},
		{
			name:        "Error - negative amount",
			input:       StockDto{ProductID: 1, Amount: -1},
			mockStore:   &mockInventoryStore{},
			expectError: ierrors.ErrNegativeAmount,
		},
		{
			name:        "Error - invalid date",
			input:       StockDto{ProductID: 1, Amount: 1, ExpiryDate: "01/03/2024"},
			mockStore:   &mockInventoryStore{},
			expectError: ierrors.ErrInvalidDate,
		},
		{
			name:        "Error - stock not found",
			input:       StockDto{ProductID: 9, Amount: 1},
			mockStore:   &mockInventoryStore{error: ierrors.ErrStockNotFound},
			expectError: ierrors.ErrStockNotFound,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			publisher := &recordingPublisher{}
			service := NewService(tc.mockStore, publisher)

			stock, err := service.UpdateStock(context.Background(), tc.input)

			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, stock)
				assert.Empty(t, publisher.subjects)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, stock)
			assert.Equal(t, []string{messaging.StockUpdatedSubject}, publisher.subjects)
			require.NotNil(t, tc.mockStore.updatedStock)
			assert.Equal(t, tc.input.LastPurchase != "", tc.mockStore.updatedStock.LastPurchase.Valid)
		})
	}
}

func Test_InventoryService_Counters(t *testing.T) {
	// given
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	service := NewService(&mockInventoryStore{id: 1, affected: 1}, messaging.NoopPublisher{})

	// when
	_, err := service.Create(context.Background(), ProductCreateDto{})
	require.NoError(t, err)
	_, err = service.UpdateStock(context.Background(), StockDto{ProductID: 1, Amount: 3})
	require.NoError(t, err)
	_, err = service.UpdateStock(context.Background(), StockDto{ProductID: 1, Amount: 4})
	require.NoError(t, err)

	// then
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	assert.Equal(t, int64(1), counterValue(t, rm, "inventory.products.created"))
	assert.Equal(t, int64(2), counterValue(t, rm, "inventory.stock.updated"))
}

func counterValue(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			require.Len(t, sum.DataPoints, 1)
			return sum.DataPoints[0].Value
		}
	}
	t.Fatalf("metric %s not collected", name)
	return 0
}

func Test_parseDate(t *testing.T) {
	d, err := parseDate("")
	require.NoError(t, err)
	assert.False(t, d.Valid)

	d, err = parseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", formatDate(d))

	_, err = parseDate("2023-02-29")
	assert.ErrorIs(t, err, ierrors.ErrInvalidDate)
}

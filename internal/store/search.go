package store

import (
	"fmt"

	ierrors "github.com/abgdnv/inventory/internal/errors"
)

// SearchField is a product attribute that can be used as a search filter.
type SearchField string

const (
	SearchProductID          SearchField = "ProductID"
	SearchProductName        SearchField = "ProductName"
	SearchCategory           SearchField = "Category"
	SearchBrand              SearchField = "Brand"
	SearchDescription        SearchField = "Description"
	SearchUnitSize           SearchField = "UnitSize"
	SearchSupplierID         SearchField = "SupplierID"
	SearchSupplierName       SearchField = "SupplierName"
	SearchContactInformation SearchField = "ContactInformation"
	SearchBarcode            SearchField = "Barcode"
	SearchLocation           SearchField = "Location"
)

var searchColumns = map[SearchField]string{
	SearchProductID:          "product_id",
	SearchProductName:        "product_name",
	SearchCategory:           "category",
	SearchBrand:              "brand",
	SearchDescription:        "description",
	SearchUnitSize:           "unit_size",
	SearchSupplierID:         "supplier_id",
	SearchSupplierName:       "supplier_name",
	SearchContactInformation: "contact_information",
	SearchBarcode:            "barcode",
	SearchLocation:           "location",
}

// ParseSearchField accepts only the attribute names listed above.
func ParseSearchField(name string) (SearchField, error) {
	f := SearchField(name)
	if _, ok := searchColumns[f]; !ok {
		return "", fmt.Errorf("%w: %q", ierrors.ErrInvalidSearchField, name)
	}
	return f, nil
}

// Column returns the database column backing the field, or false for unknown fields.
func (f SearchField) Column() (string, bool) {
	c, ok := searchColumns[f]
	return c, ok
}

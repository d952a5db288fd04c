// Package fields checks that decoded request bodies carry the attributes an operation requires.
package fields

// Required attribute sets per operation.
var (
	CreateProduct = []string{
		"ProductName", "Category", "Brand", "Description", "UnitSize",
		"SupplierID", "SupplierName", "ContactInformation", "Location",
	}
	UpdateProduct = CreateProduct
	Search        = []string{"filter", "filterValue"}
	UpdateStock   = []string{"ProductID", "Amount", "LastPurchase", "ExpiryDate"}
)

// HasRequired reports whether every name is present as a key in record.
// Presence is all that is checked: a key holding null or "" counts as present.
func HasRequired(record map[string]any, names ...string) bool {
	for _, name := range names {
		if _, ok := record[name]; !ok {
			return false
		}
	}
	return true
}

// Missing returns the names absent from record, in the order given.
func Missing(record map[string]any, names ...string) []string {
	var missing []string
	for _, name := range names {
		if _, ok := record[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Product struct {
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

type Stock struct {
	ProductID    int64       `json:"product_id"`
	Amount       int32       `json:"amount"`
	LastPurchase pgtype.Date `json:"last_purchase"`
	ExpiryDate   pgtype.Date `json:"expiry_date"`
}
